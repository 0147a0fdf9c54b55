package dot

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/awalterschulze/gographviz"
	"github.com/goccy/go-graphviz"
	"github.com/paulmach/orb"

	"github.com/matzehuels/octigrid/pkg/render"
)

// DefaultCellPoints is the default rendered size of one lattice cell.
const DefaultCellPoints = 36.0

// Options configures DOT generation.
type Options struct {
	// CellPoints is the size of one lattice cell in points. Default 36.
	CellPoints float64

	// Labels adds station names as external labels.
	Labels bool

	// Grid draws the lattice grid of the drawing, if it has one.
	Grid bool
}

// ToDOT converts a drawing to Graphviz DOT source with pinned positions.
func ToDOT(d *render.Drawing, opts Options) (string, error) {
	if opts.CellPoints <= 0 {
		opts.CellPoints = DefaultCellPoints
	}
	b := &builder{
		g:     gographviz.NewGraph(),
		d:     d,
		scale: opts.CellPoints / d.CellSize,
	}
	if err := b.header(); err != nil {
		return "", err
	}
	if opts.Grid {
		if err := b.grid(); err != nil {
			return "", err
		}
	}
	if err := b.stations(opts.Labels); err != nil {
		return "", err
	}
	if err := b.segments(); err != nil {
		return "", err
	}
	return b.g.String(), nil
}

type builder struct {
	g     *gographviz.Graph
	d     *render.Drawing
	scale float64
}

func (b *builder) header() error {
	if err := b.g.SetName("G"); err != nil {
		return err
	}
	if err := b.g.SetDir(false); err != nil {
		return err
	}
	for _, kv := range [][2]string{
		{"bgcolor", "transparent"},
		{"splines", "false"},
		{"outputorder", "edgesfirst"},
		{"inputscale", "72"},
	} {
		if err := b.g.AddAttr("G", kv[0], kv[1]); err != nil {
			return fmt.Errorf("graph attr %s: %w", kv[0], err)
		}
	}
	return nil
}

func (b *builder) grid() error {
	for i, ls := range b.d.Grid {
		from := quote(fmt.Sprintf("g%d.0", i))
		to := quote(fmt.Sprintf("g%d.1", i))
		if err := b.point(from, ls[0]); err != nil {
			return err
		}
		if err := b.point(to, ls[len(ls)-1]); err != nil {
			return err
		}
		if err := b.g.AddEdge(from, to, false, map[string]string{
			"color":    quote("#dddddd"),
			"penwidth": "0.5",
		}); err != nil {
			return fmt.Errorf("grid edge: %w", err)
		}
	}
	return nil
}

func (b *builder) stations(labels bool) error {
	for _, s := range b.d.Stations {
		attrs := map[string]string{
			"pos":       b.pos(s.Pos),
			"shape":     "circle",
			"width":     "0.18",
			"fixedsize": "true",
			"style":     "filled",
			"fillcolor": "white",
			"penwidth":  "2",
			"label":     quote(""),
			"tooltip":   quote(s.Name),
		}
		if labels {
			attrs["xlabel"] = quote(s.Name)
			attrs["fontsize"] = "10"
		}
		if err := b.g.AddNode("G", stationName(s.ID), attrs); err != nil {
			return fmt.Errorf("station %s: %w", s.ID, err)
		}
	}
	return nil
}

func (b *builder) segments() error {
	for _, seg := range b.d.Segments {
		names := make([]string, len(seg.Geom))
		names[0] = stationName(seg.From)
		names[len(names)-1] = stationName(seg.To)
		for i := 1; i < len(seg.Geom)-1; i++ {
			names[i] = quote(fmt.Sprintf("%s.%d", seg.ID, i))
			if err := b.point(names[i], seg.Geom[i]); err != nil {
				return err
			}
		}

		attrs := map[string]string{
			"color":    quote(b.colors(seg.Lines)),
			"penwidth": "3",
			"tooltip":  quote(seg.ID),
		}
		for i := 1; i < len(names); i++ {
			if err := b.g.AddEdge(names[i-1], names[i], false, attrs); err != nil {
				return fmt.Errorf("segment %s: %w", seg.ID, err)
			}
		}
	}
	return nil
}

func (b *builder) point(name string, p orb.Point) error {
	if b.g.IsNode(name) {
		return nil
	}
	err := b.g.AddNode("G", name, map[string]string{
		"pos":   b.pos(p),
		"shape": "point",
		"width": "0.01",
		"label": quote(""),
	})
	if err != nil {
		return fmt.Errorf("point %s: %w", name, err)
	}
	return nil
}

func (b *builder) pos(p orb.Point) string {
	x := (p[0] - b.d.Bound.Min[0]) * b.scale
	y := (p[1] - b.d.Bound.Min[1]) * b.scale
	return quote(strconv.FormatFloat(x, 'f', 2, 64) + "," + strconv.FormatFloat(y, 'f', 2, 64) + "!")
}

func (b *builder) colors(lines []string) string {
	if len(lines) == 0 {
		return "black"
	}
	cs := make([]string, len(lines))
	for i, l := range lines {
		cs[i] = b.d.Color(l)
	}
	return strings.Join(cs, ":")
}

func stationName(id string) string { return quote("s:" + id) }

func quote(s string) string { return strconv.Quote(s) }

// RenderSVG lays out DOT source with neato and renders it to SVG.
func RenderSVG(ctx context.Context, src string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(src))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces the Graphviz root element with one that scales
// with its container.
func normalizeViewBox(svg []byte) []byte {
	m := viewBoxRe.FindSubmatch(svg)
	if m == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(m[3]), 64)
	h, _ := strconv.ParseFloat(string(m[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}
	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
