package dot

import (
	"context"
	"strings"
	"testing"

	"github.com/paulmach/orb"

	"github.com/matzehuels/octigrid/pkg/render"
)

func sampleDrawing() *render.Drawing {
	return &render.Drawing{
		Bound:    orb.Bound{Min: orb.Point{-10, -10}, Max: orb.Point{40, 30}},
		CellSize: 10,
		Stations: []render.Station{
			{ID: "a", Name: "Alpha", Pos: orb.Point{0, 0}},
			{ID: "b", Name: "Beta", Pos: orb.Point{20, 0}},
			{ID: "c", Name: "Gamma", Pos: orb.Point{30, 10}},
		},
		Segments: []render.Segment{
			{ID: "a-b", From: "a", To: "b", Lines: []string{"S1", "S2"}, Geom: orb.LineString{{0, 0}, {20, 0}}},
			{ID: "b-c", From: "b", To: "c", Lines: []string{"S2"}, Geom: orb.LineString{{20, 0}, {30, 10}}},
			{ID: "a-c", From: "a", To: "c", Geom: orb.LineString{{0, 0}, {10, 10}, {30, 10}}},
		},
		Lines: []render.Line{{Name: "S1", Color: render.Palette[0]}, {Name: "S2", Color: render.Palette[1]}},
	}
}

func TestToDOT(t *testing.T) {
	src, err := ToDOT(sampleDrawing(), Options{Labels: true})
	if err != nil {
		t.Fatalf("ToDOT: %v", err)
	}

	for _, want := range []string{
		`"s:a"`,
		`"36.00,36.00!"`,
		`"a-c.1"`,
		`"#e41a1c:#377eb8"`,
		`xlabel="Gamma"`,
	} {
		if !strings.Contains(src, want) {
			t.Errorf("DOT missing %s:\n%s", want, src)
		}
	}
	// One edge per polyline leg.
	if n := strings.Count(src, "--"); n != 4 {
		t.Errorf("edges = %d, want 4", n)
	}
}

func TestToDOTGrid(t *testing.T) {
	d := sampleDrawing()
	d.Grid = []orb.LineString{{{0, 0}, {10, 0}}, {{0, 0}, {0, 10}}}

	with, err := ToDOT(d, Options{Grid: true})
	if err != nil {
		t.Fatal(err)
	}
	without, err := ToDOT(d, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if strings.Count(with, "--")-strings.Count(without, "--") != 2 {
		t.Error("grid edges not drawn")
	}
	if strings.Contains(without, "xlabel") {
		t.Error("labels drawn without Labels option")
	}
}

func TestRenderSVG(t *testing.T) {
	src, err := ToDOT(sampleDrawing(), Options{})
	if err != nil {
		t.Fatal(err)
	}
	svg, err := RenderSVG(context.Background(), src)
	if err != nil {
		t.Fatalf("RenderSVG: %v", err)
	}
	s := string(svg)
	if !strings.Contains(s, "<svg") || !strings.Contains(s, `viewBox="0 0 `) {
		t.Errorf("unexpected SVG header: %.200s", s)
	}
}

func TestRenderSVGInvalid(t *testing.T) {
	if _, err := RenderSVG(context.Background(), "graph {"); err == nil {
		t.Error("expected parse error")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="10pt" height="20pt" viewBox="0.00 0.00 10.00 20.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))
	if !strings.HasPrefix(out, `<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" viewBox="0 0 10.00 20.00" width="10" height="20">`) {
		t.Errorf("normalizeViewBox = %s", out)
	}
	if got := normalizeViewBox([]byte("<svg/>")); string(got) != "<svg/>" {
		t.Error("svg without viewBox changed")
	}
}
