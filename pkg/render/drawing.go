package render

import (
	"maps"
	"slices"

	"github.com/paulmach/orb"

	"github.com/matzehuels/octigrid/pkg/compass"
	"github.com/matzehuels/octigrid/pkg/lattice"
	"github.com/matzehuels/octigrid/pkg/route"
	"github.com/matzehuels/octigrid/pkg/topo"
)

// Palette holds the colors assigned to lines, in order of line name.
var Palette = []string{
	"#e41a1c", "#377eb8", "#4daf4a", "#984ea3",
	"#ff7f00", "#a65628", "#f781bf", "#999999",
}

// Drawing is a schematized transit map.
type Drawing struct {
	Bound    orb.Bound        `json:"bound"`
	CellSize float64          `json:"cell_size"`
	Cols     int              `json:"cols"`
	Rows     int              `json:"rows"`
	Stations []Station        `json:"stations"`
	Segments []Segment        `json:"segments"`
	Lines    []Line           `json:"lines"`
	Grid     []orb.LineString `json:"grid,omitempty"`
	Stats    Stats            `json:"stats"`
}

// Station is an original node settled on a lattice center.
type Station struct {
	ID   string    `json:"id"`
	Name string    `json:"name"`
	Pos  orb.Point `json:"pos"`
	Orig orb.Point `json:"orig"`
	Cell [2]int    `json:"cell"`
}

// Segment is a routed original edge.
type Segment struct {
	ID    string         `json:"id"`
	From  string         `json:"from"`
	To    string         `json:"to"`
	Lines []string       `json:"lines,omitempty"`
	Geom  orb.LineString `json:"geometry"`
	Cells int            `json:"cells"`
	Cost  float64        `json:"cost"`
}

// Line is a transit line and its color.
type Line struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Stats summarizes the routing run a drawing was built from.
type Stats struct {
	Stations     int     `json:"stations"`
	Routed       int     `json:"routed"`
	Edges        int     `json:"edges"`
	TotalCost    float64 `json:"total_cost"`
	BalanceNodes int     `json:"balance_nodes"`
	BalanceEdges int     `json:"balance_edges"`
	TopoPenalty  int     `json:"topo_penalty"`
	DurationMS   float64 `json:"duration_ms"`
}

// Build creates the drawing of res, a possibly partial routing of g on lat.
// Unsettled nodes and unrouted edges are left out.
func Build(lat *lattice.Lattice, g *topo.Graph, res *route.Result) *Drawing {
	d := newDrawing(lat)

	ids := slices.Sorted(maps.Keys(res.Placement))
	for _, o := range ids {
		c := res.Placement[o]
		n := g.Node(o)
		x, y := lat.CoordsOf(c)
		d.Stations = append(d.Stations, Station{
			ID:   n.Key,
			Name: n.Name(),
			Pos:  lat.Node(c).Pos,
			Orig: n.Pos,
			Cell: [2]int{x, y},
		})
	}

	names := make(map[string]struct{})
	for i := range res.Paths {
		p := &res.Paths[i]
		e := g.Edge(p.Edge)
		cells := p.Cells(lat)
		d.Segments = append(d.Segments, Segment{
			ID:    e.Key,
			From:  g.Node(e.From).Key,
			To:    g.Node(e.To).Key,
			Lines: e.Lines,
			Geom:  polyline(lat, cells),
			Cells: len(cells),
			Cost:  p.Cost,
		})
		for _, l := range e.Lines {
			names[l] = struct{}{}
		}
	}
	for i, name := range slices.Sorted(maps.Keys(names)) {
		d.Lines = append(d.Lines, Line{Name: name, Color: Palette[i%len(Palette)]})
	}

	d.Stats = Stats{
		Stations:     len(d.Stations),
		Routed:       res.Stats.Routed,
		Edges:        g.EdgeCount(),
		TotalCost:    res.Stats.TotalCost,
		BalanceNodes: res.Stats.BalanceNodes,
		BalanceEdges: res.Stats.BalanceEdges,
		TopoPenalty:  res.Stats.TopoPenalty,
		DurationMS:   float64(res.Stats.Duration.Microseconds()) / 1000,
	}
	return d
}

// Grid creates a drawing of the empty lattice: one line string per pair of
// adjacent centers.
func Grid(lat *lattice.Lattice) *Drawing {
	d := newDrawing(lat)
	for _, c := range lat.Centers() {
		x, y := lat.CoordsOf(c)
		for _, dir := range []compass.Direction{compass.N, compass.NE, compass.E, compass.SE} {
			nb := lat.Neighbor(x, y, dir)
			if nb == lattice.NoNode {
				continue
			}
			d.Grid = append(d.Grid, orb.LineString{lat.Node(c).Pos, lat.Node(nb).Pos})
		}
	}
	return d
}

// Color returns the color of the named line, or the last palette entry for
// unknown lines.
func (d *Drawing) Color(line string) string {
	for _, l := range d.Lines {
		if l.Name == line {
			return l.Color
		}
	}
	return Palette[len(Palette)-1]
}

func newDrawing(lat *lattice.Lattice) *Drawing {
	return &Drawing{
		Bound:    lat.Bound(),
		CellSize: lat.CellSize(),
		Cols:     lat.XWidth(),
		Rows:     lat.YHeight(),
		Stations: []Station{},
		Segments: []Segment{},
		Lines:    []Line{},
	}
}

// polyline returns the positions of cells, dropping every cell the path
// passes straight through.
func polyline(lat *lattice.Lattice, cells []lattice.NodeID) orb.LineString {
	ls := make(orb.LineString, 0, len(cells))
	for i, c := range cells {
		if i > 0 && i < len(cells)-1 {
			in, _ := lat.Direction(cells[i-1], c)
			out, _ := lat.Direction(c, cells[i+1])
			if in == out {
				continue
			}
		}
		ls = append(ls, lat.Node(c).Pos)
	}
	return ls
}
