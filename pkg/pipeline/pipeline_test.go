package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/octigrid/pkg/cache"
	"github.com/matzehuels/octigrid/pkg/config"
	"github.com/matzehuels/octigrid/pkg/errors"
	"github.com/matzehuels/octigrid/pkg/render"
	"github.com/matzehuels/octigrid/pkg/topo"
)

const network = `{
  "nodes": [
    {"id": "hbf", "label": "Hauptbahnhof", "x": 0, "y": 0},
    {"id": "west", "x": -20, "y": 0},
    {"id": "ost", "x": 20, "y": 0},
    {"id": "nord", "x": 0, "y": 20}
  ],
  "edges": [
    {"from": "west", "to": "hbf", "lines": ["S1", "S2"]},
    {"from": "hbf", "to": "ost", "lines": ["S1"]},
    {"from": "hbf", "to": "nord", "lines": ["S2"]}
  ]
}`

func quietLogger() *log.Logger {
	return log.NewWithOptions(&bytes.Buffer{}, log.Options{})
}

func testConfig() config.Config {
	cfg := config.Default()
	cfg.Lattice.CellSize = 10
	return cfg
}

func loadNetwork(t *testing.T, r *Runner, doc string) *topo.Graph {
	t.Helper()
	g, err := r.Read(context.Background(), "test", strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	return g
}

func TestExecute(t *testing.T) {
	r := NewRunner(nil, nil, quietLogger())
	g := loadNetwork(t, r, network)

	res, err := r.Execute(context.Background(), g, Options{
		Config:  testConfig(),
		Formats: []string{FormatJSON, FormatDOT},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.RunID == "" || res.TopologyHash == "" {
		t.Error("missing run id or topology hash")
	}
	if res.Stats.Cols != 8 || res.Stats.Rows != 6 || res.Stats.CellSize != 10 {
		t.Errorf("stats = %+v", res.Stats)
	}

	d := res.Drawing
	if len(d.Stations) != 4 || len(d.Segments) != 3 {
		t.Fatalf("drawing has %d stations, %d segments", len(d.Stations), len(d.Segments))
	}
	for _, s := range d.Stations {
		if s.Pos != s.Orig {
			t.Errorf("station %s moved from %v to %v", s.ID, s.Orig, s.Pos)
		}
	}

	var back render.Drawing
	if err := json.Unmarshal(res.Artifacts[FormatJSON], &back); err != nil {
		t.Fatalf("json artifact: %v", err)
	}
	if len(back.Segments) != 3 {
		t.Errorf("json artifact has %d segments", len(back.Segments))
	}
	if !strings.Contains(string(res.Artifacts[FormatDOT]), `"s:hbf"`) {
		t.Error("dot artifact missing hub")
	}
	if res.CacheInfo.DrawingHit || res.CacheInfo.RenderHit {
		t.Error("null cache reported a hit")
	}
}

func TestExecuteSVG(t *testing.T) {
	r := NewRunner(nil, nil, quietLogger())
	g := loadNetwork(t, r, network)
	res, err := r.Execute(context.Background(), g, Options{Config: testConfig(), Labels: true})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !bytes.Contains(res.Artifacts[FormatSVG], []byte("<svg")) {
		t.Error("default format should be svg")
	}
}

func TestExecuteCaching(t *testing.T) {
	c, err := cache.NewMemoryCache()
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(c, nil, quietLogger())
	defer r.Close()
	ctx := context.Background()
	g := loadNetwork(t, r, network)
	opts := Options{Config: testConfig(), Formats: []string{FormatJSON}}

	first, err := r.Execute(ctx, g, opts)
	if err != nil {
		t.Fatal(err)
	}
	second, err := r.Execute(ctx, g, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheInfo.DrawingHit || !second.CacheInfo.RenderHit {
		t.Errorf("second run cache info = %+v", second.CacheInfo)
	}
	if !bytes.Equal(first.Artifacts[FormatJSON], second.Artifacts[FormatJSON]) {
		t.Error("cached artifact differs")
	}
	if first.RunID == second.RunID {
		t.Error("run ids should differ")
	}

	refreshed := opts
	refreshed.Refresh = true
	if res, _ := r.Execute(ctx, g, refreshed); res.CacheInfo.DrawingHit {
		t.Error("refresh served a cached drawing")
	}

	changed := opts
	changed.Config.Costs.Turn45 = 120
	if res, _ := r.Execute(ctx, g, changed); res.CacheInfo.DrawingHit {
		t.Error("cost change served a cached drawing")
	}

	grid := opts
	grid.Grid = true
	res, err := r.Execute(ctx, g, grid)
	if err != nil {
		t.Fatal(err)
	}
	if res.CacheInfo.DrawingHit || len(res.Drawing.Grid) == 0 {
		t.Error("grid drawings must be cached separately and carry the grid")
	}
}

func TestExecuteErrors(t *testing.T) {
	r := NewRunner(nil, nil, quietLogger())
	ctx := context.Background()
	g := loadNetwork(t, r, network)

	_, err := r.Execute(ctx, g, Options{Config: testConfig(), Formats: []string{"gif"}})
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("bad format: %v", err)
	}

	bad := testConfig()
	bad.Route.Order = "random"
	if _, err := r.Execute(ctx, g, Options{Config: bad}); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("bad config: %v", err)
	}

	// b sits between lattice centers, farther than the candidate radius.
	offgrid := loadNetwork(t, r, `{"nodes": [{"id": "a", "x": 5, "y": 5}, {"id": "b", "x": 27, "y": 5}],
		"edges": [{"from": "a", "to": "b"}]}`)
	tight := testConfig()
	tight.Route.MaxCandidateDistance = 0.05
	_, err = r.Execute(ctx, offgrid, Options{Config: tight, Formats: []string{FormatJSON}})
	if !errors.Is(err, errors.ErrCodeNoCandidate) {
		t.Errorf("off-grid: %v", err)
	}

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = r.Execute(canceled, g, Options{Config: testConfig(), Formats: []string{FormatJSON}})
	if errors.GetCode(err) != errors.ErrCodeCanceled {
		t.Errorf("canceled: %v", err)
	}
}

func TestLatticeFor(t *testing.T) {
	r := NewRunner(nil, nil, quietLogger())
	g := loadNetwork(t, r, network)

	cfg := config.Default()
	lat, err := LatticeFor(g, cfg, quietLogger())
	if err != nil {
		t.Fatal(err)
	}
	// Auto size: 40 units over 32 cells, plus two cells of padding per side.
	if lat.CellSize() != 1.25 || lat.XWidth() != 36 {
		t.Errorf("cell size %g, %d cols", lat.CellSize(), lat.XWidth())
	}

	if _, err := LatticeFor(topo.New(), cfg, quietLogger()); !errors.Is(err, errors.ErrCodeInvalidTopology) {
		t.Errorf("empty topology: %v", err)
	}
}

func TestLoad(t *testing.T) {
	r := NewRunner(nil, nil, quietLogger())
	ctx := context.Background()

	if _, err := r.Load(ctx, filepath.Join(t.TempDir(), "none.json")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file: %v", err)
	}
	if _, err := r.Read(ctx, "body", strings.NewReader("{")); !errors.Is(err, errors.ErrCodeInvalidTopology) {
		t.Errorf("bad body: %v", err)
	}
}

func TestValidateAndSetDefaults(t *testing.T) {
	opts := Options{Config: config.Default()}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatSVG || opts.Scale != 2 {
		t.Errorf("defaults = %+v", opts)
	}

	neg := Options{Config: config.Default(), Scale: -1}
	if err := neg.ValidateAndSetDefaults(); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("negative scale: %v", err)
	}
}

func TestContentType(t *testing.T) {
	tests := map[string]string{
		FormatSVG:  "image/svg+xml",
		FormatDOT:  "text/vnd.graphviz",
		FormatJSON: "application/json",
		FormatPDF:  "application/pdf",
		FormatPNG:  "image/png",
		"gif":      "application/octet-stream",
	}
	for format, want := range tests {
		if got := ContentType(format); got != want {
			t.Errorf("ContentType(%q) = %q, want %q", format, got, want)
		}
	}
}
