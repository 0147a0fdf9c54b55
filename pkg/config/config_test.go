package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/octigrid/pkg/errors"
	"github.com/matzehuels/octigrid/pkg/lattice"
	"github.com/matzehuels/octigrid/pkg/route"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	if cfg.Costs != lattice.DefaultCosts() {
		t.Errorf("costs = %+v", cfg.Costs)
	}
	if cfg.LogLevel() != log.InfoLevel {
		t.Errorf("level = %v", cfg.LogLevel())
	}
}

func TestDecodeOverridesDefaults(t *testing.T) {
	in := `
[lattice]
cell_size = 250.0

[costs]
turn_45 = 120.0

[route]
order = "lines"

[cache]
backend = "badger"
ttl = "72h"

[log]
level = "debug"
`
	cfg, err := Decode(strings.NewReader(in))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if cfg.Lattice.CellSize != 250 || cfg.Lattice.Padding != DefaultPadding {
		t.Errorf("lattice = %+v", cfg.Lattice)
	}
	if cfg.Costs.Turn45 != 120 || cfg.Costs.Turn90 != 30 {
		t.Errorf("costs = %+v", cfg.Costs)
	}
	if cfg.Cache.Backend != "badger" || cfg.Cache.TTL != 72*time.Hour {
		t.Errorf("cache = %+v", cfg.Cache)
	}
	if cfg.LogLevel() != log.DebugLevel {
		t.Errorf("level = %v", cfg.LogLevel())
	}

	opts := cfg.RouteOptions()
	if opts.Order != route.OrderByLineCount || opts.MaxCandidateDistance != route.DefaultMaxCandidateDistance {
		t.Errorf("route options = %+v", opts)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"syntax", "[lattice\n"},
		{"unknown key", "[lattice]\ncell_sise = 3.0\n"},
		{"unknown section", "[render]\nscale = 2\n"},
		{"negative cell size", "[lattice]\ncell_size = -1.0\n"},
		{"negative padding", "[lattice]\npadding = -1.0\n"},
		{"turn order", "[costs]\nturn_90 = 200.0\n"},
		{"negative base", "[costs]\ndiagonal = -1.0\n"},
		{"candidate distance", "[route]\nmax_candidate_distance = 0.0\n"},
		{"displacement", "[route]\ndisplacement_cost = 0.0\n"},
		{"order", "[route]\norder = \"random\"\n"},
		{"backend", "[cache]\nbackend = \"mongo\"\n"},
		{"redis addr", "[cache]\nbackend = \"redis\"\n"},
		{"level", "[log]\nlevel = \"loud\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.in))
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("code = %v, want INVALID_CONFIG (%v)", errors.GetCode(err), err)
			}
		})
	}
}

func TestLoadAndWrite(t *testing.T) {
	cfg := Default()
	cfg.Lattice.CellSize = 12.5
	cfg.Route.Order = "lines"
	cfg.Cache.TTL = time.Hour

	path := filepath.Join(t.TempDir(), "octigrid.toml")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := cfg.Write(f); err != nil {
		t.Fatal(err)
	}
	f.Close()

	back, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v\n%s", err, cfg)
	}
	if back != cfg {
		t.Errorf("round trip = %+v, want %+v", back, cfg)
	}
}

func TestLoadMissing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("err = %v", err)
	}
}

func TestCellSizeFor(t *testing.T) {
	cfg := Default()
	if got := cfg.CellSizeFor(640, 320); got != 20 {
		t.Errorf("auto = %g, want 20", got)
	}
	if got := cfg.CellSizeFor(0, 0); got != 1 {
		t.Errorf("zero extent = %g, want 1", got)
	}
	cfg.Lattice.CellSize = 7
	if got := cfg.CellSizeFor(640, 320); got != 7 {
		t.Errorf("fixed = %g, want 7", got)
	}
}

func TestLoadExample(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "examples", "octigrid.toml"))
	if err != nil {
		t.Fatalf("Load(example) = %v", err)
	}
	if cfg.Lattice.CellSize != 5 || cfg.Route.Order != string(route.OrderByLineCount) {
		t.Errorf("example config = %+v", cfg)
	}
	if cfg.Cache.TTL != 168*time.Hour {
		t.Errorf("ttl = %v, want 168h", cfg.Cache.TTL)
	}
}
