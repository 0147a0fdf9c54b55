// Package config loads octigrid settings from TOML.
//
// A configuration file only needs the keys it changes; everything else keeps
// the value from [Default]:
//
//	[lattice]
//	cell_size = 250.0   # 0 derives the size from the topology
//	padding = 2.0       # empty cells around the topology
//
//	[costs]
//	turn_0 = 0.0
//	turn_45 = 90.0
//	turn_90 = 30.0
//	turn_135 = 10.0
//	vertical = 3.0
//	horizontal = 3.0
//	diagonal = 3.0
//
//	[route]
//	max_candidate_distance = 3.0
//	displacement_cost = 100.0
//	order = "lines"
//
//	[cache]
//	backend = "badger"
//	ttl = "72h"
//
//	[log]
//	level = "debug"
//
// Unknown keys are rejected so that typos do not silently fall back to
// defaults.
package config

import (
	"fmt"
	"io"
	"math"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/octigrid/pkg/cache"
	"github.com/matzehuels/octigrid/pkg/errors"
	"github.com/matzehuels/octigrid/pkg/lattice"
	"github.com/matzehuels/octigrid/pkg/route"
)

// Defaults.
const (
	DefaultPadding = 2.0

	// AutoCells is the number of cells along the longer side of the
	// topology when the cell size is derived automatically.
	AutoCells = 32
)

// Config is the complete octigrid configuration.
type Config struct {
	Lattice LatticeConfig `toml:"lattice"`
	Costs   lattice.Costs `toml:"costs"`
	Route   RouteConfig   `toml:"route"`
	Cache   CacheConfig   `toml:"cache"`
	Log     LogConfig     `toml:"log"`
}

// LatticeConfig sizes the lattice.
type LatticeConfig struct {
	// CellSize is the side of one cell in topology units. Zero derives it
	// from the topology bound, see [Config.CellSizeFor].
	CellSize float64 `toml:"cell_size"`

	// Padding is the number of empty cells added on every side.
	Padding float64 `toml:"padding"`
}

// RouteConfig configures the router.
type RouteConfig struct {
	MaxCandidateDistance float64 `toml:"max_candidate_distance"`
	DisplacementCost     float64 `toml:"displacement_cost"`
	Order                string  `toml:"order"`
}

// CacheConfig selects the cache backend.
type CacheConfig struct {
	Backend   string        `toml:"backend"`
	Dir       string        `toml:"dir"`
	TTL       time.Duration `toml:"ttl"`
	RedisAddr string        `toml:"redis_addr"`
}

// LogConfig sets the log level.
type LogConfig struct {
	Level string `toml:"level"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Lattice: LatticeConfig{Padding: DefaultPadding},
		Costs:   lattice.DefaultCosts(),
		Route: RouteConfig{
			MaxCandidateDistance: route.DefaultMaxCandidateDistance,
			DisplacementCost:     route.DefaultDisplacementCost,
			Order:                string(route.OrderByID),
		},
		Cache: CacheConfig{Backend: cache.BackendFile, TTL: cache.TTLDrawing},
		Log:   LogConfig{Level: "info"},
	}
}

// Load reads path over the defaults and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
	}
	if err := checkUndecoded(md); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Decode reads TOML from r over the defaults and validates the result.
func Decode(r io.Reader) (Config, error) {
	cfg := Default()
	md, err := toml.NewDecoder(r).Decode(&cfg)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode config")
	}
	if err := checkUndecoded(md); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func checkUndecoded(md toml.MetaData) error {
	keys := md.Undecoded()
	if len(keys) == 0 {
		return nil
	}
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = k.String()
	}
	sort.Strings(names)
	return errors.New(errors.ErrCodeInvalidConfig, "unknown keys: %s", strings.Join(names, ", "))
}

// Write encodes cfg as TOML.
func (c Config) Write(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// Validate checks every section.
func (c Config) Validate() error {
	if c.Lattice.CellSize < 0 || math.IsNaN(c.Lattice.CellSize) || math.IsInf(c.Lattice.CellSize, 0) {
		return errors.New(errors.ErrCodeInvalidConfig, "lattice.cell_size must be >= 0, got %g", c.Lattice.CellSize)
	}
	if c.Lattice.Padding < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "lattice.padding must be >= 0, got %g", c.Lattice.Padding)
	}
	if err := c.Costs.Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "costs")
	}
	if c.Route.MaxCandidateDistance <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "route.max_candidate_distance must be > 0, got %g", c.Route.MaxCandidateDistance)
	}
	if c.Route.DisplacementCost <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "route.displacement_cost must be > 0, got %g", c.Route.DisplacementCost)
	}
	if _, err := route.ParseOrder(c.Route.Order); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "route.order")
	}
	if !slices.Contains(cache.Backends, c.Cache.Backend) {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.backend must be one of %s, got %q", strings.Join(cache.Backends, ", "), c.Cache.Backend)
	}
	if c.Cache.Backend == cache.BackendRedis && c.Cache.RedisAddr == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.redis_addr is required for the redis backend")
	}
	if c.Cache.TTL < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.ttl must be >= 0")
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "log.level")
	}
	return nil
}

// CellSizeFor returns the configured cell size, or for zero a size that
// puts [AutoCells] cells along the longer side of an extent of w by h.
func (c Config) CellSizeFor(w, h float64) float64 {
	if c.Lattice.CellSize > 0 {
		return c.Lattice.CellSize
	}
	side := math.Max(w, h)
	if side <= 0 {
		return 1
	}
	return side / AutoCells
}

// RouteOptions converts the route section into router options.
func (c Config) RouteOptions() route.Options {
	order, _ := route.ParseOrder(c.Route.Order)
	return route.Options{
		Order:                order,
		MaxCandidateDistance: c.Route.MaxCandidateDistance,
		DisplacementCost:     c.Route.DisplacementCost,
	}
}

// LogLevel returns the parsed log level, info if invalid.
func (c Config) LogLevel() log.Level {
	lvl, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

// String renders the configuration as TOML.
func (c Config) String() string {
	var b strings.Builder
	if err := c.Write(&b); err != nil {
		return fmt.Sprintf("config: %v", err)
	}
	return b.String()
}
