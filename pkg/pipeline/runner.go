package pipeline

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/paulmach/orb"

	"github.com/matzehuels/octigrid/pkg/cache"
	"github.com/matzehuels/octigrid/pkg/config"
	"github.com/matzehuels/octigrid/pkg/errors"
	octiio "github.com/matzehuels/octigrid/pkg/io"
	"github.com/matzehuels/octigrid/pkg/lattice"
	"github.com/matzehuels/octigrid/pkg/observability"
	"github.com/matzehuels/octigrid/pkg/render"
	"github.com/matzehuels/octigrid/pkg/route"
	"github.com/matzehuels/octigrid/pkg/topo"
)

// Runner executes the pipeline with caching.
//
// The Runner is stateless except for the cache and logger, so multiple
// goroutines can share one Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL is the lifetime of cached drawings and artifacts. Default
	// [cache.TTLDrawing].
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger, TTL: cache.TTLDrawing}
}

// Execute schematizes g and renders every requested format.
func (r *Runner) Execute(ctx context.Context, g *topo.Graph, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	res := &Result{
		RunID:    uuid.NewString(),
		Topology: g,
		Stats:    Stats{Nodes: g.NodeCount(), Edges: g.EdgeCount()},
	}
	logger := opts.Logger.With("run", res.RunID[:8])

	start := time.Now()
	d, hash, hit, err := r.schematize(ctx, g, opts)
	if err != nil {
		return nil, err
	}
	res.Drawing, res.TopologyHash = d, hash
	res.Stats.Cols, res.Stats.Rows, res.Stats.CellSize = d.Cols, d.Rows, d.CellSize
	res.Stats.SchematizeTime = time.Since(start)
	res.CacheInfo.DrawingHit = hit
	logger.Info("schematized topology",
		"stations", len(d.Stations),
		"segments", len(d.Segments),
		"grid", fmt.Sprintf("%dx%d", d.Cols, d.Rows),
		"cached", hit,
		"duration", res.Stats.SchematizeTime)

	start = time.Now()
	artifacts, hit, err := r.render(ctx, d, opts)
	if err != nil {
		return nil, err
	}
	res.Artifacts = artifacts
	res.Stats.RenderTime = time.Since(start)
	res.CacheInfo.RenderHit = hit
	logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", hit,
		"duration", res.Stats.RenderTime)
	return res, nil
}

// Schematize returns the drawing of g, from cache when possible.
func (r *Runner) Schematize(ctx context.Context, g *topo.Graph, opts Options) (*render.Drawing, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)
	d, _, _, err := r.schematize(ctx, g, opts)
	return d, err
}

func (r *Runner) schematize(ctx context.Context, g *topo.Graph, opts Options) (*render.Drawing, string, bool, error) {
	data, err := octiio.Marshal(g)
	if err != nil {
		return nil, "", false, errors.Wrap(errors.ErrCodeInternal, err, "hash topology")
	}
	hash := cache.Hash(data)
	key := r.Keyer.DrawingKey(hash, drawingKeyOpts(opts))

	if !opts.Refresh {
		if raw, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			var d render.Drawing
			if err := json.Unmarshal(raw, &d); err == nil {
				observability.Cache().OnCacheHit(ctx, "drawing")
				return &d, hash, true, nil
			}
		} else if err != nil {
			opts.Logger.Warn("cache read failed", "err", err)
		}
		observability.Cache().OnCacheMiss(ctx, "drawing")
	}

	d, err := Schematize(ctx, g, opts)
	if err != nil {
		return nil, "", false, err
	}
	if raw, err := json.Marshal(d); err == nil {
		if err := r.Cache.Set(ctx, key, raw, r.TTL); err != nil {
			opts.Logger.Warn("cache write failed", "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "drawing", len(raw))
		}
	}
	return d, hash, false, nil
}

// Schematize builds a lattice around g, routes it and returns the drawing,
// without caching.
func Schematize(ctx context.Context, g *topo.Graph, opts Options) (*render.Drawing, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	lat, err := LatticeFor(g, opts.Config, logger)
	if err != nil {
		return nil, err
	}

	hooks := observability.Pipeline()
	hooks.OnRouteStart(ctx, lat.XWidth(), lat.YHeight(), g.EdgeCount())
	ro := opts.Config.RouteOptions()
	ro.Progress = opts.Progress
	ro.Logger = logger.WithPrefix("route")

	res, err := route.New(lat, g, ro).Route(ctx)
	if res != nil {
		hooks.OnRouteComplete(ctx, res.Stats.Routed, res.Stats.Duration, err)
	} else {
		hooks.OnRouteComplete(ctx, 0, 0, err)
	}
	if err != nil {
		return nil, routeError(err)
	}
	logger.Debug("routed",
		"edges", res.Stats.Routed,
		"cost", res.Stats.TotalCost,
		"balance_edges", res.Stats.BalanceEdges,
		"balance_nodes", res.Stats.BalanceNodes,
		"topo_penalties", res.Stats.TopoPenalty)

	d := render.Build(lat, g, res)
	if opts.Grid {
		d.Grid = render.Grid(lat).Grid
	}
	return d, nil
}

// LatticeFor creates a lattice covering the bound of g plus the configured
// padding.
func LatticeFor(g *topo.Graph, cfg config.Config, logger *log.Logger) (*lattice.Lattice, error) {
	if g.NodeCount() == 0 {
		return nil, errors.New(errors.ErrCodeInvalidTopology, "topology has no nodes")
	}
	b := g.Bound()
	cs := cfg.CellSizeFor(b.Max[0]-b.Min[0], b.Max[1]-b.Min[1])
	pad := cfg.Lattice.Padding * cs
	bbox := orb.Bound{
		Min: orb.Point{b.Min[0] - pad, b.Min[1] - pad},
		Max: orb.Point{b.Max[0] + pad, b.Max[1] + pad},
	}

	lat, err := lattice.New(bbox, cs, cfg.Costs, lattice.WithLogger(logger.WithPrefix("lattice")))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "build lattice")
	}
	logger.Debug("built lattice",
		"cols", lat.XWidth(),
		"rows", lat.YHeight(),
		"cell_size", cs,
		"nodes", lat.NodeCount(),
		"edges", lat.EdgeCount())
	return lat, nil
}

func routeError(err error) error {
	switch {
	case stderrors.Is(err, route.ErrNoCandidate):
		return errors.Wrap(errors.ErrCodeNoCandidate, err, "route")
	case stderrors.Is(err, route.ErrNoRoute):
		return errors.Wrap(errors.ErrCodeNoRoute, err, "route")
	case stderrors.Is(err, route.ErrNotFrozen):
		return errors.Wrap(errors.ErrCodeInternal, err, "route")
	default:
		return err
	}
}

// Render produces the requested formats of d, from cache when possible.
func (r *Runner) Render(ctx context.Context, d *render.Drawing, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)
	artifacts, _, err := r.render(ctx, d, opts)
	return artifacts, err
}

func (r *Runner) render(ctx context.Context, d *render.Drawing, opts Options) (map[string][]byte, bool, error) {
	raw, err := json.Marshal(d)
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInternal, err, "hash drawing")
	}
	hash := cache.Hash(raw)

	if !opts.Refresh {
		artifacts := make(map[string][]byte, len(opts.Formats))
		for _, f := range opts.Formats {
			data, hit, err := r.Cache.Get(ctx, r.Keyer.ArtifactKey(hash, artifactKeyOpts(opts, f)))
			if err != nil || !hit {
				break
			}
			artifacts[f] = data
		}
		if len(artifacts) == len(opts.Formats) {
			observability.Cache().OnCacheHit(ctx, "artifact")
			return artifacts, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, "artifact")
	}

	artifacts, err := Render(ctx, d, opts)
	if err != nil {
		return nil, false, err
	}
	for f, data := range artifacts {
		if err := r.Cache.Set(ctx, r.Keyer.ArtifactKey(hash, artifactKeyOpts(opts, f)), data, r.TTL); err == nil {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}
	return artifacts, false, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

func drawingKeyOpts(opts Options) cache.DrawingKeyOpts {
	c := opts.Config
	return cache.DrawingKeyOpts{
		CellSize: c.Lattice.CellSize,
		Padding:  c.Lattice.Padding,
		Costs: [7]float64{
			c.Costs.Turn0, c.Costs.Turn45, c.Costs.Turn90, c.Costs.Turn135,
			c.Costs.Vertical, c.Costs.Horizontal, c.Costs.Diagonal,
		},
		Order:                c.Route.Order,
		MaxCandidateDistance: c.Route.MaxCandidateDistance,
		DisplacementCost:     c.Route.DisplacementCost,
		Grid:                 opts.Grid,
	}
}

func artifactKeyOpts(opts Options, format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format}
	if format != FormatJSON {
		k.Labels = opts.Labels
		k.Grid = opts.Grid
		k.CellPoints = opts.CellPoints
	}
	if format == FormatPNG {
		k.Scale = opts.Scale
	}
	return k
}
