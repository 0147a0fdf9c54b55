package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/matzehuels/octigrid/pkg/config"
	"github.com/matzehuels/octigrid/pkg/observability"
	"github.com/matzehuels/octigrid/pkg/pipeline"
	"github.com/matzehuels/octigrid/pkg/topo"
)

// routeOpts holds the command-line flags for the route command.
type routeOpts struct {
	output     string  // output file (single format) or base path
	formats    string  // comma-separated output formats
	cellSize   float64 // overrides lattice.cell_size when set
	cellPoints float64 // rendered size of one cell
	labels     bool    // draw station names
	grid       bool    // draw the lattice under the map
	noCache    bool    // disable the result cache
	refresh    bool    // ignore cached results
	metrics    string  // write prometheus metrics to this file
	tui        bool    // show live routing progress
}

// routeCommand creates the route command, which schematizes a topology.
func (c *CLI) routeCommand() *cobra.Command {
	var opts routeOpts

	cmd := &cobra.Command{
		Use:   "route <topology.json>",
		Short: "Embed a topology on the octilinear lattice and render it",
		Long: `Route reads a JSON topology, embeds every edge on an octilinear grid graph
and writes the schematic map in the requested formats.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeTopology,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.config
			if cmd.Flags().Changed("cell-size") {
				cfg.Lattice.CellSize = opts.cellSize
			}
			return c.runRoute(cmd.Context(), cfg, args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): svg (default), dot, json, pdf, png (comma-separated)")
	cmd.Flags().Float64Var(&opts.cellSize, "cell-size", 0, "lattice cell size in topology units (0 derives it from the extent)")
	cmd.Flags().Float64Var(&opts.cellPoints, "cell-points", 0, "rendered size of one cell in points")
	cmd.Flags().BoolVar(&opts.labels, "labels", false, "draw station names")
	cmd.Flags().BoolVar(&opts.grid, "grid", false, "draw the lattice under the map")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the result cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute even if a cached result exists")
	cmd.Flags().StringVar(&opts.metrics, "metrics", "", "write prometheus metrics to `FILE` after the run")
	cmd.Flags().BoolVar(&opts.tui, "tui", false, "show live routing progress")
	_ = cmd.RegisterFlagCompletionFunc("format", completeFormats)

	return cmd
}

func (c *CLI) runRoute(ctx context.Context, cfg config.Config, input string, opts *routeOpts) error {
	logger := loggerFromContext(ctx)

	var reg *prometheus.Registry
	if opts.metrics != "" {
		reg = prometheus.NewRegistry()
		observability.NewPrometheus(reg).Install()
		defer observability.Reset()
	}

	runner := c.newRunner(ctx, cfg, opts.noCache)
	defer runner.Close()

	g, err := runner.Load(ctx, input)
	if err != nil {
		return err
	}

	formats := parseFormats(opts.formats)
	popts := pipeline.Options{
		Config:     cfg,
		Formats:    formats,
		Labels:     opts.labels,
		Grid:       opts.grid,
		CellPoints: opts.cellPoints,
		Refresh:    opts.refresh,
		Logger:     logger,
	}

	prog := newProgress(logger)
	var res *pipeline.Result
	title := fmt.Sprintf("Routing %s", filepath.Base(input))
	if opts.tui {
		// Info logs would tear the progress view.
		popts.Logger = newLogger(os.Stderr, max(logger.GetLevel(), log.WarnLevel))
		err = runWithProgress(ctx, os.Stderr, title, g.EdgeCount(), func(ctx context.Context, progress progressFunc) error {
			popts.Progress = progress
			var err error
			res, err = runner.Execute(ctx, g, popts)
			return err
		})
	} else {
		s := newSpinner(ctx, os.Stderr, title)
		popts.Progress = func(done, total int, e *topo.Edge) {
			s.SetMessage("%s: %d/%d edges", title, done, total)
		}
		s.Start()
		res, err = runner.Execute(ctx, g, popts)
		s.Stop()
	}
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Routed %d edges", res.Drawing.Stats.Routed))

	paths := outputPaths(opts.output, input, formats)
	printSuccess("Schematized %s", input)
	printRouteStats(res)
	for _, f := range formats {
		path := paths[f]
		if err := os.WriteFile(path, res.Artifacts[f], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}

	if reg != nil {
		if err := prometheus.WriteToTextfile(opts.metrics, reg); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
		printFile(opts.metrics)
	}

	if !opts.grid {
		printNextStep("Show the lattice", fmt.Sprintf("%s route --grid %s", appName, input))
	}
	return nil
}
