package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/paulmach/orb"
	"github.com/spf13/cobra"

	"github.com/matzehuels/octigrid/pkg/config"
	"github.com/matzehuels/octigrid/pkg/errors"
	"github.com/matzehuels/octigrid/pkg/lattice"
	"github.com/matzehuels/octigrid/pkg/pipeline"
	"github.com/matzehuels/octigrid/pkg/render"
)

// latticeOpts holds the command-line flags for the lattice command.
type latticeOpts struct {
	cols     int
	rows     int
	cellSize float64
	output   string
	formats  string
}

// latticeCommand creates the lattice command, which renders an empty grid
// graph and prints the cost model it was built with.
func (c *CLI) latticeCommand() *cobra.Command {
	opts := latticeOpts{cols: 8, rows: 8, cellSize: 1}

	cmd := &cobra.Command{
		Use:   "lattice",
		Short: "Render an empty lattice and print its cost model",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLattice(cmd.Context(), c.config, &opts)
		},
	}

	cmd.Flags().IntVar(&opts.cols, "cols", opts.cols, "number of columns")
	cmd.Flags().IntVar(&opts.rows, "rows", opts.rows, "number of rows")
	cmd.Flags().Float64Var(&opts.cellSize, "cell-size", opts.cellSize, "cell size")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (default: stdout summary only)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): svg (default), dot, json, pdf, png (comma-separated)")
	_ = cmd.RegisterFlagCompletionFunc("format", completeFormats)

	return cmd
}

func (c *CLI) runLattice(ctx context.Context, cfg config.Config, opts *latticeOpts) error {
	logger := loggerFromContext(ctx)

	lat, err := emptyLattice(opts.cols, opts.rows, opts.cellSize, cfg.Costs)
	if err != nil {
		return err
	}
	logger.Debugf("Built %dx%d lattice with %d nodes and %d edges", lat.XWidth(), lat.YHeight(), lat.NodeCount(), lat.EdgeCount())

	printInfo("Lattice %s", StyleNumber.Render(fmt.Sprintf("%dx%d", lat.XWidth(), lat.YHeight())))
	printKeyValue("cell size", formatFloat(lat.CellSize()))
	printKeyValue("nodes", fmt.Sprint(lat.NodeCount()))
	printKeyValue("edges", fmt.Sprint(lat.EdgeCount()))
	fmt.Println(costTable(lat.Costs()))

	if opts.output == "" {
		return nil
	}

	formats := parseFormats(opts.formats)
	popts := pipeline.Options{Config: cfg, Formats: formats, Grid: true}
	if err := popts.ValidateAndSetDefaults(); err != nil {
		return err
	}
	artifacts, err := pipeline.Render(ctx, render.Grid(lat), popts)
	if err != nil {
		return err
	}
	paths := outputPaths(opts.output, opts.output, formats)
	for _, f := range formats {
		path := paths[f]
		if err := os.WriteFile(path, artifacts[f], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}
	return nil
}

// emptyLattice builds a lattice of exactly cols by rows cells. The bound is
// kept half a cell short so rounding cannot add a column.
func emptyLattice(cols, rows int, cellSize float64, costs lattice.Costs) (*lattice.Lattice, error) {
	if cols < 1 || rows < 1 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "lattice needs at least one column and row, got %dx%d", cols, rows)
	}
	if !(cellSize > 0) {
		return nil, errors.New(errors.ErrCodeInvalidInput, "cell size must be > 0, got %g", cellSize)
	}
	bbox := orb.Bound{
		Min: orb.Point{0, 0},
		Max: orb.Point{(float64(cols) - 0.5) * cellSize, (float64(rows) - 0.5) * cellSize},
	}
	lat, err := lattice.New(bbox, cellSize, costs)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "build lattice")
	}
	return lat, nil
}
