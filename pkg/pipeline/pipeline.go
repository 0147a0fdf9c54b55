// Package pipeline provides the schematization pipeline shared by the CLI and
// the HTTP API.
//
// # Architecture
//
// The pipeline has three stages:
//
//  1. Load: Read and validate a topology JSON document
//  2. Schematize: Size a lattice around the topology, route every edge and
//     build the drawing
//  3. Render: Produce the requested output formats (SVG, DOT, JSON, PDF, PNG)
//
// Schematize and Render results are cached. The drawing key covers the
// topology hash and every option that changes routing; artifact keys cover
// the drawing and the render options.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	g, err := runner.Load(ctx, "network.json")
//	res, err := runner.Execute(ctx, g, pipeline.Options{
//	    Config:  config.Default(),
//	    Formats: []string{"svg"},
//	})
//	svg := res.Artifacts["svg"]
package pipeline

import (
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/octigrid/pkg/config"
	"github.com/matzehuels/octigrid/pkg/errors"
	"github.com/matzehuels/octigrid/pkg/render"
	"github.com/matzehuels/octigrid/pkg/topo"
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatDOT  = "dot"
	FormatJSON = "json"
	FormatPDF  = "pdf"
	FormatPNG  = "png"
)

// Formats lists every supported output format.
var Formats = []string{FormatSVG, FormatDOT, FormatJSON, FormatPDF, FormatPNG}

// DefaultFormats is used when no format is requested.
var DefaultFormats = []string{FormatSVG}

// ContentType returns the MIME type of a format.
func ContentType(format string) string {
	switch format {
	case FormatSVG:
		return "image/svg+xml"
	case FormatDOT:
		return "text/vnd.graphviz"
	case FormatJSON:
		return "application/json"
	case FormatPDF:
		return "application/pdf"
	case FormatPNG:
		return "image/png"
	default:
		return "application/octet-stream"
	}
}

// Options configures one pipeline run.
type Options struct {
	// Config holds lattice, cost and route settings.
	Config config.Config `json:"-"`

	// Formats are the outputs to render. Default svg.
	Formats []string `json:"formats,omitempty"`

	// Labels draws station names.
	Labels bool `json:"labels,omitempty"`

	// Grid draws the lattice under the map.
	Grid bool `json:"grid,omitempty"`

	// CellPoints is the rendered size of a cell. Default 36.
	CellPoints float64 `json:"cell_points,omitempty"`

	// Scale is the PNG resolution factor. Default 2.
	Scale float64 `json:"scale,omitempty"`

	// Refresh bypasses cache reads; results are still written.
	Refresh bool `json:"refresh,omitempty"`

	// Progress is called after every routed edge.
	Progress func(done, total int, e *topo.Edge) `json:"-"`

	Logger *log.Logger `json:"-"`
}

// ValidateAndSetDefaults fills empty fields and validates the options.
func (o *Options) ValidateAndSetDefaults() error {
	if len(o.Formats) == 0 {
		o.Formats = slices.Clone(DefaultFormats)
	}
	for _, f := range o.Formats {
		if err := errors.ValidateFormat(f, Formats...); err != nil {
			return err
		}
	}
	if o.CellPoints < 0 || o.Scale < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "cell points and scale must not be negative")
	}
	if o.Scale == 0 {
		o.Scale = 2
	}
	return o.Config.Validate()
}

// Result is the outcome of [Runner.Execute].
type Result struct {
	// RunID identifies this run in logs and API responses.
	RunID string

	Topology     *topo.Graph
	TopologyHash string
	Drawing      *render.Drawing
	Artifacts    map[string][]byte
	Stats        Stats
	CacheInfo    CacheInfo
}

// Stats holds sizes and stage timings.
type Stats struct {
	Nodes          int
	Edges          int
	Cols           int
	Rows           int
	CellSize       float64
	SchematizeTime time.Duration
	RenderTime     time.Duration
}

// CacheInfo reports which stages were served from cache.
type CacheInfo struct {
	DrawingHit bool
	RenderHit  bool
}
