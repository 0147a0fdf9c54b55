package pipeline

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/matzehuels/octigrid/pkg/errors"
	"github.com/matzehuels/octigrid/pkg/observability"
	"github.com/matzehuels/octigrid/pkg/render"
	"github.com/matzehuels/octigrid/pkg/render/dot"
)

// Render generates output artifacts in the requested formats, without
// caching.
func Render(ctx context.Context, d *render.Drawing, opts Options) (map[string][]byte, error) {
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	artifacts, err := renderFormats(ctx, d, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	return artifacts, err
}

func renderFormats(ctx context.Context, d *render.Drawing, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))

	var src string
	if slices.ContainsFunc(opts.Formats, func(f string) bool { return f != FormatJSON }) {
		var err error
		src, err = dot.ToDOT(d, dot.Options{CellPoints: opts.CellPoints, Labels: opts.Labels, Grid: opts.Grid})
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "build DOT")
		}
	}

	var svg []byte
	svgOnce := func() ([]byte, error) {
		if svg != nil {
			return svg, nil
		}
		var err error
		svg, err = dot.RenderSVG(ctx, src)
		return svg, err
	}

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatJSON:
			data, err = render.ToJSON(d)
		case FormatDOT:
			data = []byte(src)
		case FormatSVG:
			data, err = svgOnce()
		case FormatPDF:
			if data, err = svgOnce(); err == nil {
				data, err = render.ToPDF(ctx, data)
			}
		case FormatPNG:
			if data, err = svgOnce(); err == nil {
				data, err = render.ToPNG(ctx, data, opts.Scale)
			}
		default:
			return nil, errors.New(errors.ErrCodeUnsupported, "unsupported format %q", format)
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, fmt.Errorf("render %s: %w", format, err), "render")
		}
		artifacts[format] = data
	}
	return artifacts, nil
}
