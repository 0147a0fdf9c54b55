// Package render turns routed lattices into drawings and output formats.
//
// # Overview
//
// A [Drawing] is the format-independent result of schematization: every
// settled station at the position of its lattice center, and every original
// edge as an octilinear polyline through the centers of the cells it visits.
// Polylines keep only their bend points, so a straight run of any length is a
// single segment.
//
//	res, err := route.New(lat, g, route.Options{}).Route(ctx)
//	d := render.Build(lat, g, res)
//	err = render.WriteJSON(d, os.Stdout)
//
// [Grid] builds a drawing of an empty lattice, which is useful when tuning
// cell size and padding.
//
// # Formats
//
// JSON is written by this package. DOT and SVG live in the [dot] subpackage,
// which builds DOT with gographviz and lays it out in-process with Graphviz
// (neato, pinned positions). [ToPDF] and [ToPNG] convert any SVG with the
// external rsvg-convert tool (from librsvg).
//
// [dot]: github.com/matzehuels/octigrid/pkg/render/dot
package render
