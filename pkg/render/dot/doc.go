// Package dot renders drawings through Graphviz.
//
// # Usage
//
// Convert a drawing to DOT, then lay it out and render it to SVG:
//
//	src, err := dot.ToDOT(d, dot.Options{})
//	svg, err := dot.RenderSVG(ctx, src)
//
// For PDF or PNG output, pass the SVG to [render.ToPDF] or [render.ToPNG].
//
// # DOT Format
//
// Every station and every bend point becomes a node with a pinned position
// (pos="x,y!"), so neato keeps the octilinear geometry exactly as routed.
// Segments are chains of straight edges. An edge carrying several lines is
// drawn as parallel strokes using a colon-separated color list.
//
// # Dependencies
//
// DOT is built with [github.com/awalterschulze/gographviz]. Layout and SVG
// output use [github.com/goccy/go-graphviz], which runs Graphviz in-process.
//
// [render.ToPDF]: github.com/matzehuels/octigrid/pkg/render.ToPDF
// [render.ToPNG]: github.com/matzehuels/octigrid/pkg/render.ToPNG
package dot
