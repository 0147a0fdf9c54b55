// Package pkg provides the libraries behind octigrid, a schematizer that
// draws transit networks as octilinear maps.
//
// # Overview
//
// A transit topology (stations, edges and the lines running along them) is
// embedded into an octilinear grid graph: a lattice of cells where every
// cell connects to its eight neighbors. Each original edge becomes a
// cheapest path through the lattice, and the lattice is re-weighted after
// every embedding so later paths keep clear of earlier ones and respect the
// clockwise edge order around each station.
//
// # Architecture
//
// The data flow through octigrid:
//
//	Topology JSON
//	     ↓
//	[io] package (import, validate, freeze edge order)
//	     ↓
//	[lattice] package (grid graph, cost model, spatial index)
//	     ↓
//	[route] package (candidate search, shortest paths, balancing)
//	     ↓
//	[render] package (drawing model, DOT, SVG/PDF/PNG/JSON)
//
// # Quick Start
//
//	g, _ := io.ImportJSON("network.json")
//	lat, _ := lattice.New(g.Bound().Pad(20), 10, lattice.DefaultCosts())
//	res, _ := route.New(lat, g, route.Options{}).Route(ctx)
//	d := render.Build(lat, g, res)
//
// Or run everything, with caching, through [pipeline]:
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, logger)
//	res, _ := runner.Execute(ctx, g, pipeline.Options{Config: config.Default()})
//
// # Main Packages
//
// ## Geometry
//
// [compass] - The eight octilinear directions, their rotation algebra and
// cost classes.
//
// [spatial] - Uniform cell grid for position lookups.
//
// ## Core Domain Logic
//
// [topo] - The input network with clockwise edge order per node.
//
// [lattice] - The octilinear grid graph: centers, ports, bend and grid
// edges, reservations, and the penalty operations applied while routing.
//
// [route] - Sequential edge embedding on top of a lattice.
//
// ## Output
//
// [render] - Drawing model, JSON output and SVG conversion.
//
// [render/dot] - Graphviz DOT generation and SVG layout.
//
// ## Infrastructure
//
// [pipeline] - Load, schematize and render, used by the CLI and the API.
//
// [cache] - File, badger and redis backends for drawings and artifacts.
//
// [config] - TOML configuration.
//
// [api] - HTTP API.
//
// [observability] - Hooks with a prometheus implementation.
//
// [errors] - Coded errors shared by the CLI and the API.
//
// # Testing
//
//	go test ./pkg/...           # All tests
//	go test ./pkg/lattice/...   # Specific package
//	go test -run Example ./...  # Examples only
//
// Redis tests run when OCTIGRID_REDIS_ADDR is set.
//
// [io]: https://pkg.go.dev/github.com/matzehuels/octigrid/pkg/io
// [lattice]: https://pkg.go.dev/github.com/matzehuels/octigrid/pkg/lattice
// [route]: https://pkg.go.dev/github.com/matzehuels/octigrid/pkg/route
// [render]: https://pkg.go.dev/github.com/matzehuels/octigrid/pkg/render
// [render/dot]: https://pkg.go.dev/github.com/matzehuels/octigrid/pkg/render/dot
// [compass]: https://pkg.go.dev/github.com/matzehuels/octigrid/pkg/compass
// [spatial]: https://pkg.go.dev/github.com/matzehuels/octigrid/pkg/spatial
// [topo]: https://pkg.go.dev/github.com/matzehuels/octigrid/pkg/topo
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/octigrid/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/octigrid/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/octigrid/pkg/config
// [api]: https://pkg.go.dev/github.com/matzehuels/octigrid/pkg/api
// [observability]: https://pkg.go.dev/github.com/matzehuels/octigrid/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/octigrid/pkg/errors
package pkg
