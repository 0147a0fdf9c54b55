package pipeline

import (
	"context"
	"io"
	"time"

	octiio "github.com/matzehuels/octigrid/pkg/io"
	"github.com/matzehuels/octigrid/pkg/observability"
	"github.com/matzehuels/octigrid/pkg/topo"
)

// Load reads a topology file.
func (r *Runner) Load(ctx context.Context, path string) (*topo.Graph, error) {
	return r.load(ctx, path, func() (*topo.Graph, error) { return octiio.ImportJSON(path) })
}

// Read decodes a topology from rd. Source names it in logs and metrics.
func (r *Runner) Read(ctx context.Context, source string, rd io.Reader) (*topo.Graph, error) {
	return r.load(ctx, source, func() (*topo.Graph, error) { return octiio.ReadJSON(rd) })
}

func (r *Runner) load(ctx context.Context, source string, fn func() (*topo.Graph, error)) (*topo.Graph, error) {
	hooks := observability.Pipeline()
	hooks.OnLoadStart(ctx, source)
	start := time.Now()

	g, err := fn()
	if err != nil {
		hooks.OnLoadComplete(ctx, source, 0, 0, time.Since(start), err)
		return nil, err
	}
	hooks.OnLoadComplete(ctx, source, g.NodeCount(), g.EdgeCount(), time.Since(start), nil)
	r.Logger.Debug("loaded topology", "source", source, "nodes", g.NodeCount(), "edges", g.EdgeCount())
	return g, nil
}
