package io

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"io/fs"
	"os"

	"github.com/paulmach/orb"

	"github.com/matzehuels/octigrid/pkg/errors"
	"github.com/matzehuels/octigrid/pkg/topo"
)

// ReadJSON decodes a JSON topology from r.
//
// ReadJSON returns an error if:
//   - The JSON is malformed or invalid
//   - A node or edge id is empty, duplicated or contains control characters
//   - An edge references an unknown node or joins a node to itself
//   - An order is not a permutation of the node's incident edges
//
// The returned graph is frozen. ReadJSON does not close r.
func ReadJSON(r io.Reader) (*topo.Graph, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidTopology, err, "decode topology")
	}
	return build(doc)
}

// ImportJSON reads a JSON file at path and returns the decoded topology.
func ImportJSON(path string) (*topo.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "open %s", path)
	}
	defer f.Close()
	return ReadJSON(f)
}

func build(doc document) (*topo.Graph, error) {
	g := topo.New()
	for _, n := range doc.Nodes {
		if err := errors.ValidateKey("node", n.ID); err != nil {
			return nil, err
		}
		if _, err := g.AddNode(n.ID, n.Label, orb.Point{n.X, n.Y}, n.Stops...); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidTopology, err, "node %s", n.ID)
		}
	}

	for _, e := range doc.Edges {
		if e.ID != "" {
			if err := errors.ValidateKey("edge", e.ID); err != nil {
				return nil, err
			}
		}
		from, ok := g.NodeByKey(e.From)
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidTopology, "edge %s->%s: unknown node %q", e.From, e.To, e.From)
		}
		to, ok := g.NodeByKey(e.To)
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidTopology, "edge %s->%s: unknown node %q", e.From, e.To, e.To)
		}
		if _, err := g.AddEdge(e.ID, from.ID, to.ID, e.Lines...); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidTopology, err, "edge %s->%s", e.From, e.To)
		}
	}

	for _, n := range doc.Nodes {
		if len(n.Order) == 0 {
			continue
		}
		nd, _ := g.NodeByKey(n.ID)
		order := make([]topo.EdgeID, len(n.Order))
		for i, key := range n.Order {
			e, ok := g.EdgeByKey(key)
			if !ok {
				return nil, errors.New(errors.ErrCodeInvalidTopology, "node %s: order references unknown edge %q", n.ID, key)
			}
			order[i] = e.ID
		}
		if err := g.SetOrder(nd.ID, order); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidTopology, err, "node %s", n.ID)
		}
	}

	g.Freeze()
	return g, nil
}
