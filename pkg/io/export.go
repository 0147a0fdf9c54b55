package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/octigrid/pkg/topo"
)

// WriteJSON encodes a topology as JSON and writes it to w. Frozen graphs
// include every node's clockwise edge order.
func WriteJSON(g *topo.Graph, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(toDocument(g)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes a topology to a JSON file at path.
// This is a convenience wrapper around [WriteJSON] for file-based output.
func ExportJSON(g *topo.Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(g, f)
}

// Marshal returns the canonical compact encoding of g, suitable for hashing.
func Marshal(g *topo.Graph) ([]byte, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(toDocument(g)); err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return buf.Bytes(), nil
}

func toDocument(g *topo.Graph) document {
	doc := document{
		Nodes: make([]node, 0, g.NodeCount()),
		Edges: make([]edge, 0, g.EdgeCount()),
	}
	for _, n := range g.Nodes() {
		nd := node{ID: n.Key, Label: n.Label, X: n.Pos[0], Y: n.Pos[1], Stops: n.Stops}
		for _, e := range n.OrderedEdges() {
			nd.Order = append(nd.Order, g.Edge(e).Key)
		}
		doc.Nodes = append(doc.Nodes, nd)
	}
	for _, e := range g.Edges() {
		doc.Edges = append(doc.Edges, edge{
			ID:    e.Key,
			From:  g.Node(e.From).Key,
			To:    g.Node(e.To).Key,
			Lines: e.Lines,
		})
	}
	return doc
}
