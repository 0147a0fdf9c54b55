// Package io provides JSON import and export for transit topologies.
//
// # JSON Format
//
// The format has two top-level arrays:
//
//	{
//	  "nodes": [
//	    {"id": "hbf", "label": "Hauptbahnhof", "x": 0, "y": 0, "stops": ["Hbf"]},
//	    {"id": "west", "x": -20, "y": 0},
//	    {"id": "ost", "x": 20, "y": 5}
//	  ],
//	  "edges": [
//	    {"id": "e1", "from": "west", "to": "hbf", "lines": ["S1", "S2"]},
//	    {"from": "hbf", "to": "ost", "lines": ["S1"]}
//	  ]
//	}
//
// # Node Fields
//
// Required:
//   - id: Unique string identifier
//   - x, y: Position in any planar coordinate system
//
// Optional:
//   - label: Display name
//   - stops: Station names served at this node
//   - order: Explicit clockwise order of incident edge ids. Without it the
//     order is derived from the edge bearings.
//
// # Edge Fields
//
// Required:
//   - from, to: Node ids
//
// Optional:
//   - id: Unique string identifier, defaults to "from-to"
//   - lines: Line names running along the edge
//
// # Import
//
// Use [ImportJSON] to read a topology from a file path, or [ReadJSON] to read
// from any io.Reader. Both validate ids and references and return a frozen
// [topo.Graph]. Validation failures carry the INVALID_TOPOLOGY error code.
//
// # Export
//
// [WriteJSON] and [ExportJSON] write the format back, including the resolved
// clockwise order of every node, so an export re-imports to the same order.
package io
