package io

type document struct {
	Nodes []node `json:"nodes"`
	Edges []edge `json:"edges"`
}

type node struct {
	ID    string   `json:"id"`
	Label string   `json:"label,omitempty"`
	X     float64  `json:"x"`
	Y     float64  `json:"y"`
	Stops []string `json:"stops,omitempty"`
	Order []string `json:"order,omitempty"`
}

type edge struct {
	ID    string   `json:"id,omitempty"`
	From  string   `json:"from"`
	To    string   `json:"to"`
	Lines []string `json:"lines,omitempty"`
}
