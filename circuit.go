// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package logicsim

// A Node is a component placed in a circuit.
//
type Node struct {
	ID    string
	Kind  Kind
	X, Y  float64 // position, for rendering only
	Label string
	State bool // switch position, Input nodes only
}

// A Connection is a wire from the output of node From to input port Input of
// node To.
//
type Connection struct {
	ID    string
	From  string
	To    string
	Input int
}

// Circuit is a snapshot of a circuit's nodes and connections.
//
type Circuit struct {
	Nodes       []Node
	Connections []Connection
}

// Clone returns a deep copy of c.
//
func (c Circuit) Clone() Circuit {
	return Circuit{
		Nodes:       append([]Node(nil), c.Nodes...),
		Connections: append([]Connection(nil), c.Connections...),
	}
}

// Node returns the node with the given id.
//
func (c Circuit) Node(id string) (Node, bool) {
	for _, n := range c.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// Simulate runs the propagation engine on c with the default pass limit.
//
func (c Circuit) Simulate() Values {
	return Simulate(c.Nodes, c.Connections)
}

// TruthTable generates the truth table of c.
//
func (c Circuit) TruthTable() (*TruthTable, error) {
	return GenerateTruthTable(c.Nodes, c.Connections)
}

// Values maps node ids to their computed output.
//
type Values map[string]bool

// Get returns the value of node id. Unknown ids read as false.
//
func (v Values) Get(id string) bool {
	return v[id]
}
