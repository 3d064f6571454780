/*
Package logicsim provides a small digital logic simulator for teaching: switches,
bulbs and AND, OR, NOT and XOR gates wired together on a breadboard.

A circuit is a list of nodes and a list of connections. Each connection goes
from the single output of a node to a numbered input port of another node.
Simulate computes the value of every node by iterative relaxation: gates are
re-evaluated until nothing changes or a pass limit is reached. Since the limit
guarantees termination, circuits with feedback loops are allowed; a circuit
that never settles (like a NOT gate wired to itself) is simply frozen in the
state reached when the limit hits.

	c := logicsim.Circuit{
		Nodes: []logicsim.Node{
			{ID: "a", Kind: logicsim.Input, Label: "A", State: true},
			{ID: "n", Kind: logicsim.Not, Y: 50},
			{ID: "out", Kind: logicsim.Output, Y: 100},
		},
		Connections: []logicsim.Connection{
			{ID: "w0", From: "a", To: "n"},
			{ID: "w1", From: "n", To: "out"},
		},
	}
	v := c.Simulate() // v["out"] == false

GenerateTruthTable enumerates every combination of switch positions and
collects the resulting bulb states.

Graph is the editing front-end: it validates component types, assigns ids and
labels and maintains the wiring invariants (at most one wire per input port,
no wires to deleted nodes).

A propagation run is single threaded. Truth table rows are independent and
are spread over a pool of goroutines (see Simulator.Workers), but the table
still has 2^n rows for n switches: callers are expected to limit n.

*/
package logicsim
