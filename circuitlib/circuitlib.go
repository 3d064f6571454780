// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package circuitlib provides ready made circuits for logicsim: the classroom
// demos for each gate and a few classic circuits built only from the six
// primitive components.
//
package circuitlib

import (
	"sort"
	"strconv"

	ls "github.com/db47h/logicsim"
	"github.com/pkg/errors"
)

// ErrUnknownCircuit is returned by Lookup for unknown circuit names.
//
var ErrUnknownCircuit = errors.New("unknown circuit")

// common node ids
const (
	idA    = "in_a"
	idB    = "in_b"
	idC    = "in_c"
	idGate = "gate"
	idOut  = "out"
)

type builder struct {
	c ls.Circuit
	n int
}

func (b *builder) node(id string, k ls.Kind, x, y float64, label string) string {
	b.c.Nodes = append(b.c.Nodes, ls.Node{ID: id, Kind: k, X: x, Y: y, Label: label})
	return id
}

func (b *builder) gate(id string, k ls.Kind, x, y float64) string {
	return b.node(id, k, x, y, k.String())
}

func (b *builder) wire(from, to string, input int) {
	b.n++
	b.c.Connections = append(b.c.Connections, ls.Connection{
		ID:    "w" + strconv.Itoa(b.n),
		From:  from,
		To:    to,
		Input: input,
	})
}

// Default returns the circuit shown when the designer opens: two switches
// feeding an AND gate that lights a bulb.
//
func Default() ls.Circuit {
	return ls.Circuit{
		Nodes: []ls.Node{
			{ID: "start_1", Kind: ls.Input, X: 100, Y: 100, Label: "A"},
			{ID: "start_2", Kind: ls.Input, X: 100, Y: 250, Label: "B"},
			{ID: "gate_1", Kind: ls.And, X: 300, Y: 175, Label: "AND"},
			{ID: "out_1", Kind: ls.Output, X: 500, Y: 175, Label: "Out"},
		},
		Connections: []ls.Connection{
			{ID: "c1", From: "start_1", To: "gate_1", Input: 0},
			{ID: "c2", From: "start_2", To: "gate_1", Input: 1},
			{ID: "c3", From: "gate_1", To: "out_1", Input: 0},
		},
	}
}

// Demo returns the demo circuit for a single gate: one switch per gate input,
// the gate and a bulb.
//
//	Inputs: A, B (A only for NOT)
//	Outputs: Out
//
func Demo(k ls.Kind) (ls.Circuit, error) {
	var b builder
	switch k {
	case ls.Not:
		b.node(idA, ls.Input, 100, 150, "A")
		b.gate(idGate, k, 300, 150)
		b.node(idOut, ls.Output, 500, 150, "Out")
		b.wire(idA, idGate, 0)
	case ls.And, ls.Or, ls.Xor:
		b.node(idA, ls.Input, 100, 100, "A")
		b.node(idB, ls.Input, 100, 200, "B")
		b.gate(idGate, k, 300, 150)
		b.node(idOut, ls.Output, 500, 150, "Out")
		b.wire(idA, idGate, 0)
		b.wire(idB, idGate, 1)
	default:
		return ls.Circuit{}, errors.Wrapf(ErrUnknownCircuit, "no demo for %s", k)
	}
	b.wire(idGate, idOut, 0)
	return b.c, nil
}

// inverted builds a two input gate followed by a NOT.
func inverted(k ls.Kind) ls.Circuit {
	var b builder
	b.node(idA, ls.Input, 100, 100, "A")
	b.node(idB, ls.Input, 100, 200, "B")
	b.gate(idGate, k, 260, 150)
	b.gate("not", ls.Not, 400, 150)
	b.node(idOut, ls.Output, 540, 150, "Out")
	b.wire(idA, idGate, 0)
	b.wire(idB, idGate, 1)
	b.wire(idGate, "not", 0)
	b.wire("not", idOut, 0)
	return b.c
}

// Nand returns a NAND gate built from AND and NOT.
//
//	Inputs: A, B
//	Outputs: Out
//	Function: Out = !(A && B)
//
func Nand() ls.Circuit { return inverted(ls.And) }

// Nor returns a NOR gate built from OR and NOT.
//
//	Inputs: A, B
//	Outputs: Out
//	Function: Out = !(A || B)
//
func Nor() ls.Circuit { return inverted(ls.Or) }

// Xnor returns a XNOR gate built from XOR and NOT.
//
//	Inputs: A, B
//	Outputs: Out
//	Function: Out = A == B
//
func Xnor() ls.Circuit { return inverted(ls.Xor) }

// HalfAdder returns a half adder.
//
//	Inputs: A, B
//	Outputs: S, C
//	Function: S = lsb(A + B)
//	          C = msb(A + B)
//
func HalfAdder() ls.Circuit {
	var b builder
	b.node(idA, ls.Input, 100, 100, "A")
	b.node(idB, ls.Input, 100, 200, "B")
	b.gate("xor", ls.Xor, 300, 100)
	b.gate("and", ls.And, 300, 200)
	b.node("s", ls.Output, 500, 100, "S")
	b.node("c", ls.Output, 500, 200, "C")
	b.wire(idA, "xor", 0)
	b.wire(idB, "xor", 1)
	b.wire(idA, "and", 0)
	b.wire(idB, "and", 1)
	b.wire("xor", "s", 0)
	b.wire("and", "c", 0)
	return b.c
}

// FullAdder returns a full adder made of two half adders.
//
//	Inputs: A, B, Cin
//	Outputs: S, Cout
//	Function: S = lsb(A + B + Cin)
//	          Cout = msb(A + B + Cin)
//
func FullAdder() ls.Circuit {
	var b builder
	b.node(idA, ls.Input, 100, 100, "A")
	b.node(idB, ls.Input, 100, 200, "B")
	b.node(idC, ls.Input, 100, 300, "Cin")
	b.gate("xor1", ls.Xor, 260, 140)
	b.gate("and1", ls.And, 260, 240)
	b.gate("xor2", ls.Xor, 420, 160)
	b.gate("and2", ls.And, 420, 260)
	b.gate("or", ls.Or, 560, 280)
	b.node("s", ls.Output, 700, 160, "S")
	b.node("cout", ls.Output, 700, 280, "Cout")
	b.wire(idA, "xor1", 0)
	b.wire(idB, "xor1", 1)
	b.wire(idA, "and1", 0)
	b.wire(idB, "and1", 1)
	b.wire("xor1", "xor2", 0)
	b.wire(idC, "xor2", 1)
	b.wire("xor1", "and2", 0)
	b.wire(idC, "and2", 1)
	b.wire("and1", "or", 0)
	b.wire("and2", "or", 1)
	b.wire("xor2", "s", 0)
	b.wire("or", "cout", 0)
	return b.c
}

// Mux returns a 2 to 1 multiplexer.
//
//	Inputs: A, B, Sel
//	Outputs: Out
//	Function: if Sel { Out = B } else { Out = A }
//
func Mux() ls.Circuit {
	var b builder
	b.node(idA, ls.Input, 100, 100, "A")
	b.node(idB, ls.Input, 100, 200, "B")
	b.node("sel", ls.Input, 100, 300, "Sel")
	b.gate("not", ls.Not, 240, 300)
	b.gate("and_a", ls.And, 380, 120)
	b.gate("and_b", ls.And, 380, 240)
	b.gate("or", ls.Or, 520, 180)
	b.node(idOut, ls.Output, 660, 180, "Out")
	b.wire("sel", "not", 0)
	b.wire(idA, "and_a", 0)
	b.wire("not", "and_a", 1)
	b.wire(idB, "and_b", 0)
	b.wire("sel", "and_b", 1)
	b.wire("and_a", "or", 0)
	b.wire("and_b", "or", 1)
	b.wire("or", idOut, 0)
	return b.c
}

// Oscillator returns an inverter whose output is wired back to its own input,
// driving a bulb. It never settles.
//
func Oscillator() ls.Circuit {
	var b builder
	b.gate(idGate, ls.Not, 300, 150)
	b.node(idOut, ls.Output, 500, 150, "Out")
	b.wire(idGate, idGate, 0)
	b.wire(idGate, idOut, 0)
	return b.c
}

var catalog = map[string]func() ls.Circuit{
	"DEFAULT":    Default,
	"NAND":       Nand,
	"NOR":        Nor,
	"XNOR":       Xnor,
	"HALF_ADDER": HalfAdder,
	"FULL_ADDER": FullAdder,
	"MUX":        Mux,
	"OSCILLATOR": Oscillator,
}

// Names returns the names accepted by Lookup, sorted.
//
func Names() []string {
	names := []string{"AND", "OR", "NOT", "XOR"}
	for k := range catalog {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Lookup returns a circuit by name. Gate names ("AND", "OR", "NOT", "XOR")
// return the corresponding Demo. See Names for the full list.
//
func Lookup(name string) (ls.Circuit, error) {
	switch name {
	case "AND", "OR", "NOT", "XOR":
		k, err := ls.ParseKind(name)
		if err != nil {
			return ls.Circuit{}, err
		}
		return Demo(k)
	}
	if f, ok := catalog[name]; ok {
		return f(), nil
	}
	return ls.Circuit{}, errors.Wrapf(ErrUnknownCircuit, "%q", name)
}
