package circuitlib_test

import (
	"testing"

	ls "github.com/db47h/logicsim"
	cl "github.com/db47h/logicsim/circuitlib"
	"github.com/db47h/logicsim/circuittest"
	"github.com/pkg/errors"
)

func demo(t *testing.T, k ls.Kind) ls.Circuit {
	t.Helper()
	c, err := cl.Demo(k)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func Test_circuits(t *testing.T) {
	td := []struct {
		name    string
		circuit ls.Circuit
		result  [][]bool // rows ordered a=0 && b=0, a=0 && b=1, a=1 && b=0, a=1 && b=1
	}{
		{"AND", demo(t, ls.And), [][]bool{{false, false, false, true}}},
		{"OR", demo(t, ls.Or), [][]bool{{false, true, true, true}}},
		{"XOR", demo(t, ls.Xor), [][]bool{{false, true, true, false}}},
		{"NOT", demo(t, ls.Not), [][]bool{{true, false}}},
		{"DEFAULT", cl.Default(), [][]bool{{false, false, false, true}}},
		{"NAND", cl.Nand(), [][]bool{{true, true, true, false}}},
		{"NOR", cl.Nor(), [][]bool{{true, false, false, false}}},
		{"XNOR", cl.Xnor(), [][]bool{{true, false, false, true}}},
		{"HALF_ADDER", cl.HalfAdder(), [][]bool{
			{false, true, true, false},  // S
			{false, false, false, true}, // C
		}},
		{"FULL_ADDER", cl.FullAdder(), [][]bool{
			{false, true, true, false, true, false, false, true}, // S
			{false, false, false, true, false, true, true, true}, // Cout
		}},
		{"MUX", cl.Mux(), [][]bool{{false, false, false, true, true, false, true, true}}},
	}
	for _, d := range td {
		t.Run(d.name, func(t *testing.T) {
			circuittest.Settles(t, d.circuit)
			circuittest.AssertTable(t, d.circuit, d.result)
		})
	}
}

func TestDemo_invalid(t *testing.T) {
	for _, k := range []ls.Kind{ls.Input, ls.Output, ls.Kind(0), ls.Kind(77)} {
		if _, err := cl.Demo(k); errors.Cause(err) != cl.ErrUnknownCircuit {
			t.Errorf("Demo(%v): expected ErrUnknownCircuit, got %v", k, err)
		}
	}
}

func TestLookup(t *testing.T) {
	for _, name := range cl.Names() {
		c, err := cl.Lookup(name)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if len(c.Nodes) == 0 {
			t.Fatalf("%s: empty circuit", name)
		}
	}
	for _, name := range []string{"", "constructor", "and", "INPUT"} {
		if _, err := cl.Lookup(name); errors.Cause(err) != cl.ErrUnknownCircuit {
			t.Errorf("Lookup(%q): expected ErrUnknownCircuit, got %v", name, err)
		}
	}
}

func TestOscillator(t *testing.T) {
	c := cl.Oscillator()
	var s ls.Simulator
	r := s.Run(c.Nodes, c.Connections)
	if r.Stable || r.Passes != ls.DefaultMaxPasses {
		t.Fatalf("expected an unstable run of %d passes, got %d (stable: %v)", ls.DefaultMaxPasses, r.Passes, r.Stable)
	}
}

func TestNand_equivalent(t *testing.T) {
	// NOT(A AND B) == (NOT A) OR (NOT B)
	deMorgan := ls.Circuit{
		Nodes: []ls.Node{
			{ID: "a", Kind: ls.Input, Y: 0},
			{ID: "b", Kind: ls.Input, Y: 1},
			{ID: "na", Kind: ls.Not},
			{ID: "nb", Kind: ls.Not},
			{ID: "or", Kind: ls.Or},
			{ID: "out", Kind: ls.Output},
		},
		Connections: []ls.Connection{
			{From: "a", To: "na"},
			{From: "b", To: "nb"},
			{From: "na", To: "or", Input: 0},
			{From: "nb", To: "or", Input: 1},
			{From: "or", To: "out"},
		},
	}
	circuittest.Compare(t, cl.Nand(), deMorgan)
}
