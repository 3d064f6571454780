package circuittest_test

import (
	"testing"

	ls "github.com/db47h/logicsim"
	"github.com/db47h/logicsim/circuitlib"
	"github.com/db47h/logicsim/circuittest"
)

// customOr is an OR gate made of NOTs and an AND (De Morgan).
func customOr() ls.Circuit {
	return ls.Circuit{
		Nodes: []ls.Node{
			{ID: "x", Kind: ls.Input, Y: 0, Label: "X"},
			{ID: "y", Kind: ls.Input, Y: 10, Label: "Y"},
			{ID: "nx", Kind: ls.Not},
			{ID: "ny", Kind: ls.Not},
			{ID: "and", Kind: ls.And},
			{ID: "nand", Kind: ls.Not},
			{ID: "z", Kind: ls.Output, Label: "Z"},
		},
		Connections: []ls.Connection{
			{From: "x", To: "nx"},
			{From: "y", To: "ny"},
			{From: "nx", To: "and", Input: 0},
			{From: "ny", To: "and", Input: 1},
			{From: "and", To: "nand"},
			{From: "nand", To: "z"},
		},
	}
}

func TestCompare(t *testing.T) {
	or, err := circuitlib.Demo(ls.Or)
	if err != nil {
		t.Fatal(err)
	}
	circuittest.Compare(t, or, customOr())
}

func TestAssertTable(t *testing.T) {
	circuittest.AssertTable(t, customOr(), [][]bool{{false, true, true, true}})
}

func TestSettles(t *testing.T) {
	v := circuittest.Settles(t, customOr())
	if v["z"] {
		t.Fatal("expected 0 OR 0 = 0")
	}
}
