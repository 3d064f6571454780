// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package circuittest provides utility functions for testing circuits.
//
package circuittest

import (
	"strings"
	"testing"

	ls "github.com/db47h/logicsim"
	"gopkg.in/d4l3k/messagediff.v1"
)

// labels returns the labels of the given nodes, joined with commas.
func labels(ns []ls.Node) string {
	var b strings.Builder
	for _, n := range ns {
		if b.Len() > 0 {
			b.WriteString(", ")
		}
		b.WriteString(n.Label)
	}
	return b.String()
}

func inputString(tt *ls.TruthTable, row int) string {
	var b strings.Builder
	for i, n := range tt.Inputs {
		if b.Len() > 0 {
			b.WriteString(", ")
		}
		b.WriteString(n.Label)
		b.WriteRune('=')
		if tt.Rows[row].Inputs[i] != 0 {
			b.WriteString("1")
		} else {
			b.WriteString("0")
		}
	}
	return b.String()
}

// Table builds the truth table of c and fails the test on error.
//
func Table(t testing.TB, c ls.Circuit) *ls.TruthTable {
	t.Helper()
	tt, err := c.TruthTable()
	if err != nil {
		t.Fatal(err)
	}
	return tt
}

// AssertTable checks the output columns of the truth table of c.
//
// want has one entry per output (sorted top to bottom), each listing the
// expected output for every row, first input being the most significant bit:
//
//	circuittest.AssertTable(t, xor, [][]bool{{false, true, true, false}})
//
func AssertTable(t testing.TB, c ls.Circuit, want [][]bool) {
	t.Helper()
	tt := Table(t, c)
	if len(want) != len(tt.Outputs) {
		t.Fatalf("expected %d outputs, got %d (%s)", len(want), len(tt.Outputs), labels(tt.Outputs))
	}
	for o := range tt.Outputs {
		got := tt.Column(o)
		if len(got) != len(want[o]) {
			t.Fatalf("output %s: expected %d rows, got %d", tt.Outputs[o].Label, len(want[o]), len(got))
		}
		for i := range got {
			if got[i] != want[o][i] {
				t.Errorf("%s => %s = %v, got %v", inputString(tt, i), tt.Outputs[o].Label, want[o][i], got[i])
			}
		}
	}
}

// Compare checks that two circuits have the same truth table: same number of
// inputs and outputs, and the same outputs for every input combination.
// Labels and ids may differ.
//
func Compare(t testing.TB, c1, c2 ls.Circuit) {
	t.Helper()
	tt1, tt2 := Table(t, c1), Table(t, c2)
	if len(tt1.Inputs) != len(tt2.Inputs) {
		t.Fatalf("input count mismatch: %d (%s) != %d (%s)", len(tt1.Inputs), labels(tt1.Inputs), len(tt2.Inputs), labels(tt2.Inputs))
	}
	if len(tt1.Outputs) != len(tt2.Outputs) {
		t.Fatalf("output count mismatch: %d (%s) != %d (%s)", len(tt1.Outputs), labels(tt1.Outputs), len(tt2.Outputs), labels(tt2.Outputs))
	}
	if diff, equal := messagediff.PrettyDiff(tt1.Rows, tt2.Rows); !equal {
		t.Errorf("truth tables differ:\n%s", diff)
	}
}

// Settles checks that c reaches a fixed point within the default pass limit.
//
func Settles(t testing.TB, c ls.Circuit) ls.Values {
	t.Helper()
	var s ls.Simulator
	r := s.Run(c.Nodes, c.Connections)
	if !r.Stable {
		t.Fatalf("circuit did not settle after %d passes", r.Passes)
	}
	return r.Values
}
