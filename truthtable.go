// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package logicsim

import (
	"math/bits"
	"runtime"
	"sort"
	"sync"

	"github.com/pkg/errors"
)

// ErrMissingIO is returned when a truth table is requested for a circuit
// without any Input or any Output node. Its message is meant to be shown to
// users as is.
//
var ErrMissingIO = errors.New("You need at least one Input (Switch) and one Output (Bulb).")

// ErrTooManyInputs is returned when a circuit has too many inputs for its
// truth table rows to be counted in an int.
//
var ErrTooManyInputs = errors.New("too many inputs for a truth table")

// A Row is a truth table row. Values are 0 or 1.
//
type Row struct {
	Inputs  []int
	Outputs []int
}

// TruthTable lists the outputs of a circuit for every combination of its
// inputs.
//
// Inputs and Outputs are sorted by vertical position. Rows are ordered by
// input pattern, the first input being the most significant bit.
//
type TruthTable struct {
	Inputs  []Node
	Outputs []Node
	Rows    []Row
}

// GenerateTruthTable builds the truth table of the given circuit with the
// default pass limit.
//
func GenerateTruthTable(nodes []Node, conns []Connection) (*TruthTable, error) {
	var s Simulator
	return s.TruthTable(nodes, conns)
}

// TruthTable builds the truth table of the given circuit. The nodes slice is
// not modified.
//
// It returns ErrMissingIO if there are no inputs or no outputs. There is no
// limit on the number of inputs: the table has 2^n rows. Rows are evaluated
// concurrently and the result does not depend on s.Workers.
//
func (s *Simulator) TruthTable(nodes []Node, conns []Connection) (*TruthTable, error) {
	ins, outs := sortedByY(nodes, Input), sortedByY(nodes, Output)
	if len(ins) == 0 || len(outs) == 0 {
		if s.Recorder != nil {
			s.Recorder.RecordTruthTable(len(ins), 0, ErrMissingIO)
		}
		return nil, ErrMissingIO
	}

	n := len(ins)
	if n >= bits.UintSize-1 {
		if s.Recorder != nil {
			s.Recorder.RecordTruthTable(n, 0, ErrTooManyInputs)
		}
		return nil, errors.Wrapf(ErrTooManyInputs, "%d inputs", n)
	}

	// position of each input node in the sorted list. Duplicate ids map to
	// the first one.
	bitPos := make(map[string]int, len(ins))
	for i, in := range ins {
		if _, ok := bitPos[in.ID]; !ok {
			bitPos[in.ID] = i
		}
	}

	tot := 1 << uint(n)
	rows := make([]Row, tot)
	s.parallel(tot, func(lo, hi int) {
		tmp := make([]Node, len(nodes))
		for i := lo; i < hi; i++ {
			copy(tmp, nodes)
			for j := range tmp {
				if tmp[j].Kind != Input {
					continue
				}
				if k, ok := bitPos[tmp[j].ID]; ok {
					tmp[j].State = bit(i, n-1-k)
				}
			}
			v := s.run(tmp, conns)
			row := Row{Inputs: make([]int, n), Outputs: make([]int, len(outs))}
			for k := range ins {
				row.Inputs[k] = b2i(bit(i, n-1-k))
			}
			for k, o := range outs {
				row.Outputs[k] = b2i(v[o.ID])
			}
			rows[i] = row
		}
	})

	if s.Recorder != nil {
		s.Recorder.RecordTruthTable(n, len(rows), nil)
	}
	return &TruthTable{Inputs: ins, Outputs: outs, Rows: rows}, nil
}

// parallel calls f on consecutive ranges [lo, hi) covering [0, n), spread
// over s.Workers goroutines, and waits for all of them to return.
func (s *Simulator) parallel(n int, f func(lo, hi int)) {
	workers := s.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(-1)
	}
	if workers > n {
		workers = n
	}
	if workers <= 1 {
		f(0, n)
		return
	}
	size := n / workers
	if size*workers < n {
		size++
	}
	var wg sync.WaitGroup
	for lo := 0; lo < n; lo += size {
		hi := lo + size
		if hi > n {
			hi = n
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			f(lo, hi)
		}(lo, hi)
	}
	wg.Wait()
}

// run runs a propagation without reporting it to the Recorder: truth tables
// are reported as a whole.
func (s *Simulator) run(nodes []Node, conns []Connection) Values {
	q := Simulator{MaxPasses: s.MaxPasses}
	return q.Run(nodes, conns).Values
}

// Lookup returns the outputs for the given input pattern, in the order of
// t.Inputs. It returns false if len(in) does not match the input count.
//
func (t *TruthTable) Lookup(in []bool) ([]bool, bool) {
	if len(in) != len(t.Inputs) {
		return nil, false
	}
	i := 0
	for _, b := range in {
		i <<= 1
		if b {
			i |= 1
		}
	}
	r := t.Rows[i]
	out := make([]bool, len(r.Outputs))
	for k, v := range r.Outputs {
		out[k] = v != 0
	}
	return out, true
}

// Column returns the values of output column k, one per row.
//
func (t *TruthTable) Column(k int) []bool {
	col := make([]bool, len(t.Rows))
	for i, r := range t.Rows {
		col[i] = r.Outputs[k] != 0
	}
	return col
}

func sortedByY(nodes []Node, k Kind) []Node {
	var out []Node
	for _, n := range nodes {
		if n.Kind == k {
			out = append(out, n)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Y < out[j].Y })
	return out
}

func bit(v, n int) bool {
	return v&(1<<uint(n)) != 0
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}
