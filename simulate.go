// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package logicsim

import "time"

// DefaultMaxPasses is the default limit on relaxation passes. Circuits with
// feedback loops that never settle are frozen in whatever state they reach
// after that many passes.
//
const DefaultMaxPasses = 50

// A Recorder receives simulation statistics. See internal/metrics for a
// Prometheus implementation.
//
type Recorder interface {
	// RecordPropagation is called after each propagation run.
	RecordPropagation(passes int, stable bool, elapsed time.Duration)
	// RecordTruthTable is called after each truth table request. err is nil
	// on success.
	RecordTruthTable(inputs, rows int, err error)
	// RecordRejectedKind is called when a node with an unknown type tag is
	// refused.
	RecordRejectedKind(tag string)
}

// Result holds the outcome of a propagation run.
//
type Result struct {
	Values Values
	// Passes is the number of relaxation passes run.
	Passes int
	// Stable is false if the pass limit was hit before reaching a fixed point.
	Stable bool
}

// Simulator runs the signal propagation engine.
//
// The zero value is ready to use and runs up to DefaultMaxPasses passes.
//
type Simulator struct {
	// MaxPasses limits the number of relaxation passes. If less or equal to
	// 0, DefaultMaxPasses is used.
	MaxPasses int
	// Workers is the number of goroutines used to evaluate truth table rows.
	// If less or equal to 0, the value of GOMAXPROCS is used.
	Workers int
	// Recorder, if not nil, receives statistics about each run.
	Recorder Recorder
}

// Simulate computes the output value of every node with the default pass
// limit.
//
func Simulate(nodes []Node, conns []Connection) Values {
	var s Simulator
	return s.Run(nodes, conns).Values
}

func (s *Simulator) maxPasses() int {
	if s.MaxPasses <= 0 {
		return DefaultMaxPasses
	}
	return s.MaxPasses
}

// port identifies an input port.
type port struct {
	node  string
	input int
}

// Run computes the output value of every node by iterative relaxation:
// input nodes are seeded with their state, then every other node is
// re-evaluated in storage order until a full pass changes nothing or the pass
// limit is reached.
//
// An input port reads the source of the first connection terminating at it.
// Unconnected ports and sources without a value read as false. Cycles are
// allowed.
//
func (s *Simulator) Run(nodes []Node, conns []Connection) Result {
	start := time.Now()
	values := make(Values, len(nodes))
	for _, n := range nodes {
		if n.Kind == Input {
			values[n.ID] = n.State
		}
	}

	wires := make(map[port]string, len(conns))
	for _, c := range conns {
		p := port{c.To, c.Input}
		if _, ok := wires[p]; !ok {
			wires[p] = c.From
		}
	}

	limit := s.maxPasses()
	passes := 0
	changed := true
	var in []bool
	for changed && passes < limit {
		changed = false
		passes++
		for _, n := range nodes {
			if n.Kind == Input {
				continue
			}
			cnt := n.Kind.Inputs()
			in = in[:0]
			for i := 0; i < cnt; i++ {
				var v bool
				if src, ok := wires[port{n.ID, i}]; ok {
					v = values[src]
				}
				in = append(in, v)
			}
			nv := n.Kind.Eval(in, n.State)
			if ov, ok := values[n.ID]; !ok || ov != nv {
				values[n.ID] = nv
				changed = true
			}
		}
	}

	r := Result{Values: values, Passes: passes, Stable: !changed}
	if s.Recorder != nil {
		s.Recorder.RecordPropagation(r.Passes, r.Stable, time.Since(start))
	}
	return r
}
