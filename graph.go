// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package logicsim

import (
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// SnapGrid is the grid size node positions snap to.
//
const SnapGrid = 20

// Graph editing errors.
//
var (
	ErrNoNode     = errors.New("no such node")
	ErrSelfLoop   = errors.New("cannot wire a node to itself")
	ErrNoOutput   = errors.New("node has no output port")
	ErrBadPort    = errors.New("invalid input port")
	ErrNotAnInput = errors.New("node is not a switch")
)

// NewID returns a short random identifier.
//
func NewID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
}

// Snap rounds v to the nearest multiple of grid. v is returned unchanged if
// grid <= 0.
//
func Snap(v float64, grid int) float64 {
	if grid <= 0 {
		return v
	}
	g := float64(grid)
	return math.Floor(v/g+0.5) * g
}

// A Graph is an editable circuit. It owns its nodes and connections and keeps
// the wiring invariants: connections only reference existing nodes and at most
// one connection terminates at a given input port.
//
// A Graph is not safe for concurrent use.
//
type Graph struct {
	nodes []Node
	conns []Connection
	newID func() string
	log   *slog.Logger
	sim   Simulator
}

// An Option configures a Graph.
//
type Option func(g *Graph)

// WithIDFunc sets the function used to generate node and connection ids.
//
func WithIDFunc(f func() string) Option {
	return func(g *Graph) { g.newID = f }
}

// WithLogger sets the logger used for diagnostics.
//
func WithLogger(l *slog.Logger) Option {
	return func(g *Graph) { g.log = l }
}

// WithRecorder sets the Recorder that receives simulation statistics.
//
func WithRecorder(r Recorder) Option {
	return func(g *Graph) { g.sim.Recorder = r }
}

// WithMaxPasses sets the relaxation pass limit.
//
func WithMaxPasses(n int) Option {
	return func(g *Graph) { g.sim.MaxPasses = n }
}

// WithWorkers sets the number of goroutines used to build truth tables.
//
func WithWorkers(n int) Option {
	return func(g *Graph) { g.sim.Workers = n }
}

// NewGraph returns a new empty graph.
//
func NewGraph(opts ...Option) *Graph {
	g := &Graph{newID: NewID}
	for _, o := range opts {
		o(g)
	}
	if g.log == nil {
		g.log = slog.Default()
	}
	return g
}

func (g *Graph) id() string {
	for {
		id := g.newID()
		if g.index(id) < 0 && g.connIndex(id) < 0 {
			return id
		}
	}
}

func (g *Graph) index(id string) int {
	for i := range g.nodes {
		if g.nodes[i].ID == id {
			return i
		}
	}
	return -1
}

func (g *Graph) connIndex(id string) int {
	for i := range g.conns {
		if g.conns[i].ID == id {
			return i
		}
	}
	return -1
}

// Len returns the node count.
//
func (g *Graph) Len() int { return len(g.nodes) }

// Nodes returns a copy of the node list, in insertion order.
//
func (g *Graph) Nodes() []Node {
	return append([]Node(nil), g.nodes...)
}

// Connections returns a copy of the connection list.
//
func (g *Graph) Connections() []Connection {
	return append([]Connection(nil), g.conns...)
}

// Node returns the node with the given id.
//
func (g *Graph) Node(id string) (Node, bool) {
	if i := g.index(id); i >= 0 {
		return g.nodes[i], true
	}
	return Node{}, false
}

// Snapshot returns a copy of the current circuit.
//
func (g *Graph) Snapshot() Circuit {
	return Circuit{Nodes: g.Nodes(), Connections: g.Connections()}
}

// Load replaces the whole circuit with c. For each input port only the first
// connection is kept, the one Simulate reads. Connections referencing unknown
// nodes are dropped; a port whose first connection is dangling is left
// unconnected.
//
// The loaded graph simulates exactly like c.Simulate().
//
func (g *Graph) Load(c Circuit) {
	g.nodes = append(g.nodes[:0:0], c.Nodes...)
	g.conns = g.conns[:0:0]
	seen := make(map[port]bool, len(c.Connections))
	for _, w := range c.Connections {
		p := port{w.To, w.Input}
		if seen[p] {
			g.log.Debug("dropping shadowed connection", "from", w.From, "to", w.To, "input", w.Input)
			continue
		}
		seen[p] = true
		if g.index(w.From) < 0 || g.index(w.To) < 0 {
			g.log.Debug("dropping dangling connection", "from", w.From, "to", w.To)
			continue
		}
		g.conns = append(g.conns, w)
	}
}

// Clear removes all nodes and connections.
//
func (g *Graph) Clear() {
	g.nodes = nil
	g.conns = nil
}

// AddNode adds a node of the given type tag at the next default palette
// position.
//
// If tag is not a known type, no node is added, a warning is logged and the
// returned error wraps ErrUnknownKind.
//
func (g *Graph) AddNode(tag string) (Node, error) {
	offset := float64((len(g.nodes) % 10) * 20)
	return g.add(tag, 200+offset, 150+offset)
}

// AddNodeAt adds a node of the given type tag at position (x, y), snapped to
// the grid. See AddNode.
//
func (g *Graph) AddNodeAt(tag string, x, y float64) (Node, error) {
	return g.add(tag, Snap(x, SnapGrid), Snap(y, SnapGrid))
}

func (g *Graph) add(tag string, x, y float64) (Node, error) {
	k, err := ParseKind(tag)
	if err != nil {
		g.log.Warn("rejected invalid component type", "type", tag)
		if g.sim.Recorder != nil {
			g.sim.Recorder.RecordRejectedKind(tag)
		}
		return Node{}, err
	}
	n := Node{
		ID:    g.id(),
		Kind:  k,
		X:     x,
		Y:     y,
		Label: g.nextLabel(k),
	}
	g.nodes = append(g.nodes, n)
	return n, nil
}

// nextLabel returns the default label of a new node of kind k: the first
// free letter for switches, "Out n" for bulbs and the type tag for gates.
func (g *Graph) nextLabel(k Kind) string {
	switch k {
	case Input:
		used := make(map[string]bool)
		cnt := 0
		for _, n := range g.nodes {
			if n.Kind == Input {
				used[n.Label] = true
				cnt++
			}
		}
		for c := 'A'; c <= 'Z'; c++ {
			if l := string(c); !used[l] {
				return l
			}
		}
		return "S" + strconv.Itoa(cnt+1)
	case Output:
		cnt := 0
		for _, n := range g.nodes {
			if n.Kind == Output {
				cnt++
			}
		}
		return "Out " + strconv.Itoa(cnt+1)
	}
	return k.String()
}

// Connect wires the output of node from to input port input of node to.
// A connection already plugged into that port is replaced.
//
func (g *Graph) Connect(from, to string, input int) (Connection, error) {
	if from == to {
		return Connection{}, errors.Wrap(ErrSelfLoop, from)
	}
	fi, ti := g.index(from), g.index(to)
	if fi < 0 {
		return Connection{}, errors.Wrap(ErrNoNode, from)
	}
	if ti < 0 {
		return Connection{}, errors.Wrap(ErrNoNode, to)
	}
	if g.nodes[fi].Kind.Outputs() == 0 {
		return Connection{}, errors.Wrap(ErrNoOutput, from)
	}
	if k := g.nodes[ti].Kind; input < 0 || input >= k.Inputs() {
		return Connection{}, errors.Wrapf(ErrBadPort, "%s has %d inputs, got port %d", to, k.Inputs(), input)
	}
	g.unplug(to, input)
	c := Connection{ID: g.id(), From: from, To: to, Input: input}
	g.conns = append(g.conns, c)
	return c, nil
}

// unplug removes the connections terminating at the given port.
func (g *Graph) unplug(to string, input int) {
	out := g.conns[:0]
	for _, c := range g.conns {
		if c.To != to || c.Input != input {
			out = append(out, c)
		}
	}
	g.conns = out
}

// Disconnect removes the connection with the given id.
//
func (g *Graph) Disconnect(id string) bool {
	i := g.connIndex(id)
	if i < 0 {
		return false
	}
	g.conns = append(g.conns[:i], g.conns[i+1:]...)
	return true
}

// Delete removes the given nodes together with every connection to or from
// them. Unknown ids are ignored. It returns the number of nodes removed.
//
func (g *Graph) Delete(ids ...string) int {
	del := make(map[string]bool, len(ids))
	for _, id := range ids {
		del[id] = true
	}
	nodes := g.nodes[:0]
	for _, n := range g.nodes {
		if !del[n.ID] {
			nodes = append(nodes, n)
		}
	}
	cnt := len(g.nodes) - len(nodes)
	g.nodes = nodes
	conns := g.conns[:0]
	for _, c := range g.conns {
		if !del[c.From] && !del[c.To] {
			conns = append(conns, c)
		}
	}
	g.conns = conns
	return cnt
}

// Move moves node id to (x, y), snapped to the grid.
//
func (g *Graph) Move(id string, x, y float64) error {
	i := g.index(id)
	if i < 0 {
		return errors.Wrap(ErrNoNode, id)
	}
	g.nodes[i].X, g.nodes[i].Y = Snap(x, SnapGrid), Snap(y, SnapGrid)
	return nil
}

// SetLabel changes the label of node id.
//
func (g *Graph) SetLabel(id, label string) error {
	i := g.index(id)
	if i < 0 {
		return errors.Wrap(ErrNoNode, id)
	}
	g.nodes[i].Label = label
	return nil
}

// SetState sets the position of switch id.
//
func (g *Graph) SetState(id string, on bool) error {
	i := g.index(id)
	if i < 0 {
		return errors.Wrap(ErrNoNode, id)
	}
	if g.nodes[i].Kind != Input {
		return errors.Wrap(ErrNotAnInput, id)
	}
	g.nodes[i].State = on
	return nil
}

// Toggle flips switch id and returns its new state.
//
func (g *Graph) Toggle(id string) (bool, error) {
	i := g.index(id)
	if i < 0 {
		return false, errors.Wrap(ErrNoNode, id)
	}
	if g.nodes[i].Kind != Input {
		return false, errors.Wrap(ErrNotAnInput, id)
	}
	g.nodes[i].State = !g.nodes[i].State
	return g.nodes[i].State, nil
}

// Simulate runs the propagation engine on the current circuit.
//
func (g *Graph) Simulate() Values {
	return g.Run().Values
}

// Run is like Simulate but also reports the pass count and whether the
// circuit settled.
//
func (g *Graph) Run() Result {
	r := g.sim.Run(g.nodes, g.conns)
	if !r.Stable {
		g.log.Debug("propagation hit the pass limit", "passes", r.Passes)
	}
	return r
}

// TruthTable generates the truth table of the current circuit. The graph is
// left untouched, including on error.
//
func (g *Graph) TruthTable() (*TruthTable, error) {
	return g.sim.TruthTable(g.nodes, g.conns)
}
