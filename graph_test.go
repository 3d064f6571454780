package logicsim_test

import (
	"bytes"
	"log/slog"
	"strconv"
	"strings"
	"testing"

	ls "github.com/db47h/logicsim"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seqIDs() func() string {
	n := 0
	return func() string {
		n++
		return "id" + strconv.Itoa(n)
	}
}

func newTestGraph(t *testing.T, opts ...ls.Option) (*ls.Graph, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	l := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return ls.NewGraph(append([]ls.Option{ls.WithIDFunc(seqIDs()), ls.WithLogger(l)}, opts...)...), &buf
}

func TestGraph_AddNode(t *testing.T) {
	g, _ := newTestGraph(t)
	a, err := g.AddNode("INPUT")
	require.NoError(t, err)
	b, err := g.AddNode("INPUT")
	require.NoError(t, err)
	gate, err := g.AddNode("XOR")
	require.NoError(t, err)
	o1, err := g.AddNode("OUTPUT")
	require.NoError(t, err)
	o2, err := g.AddNode("OUTPUT")
	require.NoError(t, err)

	assert.Equal(t, "A", a.Label)
	assert.Equal(t, "B", b.Label)
	assert.Equal(t, "XOR", gate.Label)
	assert.Equal(t, "Out 1", o1.Label)
	assert.Equal(t, "Out 2", o2.Label)
	assert.Equal(t, 200.0, a.X)
	assert.Equal(t, 150.0, a.Y)
	assert.Equal(t, 220.0, b.X)
	assert.Equal(t, 170.0, b.Y)
	assert.False(t, a.State)
	assert.Equal(t, 5, g.Len())
}

func TestGraph_AddNode_reject(t *testing.T) {
	rec := &countRecorder{}
	g, log := newTestGraph(t, ls.WithRecorder(rec))
	for _, tag := range []string{"constructor", "__proto__", "", "nand"} {
		var err error
		require.NotPanics(t, func() { _, err = g.AddNode(tag) })
		assert.Equal(t, ls.ErrUnknownKind, errors.Cause(err))
		_, err = g.AddNodeAt(tag, 10, 10)
		assert.Equal(t, ls.ErrUnknownKind, errors.Cause(err))
	}
	assert.Equal(t, 0, g.Len())
	assert.Equal(t, 8, rec.rejected)
	assert.Contains(t, log.String(), "rejected invalid component type")
}

func TestGraph_labels_reuse_free_letter(t *testing.T) {
	g, _ := newTestGraph(t)
	a, _ := g.AddNode("INPUT")
	g.AddNode("INPUT")
	g.Delete(a.ID)
	c, err := g.AddNode("INPUT")
	require.NoError(t, err)
	assert.Equal(t, "A", c.Label)

	g.Clear()
	for i := 0; i < 26; i++ {
		_, err := g.AddNode("INPUT")
		require.NoError(t, err)
	}
	n, err := g.AddNode("INPUT")
	require.NoError(t, err)
	assert.Equal(t, "S27", n.Label)
}

func TestGraph_AddNodeAt_snaps(t *testing.T) {
	g, _ := newTestGraph(t)
	n, err := g.AddNodeAt("AND", 109, 131)
	require.NoError(t, err)
	assert.Equal(t, 100.0, n.X)
	assert.Equal(t, 140.0, n.Y)
	require.NoError(t, g.Move(n.ID, 11, 29))
	n, _ = g.Node(n.ID)
	assert.Equal(t, 20.0, n.X)
	assert.Equal(t, 20.0, n.Y)
}

func TestGraph_Connect(t *testing.T) {
	g, _ := newTestGraph(t)
	a, _ := g.AddNode("INPUT")
	b, _ := g.AddNode("INPUT")
	and, _ := g.AddNode("AND")
	out, _ := g.AddNode("OUTPUT")

	_, err := g.Connect(a.ID, a.ID, 0)
	assert.Equal(t, ls.ErrSelfLoop, errors.Cause(err))
	_, err = g.Connect("nope", and.ID, 0)
	assert.Equal(t, ls.ErrNoNode, errors.Cause(err))
	_, err = g.Connect(a.ID, "nope", 0)
	assert.Equal(t, ls.ErrNoNode, errors.Cause(err))
	_, err = g.Connect(out.ID, and.ID, 0)
	assert.Equal(t, ls.ErrNoOutput, errors.Cause(err))
	_, err = g.Connect(a.ID, and.ID, 2)
	assert.Equal(t, ls.ErrBadPort, errors.Cause(err))
	_, err = g.Connect(a.ID, b.ID, 0)
	assert.Equal(t, ls.ErrBadPort, errors.Cause(err))
	assert.Empty(t, g.Connections())

	_, err = g.Connect(a.ID, and.ID, 0)
	require.NoError(t, err)
	_, err = g.Connect(b.ID, and.ID, 1)
	require.NoError(t, err)
	_, err = g.Connect(and.ID, out.ID, 0)
	require.NoError(t, err)

	require.NoError(t, g.SetState(a.ID, true))
	assert.False(t, g.Simulate()[out.ID])
	on, err := g.Toggle(b.ID)
	require.NoError(t, err)
	assert.True(t, on)
	assert.True(t, g.Simulate()[out.ID])
}

func TestGraph_Connect_supersedes(t *testing.T) {
	g, _ := newTestGraph(t)
	on, _ := g.AddNode("INPUT")
	off, _ := g.AddNode("INPUT")
	out, _ := g.AddNode("OUTPUT")
	require.NoError(t, g.SetState(on.ID, true))

	_, err := g.Connect(on.ID, out.ID, 0)
	require.NoError(t, err)
	assert.True(t, g.Simulate()[out.ID])

	c, err := g.Connect(off.ID, out.ID, 0)
	require.NoError(t, err)
	conns := g.Connections()
	require.Len(t, conns, 1)
	assert.Equal(t, c, conns[0])
	assert.False(t, g.Simulate()[out.ID])
}

func TestGraph_fan_out(t *testing.T) {
	g, _ := newTestGraph(t)
	in, _ := g.AddNode("INPUT")
	var outs []ls.Node
	for i := 0; i < 3; i++ {
		o, _ := g.AddNode("OUTPUT")
		_, err := g.Connect(in.ID, o.ID, 0)
		require.NoError(t, err)
		outs = append(outs, o)
	}
	g.Toggle(in.ID)
	v := g.Simulate()
	for _, o := range outs {
		assert.True(t, v[o.ID])
	}
}

func TestGraph_Delete_prunes(t *testing.T) {
	g, _ := newTestGraph(t)
	a, _ := g.AddNode("INPUT")
	n, _ := g.AddNode("NOT")
	o, _ := g.AddNode("OUTPUT")
	g.Connect(a.ID, n.ID, 0)
	w, _ := g.Connect(n.ID, o.ID, 0)

	assert.Equal(t, 1, g.Delete(n.ID, "unknown"))
	assert.Empty(t, g.Connections())
	assert.False(t, g.Disconnect(w.ID))
	_, ok := g.Node(n.ID)
	assert.False(t, ok)
}

func TestGraph_errors(t *testing.T) {
	g, _ := newTestGraph(t)
	gate, _ := g.AddNode("OR")
	_, err := g.Toggle(gate.ID)
	assert.Equal(t, ls.ErrNotAnInput, errors.Cause(err))
	assert.Equal(t, ls.ErrNotAnInput, errors.Cause(g.SetState(gate.ID, true)))
	assert.Equal(t, ls.ErrNoNode, errors.Cause(g.Move("x", 0, 0)))
	assert.Equal(t, ls.ErrNoNode, errors.Cause(g.SetLabel("x", "y")))
	require.NoError(t, g.SetLabel(gate.ID, "carry"))
	n, _ := g.Node(gate.ID)
	assert.Equal(t, "carry", n.Label)
}

func TestGraph_Load(t *testing.T) {
	g, log := newTestGraph(t)
	c := andCircuit(true, true)
	c.Connections = append(c.Connections,
		ls.Connection{ID: "c4", From: "a", To: "ghost"},
		ls.Connection{ID: "c5", From: "b", To: "out"},
	)
	g.Load(c)
	conns := g.Connections()
	require.Len(t, conns, 3)
	// c3 already drives out:0
	assert.Equal(t, "c3", conns[2].ID)
	assert.True(t, strings.Contains(log.String(), "dangling"))
	assert.True(t, strings.Contains(log.String(), "shadowed"))

	// the graph owns its own copy
	c.Nodes[1].State = false
	assert.True(t, g.Simulate()["out"])
}

func TestGraph_TruthTable_leaves_graph(t *testing.T) {
	g, _ := newTestGraph(t)
	_, err := g.AddNode("OUTPUT")
	require.NoError(t, err)
	before := g.Snapshot()
	_, err = g.TruthTable()
	assert.Equal(t, ls.ErrMissingIO, errors.Cause(err))
	assert.Equal(t, before, g.Snapshot())

	g.Load(andCircuit(true, false))
	before = g.Snapshot()
	tt, err := g.TruthTable()
	require.NoError(t, err)
	assert.Len(t, tt.Rows, 4)
	assert.Equal(t, before, g.Snapshot())
}

func TestSnap(t *testing.T) {
	assert.Equal(t, 20.0, ls.Snap(10, 20))
	assert.Equal(t, 0.0, ls.Snap(9.9, 20))
	assert.Equal(t, -20.0, ls.Snap(-11, 20))
	assert.Equal(t, 13.3, ls.Snap(13.3, 0))
}

func TestNewID(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := ls.NewID()
		assert.Len(t, id, 9)
		assert.False(t, seen[id])
		seen[id] = true
	}
}

func TestGraph_Run(t *testing.T) {
	g, log := newTestGraph(t, ls.WithMaxPasses(4))
	n, err := g.AddNode("NOT")
	require.NoError(t, err)
	_, err = g.Connect(n.ID, n.ID, 0)
	assert.Equal(t, ls.ErrSelfLoop, errors.Cause(err))

	g.Load(ls.Circuit{
		Nodes:       []ls.Node{{ID: "n", Kind: ls.Not}},
		Connections: []ls.Connection{{ID: "w", From: "n", To: "n"}},
	})
	r := g.Run()
	assert.False(t, r.Stable)
	assert.Equal(t, 4, r.Passes)
	assert.Contains(t, log.String(), "pass limit")

	g.Load(andCircuit(true, true))
	r = g.Run()
	assert.True(t, r.Stable)
	assert.True(t, r.Values["out"])
}

func TestGraph_Load_matches_Simulate(t *testing.T) {
	nodes := []ls.Node{
		{ID: "a", Kind: ls.Input, State: true},
		{ID: "b", Kind: ls.Input, Y: 40},
		{ID: "o", Kind: ls.Output},
		{ID: "p", Kind: ls.Output, Y: 40},
	}
	td := []struct {
		name  string
		conns []ls.Connection
	}{
		{"first wire wins", []ls.Connection{
			{ID: "w1", From: "a", To: "o"},
			{ID: "w2", From: "b", To: "o"},
		}},
		{"second wire wins", []ls.Connection{
			{ID: "w1", From: "b", To: "o"},
			{ID: "w2", From: "a", To: "o"},
		}},
		{"dangling first wire", []ls.Connection{
			{ID: "w1", From: "ghost", To: "o"},
			{ID: "w2", From: "a", To: "o"},
			{ID: "w3", From: "a", To: "p"},
		}},
	}
	for _, d := range td {
		t.Run(d.name, func(t *testing.T) {
			c := ls.Circuit{Nodes: nodes, Connections: d.conns}
			g, _ := newTestGraph(t)
			g.Load(c)
			exp := ls.Simulate(c.Nodes, c.Connections)
			assert.Equal(t, exp, g.Simulate())
			assert.Equal(t, exp, ls.Simulate(g.Snapshot().Nodes, g.Snapshot().Connections))
		})
	}
}
