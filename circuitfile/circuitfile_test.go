package circuitfile_test

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	ls "github.com/db47h/logicsim"
	"github.com/db47h/logicsim/circuitfile"
	"github.com/db47h/logicsim/circuitlib"
	"github.com/db47h/logicsim/circuittest"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const halfAdder = `
name: half adder
nodes:
  - {id: a, kind: INPUT, x: 100, y: 100, label: A}
  - {id: b, kind: INPUT, x: 100, y: 200, label: B, state: true}
  - {id: x, kind: XOR, x: 300, y: 100}
  - {id: n, kind: AND, x: 300, y: 200}
  - {id: s, kind: OUTPUT, x: 500, y: 100, label: S}
  - {id: c, kind: OUTPUT, x: 500, y: 200, label: C}
wires:
  - {from: a, to: x, input: 0}
  - {from: b, to: x, input: 1}
  - {from: a, to: n, input: 0}
  - {from: b, to: n, input: 1}
  - {from: x, to: s}
  - {from: n, to: c}
`

func TestParse_yaml(t *testing.T) {
	c, err := circuitfile.Parse([]byte(halfAdder), circuitfile.YAML)
	require.NoError(t, err)
	require.Len(t, c.Nodes, 6)
	require.Len(t, c.Connections, 6)

	x, _ := c.Node("x")
	assert.Equal(t, "XOR", x.Label)
	b, _ := c.Node("b")
	assert.True(t, b.State)
	for _, w := range c.Connections {
		assert.NotEmpty(t, w.ID)
	}

	v := c.Simulate()
	assert.True(t, v["s"])
	assert.False(t, v["c"])
	circuittest.Compare(t, c, circuitlib.HalfAdder())
}

func TestParse_json(t *testing.T) {
	doc := `{"nodes": [
		{"kind": "INPUT", "id": "i", "state": true},
		{"kind": "NOT", "id": "n"},
		{"kind": "OUTPUT", "id": "o"}
	], "wires": [{"from": "i", "to": "n"}, {"from": "n", "to": "o"}]}`
	c, err := circuitfile.Parse([]byte(doc), circuitfile.JSON)
	require.NoError(t, err)
	assert.False(t, c.Simulate()["o"])
}

func TestParse_invalid(t *testing.T) {
	td := []struct {
		name string
		doc  string
		msg  string
	}{
		{"unknown kind", "nodes: [{id: a, kind: NAND}]", "unknown component type"},
		{"prototype kind", "nodes: [{id: a, kind: constructor}]", "unknown component type"},
		{"unknown field", "nodes: [{id: a, kind: AND, colour: red}]", "colour"},
		{"missing kind", "nodes: [{id: a}]", "Nodes[0].Kind: field is required"},
		{"bad id", "nodes: [{id: 'a;b', kind: AND}]", "Nodes[0].ID"},
		{"duplicate id", "nodes: [{id: a, kind: AND}, {id: a, kind: OR}]", "duplicate id"},
		{"dangling wire", "nodes: [{id: a, kind: INPUT}]\nwires: [{from: a, to: z}]", "unknown node \"z\""},
		{"from bulb", "nodes: [{id: a, kind: OUTPUT}, {id: b, kind: OUTPUT}]\nwires: [{from: a, to: b}]", "has no output"},
		{"to switch", "nodes: [{id: a, kind: INPUT}, {id: b, kind: INPUT}]\nwires: [{from: a, to: b}]", "has no input 0"},
		{"port range", "nodes: [{id: a, kind: INPUT}, {id: b, kind: NOT}]\nwires: [{from: a, to: b, input: 1}]", "has no input 1"},
		{"negative port", "nodes: [{id: a, kind: INPUT}, {id: b, kind: AND}]\nwires: [{from: a, to: b, input: -1}]", "must be at least 0"},
		{"version", "version: 2\nnodes: []", "Version"},
		{"long label", "nodes: [{kind: AND, label: " + strings.Repeat("x", 101) + "}]", "must not exceed 100"},
	}
	for _, d := range td {
		t.Run(d.name, func(t *testing.T) {
			_, err := circuitfile.Parse([]byte(d.doc), circuitfile.YAML)
			require.Error(t, err)
			assert.Contains(t, err.Error(), d.msg)
		})
	}
}

func TestValidate_cause(t *testing.T) {
	d := &circuitfile.Document{Nodes: []circuitfile.Node{{ID: "a"}}}
	assert.Equal(t, circuitfile.ErrInvalid, errors.Cause(d.Validate()))
}

func TestGeneratedIDs(t *testing.T) {
	c, err := circuitfile.Parse([]byte("nodes: [{kind: AND}, {kind: AND}]"), circuitfile.YAML)
	require.NoError(t, err)
	require.Len(t, c.Nodes, 2)
	assert.NotEmpty(t, c.Nodes[0].ID)
	assert.NotEqual(t, c.Nodes[0].ID, c.Nodes[1].ID)
}

func TestEmpty(t *testing.T) {
	c, err := circuitfile.Parse(nil, circuitfile.YAML)
	require.NoError(t, err)
	assert.Empty(t, c.Nodes)
}

func TestRoundTrip(t *testing.T) {
	for _, f := range []circuitfile.Format{circuitfile.YAML, circuitfile.JSON} {
		for _, name := range circuitlib.Names() {
			c, err := circuitlib.Lookup(name)
			require.NoError(t, err)

			var buf bytes.Buffer
			require.NoError(t, circuitfile.Encode(&buf, circuitfile.New(name, c), f))
			d, err := circuitfile.Decode(&buf, f)
			require.NoError(t, err, name)
			assert.Equal(t, name, d.Name)
			assert.Equal(t, circuitfile.Version, d.Version)
			got, err := d.Circuit()
			require.NoError(t, err, name)
			assert.Equal(t, c, got, name)
		}
	}
}

func TestLoadSave(t *testing.T) {
	dir := t.TempDir()
	c := circuitlib.FullAdder()
	for _, fn := range []string{"adder.yaml", "adder.json"} {
		path := filepath.Join(dir, fn)
		require.NoError(t, circuitfile.Save(path, "full adder", c))
		got, d, err := circuitfile.Load(path)
		require.NoError(t, err)
		assert.Equal(t, "full adder", d.Name)
		assert.Equal(t, c, got)
	}

	_, _, err := circuitfile.Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestNew_invalidKind(t *testing.T) {
	var buf bytes.Buffer
	c := ls.Circuit{Nodes: []ls.Node{{ID: "x", Kind: ls.Kind(42)}}}
	assert.Error(t, circuitfile.Encode(&buf, circuitfile.New("", c), circuitfile.JSON))
}

func TestFormatOf(t *testing.T) {
	assert.Equal(t, circuitfile.JSON, circuitfile.FormatOf("a/b.JSON"))
	assert.Equal(t, circuitfile.YAML, circuitfile.FormatOf("a/b.yml"))
	assert.Equal(t, circuitfile.YAML, circuitfile.FormatOf("b"))
}
