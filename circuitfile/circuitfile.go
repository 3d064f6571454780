// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package circuitfile reads and writes circuits as YAML or JSON documents.
//
// A document looks like:
//
//	name: half adder
//	nodes:
//	  - {id: a, kind: INPUT, x: 100, y: 100, label: A}
//	  - {id: b, kind: INPUT, x: 100, y: 200, label: B, state: true}
//	  - {id: x, kind: XOR, x: 300, y: 150}
//	  - {id: s, kind: OUTPUT, x: 500, y: 150, label: S}
//	wires:
//	  - {from: a, to: x, input: 0}
//	  - {from: b, to: x, input: 1}
//	  - {from: x, to: s}
//
// Node and wire ids are optional. Missing ids are generated when the document
// is converted to a circuit.
//
package circuitfile

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	ls "github.com/db47h/logicsim"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Version is the current document version.
//
const Version = 1

// Limits on document size.
//
const (
	MaxNodes       = 1000
	MaxWires       = 1000
	MaxLabelLength = 100
)

// ErrInvalid is the root cause of all document validation errors.
//
var ErrInvalid = errors.New("invalid circuit document")

// Format is a document encoding.
//
type Format int

// Supported formats.
//
const (
	YAML Format = iota
	JSON
)

// FormatOf returns the format matching the extension of path. Anything but
// ".json" is YAML.
//
func FormatOf(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return JSON
	}
	return YAML
}

// Node is the document form of a logicsim.Node.
//
type Node struct {
	ID    string  `yaml:"id,omitempty" json:"id,omitempty" validate:"omitempty,max=64,excludesall=:;>0x2C"`
	Kind  ls.Kind `yaml:"kind" json:"kind" validate:"required"`
	X     float64 `yaml:"x" json:"x"`
	Y     float64 `yaml:"y" json:"y"`
	Label string  `yaml:"label,omitempty" json:"label,omitempty" validate:"max=100"`
	State bool    `yaml:"state,omitempty" json:"state,omitempty"`
}

// Wire is the document form of a logicsim.Connection.
//
type Wire struct {
	ID    string `yaml:"id,omitempty" json:"id,omitempty" validate:"omitempty,max=64"`
	From  string `yaml:"from" json:"from" validate:"required"`
	To    string `yaml:"to" json:"to" validate:"required"`
	Input int    `yaml:"input" json:"input" validate:"min=0,max=1"`
}

// Document is a circuit document.
//
type Document struct {
	Version int    `yaml:"version,omitempty" json:"version,omitempty" validate:"omitempty,eq=1"`
	Name    string `yaml:"name,omitempty" json:"name,omitempty" validate:"max=100"`
	Nodes   []Node `yaml:"nodes" json:"nodes" validate:"max=1000,dive"`
	Wires   []Wire `yaml:"wires,omitempty" json:"wires,omitempty" validate:"max=1000,dive"`
}

var validate = validator.New()

// Validate checks d: field constraints first, then that node ids are unique
// and that every wire goes from a node with an output to an existing input
// port. Feedback loops, including a gate wired to itself, are allowed.
//
func (d *Document) Validate() error {
	if err := validate.Struct(d); err != nil {
		return formatValidationError(err)
	}
	kinds := make(map[string]ls.Kind, len(d.Nodes))
	for i, n := range d.Nodes {
		if n.ID == "" {
			continue
		}
		if _, dup := kinds[n.ID]; dup {
			return errors.Wrapf(ErrInvalid, "nodes[%d]: duplicate id %q", i, n.ID)
		}
		kinds[n.ID] = n.Kind
	}
	for i, w := range d.Wires {
		from, ok := kinds[w.From]
		if !ok {
			return errors.Wrapf(ErrInvalid, "wires[%d]: unknown node %q", i, w.From)
		}
		to, ok := kinds[w.To]
		if !ok {
			return errors.Wrapf(ErrInvalid, "wires[%d]: unknown node %q", i, w.To)
		}
		if from.Outputs() == 0 {
			return errors.Wrapf(ErrInvalid, "wires[%d]: %s node %q has no output", i, from, w.From)
		}
		if w.Input >= to.Inputs() {
			return errors.Wrapf(ErrInvalid, "wires[%d]: %s node %q has no input %d", i, to, w.To, w.Input)
		}
	}
	return nil
}

func formatValidationError(err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return errors.Wrap(ErrInvalid, err.Error())
	}
	e := verrs[0]
	field := strings.TrimPrefix(e.Namespace(), "Document.")
	switch e.Tag() {
	case "required":
		return errors.Wrapf(ErrInvalid, "%s: field is required", field)
	case "min":
		return errors.Wrapf(ErrInvalid, "%s: must be at least %s", field, e.Param())
	case "max":
		return errors.Wrapf(ErrInvalid, "%s: must not exceed %s", field, e.Param())
	case "excludesall":
		return errors.Wrapf(ErrInvalid, "%s: must not contain any of %q", field, ":;>,")
	}
	return errors.Wrapf(ErrInvalid, "%s: validation failed (%s)", field, e.Tag())
}

// New returns the document form of c.
//
func New(name string, c ls.Circuit) *Document {
	d := &Document{
		Version: Version,
		Name:    name,
		Nodes:   make([]Node, 0, len(c.Nodes)),
		Wires:   make([]Wire, 0, len(c.Connections)),
	}
	for _, n := range c.Nodes {
		d.Nodes = append(d.Nodes, Node{ID: n.ID, Kind: n.Kind, X: n.X, Y: n.Y, Label: n.Label, State: n.State})
	}
	for _, w := range c.Connections {
		d.Wires = append(d.Wires, Wire{ID: w.ID, From: w.From, To: w.To, Input: w.Input})
	}
	return d
}

// Circuit validates d and converts it to a circuit. Nodes without an id get
// a random one. Their label defaults to the kind tag.
//
func (d *Document) Circuit() (ls.Circuit, error) {
	if err := d.Validate(); err != nil {
		return ls.Circuit{}, err
	}
	c := ls.Circuit{
		Nodes:       make([]ls.Node, 0, len(d.Nodes)),
		Connections: make([]ls.Connection, 0, len(d.Wires)),
	}
	for _, n := range d.Nodes {
		id := n.ID
		if id == "" {
			id = uuid.NewString()
		}
		label := n.Label
		if label == "" {
			label = n.Kind.String()
		}
		c.Nodes = append(c.Nodes, ls.Node{ID: id, Kind: n.Kind, X: n.X, Y: n.Y, Label: label, State: n.State && n.Kind == ls.Input})
	}
	for _, w := range d.Wires {
		id := w.ID
		if id == "" {
			id = uuid.NewString()
		}
		c.Connections = append(c.Connections, ls.Connection{ID: id, From: w.From, To: w.To, Input: w.Input})
	}
	return c, nil
}

// Decode reads a document from r. Unknown fields are rejected.
//
func Decode(r io.Reader, f Format) (*Document, error) {
	var d Document
	switch f {
	case JSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&d); err != nil {
			return nil, errors.Wrap(err, "decode JSON circuit")
		}
	default:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&d); err != nil {
			if err == io.EOF {
				return &d, nil
			}
			return nil, errors.Wrap(err, "decode YAML circuit")
		}
	}
	return &d, nil
}

// Encode writes d to w.
//
func Encode(w io.Writer, d *Document, f Format) error {
	switch f {
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(d), "encode JSON circuit")
	default:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(d); err != nil {
			return errors.Wrap(err, "encode YAML circuit")
		}
		return errors.Wrap(enc.Close(), "encode YAML circuit")
	}
}

// Parse decodes and converts a document held in memory.
//
func Parse(data []byte, f Format) (ls.Circuit, error) {
	d, err := Decode(bytes.NewReader(data), f)
	if err != nil {
		return ls.Circuit{}, err
	}
	return d.Circuit()
}

// Load reads a circuit from the named file. The format is chosen from the
// file extension.
//
func Load(path string) (ls.Circuit, *Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return ls.Circuit{}, nil, errors.Wrap(err, "open circuit")
	}
	defer f.Close()
	d, err := Decode(f, FormatOf(path))
	if err != nil {
		return ls.Circuit{}, nil, errors.Wrapf(err, "%s", path)
	}
	c, err := d.Circuit()
	if err != nil {
		return ls.Circuit{}, nil, errors.Wrapf(err, "%s", path)
	}
	return c, d, nil
}

// Save writes c to the named file. The format is chosen from the file
// extension.
//
func Save(path, name string, c ls.Circuit) error {
	var buf bytes.Buffer
	if err := Encode(&buf, New(name, c), FormatOf(path)); err != nil {
		return err
	}
	return errors.Wrap(os.WriteFile(path, buf.Bytes(), 0o644), "save circuit")
}
