// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package share encodes circuits to and from the compact query string format
// used by share links.
//
// Nodes are stored in the "n" parameter as a ';' separated list of
//
//	code:id:x,y:label(:state)
//
// where code is the one letter code of the node's kind (see logicsim.Kind.Code),
// x and y are rounded to integers, label is URL encoded and state (0 or 1) is
// only present for Input nodes.
//
// Connections are stored in the "w" parameter as a ';' separated list of
//
//	from>to:input
//
// Connection ids are not stored; decoded connections get fresh ids.
//
// Decoding is lenient: malformed items are skipped, and at most
// compact.DefaultMaxItems items are read from each list.
//
package share

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	ls "github.com/db47h/logicsim"
	"github.com/db47h/logicsim/internal/compact"
	"github.com/pkg/errors"
)

// Query parameter names.
//
const (
	ParamNodes = "n"
	ParamWires = "w"
)

// Field limits when splitting a single item. Extra fields are ignored.
const (
	maxNodeParts  = 8
	maxPosParts   = 4
	maxArrowParts = 4
	maxColonParts = 4
)

// ErrNoCircuit is returned by ParseQuery and ParseLink when the query holds
// neither nodes nor wires.
//
var ErrNoCircuit = errors.New("no circuit in query")

// componentFixer undoes the differences between url.QueryEscape and
// encodeURIComponent.
var componentFixer = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// encodeComponent escapes s the way browsers' encodeURIComponent does.
func encodeComponent(s string) string {
	return componentFixer.Replace(url.QueryEscape(s))
}

func decodeComponent(s string) string {
	if v, err := url.PathUnescape(s); err == nil {
		return v
	}
	return s
}

func round(v float64) int {
	return int(math.Floor(v + 0.5))
}

func encodeNode(n ls.Node) string {
	var b strings.Builder
	b.WriteString(n.Kind.Code())
	b.WriteByte(':')
	b.WriteString(n.ID)
	b.WriteByte(':')
	b.WriteString(strconv.Itoa(round(n.X)))
	b.WriteByte(',')
	b.WriteString(strconv.Itoa(round(n.Y)))
	b.WriteByte(':')
	b.WriteString(encodeComponent(n.Label))
	if n.Kind == ls.Input {
		if n.State {
			b.WriteString(":1")
		} else {
			b.WriteString(":0")
		}
	}
	return b.String()
}

// EncodeNodes returns the compact form of nodes.
//
func EncodeNodes(nodes []ls.Node) string {
	return compact.JoinList(nodes, ";", encodeNode)
}

func decodeNode(part string) (ls.Node, bool) {
	sections := compact.Split(part, ":", maxNodeParts)
	if len(sections) < 4 {
		return ls.Node{}, false
	}
	k, err := ls.ParseKindCode(sections[0])
	if err != nil {
		return ls.Node{}, false
	}
	pos := compact.Split(sections[2], ",", maxPosParts)
	x, _ := compact.Atoi(pos[0])
	var y int
	if len(pos) > 1 {
		y, _ = compact.Atoi(pos[1])
	}
	n := ls.Node{
		ID:    sections[1],
		Kind:  k,
		X:     float64(x),
		Y:     float64(y),
		Label: decodeComponent(sections[3]),
	}
	if len(sections) > 4 && sections[4] != "" {
		n.State = sections[4] == "1"
	}
	return n, true
}

// DecodeNodes parses the compact form of a node list. Items with fewer than
// four fields or an unknown kind code are skipped. Missing or malformed
// coordinates read as 0.
//
func DecodeNodes(s string) []ls.Node {
	return compact.ParseList(s, compact.ListOptions{}, decodeNode)
}

func encodeConnection(c ls.Connection) string {
	return c.From + ">" + c.To + ":" + strconv.Itoa(c.Input)
}

// EncodeConnections returns the compact form of conns.
//
func EncodeConnections(conns []ls.Connection) string {
	return compact.JoinList(conns, ";", encodeConnection)
}

// DecodeConnections parses the compact form of a connection list, assigning
// new ids with newID. If newID is nil, logicsim.NewID is used. A missing or
// malformed input index reads as 0.
//
func DecodeConnections(s string, newID func() string) []ls.Connection {
	if newID == nil {
		newID = ls.NewID
	}
	return compact.ParseList(s, compact.ListOptions{}, func(part string) (ls.Connection, bool) {
		arrow := compact.Split(part, ">", maxArrowParts)
		if len(arrow) < 2 {
			return ls.Connection{}, false
		}
		colon := compact.Split(arrow[1], ":", maxColonParts)
		if len(colon) < 2 {
			return ls.Connection{}, false
		}
		idx, _ := compact.Atoi(colon[1])
		return ls.Connection{
			ID:    newID(),
			From:  arrow[0],
			To:    colon[0],
			Input: idx,
		}, true
	})
}

// Encode returns the query parameters for c. Empty lists are omitted.
//
func Encode(c ls.Circuit) url.Values {
	v := make(url.Values)
	if s := EncodeNodes(c.Nodes); s != "" {
		v.Set(ParamNodes, s)
	}
	if s := EncodeConnections(c.Connections); s != "" {
		v.Set(ParamWires, s)
	}
	return v
}

// Decode reads a circuit from query parameters. It returns false if v has
// neither a nodes nor a wires parameter.
//
func Decode(v url.Values) (ls.Circuit, bool) {
	_, hasN := v[ParamNodes]
	_, hasW := v[ParamWires]
	if !hasN && !hasW {
		return ls.Circuit{}, false
	}
	return ls.Circuit{
		Nodes:       DecodeNodes(v.Get(ParamNodes)),
		Connections: DecodeConnections(v.Get(ParamWires), nil),
	}, true
}

// EncodeQuery returns the encoded query string for c.
//
func EncodeQuery(c ls.Circuit) string {
	return Encode(c).Encode()
}

// ParseQuery decodes a circuit from a raw query string. A leading '?' is
// ignored. List delimiters may be left unescaped, as in
// "n=I:a:0,0:A:1;O:o:0,20:Out&w=a>o:0".
//
func ParseQuery(query string) (ls.Circuit, error) {
	query = strings.ReplaceAll(strings.TrimPrefix(query, "?"), ";", "%3B")
	v, err := url.ParseQuery(query)
	if err != nil {
		return ls.Circuit{}, errors.Wrap(err, "parse query")
	}
	c, ok := Decode(v)
	if !ok {
		return ls.Circuit{}, ErrNoCircuit
	}
	return c, nil
}

// Link returns base with its query replaced by the encoded form of c.
//
func Link(base string, c ls.Circuit) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", errors.Wrapf(err, "parse base URL %q", base)
	}
	u.RawQuery = EncodeQuery(c)
	return u.String(), nil
}

// ParseLink decodes a circuit from a full share link or a bare query string.
//
func ParseLink(link string) (ls.Circuit, error) {
	if !strings.Contains(link, "?") {
		return ParseQuery(link)
	}
	u, err := url.Parse(link)
	if err != nil {
		return ls.Circuit{}, errors.Wrapf(err, "parse link %q", link)
	}
	return ParseQuery(u.RawQuery)
}
