// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package main

import (
	"flag"
	"strings"

	ls "github.com/db47h/logicsim"
	"github.com/db47h/logicsim/circuitfile"
	"github.com/db47h/logicsim/circuitlib"
	"github.com/db47h/logicsim/share"
	"github.com/pkg/errors"
)

// source selects where a circuit is read from.
type source struct {
	file string
	link string
	demo string
}

func (s *source) register(fs *flag.FlagSet) {
	fs.StringVar(&s.file, "f", "", "read the circuit from a YAML or JSON `file`")
	fs.StringVar(&s.link, "link", "", "read the circuit from a share `link` or query string")
	fs.StringVar(&s.demo, "demo", "", "use a built-in circuit (see the list command)")
}

// load returns the selected circuit and a name for it.
func (s *source) load(a *app) (ls.Circuit, string, error) {
	n := 0
	for _, v := range []string{s.file, s.link, s.demo} {
		if v != "" {
			n++
		}
	}
	if n != 1 {
		return ls.Circuit{}, "", errors.New("exactly one of -f, -link or -demo is required")
	}

	switch {
	case s.file != "":
		c, d, err := circuitfile.Load(s.file)
		if err != nil {
			return ls.Circuit{}, "", err
		}
		name := d.Name
		if name == "" {
			name = s.file
		}
		a.log.Debug("circuit loaded", "file", s.file, "nodes", len(c.Nodes), "wires", len(c.Connections))
		return c, name, nil
	case s.link != "":
		c, err := share.ParseLink(s.link)
		if err != nil {
			return ls.Circuit{}, "", err
		}
		a.log.Debug("circuit decoded", "nodes", len(c.Nodes), "wires", len(c.Connections))
		return c, "shared circuit", nil
	}
	c, err := circuitlib.Lookup(strings.ToUpper(s.demo))
	if err != nil {
		return ls.Circuit{}, "", err
	}
	return c, strings.ToUpper(s.demo), nil
}

// applySettings sets switch states from a list like "A=1,B=0". Switches are
// matched by label first, then by id.
func applySettings(c *ls.Circuit, settings string) error {
	if settings == "" {
		return nil
	}
	for _, kv := range strings.Split(settings, ",") {
		k, v, ok := strings.Cut(strings.TrimSpace(kv), "=")
		if !ok {
			return errors.Errorf("invalid setting %q: expected NAME=0 or NAME=1", kv)
		}
		var on bool
		switch strings.ToLower(v) {
		case "1", "on", "true":
			on = true
		case "0", "off", "false":
		default:
			return errors.Errorf("invalid value %q for switch %s", v, k)
		}
		i := findSwitch(c.Nodes, k)
		if i < 0 {
			return errors.Wrap(ls.ErrNoNode, k)
		}
		c.Nodes[i].State = on
	}
	return nil
}

func findSwitch(nodes []ls.Node, name string) int {
	for i, n := range nodes {
		if n.Kind == ls.Input && n.Label == name {
			return i
		}
	}
	for i, n := range nodes {
		if n.Kind == ls.Input && n.ID == name {
			return i
		}
	}
	return -1
}
