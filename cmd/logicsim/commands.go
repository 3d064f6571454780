// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package main

import (
	"fmt"

	ls "github.com/db47h/logicsim"
	"github.com/db47h/logicsim/circuitfile"
	"github.com/db47h/logicsim/share"
	"github.com/pkg/errors"
)

func runSim(a *app, args []string) error {
	var src source
	fs := newFlagSet(a, "sim")
	src.register(fs)
	set := fs.String("set", "", "switch states, e.g. `A=1,B=0`")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	c, name, err := src.load(a)
	if err != nil {
		return err
	}
	if err = applySettings(&c, *set); err != nil {
		return err
	}
	sim := a.simulator()
	r := sim.Run(c.Nodes, c.Connections)
	if !r.Stable {
		a.log.Warn("circuit did not settle", "circuit", name, "passes", r.Passes)
	}
	fmt.Fprintln(a.stdout, renderValues(c.Nodes, r.Values))
	fmt.Fprintln(a.stdout, settleStatus(r))
	return nil
}

// checkTableSize refuses circuits with too many switches.
func checkTableSize(a *app, c ls.Circuit) error {
	n := 0
	for _, nd := range c.Nodes {
		if nd.Kind == ls.Input {
			n++
		}
	}
	if n > a.cfg.MaxTableInputs {
		return errors.Errorf("%d switches exceed the truth table limit of %d", n, a.cfg.MaxTableInputs)
	}
	return nil
}

func runTable(a *app, args []string) error {
	var src source
	fs := newFlagSet(a, "table")
	src.register(fs)
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	c, _, err := src.load(a)
	if err != nil {
		return err
	}
	if err = checkTableSize(a, c); err != nil {
		return err
	}
	sim := a.simulator()
	tt, err := sim.TruthTable(c.Nodes, c.Connections)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, renderTruthTable(tt))
	return nil
}

func runShare(a *app, args []string) error {
	var src source
	fs := newFlagSet(a, "share")
	src.register(fs)
	base := fs.String("base", "", "print a full link to this `URL` instead of a bare query")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	c, _, err := src.load(a)
	if err != nil {
		return err
	}
	if *base == "" {
		fmt.Fprintln(a.stdout, share.EncodeQuery(c))
		return nil
	}
	link, err := share.Link(*base, c)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, link)
	return nil
}

func runExport(a *app, args []string) error {
	var src source
	fs := newFlagSet(a, "export")
	src.register(fs)
	out := fs.String("o", "", "output `file`; .json for JSON, YAML otherwise")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *out == "" {
		return errors.New("export: missing -o")
	}
	c, name, err := src.load(a)
	if err != nil {
		return err
	}
	if err = circuitfile.Save(*out, name, c); err != nil {
		return err
	}
	a.log.Info("circuit exported", "file", *out, "nodes", len(c.Nodes), "wires", len(c.Connections))
	return nil
}
