// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Command logicsim simulates logic circuits.
//
// Usage:
//
//	logicsim [-config file] [-log-level l] [-log-format f] [-max-passes n] <command> [flags]
//
// Commands:
//
//	sim     print the value of every node
//	table   print the truth table
//	share   print the share link query
//	export  write the circuit to a YAML or JSON file
//	play    interactive breadboard
//	list    list the built-in circuits
//
// Circuits are read from a file (-f), a share link (-link) or the built-in
// library (-demo).
//
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	ls "github.com/db47h/logicsim"
	"github.com/db47h/logicsim/circuitlib"
	"github.com/db47h/logicsim/internal/config"
	"github.com/pkg/errors"
)

type command struct {
	name  string
	usage string
	run   func(app *app, args []string) error
}

var commands = []command{
	{"sim", "(-f file | -link query | -demo NAME) [-set A=1,B=0]", runSim},
	{"table", "(-f file | -link query | -demo NAME)", runTable},
	{"share", "(-f file | -link query | -demo NAME) [-base URL]", runShare},
	{"export", "(-f file | -link query | -demo NAME) -o file", runExport},
	{"play", "(-f file | -link query | -demo NAME) [-metrics-addr host:port] [-log-file file]", runPlay},
	{"list", "", runList},
}

// app holds what commands share.
type app struct {
	cfg    config.Config
	log    *slog.Logger
	stdout io.Writer
	stderr io.Writer
}

func (a *app) simulator() ls.Simulator {
	return ls.Simulator{MaxPasses: a.cfg.MaxPasses, Workers: a.cfg.Workers}
}

func usage(w io.Writer, fs *flag.FlagSet) func() {
	return func() {
		fmt.Fprintln(w, "usage: logicsim [flags] <command> [command flags]")
		fmt.Fprintln(w, "\ncommands:")
		for _, c := range commands {
			fmt.Fprintf(w, "  %-7s %s\n", c.name, c.usage)
		}
		fmt.Fprintln(w, "\nflags:")
		fs.SetOutput(w)
		fs.PrintDefaults()
	}
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("logicsim", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = usage(stderr, fs)
	cfgFile := fs.String("config", "", "configuration `file` (YAML)")
	logLevel := fs.String("log-level", "", "log `level`: debug, info, warn or error")
	logFormat := fs.String("log-format", "", "log `format`: text or json")
	maxPasses := fs.Int("max-passes", 0, "relaxation pass limit")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	cfg, err := config.Load(*cfgFile)
	if err != nil {
		fmt.Fprintln(stderr, "logicsim:", err)
		return 1
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if *logFormat != "" {
		cfg.LogFormat = *logFormat
	}
	if *maxPasses != 0 {
		cfg.MaxPasses = *maxPasses
	}
	if err = cfg.Validate(); err != nil {
		fmt.Fprintln(stderr, "logicsim:", err)
		return 2
	}

	a := &app{cfg: cfg, log: cfg.Logger(stderr), stdout: stdout, stderr: stderr}

	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}
	name := fs.Arg(0)
	for _, c := range commands {
		if c.name != name {
			continue
		}
		if err = c.run(a, fs.Args()[1:]); err != nil {
			if err == flag.ErrHelp {
				return 0
			}
			if errors.Cause(err) == errUsage {
				return 2
			}
			a.log.Error(name+" failed", "error", err)
			return 1
		}
		return 0
	}
	fmt.Fprintf(stderr, "logicsim: unknown command %q\n", name)
	fs.Usage()
	return 2
}

// errUsage is returned by commands when the flag set already reported the
// problem.
var errUsage = errors.New("usage")

func newFlagSet(a *app, name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	return fs
}

func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return err
		}
		return errUsage
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(fs.Output(), "%s: unexpected arguments: %s\n", fs.Name(), strings.Join(fs.Args(), " "))
		return errUsage
	}
	return nil
}

func runList(a *app, args []string) error {
	fs := newFlagSet(a, "list")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	for _, n := range circuitlib.Names() {
		fmt.Fprintln(a.stdout, n)
	}
	return nil
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
