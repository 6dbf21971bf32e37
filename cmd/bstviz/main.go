// Package main is the entry point for bstviz, a binary search tree
// workbench with undo/redo history and Lua scripting.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/dshills/bstviz/internal/app"
	"github.com/dshills/bstviz/internal/engine"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// cliOptions holds everything parsed from the command line.
type cliOptions struct {
	app app.Options

	scripts     stringList
	inline      string
	random      int
	seed        int64
	orders      []engine.Order
	showNodes   bool
	showHistory bool
	printConfig bool
	watch       bool

	values []int
}

// stringList collects a repeatable string flag.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	if opts == nil {
		return 0
	}

	opts.app.LogOutput = stderr
	opts.app.ScriptOutput = stdout

	application, err := app.New(opts.app)
	if err != nil {
		fmt.Fprintf(stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}

	// Ensure cleanup on all exit paths
	defer application.Shutdown()

	if opts.printConfig {
		if err := application.Config().Encode(stdout); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		return 0
	}

	// Cancel running scripts and the watcher on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if opts.watch || application.Config().Watch.Enabled {
		if err := application.StartWatcher(ctx); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
	}

	if err := build(ctx, application, opts); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	r := report{
		engine:      application.Engine(),
		orders:      opts.orders,
		showNodes:   opts.showNodes,
		showHistory: opts.showHistory,
	}
	r.write(stdout)

	if opts.watch {
		fmt.Fprintln(stderr, "watching configuration, press Ctrl-C to exit")
		<-ctx.Done()
	}
	return 0
}

// build populates the tree from positional values, random generation and
// scripts, in that order.
func build(ctx context.Context, application *app.Application, opts *cliOptions) error {
	e := application.Engine()

	if len(opts.values) > 0 {
		if _, err := e.InsertAll(opts.values); err != nil {
			return err
		}
	}

	if opts.random > 0 {
		var rng *rand.Rand
		if opts.seed != 0 {
			rng = rand.New(rand.NewPCG(uint64(opts.seed), 0))
		}
		if err := e.GenerateRandom(opts.random, rng); err != nil {
			return err
		}
	}

	for _, path := range opts.scripts {
		if err := application.RunScript(ctx, path); err != nil {
			return err
		}
	}

	if opts.inline != "" {
		if err := application.RunString(ctx, opts.inline); err != nil {
			return err
		}
	}
	return nil
}

// parseOrders parses a comma-separated list of traversal orders.
// "all" selects every order.
func parseOrders(s string) ([]engine.Order, error) {
	if s == "" || s == "all" {
		return []engine.Order{engine.OrderIn, engine.OrderPre, engine.OrderPost, engine.OrderLevel}, nil
	}
	if s == "none" {
		return nil, nil
	}
	var orders []engine.Order
	for _, name := range strings.Split(s, ",") {
		o, err := engine.ParseOrder(name)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}

// parseFlags parses args. It returns nil options when the invocation was
// fully handled, such as -version.
func parseFlags(args []string, stderr io.Writer) (*cliOptions, error) {
	var opts cliOptions
	var showVersion bool
	var orderSpec string

	fs := flag.NewFlagSet("bstviz", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&opts.app.ConfigPath, "config", "", "Path to configuration file")
	fs.StringVar(&opts.app.ConfigPath, "c", "", "Path to configuration file (shorthand)")
	fs.Var(&opts.scripts, "script", "Lua script to run against the tree (repeatable)")
	fs.Var(&opts.scripts, "s", "Lua script to run (shorthand)")
	fs.StringVar(&opts.inline, "e", "", "Inline Lua code to run after scripts")
	fs.IntVar(&opts.random, "random", 0, "Insert this many random values")
	fs.Int64Var(&opts.seed, "seed", 0, "Seed for -random (0 picks one)")
	fs.StringVar(&orderSpec, "order", "all", "Traversals to print: all, none, or a list such as in,level")
	fs.BoolVar(&opts.showNodes, "nodes", false, "Print a table of every node")
	fs.BoolVar(&opts.showHistory, "history", false, "Print the undo history")
	fs.BoolVar(&opts.printConfig, "print-config", false, "Print the effective configuration and exit")
	fs.BoolVar(&opts.watch, "watch", false, "Keep running and reload the config file on change")
	fs.BoolVar(&opts.app.Debug, "debug", false, "Enable debug logging and tree validation")
	fs.BoolVar(&opts.app.Debug, "d", false, "Enable debug mode (shorthand)")
	fs.StringVar(&opts.app.LogLevel, "log-level", "", "Log level (debug, info, warn, error); overrides the config file")
	fs.BoolVar(&showVersion, "version", false, "Show version information")
	fs.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")

	fs.Usage = func() {
		out := fs.Output()
		fmt.Fprintf(out, "bstviz - binary search tree workbench\n\n")
		fmt.Fprintf(out, "Usage: bstviz [options] [values...]\n\n")
		fmt.Fprintf(out, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(out, "\nExamples:\n")
		fmt.Fprintf(out, "  bstviz 50 30 70 20 40          Insert values and print traversals\n")
		fmt.Fprintf(out, "  bstviz -random 15 -seed 7      Build a random tree\n")
		fmt.Fprintf(out, "  bstviz -s build.lua -history   Run a script and show its history\n")
		fmt.Fprintf(out, "  bstviz -e 'tree.insert(5)'     Run inline Lua\n")
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if showVersion {
		fmt.Fprintf(fs.Output(), "bstviz %s\nCommit: %s\nBuilt: %s\n", version, commit, date)
		return nil, nil
	}

	// Validate log level
	switch opts.app.LogLevel {
	case "", "debug", "info", "warn", "error":
		// Valid
	default:
		return nil, fmt.Errorf("invalid log level %q (must be debug, info, warn, or error)", opts.app.LogLevel)
	}

	if opts.random < 0 {
		return nil, fmt.Errorf("invalid -random %d", opts.random)
	}

	orders, err := parseOrders(orderSpec)
	if err != nil {
		return nil, err
	}
	opts.orders = orders

	// Remaining arguments are values to insert
	for _, arg := range fs.Args() {
		v, err := strconv.Atoi(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid value %q: not an integer", arg)
		}
		opts.values = append(opts.values, v)
	}

	return &opts, nil
}
