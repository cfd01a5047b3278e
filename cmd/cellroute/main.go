// Command cellroute loads a chip description, runs the selected
// optimisation steps against a wall-clock budget, and writes the
// resulting solution file.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	cellroute "github.com/r3ntru3w4n9/cell-move-router"
)

// Exit codes.
const (
	exitOK    = 0
	exitError = 1
)

const usage = `cellroute - cell-move / global-routing solver core

Usage:
  cellroute --infile <path> --outfile <path> [options]

Options:
  --infile PATH    input chip description (required)
  --outfile PATH   output solution file (required)
  --sec N          time budget in seconds
  --min N          time budget in minutes
  --hr N           time budget in hours (default 1)
  --cell           enable cell-move optimisation
  --net            enable net-reroute optimisation
  --profile PATH   YAML file pre-supplying the above flags
  -v               enable debug logging
  -vv              enable trace logging
`

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("cellroute", flag.ContinueOnError)
	fs.Usage = func() { fmt.Fprint(os.Stderr, usage) }

	var (
		infile  = fs.String("infile", "", "input chip description")
		outfile = fs.String("outfile", "", "output solution file")
		sec     = fs.Int("sec", 0, "time budget in seconds")
		min     = fs.Int("min", 0, "time budget in minutes")
		hr      = fs.Int("hr", 0, "time budget in hours")
		cell    = fs.Bool("cell", false, "enable cell-move optimisation")
		net     = fs.Bool("net", false, "enable net-reroute optimisation")
		profile = fs.String("profile", "", "YAML run profile")
		verbose = fs.Bool("v", false, "enable debug logging")
		vverb   = fs.Bool("vv", false, "enable trace logging")
	)

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitError
	}

	opts := cliOptions{
		infile: *infile, outfile: *outfile,
		sec: *sec, min: *min, hr: *hr,
		cell: *cell, net: *net,
		verbose: *verbose, traceVerbose: *vverb,
	}
	if *profile != "" {
		p, err := loadProfile(*profile)
		if err != nil {
			printError("reading profile: %v", err)
			return exitError
		}
		opts = p.apply(opts)
	}

	if opts.infile == "" || opts.outfile == "" {
		printError("--infile and --outfile are required")
		fs.Usage()
		return exitError
	}

	timeFlags := 0
	for _, v := range []int{opts.sec, opts.min, opts.hr} {
		if v > 0 {
			timeFlags++
		}
	}
	if timeFlags > 1 {
		printError("at most one of --sec, --min, --hr may be given")
		return exitError
	}

	if err := cmdRoute(opts); err != nil {
		printError("%v", err)
		return exitError
	}
	return exitOK
}

type cliOptions struct {
	infile, outfile string
	sec, min, hr     int
	cell, net        bool
	verbose          bool
	traceVerbose     bool
}

func (o cliOptions) logger() *slog.Logger {
	level := slog.LevelWarn
	switch {
	case o.traceVerbose:
		level = -8 // types.LevelTrace, duplicated here to avoid importing types for one constant
	case o.verbose:
		level = slog.LevelDebug
	default:
		return nil
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.Level(level)}))
}

func cmdRoute(opts cliOptions) error {
	in, err := os.Open(opts.infile)
	if err != nil {
		return fmt.Errorf("cellroute: %w", err)
	}
	defer in.Close()

	out, err := os.Create(opts.outfile)
	if err != nil {
		return fmt.Errorf("cellroute: %w", err)
	}
	defer out.Close()

	logger := opts.logger()
	cfg := cellroute.RunConfig{Logger: logger}
	if opts.cell {
		cfg.CellMove = noopCellMove
	}
	if opts.net {
		cfg.Reroute = noopReroute
	}
	duration := cellroute.Budget(opts.sec, opts.min, opts.hr)

	diags, err := cellroute.Solve(context.Background(), in, out, duration, cfg, cellroute.WithLogger(logger))
	for _, d := range diags {
		fmt.Fprintln(os.Stderr, d.String())
	}
	if err != nil {
		return fmt.Errorf("cellroute: %w", err)
	}
	return nil
}

// noopCellMove and noopReroute satisfy the cellroute.Step contract
// without making any optimisation decisions: the heuristic itself is an
// external collaborator this repository does not implement.
func noopCellMove(ctx context.Context, c *cellroute.Chip) error { return nil }
func noopReroute(ctx context.Context, c *cellroute.Chip) error  { return nil }

func printError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
}
