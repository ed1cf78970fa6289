// hive is a sandbox to explore the rules of Hive: place and move pieces on a board from the
// command line, and list their legal moves.
//
// With -playouts it instead plays random placements and moves in parallel, checking the board
// invariants, to stress test and profile the rules engine.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/janpfeifer/hiveboard/internal/inventory"
	"github.com/janpfeifer/hiveboard/internal/playout"
	"github.com/janpfeifer/hiveboard/internal/profilers"
	. "github.com/janpfeifer/hiveboard/internal/state"
	"github.com/janpfeifer/hiveboard/internal/ui/cli"
	"github.com/janpfeifer/must"
	"k8s.io/klog/v2"
)

var (
	flagConfig = flag.String("config", "",
		"Rules configuration, a comma separated list of key=value, e.g. \"exempt_placements=2,require_queen=true\".")
	flagInventory = flag.String("inventory", "",
		"YAML file with the pieces of the match. If empty, the standard set of pieces is used.")
	flagColor = flag.Bool("color", true, "Use colors to print the board.")
	flagClear = flag.Bool("clear", false, "Clear the screen before printing the board.")

	flagPlayouts    = flag.Int("playouts", 0, "If > 0, play these many random playouts instead of the interactive mode.")
	flagMaxActions  = flag.Int("max_actions", 200, "Max number of placements and moves per playout.")
	flagPlaceProb   = flag.Float64("place_prob", 0.3, "Probability of placing a piece instead of moving, in playouts.")
	flagSeed        = flag.Uint64("seed", 0, "Random seed for the playouts. If 0, one is picked from the clock.")
	flagParallelism = flag.Int("parallelism", 0, "Number of playouts run simultaneously. Defaults to GOMAXPROCS.")
)

func main() {
	klog.InitFlags(nil)
	flag.Usage = func() {
		_, _ = fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags]\n\nType \"help\" at the prompt for the list of commands.\n\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() > 0 {
		klog.Exitf("Unknown arguments %q, see --help", flag.Args())
	}

	config, err := ParseConfig(*flagConfig)
	if err != nil {
		klog.Exitf("Invalid --config=%q: %+v", *flagConfig, err)
	}
	registry := inventory.Standard()
	if *flagInventory != "" {
		registry = must.M1(inventory.Load(*flagInventory))
	}
	klog.V(1).Infof("%d pieces, config %+v", registry.Len(), config)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if *flagPlayouts > 0 {
		stop := cli.SafeInterrupt(cancel, 3*time.Second)
		defer stop()
		runPlayouts(ctx, registry, config)
		return
	}

	stop := cli.SafeInterrupt(func() {
		cli.ResetTerminal()
		klog.Flush()
		os.Exit(1)
	}, 3*time.Second)
	defer stop()
	board := NewBoard(registry, config)
	ui := cli.New(*flagColor, *flagClear)
	ui.PrintHelp()
	if err = ui.Run(board); err != nil {
		klog.Exitf("Failed: %+v", err)
	}
}

// runPlayouts runs --playouts random playouts and prints the stats.
func runPlayouts(ctx context.Context, registry *Registry, config Config) {
	if *flagMaxActions <= 0 {
		klog.Exitf("Invalid --max_actions=%d", *flagMaxActions)
	}
	if *flagPlaceProb < 0 || *flagPlaceProb > 1 {
		klog.Exitf("Invalid --place_prob=%g, it must be between 0 and 1", *flagPlaceProb)
	}
	seed := *flagSeed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	profiler := must.M1(profilers.Setup(ctx))
	defer profiler.OnQuit()

	runner := &playout.Runner{
		NewBoard:    func() *Board { return NewBoard(registry, config) },
		MaxActions:  *flagMaxActions,
		PlaceProb:   *flagPlaceProb,
		Seed:        seed,
		Parallelism: *flagParallelism,
		OnProgress: func(stats playout.Stats) {
			fmt.Printf("\r\tPlayouts: %5d of %d finished in %s\x1b[0K", stats.Playouts, *flagPlayouts, stats.Elapsed)
		},
	}
	stats, err := runner.Run(ctx, *flagPlayouts)
	fmt.Println()
	if err != nil {
		klog.Exitf("Playouts failed (seed=%d): %+v", seed, err)
	}
	fmt.Printf("Seed %d: %d playouts (%d finished with a surrounded queen) in %s\n",
		seed, stats.Playouts, stats.Finished, stats.Elapsed)
	fmt.Printf("  %d placements, %d moves, %d turns skipped\n", stats.Placements, stats.Moves, stats.Skipped)
	fmt.Printf("  %d legal destinations generated, %.1f per turn\n", stats.Destinations,
		float64(stats.Destinations)/float64(max(1, stats.Placements+stats.Moves+stats.Skipped)))
}
