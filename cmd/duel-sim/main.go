package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/okian/gamemash/internal/simulate"
)

// Default configuration constants.
const (
	defaultWorkers    = 2 // multiplier for runtime.NumCPU()
	defaultTimeout    = 10 * time.Second
	defaultRunTimeout = 10 * time.Minute
)

func main() {
	var (
		baseURL = flag.String("url", "http://localhost:9080", "Base URL of the service")
		votes   = flag.Int("votes", simulate.DefaultVotes, "Number of votes to cast")
		workers = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent voters")
		timeout = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		seed    = flag.Int64("seed", 0, "Seed for hidden strengths and outcomes (0 uses the clock)")
		spread  = flag.Float64("spread", simulate.DefaultSpread, "Rating distance between adjacent hidden strengths")
		reset   = flag.Bool("reset", false, "Reset the server before voting")
		minCorr = flag.Float64("min-correlation", simulate.DefaultMinCorrelation, "Mean Spearman correlation required to pass")
		logFile = flag.String("log", "", "Log file (default: duel_sim_TIMESTAMP.log)")
		verbose = flag.Bool("verbose", false, "Log every partition's comparison")
		help    = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		simulate.ShowHelp()
		return
	}

	if _, err := simulate.SetupLogging(*logFile, *verbose); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, defaultRunTimeout)
	defer cancel()

	cfg := &simulate.Config{
		BaseURL:        *baseURL,
		Votes:          *votes,
		Workers:        *workers,
		Timeout:        *timeout,
		Seed:           *seed,
		Spread:         *spread,
		Reset:          *reset,
		MinCorrelation: *minCorr,
		Verbose:        *verbose,
	}

	if _, err := simulate.Run(ctx, cfg); err != nil {
		os.Stderr.WriteString("Simulation failed: " + err.Error() + "\n")
		cancel()
		stop()
		os.Exit(1)
	}
}
