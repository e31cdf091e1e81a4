package simulate

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/okian/gamemash/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0o600
)

// SetupLogging initialises the logger to write to stdout and a log file.
// If logFile is empty, a timestamped filename is generated.
func SetupLogging(logFile string, verbose bool) (string, error) {
	if logFile == "" {
		logFile = "duel_sim_" + time.Now().Format("20060102_150405") + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return "", fmt.Errorf("failed to create log file: %w", err)
	}

	if err := logger.Init(logger.WithWriter(io.MultiWriter(os.Stdout, file))); err != nil {
		return "", fmt.Errorf("failed to initialize logger: %w", err)
	}
	if verbose {
		_ = logger.SetLevelString("debug")
	}
	return logFile, nil
}

// ShowHelp prints usage information for the duel simulator.
func ShowHelp() {
	os.Stdout.WriteString(`GameMash Duel Simulator
=======================

Casts synthetic votes against a running gamemash server. Every partition
gets hidden item strengths; voters pick winners with the Elo logistic model
and the final leaderboards are compared with the hidden order using the
Spearman rank correlation.

Usage:
  go run ./cmd/duel-sim [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -votes int
        Number of votes to cast (default 20000)
  -workers int
        Number of concurrent voters (default CPU cores * 2)
  -timeout duration
        HTTP request timeout (default 10s)
  -seed int
        Seed for hidden strengths and outcomes (default: clock)
  -spread float
        Rating distance between adjacent hidden strengths (default 100)
  -reset
        Reset the server before voting
  -min-correlation float
        Mean Spearman correlation required to pass (default 0.5)
  -log string
        Log file (default: duel_sim_TIMESTAMP.log)
  -verbose
        Log every partition's comparison
  -help
        Show this help message

Examples:
  go run ./cmd/duel-sim -reset -votes 50000 -workers 16
  go run ./cmd/duel-sim -url http://localhost:8080 -seed 42 -verbose
`)
}
