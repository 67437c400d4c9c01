// Command dynamixel-tool is a single-binary CLI for driving Dynamixel
// servos directly over a local serial port, exercising the master engine's
// ping/scan/read/write/sync-read/sync-write operations and the register
// catalog (spec.md §6).
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/xzz53/dynamixel-tool/internal/logging"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if os.Getenv("GENERATE_COMPLETION") != "" {
		generateCompletion(os.Stdout)
		return
	}

	cfg, showVersion, err := parseFlags(os.Args[1:])
	if showVersion {
		fmt.Printf("dynamixel-tool %s (commit %s, built %s)\n", version, commit, date)
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "dynamixel-tool: %v\n", err)
		os.Exit(1)
	}

	level := slog.LevelInfo
	if cfg.debug {
		level = slog.LevelDebug
	}
	logging.Set(logging.New("text", level, os.Stderr))

	if err := runCommand(cfg, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "dynamixel-tool: %v\n", err)
		os.Exit(1)
	}
}
