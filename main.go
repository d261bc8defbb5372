package main

import (
	"fmt"
	"os"

	"github.com/RC170373/bookie-melissa-sub001/internal/cli"
	"github.com/RC170373/bookie-melissa-sub001/internal/config"
	"github.com/RC170373/bookie-melissa-sub001/internal/entrypoint"
)

// Version information - set at build time via ldflags
var (
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	// If no arguments or "serve" command, run the admin server
	if len(os.Args) < 2 || os.Args[1] == "serve" {
		cfg := config.NewConfig()
		entrypoint.Run(cfg, Version)
		return
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "run-dedup":
		cmd := cli.NewDedupCommand()
		if err := cmd.ParseFlags(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if err := cmd.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

	case "run-enrichment":
		cmd := cli.NewEnrichmentCommand()
		if err := cmd.ParseFlags(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if err := cmd.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

	case "version":
		fmt.Printf("bookie %s (%s)\n", Version, Commit)

	case "help", "-h", "--help":
		printUsage()

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Printf(`Bookie - book library reconciliation and enrichment

Usage:
  %s [serve]                 Start the admin server (default)
  %s run-dedup [options]     Merge duplicate book records
  %s run-enrichment [options] Fill missing book metadata
  %s version                 Print version information

Run '%s <command> -h' for command options.
`, os.Args[0], os.Args[0], os.Args[0], os.Args[0], os.Args[0])
}
