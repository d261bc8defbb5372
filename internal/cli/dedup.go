// Package cli implements the maintenance subcommands of the bookie
// binary.
package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/RC170373/bookie-melissa-sub001/internal/config"
	"github.com/RC170373/bookie-melissa-sub001/internal/database"
	"github.com/RC170373/bookie-melissa-sub001/internal/maintenance"
	"github.com/RC170373/bookie-melissa-sub001/internal/metadata"
)

// DedupCommand runs a full duplicate-merge pass over the book store.
type DedupCommand struct {
	DatabasePath string
	LockPath     string
}

// NewDedupCommand creates a new DedupCommand.
func NewDedupCommand() *DedupCommand {
	return &DedupCommand{}
}

// ParseFlags parses command line flags.
func (cmd *DedupCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("run-dedup", flag.ExitOnError)

	cfg := config.NewConfig()
	fs.StringVar(&cmd.DatabasePath, "db", cfg.Database.Path, "Path to the database file")
	fs.StringVar(&cmd.LockPath, "lock", cfg.Global.LockPath, "Path to the maintenance lock file")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s run-dedup [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Merge book records that describe the same real-world book.\n\n")
		fmt.Fprintf(os.Stderr, "This command:\n")
		fmt.Fprintf(os.Stderr, "  1. Groups books by normalized title+author\n")
		fmt.Fprintf(os.Stderr, "  2. Elects a keeper per group and merges reading records into it\n")
		fmt.Fprintf(os.Stderr, "  3. Deletes the duplicate book records\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	return fs.Parse(args)
}

// Run executes the dedup pass. Per-group output goes to the log; the
// summary is printed at the end. A non-nil error means the store itself
// failed and the process should exit non-zero.
func (cmd *DedupCommand) Run() error {
	db, err := database.NewDatabase(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	service := maintenance.NewService(db, nil, cmd.LockPath)
	summary, err := service.RunDedup(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Dedup complete: %d groups merged, %d books deleted (%d reassigned, %d field-merged, %d examined)\n",
		summary.Groups, summary.BooksDeleted, summary.Reassigned, summary.FieldMerged, summary.BooksExamined)
	return nil
}

// EnrichmentCommand runs one metadata enrichment batch.
type EnrichmentCommand struct {
	DatabasePath string
	LockPath     string
	BatchSize    int
}

// NewEnrichmentCommand creates a new EnrichmentCommand.
func NewEnrichmentCommand() *EnrichmentCommand {
	return &EnrichmentCommand{}
}

// ParseFlags parses command line flags.
func (cmd *EnrichmentCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("run-enrichment", flag.ExitOnError)

	cfg := config.NewConfig()
	fs.StringVar(&cmd.DatabasePath, "db", cfg.Database.Path, "Path to the database file")
	fs.StringVar(&cmd.LockPath, "lock", cfg.Global.LockPath, "Path to the maintenance lock file")
	fs.IntVar(&cmd.BatchSize, "batch-size", cfg.Enrichment.BatchSize, "Maximum books to process in this run")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s run-enrichment [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Fill missing covers, descriptions, page counts and years from the\n")
		fmt.Fprintf(os.Stderr, "bibliographic source. Per-record failures are counted, not fatal.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	return fs.Parse(args)
}

// Run executes one enrichment batch. A non-nil error means the store
// itself failed; per-record failures only show up in the counters.
func (cmd *EnrichmentCommand) Run() error {
	cfg := config.NewConfig()

	db, err := database.NewDatabase(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := metadata.NewGoogleBooksClient(cfg.GoogleBooks)
	resolver := metadata.NewResolver(client)
	enricher := metadata.NewEnricher(resolver, db, cfg.Enrichment.BatchSize)

	service := maintenance.NewService(db, enricher, cmd.LockPath)
	summary, err := service.RunEnrichment(ctx, cmd.BatchSize)
	if err != nil {
		return err
	}

	fmt.Printf("Enrichment complete: {updated: %d, failed: %d, total: %d} (%d skipped)\n",
		summary.Updated, summary.Failed, summary.Total, summary.Skipped)
	return nil
}
