// Package maintenance orchestrates the dedup and enrichment jobs. Both
// are offline maintenance passes, never part of request serving, and only
// one may run at a time.
package maintenance

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/gofrs/flock"

	"github.com/RC170373/bookie-melissa-sub001/internal/database"
	"github.com/RC170373/bookie-melissa-sub001/internal/dedup"
	"github.com/RC170373/bookie-melissa-sub001/internal/metadata"
)

// ErrJobRunning reports that another maintenance job holds the advisory
// lock; the caller should retry later rather than queue up.
var ErrJobRunning = errors.New("another maintenance job is already running")

// DedupSummary reports one full dedup pass.
type DedupSummary struct {
	Groups        int `json:"groups"`
	BooksDeleted  int `json:"books_deleted"`
	Reassigned    int `json:"reassigned"`
	FieldMerged   int `json:"field_merged"`
	BooksExamined int `json:"books_examined"`
}

// Service runs maintenance jobs under an advisory lock: an in-process
// mutex plus a file lock so separate bookie processes (CLI run vs. serve
// mode cron) never run maintenance concurrently.
type Service struct {
	db       *database.Database
	enricher *metadata.Enricher
	fileLock *flock.Flock
	running  chan struct{}
}

func NewService(db *database.Database, enricher *metadata.Enricher, lockPath string) *Service {
	s := &Service{
		db:       db,
		enricher: enricher,
		running:  make(chan struct{}, 1),
	}
	if lockPath != "" {
		s.fileLock = flock.New(lockPath)
	}
	return s
}

func (s *Service) acquire() (release func(), err error) {
	select {
	case s.running <- struct{}{}:
	default:
		return nil, ErrJobRunning
	}

	if s.fileLock != nil {
		locked, err := s.fileLock.TryLock()
		if err != nil {
			<-s.running
			return nil, fmt.Errorf("acquire job lock: %w", err)
		}
		if !locked {
			<-s.running
			return nil, ErrJobRunning
		}
	}

	return func() {
		if s.fileLock != nil {
			if err := s.fileLock.Unlock(); err != nil {
				log.Printf("Failed to release job lock: %v", err)
			}
		}
		<-s.running
	}, nil
}

// RunDedup groups all books by canonical key and merges every duplicate
// group. Each group commits as one transaction; cancellation between
// groups leaves earlier groups fully merged.
func (s *Service) RunDedup(ctx context.Context) (DedupSummary, error) {
	release, err := s.acquire()
	if err != nil {
		return DedupSummary{}, err
	}
	defer release()

	var summary DedupSummary

	books, err := s.db.FindAllBooks()
	if err != nil {
		return summary, fmt.Errorf("load books: %w", err)
	}
	summary.BooksExamined = len(books)

	groups := dedup.GroupDuplicates(books)
	if len(groups) == 0 {
		log.Printf("Dedup: no duplicate groups among %d books", len(books))
		return summary, nil
	}

	executor := dedup.NewExecutor(txStore{s.db})
	for _, group := range groups {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		plan := dedup.PlanMerge(group.Books)
		donorIDs := make([]uint, len(plan.Donors))
		for i, donor := range plan.Donors {
			donorIDs[i] = donor.ID
		}
		log.Printf("Dedup: merging %q - keeper %d, donors %v",
			plan.Keeper.Title, plan.Keeper.ID, donorIDs)

		result, err := executor.Execute(plan)
		if err != nil {
			return summary, fmt.Errorf("merge group %q: %w", group.Key, err)
		}
		summary.Groups++
		summary.BooksDeleted += result.DonorsDeleted
		summary.Reassigned += result.Reassigned
		summary.FieldMerged += result.FieldMerged
	}

	log.Printf("Dedup: merged %d groups, deleted %d books (%d reassigned, %d field-merged)",
		summary.Groups, summary.BooksDeleted, summary.Reassigned, summary.FieldMerged)
	return summary, nil
}

// RunEnrichment runs one enrichment batch. A batchSize <= 0 uses the
// configured default.
func (s *Service) RunEnrichment(ctx context.Context, batchSize int) (metadata.BatchSummary, error) {
	release, err := s.acquire()
	if err != nil {
		return metadata.BatchSummary{}, err
	}
	defer release()

	summary, err := s.enricher.EnrichBatch(ctx, batchSize)
	if err != nil {
		return summary, err
	}
	log.Printf("Enrichment: updated %d, failed %d, skipped %d of %d",
		summary.Updated, summary.Failed, summary.Skipped, summary.Total)
	return summary, nil
}

// txStore adapts the database to the executor's transactional store
// interface.
type txStore struct {
	*database.Database
}

func (s txStore) Transaction(fn func(tx dedup.Store) error) error {
	return s.Database.Transaction(func(tx *database.Database) error {
		return fn(tx)
	})
}
