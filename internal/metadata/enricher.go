// Package metadata fills missing bibliographic fields on book records
// from an external search source, under rate limits and with per-item
// failure tolerance.
package metadata

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/RC170373/bookie-melissa-sub001/internal/entities"
)

// BookStore is the record-store surface enrichment needs.
type BookStore interface {
	GetBookByID(id uint) (*entities.Book, error)
	FindBooksMissingMetadata(limit int) ([]entities.Book, error)
	UpdateBookMetadata(id uint, patch entities.BookPatch) error
}

// BatchSummary reports one enrichment batch. Failed counts both source
// errors and books no strategy could match; Skipped counts books whose
// accepted candidate had nothing left to fill.
type BatchSummary struct {
	Total   int `json:"total"`
	Updated int `json:"updated"`
	Failed  int `json:"failed"`
	Skipped int `json:"skipped"`
}

// Enricher drives the resolver over bounded batches of under-specified
// books.
type Enricher struct {
	resolver  *Resolver
	store     BookStore
	batchSize int
}

func NewEnricher(resolver *Resolver, store BookStore, batchSize int) *Enricher {
	return &Enricher{
		resolver:  resolver,
		store:     store,
		batchSize: batchSize,
	}
}

// EnrichBatch processes up to batchSize books that are missing a cover or
// description. Records are handled sequentially in selection order; the
// external source paces itself, and cancellation is checked between
// items so partial progress is never corrupted. Per-item errors are
// folded into the summary; only a store failure aborts the batch.
func (e *Enricher) EnrichBatch(ctx context.Context, batchSize int) (BatchSummary, error) {
	if batchSize <= 0 {
		batchSize = e.batchSize
	}

	var summary BatchSummary
	books, err := e.store.FindBooksMissingMetadata(batchSize)
	if err != nil {
		return summary, fmt.Errorf("select books missing metadata: %w", err)
	}
	summary.Total = len(books)

	for i := range books {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		book := &books[i]
		if book.Title == "" || book.Author == "" {
			summary.Failed++
			log.Printf("Book %d: missing title or author, cannot search", book.ID)
			continue
		}

		patch, method, err := e.resolver.Resolve(ctx, book)
		if err != nil {
			if ctx.Err() != nil {
				return summary, ctx.Err()
			}
			summary.Failed++
			if errors.Is(err, ErrNoMatch) {
				log.Printf("Book %d (%q): not found", book.ID, book.Title)
			} else {
				log.Printf("Book %d (%q): lookup failed: %v", book.ID, book.Title, err)
			}
			continue
		}

		if patch.IsEmpty() {
			summary.Skipped++
			log.Printf("Book %d (%q): matched via %s, nothing left to fill", book.ID, book.Title, method)
			continue
		}

		if err := e.store.UpdateBookMetadata(book.ID, patch); err != nil {
			summary.Failed++
			log.Printf("Book %d (%q): update failed: %v", book.ID, book.Title, err)
			continue
		}
		summary.Updated++
		log.Printf("Book %d (%q): enriched %v via %s", book.ID, book.Title, patchFields(patch), method)
	}

	return summary, nil
}

// EnrichBook resolves and persists metadata for a single book. Used by
// the async task queue for operator-triggered one-off enrichment.
func (e *Enricher) EnrichBook(ctx context.Context, bookID uint) (entities.BookPatch, error) {
	book, err := e.store.GetBookByID(bookID)
	if err != nil {
		return entities.BookPatch{}, fmt.Errorf("get book %d: %w", bookID, err)
	}
	if book.Title == "" || book.Author == "" {
		return entities.BookPatch{}, fmt.Errorf("book %d has no title or author to search by", bookID)
	}

	patch, _, err := e.resolver.Resolve(ctx, book)
	if err != nil {
		return entities.BookPatch{}, fmt.Errorf("resolve book %d: %w", bookID, err)
	}
	if patch.IsEmpty() {
		return patch, nil
	}

	if err := e.store.UpdateBookMetadata(book.ID, patch); err != nil {
		return entities.BookPatch{}, fmt.Errorf("update book %d: %w", bookID, err)
	}
	return patch, nil
}

func patchFields(patch entities.BookPatch) []string {
	var fields []string
	if patch.CoverURL != nil {
		fields = append(fields, "cover_url")
	}
	if patch.Description != nil {
		fields = append(fields, "description")
	}
	if patch.PageCount != nil {
		fields = append(fields, "page_count")
	}
	if patch.PublicationYear != nil {
		fields = append(fields, "publication_year")
	}
	return fields
}
