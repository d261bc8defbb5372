package maintenance

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/gofrs/flock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RC170373/bookie-melissa-sub001/internal/database"
	"github.com/RC170373/bookie-melissa-sub001/internal/entities"
	"github.com/RC170373/bookie-melissa-sub001/internal/metadata"
)

type stubSearcher struct {
	volumes []metadata.VolumeInfo
}

func (s stubSearcher) SearchVolumes(ctx context.Context, query string) ([]metadata.VolumeInfo, error) {
	return s.volumes, nil
}

func setupService(t *testing.T, searcher metadata.VolumeSearcher) (*Service, *database.Database) {
	t.Helper()

	dir := t.TempDir()
	db, err := database.NewDatabase(filepath.Join(dir, "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		db.Close()
	})

	if searcher == nil {
		searcher = stubSearcher{}
	}
	enricher := metadata.NewEnricher(metadata.NewResolver(searcher), db, 100)
	return NewService(db, enricher, filepath.Join(dir, "test.lock")), db
}

func TestRunDedup_MergesDuplicateEditions(t *testing.T) {
	service, db := setupService(t, nil)

	alice := entities.User{Username: "alice", Email: "alice@example.com"}
	bob := entities.User{Username: "bob", Email: "bob@example.com"}
	require.NoError(t, db.CreateUser(&alice))
	require.NoError(t, db.CreateUser(&bob))

	// Two spellings of the same edition; the second carries a cover and
	// must survive the merge.
	plain := entities.Book{Title: "Les Misérables", Author: "Victor Hugo"}
	withCover := entities.Book{
		Title: "les misérables ", Author: "victor hugo",
		CoverURL: "https://x/lm.jpg",
	}
	other := entities.Book{Title: "Dune", Author: "Frank Herbert"}
	require.NoError(t, db.CreateBook(&plain))
	require.NoError(t, db.CreateBook(&withCover))
	require.NoError(t, db.CreateBook(&other))

	require.NoError(t, db.CreateUserBook(&entities.UserBook{UserID: alice.ID, BookID: plain.ID, Status: entities.StatusRead}))
	require.NoError(t, db.CreateUserBook(&entities.UserBook{UserID: bob.ID, BookID: withCover.ID, Status: entities.StatusToRead}))

	summary, err := service.RunDedup(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Groups)
	assert.Equal(t, 1, summary.BooksDeleted)
	assert.Equal(t, 1, summary.Reassigned)
	assert.Equal(t, 0, summary.FieldMerged)
	assert.Equal(t, 3, summary.BooksExamined)

	survivor, err := db.GetBookByID(withCover.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://x/lm.jpg", survivor.CoverURL)

	_, err = db.GetBookByID(plain.ID)
	assert.ErrorIs(t, err, database.ErrNotFound)

	records, err := db.FindUserBooksByBook(withCover.ID)
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestRunDedup_RerunIsNoOp(t *testing.T) {
	service, db := setupService(t, nil)

	require.NoError(t, db.CreateBook(&entities.Book{Title: "Dune", Author: "Frank Herbert"}))
	require.NoError(t, db.CreateBook(&entities.Book{Title: "dune", Author: "frank herbert"}))

	first, err := service.RunDedup(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, first.Groups)

	second, err := service.RunDedup(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, second.Groups)
	assert.Equal(t, 0, second.BooksDeleted)
	assert.Equal(t, 1, second.BooksExamined)
}

func TestRunEnrichment_FillsMissingFields(t *testing.T) {
	searcher := stubSearcher{volumes: []metadata.VolumeInfo{{
		Title:         "Dune",
		Authors:       []string{"Frank Herbert"},
		Description:   "Spice and sand.",
		PageCount:     412,
		PublishedDate: "1965",
		ImageLinks:    metadata.ImageLinks{Thumbnail: "https://x/d.jpg"},
	}}}
	service, db := setupService(t, searcher)

	book := entities.Book{Title: "Dune", Author: "Frank Herbert"}
	require.NoError(t, db.CreateBook(&book))

	summary, err := service.RunEnrichment(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Updated)
	assert.Equal(t, 0, summary.Failed)

	enriched, err := db.GetBookByID(book.ID)
	require.NoError(t, err)
	assert.Equal(t, "Spice and sand.", enriched.Description)
	assert.Equal(t, "https://x/d.jpg", enriched.CoverURL)
	assert.Equal(t, 412, enriched.PageCount)
	assert.Equal(t, 1965, enriched.PublicationYear)
}

func TestJobs_RejectedWhileLockHeld(t *testing.T) {
	dir := t.TempDir()
	db, err := database.NewDatabase(filepath.Join(dir, "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		db.Close()
	})

	lockPath := filepath.Join(dir, "test.lock")
	enricher := metadata.NewEnricher(metadata.NewResolver(stubSearcher{}), db, 100)
	service := NewService(db, enricher, lockPath)

	// Another process holds the file lock.
	other := flock.New(lockPath)
	locked, err := other.TryLock()
	require.NoError(t, err)
	require.True(t, locked)
	defer other.Unlock()

	_, err = service.RunDedup(context.Background())
	assert.ErrorIs(t, err, ErrJobRunning)

	_, err = service.RunEnrichment(context.Background(), 0)
	assert.ErrorIs(t, err, ErrJobRunning)
}

func TestJobs_LockReleasedAfterRun(t *testing.T) {
	service, _ := setupService(t, nil)

	_, err := service.RunDedup(context.Background())
	require.NoError(t, err)

	// A second run must be able to reacquire the lock.
	_, err = service.RunEnrichment(context.Background(), 0)
	assert.NoError(t, err)
}
