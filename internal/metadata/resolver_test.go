package metadata

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RC170373/bookie-melissa-sub001/internal/entities"
)

// scriptedSearcher records every query and answers from a script keyed by
// call order.
type scriptedSearcher struct {
	queries   []string
	responses []func() ([]VolumeInfo, error)
}

func (s *scriptedSearcher) SearchVolumes(ctx context.Context, query string) ([]VolumeInfo, error) {
	s.queries = append(s.queries, query)
	if len(s.queries) > len(s.responses) {
		return nil, nil
	}
	return s.responses[len(s.queries)-1]()
}

func respond(volumes ...VolumeInfo) func() ([]VolumeInfo, error) {
	return func() ([]VolumeInfo, error) { return volumes, nil }
}

func fail(err error) func() ([]VolumeInfo, error) {
	return func() ([]VolumeInfo, error) { return nil, err }
}

func TestResolve_ISBNFirstAndTrusted(t *testing.T) {
	searcher := &scriptedSearcher{responses: []func() ([]VolumeInfo, error){
		// Title does not resemble the record at all; an ISBN hit is
		// trusted without the text check.
		respond(VolumeInfo{Title: "Completely Different Edition Title", Description: "From the ISBN hit."}),
	}}
	resolver := NewResolver(searcher)

	book := &entities.Book{Title: "Dune", Author: "Frank Herbert", ISBN: "978-0-441-01359-3"}
	patch, method, err := resolver.Resolve(context.Background(), book)
	require.NoError(t, err)

	assert.Equal(t, "isbn", method)
	require.NotNil(t, patch.Description)
	assert.Equal(t, "From the ISBN hit.", *patch.Description)
	require.Len(t, searcher.queries, 1, "accepted ISBN hit must stop the strategy chain")
	assert.Equal(t, "isbn:9780441013593", searcher.queries[0])
}

func TestResolve_StrategyOrderWithoutISBN(t *testing.T) {
	searcher := &scriptedSearcher{}
	resolver := NewResolver(searcher)

	book := &entities.Book{Title: "Hyperion, A Cantos Novel", Author: "Dan Simmons"}
	_, _, err := resolver.Resolve(context.Background(), book)
	assert.ErrorIs(t, err, ErrNoMatch)

	require.Len(t, searcher.queries, 3)
	assert.Equal(t, `intitle:"Hyperion, A Cantos Novel"+inauthor:"Dan Simmons"`, searcher.queries[0])
	assert.Equal(t, `intitle:Hyperion, A Cantos Novel+inauthor:Dan Simmons`, searcher.queries[1])
	assert.Equal(t, `intitle:"Hyperion"`, searcher.queries[2], "last resort drops the subtitle")
}

func TestResolve_ShortISBNIgnored(t *testing.T) {
	searcher := &scriptedSearcher{}
	resolver := NewResolver(searcher)

	book := &entities.Book{Title: "Dune", Author: "Frank Herbert", ISBN: "12345"}
	_, _, err := resolver.Resolve(context.Background(), book)
	assert.ErrorIs(t, err, ErrNoMatch)
	require.Len(t, searcher.queries, 3)
	assert.NotContains(t, searcher.queries[0], "isbn:")
}

func TestResolve_FallsThroughToAcceptedCandidate(t *testing.T) {
	searcher := &scriptedSearcher{responses: []func() ([]VolumeInfo, error){
		// exact: candidate shares neither title nor author, rejected.
		respond(VolumeInfo{Title: "Unrelated", Authors: []string{"Someone Else"}}),
		// fuzzy: author matches by containment.
		respond(VolumeInfo{
			Title:       "The Annotated Solaris",
			Authors:     []string{"Stanislaw Lem (Author)"},
			Description: "Ocean planet.",
		}),
	}}
	resolver := NewResolver(searcher)

	book := &entities.Book{Title: "Solaris", Author: "Stanislaw Lem"}
	patch, method, err := resolver.Resolve(context.Background(), book)
	require.NoError(t, err)
	assert.Equal(t, "fuzzy", method)
	require.NotNil(t, patch.Description)
	require.Len(t, searcher.queries, 2)
}

func TestResolve_SkipsRejectedCandidatesWithinResultSet(t *testing.T) {
	searcher := &scriptedSearcher{responses: []func() ([]VolumeInfo, error){
		respond(
			VolumeInfo{Title: "Wrong Book", Authors: []string{"Nobody"}},
			VolumeInfo{Title: "Solaris", Authors: []string{"Stanislaw Lem"}, PageCount: 204},
		),
	}}
	resolver := NewResolver(searcher)

	book := &entities.Book{Title: "Solaris", Author: "Stanislaw Lem"}
	patch, _, err := resolver.Resolve(context.Background(), book)
	require.NoError(t, err)
	require.NotNil(t, patch.PageCount)
	assert.Equal(t, 204, *patch.PageCount)
}

func TestResolve_PatchFillsOnlyGaps(t *testing.T) {
	searcher := &scriptedSearcher{responses: []func() ([]VolumeInfo, error){
		respond(VolumeInfo{
			Title:         "Dune",
			Authors:       []string{"Frank Herbert"},
			Description:   "A new description.",
			PageCount:     412,
			PublishedDate: "1965-08-01",
			ImageLinks:    ImageLinks{Thumbnail: "http://books.google.com/dune.jpg"},
		}),
	}}
	resolver := NewResolver(searcher)

	book := &entities.Book{
		Title:       "Dune",
		Author:      "Frank Herbert",
		Description: "Already written by hand.",
	}
	patch, _, err := resolver.Resolve(context.Background(), book)
	require.NoError(t, err)

	assert.Nil(t, patch.Description, "existing field must never be overwritten")
	require.NotNil(t, patch.CoverURL)
	assert.Equal(t, "https://books.google.com/dune.jpg", *patch.CoverURL)
	require.NotNil(t, patch.PageCount)
	assert.Equal(t, 412, *patch.PageCount)
	require.NotNil(t, patch.PublicationYear)
	assert.Equal(t, 1965, *patch.PublicationYear)
}

func TestResolve_AllStrategiesFailReturnsJoinedErrors(t *testing.T) {
	transportErr := errors.New("connection refused")
	searcher := &scriptedSearcher{responses: []func() ([]VolumeInfo, error){
		fail(transportErr), fail(transportErr), fail(transportErr),
	}}
	resolver := NewResolver(searcher)

	book := &entities.Book{Title: "Dune", Author: "Frank Herbert"}
	_, _, err := resolver.Resolve(context.Background(), book)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoMatch)
	assert.ErrorIs(t, err, transportErr)
}

func TestResolve_PartialFailureStillNoMatch(t *testing.T) {
	searcher := &scriptedSearcher{responses: []func() ([]VolumeInfo, error){
		fail(errors.New("timeout")),
		respond(), // empty result set
		respond(),
	}}
	resolver := NewResolver(searcher)

	book := &entities.Book{Title: "Dune", Author: "Frank Herbert"}
	_, _, err := resolver.Resolve(context.Background(), book)
	assert.ErrorIs(t, err, ErrNoMatch)
}

func TestResolve_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	searcher := &scriptedSearcher{responses: []func() ([]VolumeInfo, error){
		func() ([]VolumeInfo, error) {
			cancel()
			return nil, ctx.Err()
		},
	}}
	resolver := NewResolver(searcher)

	book := &entities.Book{Title: "Dune", Author: "Frank Herbert"}
	_, _, err := resolver.Resolve(ctx, book)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBestCoverURL(t *testing.T) {
	assert.Equal(t, "https://x/xl.jpg", bestCoverURL(ImageLinks{
		Thumbnail:  "http://x/thumb.jpg",
		ExtraLarge: "https://x/xl.jpg",
	}))
	assert.Equal(t, "https://x/thumb.jpg", bestCoverURL(ImageLinks{
		Thumbnail: "http://x/thumb.jpg",
	}))
	assert.Equal(t, "", bestCoverURL(ImageLinks{}))
}

func TestPublicationYear(t *testing.T) {
	assert.Equal(t, 1965, publicationYear("1965-08-01"))
	assert.Equal(t, 1965, publicationYear("1965"))
	assert.Equal(t, 0, publicationYear("196"))
	assert.Equal(t, 0, publicationYear(""))
	assert.Equal(t, 0, publicationYear("n.d."))
}

func TestShortTitle(t *testing.T) {
	assert.Equal(t, "Hyperion", shortTitle("Hyperion, A Cantos Novel"))
	assert.Equal(t, "Dune", shortTitle("Dune: Deluxe Edition"))
	assert.Equal(t, "Plain Title", shortTitle("Plain Title"))
}

func TestCleanISBN(t *testing.T) {
	assert.Equal(t, "9780441013593", cleanISBN("978-0-441-01359-3"))
	assert.Equal(t, "9780441013593", cleanISBN(" 978 0441 013593 "))
	assert.Equal(t, "", cleanISBN(""))
}
