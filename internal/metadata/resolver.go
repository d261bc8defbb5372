package metadata

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/RC170373/bookie-melissa-sub001/internal/entities"
)

// ErrNoMatch reports that every search strategy was exhausted without an
// accepted candidate. It is an expected outcome, not a fault.
var ErrNoMatch = errors.New("no matching volume found")

// Resolver tries ordered search strategies against the bibliographic
// source and extracts a gap-filling metadata patch from the first
// accepted candidate.
type Resolver struct {
	client VolumeSearcher
}

func NewResolver(client VolumeSearcher) *Resolver {
	return &Resolver{client: client}
}

type searchStrategy struct {
	name   string
	query  string
	byISBN bool
}

// Resolve returns a patch for the fields the book is missing, along with
// the name of the strategy that produced it. Strategies are tried in
// order and the first accepted candidate wins. A transport failure in one
// strategy falls through to the next; if every strategy fails the joined
// errors are returned, and if the strategies complete without an accepted
// candidate the result is ErrNoMatch.
func (r *Resolver) Resolve(ctx context.Context, book *entities.Book) (entities.BookPatch, string, error) {
	strategies := buildStrategies(book)

	var failures []error
	for _, strategy := range strategies {
		volumes, err := r.client.SearchVolumes(ctx, strategy.query)
		if err != nil {
			if ctx.Err() != nil {
				return entities.BookPatch{}, "", ctx.Err()
			}
			failures = append(failures, fmt.Errorf("%s: %w", strategy.name, err))
			continue
		}

		if candidate, ok := firstAccepted(volumes, book.Title, book.Author, strategy.byISBN); ok {
			return buildPatch(book, candidate), strategy.name, nil
		}
	}

	if len(failures) == len(strategies) && len(failures) > 0 {
		return entities.BookPatch{}, "", errors.Join(failures...)
	}
	return entities.BookPatch{}, "", ErrNoMatch
}

func buildStrategies(book *entities.Book) []searchStrategy {
	var strategies []searchStrategy

	if isbn := cleanISBN(book.ISBN); len(isbn) >= 10 {
		strategies = append(strategies, searchStrategy{
			name:   "isbn",
			query:  "isbn:" + isbn,
			byISBN: true,
		})
	}

	strategies = append(strategies,
		searchStrategy{
			name:  "exact",
			query: fmt.Sprintf(`intitle:"%s"+inauthor:"%s"`, book.Title, book.Author),
		},
		searchStrategy{
			name:  "fuzzy",
			query: fmt.Sprintf("intitle:%s+inauthor:%s", book.Title, book.Author),
		},
		searchStrategy{
			name:  "title",
			query: fmt.Sprintf(`intitle:"%s"`, shortTitle(book.Title)),
		},
	)
	return strategies
}

// firstAccepted returns the first candidate passing the acceptance rules:
// title containment in either direction, author containment in either
// direction, or a trusted ISBN lookup.
func firstAccepted(volumes []VolumeInfo, title, author string, byISBN bool) (VolumeInfo, bool) {
	for _, volume := range volumes {
		if byISBN || acceptCandidate(volume, title, author) {
			return volume, true
		}
	}
	return VolumeInfo{}, false
}

func acceptCandidate(volume VolumeInfo, title, author string) bool {
	candidateTitle := strings.ToLower(strings.TrimSpace(volume.Title))
	queryTitle := strings.ToLower(strings.TrimSpace(title))
	if candidateTitle != "" && queryTitle != "" &&
		(strings.Contains(candidateTitle, queryTitle) || strings.Contains(queryTitle, candidateTitle)) {
		return true
	}

	queryAuthor := strings.ToLower(strings.TrimSpace(author))
	if queryAuthor == "" {
		return false
	}
	for _, candidateAuthor := range volume.Authors {
		candidateAuthor = strings.ToLower(strings.TrimSpace(candidateAuthor))
		if candidateAuthor != "" &&
			(strings.Contains(candidateAuthor, queryAuthor) || strings.Contains(queryAuthor, candidateAuthor)) {
			return true
		}
	}
	return false
}

// buildPatch extracts only the fields the book is missing; non-null
// fields are never included, so enrichment can only fill gaps.
func buildPatch(book *entities.Book, volume VolumeInfo) entities.BookPatch {
	var patch entities.BookPatch

	if book.CoverURL == "" {
		if cover := bestCoverURL(volume.ImageLinks); cover != "" {
			patch.CoverURL = &cover
		}
	}
	if book.Description == "" && volume.Description != "" {
		description := volume.Description
		patch.Description = &description
	}
	if book.PageCount == 0 && volume.PageCount > 0 {
		pageCount := volume.PageCount
		patch.PageCount = &pageCount
	}
	if book.PublicationYear == 0 {
		if year := publicationYear(volume.PublishedDate); year > 0 {
			patch.PublicationYear = &year
		}
	}
	return patch
}

// bestCoverURL prefers the largest available variant and normalizes the
// scheme to https.
func bestCoverURL(links ImageLinks) string {
	for _, candidate := range []string{
		links.ExtraLarge,
		links.Large,
		links.Medium,
		links.Small,
		links.Thumbnail,
		links.SmallThumbnail,
	} {
		if candidate != "" {
			return secureURL(candidate)
		}
	}
	return ""
}

func secureURL(rawURL string) string {
	if strings.HasPrefix(rawURL, "http://") {
		return "https://" + strings.TrimPrefix(rawURL, "http://")
	}
	return rawURL
}

// publicationYear parses the first 4 digits of the published-date string,
// which is either a full date or year-only. Returns 0 when absent or
// unparseable.
func publicationYear(publishedDate string) int {
	publishedDate = strings.TrimSpace(publishedDate)
	if len(publishedDate) < 4 {
		return 0
	}
	year, err := strconv.Atoi(publishedDate[:4])
	if err != nil {
		return 0
	}
	return year
}

// shortTitle truncates at the first comma or colon; subtitles hurt the
// last-resort title-only search.
func shortTitle(title string) string {
	if idx := strings.IndexAny(title, ",:"); idx >= 0 {
		title = title[:idx]
	}
	return strings.TrimSpace(title)
}

// cleanISBN removes hyphens and spaces so length checks see digits only.
func cleanISBN(isbn string) string {
	isbn = strings.ReplaceAll(isbn, "-", "")
	isbn = strings.ReplaceAll(isbn, " ", "")
	return strings.TrimSpace(isbn)
}
