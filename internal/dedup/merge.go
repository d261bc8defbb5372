package dedup

import (
	"github.com/RC170373/bookie-melissa-sub001/internal/entities"
)

// MergeUserBooks computes the patch that folds a donor's reading record
// into the keeper's record for the same user.
//
// Precedence: for status, "read" wins over any other value; otherwise the
// keeper's existing non-empty value is kept, falling back to the donor's.
// For every other field the keeper's non-null value wins and the donor's
// value is adopted only to fill a gap. The donor's record is deleted by
// the executor after the patch is applied, so nothing is lost.
func MergeUserBooks(keeper, donor *entities.UserBook) entities.UserBookPatch {
	var patch entities.UserBookPatch

	if keeper.Status != entities.StatusRead {
		switch {
		case donor.Status == entities.StatusRead:
			status := entities.StatusRead
			patch.Status = &status
		case keeper.Status == "" && donor.Status != "":
			status := donor.Status
			patch.Status = &status
		}
	}

	if keeper.Rating == nil && donor.Rating != nil {
		rating := *donor.Rating
		patch.Rating = &rating
	}
	if keeper.DateRead == nil && donor.DateRead != nil {
		dateRead := *donor.DateRead
		patch.DateRead = &dateRead
	}
	if keeper.Review == "" && donor.Review != "" {
		review := donor.Review
		patch.Review = &review
	}
	if keeper.Notes == "" && donor.Notes != "" {
		notes := donor.Notes
		patch.Notes = &notes
	}
	if keeper.FavoriteQuotes == "" && donor.FavoriteQuotes != "" {
		quotes := donor.FavoriteQuotes
		patch.FavoriteQuotes = &quotes
	}

	return patch
}
