package dedup

import (
	"sort"

	"github.com/RC170373/bookie-melissa-sub001/internal/entities"
)

// Plan is the resolved merge order for one group: the keeper survives,
// donors are merged into it in order and then deleted.
type Plan struct {
	Keeper entities.Book
	Donors []entities.Book
}

// PlanMerge elects the keeper of a group by a strict total order:
// a record with a cover beats one without, then a record with a
// description, then the earliest created, then the lowest id. The id
// tiebreak guarantees the same plan for any input order.
func PlanMerge(members []entities.Book) Plan {
	ordered := make([]entities.Book, len(members))
	copy(ordered, members)

	sort.Slice(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if hasCover(a) != hasCover(b) {
			return hasCover(a)
		}
		if hasDescription(a) != hasDescription(b) {
			return hasDescription(a)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})

	return Plan{Keeper: ordered[0], Donors: ordered[1:]}
}

func hasCover(b entities.Book) bool {
	return b.CoverURL != ""
}

func hasDescription(b entities.Book) bool {
	return b.Description != ""
}
