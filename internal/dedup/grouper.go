package dedup

import (
	"sort"

	"github.com/RC170373/bookie-melissa-sub001/internal/entities"
)

// Group is a set of books sharing one canonical key.
type Group struct {
	Key   string
	Books []entities.Book
}

// GroupDuplicates buckets books by canonical key and returns only the
// buckets with two or more members, ordered by key so repeated runs over
// the same data produce identical output. Books whose normalized title or
// author is empty cannot be matched and are excluded.
func GroupDuplicates(books []entities.Book) []Group {
	buckets := make(map[string][]entities.Book)
	for _, book := range books {
		title := Normalize(book.Title)
		author := Normalize(book.Author)
		if title == "" || author == "" {
			continue
		}
		key := title + keySeparator + author
		buckets[key] = append(buckets[key], book)
	}

	var groups []Group
	for key, members := range buckets {
		if len(members) < 2 {
			continue
		}
		groups = append(groups, Group{Key: key, Books: members})
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Key < groups[j].Key
	})
	return groups
}
