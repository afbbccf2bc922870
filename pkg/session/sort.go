package session

import (
	"sort"
	"strings"

	"github.com/openshelf/openshelf/pkg/book"
)

// SortBooks orders the merged result set in place per the sort key.
// The sort is stable: records comparing equal keep their merge order.
// SortRelevance performs no reordering at all.
func SortBooks(books []book.Book, key SortKey) {
	switch key {
	case SortTitle:
		sort.SliceStable(books, func(i, j int) bool {
			return strings.ToLower(books[i].Title) < strings.ToLower(books[j].Title)
		})
	case SortAuthor:
		sort.SliceStable(books, func(i, j int) bool {
			return strings.ToLower(books[i].FirstAuthor()) < strings.ToLower(books[j].FirstAuthor())
		})
	case SortYearFirst:
		sort.SliceStable(books, func(i, j int) bool {
			return books[i].FirstPublishYear > books[j].FirstPublishYear
		})
	case SortYearLatest:
		sort.SliceStable(books, func(i, j int) bool {
			return books[i].LatestPublishYear() > books[j].LatestPublishYear()
		})
	case SortRating:
		sort.SliceStable(books, func(i, j int) bool {
			return books[i].Rating > books[j].Rating
		})
	}
}
