package session

import (
	"reflect"
	"testing"

	"github.com/openshelf/openshelf/pkg/book"
)

func TestSortTitleCaseInsensitiveAscending(t *testing.T) {
	books := []book.Book{
		{Key: "1", Title: "zebra"},
		{Key: "2", Title: "Apple"},
		{Key: "3", Title: "mango"},
	}

	SortBooks(books, SortTitle)

	want := []string{"2", "3", "1"}
	if got := keysOf(books); !reflect.DeepEqual(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
}

func TestSortAuthor(t *testing.T) {
	books := []book.Book{
		{Key: "1", Authors: []string{"Zadie Smith"}},
		{Key: "2", Authors: []string{"ann patchett"}},
		{Key: "3"}, // no author sorts first (empty string)
	}

	SortBooks(books, SortAuthor)

	want := []string{"3", "2", "1"}
	if got := keysOf(books); !reflect.DeepEqual(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
}

func TestSortYearDescending(t *testing.T) {
	books := []book.Book{
		{Key: "1", FirstPublishYear: 1965},
		{Key: "2", FirstPublishYear: 2001},
		{Key: "3"}, // missing year sorts last
		{Key: "4", FirstPublishYear: 1990},
	}

	SortBooks(books, SortYearFirst)

	want := []string{"2", "4", "1", "3"}
	if got := keysOf(books); !reflect.DeepEqual(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
}

func TestSortLatestYearUsesPublishYears(t *testing.T) {
	books := []book.Book{
		{Key: "1", FirstPublishYear: 1965, PublishYears: []int{1965, 2020}},
		{Key: "2", FirstPublishYear: 2001},
	}

	SortBooks(books, SortYearLatest)

	if books[0].Key != "1" {
		t.Errorf("record reprinted in 2020 must sort first, got %v", keysOf(books))
	}
}

func TestSortRelevancePreservesArrivalOrder(t *testing.T) {
	books := []book.Book{
		{Key: "1", Title: "zebra", FirstPublishYear: 1900},
		{Key: "2", Title: "apple", FirstPublishYear: 2000},
	}

	SortBooks(books, SortRelevance)

	want := []string{"1", "2"}
	if got := keysOf(books); !reflect.DeepEqual(got, want) {
		t.Errorf("relevance reordered results: %v", got)
	}
}

func TestSortIsStable(t *testing.T) {
	books := []book.Book{
		{Key: "1", FirstPublishYear: 1990},
		{Key: "2", FirstPublishYear: 1990},
		{Key: "3", FirstPublishYear: 1990},
	}

	SortBooks(books, SortYearFirst)

	want := []string{"1", "2", "3"}
	if got := keysOf(books); !reflect.DeepEqual(got, want) {
		t.Errorf("equal keys must keep merge order, got %v", got)
	}
}
