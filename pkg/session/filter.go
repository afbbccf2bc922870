package session

import "github.com/openshelf/openshelf/pkg/book"

// FilterPage applies the client-side post-filters to one freshly
// fetched page, in order: ebook availability, language membership, year
// range. The input slice is not modified.
//
// Year-range policy: a record without a first publish year is excluded
// whenever either bound is set. The bounds themselves are inclusive.
func FilterPage(books []book.Book, p Params) []book.Book {
	out := make([]book.Book, 0, len(books))
	for _, b := range books {
		if p.EbookOnly && b.EbookCount <= 0 {
			continue
		}
		if p.Language != "" && !hasLanguage(b, p.Language) {
			continue
		}
		if !passesYearRange(b, p.YearMin, p.YearMax) {
			continue
		}
		out = append(out, b)
	}
	return out
}

func hasLanguage(b book.Book, lang string) bool {
	for _, l := range b.Languages {
		if l == lang {
			return true
		}
	}
	return false
}

func passesYearRange(b book.Book, yearMin, yearMax int) bool {
	if yearMin == 0 && yearMax == 0 {
		return true
	}
	if b.FirstPublishYear == 0 {
		return false
	}
	if yearMin > 0 && b.FirstPublishYear < yearMin {
		return false
	}
	if yearMax > 0 && b.FirstPublishYear > yearMax {
		return false
	}
	return true
}
