// Package book defines the record type shared by the Open Library
// client, the search session controller, the favorites store and the
// detail projection.
//
// A Book is an immutable snapshot of one search result. Identity is the
// Key field (the provider's stable work key, e.g. "/works/OL45883W");
// two Books with the same key refer to the same work even when the
// remaining fields differ between API pages.
package book

import "strings"

// Book is one search result item as returned by the metadata provider.
// Zero values mean "unknown": FirstPublishYear == 0 is a record without
// a publish year, CoverID == 0 a record without a cover, Rating == 0 an
// unrated work.
type Book struct {
	Key              string   `json:"key"`
	Title            string   `json:"title"`
	Subtitle         string   `json:"subtitle,omitempty"`
	Authors          []string `json:"authors,omitempty"`
	FirstPublishYear int      `json:"first_publish_year,omitempty"`
	PublishYears     []int    `json:"publish_years,omitempty"`
	Publishers       []string `json:"publishers,omitempty"`
	EditionCount     int      `json:"edition_count,omitempty"`
	CoverID          int64    `json:"cover_id,omitempty"`
	Languages        []string `json:"languages,omitempty"`
	EbookCount       int      `json:"ebook_count,omitempty"`
	Subjects         []string `json:"subjects,omitempty"`
	Rating           float64  `json:"rating,omitempty"`
}

// AuthorLine returns the author names joined for display, or "Unknown"
// when the record carries no authors.
func (b Book) AuthorLine() string {
	if len(b.Authors) == 0 {
		return "Unknown"
	}
	return strings.Join(b.Authors, ", ")
}

// HasCover reports whether the provider knows a cover image for this
// record.
func (b Book) HasCover() bool {
	return b.CoverID > 0
}

// FirstAuthor returns the first author name or an empty string.
func (b Book) FirstAuthor() string {
	if len(b.Authors) == 0 {
		return ""
	}
	return b.Authors[0]
}

// LatestPublishYear returns the most recent year in PublishYears,
// falling back to FirstPublishYear when the year list is empty.
func (b Book) LatestPublishYear() int {
	latest := b.FirstPublishYear
	for _, y := range b.PublishYears {
		if y > latest {
			latest = y
		}
	}
	return latest
}
