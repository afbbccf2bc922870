package openlibrary

import "github.com/openshelf/openshelf/pkg/book"

// Mode selects which single provider field the primary search term is
// matched against.
type Mode string

const (
	ModeAll    Mode = "all"
	ModeTitle  Mode = "title"
	ModeAuthor Mode = "author"
	ModeISBN   Mode = "isbn"
)

// ParseMode maps a user-supplied mode string to a Mode, defaulting to
// ModeAll for unknown values.
func ParseMode(s string) Mode {
	switch Mode(s) {
	case ModeTitle, ModeAuthor, ModeISBN:
		return Mode(s)
	default:
		return ModeAll
	}
}

// queryParam returns the outbound query parameter name for the mode.
func (m Mode) queryParam() string {
	switch m {
	case ModeTitle:
		return "title"
	case ModeAuthor:
		return "author"
	case ModeISBN:
		return "isbn"
	default:
		return "q"
	}
}

// Query is one outbound request against the search endpoint. Exactly
// one primary field is selected by Mode; Subject optionally narrows the
// match.
type Query struct {
	Mode     Mode
	Text     string
	Subject  string
	Page     int
	PageSize int
}

// Result is one page of decoded search results plus the server's
// total-match estimate. NumFound counts all matches, not just this
// page.
type Result struct {
	NumFound int
	Books    []book.Book
}

// searchResponse mirrors the provider's JSON envelope.
type searchResponse struct {
	NumFound int   `json:"numFound"`
	Docs     []doc `json:"docs"`
}

// doc mirrors one provider document, restricted to the fields requested
// via the fields parameter.
type doc struct {
	Key              string   `json:"key"`
	Title            string   `json:"title"`
	Subtitle         string   `json:"subtitle"`
	AuthorName       []string `json:"author_name"`
	FirstPublishYear int      `json:"first_publish_year"`
	PublishYear      []int    `json:"publish_year"`
	Publisher        []string `json:"publisher"`
	EditionCount     int      `json:"edition_count"`
	CoverI           int64    `json:"cover_i"`
	Language         []string `json:"language"`
	EbookCountI      int      `json:"ebook_count_i"`
	Subject          []string `json:"subject"`
	RatingsAverage   float64  `json:"ratings_average"`
}

func (d doc) toBook() book.Book {
	return book.Book{
		Key:              d.Key,
		Title:            d.Title,
		Subtitle:         d.Subtitle,
		Authors:          d.AuthorName,
		FirstPublishYear: d.FirstPublishYear,
		PublishYears:     d.PublishYear,
		Publishers:       d.Publisher,
		EditionCount:     d.EditionCount,
		CoverID:          d.CoverI,
		Languages:        d.Language,
		EbookCount:       d.EbookCountI,
		Subjects:         d.Subject,
		Rating:           d.RatingsAverage,
	}
}
