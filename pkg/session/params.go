package session

import (
	"net/url"
	"strconv"

	"github.com/openshelf/openshelf/pkg/openlibrary"
)

// SortKey selects the client-side ordering applied to the merged result
// set. Text keys sort case-insensitively ascending; year keys sort
// descending (most recent first); relevance keeps the provider /
// append order.
type SortKey string

const (
	SortRelevance  SortKey = "relevance"
	SortTitle      SortKey = "title"
	SortAuthor     SortKey = "author"
	SortYearFirst  SortKey = "year"
	SortYearLatest SortKey = "latest"
	SortRating     SortKey = "rating"
)

// ParseSortKey maps a user-supplied sort string to a SortKey,
// defaulting to relevance for unknown values.
func ParseSortKey(s string) SortKey {
	switch SortKey(s) {
	case SortTitle, SortAuthor, SortYearFirst, SortYearLatest, SortRating:
		return SortKey(s)
	default:
		return SortRelevance
	}
}

// Params is an immutable snapshot of user intent. It is rebuilt on
// every edit; the controller decides whether a change is a pure
// pagination step or a new search.
type Params struct {
	// Mode selects the provider field the primary term matches against.
	Mode openlibrary.Mode

	// Query is the primary search term for the selected mode.
	Query string

	// Subject optionally narrows the outbound request.
	Subject string

	// Language keeps only records whose language list contains this
	// code. Empty means any language.
	Language string

	// EbookOnly keeps only records with at least one ebook.
	EbookOnly bool

	// YearMin and YearMax bound the first publish year. Zero means the
	// bound is unset. Records without a publish year are excluded
	// whenever either bound is set.
	YearMin int
	YearMax int

	// Sort is the client-side sort applied after merging.
	Sort SortKey

	// Page is the 1-based page number of the next fetch.
	Page int

	// PageSize is the number of records requested per page.
	PageSize int
}

// normalize fills in the fields a zero value leaves unusable.
func (p Params) normalize(defaultPageSize int) Params {
	if p.Mode == "" {
		p.Mode = openlibrary.ModeAll
	}
	if p.Sort == "" {
		p.Sort = SortRelevance
	}
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize <= 0 {
		p.PageSize = defaultPageSize
	}
	return p
}

// NormalizeParams applies the same defaulting the controller performs,
// for callers running the pipeline outside a controller (the one-shot
// API handler). A non-positive defaultPageSize falls back to 20.
func NormalizeParams(p Params, defaultPageSize int) Params {
	if defaultPageSize <= 0 {
		defaultPageSize = 20
	}
	return p.normalize(defaultPageSize)
}

// equalIgnoringPage reports whether o differs from p only in the page
// number. Such a change is a pure pagination step; anything else resets
// the accumulated result set.
func (p Params) equalIgnoringPage(o Params) bool {
	p.Page = 0
	o.Page = 0
	return p == o
}

// query translates the params into one outbound provider query.
func (p Params) query() openlibrary.Query {
	return openlibrary.Query{
		Mode:     p.Mode,
		Text:     p.Query,
		Subject:  p.Subject,
		Page:     p.Page,
		PageSize: p.PageSize,
	}
}

// ParseParams parses HTTP query parameters into a Params. Missing or
// malformed values fall back to defaults; nothing here is an error.
//
// Supported parameters: mode, q, subject, lang, ebook, year_min,
// year_max, sort, page, limit.
func ParseParams(values url.Values) Params {
	p := Params{
		Mode:  openlibrary.ParseMode(values.Get("mode")),
		Query: values.Get("q"),
		Sort:  ParseSortKey(values.Get("sort")),
		Page:  1,
	}

	p.Subject = values.Get("subject")
	p.Language = values.Get("lang")

	if ebook := values.Get("ebook"); ebook != "" {
		p.EbookOnly, _ = strconv.ParseBool(ebook)
	}

	if v, err := strconv.Atoi(values.Get("year_min")); err == nil && v > 0 {
		p.YearMin = v
	}
	if v, err := strconv.Atoi(values.Get("year_max")); err == nil && v > 0 {
		p.YearMax = v
	}
	if v, err := strconv.Atoi(values.Get("page")); err == nil && v > 0 {
		p.Page = v
	}
	if v, err := strconv.Atoi(values.Get("limit")); err == nil && v > 0 {
		p.PageSize = v
	}

	return p
}
