package api

import (
	"time"

	"github.com/openshelf/openshelf/pkg/book"
	"github.com/openshelf/openshelf/pkg/session"
)

// BookResponse is one record as served to clients: the stored fields
// plus the resolved cover URL and its favorites membership.
type BookResponse struct {
	book.Book
	CoverURL string `json:"cover_url,omitempty"`
	Favorite bool   `json:"favorite"`
}

type SearchResponse struct {
	Query    string         `json:"query"`
	Mode     string         `json:"mode"`
	Books    []BookResponse `json:"books"`
	Count    int            `json:"count"`
	NumFound int            `json:"num_found"`
	Page     int            `json:"page"`
	Limit    int            `json:"limit"`
	HasMore  bool           `json:"has_more"`
	Facets   session.Facets `json:"facets"`
}

type FavoritesResponse struct {
	Books []BookResponse `json:"books"`
	Count int            `json:"count"`
}

type ToggleResponse struct {
	Key      string `json:"key"`
	Favorite bool   `json:"favorite"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
}

// ParamsPayload is the wire form of session parameters, shared by the
// live WebSocket session and documented for API clients. Field names
// match the /api/search query parameters.
type ParamsPayload struct {
	Mode    string `json:"mode,omitempty"`
	Query   string `json:"q,omitempty"`
	Subject string `json:"subject,omitempty"`
	Lang    string `json:"lang,omitempty"`
	Ebook   bool   `json:"ebook,omitempty"`
	YearMin int    `json:"year_min,omitempty"`
	YearMax int    `json:"year_max,omitempty"`
	Sort    string `json:"sort,omitempty"`
	Page    int    `json:"page,omitempty"`
	Limit   int    `json:"limit,omitempty"`
}

// SnapshotPayload is one published session state pushed over the live
// WebSocket session.
type SnapshotPayload struct {
	Books     []BookResponse `json:"books"`
	NumFound  int            `json:"num_found"`
	Facets    session.Facets `json:"facets"`
	Loading   bool           `json:"loading"`
	Error     string         `json:"error,omitempty"`
	NoResults bool           `json:"no_results"`
	HasMore   bool           `json:"has_more"`
	Page      int            `json:"page"`
}
