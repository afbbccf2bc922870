package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/openshelf/openshelf/pkg/book"
	"github.com/openshelf/openshelf/pkg/detail"
	"github.com/openshelf/openshelf/pkg/openlibrary"
	"github.com/openshelf/openshelf/pkg/session"
	"github.com/openshelf/openshelf/pkg/version"
)

// HandleSearch serves one-shot searches: one provider request,
// post-filtered, facet-derived and sorted with the same pipeline the
// session controller uses. The request context cancels the provider
// call when the client goes away.
func (s *Server) HandleSearch(w http.ResponseWriter, r *http.Request) {
	params := session.ParseParams(r.URL.Query())
	if params.Query == "" {
		s.writeError(w, http.StatusBadRequest, "Missing query parameter", "Query parameter 'q' is required")
		return
	}
	params = session.NormalizeParams(params, s.sessionOpts.PageSize)

	result, err := s.client.Search(r.Context(), openlibrary.Query{
		Mode:     params.Mode,
		Text:     params.Query,
		Subject:  params.Subject,
		Page:     params.Page,
		PageSize: params.PageSize,
	})
	if err != nil {
		s.writeError(w, http.StatusBadGateway, "Search failed", err.Error())
		return
	}

	books := session.FilterPage(result.Books, params)
	facets := session.DeriveFacets(books, s.sessionOpts.FacetLimit)
	session.SortBooks(books, params.Sort)

	response := SearchResponse{
		Query:    params.Query,
		Mode:     string(params.Mode),
		Books:    s.bookResponses(books),
		Count:    len(books),
		NumFound: result.NumFound,
		Page:     params.Page,
		Limit:    params.PageSize,
		HasMore:  len(books) < result.NumFound,
		Facets:   facets,
	}
	s.writeJSON(w, http.StatusOK, response)
}

// HandleBook serves the detail projection for one record. Favorites are
// served from local storage; anything else is looked up at the
// provider by key.
func (s *Server) HandleBook(w http.ResponseWriter, r *http.Request) {
	key := normalizeKey(r.PathValue("key"))
	if key == "" {
		s.writeError(w, http.StatusBadRequest, "Invalid path", "Record key is required")
		return
	}

	b, ok := s.favorites.Get(key)
	if !ok {
		found, err := s.lookupByKey(r, key)
		if err != nil {
			s.writeError(w, http.StatusBadGateway, "Lookup failed", err.Error())
			return
		}
		if found == nil {
			s.writeError(w, http.StatusNotFound, "Record not found", fmt.Sprintf("No record with key %s", key))
			return
		}
		b = *found
	}

	d := detail.Project(b)
	s.writeJSON(w, http.StatusOK, struct {
		detail.Detail
		Key      string `json:"key"`
		CoverURL string `json:"cover_url,omitempty"`
		Favorite bool   `json:"favorite"`
	}{
		Detail:   d,
		Key:      b.Key,
		CoverURL: s.client.CoverURL(b.CoverID, "L"),
		Favorite: s.favorites.Contains(b.Key),
	})
}

func (s *Server) lookupByKey(r *http.Request, key string) (*book.Book, error) {
	result, err := s.client.Search(r.Context(), openlibrary.Query{
		Mode:     openlibrary.ModeAll,
		Text:     key,
		Page:     1,
		PageSize: 5,
	})
	if err != nil {
		return nil, err
	}
	for _, b := range result.Books {
		if b.Key == key {
			return &b, nil
		}
	}
	return nil, nil
}

// HandleListFavorites serves the stored favorites in insertion order.
func (s *Server) HandleListFavorites(w http.ResponseWriter, r *http.Request) {
	books := s.favorites.List()
	s.writeJSON(w, http.StatusOK, FavoritesResponse{
		Books: s.bookResponses(books),
		Count: len(books),
	})
}

// HandleToggleFavorite toggles the record posted in the body.
func (s *Server) HandleToggleFavorite(w http.ResponseWriter, r *http.Request) {
	var b book.Book
	if err := json.NewDecoder(r.Body).Decode(&b); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid body", err.Error())
		return
	}
	if b.Key == "" {
		s.writeError(w, http.StatusBadRequest, "Invalid body", "Record key is required")
		return
	}

	on, err := s.favorites.Toggle(b)
	if err != nil {
		// Persistence trouble stays server-side; the toggle simply
		// reports the state that is actually stored.
		logger.Warnf("toggling favorite %s: %v", b.Key, err)
		on = s.favorites.Contains(b.Key)
	}
	s.writeJSON(w, http.StatusOK, ToggleResponse{Key: b.Key, Favorite: on})
}

// HandleRemoveFavorite removes one stored record.
func (s *Server) HandleRemoveFavorite(w http.ResponseWriter, r *http.Request) {
	key := normalizeKey(r.PathValue("key"))
	if key == "" {
		s.writeError(w, http.StatusBadRequest, "Invalid path", "Record key is required")
		return
	}
	if err := s.favorites.Remove(key); err != nil {
		logger.Warnf("removing favorite %s: %v", key, err)
	}
	s.writeJSON(w, http.StatusOK, ToggleResponse{Key: key, Favorite: false})
}

// HandleClearFavorites empties the favorites store.
func (s *Server) HandleClearFavorites(w http.ResponseWriter, r *http.Request) {
	if err := s.favorites.Clear(); err != nil {
		logger.Warnf("clearing favorites: %v", err)
	}
	s.writeJSON(w, http.StatusOK, FavoritesResponse{Books: []BookResponse{}, Count: 0})
}

func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC(),
		Version:   version.APIVersion(),
	})
}

func (s *Server) bookResponses(books []book.Book) []BookResponse {
	responses := make([]BookResponse, len(books))
	for i, b := range books {
		responses[i] = BookResponse{
			Book:     b,
			CoverURL: s.client.CoverURL(b.CoverID, "M"),
			Favorite: s.favorites.Contains(b.Key),
		}
	}
	return responses
}

// normalizeKey restores the leading slash the router strips from
// wildcard path values ("works/OL1W" -> "/works/OL1W").
func normalizeKey(key string) string {
	if key == "" {
		return ""
	}
	if !strings.HasPrefix(key, "/") {
		key = "/" + key
	}
	return key
}
