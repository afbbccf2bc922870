package api

import (
	"net/http"
)

func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	// API routes with method-specific routing
	mux.HandleFunc("GET /api/search", s.HandleSearch)
	mux.HandleFunc("GET /api/books/{key...}", s.HandleBook)
	mux.HandleFunc("GET /api/favorites", s.HandleListFavorites)
	mux.HandleFunc("POST /api/favorites", s.HandleToggleFavorite)
	mux.HandleFunc("DELETE /api/favorites", s.HandleClearFavorites)
	mux.HandleFunc("DELETE /api/favorites/{key...}", s.HandleRemoveFavorite)
	mux.HandleFunc("GET /ws/session", s.HandleLiveSession)
	mux.HandleFunc("GET /health", s.HandleHealth)
}
