package cmd

import (
	"fmt"
	"os"

	"github.com/openshelf/openshelf/pkg/config"
	"github.com/openshelf/openshelf/pkg/favorites"
	"github.com/openshelf/openshelf/pkg/openlibrary"
	"github.com/openshelf/openshelf/pkg/session"
)

// newClient builds the Open Library client from the loaded config.
func newClient(cfg *config.Config) *openlibrary.Client {
	return openlibrary.NewClient(openlibrary.Config{
		Endpoint:       cfg.API.Endpoint,
		CoversEndpoint: cfg.API.CoversEndpoint,
		RateLimit:      cfg.API.RateLimit,
		Timeout:        cfg.API.Timeout.Duration,
	})
}

// openFavorites opens the favorites store under the configured data
// directory, creating the directory if needed.
func openFavorites(cfg *config.Config) (*favorites.Store, error) {
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	store, err := favorites.Open(cfg.FavoritesDBPath())
	if err != nil {
		return nil, fmt.Errorf("opening favorites store: %w", err)
	}
	return store, nil
}

// sessionOptions maps config values onto session controller options.
func sessionOptions(cfg *config.Config) session.Options {
	return session.Options{
		Debounce:   cfg.Search.Debounce.Duration,
		FacetLimit: cfg.Search.FacetLimit,
		PageSize:   cfg.Search.PageSize,
	}
}

func isTerminal() bool {
	fileInfo, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}
