package cmd

import (
	"context"
	"fmt"

	"github.com/openshelf/openshelf/pkg/config"
	"github.com/openshelf/openshelf/pkg/favorites"
	"github.com/openshelf/openshelf/pkg/openlibrary"
	"github.com/openshelf/openshelf/pkg/session"
	"github.com/urfave/cli/v3"
)

// SearchCommand creates the search command
func SearchCommand() *cli.Command {
	return &cli.Command{
		Name:  "search",
		Usage: "Search Open Library",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "query",
				Usage: "Search text",
			},
			&cli.StringFlag{
				Name:  "mode",
				Usage: "Search mode: all, title, author or isbn",
				Value: "all",
			},
			&cli.StringFlag{
				Name:  "subject",
				Usage: "Restrict results to a subject",
			},
			&cli.StringFlag{
				Name:  "lang",
				Usage: "Keep only records available in this language (MARC code, e.g. eng)",
			},
			&cli.BoolFlag{
				Name:  "ebook",
				Usage: "Keep only records with at least one ebook edition",
			},
			&cli.IntFlag{
				Name:  "year-min",
				Usage: "Keep only records first published in or after this year",
			},
			&cli.IntFlag{
				Name:  "year-max",
				Usage: "Keep only records first published in or before this year",
			},
			&cli.StringFlag{
				Name:  "sort",
				Usage: "Sort order: relevance, title, author, year, latest or rating",
				Value: "relevance",
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Results per page (0 uses the configured default)",
			},
			&cli.IntFlag{
				Name:  "pages",
				Usage: "Number of result pages to fetch",
				Value: 1,
			},
			&cli.BoolFlag{
				Name:  "facets",
				Usage: "Show facet lists below the results",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			query := c.String("query")
			if query == "" && c.Args().Len() > 0 {
				query = c.Args().First()
			}
			if query == "" {
				return fmt.Errorf("a search query is required")
			}

			params := session.Params{
				Mode:      openlibrary.ParseMode(c.String("mode")),
				Query:     query,
				Subject:   c.String("subject"),
				Language:  c.String("lang"),
				EbookOnly: c.Bool("ebook"),
				YearMin:   c.Int("year-min"),
				YearMax:   c.Int("year-max"),
				Sort:      session.ParseSortKey(c.String("sort")),
				PageSize:  c.Int("limit"),
			}
			return searchBooks(c.String("config"), params, c.Int("pages"), c.Bool("facets"))
		},
	}
}

// searchBooks runs a search session to completion and prints the final
// snapshot. Additional pages are fetched through the session's
// load-more path so later pages merge into the result set the same way
// they do for interactive clients.
func searchBooks(configPath string, params session.Params, pages int, showFacets bool) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	favs, err := openFavorites(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := favs.Close(); err != nil {
			fmt.Printf("Warning: failed to close favorites store: %v\n", err)
		}
	}()

	controller := session.New(newClient(cfg), sessionOptions(cfg))
	defer controller.Close()

	subID, snapshots := controller.Subscribe()
	defer controller.Unsubscribe(subID)

	controller.UpdateParams(params)
	controller.Submit()

	snap, err := awaitSettled(snapshots)
	if err != nil {
		return err
	}

	for page := 2; page <= pages && snap.HasMore(); page++ {
		if !controller.LoadMore() {
			break
		}
		snap, err = awaitSettled(snapshots)
		if err != nil {
			return err
		}
	}

	printResults(snap, favs, showFacets)
	return nil
}

// awaitSettled drains snapshots until a fetch completes.
func awaitSettled(snapshots <-chan session.Snapshot) (session.Snapshot, error) {
	for snap := range snapshots {
		if snap.Loading || !snap.Searched {
			continue
		}
		if snap.Err != "" {
			return snap, fmt.Errorf("%s", snap.Err)
		}
		return snap, nil
	}
	return session.Snapshot{}, fmt.Errorf("session closed before results arrived")
}

func printResults(snap session.Snapshot, favs *favorites.Store, showFacets bool) {
	if snap.NoResults() {
		fmt.Println(noDataStyle.Render("No results found"))
		return
	}

	for _, b := range snap.Books {
		if isTerminal() {
			fmt.Println(formatBookCard(b, favs.Contains(b.Key)))
		} else {
			fmt.Printf("%s\t%s\t%s\n", b.Key, b.Title, b.AuthorLine())
		}
	}

	if showFacets {
		fmt.Print(formatFacets(snap.Facets))
	}

	summary := fmt.Sprintf("Showing %d of %d results", len(snap.Books), snap.NumFound)
	if snap.HasMore() {
		summary += " (more available)"
	}
	if isTerminal() {
		fmt.Println(summaryStyle.Render(summary))
	} else {
		fmt.Println(summary)
	}
}
