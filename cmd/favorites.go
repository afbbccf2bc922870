package cmd

import (
	"context"
	"fmt"

	"github.com/openshelf/openshelf/pkg/config"
	"github.com/openshelf/openshelf/pkg/favorites"
	"github.com/urfave/cli/v3"
)

// FavoritesCommand creates the favorites command with its subcommands
func FavoritesCommand() *cli.Command {
	return &cli.Command{
		Name:  "favorites",
		Usage: "Manage locally stored favorite records",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List stored favorites in the order they were added",
				Action: func(ctx context.Context, c *cli.Command) error {
					return withFavorites(c.String("config"), listFavorites)
				},
			},
			{
				Name:      "toggle",
				Usage:     "Add a record to favorites, or remove it if already stored",
				ArgsUsage: "<key>",
				Action: func(ctx context.Context, c *cli.Command) error {
					if c.Args().Len() == 0 {
						return fmt.Errorf("a record key is required")
					}
					key := normalizeCLIKey(c.Args().First())
					return toggleFavorite(ctx, c.String("config"), key)
				},
			},
			{
				Name:      "remove",
				Usage:     "Remove a record from favorites",
				ArgsUsage: "<key>",
				Action: func(ctx context.Context, c *cli.Command) error {
					if c.Args().Len() == 0 {
						return fmt.Errorf("a record key is required")
					}
					key := normalizeCLIKey(c.Args().First())
					return withFavorites(c.String("config"), func(favs *favorites.Store) error {
						if err := favs.Remove(key); err != nil {
							return fmt.Errorf("removing %s: %w", key, err)
						}
						fmt.Printf("Removed %s\n", key)
						return nil
					})
				},
			},
			{
				Name:  "clear",
				Usage: "Remove all stored favorites",
				Action: func(ctx context.Context, c *cli.Command) error {
					return withFavorites(c.String("config"), func(favs *favorites.Store) error {
						count := favs.Count()
						if err := favs.Clear(); err != nil {
							return fmt.Errorf("clearing favorites: %w", err)
						}
						fmt.Printf("Removed %d favorites\n", count)
						return nil
					})
				},
			},
		},
	}
}

func withFavorites(configPath string, fn func(*favorites.Store) error) error {
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

	return fn(favs)
}

func listFavorites(favs *favorites.Store) error {
	books := favs.List()
	if len(books) == 0 {
		fmt.Println(noDataStyle.Render("No favorites yet"))
		return nil
	}

	for _, b := range books {
		if isTerminal() {
			fmt.Println(formatBookCard(b, true))
		} else {
			fmt.Printf("%s\t%s\t%s\n", b.Key, b.Title, b.AuthorLine())
		}
	}
	fmt.Printf("%d favorites\n", len(books))
	return nil
}

// toggleFavorite stores or drops one record. When the record is not yet
// stored it has to be fetched from the provider first so the stored
// copy carries the full metadata.
func toggleFavorite(ctx context.Context, configPath, key string) error {
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

	if favs.Contains(key) {
		if err := favs.Remove(key); err != nil {
			return fmt.Errorf("removing %s: %w", key, err)
		}
		fmt.Printf("Removed %s\n", key)
		return nil
	}

	found, err := lookupByKey(ctx, newClient(cfg), key)
	if err != nil {
		return fmt.Errorf("looking up %s: %w", key, err)
	}
	if found == nil {
		return fmt.Errorf("no record with key %s", key)
	}

	if _, err := favs.Toggle(*found); err != nil {
		return fmt.Errorf("storing %s: %w", key, err)
	}
	fmt.Printf("Added %s (%s)\n", found.Key, found.Title)
	return nil
}
