package cmd

import (
	"context"
	"fmt"

	"github.com/openshelf/openshelf/pkg/book"
	"github.com/openshelf/openshelf/pkg/config"
	"github.com/openshelf/openshelf/pkg/detail"
	"github.com/openshelf/openshelf/pkg/openlibrary"
	"github.com/urfave/cli/v3"
)

// ShowCommand creates the show command
func ShowCommand() *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Show the detail view of one record",
		ArgsUsage: "<key>",
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.Args().Len() == 0 {
				return fmt.Errorf("a record key is required (e.g. /works/OL45883W)")
			}
			return showBook(ctx, c.String("config"), normalizeCLIKey(c.Args().First()))
		},
	}
}

func showBook(ctx context.Context, configPath, key string) error {
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

	b, ok := favs.Get(key)
	if !ok {
		found, err := lookupByKey(ctx, newClient(cfg), key)
		if err != nil {
			return fmt.Errorf("looking up %s: %w", key, err)
		}
		if found == nil {
			return fmt.Errorf("no record with key %s", key)
		}
		b = *found
	}

	fmt.Print(formatDetail(detail.Project(b), favs.Contains(b.Key)))
	return nil
}

// lookupByKey searches the provider for a record by its work key.
func lookupByKey(ctx context.Context, client *openlibrary.Client, key string) (*book.Book, error) {
	result, err := client.Search(ctx, openlibrary.Query{
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

// normalizeCLIKey restores the leading slash a shell completion or a
// copy-paste may drop ("works/OL45883W" -> "/works/OL45883W").
func normalizeCLIKey(key string) string {
	if key == "" || key[0] == '/' {
		return key
	}
	return "/" + key
}
