package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/klauspost/compress/gzhttp"
	"github.com/openshelf/openshelf/pkg/api"
	"github.com/openshelf/openshelf/pkg/config"
	"github.com/openshelf/openshelf/pkg/favorites"
	"github.com/urfave/cli/v3"
)

// ServeCommand creates the serve command
func ServeCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the HTTP API and live session server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Host to bind to (overrides config)",
			},
			&cli.IntFlag{
				Name:  "port",
				Usage: "Port to bind to (overrides config)",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return serve(ctx, c.String("config"), c.String("host"), c.Int("port"))
		},
	}
}

// runningServer bundles one started HTTP server with the resources it
// owns, so a config reload can tear the whole thing down.
type runningServer struct {
	httpServer *http.Server
	favorites  *favorites.Store
	errCh      chan error
}

func (rs *runningServer) shutdown() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := rs.httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("Warning: server shutdown: %v", err)
	}
	if err := rs.favorites.Close(); err != nil {
		log.Printf("Warning: failed to close favorites store: %v", err)
	}
}

// serve starts the HTTP server and keeps it running until interrupted.
// The config file is watched; a change or a SIGHUP restarts the server
// with the new configuration.
func serve(ctx context.Context, configPath, hostOverride string, portOverride int) error {
	start := func() (*runningServer, error) {
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		if hostOverride != "" {
			cfg.Serve.Host = hostOverride
		}
		if portOverride > 0 {
			cfg.Serve.Port = portOverride
		}
		return startServer(cfg)
	}

	current, err := start()
	if err != nil {
		return err
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Printf("Warning: failed to create config file watcher: %v", err)
	} else {
		defer func() {
			if err := watcher.Close(); err != nil {
				log.Printf("Warning: failed to close config file watcher: %v", err)
			}
		}()
		if err := watcher.Add(configPath); err != nil {
			log.Printf("Warning: failed to watch config file %s: %v", configPath, err)
		} else {
			log.Printf("Watching config file for changes: %s", configPath)
		}
	}

	reload := func(reason string) {
		log.Printf("%s, restarting server with new configuration...", reason)
		// Validate the new config before touching the running server so
		// a broken edit leaves the old one serving.
		if _, err := config.LoadConfig(configPath); err != nil {
			log.Printf("Failed to load new config, keeping current server: %v", err)
			return
		}
		current.shutdown()
		next, err := start()
		if err != nil {
			log.Printf("Failed to restart server: %v", err)
			os.Exit(1)
		}
		current = next
		log.Println("Server restarted")
	}

	for {
		select {
		case <-ctx.Done():
			current.shutdown()
			return nil
		case err := <-current.errCh:
			current.shutdown()
			return fmt.Errorf("server error: %w", err)
		case sig := <-sigCh:
			switch sig {
			case syscall.SIGHUP:
				reload("Received SIGHUP")
			case syscall.SIGINT, syscall.SIGTERM:
				fmt.Println("\nShutting down...")
				current.shutdown()
				return nil
			}
		case event, ok := <-watcher.Events:
			if !ok {
				continue
			}
			// Editors often replace the file rather than writing it in
			// place, so rename and remove count as changes too.
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove) {
				if event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove) {
					time.Sleep(200 * time.Millisecond)
					if _, err := os.Stat(configPath); os.IsNotExist(err) {
						log.Printf("Config file was removed and not replaced, skipping reload")
						continue
					}
					if err := watcher.Add(configPath); err != nil {
						log.Printf("Warning: failed to re-add config file to watcher: %v", err)
					}
				} else {
					time.Sleep(100 * time.Millisecond)
				}
				reload(fmt.Sprintf("Config file changed: %s", event.Name))
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				continue
			}
			log.Printf("Config file watcher error: %v", err)
		}
	}
}

// startServer builds the API server and starts listening.
func startServer(cfg *config.Config) (*runningServer, error) {
	favs, err := openFavorites(cfg)
	if err != nil {
		return nil, err
	}

	server := api.NewServer(newClient(cfg), favs, sessionOptions(cfg))

	mux := http.NewServeMux()
	server.RegisterRoutes(mux)

	handler := api.CorsMiddleware(api.RequestIDMiddleware(gzhttp.GzipHandler(mux)))

	httpServer := &http.Server{
		Addr:              cfg.Serve.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Listening on http://%s", cfg.Serve.Addr())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	return &runningServer{
		httpServer: httpServer,
		favorites:  favs,
		errCh:      errCh,
	}, nil
}
