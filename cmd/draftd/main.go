package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lawnchairsociety/draftforge/internal/catalog"
	"github.com/lawnchairsociety/draftforge/internal/config"
	"github.com/lawnchairsociety/draftforge/internal/journal"
	"github.com/lawnchairsociety/draftforge/internal/logger"
	"github.com/lawnchairsociety/draftforge/internal/server"
)

func main() {
	port := flag.Int("port", 4000, "Line protocol (newline-delimited JSON) port, 0 disables")
	wsPort := flag.Int("wsport", 4443, "WebSocket server port")
	catalogFile := flag.String("catalog", "", "Path to catalog YAML file (default: embedded content)")
	loggingConfig := flag.String("logging", "data/logging.yaml", "Path to logging config YAML file")
	serverConfigFile := flag.String("config", "data/server.yaml", "Path to server config YAML file")
	stats := flag.String("stats", "", "Print journal pick counts for a category (\"all\" for every category) and exit")
	flag.Parse()

	logConfig, err := logger.LoadConfig(*loggingConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v, using defaults\n", err)
	}
	if err := logger.Initialize(logConfig); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Close()

	serverCfg, err := config.LoadConfig(*serverConfigFile)
	if err != nil {
		logger.Warning("Failed to load server config, using defaults", "path", *serverConfigFile, "error", err)
	}

	if *stats != "" {
		if err := printStats(serverCfg.Journal, *stats); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, serverCfg, *catalogFile, *port, *wsPort); err != nil {
		logger.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.ServerConfig, catalogFile string, port, wsPort int) error {
	logger.Info("Starting draftforge server")

	registry, err := loadCatalog(catalogFile)
	if err != nil {
		return fmt.Errorf("loading catalog: %w", err)
	}
	logger.Info("Catalog loaded",
		"jobs", len(registry.Jobs()),
		"skills", len(registry.Skills()),
		"weapons", len(registry.Weapons()),
		"synergies", len(registry.Synergies()))

	srv := server.NewServer(cfg, registry)

	if cfg.Journal.Enabled {
		j, err := journal.Open(cfg.Journal)
		if err != nil {
			return fmt.Errorf("opening journal: %w", err)
		}
		defer j.Close()
		srv.SetJournal(j)
		logger.Info("Pick journal enabled", "driver", cfg.Journal.Driver)
	}

	switch {
	case len(cfg.WebSocket.AllowedOrigins) == 0:
		logger.Info("WebSocket CORS policy", "mode", "same-origin")
	case len(cfg.WebSocket.AllowedOrigins) == 1 && cfg.WebSocket.AllowedOrigins[0] == "*":
		logger.Warning("WebSocket CORS allows all origins (not recommended for production)")
	default:
		logger.Info("WebSocket CORS policy", "allowed_origins", cfg.WebSocket.AllowedOrigins)
	}

	g, gctx := errgroup.WithContext(ctx)

	if port > 0 {
		g.Go(func() error {
			if err := srv.Start(fmt.Sprintf(":%d", port)); err != nil {
				return fmt.Errorf("line server: %w", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		if err := srv.StartWebSocket(fmt.Sprintf(":%d", wsPort)); err != nil {
			return fmt.Errorf("websocket server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	logger.Info("Draft server running", "port", port, "websocket_port", wsPort)

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("Server stopped")
	return nil
}

func loadCatalog(path string) (*catalog.Registry, error) {
	if path == "" {
		return catalog.Default()
	}
	return catalog.LoadFromYAML(path)
}

// printStats prints journal pick counts sorted by frequency.
func printStats(cfg config.JournalConfig, category string) error {
	j, err := journal.Open(cfg)
	if err != nil {
		return err
	}
	defer j.Close()

	if category == "all" {
		category = ""
	}
	counts, err := j.PickCounts(category)
	if err != nil {
		return err
	}

	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(a, b int) bool {
		if counts[keys[a]] != counts[keys[b]] {
			return counts[keys[a]] > counts[keys[b]]
		}
		return keys[a] < keys[b]
	})
	for _, k := range keys {
		fmt.Printf("%6d  %s\n", counts[k], k)
	}
	return nil
}
