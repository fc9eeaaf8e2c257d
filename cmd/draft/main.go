// Command draft is a local terminal picker for playing a draft session by
// hand: it shows offers coloured by rarity and applies the chosen card.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lawnchairsociety/draftforge/internal/catalog"
	"github.com/lawnchairsociety/draftforge/internal/config"
	"github.com/lawnchairsociety/draftforge/internal/logger"
	"github.com/lawnchairsociety/draftforge/internal/session"
)

func main() {
	seed := flag.Int64("seed", 0, "Session seed (default: random based on current time)")
	catalogFile := flag.String("catalog", "", "Path to catalog YAML file (default: embedded content)")
	serverConfigFile := flag.String("config", "data/server.yaml", "Path to engine config YAML file")
	loggingConfig := flag.String("logging", "data/logging.yaml", "Path to logging config YAML file")
	flag.Parse()

	// The screen owns the terminal, so only file logging is allowed. Without
	// it the logger stays uninitialized and discards everything.
	logConfig, _ := logger.LoadConfig(*loggingConfig)
	if logConfig.FileEnabled {
		logConfig.ConsoleEnabled = false
		if err := logger.Initialize(logConfig); err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logger.Close()
	}

	cfg, err := config.LoadConfig(*serverConfigFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v, using defaults\n", err)
	}

	var registry *catalog.Registry
	if *catalogFile == "" {
		registry, err = catalog.Default()
	} else {
		registry, err = catalog.LoadFromYAML(*catalogFile)
	}
	if err != nil {
		log.Fatalf("Failed to load catalog: %v", err)
	}

	sessionSeed := *seed
	if sessionSeed == 0 {
		sessionSeed = time.Now().UnixNano()
	}
	sess := session.New(registry, nil, cfg.Engine, sessionSeed)
	defer sess.Close()

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatalf("Failed to create screen: %v", err)
	}
	if err := screen.Init(); err != nil {
		log.Fatalf("Failed to initialize screen: %v", err)
	}
	defer screen.Fini()

	newPicker(screen, sess).run()
	logger.Info("Session finished", "seed", sessionSeed, "level", sess.State().Level())
}
