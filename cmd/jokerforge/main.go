package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"jokerforge/internal/engine"
	"jokerforge/internal/jokerdata"
)

func main() {
	seed := flag.Int64("seed", 0, "RNG seed for reproducible gameplay (0 picks a fresh secure seed)")
	baseDir := flag.String("data", "data", "directory containing ante_requirements.csv, hand_scores.csv, bosses.yaml, skiptags.yaml, jokers.toml")
	flag.Parse()

	s := *seed
	if s == 0 {
		s = engine.SecureRNG{}.NewSeed()
	}

	loadJokerCatalog(*baseDir)

	g, err := engine.NewGame(s, nil, *baseDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "jokerforge: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Using seed: %d\n", s)

	g.Subscribe(consoleListener{})
	newConsoleDriver(g, os.Stdin).Run()
}

// loadJokerCatalog registers every joker defined in jokers.toml under
// baseDir, falling back to the built-in starter catalog (and a warning on
// stdout) when the file is missing or fails to parse, matching the
// load-or-default idiom the engine package uses for its own CSV/YAML
// config.
func loadJokerCatalog(baseDir string) {
	cat, err := jokerdata.LoadCatalog(filepath.Join(baseDir, "jokers.toml"))
	if err != nil {
		fmt.Printf("Warning: could not load jokers.toml, using the starter catalog: %v\n", err)
		cat, err = jokerdata.LoadCatalogBytes([]byte(jokerdata.DefaultCatalogTOML))
		if err != nil {
			fmt.Printf("Warning: starter catalog failed to parse, shop will be empty: %v\n", err)
			return
		}
	}
	jokerdata.RegisterCatalog(cat)
}
