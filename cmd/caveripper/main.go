// Command caveripper is a thin usage example for pkg/query: it loads a
// CaveInfo from a YAML cave set, parses a query from its flags, searches
// a seed range in parallel, and prints matching seeds. It is not the
// CLI surface spec.md scopes out (§1: "CLI surface, configuration
// files, and image cache plumbing" are an external collaborator's job)
// -- it exists to demonstrate pkg/query the way the teacher's
// cmd/dungeongen demonstrated pkg/dungeon.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gocaveripper/cavegen/pkg/caveinfo"
	"github.com/gocaveripper/cavegen/pkg/query"
)

var (
	caveFile = flag.String("cave", "", "Path to a YAML cave-set file (required)")
	sublevel = flag.String("sublevel", "", "Sublevel key to query, e.g. \"test/SC/1\" (required)")
	clauses  = flag.String("query", "", "Query clauses separated by ';' (required)")
	loFlag   = flag.Uint64("lo", 0, "Seed range lower bound (inclusive)")
	hiFlag   = flag.Uint64("hi", 1<<20, "Seed range upper bound (exclusive)")
	limit    = flag.Int("limit", 10, "Stop after this many matches (0 = search the whole range)")
	workers  = flag.Int("workers", 0, "Worker pool size (0 = GOMAXPROCS)")
	verbose  = flag.Bool("verbose", false, "Print progress and timing")
)

func main() {
	flag.Parse()

	if *caveFile == "" || *sublevel == "" || *clauses == "" {
		fmt.Fprintln(os.Stderr, "Error: -cave, -sublevel, and -query are all required")
		flag.Usage()
		os.Exit(1)
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	loader := caveinfo.NewStaticLoader()
	if *verbose {
		fmt.Printf("Loading cave set from %s\n", *caveFile)
	}
	if _, err := loader.LoadYAMLFile(*caveFile); err != nil {
		return fmt.Errorf("failed to load cave set: %w", err)
	}

	cfg, err := loader.GetCaveInfo(*sublevel)
	if err != nil {
		return fmt.Errorf("failed to look up sublevel %q: %w", *sublevel, err)
	}

	lines := strings.Split(*clauses, ";")
	q, err := query.Parse(*sublevel, lines)
	if err != nil {
		return fmt.Errorf("failed to parse query: %w", err)
	}

	if *verbose {
		fmt.Printf("Searching seeds [%d, %d) with %d clause(s)\n", *loFlag, *hiFlag, len(q.Clauses))
	}

	start := time.Now()
	matches := query.Search(context.Background(), cfg.Info, uint32(*loFlag), uint32(*hiFlag), q, query.SearchOptions{
		Workers: *workers,
		Limit:   *limit,
	})
	elapsed := time.Since(start)

	for _, seed := range matches {
		fmt.Println(seed)
	}
	if *verbose {
		fmt.Printf("Found %d match(es) in %v\n", len(matches), elapsed)
	}
	return nil
}
