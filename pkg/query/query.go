// Package query implements the structural query evaluator (§4.G): a
// parsed query is a conjunction of clauses bound to one sublevel, run
// against generated floors across a seed range in parallel.
//
// The DSL tokenizer/parser follows the teacher's cousin pattern in
// KirkDiggler-rpg-toolkit's dice/notation.go: strings.Fields
// tokenization, one parse function per clause keyword, and explicit
// fmt.Errorf("%w: ...", sentinel) wrapping rather than a generated
// parser. Search's staged "instantiate a generator per candidate seed"
// shape follows the teacher's pkg/dungeon.Generator interface, fanned
// out across a worker pool instead of called once.
package query

import (
	"context"
	"runtime"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/gocaveripper/cavegen/pkg/caveinfo"
	"github.com/gocaveripper/cavegen/pkg/generator"
)

// Query is a parsed conjunction of clauses bound to one sublevel.
type Query struct {
	Sublevel string
	Clauses  []Clause
}

// Clause is one structural predicate over a generated floor (§4.G).
type Clause interface {
	// Eval reports whether res satisfies the clause.
	Eval(res *generator.Result) bool
	String() string
}

// Matches reports whether every clause in q holds for res.
func (q *Query) Matches(res *generator.Result) bool {
	for _, c := range q.Clauses {
		if !c.Eval(res) {
			return false
		}
	}
	return true
}

// SearchOptions configures a seed-range search.
type SearchOptions struct {
	// Workers bounds the parallel worker pool; 0 selects GOMAXPROCS,
	// matching §5's "parallel worker pool (work-stealing)".
	Workers int
	// Limit stops the search once this many matches have been found;
	// 0 means "search the whole range".
	Limit int
}

// Search enumerates [lo, hi) against info, running one generator.Generate
// per seed across a bounded worker pool, and returns every matching seed
// in ascending order. Per §4.G: "generate floors in parallel (one RNG
// per task, no shared mutable state), evaluate all clauses, emit
// matching seeds until a requested count is hit or the range
// exhausts." Per-seed generation failures are logged and treated as
// non-matches (§7 propagation policy) rather than aborting the search;
// the query driver itself may cancel ctx at any time, in which case
// in-flight generations still complete (§5 cancellation policy) and
// Search returns whatever matched so far.
func Search(ctx context.Context, info *caveinfo.CaveInfo, lo, hi uint32, q *Query, opts SearchOptions) []uint32 {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	log := logrus.WithFields(logrus.Fields{
		"run_id":   uuid.New().String(),
		"sublevel": q.Sublevel,
		"lo":       lo,
		"hi":       hi,
	})
	log.Debug("starting seed range search")

	searchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(searchCtx)
	g.SetLimit(workers)

	var mu sync.Mutex
	var matches []uint32

	for seed := lo; seed != hi; seed++ {
		if gctx.Err() != nil {
			break
		}
		seed := seed
		g.Go(func() error {
			res, err := generator.Generate(context.WithoutCancel(gctx), seed, info, q.Sublevel)
			if err != nil {
				log.WithField("seed", seed).WithError(err).Debug("seed generation failed, skipping")
				return nil
			}
			if !q.Matches(res) {
				return nil
			}

			mu.Lock()
			matches = append(matches, seed)
			full := opts.Limit > 0 && len(matches) >= opts.Limit
			mu.Unlock()

			if full {
				cancel()
			}
			return nil
		})
	}
	_ = g.Wait()

	sort.Slice(matches, func(i, j int) bool { return matches[i] < matches[j] })
	if opts.Limit > 0 && len(matches) > opts.Limit {
		matches = matches[:opts.Limit]
	}
	return matches
}
