// Package generator orchestrates the layout placer, scorer, spawner and
// waypoint builder into the single synchronous per-floor pipeline
// described by spec.md's control flow: "the query driver instantiates a
// generator per candidate seed; the generator runs A-E synchronously;
// F ... then inspect[s] the completed floor."
//
// The staged-pipeline-with-ctx.Done()-checks shape follows the teacher's
// pkg/dungeon.DefaultGenerator.Generate: each phase is one call, guarded
// by a context check, so a caller driving many of these concurrently
// (pkg/query's worker pool) can cancel between phases even though no
// individual phase itself suspends.
package generator

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/gocaveripper/cavegen/pkg/caveinfo"
	"github.com/gocaveripper/cavegen/pkg/caverr"
	"github.com/gocaveripper/cavegen/pkg/cavelayout"
	"github.com/gocaveripper/cavegen/pkg/spawner"
	"github.com/gocaveripper/cavegen/pkg/waypoint"
)

// Result bundles a fully generated floor with its waypoint graph, since
// pkg/query's carry_dist/gated predicates need both.
type Result struct {
	Floor *cavelayout.Floor
	Graph *waypoint.Graph
}

// Generate runs phases A-F for one seed against one CaveInfo: layout
// placement (A-C, cavelayout.GenerateWithRNG), scoring and spawning
// (D-E, spawner.Run), and waypoint graph construction (F,
// waypoint.Build).
//
// The placer and spawner both signal an impossible structural
// assumption (§4.C/§4.E, e.g. a cap replacement failure) by panicking
// with a *caverr.LayoutGenerationError, mirroring the reference's own
// panic-on-invariant-violation behavior. Generate is the boundary that
// converts that panic into an error, per §7's propagation policy: "the
// query driver propagates per-seed failures as negative matches (seed
// skipped) and logs them, continuing the search."
//
// Context cancellation is checked between phases only -- no phase
// itself has a suspension point (spec.md §5), so Generate cannot abort
// mid-phase, only at a phase boundary.
func Generate(ctx context.Context, seed uint32, info *caveinfo.CaveInfo, sublevel string) (res *Result, err error) {
	log := logrus.WithFields(logrus.Fields{"seed": seed, "sublevel": sublevel})

	defer func() {
		if p := recover(); p != nil {
			lgErr, ok := p.(*caverr.LayoutGenerationError)
			if !ok {
				panic(p)
			}
			log.WithError(lgErr).Debug("layout generation invariant violated")
			err = lgErr
		}
	}()

	floor, r := cavelayout.GenerateWithRNG(seed, info, sublevel)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}

	spawner.Run(r, info, floor)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}

	graph := waypoint.Build(floor)
	return &Result{Floor: floor, Graph: graph}, nil
}
