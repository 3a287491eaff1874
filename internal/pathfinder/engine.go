package pathfinder

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/transitsim/pathfinder/internal/logging"
	"github.com/transitsim/pathfinder/internal/supply"
)

// Engine answers path queries against one network snapshot. It is an
// explicitly owned object: several engines (with different supplies or
// parameters) coexist without shared state.
//
// FindPath is pure computation over in-memory structures and holds no
// locks. The caller must not replace the bump-wait overlay while a search
// is in flight; overlay refreshes belong between query batches.
type Engine struct {
	supply   *supply.Supply
	bumpWait *supply.BumpWait
	params   Parameters
	logger   *slog.Logger

	outputDir string
	workerID  int
}

// New creates an engine over an already built supply.
func New(sup *supply.Supply, params Parameters, logger *slog.Logger, outputDir string, workerID int) *Engine {
	return &Engine{
		supply:    sup,
		params:    params,
		logger:    logger,
		outputDir: outputDir,
		workerID:  workerID,
	}
}

// SetBumpWait replaces the capacity overlay wholesale. A nil overlay clears
// every boarding constraint. Idempotent.
func (e *Engine) SetBumpWait(bw *supply.BumpWait) {
	e.bumpWait = bw
	logging.LogOperation(e.logger, "bump_wait_replaced",
		slog.Int("worker", e.workerID),
		slog.Int("constrained_boardings", bw.Len()))
}

// Supply returns the engine's network snapshot.
func (e *Engine) Supply() *supply.Supply {
	return e.supply
}

// searchStrategy is one of the two label-search variants. Both fill a label
// table from the search root and report the hookup at the opposite zone;
// found=false means no path (including a non-convergent hyperpath run).
type searchStrategy interface {
	name() string
	run(q *query) (rows []StopState, found bool)
}

// query bundles everything one search may touch.
type query struct {
	spec   PathSpecification
	sup    *supply.Supply
	bump   *supply.BumpWait
	params Parameters
	trace  *tracer
	logger *slog.Logger
	rng    seededRNG
}

// FindPath runs one traveler query and returns the hop rows in travel
// order. An unreachable origin/destination pair yields an empty result and
// a nil error.
func (e *Engine) FindPath(spec PathSpecification) (*PathResult, error) {
	if spec.PreferredTime < 0 {
		return nil, fmt.Errorf("pathfinder: negative preferred time %.2f", spec.PreferredTime)
	}
	if spec.OriginTAZ == spec.DestinationTAZ {
		return nil, fmt.Errorf("pathfinder: origin and destination are both zone %d", spec.OriginTAZ)
	}

	tr := newTracer(e.outputDir, e.workerID, spec, e.logger)
	defer tr.close(e.logger)
	tr.logf("query traveler=%d path=%d origin=%d destination=%d outbound=%v hyperpath=%v preferred=%.2f",
		spec.TravelerID, spec.PathID, spec.OriginTAZ, spec.DestinationTAZ,
		spec.Outbound, spec.Hyperpath, spec.PreferredTime)

	q := &query{
		spec:   spec,
		sup:    e.supply,
		bump:   e.bumpWait,
		params: e.params,
		trace:  tr,
		logger: e.logger,
		rng:    newSeededRNG(spec.TravelerID, spec.PathID),
	}

	var strat searchStrategy
	if spec.Hyperpath {
		strat = &hyperpathSearch{}
	} else {
		strat = &deterministicSearch{}
	}

	start := time.Now()
	rows, found := strat.run(q)
	if !found {
		rows = nil
	}

	logging.LogOperation(e.logger, "path_search",
		slog.String("strategy", strat.name()),
		slog.Int("traveler", spec.TravelerID),
		slog.Int("path", spec.PathID),
		slog.Bool("found", found),
		slog.Int("hops", len(rows)),
		slog.Duration("duration", time.Since(start)))

	return &PathResult{Rows: rows}, nil
}

// boardingDenied consults the capacity overlay for one boarding. arrival is
// the traveler's arrival time at the stop.
func (q *query) boardingDenied(st supply.TripStopTime, arrival float64) bool {
	threshold, ok := q.bump.Threshold(st.Trip, st.Seq, st.Stop)
	if !ok {
		return false
	}
	return arrival > threshold-q.params.BumpBuffer
}

// boardingCutoff caps how late a backward-search traveler may arrive at a
// stop to make a departure: the scheduled departure itself, tightened by
// any bump-wait threshold.
func (q *query) boardingCutoff(st supply.TripStopTime) float64 {
	cutoff := st.Departure
	if threshold, ok := q.bump.Threshold(st.Trip, st.Seq, st.Stop); ok {
		if t := threshold - q.params.BumpBuffer; t < cutoff {
			cutoff = t
		}
	}
	return cutoff
}
