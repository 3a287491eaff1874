// Package app wires the path-search engine, its configuration, logging and
// metrics into one Application value the HTTP handlers hang off.
package app

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/transitsim/pathfinder/internal/config"
	"github.com/transitsim/pathfinder/internal/logging"
	"github.com/transitsim/pathfinder/internal/metrics"
	"github.com/transitsim/pathfinder/internal/pathfinder"
	"github.com/transitsim/pathfinder/internal/supply"
)

// ErrNoSupply is returned by operations that need a network supply before
// one has been built.
var ErrNoSupply = errors.New("app: network supply not built")

// Application holds the dependencies for the HTTP handlers and serializes
// access to the engine: building a supply and replacing the bump-wait
// overlay take the write lock, path searches share the read lock. The
// engine itself stays lock-free.
type Application struct {
	Config  config.Config
	Logger  *slog.Logger
	Metrics *metrics.Collector

	mu     sync.RWMutex
	engine *pathfinder.Engine
}

func New(cfg config.Config, logger *slog.Logger) *Application {
	return &Application{
		Config:  cfg,
		Logger:  logger,
		Metrics: metrics.NewCollector(),
	}
}

// SupplyTables carries the six parallel tables a supply is built from.
type SupplyTables struct {
	AccessIndex   [][]int
	AccessData    [][]float64
	StopTimeIndex [][]int
	StopTimeData  [][]float64
	TransferIndex [][]int
	TransferData  [][]float64
}

// BuildSupply validates the tables and replaces the engine wholesale. On
// any table error the previous supply stays in place.
func (a *Application) BuildSupply(t SupplyTables) error {
	sup, err := supply.Build(t.AccessIndex, t.AccessData, t.StopTimeIndex, t.StopTimeData, t.TransferIndex, t.TransferData)
	if err != nil {
		return err
	}

	a.mu.Lock()
	a.engine = pathfinder.New(sup, a.Config.Pathfinder, a.Logger, a.Config.OutputDir, a.Config.WorkerID)
	a.mu.Unlock()

	a.Metrics.SupplyStops.Set(float64(sup.NumStops()))
	a.Metrics.SupplyTrips.Set(float64(sup.NumTrips()))
	a.Metrics.ConstrainedBoardings.Set(0)
	a.Metrics.SupplyBuilds.Inc()
	logging.LogOperation(a.Logger, "supply_built",
		slog.Int("stops", sup.NumStops()),
		slog.Int("trips", sup.NumTrips()),
		slog.Int("worker", a.Config.WorkerID))
	return nil
}

// ReplaceBumpWait swaps the capacity overlay. An empty table clears it.
func (a *Application) ReplaceBumpWait(index [][]int, times []float64) error {
	bw, err := supply.NewBumpWait(index, times)
	if err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.engine == nil {
		return ErrNoSupply
	}
	a.engine.SetBumpWait(bw)
	a.Metrics.ConstrainedBoardings.Set(float64(bw.Len()))
	return nil
}

// FindPath runs one traveler query against the current supply.
func (a *Application) FindPath(spec pathfinder.PathSpecification) (*pathfinder.PathResult, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.engine == nil {
		return nil, ErrNoSupply
	}

	start := time.Now()
	result, err := a.engine.FindPath(spec)
	if err != nil {
		return nil, err
	}

	strategy := "deterministic"
	if spec.Hyperpath {
		strategy = "hyperpath"
	}
	a.Metrics.ObserveSearch(strategy, len(result.Rows), !result.Empty(), time.Since(start))
	return result, nil
}

// SupplySummary reports the current supply size; ready is false before the
// first build.
func (a *Application) SupplySummary() (stops, trips int, ready bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.engine == nil {
		return 0, 0, false
	}
	sup := a.engine.Supply()
	return sup.NumStops(), sup.NumTrips(), true
}

// TripStopTimes exposes one trip's ordered stop-times for inspection.
func (a *Application) TripStopTimes(trip int) ([]supply.TripStopTime, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.engine == nil {
		return nil, ErrNoSupply
	}
	return a.engine.Supply().TripStopTimes(trip), nil
}
