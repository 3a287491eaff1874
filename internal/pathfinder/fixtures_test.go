package pathfinder

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/transitsim/pathfinder/internal/logging"
	"github.com/transitsim/pathfinder/internal/supply"
)

func testLogger() *slog.Logger {
	return logging.NewStructuredLogger(io.Discard, slog.LevelError)
}

func newTestEngine(t *testing.T, sup *supply.Supply) *Engine {
	t.Helper()
	return New(sup, DefaultParameters(), testLogger(), "", 0)
}

// singleTripSupply: zone 1 walks 5 min to stop 10, trip 30 runs 10→11
// departing 100 and arriving 120, zone 2 is a 3 minute walk from stop 11.
func singleTripSupply(t *testing.T) *supply.Supply {
	t.Helper()
	sup, err := supply.Build(
		[][]int{{1, 10}, {2, 11}},
		[][]float64{{5, 1, 1}, {3, 0.5, 0.5}},
		[][]int{{30, 1, 10}, {30, 2, 11}},
		[][]float64{{100, 100}, {120, 120}},
		nil, nil,
	)
	require.NoError(t, err)
	return sup
}

// transferSupply chains two trips with a 2 minute transfer at stops 11/12:
// 1 → 10 —trip 30→ 11 → 12 —trip 40→ 13 → 2.
func transferSupply(t *testing.T) *supply.Supply {
	t.Helper()
	sup, err := supply.Build(
		[][]int{{1, 10}, {2, 13}},
		[][]float64{{5, 1, 1}, {3, 0.5, 0.5}},
		[][]int{{30, 1, 10}, {30, 2, 11}, {40, 1, 12}, {40, 2, 13}},
		[][]float64{{100, 100}, {120, 120}, {125, 125}, {140, 140}},
		[][]int{{11, 12}},
		[][]float64{{2, 0}},
	)
	require.NoError(t, err)
	return sup
}

// parallelTripsSupply offers two competing trips 10→11: trip 30 departs 100
// and arrives 120, trip 31 departs 102 and arrives 118.
func parallelTripsSupply(t *testing.T) *supply.Supply {
	t.Helper()
	sup, err := supply.Build(
		[][]int{{1, 10}, {2, 11}},
		[][]float64{{5, 1, 1}, {3, 0.5, 0.5}},
		[][]int{{30, 1, 10}, {30, 2, 11}, {31, 1, 10}, {31, 2, 11}},
		[][]float64{{100, 100}, {120, 120}, {102, 102}, {118, 118}},
		nil, nil,
	)
	require.NoError(t, err)
	return sup
}

// assertCausal checks that consecutive hops never run backward in time.
func assertCausal(t *testing.T, rows []StopState) {
	t.Helper()
	for i := 0; i < len(rows)-1; i++ {
		require.LessOrEqual(t, rows[i].ArrDepTime, rows[i+1].DepArrTime+labelEps,
			"hop %d arrives after hop %d departs", i, i+1)
		require.Equal(t, rows[i].NextStop, rows[i+1].Stop, "hop %d does not chain", i)
	}
}
