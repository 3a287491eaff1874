package pathfinder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/transitsim/pathfinder/internal/supply"
)

func TestDepartAfterSingleTrip(t *testing.T) {
	engine := newTestEngine(t, singleTripSupply(t))

	result, err := engine.FindPath(PathSpecification{
		TravelerID: 1, PathID: 1,
		OriginTAZ: 1, DestinationTAZ: 2,
		Outbound: false, PreferredTime: 90,
	})
	require.NoError(t, err)
	require.False(t, result.Empty())
	require.Len(t, result.Rows, 3)

	access, ride, egress := result.Rows[0], result.Rows[1], result.Rows[2]

	assert.Equal(t, ModeAccess, access.Mode)
	assert.Equal(t, 1, access.Stop)
	assert.Equal(t, 10, access.NextStop)
	assert.Equal(t, 90.0, access.DepArrTime)
	assert.Equal(t, 95.0, access.ArrDepTime)
	assert.Equal(t, 1.0, access.Cost)

	assert.Equal(t, 30, ride.Mode)
	assert.Equal(t, 10, ride.Stop)
	assert.Equal(t, 11, ride.NextStop)
	assert.Equal(t, 1, ride.Seq)
	assert.Equal(t, 2, ride.NextSeq)
	assert.Equal(t, 100.0, ride.DepArrTime)
	assert.Equal(t, 120.0, ride.ArrDepTime)
	// The five minute wait at the board stop is attributed to the ride hop.
	assert.Equal(t, 25.0, ride.LinkTime)
	assert.Equal(t, 0.0, ride.Cost)

	assert.Equal(t, ModeEgress, egress.Mode)
	assert.Equal(t, 2, egress.NextStop)
	assert.Equal(t, 123.0, egress.ArrDepTime)
	assert.Equal(t, 0.5, egress.Cost)

	// Totals: cost 1 + 0 + 0.5, time 5 + wait 5 + ride 20 + walk 3.
	assert.InDelta(t, 1.5, result.TotalCost(), 1e-9)
	assert.InDelta(t, 33.0, result.TotalTime(), 1e-9)

	// Labels accumulate generalized cost in travel order.
	assert.InDelta(t, 6.0, access.Label, 1e-9)
	assert.InDelta(t, 31.0, ride.Label, 1e-9)
	assert.InDelta(t, 34.5, egress.Label, 1e-9)

	assertCausal(t, result.Rows)
}

func TestBumpedBoardingDeniesPath(t *testing.T) {
	engine := newTestEngine(t, singleTripSupply(t))
	bw, err := supply.NewBumpWait([][]int{{30, 1, 10}}, []float64{95})
	require.NoError(t, err)
	engine.SetBumpWait(bw)

	t.Run("arrival past the threshold is bumped", func(t *testing.T) {
		result, err := engine.FindPath(PathSpecification{
			TravelerID: 1, PathID: 1,
			OriginTAZ: 1, DestinationTAZ: 2,
			Outbound: false, PreferredTime: 96,
		})
		require.NoError(t, err)
		assert.True(t, result.Empty())
		assert.Empty(t, result.IntRows())
		assert.Empty(t, result.FloatRows())
	})

	t.Run("arrival at the threshold still boards", func(t *testing.T) {
		result, err := engine.FindPath(PathSpecification{
			TravelerID: 1, PathID: 2,
			OriginTAZ: 1, DestinationTAZ: 2,
			Outbound: false, PreferredTime: 90,
		})
		require.NoError(t, err)
		assert.False(t, result.Empty())
	})

	t.Run("clearing the overlay restores the path", func(t *testing.T) {
		tight, err := supply.NewBumpWait([][]int{{30, 1, 10}}, []float64{94})
		require.NoError(t, err)
		engine.SetBumpWait(tight)

		spec := PathSpecification{
			TravelerID: 1, PathID: 3,
			OriginTAZ: 1, DestinationTAZ: 2,
			Outbound: false, PreferredTime: 90,
		}
		result, err := engine.FindPath(spec)
		require.NoError(t, err)
		assert.True(t, result.Empty())

		engine.SetBumpWait(nil)
		result, err = engine.FindPath(spec)
		require.NoError(t, err)
		assert.False(t, result.Empty())
	})
}

func TestUnreachablePairIsEmpty(t *testing.T) {
	engine := newTestEngine(t, singleTripSupply(t))

	for _, outbound := range []bool{false, true} {
		for _, hyper := range []bool{false, true} {
			result, err := engine.FindPath(PathSpecification{
				TravelerID: 1, PathID: 1, Hyperpath: hyper,
				OriginTAZ: 1, DestinationTAZ: 99,
				Outbound: outbound, PreferredTime: 90,
			})
			require.NoError(t, err)
			assert.True(t, result.Empty(), "outbound=%v hyperpath=%v", outbound, hyper)
		}
	}
}

func TestDeterministicPurity(t *testing.T) {
	engine := newTestEngine(t, transferSupply(t))
	spec := PathSpecification{
		TravelerID: 7, PathID: 3,
		OriginTAZ: 1, DestinationTAZ: 2,
		Outbound: false, PreferredTime: 90,
	}

	first, err := engine.FindPath(spec)
	require.NoError(t, err)
	require.False(t, first.Empty())

	for i := 0; i < 5; i++ {
		again, err := engine.FindPath(spec)
		require.NoError(t, err)
		assert.Equal(t, first.Rows, again.Rows)
	}
}

func TestRebuildRoundTrip(t *testing.T) {
	// Two supplies from identical tables answer identically.
	spec := PathSpecification{
		TravelerID: 2, PathID: 1,
		OriginTAZ: 1, DestinationTAZ: 2,
		Outbound: true, PreferredTime: 150,
	}

	first, err := newTestEngine(t, transferSupply(t)).FindPath(spec)
	require.NoError(t, err)
	second, err := newTestEngine(t, transferSupply(t)).FindPath(spec)
	require.NoError(t, err)

	assert.Equal(t, first.Rows, second.Rows)
	assert.False(t, first.Empty())
}

// TestArriveByDirectionContract pins the direction semantics: outbound
// means the preferred time is the desired arrival and the path is timed to
// land on it; inbound means the preferred time is the desired departure.
func TestArriveByDirectionContract(t *testing.T) {
	engine := newTestEngine(t, singleTripSupply(t))

	t.Run("outbound anchors arrival", func(t *testing.T) {
		result, err := engine.FindPath(PathSpecification{
			TravelerID: 1, PathID: 1,
			OriginTAZ: 1, DestinationTAZ: 2,
			Outbound: true, PreferredTime: 125,
		})
		require.NoError(t, err)
		require.Len(t, result.Rows, 3)

		last := result.Rows[len(result.Rows)-1]
		assert.Equal(t, ModeEgress, last.Mode)
		assert.Equal(t, 125.0, last.ArrDepTime)

		// Latest feasible departure: walk 5, board at 100, so leave at 95.
		assert.Equal(t, 95.0, result.Rows[0].DepArrTime)
		// Two minutes of slack after alighting count against the ride hop.
		assert.Equal(t, 22.0, result.Rows[1].LinkTime)
		assert.InDelta(t, 30.0, result.TotalTime(), 1e-9)
		assertCausal(t, result.Rows)
	})

	t.Run("inbound anchors departure", func(t *testing.T) {
		result, err := engine.FindPath(PathSpecification{
			TravelerID: 1, PathID: 1,
			OriginTAZ: 1, DestinationTAZ: 2,
			Outbound: false, PreferredTime: 90,
		})
		require.NoError(t, err)
		require.Len(t, result.Rows, 3)
		assert.Equal(t, 90.0, result.Rows[0].DepArrTime)
	})

	t.Run("outbound earlier than any arrival finds nothing", func(t *testing.T) {
		result, err := engine.FindPath(PathSpecification{
			TravelerID: 1, PathID: 1,
			OriginTAZ: 1, DestinationTAZ: 2,
			Outbound: true, PreferredTime: 60,
		})
		require.NoError(t, err)
		assert.True(t, result.Empty())
	})
}

func TestTransferPath(t *testing.T) {
	engine := newTestEngine(t, transferSupply(t))

	result, err := engine.FindPath(PathSpecification{
		TravelerID: 1, PathID: 1,
		OriginTAZ: 1, DestinationTAZ: 2,
		Outbound: false, PreferredTime: 90,
	})
	require.NoError(t, err)
	require.Len(t, result.Rows, 5)

	modes := make([]int, 0, 5)
	for _, row := range result.Rows {
		modes = append(modes, row.Mode)
	}
	assert.Equal(t, []int{ModeAccess, 30, ModeTransfer, 40, ModeEgress}, modes)

	xfer := result.Rows[2]
	assert.Equal(t, 11, xfer.Stop)
	assert.Equal(t, 12, xfer.NextStop)
	assert.Equal(t, 2.0, xfer.LinkTime)
	assert.Equal(t, 120.0, xfer.DepArrTime)
	assert.Equal(t, 122.0, xfer.ArrDepTime)

	// Door to door: 90 out, 143 in.
	assert.InDelta(t, 53.0, result.TotalTime(), 1e-9)
	assert.Equal(t, 143.0, result.Rows[4].ArrDepTime)
	assertCausal(t, result.Rows)
}

func TestArriveByBumpForcesEarlierBoarding(t *testing.T) {
	engine := newTestEngine(t, singleTripSupply(t))
	bw, err := supply.NewBumpWait([][]int{{30, 1, 10}}, []float64{95})
	require.NoError(t, err)
	engine.SetBumpWait(bw)

	result, err := engine.FindPath(PathSpecification{
		TravelerID: 1, PathID: 1,
		OriginTAZ: 1, DestinationTAZ: 2,
		Outbound: true, PreferredTime: 125,
	})
	require.NoError(t, err)
	require.Len(t, result.Rows, 3)

	// The threshold caps arrival at the board stop at 95, five minutes
	// before the scheduled departure; the forced wait lands on the ride hop.
	assert.Equal(t, 90.0, result.Rows[0].DepArrTime)
	assert.Equal(t, 95.0, result.Rows[0].ArrDepTime)
	assert.Equal(t, 27.0, result.Rows[1].LinkTime)
	assert.InDelta(t, 35.0, result.TotalTime(), 1e-9)
	assertCausal(t, result.Rows)
}

func TestFindPathValidation(t *testing.T) {
	engine := newTestEngine(t, singleTripSupply(t))

	_, err := engine.FindPath(PathSpecification{
		OriginTAZ: 1, DestinationTAZ: 2, PreferredTime: -5,
	})
	assert.Error(t, err)

	_, err = engine.FindPath(PathSpecification{
		OriginTAZ: 1, DestinationTAZ: 1, PreferredTime: 90,
	})
	assert.Error(t, err)
}

func TestEnginesCoexist(t *testing.T) {
	a := newTestEngine(t, singleTripSupply(t))
	b := newTestEngine(t, singleTripSupply(t))

	bw, err := supply.NewBumpWait([][]int{{30, 1, 10}}, []float64{0})
	require.NoError(t, err)
	a.SetBumpWait(bw)

	spec := PathSpecification{
		TravelerID: 1, PathID: 1,
		OriginTAZ: 1, DestinationTAZ: 2,
		Outbound: false, PreferredTime: 90,
	}

	blocked, err := a.FindPath(spec)
	require.NoError(t, err)
	open, err := b.FindPath(spec)
	require.NoError(t, err)

	assert.True(t, blocked.Empty())
	assert.False(t, open.Empty())
}

func TestIterationGuardYieldsNoPath(t *testing.T) {
	params := DefaultParameters()
	params.MaxLabelIterations = 1
	engine := New(singleTripSupply(t), params, testLogger(), "", 0)

	result, err := engine.FindPath(PathSpecification{
		TravelerID: 1, PathID: 1,
		OriginTAZ: 1, DestinationTAZ: 2,
		Outbound: false, PreferredTime: 90,
	})
	require.NoError(t, err)
	assert.True(t, result.Empty())
}
