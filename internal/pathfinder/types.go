// Package pathfinder implements the per-traveler path search: a
// deterministic least-cost search and a stochastic hyperpath search over a
// shared network supply, plus sampling of one concrete path from the
// hyperpath choice sets.
package pathfinder

// Link mode sentinels. Rows describing a vehicle leg carry the trip id
// (always non-negative) in the mode column instead.
const (
	ModeAccess   = -100
	ModeEgress   = -101
	ModeTransfer = -102
)

// PathSpecification is one traveler query.
//
// Outbound fixes the direction contract: when true the preferred time is the
// desired arrival time and labeling runs backward from the destination zone;
// when false the preferred time is the desired departure time and labeling
// runs forward from the origin zone.
type PathSpecification struct {
	TravelerID     int
	PathID         int
	Hyperpath      bool
	OriginTAZ      int
	DestinationTAZ int
	Outbound       bool
	PreferredTime  float64 // minutes after midnight
	Trace          bool    // diagnostic only, never affects results
}

// StopState is one hop of a returned path, in travel order. The row
// describes the link from Stop to NextStop. DepArrTime and ArrDepTime are
// the clock times the link is actually traversed (for a vehicle leg, board
// and alight); LinkTime additionally includes any waiting attributed to the
// hop, so link times sum to the door-to-door duration. Cost is the monetary
// component only; Label accumulates generalized cost from the trip start.
type StopState struct {
	Stop     int
	Mode     int
	NextStop int
	Seq      int // sequence of Stop within the trip, 0 for non-vehicle hops
	NextSeq  int // sequence of NextStop within the trip

	Label      float64
	DepArrTime float64
	LinkTime   float64
	Cost       float64
	ArrDepTime float64
}

// PathResult is the ordered hop sequence of one search. Empty rows mean no
// path was found; that is an expected outcome, not an error.
type PathResult struct {
	Rows []StopState
}

// Empty reports whether the search found no path.
func (r *PathResult) Empty() bool {
	return r == nil || len(r.Rows) == 0
}

// IntRows marshals the categorical fields, one row per hop:
// stop, mode, next stop, seq, next seq.
func (r *PathResult) IntRows() [][]int {
	rows := make([][]int, 0, len(r.Rows))
	for _, s := range r.Rows {
		rows = append(rows, []int{s.Stop, s.Mode, s.NextStop, s.Seq, s.NextSeq})
	}
	return rows
}

// FloatRows marshals the numeric fields, one row per hop:
// label, dep/arr time, link time, cost, arr/dep time.
func (r *PathResult) FloatRows() [][]float64 {
	rows := make([][]float64, 0, len(r.Rows))
	for _, s := range r.Rows {
		rows = append(rows, []float64{s.Label, s.DepArrTime, s.LinkTime, s.Cost, s.ArrDepTime})
	}
	return rows
}

// TotalTime sums the hop link times.
func (r *PathResult) TotalTime() float64 {
	var t float64
	for _, s := range r.Rows {
		t += s.LinkTime
	}
	return t
}

// TotalCost sums the monetary hop costs.
func (r *PathResult) TotalCost() float64 {
	var c float64
	for _, s := range r.Rows {
		c += s.Cost
	}
	return c
}
