package supply

import "fmt"

const bumpIndexWidth = 3 // trip, seq, stop

type tripStopKey struct {
	trip int
	seq  int
	stop int
}

// BumpWait is the capacity overlay: for each overcrowded (trip, seq, stop)
// boarding it records the latest arrival time still eligible to board.
// Travelers arriving later are denied that boarding. The overlay is replaced
// wholesale between search batches and never touches the Supply itself.
type BumpWait struct {
	thresholds map[tripStopKey]float64
}

// NewBumpWait builds an overlay from the bump index table and the matching
// threshold-time table. The tables must have equal length and three index
// columns per row.
func NewBumpWait(index [][]int, times []float64) (*BumpWait, error) {
	if len(index) != len(times) {
		return nil, fmt.Errorf("%w: %d bump index rows vs %d times", ErrTableShape, len(index), len(times))
	}
	bw := &BumpWait{thresholds: make(map[tripStopKey]float64, len(index))}
	for i := range index {
		if len(index[i]) != bumpIndexWidth {
			return nil, fmt.Errorf("%w: bump index row %d has %d columns, want %d", ErrTableShape, i, len(index[i]), bumpIndexWidth)
		}
		key := tripStopKey{trip: index[i][0], seq: index[i][1], stop: index[i][2]}
		bw.thresholds[key] = times[i]
	}
	return bw, nil
}

// Threshold reports the latest boardable arrival time for a trip stop, and
// whether the boarding is constrained at all.
func (b *BumpWait) Threshold(trip, seq, stop int) (float64, bool) {
	if b == nil {
		return 0, false
	}
	t, ok := b.thresholds[tripStopKey{trip: trip, seq: seq, stop: stop}]
	return t, ok
}

// Len reports how many trip stops are constrained.
func (b *BumpWait) Len() int {
	if b == nil {
		return 0
	}
	return len(b.thresholds)
}
