// Package supply holds the read-only transit network snapshot a worker
// process searches against: zone access links, scheduled trip stop times,
// stop-to-stop transfers, and the replaceable bump-wait capacity overlay.
package supply

import (
	"errors"
	"fmt"
	"sort"
)

// ErrTableShape is returned when the input tables are dimensionally
// inconsistent. A build that fails this way leaves no usable network.
var ErrTableShape = errors.New("supply: table shape mismatch")

// Column widths of the input tables.
const (
	accessIndexWidth   = 2 // taz, stop
	accessCostWidth    = 3 // walk time, access cost, egress cost
	stopTimeIndexWidth = 3 // trip, seq, stop
	stopTimeDataWidth  = 2 // arrival, departure
	transferIndexWidth = 2 // from stop, to stop
	transferDataWidth  = 2 // walk time, cost
)

// AccessLink connects a zone (TAZ) to a stop. The same record serves both
// directions: AccessCost applies when entering the network, EgressCost when
// leaving it. Time is walk minutes.
type AccessLink struct {
	TAZ        int
	Stop       int
	Time       float64
	AccessCost float64
	EgressCost float64
}

// TripStopTime is one scheduled stop of one vehicle trip. Times are minutes
// after midnight. Sequence numbers are strictly increasing within a trip.
type TripStopTime struct {
	Trip      int
	Seq       int
	Stop      int
	Arrival   float64
	Departure float64
}

// TransferLink is a directed walk connection between two stops.
type TransferLink struct {
	From int
	To   int
	Time float64
	Cost float64
}

// Supply is the immutable network snapshot. Built once per worker process
// and shared by every search in that process; no method mutates it.
type Supply struct {
	accessByTAZ  map[int][]AccessLink
	accessByStop map[int][]AccessLink

	tripStops map[int][]TripStopTime // ordered by sequence

	stopDepartures map[int][]TripStopTime // trips serving the stop, by departure time
	stopArrivals   map[int][]TripStopTime // same trips, by arrival time

	transfersFrom map[int][]TransferLink
	transfersTo   map[int][]TransferLink

	numStops int
}

// Build validates the six parallel tables and constructs the query indexes.
// It is all-or-nothing: any dimensional or ordering violation returns an
// error wrapping ErrTableShape and no Supply.
func Build(accessIndex [][]int, accessCost [][]float64,
	stopTimeIndex [][]int, stopTimeData [][]float64,
	transferIndex [][]int, transferData [][]float64) (*Supply, error) {

	if len(accessIndex) != len(accessCost) {
		return nil, fmt.Errorf("%w: %d access index rows vs %d cost rows", ErrTableShape, len(accessIndex), len(accessCost))
	}
	if len(stopTimeIndex) != len(stopTimeData) {
		return nil, fmt.Errorf("%w: %d stop time index rows vs %d data rows", ErrTableShape, len(stopTimeIndex), len(stopTimeData))
	}
	if len(transferIndex) != len(transferData) {
		return nil, fmt.Errorf("%w: %d transfer index rows vs %d data rows", ErrTableShape, len(transferIndex), len(transferData))
	}

	s := &Supply{
		accessByTAZ:    make(map[int][]AccessLink),
		accessByStop:   make(map[int][]AccessLink),
		tripStops:      make(map[int][]TripStopTime),
		stopDepartures: make(map[int][]TripStopTime),
		stopArrivals:   make(map[int][]TripStopTime),
		transfersFrom:  make(map[int][]TransferLink),
		transfersTo:    make(map[int][]TransferLink),
	}

	seenAccess := make(map[[2]int]bool, len(accessIndex))
	for i := range accessIndex {
		if len(accessIndex[i]) != accessIndexWidth {
			return nil, fmt.Errorf("%w: access index row %d has %d columns, want %d", ErrTableShape, i, len(accessIndex[i]), accessIndexWidth)
		}
		if len(accessCost[i]) != accessCostWidth {
			return nil, fmt.Errorf("%w: access cost row %d has %d columns, want %d", ErrTableShape, i, len(accessCost[i]), accessCostWidth)
		}
		pair := [2]int{accessIndex[i][0], accessIndex[i][1]}
		if seenAccess[pair] {
			return nil, fmt.Errorf("%w: duplicate access link (taz %d, stop %d)", ErrTableShape, pair[0], pair[1])
		}
		seenAccess[pair] = true
		link := AccessLink{
			TAZ:        pair[0],
			Stop:       pair[1],
			Time:       accessCost[i][0],
			AccessCost: accessCost[i][1],
			EgressCost: accessCost[i][2],
		}
		s.accessByTAZ[link.TAZ] = append(s.accessByTAZ[link.TAZ], link)
		s.accessByStop[link.Stop] = append(s.accessByStop[link.Stop], link)
	}

	for i := range stopTimeIndex {
		if len(stopTimeIndex[i]) != stopTimeIndexWidth {
			return nil, fmt.Errorf("%w: stop time index row %d has %d columns, want %d", ErrTableShape, i, len(stopTimeIndex[i]), stopTimeIndexWidth)
		}
		if len(stopTimeData[i]) != stopTimeDataWidth {
			return nil, fmt.Errorf("%w: stop time data row %d has %d columns, want %d", ErrTableShape, i, len(stopTimeData[i]), stopTimeDataWidth)
		}
		st := TripStopTime{
			Trip:      stopTimeIndex[i][0],
			Seq:       stopTimeIndex[i][1],
			Stop:      stopTimeIndex[i][2],
			Arrival:   stopTimeData[i][0],
			Departure: stopTimeData[i][1],
		}
		if st.Trip < 0 {
			// Negative values are reserved for the non-vehicle mode
			// sentinels in path results.
			return nil, fmt.Errorf("%w: negative trip id %d at stop time row %d", ErrTableShape, st.Trip, i)
		}
		if st.Arrival > st.Departure {
			return nil, fmt.Errorf("%w: trip %d seq %d arrives %.2f after departing %.2f", ErrTableShape, st.Trip, st.Seq, st.Arrival, st.Departure)
		}
		s.tripStops[st.Trip] = append(s.tripStops[st.Trip], st)
		s.stopDepartures[st.Stop] = append(s.stopDepartures[st.Stop], st)
		s.stopArrivals[st.Stop] = append(s.stopArrivals[st.Stop], st)
	}

	for trip, stops := range s.tripStops {
		sort.Slice(stops, func(a, b int) bool { return stops[a].Seq < stops[b].Seq })
		for i := 1; i < len(stops); i++ {
			if stops[i].Seq <= stops[i-1].Seq {
				return nil, fmt.Errorf("%w: trip %d sequence numbers not strictly increasing at seq %d", ErrTableShape, trip, stops[i].Seq)
			}
		}
	}
	for _, sts := range s.stopDepartures {
		sort.Slice(sts, func(a, b int) bool {
			if sts[a].Departure != sts[b].Departure {
				return sts[a].Departure < sts[b].Departure
			}
			if sts[a].Trip != sts[b].Trip {
				return sts[a].Trip < sts[b].Trip
			}
			return sts[a].Seq < sts[b].Seq
		})
	}
	for _, sts := range s.stopArrivals {
		sort.Slice(sts, func(a, b int) bool {
			if sts[a].Arrival != sts[b].Arrival {
				return sts[a].Arrival < sts[b].Arrival
			}
			if sts[a].Trip != sts[b].Trip {
				return sts[a].Trip < sts[b].Trip
			}
			return sts[a].Seq < sts[b].Seq
		})
	}

	for i := range transferIndex {
		if len(transferIndex[i]) != transferIndexWidth {
			return nil, fmt.Errorf("%w: transfer index row %d has %d columns, want %d", ErrTableShape, i, len(transferIndex[i]), transferIndexWidth)
		}
		if len(transferData[i]) != transferDataWidth {
			return nil, fmt.Errorf("%w: transfer data row %d has %d columns, want %d", ErrTableShape, i, len(transferData[i]), transferDataWidth)
		}
		x := TransferLink{
			From: transferIndex[i][0],
			To:   transferIndex[i][1],
			Time: transferData[i][0],
			Cost: transferData[i][1],
		}
		s.transfersFrom[x.From] = append(s.transfersFrom[x.From], x)
		s.transfersTo[x.To] = append(s.transfersTo[x.To], x)
	}

	s.numStops = len(s.stopDepartures)
	return s, nil
}

// AccessLinksForTAZ returns the access/egress links of a zone.
func (s *Supply) AccessLinksForTAZ(taz int) []AccessLink {
	return s.accessByTAZ[taz]
}

// AccessLinksForStop returns the access/egress links touching a stop.
func (s *Supply) AccessLinksForStop(stop int) []AccessLink {
	return s.accessByStop[stop]
}

// TripStopTimes returns the ordered stop times of one trip.
func (s *Supply) TripStopTimes(trip int) []TripStopTime {
	return s.tripStops[trip]
}

// StopTimeAfter returns the stop time of trip at the first sequence greater
// than seq, or false when seq is the last stop of the trip.
func (s *Supply) StopTimeAfter(trip, seq int) (TripStopTime, bool) {
	stops := s.tripStops[trip]
	i := sort.Search(len(stops), func(i int) bool { return stops[i].Seq > seq })
	if i == len(stops) {
		return TripStopTime{}, false
	}
	return stops[i], true
}

// DeparturesBetween returns the boardable stop times at a stop whose
// departure falls in [from, to], in departure order.
func (s *Supply) DeparturesBetween(stop int, from, to float64) []TripStopTime {
	sts := s.stopDepartures[stop]
	lo := sort.Search(len(sts), func(i int) bool { return sts[i].Departure >= from })
	hi := sort.Search(len(sts), func(i int) bool { return sts[i].Departure > to })
	return sts[lo:hi]
}

// ArrivalsBetween returns the stop times at a stop whose arrival falls in
// [from, to], in arrival order.
func (s *Supply) ArrivalsBetween(stop int, from, to float64) []TripStopTime {
	sts := s.stopArrivals[stop]
	lo := sort.Search(len(sts), func(i int) bool { return sts[i].Arrival >= from })
	hi := sort.Search(len(sts), func(i int) bool { return sts[i].Arrival > to })
	return sts[lo:hi]
}

// TransfersFrom returns the outgoing transfer links of a stop.
func (s *Supply) TransfersFrom(stop int) []TransferLink {
	return s.transfersFrom[stop]
}

// TransfersTo returns the incoming transfer links of a stop.
func (s *Supply) TransfersTo(stop int) []TransferLink {
	return s.transfersTo[stop]
}

// NumStops reports how many distinct stops appear in the schedule.
func (s *Supply) NumStops() int {
	return s.numStops
}

// NumTrips reports how many distinct trips appear in the schedule.
func (s *Supply) NumTrips() int {
	return len(s.tripStops)
}
