package pathfinder

import (
	"log/slog"
	"math"

	"github.com/transitsim/pathfinder/internal/logging"
)

const labelEps = 1e-9

// pathLink is one traversed link in travel order, from -> to. dep and arr
// are the clock times the traversal starts and ends; linkTime additionally
// counts waiting attributed to the hop, so the chain's link times telescope
// to the door-to-door duration. hopCost is the generalized cost increment.
type pathLink struct {
	mode    int
	from    int
	to      int
	fromSeq int
	toSeq   int

	dep      float64
	arr      float64
	linkTime float64
	cost     float64
	hopCost  float64
}

// detState is the single best label of one search node. link is the
// inbound link in a forward search and the outbound link in a backward
// search; time is the clock at the node (arrival forward, latest feasible
// presence backward).
type detState struct {
	label float64
	time  float64
	link  pathLink
}

// deterministicSearch is the label-correcting least-generalized-cost
// search. Each node keeps one predecessor (forward) or successor
// (backward) link; the first settlement of the opposing zone ends the
// search.
type deterministicSearch struct{}

func (deterministicSearch) name() string { return "deterministic" }

func (s *deterministicSearch) run(q *query) ([]StopState, bool) {
	var final detState
	var states map[searchNode]detState
	var ok bool
	if q.spec.Outbound {
		states, final, ok = s.labelBackward(q)
	} else {
		states, final, ok = s.labelForward(q)
	}
	if !ok {
		q.trace.logf("no path")
		return nil, false
	}
	q.trace.logf("settled opposing zone with label %.4f", final.label)
	chain, ok := collectChain(states, final.link, !q.spec.Outbound, q.params.MaxPathLength)
	if !ok {
		logging.LogError(q.logger, "path reconstruction exceeded step budget", errStepBudget,
			slog.Int("traveler", q.spec.TravelerID), slog.Int("path", q.spec.PathID))
		return nil, false
	}
	return rowsFromChain(chain), true
}

// labelForward searches origin to destination for a depart-after query.
func (s *deterministicSearch) labelForward(q *query) (map[searchNode]detState, detState, bool) {
	w := q.params.Weights
	pref := q.spec.PreferredTime
	states := make(map[searchNode]detState)
	var pq labelQueue

	for _, acc := range q.sup.AccessLinksForTAZ(q.spec.OriginTAZ) {
		l := pathLink{
			mode: ModeAccess, from: q.spec.OriginTAZ, to: acc.Stop,
			dep: pref, arr: pref + acc.Time, linkTime: acc.Time,
			cost: acc.AccessCost, hopCost: w.Walk*acc.Time + acc.AccessCost,
		}
		relaxDet(states, &pq, searchNode{stop: acc.Stop, onFoot: true},
			detState{label: l.hopCost, time: l.arr, link: l}, q.trace)
	}

	bestFinal := math.Inf(1)
	var final detState
	iterations := 0

	for pq.Len() > 0 {
		item := pq.pop()
		if item.label >= bestFinal {
			break // destination settled
		}
		st, ok := states[item.node]
		if !ok || item.label > st.label+labelEps {
			continue // stale entry
		}
		iterations++
		if iterations > q.params.MaxLabelIterations {
			logging.LogError(q.logger, "label search exceeded iteration bound", errNoConvergence,
				slog.Int("traveler", q.spec.TravelerID), slog.Int("path", q.spec.PathID))
			return nil, detState{}, false
		}

		if item.node.onFoot {
			// Board any trip departing within the wait window.
			for _, d := range q.sup.DeparturesBetween(item.node.stop, st.time, st.time+q.params.TimeWindow) {
				if q.boardingDenied(d, st.time) {
					q.trace.logf("bump: trip %d seq %d at stop %d denied for arrival %.2f",
						d.Trip, d.Seq, d.Stop, st.time)
					continue
				}
				wait := d.Departure - st.time
				for _, lt := range q.sup.TripStopTimes(d.Trip) {
					if lt.Seq <= d.Seq {
						continue
					}
					ride := lt.Arrival - d.Departure
					if ride < 0 {
						continue
					}
					hop := w.Wait*wait + w.InVehicle*ride
					l := pathLink{
						mode: d.Trip, from: item.node.stop, to: lt.Stop,
						fromSeq: d.Seq, toSeq: lt.Seq,
						dep: d.Departure, arr: lt.Arrival,
						linkTime: lt.Arrival - st.time, hopCost: hop,
					}
					relaxDet(states, &pq, searchNode{stop: lt.Stop},
						detState{label: st.label + hop, time: lt.Arrival, link: l}, q.trace)
				}
			}
		} else {
			for _, x := range q.sup.TransfersFrom(item.node.stop) {
				hop := w.Walk*x.Time + x.Cost + w.TransferPenalty
				l := pathLink{
					mode: ModeTransfer, from: item.node.stop, to: x.To,
					dep: st.time, arr: st.time + x.Time,
					linkTime: x.Time, cost: x.Cost, hopCost: hop,
				}
				relaxDet(states, &pq, searchNode{stop: x.To, onFoot: true},
					detState{label: st.label + hop, time: l.arr, link: l}, q.trace)
			}
			for _, acc := range q.sup.AccessLinksForStop(item.node.stop) {
				if acc.TAZ != q.spec.DestinationTAZ {
					continue
				}
				arr := st.time + acc.Time
				hop := w.Walk*acc.Time + acc.EgressCost + w.ScheduleDelayLate*(arr-pref)
				if st.label+hop < bestFinal {
					bestFinal = st.label + hop
					final = detState{label: bestFinal, time: arr, link: pathLink{
						mode: ModeEgress, from: item.node.stop, to: q.spec.DestinationTAZ,
						dep: st.time, arr: arr, linkTime: acc.Time,
						cost: acc.EgressCost, hopCost: hop,
					}}
				}
			}
		}
	}

	if math.IsInf(bestFinal, 1) {
		return nil, detState{}, false
	}
	return states, final, true
}

// labelBackward searches destination to origin for an arrive-by query.
// Labels measure generalized cost to the destination; node times are the
// latest feasible presence at the stop.
func (s *deterministicSearch) labelBackward(q *query) (map[searchNode]detState, detState, bool) {
	w := q.params.Weights
	pref := q.spec.PreferredTime
	states := make(map[searchNode]detState)
	var pq labelQueue

	for _, acc := range q.sup.AccessLinksForTAZ(q.spec.DestinationTAZ) {
		dep := pref - acc.Time
		l := pathLink{
			mode: ModeEgress, from: acc.Stop, to: q.spec.DestinationTAZ,
			dep: dep, arr: pref, linkTime: acc.Time,
			cost: acc.EgressCost, hopCost: w.Walk*acc.Time + acc.EgressCost,
		}
		relaxDet(states, &pq, searchNode{stop: acc.Stop},
			detState{label: l.hopCost, time: dep, link: l}, q.trace)
	}

	bestFinal := math.Inf(1)
	var final detState
	iterations := 0

	for pq.Len() > 0 {
		item := pq.pop()
		if item.label >= bestFinal {
			break // origin settled
		}
		st, ok := states[item.node]
		if !ok || item.label > st.label+labelEps {
			continue
		}
		iterations++
		if iterations > q.params.MaxLabelIterations {
			logging.LogError(q.logger, "label search exceeded iteration bound", errNoConvergence,
				slog.Int("traveler", q.spec.TravelerID), slog.Int("path", q.spec.PathID))
			return nil, detState{}, false
		}

		if !item.node.onFoot {
			// Alight here from any trip arriving within the window before
			// the onward departure.
			for _, a := range q.sup.ArrivalsBetween(item.node.stop, st.time-q.params.TimeWindow, st.time) {
				slack := st.time - a.Arrival
				for _, et := range q.sup.TripStopTimes(a.Trip) {
					if et.Seq >= a.Seq {
						continue
					}
					ride := a.Arrival - et.Departure
					if ride < 0 {
						continue
					}
					requiredArr := q.boardingCutoff(et)
					extraWait := et.Departure - requiredArr
					hop := w.Wait*(slack+extraWait) + w.InVehicle*ride
					l := pathLink{
						mode: a.Trip, from: et.Stop, to: item.node.stop,
						fromSeq: et.Seq, toSeq: a.Seq,
						dep: et.Departure, arr: a.Arrival,
						linkTime: st.time - requiredArr, hopCost: hop,
					}
					relaxDet(states, &pq, searchNode{stop: et.Stop, onFoot: true},
						detState{label: st.label + hop, time: requiredArr, link: l}, q.trace)
				}
			}
		} else {
			for _, x := range q.sup.TransfersTo(item.node.stop) {
				dep := st.time - x.Time
				hop := w.Walk*x.Time + x.Cost + w.TransferPenalty
				l := pathLink{
					mode: ModeTransfer, from: x.From, to: item.node.stop,
					dep: dep, arr: st.time,
					linkTime: x.Time, cost: x.Cost, hopCost: hop,
				}
				relaxDet(states, &pq, searchNode{stop: x.From},
					detState{label: st.label + hop, time: dep, link: l}, q.trace)
			}
			for _, acc := range q.sup.AccessLinksForStop(item.node.stop) {
				if acc.TAZ != q.spec.OriginTAZ {
					continue
				}
				dep := st.time - acc.Time
				hop := w.Walk*acc.Time + acc.AccessCost + w.ScheduleDelayEarly*(pref-dep)
				if st.label+hop < bestFinal {
					bestFinal = st.label + hop
					final = detState{label: bestFinal, time: dep, link: pathLink{
						mode: ModeAccess, from: q.spec.OriginTAZ, to: item.node.stop,
						dep: dep, arr: st.time, linkTime: acc.Time,
						cost: acc.AccessCost, hopCost: hop,
					}}
				}
			}
		}
	}

	if math.IsInf(bestFinal, 1) {
		return nil, detState{}, false
	}
	return states, final, true
}

func relaxDet(states map[searchNode]detState, pq *labelQueue, n searchNode, cand detState, tr *tracer) {
	if cur, ok := states[n]; ok && cand.label >= cur.label-labelEps {
		return
	}
	states[n] = cand
	pq.push(cand.label, n)
	tr.logf("label stop=%d onFoot=%v label=%.4f time=%.2f mode=%d",
		n.stop, n.onFoot, cand.label, cand.time, cand.link.mode)
}

// collectChain assembles the full link chain from the zone-hookup link.
// For a forward search the hookup is the egress link and the chain is
// walked backward then reversed; for a backward search the hookup is the
// access link and states already point toward the destination.
func collectChain(states map[searchNode]detState, hookup pathLink, forward bool, maxLen int) ([]pathLink, bool) {
	chain := []pathLink{hookup}
	cur := hookup
	for {
		if len(chain) > maxLen {
			return nil, false
		}
		if forward {
			if cur.mode == ModeAccess {
				break
			}
			// The from-node of a vehicle leg was reached on foot; the
			// from-node of a walk leg was reached by vehicle.
			n := searchNode{stop: cur.from, onFoot: cur.mode >= 0}
			st, ok := states[n]
			if !ok {
				return nil, false
			}
			cur = st.link
			chain = append(chain, cur)
		} else {
			if cur.mode == ModeEgress {
				break
			}
			n := searchNode{stop: cur.to, onFoot: cur.mode < 0}
			st, ok := states[n]
			if !ok {
				return nil, false
			}
			cur = st.link
			chain = append(chain, cur)
		}
	}
	if forward {
		for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
			chain[i], chain[j] = chain[j], chain[i]
		}
	}
	return chain, true
}

// rowsFromChain renders a travel-ordered link chain as StopState rows with
// a running generalized-cost label.
func rowsFromChain(chain []pathLink) []StopState {
	rows := make([]StopState, 0, len(chain))
	var label float64
	for _, l := range chain {
		label += l.hopCost
		rows = append(rows, StopState{
			Stop:       l.from,
			Mode:       l.mode,
			NextStop:   l.to,
			Seq:        l.fromSeq,
			NextSeq:    l.toSeq,
			Label:      label,
			DepArrTime: l.dep,
			LinkTime:   l.linkTime,
			Cost:       l.cost,
			ArrDepTime: l.arr,
		})
	}
	return rows
}
