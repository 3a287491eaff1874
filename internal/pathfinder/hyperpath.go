package pathfinder

import (
	"log/slog"
	"math"

	"github.com/transitsim/pathfinder/internal/logging"
)

// hyperLink is one member of a node's choice set. totalCost is the link's
// generalized cost plus the label of the node at its far end when the link
// was last updated.
type hyperLink struct {
	pathLink
	totalCost float64
}

// hyperState is the label-correcting state of one search node under the
// stochastic strategy: a pruned choice set of competitive links, the
// logsum label over the set, and a representative clock taken from the
// cheapest link.
type hyperState struct {
	label        float64
	time         float64
	links        []hyperLink
	processCount int
}

func (st *hyperState) minTotal() float64 {
	m := math.Inf(1)
	for _, l := range st.links {
		if l.totalCost < m {
			m = l.totalCost
		}
	}
	return m
}

// linkKey identifies a choice-set member so a re-expanded neighbor updates
// its entry in place instead of duplicating it.
type linkKey struct {
	mode    int
	from    int
	fromSeq int
	to      int
	toSeq   int
}

func keyOf(l pathLink) linkKey {
	return linkKey{mode: l.mode, from: l.from, fromSeq: l.fromSeq, to: l.to, toSeq: l.toSeq}
}

// hyperpathSearch is the stochastic strategy: labels are logsums over
// windowed choice sets, and the returned path is sampled from the sets
// with a query-seeded generator.
type hyperpathSearch struct{}

func (hyperpathSearch) name() string { return "hyperpath" }

func (s *hyperpathSearch) run(q *query) ([]StopState, bool) {
	var states map[searchNode]*hyperState
	var hook *hyperState
	var ok bool
	if q.spec.Outbound {
		states, hook, ok = s.labelBackward(q)
	} else {
		states, hook, ok = s.labelForward(q)
	}
	if !ok || len(hook.links) == 0 {
		q.trace.logf("no path")
		return nil, false
	}
	q.trace.logf("hookup label %.4f over %d links", hook.label, len(hook.links))

	legs, ok := sampleChain(q, states, hook, !q.spec.Outbound)
	if !ok {
		q.trace.logf("sampling found no feasible chain")
		return nil, false
	}
	var chain []pathLink
	if q.spec.Outbound {
		chain = retimeArriveBy(q, legs)
	} else {
		chain = retimeDepartAfter(q, legs)
	}
	return rowsFromChain(chain), true
}

// labelForward fills choice sets from the origin for a depart-after query.
// Each node's set holds inbound links; the hookup set holds egress links
// into the destination zone.
func (s *hyperpathSearch) labelForward(q *query) (map[searchNode]*hyperState, *hyperState, bool) {
	w := q.params.Weights
	pref := q.spec.PreferredTime
	states := make(map[searchNode]*hyperState)
	hook := &hyperState{label: math.Inf(1)}
	var pq labelQueue

	for _, acc := range q.sup.AccessLinksForTAZ(q.spec.OriginTAZ) {
		l := pathLink{
			mode: ModeAccess, from: q.spec.OriginTAZ, to: acc.Stop,
			dep: pref, arr: pref + acc.Time, linkTime: acc.Time,
			cost: acc.AccessCost, hopCost: w.Walk*acc.Time + acc.AccessCost,
		}
		s.update(q, states, &pq, searchNode{stop: acc.Stop, onFoot: true}, l, 0, l.arr)
	}

	iterations := 0
	for pq.Len() > 0 {
		item := pq.pop()
		st, ok := states[item.node]
		if !ok || item.label > st.label+labelEps {
			continue
		}
		iterations++
		if iterations > q.params.MaxLabelIterations {
			logging.LogError(q.logger, "hyperpath labeling exceeded iteration bound", errNoConvergence,
				slog.Int("traveler", q.spec.TravelerID), slog.Int("path", q.spec.PathID))
			return nil, nil, false
		}
		st.processCount++
		if st.processCount > q.params.MaxStopProcessCount {
			q.trace.logf("stop %d onFoot=%v hit process cap", item.node.stop, item.node.onFoot)
			continue
		}

		if item.node.onFoot {
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
					l := pathLink{
						mode: d.Trip, from: item.node.stop, to: lt.Stop,
						fromSeq: d.Seq, toSeq: lt.Seq,
						dep: d.Departure, arr: lt.Arrival,
						linkTime: lt.Arrival - st.time,
						hopCost:  w.Wait*wait + w.InVehicle*ride,
					}
					s.update(q, states, &pq, searchNode{stop: lt.Stop}, l, st.label, lt.Arrival)
				}
			}
		} else {
			for _, x := range q.sup.TransfersFrom(item.node.stop) {
				l := pathLink{
					mode: ModeTransfer, from: item.node.stop, to: x.To,
					dep: st.time, arr: st.time + x.Time,
					linkTime: x.Time, cost: x.Cost,
					hopCost: w.Walk*x.Time + x.Cost + w.TransferPenalty,
				}
				s.update(q, states, &pq, searchNode{stop: x.To, onFoot: true}, l, st.label, l.arr)
			}
			for _, acc := range q.sup.AccessLinksForStop(item.node.stop) {
				if acc.TAZ != q.spec.DestinationTAZ {
					continue
				}
				arr := st.time + acc.Time
				l := pathLink{
					mode: ModeEgress, from: item.node.stop, to: q.spec.DestinationTAZ,
					dep: st.time, arr: arr, linkTime: acc.Time,
					cost:    acc.EgressCost,
					hopCost: w.Walk*acc.Time + acc.EgressCost + w.ScheduleDelayLate*(arr-pref),
				}
				s.updateSet(q, hook, l, st.label, arr)
			}
		}
	}
	return states, hook, true
}

// labelBackward fills choice sets from the destination for an arrive-by
// query. Each node's set holds outbound links; the hookup set holds access
// links from the origin zone.
func (s *hyperpathSearch) labelBackward(q *query) (map[searchNode]*hyperState, *hyperState, bool) {
	w := q.params.Weights
	pref := q.spec.PreferredTime
	states := make(map[searchNode]*hyperState)
	hook := &hyperState{label: math.Inf(1)}
	var pq labelQueue

	for _, acc := range q.sup.AccessLinksForTAZ(q.spec.DestinationTAZ) {
		dep := pref - acc.Time
		l := pathLink{
			mode: ModeEgress, from: acc.Stop, to: q.spec.DestinationTAZ,
			dep: dep, arr: pref, linkTime: acc.Time,
			cost: acc.EgressCost, hopCost: w.Walk*acc.Time + acc.EgressCost,
		}
		s.update(q, states, &pq, searchNode{stop: acc.Stop}, l, 0, dep)
	}

	iterations := 0
	for pq.Len() > 0 {
		item := pq.pop()
		st, ok := states[item.node]
		if !ok || item.label > st.label+labelEps {
			continue
		}
		iterations++
		if iterations > q.params.MaxLabelIterations {
			logging.LogError(q.logger, "hyperpath labeling exceeded iteration bound", errNoConvergence,
				slog.Int("traveler", q.spec.TravelerID), slog.Int("path", q.spec.PathID))
			return nil, nil, false
		}
		st.processCount++
		if st.processCount > q.params.MaxStopProcessCount {
			q.trace.logf("stop %d onFoot=%v hit process cap", item.node.stop, item.node.onFoot)
			continue
		}

		if !item.node.onFoot {
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
					l := pathLink{
						mode: a.Trip, from: et.Stop, to: item.node.stop,
						fromSeq: et.Seq, toSeq: a.Seq,
						dep: et.Departure, arr: a.Arrival,
						linkTime: st.time - requiredArr,
						hopCost:  w.Wait*(slack+extraWait) + w.InVehicle*ride,
					}
					s.update(q, states, &pq, searchNode{stop: et.Stop, onFoot: true}, l, st.label, requiredArr)
				}
			}
		} else {
			for _, x := range q.sup.TransfersTo(item.node.stop) {
				dep := st.time - x.Time
				l := pathLink{
					mode: ModeTransfer, from: x.From, to: item.node.stop,
					dep: dep, arr: st.time,
					linkTime: x.Time, cost: x.Cost,
					hopCost: w.Walk*x.Time + x.Cost + w.TransferPenalty,
				}
				s.update(q, states, &pq, searchNode{stop: x.From}, l, st.label, dep)
			}
			for _, acc := range q.sup.AccessLinksForStop(item.node.stop) {
				if acc.TAZ != q.spec.OriginTAZ {
					continue
				}
				dep := st.time - acc.Time
				l := pathLink{
					mode: ModeAccess, from: q.spec.OriginTAZ, to: item.node.stop,
					dep: dep, arr: st.time, linkTime: acc.Time,
					cost:    acc.AccessCost,
					hopCost: w.Walk*acc.Time + acc.AccessCost + w.ScheduleDelayEarly*(pref-dep),
				}
				s.updateSet(q, hook, l, st.label, dep)
			}
		}
	}
	return states, hook, true
}

// update merges one candidate link into a node's choice set and re-pushes
// the node when its logsum label improves.
func (s *hyperpathSearch) update(q *query, states map[searchNode]*hyperState, pq *labelQueue, n searchNode, l pathLink, farLabel, nodeTime float64) {
	st, ok := states[n]
	if !ok {
		st = &hyperState{label: math.Inf(1)}
		states[n] = st
	}
	if !s.updateSet(q, st, l, farLabel, nodeTime) {
		return
	}
	pq.push(st.label, n)
	q.trace.logf("label stop=%d onFoot=%v label=%.4f time=%.2f links=%d",
		n.stop, n.onFoot, st.label, st.time, len(st.links))
}

// updateSet merges a candidate into one choice set, prunes by the
// attractiveness window, and recomputes the logsum label. It reports
// whether the label improved.
func (s *hyperpathSearch) updateSet(q *query, st *hyperState, l pathLink, farLabel, nodeTime float64) bool {
	total := l.hopCost + farLabel
	window := q.params.AttractivenessWindow
	if len(st.links) > 0 && total > st.minTotal()+window {
		return false
	}

	cand := hyperLink{pathLink: l, totalCost: total}
	key := keyOf(l)
	replaced := false
	for i := range st.links {
		if keyOf(st.links[i].pathLink) == key {
			if total >= st.links[i].totalCost-labelEps {
				return false
			}
			st.links[i] = cand
			replaced = true
			break
		}
	}
	if !replaced {
		st.links = append(st.links, cand)
	}

	min := st.minTotal()
	kept := st.links[:0]
	for _, hl := range st.links {
		if hl.totalCost <= min+window {
			kept = append(kept, hl)
		}
	}
	st.links = kept

	theta := q.params.Dispersion
	sum := 0.0
	for _, hl := range st.links {
		sum += math.Exp(-theta * (hl.totalCost - min))
	}
	label := min - math.Log(sum)/theta

	if total <= min+labelEps {
		st.time = nodeTime
	}
	if label < st.label-labelEps {
		st.label = label
		return true
	}
	return false
}
