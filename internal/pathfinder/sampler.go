package pathfinder

import (
	"math"
	"math/rand"
)

// seededRNG is the per-query generator. Seeding from the traveler and path
// identifiers makes every query reproducible on its own: the same query
// against the same supply samples the same path, and consecutive path ids
// for one traveler explore the choice sets differently.
type seededRNG struct {
	*rand.Rand
}

func newSeededRNG(travelerID, pathID int) seededRNG {
	seed := int64(travelerID)*1_000_003 + int64(pathID)
	return seededRNG{Rand: rand.New(rand.NewSource(seed))}
}

// sampleAttempts bounds how often the walk restarts after a dead end. The
// final attempt is greedy, taking the cheapest feasible link at every node.
const sampleAttempts = 8

// sampleChain draws one travel-ordered leg sequence from the filled choice
// sets. forward marks a depart-after query, where the sets hold inbound
// links and the walk runs destination to origin under arrive-by deadlines;
// otherwise the sets hold outbound links and the walk runs origin to
// destination under a running clock. Legs keep their scheduled trip times;
// walk legs are re-timed afterwards.
func sampleChain(q *query, states map[searchNode]*hyperState, hook *hyperState, forward bool) ([]pathLink, bool) {
	for attempt := 0; attempt < sampleAttempts; attempt++ {
		greedy := attempt == sampleAttempts-1
		var legs []pathLink
		var ok bool
		if forward {
			legs, ok = walkInbound(q, states, hook, greedy)
		} else {
			legs, ok = walkOutbound(q, states, hook, greedy)
		}
		if ok {
			return legs, true
		}
		q.trace.logf("sample attempt %d dead-ended", attempt)
	}
	return nil, false
}

// walkOutbound follows outbound choice sets from the origin hookup, keeping
// the earliest clock the traveler can hold at each node.
func walkOutbound(q *query, states map[searchNode]*hyperState, hook *hyperState, greedy bool) ([]pathLink, bool) {
	cur, ok := chooseLink(q, hook.links, nil, greedy)
	if !ok {
		return nil, false
	}
	legs := []pathLink{cur}
	t := math.Inf(-1) // departure from the origin floats until the first boarding

	for cur.mode != ModeEgress {
		if len(legs) >= q.params.MaxPathLength {
			return nil, false
		}
		n := searchNode{stop: cur.to, onFoot: cur.mode < 0}
		st, found := states[n]
		if !found {
			return nil, false
		}
		arrived := t
		next, ok := chooseLink(q, st.links, func(l pathLink) bool {
			switch {
			case l.mode >= 0:
				return l.dep >= arrived-labelEps && !q.deniedAt(l, arrived)
			case l.mode == ModeEgress:
				return arrived+l.linkTime <= q.spec.PreferredTime+labelEps
			default:
				return true
			}
		}, greedy)
		if !ok {
			return nil, false
		}
		switch {
		case next.mode >= 0:
			t = next.arr
		default:
			t += next.linkTime
		}
		legs = append(legs, next)
		cur = next
	}
	return legs, true
}

// walkInbound follows inbound choice sets backward from the destination
// hookup, keeping the latest clock by which the traveler must reach each
// node. The legs come out destination-first and are reversed.
func walkInbound(q *query, states map[searchNode]*hyperState, hook *hyperState, greedy bool) ([]pathLink, bool) {
	cur, ok := chooseLink(q, hook.links, nil, greedy)
	if !ok {
		return nil, false
	}
	legs := []pathLink{cur}
	t := math.Inf(1) // arrival at the destination floats

	for cur.mode != ModeAccess {
		if len(legs) >= q.params.MaxPathLength {
			return nil, false
		}
		switch {
		case cur.mode >= 0:
			t = q.cutoffFor(cur)
		default:
			t -= cur.linkTime
		}
		deadline := t
		n := searchNode{stop: cur.from, onFoot: cur.mode >= 0}
		st, found := states[n]
		if !found {
			return nil, false
		}
		next, ok := chooseLink(q, st.links, func(l pathLink) bool {
			switch {
			case l.mode >= 0:
				return l.arr <= deadline+labelEps
			case l.mode == ModeAccess:
				return q.spec.PreferredTime+l.linkTime <= deadline+labelEps
			default:
				return true
			}
		}, greedy)
		if !ok {
			return nil, false
		}
		legs = append(legs, next)
		cur = next
	}
	for i, j := 0, len(legs)-1; i < j; i, j = i+1, j-1 {
		legs[i], legs[j] = legs[j], legs[i]
	}
	return legs, true
}

// chooseLink draws one feasible link, weighting each by exp(-theta * cost
// above the cheapest feasible). greedy takes the cheapest outright.
func chooseLink(q *query, links []hyperLink, feasible func(pathLink) bool, greedy bool) (pathLink, bool) {
	min := math.Inf(1)
	for _, l := range links {
		if feasible != nil && !feasible(l.pathLink) {
			continue
		}
		if l.totalCost < min {
			min = l.totalCost
		}
	}
	if math.IsInf(min, 1) {
		return pathLink{}, false
	}

	theta := q.params.Dispersion
	if greedy {
		for _, l := range links {
			if (feasible == nil || feasible(l.pathLink)) && l.totalCost <= min+labelEps {
				return l.pathLink, true
			}
		}
		return pathLink{}, false
	}

	sum := 0.0
	for _, l := range links {
		if feasible != nil && !feasible(l.pathLink) {
			continue
		}
		sum += math.Exp(-theta * (l.totalCost - min))
	}
	r := q.rng.Float64() * sum
	for _, l := range links {
		if feasible != nil && !feasible(l.pathLink) {
			continue
		}
		r -= math.Exp(-theta * (l.totalCost - min))
		if r <= 0 {
			return l.pathLink, true
		}
	}
	// Float roundoff: fall back to the last feasible link.
	for i := len(links) - 1; i >= 0; i-- {
		if feasible == nil || feasible(links[i].pathLink) {
			return links[i].pathLink, true
		}
	}
	return pathLink{}, false
}

// deniedAt reports whether the capacity overlay rejects boarding this trip
// link for a traveler arriving at the board stop at the given time.
func (q *query) deniedAt(l pathLink, arrival float64) bool {
	threshold, ok := q.bump.Threshold(l.mode, l.fromSeq, l.from)
	if !ok {
		return false
	}
	return arrival > threshold-q.params.BumpBuffer
}

// cutoffFor is the latest feasible arrival at a trip link's board stop:
// the scheduled departure, tightened by any bump-wait threshold.
func (q *query) cutoffFor(l pathLink) float64 {
	cutoff := l.dep
	if threshold, ok := q.bump.Threshold(l.mode, l.fromSeq, l.from); ok {
		if t := threshold - q.params.BumpBuffer; t < cutoff {
			cutoff = t
		}
	}
	return cutoff
}

// retimeDepartAfter walks a sampled leg sequence forward from the
// preferred departure, recomputing waits and walk clocks around the fixed
// trip schedules.
func retimeDepartAfter(q *query, legs []pathLink) []pathLink {
	w := q.params.Weights
	pref := q.spec.PreferredTime
	out := make([]pathLink, len(legs))
	t := pref
	for i, l := range legs {
		switch {
		case l.mode == ModeAccess:
			l.dep = t
			l.arr = t + l.linkTime
			l.hopCost = w.Walk*l.linkTime + l.cost
		case l.mode >= 0:
			wait := l.dep - t
			if wait < 0 {
				wait = 0
			}
			ride := l.arr - l.dep
			l.linkTime = l.arr - t
			l.hopCost = w.Wait*wait + w.InVehicle*ride
		case l.mode == ModeTransfer:
			l.dep = t
			l.arr = t + l.linkTime
			l.hopCost = w.Walk*l.linkTime + l.cost + w.TransferPenalty
		default: // egress
			l.dep = t
			l.arr = t + l.linkTime
			l.hopCost = w.Walk*l.linkTime + l.cost + w.ScheduleDelayLate*(l.arr-pref)
		}
		t = l.arr
		out[i] = l
	}
	return out
}

// retimeArriveBy walks a sampled leg sequence backward from the preferred
// arrival, assigning the latest feasible clocks so that waiting lands at
// the board stops.
func retimeArriveBy(q *query, legs []pathLink) []pathLink {
	w := q.params.Weights
	pref := q.spec.PreferredTime
	out := make([]pathLink, len(legs))
	t := pref
	for i := len(legs) - 1; i >= 0; i-- {
		l := legs[i]
		switch {
		case l.mode == ModeEgress:
			l.arr = t
			l.dep = t - l.linkTime
			l.hopCost = w.Walk*l.linkTime + l.cost
			t = l.dep
		case l.mode >= 0:
			slack := t - l.arr
			if slack < 0 {
				slack = 0
			}
			requiredArr := q.cutoffFor(l)
			extraWait := l.dep - requiredArr
			ride := l.arr - l.dep
			l.linkTime = t - requiredArr
			l.hopCost = w.Wait*(slack+extraWait) + w.InVehicle*ride
			t = requiredArr
		case l.mode == ModeTransfer:
			l.arr = t
			l.dep = t - l.linkTime
			l.hopCost = w.Walk*l.linkTime + l.cost + w.TransferPenalty
			t = l.dep
		default: // access
			l.arr = t
			l.dep = t - l.linkTime
			l.hopCost = w.Walk*l.linkTime + l.cost + w.ScheduleDelayEarly*(pref-l.dep)
			t = l.dep
		}
		out[i] = l
	}
	return out
}
