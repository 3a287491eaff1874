package pathfinder

import "container/heap"

// searchNode identifies a label-table entry. Reaching a stop on foot
// (access or transfer) and reaching it aboard a vehicle are distinct nodes:
// only a foot arrival may board, only a vehicle arrival may transfer or
// egress.
type searchNode struct {
	stop   int
	onFoot bool
}

type queueItem struct {
	label float64
	node  searchNode
}

// labelQueue is a min-heap of candidate labels. Stale entries are tolerated
// and skipped by the caller (lazy deletion).
type labelQueue struct {
	items []queueItem
}

func (q *labelQueue) Len() int { return len(q.items) }

func (q *labelQueue) Less(i, j int) bool {
	if q.items[i].label != q.items[j].label {
		return q.items[i].label < q.items[j].label
	}
	// Deterministic tie-break keeps searches reproducible.
	if q.items[i].node.stop != q.items[j].node.stop {
		return q.items[i].node.stop < q.items[j].node.stop
	}
	return q.items[i].node.onFoot && !q.items[j].node.onFoot
}

func (q *labelQueue) Swap(i, j int) { q.items[i], q.items[j] = q.items[j], q.items[i] }

func (q *labelQueue) Push(x any) { q.items = append(q.items, x.(queueItem)) }

func (q *labelQueue) Pop() any {
	old := q.items
	n := len(old)
	item := old[n-1]
	q.items = old[:n-1]
	return item
}

func (q *labelQueue) push(label float64, node searchNode) {
	heap.Push(q, queueItem{label: label, node: node})
}

func (q *labelQueue) pop() queueItem {
	return heap.Pop(q).(queueItem)
}

func (q *labelQueue) peek() (queueItem, bool) {
	if len(q.items) == 0 {
		return queueItem{}, false
	}
	return q.items[0], true
}
