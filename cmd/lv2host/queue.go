package main

import (
	"sync"
)

// pendingSet is a property assignment waiting to enter the control stream.
type pendingSet struct {
	property string
	value    bool
}

// pendingEvents bridges the dialog goroutine and the audio loop. The
// dialog side pushes assignments whenever it finishes; the audio loop
// drains the queue at the top of each cycle, so answers always arrive
// through the control port and never mid-cycle.
type pendingEvents struct {
	mu   sync.Mutex
	sets []pendingSet
}

func (q *pendingEvents) push(property string, value bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.sets = append(q.sets, pendingSet{property: property, value: value})
}

func (q *pendingEvents) drain() []pendingSet {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.sets) == 0 {
		return nil
	}
	drained := q.sets
	q.sets = nil
	return drained
}
