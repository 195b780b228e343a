package task

import (
	"sync"
	"time"
)

// IDGen hands out task ids that are unique and strictly increasing for the
// life of the process. Ids track wall-clock milliseconds so they line up with
// ids already on disk, but never repeat when two tasks land in the same tick.
type IDGen struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

// NewIDGen returns a generator that will only issue ids above floor.
func NewIDGen(floor int64) *IDGen {
	return &IDGen{last: floor, now: time.Now}
}

func (g *IDGen) Next() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	id := g.now().UnixMilli()
	if id <= g.last {
		id = g.last + 1
	}
	g.last = id
	return id
}
