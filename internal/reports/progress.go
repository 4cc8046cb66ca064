package reports

import "sync"

// ProgressFunc receives progress updates during generation.
type ProgressFunc func(Progress)

// Broadcaster fans progress updates out to subscribers keyed by report ID.
// Subscribers attach before or during a run; delivery is synchronous, so
// callbacks must not block.
type Broadcaster struct {
	mu   sync.RWMutex
	subs map[string]map[int]ProgressFunc
	next int
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subs: make(map[string]map[int]ProgressFunc)}
}

// Subscribe registers fn for updates about reportID. The returned function
// removes the subscription; calling it more than once is safe.
func (b *Broadcaster) Subscribe(reportID string, fn ProgressFunc) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.next++
	id := b.next
	if b.subs[reportID] == nil {
		b.subs[reportID] = make(map[int]ProgressFunc)
	}
	b.subs[reportID][id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs[reportID], id)
			if len(b.subs[reportID]) == 0 {
				delete(b.subs, reportID)
			}
		})
	}
}

// Publish delivers p to every subscriber of its report ID.
func (b *Broadcaster) Publish(p Progress) {
	b.mu.RLock()
	fns := make([]ProgressFunc, 0, len(b.subs[p.ReportID]))
	for _, fn := range b.subs[p.ReportID] {
		fns = append(fns, fn)
	}
	b.mu.RUnlock()

	for _, fn := range fns {
		fn(p)
	}
}
