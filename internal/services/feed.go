package services

import (
	"sync"

	"filmgrid/internal/domain"
)

// Feed fans a listing snapshot out to subscribers. Each subscriber receives
// its own copy, first on Subscribe and then on every Publish.
type Feed struct {
	pubMu  sync.Mutex // serializes deliveries
	mu     sync.RWMutex
	latest []domain.Listing
	subs   map[int]func([]domain.Listing)
	next   int
}

func NewFeed() *Feed {
	return &Feed{subs: make(map[int]func([]domain.Listing))}
}

// Subscribe registers fn and delivers the current snapshot to it before
// returning. The returned func unsubscribes; calling it twice is harmless.
func (f *Feed) Subscribe(fn func([]domain.Listing)) (unsubscribe func()) {
	f.pubMu.Lock()
	defer f.pubMu.Unlock()

	f.mu.Lock()
	id := f.next
	f.next++
	f.subs[id] = fn
	snap := clone(f.latest)
	f.mu.Unlock()

	fn(snap)
	return sync.OnceFunc(func() {
		f.mu.Lock()
		delete(f.subs, id)
		f.mu.Unlock()
	})
}

// Publish replaces the current snapshot and notifies every subscriber.
func (f *Feed) Publish(snap []domain.Listing) {
	f.pubMu.Lock()
	defer f.pubMu.Unlock()

	f.mu.Lock()
	f.latest = clone(snap)
	fns := make([]func([]domain.Listing), 0, len(f.subs))
	for _, fn := range f.subs {
		fns = append(fns, fn)
	}
	latest := f.latest
	f.mu.Unlock()

	snapshotSize.Set(float64(len(latest)))
	for _, fn := range fns {
		fn(clone(latest))
	}
}

// Latest returns a copy of the current snapshot.
func (f *Feed) Latest() []domain.Listing {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return clone(f.latest)
}

// Subscribers reports how many subscriptions are live.
func (f *Feed) Subscribers() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.subs)
}

func clone(in []domain.Listing) []domain.Listing {
	out := make([]domain.Listing, len(in))
	copy(out, in)
	return out
}
