package resilience

import "sync"

// SingleFlight collapses concurrent calls for the same key into one
// execution. The provider hands out identical $ref links across listings, so
// duplicate fetches for the same URL are common within a sync pass.
type SingleFlight struct {
	mu       sync.Mutex
	inflight map[string]*flightResult
}

type flightResult struct {
	done  chan struct{}
	value any
	err   error
}

// Do runs fn once per key at a time. Callers that arrive while a call for the
// same key is in flight block until it finishes and receive its result; the
// third return reports whether the result was shared.
func (g *SingleFlight) Do(key string, fn func() (any, error)) (any, error, bool) {
	g.mu.Lock()
	if g.inflight == nil {
		g.inflight = make(map[string]*flightResult)
	}
	if existing, ok := g.inflight[key]; ok {
		g.mu.Unlock()
		<-existing.done
		return existing.value, existing.err, true
	}

	result := &flightResult{done: make(chan struct{})}
	g.inflight[key] = result
	g.mu.Unlock()

	result.value, result.err = fn()
	close(result.done)

	g.mu.Lock()
	delete(g.inflight, key)
	g.mu.Unlock()

	return result.value, result.err, false
}
