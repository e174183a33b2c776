// Package fetch implements the remote-data contract every resource view
// uses: load once, expose {Data, Err, Loading}, and never let a stale
// response overwrite a newer one.
package fetch

import (
	"context"
	"sync"
)

// Snapshot is what a view renders. On failure Err is set and Data keeps
// its previous (stale) value; the two are never merged field-by-field.
type Snapshot[T any] struct {
	Data    T
	Err     string
	Loading bool
}

type Func[T any] func(ctx context.Context) (T, error)

// Loader runs a fetch function and commits results guarded by a
// per-invocation generation: a Reload that was overtaken by a newer one
// discards its result, so rapid re-invocations (filter changes) can
// never render out of order.
type Loader[T any] struct {
	mu    sync.Mutex
	gen   uint64
	snap  Snapshot[T]
	fetch Func[T]
}

func NewLoader[T any](fn Func[T]) *Loader[T] {
	return &Loader[T]{fetch: fn}
}

// Reload performs one fetch and returns the snapshot as of its
// completion. The request itself is not aborted when overtaken; only
// the commit of its response is suppressed.
func (l *Loader[T]) Reload(ctx context.Context) Snapshot[T] {
	l.mu.Lock()
	l.gen++
	gen := l.gen
	l.snap.Loading = true
	l.mu.Unlock()

	data, err := l.fetch(ctx)

	l.mu.Lock()
	defer l.mu.Unlock()
	if gen != l.gen {
		// A newer Reload started while this one was in flight.
		return l.snap
	}
	if err != nil {
		l.snap.Err = err.Error()
	} else {
		l.snap.Data = data
		l.snap.Err = ""
	}
	l.snap.Loading = false
	return l.snap
}

// Snapshot returns the last committed state without fetching.
func (l *Loader[T]) Snapshot() Snapshot[T] {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snap
}
