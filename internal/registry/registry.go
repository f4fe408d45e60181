// Package registry is a handle table that lets independent callers share
// engine instances by id. A Registry is created explicitly and passed to
// whoever needs it; there is no package-level instance.
package registry

import (
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/san-kum/motionsim/internal/dynamo"
)

// Constructor builds a new instance for id from cfg. Constructors clamp bad
// configuration instead of failing.
type Constructor[C, T any] func(id string, cfg C) T

// Registry maps ids to instances of T built from configurations of type C.
// Instances live until Dispose or Close. Registry methods are safe for
// concurrent use; the instances themselves are not.
type Registry[C, T any] struct {
	mu    sync.Mutex
	build Constructor[C, T]
	items map[string]T
	log   zerolog.Logger
}

type Option func(*options)

type options struct {
	log zerolog.Logger
}

func WithLogger(log zerolog.Logger) Option {
	return func(o *options) { o.log = log }
}

func collect(opts []Option) options {
	o := options{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func New[C, T any](build Constructor[C, T], opts ...Option) *Registry[C, T] {
	o := collect(opts)
	return &Registry[C, T]{
		build: build,
		items: make(map[string]T),
		log:   o.log,
	}
}

// GetOrCreate returns the instance registered under id, building it from
// cfg if there is none. cfg is ignored for an existing instance. created
// reports whether a new instance was built.
func (r *Registry[C, T]) GetOrCreate(id string, cfg C) (inst T, created bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if inst, ok := r.items[id]; ok {
		return inst, false
	}
	inst = r.build(id, cfg)
	r.items[id] = inst
	r.log.Debug().Str("id", id).Int("live", len(r.items)).Msg("instance created")
	return inst, true
}

func (r *Registry[C, T]) Get(id string) (T, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inst, ok := r.items[id]
	return inst, ok
}

// Dispose removes id. Instances implementing dynamo.Stopper are stopped
// first. It reports whether id was registered.
func (r *Registry[C, T]) Dispose(id string) bool {
	r.mu.Lock()
	inst, ok := r.items[id]
	delete(r.items, id)
	live := len(r.items)
	r.mu.Unlock()

	if !ok {
		return false
	}
	if s, ok := any(inst).(dynamo.Stopper); ok {
		s.Stop()
	}
	r.log.Debug().Str("id", id).Int("live", live).Msg("instance disposed")
	return true
}

// IDs lists registered ids in sorted order.
func (r *Registry[C, T]) IDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]string, 0, len(r.items))
	for id := range r.items {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (r *Registry[C, T]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

// Close disposes every instance.
func (r *Registry[C, T]) Close() {
	for _, id := range r.IDs() {
		r.Dispose(id)
	}
}
