// Package events carries typed change notifications between components.
package events

import "sync"

type subscription[T any] struct {
	id int
	fn func(T)
}

// Feed is a typed publish/subscribe channel. Handlers run synchronously on the
// publisher's goroutine, in subscription order.
type Feed[T any] struct {
	mu     sync.RWMutex
	nextID int
	subs   []subscription[T]
}

func NewFeed[T any]() *Feed[T] {
	return &Feed[T]{}
}

// Subscribe registers fn and returns a func that removes it.
func (f *Feed[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	f.mu.Lock()
	id := f.nextID
	f.nextID++
	f.subs = append(f.subs, subscription[T]{id: id, fn: fn})
	f.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			defer f.mu.Unlock()
			for i, s := range f.subs {
				if s.id == id {
					f.subs = append(f.subs[:i:i], f.subs[i+1:]...)
					return
				}
			}
		})
	}
}

// Publish is a no-op on a nil feed so stores can be built without one.
func (f *Feed[T]) Publish(v T) {
	if f == nil {
		return
	}
	f.mu.RLock()
	subs := make([]subscription[T], len(f.subs))
	copy(subs, f.subs)
	f.mu.RUnlock()

	for _, s := range subs {
		s.fn(v)
	}
}
