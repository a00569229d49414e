// Package notify provides a subscriber list with synchronous fan-out.
//
// Subscribe and unsubscribe are safe to call concurrently with Notify,
// including from inside a handler: Notify iterates over a snapshot taken
// under the lock, so a handler that unsubscribes itself (or subscribes a new
// handler) never mutates the slice being iterated.
package notify

import "sync"

// Handler receives a notification.
type Handler[T any] func(T)

// List is a set of subscribed handlers. The zero value is ready to use.
type List[T any] struct {
	mu       sync.RWMutex
	next     uint64
	handlers map[uint64]Handler[T]
	order    []uint64
}

// Subscribe registers h and returns a function that removes it.
// The returned function is idempotent. A nil handler is ignored.
func (l *List[T]) Subscribe(h Handler[T]) (unsubscribe func()) {
	if h == nil {
		return func() {}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.handlers == nil {
		l.handlers = make(map[uint64]Handler[T])
	}
	id := l.next
	l.next++
	l.handlers[id] = h
	l.order = append(l.order, id)

	var once sync.Once
	return func() {
		once.Do(func() { l.remove(id) })
	}
}

func (l *List[T]) remove(id uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.handlers[id]; !ok {
		return
	}
	delete(l.handlers, id)
	for i, v := range l.order {
		if v == id {
			l.order = append(l.order[:i], l.order[i+1:]...)
			break
		}
	}
}

// Notify calls every current handler in subscription order, synchronously,
// on the caller's goroutine.
func (l *List[T]) Notify(v T) {
	for _, h := range l.snapshot() {
		h(v)
	}
}

// Len returns the number of subscribed handlers.
func (l *List[T]) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.order)
}

// Clear removes all handlers.
func (l *List[T]) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.handlers = nil
	l.order = nil
}

func (l *List[T]) snapshot() []Handler[T] {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]Handler[T], 0, len(l.order))
	for _, id := range l.order {
		out = append(out, l.handlers[id])
	}
	return out
}
