package selection

import "slices"

// Signal is a synchronous publish/subscribe point. Handlers run in the order
// they connected. Connecting or disconnecting from inside a handler is
// allowed; the change applies from the next Emit on.
type Signal[T any] struct {
	slots []*slot[T]
}

type slot[T any] struct {
	fn        func(T)
	connected bool
}

// Connection unsubscribes a handler. The zero value does nothing.
type Connection struct {
	disconnect func()
}

func (c Connection) Disconnect() {
	if c.disconnect != nil {
		c.disconnect()
	}
}

func (s *Signal[T]) Connect(fn func(T)) Connection {
	sl := &slot[T]{fn: fn, connected: true}
	s.slots = append(slices.Clip(s.slots), sl)
	return Connection{disconnect: func() {
		if !sl.connected {
			return
		}
		sl.connected = false
		s.slots = slices.DeleteFunc(slices.Clone(s.slots), func(o *slot[T]) bool { return o == sl })
	}}
}

func (s *Signal[T]) Emit(v T) {
	// Iterate the slice as it was when Emit started.
	for _, sl := range s.slots {
		if sl.connected {
			sl.fn(v)
		}
	}
}

func (s *Signal[T]) Len() int {
	return len(s.slots)
}
