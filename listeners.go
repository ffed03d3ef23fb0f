package scrollfx

type listenerEntry[T any] struct {
	id uint32
	fn T
}

// listenerList is an ordered callback list with id-based removal. Removal
// copies the slice so an in-progress iteration keeps its snapshot.
type listenerList[T any] struct {
	entries []listenerEntry[T]
	nextID  uint32
}

func (l *listenerList[T]) add(fn T) Handle {
	l.nextID++
	id := l.nextID
	l.entries = append(l.entries, listenerEntry[T]{id: id, fn: fn})
	return Handle{remove: func() { l.remove(id) }}
}

func (l *listenerList[T]) remove(id uint32) {
	for i := range l.entries {
		if l.entries[i].id == id {
			l.entries = append(l.entries[:i:i], l.entries[i+1:]...)
			return
		}
	}
}

func (l *listenerList[T]) len() int { return len(l.entries) }

func (l *listenerList[T]) each(fn func(T)) {
	for _, e := range l.entries {
		fn(e.fn)
	}
}

func (l *listenerList[T]) clear() { l.entries = nil }
