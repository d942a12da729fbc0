package refs

import (
	"errors"

	"go.uber.org/multierr"
)

var ErrClosed = errors.New("refs table closed")

// Handle is an opaque reference to an entry in a Table. Handle 0 is reserved
// and always invalid. The low 32 bits are the slot index plus one; the high
// 32 bits are the slot's generation at insert time.
type Handle uint64

func makeHandle(index int, gen uint32) Handle {
	return Handle(uint64(gen)<<32 | uint64(uint32(index+1)))
}

func (h Handle) index() (int, uint32) {
	return int(uint32(h)) - 1, uint32(h >> 32)
}

// Dropper is optionally implemented by values that need teardown when
// removed.
type Dropper interface {
	Drop() error
}

// EventType classifies lifecycle notifications.
type EventType uint8

const (
	EventInserted EventType = iota
	EventRemoved
)

// Event describes one table mutation.
type Event struct {
	Value  any
	Handle Handle
	Type   EventType
}

// Observer receives table lifecycle events.
type Observer interface {
	OnRefEvent(Event)
}

type entry struct {
	value any
	gen   uint32
	valid bool
}

// Table maps generation-counted handles to live values. Slots are recycled
// through a free list; the generation bumps on each reuse so handles from a
// previous occupant never resolve.
//
// The runtime is single-threaded, so Table performs no locking.
type Table struct {
	entries   []entry
	freeList  []int
	observers []Observer
	closed    bool
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{
		entries:  make([]entry, 0, 16),
		freeList: make([]int, 0, 8),
	}
}

// Insert stores a value and returns its handle, 0 if the table is closed.
func (t *Table) Insert(value any) Handle {
	if t.closed {
		return 0
	}

	var idx int
	if n := len(t.freeList); n > 0 {
		idx = t.freeList[n-1]
		t.freeList = t.freeList[:n-1]
		e := &t.entries[idx]
		e.gen++
		e.value = value
		e.valid = true
	} else {
		idx = len(t.entries)
		t.entries = append(t.entries, entry{value: value, valid: true})
	}

	h := makeHandle(idx, t.entries[idx].gen)
	t.notify(Event{Type: EventInserted, Handle: h, Value: value})
	return h
}

// Get resolves a handle. It fails for invalid, removed, or recycled slots.
func (t *Table) Get(h Handle) (any, bool) {
	e := t.lookup(h)
	if e == nil {
		return nil, false
	}
	return e.value, true
}

// Remove drops an entry and returns its value. The slot is recycled with a
// bumped generation. If the value implements Dropper its teardown runs; the
// error Drop returns is discarded.
func (t *Table) Remove(h Handle) (any, bool) {
	e := t.lookup(h)
	if e == nil {
		return nil, false
	}

	value := e.value
	e.value = nil
	e.valid = false
	idx, _ := h.index()
	t.freeList = append(t.freeList, idx)

	if d, ok := value.(Dropper); ok {
		_ = d.Drop()
	}

	t.notify(Event{Type: EventRemoved, Handle: h, Value: value})
	return value, true
}

// Len returns the number of live entries.
func (t *Table) Len() int {
	count := 0
	for _, e := range t.entries {
		if e.valid {
			count++
		}
	}
	return count
}

// Each iterates over live entries until fn returns false.
func (t *Table) Each(fn func(Handle, any) bool) {
	for i, e := range t.entries {
		if e.valid {
			if !fn(makeHandle(i, e.gen), e.value) {
				break
			}
		}
	}
}

// Subscribe adds an observer for lifecycle events.
func (t *Table) Subscribe(o Observer) {
	t.observers = append(t.observers, o)
}

// Unsubscribe removes an observer.
func (t *Table) Unsubscribe(o Observer) {
	for i, obs := range t.observers {
		if obs == o {
			t.observers = append(t.observers[:i], t.observers[i+1:]...)
			return
		}
	}
}

// Close drops every live entry, running all Droppers and aggregating their
// errors. The table accepts no operations afterwards.
func (t *Table) Close() error {
	if t.closed {
		return nil
	}
	t.closed = true

	var err error
	for i := range t.entries {
		e := &t.entries[i]
		if !e.valid {
			continue
		}
		if d, ok := e.value.(Dropper); ok {
			err = multierr.Append(err, d.Drop())
		}
		e.valid = false
		e.value = nil
	}

	t.entries = nil
	t.freeList = nil
	t.observers = nil
	return err
}

func (t *Table) lookup(h Handle) *entry {
	if h == 0 || t.closed {
		return nil
	}
	idx, gen := h.index()
	if idx < 0 || idx >= len(t.entries) {
		return nil
	}
	e := &t.entries[idx]
	if !e.valid || e.gen != gen {
		return nil
	}
	return e
}

func (t *Table) notify(ev Event) {
	for _, o := range t.observers {
		o.OnRefEvent(ev)
	}
}
