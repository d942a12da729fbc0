package refs

import (
	"errors"
	"testing"
)

type testObserver struct {
	events []Event
}

func (o *testObserver) OnRefEvent(e Event) {
	o.events = append(o.events, e)
}

type dropper struct {
	dropped int
	err     error
}

func (d *dropper) Drop() error {
	d.dropped++
	return d.err
}

func TestTable_Basic(t *testing.T) {
	table := NewTable()

	h := table.Insert("test")
	if h == 0 {
		t.Fatal("Expected non-zero handle")
	}

	val, ok := table.Get(h)
	if !ok || val != "test" {
		t.Fatalf("Get = %v, %v", val, ok)
	}

	val, ok = table.Remove(h)
	if !ok || val != "test" {
		t.Fatalf("Remove = %v, %v", val, ok)
	}
	if table.Len() != 0 {
		t.Fatal("Expected Len() == 0 after Remove")
	}
	if _, ok := table.Get(h); ok {
		t.Fatal("Get after Remove should fail")
	}
}

func TestTable_StaleHandleAfterReuse(t *testing.T) {
	table := NewTable()

	h1 := table.Insert("first")
	table.Remove(h1)

	// The slot is recycled with a new generation.
	h2 := table.Insert("second")
	if h1 == h2 {
		t.Fatal("recycled handle must differ from the stale one")
	}

	if _, ok := table.Get(h1); ok {
		t.Fatal("stale handle resolved after slot reuse")
	}
	if val, ok := table.Get(h2); !ok || val != "second" {
		t.Fatalf("fresh handle failed: %v, %v", val, ok)
	}
	if _, ok := table.Remove(h1); ok {
		t.Fatal("stale handle removed the new occupant")
	}
}

func TestTable_ZeroHandle(t *testing.T) {
	table := NewTable()
	if _, ok := table.Get(0); ok {
		t.Fatal("handle 0 must never resolve")
	}
	if _, ok := table.Remove(0); ok {
		t.Fatal("handle 0 must never remove")
	}
}

func TestTable_Observer(t *testing.T) {
	table := NewTable()
	obs := &testObserver{}
	table.Subscribe(obs)

	h := table.Insert("test")
	if len(obs.events) != 1 || obs.events[0].Type != EventInserted || obs.events[0].Handle != h {
		t.Fatalf("insert event wrong: %+v", obs.events)
	}

	table.Remove(h)
	if len(obs.events) != 2 || obs.events[1].Type != EventRemoved {
		t.Fatalf("remove event wrong: %+v", obs.events)
	}

	table.Unsubscribe(obs)
	table.Insert("more")
	if len(obs.events) != 2 {
		t.Fatal("unsubscribed observer still notified")
	}
}

func TestTable_RemoveRunsDropper(t *testing.T) {
	table := NewTable()
	d := &dropper{}
	h := table.Insert(d)
	table.Remove(h)
	if d.dropped != 1 {
		t.Fatalf("dropped %d times, want 1", d.dropped)
	}
}

func TestTable_CloseAggregatesErrors(t *testing.T) {
	table := NewTable()
	e1 := errors.New("boom1")
	e2 := errors.New("boom2")
	d1 := &dropper{err: e1}
	d2 := &dropper{err: e2}
	ok := &dropper{}

	table.Insert(d1)
	table.Insert(ok)
	table.Insert(d2)

	err := table.Close()
	if err == nil {
		t.Fatal("Close should surface dropper errors")
	}
	if !errors.Is(err, e1) || !errors.Is(err, e2) {
		t.Fatalf("aggregated error missing causes: %v", err)
	}
	if d1.dropped != 1 || d2.dropped != 1 || ok.dropped != 1 {
		t.Fatal("every dropper must run despite failures")
	}

	// Closed table rejects everything quietly.
	if h := table.Insert("x"); h != 0 {
		t.Fatal("closed table accepted an insert")
	}
	if err := table.Close(); err != nil {
		t.Fatalf("second Close = %v", err)
	}
}

func TestTable_Each(t *testing.T) {
	table := NewTable()
	table.Insert("a")
	hb := table.Insert("b")
	table.Insert("c")
	table.Remove(hb)

	var seen []any
	table.Each(func(_ Handle, v any) bool {
		seen = append(seen, v)
		return true
	})
	if len(seen) != 2 {
		t.Fatalf("Each visited %d entries, want 2", len(seen))
	}

	// Early stop.
	count := 0
	table.Each(func(Handle, any) bool {
		count++
		return false
	})
	if count != 1 {
		t.Fatalf("Each ignored early stop: %d", count)
	}
}
