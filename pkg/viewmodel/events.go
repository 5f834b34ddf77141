package viewmodel

// EventKind identifies a view model notification.
type EventKind int

const (
	TopRownoChanged EventKind = iota
	VisibleCountChanged
	CurrentRownoChanged
	NeedShowRowsCountChanged
	CheckStateChanged
	ModelRefreshed
)

// String returns the event name used in logs.
func (k EventKind) String() string {
	switch k {
	case TopRownoChanged:
		return "top-rowno-changed"
	case VisibleCountChanged:
		return "visible-count-changed"
	case CurrentRownoChanged:
		return "current-rowno-changed"
	case NeedShowRowsCountChanged:
		return "need-show-rows-count-changed"
	case CheckStateChanged:
		return "check-state-changed"
	case ModelRefreshed:
		return "model-refreshed"
	default:
		return "unknown"
	}
}

// Event is delivered to Subscribe sinks. Rowno carries the new top row or
// current row, Prev the previous current row and Count the new visible or
// scrollable row count, depending on Kind.
type Event struct {
	Kind  EventKind
	Rowno int
	Prev  int
	Count int
}

type listener[T any] struct {
	id int
	fn T
}

// listenerList keeps callbacks in registration order. Delivery iterates a
// snapshot so callbacks may unsubscribe themselves.
type listenerList[T any] struct {
	nextID int
	items  []listener[T]
}

func (l *listenerList[T]) add(fn T) func() {
	l.nextID++
	id := l.nextID
	l.items = append(l.items, listener[T]{id: id, fn: fn})
	return func() {
		for i, it := range l.items {
			if it.id == id {
				l.items = append(l.items[:i:i], l.items[i+1:]...)
				return
			}
		}
	}
}

func (l *listenerList[T]) snapshot() []listener[T] {
	if len(l.items) == 0 {
		return nil
	}
	out := make([]listener[T], len(l.items))
	copy(out, l.items)
	return out
}

func (l *listenerList[T]) reset() {
	l.items = nil
}

type listeners struct {
	top       listenerList[func(rowno int)]
	count     listenerList[func(count int)]
	current   listenerList[func(prev, rowno int)]
	needShow  listenerList[func(count int)]
	check     listenerList[func()]
	refreshed listenerList[func()]
	sink      listenerList[func(Event)]
}

func (ls *listeners) reset() {
	ls.top.reset()
	ls.count.reset()
	ls.current.reset()
	ls.needShow.reset()
	ls.check.reset()
	ls.refreshed.reset()
	ls.sink.reset()
}

// OnTopRownoChanged registers fn for window start changes. Calls to
// SetVisibleStartRow made from fn are ignored.
func (m *Model) OnTopRownoChanged(fn func(rowno int)) (unsubscribe func()) {
	return m.listeners.top.add(fn)
}

// OnVisibleCountChanged registers fn for window size changes.
func (m *Model) OnVisibleCountChanged(fn func(count int)) (unsubscribe func()) {
	return m.listeners.count.add(fn)
}

// OnCurrentRownoChanged registers fn for cursor moves.
func (m *Model) OnCurrentRownoChanged(fn func(prev, rowno int)) (unsubscribe func()) {
	return m.listeners.current.add(fn)
}

// OnNeedShowRowsCountChanged registers fn for changes of the scrollable row
// count, which is what a scrollbar is sized from.
func (m *Model) OnNeedShowRowsCountChanged(fn func(count int)) (unsubscribe func()) {
	return m.listeners.needShow.add(fn)
}

// OnCheckStateChanged registers fn, called once per check operation after
// propagation has settled.
func (m *Model) OnCheckStateChanged(fn func()) (unsubscribe func()) {
	return m.listeners.check.add(fn)
}

// OnModelRefreshed registers fn, called after every full rebuild.
func (m *Model) OnModelRefreshed(fn func()) (unsubscribe func()) {
	return m.listeners.refreshed.add(fn)
}

// Subscribe registers a sink that receives every notification as an Event,
// after the typed callbacks for it have run.
func (m *Model) Subscribe(fn func(Event)) (unsubscribe func()) {
	return m.listeners.sink.add(fn)
}

func (m *Model) emit(ev Event) {
	if m.destroyed {
		return
	}
	switch ev.Kind {
	case TopRownoChanged:
		release := m.topGuard.hold()
		defer release()
		for _, l := range m.listeners.top.snapshot() {
			l.fn(ev.Rowno)
		}
	case VisibleCountChanged:
		for _, l := range m.listeners.count.snapshot() {
			l.fn(ev.Count)
		}
	case CurrentRownoChanged:
		for _, l := range m.listeners.current.snapshot() {
			l.fn(ev.Prev, ev.Rowno)
		}
	case NeedShowRowsCountChanged:
		for _, l := range m.listeners.needShow.snapshot() {
			l.fn(ev.Count)
		}
	case CheckStateChanged:
		for _, l := range m.listeners.check.snapshot() {
			l.fn()
		}
	case ModelRefreshed:
		for _, l := range m.listeners.refreshed.snapshot() {
			l.fn()
		}
	}
	for _, l := range m.listeners.sink.snapshot() {
		l.fn(ev)
	}
}
