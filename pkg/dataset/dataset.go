// Package dataset defines the record-store contract consumed by the view
// model and an in-memory implementation of it.
//
// A Dataset has a current record (its recno). Field accessors read and write
// the current record. Navigation comes in two flavours: SetRecno fires store
// events, RecnoSilence does not and is used by the view model to walk the
// store without triggering notification storms.
package dataset

import (
	"errors"

	"github.com/vanderheijden86/treegrid/pkg/model"
)

// Common errors.
var (
	ErrRecnoOutOfRange = errors.New("recno out of range")
	ErrEmpty           = errors.New("dataset is empty")
)

// EventKind identifies a store-level notification.
type EventKind int

const (
	// EventRecordChanged fires when the current record moves through SetRecno.
	EventRecordChanged EventKind = iota
	// EventStructureChanged fires after insert, delete or requery.
	EventStructureChanged
	// EventFieldChanged fires after a field write on the current record.
	EventFieldChanged
)

// String returns the event name used in logs.
func (k EventKind) String() string {
	switch k {
	case EventRecordChanged:
		return "record-changed"
	case EventStructureChanged:
		return "structure-changed"
	case EventFieldChanged:
		return "field-changed"
	default:
		return "unknown"
	}
}

// Event is delivered to dataset subscribers.
type Event struct {
	Kind  EventKind
	Recno int
	Prev  int
	Field string
}

// Dataset is the narrow accessor contract the view model needs from a
// record store.
type Dataset interface {
	RecordCount() int

	// Recno returns the current record index, -1 when the store is empty.
	Recno() int
	// SetRecno navigates and fires EventRecordChanged.
	SetRecno(n int) error
	// RecnoSilence navigates without firing events and returns the previous
	// recno. Out-of-range values are ignored.
	RecnoSilence(n int) int

	KeyValue() any
	ParentValue() any

	Expanded() bool
	SetExpanded(v bool) error
	Selected() model.CheckState
	SetSelected(v model.CheckState) error

	// Confirm flushes any pending edit before navigation.
	Confirm() error

	// Subscribe registers fn for store events and returns a func that
	// removes it.
	Subscribe(fn func(Event)) (unsubscribe func())
}
