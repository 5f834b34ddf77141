package dataset

import (
	"fmt"

	"github.com/vanderheijden86/treegrid/pkg/model"
)

// Validator inspects a pending field write on the current record. A non-nil
// error rejects the write and is returned unchanged by the setter.
type Validator func(field string, rec model.Record, value any) error

// MemoryOption configures a MemoryDataset.
type MemoryOption func(*MemoryDataset)

// WithValidator installs a write validator.
func WithValidator(v Validator) MemoryOption {
	return func(d *MemoryDataset) {
		d.validator = v
	}
}

type subscriber struct {
	id int
	fn func(Event)
}

// MemoryDataset is a slice-backed Dataset. It is not safe for concurrent
// use; the owning control serializes access.
type MemoryDataset struct {
	records   []model.Record
	recno     int
	validator Validator

	pending map[string]any

	subs   []subscriber
	nextID int
}

var _ Dataset = (*MemoryDataset)(nil)

// NewMemoryDataset copies records into a new store positioned on the first
// record.
func NewMemoryDataset(records []model.Record, opts ...MemoryOption) *MemoryDataset {
	d := &MemoryDataset{
		records: append([]model.Record(nil), records...),
		recno:   -1,
	}
	if len(d.records) > 0 {
		d.recno = 0
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// RecordCount implements Dataset.
func (d *MemoryDataset) RecordCount() int { return len(d.records) }

// Recno implements Dataset.
func (d *MemoryDataset) Recno() int { return d.recno }

// SetRecno implements Dataset.
func (d *MemoryDataset) SetRecno(n int) error {
	if n < 0 || n >= len(d.records) {
		return fmt.Errorf("set recno %d: %w", n, ErrRecnoOutOfRange)
	}
	if n == d.recno {
		return nil
	}
	prev := d.recno
	d.recno = n
	d.publish(Event{Kind: EventRecordChanged, Recno: n, Prev: prev})
	return nil
}

// RecnoSilence implements Dataset.
func (d *MemoryDataset) RecnoSilence(n int) int {
	prev := d.recno
	if n >= 0 && n < len(d.records) {
		d.recno = n
	}
	return prev
}

func (d *MemoryDataset) current() *model.Record {
	if d.recno < 0 || d.recno >= len(d.records) {
		return nil
	}
	return &d.records[d.recno]
}

// KeyValue implements Dataset.
func (d *MemoryDataset) KeyValue() any {
	if rec := d.current(); rec != nil {
		return rec.Key
	}
	return nil
}

// ParentValue implements Dataset.
func (d *MemoryDataset) ParentValue() any {
	if rec := d.current(); rec != nil {
		return rec.Parent
	}
	return nil
}

// Expanded implements Dataset.
func (d *MemoryDataset) Expanded() bool {
	if rec := d.current(); rec != nil {
		return rec.Expanded
	}
	return false
}

// SetExpanded implements Dataset.
func (d *MemoryDataset) SetExpanded(v bool) error {
	rec := d.current()
	if rec == nil {
		return fmt.Errorf("set expanded: %w", ErrEmpty)
	}
	if rec.Expanded == v {
		return nil
	}
	if err := d.validate("expanded", *rec, v); err != nil {
		return err
	}
	rec.Expanded = v
	d.publish(Event{Kind: EventFieldChanged, Recno: d.recno, Prev: d.recno, Field: "expanded"})
	return nil
}

// Selected implements Dataset.
func (d *MemoryDataset) Selected() model.CheckState {
	if rec := d.current(); rec != nil {
		return rec.Selected
	}
	return model.Unchecked
}

// SetSelected implements Dataset.
func (d *MemoryDataset) SetSelected(v model.CheckState) error {
	rec := d.current()
	if rec == nil {
		return fmt.Errorf("set selected: %w", ErrEmpty)
	}
	if !v.Valid() {
		return fmt.Errorf("set selected: invalid state %d", int(v))
	}
	if rec.Selected == v {
		return nil
	}
	if err := d.validate("selected", *rec, v); err != nil {
		return err
	}
	rec.Selected = v
	d.publish(Event{Kind: EventFieldChanged, Recno: d.recno, Prev: d.recno, Field: "selected"})
	return nil
}

// Record returns a copy of the current record.
func (d *MemoryDataset) Record() (model.Record, bool) {
	if rec := d.current(); rec != nil {
		return *rec, true
	}
	return model.Record{}, false
}

// RecordAt returns a copy of the record at recno.
func (d *MemoryDataset) RecordAt(recno int) (model.Record, bool) {
	if recno < 0 || recno >= len(d.records) {
		return model.Record{}, false
	}
	return d.records[recno], true
}

// Records returns a copy of every record in physical order.
func (d *MemoryDataset) Records() []model.Record {
	return append([]model.Record(nil), d.records...)
}

// SetField stages an edit of a free-form field on the current record. The
// edit is applied by Confirm.
func (d *MemoryDataset) SetField(name string, value any) error {
	if d.current() == nil {
		return fmt.Errorf("set field %s: %w", name, ErrEmpty)
	}
	if d.pending == nil {
		d.pending = make(map[string]any)
	}
	d.pending[name] = value
	return nil
}

// Pending reports whether an unconfirmed edit exists.
func (d *MemoryDataset) Pending() bool { return len(d.pending) > 0 }

// Confirm implements Dataset. Pending edits are validated and written to the
// current record; a rejected edit stays pending.
func (d *MemoryDataset) Confirm() error {
	if len(d.pending) == 0 {
		return nil
	}
	rec := d.current()
	if rec == nil {
		d.pending = nil
		return nil
	}
	for name, value := range d.pending {
		if err := d.validate(name, *rec, value); err != nil {
			return err
		}
	}
	for name, value := range d.pending {
		if name == "title" {
			if s, ok := value.(string); ok {
				rec.Title = s
				continue
			}
		}
		if rec.Fields == nil {
			rec.Fields = make(map[string]any)
		}
		rec.Fields[name] = value
	}
	d.pending = nil
	d.publish(Event{Kind: EventFieldChanged, Recno: d.recno, Prev: d.recno})
	return nil
}

// Insert places rec at recno (clamped to the valid range) and makes it
// current.
func (d *MemoryDataset) Insert(recno int, rec model.Record) {
	if recno < 0 {
		recno = 0
	}
	if recno > len(d.records) {
		recno = len(d.records)
	}
	d.records = append(d.records, model.Record{})
	copy(d.records[recno+1:], d.records[recno:])
	d.records[recno] = rec
	d.pending = nil
	d.recno = recno
	d.publish(Event{Kind: EventStructureChanged, Recno: recno, Prev: -1})
}

// Append adds rec at the end of the store.
func (d *MemoryDataset) Append(rec model.Record) {
	d.Insert(len(d.records), rec)
}

// Delete removes the record at recno.
func (d *MemoryDataset) Delete(recno int) error {
	if recno < 0 || recno >= len(d.records) {
		return fmt.Errorf("delete %d: %w", recno, ErrRecnoOutOfRange)
	}
	d.records = append(d.records[:recno], d.records[recno+1:]...)
	d.pending = nil
	prev := d.recno
	if d.recno >= len(d.records) {
		d.recno = len(d.records) - 1
	}
	d.publish(Event{Kind: EventStructureChanged, Recno: d.recno, Prev: prev})
	return nil
}

// Requery replaces the whole content, keeping the current recno when it is
// still in range.
func (d *MemoryDataset) Requery(records []model.Record) {
	d.records = append(d.records[:0:0], records...)
	d.pending = nil
	prev := d.recno
	switch {
	case len(d.records) == 0:
		d.recno = -1
	case d.recno < 0:
		d.recno = 0
	case d.recno >= len(d.records):
		d.recno = len(d.records) - 1
	}
	d.publish(Event{Kind: EventStructureChanged, Recno: d.recno, Prev: prev})
}

// Subscribe implements Dataset.
func (d *MemoryDataset) Subscribe(fn func(Event)) func() {
	d.nextID++
	id := d.nextID
	d.subs = append(d.subs, subscriber{id: id, fn: fn})
	return func() {
		for i, s := range d.subs {
			if s.id == id {
				d.subs = append(d.subs[:i:i], d.subs[i+1:]...)
				return
			}
		}
	}
}

func (d *MemoryDataset) publish(ev Event) {
	// Copy so a subscriber may unsubscribe during delivery.
	subs := append([]subscriber(nil), d.subs...)
	for _, s := range subs {
		s.fn(ev)
	}
}

func (d *MemoryDataset) validate(field string, rec model.Record, value any) error {
	if d.validator == nil {
		return nil
	}
	return d.validator(field, rec, value)
}
