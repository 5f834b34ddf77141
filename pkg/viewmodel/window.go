package viewmodel

import "fmt"

// VisibleStartRow returns the first row of the scrollable window.
func (m *Model) VisibleStartRow() int { return m.visibleStart }

// VisibleCount returns the window size.
func (m *Model) VisibleCount() int { return m.visibleCount }

// VisibleEndRow returns the last row inside the window, VisibleStartRow-1
// when the window shows nothing.
func (m *Model) VisibleEndRow() int {
	return min(m.visibleStart+m.visibleCount, m.needShow) - 1
}

func (m *Model) maxStart() int {
	return max(0, m.needShow-m.visibleCount)
}

// SetVisibleStartRow moves the window, clamped to [0, NeedShowRowCount -
// VisibleCount]. Calls made while TopRownoChanged is being delivered are
// ignored.
func (m *Model) SetVisibleStartRow(row int) {
	if m.destroyed {
		return
	}
	if m.topGuard.held() {
		m.log.Debug().Int("row", row).Msg("nested top row change ignored")
		return
	}
	m.setVisibleStart(row)
}

// SetVisibleEndRow moves the window so that row is its last row.
func (m *Model) SetVisibleEndRow(row int) {
	m.SetVisibleStartRow(row - m.visibleCount + 1)
}

func (m *Model) setVisibleStart(row int) {
	row = max(0, min(row, m.maxStart()))
	if row == m.visibleStart {
		return
	}
	m.visibleStart = row
	if m.topGuard.held() {
		return
	}
	m.emit(Event{Kind: TopRownoChanged, Rowno: row})
}

// SetVisibleCount resizes the window and re-clamps its start.
func (m *Model) SetVisibleCount(n int) {
	if m.destroyed {
		return
	}
	n = max(0, n)
	if n == m.visibleCount {
		return
	}
	m.visibleCount = n
	m.emit(Event{Kind: VisibleCountChanged, Count: n})
	m.setVisibleStart(m.visibleStart)
}

// scrollIntoView shifts the window the minimum amount needed to show rowno.
// Frozen rows are always shown.
func (m *Model) scrollIntoView(rowno int) {
	if rowno < 0 || m.visibleCount == 0 {
		return
	}
	switch {
	case rowno < m.visibleStart:
		m.setVisibleStart(rowno)
	case rowno >= m.visibleStart+m.visibleCount:
		m.setVisibleStart(rowno - m.visibleCount + 1)
	}
}

// CurrentRowOption tunes SetCurrentRowno.
type CurrentRowOption func(*currentRowOptions)

type currentRowOptions struct {
	suppressNotify bool
	ensureInWindow bool
}

// SuppressNotify navigates the dataset silently and skips
// CurrentRownoChanged.
func SuppressNotify() CurrentRowOption {
	return func(o *currentRowOptions) { o.suppressNotify = true }
}

// EnsureInWindow scrolls the window so the new current row is shown.
func EnsureInWindow() CurrentRowOption {
	return func(o *currentRowOptions) { o.ensureInWindow = true }
}

// SetCurrentRowno moves the cursor, clamped to the valid rows, and moves the
// dataset's current record along with it.
func (m *Model) SetCurrentRowno(rowno int, opts ...CurrentRowOption) error {
	if m.destroyed {
		return ErrDestroyed
	}
	var o currentRowOptions
	for _, opt := range opts {
		opt(&o)
	}

	prevRow, prevRec := m.curRowno, m.curRecno
	recno := -1
	if m.total == 0 {
		rowno = 0
	} else {
		rowno = max(-m.fixedRows, min(rowno, m.total-m.fixedRows-1))
		recno = m.RownoToRecno(rowno)
	}

	if recno >= 0 && m.ds.Recno() != recno {
		release := m.storeGuard.hold()
		if o.suppressNotify {
			m.ds.RecnoSilence(recno)
		} else if err := m.ds.SetRecno(recno); err != nil {
			release()
			return fmt.Errorf("move to record %d: %w", recno, err)
		}
		release()
	}

	m.curRowno, m.curRecno = rowno, recno
	if o.ensureInWindow {
		m.scrollIntoView(rowno)
	}
	if !o.suppressNotify && (prevRow != rowno || prevRec != recno) {
		m.emit(Event{Kind: CurrentRownoChanged, Rowno: rowno, Prev: prevRow})
	}
	return nil
}

// restoreCurrent re-derives the cursor row from curRecno after the visible
// sequence changed. A record hidden under a collapsed ancestor hands the
// cursor to its nearest visible ancestor.
func (m *Model) restoreCurrent() error {
	target := m.curRowno
	if m.curRecno >= 0 && m.curRecno < m.recordCount() {
		if m.tree {
			n := int32(m.curRecno)
			for n != none && m.rowOf[n] == none {
				n = m.nodes[n].parent
			}
			if n != none {
				target = int(m.rowOf[n]) - m.fixedRows
			}
		} else {
			target = m.curRecno - m.fixedRows
		}
	}
	return m.SetCurrentRowno(target, EnsureInWindow())
}

// NextRow confirms pending edits and moves the cursor one row down.
func (m *Model) NextRow() error {
	if err := m.confirm(); err != nil {
		return err
	}
	return m.SetCurrentRowno(m.curRowno+1, EnsureInWindow())
}

// PriorRow confirms pending edits and moves the cursor one row up.
func (m *Model) PriorRow() error {
	if err := m.confirm(); err != nil {
		return err
	}
	return m.SetCurrentRowno(m.curRowno-1, EnsureInWindow())
}

// NextPage confirms pending edits, shifts the window down by one page and
// puts the cursor on the new top row.
func (m *Model) NextPage() error {
	if err := m.confirm(); err != nil {
		return err
	}
	m.setVisibleStart(m.visibleStart + m.visibleCount)
	return m.SetCurrentRowno(m.visibleStart)
}

// PriorPage confirms pending edits, shifts the window up by one page and
// puts the cursor on the new top row.
func (m *Model) PriorPage() error {
	if err := m.confirm(); err != nil {
		return err
	}
	m.setVisibleStart(m.visibleStart - m.visibleCount)
	return m.SetCurrentRowno(m.visibleStart)
}

// First moves the cursor to the first scrollable row.
func (m *Model) First() error {
	if err := m.confirm(); err != nil {
		return err
	}
	return m.SetCurrentRowno(0, EnsureInWindow())
}

// Last moves the cursor to the last row.
func (m *Model) Last() error {
	if err := m.confirm(); err != nil {
		return err
	}
	return m.SetCurrentRowno(m.needShow-1, EnsureInWindow())
}

func (m *Model) confirm() error {
	if m.destroyed {
		return ErrDestroyed
	}
	if err := m.ds.Confirm(); err != nil {
		return fmt.Errorf("confirm pending edit: %w", err)
	}
	return nil
}
