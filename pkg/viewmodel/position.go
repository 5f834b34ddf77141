package viewmodel

// NeedShowRowCount returns the number of scrollable rows: the visible
// sequence minus the frozen rows.
func (m *Model) NeedShowRowCount() int { return m.needShow }

// RownoToRecno maps a row to the record shown there, -1 when out of range.
// Negative rows address the frozen entries.
func (m *Model) RownoToRecno(rowno int) int {
	return m.recnoAt(rowno + m.fixedRows)
}

// RecnoToRowno maps a record to its row. ok is false when the record is
// hidden under a collapsed ancestor or out of range.
func (m *Model) RecnoToRowno(recno int) (rowno int, ok bool) {
	idx := m.indexOf(recno)
	if idx < 0 {
		return 0, false
	}
	return idx - m.fixedRows, true
}
