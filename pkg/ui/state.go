package ui

import (
	"fmt"

	"github.com/vanderheijden86/treegrid/internal/datasource"
	"github.com/vanderheijden86/treegrid/pkg/dataset"
	"github.com/vanderheijden86/treegrid/pkg/model"
	"github.com/vanderheijden86/treegrid/pkg/viewmodel"
)

// CaptureFlags returns the flags of ds that differ from base. The expand
// flag of every node with children is stored explicitly, since a rebuild
// may expand nodes whose source flag is already false.
func CaptureFlags(vm *viewmodel.Model, ds *dataset.MemoryDataset, base []model.Record) *datasource.State {
	current := ds.Records()
	st := datasource.CaptureState(base, current)
	if !vm.IsTree() {
		return st
	}
	for recno, r := range current {
		if vm.HasChildren(recno) {
			st.Expanded[model.KeyString(r.Key)] = vm.IsExpanded(recno)
		}
	}
	return st
}

// RestoreCollapsed collapses the nodes st marks collapsed that the last
// build expanded. The cursor stays put when it is still visible.
func RestoreCollapsed(vm *viewmodel.Model, ds *dataset.MemoryDataset, st *datasource.State) error {
	if !vm.IsTree() {
		return nil
	}
	collapsed := st.Collapsed(ds.Records())
	if len(collapsed) == 0 {
		return nil
	}
	keep := ds.Recno()
	for _, recno := range collapsed {
		if !vm.HasChildren(recno) || !vm.IsExpanded(recno) {
			continue
		}
		if err := vm.Collapse(recno); err != nil {
			return fmt.Errorf("restore collapsed record %d: %w", recno, err)
		}
	}
	switch {
	case keep < 0:
		return nil
	case vm.IsVisible(keep):
		return ds.SetRecno(keep)
	default:
		return vm.First()
	}
}
