package ui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanderheijden86/treegrid/pkg/config"
	"github.com/vanderheijden86/treegrid/pkg/dataset"
	"github.com/vanderheijden86/treegrid/pkg/model"
	"github.com/vanderheijden86/treegrid/pkg/testutil"
	"github.com/vanderheijden86/treegrid/pkg/viewmodel"
)

// familyRecords is g > (p > c1, c2), s.
func familyRecords() []model.Record {
	return []model.Record{
		testutil.Rec("g", nil),
		testutil.Rec("p", "g"),
		testutil.Rec("c1", "p"),
		testutil.Rec("c2", "p"),
		testutil.Rec("s", "g"),
	}
}

func newTestGrid(t *testing.T, recs []model.Record, opts GridOptions, vmOpts ...viewmodel.Option) (*GridModel, *dataset.MemoryDataset) {
	t.Helper()
	ds := dataset.NewMemoryDataset(recs)
	vm, err := viewmodel.New(ds, vmOpts...)
	require.NoError(t, err)
	t.Cleanup(vm.Destroy)

	if opts.Theme == nil {
		theme := TestTheme()
		opts.Theme = &theme
	}
	if opts.View == (config.ViewConfig{}) {
		opts.View = config.DefaultConfig().View
	}
	g := NewGridModel(vm, ds, opts)
	t.Cleanup(g.Close)
	g.Update(tea.WindowSizeMsg{Width: 80, Height: 10})
	return g, ds
}

func press(g *GridModel, keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "up":
			msg = tea.KeyMsg{Type: tea.KeyUp}
		case "left":
			msg = tea.KeyMsg{Type: tea.KeyLeft}
		case "right":
			msg = tea.KeyMsg{Type: tea.KeyRight}
		case "space":
			msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		_, cmd = g.Update(msg)
	}
	return cmd
}

func currentKey(t *testing.T, g *GridModel) string {
	t.Helper()
	row, ok := g.vm.RowAt(g.vm.CurrentRowno())
	require.True(t, ok)
	return row.Key
}

func TestGridResizeSetsWindow(t *testing.T) {
	g, _ := newTestGrid(t, familyRecords(), GridOptions{})
	assert.Equal(t, 10-headerLines-footerLines, g.vm.VisibleCount())

	g.Update(tea.WindowSizeMsg{Width: 80, Height: 20})
	assert.Equal(t, 20-headerLines-footerLines, g.vm.VisibleCount())
}

func TestGridFrozenRowsReduceWindow(t *testing.T) {
	g, _ := newTestGrid(t, familyRecords(), GridOptions{}, viewmodel.WithFixedRows(1))
	// one frozen row plus its separator line
	assert.Equal(t, 10-headerLines-footerLines-2, g.vm.VisibleCount())
	view := g.View()
	assert.Contains(t, view, "─────")
}

func TestGridNavigation(t *testing.T) {
	g, _ := newTestGrid(t, familyRecords(), GridOptions{})
	assert.Equal(t, "g", currentKey(t, g))

	press(g, "down", "down")
	assert.Equal(t, "c1", currentKey(t, g))

	press(g, "G")
	assert.Equal(t, "s", currentKey(t, g))

	press(g, "g")
	assert.Equal(t, "g", currentKey(t, g))
}

func TestGridCollapseAndExpand(t *testing.T) {
	g, _ := newTestGrid(t, familyRecords(), GridOptions{})
	assert.Contains(t, g.View(), "c1")

	press(g, "left")
	assert.Equal(t, 1, g.vm.NeedShowRowCount())
	assert.NotContains(t, g.View(), "c1")

	press(g, "right")
	assert.Equal(t, 5, g.vm.NeedShowRowCount())

	press(g, "down", "down", "left")
	assert.Equal(t, "p", currentKey(t, g), "collapse on a leaf moves to the parent")

	press(g, "C")
	assert.Equal(t, 1, g.vm.NeedShowRowCount())
	press(g, "E")
	assert.Equal(t, 5, g.vm.NeedShowRowCount())
}

func TestGridCheckCorrelated(t *testing.T) {
	g, ds := newTestGrid(t, familyRecords(), GridOptions{})

	press(g, "down", "space")
	p, _ := ds.RecordAt(1)
	c2, _ := ds.RecordAt(3)
	root, _ := ds.RecordAt(0)
	assert.Equal(t, model.Checked, p.Selected)
	assert.Equal(t, model.Checked, c2.Selected)
	assert.Equal(t, model.Mixed, root.Selected)

	view := g.View()
	assert.Contains(t, view, "[x]")
	assert.Contains(t, view, "[-]")

	press(g, "space")
	p, _ = ds.RecordAt(1)
	assert.Equal(t, model.Unchecked, p.Selected)
}

func TestGridCheckChildrenAndAll(t *testing.T) {
	g, ds := newTestGrid(t, familyRecords(), GridOptions{})

	press(g, "down", "a")
	c1, _ := ds.RecordAt(2)
	assert.Equal(t, model.Checked, c1.Selected)

	press(g, "*")
	assert.True(t, g.vm.AllChecked())
	press(g, "*")
	for _, r := range ds.Records() {
		assert.Equal(t, model.Unchecked, r.Selected, r.Key)
	}
}

func TestGridOnlyChildrenLeavesAncestors(t *testing.T) {
	opts := GridOptions{View: config.ViewConfig{CorrelateCheck: true, OnlyChildren: true, Tree: true}}
	g, ds := newTestGrid(t, familyRecords(), opts)

	press(g, "down", "space")
	root, _ := ds.RecordAt(0)
	c1, _ := ds.RecordAt(2)
	assert.Equal(t, model.Unchecked, root.Selected)
	assert.Equal(t, model.Checked, c1.Selected)
	assert.True(t, g.vm.IsBold(0), "ancestor bold flags still follow")
}

func TestGridCopyKey(t *testing.T) {
	var copied string
	g, _ := newTestGrid(t, familyRecords(), GridOptions{
		Clipboard: func(s string) error {
			copied = s
			return nil
		},
	})
	press(g, "down", "y")
	assert.Equal(t, "p", copied)
	msg, isErr := g.Status()
	assert.False(t, isErr)
	assert.Contains(t, msg, "Copied p")

	g.opts.Clipboard = func(string) error { return errors.New("no clipboard") }
	press(g, "y")
	msg, isErr = g.Status()
	assert.True(t, isErr)
	assert.Contains(t, msg, "no clipboard")
}

func TestGridHelpToggle(t *testing.T) {
	g, _ := newTestGrid(t, familyRecords(), GridOptions{})
	press(g, "?")
	require.True(t, g.ShowingHelp())
	assert.Contains(t, g.View(), "treegrid")

	press(g, "down")
	assert.Equal(t, "g", currentKey(t, g), "keys are swallowed while help is open")

	press(g, "esc")
	assert.False(t, g.ShowingHelp())
}

func TestGridQuit(t *testing.T) {
	g, _ := newTestGrid(t, familyRecords(), GridOptions{})
	cmd := press(g, "q")
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

// The scrollbar and the window move together whichever side starts the
// change.
func TestGridScrollbarFollowsWindow(t *testing.T) {
	g, _ := newTestGrid(t, testutil.NewDefault().Flat(50), GridOptions{})

	g.Update(tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonWheelDown})
	assert.Equal(t, wheelStep, g.vm.VisibleStartRow())
	assert.Equal(t, wheelStep, g.scroll.value)

	press(g, "G")
	assert.Equal(t, 50-g.vm.VisibleCount(), g.vm.VisibleStartRow())
	assert.Equal(t, g.vm.VisibleStartRow(), g.scroll.value)

	g.Update(tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonWheelUp})
	assert.Equal(t, g.scroll.value, g.vm.VisibleStartRow())
	assert.Contains(t, g.View(), "%")
}

func TestGridReloadKeepsFlagsAndCursor(t *testing.T) {
	g, ds := newTestGrid(t, familyRecords(), GridOptions{})
	press(g, "down", "down", "space")
	require.Equal(t, "c1", currentKey(t, g))

	reloaded := append(familyRecords(), testutil.Rec("n", "g"))
	g.Update(ReloadedMsg{Records: reloaded})

	assert.Equal(t, 6, ds.RecordCount())
	c1, _ := ds.RecordAt(2)
	assert.Equal(t, model.Checked, c1.Selected)
	assert.Equal(t, "c1", currentKey(t, g))

	msg, isErr := g.Status()
	assert.False(t, isErr)
	assert.Equal(t, "Reloaded: 1 added", msg)
	assert.Contains(t, g.View(), "n")
}

func TestGridReloadError(t *testing.T) {
	g, ds := newTestGrid(t, familyRecords(), GridOptions{})
	g.Update(ReloadedMsg{Err: errors.New("boom")})
	msg, isErr := g.Status()
	assert.True(t, isErr)
	assert.Contains(t, msg, "boom")
	assert.Equal(t, 5, ds.RecordCount())
}

func TestGridFileChangedRunsReload(t *testing.T) {
	calls := 0
	g, _ := newTestGrid(t, familyRecords(), GridOptions{
		Reload: func(context.Context) ([]model.Record, error) {
			calls++
			return familyRecords()[:2], nil
		},
	})

	_, cmd := g.Update(FileChangedMsg{Path: "records.jsonl"})
	require.NotNil(t, cmd)
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		require.Len(t, batch, 1)
		msg = batch[0]()
	}
	require.IsType(t, ReloadedMsg{}, msg)
	assert.Equal(t, 1, calls)

	g.Update(msg)
	status, _ := g.Status()
	assert.Equal(t, "Reloaded: 3 removed", status)
}

func TestGridViewBeforeResize(t *testing.T) {
	ds := dataset.NewMemoryDataset(familyRecords())
	vm, err := viewmodel.New(ds)
	require.NoError(t, err)
	defer vm.Destroy()
	theme := TestTheme()
	g := NewGridModel(vm, ds, GridOptions{Theme: &theme})
	defer g.Close()
	assert.Equal(t, "Loading...", g.View())
	assert.Nil(t, g.Init())
}

func TestRenderRowUsesTitles(t *testing.T) {
	recs := familyRecords()
	recs[1].Title = "Parent record"
	g, _ := newTestGrid(t, recs, GridOptions{})
	view := g.View()
	assert.Contains(t, view, "Parent record")
	assert.True(t, strings.Contains(view, "├─") || strings.Contains(view, "└─"))
}

func TestTruncateRunesHelper(t *testing.T) {
	assert.Equal(t, "abc", truncateRunesHelper("abc", 5, "…"))
	assert.Equal(t, "ab…", truncateRunesHelper("abcdef", 3, "…"))
	assert.Equal(t, "", truncateRunesHelper("abc", 0, "…"))
	assert.Equal(t, "日…", truncateRunesHelper("日本語", 3, "…"))
}
