// Package ui is the bubbletea front end of treegrid. GridModel renders
// the window of a view model and maps keys onto its operations.
package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/vanderheijden86/treegrid/internal/datasource"
	"github.com/vanderheijden86/treegrid/pkg/config"
	"github.com/vanderheijden86/treegrid/pkg/dataset"
	"github.com/vanderheijden86/treegrid/pkg/debug"
	"github.com/vanderheijden86/treegrid/pkg/export"
	"github.com/vanderheijden86/treegrid/pkg/metrics"
	"github.com/vanderheijden86/treegrid/pkg/model"
	"github.com/vanderheijden86/treegrid/pkg/viewmodel"
	"github.com/vanderheijden86/treegrid/pkg/watcher"
)

// Lines used by the header and the footer.
const (
	headerLines = 1
	footerLines = 2
	wheelStep   = 3
)

// FileChangedMsg is sent when a watched record file changes on disk
type FileChangedMsg struct {
	Path string
}

// ReloadedMsg carries the records read after a file change.
type ReloadedMsg struct {
	Records []model.Record
	Err     error
}

// WatchFileCmd returns a command that waits for file changes and sends FileChangedMsg
func WatchFileCmd(w *watcher.Watcher) tea.Cmd {
	return func() tea.Msg {
		return FileChangedMsg{Path: <-w.Changed()}
	}
}

// ReloadFunc reads the record files again.
type ReloadFunc func(ctx context.Context) ([]model.Record, error)

// GridOptions configures a GridModel.
type GridOptions struct {
	Title string
	View  config.ViewConfig
	// Watcher triggers reloads; nil disables them.
	Watcher *watcher.Watcher
	Reload  ReloadFunc
	// Base is the record set as read from the sources. Reloads carry over
	// the flags that differ from it. Defaults to the dataset content.
	Base []model.Record
	// Label returns the row text; defaults to the record title.
	Label export.LabelFunc
	// Clipboard defaults to the system clipboard.
	Clipboard func(string) error
	Theme     *Theme
}

// GridModel is the bubbletea model of the grid. It owns no rows itself:
// every frame is rendered from the view model window.
type GridModel struct {
	vm    *viewmodel.Model
	ds    *dataset.MemoryDataset
	opts  GridOptions
	theme Theme
	keys  KeyMap
	help  help.Model
	log   zerolog.Logger

	width, height int
	ready         bool
	showHelp      bool
	helpView      string

	scroll        scrollbar
	base          []model.Record
	statusMsg     string
	statusIsError bool
	unsubscribe   []func()
}

// NewGridModel binds a grid to vm, whose dataset must be ds.
func NewGridModel(vm *viewmodel.Model, ds *dataset.MemoryDataset, opts GridOptions) *GridModel {
	g := &GridModel{
		vm:   vm,
		ds:   ds,
		opts: opts,
		keys: DefaultKeyMap(),
		help: help.New(),
		log:  debug.Component("ui"),
		base: opts.Base,
	}
	if g.base == nil {
		g.base = ds.Records()
	}
	if opts.Theme != nil {
		g.theme = *opts.Theme
	} else {
		g.theme = DefaultTheme(lipgloss.DefaultRenderer())
	}
	if g.opts.Label == nil {
		g.opts.Label = g.titleLabel
	}
	if g.opts.Clipboard == nil {
		g.opts.Clipboard = clipboard.WriteAll
	}

	g.scroll = scrollbar{
		value: vm.VisibleStartRow(),
		total: vm.NeedShowRowCount(),
		page:  vm.VisibleCount(),
		onChange: func(v int) {
			g.vm.SetVisibleStartRow(v)
		},
	}
	g.unsubscribe = append(g.unsubscribe,
		vm.OnTopRownoChanged(func(rowno int) {
			g.scroll.SetValue(rowno)
		}),
		vm.OnNeedShowRowsCountChanged(func(n int) {
			g.scroll.total = n
		}),
		vm.OnVisibleCountChanged(func(n int) {
			g.scroll.page = n
		}),
	)
	return g
}

// Close drops the view model subscriptions.
func (g *GridModel) Close() {
	for _, u := range g.unsubscribe {
		u()
	}
	g.unsubscribe = nil
}

// ViewModel returns the bound view model.
func (g *GridModel) ViewModel() *viewmodel.Model { return g.vm }

// Status returns the current status line text and whether it is an error.
func (g *GridModel) Status() (string, bool) { return g.statusMsg, g.statusIsError }

// ShowingHelp reports whether the help page is open.
func (g *GridModel) ShowingHelp() bool { return g.showHelp }

func (g *GridModel) titleLabel(r viewmodel.Row) string {
	if rec, ok := g.ds.RecordAt(r.Recno); ok && rec.Title != "" {
		return rec.Title
	}
	return r.Key
}

// Init implements tea.Model.
func (g *GridModel) Init() tea.Cmd {
	if g.opts.Watcher != nil {
		return WatchFileCmd(g.opts.Watcher)
	}
	return nil
}

// Update implements tea.Model.
func (g *GridModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		g.resize(msg.Width, msg.Height)
		return g, nil

	case tea.MouseMsg:
		if msg.Action != tea.MouseActionPress {
			return g, nil
		}
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			g.scroll.SetValue(g.scroll.value - wheelStep)
		case tea.MouseButtonWheelDown:
			g.scroll.SetValue(g.scroll.value + wheelStep)
		}
		return g, nil

	case FileChangedMsg:
		var cmds []tea.Cmd
		if g.opts.Reload != nil {
			reload := g.opts.Reload
			cmds = append(cmds, func() tea.Msg {
				recs, err := reload(context.Background())
				return ReloadedMsg{Records: recs, Err: err}
			})
		}
		if g.opts.Watcher != nil {
			cmds = append(cmds, WatchFileCmd(g.opts.Watcher))
		}
		return g, tea.Batch(cmds...)

	case ReloadedMsg:
		g.applyReload(msg)
		return g, nil

	case tea.KeyMsg:
		return g, g.handleKey(msg)
	}
	return g, nil
}

func (g *GridModel) resize(width, height int) {
	g.width, g.height = width, height
	g.ready = true
	g.help.Width = width
	g.helpView = ""
	g.vm.SetVisibleCount(g.windowHeight())
}

// windowHeight is the number of scrollable lines left after chrome and
// frozen rows.
func (g *GridModel) windowHeight() int {
	frozen := min(g.vm.FixedRows(), g.vm.Len())
	chrome := headerLines + footerLines
	if frozen > 0 {
		chrome++
	}
	return max(1, g.height-chrome-frozen)
}

func (g *GridModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	if g.showHelp {
		switch {
		case key.Matches(msg, g.keys.Quit):
			return tea.Quit
		case key.Matches(msg, g.keys.Help), msg.Type == tea.KeyEsc:
			g.showHelp = false
		}
		return nil
	}

	var err error
	correlate := g.opts.View.CorrelateCheck
	switch {
	case key.Matches(msg, g.keys.Quit):
		return tea.Quit
	case key.Matches(msg, g.keys.Help):
		g.showHelp = true
		return nil
	case key.Matches(msg, g.keys.Up):
		err = g.vm.PriorRow()
	case key.Matches(msg, g.keys.Down):
		err = g.vm.NextRow()
	case key.Matches(msg, g.keys.PageUp):
		err = g.vm.PriorPage()
	case key.Matches(msg, g.keys.PageDown):
		err = g.vm.NextPage()
	case key.Matches(msg, g.keys.Home):
		err = g.vm.First()
	case key.Matches(msg, g.keys.End):
		err = g.vm.Last()
	case key.Matches(msg, g.keys.Expand):
		err = g.vm.ExpandCurrent()
	case key.Matches(msg, g.keys.Collapse):
		err = g.vm.CollapseCurrent()
	case key.Matches(msg, g.keys.ExpandAll):
		err = g.vm.ExpandAll()
	case key.Matches(msg, g.keys.CollapseAll):
		err = g.vm.CollapseAll()
	case key.Matches(msg, g.keys.Check):
		if g.opts.View.OnlyChildren {
			err = g.vm.CheckNode(g.nextState(g.vm.CurrentRecno()), correlate, true)
		} else {
			err = g.vm.ToggleCheck(correlate)
		}
	case key.Matches(msg, g.keys.CheckKids):
		err = g.checkChildren(correlate)
	case key.Matches(msg, g.keys.CheckAll):
		state := model.Checked
		if g.vm.AllChecked() {
			state = model.Unchecked
		}
		err = g.vm.CheckAll(state)
	case key.Matches(msg, g.keys.Copy):
		g.copyKey()
		return nil
	default:
		return nil
	}

	if err != nil {
		g.log.Warn().Err(err).Str("key", msg.String()).Msg("grid action failed")
		g.setStatus(err.Error(), true)
	} else {
		g.statusMsg = ""
	}
	return nil
}

// checkChildren checks the children of the current row, or unchecks them
// when the row is already fully checked.
func (g *GridModel) checkChildren(correlate bool) error {
	cur := g.vm.CurrentRecno()
	if cur < 0 || !g.vm.HasChildren(cur) {
		return nil
	}
	return g.vm.CheckChildNodes(g.nextState(cur), correlate)
}

// nextState is the state a toggle moves recno to.
func (g *GridModel) nextState(recno int) model.CheckState {
	if g.vm.CheckState(recno) == model.Checked {
		return model.Unchecked
	}
	return model.Checked
}

func (g *GridModel) copyKey() {
	row, ok := g.vm.RowAt(g.vm.CurrentRowno())
	if !ok {
		return
	}
	if err := g.opts.Clipboard(row.Key); err != nil {
		g.setStatus(fmt.Sprintf("Clipboard error: %v", err), true)
		return
	}
	g.setStatus(fmt.Sprintf("Copied %s to clipboard", row.Key), false)
}

func (g *GridModel) setStatus(msg string, isErr bool) {
	g.statusMsg = msg
	g.statusIsError = isErr
}

// applyReload swaps in reloaded records. Flags the user changed since the
// last load are carried over and the cursor stays on the same key.
func (g *GridModel) applyReload(msg ReloadedMsg) {
	if msg.Err != nil {
		g.log.Warn().Err(msg.Err).Msg("reload failed")
		g.setStatus(fmt.Sprintf("Reload failed: %v", msg.Err), true)
		return
	}

	current := g.ds.Records()
	diff := datasource.DiffRecords(current, msg.Records)
	state := CaptureFlags(g.vm, g.ds, g.base)

	g.base = append([]model.Record(nil), msg.Records...)
	recs := append([]model.Record(nil), msg.Records...)
	state.Apply(recs)

	var curKey string
	if rec, ok := g.ds.Record(); ok {
		curKey = model.KeyString(rec.Key)
	}
	g.ds.Requery(recs)
	for i, r := range recs {
		if curKey != "" && model.KeyString(r.Key) == curKey {
			if i != g.ds.Recno() {
				if err := g.ds.SetRecno(i); err != nil {
					g.log.Warn().Err(err).Msg("restore cursor after reload")
				}
			}
			break
		}
	}
	if err := RestoreCollapsed(g.vm, g.ds, state); err != nil {
		g.log.Warn().Err(err).Msg("restore collapsed nodes after reload")
	}

	if issues := datasource.CheckOrder(recs); len(issues) > 0 {
		g.log.Warn().Int("count", len(issues)).Str("first", issues[0].String()).Msg("records out of order")
	}
	g.log.Info().Str("diff", diff.Summary()).Int("records", len(recs)).Msg("reloaded")
	g.setStatus("Reloaded: "+diff.Summary(), false)
}

// View implements tea.Model.
func (g *GridModel) View() string {
	defer metrics.Timer(metrics.UIRender)()

	if !g.ready {
		return "Loading..."
	}
	if g.showHelp {
		if g.helpView == "" {
			g.helpView = renderHelp(g.width)
		}
		return g.helpView
	}

	var b strings.Builder
	b.WriteString(g.renderHeader())
	b.WriteByte('\n')

	rows := g.vm.VisibleRows()
	frozen := 0
	for _, r := range rows {
		if r.Fixed {
			frozen++
		}
	}
	bar := g.scroll.Render(g.windowHeight(), g.theme)
	contentWidth := max(1, g.width-1)

	lines := 0
	for i, r := range rows {
		if i == frozen && frozen > 0 {
			b.WriteString(g.theme.Separator.Render(strings.Repeat("─", g.width)))
			b.WriteByte('\n')
		}
		line := g.renderRow(r, contentWidth)
		if !r.Fixed {
			if lines < len(bar) {
				line += bar[lines]
			}
			lines++
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	for ; lines < g.windowHeight(); lines++ {
		b.WriteString(strings.Repeat(" ", contentWidth))
		if lines < len(bar) {
			b.WriteString(bar[lines])
		}
		b.WriteByte('\n')
	}

	b.WriteString(g.renderStatus())
	b.WriteByte('\n')
	b.WriteString(g.help.View(g.keys))
	return b.String()
}

func (g *GridModel) renderHeader() string {
	title := g.opts.Title
	if title == "" {
		title = "treegrid"
	}
	pos := "0/0"
	if n := g.vm.NeedShowRowCount(); n > 0 || g.vm.Len() > 0 {
		pos = fmt.Sprintf("%d/%d", g.vm.CurrentRowno()+1, n)
	}
	right := fmt.Sprintf("%s  %s", pos, g.scroll.percent())
	left := truncateRunesHelper(title, max(1, g.width-lipgloss.Width(right)-4), "…")
	gap := max(1, g.width-lipgloss.Width(left)-lipgloss.Width(right)-2)
	return g.theme.Header.Render(left + strings.Repeat(" ", gap) + right)
}

func (g *GridModel) renderRow(r viewmodel.Row, width int) string {
	prefix := export.TreePrefix(r)
	glyph := export.ExpandGlyph(r)
	box := export.CheckBox(r.State)
	label := g.opts.Label(r)

	used := lipgloss.Width(prefix) + lipgloss.Width(glyph) + lipgloss.Width(box) + 2
	label = truncateRunesHelper(label, max(0, width-used), "…")
	plain := padRight(prefix+glyph+" "+box+" "+label, width)

	if r.Rowno == g.vm.CurrentRowno() {
		return g.theme.Selected.Render(plain)
	}

	var boxStyle lipgloss.Style
	switch r.State {
	case model.Checked:
		boxStyle = g.theme.CheckedBox
	case model.Mixed:
		boxStyle = g.theme.MixedBox
	default:
		boxStyle = g.theme.EmptyBox
	}
	labelStyle := g.theme.Base
	if r.Bold {
		labelStyle = g.theme.BoldText
	}
	if r.Fixed {
		labelStyle = labelStyle.Inherit(g.theme.Fixed)
	}
	pad := strings.Repeat(" ", max(0, width-lipgloss.Width(prefix+glyph+" "+box+" "+label)))
	return g.theme.Guide.Render(prefix) + g.theme.Glyph.Render(glyph) + " " +
		boxStyle.Render(box) + " " + labelStyle.Render(label) + pad
}

func (g *GridModel) renderStatus() string {
	if g.statusMsg == "" {
		return g.theme.Status.Render(fmt.Sprintf("%d records", g.ds.RecordCount()))
	}
	if g.statusIsError {
		return g.theme.StatusErr.Render(g.statusMsg)
	}
	return g.theme.Status.Render(g.statusMsg)
}
