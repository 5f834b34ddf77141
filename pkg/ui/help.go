package ui

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

const helpMarkdown = `# treegrid

Rows are shown in pre-order. Only the rows inside the window are drawn;
frozen rows stay pinned above it.

## Navigation

| key | action |
|-----|--------|
| ↑ ↓ / k j | previous / next row |
| pgup pgdn | previous / next page |
| g G | first / last row |

## Tree

| key | action |
|-----|--------|
| → / l | expand the current row |
| ← / h | collapse, or move to the parent |
| E C | expand / collapse everything |

## Check marks

| key | action |
|-----|--------|
| space | toggle the current row |
| a | check or uncheck all children |
| * | check or uncheck every row |

A parent shows **[-]** when its children disagree. A bold label means the
row or one of its descendants is checked.

## Other

| key | action |
|-----|--------|
| y | copy the row key |
| ? | toggle this page |
| q | quit |
`

// renderHelp renders the help page for the given width. Rendering falls
// back to the raw markdown when glamour fails.
func renderHelp(width int) string {
	wrap := max(40, min(width-4, 100))
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		return helpMarkdown
	}
	out, err := r.Render(helpMarkdown)
	if err != nil {
		return helpMarkdown
	}
	return strings.TrimRight(out, "\n")
}
