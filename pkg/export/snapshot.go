package export

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"

	"git.sr.ht/~sbinet/gg"
	"github.com/ajstarks/svgo"
	"golang.org/x/image/font/basicfont"

	"github.com/vanderheijden86/treegrid/pkg/model"
	"github.com/vanderheijden86/treegrid/pkg/viewmodel"
)

// ErrNoRows is returned when there is nothing to render.
var ErrNoRows = errors.New("no rows to export")

// RowsSnapshotOptions controls snapshot export.
type RowsSnapshotOptions struct {
	Path   string          // Output path; format inferred from extension when Format empty
	Format string          // "svg" or "png" (case-insensitive)
	Title  string          // Optional header line
	Rows   []viewmodel.Row // Rows to render, usually Model.VisibleRows()
	Label  LabelFunc       // Row text; defaults to the key
}

const (
	rowHeight   = 22.0
	indentWidth = 20.0
	headerH     = 56.0
	marginX     = 24.0
	charWidth   = 7.0
	boxSize     = 12.0
	minWidth    = 320
)

var (
	colorBackdrop = color.RGBA{0xf9, 0xfa, 0xfb, 0xff}
	colorHeaderBG = color.RGBA{0xf3, 0xf4, 0xf6, 0xff}
	colorFixedBG  = color.RGBA{0xe8, 0xee, 0xf7, 0xff}
	colorStroke   = color.RGBA{0x22, 0x22, 0x22, 0xff}
	colorGuide    = color.RGBA{0xb0, 0xb8, 0xc4, 0xff}
	colorChecked  = color.RGBA{0x4c, 0xaf, 0x50, 0xff}
	colorMixed    = color.RGBA{0xff, 0xb3, 0x00, 0xff}
	colorText     = color.RGBA{0x11, 0x11, 0x11, 0xff}
	colorSubtle   = color.RGBA{0x66, 0x66, 0x66, 0xff}
)

type snapRow struct {
	row   viewmodel.Row
	label string
	x, y  float64
}

type snapLayout struct {
	rows   []snapRow
	width  int
	height int
	title  string
}

// SaveRowsSnapshot renders rows to an SVG or PNG file.
func SaveRowsSnapshot(opts RowsSnapshotOptions) error {
	if len(opts.Rows) == 0 {
		return ErrNoRows
	}
	if opts.Path == "" {
		return fmt.Errorf("output path is required")
	}

	format := strings.ToLower(strings.TrimPrefix(opts.Format, "."))
	if format == "" {
		switch strings.ToLower(filepath.Ext(opts.Path)) {
		case ".png":
			format = "png"
		case ".svg":
			format = "svg"
		default:
			format = "svg"
			if filepath.Ext(opts.Path) == "" {
				opts.Path += ".svg"
			}
		}
	}
	if format != "svg" && format != "png" {
		return fmt.Errorf("unsupported format %q (want svg or png)", format)
	}

	if err := os.MkdirAll(filepath.Dir(opts.Path), 0o755); err != nil {
		return fmt.Errorf("create parent dir: %w", err)
	}

	layout := buildLayout(opts)
	if format == "png" {
		return renderPNG(opts.Path, layout)
	}
	f, err := os.Create(opts.Path)
	if err != nil {
		return err
	}
	defer f.Close()
	return renderSVG(f, layout)
}

func buildLayout(opts RowsSnapshotOptions) snapLayout {
	label := opts.Label
	if label == nil {
		label = KeyLabel
	}
	title := opts.Title
	if title == "" {
		title = "treegrid"
	}

	l := snapLayout{title: title}
	widest := float64(len([]rune(title))) * charWidth
	for i, r := range opts.Rows {
		sr := snapRow{
			row:   r,
			label: label(r),
			x:     marginX + float64(r.Level)*indentWidth,
			y:     headerH + float64(i)*rowHeight,
		}
		if w := sr.x + 2*boxSize + 8 + float64(len([]rune(sr.label)))*charWidth; w > widest {
			widest = w
		}
		l.rows = append(l.rows, sr)
	}
	l.width = max(minWidth, int(widest+2*marginX))
	l.height = int(headerH + float64(len(l.rows))*rowHeight + marginX)
	return l
}

func boxColor(s model.CheckState) color.RGBA {
	switch s {
	case model.Checked:
		return colorChecked
	case model.Mixed:
		return colorMixed
	default:
		return colorBackdrop
	}
}

// guideSegments returns the vertical connector x positions crossing a row
// and whether the row's own elbow ends at its centre.
func guideSegments(r viewmodel.Row) []float64 {
	var xs []float64
	for lvl := 1; lvl < r.Level; lvl++ {
		if r.Guides[lvl] {
			xs = append(xs, marginX+float64(lvl-1)*indentWidth+indentWidth/2)
		}
	}
	return xs
}

func elbowX(r viewmodel.Row) float64 {
	return marginX + float64(r.Level-1)*indentWidth + indentWidth/2
}

func renderPNG(path string, l snapLayout) error {
	dc := gg.NewContext(l.width, l.height)
	dc.SetColor(colorBackdrop)
	dc.Clear()

	dc.SetColor(colorHeaderBG)
	dc.DrawRoundedRectangle(8, 8, float64(l.width)-16, headerH-16, 8)
	dc.Fill()

	dc.SetFontFace(basicfont.Face7x13)
	dc.SetColor(colorText)
	dc.DrawStringAnchored(l.title, marginX, headerH/2, 0, 0.5)

	for _, sr := range l.rows {
		drawRow(dc, float64(l.width), sr)
	}
	return dc.SavePNG(path)
}

func drawRow(dc *gg.Context, width float64, sr snapRow) {
	r := sr.row
	mid := sr.y + rowHeight/2

	if r.Fixed {
		dc.SetColor(colorFixedBG)
		dc.DrawRectangle(0, sr.y, width, rowHeight)
		dc.Fill()
	}

	dc.SetColor(colorGuide)
	dc.SetLineWidth(1)
	for _, x := range guideSegments(r) {
		dc.DrawLine(x, sr.y, x, sr.y+rowHeight)
		dc.Stroke()
	}
	if r.Level > 0 {
		x := elbowX(r)
		bottom := sr.y + rowHeight
		if r.Last {
			bottom = mid
		}
		dc.DrawLine(x, sr.y, x, bottom)
		dc.Stroke()
		dc.DrawLine(x, mid, sr.x, mid)
		dc.Stroke()
	}

	dc.SetColor(boxColor(r.State))
	dc.DrawRectangle(sr.x, mid-boxSize/2, boxSize, boxSize)
	dc.Fill()
	dc.SetColor(colorStroke)
	dc.DrawRectangle(sr.x, mid-boxSize/2, boxSize, boxSize)
	dc.Stroke()

	dc.SetColor(colorSubtle)
	dc.DrawStringAnchored(ExpandGlyph(r), sr.x+boxSize+4, mid, 0, 0.5)

	dc.SetColor(colorText)
	lx := sr.x + 2*boxSize + 8
	dc.DrawStringAnchored(sr.label, lx, mid, 0, 0.5)
	if r.Bold {
		// basicfont has no bold face; overstrike one pixel to the right
		dc.DrawStringAnchored(sr.label, lx+1, mid, 0, 0.5)
	}
}

func renderSVG(w io.Writer, l snapLayout) error {
	canvas := svg.New(w)
	canvas.Start(l.width, l.height)
	canvas.Rect(0, 0, l.width, l.height, fmt.Sprintf("fill:%s", css(colorBackdrop)))
	canvas.Roundrect(8, 8, l.width-16, int(headerH-16), 8, 8, fmt.Sprintf("fill:%s", css(colorHeaderBG)))
	canvas.Text(int(marginX), int(headerH/2)+5, l.title,
		fmt.Sprintf("fill:%s;font-size:15px;font-family:monospace;font-weight:bold", css(colorText)))

	guide := fmt.Sprintf("stroke:%s;stroke-width:1", css(colorGuide))
	for _, sr := range l.rows {
		r := sr.row
		y := int(sr.y)
		mid := int(sr.y + rowHeight/2)

		if r.Fixed {
			canvas.Rect(0, y, l.width, int(rowHeight), fmt.Sprintf("fill:%s", css(colorFixedBG)))
		}
		for _, x := range guideSegments(r) {
			canvas.Line(int(x), y, int(x), y+int(rowHeight), guide)
		}
		if r.Level > 0 {
			x := int(elbowX(r))
			bottom := y + int(rowHeight)
			if r.Last {
				bottom = mid
			}
			canvas.Line(x, y, x, bottom, guide)
			canvas.Line(x, mid, int(sr.x), mid, guide)
		}

		canvas.Rect(int(sr.x), mid-int(boxSize/2), int(boxSize), int(boxSize),
			fmt.Sprintf("fill:%s;stroke:%s;stroke-width:1", css(boxColor(r.State)), css(colorStroke)))
		canvas.Text(int(sr.x+boxSize+4), mid+4, ExpandGlyph(r),
			fmt.Sprintf("fill:%s;font-size:12px;font-family:monospace", css(colorSubtle)))

		weight := "normal"
		if r.Bold {
			weight = "bold"
		}
		canvas.Text(int(sr.x+2*boxSize+8), mid+4, sr.label,
			fmt.Sprintf("fill:%s;font-size:13px;font-family:monospace;font-weight:%s", css(colorText), weight))
	}

	canvas.End()
	return nil
}

func css(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
