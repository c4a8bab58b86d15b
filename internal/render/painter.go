package render

import (
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"

	"github.com/dshills/redline/internal/annotation"
	"github.com/dshills/redline/internal/engine/buffer"
)

// Painter draws annotated text on a tcell screen.
type Painter struct {
	screen tcell.Screen
	styles Styles
}

// NewPainter creates a painter for screen.
func NewPainter(screen tcell.Screen, styles Styles) *Painter {
	return &Painter{screen: screen, styles: styles}
}

// Screen returns the target screen.
func (p *Painter) Screen() tcell.Screen {
	return p.screen
}

// Paint clears the screen and draws text starting at line top, then shows
// the result. Lines are clipped at the screen width.
func (p *Painter) Paint(text string, set annotation.Set, top int) {
	p.screen.Clear()
	defer p.screen.Show()
	width, height := p.screen.Size()

	lines := strings.Split(text, "\n")
	starts := make([]buffer.ByteOffset, len(lines))
	var offset buffer.ByteOffset
	for i, line := range lines {
		starts[i] = offset
		offset += buffer.ByteOffset(len(line)) + 1
	}

	first, last := max(top, 0), min(top+height, len(lines))
	if first >= last {
		return
	}
	window := buffer.NewRange(starts[first], starts[last-1]+buffer.ByteOffset(len(lines[last-1])))
	widgets, marks := p.visible(set, window)
	for row := first; row < last; row++ {
		p.paintLine(row-top, width, lines[row], starts[row], widgets, marks)
	}
}

// visible splits the annotations intersecting window into inline widgets,
// keyed by offset, and marks.
func (p *Painter) visible(set annotation.Set, window buffer.Range) (map[buffer.ByteOffset][]annotation.Annotation, []annotation.Annotation) {
	widgets := make(map[buffer.ByteOffset][]annotation.Annotation)
	var marks []annotation.Annotation
	for _, a := range set.Overlapping(window) {
		if a.IsZeroWidth() {
			if a.Shape == annotation.ShapeCallout && !p.styles.ShowCallouts {
				continue
			}
			widgets[a.From] = append(widgets[a.From], a)
			continue
		}
		marks = append(marks, a)
	}
	return widgets, marks
}

func (p *Painter) paintLine(y, width int, line string, base buffer.ByteOffset, widgets map[buffer.ByteOffset][]annotation.Annotation, marks []annotation.Annotation) {
	x := 0
	put := func(r rune, comb []rune, w int, style tcell.Style) {
		if x+w <= width {
			p.screen.SetContent(x, y, r, comb, style)
		}
		x += w
	}
	drawWidgets := func(at buffer.ByteOffset) {
		for _, a := range widgets[at] {
			put(p.glyph(a))
		}
	}

	g := uniseg.NewGraphemes(line)
	for g.Next() {
		from, _ := g.Positions()
		at := base + buffer.ByteOffset(from)
		drawWidgets(at)

		runes := g.Runes()
		w := g.Width()
		if w == 0 {
			w = 1
		}
		put(runes[0], runes[1:], w, p.textStyle(at, marks))
	}
	drawWidgets(base + buffer.ByteOffset(len(line)))
}

func (p *Painter) glyph(a annotation.Annotation) (rune, []rune, int, tcell.Style) {
	if a.Shape == annotation.ShapeTombstone {
		return TombstoneGlyph, nil, 1, p.styles.Delete
	}
	return CalloutGlyph, nil, 1, p.styles.Callout
}

// textStyle returns the style of the last mark covering at.
func (p *Painter) textStyle(at buffer.ByteOffset, marks []annotation.Annotation) tcell.Style {
	style := p.styles.Text
	for _, m := range marks {
		if m.Range().Contains(at) {
			style = p.styles.MarkStyle(m.Kind)
		}
	}
	return style
}
