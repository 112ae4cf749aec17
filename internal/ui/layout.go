package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Layout arranges panels and defines focus order.
type Layout interface {
	Panels() []Panel
	FocusOrder() []string
}

// SplitLayout places two cards side by side in a row capped at MaxWidth
// units and centered in the terminal.
type SplitLayout struct {
	Left         *CardView
	Right        *CardView
	MaxWidth     int
	UnitsPerCell int
}

var _ Layout = (*SplitLayout)(nil)

// frameCells is the width of the container outline on each side of the row.
const frameCells = 1

// Hit describes what lies under a pointer position.
type Hit struct {
	Card    *CardView
	Partner *CardView
	Handle  bool
	Control string
}

// ContainerWidth returns the row width in units for a terminal of termW
// columns, leaving room for the outline.
func (l *SplitLayout) ContainerWidth(termW int) int {
	return max(0, min(l.MaxWidth, (termW-2*frameCells)*l.UnitsPerCell))
}

// Fit splits the container 50/50 unless both cards hold drag-chosen widths
// that still fit.
func (l *SplitLayout) Fit(termW int) {
	total := l.ContainerWidth(termW)
	if l.Left.Explicit() && l.Right.Explicit() && l.Left.Width()+l.Right.Width() <= total {
		return
	}
	half := total / 2
	l.Left.resetWidth(half)
	l.Right.resetWidth(total - half)
}

// origin returns the column where the first card starts, inside the
// outline.
func (l *SplitLayout) origin(termW int) int {
	return max(frameCells, (termW-l.Left.Cells()-l.Right.Cells())/2)
}

// Panels implements Layout.
func (l *SplitLayout) Panels() []Panel {
	return []Panel{
		{
			ID:   l.Left.ID,
			View: l.Left,
			Bounds: func(width, _ int) Rect {
				return Rect{X: l.origin(width), Y: frameCells, W: l.Left.Cells(), H: cardHeight}
			},
		},
		{
			ID:   l.Right.ID,
			View: l.Right,
			Bounds: func(width, _ int) Rect {
				return Rect{X: l.origin(width) + l.Left.Cells(), Y: frameCells, W: l.Right.Cells(), H: cardHeight}
			},
		},
	}
}

// FocusOrder implements Layout.
func (l *SplitLayout) FocusOrder() []string {
	return []string{
		l.Left.FavoriteID(),
		l.Left.ActionID(),
		l.Right.FavoriteID(),
		l.Right.ActionID(),
	}
}

// HitTest finds the card, handle, or control at (x, y).
func (l *SplitLayout) HitTest(termW, termH, x, y int) (Hit, bool) {
	for _, p := range l.Panels() {
		r := p.Bounds(termW, termH)
		if !r.Contains(x, y) {
			continue
		}
		card := p.View.(*CardView)
		hit := Hit{Card: card, Partner: l.partner(card)}
		lx, ly := x-r.X, y-r.Y
		if card.HandleRect().Contains(lx, ly) {
			hit.Handle = true
		} else {
			hit.Control = card.ControlAt(lx, ly)
		}
		return hit, true
	}
	return Hit{}, false
}

// Card returns the card owning control id, or nil.
func (l *SplitLayout) Card(id string) *CardView {
	for _, c := range []*CardView{l.Left, l.Right} {
		if id == c.FavoriteID() || id == c.ActionID() {
			return c
		}
	}
	return nil
}

func (l *SplitLayout) partner(c *CardView) *CardView {
	if c == l.Left {
		return l.Right
	}
	return l.Left
}

// View renders the outlined row indented so the cards start at origin.
func (l *SplitLayout) View(termW int) string {
	row := Styles.Container.Render(
		lipgloss.JoinHorizontal(lipgloss.Top, l.Left.View(), l.Right.View()),
	)
	pad := strings.Repeat(" ", l.origin(termW)-frameCells)
	lines := strings.Split(row, "\n")
	for i, line := range lines {
		lines[i] = pad + line
	}
	return strings.Join(lines, "\n")
}
