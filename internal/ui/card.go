package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"resizecards/internal/resize"
	"resizecards/internal/ui/textutil"
)

const (
	// HandleUnits is the width of a card's drag handle strip.
	HandleUnits = 10

	cardHeight  = 6 // border, title, description, spacer, controls, border
	controlsRow = 4
	bodyInset   = 2 // border + padding before content
)

const (
	favoriteOff = "[♡]"
	favoriteOn  = "[♥]"
)

// CardView is one resizable panel: a title, a description, a favorite
// toggle, a primary action, and a drag handle on one edge.
// Its width is model state in units; rendering derives columns from it.
type CardView struct {
	ID          string
	Index       int
	Title       string
	Description string
	ActionLabel string
	Handle      Edge

	Favorite bool
	Focused  string // control ID with keyboard focus, if it belongs to this card
	Dragging bool   // handle is being dragged

	width        int
	explicit     bool
	unitsPerCell int
}

// Ensure CardView implements View and can be resized by the drag controller.
var (
	_ View          = (*CardView)(nil)
	_ resize.Target = (*CardView)(nil)
)

// NewCardView creates a card. unitsPerCell converts its width to columns.
func NewCardView(id string, index int, title, desc, action string, handle Edge, unitsPerCell int) *CardView {
	return &CardView{
		ID:           id,
		Index:        index,
		Title:        title,
		Description:  desc,
		ActionLabel:  action,
		Handle:       handle,
		unitsPerCell: max(1, unitsPerCell),
	}
}

// Width returns the card's width in units.
func (c *CardView) Width() int { return c.width }

// SetWidth stores a width chosen by a drag.
func (c *CardView) SetWidth(w int) {
	c.width = w
	c.explicit = true
}

// resetWidth stores a layout-derived width that a later fit may replace.
func (c *CardView) resetWidth(w int) {
	c.width = w
	c.explicit = false
}

// Explicit reports whether the width came from a drag.
func (c *CardView) Explicit() bool { return c.explicit }

// Cells returns the card's width in terminal columns.
func (c *CardView) Cells() int {
	return c.width / c.unitsPerCell
}

// FavoriteID returns the focus ID of the favorite toggle.
func (c *CardView) FavoriteID() string { return c.ID + ".favorite" }

// ActionID returns the focus ID of the primary action.
func (c *CardView) ActionID() string { return c.ID + ".action" }

func (c *CardView) handleCells() int {
	return max(1, HandleUnits/c.unitsPerCell)
}

func (c *CardView) bodyCells() int {
	return max(0, c.Cells()-c.handleCells())
}

func (c *CardView) bodyX() int {
	if c.Handle == EdgeLeft {
		return c.handleCells()
	}
	return 0
}

func (c *CardView) innerCells() int {
	return max(0, c.bodyCells()-2*bodyInset)
}

// HandleRect returns the drag handle's region relative to the card.
func (c *CardView) HandleRect() Rect {
	hc := c.handleCells()
	x := 0
	if c.Handle == EdgeRight {
		x = max(0, c.Cells()-hc)
	}
	return Rect{X: x, Y: 0, W: hc, H: cardHeight}
}

func (c *CardView) favoriteLabel() string {
	if c.Favorite {
		return favoriteOn
	}
	return favoriteOff
}

func (c *CardView) actionLabel() string {
	return "[ " + c.ActionLabel + " ]"
}

// controlRects returns the visible regions of the favorite toggle and the
// action button, relative to the card.
func (c *CardView) controlRects() (fav, act Rect) {
	inner := c.innerCells()
	x := c.bodyX() + bodyInset

	favW := min(textutil.VisualWidth(c.favoriteLabel()), inner)
	fav = Rect{X: x, Y: controlsRow, W: favW, H: 1}

	actW := min(textutil.VisualWidth(c.actionLabel()), max(0, inner-favW-1))
	act = Rect{X: x + favW + 1, Y: controlsRow, W: actW, H: 1}
	return fav, act
}

// ControlAt returns the control ID at (x, y) relative to the card, or "".
func (c *CardView) ControlAt(x, y int) string {
	fav, act := c.controlRects()
	switch {
	case fav.Contains(x, y):
		return c.FavoriteID()
	case act.Contains(x, y):
		return c.ActionID()
	}
	return ""
}

// Activate runs the control with the given ID.
func (c *CardView) Activate(id string) tea.Cmd {
	switch id {
	case c.FavoriteID():
		return func() tea.Msg { return FavoriteToggledMsg{Card: c.ID} }
	case c.ActionID():
		return func() tea.Msg { return ActionMsg{Card: c.ID, Label: c.ActionLabel} }
	}
	return nil
}

// Init implements View.
func (c *CardView) Init() tea.Cmd {
	return nil
}

// Update implements View.
func (c *CardView) Update(msg tea.Msg) (View, tea.Cmd) {
	if msg, ok := msg.(FavoriteToggledMsg); ok && msg.Card == c.ID {
		c.Favorite = !c.Favorite
	}
	return c, nil
}

// View implements View.
func (c *CardView) View() string {
	if c.Cells() <= 0 {
		return ""
	}
	inner := c.innerCells()

	fav := textutil.Clip(c.favoriteLabel(), inner)
	act := textutil.Clip(c.actionLabel(), max(0, inner-textutil.VisualWidth(fav)-1))
	favStyle := Styles.Favorite
	if c.Favorite {
		favStyle = Styles.FavoriteOn
	}
	actStyle := Styles.Action
	switch c.Focused {
	case c.FavoriteID():
		favStyle = favStyle.Underline(true).Bold(true)
	case c.ActionID():
		actStyle = actStyle.Underline(true)
	}
	controls := favStyle.Render(fav)
	if act != "" {
		controls += " " + actStyle.Render(act)
	}

	lines := []string{
		Styles.CardTitle.Render(textutil.Truncate(c.Title, inner)),
		Styles.CardBody.Render(textutil.Truncate(c.Description, inner)),
		"",
		controls,
	}
	body := Styles.Card.
		Width(max(0, c.bodyCells()-2)).
		MaxWidth(c.bodyCells()).
		Render(strings.Join(lines, "\n"))

	strip := "┃"
	if c.Dragging {
		strip = "█"
	}
	handle := handleStyle(c.Index).Render(textutil.Column(strip, c.handleCells(), lipgloss.Height(body)))

	if c.Handle == EdgeLeft {
		return lipgloss.JoinHorizontal(lipgloss.Top, handle, body)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, body, handle)
}
