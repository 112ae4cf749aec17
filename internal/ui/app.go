package ui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"resizecards/internal/config"
	"resizecards/internal/log"
	"resizecards/internal/pointer"
	"resizecards/internal/resize"
)

// Cancel reasons reported when a drag ends without a release.
const (
	cancelBlur   = "blur"
	cancelResize = "resize"
	cancelPress  = "missed-release"
)

// AppModel is the root model: two cards in a SplitLayout, resized by a drag
// controller fed from the pointer dispatcher.
type AppModel struct {
	Config     config.Config
	Layout     *SplitLayout
	Left       *CardView
	Right      *CardView
	Focus      *FocusManager
	KeyHandler *KeyHandler
	Overlays   OverlayStack
	Pointer    *pointer.Dispatcher
	Drag       *resize.Controller
	Mode       DragMode
	Status     string

	Width  int
	Height int

	ctx    context.Context
	logger *slog.Logger
}

// Ensure AppModel can be used as tea.Model via adapter.
var _ tea.Model = (*appModelAdapter)(nil)

// appModelAdapter wraps AppModel to implement tea.Model.
type appModelAdapter struct {
	*AppModel
}

// NewAppModel creates the root model from cfg. Widths are assigned on the
// first tea.WindowSizeMsg. Logs go to the logger carried by ctx.
func NewAppModel(ctx context.Context, cfg config.Config) *AppModel {
	upc := cfg.UnitsPerCell
	left := NewCardView("card1", 0, cfg.Panels[0].Title, cfg.Panels[0].Description, cfg.Panels[0].Action, EdgeRight, upc)
	right := NewCardView("card2", 1, cfg.Panels[1].Title, cfg.Panels[1].Description, cfg.Panels[1].Action, EdgeLeft, upc)
	layout := &SplitLayout{Left: left, Right: right, MaxWidth: cfg.MaxContainerWidth, UnitsPerCell: upc}

	dispatcher := pointer.NewDispatcher()
	drag := resize.NewController(dispatcher, resize.Constraints{
		MinWidth: cfg.MinPanelWidth,
		MaxTotal: cfg.MaxContainerWidth,
	})
	drag.UnitsPerCell = upc

	m := &AppModel{
		Config:  cfg,
		Layout:  layout,
		Left:    left,
		Right:   right,
		Focus:   &FocusManager{Order: layout.FocusOrder()},
		Pointer: dispatcher,
		Drag:    drag,
		Mode:    ModeIdle,
		ctx:     ctx,
		logger:  log.WithContext(ctx),
	}
	m.Focus.OnChange = func(_, to string) {
		left.Focused = to
		right.Focused = to
	}
	drag.OnEnd = m.onDragEnd

	reg := NewKeybindRegistry()
	reg.BindWithDesc("q", tea.Quit, "quit")
	reg.BindWithDesc("ctrl+c", tea.Quit, "quit")
	reg.BindWithDesc("tab", func() tea.Msg { return FocusNextMsg{} }, "next")
	reg.BindWithDesc("shift+tab", func() tea.Msg { return FocusPrevMsg{} }, "prev")
	reg.BindWithDesc("enter", func() tea.Msg { return ActivateMsg{} }, "press")
	reg.Bind("esc", func() tea.Msg { return FocusClearMsg{} })
	m.KeyHandler = NewKeyHandler(reg)
	return m
}

// AsTeaModel returns a tea.Model adapter for use with tea.NewProgram.
func (m *AppModel) AsTeaModel() tea.Model {
	return &appModelAdapter{AppModel: m}
}

// Init implements tea.Model.
func (a *appModelAdapter) Init() tea.Cmd {
	return tea.Batch(a.Left.Init(), a.Right.Init())
}

// Update implements tea.Model.
func (a *appModelAdapter) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.Drag.Cancel(cancelResize)
		a.Width, a.Height = msg.Width, msg.Height
		a.relayout()
		return a, nil
	case tea.BlurMsg:
		a.Drag.Cancel(cancelBlur)
		return a, nil
	case tea.MouseMsg:
		return a, a.handleMouse(msg)
	case tea.KeyMsg:
		return a, a.handleKey(msg)
	case FocusNextMsg:
		a.Focus.Next()
		return a, nil
	case FocusPrevMsg:
		a.Focus.Prev()
		return a, nil
	case FocusClearMsg:
		a.Focus.Clear()
		return a, nil
	case ActivateMsg:
		if c := a.Layout.Card(a.Focus.Current); c != nil {
			return a, c.Activate(a.Focus.Current)
		}
		return a, nil
	case ActionMsg:
		title := msg.Card
		if c := a.cardByID(msg.Card); c != nil {
			title = c.Title
		}
		// A newer notice replaces the one on top.
		if top, ok := a.Overlays.Peek(); ok {
			if _, notice := top.View.(*ActionNotice); notice {
				a.Overlays.Pop()
			}
		}
		a.Overlays.Push(Overlay{View: &ActionNotice{Card: title, Label: msg.Label}, Dismiss: "esc"})
		a.Status = msg.Label + " pressed"
		a.logger.Info("action pressed", slog.String("card", msg.Card), slog.String("action", msg.Label))
		return a, nil
	case dismissNoticeMsg:
		a.Overlays.Pop()
		return a, nil
	}

	var cmds []tea.Cmd
	for _, c := range []*CardView{a.Left, a.Right} {
		_, cmd := c.Update(msg)
		cmds = append(cmds, cmd)
	}
	return a, tea.Batch(cmds...)
}

func (a *appModelAdapter) handleKey(msg tea.KeyMsg) tea.Cmd {
	if top, ok := a.Overlays.Peek(); ok {
		if top.IsDismissKey(msg.String()) {
			a.Overlays.Pop()
			return nil
		}
		if cmd, _ := a.Overlays.UpdateTop(msg); cmd != nil {
			return cmd
		}
	}
	if consumed, cmd := a.KeyHandler.Handle(msg); consumed {
		return cmd
	}
	return nil
}

func (a *appModelAdapter) handleMouse(msg tea.MouseMsg) tea.Cmd {
	ev, ok := pointer.FromMouse(msg)
	if !ok {
		return nil
	}
	if ev.Kind != pointer.Press {
		a.Pointer.Dispatch(ev)
		return nil
	}

	// A press while dragging means the release never arrived.
	a.Drag.Cancel(cancelPress)

	hit, ok := a.Layout.HitTest(a.Width, a.Height, ev.X, ev.Y)
	if !ok {
		return nil
	}
	if hit.Handle {
		a.Drag.Begin(a.ctx, ev, hit.Card, hit.Partner)
		a.Mode = ModeDragging
		hit.Card.Dragging = true
		return nil
	}
	if hit.Control != "" {
		a.Focus.SetFocus(hit.Control)
		return hit.Card.Activate(hit.Control)
	}
	return nil
}

func (a *AppModel) onDragEnd(*resize.Session) {
	a.Mode = ModeIdle
	a.Left.Dragging = false
	a.Right.Dragging = false
}

// relayout fits the cards to the terminal and caps the drag total at the
// container width.
func (a *AppModel) relayout() {
	a.Layout.Fit(a.Width)
	a.Drag.Constraints.MaxTotal = min(a.Config.MaxContainerWidth, a.Layout.ContainerWidth(a.Width))
}

func (a *AppModel) cardByID(id string) *CardView {
	switch id {
	case a.Left.ID:
		return a.Left
	case a.Right.ID:
		return a.Right
	}
	return nil
}

// View implements tea.Model.
func (a *appModelAdapter) View() string {
	if a.Width == 0 {
		return "Loading…"
	}
	var b strings.Builder
	b.WriteString(a.Layout.View(a.Width))
	b.WriteString("\n")
	b.WriteString(a.statusLine())
	if top, ok := a.Overlays.Peek(); ok {
		b.WriteString("\n")
		b.WriteString(top.View.View())
	}
	b.WriteString("\n")
	b.WriteString(RenderHelp(a.KeyHandler.Registry, a.Width))
	return b.String()
}

func (a *AppModel) statusLine() string {
	line := fmt.Sprintf("%s %d · %s %d · %s",
		a.Left.Title, a.Left.Width(), a.Right.Title, a.Right.Width(), a.Mode)
	if a.Status != "" {
		line += " · " + a.Status
	}
	return Styles.Status.Render(line)
}
