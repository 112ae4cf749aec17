package ui

import (
	"bytes"
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resizecards/internal/config"
)

func TestApp_ProgramDragSession(t *testing.T) {
	m := NewAppModel(context.Background(), config.Default())
	tm := teatest.NewTestModel(t, m.AsTeaModel(), teatest.WithInitialTermSize(termW, termH))

	teatest.WaitFor(t, tm.Output(), func(b []byte) bool {
		return bytes.Contains(b, []byte("Card 2"))
	}, teatest.WithDuration(3*time.Second))

	tm.Send(pressAt(leftHandleX, 2))
	tm.Send(moveTo(leftHandleX+10, 2))
	tm.Send(moveTo(leftHandleX-60, 2)) // overflow, skipped
	tm.Send(releaseAt(leftHandleX-60, 2))
	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})

	fm := tm.FinalModel(t, teatest.WithFinalTimeout(3*time.Second))
	app, ok := fm.(*appModelAdapter)
	require.True(t, ok)

	assert.Equal(t, [2]int{800, 600}, widths(app.AppModel))
	assert.Equal(t, ModeIdle, app.Mode)
	assert.Equal(t, 0, app.Pointer.Len())
}
