package ui

// DragMode is the resize state of the app: Idle until a handle is pressed,
// Dragging until the matching release (or a cancel).
type DragMode int

const (
	ModeIdle DragMode = iota
	ModeDragging
)

func (m DragMode) String() string {
	switch m {
	case ModeIdle:
		return "Idle"
	case ModeDragging:
		return "Dragging"
	default:
		return "Unknown"
	}
}
