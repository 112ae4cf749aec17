package ui

// FocusManager tracks which card control has keyboard focus.
// Current is empty until the first Next/Prev/SetFocus.
type FocusManager struct {
	Current  string   // ID of the focused control
	Order    []string // Tab order
	OnChange func(from, to string)
}

// Next moves focus forward, wrapping at the end. Returns the new focus ID.
func (f *FocusManager) Next() string {
	return f.step(1)
}

// Prev moves focus backward, wrapping at the start.
func (f *FocusManager) Prev() string {
	return f.step(-1)
}

// SetFocus focuses id. Returns false if id is not in Order.
func (f *FocusManager) SetFocus(id string) bool {
	if f.index(id) < 0 {
		return false
	}
	f.move(id)
	return true
}

// Clear drops focus.
func (f *FocusManager) Clear() {
	f.move("")
}

func (f *FocusManager) step(delta int) string {
	n := len(f.Order)
	if n == 0 {
		return ""
	}
	idx := f.index(f.Current)
	switch {
	case idx < 0 && delta > 0:
		idx = 0
	case idx < 0:
		idx = n - 1
	default:
		idx = ((idx+delta)%n + n) % n
	}
	f.move(f.Order[idx])
	return f.Current
}

func (f *FocusManager) index(id string) int {
	for i, o := range f.Order {
		if o == id {
			return i
		}
	}
	return -1
}

func (f *FocusManager) move(to string) {
	from := f.Current
	f.Current = to
	if f.OnChange != nil && from != to {
		f.OnChange(from, to)
	}
}
