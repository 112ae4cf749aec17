package ui

// FavoriteToggledMsg flips the favorite toggle of the named card.
type FavoriteToggledMsg struct {
	Card string
}

// ActionMsg is sent when a card's primary action is pressed.
type ActionMsg struct {
	Card  string
	Label string
}

// FocusNextMsg moves keyboard focus to the next control (tab).
type FocusNextMsg struct{}

// FocusPrevMsg moves keyboard focus to the previous control (shift+tab).
type FocusPrevMsg struct{}

// FocusClearMsg drops keyboard focus (esc).
type FocusClearMsg struct{}

// ActivateMsg runs the control that has keyboard focus (enter).
type ActivateMsg struct{}

// dismissNoticeMsg closes the top overlay.
type dismissNoticeMsg struct{}
