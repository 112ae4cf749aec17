package ui

import (
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// KeybindRegistry maps keys (tea.KeyMsg.String() form, e.g. "q", "tab",
// "shift+tab", "ctrl+c") to commands.
type KeybindRegistry struct {
	bindings     map[string]tea.Cmd
	descriptions map[string]string
}

// NewKeybindRegistry creates an empty registry.
func NewKeybindRegistry() *KeybindRegistry {
	return &KeybindRegistry{
		bindings:     make(map[string]tea.Cmd),
		descriptions: make(map[string]string),
	}
}

// Bind registers a key without a help description.
func (r *KeybindRegistry) Bind(k string, cmd tea.Cmd) {
	r.BindWithDesc(k, cmd, "")
}

// BindWithDesc registers a key with a description for the help bar.
// Overwrites any existing binding for the key.
func (r *KeybindRegistry) BindWithDesc(k string, cmd tea.Cmd, desc string) {
	r.bindings[k] = cmd
	if desc != "" {
		r.descriptions[k] = desc
	} else {
		delete(r.descriptions, k)
	}
}

// Lookup returns the command for a key, or nil if not bound.
func (r *KeybindRegistry) Lookup(k string) tea.Cmd {
	return r.bindings[k]
}

// Hints returns described bindings grouped by description, in key order.
// Keys sharing a description ("q" and "ctrl+c" for quit) form one binding.
func (r *KeybindRegistry) Hints() []key.Binding {
	keys := make([]string, 0, len(r.descriptions))
	for k := range r.descriptions {
		if r.bindings[k] != nil {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	var order []string
	grouped := make(map[string][]string)
	for _, k := range keys {
		d := r.descriptions[k]
		if _, ok := grouped[d]; !ok {
			order = append(order, d)
		}
		grouped[d] = append(grouped[d], k)
	}

	bindings := make([]key.Binding, 0, len(order))
	for _, d := range order {
		ks := grouped[d]
		bindings = append(bindings, key.NewBinding(
			key.WithKeys(ks...),
			key.WithHelp(strings.Join(ks, "/"), d),
		))
	}
	return bindings
}

// KeyHandler dispatches key messages to the registry.
type KeyHandler struct {
	Registry *KeybindRegistry
}

// NewKeyHandler creates a handler for reg.
func NewKeyHandler(reg *KeybindRegistry) *KeyHandler {
	return &KeyHandler{Registry: reg}
}

// Handle processes a KeyMsg. Returns (consumed, cmd); unbound keys are not
// consumed.
func (h *KeyHandler) Handle(msg tea.KeyMsg) (consumed bool, cmd tea.Cmd) {
	if c := h.Registry.Lookup(msg.String()); c != nil {
		return true, c
	}
	return false, nil
}

// KeyMap implements help.KeyMap over a registry.
type KeyMap struct {
	registry *KeybindRegistry
}

// NewKeyMap creates a KeyMap for the given registry.
func NewKeyMap(registry *KeybindRegistry) help.KeyMap {
	return &KeyMap{registry: registry}
}

// ShortHelp implements help.KeyMap.
func (km *KeyMap) ShortHelp() []key.Binding {
	if km.registry == nil {
		return nil
	}
	return km.registry.Hints()
}

// FullHelp implements help.KeyMap with a single column.
func (km *KeyMap) FullHelp() [][]key.Binding {
	short := km.ShortHelp()
	if len(short) == 0 {
		return nil
	}
	return [][]key.Binding{short}
}
