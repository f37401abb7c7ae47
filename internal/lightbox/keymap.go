package lightbox

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"
)

// KeyEvent is a key press delivered by the host.
// Key may be a KeyboardEvent.key value ("d", "ArrowRight") or a key code name ("KeyD").
type KeyEvent struct {
	Key   string
	Shift bool
	Ctrl  bool
	Alt   bool
}

// KeyCombination represents a key with optional modifiers
type KeyCombination struct {
	Key   string
	Shift bool
	Ctrl  bool
	Alt   bool
}

// Keymap resolves key events to action names
type Keymap struct {
	keybindings map[string][]string
	actions     []string // sorted, for a stable resolution order
	parsed      map[string][]KeyCombination
}

// NewKeymap creates a Keymap from an action -> keys map. Unparseable entries are ignored.
func NewKeymap(keybindings map[string][]string) *Keymap {
	km := &Keymap{}
	km.UpdateKeybindings(keybindings)
	return km
}

// UpdateKeybindings replaces the keybindings map
func (km *Keymap) UpdateKeybindings(keybindings map[string][]string) {
	km.keybindings = keybindings
	km.parsed = make(map[string][]KeyCombination, len(keybindings))
	km.actions = km.actions[:0]

	for action, keys := range keybindings {
		for _, keyStr := range keys {
			if combination, ok := ParseKeyString(keyStr); ok {
				km.parsed[action] = append(km.parsed[action], combination)
			}
		}
		km.actions = append(km.actions, action)
	}
	sort.Strings(km.actions)
}

// Keybindings returns the current keybindings map (for display purposes)
func (km *Keymap) Keybindings() map[string][]string {
	return km.keybindings
}

// Resolve returns the action bound to ev. A modified key with no binding of its
// own falls back to the binding of the bare key, so Shift+ArrowRight still moves.
func (km *Keymap) Resolve(ev KeyEvent) (string, bool) {
	for _, action := range km.actions {
		for _, combination := range km.parsed[action] {
			if combination.Matches(ev) {
				return action, true
			}
		}
	}
	if ev.Shift || ev.Ctrl || ev.Alt {
		return km.Resolve(KeyEvent{Key: ev.Key})
	}
	return "", false
}

// ParseKeyString parses a key string like "Shift+KeyB" into a KeyCombination
func ParseKeyString(keyStr string) (KeyCombination, bool) {
	parts := strings.Split(keyStr, "+")
	keyName := parts[len(parts)-1]
	if !validKeyNames[keyName] {
		return KeyCombination{}, false
	}

	combination := KeyCombination{Key: keyName}
	for _, modifier := range parts[:len(parts)-1] {
		switch strings.ToLower(modifier) {
		case "shift":
			combination.Shift = true
		case "ctrl":
			combination.Ctrl = true
		case "alt":
			combination.Alt = true
		default:
			return KeyCombination{}, false
		}
	}

	return combination, true
}

// Matches reports whether ev triggers the combination.
// Letter keys bound without Shift match either case.
func (kc KeyCombination) Matches(ev KeyEvent) bool {
	if NormalizeKey(ev.Key) != kc.Key {
		return false
	}
	if kc.Ctrl != ev.Ctrl || kc.Alt != ev.Alt {
		return false
	}
	if kc.Shift != ev.Shift {
		return !kc.Shift && isLetterKey(kc.Key)
	}
	return true
}

func isLetterKey(name string) bool {
	return len(name) == 4 && strings.HasPrefix(name, "Key") && name[3] >= 'A' && name[3] <= 'Z'
}

// legacyKeyNames maps older KeyboardEvent.key spellings
var legacyKeyNames = map[string]string{
	"Esc":   "Escape",
	"Left":  "ArrowLeft",
	"Right": "ArrowRight",
	"Up":    "ArrowUp",
	"Down":  "ArrowDown",
}

var punctuationKeyNames = map[rune]string{
	' ':  "Space",
	',':  "Comma",
	'.':  "Period",
	'/':  "Slash",
	';':  "Semicolon",
	'\'': "Quote",
	'-':  "Minus",
	'=':  "Equal",
}

// NormalizeKey maps a KeyboardEvent.key value onto the key code names used in bindings.
// "d" and "D" both become "KeyD"; names that are already valid pass through.
func NormalizeKey(raw string) string {
	if validKeyNames[raw] {
		return raw
	}
	if name, ok := legacyKeyNames[raw]; ok {
		return name
	}

	if utf8.RuneCountInString(raw) == 1 {
		r, _ := utf8.DecodeRuneInString(raw)
		switch {
		case r >= 'a' && r <= 'z':
			return "Key" + string(r-'a'+'A')
		case r >= 'A' && r <= 'Z':
			return "Key" + string(r)
		case r >= '0' && r <= '9':
			return "Key" + string(r)
		}
		if name, ok := punctuationKeyNames[r]; ok {
			return name
		}
	}

	return raw
}

// ValidateBindings validates a keybindings configuration
func ValidateBindings(keybindings map[string][]string) error {
	// Check for valid key formats and detect conflicts
	keyToAction := make(map[KeyCombination]string)

	for action, keys := range keybindings {
		for _, keyStr := range keys {
			if err := validateKeyString(keyStr); err != nil {
				return fmt.Errorf("invalid key '%s' for action '%s': %v", keyStr, action, err)
			}

			combination, _ := ParseKeyString(keyStr)
			if existingAction, exists := keyToAction[combination]; exists && existingAction != action {
				return fmt.Errorf("key conflict: '%s' is bound to both '%s' and '%s'", keyStr, existingAction, action)
			}
			keyToAction[combination] = action
		}
	}

	return nil
}

// validateKeyString validates a single key string format
func validateKeyString(keyStr string) error {
	if keyStr == "" {
		return fmt.Errorf("empty key string")
	}
	parts := strings.Split(keyStr, "+")

	// Last part should be the actual key
	keyName := parts[len(parts)-1]
	if !validKeyNames[keyName] {
		return fmt.Errorf("unknown key: %s", keyName)
	}

	for _, part := range parts[:len(parts)-1] {
		modifier := strings.ToLower(part)
		if modifier != "shift" && modifier != "ctrl" && modifier != "alt" {
			return fmt.Errorf("unknown modifier: %s", part)
		}
	}

	return nil
}

// ValidKeyNames returns the set of key names accepted in bindings
func ValidKeyNames() []string {
	names := make([]string, 0, len(validKeyNames))
	for name := range validKeyNames {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var validKeyNames = map[string]bool{
	// Letters
	"KeyA": true, "KeyB": true, "KeyC": true, "KeyD": true,
	"KeyE": true, "KeyF": true, "KeyG": true, "KeyH": true,
	"KeyI": true, "KeyJ": true, "KeyK": true, "KeyL": true,
	"KeyM": true, "KeyN": true, "KeyO": true, "KeyP": true,
	"KeyQ": true, "KeyR": true, "KeyS": true, "KeyT": true,
	"KeyU": true, "KeyV": true, "KeyW": true, "KeyX": true,
	"KeyY": true, "KeyZ": true,

	// Numbers
	"Key0": true, "Key1": true, "Key2": true, "Key3": true,
	"Key4": true, "Key5": true, "Key6": true, "Key7": true,
	"Key8": true, "Key9": true,

	// Special keys
	"Space": true, "Backspace": true, "Enter": true, "Escape": true,
	"Tab": true, "Home": true, "End": true, "PageUp": true, "PageDown": true,
	"ArrowUp": true, "ArrowDown": true, "ArrowLeft": true, "ArrowRight": true,

	// Punctuation
	"Comma": true, "Period": true, "Slash": true, "Semicolon": true,
	"Quote": true, "Minus": true, "Equal": true,
}
