package main

import (
	"fmt"
	"io"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"lightbox/internal/lightbox"
)

// printKeyNames writes every key name a binding may use, one per line
func printKeyNames(w io.Writer) {
	for _, name := range lightbox.ValidKeyNames() {
		fmt.Fprintln(w, name)
	}
}

// keyNames maps Ebiten keys onto the key code names used in bindings
var keyNames = map[ebiten.Key]string{
	// Letters
	ebiten.KeyA: "KeyA", ebiten.KeyB: "KeyB", ebiten.KeyC: "KeyC", ebiten.KeyD: "KeyD",
	ebiten.KeyE: "KeyE", ebiten.KeyF: "KeyF", ebiten.KeyG: "KeyG", ebiten.KeyH: "KeyH",
	ebiten.KeyI: "KeyI", ebiten.KeyJ: "KeyJ", ebiten.KeyK: "KeyK", ebiten.KeyL: "KeyL",
	ebiten.KeyM: "KeyM", ebiten.KeyN: "KeyN", ebiten.KeyO: "KeyO", ebiten.KeyP: "KeyP",
	ebiten.KeyQ: "KeyQ", ebiten.KeyR: "KeyR", ebiten.KeyS: "KeyS", ebiten.KeyT: "KeyT",
	ebiten.KeyU: "KeyU", ebiten.KeyV: "KeyV", ebiten.KeyW: "KeyW", ebiten.KeyX: "KeyX",
	ebiten.KeyY: "KeyY", ebiten.KeyZ: "KeyZ",

	// Numbers
	ebiten.Key0: "Key0", ebiten.Key1: "Key1", ebiten.Key2: "Key2", ebiten.Key3: "Key3",
	ebiten.Key4: "Key4", ebiten.Key5: "Key5", ebiten.Key6: "Key6", ebiten.Key7: "Key7",
	ebiten.Key8: "Key8", ebiten.Key9: "Key9",

	// Special keys
	ebiten.KeySpace:      "Space",
	ebiten.KeyBackspace:  "Backspace",
	ebiten.KeyEnter:      "Enter",
	ebiten.KeyEscape:     "Escape",
	ebiten.KeyTab:        "Tab",
	ebiten.KeyHome:       "Home",
	ebiten.KeyEnd:        "End",
	ebiten.KeyPageUp:     "PageUp",
	ebiten.KeyPageDown:   "PageDown",
	ebiten.KeyArrowUp:    "ArrowUp",
	ebiten.KeyArrowDown:  "ArrowDown",
	ebiten.KeyArrowLeft:  "ArrowLeft",
	ebiten.KeyArrowRight: "ArrowRight",

	// Punctuation
	ebiten.KeyComma:     "Comma",
	ebiten.KeyPeriod:    "Period",
	ebiten.KeySlash:     "Slash",
	ebiten.KeySemicolon: "Semicolon",
	ebiten.KeyQuote:     "Quote",
	ebiten.KeyMinus:     "Minus",
	ebiten.KeyEqual:     "Equal",
}

// Modifiers is the modifier state sampled for a frame
type Modifiers struct {
	Shift bool
	Ctrl  bool
	Alt   bool
}

func currentModifiers() Modifiers {
	return Modifiers{
		Shift: ebiten.IsKeyPressed(ebiten.KeyShift),
		Ctrl:  ebiten.IsKeyPressed(ebiten.KeyControl),
		Alt:   ebiten.IsKeyPressed(ebiten.KeyAlt),
	}
}

// keyEvents converts the keys pressed this frame into key events.
// Keys without a binding name are dropped.
func keyEvents(pressed []ebiten.Key, mods Modifiers) []lightbox.KeyEvent {
	var events []lightbox.KeyEvent
	for _, key := range pressed {
		name, ok := keyNames[key]
		if !ok {
			continue
		}
		events = append(events, lightbox.KeyEvent{Key: name, Shift: mods.Shift, Ctrl: mods.Ctrl, Alt: mods.Alt})
	}
	return events
}

// KeybindingManager resolves this frame's key presses through the configured keymap
type KeybindingManager struct {
	keymap  *lightbox.Keymap
	pressed []ebiten.Key
}

// NewKeybindingManager creates a new KeybindingManager
func NewKeybindingManager(keybindings map[string][]string) *KeybindingManager {
	return &KeybindingManager{keymap: lightbox.NewKeymap(keybindings)}
}

// Keymap returns the keymap shared with the lightbox controller
func (km *KeybindingManager) Keymap() *lightbox.Keymap {
	return km.keymap
}

// Actions returns the actions triggered by keys pressed in this frame
func (km *KeybindingManager) Actions() []string {
	km.pressed = inpututil.AppendJustPressedKeys(km.pressed[:0])
	return km.resolve(keyEvents(km.pressed, currentModifiers()))
}

func (km *KeybindingManager) resolve(events []lightbox.KeyEvent) []string {
	var actions []string
	for _, ev := range events {
		if action, ok := km.keymap.Resolve(ev); ok {
			actions = append(actions, action)
		}
	}
	return actions
}
