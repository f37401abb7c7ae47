package main

import (
	"sort"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"lightbox/internal/config"
)

// MouseCombination represents a mouse action with optional modifiers
type MouseCombination struct {
	Button      ebiten.MouseButton
	IsWheel     bool
	WheelDeltaX float64
	WheelDeltaY float64
	Modifiers
}

// MouseInput is the mouse state sampled for a frame
type MouseInput struct {
	WheelX, WheelY float64
	JustPressed    map[ebiten.MouseButton]bool
	Modifiers
}

var mouseMapping = map[string]ebiten.MouseButton{
	"LeftClick":   ebiten.MouseButtonLeft,
	"RightClick":  ebiten.MouseButtonRight,
	"MiddleClick": ebiten.MouseButtonMiddle,
	"Back":        ebiten.MouseButton3,
	"Forward":     ebiten.MouseButton4,
}

// parseMouseString parses a mouse string like "Shift+WheelUp" into a MouseCombination
func parseMouseString(mouseStr string) (MouseCombination, bool) {
	parts := strings.Split(mouseStr, "+")
	actionName := parts[len(parts)-1]

	var combination MouseCombination
	switch actionName {
	case "WheelUp":
		combination.IsWheel, combination.WheelDeltaY = true, 1
	case "WheelDown":
		combination.IsWheel, combination.WheelDeltaY = true, -1
	case "WheelLeft":
		combination.IsWheel, combination.WheelDeltaX = true, -1
	case "WheelRight":
		combination.IsWheel, combination.WheelDeltaX = true, 1
	default:
		button, exists := mouseMapping[actionName]
		if !exists {
			return MouseCombination{}, false
		}
		combination.Button = button
	}

	for _, modifier := range parts[:len(parts)-1] {
		switch strings.ToLower(modifier) {
		case "shift":
			combination.Shift = true
		case "ctrl":
			combination.Ctrl = true
		case "alt":
			combination.Alt = true
		default:
			return MouseCombination{}, false
		}
	}
	return combination, true
}

// MousebindingManager resolves wheel and button input to overlay actions
type MousebindingManager struct {
	mousebindings map[string][]string
	actions       []string
	settings      config.MouseSettings
}

// NewMousebindingManager creates a new MousebindingManager
func NewMousebindingManager(mousebindings map[string][]string, settings config.MouseSettings) *MousebindingManager {
	mm := &MousebindingManager{mousebindings: mousebindings, settings: settings}
	for action := range mousebindings {
		mm.actions = append(mm.actions, action)
	}
	sort.Strings(mm.actions)
	return mm
}

// Mousebindings returns the current mouse bindings map (for display purposes)
func (mm *MousebindingManager) Mousebindings() map[string][]string {
	return mm.mousebindings
}

// Settings returns the mouse settings
func (mm *MousebindingManager) Settings() config.MouseSettings {
	return mm.settings
}

// Wheel returns this frame's wheel movement with sensitivity and inversion applied
func (mm *MousebindingManager) Wheel(rawX, rawY float64) (float64, float64) {
	if mm.settings.WheelInverted {
		rawY = -rawY
	}
	return rawX * mm.settings.WheelSensitivity, rawY * mm.settings.WheelSensitivity
}

// Sample reads the current mouse state from Ebiten
func (mm *MousebindingManager) Sample() MouseInput {
	wx, wy := mm.Wheel(ebiten.Wheel())
	pressed := make(map[ebiten.MouseButton]bool)
	for _, button := range mouseMapping {
		if inpututil.IsMouseButtonJustPressed(button) {
			pressed[button] = true
		}
	}
	return MouseInput{WheelX: wx, WheelY: wy, JustPressed: pressed, Modifiers: currentModifiers()}
}

// Actions returns the bound actions triggered by in. At most one action fires per wheel direction.
func (mm *MousebindingManager) Actions(in MouseInput) []string {
	if !mm.settings.EnableMouse {
		return nil
	}
	var triggered []string
	for _, action := range mm.actions {
		for _, mouseStr := range mm.mousebindings[action] {
			combination, ok := parseMouseString(mouseStr)
			if ok && combination.triggeredBy(in) {
				triggered = append(triggered, action)
				break
			}
		}
	}
	return triggered
}

func (mc MouseCombination) triggeredBy(in MouseInput) bool {
	if mc.Modifiers != in.Modifiers {
		return false
	}
	if !mc.IsWheel {
		return in.JustPressed[mc.Button]
	}
	if mc.WheelDeltaX != 0 {
		return (mc.WheelDeltaX > 0 && in.WheelX > 0) || (mc.WheelDeltaX < 0 && in.WheelX < 0)
	}
	return (mc.WheelDeltaY > 0 && in.WheelY > 0) || (mc.WheelDeltaY < 0 && in.WheelY < 0)
}
