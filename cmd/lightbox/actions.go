package main

import (
	"lightbox/internal/config"
	"lightbox/internal/lightbox"
)

// Grid action names. The overlay actions live in the lightbox package.
const (
	actionExit       = "exit"
	actionHelp       = "help"
	actionFullscreen = "fullscreen"
	actionScrollUp   = "scroll_up"
	actionScrollDown = "scroll_down"
	actionPageUp     = "page_up"
	actionPageDown   = "page_down"
	actionJumpFirst  = "jump_first"
	actionJumpLast   = "jump_last"
	actionRescan     = "rescan"
)

// gridActionDefinitions are the viewer actions available outside the overlay
var gridActionDefinitions = []lightbox.ActionDefinition{
	{Name: actionExit, Keys: []string{"KeyQ"}, Description: "Exit application"},
	{Name: actionHelp, Keys: []string{"KeyH"}, Description: "Toggle help display"},
	{Name: actionFullscreen, Keys: []string{"KeyF"}, Description: "Toggle fullscreen"},
	{Name: actionScrollUp, Keys: []string{"ArrowUp"}, Description: "Scroll up one row"},
	{Name: actionScrollDown, Keys: []string{"ArrowDown"}, Description: "Scroll down one row"},
	{Name: actionPageUp, Keys: []string{"PageUp"}, Description: "Scroll up one screen"},
	{Name: actionPageDown, Keys: []string{"PageDown", "Space"}, Description: "Scroll down one screen"},
	{Name: actionJumpFirst, Keys: []string{"Home"}, Description: "Jump to the first row"},
	{Name: actionJumpLast, Keys: []string{"End"}, Description: "Jump to the last row"},
	{Name: actionRescan, Keys: []string{"KeyR"}, Description: "Reload the image list"},
}

// overlayOnlyDisabled lists grid actions that do nothing while the overlay is shown
var overlayOnlyDisabled = map[string]bool{
	actionScrollUp: true, actionScrollDown: true, actionPageUp: true, actionPageDown: true,
	actionJumpFirst: true, actionJumpLast: true, actionRescan: true,
}

// GridActions is what the grid executor drives
type GridActions interface {
	Exit()
	ToggleHelp()
	ToggleFullscreen()
	ScrollRows(rows int)
	ScrollPages(pages int)
	ScrollToEdge(end bool)
	Rescan()
}

// GridActionExecutor maps grid action names onto GridActions calls
type GridActionExecutor struct{}

// ExecuteAction runs the named grid action. It returns false for unknown names.
func (ge GridActionExecutor) ExecuteAction(action string, actions GridActions) bool {
	switch action {
	case actionExit:
		actions.Exit()
	case actionHelp:
		actions.ToggleHelp()
	case actionFullscreen:
		actions.ToggleFullscreen()
	case actionScrollUp:
		actions.ScrollRows(-1)
	case actionScrollDown:
		actions.ScrollRows(1)
	case actionPageUp:
		actions.ScrollPages(-1)
	case actionPageDown:
		actions.ScrollPages(1)
	case actionJumpFirst:
		actions.ScrollToEdge(false)
	case actionJumpLast:
		actions.ScrollToEdge(true)
	case actionRescan:
		actions.Rescan()
	default:
		return false
	}
	return true
}

// bindingDefaults merges the overlay and grid defaults for config loading
func bindingDefaults() config.Defaults {
	keys := lightbox.DefaultKeybindings()
	mice := lightbox.DefaultMousebindings()
	for _, action := range gridActionDefinitions {
		keys[action.Name] = append([]string(nil), action.Keys...)
	}
	return config.Defaults{Keybindings: keys, Mousebindings: mice}
}

// actionDescriptions covers both overlay and grid actions
func actionDescriptions() map[string]string {
	descriptions := lightbox.ActionDescriptions()
	for _, action := range gridActionDefinitions {
		descriptions[action.Name] = action.Description
	}
	return descriptions
}

// helpOrder is the order actions appear in the help overlay
func helpOrder() []string {
	order := []string{
		lightbox.ActionNext, lightbox.ActionPrevious, lightbox.ActionSameBackward,
		lightbox.ActionSameForward, lightbox.ActionClose,
	}
	for _, action := range gridActionDefinitions {
		order = append(order, action.Name)
	}
	return order
}
