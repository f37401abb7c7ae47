package lightbox

// Action names understood by the ActionExecutor
const (
	ActionNext         = "next"
	ActionPrevious     = "previous"
	ActionClose        = "close"
	ActionSameBackward = "same_file_backward"
	ActionSameForward  = "same_file_forward"
)

// ActionDefinition defines an action with its default keybindings, mouse bindings, and description
type ActionDefinition struct {
	Name         string
	Keys         []string
	MouseActions []string
	Description  string
}

// actionDefinitions contains the overlay actions with their default bindings.
// KeyD searches backward and KeyA forward.
var actionDefinitions = []ActionDefinition{
	{ActionNext, []string{"ArrowRight"}, []string{"WheelDown"}, "Next image (wraps to the first)"},
	{ActionPrevious, []string{"ArrowLeft"}, []string{"WheelUp"}, "Previous image (wraps to the last)"},
	{ActionClose, []string{"Escape"}, []string{}, "Close the lightbox"},
	{ActionSameBackward, []string{"KeyD"}, []string{}, "Previous image with the same filename"},
	{ActionSameForward, []string{"KeyA"}, []string{}, "Next image with the same filename"},
}

// Actions is the set of operations an action can trigger
type Actions interface {
	Next()
	Prev()
	Close()
	SkipToSameFilename(dir Direction)
}

// ActionExecutor maps action names onto Actions calls
type ActionExecutor struct{}

// NewActionExecutor creates a new ActionExecutor instance
func NewActionExecutor() *ActionExecutor {
	return &ActionExecutor{}
}

// ExecuteAction runs the named action. It returns false for unknown names.
func (ae *ActionExecutor) ExecuteAction(action string, actions Actions) bool {
	switch action {
	case ActionNext:
		actions.Next()
	case ActionPrevious:
		actions.Prev()
	case ActionClose:
		actions.Close()
	case ActionSameBackward:
		actions.SkipToSameFilename(Backward)
	case ActionSameForward:
		actions.SkipToSameFilename(Forward)
	default:
		return false
	}

	return true
}

// ActionDescriptions returns a map of action names to their descriptions
func ActionDescriptions() map[string]string {
	descriptions := make(map[string]string)
	for _, action := range actionDefinitions {
		descriptions[action.Name] = action.Description
	}
	return descriptions
}

// DefaultKeybindings returns a map of action names to their default keybindings
func DefaultKeybindings() map[string][]string {
	keybindings := make(map[string][]string)
	for _, action := range actionDefinitions {
		keybindings[action.Name] = append([]string(nil), action.Keys...)
	}
	return keybindings
}

// DefaultMousebindings returns a map of action names to their default mouse bindings
func DefaultMousebindings() map[string][]string {
	mousebindings := make(map[string][]string)
	for _, action := range actionDefinitions {
		mousebindings[action.Name] = append([]string(nil), action.MouseActions...)
	}
	return mousebindings
}

// IsAction reports whether name is one of the overlay actions
func IsAction(name string) bool {
	for _, action := range actionDefinitions {
		if action.Name == name {
			return true
		}
	}
	return false
}
