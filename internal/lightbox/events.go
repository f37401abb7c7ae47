package lightbox

// Target identifies what a click landed on
type Target int

const (
	TargetNone Target = iota
	TargetThumbnail
	TargetBackdrop // the overlay itself, outside its contents
	TargetImage    // the displayed image inside the overlay
	TargetClose
	TargetPrevArrow
	TargetNextArrow
)

// ClickEvent is a pointer click delivered by the host
type ClickEvent struct {
	Target    Target
	Thumbnail Thumbnail // set for TargetThumbnail
}

// HandleKey runs the action bound to ev. Keys are ignored while the overlay is hidden.
// It returns true if an action was executed.
func (c *Controller) HandleKey(ev KeyEvent) bool {
	if !c.overlay.Visible() {
		return false
	}
	action, ok := c.keymap.Resolve(ev)
	if !ok {
		return false
	}
	return c.executor.ExecuteAction(action, c)
}

// HandleAction runs a named action while the overlay is visible
func (c *Controller) HandleAction(action string) bool {
	if !c.overlay.Visible() {
		return false
	}
	return c.executor.ExecuteAction(action, c)
}

// HandleClick dispatches a click. It returns true if the click changed anything.
func (c *Controller) HandleClick(ev ClickEvent) bool {
	switch ev.Target {
	case TargetThumbnail:
		return c.Open(ev.Thumbnail)
	case TargetBackdrop, TargetClose:
		c.Close()
	case TargetPrevArrow:
		c.Prev()
	case TargetNextArrow:
		c.Next()
	default:
		return false
	}
	return true
}

// Keymap returns the keymap used by HandleKey
func (c *Controller) Keymap() *Keymap {
	return c.keymap
}
