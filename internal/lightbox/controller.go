package lightbox

import "strings"

// Unset marks a NavigationState that has not been opened yet
const Unset = -1

// Direction is the scan direction of a same-filename skip
type Direction int

const (
	Backward Direction = -1
	Forward  Direction = 1
)

// Thumbnail is a clickable element that references a full-size resource
type Thumbnail interface {
	// FullSource returns the locator of the full-size resource
	FullSource() string
	// SameAs reports whether other refers to the same element
	SameAs(other Thumbnail) bool
}

// Container provides the qualifying thumbnails of the host in document order.
// It is queried again on every open so additions and removals between opens are picked up.
type Container interface {
	Thumbnails() []Thumbnail
}

// Overlay is the full-size viewer shown over the host content
type Overlay interface {
	Show()
	Hide()
	Visible() bool
	Display(src string)
}

// NavigationState is the transient state of an open lightbox
type NavigationState struct {
	Index  int         // Unset or a valid index into Images
	Images []Thumbnail // Snapshot taken at open time
}

// Controller tracks the active thumbnail and moves it under the navigation operations.
// All methods are meant to be called from the host's single event goroutine.
type Controller struct {
	container Container
	overlay   Overlay
	keymap    *Keymap
	executor  *ActionExecutor
	state     NavigationState
}

// NewController creates a Controller using the default keybindings
func NewController(container Container, overlay Overlay) *Controller {
	return NewControllerWithKeymap(container, overlay, NewKeymap(DefaultKeybindings()))
}

// NewControllerWithKeymap creates a Controller resolving keys through keymap
func NewControllerWithKeymap(container Container, overlay Overlay, keymap *Keymap) *Controller {
	return &Controller{
		container: container,
		overlay:   overlay,
		keymap:    keymap,
		executor:  NewActionExecutor(),
		state:     NavigationState{Index: Unset},
	}
}

// State returns a copy of the navigation state
func (c *Controller) State() NavigationState {
	images := make([]Thumbnail, len(c.state.Images))
	copy(images, c.state.Images)
	return NavigationState{Index: c.state.Index, Images: images}
}

// Index returns the current index, or Unset
func (c *Controller) Index() int {
	return c.state.Index
}

// Active reports whether the overlay is currently shown
func (c *Controller) Active() bool {
	return c.overlay.Visible()
}

// Current returns the thumbnail being displayed, or nil
func (c *Controller) Current() Thumbnail {
	if !c.validIndex(c.state.Index) {
		return nil
	}
	return c.state.Images[c.state.Index]
}

// Open rescans the container and shows the overlay at the clicked thumbnail.
// It returns false without touching any state when the thumbnail is not found.
func (c *Controller) Open(clicked Thumbnail) bool {
	if clicked == nil || clicked.FullSource() == "" {
		return false
	}

	images := c.container.Thumbnails()
	index := Unset
	for i, img := range images {
		if img.SameAs(clicked) {
			index = i
			break
		}
	}
	if index == Unset {
		return false
	}

	c.state.Images = images
	c.state.Index = index
	c.display()
	c.overlay.Show()
	return true
}

// Close hides the overlay. The navigation state is left as is.
func (c *Controller) Close() {
	c.overlay.Hide()
}

// Next moves to the following image, wrapping from the last to the first
func (c *Controller) Next() {
	n := len(c.state.Images)
	if n == 0 {
		return
	}
	c.state.Index = (c.state.Index + 1) % n
	c.display()
}

// Prev moves to the preceding image, wrapping from the first to the last
func (c *Controller) Prev() {
	n := len(c.state.Images)
	if n == 0 {
		return
	}
	c.state.Index = (c.state.Index - 1 + n) % n
	c.display()
}

// SkipToSameFilename jumps to the nearest image in dir whose filename matches the current one.
// The scan stops at the list boundary; when nothing matches the state is unchanged.
func (c *Controller) SkipToSameFilename(dir Direction) {
	if dir != Forward && dir != Backward {
		return
	}
	current := c.Current()
	if current == nil {
		return
	}

	name := Filename(current.FullSource())
	for i := c.state.Index + int(dir); c.validIndex(i); i += int(dir) {
		if Filename(c.state.Images[i].FullSource()) == name {
			c.state.Index = i
			c.display()
			return
		}
	}
}

// Filename returns the final path segment of a locator, i.e. everything after the last '/'
func Filename(locator string) string {
	return locator[strings.LastIndex(locator, "/")+1:]
}

func (c *Controller) validIndex(i int) bool {
	return i >= 0 && i < len(c.state.Images)
}

func (c *Controller) display() {
	c.overlay.Display(c.state.Images[c.state.Index].FullSource())
}
