package main

import (
	"fmt"
	"image"
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"lightbox/internal/config"
	"lightbox/internal/gallery"
	"lightbox/internal/lightbox"
)

const overlayMessageDuration = 2 * time.Second

// gridThumb is one cell of the grid as seen by the lightbox controller
type gridThumb struct {
	index int
	path  gallery.ImagePath
}

func (t gridThumb) FullSource() string { return t.path.Locator() }

func (t gridThumb) SameAs(other lightbox.Thumbnail) bool {
	o, ok := other.(gridThumb)
	return ok && o.index == t.index && o.path == t.path
}

// Game is the Ebiten host: a scrolling thumbnail grid with the lightbox overlay on top
type Game struct {
	args   []string
	paths  []gallery.ImagePath
	byLoc  map[string]gallery.ImagePath
	config config.Config
	status config.ConfigLoadResult

	grid       Grid
	store      *ImageStore
	controller *lightbox.Controller
	keys       *KeybindingManager
	mouse      *MousebindingManager
	grids      GridActionExecutor
	renderer   *Renderer

	overlayVisible bool
	overlaySrc     string
	imageRect      image.Rectangle

	showHelp       bool
	fullscreen     bool
	savedWinW      int
	savedWinH      int
	quit           bool
	overlayMessage string
	messageTime    time.Time
	collect        func(args []string, sortMethod int) ([]gallery.ImagePath, error)
}

// NewGame wires the controller, input managers and image store for paths
func NewGame(args []string, paths []gallery.ImagePath, status config.ConfigLoadResult) *Game {
	cfg := status.Config
	g := &Game{
		args:       args,
		config:     cfg,
		status:     status,
		grid:       Grid{Cell: cfg.ThumbnailSize},
		store:      NewImageStore(cfg.CacheSize, cfg.ThumbnailCacheSize, cfg.ThumbnailSize, 4),
		keys:       NewKeybindingManager(cfg.Keybindings),
		mouse:      NewMousebindingManager(cfg.Mousebindings, cfg.MouseSettings),
		fullscreen: cfg.Fullscreen,
		collect:    gallery.CollectImages,
	}
	g.controller = lightbox.NewControllerWithKeymap(g, g, g.keys.Keymap())
	g.renderer = NewRenderer(g)
	g.setPaths(paths)

	if status.Status == config.StatusWarning || status.Status == config.StatusError {
		g.showMessage(fmt.Sprintf("Config %s: see log", status.Status))
	}
	return g
}

func (g *Game) setPaths(paths []gallery.ImagePath) {
	g.paths = paths
	g.byLoc = make(map[string]gallery.ImagePath, len(paths))
	for _, p := range paths {
		g.byLoc[p.Locator()] = p
	}
	g.grid.Count = len(paths)
}

// Thumbnails implements lightbox.Container in grid order
func (g *Game) Thumbnails() []lightbox.Thumbnail {
	thumbs := make([]lightbox.Thumbnail, len(g.paths))
	for i, p := range g.paths {
		thumbs[i] = gridThumb{index: i, path: p}
	}
	return thumbs
}

// Show implements lightbox.Overlay
func (g *Game) Show() { g.overlayVisible = true }

// Hide implements lightbox.Overlay
func (g *Game) Hide() { g.overlayVisible = false }

// Visible implements lightbox.Overlay
func (g *Game) Visible() bool { return g.overlayVisible }

// Display implements lightbox.Overlay. The image is loaded on the next frames.
func (g *Game) Display(src string) {
	g.overlaySrc = src
	if p, ok := g.byLoc[src]; ok {
		g.store.Full(p)
	}
	debugLog("Display %s", src)
}

// Exit implements GridActions
func (g *Game) Exit() {
	g.quit = true
}

// ToggleHelp implements GridActions
func (g *Game) ToggleHelp() {
	g.showHelp = !g.showHelp
}

// ToggleFullscreen implements GridActions
func (g *Game) ToggleFullscreen() {
	if !g.fullscreen {
		g.savedWinW, g.savedWinH = ebiten.WindowSize()
	}
	g.fullscreen = !g.fullscreen
	ebiten.SetFullscreen(g.fullscreen)
	if !g.fullscreen && g.savedWinW > 0 && g.savedWinH > 0 {
		ebiten.SetWindowSize(g.savedWinW, g.savedWinH)
	}
}

// ScrollRows implements GridActions
func (g *Game) ScrollRows(rows int) {
	g.grid.ScrollBy(rows * g.grid.RowHeight())
}

// ScrollPages implements GridActions
func (g *Game) ScrollPages(pages int) {
	g.grid.ScrollBy(pages * g.grid.Height)
	g.store.DropQueuedThumbnails()
}

// ScrollToEdge implements GridActions
func (g *Game) ScrollToEdge(end bool) {
	if end {
		g.grid.Scroll = g.grid.MaxScroll()
	} else {
		g.grid.Scroll = 0
	}
	g.store.DropQueuedThumbnails()
}

// Rescan implements GridActions. The controller picks the new list up on the next open.
func (g *Game) Rescan() {
	paths, err := g.collect(g.args, g.config.SortMethod)
	if err != nil {
		log.Printf("Warning: Rescan failed: %v", err)
		g.showMessage("Rescan failed")
		return
	}
	g.setPaths(paths)
	g.grid.clamp()
	g.store.DropQueuedThumbnails()
	g.showMessage(fmt.Sprintf("%d images", len(paths)))
}

func (g *Game) showMessage(msg string) {
	g.overlayMessage = msg
	g.messageTime = time.Now()
}

func (g *Game) saveCurrentWindowSize() {
	if g.fullscreen {
		if g.savedWinW > 0 && g.savedWinH > 0 {
			g.config.WindowWidth = g.savedWinW
			g.config.WindowHeight = g.savedWinH
		}
	} else {
		g.config.WindowWidth, g.config.WindowHeight = ebiten.WindowSize()
	}
	g.config.Fullscreen = g.fullscreen
	if err := config.Save(g.config); err != nil {
		log.Printf("Warning: %v", err)
	}
}

// dispatch runs one resolved action. Overlay actions go to the controller, the rest to the grid.
func (g *Game) dispatch(action string) {
	if lightbox.IsAction(action) {
		g.controller.HandleAction(action)
		return
	}
	if g.overlayVisible && overlayOnlyDisabled[action] {
		return
	}
	g.grids.ExecuteAction(action, g)
}

func (g *Game) handleClick(x, y int) {
	if g.showHelp {
		g.showHelp = false
		return
	}
	if g.overlayVisible {
		layout := OverlayLayout{Width: g.grid.Width, Height: g.grid.Height + statusHeight}
		g.controller.HandleClick(lightbox.ClickEvent{Target: layout.HitTest(x, y, g.imageRect)})
		return
	}
	if i := g.grid.HitTest(x, y); i >= 0 {
		g.controller.HandleClick(lightbox.ClickEvent{
			Target:    lightbox.TargetThumbnail,
			Thumbnail: gridThumb{index: i, path: g.paths[i]},
		})
	}
}

func (g *Game) Update() error {
	g.store.Collect()

	for _, action := range g.keys.Actions() {
		g.dispatch(action)
	}

	in := g.mouse.Sample()
	if g.overlayVisible {
		for _, action := range g.mouse.Actions(in) {
			g.dispatch(action)
		}
	} else if in.WheelY != 0 && g.mouse.Settings().EnableMouse {
		g.grid.ScrollBy(int(-in.WheelY * float64(g.grid.RowHeight()) / 2))
	}

	if g.mouse.Settings().EnableMouse && inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		g.handleClick(ebiten.CursorPosition())
	}

	if g.overlayMessage != "" && time.Since(g.messageTime) > overlayMessageDuration {
		g.overlayMessage = ""
	}

	if g.quit || ebiten.IsWindowBeingClosed() {
		g.saveCurrentWindowSize()
		g.store.Stop()
		return ebiten.Termination
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.imageRect = g.renderer.Draw(screen)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.grid.Resize(outsideWidth, outsideHeight-statusHeight, len(g.paths))
	return outsideWidth, outsideHeight
}

// RenderState implementation

func (g *Game) GetGrid() Grid                 { return g.grid }
func (g *Game) GetPaths() []gallery.ImagePath { return g.paths }
func (g *Game) IsOverlayVisible() bool        { return g.overlayVisible }
func (g *Game) IsShowingHelp() bool           { return g.showHelp }
func (g *Game) GetOverlayMessage() string     { return g.overlayMessage }

func (g *Game) GetOverlayMessageTime() time.Time { return g.messageTime }

func (g *Game) GetConfigStatus() config.ConfigLoadResult { return g.status }

func (g *Game) GetKeybindings() map[string][]string   { return g.keys.Keymap().Keybindings() }
func (g *Game) GetMousebindings() map[string][]string { return g.mouse.Mousebindings() }

func (g *Game) GetLoadStats() StoreStats { return g.store.Stats() }

func (g *Game) GetThumbnail(p gallery.ImagePath) *ebiten.Image {
	return g.store.Thumbnail(p)
}

// GetOverlayImage returns the full-size image being displayed, or nil while it loads
func (g *Game) GetOverlayImage() (*ebiten.Image, string) {
	p, ok := g.byLoc[g.overlaySrc]
	if !ok {
		return nil, g.overlaySrc
	}
	return g.store.Full(p), g.overlaySrc
}

// GetOverlayPosition reports the overlay position within the list captured at open time
func (g *Game) GetOverlayPosition() (int, int) {
	state := g.controller.State()
	return state.Index + 1, len(state.Images)
}
