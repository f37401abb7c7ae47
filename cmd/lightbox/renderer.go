package main

import (
	"fmt"
	"image"
	"image/color"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"

	"lightbox/internal/config"
	"lightbox/internal/gallery"
	"lightbox/internal/lightbox"
)

var (
	colorWhite     = color.RGBA{255, 255, 255, 255}
	colorGray      = color.RGBA{180, 180, 180, 255}
	colorLightGray = color.RGBA{192, 192, 192, 255}
	colorYellow    = color.RGBA{255, 255, 100, 255}
	colorCyan      = color.RGBA{100, 255, 255, 255}
	colorLightBlue = color.RGBA{200, 200, 255, 255}
	colorGreen     = color.RGBA{100, 255, 100, 255}
	colorOrange    = color.RGBA{255, 200, 100, 255}
	colorLightRed  = color.RGBA{255, 150, 150, 255}
	colorErrorRed  = color.RGBA{120, 30, 30, 255}
	colorCell      = color.RGBA{40, 40, 44, 255}
	colorGridBg    = color.RGBA{24, 24, 26, 255}

	// Background colors for semi-transparent overlays
	bgColorLight  = color.RGBA{0, 0, 0, 128}
	bgColorMedium = color.RGBA{0, 0, 0, 160}
	bgColorDark   = color.RGBA{0, 0, 0, 220}
)

const baseFontSize = 16.0

// RenderState provides read-only access to game state for the renderer
type RenderState interface {
	GetGrid() Grid
	GetPaths() []gallery.ImagePath
	GetThumbnail(p gallery.ImagePath) *ebiten.Image
	GetLoadStats() StoreStats

	// Overlay state
	IsOverlayVisible() bool
	GetOverlayImage() (*ebiten.Image, string)
	GetOverlayPosition() (int, int) // 1-based index and total

	IsShowingHelp() bool
	GetOverlayMessage() string
	GetOverlayMessageTime() time.Time
	GetConfigStatus() config.ConfigLoadResult
	GetKeybindings() map[string][]string
	GetMousebindings() map[string][]string
}

// Renderer handles all drawing operations
type Renderer struct {
	renderState RenderState
}

// NewRenderer creates a new Renderer. InitGraphics must have been called.
func NewRenderer(renderState RenderState) *Renderer {
	return &Renderer{renderState: renderState}
}

func (r *Renderer) face(size float64) *text.GoTextFace {
	return &text.GoTextFace{Source: fontSource, Size: size}
}

// Draw renders the entire screen and returns where the overlay image was drawn
func (r *Renderer) Draw(screen *ebiten.Image) image.Rectangle {
	screen.Fill(colorGridBg)
	r.drawGrid(screen)
	r.drawStatusLine(screen)

	var imageRect image.Rectangle
	if r.renderState.IsOverlayVisible() {
		imageRect = r.drawOverlay(screen)
	}

	if r.renderState.IsShowingHelp() {
		r.drawHelpOverlay(screen)
	}

	if r.renderState.GetOverlayMessage() != "" && time.Since(r.renderState.GetOverlayMessageTime()) < overlayMessageDuration {
		r.drawOverlayMessage(screen)
	}
	return imageRect
}

func (r *Renderer) drawGrid(screen *ebiten.Image) {
	grid := r.renderState.GetGrid()
	paths := r.renderState.GetPaths()
	start, end := grid.VisibleRange()

	for i := start; i < end && i < len(paths); i++ {
		cell := grid.CellRect(i)
		DrawFilledRect(screen, float64(cell.Min.X), float64(cell.Min.Y), float64(cell.Dx()), float64(cell.Dy()), colorCell)

		thumb := r.renderState.GetThumbnail(paths[i])
		if thumb == nil {
			continue
		}
		r.drawImageInRect(screen, thumb, cell)
	}
}

// drawImageInRect draws img scaled down to fit rect, centered
func (r *Renderer) drawImageInRect(screen, img *ebiten.Image, rect image.Rectangle) image.Rectangle {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	if w == 0 || h == 0 {
		return image.Rectangle{}
	}
	scale := calculateFitScale(w, h, rect.Dx(), rect.Dy())
	sw, sh := float64(w)*scale, float64(h)*scale
	x := float64(rect.Min.X) + (float64(rect.Dx())-sw)/2
	y := float64(rect.Min.Y) + (float64(rect.Dy())-sh)/2

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(x, y)
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(img, op)
	return image.Rect(int(x), int(y), int(x+sw), int(y+sh))
}

func (r *Renderer) drawStatusLine(screen *ebiten.Image) {
	w, h := screen.Bounds().Dx(), screen.Bounds().Dy()
	DrawFilledRect(screen, 0, float64(h-statusHeight), float64(w), statusHeight, bgColorDark)

	grid := r.renderState.GetGrid()
	status := fmt.Sprintf("%d images", len(r.renderState.GetPaths()))
	if stats := r.renderState.GetLoadStats(); stats.Failed > 0 {
		status += fmt.Sprintf(", %d failed to load", stats.Failed)
	}
	if grid.MaxScroll() > 0 {
		status += fmt.Sprintf("  %d%%", grid.Scroll*100/grid.MaxScroll())
	}
	DrawText(screen, status, r.face(14), 10, float64(h-statusHeight)+6, colorLightGray)
}

func (r *Renderer) drawOverlay(screen *ebiten.Image) image.Rectangle {
	w, h := screen.Bounds().Dx(), screen.Bounds().Dy()
	layout := OverlayLayout{Width: w, Height: h}
	DrawFilledRect(screen, 0, 0, float64(w), float64(h), bgColorDark)

	img, src := r.renderState.GetOverlayImage()
	var imageRect image.Rectangle
	if img != nil {
		imageRect = layout.ImageRect(img.Bounds().Dx(), img.Bounds().Dy())
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Scale(float64(imageRect.Dx())/float64(img.Bounds().Dx()), float64(imageRect.Dy())/float64(img.Bounds().Dy()))
		op.GeoM.Translate(float64(imageRect.Min.X), float64(imageRect.Min.Y))
		op.Filter = ebiten.FilterLinear
		screen.DrawImage(img, op)
	} else {
		loading := "Loading..."
		tw, th := text.Measure(loading, r.face(baseFontSize), 0)
		DrawText(screen, loading, r.face(baseFontSize), (float64(w)-tw)/2, (float64(h)-th)/2, colorGray)
	}

	r.drawControls(screen, layout)

	index, total := r.renderState.GetOverlayPosition()
	info := fmt.Sprintf("%s  [%d/%d]", lightbox.Filename(src), index, total)
	infoWidth, _ := text.Measure(info, r.face(14), 0)
	DrawText(screen, info, r.face(14), (float64(w)-infoWidth)/2, float64(h-statusHeight)+6, colorWhite)
	return imageRect
}

// drawControls draws the close cross and the two arrows
func (r *Renderer) drawControls(screen *ebiten.Image, layout OverlayLayout) {
	c := layout.Close()
	inset := 12.0
	DrawLine(screen, float64(c.Min.X)+inset, float64(c.Min.Y)+inset, float64(c.Max.X)-inset, float64(c.Max.Y)-inset, 3, colorWhite)
	DrawLine(screen, float64(c.Max.X)-inset, float64(c.Min.Y)+inset, float64(c.Min.X)+inset, float64(c.Max.Y)-inset, 3, colorWhite)

	for _, arrow := range []struct {
		rect image.Rectangle
		dir  float64
	}{{layout.PrevArrow(), -1}, {layout.NextArrow(), 1}} {
		cx := float64(arrow.rect.Min.X+arrow.rect.Max.X) / 2
		cy := float64(arrow.rect.Min.Y+arrow.rect.Max.Y) / 2
		DrawLine(screen, cx-8*arrow.dir, cy-16, cx+8*arrow.dir, cy, 4, colorLightGray)
		DrawLine(screen, cx+8*arrow.dir, cy, cx-8*arrow.dir, cy+16, 4, colorLightGray)
	}
}

func (r *Renderer) drawHelpOverlay(screen *ebiten.Image) {
	w, h := float64(screen.Bounds().Dx()), float64(screen.Bounds().Dy())

	padding := 40.0
	fontSize, canFit := r.calculateOptimalFontSize(w-padding*2, h-padding*2)
	if !canFit {
		r.drawMarginTooSmallMessage(screen)
		return
	}

	keybindings := r.renderState.GetKeybindings()
	mousebindings := r.renderState.GetMousebindings()
	configStatus := r.renderState.GetConfigStatus()
	descriptions := actionDescriptions()

	DrawFilledRect(screen, 0, 0, w, h, bgColorLight)
	DrawFilledRect(screen, padding, padding, w-padding*2, h-padding*2, bgColorMedium)

	helpFont := r.face(fontSize)
	lineHeight := fontSize * 1.5

	currentY := padding + 30
	DrawText(screen, "HELP:", helpFont, padding+20, currentY, colorWhite)
	currentY += fontSize * 2
	DrawText(screen, "Controls (Keyboard | Mouse):", helpFont, padding+20, currentY, colorWhite)
	currentY += lineHeight * 1.5

	actionWidth, inputWidth, _ := r.columnWidths(helpFont)
	actionColumnX := padding + 40
	arrowColumnX := actionColumnX + actionWidth + 20
	inputColumnX := arrowColumnX + 30
	descColumnX := inputColumnX + inputWidth + 20

	for _, action := range helpOrder() {
		keys, mice := keybindings[action], mousebindings[action]
		if len(keys) == 0 && len(mice) == 0 {
			continue
		}

		DrawText(screen, action, helpFont, actionColumnX, currentY, colorLightBlue)
		DrawText(screen, "→", helpFont, arrowColumnX, currentY, colorWhite)

		x := inputColumnX
		if len(keys) > 0 {
			keysList := strings.Join(keys, ", ")
			DrawText(screen, keysList, helpFont, x, currentY, colorYellow)
			kw, _ := text.Measure(keysList, helpFont, 0)
			x += kw
		}
		if len(keys) > 0 && len(mice) > 0 {
			DrawText(screen, " | ", helpFont, x, currentY, colorWhite)
			sw, _ := text.Measure(" | ", helpFont, 0)
			x += sw
		}
		if len(mice) > 0 {
			DrawText(screen, strings.Join(mice, ", "), helpFont, x, currentY, colorCyan)
		}

		DrawText(screen, descriptions[action], helpFont, descColumnX, currentY, colorGray)
		currentY += lineHeight
	}

	currentY += lineHeight
	DrawText(screen, "System:", helpFont, padding+20, currentY, colorWhite)
	currentY += lineHeight

	statusColor := colorGreen
	if configStatus.Status == config.StatusWarning || configStatus.Status == config.StatusError {
		statusColor = colorOrange
	}
	DrawText(screen, fmt.Sprintf("Config Status: %s", configStatus.Status), helpFont, padding+40, currentY, statusColor)
	currentY += lineHeight

	for _, warning := range shortWarnings(configStatus.Warnings) {
		DrawText(screen, "• "+warning, helpFont, padding+40, currentY, colorLightRed)
		currentY += lineHeight
	}
}

// shortWarnings keeps the first two warnings, truncated to fit one line
func shortWarnings(warnings []string) []string {
	var out []string
	for i, warning := range warnings {
		if i >= 2 {
			break
		}
		out = append(out, truncate(warning, 50))
	}
	return out
}

// columnWidths measures the widest action name, input list and description
func (r *Renderer) columnWidths(font *text.GoTextFace) (float64, float64, float64) {
	keybindings := r.renderState.GetKeybindings()
	mousebindings := r.renderState.GetMousebindings()
	descriptions := actionDescriptions()

	var actionWidth, inputWidth, descWidth float64
	for _, action := range helpOrder() {
		keys, mice := keybindings[action], mousebindings[action]
		if len(keys) == 0 && len(mice) == 0 {
			continue
		}

		var inputParts []string
		if len(keys) > 0 {
			inputParts = append(inputParts, strings.Join(keys, ", "))
		}
		if len(mice) > 0 {
			inputParts = append(inputParts, strings.Join(mice, ", "))
		}

		aw, _ := text.Measure(action, font, 0)
		iw, _ := text.Measure(strings.Join(inputParts, " | "), font, 0)
		dw, _ := text.Measure(descriptions[action], font, 0)
		actionWidth = max(actionWidth, aw)
		inputWidth = max(inputWidth, iw)
		descWidth = max(descWidth, dw)
	}
	return actionWidth, inputWidth, descWidth
}

// calculateRequiredDimensions returns the size the help content needs at fontSize
func (r *Renderer) calculateRequiredDimensions(fontSize float64) (float64, float64) {
	font := r.face(fontSize)
	padding := 40.0
	lineHeight := fontSize * 1.5

	lines := 0
	keybindings := r.renderState.GetKeybindings()
	mousebindings := r.renderState.GetMousebindings()
	for _, action := range helpOrder() {
		if len(keybindings[action]) > 0 || len(mousebindings[action]) > 0 {
			lines++
		}
	}
	warnings := shortWarnings(r.renderState.GetConfigStatus().Warnings)

	height := padding*2 + fontSize*2 + lineHeight*1.5
	height += float64(lines+3+len(warnings)) * lineHeight

	actionWidth, inputWidth, descWidth := r.columnWidths(font)
	width := 40 + actionWidth + 20 + 30 + 20 + inputWidth + 20 + descWidth + padding*2
	for _, warning := range warnings {
		ww, _ := text.Measure("• "+warning, font, 0)
		width = max(width, ww+padding*2+80)
	}
	return width, height
}

// calculateOptimalFontSize finds the largest font size that fits within the given dimensions
func (r *Renderer) calculateOptimalFontSize(availableWidth, availableHeight float64) (float64, bool) {
	maxFontSize := baseFontSize
	minFontSize := 10.0

	fits := func(size float64) bool {
		w, h := r.calculateRequiredDimensions(size)
		return w <= availableWidth && h <= availableHeight
	}

	if !fits(minFontSize) {
		return minFontSize, false
	}
	if fits(maxFontSize) {
		return maxFontSize, true
	}

	low, high, best := minFontSize, maxFontSize, minFontSize
	for high-low > 0.5 {
		mid := (low + high) / 2
		if fits(mid) {
			best, low = mid, mid
		} else {
			high = mid
		}
	}
	return best, true
}

// drawMarginTooSmallMessage is shown when the help cannot fit the window
func (r *Renderer) drawMarginTooSmallMessage(screen *ebiten.Image) {
	w, h := screen.Bounds().Dx(), screen.Bounds().Dy()
	DrawFilledRect(screen, 0, 0, float64(w), float64(h), bgColorLight)

	font := r.face(16)
	message := "Hanc marginis exiguitas non caperet."
	subtitle := "(This margin is too small to contain it.)"

	messageWidth, messageHeight := text.Measure(message, font, 0)
	subtitleWidth, _ := text.Measure(subtitle, font, 0)

	messageX := float64(w)/2 - messageWidth/2
	messageY := float64(h)/2 - messageHeight/2
	DrawText(screen, message, font, messageX, messageY, colorWhite)
	DrawText(screen, subtitle, font, float64(w)/2-subtitleWidth/2, messageY+messageHeight+10, colorGray)
}

func (r *Renderer) drawOverlayMessage(screen *ebiten.Image) {
	font := r.face(baseFontSize)
	message := r.renderState.GetOverlayMessage()
	textWidth, textHeight := text.Measure(message, font, 0)

	padding := 20.0
	boxWidth := textWidth + padding*2
	boxHeight := textHeight + padding*2
	boxX := (float64(screen.Bounds().Dx()) - boxWidth) / 2
	boxY := (float64(screen.Bounds().Dy()) - boxHeight) / 2

	DrawFilledRect(screen, boxX, boxY, boxWidth, boxHeight, bgColorDark)
	DrawText(screen, message, font, boxX+padding, boxY+padding, colorWhite)
}
