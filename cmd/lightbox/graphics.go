package main

import (
	"bytes"
	"image/color"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/mattn/go-runewidth"
	"golang.org/x/image/font/gofont/goregular"
)

// fontSource is shared by the renderer and error placeholders
var fontSource *text.GoTextFaceSource

// InitGraphics loads the embedded Go Regular font
func InitGraphics() error {
	s, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return err
	}
	fontSource = s
	return nil
}

// DrawText draws text with its top left corner at (x, y)
func DrawText(screen *ebiten.Image, textString string, font *text.GoTextFace, x, y float64, textColor color.RGBA) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(textColor)
	text.Draw(screen, textString, font, op)
}

// DrawFilledRect draws filled rectangles with float64 coordinates
func DrawFilledRect(screen *ebiten.Image, x, y, w, h float64, bgColor color.RGBA) {
	vector.DrawFilledRect(screen, float32(x), float32(y), float32(w), float32(h), bgColor, false)
}

// DrawLine draws an antialiased line
func DrawLine(screen *ebiten.Image, x0, y0, x1, y1, width float64, lineColor color.RGBA) {
	vector.StrokeLine(screen, float32(x0), float32(y0), float32(x1), float32(y1), float32(width), lineColor, true)
}

func drawBorder(img *ebiten.Image, width, height int) {
	DrawFilledRect(img, 0, 0, float64(width), 3, colorWhite)
	DrawFilledRect(img, 0, float64(height-3), float64(width), 3, colorWhite)
	DrawFilledRect(img, 0, 0, 3, float64(height), colorWhite)
	DrawFilledRect(img, float64(width-3), 0, 3, float64(height), colorWhite)
}

// CreateErrorImage creates a placeholder naming the file that failed to load and why.
// Small placeholders, such as grid cells, only show the title.
func CreateErrorImage(width, height int, filename, errorMsg string) *ebiten.Image {
	if width <= 0 || height <= 0 {
		width, height = 400, 300
	}

	errorImg := ebiten.NewImage(width, height)
	errorImg.Fill(colorErrorRed)
	drawBorder(errorImg, width, height)

	if fontSource == nil {
		return errorImg
	}

	size := 20.0
	if width < 300 {
		size = 14.0
	}
	errorFont := &text.GoTextFace{Source: fontSource, Size: size}

	DrawText(errorImg, "ERROR", errorFont, 10, 10, colorWhite)
	if width < 300 {
		return errorImg
	}

	maxChars := (width - 20) / 10
	lines := []string{
		truncate("File: "+filepath.Base(filename), maxChars),
		truncate("Reason: "+errorMsg, maxChars),
	}
	for i, line := range lines {
		DrawText(errorImg, line, errorFont, 10, 40+float64(i)*30, colorWhite)
	}
	return errorImg
}

// truncate shortens s to maxChars display cells, so wide runes count double
func truncate(s string, maxChars int) string {
	if maxChars < 4 {
		return s
	}
	return runewidth.Truncate(s, maxChars, "...")
}
