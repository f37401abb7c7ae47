package main

import (
	"image"

	"lightbox/internal/lightbox"
)

const (
	gridPadding   = 12
	gridGap       = 8
	statusHeight  = 28
	arrowWidth    = 64
	closeSize     = 44
	overlayMargin = 24
)

// Grid lays thumbnails out in rows of equal square cells and tracks vertical scrolling
type Grid struct {
	Cell   int
	Width  int
	Height int // visible height, without the status line
	Scroll int
	Count  int
}

// Columns returns how many cells fit side by side, at least one
func (g *Grid) Columns() int {
	usable := g.Width - 2*gridPadding + gridGap
	cols := usable / (g.Cell + gridGap)
	if cols < 1 {
		return 1
	}
	return cols
}

// Rows returns the number of rows needed for Count cells
func (g *Grid) Rows() int {
	cols := g.Columns()
	return (g.Count + cols - 1) / cols
}

// RowHeight is the vertical distance between two rows
func (g *Grid) RowHeight() int {
	return g.Cell + gridGap
}

// ContentHeight is the full height of the laid out grid
func (g *Grid) ContentHeight() int {
	rows := g.Rows()
	if rows == 0 {
		return 0
	}
	return 2*gridPadding + rows*g.RowHeight() - gridGap
}

// MaxScroll is the largest valid scroll offset
func (g *Grid) MaxScroll() int {
	m := g.ContentHeight() - g.Height
	if m < 0 {
		return 0
	}
	return m
}

// ScrollBy moves the view by dy pixels, clamped to the content
func (g *Grid) ScrollBy(dy int) {
	g.Scroll += dy
	g.clamp()
}

func (g *Grid) clamp() {
	if g.Scroll > g.MaxScroll() {
		g.Scroll = g.MaxScroll()
	}
	if g.Scroll < 0 {
		g.Scroll = 0
	}
}

// Resize updates the viewport and keeps the scroll offset valid
func (g *Grid) Resize(width, height, count int) {
	g.Width, g.Height, g.Count = width, height, count
	g.clamp()
}

// CellRect returns the on-screen rectangle of cell i
func (g *Grid) CellRect(i int) image.Rectangle {
	cols := g.Columns()
	row, col := i/cols, i%cols
	x := gridPadding + col*(g.Cell+gridGap)
	y := gridPadding + row*g.RowHeight() - g.Scroll
	return image.Rect(x, y, x+g.Cell, y+g.Cell)
}

// VisibleRange returns the half-open range of cells that intersect the viewport
func (g *Grid) VisibleRange() (int, int) {
	if g.Count == 0 {
		return 0, 0
	}
	cols := g.Columns()
	first := (g.Scroll - gridPadding) / g.RowHeight()
	if first < 0 {
		first = 0
	}
	last := (g.Scroll+g.Height-gridPadding)/g.RowHeight() + 1
	start, end := first*cols, last*cols
	if end > g.Count {
		end = g.Count
	}
	if start > end {
		start = end
	}
	return start, end
}

// HitTest returns the cell under (x, y), or -1
func (g *Grid) HitTest(x, y int) int {
	if y >= g.Height {
		return -1
	}
	pt := image.Pt(x, y)
	start, end := g.VisibleRange()
	for i := start; i < end; i++ {
		if pt.In(g.CellRect(i)) {
			return i
		}
	}
	return -1
}

// OverlayLayout is the geometry of the full-size viewer for one screen size
type OverlayLayout struct {
	Width  int
	Height int
}

// Close returns the close button rectangle in the top right corner
func (o OverlayLayout) Close() image.Rectangle {
	return image.Rect(o.Width-closeSize-overlayMargin/2, overlayMargin/2, o.Width-overlayMargin/2, overlayMargin/2+closeSize)
}

// PrevArrow returns the left arrow rectangle
func (o OverlayLayout) PrevArrow() image.Rectangle {
	mid := o.Height / 2
	return image.Rect(0, mid-arrowWidth, arrowWidth, mid+arrowWidth)
}

// NextArrow returns the right arrow rectangle
func (o OverlayLayout) NextArrow() image.Rectangle {
	mid := o.Height / 2
	return image.Rect(o.Width-arrowWidth, mid-arrowWidth, o.Width, mid+arrowWidth)
}

// ImageRect fits an imgW x imgH image between the arrows, keeping its aspect ratio.
// Images smaller than the space are not enlarged.
func (o OverlayLayout) ImageRect(imgW, imgH int) image.Rectangle {
	availW := o.Width - 2*arrowWidth
	availH := o.Height - 2*overlayMargin - statusHeight
	if imgW <= 0 || imgH <= 0 || availW <= 0 || availH <= 0 {
		return image.Rectangle{}
	}

	scale := calculateFitScale(imgW, imgH, availW, availH)
	w, h := int(float64(imgW)*scale), int(float64(imgH)*scale)
	x := (o.Width - w) / 2
	y := overlayMargin + (availH-h)/2
	return image.Rect(x, y, x+w, y+h)
}

// HitTest classifies a click at (x, y) given where the image is drawn
func (o OverlayLayout) HitTest(x, y int, imageRect image.Rectangle) lightbox.Target {
	pt := image.Pt(x, y)
	switch {
	case pt.In(o.Close()):
		return lightbox.TargetClose
	case pt.In(o.PrevArrow()):
		return lightbox.TargetPrevArrow
	case pt.In(o.NextArrow()):
		return lightbox.TargetNextArrow
	case pt.In(imageRect):
		return lightbox.TargetImage
	default:
		return lightbox.TargetBackdrop
	}
}

// calculateFitScale returns the largest scale <= 1 that fits w x h inside maxW x maxH
func calculateFitScale(w, h, maxW, maxH int) float64 {
	scaleX := float64(maxW) / float64(w)
	scaleY := float64(maxH) / float64(h)
	scale := scaleX
	if scaleY < scale {
		scale = scaleY
	}
	if scale > 1 {
		scale = 1
	}
	return scale
}
