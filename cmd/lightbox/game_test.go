package main

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"lightbox/internal/config"
	"lightbox/internal/gallery"
	"lightbox/internal/lightbox"
)

func testPaths(names ...string) []gallery.ImagePath {
	paths := make([]gallery.ImagePath, len(names))
	for i, name := range names {
		paths[i] = gallery.ImagePath{Path: name}
	}
	return paths
}

func newTestGame(t *testing.T, paths []gallery.ImagePath) *Game {
	t.Helper()
	status := config.ConfigLoadResult{Config: config.Default(bindingDefaults()), Status: config.StatusDefault}
	status.Config.ThumbnailSize = 100
	g := NewGame([]string{"shots"}, paths, status)
	t.Cleanup(g.store.Stop)
	g.Layout(2*gridPadding+3*100+2*gridGap, 600)
	return g
}

func clickCell(g *Game, i int) {
	r := g.grid.CellRect(i)
	g.handleClick(r.Min.X+1, r.Min.Y+1)
}

func TestGameOpenAndNavigate(t *testing.T) {
	g := newTestGame(t, testPaths("a/cat.png", "b/dog.png", "b/cat.png"))

	clickCell(g, 1)
	if !g.overlayVisible || g.overlaySrc != "b/dog.png" {
		t.Fatalf("Expected b/dog.png shown, got visible=%v src=%q", g.overlayVisible, g.overlaySrc)
	}
	if idx, total := g.GetOverlayPosition(); idx != 2 || total != 3 {
		t.Errorf("GetOverlayPosition() = %d/%d, want 2/3", idx, total)
	}

	g.dispatch(lightbox.ActionNext)
	if g.overlaySrc != "b/cat.png" {
		t.Errorf("Expected b/cat.png after next, got %q", g.overlaySrc)
	}
	g.dispatch(lightbox.ActionNext)
	if g.overlaySrc != "a/cat.png" {
		t.Errorf("Expected wrap to a/cat.png, got %q", g.overlaySrc)
	}
	g.dispatch(lightbox.ActionSameBackward)
	if g.overlaySrc != "a/cat.png" {
		t.Errorf("Backward skip from the first image should not move, got %q", g.overlaySrc)
	}
	g.dispatch(lightbox.ActionSameForward)
	if g.overlaySrc != "b/cat.png" {
		t.Errorf("Expected forward skip to b/cat.png, got %q", g.overlaySrc)
	}

	g.dispatch(lightbox.ActionClose)
	if g.overlayVisible {
		t.Error("Overlay should be hidden after close")
	}

	// Navigation keys do nothing while hidden
	g.dispatch(lightbox.ActionNext)
	if g.overlaySrc != "b/cat.png" {
		t.Errorf("Hidden overlay should ignore next, got %q", g.overlaySrc)
	}
}

func archivePath(archive, entry string) gallery.ImagePath {
	return gallery.ImagePath{Path: archive + ":" + entry, ArchivePath: archive, EntryPath: entry}
}

func TestGameSkipAcrossArchives(t *testing.T) {
	g := newTestGame(t, []gallery.ImagePath{
		archivePath("shots/a.zip", "cat.png"),
		archivePath("shots/a.zip", "dog.png"),
		archivePath("shots/b.zip", "cat.png"),
		{Path: "loose/cat.png"},
	})

	clickCell(g, 0)
	g.dispatch(lightbox.ActionSameForward)
	if g.overlaySrc != "shots/b.zip/cat.png" {
		t.Fatalf("Expected the skip to reach cat.png in b.zip, got %q", g.overlaySrc)
	}
	if idx, _ := g.GetOverlayPosition(); idx != 3 {
		t.Errorf("Expected 1-based position 3, got %d", idx)
	}

	g.dispatch(lightbox.ActionSameForward)
	if g.overlaySrc != "loose/cat.png" {
		t.Errorf("Expected the skip to reach the loose cat.png, got %q", g.overlaySrc)
	}

	g.dispatch(lightbox.ActionSameBackward)
	g.dispatch(lightbox.ActionSameBackward)
	if g.overlaySrc != "shots/a.zip/cat.png" {
		t.Errorf("Expected the backward skip to return to a.zip, got %q", g.overlaySrc)
	}
}

func TestGameLoadStats(t *testing.T) {
	g := newTestGame(t, testPaths(filepath.Join(t.TempDir(), "missing.png")))

	g.GetThumbnail(g.paths[0])
	deadline := time.Now().Add(5 * time.Second)
	for g.GetLoadStats().Failed == 0 {
		if time.Now().After(deadline) {
			t.Fatal("Timed out waiting for the failed decode to be counted")
		}
		time.Sleep(10 * time.Millisecond)
	}
	if stats := g.GetLoadStats(); stats.Failed != 1 || stats.Loaded != 0 {
		t.Errorf("Expected 1 failed and 0 loaded, got %+v", stats)
	}
}

func TestGameOverlayClicks(t *testing.T) {
	g := newTestGame(t, testPaths("1.png", "2.png", "3.png"))
	clickCell(g, 0)

	layout := OverlayLayout{Width: g.grid.Width, Height: g.grid.Height + statusHeight}
	prev := layout.PrevArrow()
	g.handleClick(prev.Min.X+1, prev.Min.Y+1)
	if g.overlaySrc != "3.png" {
		t.Errorf("Left arrow from the first image should wrap to 3.png, got %q", g.overlaySrc)
	}

	next := layout.NextArrow()
	g.handleClick(next.Min.X+1, next.Min.Y+1)
	if g.overlaySrc != "1.png" {
		t.Errorf("Right arrow should move to 1.png, got %q", g.overlaySrc)
	}

	// A click on the image itself keeps the overlay open
	g.imageRect = layout.ImageRect(100, 100)
	g.handleClick(g.imageRect.Min.X+1, g.imageRect.Min.Y+1)
	if !g.overlayVisible {
		t.Error("Clicking the image should not close the overlay")
	}

	g.handleClick(layout.Width/2, 2)
	if g.overlayVisible {
		t.Error("Clicking the backdrop should close the overlay")
	}
}

func TestGameGridActionsWhileOverlayVisible(t *testing.T) {
	names := make([]string, 30)
	for i := range names {
		names[i] = string(rune('a'+i%26)) + ".png"
	}
	g := newTestGame(t, testPaths(names...))

	g.dispatch(actionScrollDown)
	if g.grid.Scroll != g.grid.RowHeight() {
		t.Fatalf("Expected one row of scroll, got %d", g.grid.Scroll)
	}

	clickCell(g, 3)
	g.dispatch(actionJumpLast)
	if g.grid.Scroll != g.grid.RowHeight() {
		t.Errorf("Grid scrolling should be ignored while the overlay is shown, got %d", g.grid.Scroll)
	}

	g.dispatch(actionHelp)
	if !g.showHelp {
		t.Error("Help should toggle while the overlay is shown")
	}
	g.handleClick(1, 1)
	if g.showHelp || !g.overlayVisible {
		t.Error("A click should dismiss the help before reaching the overlay")
	}

	g.dispatch(actionExit)
	if !g.quit {
		t.Error("Exit should request termination")
	}
}

func TestGameRescan(t *testing.T) {
	g := newTestGame(t, testPaths("1.png", "2.png", "3.png"))
	clickCell(g, 2)

	g.collect = func(args []string, sortMethod int) ([]gallery.ImagePath, error) {
		if len(args) != 1 || args[0] != "shots" {
			t.Errorf("Rescan used args %v", args)
		}
		return testPaths("2.png", "4.png"), nil
	}
	g.dispatch(lightbox.ActionClose)
	g.dispatch(actionRescan)

	if len(g.GetPaths()) != 2 || g.grid.Count != 2 {
		t.Fatalf("Expected 2 paths after rescan, got %d", len(g.GetPaths()))
	}

	clickCell(g, 1)
	if g.overlaySrc != "4.png" {
		t.Errorf("Expected 4.png from the new list, got %q", g.overlaySrc)
	}
	if _, total := g.GetOverlayPosition(); total != 2 {
		t.Errorf("Controller should use the rescanned list, got %d images", total)
	}

	g.collect = func([]string, int) ([]gallery.ImagePath, error) {
		return nil, errors.New("gone")
	}
	g.dispatch(lightbox.ActionClose)
	g.dispatch(actionRescan)
	if len(g.GetPaths()) != 2 {
		t.Error("A failed rescan should keep the old list")
	}
	if g.GetOverlayMessage() != "Rescan failed" {
		t.Errorf("Expected a failure message, got %q", g.GetOverlayMessage())
	}
}

func TestGridThumbSameAs(t *testing.T) {
	a := gridThumb{index: 0, path: gallery.ImagePath{Path: "x.png"}}
	b := gridThumb{index: 1, path: gallery.ImagePath{Path: "x.png"}}

	if !a.SameAs(a) {
		t.Error("A thumbnail should be the same as itself")
	}
	if a.SameAs(b) {
		t.Error("Two cells with the same file are different thumbnails")
	}
	if a.FullSource() != "x.png" {
		t.Errorf("FullSource() = %q", a.FullSource())
	}
}
