// Command lightbox shows images, directories and archives as a thumbnail grid.
// Clicking a thumbnail opens it in a full-size overlay with wrap-around navigation.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"

	"lightbox/internal/config"
	"lightbox/internal/gallery"
)

func debugLog(format string, args ...interface{}) {
	if os.Getenv("LIGHTBOX_DEBUG") != "" {
		log.Printf("Debug: "+format, args...)
	}
}

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] PATH...\n\n", os.Args[0])
	fmt.Fprintln(flag.CommandLine.Output(), "PATH may be an image, a directory or a .zip/.rar/.7z archive.")
	flag.PrintDefaults()
}

// sortChoices lists the names accepted by -sort
func sortChoices() string {
	var keys []string
	for _, s := range gallery.GetAllSortStrategies() {
		keys = append(keys, s.Key())
	}
	return strings.Join(keys, ", ")
}

func main() {
	sortName := flag.String("sort", "", "sort method: "+sortChoices()+" (default from config)")
	thumbSize := flag.Int("thumb-size", 0, "thumbnail cell size in pixels (default from config)")
	listKeys := flag.Bool("keys", false, "print the key names accepted in keybindings and exit")
	flag.Usage = usage
	flag.Parse()

	if *listKeys {
		printKeyNames(os.Stdout)
		return
	}

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	status := config.Load(bindingDefaults())
	cfg := &status.Config
	if *sortName != "" {
		method, ok := gallery.SortMethodByName(*sortName)
		if !ok {
			log.Fatalf("unknown sort method %q", *sortName)
		}
		cfg.SortMethod = method
	}
	if *thumbSize >= config.MinThumbnailSize && *thumbSize <= config.MaxThumbnailSize {
		cfg.ThumbnailSize = *thumbSize
	}

	paths, err := gallery.CollectImages(flag.Args(), cfg.SortMethod)
	if err != nil {
		log.Fatal(err)
	}
	if len(paths) == 0 {
		log.Fatal("no image files specified")
	}
	debugLog("Collected %d images with %s sort", len(paths), gallery.GetSortStrategy(cfg.SortMethod).Name())

	if err := InitGraphics(); err != nil {
		log.Fatal(err)
	}

	g := NewGame(flag.Args(), paths, status)

	ebiten.SetWindowTitle("Lightbox")
	ebiten.SetWindowSize(cfg.WindowWidth, cfg.WindowHeight)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowClosingHandled(true)
	ebiten.SetFullscreen(cfg.Fullscreen)

	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}
