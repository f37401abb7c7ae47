package main

import (
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"lightbox/internal/gallery"
)

var thumbsCmd = &cobra.Command{
	Use:   "thumbs SRC DST",
	Short: "Resize images into a mirrored thumbnail tree",
	Long: `Walks SRC and writes a scaled copy of every image to the same relative
path under DST. Images whose thumbnail is newer than the source are skipped
unless --overwrite is given. Sources exactly 900 pixels tall are never scaled
below 0.2.`,
	Args: cobra.ExactArgs(2),
	RunE: runThumbs,
}

func init() {
	thumbsCmd.Flags().Float64("scale", gallery.DefaultThumbnailScale, "scale factor")
	thumbsCmd.Flags().Bool("overwrite", false, "resize even when the thumbnail is up to date")
	thumbsCmd.Flags().Int("workers", gallery.DefaultThumbnailWorkers, "number of parallel workers")
	rootCmd.AddCommand(thumbsCmd)
}

func runThumbs(cmd *cobra.Command, args []string) error {
	scale, _ := cmd.Flags().GetFloat64("scale")
	overwrite, _ := cmd.Flags().GetBool("overwrite")
	workers, _ := cmd.Flags().GetInt("workers")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	thumbnailer := gallery.NewThumbnailer(gallery.ThumbnailOptions{
		Scale:     scale,
		Overwrite: overwrite,
		Workers:   workers,
	}, gallery.NewReporter())

	_, err := thumbnailer.Run(ctx, args[0], args[1])
	return err
}
