package gallery

import (
	"context"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultThumbnailScale   = 0.15
	DefaultThumbnailWorkers = 10

	// Sources exactly this tall are never scaled below minTallScale
	tallSourceHeight = 900
	minTallScale     = 0.2
)

var thumbnailExtensions = []string{".jpg", ".jpeg", ".png", ".bmp", ".gif", ".tiff", ".webp"}

// IsThumbnailSource reports whether name is an image the thumbnailer processes
func IsThumbnailSource(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range thumbnailExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// Job is one source image and the thumbnail path it maps to
type Job struct {
	Src string
	Dst string
}

// ThumbnailName returns the file name a thumbnail of path is written under.
// x/image has no webp encoder, so webp sources get a .png thumbnail.
func ThumbnailName(path string) string {
	ext := filepath.Ext(path)
	if strings.EqualFold(ext, ".webp") {
		return strings.TrimSuffix(path, ext) + ".png"
	}
	return path
}

// CollectJobs walks srcDir and maps every image onto the same relative path under dstDir
func CollectJobs(srcDir, dstDir string) ([]Job, error) {
	var jobs []Job
	err := filepath.WalkDir(srcDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !IsThumbnailSource(d.Name()) {
			return nil
		}
		rel, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}
		jobs = append(jobs, Job{Src: path, Dst: filepath.Join(dstDir, ThumbnailName(rel))})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", srcDir, err)
	}
	return jobs, nil
}

// ShouldProcess reports whether dst is missing or not newer than src
func ShouldProcess(src, dst string, overwrite bool) bool {
	if overwrite {
		return true
	}
	dstInfo, err := os.Stat(dst)
	if err != nil {
		return true
	}
	srcInfo, err := os.Stat(src)
	if err != nil {
		return true
	}
	return !dstInfo.ModTime().After(srcInfo.ModTime())
}

// ScaledSize returns the thumbnail size for a w x h source
func ScaledSize(w, h int, scale float64) (int, int) {
	if h == tallSourceHeight && scale < minTallScale {
		scale = minTallScale
	}
	nw, nh := int(float64(w)*scale), int(float64(h)*scale)
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}
	return nw, nh
}

// Resize scales the image at src by scale and writes it to dst, creating parent directories
func Resize(src, dst string, scale float64) error {
	f, err := os.Open(src)
	if err != nil {
		return err
	}
	img, _, err := image.Decode(f)
	f.Close()
	if err != nil {
		return fmt.Errorf("decoding %s: %w", src, err)
	}

	w, h := ScaledSize(img.Bounds().Dx(), img.Bounds().Dy(), scale)
	resized := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(resized, resized.Bounds(), img, img.Bounds(), draw.Over, nil)

	dir := filepath.Dir(dst)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	// Write next to the target and rename so readers never see a partial file
	tmp, err := os.CreateTemp(dir, ".thumb-*")
	if err != nil {
		return err
	}
	if err := encodeImage(tmp, resized, filepath.Ext(dst)); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("encoding %s: %w", dst, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), dst)
}

// encodeImage picks the encoder from the destination extension, falling back to PNG
func encodeImage(w io.Writer, img image.Image, ext string) error {
	switch strings.ToLower(ext) {
	case ".jpg", ".jpeg":
		return jpeg.Encode(w, img, nil)
	case ".gif":
		return gif.Encode(w, img, nil)
	case ".bmp":
		return bmp.Encode(w, img)
	case ".tif", ".tiff":
		return tiff.Encode(w, img, nil)
	default:
		return png.Encode(w, img)
	}
}

// ResultStatus is the outcome of one job
type ResultStatus int

const (
	StatusResized ResultStatus = iota
	StatusSkipped
	StatusFailed
)

// Result is the outcome of processing one job
type Result struct {
	Job
	Status ResultStatus
	Err    error
}

// Message describes the result the way the progress output shows it
func (r Result) Message() string {
	switch r.Status {
	case StatusSkipped:
		return "skipped (already resized)"
	case StatusFailed:
		return fmt.Sprintf("failed: %v", r.Err)
	default:
		return "resized"
	}
}

// Summary counts the results of a run
type Summary struct {
	Succeeded int
	Skipped   int
	Failed    int
	Total     int
}

// ThumbnailOptions configures a Thumbnailer
type ThumbnailOptions struct {
	Scale     float64
	Overwrite bool
	Workers   int
}

// Thumbnailer resizes a tree of images in parallel
type Thumbnailer struct {
	opts     ThumbnailOptions
	reporter Reporter
}

// NewThumbnailer creates a Thumbnailer, filling in defaults for zero options
func NewThumbnailer(opts ThumbnailOptions, reporter Reporter) *Thumbnailer {
	if opts.Scale <= 0 {
		opts.Scale = DefaultThumbnailScale
	}
	if opts.Workers < 1 {
		opts.Workers = DefaultThumbnailWorkers
	}
	if reporter == nil {
		reporter = NewReporter()
	}
	return &Thumbnailer{opts: opts, reporter: reporter}
}

// Process handles a single job. Failures are reported in the result, never returned.
func (t *Thumbnailer) Process(job Job) Result {
	if !ShouldProcess(job.Src, job.Dst, t.opts.Overwrite) {
		return Result{Job: job, Status: StatusSkipped}
	}
	if err := Resize(job.Src, job.Dst, t.opts.Scale); err != nil {
		return Result{Job: job, Status: StatusFailed, Err: err}
	}
	return Result{Job: job, Status: StatusResized}
}

// Run collects every image under srcDir and resizes it into dstDir.
// Individual failures are counted; only walk errors and cancellation are returned.
func (t *Thumbnailer) Run(ctx context.Context, srcDir, dstDir string) (Summary, error) {
	jobs, err := CollectJobs(srcDir, dstDir)
	if err != nil {
		return Summary{}, err
	}
	if len(jobs) == 0 {
		log.Printf("No image files found in %s. Nothing to do.", srcDir)
		return Summary{}, nil
	}

	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return Summary{}, fmt.Errorf("creating %s: %w", dstDir, err)
	}

	summary := Summary{Total: len(jobs)}
	log.Printf("Found %d image(s). Processing with %d workers...", summary.Total, t.opts.Workers)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(t.opts.Workers)

	results := make(chan Result)
	var runErr error
	go func() {
		defer close(results)
		for _, job := range jobs {
			if gctx.Err() != nil {
				break
			}
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				results <- t.Process(job)
				return nil
			})
		}
		runErr = g.Wait()
	}()

	t.reporter.Start(summary.Total)
	completed := 0
	for res := range results {
		completed++
		switch res.Status {
		case StatusSkipped:
			summary.Skipped++
		case StatusFailed:
			summary.Failed++
			debugLog("thumbnail %s: %v", res.Src, res.Err)
		default:
			summary.Succeeded++
		}
		t.reporter.Update(completed, fmt.Sprintf("%s: %s", res.Message(), res.Dst))
	}
	t.reporter.Finish()

	log.Printf("Done. Succeeded: %d, Skipped: %d, Failed: %d, Total: %d.",
		summary.Succeeded, summary.Skipped, summary.Failed, summary.Total)

	if runErr == nil {
		runErr = ctx.Err()
	}
	return summary, runErr
}

func debugLog(format string, args ...interface{}) {
	if os.Getenv("LIGHTBOX_DEBUG") != "" {
		log.Printf("Debug: "+format, args...)
	}
}
