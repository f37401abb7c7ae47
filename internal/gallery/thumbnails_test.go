package gallery

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"
)

type recordingReporter struct {
	total    int
	messages []string
	finished bool
}

func (r *recordingReporter) Start(total int) { r.total = total }
func (r *recordingReporter) Update(current int, message string) {
	r.messages = append(r.messages, message)
}
func (r *recordingReporter) Finish() { r.finished = true }

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("Failed to create dir: %v", err)
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{uint8(x), 0, 0, 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("Failed to encode png: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
}

func imageSize(t *testing.T, path string) (int, int) {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Failed to open %s: %v", path, err)
	}
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		t.Fatalf("Failed to decode %s: %v", path, err)
	}
	return cfg.Width, cfg.Height
}

func TestIsThumbnailSource(t *testing.T) {
	tests := []struct {
		name     string
		expected bool
	}{
		{"a.png", true},
		{"a.JPG", true},
		{"a.jpeg", true},
		{"a.tiff", true},
		{"a.webp", true},
		{"a.bmp", true},
		{"a.gif", true},
		{"a.tif", false},
		{"a.txt", false},
		{"png", false},
	}

	for _, tt := range tests {
		if got := IsThumbnailSource(tt.name); got != tt.expected {
			t.Errorf("IsThumbnailSource(%s) = %v, want %v", tt.name, got, tt.expected)
		}
	}
}

func TestScaledSize(t *testing.T) {
	tests := []struct {
		name      string
		w, h      int
		scale     float64
		expectedW int
		expectedH int
	}{
		{"Default scale", 1000, 600, 0.15, 150, 90},
		{"Half", 640, 480, 0.5, 320, 240},
		{"Height 900 raises small scale", 1600, 900, 0.15, 320, 180},
		{"Height 900 keeps larger scale", 1600, 900, 0.5, 800, 450},
		{"Height 901 not special", 1600, 901, 0.15, 240, 135},
		{"Never zero", 3, 3, 0.15, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := ScaledSize(tt.w, tt.h, tt.scale)
			if w != tt.expectedW || h != tt.expectedH {
				t.Errorf("ScaledSize(%d, %d, %.2f) = %dx%d, want %dx%d", tt.w, tt.h, tt.scale, w, h, tt.expectedW, tt.expectedH)
			}
		})
	}
}

func TestCollectJobs(t *testing.T) {
	src := t.TempDir()
	dst := filepath.Join(t.TempDir(), "thumbs")

	for _, name := range []string{"a.png", "sub/b.JPG", "sub/deeper/c.webp", "notes.txt", "sub/readme.md"} {
		path := filepath.Join(src, filepath.FromSlash(name))
		os.MkdirAll(filepath.Dir(path), 0o755)
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatalf("Failed to write %s: %v", path, err)
		}
	}

	jobs, err := CollectJobs(src, dst)
	if err != nil {
		t.Fatalf("CollectJobs failed: %v", err)
	}

	var got []string
	for _, job := range jobs {
		rel, _ := filepath.Rel(dst, job.Dst)
		got = append(got, filepath.ToSlash(rel))
		srcRel, _ := filepath.Rel(src, job.Src)
		if ThumbnailName(srcRel) != rel {
			t.Errorf("Destination %s does not mirror source %s", rel, srcRel)
		}
	}
	sort.Strings(got)

	expected := []string{"a.png", "sub/b.JPG", "sub/deeper/c.png"}
	if strings.Join(got, ",") != strings.Join(expected, ",") {
		t.Errorf("Expected %v, got %v", expected, got)
	}
}

func TestThumbnailName(t *testing.T) {
	tests := []struct {
		path     string
		expected string
	}{
		{"a.png", "a.png"},
		{"sub/b.JPG", "sub/b.JPG"},
		{"sub/c.webp", "sub/c.png"},
		{"d.WebP", "d.png"},
		{"webp/e.gif", "webp/e.gif"},
		{"noext", "noext"},
	}

	for _, tt := range tests {
		if got := ThumbnailName(tt.path); got != tt.expected {
			t.Errorf("ThumbnailName(%q) = %q, want %q", tt.path, got, tt.expected)
		}
	}
}

func TestShouldProcess(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.png")
	dst := filepath.Join(dir, "dst.png")
	os.WriteFile(src, []byte("x"), 0o644)

	if !ShouldProcess(src, dst, false) {
		t.Error("Missing destination should be processed")
	}

	os.WriteFile(dst, []byte("x"), 0o644)
	now := time.Now()
	os.Chtimes(src, now, now.Add(-time.Hour))
	os.Chtimes(dst, now, now)
	if ShouldProcess(src, dst, false) {
		t.Error("Newer destination should be skipped")
	}
	if !ShouldProcess(src, dst, true) {
		t.Error("Overwrite should always process")
	}

	os.Chtimes(dst, now, now.Add(-2*time.Hour))
	if !ShouldProcess(src, dst, false) {
		t.Error("Older destination should be processed")
	}
}

func TestResize(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in.png")
	writePNG(t, src, 200, 100)

	tests := []struct {
		name string
		dst  string
	}{
		{"PNG", "out/a.png"},
		{"JPEG", "out/b.jpg"},
		{"GIF", "out/c.gif"},
		{"BMP", "out/d.bmp"},
		{"TIFF", "out/e.tiff"},
		{"WebP written as PNG", "out/f.webp"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dst := filepath.Join(dir, filepath.FromSlash(tt.dst))
			if err := Resize(src, dst, 0.5); err != nil {
				t.Fatalf("Resize failed: %v", err)
			}
			w, h := imageSize(t, dst)
			if w != 100 || h != 50 {
				t.Errorf("Expected 100x50, got %dx%d", w, h)
			}
		})
	}

	if err := Resize(filepath.Join(dir, "missing.png"), filepath.Join(dir, "x.png"), 0.5); err == nil {
		t.Error("Expected an error for a missing source")
	}
}

func TestThumbnailerRun(t *testing.T) {
	src := t.TempDir()
	dst := filepath.Join(t.TempDir(), "thumbs")

	writePNG(t, filepath.Join(src, "a.png"), 100, 100)
	writePNG(t, filepath.Join(src, "2022-06-01 00-00-00", "b.png"), 1600, 900)
	if err := os.WriteFile(filepath.Join(src, "broken.png"), []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}
	past := time.Now().Add(-time.Hour)
	os.Chtimes(filepath.Join(src, "a.png"), past, past)
	os.Chtimes(filepath.Join(src, "2022-06-01 00-00-00", "b.png"), past, past)

	reporter := &recordingReporter{}
	thumbnailer := NewThumbnailer(ThumbnailOptions{Scale: 0.15, Workers: 2}, reporter)

	summary, err := thumbnailer.Run(context.Background(), src, dst)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	expected := Summary{Succeeded: 2, Skipped: 0, Failed: 1, Total: 3}
	if summary != expected {
		t.Errorf("Expected %+v, got %+v", expected, summary)
	}
	if reporter.total != 3 || len(reporter.messages) != 3 || !reporter.finished {
		t.Errorf("Unexpected reporter state: total=%d messages=%d finished=%v", reporter.total, len(reporter.messages), reporter.finished)
	}

	if w, h := imageSize(t, filepath.Join(dst, "a.png")); w != 15 || h != 15 {
		t.Errorf("Expected 15x15, got %dx%d", w, h)
	}
	if w, h := imageSize(t, filepath.Join(dst, "2022-06-01 00-00-00", "b.png")); w != 320 || h != 180 {
		t.Errorf("Expected 320x180 for a 900px tall source, got %dx%d", w, h)
	}

	// A second run skips what is already up to date
	summary, err = thumbnailer.Run(context.Background(), src, dst)
	if err != nil {
		t.Fatalf("Second run failed: %v", err)
	}
	if summary.Skipped != 2 || summary.Failed != 1 || summary.Succeeded != 0 {
		t.Errorf("Expected 2 skipped and 1 failed, got %+v", summary)
	}

	overwrite := NewThumbnailer(ThumbnailOptions{Overwrite: true, Workers: 1}, &recordingReporter{})
	summary, err = overwrite.Run(context.Background(), src, dst)
	if err != nil {
		t.Fatalf("Overwrite run failed: %v", err)
	}
	if summary.Succeeded != 2 {
		t.Errorf("Expected 2 resized with overwrite, got %+v", summary)
	}
}

func TestThumbnailerRunEmpty(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "thumbs")
	summary, err := NewThumbnailer(ThumbnailOptions{}, &recordingReporter{}).Run(context.Background(), t.TempDir(), dst)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if summary.Total != 0 {
		t.Errorf("Expected no work, got %+v", summary)
	}
	if _, err := os.Stat(dst); !os.IsNotExist(err) {
		t.Error("Destination should not be created when there is nothing to do")
	}
}

func TestThumbnailerRunCancelled(t *testing.T) {
	src := t.TempDir()
	writePNG(t, filepath.Join(src, "a.png"), 10, 10)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, err := NewThumbnailer(ThumbnailOptions{}, &recordingReporter{}).Run(ctx, src, filepath.Join(t.TempDir(), "out"))
	if err == nil {
		t.Error("Expected a cancellation error")
	}
	if summary.Succeeded != 0 {
		t.Errorf("Expected nothing processed, got %+v", summary)
	}
}

func TestResultMessage(t *testing.T) {
	tests := []struct {
		result   Result
		expected string
	}{
		{Result{Status: StatusResized}, "resized"},
		{Result{Status: StatusSkipped}, "skipped (already resized)"},
		{Result{Status: StatusFailed, Err: os.ErrNotExist}, "failed: file does not exist"},
	}

	for _, tt := range tests {
		if got := tt.result.Message(); got != tt.expected {
			t.Errorf("Message() = %q, want %q", got, tt.expected)
		}
	}
}
