package gallery

import (
	"archive/zip"
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestIsSupportedExt(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		expected bool
	}{
		{"PNG file", "test.png", true},
		{"JPG file", "test.jpg", true},
		{"JPEG file", "test.jpeg", true},
		{"WebP file", "test.webp", true},
		{"BMP file", "test.bmp", true},
		{"GIF file", "test.gif", true},
		{"TIFF file", "test.tiff", true},
		{"PNG uppercase", "test.PNG", true},
		{"Text file", "test.txt", false},
		{"No extension", "test", false},
		{"Empty string", "", false},
		{"Multiple dots", "test.backup.jpg", true},
		{"Path with directory", "/path/to/test.png", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IsSupportedExt(tt.path)
			if result != tt.expected {
				t.Errorf("IsSupportedExt(%s) = %v, want %v", tt.path, result, tt.expected)
			}
		})
	}
}

func TestIsArchiveExt(t *testing.T) {
	for path, expected := range map[string]bool{
		"a.zip": true, "a.RAR": true, "a.7z": true, "a.tar": false, "a.png": false,
	} {
		if got := IsArchiveExt(path); got != expected {
			t.Errorf("IsArchiveExt(%s) = %v, want %v", path, got, expected)
		}
	}
}

func TestLocator(t *testing.T) {
	tests := []struct {
		path     ImagePath
		expected string
	}{
		{ImagePath{Path: "shots/cat.png"}, "shots/cat.png"},
		{ImagePath{Path: "a.zip:x/cat.png", ArchivePath: "a.zip", EntryPath: "x/cat.png"}, "a.zip/x/cat.png"},
		{ImagePath{Path: "shots/b.zip:cat.png", ArchivePath: "shots/b.zip", EntryPath: "/cat.png"}, "shots/b.zip/cat.png"},
	}

	for _, tt := range tests {
		if got := tt.path.Locator(); got != tt.expected {
			t.Errorf("Locator() = %q, want %q", got, tt.expected)
		}
	}
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func writeZip(t *testing.T, path string, entries map[string][]byte, order []string) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	zw := zip.NewWriter(f)
	for _, name := range order {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		w.Write(entries[name])
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	f.Close()
}

func TestCollectImages(t *testing.T) {
	tempDir := t.TempDir()

	// Create test files
	testFiles := []struct {
		name      string
		shouldAdd bool
	}{
		{"image10.jpg", true},
		{"image2.png", true},
		{"image3.webp", true},
		{"document.txt", false},
		{"Image4.PNG", true}, // uppercase
		{"backup.bak", false},
		{"sub/photo.jpeg", true},
	}

	for _, file := range testFiles {
		filePath := filepath.Join(tempDir, filepath.FromSlash(file.name))
		os.MkdirAll(filepath.Dir(filePath), 0o755)
		if err := os.WriteFile(filePath, nil, 0o644); err != nil {
			t.Fatalf("Failed to create test file %s: %v", file.name, err)
		}
	}

	result, err := CollectImages([]string{tempDir}, SortNatural)
	if err != nil {
		t.Fatalf("CollectImages failed: %v", err)
	}

	expected := []string{
		filepath.Join(tempDir, "Image4.PNG"),
		filepath.Join(tempDir, "image2.png"),
		filepath.Join(tempDir, "image3.webp"),
		filepath.Join(tempDir, "image10.jpg"),
		filepath.Join(tempDir, "sub", "photo.jpeg"),
	}
	if got := pathsToStrings(result); !reflect.DeepEqual(got, expected) {
		t.Errorf("Expected %v, got %v", expected, got)
	}

	// Test individual file collection
	singleFile := filepath.Join(tempDir, "image2.png")
	result, err = CollectImages([]string{singleFile}, SortNatural)
	if err != nil {
		t.Fatalf("CollectImages with single file failed: %v", err)
	}
	if len(result) != 1 || result[0].Path != singleFile {
		t.Errorf("Expected [%s], got %v", singleFile, result)
	}

	if _, err := CollectImages([]string{filepath.Join(tempDir, "missing")}, SortNatural); err == nil {
		t.Error("Expected an error for a missing argument")
	}
}

func TestCollectImagesFromZip(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "set.zip")
	data := pngBytes(t, 4, 3)
	writeZip(t, archive, map[string][]byte{
		"p10.png":    data,
		"p2.png":     data,
		"readme.txt": []byte("hi"),
	}, []string{"p10.png", "readme.txt", "p2.png"})

	tests := []struct {
		sortMethod int
		expected   []string
	}{
		{SortNatural, []string{archive + ":p2.png", archive + ":p10.png"}},
		{SortEntryOrder, []string{archive + ":p10.png", archive + ":p2.png"}},
	}

	for _, tt := range tests {
		result, err := CollectImages([]string{archive}, tt.sortMethod)
		if err != nil {
			t.Fatalf("CollectImages failed: %v", err)
		}
		if got := pathsToStrings(result); !reflect.DeepEqual(got, tt.expected) {
			t.Errorf("sort %d: expected %v, got %v", tt.sortMethod, tt.expected, got)
		}
	}

	img, err := DecodeImage(ImagePath{Path: archive + ":p2.png", ArchivePath: archive, EntryPath: "p2.png"})
	if err != nil {
		t.Fatalf("DecodeImage failed: %v", err)
	}
	if img.Bounds().Dx() != 4 || img.Bounds().Dy() != 3 {
		t.Errorf("Expected 4x3, got %v", img.Bounds())
	}

	if _, err := ReadImageData(ImagePath{ArchivePath: archive, EntryPath: "missing.png"}); err == nil {
		t.Error("Expected an error for a missing entry")
	}
}

func TestCollectImagesBrokenArchive(t *testing.T) {
	dir := t.TempDir()
	broken := filepath.Join(dir, "broken.zip")
	os.WriteFile(broken, []byte("not a zip"), 0o644)
	os.WriteFile(filepath.Join(dir, "ok.png"), nil, 0o644)

	result, err := CollectImages([]string{dir}, SortNatural)
	if err != nil {
		t.Fatalf("A broken archive should be skipped, got %v", err)
	}
	if len(result) != 1 || result[0].Path != filepath.Join(dir, "ok.png") {
		t.Errorf("Expected only ok.png, got %v", pathsToStrings(result))
	}
}

func TestDecodeImageFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.png")
	os.WriteFile(path, pngBytes(t, 7, 5), 0o644)

	img, err := DecodeImage(ImagePath{Path: path})
	if err != nil {
		t.Fatalf("DecodeImage failed: %v", err)
	}
	if img.Bounds().Dx() != 7 {
		t.Errorf("Expected width 7, got %d", img.Bounds().Dx())
	}

	bad := filepath.Join(t.TempDir(), "bad.png")
	os.WriteFile(bad, []byte("nope"), 0o644)
	if _, err := DecodeImage(ImagePath{Path: bad}); err == nil {
		t.Error("Expected a decode error")
	}
}
