// Package gallery collects, orders, decodes and resizes the images shown by the lightbox.
package gallery

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ImagePath locates an image on disk or inside an archive
type ImagePath struct {
	Path        string // file path, or "archive:entry" for archive members
	ArchivePath string
	EntryPath   string
}

// Locator returns a slash-separated locator for the image. Archive entries are
// joined to the archive path with '/', so the final segment is the entry's own
// filename and matches the same entry in another archive.
func (p ImagePath) Locator() string {
	if p.ArchivePath == "" {
		return filepath.ToSlash(p.Path)
	}
	return filepath.ToSlash(p.ArchivePath) + "/" + strings.TrimPrefix(filepath.ToSlash(p.EntryPath), "/")
}

var imageExts = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".webp": true,
	".bmp": true, ".gif": true, ".tif": true, ".tiff": true,
}

// IsArchiveExt reports whether path names a supported archive
func IsArchiveExt(path string) bool {
	_, ok := walkerFor(path)
	return ok
}

// IsSupportedExt reports whether path names a decodable image
func IsSupportedExt(path string) bool {
	return imageExts[strings.ToLower(filepath.Ext(path))]
}

// ReadImageData returns the raw bytes of a file or archive entry
func ReadImageData(p ImagePath) ([]byte, error) {
	if p.ArchivePath == "" {
		return os.ReadFile(p.Path)
	}
	return readArchiveEntry(p.ArchivePath, p.EntryPath)
}

// DecodeImage loads and decodes the image at p
func DecodeImage(p ImagePath) (image.Image, error) {
	data, err := ReadImageData(p)
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", p.Path, err)
	}
	return img, nil
}

// CollectImages expands files, directories and archives into an ordered image list.
// Directory and archive contents are ordered with the given sort method; argument order is kept.
func CollectImages(args []string, sortMethod int) ([]ImagePath, error) {
	c := collector{strategy: GetSortStrategy(sortMethod)}

	var list []ImagePath
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			list = append(list, c.file(arg)...)
			continue
		}

		var found []ImagePath
		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() {
				found = append(found, c.file(path)...)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		list = append(list, c.strategy.Sort(found)...)
	}
	return list, nil
}

type collector struct {
	strategy SortStrategy
}

// file returns the image itself, the sorted entries of an archive, or nothing
func (c collector) file(path string) []ImagePath {
	switch {
	case IsSupportedExt(path):
		return []ImagePath{{Path: path}}
	case IsArchiveExt(path):
		images, err := ArchiveEntries(path)
		if err != nil {
			log.Printf("Warning: Skipping problematic archive %s: %v", path, err)
			return nil
		}
		return c.strategy.Sort(images)
	}
	return nil
}
