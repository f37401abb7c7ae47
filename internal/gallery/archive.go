package gallery

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/sevenzip"
	"github.com/nwaples/rardecode"
)

// entryVisitor sees every file entry of an archive in stored order.
// Returning true stops the walk.
type entryVisitor func(name string, open func() (io.ReadCloser, error)) (bool, error)

type archiveWalker func(archivePath string, visit entryVisitor) error

var archiveFormats = map[string]archiveWalker{
	".zip": walkZip,
	".rar": walkRar,
	".7z":  walk7z,
}

func walkerFor(path string) (archiveWalker, bool) {
	walk, ok := archiveFormats[strings.ToLower(filepath.Ext(path))]
	return walk, ok
}

func walkZip(archivePath string, visit entryVisitor) error {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return err
	}
	defer r.Close()

	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		if stop, err := visit(f.Name, f.Open); err != nil || stop {
			return err
		}
	}
	return nil
}

// walkRar streams the archive; an entry can only be read before the next one is visited
func walkRar(archivePath string, visit entryVisitor) error {
	f, err := os.Open(archivePath)
	if err != nil {
		return err
	}
	defer f.Close()

	r, err := rardecode.NewReader(f, "")
	if err != nil {
		return err
	}

	open := func() (io.ReadCloser, error) { return io.NopCloser(r), nil }
	for {
		header, err := r.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if header.IsDir {
			continue
		}
		if stop, err := visit(header.Name, open); err != nil || stop {
			return err
		}
	}
}

func walk7z(archivePath string, visit entryVisitor) error {
	r, err := sevenzip.OpenReader(archivePath)
	if err != nil {
		return err
	}
	defer r.Close()

	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		if stop, err := visit(f.Name, f.Open); err != nil || stop {
			return err
		}
	}
	return nil
}

// readArchiveEntry returns the bytes of one entry
func readArchiveEntry(archivePath, entryPath string) ([]byte, error) {
	walk, ok := walkerFor(archivePath)
	if !ok {
		return nil, fmt.Errorf("unsupported archive format: %s", filepath.Ext(archivePath))
	}

	var data []byte
	found := false
	err := walk(archivePath, func(name string, open func() (io.ReadCloser, error)) (bool, error) {
		if name != entryPath {
			return false, nil
		}
		found = true
		rc, err := open()
		if err != nil {
			return true, err
		}
		defer rc.Close()
		data, err = io.ReadAll(rc)
		return true, err
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("entry %s not found in %s", entryPath, archivePath)
	}
	return data, nil
}

// ArchiveEntries lists the images inside an archive in stored order
func ArchiveEntries(archivePath string) ([]ImagePath, error) {
	walk, ok := walkerFor(archivePath)
	if !ok {
		return nil, nil
	}

	var images []ImagePath
	err := walk(archivePath, func(name string, _ func() (io.ReadCloser, error)) (bool, error) {
		if IsSupportedExt(name) {
			images = append(images, ImagePath{
				Path:        archivePath + ":" + name,
				ArchivePath: archivePath,
				EntryPath:   name,
			})
		}
		return false, nil
	})
	if err != nil {
		return nil, fmt.Errorf("reading archive %s: %w", archivePath, err)
	}
	return images, nil
}
