package site

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

const structureJSON = `{
  "title": "Statistics",
  "data_source": "data/",
  "image_url": "https://img.example/",
  "thumbnail_url": "https://thumb.example/",
  "web_base": "/gallery/",
  "whitelist": [".png", ".svg"],
  "pages": {
    "zeta": {"name": "Zeta", "dir": "zeta", "active": true},
    "alpha": {
      "name": "Alpha",
      "coordinators": [
        {"dir": "one", "name": "One", "large_images": ["one/big.png"]},
        {"dir": "two", "name": "Two", "active": true, "iframes": ["./flows/a.html"], "iframes_heading": "Flows"}
      ]
    },
    "misc": {"name": "Misc", "hidden": true, "paths": ["zeta/a.png", "zeta/b.png"]}
  }
}`

func writeStructure(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write structure: %v", err)
	}
	return path
}

func TestLoadStructure(t *testing.T) {
	s, err := LoadStructure(writeStructure(t, "structure.json", structureJSON))
	if err != nil {
		t.Fatalf("LoadStructure failed: %v", err)
	}

	if s.Title != "Statistics" || s.DataSource != "data/" || s.WebBase != "/gallery/" {
		t.Errorf("Unexpected top-level fields: %+v", s)
	}
	if !reflect.DeepEqual(s.Whitelist, []string{".png", ".svg"}) {
		t.Errorf("Unexpected whitelist: %v", s.Whitelist)
	}

	var keys []string
	for _, page := range s.Pages {
		keys = append(keys, page.Key)
	}
	if !reflect.DeepEqual(keys, []string{"zeta", "alpha", "misc"}) {
		t.Errorf("Pages should keep file order, got %v", keys)
	}

	alpha, ok := s.Page("alpha")
	if !ok {
		t.Fatal("Page alpha not found")
	}
	if len(alpha.Coordinators) != 2 {
		t.Fatalf("Expected 2 coordinators, got %d", len(alpha.Coordinators))
	}
	two := alpha.Coordinators[1]
	if two.Dir != "two" || !two.Active || two.IframesHeading != "Flows" || !reflect.DeepEqual(two.Iframes, []string{"./flows/a.html"}) {
		t.Errorf("Unexpected coordinator: %+v", two)
	}
	if !reflect.DeepEqual(alpha.Coordinators[0].LargeImages, []string{"one/big.png"}) {
		t.Errorf("Unexpected large images: %v", alpha.Coordinators[0].LargeImages)
	}

	misc, _ := s.Page("misc")
	if !misc.Hidden || len(misc.Paths) != 2 {
		t.Errorf("Unexpected misc page: %+v", misc)
	}
	zeta, _ := s.Page("zeta")
	if !zeta.Active || zeta.Dir != "zeta" {
		t.Errorf("Unexpected zeta page: %+v", zeta)
	}
}

func TestLoadStructureYAML(t *testing.T) {
	content := `
data_source: data/
image_url: img/
thumbnail_url: thumbs/
pages:
  second:
    name: Second
    dir: b
  first:
    name: First
    dir: a
`
	s, err := LoadStructure(writeStructure(t, "structure.yml", content))
	if err != nil {
		t.Fatalf("LoadStructure failed: %v", err)
	}
	if s.Pages[0].Key != "second" || s.Pages[1].Key != "first" {
		t.Errorf("Unexpected order: %+v", s.Pages)
	}
	// Defaults survive
	if s.Title != "Gallery" || s.WebBase != "./" {
		t.Errorf("Expected defaults, got title=%q base=%q", s.Title, s.WebBase)
	}
}

func TestLoadStructureEnvOverride(t *testing.T) {
	t.Setenv("GALLERY_IMAGE_URL", "https://cdn.example/")
	t.Setenv("GALLERY_TITLE", "Nightly")

	s, err := LoadStructure(writeStructure(t, "structure.json", structureJSON))
	if err != nil {
		t.Fatalf("LoadStructure failed: %v", err)
	}
	if s.ImageURL != "https://cdn.example/" {
		t.Errorf("Expected env override of image_url, got %q", s.ImageURL)
	}
	if s.Title != "Nightly" {
		t.Errorf("Expected env override of title, got %q", s.Title)
	}
}

func TestLoadStructureErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"No data source", `{"pages": {"a": {"name": "A", "dir": "a"}}}`, "data_source"},
		{"No pages", `{"data_source": "d/"}`, "pages is required"},
		{"Page without name", `{"data_source": "d/", "pages": {"a": {"dir": "a"}}}`, "name is required"},
		{"Page without content", `{"data_source": "d/", "pages": {"a": {"name": "A"}}}`, "one of dir"},
		{"Coordinator without dir", `{"data_source": "d/", "pages": {"a": {"name": "A", "coordinators": [{"name": "X"}]}}}`, "dir is required"},
		{"Nested coordinator dir", `{"data_source": "d/", "pages": {"a": {"name": "A", "coordinators": [{"name": "X", "dir": "x/y"}]}}}`, "single directory"},
		{"Pages not a mapping", `{"data_source": "d/", "pages": ["a"]}`, "Invalid type"},
		{"Empty pages", `{"data_source": "d/", "pages": {}}`, "at least one page"},
		{"Wrong field type", `{"data_source": "d/", "whitelist": ".png", "pages": {"a": {"name": "A", "dir": "a"}}}`, "whitelist"},
		{"Bad exclude pattern", `{"data_source": "d/", "exclude": ["[a-"], "pages": {"a": {"name": "A", "dir": "a"}}}`, "invalid exclude pattern"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadStructure(writeStructure(t, "structure.json", tt.content))
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}

	if _, err := LoadStructure(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("Expected an error for a missing file")
	}
}

func TestWhitelisted(t *testing.T) {
	s := &Structure{Whitelist: []string{".png", "_summary.svg"}}

	tests := []struct {
		name     string
		expected bool
	}{
		{"a.png", true},
		{"a.PNG", false},
		{"flows_summary.svg", true},
		{"flows.svg", false},
		{"png", false},
	}

	for _, tt := range tests {
		if got := s.Whitelisted(tt.name); got != tt.expected {
			t.Errorf("Whitelisted(%s) = %v, want %v", tt.name, got, tt.expected)
		}
	}
}

func TestExcluded(t *testing.T) {
	s := &Structure{Exclude: []string{"**/drafts/**", "*_old.png", "shots/tmp"}}

	tests := []struct {
		rel      string
		expected bool
	}{
		{"shots/drafts/a.png", true},
		{"drafts/a.png", true},
		{"shots/a_old.png", true},
		{"shots/tmp", true},
		{"other/tmp", false},
		{"shots/a.png", false},
	}

	for _, tt := range tests {
		if got := s.Excluded(tt.rel); got != tt.expected {
			t.Errorf("Excluded(%s) = %v, want %v", tt.rel, got, tt.expected)
		}
	}
}
