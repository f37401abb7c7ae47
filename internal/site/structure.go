package site

import (
	_ "embed"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/xeipuuv/gojsonschema"
	yamlv3 "gopkg.in/yaml.v3"
)

//go:embed structure.schema.json
var structureSchema []byte

// EnvPrefix selects the environment variables that override structure fields,
// e.g. GALLERY_IMAGE_URL overrides image_url.
const EnvPrefix = "GALLERY_"

// Coordinator is one sub-page of a page, with its own image directory
type Coordinator struct {
	Dir            string   `koanf:"dir"`
	Name           string   `koanf:"name"`
	Active         bool     `koanf:"active"`
	LargeImages    []string `koanf:"large_images"`
	Iframes        []string `koanf:"iframes"`
	IframesHeading string   `koanf:"iframes_heading"`
}

// Page is one entry of the top menu
type Page struct {
	Key          string        `koanf:"-"`
	Name         string        `koanf:"name"`
	Dir          string        `koanf:"dir"`
	Active       bool          `koanf:"active"`
	Hidden       bool          `koanf:"hidden"`
	Paths        []string      `koanf:"paths"`
	LargeImages  []string      `koanf:"large_images"`
	Coordinators []Coordinator `koanf:"coordinators"`
}

// Structure describes the site: where the images live, how they are addressed and which pages exist
type Structure struct {
	Title        string   `koanf:"title"`
	Banner       string   `koanf:"banner"`
	DataSource   string   `koanf:"data_source"`
	ImageURL     string   `koanf:"image_url"`
	ThumbnailURL string   `koanf:"thumbnail_url"`
	WebBase      string   `koanf:"web_base"`
	Whitelist    []string `koanf:"whitelist"`
	Exclude      []string `koanf:"exclude"`

	// Pages in file order
	Pages []Page `koanf:"-"`
}

// DefaultStructure returns the values used for fields the file leaves out
func DefaultStructure() *Structure {
	return &Structure{
		Title:     "Gallery",
		WebBase:   "./",
		Whitelist: []string{".png"},
	}
}

// LoadStructure reads a structure file (JSON or YAML), then overlays GALLERY_* environment overrides.
func LoadStructure(path string) (*Structure, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading structure %s: %w", path, err)
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("parsing structure %s: %w", path, err)
	}

	// Checked before the environment overlay, whose values are all strings
	if err := validateSchema(k.Raw()); err != nil {
		return nil, fmt.Errorf("structure %s: %w", path, err)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	s := DefaultStructure()
	if err := k.Unmarshal("", s); err != nil {
		return nil, fmt.Errorf("unmarshalling structure: %w", err)
	}

	// koanf keeps pages in a map; the file decides the menu order
	order, err := pageOrder(data)
	if err != nil {
		return nil, fmt.Errorf("reading page order: %w", err)
	}
	for _, key := range order {
		var page Page
		if err := k.Unmarshal("pages."+key, &page); err != nil {
			return nil, fmt.Errorf("unmarshalling page %s: %w", key, err)
		}
		page.Key = key
		s.Pages = append(s.Pages, page)
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func validateSchema(doc map[string]interface{}) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(structureSchema),
		gojsonschema.NewGoLoader(doc),
	)
	if err != nil {
		return fmt.Errorf("validating schema: %w", err)
	}
	if result.Valid() {
		return nil
	}

	var problems []string
	for _, e := range result.Errors() {
		problems = append(problems, e.String())
	}
	return fmt.Errorf("invalid structure: %s", strings.Join(problems, "; "))
}

// pageOrder returns the keys of the top-level "pages" mapping in document order
func pageOrder(data []byte) ([]string, error) {
	var doc yamlv3.Node
	if err := yamlv3.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if len(doc.Content) == 0 || doc.Content[0].Kind != yamlv3.MappingNode {
		return nil, fmt.Errorf("structure is not a mapping")
	}

	root := doc.Content[0]
	for i := 0; i+1 < len(root.Content); i += 2 {
		if root.Content[i].Value != "pages" {
			continue
		}
		pages := root.Content[i+1]
		if pages.Kind != yamlv3.MappingNode {
			return nil, fmt.Errorf("pages must be a mapping")
		}
		var keys []string
		for j := 0; j+1 < len(pages.Content); j += 2 {
			keys = append(keys, pages.Content[j].Value)
		}
		return keys, nil
	}
	return nil, nil
}

// Page returns the page with the given key
func (s *Structure) Page(key string) (Page, bool) {
	for _, page := range s.Pages {
		if page.Key == key {
			return page, true
		}
	}
	return Page{}, false
}

// Whitelisted reports whether name ends with one of the whitelisted suffixes
func (s *Structure) Whitelisted(name string) bool {
	for _, suffix := range s.Whitelist {
		if suffix != "" && strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return false
}

// Excluded reports whether rel (slash separated, relative to data_source) matches
// one of the exclude globs, either as a whole path or by its base name.
func (s *Structure) Excluded(rel string) bool {
	for _, pattern := range s.Exclude {
		if matched, err := doublestar.PathMatch(pattern, rel); err == nil && matched {
			return true
		}
		if matched, err := doublestar.PathMatch(pattern, path.Base(rel)); err == nil && matched {
			return true
		}
	}
	return false
}

// Validate checks that the structure can be built
func (s *Structure) Validate() error {
	if s.DataSource == "" {
		return fmt.Errorf("data_source is required")
	}
	for _, pattern := range s.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("invalid exclude pattern %q", pattern)
		}
	}
	if len(s.Pages) == 0 {
		return fmt.Errorf("at least one page is required")
	}

	for _, page := range s.Pages {
		if strings.ContainsAny(page.Key, "/\\.") {
			return fmt.Errorf("page key %q must not contain path separators or dots", page.Key)
		}
		if page.Name == "" {
			return fmt.Errorf("page %s: name is required", page.Key)
		}
		if len(page.Coordinators) == 0 && len(page.Paths) == 0 && page.Dir == "" {
			return fmt.Errorf("page %s: one of dir, paths or coordinators is required", page.Key)
		}
		for i, coordinator := range page.Coordinators {
			if coordinator.Dir == "" || coordinator.Name == "" {
				return fmt.Errorf("page %s: coordinator %d needs dir and name", page.Key, i)
			}
			if strings.ContainsAny(coordinator.Dir, "/\\") {
				return fmt.Errorf("page %s: coordinator dir %q must be a single directory name", page.Key, coordinator.Dir)
			}
		}
	}

	return nil
}
