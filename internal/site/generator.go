// Package site builds the static gallery pages whose thumbnails the browser lightbox navigates.
package site

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"

	"lightbox/internal/gallery"
)

var timestampPattern = regexp.MustCompile(`(\d{4})-(\d{2})-\d{2} \d{2}-\d{2}-\d{2}`)

// MonthYear turns a directory name containing a "2022-06-01 00-00-00" timestamp into "June 2022"
func MonthYear(name string) (string, bool) {
	m := timestampPattern.FindStringSubmatch(name)
	if m == nil {
		return "", false
	}
	month, err := strconv.Atoi(m[2])
	if err != nil || month < 1 || month > 12 {
		return "", false
	}
	return fmt.Sprintf("%s %s", time.Month(month), m[1]), true
}

// Generator writes one HTML file per page and per coordinator
type Generator struct {
	structure *Structure
	OutputDir string

	// Now is the clock used for the cache-busting suffix and the fallback date
	Now func() time.Time

	md     goldmark.Markdown
	policy *bluemonday.Policy
	tmpl   *template.Template
}

// NewGenerator creates a Generator writing into outputDir
func NewGenerator(structure *Structure, outputDir string) (*Generator, error) {
	tmpl, err := template.New("page").Funcs(template.FuncMap{
		"heading": headingHTML,
	}).Parse(pageTemplate)
	if err != nil {
		return nil, fmt.Errorf("parsing page template: %w", err)
	}

	// Intro texts may carry fenced code (config snippets, commands)
	md := goldmark.New(goldmark.WithExtensions(
		extension.GFM,
		highlighting.NewHighlighting(highlighting.WithStyle("github")),
	))

	policy := bluemonday.UGCPolicy()
	policy.AllowStyles("color", "background-color", "font-weight", "font-style").OnElements("pre", "span")

	return &Generator{
		structure: structure,
		OutputDir: outputDir,
		Now:       time.Now,
		md:        md,
		policy:    policy,
		tmpl:      tmpl,
	}, nil
}

type menuItem struct {
	Href    string
	Name    string
	Current bool
	Active  bool
}

type imageBlock struct {
	Src  string
	Full string
	Alt  string
}

// block is either a heading or a container of thumbnails
type block struct {
	Level   int
	Heading string
	Images  []imageBlock
}

type pageData struct {
	Title          string
	Banner         template.HTML
	Base           string
	Date           string
	Version        string
	Menu           []menuItem
	Subnav         []menuItem
	Text           template.HTML
	LargeImages    []imageBlock
	Blocks         []block
	IframesHeading string
	Iframes        []string
}

func headingHTML(level int, text string) template.HTML {
	if level > 6 {
		level = 6
	}
	return template.HTML(fmt.Sprintf("<h%d>%s</h%d>", level, template.HTMLEscapeString(text), level))
}

// Generate builds every page and returns the number of files written
func (g *Generator) Generate() (int, error) {
	date := g.lastUpdated()
	version := g.Now().Format("2006-01-02")
	count := 0

	for _, page := range g.structure.Pages {
		if len(page.Coordinators) > 0 {
			for _, coordinator := range page.Coordinators {
				data := g.baseData(page.Key, coordinator.Dir, date, version)
				data.Text = g.introText(coordinator.Dir)
				data.LargeImages = g.imageBlocks(coordinator.LargeImages, version, true)

				blocks, err := g.traverse(filepath.Join(g.structure.DataSource, coordinator.Dir),
					page.Name+" - "+coordinator.Name+" - ", version)
				if err != nil {
					return count, fmt.Errorf("page %s/%s: %w", page.Key, coordinator.Dir, err)
				}
				data.Blocks = blocks
				data.IframesHeading = coordinator.IframesHeading
				if data.IframesHeading == "" {
					data.IframesHeading = "Flows"
				}
				data.Iframes = coordinator.Iframes

				out := filepath.Join(g.OutputDir, page.Key, coordinator.Dir+".html")
				if err := g.render(out, data); err != nil {
					return count, err
				}
				count++
			}
			continue
		}

		data := g.baseData(page.Key, "", date, version)
		data.Text = g.introText(page.Key)

		if len(page.Paths) > 0 {
			data.Blocks = []block{{Images: g.imageBlocks(page.Paths, version, false)}}
		} else {
			data.LargeImages = g.imageBlocks(page.LargeImages, version, true)
			blocks, err := g.traverse(filepath.Join(g.structure.DataSource, page.Dir), page.Name+" - ", version)
			if err != nil {
				return count, fmt.Errorf("page %s: %w", page.Key, err)
			}
			data.Blocks = blocks
		}

		if err := g.render(filepath.Join(g.OutputDir, page.Key+".html"), data); err != nil {
			return count, err
		}
		count++
	}

	return count, nil
}

func (g *Generator) render(out string, data pageData) error {
	var buf bytes.Buffer
	if err := g.tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("rendering %s: %w", out, err)
	}
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", out, err)
	}
	return nil
}

// baseData fills the header shared by every page: menu, sub-navigation and dates
func (g *Generator) baseData(currentPage, currentCoordinator, date, version string) pageData {
	data := pageData{
		Title:   g.structure.Title,
		Banner:  template.HTML(g.structure.Banner),
		Base:    g.structure.WebBase,
		Date:    date,
		Version: version,
	}

	for _, page := range g.structure.Pages {
		if page.Hidden {
			continue
		}
		href := page.Key
		if len(page.Coordinators) > 0 {
			href += "/" + page.Coordinators[0].Dir
		}
		data.Menu = append(data.Menu, menuItem{
			Href:    href + ".html",
			Name:    page.Name,
			Current: page.Key == currentPage,
			Active:  page.Active,
		})
	}

	if page, ok := g.structure.Page(currentPage); ok {
		for _, coordinator := range page.Coordinators {
			data.Subnav = append(data.Subnav, menuItem{
				Href:    page.Key + "/" + coordinator.Dir + ".html",
				Name:    coordinator.Name,
				Current: coordinator.Dir == currentCoordinator,
				Active:  coordinator.Active,
			})
		}
	}

	return data
}

// lastUpdated reads the date from summary.json in the data source, falling back to today
func (g *Generator) lastUpdated() string {
	data, err := os.ReadFile(filepath.Join(g.structure.DataSource, "summary.json"))
	if err == nil {
		var summary struct {
			Date string `json:"date"`
		}
		if err := json.Unmarshal(data, &summary); err == nil && summary.Date != "" {
			return summary.Date
		}
		log.Printf("Warning: summary.json has no usable date: %v", err)
	}
	return g.Now().Format("02-01-2006")
}

// introText loads texts/<key>.html, or texts/<key>.md rendered as markdown
func (g *Generator) introText(key string) template.HTML {
	textsDir := filepath.Join(g.structure.DataSource, "texts")

	if raw, err := os.ReadFile(filepath.Join(textsDir, key+".html")); err == nil {
		return template.HTML(g.policy.SanitizeBytes(raw))
	}

	if raw, err := os.ReadFile(filepath.Join(textsDir, key+".md")); err == nil {
		var buf bytes.Buffer
		if err := g.md.Convert(raw, &buf); err != nil {
			log.Printf("Warning: Failed to render %s.md: %v", key, err)
			return ""
		}
		return template.HTML(g.policy.SanitizeBytes(buf.Bytes()))
	}

	debugLog("no intro text for %s in %s", key, textsDir)
	return ""
}

func (g *Generator) imageBlock(path, version string, large bool) imageBlock {
	suffix := "?v" + version
	src := g.structure.ThumbnailURL + gallery.ThumbnailName(path) + suffix
	if large {
		src = g.structure.ImageURL + path + suffix
	}
	return imageBlock{
		Src:  src,
		Full: g.structure.ImageURL + path + suffix,
		Alt:  path,
	}
}

func (g *Generator) imageBlocks(paths []string, version string, large bool) []imageBlock {
	var blocks []imageBlock
	for _, path := range paths {
		blocks = append(blocks, g.imageBlock(path, version, large))
	}
	return blocks
}

// traverse walks root depth first. Subdirectories are visited in reverse name order so
// the newest timestamped directory comes first; files are in natural order.
func (g *Generator) traverse(root, prefix, version string) ([]block, error) {
	if _, err := os.Stat(root); os.IsNotExist(err) {
		log.Printf("Warning: Image directory %s not found", root)
		return nil, nil
	}

	var blocks []block
	var walk func(dir string, depth int) error
	walk = func(dir string, depth int) error {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return err
		}

		if depth > 0 {
			name := filepath.Base(dir)
			if label, ok := MonthYear(name); ok {
				name = label
			}
			blocks = append(blocks, block{Level: depth + 1, Heading: prefix + name})
		}

		var dirs, files []string
		for _, entry := range entries {
			if g.excluded(filepath.Join(dir, entry.Name())) {
				debugLog("Excluded %s", entry.Name())
				continue
			}
			if entry.IsDir() {
				dirs = append(dirs, entry.Name())
			} else {
				files = append(files, entry.Name())
			}
		}

		gallery.SortNames(files)
		var images []imageBlock
		for _, name := range files {
			if !g.structure.Whitelisted(name) {
				continue
			}
			rel, err := filepath.Rel(g.structure.DataSource, filepath.Join(dir, name))
			if err != nil {
				return err
			}
			images = append(images, g.imageBlock(filepath.ToSlash(rel), version, false))
		}
		if len(images) > 0 {
			blocks = append(blocks, block{Images: images})
		}

		sort.Sort(sort.Reverse(sort.StringSlice(dirs)))
		for _, name := range dirs {
			if err := walk(filepath.Join(dir, name), depth+1); err != nil {
				return err
			}
		}
		return nil
	}

	if err := walk(root, 0); err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}
	return blocks, nil
}

func (g *Generator) excluded(path string) bool {
	if len(g.structure.Exclude) == 0 {
		return false
	}
	rel, err := filepath.Rel(g.structure.DataSource, path)
	if err != nil {
		return false
	}
	return g.structure.Excluded(filepath.ToSlash(rel))
}

func debugLog(format string, args ...interface{}) {
	if os.Getenv("LIGHTBOX_DEBUG") != "" {
		log.Printf("Debug: "+format, args...)
	}
}
