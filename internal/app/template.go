package app

import (
	"encoding/json"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin/render"
)

const (
	templateRoot    = "templates"
	htmlContentType = "text/html; charset=utf-8"
)

// TemplateRenderer is a gin HTML renderer built from a layout and partial
// base set plus one template per page.
//
// Every page under templates/ (outside layouts/ and partials/) is parsed on
// a clone of the base set, so pages can override layout blocks and reuse
// partials. Page names are relative to templates/, e.g. "advocate/list.html".
//
// In debug mode the page is re-read from fsys on every render.
type TemplateRenderer struct {
	templates map[string]*template.Template
	fs        fs.FS
	funcMap   template.FuncMap
	debug     bool
}

var _ render.HTMLRender = (*TemplateRenderer)(nil)

// NewTemplateRenderer parses fsys eagerly unless debug is set.
func NewTemplateRenderer(fsys fs.FS, debug bool) (*TemplateRenderer, error) {
	r := &TemplateRenderer{
		fs:      fsys,
		funcMap: templateFuncMap(),
		debug:   debug,
	}
	if debug {
		return r, nil
	}

	templates, err := r.parseAll()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	r.templates = templates
	return r, nil
}

// Instance implements render.HTMLRender.
func (r *TemplateRenderer) Instance(name string, data any) render.Render {
	if !r.debug {
		return &HTMLInstance{Template: r.templates[name], Name: name, Data: data}
	}

	base, err := r.parseBase()
	if err != nil {
		return &HTMLInstance{Name: name, err: err}
	}
	tmpl, err := r.parsePage(base, templateRoot+"/"+name)
	if err != nil {
		return &HTMLInstance{Name: name, err: err}
	}
	return &HTMLInstance{Template: tmpl, Name: name, Data: data}
}

func (r *TemplateRenderer) parseAll() (map[string]*template.Template, error) {
	base, err := r.parseBase()
	if err != nil {
		return nil, err
	}
	pages, err := r.discoverPageTemplates()
	if err != nil {
		return nil, fmt.Errorf("discover pages: %w", err)
	}

	templates := make(map[string]*template.Template, len(pages))
	for _, p := range pages {
		tmpl, err := r.parsePage(base, p)
		if err != nil {
			return nil, err
		}
		templates[strings.TrimPrefix(p, templateRoot+"/")] = tmpl
	}
	return templates, nil
}

// parseBase parses layouts and partials into one set.
func (r *TemplateRenderer) parseBase() (*template.Template, error) {
	base := template.New("").Funcs(r.funcMap)
	for _, dir := range []string{"layouts", "partials"} {
		files, err := fs.Glob(r.fs, templateRoot+"/"+dir+"/*.html")
		if err != nil {
			return nil, fmt.Errorf("glob %s: %w", dir, err)
		}
		for _, f := range files {
			if err := parseFileInto(base, r.fs, f, f); err != nil {
				return nil, err
			}
		}
	}
	return base, nil
}

func (r *TemplateRenderer) parsePage(base *template.Template, path string) (*template.Template, error) {
	clone, err := base.Clone()
	if err != nil {
		return nil, fmt.Errorf("clone base for %s: %w", path, err)
	}
	if err := parseFileInto(clone, r.fs, path, strings.TrimPrefix(path, templateRoot+"/")); err != nil {
		return nil, err
	}
	return clone, nil
}

func parseFileInto(set *template.Template, fsys fs.FS, path, name string) error {
	content, err := fs.ReadFile(fsys, path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if _, err := set.New(name).Parse(string(content)); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// discoverPageTemplates lists .html files outside layouts/ and partials/.
func (r *TemplateRenderer) discoverPageTemplates() ([]string, error) {
	var pages []string
	err := fs.WalkDir(r.fs, templateRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".html") {
			return nil
		}
		rel := strings.TrimPrefix(path, templateRoot+"/")
		if strings.HasPrefix(rel, "layouts/") || strings.HasPrefix(rel, "partials/") {
			return nil
		}
		pages = append(pages, path)
		return nil
	})
	return pages, err
}

func templateFuncMap() template.FuncMap {
	return template.FuncMap{
		// json emits v as a JavaScript literal for Alpine.js attributes.
		"json": func(v any) template.JS {
			b, err := json.Marshal(v)
			if err != nil {
				return template.JS("null")
			}
			return template.JS(b)
		},
		"add": func(a, b int) int { return a + b },
		"sub": func(a, b int) int { return a - b },
		// plural picks the word form for n, e.g. {{ plural .Total "advocate" "advocates" }}.
		"plural": func(n int64, one, many string) string {
			if n == 1 {
				return one
			}
			return many
		},
		// cardID is the DOM id of an advocate card.
		"cardID": func(id uint) string {
			return fmt.Sprintf("advocate-%d", id)
		},
	}
}

// HTMLInstance executes one page template; returned by Instance.
type HTMLInstance struct {
	Template *template.Template
	Name     string
	Data     any
	err      error
}

// Render writes the template output to w.
func (h *HTMLInstance) Render(w http.ResponseWriter) error {
	h.WriteContentType(w)
	if h.err != nil {
		return h.err
	}
	if h.Template == nil {
		return fmt.Errorf("template %q not found", h.Name)
	}
	return h.Template.ExecuteTemplate(w, h.Name, h.Data)
}

// WriteContentType sets text/html unless a Content-Type is already present.
func (h *HTMLInstance) WriteContentType(w http.ResponseWriter) {
	header := w.Header()
	if len(header["Content-Type"]) == 0 {
		header["Content-Type"] = []string{htmlContentType}
	}
}
