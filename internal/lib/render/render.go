// Package render executes html/template pages with the sprig function
// set, optionally wrapped in shared layout files.
package render

import (
	"bytes"
	"html/template"
	"io"
	"io/fs"
	"maps"
	"path"
	"sync"

	"github.com/Masterminds/sprig/v3"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// LayoutTemplate is the entry point executed when layouts are in use.
// Pages fill it in by defining "content" (and optionally "title").
const LayoutTemplate = "layout"

// Templates parses pages from fsys on first use and caches them. With
// reload set every call parses again, so edits show up without restart.
type Templates struct {
	fsys    fs.FS
	reload  bool
	layouts []string
	funcs   template.FuncMap

	mu    sync.RWMutex
	cache map[string]*template.Template
}

func New(fsys fs.FS, reload bool, layouts ...string) *Templates {
	return &Templates{
		fsys:    fsys,
		reload:  reload,
		layouts: layouts,
		funcs:   sprig.HtmlFuncMap(),
		cache:   make(map[string]*template.Template),
	}
}

// Funcs adds template functions. It must be called before the first
// Execute.
func (t *Templates) Funcs(funcs template.FuncMap) *Templates {
	maps.Copy(t.funcs, funcs)
	return t
}

func (t *Templates) lookup(name string) (*template.Template, error) {
	if !t.reload {
		t.mu.RLock()
		tmpl, ok := t.cache[name]
		t.mu.RUnlock()
		if ok {
			return tmpl, nil
		}
	}

	files := append(append([]string{}, t.layouts...), name)
	tmpl, err := template.New(path.Base(name)).Funcs(t.funcs).ParseFS(t.fsys, files...)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse template %s", name)
	}

	if !t.reload {
		t.mu.Lock()
		t.cache[name] = tmpl
		t.mu.Unlock()
	}
	return tmpl, nil
}

// Execute renders the page name with data into w.
func (t *Templates) Execute(w io.Writer, name string, data any) error {
	tmpl, err := t.lookup(name)
	if err != nil {
		return err
	}

	entry := path.Base(name)
	if len(t.layouts) > 0 {
		entry = LayoutTemplate
	}

	// Render into a buffer so a failing template never leaves a half
	// written page behind.
	var body bytes.Buffer
	if err := tmpl.ExecuteTemplate(&body, entry, data); err != nil {
		return errors.Wrapf(err, "failed to execute template %s", name)
	}

	_, err = body.WriteTo(w)
	return err
}

// Render implements echo.Renderer.
func (t *Templates) Render(w io.Writer, name string, data any, _ echo.Context) error {
	return t.Execute(w, name, data)
}
