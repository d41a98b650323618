package generator

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"sync"
	"text/template"
)

//go:embed templates
var templatesFS embed.FS

// Renderer handles template parsing and rendering with caching
type Renderer struct {
	fsys    fs.FS
	funcMap template.FuncMap
	cache   map[string]*template.Template
	mu      sync.RWMutex // Protect cache for concurrent access
}

// NewRenderer creates a renderer over the embedded templates
func NewRenderer() *Renderer {
	return NewRendererFS(templatesFS)
}

// NewRendererFS creates a renderer reading templates from fsys
func NewRendererFS(fsys fs.FS) *Renderer {
	return &Renderer{
		fsys:    fsys,
		funcMap: defaultFuncMap(),
		cache:   make(map[string]*template.Template),
	}
}

// Render renders the template at path with data
func (r *Renderer) Render(path string, data any) ([]byte, error) {
	tmpl, err := r.lookup(path)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render template '%s': %w", path, err)
	}
	return buf.Bytes(), nil
}

// RenderString renders a template from a string. The name is used for
// caching and error messages.
func (r *Renderer) RenderString(name, text string, data any) ([]byte, error) {
	tmpl, err := r.parse("string:"+name, name, func() (string, error) { return text, nil })
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render template '%s': %w", name, err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) lookup(path string) (*template.Template, error) {
	return r.parse("fs:"+path, path, func() (string, error) {
		b, err := fs.ReadFile(r.fsys, path)
		if err != nil {
			return "", fmt.Errorf("failed to read template '%s': %w", path, err)
		}
		return string(b), nil
	})
}

func (r *Renderer) parse(key, name string, read func() (string, error)) (*template.Template, error) {
	r.mu.RLock()
	if tmpl, ok := r.cache[key]; ok {
		r.mu.RUnlock()
		return tmpl, nil
	}
	r.mu.RUnlock()

	text, err := read()
	if err != nil {
		return nil, err
	}

	tmpl, err := template.New(name).Funcs(r.funcMap).Parse(text)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template '%s': %w", name, err)
	}

	r.mu.Lock()
	r.cache[key] = tmpl
	r.mu.Unlock()

	return tmpl, nil
}

// ClearCache clears the template cache
func (r *Renderer) ClearCache() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache = make(map[string]*template.Template)
}

func defaultFuncMap() template.FuncMap {
	return template.FuncMap{
		"quote":        Quote,
		"javaConstant": JavaConstant, // 1.8 → VERSION_1_8
		"upper":        strings.ToUpper,
		"lower":        strings.ToLower,
		"join":         strings.Join,
	}
}

// Quote wraps a string in single quotes for Groovy scripts
func Quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `\'`) + "'"
}

// JavaConstant returns the JavaVersion constant name for a version string
func JavaConstant(version string) string {
	return "VERSION_" + strings.ReplaceAll(version, ".", "_")
}
