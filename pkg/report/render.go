package report

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"
	texttemplate "text/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/simonhull/firebird-suite/heron/pkg/analyzer"
)

//go:embed templates
var templates embed.FS

// Formats lists the renderings heron report supports
var Formats = []string{"markdown", "html", "json", "yaml"}

var md = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		extension.Table,
	),
	goldmark.WithParserOptions(
		parser.WithAutoHeadingID(),
	),
	goldmark.WithRendererOptions(
		html.WithUnsafe(),
	),
)

// WriteMarkdown renders the report as GitHub flavored Markdown with a
// mermaid diagram of the graph.
func WriteMarkdown(w io.Writer, r *Report) error {
	tmpl, err := texttemplate.New("report.md.tmpl").
		Funcs(markdownFuncs(r)).
		ParseFS(templates, "templates/report.md.tmpl")
	if err != nil {
		return fmt.Errorf("parsing report template: %w", err)
	}
	if err := tmpl.Execute(w, r); err != nil {
		return fmt.Errorf("rendering report: %w", err)
	}
	return nil
}

// WriteHTML renders the Markdown report and converts it into a standalone
// HTML page.
func WriteHTML(w io.Writer, r *Report) error {
	var source bytes.Buffer
	if err := WriteMarkdown(&source, r); err != nil {
		return err
	}

	var body bytes.Buffer
	if err := md.Convert(source.Bytes(), &body); err != nil {
		return fmt.Errorf("converting markdown: %w", err)
	}

	page, err := template.ParseFS(templates, "templates/report.html.tmpl")
	if err != nil {
		return fmt.Errorf("parsing page template: %w", err)
	}

	data := struct {
		Title string
		Body  template.HTML
	}{
		Title: "Workspace report: " + r.Name,
		Body:  template.HTML(body.String()),
	}
	if err := page.Execute(w, data); err != nil {
		return fmt.Errorf("rendering page: %w", err)
	}
	return nil
}

func markdownFuncs(r *Report) texttemplate.FuncMap {
	ids := make(map[string]string, len(r.Modules))
	for i, m := range r.Modules {
		ids[m.Name] = fmt.Sprintf("m%d", i)
	}

	return texttemplate.FuncMap{
		"id":   func(name string) string { return ids[name] },
		"join": strings.Join,
		"level": func(l int) string {
			if l < 0 {
				return "-"
			}
			return fmt.Sprint(l)
		},
		"cycle": func(c []string) string {
			if len(c) == 0 {
				return ""
			}
			return strings.Join(append(append([]string{}, c...), c[0]), " → ")
		},
		"versions": func(c analyzer.VersionConflict) string {
			parts := make([]string, len(c.Versions))
			for i, use := range c.Versions {
				parts[i] = fmt.Sprintf("`%s` (%s)", use.Version, strings.Join(use.Modules, ", "))
			}
			return strings.Join(parts, ", ")
		},
	}
}
