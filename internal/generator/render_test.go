package generator

import (
	"strings"
	"testing"
	"testing/fstest"
)

func TestRenderString(t *testing.T) {
	r := NewRenderer()

	out, err := r.RenderString("group", "group = {{ quote .Group }}", map[string]string{"Group": "com.example"})
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if string(out) != "group = 'com.example'" {
		t.Errorf("got %q", out)
	}
}

func TestRenderString_ParseError(t *testing.T) {
	r := NewRenderer()
	if _, err := r.RenderString("bad", "{{ .Missing", nil); err == nil {
		t.Error("expected parse error")
	}
}

func TestRender_Caches(t *testing.T) {
	fsys := fstest.MapFS{
		"greeting.tmpl": {Data: []byte("hello {{ upper . }}")},
	}
	r := NewRendererFS(fsys)

	out, err := r.Render("greeting.tmpl", "heron")
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if string(out) != "hello HERON" {
		t.Errorf("got %q", out)
	}

	// Cached templates survive changes to the filesystem
	fsys["greeting.tmpl"] = &fstest.MapFile{Data: []byte("changed")}
	out, _ = r.Render("greeting.tmpl", "heron")
	if string(out) != "hello HERON" {
		t.Errorf("cache miss, got %q", out)
	}

	r.ClearCache()
	out, _ = r.Render("greeting.tmpl", "heron")
	if string(out) != "changed" {
		t.Errorf("ClearCache did not reload, got %q", out)
	}
}

func TestRender_MissingTemplate(t *testing.T) {
	r := NewRenderer()
	_, err := r.Render("templates/nope.tmpl", nil)
	if err == nil || !strings.Contains(err.Error(), "failed to read template") {
		t.Errorf("expected read error, got %v", err)
	}
}

func TestHelpers(t *testing.T) {
	if got := Quote("it's"); got != `'it\'s'` {
		t.Errorf("Quote = %s", got)
	}
	if got := JavaConstant("1.8"); got != "VERSION_1_8" {
		t.Errorf("JavaConstant(1.8) = %s", got)
	}
	if got := JavaConstant("21"); got != "VERSION_21" {
		t.Errorf("JavaConstant(21) = %s", got)
	}
}
