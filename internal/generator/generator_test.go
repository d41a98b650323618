package generator_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/simonhull/firebird-suite/heron/internal/generator"
	"github.com/simonhull/firebird-suite/heron/pkg/buildfile"
)

func TestExecute_DryRun(t *testing.T) {
	ctx := context.Background()
	tmpDir := t.TempDir()
	target := filepath.Join(tmpDir, "billing", "build.gradle")

	ops := []generator.Operation{
		&generator.WriteFileOp{Path: target, Content: []byte("plugins {}"), Mode: 0644},
	}

	var buf bytes.Buffer
	err := generator.Execute(ctx, ops, generator.ExecuteOptions{DryRun: true, Writer: &buf})
	if err != nil {
		t.Fatalf("dry run failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(tmpDir, "billing")); !os.IsNotExist(err) {
		t.Error("dry run created the module directory")
	}
	if !strings.Contains(buf.String(), "[DRY RUN]") {
		t.Errorf("output missing [DRY RUN] marker, got: %s", buf.String())
	}
}

func TestExecute_RealRun(t *testing.T) {
	ctx := context.Background()
	tmpDir := t.TempDir()
	target := filepath.Join(tmpDir, "billing", "src", "main", "java", "Main.java")

	ops := []generator.Operation{
		&generator.WriteFileOp{Path: target, Content: []byte("class Main {}"), Mode: 0644},
	}

	var buf bytes.Buffer
	if err := generator.Execute(ctx, ops, generator.ExecuteOptions{Writer: &buf}); err != nil {
		t.Fatalf("execute failed: %v", err)
	}

	content, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("file not created: %v", err)
	}
	if string(content) != "class Main {}" {
		t.Errorf("content = %q", content)
	}
	if !strings.Contains(buf.String(), "✓ Create") {
		t.Errorf("output missing create line, got: %s", buf.String())
	}
}

func TestExecute_ConflictWithoutForce(t *testing.T) {
	ctx := context.Background()
	tmpDir := t.TempDir()
	existing := filepath.Join(tmpDir, "build.gradle")
	if err := os.WriteFile(existing, []byte("old"), 0644); err != nil {
		t.Fatal(err)
	}

	ops := []generator.Operation{
		&generator.WriteFileOp{Path: existing, Content: []byte("new"), Mode: 0644},
	}

	err := generator.Execute(ctx, ops, generator.ExecuteOptions{Writer: &bytes.Buffer{}})
	if err == nil || !strings.Contains(err.Error(), "file already exists") {
		t.Fatalf("expected conflict error, got %v", err)
	}

	if err := generator.Execute(ctx, ops, generator.ExecuteOptions{Force: true, Writer: &bytes.Buffer{}}); err != nil {
		t.Fatalf("forced execute failed: %v", err)
	}
	content, _ := os.ReadFile(existing)
	if string(content) != "new" {
		t.Errorf("force did not overwrite, content = %q", content)
	}
}

func TestExecute_NilContent(t *testing.T) {
	ops := []generator.Operation{
		&generator.WriteFileOp{Path: filepath.Join(t.TempDir(), "x"), Mode: 0644},
	}
	err := generator.Execute(context.Background(), ops, generator.ExecuteOptions{Writer: &bytes.Buffer{}})
	if err == nil || !strings.Contains(err.Error(), "content is nil") {
		t.Fatalf("expected nil content error, got %v", err)
	}
}

// failingOp validates but fails on execute
type failingOp struct{}

func (failingOp) Validate(ctx context.Context, force bool) error { return nil }
func (failingOp) Execute(ctx context.Context) error            { return os.ErrPermission }
func (failingOp) Description() string                          { return "fail" }

func TestExecute_RollbackOnFailure(t *testing.T) {
	ctx := context.Background()
	tmpDir := t.TempDir()
	moduleDir := filepath.Join(tmpDir, "billing")

	existing := filepath.Join(tmpDir, "settings.gradle")
	if err := os.WriteFile(existing, []byte("rootProject.name = 'shop'"), 0644); err != nil {
		t.Fatal(err)
	}

	ops := []generator.Operation{
		&generator.WriteFileOp{Path: filepath.Join(moduleDir, "build.gradle"), Content: []byte("a"), Mode: 0644},
		&generator.WriteFileOp{Path: filepath.Join(moduleDir, "src", "main", "java", "Main.java"), Content: []byte("b"), Mode: 0644},
		&generator.WriteFileOp{Path: existing, Content: []byte("changed"), Mode: 0644},
		failingOp{},
	}

	err := generator.Execute(ctx, ops, generator.ExecuteOptions{Force: true, Writer: &bytes.Buffer{}})
	if err == nil {
		t.Fatal("expected execution error")
	}

	if _, err := os.Stat(moduleDir); !os.IsNotExist(err) {
		t.Error("rollback left the module directory behind")
	}
	content, _ := os.ReadFile(existing)
	if string(content) != "rootProject.name = 'shop'" {
		t.Errorf("rollback did not restore overwritten file, content = %q", content)
	}
}

func TestTransaction_CommitDisablesRollback(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "kept.txt")

	tx := generator.NewTransaction()
	if err := tx.Run(ctx, &generator.WriteFileOp{Path: path, Content: []byte("x"), Mode: 0644}); err != nil {
		t.Fatal(err)
	}
	tx.Commit()

	if errs := tx.Rollback(); len(errs) != 0 {
		t.Fatalf("rollback after commit returned %v", errs)
	}
	if _, err := os.Stat(path); err != nil {
		t.Error("committed file was removed")
	}
	if err := tx.Run(ctx, &generator.WriteFileOp{Path: path + "2", Content: []byte("y")}); err == nil {
		t.Error("Run after Commit should fail")
	}
}

func TestNormalize_Defaults(t *testing.T) {
	p, err := generator.Normalize(generator.ProjectOptions{Name: "billing"})
	if err != nil {
		t.Fatalf("normalize failed: %v", err)
	}

	if p.Type != generator.Application {
		t.Errorf("Type = %s, want application", p.Type)
	}
	if p.JavaVersion != "17" || p.GradleVersion != "8.5" || p.Group != "com.example" {
		t.Errorf("defaults = %s %s %s", p.JavaVersion, p.GradleVersion, p.Group)
	}
	if p.Root != "billing" || p.ProjectName != "billing" {
		t.Errorf("Root = %s, ProjectName = %s", p.Root, p.ProjectName)
	}
	if p.Dialect != buildfile.Groovy {
		t.Errorf("Dialect = %s, want groovy", p.Dialect)
	}
}

func TestNormalize_Directory(t *testing.T) {
	tests := []struct {
		dir      string
		wantRoot string
		wantName string
	}{
		{"", "api", "api"},
		{".", "api", "api"},
		{"services", "services/api", "services-api"},
		{"services/", "services/api", "services-api"},
		{"./apps/web", "apps/web/api", "apps-web-api"},
	}

	for _, tt := range tests {
		p, err := generator.Normalize(generator.ProjectOptions{Name: "api", Directory: tt.dir})
		if err != nil {
			t.Fatalf("Normalize(%q) failed: %v", tt.dir, err)
		}
		if p.Root != tt.wantRoot || p.ProjectName != tt.wantName {
			t.Errorf("Normalize(%q) = %s / %s, want %s / %s", tt.dir, p.Root, p.ProjectName, tt.wantRoot, tt.wantName)
		}
	}
}

func TestNormalize_Invalid(t *testing.T) {
	tests := []generator.ProjectOptions{
		{Name: ""},
		{Name: "1st"},
		{Name: "has space"},
		{Name: "ok", Type: "plugin"},
		{Name: "ok", JavaVersion: "seventeen"},
		{Name: "ok", Group: "com..example"},
		{Name: "ok", GradleVersion: "latest"},
		{Name: "ok", Directory: "../outside"},
		{Name: "ok", Directory: "/abs"},
	}

	for _, opts := range tests {
		if _, err := generator.Normalize(opts); err == nil {
			t.Errorf("Normalize(%+v) should fail", opts)
		}
	}
}

func TestParseProjectType(t *testing.T) {
	if pt, err := generator.ParseProjectType("Library"); err != nil || pt != generator.Library {
		t.Errorf("ParseProjectType(Library) = %s, %v", pt, err)
	}
	if pt, err := generator.ParseProjectType(""); err != nil || pt != generator.Application {
		t.Errorf("ParseProjectType(\"\") = %s, %v", pt, err)
	}
	if _, err := generator.ParseProjectType("war"); err == nil {
		t.Error("ParseProjectType(war) should fail")
	}
}

func generate(t *testing.T, opts generator.ProjectOptions) (string, *generator.Project) {
	t.Helper()
	root := t.TempDir()

	p, err := generator.Normalize(opts)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	ops, err := p.Operations(root, generator.NewRenderer())
	if err != nil {
		t.Fatalf("operations: %v", err)
	}
	if err := generator.Execute(context.Background(), ops, generator.ExecuteOptions{Writer: &bytes.Buffer{}}); err != nil {
		t.Fatalf("execute: %v", err)
	}
	return root, p
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(b)
}

func TestGenerate_GroovyApplication(t *testing.T) {
	root, p := generate(t, generator.ProjectOptions{Name: "billing", Directory: "services", Group: "com.shop"})
	dir := p.Dir(root)

	for _, f := range []string{"build.gradle", "settings.gradle", "src/main/java/Main.java", "src/test/java/MainTest.java", ".gitignore"} {
		if _, err := os.Stat(filepath.Join(dir, filepath.FromSlash(f))); err != nil {
			t.Errorf("missing %s: %v", f, err)
		}
	}

	facts := buildfile.Parse(readFile(t, filepath.Join(dir, "build.gradle")), buildfile.Groovy)
	if !facts.HasPlugin("application") || !facts.HasPlugin("java") {
		t.Errorf("plugins = %v", facts.Plugins)
	}
	if v, _ := facts.Property(buildfile.PropGroup); v != "com.shop" {
		t.Errorf("group = %q", v)
	}
	if v, _ := facts.Property(buildfile.PropSourceCompatibility); v != "17" {
		t.Errorf("sourceCompatibility = %q", v)
	}
	if len(facts.Repositories) != 1 || facts.Repositories[0] != "mavenCentral" {
		t.Errorf("repositories = %v", facts.Repositories)
	}
	if ext := facts.ExternalDependencies(); len(ext) != 1 || ext[0].Coordinate() != "org.junit.jupiter:junit-jupiter:"+generator.JUnitVersion {
		t.Errorf("external dependencies = %v", ext)
	}

	settings := readFile(t, filepath.Join(dir, "settings.gradle"))
	if name, ok := buildfile.ParseRootProjectName(settings); !ok || name != "services-billing" {
		t.Errorf("rootProject.name = %q, %v", name, ok)
	}

	main := readFile(t, filepath.Join(dir, "src", "main", "java", "Main.java"))
	if !strings.Contains(main, "public static void main") {
		t.Error("application Main.java should have a main method")
	}
}

func TestGenerate_KotlinLibrary(t *testing.T) {
	root, p := generate(t, generator.ProjectOptions{
		Name:        "util",
		Type:        generator.Library,
		Dialect:     buildfile.Kotlin,
		JavaVersion: "1.8",
	})
	dir := p.Dir(root)

	text := readFile(t, filepath.Join(dir, "build.gradle.kts"))
	if !strings.Contains(text, "JavaVersion.VERSION_1_8") {
		t.Errorf("build.gradle.kts missing java constant:\n%s", text)
	}
	if strings.Contains(text, "application") {
		t.Errorf("library should not apply the application plugin:\n%s", text)
	}

	facts := buildfile.Parse(text, buildfile.Kotlin)
	if !facts.HasPlugin("java-library") {
		t.Errorf("plugins = %v", facts.Plugins)
	}
	if v, _ := facts.Property(buildfile.PropTargetCompatibility); v != "1.8" {
		t.Errorf("targetCompatibility = %q", v)
	}

	if _, err := os.Stat(filepath.Join(dir, "settings.gradle.kts")); err != nil {
		t.Errorf("missing settings.gradle.kts: %v", err)
	}
	main := readFile(t, filepath.Join(dir, "src", "main", "java", "Main.java"))
	if strings.Contains(main, "static void main") {
		t.Error("library Main.java should not have a main method")
	}
}

func TestGenerate_RefusesExistingModule(t *testing.T) {
	root, p := generate(t, generator.ProjectOptions{Name: "billing"})

	ops, err := p.Operations(root, generator.NewRenderer())
	if err != nil {
		t.Fatal(err)
	}
	err = generator.Execute(context.Background(), ops, generator.ExecuteOptions{Writer: &bytes.Buffer{}})
	if err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Fatalf("expected conflict, got %v", err)
	}
}
