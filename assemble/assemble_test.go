package assemble

import (
	"path/filepath"
	"reflect"
	"strconv"
	"testing"

	"github.com/deltarune-vi/textkit/config"
	"github.com/deltarune-vi/textkit/langfile"
)

func writeObj(t *testing.T, path string, pairs ...string) {
	t.Helper()
	obj := langfile.New()
	for i := 0; i < len(pairs); i += 2 {
		obj.Set(pairs[i], pairs[i+1])
	}
	if err := obj.WriteFile(path); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

func TestBuildOverlaysTranslations(t *testing.T) {
	dir := t.TempDir()
	baseDir := filepath.Join(dir, "en", "obj")
	targetDir := filepath.Join(dir, "vi", "obj")

	writeObj(t, filepath.Join(baseDir, "obj_a.json"), "A", "original", "B", "original2")
	writeObj(t, filepath.Join(targetDir, "obj_a.json"), "A", "translated")

	out, translated, err := Build(baseDir, targetDir, "42")
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}

	if translated != 1 {
		t.Fatalf("translated = %d, want 1", translated)
	}
	if v, _ := out.Get("A"); v != "translated" {
		t.Fatalf("A = %q, want translated", v)
	}
	if v, _ := out.Get("B"); v != "original2" {
		t.Fatalf("B = %q, want original2", v)
	}
	if v, _ := out.Get("date"); v != "42" {
		t.Fatalf("date = %q, want 42", v)
	}
	if out.Keys()[0] != "date" {
		t.Fatalf("first key = %q, want date", out.Keys()[0])
	}
}

func TestBuildMissingTargetObjectIsEmpty(t *testing.T) {
	dir := t.TempDir()
	baseDir := filepath.Join(dir, "en", "obj")
	targetDir := filepath.Join(dir, "vi", "obj")

	writeObj(t, filepath.Join(baseDir, "obj_a.json"), "A", "alpha")
	writeObj(t, filepath.Join(baseDir, "obj_b.json"), "B", "beta")
	writeObj(t, filepath.Join(targetDir, "obj_b.json"), "B", "dịch")

	out, translated, err := Build(baseDir, targetDir, "0")
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}

	if translated != 1 {
		t.Fatalf("translated = %d, want 1", translated)
	}
	if v, _ := out.Get("A"); v != "alpha" {
		t.Fatalf("A = %q, want alpha", v)
	}
	if v, _ := out.Get("B"); v != "dịch" {
		t.Fatalf("B = %q, want translated value", v)
	}
}

func TestBuildKeepsFileOrder(t *testing.T) {
	dir := t.TempDir()
	baseDir := filepath.Join(dir, "en", "obj")
	targetDir := filepath.Join(dir, "vi", "obj")

	// os.ReadDir returns names sorted, so obj_a comes before obj_b.
	writeObj(t, filepath.Join(baseDir, "obj_a.json"), "A2", "2", "A1", "1")
	writeObj(t, filepath.Join(baseDir, "obj_b.json"), "B1", "3")

	out, _, err := Build(baseDir, targetDir, "0")
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}

	want := []string{"date", "A2", "A1", "B1"}
	if !reflect.DeepEqual(out.Keys(), want) {
		t.Fatalf("keys = %v, want %v", out.Keys(), want)
	}
}

func TestBuildMissingBaseDir(t *testing.T) {
	dir := t.TempDir()
	if _, _, err := Build(filepath.Join(dir, "absent"), dir, "0"); err == nil {
		t.Fatal("expected error for missing base directory")
	}
}

func TestRunWritesCompiledDocument(t *testing.T) {
	cfg, err := config.Load(t.TempDir())
	if err != nil {
		t.Fatalf("config.Load error: %v", err)
	}
	t.Setenv(cfg.InstallEnv, "")

	writeObj(t, cfg.ObjPath("1", "en", "obj_a.gml"), "A", "original", "B", "original2", "C", "original3")
	writeObj(t, cfg.ObjPath("1", "vi", "obj_a.gml"), "A", "bản dịch")

	res, err := Run(cfg, "vi", "1")
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}

	if res.Translated != 1 || res.Total != 3 {
		t.Fatalf("result = %+v, want translated 1 of 3", res)
	}
	if res.Progress != 33 {
		t.Fatalf("progress = %d, want 33", res.Progress)
	}
	if res.OutputPath != cfg.CompiledPath("1", "vi") {
		t.Fatalf("output path = %q, want %q", res.OutputPath, cfg.CompiledPath("1", "vi"))
	}

	doc, err := langfile.ParseFile(res.OutputPath)
	if err != nil {
		t.Fatalf("ParseFile error: %v", err)
	}
	if v, _ := doc.Get("A"); v != "bản dịch" {
		t.Fatalf("compiled A = %q", v)
	}
	date, _ := doc.Get("date")
	if _, err := strconv.ParseInt(date, 10, 64); err != nil {
		t.Fatalf("date field %q is not epoch millis: %v", date, err)
	}
}

func TestRunUsesInstallPath(t *testing.T) {
	cfg, err := config.Load(t.TempDir())
	if err != nil {
		t.Fatalf("config.Load error: %v", err)
	}
	install := t.TempDir()
	t.Setenv(cfg.InstallEnv, install)

	writeObj(t, cfg.ObjPath("1", "en", "obj_a.gml"), "A", "original")

	res, err := Run(cfg, "vi", "1")
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}

	want := filepath.Join(install, "chapter1_windows", "lang", "lang_en.json")
	if res.OutputPath != want {
		t.Fatalf("output path = %q, want %q", res.OutputPath, want)
	}
	if _, err := langfile.ParseFile(want); err != nil {
		t.Fatalf("compiled file not readable: %v", err)
	}
}

func TestRunNoStrings(t *testing.T) {
	cfg, err := config.Load(t.TempDir())
	if err != nil {
		t.Fatalf("config.Load error: %v", err)
	}
	t.Setenv(cfg.InstallEnv, "")

	// Base obj dir exists but holds only an empty object.
	writeObj(t, cfg.ObjPath("1", "en", "obj_a.gml"))

	if _, err := Run(cfg, "vi", "1"); err == nil {
		t.Fatal("expected error when no strings are present")
	}
}
