package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if want := []string{"1", "2", "3", "4"}; !reflect.DeepEqual(cfg.Chapters, want) {
		t.Fatalf("Chapters = %v, want %v", cfg.Chapters, want)
	}
	if want := []string{"en", "ja"}; !reflect.DeepEqual(cfg.Languages, want) {
		t.Fatalf("Languages = %v, want %v", cfg.Languages, want)
	}
	if cfg.BaseLang != "en" || cfg.L10nLang != "vi" || cfg.L10nChapter != "1" {
		t.Fatalf("language defaults = %q/%q/%q", cfg.BaseLang, cfg.L10nLang, cfg.L10nChapter)
	}
	if cfg.Timeout() != 10*time.Second {
		t.Fatalf("Timeout() = %v, want 10s", cfg.Timeout())
	}
	if cfg.InstallEnv != "DELTARUNE_HOME" {
		t.Fatalf("InstallEnv = %q", cfg.InstallEnv)
	}
}

func TestLoadFileOverrides(t *testing.T) {
	dir := t.TempDir()
	yaml := `chapters: ["1", "2"]
languages: [en, ja, fr]
base_lang: en
l10n_lang: de
l10n_chapter: "2"
base_url: https://example.com/text
fetch_timeout: 30s
install_env: GAME_HOME
`
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(yaml), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if want := []string{"1", "2"}; !reflect.DeepEqual(cfg.Chapters, want) {
		t.Fatalf("Chapters = %v, want %v", cfg.Chapters, want)
	}
	if cfg.L10nLang != "de" || cfg.L10nChapter != "2" {
		t.Fatalf("target = %q/%q, want de/2", cfg.L10nLang, cfg.L10nChapter)
	}
	if cfg.BaseURL != "https://example.com/text" {
		t.Fatalf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.Timeout() != 30*time.Second {
		t.Fatalf("Timeout() = %v, want 30s", cfg.Timeout())
	}
	if cfg.InstallEnv != "GAME_HOME" {
		t.Fatalf("InstallEnv = %q", cfg.InstallEnv)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{name: "malformed yaml", yaml: "chapters: [\n"},
		{name: "bad timeout", yaml: "fetch_timeout: banana\n"},
		{name: "base lang not in languages", yaml: "languages: [ja]\nbase_lang: en\n"},
		{name: "target chapter not in chapters", yaml: "chapters: [\"1\"]\nl10n_chapter: \"7\"\n"},
	}

	for _, tc := range tests {
		dir := t.TempDir()
		if err := os.WriteFile(filepath.Join(dir, FileName), []byte(tc.yaml), 0644); err != nil {
			t.Fatalf("%s: writing config: %v", tc.name, err)
		}
		if _, err := Load(dir); err == nil {
			t.Fatalf("%s: Load succeeded, want error", tc.name)
		}
	}
}

func TestPaths(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	cfg.Root = "/proj"

	tests := []struct {
		got  string
		want string
	}{
		{cfg.RawLangPath(), "/proj/lang.json"},
		{cfg.RawSourceMapPath(), "/proj/sourcemap.json"},
		{cfg.ChapterDir("2"), "/proj/chapter2"},
		{cfg.SourceMapPath("2"), "/proj/chapter2/sourcemap.json"},
		{cfg.ObjDir("1", "vi"), "/proj/chapter1/vi/obj"},
		{cfg.ObjPath("1", "en", "obj_time.gml"), "/proj/chapter1/en/obj/obj_time.json"},
		{cfg.OrphanPath("1", "ja"), "/proj/chapter1/ja/obj/orphan.json"},
		{cfg.CompiledPath("3", "vi"), "/proj/chapter3/lang_vi.json"},
	}
	for _, tc := range tests {
		if filepath.ToSlash(tc.got) != tc.want {
			t.Fatalf("path = %q, want %q", tc.got, tc.want)
		}
	}
}

func TestInstallPath(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	t.Setenv("DELTARUNE_HOME", "")
	if _, ok := cfg.InstallPath("1"); ok {
		t.Fatal("InstallPath set without env var")
	}

	t.Setenv("DELTARUNE_HOME", "/games/deltarune")
	path, ok := cfg.InstallPath("1")
	if !ok {
		t.Fatal("InstallPath not set with env var")
	}
	if filepath.ToSlash(path) != "/games/deltarune/chapter1_windows/lang/lang_en.json" {
		t.Fatalf("InstallPath = %q", path)
	}
}

func TestObjFileName(t *testing.T) {
	if got := ObjFileName("obj_shop.gml"); got != "obj_shop.json" {
		t.Fatalf("ObjFileName(obj_shop.gml) = %q", got)
	}
	if got := ObjFileName("scr_text"); got != "scr_text.json" {
		t.Fatalf("ObjFileName(scr_text) = %q", got)
	}
}
