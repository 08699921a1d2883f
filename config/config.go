// Package config — .textkit.yaml configuration file support.
//
// When a .textkit.yaml file exists in the project root it overrides the
// built-in defaults, which mirror the upstream Deltarune text dump layout.
// Every knob the pipeline uses (chapter list, language list, remote dump
// URL, install path env var) lives here so the other packages take explicit
// configuration instead of reading globals.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// FileName is the config file name looked up in the project root.
const FileName = ".textkit.yaml"

// Default values, matching the original tool's constants.
const (
	DefaultBaseURL      = "https://raw.githubusercontent.com/HushBugger/hushbugger.github.io/refs/heads/master/deltarune/text"
	DefaultBaseLang     = "en"
	DefaultL10nLang     = "vi"
	DefaultL10nChapter  = "1"
	DefaultFetchTimeout = "10s"
	DefaultInstallEnv   = "DELTARUNE_HOME"
)

// Config holds the resolved project configuration.
type Config struct {
	// Chapters is the list of chapter identifiers to process.
	Chapters []string `yaml:"chapters,omitempty"`
	// Languages is the list of dump languages to split.
	Languages []string `yaml:"languages,omitempty"`
	// BaseLang is the reference language the dump is keyed on.
	BaseLang string `yaml:"base_lang,omitempty"`
	// L10nLang is the translation target language.
	L10nLang string `yaml:"l10n_lang,omitempty"`
	// L10nChapter is the chapter compile targets by default.
	L10nChapter string `yaml:"l10n_chapter,omitempty"`
	// BaseURL is the remote location of lang.json and sourcemap.json.
	BaseURL string `yaml:"base_url,omitempty"`
	// FetchTimeout bounds the dump download, e.g. "10s".
	FetchTimeout string `yaml:"fetch_timeout,omitempty"`
	// InstallEnv names the environment variable holding the game
	// installation root. When that variable is set, compile writes the
	// language file straight into the installation.
	InstallEnv string `yaml:"install_env,omitempty"`

	// Root is the project root directory (not part of the YAML file).
	Root string `yaml:"-"`

	timeout time.Duration
}

// Load reads .textkit.yaml from rootDir, falling back to defaults when the
// file does not exist. A malformed file or invalid field is an error.
func Load(rootDir string) (*Config, error) {
	cfg := &Config{Root: rootDir}

	path := filepath.Join(rootDir, FileName)
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	}

	// Defaults
	if len(cfg.Chapters) == 0 {
		cfg.Chapters = []string{"1", "2", "3", "4"}
	}
	if len(cfg.Languages) == 0 {
		cfg.Languages = []string{"en", "ja"}
	}
	if cfg.BaseLang == "" {
		cfg.BaseLang = DefaultBaseLang
	}
	if cfg.L10nLang == "" {
		cfg.L10nLang = DefaultL10nLang
	}
	if cfg.L10nChapter == "" {
		cfg.L10nChapter = DefaultL10nChapter
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.FetchTimeout == "" {
		cfg.FetchTimeout = DefaultFetchTimeout
	}
	if cfg.InstallEnv == "" {
		cfg.InstallEnv = DefaultInstallEnv
	}

	// Validate
	cfg.timeout, err = time.ParseDuration(cfg.FetchTimeout)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid fetch_timeout %q: %w", path, cfg.FetchTimeout, err)
	}
	if !contains(cfg.Languages, cfg.BaseLang) {
		return nil, fmt.Errorf("%s: base_lang %q is not in languages %v", path, cfg.BaseLang, cfg.Languages)
	}
	if !contains(cfg.Chapters, cfg.L10nChapter) {
		return nil, fmt.Errorf("%s: l10n_chapter %q is not in chapters %v", path, cfg.L10nChapter, cfg.Chapters)
	}

	return cfg, nil
}

// Timeout returns the parsed fetch timeout.
func (c *Config) Timeout() time.Duration {
	return c.timeout
}

// HasChapter reports whether ch is a configured chapter.
func (c *Config) HasChapter(ch string) bool {
	return contains(c.Chapters, ch)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// ---------------------------------------------------------------------------
// On-disk layout
//
//	<root>/lang.json                          raw string dump
//	<root>/sourcemap.json                     raw source map
//	<root>/chapter<N>/sourcemap.json          per-chapter ordered source map
//	<root>/chapter<N>/<lang>/obj/<file>.json  per-file string objects
//	<root>/chapter<N>/<lang>/obj/orphan.json  unmapped strings
//	<root>/chapter<N>/lang_<lang>.json        compiled language file
// ---------------------------------------------------------------------------

// RawLangPath returns the path of the raw string dump.
func (c *Config) RawLangPath() string {
	return filepath.Join(c.Root, "lang.json")
}

// RawSourceMapPath returns the path of the raw source map.
func (c *Config) RawSourceMapPath() string {
	return filepath.Join(c.Root, "sourcemap.json")
}

// ChapterDir returns the directory for a chapter.
func (c *Config) ChapterDir(chapter string) string {
	return filepath.Join(c.Root, "chapter"+chapter)
}

// SourceMapPath returns the per-chapter ordered source map path.
func (c *Config) SourceMapPath(chapter string) string {
	return filepath.Join(c.ChapterDir(chapter), "sourcemap.json")
}

// ObjDir returns the per-file object directory for a chapter and language.
func (c *Config) ObjDir(chapter, lang string) string {
	return filepath.Join(c.ChapterDir(chapter), lang, "obj")
}

// ObjPath returns the object file path for a source file name. The ".gml"
// suffix of the originating code object is replaced with ".json".
func (c *Config) ObjPath(chapter, lang, sourceFile string) string {
	return filepath.Join(c.ObjDir(chapter, lang), ObjFileName(sourceFile))
}

// OrphanPath returns the orphan object path for a chapter and language.
func (c *Config) OrphanPath(chapter, lang string) string {
	return filepath.Join(c.ObjDir(chapter, lang), "orphan.json")
}

// CompiledPath returns the local compiled language file path.
func (c *Config) CompiledPath(chapter, lang string) string {
	return filepath.Join(c.ChapterDir(chapter), "lang_"+lang+".json")
}

// InstallPath returns the compiled file path inside the game installation
// and true when the install env var is set; otherwise "" and false. The game
// always loads lang_en.json, whatever language the strings actually hold.
func (c *Config) InstallPath(chapter string) (string, bool) {
	root := os.Getenv(c.InstallEnv)
	if root == "" {
		return "", false
	}
	return filepath.Join(root, "chapter"+chapter+"_windows", "lang", "lang_en.json"), true
}

// ObjFileName maps a source file name to its object file name.
func ObjFileName(sourceFile string) string {
	return strings.TrimSuffix(sourceFile, ".gml") + ".json"
}
