// Package assemble recompiles translated per-file fragments into the single
// language file the game loads, overlaying translated values on the base
// language and reporting translation progress.
package assemble

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/deltarune-vi/textkit/config"
	"github.com/deltarune-vi/textkit/langfile"
)

// Result is the outcome of an assemble run.
type Result struct {
	// Translated is the number of keys taken from the target language.
	Translated int
	// Total is the number of strings in the compiled document, excluding
	// the date field.
	Total int
	// Progress is floor(Translated / Total * 100).
	Progress int
	// OutputPath is where the compiled document was written.
	OutputPath string
}

// Run assembles the compiled language document for one chapter and target
// language. The output goes into the game installation when the configured
// install env var is set, otherwise next to the chapter's object files.
func Run(cfg *config.Config, lang, chapter string) (*Result, error) {
	baseDir := cfg.ObjDir(chapter, cfg.BaseLang)
	targetDir := cfg.ObjDir(chapter, lang)
	if err := os.MkdirAll(targetDir, 0755); err != nil {
		return nil, fmt.Errorf("creating directory: %w", err)
	}

	date := strconv.FormatInt(time.Now().UnixMilli(), 10)
	out, translated, err := Build(baseDir, targetDir, date)
	if err != nil {
		return nil, err
	}

	total := out.Len() - 1 // minus the date field
	if total == 0 {
		return nil, fmt.Errorf("no strings in %s, run split first", baseDir)
	}

	path, ok := cfg.InstallPath(chapter)
	if !ok {
		path = cfg.CompiledPath(chapter, lang)
	}
	if err := out.WriteFile(path); err != nil {
		return nil, err
	}

	return &Result{
		Translated: translated,
		Total:      total,
		Progress:   translated * 100 / total,
		OutputPath: path,
	}, nil
}

// Build merges the target language's object files over the base language's,
// file by file, into one flat document starting with the date field. A base
// key also present in the same-named target object takes the target's value
// and counts as translated; a missing target object counts as empty.
func Build(baseDir, targetDir, date string) (*langfile.Object, int, error) {
	entries, err := os.ReadDir(baseDir)
	if err != nil {
		return nil, 0, fmt.Errorf("reading %s: %w", baseDir, err)
	}

	out := langfile.New()
	out.Set("date", date)

	translated := 0
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}

		base, err := langfile.ParseFile(filepath.Join(baseDir, e.Name()))
		if err != nil {
			return nil, 0, err
		}

		target, err := langfile.ParseFile(filepath.Join(targetDir, e.Name()))
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, 0, err
			}
			target = langfile.New()
		}

		for _, k := range base.Keys() {
			if v, ok := target.Get(k); ok {
				translated++
				base.Set(k, v)
			}
		}
		out.Merge(base)
	}

	return out, translated, nil
}
