// Package seed prepares the object directories of a new target language:
// every base-language object file gets an empty same-named counterpart to
// fill in, and target files whose source file no longer exists are pruned.
// Files the translators already touched are left alone.
package seed

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/deltarune-vi/textkit/config"
	"github.com/deltarune-vi/textkit/langfile"
)

// Result counts what a seed run changed.
type Result struct {
	// Created is the number of empty skeleton files written.
	Created int
	// Removed is the number of stale target files deleted.
	Removed int
}

// Run seeds the target language's object directory for every configured
// chapter. The base language must have been split already.
func Run(cfg *config.Config, lang string) (*Result, error) {
	res := &Result{}
	for _, chapter := range cfg.Chapters {
		if err := seedChapter(cfg, chapter, lang, res); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func seedChapter(cfg *config.Config, chapter, lang string, res *Result) error {
	baseDir := cfg.ObjDir(chapter, cfg.BaseLang)
	targetDir := cfg.ObjDir(chapter, lang)

	if err := os.MkdirAll(targetDir, 0755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}

	baseEntries, err := os.ReadDir(baseDir)
	if err != nil {
		return fmt.Errorf("reading %s (run split first): %w", baseDir, err)
	}

	baseNames := make(map[string]bool)
	for _, e := range baseEntries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		baseNames[e.Name()] = true

		path := filepath.Join(targetDir, e.Name())
		if _, err := os.Stat(path); err == nil {
			continue
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("checking %s: %w", path, err)
		}
		if err := langfile.New().WriteFile(path); err != nil {
			return err
		}
		res.Created++
	}

	targetEntries, err := os.ReadDir(targetDir)
	if err != nil {
		return fmt.Errorf("reading %s: %w", targetDir, err)
	}
	for _, e := range targetEntries {
		if e.IsDir() || baseNames[e.Name()] {
			continue
		}
		path := filepath.Join(targetDir, e.Name())
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("removing %s: %w", path, err)
		}
		res.Removed++
	}

	return nil
}
