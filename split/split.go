// Package split turns the raw text dump into per-file, per-language string
// objects ordered by position in the game code.
//
// The raw sourcemap only maps string keys to "file:line" locations, in
// document order. Splitting rebuilds an explicit per-chapter sourcemap
// (file -> ordered line -> key), then uses it to carve the raw string dump
// into one JSON object per originating source file, plus an orphan object
// for strings no longer referenced by the code.
package split

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/deltarune-vi/textkit/config"
	"github.com/deltarune-vi/textkit/langfile"
	"github.com/deltarune-vi/textkit/natsort"
)

// RawLang is the raw string dump: chapter -> language -> key -> text.
type RawLang map[string]map[string]*langfile.Object

// RawSourceMap is the raw source map: chapter -> key -> "file:line",
// in document order.
type RawSourceMap map[string]*langfile.Object

// LoadLang reads the raw string dump (lang.json).
func LoadLang(path string) (RawLang, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	defer f.Close()

	dec := json.NewDecoder(f)
	if err := expectOpen(dec); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	raw := make(RawLang)
	for dec.More() {
		chapter, err := stringToken(dec)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		if err := expectOpen(dec); err != nil {
			return nil, fmt.Errorf("parsing %s: chapter %s: %w", path, chapter, err)
		}
		langs := make(map[string]*langfile.Object)
		for dec.More() {
			lang, err := stringToken(dec)
			if err != nil {
				return nil, fmt.Errorf("parsing %s: chapter %s: %w", path, chapter, err)
			}
			obj, err := langfile.Decode(dec)
			if err != nil {
				return nil, fmt.Errorf("parsing %s: chapter %s lang %s: %w", path, chapter, lang, err)
			}
			langs[lang] = obj
		}
		if _, err := dec.Token(); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		raw[chapter] = langs
	}
	return raw, nil
}

// LoadSourceMap reads the raw source map (sourcemap.json).
func LoadSourceMap(path string) (RawSourceMap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	defer f.Close()

	dec := json.NewDecoder(f)
	if err := expectOpen(dec); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	raw := make(RawSourceMap)
	for dec.More() {
		chapter, err := stringToken(dec)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		obj, err := langfile.Decode(dec)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: chapter %s: %w", path, chapter, err)
		}
		raw[chapter] = obj
	}
	return raw, nil
}

func expectOpen(dec *json.Decoder) error {
	t, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := t.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected {, got %v", t)
	}
	return nil
}

func stringToken(dec *json.Decoder) (string, error) {
	t, err := dec.Token()
	if err != nil {
		return "", err
	}
	s, ok := t.(string)
	if !ok {
		return "", fmt.Errorf("expected string key, got %T", t)
	}
	return s, nil
}

// Stats holds the per-language string counts of one chapter.
type Stats struct {
	Chapter string
	Lang    string
	// Total is Unique + Orphans.
	Total   int
	Unique  int
	Orphans int
}

// Result is the outcome of a split run.
type Result struct {
	Stats []Stats
	// Diagnostics lists recovered conditions: string keys missing from the
	// dump and orphans that look like duplicate leftovers. They are
	// returned rather than only printed so callers can assert on them.
	Diagnostics []string
}

// Run splits the raw dump for every configured chapter and language,
// writing the per-chapter sourcemap and the per-file and orphan objects.
// Existing object files whose content would be empty are deleted.
func Run(cfg *config.Config, rawLang RawLang, rawSourceMap RawSourceMap) (*Result, error) {
	res := &Result{}

	for _, chapter := range cfg.Chapters {
		chMap, ok := rawSourceMap[chapter]
		if !ok {
			return nil, fmt.Errorf("chapter %s missing from source map", chapter)
		}
		chLangs, ok := rawLang[chapter]
		if !ok {
			return nil, fmt.Errorf("chapter %s missing from string dump", chapter)
		}

		fileOrder, files, err := buildSourceMap(chMap)
		if err != nil {
			return nil, fmt.Errorf("chapter %s: %w", chapter, err)
		}

		if err := writeSourceMap(cfg.SourceMapPath(chapter), fileOrder, files); err != nil {
			return nil, err
		}

		for _, lang := range cfg.Languages {
			strs, ok := chLangs[lang]
			if !ok {
				return nil, fmt.Errorf("chapter %s: language %s missing from string dump", chapter, lang)
			}

			stats, err := splitLanguage(cfg, chapter, lang, fileOrder, files, strs, res)
			if err != nil {
				return nil, err
			}
			res.Stats = append(res.Stats, stats)
		}
	}

	return res, nil
}

// buildSourceMap folds the chapter's raw entries into per-file ordered
// line -> key maps. Strings sharing one source line get a "_N" suffix to
// keep their ordering keys distinct: the first occurrence keeps the bare
// line number, later ones count up from _1. The counter resets to zero on
// every location that is not duplicated and increments on every one that
// is, so it carries across adjacent duplicate groups.
func buildSourceMap(chMap *langfile.Object) ([]string, map[string]*langfile.Object, error) {
	dups := make(map[string]int)
	for _, key := range chMap.Keys() {
		loc, _ := chMap.Get(key)
		dups[loc]++
	}

	var fileOrder []string
	files := make(map[string]*langfile.Object)

	dupCount := 0
	for _, key := range chMap.Keys() {
		loc, _ := chMap.Get(key)
		filename, lineno, ok := strings.Cut(loc, ":")
		if !ok {
			return nil, nil, fmt.Errorf("invalid location %q for key %q", loc, key)
		}

		if dups[loc] > 1 {
			if dupCount > 0 {
				lineno += "_" + strconv.Itoa(dupCount)
			}
			dupCount++
		} else {
			dupCount = 0
		}

		obj, ok := files[filename]
		if !ok {
			obj = langfile.New()
			files[filename] = obj
			fileOrder = append(fileOrder, filename)
		}
		obj.Set(lineno, key)
	}

	for _, filename := range fileOrder {
		files[filename].Sort(natsort.Less)
	}
	return fileOrder, files, nil
}

// writeSourceMap persists the rebuilt chapter sourcemap as nested JSON,
// files in encounter order, lines in natural order.
func writeSourceMap(path string, fileOrder []string, files map[string]*langfile.Object) error {
	var b strings.Builder
	if len(fileOrder) == 0 {
		b.WriteString("{}\n")
	} else {
		b.WriteString("{\n")
		for i, filename := range fileOrder {
			b.WriteString("  ")
			b.WriteString(langfile.Quote(filename))
			b.WriteString(": {\n")
			obj := files[filename]
			keys := obj.Keys()
			for j, line := range keys {
				key, _ := obj.Get(line)
				b.WriteString("    ")
				b.WriteString(langfile.Quote(line))
				b.WriteString(": ")
				b.WriteString(langfile.Quote(key))
				if j < len(keys)-1 {
					b.WriteByte(',')
				}
				b.WriteByte('\n')
			}
			b.WriteString("  }")
			if i < len(fileOrder)-1 {
				b.WriteByte(',')
			}
			b.WriteByte('\n')
		}
		b.WriteString("}\n")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// splitLanguage emits the per-file objects and the orphan object for one
// chapter and language, collecting diagnostics on res.
func splitLanguage(cfg *config.Config, chapter, lang string, fileOrder []string, files map[string]*langfile.Object, strs *langfile.Object, res *Result) (Stats, error) {
	if err := os.MkdirAll(cfg.ObjDir(chapter, lang), 0755); err != nil {
		return Stats{}, fmt.Errorf("creating directory: %w", err)
	}

	// emitted tracks every string key placed into some per-file object,
	// across all files of this chapter/language pass.
	emitted := langfile.New()

	for _, filename := range fileOrder {
		objStrings := langfile.New()
		fileMap := files[filename]
		for _, line := range fileMap.Keys() {
			key, _ := fileMap.Get(line)
			value, ok := strs.Get(key)
			if !ok {
				res.Diagnostics = append(res.Diagnostics, fmt.Sprintf("not found: %s", key))
				continue
			}
			objStrings.Set(key, value)
			emitted.Set(key, value)
		}

		objPath := cfg.ObjPath(chapter, lang, filename)
		if objStrings.Len() == 0 {
			if err := langfile.Remove(objPath); err != nil {
				return Stats{}, fmt.Errorf("removing %s: %w", objPath, err)
			}
			continue
		}
		if err := objStrings.WriteFile(objPath); err != nil {
			return Stats{}, err
		}
	}

	// Orphan strings exist in the dump but are not referenced from any
	// source location. A key whose _DUP twin was emitted is probably a
	// duplicate leftover rather than a true orphan; it is reported but
	// still written to the orphan object.
	orphans := langfile.New()
	for _, key := range strs.Keys() {
		if emitted.Has(key) || key == "date" {
			continue
		}
		if emitted.Has(key + "_DUP") {
			res.Diagnostics = append(res.Diagnostics, fmt.Sprintf("%s is not mapped, but appears to be a duplicate", key))
		}
		value, _ := strs.Get(key)
		orphans.Set(key, value)
	}

	orphanPath := cfg.OrphanPath(chapter, lang)
	if orphans.Len() == 0 {
		if err := langfile.Remove(orphanPath); err != nil {
			return Stats{}, fmt.Errorf("removing %s: %w", orphanPath, err)
		}
	} else if err := orphans.WriteFile(orphanPath); err != nil {
		return Stats{}, err
	}

	return Stats{
		Chapter: chapter,
		Lang:    lang,
		Total:   emitted.Len() + orphans.Len(),
		Unique:  emitted.Len(),
		Orphans: orphans.Len(),
	}, nil
}
