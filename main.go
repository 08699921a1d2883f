// textkit — game script localization toolkit: splits raw text dumps into
// per-file string objects, seeds new translation languages, and recompiles
// translated fragments into the language file the game loads.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/deltarune-vi/textkit/assemble"
	"github.com/deltarune-vi/textkit/config"
	"github.com/deltarune-vi/textkit/fetch"
	"github.com/deltarune-vi/textkit/i18n"
	"github.com/deltarune-vi/textkit/seed"
	"github.com/deltarune-vi/textkit/split"
)

// Version information (set via -ldflags during build)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// ANSI colors
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[0;31m"
	colorGreen  = "\033[0;32m"
	colorYellow = "\033[1;33m"
	colorBlue   = "\033[0;34m"
)

func logInfo(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorBlue+"[INFO]"+colorReset+" "+format+"\n", args...)
}

func logSuccess(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorGreen+"[OK]"+colorReset+" "+format+"\n", args...)
}

func logWarning(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorYellow+"[WARN]"+colorReset+" "+format+"\n", args...)
}

func logError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorRed+"[ERROR]"+colorReset+" "+format+"\n", args...)
}

// ---------------------------------------------------------------------------
// Global flag
// ---------------------------------------------------------------------------

var rootDir string

// ---------------------------------------------------------------------------
// Root command
// ---------------------------------------------------------------------------

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "textkit",
		Short: "Game script localization toolkit",
		Long: `textkit — game script localization toolkit.

Fetches the raw string dump (lang.json) and source map (sourcemap.json),
splits them into per-file, per-chapter, per-language JSON objects ordered
by code position, seeds a new translation language with empty skeleton
files, and recompiles translated fragments into lang_<lang>.json.

Commands:
  split     Split the raw dumps into per-file string objects
  compile   Assemble the translated language file with progress report
  init      Seed the target language skeleton and prune stale files
  update    Fetch fresh dumps, then split
  status    Show per-chapter translation progress

Configuration lives in .textkit.yaml in the project root; every field
falls back to the upstream Deltarune dump defaults.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global persistent flag — inherited by all subcommands
	root.PersistentFlags().StringVar(&rootDir, "root", ".", "Project root directory")

	root.AddCommand(
		newSplitCmd(),
		newCompileCmd(),
		newInitCmd(),
		newUpdateCmd(),
		newStatusCmd(),
		newVersionCmd(),
	)

	return root
}

func main() {
	i18n.Init("")
	if err := newRootCmd().Execute(); err != nil {
		logError("%v", err)
		os.Exit(1)
	}
}

// ---------------------------------------------------------------------------
// version (display version information)
// ---------------------------------------------------------------------------

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("textkit version %s\n", version)
			fmt.Printf("  commit:    %s\n", commit)
			fmt.Printf("  built:     %s\n", date)
		},
	}
}

// ---------------------------------------------------------------------------
// split (split raw dumps into per-file objects)
// ---------------------------------------------------------------------------

func newSplitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "split",
		Short: "Split the raw dumps into per-file string objects",
		Long: `Split lang.json along sourcemap.json into one JSON object per source
file, per chapter and language, ordered by position in the code. Strings
without a source location go into orphan.json. Requires lang.json and
sourcemap.json in the project root (see 'textkit update').`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(rootDir)
			if err != nil {
				return err
			}
			return runSplit(cfg)
		},
	}
}

func runSplit(cfg *config.Config) error {
	logInfo(i18n.T("loading raw dumps"))
	rawLang, err := split.LoadLang(cfg.RawLangPath())
	if err != nil {
		return err
	}
	rawSourceMap, err := split.LoadSourceMap(cfg.RawSourceMapPath())
	if err != nil {
		return err
	}

	res, err := split.Run(cfg, rawLang, rawSourceMap)
	if err != nil {
		return err
	}

	for _, diag := range res.Diagnostics {
		logWarning("%s", diag)
	}
	for _, st := range res.Stats {
		logInfo(i18n.T("split: chapter %s (%s)"), st.Chapter, st.Lang)
		logInfo(i18n.T("total %d, unique %d, orphan %d"), st.Total, st.Unique, st.Orphans)
	}
	logSuccess("split complete")
	return nil
}

// ---------------------------------------------------------------------------
// compile (assemble the translated language file)
// ---------------------------------------------------------------------------

func newCompileCmd() *cobra.Command {
	var lang, chapter string

	cmd := &cobra.Command{
		Use:   "compile",
		Short: "Assemble the translated language file with progress report",
		Long: `Merge the target language's translated object files over the base
language's and write the flat lang_<lang>.json document. When the install
env var (default DELTARUNE_HOME) is set, the file goes straight into the
game installation instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(rootDir)
			if err != nil {
				return err
			}
			if lang == "" {
				lang = cfg.L10nLang
			}
			if chapter == "" {
				chapter = cfg.L10nChapter
			}
			if !cfg.HasChapter(chapter) {
				return fmt.Errorf("unknown chapter %q (configured: %v)", chapter, cfg.Chapters)
			}

			logInfo(i18n.T("assemble: chapter %s (%s)"), chapter, lang)
			res, err := assemble.Run(cfg, lang, chapter)
			if err != nil {
				return err
			}
			logInfo(i18n.T("Translated %d/%d (%d%%)"), res.Translated, res.Total, res.Progress)
			logSuccess("%s", res.OutputPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&lang, "lang", "", "Target language (default from config)")
	cmd.Flags().StringVar(&chapter, "chapter", "", "Chapter to compile (default from config)")
	return cmd
}

// ---------------------------------------------------------------------------
// init (seed the target language skeleton)
// ---------------------------------------------------------------------------

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Seed the target language skeleton and prune stale files",
		Long: `Create an empty object file for every base-language object file the
target language is missing, and delete target files whose source file no
longer exists. Files with existing translations are left untouched.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(rootDir)
			if err != nil {
				return err
			}
			res, err := seed.Run(cfg, cfg.L10nLang)
			if err != nil {
				return err
			}
			logSuccess(i18n.T("created %d skeleton files, removed %d stale files"), res.Created, res.Removed)
			return nil
		},
	}
}

// ---------------------------------------------------------------------------
// update (fetch fresh dumps, then split)
// ---------------------------------------------------------------------------

func newUpdateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "update",
		Short: "Fetch fresh dumps, then split",
		Long:  `Download lang.json and sourcemap.json from the configured dump URL, then run split.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(rootDir)
			if err != nil {
				return err
			}

			names := []string{"lang.json", "sourcemap.json"}
			for _, name := range names {
				logInfo(i18n.T("fetch: %s"), name)
			}
			if err := fetch.Files(cmd.Context(), cfg.BaseURL, cfg.Timeout(), cfg.Root, names); err != nil {
				return err
			}

			return runSplit(cfg)
		},
	}
}

// ---------------------------------------------------------------------------
// status (read-only: per-chapter translation progress)
// ---------------------------------------------------------------------------

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show per-chapter translation progress",
		Long:  `Show how much of each chapter has been translated into the target language. Does not modify any files.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(rootDir)
			if err != nil {
				return err
			}
			runStatus(cfg)
			return nil
		},
	}
}

func runStatus(cfg *config.Config) {
	fmt.Fprintf(os.Stderr, "\n%s%s%s (%s → %s)\n", colorBlue, i18n.T("Translation Progress"), colorReset, cfg.BaseLang, cfg.L10nLang)
	fmt.Fprintln(os.Stderr, strings.Repeat("─", 60))

	for _, chapter := range cfg.Chapters {
		baseDir := cfg.ObjDir(chapter, cfg.BaseLang)
		targetDir := cfg.ObjDir(chapter, cfg.L10nLang)

		out, translated, err := assemble.Build(baseDir, targetDir, "0")
		if err != nil || out.Len() <= 1 {
			fmt.Fprintf(os.Stderr, "  chapter %-3s %s\n", chapter, "not split")
			continue
		}

		total := out.Len() - 1
		percent := translated * 100 / total
		fmt.Fprintf(os.Stderr, "  chapter %-3s %s  %d/%d\n", chapter, progressBar(percent, 20), translated, total)
	}
	fmt.Fprintln(os.Stderr)
}

// progressBar renders a fixed-width colored bar for a clamped percentage.
func progressBar(percent, width int) string {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}

	filled := percent * width / 100
	color := colorRed
	switch {
	case percent >= 100:
		color = colorGreen
	case percent >= 40:
		color = colorYellow
	}

	return color + strings.Repeat("█", filled) + strings.Repeat("░", width-filled) + colorReset +
		fmt.Sprintf(" %3d%%", percent)
}
