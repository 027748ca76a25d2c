// Package cli wires the core packages into a cobra command tree. No
// analysis logic lives here; this is the thin collaborator surface around
// the scanner, analyzer, reconciler and translation memory.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"renloc/internal/config"
	"renloc/internal/extract"
	"renloc/internal/fuzzy"
	"renloc/internal/health"
	"renloc/internal/memory"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// Execute runs the CLI application.
func Execute() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	rootCmd := &cobra.Command{
		Use:   "renloc",
		Short: "Extract, validate and reconcile translatable text from visual-novel scripts",
	}

	rootCmd.AddCommand(extractCmd())
	rootCmd.AddCommand(checkCmd())
	rootCmd.AddCommand(reconcileCmd())
	rootCmd.AddCommand(tmCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setupContext creates a cancellable context with signal handling.
func setupContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		log.Warn().Msg("Received shutdown signal, cancelling...")
		cancel()
	}()

	return ctx, cancel
}

func extractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract <game-dir>",
		Short: "Scan scripts and write deduplicated translatable entries as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, _ := cmd.Flags().GetString("out")
			projectPath, _ := cmd.Flags().GetString("project")
			return runExtract(args[0], out, projectPath)
		},
	}
	cmd.Flags().String("out", "entries.json", "Output path for extracted entries")
	cmd.Flags().String("project", "renloc.yml", "Project configuration file")
	return cmd
}

func runExtract(dir, out, projectPath string) error {
	ctx, cancel := setupContext()
	defer cancel()

	cfg := config.Load()
	project, err := config.LoadProject(projectPath)
	if err != nil {
		return err
	}

	entries, err := extract.CollectDir(ctx, dir, project.ScriptExt, project.SkipDirs, cfg.WorkerCount)
	if err != nil {
		return fmt.Errorf("collect entries: %w", err)
	}

	if err := writeJSON(out, entries); err != nil {
		return err
	}
	log.Info().Str("path", out).Int("entries", len(entries)).Msg("Wrote extracted entries")
	return nil
}

func checkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <game-dir>",
		Short: "Run the static health analysis and report localization defects",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, _ := cmd.Flags().GetString("out")
			projectPath, _ := cmd.Flags().GetString("project")
			return runCheck(args[0], out, projectPath)
		},
	}
	cmd.Flags().String("out", "", "Write the full report as JSON to this path")
	cmd.Flags().String("project", "renloc.yml", "Project configuration file")
	return cmd
}

func runCheck(dir, out, projectPath string) error {
	cfg := config.Load()
	project, err := config.LoadProject(projectPath)
	if err != nil {
		return err
	}

	analyzer := health.NewAnalyzer()
	analyzer.Lookback = cfg.Lookback

	report, err := analyzer.CheckDir(dir, health.DirOptions{
		SkipDirs:        project.SkipDirs,
		TranslationsDir: project.TranslationsDir,
		ScriptExt:       project.ScriptExt,
	})
	if err != nil {
		return fmt.Errorf("health scan: %w", err)
	}

	for _, issue := range report.Issues {
		event := log.Warn()
		if issue.Severity >= health.Error {
			event = log.Error()
		}
		event.
			Str("location", issue.Location()).
			Str("kind", string(issue.Kind)).
			Str("suggestion", issue.Suggestion).
			Msg(issue.Message)
	}

	if out != "" {
		if err := writeJSON(out, report); err != nil {
			return err
		}
	}

	if !report.Healthy() {
		errors := report.CountBySeverity(health.Error) + report.CountBySeverity(health.Critical)
		return fmt.Errorf("health scan found %d error(s)", errors)
	}
	return nil
}

func reconcileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reconcile <new-entries.json> <old-corpus.json>",
		Short: "Match newly extracted entries against a translated corpus",
		Long: `Partitions new entries into confident matches, reviewable matches and
unmatched entries using normalized string similarity, then emits a match
report and optionally seeds the translation memory.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, _ := cmd.Flags().GetString("out")
			tmPath, _ := cmd.Flags().GetString("tm")
			lang, _ := cmd.Flags().GetString("lang")
			autoOnly, _ := cmd.Flags().GetBool("auto-only")
			return runReconcile(args[0], args[1], out, tmPath, lang, autoOnly)
		},
	}
	cmd.Flags().String("out", "matches.json", "Output path for the match report")
	cmd.Flags().String("tm", "", "Translation memory file to update with suggestions")
	cmd.Flags().String("lang", "en", "Language code for translation memory writes")
	cmd.Flags().Bool("auto-only", false, "Only apply matches above the auto threshold")
	return cmd
}

func runReconcile(newPath, oldPath, out, tmPath, lang string, autoOnly bool) error {
	cfg := config.Load()

	var newEntries []extract.Entry
	if err := readJSON(newPath, &newEntries); err != nil {
		return err
	}
	var oldEntries map[string]fuzzy.OldEntry
	if err := readJSON(oldPath, &oldEntries); err != nil {
		return err
	}

	matcher := fuzzy.NewMatcher()
	matcher.MinThreshold = cfg.MinSimilarity
	matcher.AutoThreshold = cfg.AutoSimilarity

	report := matcher.Match(extract.ToMap(newEntries), oldEntries)
	if err := writeJSON(out, report); err != nil {
		return err
	}

	log.Info().
		Int("auto_apply", len(matcher.AutoApply(report))).
		Int("needs_review", len(matcher.NeedsReview(report))).
		Str("path", out).
		Msg("Wrote match report")

	if tmPath == "" {
		return nil
	}

	mem, err := openMemory(tmPath)
	if err != nil {
		return err
	}
	for original, translation := range matcher.SuggestTranslations(report, autoOnly) {
		mem.Add(lang, original, translation)
	}
	return mem.SaveFile(tmPath)
}

func tmCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tm",
		Short: "Inspect and maintain the translation memory",
	}
	cmd.AddCommand(tmLookupCmd(), tmImportCmd(), tmExportCmd())
	return cmd
}

func tmLookupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lookup <original-text>",
		Short: "Look up a string, falling back to fuzzy retrieval",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tmPath, _ := cmd.Flags().GetString("file")
			lang, _ := cmd.Flags().GetString("lang")
			return runTMLookup(tmPath, lang, args[0])
		},
	}
	cmd.Flags().String("file", "tm.json", "Translation memory file")
	cmd.Flags().String("lang", "en", "Language code")
	return cmd
}

func runTMLookup(tmPath, lang, original string) error {
	mem, err := loadMemory(tmPath)
	if err != nil {
		return err
	}

	translation, confidence, source := mem.GetOrSuggest(lang, original)
	if source == memory.SourceNone {
		log.Warn().Str("lang", lang).Msg("No translation found")
		return nil
	}
	fmt.Println(translation)
	log.Info().Float64("confidence", confidence).Str("source", source).Msg("Lookup result")
	return nil
}

func tmImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <corpus.json>",
		Short: "Merge a flat language→original→translation mapping into the memory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tmPath, _ := cmd.Flags().GetString("file")
			return runTMImport(tmPath, args[0])
		},
	}
	cmd.Flags().String("file", "tm.json", "Translation memory file")
	return cmd
}

func runTMImport(tmPath, corpusPath string) error {
	mem, err := openMemory(tmPath)
	if err != nil {
		return err
	}

	var flat map[string]map[string]string
	if err := readJSON(corpusPath, &flat); err != nil {
		return err
	}
	mem.Import(flat)

	if err := mem.SaveFile(tmPath); err != nil {
		return err
	}

	// Mirror to PostgreSQL when a database is configured.
	cfg := config.Load()
	if cfg.DatabaseURL != "" {
		if err := mirrorToDatabase(cfg.DatabaseURL, flat); err != nil {
			log.Warn().Err(err).Msg("Failed to mirror translation memory to database")
		}
	}
	return nil
}

func tmExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <out.json>",
		Short: "Write the flat language→original→translation mapping",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tmPath, _ := cmd.Flags().GetString("file")
			return runTMExport(tmPath, args[0])
		},
	}
	cmd.Flags().String("file", "tm.json", "Translation memory file")
	return cmd
}

func runTMExport(tmPath, outPath string) error {
	mem, err := loadMemory(tmPath)
	if err != nil {
		return err
	}
	return writeJSON(outPath, mem.Export())
}

// openMemory loads an existing memory file or starts an empty one.
func openMemory(tmPath string) (*memory.Memory, error) {
	mem := memory.New()
	if _, err := os.Stat(tmPath); err == nil {
		if err := mem.LoadFile(tmPath); err != nil {
			return nil, err
		}
	}
	return mem, nil
}

// loadMemory loads a memory file, preferring the database when one is
// configured.
func loadMemory(tmPath string) (*memory.Memory, error) {
	cfg := config.Load()
	if cfg.DatabaseURL != "" {
		mem, err := loadFromDatabase(cfg.DatabaseURL)
		if err == nil {
			return mem, nil
		}
		log.Warn().Err(err).Msg("Database unavailable, falling back to file")
	}
	return openMemory(tmPath)
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read input file: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
