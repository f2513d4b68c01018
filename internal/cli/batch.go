package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/edgarscan/internal/lexicon"
	"github.com/ppiankov/edgarscan/internal/model"
	"github.com/ppiankov/edgarscan/internal/store"
	"github.com/ppiankov/edgarscan/internal/worker"
)

// batchFlags are the flags shared by the batch commands. They override the
// configuration only when set on the command line.
type batchFlags struct {
	form          string
	items         []string
	inputDir      string
	outputDir     string
	summaryPath   string
	dbPath        string
	workers       int
	generalPath   string
	entityPath    string
	triggerMode   string
	noCache       bool
	respectRobots bool
	userAgent     string
	timeout       time.Duration
}

func (f *batchFlags) register(cmd *cobra.Command, extraction bool) {
	flags := cmd.Flags()
	flags.StringVarP(&f.form, "form", "f", "", "form type: 10-K, 10-Q or 8-K")
	flags.StringVar(&f.outputDir, "output-dir", "", "root directory of extracted item text files")
	flags.StringVar(&f.summaryPath, "summary", "", "output CSV path")
	flags.StringVar(&f.dbPath, "db", "", "also record results in this SQLite database")
	flags.IntVar(&f.workers, "workers", 0, "number of shards processed in parallel")
	flags.StringVar(&f.generalPath, "general", "", "general lexicon file (.txt, .yaml or .csv)")
	flags.StringVar(&f.entityPath, "entity", "", "named-entity lexicon file (.txt, .yaml or .csv)")
	flags.StringVar(&f.triggerMode, "trigger-mode", "", "trigger word set: exact or lemma")
	flags.DurationVar(&f.timeout, "timeout", 0, "total timeout for the batch (0 = none)")

	if !extraction {
		return
	}
	flags.StringSliceVar(&f.items, "items", nil, "items to extract (default: the form's default items)")
	flags.StringVar(&f.inputDir, "input-dir", "", "base directory for relative filing paths")
	flags.BoolVar(&f.noCache, "no-cache", false, "disable cache of downloaded filings")
	flags.BoolVar(&f.respectRobots, "respect-robots", false, "check robots.txt before downloading filings")
	flags.StringVar(&f.userAgent, "ua", "", "HTTP User-Agent for downloaded filings (EDGAR requires a contact address)")
}

func (f *batchFlags) apply(cmd *cobra.Command, cfg *model.Config) {
	changed := cmd.Flags().Changed

	if changed("form") {
		cfg.Extraction.Form = f.form
	}
	if changed("items") {
		cfg.Extraction.Items = f.items
	}
	if changed("input-dir") {
		cfg.Extraction.InputDir = f.inputDir
	}
	if changed("output-dir") {
		cfg.Output.Dir = f.outputDir
	}
	if changed("summary") {
		cfg.Output.IndexPath = f.summaryPath
	}
	if changed("db") {
		cfg.Output.DBPath = f.dbPath
	}
	if changed("workers") {
		cfg.Concurrency.Workers = f.workers
	}
	if changed("general") {
		cfg.Lexicon.GeneralPath = f.generalPath
	}
	if changed("entity") {
		cfg.Lexicon.EntityPath = f.entityPath
	}
	if changed("trigger-mode") {
		cfg.Lexicon.TriggerMode = f.triggerMode
	}
	if changed("no-cache") {
		cfg.Cache.Enabled = !f.noCache
	}
	if changed("respect-robots") {
		cfg.HTTP.RespectRobots = f.respectRobots
	}
	if changed("ua") {
		cfg.HTTP.UserAgent = f.userAgent
	}
}

// batchContext returns a context cancelled on interrupt and, when set, after timeout
func batchContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt)
	if timeout <= 0 {
		return ctx, stop
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	return ctx, func() {
		cancel()
		stop()
	}
}

// loadFilings reads a CSV index (header row) or a plain list of filing
// addresses, one per line
func loadFilings(path string, cfg *model.Config) ([]string, []model.Filing, error) {
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		index, err := store.ReadIndex(path, store.IndexOptions{
			IDColumn:   cfg.Extraction.IDColumn,
			PathColumn: cfg.Extraction.PathColumn,
			Form:       cfg.FormType(),
		})
		if err != nil {
			return nil, nil, err
		}
		return index.Header, index.Filings, nil
	}

	filings, err := worker.ReadFilingList(path, cfg.FormType())
	if err != nil {
		return nil, nil, err
	}
	store.ListRows(filings)
	return store.ListHeader, filings, nil
}

// loadLexicons loads the lexicon index when counting is enabled
func loadLexicons(cfg *model.Config) (*lexicon.Index, error) {
	if !cfg.Output.Count {
		return nil, nil
	}
	index, err := lexicon.LoadIndex(cfg.Lexicon)
	if err != nil {
		return nil, fmt.Errorf("load lexicons: %w", err)
	}
	cfg.Logger.Debug("lexicons loaded",
		"general", index.General.Len(),
		"entity", index.Entity.Len(),
		"trigger_words", len(index.Trigger.Words()))
	return index, nil
}

// writeOutputs writes the summary CSV and, when configured, the SQLite record
func writeOutputs(ctx context.Context, cfg *model.Config, command string, header []string, results []*model.FilingResult) error {
	if err := store.WriteResults(cfg.Output.IndexPath, header, results, cfg.Output.Count); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}

	if cfg.Output.DBPath == "" {
		return nil
	}
	db, err := store.OpenSQLite(ctx, cfg.Output.DBPath)
	if err != nil {
		return fmt.Errorf("open results database: %w", err)
	}
	defer func() { _ = db.Close() }()

	runID, err := db.SaveRun(ctx, command, cfg.FormType(), results)
	if err != nil {
		return fmt.Errorf("save run: %w", err)
	}
	cfg.Logger.Info("run recorded", "run", runID, "db", cfg.Output.DBPath)
	return nil
}

// printBanner prints a section banner to stderr
func printBanner(title string) {
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  %s\n", title)
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
}

// printSummary prints per-item found counts and the failures of a batch
func printSummary(cfg *model.Config, results []*model.FilingResult) {
	failures := 0
	found := make(map[string]int)
	var items []string

	for _, r := range results {
		if r.Err != nil {
			failures++
			if cfg.Output.Verbose || verbose {
				fmt.Fprintf(os.Stderr, "✗ %s: %v\n", r.Filing.ID, r.Err)
			}
			continue
		}
		for _, it := range r.Items {
			if _, ok := found[it.Name]; !ok {
				items = append(items, it.Name)
				found[it.Name] = 0
			}
			if it.Found {
				found[it.Name]++
			}
		}
	}

	printBanner("Batch Complete")
	fmt.Fprintf(os.Stderr, "  Total:     %d filings\n", len(results))
	fmt.Fprintf(os.Stderr, "  Success:   %d\n", len(results)-failures)
	fmt.Fprintf(os.Stderr, "  Failures:  %d\n", failures)
	for _, item := range items {
		fmt.Fprintf(os.Stderr, "  %-9s  %d found\n", item+":", found[item])
	}
	fmt.Fprintf(os.Stderr, "  Summary:   %s\n", cfg.Output.IndexPath)
	if cfg.Output.DBPath != "" {
		fmt.Fprintf(os.Stderr, "  Database:  %s\n", cfg.Output.DBPath)
	}
	fmt.Fprintf(os.Stderr, "\n")
}
