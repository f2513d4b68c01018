package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ppiankov/edgarscan/internal/pipeline"
	"github.com/ppiankov/edgarscan/internal/store"
	"github.com/ppiankov/edgarscan/internal/worker"
)

var countFlags batchFlags

// countCmd represents the count command
var countCmd = &cobra.Command{
	Use:   "count <summary.csv>",
	Short: "Count lexicon indicators for previously extracted items",
	Long: `Count reads a summary CSV written by extract, whose <item>_adrs columns hold
item addresses relative to --output-dir, and adds the indicator columns for
every item: trigger, general and entity word and sentence counts, and the
total word and sentence counts.

Example:
  edgarscan count edgarscan-summary.csv --general lexicon.txt --entity entities.csv
  edgarscan count summary.csv --output-dir ./items --summary counted.csv`,
	Args: cobra.ExactArgs(1),
	RunE: runCount,
}

func init() {
	rootCmd.AddCommand(countCmd)
	countFlags.register(countCmd, false)
}

func runCount(cmd *cobra.Command, args []string) error {
	indexPath := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	countFlags.apply(cmd, cfg)
	cfg.Output.Count = true
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, cancel := batchContext(cmd.Context(), countFlags.timeout)
	defer cancel()

	printBanner("edgarscan count")
	fmt.Fprintf(os.Stderr, "  Index:        %s\n", indexPath)
	fmt.Fprintf(os.Stderr, "  Items dir:    %s\n", cfg.Output.Dir)
	fmt.Fprintf(os.Stderr, "  Trigger set:  %s\n", cfg.Lexicon.TriggerMode)
	fmt.Fprintf(os.Stderr, "\n")

	index, err := store.ReadIndex(indexPath, store.IndexOptions{
		IDColumn:   cfg.Extraction.IDColumn,
		PathColumn: cfg.Extraction.PathColumn,
		Form:       cfg.FormType(),
	})
	if err != nil {
		return fmt.Errorf("load index: %w", err)
	}
	fmt.Fprintf(os.Stderr, "✓ Loaded %d filings\n", len(index.Filings))

	lexicons, err := loadLexicons(cfg)
	if err != nil {
		return err
	}

	processor := pipeline.NewCountProcessor(cfg.Output.Dir, lexicons, cfg.Logger)
	results := worker.NewBatchProcessor(processor, cfg.Concurrency.Workers, cfg.Logger).ProcessFilings(ctx, index.Filings)

	if err := writeOutputs(ctx, cfg, "count", index.Header, results); err != nil {
		return err
	}
	printSummary(cfg, results)
	return nil
}
