package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ppiankov/edgarscan/internal/extract"
	"github.com/ppiankov/edgarscan/internal/pipeline"
	"github.com/ppiankov/edgarscan/internal/worker"
)

var (
	extractFlags batchFlags
	extractCount bool
	runFlags     batchFlags
)

// extractCmd represents the extract command
var extractCmd = &cobra.Command{
	Use:   "extract <index>",
	Short: "Extract narrative items from a batch of filings",
	Long: `Extract reads a filing index and, for every filing:
- opens the raw submission (local path or http(s) URL)
- locates the requested items by their headings
- writes each found item to <output-dir>/<form>/<cik>/<stem>_<item>.txt
- records found flags, addresses and literal-mention flags

The index is a CSV file with a header row (see extraction.id_column and
extraction.path_column) or a plain text file with one address per line.

Example:
  edgarscan extract index.csv --form 10-K
  edgarscan extract filings.txt --form 8-K --items item202,item801 --workers 8
  edgarscan extract index.csv --form 10-Q --summary out/summary.csv --db out/results.db`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExtraction(cmd, args[0], &extractFlags, false)
	},
}

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run <index>",
	Short: "Extract items and count lexicon indicators in one pass",
	Long: `Run is extract with counting enabled: every found item is also scored
against the general and named-entity lexicons and the trigger word set.

Example:
  edgarscan run index.csv --form 10-K --general lexicon.txt --entity entities.csv`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExtraction(cmd, args[0], &runFlags, true)
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(runCmd)

	extractFlags.register(extractCmd, true)
	extractCmd.Flags().BoolVar(&extractCount, "count", false, "also count lexicon indicators")
	runFlags.register(runCmd, true)
}

func runExtraction(cmd *cobra.Command, indexPath string, flags *batchFlags, count bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	flags.apply(cmd, cfg)
	if count || extractCount {
		cfg.Output.Count = true
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := extract.ValidateItems(cfg.FormType(), cfg.Extraction.Items); err != nil {
		return err
	}

	ctx, cancel := batchContext(cmd.Context(), flags.timeout)
	defer cancel()

	items := cfg.Extraction.Items
	if len(items) == 0 {
		form, _ := extract.FormFor(cfg.FormType())
		items = form.DefaultItems
	}

	printBanner("edgarscan " + cmd.Name())
	fmt.Fprintf(os.Stderr, "  Index:        %s\n", indexPath)
	fmt.Fprintf(os.Stderr, "  Form:         %s\n", cfg.FormType())
	fmt.Fprintf(os.Stderr, "  Items:        %s\n", strings.Join(items, ", "))
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", cfg.Concurrency.Workers)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", cfg.Output.Dir)
	fmt.Fprintf(os.Stderr, "  Counting:     %v\n", cfg.Output.Count)
	fmt.Fprintf(os.Stderr, "\n")

	header, filings, err := loadFilings(indexPath, cfg)
	if err != nil {
		return fmt.Errorf("load index: %w", err)
	}
	fmt.Fprintf(os.Stderr, "✓ Loaded %d filings\n", len(filings))

	index, err := loadLexicons(cfg)
	if err != nil {
		return err
	}

	p, err := pipeline.NewPipeline(cfg, index)
	if err != nil {
		return fmt.Errorf("create pipeline: %w", err)
	}

	fmt.Fprintf(os.Stderr, "⚙️  Processing filings with %d workers...\n", cfg.Concurrency.Workers)
	results := worker.NewBatchProcessor(p, cfg.Concurrency.Workers, cfg.Logger).ProcessFilings(ctx, filings)

	if err := writeOutputs(ctx, cfg, cmd.Name(), header, results); err != nil {
		return err
	}
	printSummary(cfg, results)
	return nil
}
