package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ppiankov/edgarscan/internal/model"
	"github.com/ppiankov/edgarscan/internal/pipeline"
)

var (
	scanFlags batchFlags
	outJSON   string
	showText  bool
	scanCount bool
)

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan <address>",
	Short: "Extract items from a single filing and print them",
	Long: `Scan processes one filing, given as a local path or an http(s) URL, and
prints each requested item with the strategy that located it. Nothing is
written under the output directory unless --output-dir is given.

Example:
  edgarscan scan 320193_10K_2022_0000320193-22-000108.txt
  edgarscan scan https://www.sec.gov/Archives/edgar/data/320193/0000320193-22-000108.txt --text
  edgarscan scan filing.txt --form 8-K --count --general lexicon.txt --json result.json`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)

	scanFlags.register(scanCmd, true)
	scanCmd.Flags().StringVar(&outJSON, "json", "", "write the result as JSON to this path")
	scanCmd.Flags().BoolVar(&showText, "text", false, "print the text of found items")
	scanCmd.Flags().BoolVar(&scanCount, "count", false, "also count lexicon indicators")
}

func runScan(cmd *cobra.Command, args []string) error {
	address := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cfg.Output.Dir = ""
	scanFlags.apply(cmd, cfg)
	cfg.Output.Count = scanCount
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, cancel := batchContext(cmd.Context(), scanFlags.timeout)
	defer cancel()

	index, err := loadLexicons(cfg)
	if err != nil {
		return err
	}
	p, err := pipeline.NewPipeline(cfg, index)
	if err != nil {
		return fmt.Errorf("create pipeline: %w", err)
	}

	filing := model.Filing{Address: address, Form: cfg.FormType()}
	filing.ID = filing.Stem()

	if verbose {
		fmt.Fprintf(os.Stderr, "Scanning: %s (%s)\n", address, filing.Form)
	}

	result := p.Process(ctx, filing)
	if result.Err != nil {
		return fmt.Errorf("scan failed: %w", result.Err)
	}

	for _, it := range result.Items {
		if !it.Found {
			fmt.Printf("✗ %-8s not found\n", it.Name)
			continue
		}
		fmt.Printf("✓ %-8s %6d bytes  (%s)\n", it.Name, len(it.Text), it.Strategy)
		if it.Indicators != nil {
			for _, f := range it.Indicators.Fields() {
				fmt.Printf("    %-24s %s\n", f.Name, f.Value)
			}
		}
		if showText {
			fmt.Printf("\n%s\n\n", it.Text)
		}
	}
	if result.Filing.Form == model.Form8K && result.AnyExhibit991 {
		fmt.Println("  Exhibit 99.1 is referenced by an item")
	}

	if outJSON != "" {
		if err := writeJSON(outJSON, result); err != nil {
			return err
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote JSON: %s\n", outJSON)
		}
	}
	return nil
}

// writeJSON writes v as indented JSON
func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
