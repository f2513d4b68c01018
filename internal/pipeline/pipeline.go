package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/ppiankov/edgarscan/internal/cache"
	"github.com/ppiankov/edgarscan/internal/extract"
	"github.com/ppiankov/edgarscan/internal/lexicon"
	"github.com/ppiankov/edgarscan/internal/model"
	"github.com/ppiankov/edgarscan/internal/score"
	"github.com/ppiankov/edgarscan/internal/util"
	"github.com/ppiankov/edgarscan/internal/worker"
)

// Pipeline orchestrates the processing of one filing:
// open -> extract items -> flag -> persist -> count
type Pipeline struct {
	source    Source
	extractor *extract.Extractor
	counter   *score.Counter // nil when counting is disabled
	writer    *ItemWriter    // nil when item text is not persisted
	form      model.FormType
	items     []string
	exhibit   bool
	logger    *slog.Logger
}

// NewPipeline creates a new pipeline with the given configuration.
// index is only used when cfg.Output.Count is set and may be nil otherwise.
func NewPipeline(cfg *model.Config, index *lexicon.Index) (*Pipeline, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	form := cfg.FormType()
	if err := extract.ValidateItems(form, cfg.Extraction.Items); err != nil {
		return nil, err
	}

	p := &Pipeline{
		source:    NewSource(cfg),
		extractor: extract.NewExtractor(logger),
		form:      form,
		items:     cfg.Extraction.Items,
		exhibit:   cfg.Extraction.Exhibit991,
		logger:    logger,
	}
	if cfg.Output.Dir != "" {
		p.writer = NewItemWriter(cfg.Output.Dir)
	}
	if cfg.Output.Count {
		p.counter = score.NewCounter(index)
	}
	return p, nil
}

// NewSource builds the filing source described by cfg: local files, plus
// an HTTP fetcher with rate limiting, optional robots.txt checks and caching.
func NewSource(cfg *model.Config) Source {
	local := NewFileSource(cfg.Extraction.InputDir, cfg.Extraction.MaxFilingBytes)

	opts := FetcherOptions{
		Limiter: worker.LimiterFromConfig(cfg.RateLimiting),
		Cache:   cache.FromConfig(cfg.Cache),
		Logger:  cfg.Logger,
	}
	if cfg.HTTP.RespectRobots {
		opts.Robots = util.NewRobotsChecker(util.NewHTTPClient(cfg.HTTP), cfg.HTTP.UserAgent)
	}

	return NewRouter(local, NewFetcher(cfg.HTTP, cfg.Extraction.MaxFilingBytes, opts))
}

// Process runs the pipeline for one filing. Failures are recorded on the
// result; missing items are reported with Found=false.
func (p *Pipeline) Process(ctx context.Context, filing model.Filing) *model.FilingResult {
	if filing.Form == "" {
		filing.Form = p.form
	}
	logger := p.logger.With("filing", filing.ID)
	result := &model.FilingResult{Filing: filing}

	raw, err := p.source.Open(ctx, filing.Address)
	if err != nil {
		result.Err = fmt.Errorf("open filing: %w", err)
		return result
	}

	extracted, err := p.extractor.Extract(raw, filing.Form, p.items)
	if err != nil {
		result.Err = fmt.Errorf("extract items: %w", err)
		return result
	}
	if p.exhibit && filing.Form == model.Form8K {
		extracted = append(extracted, extract.ExtractExhibit991(raw))
	}

	for _, item := range extracted {
		ir, err := p.itemResult(filing, item)
		if err != nil {
			result.Err = err
			return result
		}
		if item.Name != extract.Exhibit991 && ir.Flags.MentionsExhibit991 {
			result.AnyExhibit991 = true
		}
		result.Items = append(result.Items, ir)
	}

	logger.Debug("filing processed", "items", len(result.Items))
	return result
}

func (p *Pipeline) itemResult(filing model.Filing, item model.ExtractedItem) (model.ItemResult, error) {
	ir := model.ItemResult{
		Name:     item.Name,
		Found:    item.Found,
		Strategy: item.Strategy,
		Text:     item.Text,
	}
	if !item.Found {
		return ir, nil
	}

	ir.Flags = extract.Flags(item.Text)
	if p.writer != nil {
		address, err := p.writer.Write(filing, item.Name, item.Text)
		if err != nil {
			return ir, fmt.Errorf("persist %s: %w", item.Name, err)
		}
		ir.Address = address
	}
	if p.counter != nil {
		indicators := p.counter.Count(item.Text)
		ir.Indicators = &indicators
	}
	return ir, nil
}

// CountProcessor counts indicators for items persisted by an earlier run.
// Filings carry item addresses in Filing.Items.
type CountProcessor struct {
	reader  *ItemWriter
	counter *score.Counter
	logger  *slog.Logger
}

// NewCountProcessor creates a processor reading items from dir
func NewCountProcessor(dir string, index *lexicon.Index, logger *slog.Logger) *CountProcessor {
	if logger == nil {
		logger = slog.Default()
	}
	return &CountProcessor{
		reader:  NewItemWriter(dir),
		counter: score.NewCounter(index),
		logger:  logger,
	}
}

// Process counts every addressed item of the filing. Items whose address is
// empty or unreadable are reported as not found.
func (c *CountProcessor) Process(ctx context.Context, filing model.Filing) *model.FilingResult {
	result := &model.FilingResult{Filing: filing, Recounted: true}

	names := make([]string, 0, len(filing.Items))
	for name := range filing.Items {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := ctx.Err(); err != nil {
			result.Err = err
			return result
		}

		ir := model.ItemResult{Name: name, Address: filing.Items[name]}
		if ir.Address == "" {
			result.Items = append(result.Items, ir)
			continue
		}

		text, err := c.reader.Read(ir.Address)
		if err != nil {
			c.logger.Warn("item unreadable", "filing", filing.ID, "item", name, "error", err)
			result.Items = append(result.Items, ir)
			continue
		}

		indicators := c.counter.Count(text)
		ir.Found = true
		ir.Flags = extract.Flags(text)
		ir.Indicators = &indicators
		result.Items = append(result.Items, ir)
	}
	return result
}
