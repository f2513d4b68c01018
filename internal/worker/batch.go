package worker

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/ppiankov/edgarscan/internal/model"
)

// errNoResult is recorded when a processor returns nothing for a filing
var errNoResult = errors.New("processor returned no result")

// Processor handles one filing. Failures belong on the returned result's Err.
type Processor interface {
	Process(ctx context.Context, filing model.Filing) *model.FilingResult
}

// ShardJob processes a contiguous run of filings one after another
type ShardJob struct {
	Index     int
	Filings   []model.Filing
	Processor Processor
	Logger    *slog.Logger
}

// Execute processes every filing of the shard. A failing or panicking filing
// is recorded and the shard moves on to the next one.
func (j *ShardJob) Execute(ctx context.Context) Result {
	out := &ShardResult{
		Index:   j.Index,
		Results: make([]*model.FilingResult, 0, len(j.Filings)),
	}

	for _, filing := range j.Filings {
		var result *model.FilingResult
		if err := ctx.Err(); err != nil {
			result = &model.FilingResult{Filing: filing, Err: err}
		} else {
			result = j.process(ctx, filing)
		}
		if result.Err != nil {
			out.Failed++
		}
		out.Results = append(out.Results, result)
	}

	return out
}

func (j *ShardJob) process(ctx context.Context, filing model.Filing) (result *model.FilingResult) {
	logger := j.Logger
	if logger == nil {
		logger = slog.Default()
	}

	defer func() {
		if r := recover(); r != nil {
			logger.Error("filing processing panicked", "filing", filing.ID, "shard", j.Index, "panic", r)
			result = &model.FilingResult{Filing: filing, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	result = j.Processor.Process(ctx, filing)
	if result == nil {
		result = &model.FilingResult{Filing: filing, Err: errNoResult}
	}
	if result.Err != nil {
		logger.Warn("filing failed", "filing", filing.ID, "shard", j.Index, "error", result.Err)
	}
	return result
}

// ShardResult holds the per-filing results of one shard
type ShardResult struct {
	Index   int
	Results []*model.FilingResult
	Failed  int
}

// GetError always returns nil; failures are recorded per filing
func (r *ShardResult) GetError() error {
	return nil
}

// Split partitions filings into at most n contiguous, non-overlapping shards
// whose sizes differ by at most one.
func Split(filings []model.Filing, n int) [][]model.Filing {
	if len(filings) == 0 {
		return nil
	}
	if n <= 0 {
		n = 1
	}
	if n > len(filings) {
		n = len(filings)
	}

	shards := make([][]model.Filing, 0, n)
	size, extra := len(filings)/n, len(filings)%n
	start := 0
	for i := 0; i < n; i++ {
		end := start + size
		if i < extra {
			end++
		}
		shards = append(shards, filings[start:end])
		start = end
	}
	return shards
}

// BatchProcessor fans filings out over shards processed in parallel
type BatchProcessor struct {
	processor Processor
	workers   int
	logger    *slog.Logger
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(processor Processor, workers int, logger *slog.Logger) *BatchProcessor {
	if logger == nil {
		logger = slog.Default()
	}
	return &BatchProcessor{
		processor: processor,
		workers:   workers,
		logger:    logger,
	}
}

// ProcessFilings processes all filings and returns one result per filing,
// sorted by document id regardless of shard scheduling.
func (b *BatchProcessor) ProcessFilings(ctx context.Context, filings []model.Filing) []*model.FilingResult {
	if len(filings) == 0 {
		return []*model.FilingResult{}
	}

	shards := Split(filings, b.workers)
	b.logger.Debug("batch started", "filings", len(filings), "shards", len(shards))

	pool := NewPoolContext(ctx, len(shards))
	pool.Start()

	results := make([]*model.FilingResult, 0, len(filings))
	for i, shard := range shards {
		job := &ShardJob{
			Index:     i,
			Filings:   shard,
			Processor: b.processor,
			Logger:    b.logger,
		}
		if !pool.Submit(job) {
			for _, filing := range shard {
				results = append(results, &model.FilingResult{Filing: filing, Err: ctx.Err()})
			}
		}
	}

	for _, r := range pool.Wait() {
		results = append(results, r.(*ShardResult).Results...)
	}

	SortResults(results)
	return results
}

// SortResults orders results by document id. Ids that are both integers
// (CIKs) compare numerically; the sort is stable for equal ids.
func SortResults(results []*model.FilingResult) {
	sort.SliceStable(results, func(i, j int) bool {
		return lessID(results[i].Filing.ID, results[j].Filing.ID)
	})
}

func lessID(a, b string) bool {
	ai, errA := strconv.ParseInt(a, 10, 64)
	bi, errB := strconv.ParseInt(b, 10, 64)
	if errA == nil && errB == nil {
		return ai < bi
	}
	return a < b
}

// ReadFilingList reads filing addresses from a file (one per line) and
// assigns each the given form type. The id is the address's file stem.
func ReadFilingList(filePath string, form model.FormType) ([]model.Filing, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var filings []model.Filing
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Deduplicate addresses
		if !seen[line] {
			seen[line] = true
			filing := model.Filing{Address: line, Form: form}
			filing.ID = filing.Stem()
			filings = append(filings, filing)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return filings, nil
}
