package extract

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/ppiankov/edgarscan/internal/model"
	"github.com/ppiankov/edgarscan/internal/textnorm"
)

// ExtractItem slices the item described by rule out of text using an anchor
// table. Markup spans are rendered to plain text first; all spans are
// normalized. A missing start or end yields a not-found item, never an error.
func ExtractItem(anchors []model.Anchor, rule Rule, text string, strategy model.Strategy) model.ExtractedItem {
	start, end, ok := Bounds(anchors, rule, len(text))
	if !ok {
		return model.NotFound(rule.Item)
	}

	span := text[start:end]
	if strategy == model.StrategyMarkup {
		span = textnorm.Clean(span)
	} else {
		span = textnorm.Normalize(span)
	}
	if strings.TrimSpace(span) == "" {
		return model.NotFound(rule.Item)
	}

	return model.ExtractedItem{Name: rule.Item, Text: span, Found: true, Strategy: strategy}
}

// Bounds resolves the [start, end) offsets of rule's item in a text of length textLen
func Bounds(anchors []model.Anchor, rule Rule, textLen int) (int, int, bool) {
	sorted := make([]model.Anchor, len(anchors))
	copy(sorted, anchors)
	sortAnchors(sorted)

	var starts []int
	for _, a := range sorted {
		if a.Label == rule.Item {
			starts = append(starts, a.Start)
		}
	}
	if len(starts) == 0 {
		return 0, 0, false
	}
	start := starts[min(len(starts)-1, rule.MaxStartIndex)]

	for _, label := range rule.EndPriority {
		for _, a := range sorted {
			if a.Start > start && a.Label == label {
				return start, min(a.Start, textLen), true
			}
		}
	}

	if rule.NoEnd == EndOfDocument {
		return start, textLen, true
	}
	return 0, 0, false
}

// Extractor finds items in raw EDGAR submissions.
// It holds no per-filing state and is safe for concurrent use.
type Extractor struct {
	logger *slog.Logger
}

// NewExtractor creates a new extractor
func NewExtractor(logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{logger: logger}
}

// Detect finds the anchor table for a filing, trying the markup strategy
// first and the content strategy when markup is unavailable.
func (e *Extractor) Detect(raw string, form *Form) Outcome {
	out := DetectMarkup(raw, form)
	if out.Status == OK {
		return out
	}
	e.logger.Debug("markup anchors unavailable, falling back to content", "form", form.Type)
	return DetectContent(raw, form)
}

// Extract returns one ExtractedItem per requested item, in request order.
// Unknown items are the only error; sections missing from the filing are
// reported with Found=false.
func (e *Extractor) Extract(raw string, ft model.FormType, items []string) ([]model.ExtractedItem, error) {
	form, err := FormFor(ft)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		items = form.DefaultItems
	}

	rules := make([]Rule, len(items))
	for i, item := range items {
		if rules[i], err = RuleFor(ft, item); err != nil {
			return nil, err
		}
	}

	out := e.Detect(raw, form)
	results := make([]model.ExtractedItem, len(rules))
	for i, rule := range rules {
		if out.Status != OK {
			results[i] = model.NotFound(rule.Item)
			continue
		}
		results[i] = ExtractItem(out.Anchors, rule, out.Text, out.Strategy)
	}

	e.logger.Debug("items extracted",
		"form", ft,
		"strategy", out.Strategy.String(),
		"anchors", len(out.Anchors),
		"found", countFound(results))
	return results, nil
}

func countFound(items []model.ExtractedItem) int {
	n := 0
	for _, it := range items {
		if it.Found {
			n++
		}
	}
	return n
}

// ExtractExhibit991 returns the rendered text of the EX-99.1 sub-document
func ExtractExhibit991(raw string) model.ExtractedItem {
	doc, ok := FindSubDocument(raw, "EX-99.1")
	if !ok {
		return model.NotFound(Exhibit991)
	}
	text := textnorm.Clean(doc.Body)
	if strings.TrimSpace(text) == "" {
		return model.NotFound(Exhibit991)
	}
	return model.ExtractedItem{Name: Exhibit991, Text: text, Found: true, Strategy: model.StrategyMarkup}
}

var (
	noneMention   = regexp.MustCompile(`[Nn]one|NONE`)
	notApplicable = regexp.MustCompile(`([Nn]ot|NOT)\s*([Aa]pplicable|APPLICABLE)`)
)

// Flags runs the literal-mention checks on item text
func Flags(text string) model.ItemFlags {
	return model.ItemFlags{
		MentionsExhibit991:  strings.Contains(text, "Exhibit 99.1"),
		Mentions10K:         strings.Contains(text, "10-K"),
		NoneOrNotApplicable: noneMention.MatchString(text) || notApplicable.MatchString(text),
	}
}

// ValidateItems checks that every item has a rule for the form type
func ValidateItems(ft model.FormType, items []string) error {
	if _, err := FormFor(ft); err != nil {
		return err
	}
	for _, item := range items {
		if _, err := RuleFor(ft, item); err != nil {
			return fmt.Errorf("validate items: %w", err)
		}
	}
	return nil
}
