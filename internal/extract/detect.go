package extract

import (
	"regexp"
	"sort"
	"strings"

	"github.com/ppiankov/edgarscan/internal/model"
	"github.com/ppiankov/edgarscan/internal/textnorm"
)

const (
	docOpen  = "<DOCUMENT>"
	docClose = "</DOCUMENT>"
	typeTag  = "<TYPE>"
)

// SubDocument is one <DOCUMENT> block of an EDGAR full-text submission
type SubDocument struct {
	Type string
	Body string // Text between the DOCUMENT tags
}

// SubDocuments splits a submission into its <DOCUMENT> blocks, in order.
// A block without a closing tag runs to the end of the input.
func SubDocuments(raw string) []SubDocument {
	var docs []SubDocument
	rest := raw
	for {
		open := strings.Index(rest, docOpen)
		if open < 0 {
			return docs
		}
		rest = rest[open+len(docOpen):]

		body := rest
		if end := strings.Index(rest, docClose); end >= 0 {
			body = rest[:end]
			rest = rest[end+len(docClose):]
		} else {
			rest = ""
		}
		docs = append(docs, SubDocument{Type: declaredType(body), Body: body})
	}
}

// declaredType returns the text after <TYPE> up to the end of its line
func declaredType(body string) string {
	idx := strings.Index(body, typeTag)
	if idx < 0 {
		return ""
	}
	line := body[idx+len(typeTag):]
	if nl := strings.IndexByte(line, '\n'); nl >= 0 {
		line = line[:nl]
	}
	return strings.TrimSpace(line)
}

// FindSubDocument returns the first block declaring the given type
func FindSubDocument(raw, docType string) (SubDocument, bool) {
	for _, d := range SubDocuments(raw) {
		if strings.EqualFold(d.Type, docType) {
			return d, true
		}
	}
	return SubDocument{}, false
}

// Status tells whether a detection strategy could be applied to a filing
type Status int

const (
	Unavailable Status = iota // Fall back to the next strategy
	OK
)

// Outcome is the result of one detection strategy. Anchors index into Text.
type Outcome struct {
	Status   Status
	Strategy model.Strategy
	Text     string
	Anchors  []model.Anchor
}

// DetectMarkup anchors headings on the raw markup of the form's sub-document.
// It is unavailable when the sub-document is missing or has no heading matches.
func DetectMarkup(raw string, form *Form) Outcome {
	doc, ok := FindSubDocument(raw, string(form.Type))
	if !ok {
		return Outcome{Status: Unavailable, Strategy: model.StrategyMarkup}
	}

	var anchors []model.Anchor
	for _, loc := range form.Markup.FindAllStringIndex(doc.Body, -1) {
		anchors = append(anchors, model.Anchor{
			Label: markupLabel(doc.Body[loc[0]:loc[1]]),
			Start: loc[0],
			End:   loc[1],
		})
	}
	if len(anchors) == 0 {
		return Outcome{Status: Unavailable, Strategy: model.StrategyMarkup}
	}

	sortAnchors(anchors)
	return Outcome{Status: OK, Strategy: model.StrategyMarkup, Text: doc.Body, Anchors: anchors}
}

// DetectContent renders the form's sub-document to plain text and anchors
// headings on it. It is unavailable only when the sub-document is missing.
func DetectContent(raw string, form *Form) Outcome {
	doc, ok := FindSubDocument(raw, string(form.Type))
	if !ok {
		return Outcome{Status: Unavailable, Strategy: model.StrategyContent}
	}

	text := textnorm.Clean(doc.Body)

	var anchors []model.Anchor
	for _, h := range form.Headings {
		for _, loc := range h.Pattern.FindAllStringIndex(text, -1) {
			anchors = append(anchors, model.Anchor{Label: h.Label, Start: loc[0], End: loc[1]})
		}
	}

	sortAnchors(anchors)
	return Outcome{Status: OK, Strategy: model.StrategyContent, Text: text, Anchors: anchors}
}

var (
	markupTag    = regexp.MustCompile(`<[^>]*>`)
	markupEntity = regexp.MustCompile(`&#?[0-9A-Za-z]+;`)
)

// markupLabel reduces a heading match such as `>Item&#160;1A.` to "item1a"
func markupLabel(match string) string {
	s := markupTag.ReplaceAllString(match, "")
	s = markupEntity.ReplaceAllString(s, "")
	s = strings.ToLower(s)

	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') {
			b.WriteByte(c)
		}
	}
	return b.String()
}

func sortAnchors(anchors []model.Anchor) {
	sort.SliceStable(anchors, func(i, j int) bool {
		return anchors[i].Start < anchors[j].Start
	})
}
