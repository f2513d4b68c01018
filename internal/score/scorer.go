package score

import (
	"github.com/ppiankov/edgarscan/internal/lexicon"
	"github.com/ppiankov/edgarscan/internal/model"
	"github.com/ppiankov/edgarscan/internal/sentence"
)

// Counter calculates lexicon frequency indicators for a text.
// It holds only the read-only lexicon index and is safe for concurrent use.
type Counter struct {
	index *lexicon.Index
}

// NewCounter creates a new counter
func NewCounter(index *lexicon.Index) *Counter {
	if index == nil {
		index = lexicon.NewIndex(nil, nil, lexicon.TriggerSet{})
	}
	return &Counter{index: index}
}

// Count calculates the indicators for text
func (c *Counter) Count(text string) model.Indicators {
	// Word level: one flat token stream, punctuation removed, lower-cased
	tokens := lexicon.Tokenize(text)

	// Sentence level: boundaries come from the original text
	sentences := sentence.Segment(text)

	return model.Indicators{
		Trigger:              c.index.Trigger.Fires(tokens),
		GeneralWordCount:     lexicon.CountWords(c.index.General, tokens),
		GeneralSentenceCount: lexicon.CountSentences(c.index.General, sentences),
		EntityWordCount:      lexicon.CountWords(c.index.Entity, tokens),
		EntitySentenceCount:  lexicon.CountSentences(c.index.Entity, sentences),
		TotalWordCount:       len(tokens),
		TotalSentenceCount:   len(sentences),
	}
}
