package lexicon

import (
	"fmt"

	"github.com/ppiankov/edgarscan/internal/model"
)

// Trigger modes
const (
	TriggerExact = "exact"
	TriggerLemma = "lemma"
)

var exactTriggers = []string{"russia", "ukraine", "war", "russian", "ukrainian"}

var lemmaTriggers = []string{
	"russia", "russia's", "russian", "russians", "russian's", "russians'",
	"ukraine", "ukraine's", "ukrainian", "ukrainians", "ukrainian's", "ukrainians'",
	"war", "wars",
}

// TriggerSet is a small list of literal words whose co-occurrence flags a document
type TriggerSet struct {
	words []string
}

// NewTriggerSet creates a trigger set from literal, already lower-case words
func NewTriggerSet(words []string) TriggerSet {
	seen := make(map[string]bool, len(words))
	ts := TriggerSet{}
	for _, w := range words {
		if w != "" && !seen[w] {
			seen[w] = true
			ts.words = append(ts.words, w)
		}
	}
	return ts
}

// TriggerSetFor returns the built-in trigger set for a mode
func TriggerSetFor(mode string) (TriggerSet, error) {
	switch mode {
	case TriggerExact:
		return NewTriggerSet(exactTriggers), nil
	case TriggerLemma:
		return NewTriggerSet(lemmaTriggers), nil
	}
	return TriggerSet{}, fmt.Errorf("%w: unknown trigger mode %q", model.ErrInvalidConfig, mode)
}

// Words returns the trigger words
func (ts TriggerSet) Words() []string {
	return append([]string(nil), ts.words...)
}

// Fires reports whether at least two distinct trigger words appear anywhere in tokens
func (ts TriggerSet) Fires(tokens []string) bool {
	if len(ts.words) < 2 {
		return false
	}
	present := make(map[string]bool, len(tokens))
	for _, t := range tokens {
		present[t] = true
	}

	hits := 0
	for _, w := range ts.words {
		if present[w] {
			hits++
			if hits >= 2 {
				return true
			}
		}
	}
	return false
}
