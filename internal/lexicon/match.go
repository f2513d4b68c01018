package lexicon

import (
	"sort"
	"strings"
)

// punctuation removed before matching
var punctuation = strings.NewReplacer(",", "", ".", "", "!", "", "?", "")

// Tokenize lower-cases text, drops , . ! ? and splits on whitespace
func Tokenize(text string) []string {
	return strings.Fields(strings.ToLower(punctuation.Replace(text)))
}

// FirstTokenPositions maps each distinct first-token key of phrases to the
// ascending positions in tokens where that first token matches. Keys with no
// match map to an empty list.
func FirstTokenPositions(phrases []Phrase, tokens []string) map[string][]int {
	byWord := make(map[string][]int)
	for i, w := range tokens {
		byWord[w] = append(byWord[w], i)
	}

	index := make(map[string][]int)
	for _, p := range phrases {
		if len(p.Tokens) == 0 {
			continue
		}
		first := p.Tokens[0]
		key := first.Key()
		if _, done := index[key]; done {
			continue
		}

		if !first.Prefix {
			index[key] = byWord[first.Text]
			continue
		}

		var positions []int
		for w, ps := range byWord {
			if first.Matches(w) {
				positions = append(positions, ps...)
			}
		}
		sort.Ints(positions)
		index[key] = positions
	}
	return index
}

// PhraseOccurs reports whether the phrase aligns at any of the candidate start
// positions. Candidates must be ascending; a phrase running past the end of
// tokens does not match.
func PhraseOccurs(p Phrase, starts []int, tokens []string) bool {
	for _, start := range starts {
		if start+len(p.Tokens) > len(tokens) {
			return false
		}
		if alignsAt(p, start, tokens) {
			return true
		}
	}
	return false
}

func alignsAt(p Phrase, start int, tokens []string) bool {
	for i, tok := range p.Tokens {
		if !tok.Matches(tokens[start+i]) {
			return false
		}
	}
	return true
}

// CountWords counts every occurrence of every phrase in tokens.
// Overlapping multi-token matches each count.
func CountWords(lex *Lexicon, tokens []string) int {
	if lex.Len() == 0 || len(tokens) == 0 {
		return 0
	}

	index := FirstTokenPositions(lex.Phrases, tokens)
	count := 0
	for _, p := range lex.Phrases {
		if len(p.Tokens) == 0 {
			continue
		}
		starts := index[p.Tokens[0].Key()]
		if len(p.Tokens) == 1 {
			count += len(starts)
			continue
		}
		for _, start := range starts {
			if start+len(p.Tokens) > len(tokens) {
				break
			}
			if alignsAt(p, start, tokens) {
				count++
			}
		}
	}
	return count
}

// CountSentences counts sentences containing at least one phrase.
// Each sentence is tokenized like Tokenize and counts at most once.
func CountSentences(lex *Lexicon, sentences []string) int {
	if lex.Len() == 0 {
		return 0
	}

	count := 0
	for _, s := range sentences {
		tokens := Tokenize(s)
		index := FirstTokenPositions(lex.Phrases, tokens)
		for _, p := range lex.Phrases {
			if len(p.Tokens) == 0 {
				continue
			}
			if PhraseOccurs(p, index[p.Tokens[0].Key()], tokens) {
				count++
				break
			}
		}
	}
	return count
}
