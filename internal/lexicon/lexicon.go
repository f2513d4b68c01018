// Package lexicon holds word and phrase dictionaries and matches them against
// tokenized text.
//
// A phrase is a whitespace separated list of tokens. A token containing '*'
// is a prefix token: it matches any text token starting with the part before
// the first '*', so "invad*" matches "invaded" and "invading".
//
// Phrases written fully in upper case (acronyms such as "NATO") keep their
// case; all others are lower-cased when loaded.
package lexicon

import (
	"strings"
	"unicode"
)

// Wildcard marks a prefix token
const Wildcard = '*'

// Token is one element of a phrase
type Token struct {
	Text   string // Literal text, or the prefix for prefix tokens
	Prefix bool
}

// Key identifies the token in first-token indexes
func (t Token) Key() string {
	if t.Prefix {
		return t.Text + string(Wildcard)
	}
	return t.Text
}

// Matches reports whether a text token satisfies this token
func (t Token) Matches(word string) bool {
	if t.Prefix {
		return strings.HasPrefix(word, t.Text)
	}
	return word == t.Text
}

// Phrase is an ordered token sequence; token i must align with text position start+i
type Phrase struct {
	Source string
	Tokens []Token
}

// String returns the phrase as written in the lexicon file
func (p Phrase) String() string {
	return p.Source
}

// ParsePhrase tokenizes one lexicon entry. It returns false for blank entries.
func ParsePhrase(s string) (Phrase, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Phrase{}, false
	}
	if !isUpper(s) {
		s = strings.ToLower(s)
	}

	fields := strings.Fields(s)
	tokens := make([]Token, len(fields))
	for i, f := range fields {
		if idx := strings.IndexRune(f, Wildcard); idx >= 0 {
			tokens[i] = Token{Text: f[:idx], Prefix: true}
		} else {
			tokens[i] = Token{Text: f}
		}
	}
	return Phrase{Source: s, Tokens: tokens}, true
}

// isUpper reports whether s has cased letters and all of them are upper case
func isUpper(s string) bool {
	cased := false
	for _, r := range s {
		if unicode.IsLower(r) || unicode.IsTitle(r) {
			return false
		}
		if unicode.IsUpper(r) {
			cased = true
		}
	}
	return cased
}

// Lexicon is a named, ordered list of phrases. It is read-only once built and
// safe to share between goroutines.
type Lexicon struct {
	Name    string
	Phrases []Phrase
}

// New builds a lexicon from raw entries, skipping blank ones
func New(name string, entries []string) *Lexicon {
	lex := &Lexicon{Name: name, Phrases: make([]Phrase, 0, len(entries))}
	for _, e := range entries {
		if p, ok := ParsePhrase(e); ok {
			lex.Phrases = append(lex.Phrases, p)
		}
	}
	return lex
}

// Len returns the number of phrases
func (l *Lexicon) Len() int {
	if l == nil {
		return 0
	}
	return len(l.Phrases)
}
