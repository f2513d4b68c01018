// Package sentence splits filing text into sentences with a title-aware heuristic.
package sentence

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// titles never end a sentence even when followed by a capitalized word
var titles = map[string]bool{
	"Mr": true, "Mrs": true, "Miss": true, "Ms": true, "Sir": true, "Madam": true,
	"Dr": true, "Cllr": true, "Lady": true, "Lord": true, "Professor": true, "Prof": true,
	"Chancellor": true, "Principal": true, "President": true, "Master": true,
	"Governer": true, "Gov": true, "Attorney": true, "Atty": true,
}

// Segment splits text on whitespace and regroups the tokens into sentences.
//
// A token ends a sentence when it ends in '.', '?' or '!', is not a title
// such as "Dr.", and the next token starts with an upper-case letter. The last
// token always closes the final sentence. Text without tokens has no sentences
// and yields an empty, non-nil slice.
func Segment(text string) []string {
	tokens := strings.Fields(text)
	sentences := make([]string, 0, len(tokens)/8+1)
	if len(tokens) == 0 {
		return sentences
	}

	start := 0
	last := len(tokens) - 1
	for i := 0; i < last; i++ {
		if endsSentence(tokens[i], tokens[i+1]) {
			sentences = append(sentences, strings.Join(tokens[start:i+1], " "))
			start = i + 1
		}
	}
	return append(sentences, strings.Join(tokens[start:], " "))
}

func endsSentence(token, next string) bool {
	switch token[len(token)-1] {
	case '.', '?', '!':
	default:
		return false
	}
	if titles[token[:len(token)-1]] {
		return false
	}
	r, _ := utf8.DecodeRuneInString(next)
	return unicode.IsUpper(r)
}
