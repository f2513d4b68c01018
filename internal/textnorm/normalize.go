package textnorm

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// Repeated "Table of Contents" banners, possibly broken across lines.
	// A banner and its surrounding newlines become one space.
	tocBanner = regexp.MustCompile(`(?i)\n*table\s*of\s*contents\n*`)

	// A lone 1-2 digit page number between blank-line runs
	pageNumber = regexp.MustCompile(`\n{2,}[ \t]*[0-9]{1,2}[ \t]*\n{2,}`)

	blankRun = regexp.MustCompile(`\n{2,}`)
)

// Normalize cleans filing text for matching and counting.
//
// Characters without an ASCII equivalent are dropped. This is lossy and
// cannot be undone.
func Normalize(raw string) string {
	text := ToASCII(raw)
	text = strings.ReplaceAll(text, ">", "")
	text = tocBanner.ReplaceAllString(text, " ")
	text = removePageNumbers(text)
	return blankRun.ReplaceAllString(text, " ")
}

// ToASCII transliterates text to ASCII, dropping what cannot be represented
func ToASCII(s string) string {
	t := transform.Chain(
		norm.NFKD,
		runes.Remove(runes.In(unicode.Mn)),
		runes.Map(typographic),
		runes.Remove(runes.Predicate(func(r rune) bool { return r > unicode.MaxASCII })),
	)
	out, _, err := transform.String(t, s)
	if err != nil {
		return dropNonASCII(s)
	}
	return out
}

// typographic maps punctuation that NFKD leaves alone to its ASCII form
func typographic(r rune) rune {
	switch r {
	case '‘', '’', '‚', '′':
		return '\''
	case '“', '”', '„', '″':
		return '"'
	case '‐', '‑', '‒', '–', '—', '―', '−':
		return '-'
	}
	return r
}

func dropNonASCII(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r <= unicode.MaxASCII {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// removePageNumbers repeats until stable because adjacent page numbers share
// the blank-line run between them.
func removePageNumbers(text string) string {
	for {
		next := pageNumber.ReplaceAllString(text, "\n\n")
		if next == text {
			return text
		}
		text = next
	}
}
