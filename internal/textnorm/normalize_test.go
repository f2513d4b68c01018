package textnorm

import (
	"strings"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "plain text unchanged",
			in:   "Risk factors include competition.",
			want: "Risk factors include competition.",
		},
		{
			name: "blank line runs collapse to a space",
			in:   "first paragraph\n\n\nsecond paragraph",
			want: "first paragraph second paragraph",
		},
		{
			name: "single newline kept",
			in:   "line one\nline two",
			want: "line one\nline two",
		},
		{
			name: "table of contents banner removed",
			in:   "Item 1A\nTable of\nContents\nRisk",
			want: "Item 1A Risk",
		},
		{
			name: "banner match ignores case",
			in:   "before TABLE OF CONTENTS after",
			want: "before   after",
		},
		{
			name: "words around a banner stay apart",
			in:   "economic\n\nTable of Contents\n\nsanctions",
			want: "economic sanctions",
		},
		{
			name: "page number between blank runs removed",
			in:   "end of page\n\n12\n\nnext page",
			want: "end of page next page",
		},
		{
			name: "consecutive page numbers removed",
			in:   "a\n\n1\n\n2\n\nb",
			want: "a b",
		},
		{
			name: "three digit numbers kept",
			in:   "a\n\n123\n\nb",
			want: "a 123 b",
		},
		{
			name: "inline numbers kept",
			in:   "we employ 42 people",
			want: "we employ 42 people",
		},
		{
			name: "markup residue removed",
			in:   ">Item 2.",
			want: "Item 2.",
		},
		{
			name: "empty",
			in:   "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.in)
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestToASCII(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"café", "cafe"},
		{"Company’s “results”", "Company's \"results\""},
		{"2021–2022", "2021-2022"},
		{"a b", "a b"},
		{"price ¥100 • note", "price 100  note"},
		{"plain", "plain"},
	}

	for _, tt := range tests {
		got := ToASCII(tt.in)
		if got != tt.want {
			t.Errorf("ToASCII(%q) = %q, want %q", tt.in, got, tt.want)
		}
		for _, r := range got {
			if r > 127 {
				t.Errorf("ToASCII(%q) kept non-ASCII rune %q", tt.in, r)
			}
		}
	}
}

func TestNormalizeIsPure(t *testing.T) {
	in := "Table of Contents\n\nItem 7.\n\n3\n\nManagement’s Discussion"
	first := Normalize(in)
	second := Normalize(in)
	if first != second {
		t.Errorf("Normalize not deterministic: %q vs %q", first, second)
	}
	if strings.Contains(first, "\n\n") {
		t.Errorf("Normalize left a blank-line run: %q", first)
	}
}
