package lexicon

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ppiankov/edgarscan/internal/model"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func sources(lex *Lexicon) []string {
	var out []string
	for _, p := range lex.Phrases {
		out = append(out, p.Source)
	}
	return out
}

func TestLoadFileText(t *testing.T) {
	path := writeFile(t, t.TempDir(), "general.txt", "# sanctions terms\nSanction*\n\neconomic sanctions\nNATO\n")

	lex, err := LoadFile(path, 0)
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}
	if lex.Name != "general" {
		t.Errorf("Name = %q, want general", lex.Name)
	}
	got := sources(lex)
	want := []string{"sanction*", "economic sanctions", "NATO"}
	if len(got) != len(want) {
		t.Fatalf("phrases = %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("phrase %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestLoadFileYAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "names.yaml", "name: entities\nphrases:\n  - Vladimir Putin\n  - Gazprom\n")

	lex, err := LoadFile(path, 0)
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}
	if lex.Name != "entities" {
		t.Errorf("Name = %q, want entities", lex.Name)
	}
	if lex.Len() != 2 || lex.Phrases[0].Source != "vladimir putin" {
		t.Errorf("phrases = %q", sources(lex))
	}
}

func TestLoadFileCSVColumn(t *testing.T) {
	path := writeFile(t, t.TempDir(), "names.csv", "1,Gazprom\n2,\"Rosneft Oil\"\n3\n")

	lex, err := LoadFile(path, 1)
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}
	got := sources(lex)
	if len(got) != 2 || got[0] != "gazprom" || got[1] != "rosneft oil" {
		t.Errorf("phrases = %q, want [gazprom rosneft oil]", got)
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.txt"), 0); err == nil {
		t.Error("LoadFile() expected error for missing file")
	}
}

func TestLoadIndex(t *testing.T) {
	dir := t.TempDir()
	cfg := model.LexiconConfig{
		GeneralPath:  writeFile(t, dir, "general.txt", "war\n"),
		EntityPath:   writeFile(t, dir, "names.csv", "x,Kremlin\n"),
		EntityColumn: 1,
		TriggerMode:  TriggerLemma,
	}

	idx, err := LoadIndex(cfg)
	if err != nil {
		t.Fatalf("LoadIndex() error: %v", err)
	}
	if idx.General.Len() != 1 || idx.Entity.Len() != 1 {
		t.Errorf("lexicon sizes = %d/%d, want 1/1", idx.General.Len(), idx.Entity.Len())
	}
	if len(idx.Trigger.Words()) != 14 {
		t.Errorf("lemma trigger words = %d, want 14", len(idx.Trigger.Words()))
	}
}

func TestLoadIndexBadTriggerMode(t *testing.T) {
	_, err := LoadIndex(model.LexiconConfig{TriggerMode: "fuzzy"})
	if !errors.Is(err, model.ErrInvalidConfig) {
		t.Errorf("LoadIndex() error = %v, want ErrInvalidConfig", err)
	}
}

func TestTriggerSetFires(t *testing.T) {
	exact, err := TriggerSetFor(TriggerExact)
	if err != nil {
		t.Fatalf("TriggerSetFor() error: %v", err)
	}

	tests := []struct {
		text string
		want bool
	}{
		{"Russia started a war.", true},
		{"The war, the war, the war.", false},
		{"Ukraine exports grain. Russia imports.", true},
		{"Revenue grew.", false},
		{"Russia's war", false},
	}
	for _, tt := range tests {
		if got := exact.Fires(Tokenize(tt.text)); got != tt.want {
			t.Errorf("exact.Fires(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}

	lemma, _ := TriggerSetFor(TriggerLemma)
	if !lemma.Fires(Tokenize("Russia's wars")) {
		t.Error("lemma.Fires() = false for possessive and plural forms")
	}
}
