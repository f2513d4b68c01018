package score

import (
	"testing"

	"github.com/ppiankov/edgarscan/internal/lexicon"
	"github.com/ppiankov/edgarscan/internal/model"
)

func newTestCounter(t *testing.T, general, entity []string, mode string) *Counter {
	t.Helper()
	trigger, err := lexicon.TriggerSetFor(mode)
	if err != nil {
		t.Fatalf("TriggerSetFor(%q): %v", mode, err)
	}
	return NewCounter(lexicon.NewIndex(
		lexicon.New("general", general),
		lexicon.New("entity", entity),
		trigger,
	))
}

func TestCounter_Count_Basic(t *testing.T) {
	counter := newTestCounter(t, []string{"russia", "war"}, []string{"ukraine"}, lexicon.TriggerExact)

	got := counter.Count("Russia started a war. The war in Ukraine continues.")

	want := model.Indicators{
		Trigger:              true,
		GeneralWordCount:     3,
		GeneralSentenceCount: 2,
		EntityWordCount:      1,
		EntitySentenceCount:  1,
		TotalWordCount:       9,
		TotalSentenceCount:   2,
	}
	if got != want {
		t.Errorf("Count() = %+v, want %+v", got, want)
	}
}

func TestCounter_Count_Idempotent(t *testing.T) {
	counter := newTestCounter(t, []string{"sanction*", "export control*"}, []string{"Gazprom"}, lexicon.TriggerLemma)
	text := "Sanctions on Russia's banks widened. Export controls tightened. Gazprom said little."

	first := counter.Count(text)
	second := counter.Count(text)
	if first != second {
		t.Errorf("Count() not idempotent: %+v vs %+v", first, second)
	}
	if first.GeneralWordCount != 2 {
		t.Errorf("GeneralWordCount = %d, want 2", first.GeneralWordCount)
	}
	if first.EntityWordCount != 1 {
		t.Errorf("EntityWordCount = %d, want 1", first.EntityWordCount)
	}
}

func TestCounter_Count_EmptyText(t *testing.T) {
	counter := newTestCounter(t, []string{"war"}, nil, lexicon.TriggerExact)

	got := counter.Count("   ")
	if got != (model.Indicators{}) {
		t.Errorf("Count(blank) = %+v, want zero indicators", got)
	}
}

func TestCounter_Count_TriggerNeedsTwoDistinctWords(t *testing.T) {
	counter := newTestCounter(t, nil, nil, lexicon.TriggerExact)

	if counter.Count("War. War. War.").Trigger {
		t.Error("Trigger set by a single repeated word")
	}
	if !counter.Count("The war. Later, Ukraine.").Trigger {
		t.Error("Trigger not set for words in different sentences")
	}
}

func TestCounter_NilIndex(t *testing.T) {
	got := NewCounter(nil).Count("Russia started a war.")
	if got.GeneralWordCount != 0 || got.Trigger {
		t.Errorf("Count() with empty index = %+v", got)
	}
	if got.TotalWordCount != 4 || got.TotalSentenceCount != 1 {
		t.Errorf("totals = %d/%d, want 4/1", got.TotalWordCount, got.TotalSentenceCount)
	}
}

func TestCounter_Count_AcronymsNeverMatchLowercasedText(t *testing.T) {
	counter := newTestCounter(t, nil, []string{"NATO", "Gazprom"}, lexicon.TriggerExact)

	// Acronym phrases keep their case while text tokens are lower-cased
	got := counter.Count("Members of NATO responded. Gazprom did not.")
	if got.EntityWordCount != 1 {
		t.Errorf("EntityWordCount = %d, want 1", got.EntityWordCount)
	}
	if got.EntitySentenceCount != 1 {
		t.Errorf("EntitySentenceCount = %d, want 1", got.EntitySentenceCount)
	}
}
