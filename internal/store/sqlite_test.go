package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/ppiankov/edgarscan/internal/model"
)

func TestSQLiteStore_SaveRun(t *testing.T) {
	ctx := context.Background()
	st, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "results.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer func() { _ = st.Close() }()

	runID, err := st.SaveRun(ctx, "extract", model.Form8K, sampleResults())
	if err != nil {
		t.Fatalf("SaveRun: %v", err)
	}
	if len(runID) != 26 {
		t.Errorf("run id %q is not a ULID", runID)
	}

	runs, err := st.Runs(ctx)
	if err != nil {
		t.Fatalf("Runs: %v", err)
	}
	if len(runs) != 1 || runs[0].ID != runID || runs[0].Filings != 2 || runs[0].Failed != 1 || runs[0].Form != model.Form8K {
		t.Errorf("runs = %+v", runs)
	}

	items, err := st.Items(ctx, runID)
	if err != nil {
		t.Fatalf("Items: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}

	found := items[0]
	if found.Item != "item202" || !found.Found || found.Strategy != "markup" || !found.Flags.MentionsExhibit991 {
		t.Errorf("item202 row = %+v", found)
	}
	if found.Indicators == nil || found.Indicators.GeneralWordCount != 3 || !found.Indicators.Trigger {
		t.Errorf("item202 indicators = %+v", found.Indicators)
	}

	missing := items[1]
	if missing.Item != "item701" || missing.Found || missing.Indicators != nil {
		t.Errorf("item701 row = %+v", missing)
	}
}

func TestSQLiteStore_RunsOrdered(t *testing.T) {
	ctx := context.Background()
	st, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "results.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer func() { _ = st.Close() }()

	first, err := st.SaveRun(ctx, "extract", model.Form10K, nil)
	if err != nil {
		t.Fatalf("SaveRun: %v", err)
	}
	second, err := st.SaveRun(ctx, "count", model.Form10K, nil)
	if err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	runs, err := st.Runs(ctx)
	if err != nil {
		t.Fatalf("Runs: %v", err)
	}
	if len(runs) != 2 || runs[0].ID != second || runs[1].ID != first {
		t.Errorf("runs not newest first: %+v", runs)
	}
}
