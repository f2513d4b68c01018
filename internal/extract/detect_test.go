package extract

import (
	"testing"

	"github.com/ppiankov/edgarscan/internal/model"
)

func TestSubDocuments(t *testing.T) {
	raw := "<SEC-HEADER>header</SEC-HEADER>\n" +
		"<DOCUMENT>\n<TYPE>10-Q\n<TEXT>first</TEXT>\n</DOCUMENT>\n" +
		"<DOCUMENT>\n<TYPE>EX-31.1 \r\n<TEXT>second</TEXT>\n</DOCUMENT>\n" +
		"<DOCUMENT>\n<TYPE>EX-32\n<TEXT>truncated"

	docs := SubDocuments(raw)
	if len(docs) != 3 {
		t.Fatalf("Expected 3 sub-documents, got %d", len(docs))
	}

	wantTypes := []string{"10-Q", "EX-31.1", "EX-32"}
	for i, want := range wantTypes {
		if docs[i].Type != want {
			t.Errorf("doc %d type = %q, want %q", i, docs[i].Type, want)
		}
	}

	doc, ok := FindSubDocument(raw, "ex-31.1")
	if !ok || doc.Type != "EX-31.1" {
		t.Errorf("FindSubDocument() = %+v, %v", doc, ok)
	}
	if _, ok := FindSubDocument(raw, "10-K"); ok {
		t.Error("FindSubDocument() found a 10-K that is not there")
	}
	if docs := SubDocuments("no documents here"); len(docs) != 0 {
		t.Errorf("Expected no sub-documents, got %d", len(docs))
	}
}

func TestMarkupLabel(t *testing.T) {
	tests := []struct {
		match string
		want  string
	}{
		{">Item&#160;1A.", "item1a"},
		{"> ITEM&nbsp;7A", "item7a"},
		{">\"Item 2.", "item2"},
		{"> PART II", "partii"},
		{">Part I.", "parti"},
		{">Item</span><span style=\"x\">1A.", "item1a"},
		{">Item 2.02", "item202"},
		{">ITEM&#xA0;8 . 0 1", "item801"},
	}

	for _, tt := range tests {
		if got := markupLabel(tt.match); got != tt.want {
			t.Errorf("markupLabel(%q) = %q, want %q", tt.match, got, tt.want)
		}
	}
}

func TestDetectMarkup_QuarterlyHeadingSplitByTags(t *testing.T) {
	raw := "<DOCUMENT>\n<TYPE>10-Q\n<TEXT>\n" +
		"<p><span>Item</span><span>1A.</span> Risk Factors</p>\n" +
		"<p>Item 2. Unregistered Sales</p>\n" +
		"</TEXT>\n</DOCUMENT>"

	form, err := FormFor(model.Form10Q)
	if err != nil {
		t.Fatalf("FormFor() error: %v", err)
	}

	out := DetectMarkup(raw, form)
	if out.Status != OK {
		t.Fatal("Expected markup anchors")
	}

	var labels []string
	for _, a := range out.Anchors {
		labels = append(labels, a.Label)
	}
	if len(labels) != 2 || labels[0] != "item1a" || labels[1] != "item2" {
		t.Errorf("labels = %q, want [item1a item2]", labels)
	}
	for i := 1; i < len(out.Anchors); i++ {
		if out.Anchors[i].Start < out.Anchors[i-1].Start {
			t.Error("anchors not sorted by start")
		}
	}
}

func TestDetectMarkup_Unavailable(t *testing.T) {
	form, _ := FormFor(model.Form10K)

	if out := DetectMarkup("<DOCUMENT>\n<TYPE>10-Q\n</DOCUMENT>", form); out.Status != Unavailable {
		t.Error("Expected unavailable without a 10-K sub-document")
	}
	if out := DetectMarkup("<DOCUMENT>\n<TYPE>10-K\n<TEXT>\nno headings\n</DOCUMENT>", form); out.Status != Unavailable {
		t.Error("Expected unavailable without heading matches")
	}
}

func TestDetectContent(t *testing.T) {
	raw := "<DOCUMENT>\n<TYPE>8-K\n<TEXT>\n" +
		"<p>ITEM 7.01 REGULATION FD DISCLOSURE</p>\n" +
		"<p>Text.</p>\n" +
		"<p>Item 8.01 Other Events.</p>\n" +
		"</TEXT>\n</DOCUMENT>"

	form, _ := FormFor(model.Form8K)
	out := DetectContent(raw, form)
	if out.Status != OK || out.Strategy != model.StrategyContent {
		t.Fatalf("DetectContent() = %+v", out)
	}
	if len(out.Anchors) != 2 || out.Anchors[0].Label != "item701" || out.Anchors[1].Label != "item801" {
		t.Errorf("anchors = %+v", out.Anchors)
	}
	for _, a := range out.Anchors {
		if a.End > len(out.Text) || a.Start >= a.End {
			t.Errorf("anchor %+v out of range of text length %d", a, len(out.Text))
		}
	}

	if DetectContent("<DOCUMENT>\n<TYPE>10-K\n</DOCUMENT>", form).Status != Unavailable {
		t.Error("Expected unavailable without an 8-K sub-document")
	}
}
