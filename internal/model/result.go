package model

// Indicators are the lexicon frequency measures for one text
type Indicators struct {
	Trigger              bool `json:"trigger"`                // >= 2 distinct trigger words anywhere
	GeneralWordCount     int  `json:"general_word_count"`     // General lexicon occurrences
	GeneralSentenceCount int  `json:"general_sentence_count"` // Sentences with a general lexicon hit
	EntityWordCount      int  `json:"entity_word_count"`      // Named-entity lexicon occurrences
	EntitySentenceCount  int  `json:"entity_sentence_count"`  // Sentences with a named-entity hit
	TotalWordCount       int  `json:"total_word_count"`
	TotalSentenceCount   int  `json:"total_sentence_count"`
}

// Field is a named output value
type Field struct {
	Name  string
	Value string
}

// IndicatorNames is the column order used for tabular output
var IndicatorNames = []string{
	"trigger",
	"general_word_count",
	"general_sentence_count",
	"entity_word_count",
	"entity_sentence_count",
	"total_word_count",
	"total_sentence_count",
}

// Fields returns the indicators as named values in IndicatorNames order.
// Names and values are paired here, never by position elsewhere.
func (in Indicators) Fields() []Field {
	return []Field{
		{"trigger", boolDigit(in.Trigger)},
		{"general_word_count", itoa(in.GeneralWordCount)},
		{"general_sentence_count", itoa(in.GeneralSentenceCount)},
		{"entity_word_count", itoa(in.EntityWordCount)},
		{"entity_sentence_count", itoa(in.EntitySentenceCount)},
		{"total_word_count", itoa(in.TotalWordCount)},
		{"total_sentence_count", itoa(in.TotalSentenceCount)},
	}
}

// ItemResult is the outcome for one item of one filing
type ItemResult struct {
	Name       string      `json:"name"`
	Found      bool        `json:"found"`
	Strategy   Strategy    `json:"strategy"`
	Address    string      `json:"address,omitempty"` // Where the item text was persisted
	Flags      ItemFlags   `json:"flags"`
	Indicators *Indicators `json:"indicators,omitempty"` // nil when counting is disabled or item not found
	Text       string      `json:"-"`
}

// FilingResult is the outcome for one filing. Err is set when processing the
// filing failed; sibling filings are unaffected.
//
// Recounted results were counted from previously persisted item text. They
// carry no strategy or exhibit outcome; those columns keep their input values.
type FilingResult struct {
	Filing        Filing       `json:"filing"`
	Items         []ItemResult `json:"items"`
	AnyExhibit991 bool         `json:"any_exhibit_991,omitempty"`
	Recounted     bool         `json:"recounted,omitempty"`
	Err           error        `json:"-"`
}

// GetError returns the processing error, if any
func (r *FilingResult) GetError() error {
	return r.Err
}

// Item returns the result for the named item
func (r *FilingResult) Item(name string) (ItemResult, bool) {
	for _, it := range r.Items {
		if it.Name == name {
			return it, true
		}
	}
	return ItemResult{}, false
}
