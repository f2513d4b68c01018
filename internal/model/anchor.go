package model

// Anchor is a normalized heading match inside a document's text.
// End is the end of the heading match; a section spans from one anchor's Start
// to the Start of its boundary anchor.
type Anchor struct {
	Label string `json:"label"` // Canonical lowercase label, e.g. "item1a", "partii", "item202"
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// Strategy identifies which boundary detection strategy produced an anchor table
type Strategy int

const (
	StrategyNone    Strategy = 0 // Nothing usable was found
	StrategyMarkup  Strategy = 1 // Anchored on markup of the form's sub-document
	StrategyContent Strategy = 2 // Anchored on headings in the rendered plain text
)

func (s Strategy) String() string {
	switch s {
	case StrategyMarkup:
		return "markup"
	case StrategyContent:
		return "content"
	default:
		return "none"
	}
}

// ExtractedItem is the text of one named section. Found=false is a normal outcome.
type ExtractedItem struct {
	Name     string   `json:"name"`
	Text     string   `json:"text,omitempty"`
	Found    bool     `json:"found"`
	Strategy Strategy `json:"strategy"`
}

// NotFound returns the not-found value for an item
func NotFound(name string) ExtractedItem {
	return ExtractedItem{Name: name}
}

// ItemFlags are literal-mention checks run on extracted item text
type ItemFlags struct {
	MentionsExhibit991  bool `json:"mentions_exhibit_991"`
	Mentions10K         bool `json:"mentions_10k"`
	NoneOrNotApplicable bool `json:"none_or_not_applicable"`
}

// FlagNames is the column order used for tabular output of item flags
var FlagNames = []string{"mentions_exhibit_991", "mentions_10k", "none_or_not_applicable"}

// Fields returns the flags as named values in FlagNames order
func (f ItemFlags) Fields() []Field {
	return []Field{
		{"mentions_exhibit_991", boolDigit(f.MentionsExhibit991)},
		{"mentions_10k", boolDigit(f.Mentions10K)},
		{"none_or_not_applicable", boolDigit(f.NoneOrNotApplicable)},
	}
}
