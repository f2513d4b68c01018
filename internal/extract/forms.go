package extract

import (
	"fmt"
	"regexp"

	"github.com/ppiankov/edgarscan/internal/model"
)

// Exhibit991 is the item name used for the text of an 8-K's Exhibit 99.1
const Exhibit991 = "ex991"

// Heading finds one kind of section heading in rendered plain text
type Heading struct {
	Label   string
	Pattern *regexp.Regexp
}

// Form describes how to find sections in one form type
type Form struct {
	Type         model.FormType
	Markup       *regexp.Regexp // All item/part headings in the raw sub-document markup
	Headings     []Heading      // One pattern per heading in rendered text
	DefaultItems []string
}

// ws matches whitespace and the non-breaking space spellings found in filings
const ws = `(\s|&#160;|&nbsp;|&#xA0;)*`

var forms = map[model.FormType]*Form{
	model.Form10K: {
		Type: model.Form10K,
		Markup: regexp.MustCompile(
			`>\s*"*(Item|ITEM)` + ws + `(1\s*A|1\s*B|2|3|4|5|6|7\s*A*|8|9\s*A*)\.?` +
				`|>\s*(PART|Part)` + ws + `I{1,2}\s*\.*`),
		Headings: []Heading{
			{"parti", regexp.MustCompile(`(Part|PART)\s*I(\s|\n)+`)},
			{"item1", regexp.MustCompile(`(Item|ITEM)\s*1\.?\s*([Bb]usiness\s*[Rr]?|BUSINESS\s*R?)`)},
			{"item1a", regexp.MustCompile(`(Item|ITEM)\s*1\s*A\s*\.?\s*([Rr]isk\s*[Ff]actors?|RISK\s*FACTORS?)`)},
			{"item1b", regexp.MustCompile(`(Item|ITEM)\s*1\s*B\s*\.?\s*([Uu]nresolved|UNRESOLVED)`)},
			{"item2", regexp.MustCompile(`(Item|ITEM)\s*2\s*\.?\s*([Pp]roperties|PROPERTIES)`)},
			{"item3", regexp.MustCompile(`(Item|ITEM)\s*3\s*\.?\s*([Ll]egal|LEGAL)`)},
			{"item4", regexp.MustCompile(`(Item|ITEM)\s*4\s*\.?\s*([Mm]ine\s*[Ss]afety|MINE\s*SAFETY)`)},
			{"partii", regexp.MustCompile(`(Part|PART)\s*II(\s|\n)+`)},
			{"item7", regexp.MustCompile(`(Item|ITEM)\s*7\s*\.?\s*([Mm]anagement|MANAGEMENT)`)},
			{"item7a", regexp.MustCompile(`(Item|ITEM)\s*7\s*A\s*\.?\s*([Qq]uantitative|QUANTITATIVE)`)},
			{"item8", regexp.MustCompile(`(Item|ITEM)\s*8\s*\.?\s*([Ff]inancial|FINANCIAL)`)},
			{"item9a", regexp.MustCompile(`(Item|ITEM)\s*9\s*A\s*\.?\s*([Cc]ontrol|CONTROL)`)},
		},
		DefaultItems: []string{"item1a", "item7"},
	},
	model.Form10Q: {
		Type: model.Form10Q,
		Markup: regexp.MustCompile(
			`>\s*(Item|ITEM)` + ws + `(<[^>]*>` + ws + `)+(1\s*A|2|3|4|5|6)\.?` +
				`|>"*(Item|ITEM)` + ws + `(1\s*A|2|3|4|5|6)\.?` +
				`|>\s*(PART|Part)` + ws + `I{1,2}\s*\.*`),
		Headings: []Heading{
			{"item1", regexp.MustCompile(`(Item|ITEM)\s*1\s*\.?\s*([Ff]inancial|FINANCIAL)`)},
			{"item2", regexp.MustCompile(`(Item|ITEM)\s*2\s*\.?\s*([Mm]anagement|MANAGEMENT)`)},
			{"item3", regexp.MustCompile(`(Item|ITEM)\s*3\s*\.?\s*([Qq]uantitative|QUANTITATIVE)`)},
			{"item4", regexp.MustCompile(`(Item|ITEM)\s*4\s*\.?\s*([Cc]ontrols|CONTROLS)`)},
			{"item1", regexp.MustCompile(`(Item|ITEM)\s*1\.?\s*([Ll]egal|LEGAL)\s?`)},
			{"item1a", regexp.MustCompile(`(Item|ITEM)\s*1\s*[Aa]\.?\s*([Rr]isk|RISK)\s?`)},
			{"item2", regexp.MustCompile(`(Item|ITEM)\s*2\.?\s*(UNREGISTERED|[Uu]nregistered)`)},
			{"item6", regexp.MustCompile(`(Item|ITEM)\s*6\.?\s*([Ee]xhibits|EXHIBITS)?`)},
		},
		DefaultItems: []string{"item2", "item1a"},
	},
	model.Form8K: {
		Type: model.Form8K,
		Markup: regexp.MustCompile(
			`>\s*I[Tt][Ee][Mm]` + ws +
				`(2\s*\.\s*0\s*2|5\s*\.\s*0\s*1|5\s*\.\s*0\s*2|5\s*\.\s*0\s*7|7\s*\.\s*0\s*1|8\s*\.\s*0\s*1|9\s*\.\s*0\s*1)`),
		Headings: []Heading{
			{"item202", regexp.MustCompile(`(Item|ITEM)\s*2\s*\.?0\s*2\s*\.?\s*([Rr]esults\s*[Oo]f|RESULTS\s*OF)`)},
			{"item502", regexp.MustCompile(`(Item|ITEM)\s*5\s*\.?0\s*2\s*\.?\s*([Dd]eparture|DEPARTURE)`)},
			{"item507", regexp.MustCompile(`(Item|ITEM)\s*5\s*\.?0\s*7\s*\.?\s*([Ss]ubmission|SUBMISSION)`)},
			{"item701", regexp.MustCompile(`(Item|ITEM)\s*7\s*\.?0\s*1\s*\.?\s*([Rr]egulation|REGULATION)`)},
			{"item801", regexp.MustCompile(`(Item|ITEM)\s*8\s*\.?0\s*1\s*([Oo]ther\s*[Ee]vents?\s*\.*|OTHER\s*EVENTS?\s*)`)},
			{"item901", regexp.MustCompile(`(Item|ITEM)\s*9\s*\.?0\s*1\s*([Ff]inancial\s*[Ss]tatements?\s*\.*|FINANCIAL\s*STATEMENTS?\s*\.?)`)},
		},
		DefaultItems: []string{"item202", "item701", "item801"},
	},
}

// FormFor returns the section description for a form type
func FormFor(ft model.FormType) (*Form, error) {
	f, ok := forms[ft]
	if !ok {
		return nil, fmt.Errorf("%w: %q", model.ErrUnsupportedForm, ft)
	}
	return f, nil
}
