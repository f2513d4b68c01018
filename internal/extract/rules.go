package extract

import (
	"fmt"

	"github.com/ppiankov/edgarscan/internal/model"
)

// EndPolicy decides what happens when none of an item's boundary labels follow its start
type EndPolicy int

const (
	EndNotFound   EndPolicy = iota // The item is reported as not found
	EndOfDocument                  // The item runs to the end of the text
)

// Rule holds the boundary rules for one item of one form type.
//
// Headings usually appear first in the table of contents, so with n matches
// of the item's label the start is match min(n-1, MaxStartIndex). The end is
// the first following anchor whose label comes earliest in EndPriority.
type Rule struct {
	Form          model.FormType
	Item          string
	MaxStartIndex int
	EndPriority   []string
	NoEnd         EndPolicy
}

// Rules lists the supported items per form type
var Rules = []Rule{
	{
		Form:          model.Form10K,
		Item:          "item1a",
		MaxStartIndex: 1,
		EndPriority:   []string{"item1b", "item2", "item3", "item4", "partii"},
		NoEnd:         EndNotFound,
	},
	{
		Form:          model.Form10K,
		Item:          "item7",
		MaxStartIndex: 1,
		EndPriority:   []string{"item7a", "item8", "item9", "item9a"},
		NoEnd:         EndNotFound,
	},
	{
		Form:          model.Form10Q,
		Item:          "item1a",
		MaxStartIndex: 1,
		EndPriority:   []string{"item2", "item6"},
		NoEnd:         EndNotFound,
	},
	{
		// Part I item 2 is listed twice in the table of contents of most 10-Qs
		Form:          model.Form10Q,
		Item:          "item2",
		MaxStartIndex: 2,
		EndPriority:   []string{"item3", "item4", "partii", "item1a", "item2", "item6"},
		NoEnd:         EndOfDocument,
	},
	{
		Form:          model.Form8K,
		Item:          "item202",
		MaxStartIndex: 1,
		EndPriority:   []string{"item501", "item502", "item507", "item701", "item801", "item901"},
		NoEnd:         EndOfDocument,
	},
	{
		Form:          model.Form8K,
		Item:          "item701",
		MaxStartIndex: 1,
		EndPriority:   []string{"item801", "item901"},
		NoEnd:         EndOfDocument,
	},
	{
		Form:          model.Form8K,
		Item:          "item801",
		MaxStartIndex: 1,
		EndPriority:   []string{"item901"},
		NoEnd:         EndOfDocument,
	},
}

// RuleFor returns the rule for an item of a form type
func RuleFor(form model.FormType, item string) (Rule, error) {
	for _, r := range Rules {
		if r.Form == form && r.Item == item {
			return r, nil
		}
	}
	return Rule{}, fmt.Errorf("%w: %s %q", model.ErrUnknownItem, form, item)
}

// ItemsFor lists the items that have rules for a form type
func ItemsFor(form model.FormType) []string {
	var items []string
	for _, r := range Rules {
		if r.Form == form {
			items = append(items, r.Item)
		}
	}
	return items
}
