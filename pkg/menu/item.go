package menu

import (
	"fmt"
	"strings"
)

// FragmentSeparator separates the ingredient/attribute fragments of an item description.
const FragmentSeparator = ", "

// Item represents a single sellable item on the menu.
type Item struct {
	// Name is the display name of the item. It is used as the list title
	// and is not guaranteed to be unique.
	Name string `json:"name" yaml:"name"`

	// Description is a flat list of ingredients or attributes joined with ", ".
	Description string `json:"description" yaml:"description"`

	// Price is the price as published by the server (e.g. "CHF 12.50").
	Price string `json:"price" yaml:"price"`
}

// Fragments splits the description on FragmentSeparator.
// Fragments are not trimmed and commas are never treated as escaped.
// An empty description has no fragments.
func (i Item) Fragments() []string {
	if i.Description == "" {
		return nil
	}
	return strings.Split(i.Description, FragmentSeparator)
}

// Markdown renders the detail document of an item: a level-1 heading with the name,
// the bold price label and one italic bullet per description fragment.
// Parameters:
//   - item: The menu item to render.
//
// Returns:
//   - string: The markdown document. Malformed input renders degenerately, never fails.
func Markdown(item Item) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# %s\n\n", item.Name)
	fmt.Fprintf(&sb, "**Price**: %s\n", item.Price)

	frags := item.Fragments()
	if len(frags) > 0 {
		sb.WriteString("\n")
	}
	for _, f := range frags {
		fmt.Fprintf(&sb, "- *%s*\n", f)
	}

	return sb.String()
}
