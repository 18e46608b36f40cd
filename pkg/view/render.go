package view

import (
	"fmt"
	"io"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/mchmarny/menuview/pkg/client"
	"github.com/mchmarny/menuview/pkg/menu"
)

const (
	// EmptyTitle is shown when there are no items to list.
	EmptyTitle = "No menu items found"

	// EmptyDescription explains the empty state.
	EmptyDescription = "Could not load menu from the server."

	// StyleAuto picks a dark or light markdown style from the terminal background.
	StyleAuto = "auto"

	// StylePlain renders markdown without colors, for pipes and tests.
	StylePlain = "notty"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// Row is a rendered list row.
type Row struct {
	Title    string
	Subtitle string
}

// RowsOf returns one row per item, in order, titled by name and subtitled by price.
func RowsOf(items []menu.Item) []Row {
	rows := make([]Row, len(items))
	for i, it := range items {
		rows[i] = Row{Title: it.Name, Subtitle: it.Price}
	}
	return rows
}

// RenderDetail renders the markdown detail of an item for the terminal.
// If the markdown renderer cannot be created or fails, the raw markdown is returned
// along with the error.
func RenderDetail(item menu.Item, style string, width int) (string, error) {
	md := menu.Markdown(item)

	r, err := newRenderer(style, width)
	if err != nil {
		return md, fmt.Errorf("failed to create markdown renderer: %w", err)
	}

	out, err := r.Render(md)
	if err != nil {
		return md, fmt.Errorf("failed to render markdown: %w", err)
	}

	return out, nil
}

func newRenderer(style string, width int) (*glamour.TermRenderer, error) {
	styleOpt := glamour.WithAutoStyle()
	if style != "" && style != StyleAuto {
		styleOpt = glamour.WithStandardStyle(style)
	}

	return glamour.NewTermRenderer(
		styleOpt,
		glamour.WithWordWrap(width),
	)
}

// RenderPlain writes the settled state without any terminal styling: one
// tab-separated name and price line per item, or the empty-state text.
func RenderPlain(w io.Writer, st client.State) error {
	if st.IsEmpty() {
		_, err := fmt.Fprintf(w, "%s\n%s\n", EmptyTitle, EmptyDescription)
		return err
	}

	for _, r := range RowsOf(st.Items) {
		if _, err := fmt.Fprintf(w, "%s\t%s\n", r.Title, r.Subtitle); err != nil {
			return err
		}
	}

	return nil
}

func renderEmpty() string {
	return fmt.Sprintf("\n  %s\n  %s\n\n", titleStyle.Render(EmptyTitle), dimStyle.Render(EmptyDescription))
}
