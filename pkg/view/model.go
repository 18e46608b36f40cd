package view

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mchmarny/menuview/pkg/client"
	"github.com/mchmarny/menuview/pkg/menu"
)

const (
	defaultWidth  = 80
	defaultHeight = 24

	// helpHeight is the space reserved under the detail viewport.
	helpHeight = 2

	keyEnter     = "enter"
	keyEsc       = "esc"
	keyBackspace = "backspace"
	keyQuit      = "q"
	keyCtrlC     = "ctrl+c"
)

// Loader settles the menu state. It is called exactly once per model.
type Loader func(ctx context.Context) client.State

// loadedMsg carries the settled state back into the update loop.
type loadedMsg struct {
	state client.State
}

// listItem adapts a menu item to the list control: name as title, price as subtitle.
type listItem struct {
	item menu.Item
}

func (i listItem) Title() string       { return i.item.Name }
func (i listItem) Description() string { return i.item.Price }
func (i listItem) FilterValue() string { return i.item.Name + " " + i.item.Price }

// Option is a functional option for configuring the Model.
type Option func(*Model)

// WithStyle sets the glamour style used for the detail view (StyleAuto by default).
func WithStyle(style string) Option {
	return func(m *Model) { m.style = style }
}

// WithSize sets the initial size, before the first window size message arrives.
func WithSize(width, height int) Option {
	return func(m *Model) {
		m.width = width
		m.height = height
	}
}

// Model is the Bubble Tea model of the menu viewer.
// It starts in the loading state, issues the load once from Init and then shows
// either the empty view or the list. Selecting a row pushes the detail view.
type Model struct {
	ctx  context.Context
	load Loader

	state    client.State
	list     list.Model
	spinner  spinner.Model
	viewport viewport.Model

	detail   *menu.Item
	markdown string

	style    string
	width    int
	height   int
	quitting bool
}

// New creates the viewer model. The load is not started until Init.
func New(ctx context.Context, load Loader, opts ...Option) *Model {
	m := &Model{
		ctx:     ctx,
		load:    load,
		state:   client.State{Kind: client.Loading},
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
		style:   StyleAuto,
		width:   defaultWidth,
		height:  defaultHeight,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.list = list.New(nil, list.NewDefaultDelegate(), m.width, m.height)
	m.list.Title = "Menu"
	m.list.DisableQuitKeybindings()
	m.viewport = viewport.New(m.width, m.height-helpHeight)

	return m
}

// Init starts the spinner and the single menu load.
func (m *Model) Init() tea.Cmd {
	ctx, load := m.ctx, m.load
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		return loadedMsg{state: load(ctx)}
	})
}

// Loading reports whether the load has not settled yet.
func (m *Model) Loading() bool {
	return m.state.Kind == client.Loading
}

// State returns the current load state.
func (m *Model) State() client.State {
	return m.state
}

// Rows returns the rows currently shown by the list, after any filter.
// It is empty while loading and in the empty state.
func (m *Model) Rows() []Row {
	if m.Loading() || m.state.IsEmpty() {
		return nil
	}

	visible := m.list.VisibleItems()
	items := make([]menu.Item, 0, len(visible))
	for _, v := range visible {
		if li, ok := v.(listItem); ok {
			items = append(items, li.item)
		}
	}
	return RowsOf(items)
}

// Detail returns the item shown in the detail view, or nil when the list is shown.
func (m *Model) Detail() *menu.Item {
	return m.detail
}

// DetailMarkdown returns the markdown source of the open detail view.
func (m *Model) DetailMarkdown() string {
	return m.markdown
}

// Update handles messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case loadedMsg:
		return m, m.handleLoaded(msg.state)

	case spinner.TickMsg:
		if !m.Loading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if msg.String() == keyCtrlC {
			return m.quit()
		}
		switch {
		case m.detail != nil:
			return m.handleDetailKey(msg)
		case m.Loading() || m.state.IsEmpty():
			return m.handleIdleKey(msg)
		default:
			return m.handleListKey(msg)
		}
	}

	if m.detail != nil {
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *Model) handleLoaded(st client.State) tea.Cmd {
	m.state = st
	if st.Kind != client.Loaded {
		return nil
	}

	items := make([]list.Item, len(st.Items))
	for i, it := range st.Items {
		items[i] = listItem{item: it}
	}

	return m.list.SetItems(items)
}

func (m *Model) handleIdleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case keyQuit, keyEsc:
		return m.quit()
	}
	return m, nil
}

func (m *Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// While the filter prompt is focused every key belongs to it.
	if m.list.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case keyQuit:
		return m.quit()
	case keyEnter:
		if li, ok := m.list.SelectedItem().(listItem); ok {
			m.openDetail(li.item)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case keyQuit:
		return m.quit()
	case keyEsc, keyBackspace:
		m.detail = nil
		m.markdown = ""
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *Model) openDetail(item menu.Item) {
	m.detail = &item
	m.markdown = menu.Markdown(item)
	m.renderDetail()
}

func (m *Model) renderDetail() {
	if m.detail == nil {
		return
	}

	out, err := RenderDetail(*m.detail, m.style, m.width)
	if err != nil {
		slog.Error("failed to render item detail", "name", m.detail.Name, "error", err)
	}

	m.viewport.SetContent(out)
	m.viewport.GotoTop()
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height)
	m.viewport.Width = width
	m.viewport.Height = max(height-helpHeight, 1)
	m.renderDetail()
}

func (m *Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	return m, tea.Quit
}

// View renders the current view.
func (m *Model) View() string {
	switch {
	case m.quitting:
		return ""
	case m.Loading():
		return fmt.Sprintf("\n %s Loading menu...\n\n", m.spinner.View())
	case m.state.IsEmpty():
		return renderEmpty()
	case m.detail != nil:
		return m.viewport.View() + "\n" + dimStyle.Render("esc: back • q: quit")
	default:
		return m.list.View()
	}
}
