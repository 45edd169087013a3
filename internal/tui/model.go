package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/hay-kot/skillshop/internal/core/cart"
	"github.com/hay-kot/skillshop/internal/core/catalog"
	"github.com/hay-kot/skillshop/internal/core/ident"
)

// Source loads catalog pages and mutates the cart.
type Source interface {
	ListCourses(ctx context.Context, q catalog.Query) (catalog.Page[catalog.Course], error)
	AddToCart(ctx context.Context, id ident.ID) (cart.Item, bool, error)
}

// CartView reports cart membership.
type CartView interface {
	Contains(id ident.ID) bool
	Count() int
}

type keyMap struct {
	Next   key.Binding
	Prev   key.Binding
	Add    key.Binding
	Detail key.Binding
	Back   key.Binding
}

var keys = keyMap{
	Next:   key.NewBinding(key.WithKeys("n", "right"), key.WithHelp("n", "next page")),
	Prev:   key.NewBinding(key.WithKeys("p", "left"), key.WithHelp("p", "prev page")),
	Add:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add to cart")),
	Detail: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
	Back:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
}

type pageLoadedMsg struct {
	page catalog.Page[catalog.Course]
	err  error
}

type addedMsg struct {
	item  cart.Item
	added bool
	err   error
}

// Model is the catalog browser.
type Model struct {
	ctx    context.Context
	source Source
	cart   CartView
	query  catalog.Query

	list    list.Model
	page    catalog.Page[catalog.Course]
	detail  string
	status  string
	err     error
	loading bool
	width   int
	height  int
}

// New creates a browser starting at query.
func New(ctx context.Context, source Source, cartView CartView, query catalog.Query) Model {
	l := list.New(nil, CourseDelegate{}, 0, 0)
	l.Title = "Courses"
	l.Styles.Title = titleStyle
	l.SetShowStatusBar(false)
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.Detail, keys.Next, keys.Prev}
	}

	if query.Page < 1 {
		query.Page = 1
	}

	return Model{
		ctx:     ctx,
		source:  source,
		cart:    cartView,
		query:   query,
		list:    l,
		loading: true,
	}
}

// Init loads the first page.
func (m Model) Init() tea.Cmd {
	return m.load(m.query)
}

func (m Model) load(q catalog.Query) tea.Cmd {
	return func() tea.Msg {
		page, err := m.source.ListCourses(m.ctx, q)
		return pageLoadedMsg{page: page, err: err}
	}
}

func (m Model) add(id ident.ID) tea.Cmd {
	return func() tea.Msg {
		item, added, err := m.source.AddToCart(m.ctx, id)
		return addedMsg{item: item, added: added, err: err}
	}
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.list.SetSize(msg.Width, msg.Height-2)
		return m, nil

	case pageLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.page = msg.page
		m.query.Page = msg.page.Page
		m.list.Title = fmt.Sprintf("Courses (page %d of %d)", msg.page.Page, max(msg.page.TotalPages(), 1))
		cmd := m.list.SetItems(m.items())
		return m, cmd

	case addedMsg:
		switch {
		case msg.err != nil:
			m.err = msg.err
		case msg.added:
			m.status = fmt.Sprintf("Added %q to cart (%d items)", msg.item.Title, m.cart.Count())
		default:
			m.status = fmt.Sprintf("%q is already in your cart", msg.item.Title)
		}
		cmd := m.list.SetItems(m.items())
		return m, cmd

	case tea.KeyMsg:
		if m.detail != "" {
			if key.Matches(msg, keys.Back) || msg.String() == "q" {
				m.detail = ""
				return m, nil
			}
			if key.Matches(msg, keys.Add) {
				return m, m.addSelected()
			}
			return m, nil
		}

		if m.list.FilterState() == list.Filtering {
			break
		}

		switch {
		case key.Matches(msg, keys.Next):
			if m.page.HasNext() && !m.loading {
				m.loading = true
				q := m.query
				q.Page++
				return m, m.load(q)
			}
			return m, nil
		case key.Matches(msg, keys.Prev):
			if m.query.Page > 1 && !m.loading {
				m.loading = true
				q := m.query
				q.Page--
				return m, m.load(q)
			}
			return m, nil
		case key.Matches(msg, keys.Add):
			return m, m.addSelected()
		case key.Matches(msg, keys.Detail):
			if ci, ok := m.list.SelectedItem().(CourseItem); ok {
				m.detail = renderDetail(ci.Course, m.width)
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) addSelected() tea.Cmd {
	ci, ok := m.list.SelectedItem().(CourseItem)
	if !ok {
		return nil
	}
	return m.add(ci.Course.ID)
}

func (m Model) items() []list.Item {
	items := make([]list.Item, len(m.page.Items))
	for i, c := range m.page.Items {
		items[i] = CourseItem{Course: c, InCart: m.cart.Contains(c.ID)}
	}
	return items
}

// View renders the browser.
func (m Model) View() string {
	if m.detail != "" {
		return m.detail + "\n" + statusStyle.Render("esc back • a add to cart")
	}

	var b strings.Builder
	b.WriteString(m.list.View())
	b.WriteString("\n")

	switch {
	case m.err != nil:
		b.WriteString(errorStyle.Render(m.err.Error()))
	case m.loading:
		b.WriteString(statusStyle.Render("Loading..."))
	case m.status != "":
		b.WriteString(statusStyle.Render(m.status))
	}

	return b.String()
}

// renderDetail renders a course as markdown.
func renderDetail(c catalog.Course, width int) string {
	md := CourseMarkdown(c)
	if width <= 0 {
		width = 80
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("tokyo-night"),
		glamour.WithWordWrap(width-4),
	)
	if err != nil {
		return detailStyle.Render(md)
	}

	rendered, err := renderer.Render(md)
	if err != nil {
		return detailStyle.Render(md)
	}
	return detailStyle.Render(strings.TrimSpace(rendered))
}

// CourseMarkdown formats a course as a markdown document.
func CourseMarkdown(c catalog.Course) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", c.DisplayTitle())
	fmt.Fprintf(&b, "**$%.2f** · %s · ★ %.1f", c.Price, c.Level, c.Rating)
	if c.StudentsCount > 0 {
		fmt.Fprintf(&b, " · %d students", c.StudentsCount)
	}
	b.WriteString("\n\n")
	if c.InstructorName != "" {
		fmt.Fprintf(&b, "Instructor: *%s*\n\n", c.InstructorName)
	}
	if c.CategoryName != "" {
		fmt.Fprintf(&b, "Category: %s\n\n", c.CategoryName)
	}
	if c.Duration > 0 {
		fmt.Fprintf(&b, "Duration: %d hours\n\n", c.Duration)
	}
	if desc := strings.TrimSpace(c.Description); desc != "" {
		b.WriteString(desc)
		b.WriteString("\n")
	}
	return b.String()
}
