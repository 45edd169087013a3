package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hay-kot/skillshop/internal/core/catalog"
)

// CourseItem wraps a course for the list component.
type CourseItem struct {
	Course catalog.Course
	InCart bool
}

// FilterValue returns the value used for filtering.
func (i CourseItem) FilterValue() string {
	return i.Course.DisplayTitle() + " " + i.Course.InstructorName + " " + i.Course.CategoryName
}

// CourseDelegate renders course items.
type CourseDelegate struct{}

// Height returns the height of each item.
func (d CourseDelegate) Height() int {
	return 2
}

// Spacing returns the spacing between items.
func (d CourseDelegate) Spacing() int {
	return 1
}

// Update handles item updates.
func (d CourseDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render renders a single item.
func (d CourseDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ci, ok := item.(CourseItem)
	if !ok {
		return
	}

	c := ci.Course
	title := c.DisplayTitle()
	style := normalStyle
	if index == m.Index() {
		style = selectedStyle
		title = "> " + title
	} else {
		title = "  " + title
	}

	line := style.Render(title) + "  " + priceStyle.Render(fmt.Sprintf("$%.2f", c.Price))
	if ci.InCart {
		line += "  " + inCartStyle.Render("in cart")
	}

	desc := fmt.Sprintf("%s • %s • ★ %.1f", c.Level, c.InstructorName, c.Rating)

	_, _ = fmt.Fprintf(w, "%s\n", line)
	_, _ = fmt.Fprintf(w, "    %s", mutedStyle.Render(desc))
}
