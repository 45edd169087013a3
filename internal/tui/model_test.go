package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/skillshop/internal/core/cart"
	"github.com/hay-kot/skillshop/internal/core/catalog"
	"github.com/hay-kot/skillshop/internal/core/ident"
)

type fakeSource struct {
	queries []catalog.Query
	inCart  map[ident.ID]bool
	err     error
}

func (f *fakeSource) ListCourses(_ context.Context, q catalog.Query) (catalog.Page[catalog.Course], error) {
	f.queries = append(f.queries, q)
	if f.err != nil {
		return catalog.Page[catalog.Course]{}, f.err
	}
	return catalog.Page[catalog.Course]{
		Items: []catalog.Course{
			{ID: "c1", Title: "Go", Price: 10, InstructorName: "Ada"},
			{ID: "c2", Title: "Rust", Price: 20, InstructorName: "Grace"},
		},
		TotalItems: 30,
		Page:       q.Page,
		PageSize:   12,
	}, nil
}

func (f *fakeSource) AddToCart(_ context.Context, id ident.ID) (cart.Item, bool, error) {
	added := !f.inCart[id]
	f.inCart[id] = true
	return cart.Item{ID: id, Title: "Course " + id.String()}, added, nil
}

func (f *fakeSource) Contains(id ident.ID) bool { return f.inCart[id] }
func (f *fakeSource) Count() int                { return len(f.inCart) }

func run(t *testing.T, m tea.Model, cmd tea.Cmd) tea.Model {
	t.Helper()
	for cmd != nil {
		msg := cmd()
		if msg == nil {
			return m
		}
		if _, ok := msg.(pageLoadedMsg); !ok {
			if _, ok := msg.(addedMsg); !ok {
				return m
			}
		}
		m, cmd = m.Update(msg)
	}
	return m
}

func newLoaded(t *testing.T) (Model, *fakeSource) {
	t.Helper()
	src := &fakeSource{inCart: map[ident.ID]bool{}}
	m := New(context.Background(), src, src, catalog.Query{})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	updated = run(t, updated, m.Init())
	return updated.(Model), src
}

func TestModel_LoadsFirstPage(t *testing.T) {
	m, src := newLoaded(t)

	require.Len(t, src.queries, 1)
	assert.Equal(t, 1, src.queries[0].Page)
	assert.Len(t, m.list.Items(), 2)
	assert.Contains(t, m.list.Title, "page 1 of 3")
	assert.False(t, m.loading)
}

func TestModel_Paging(t *testing.T) {
	m, src := newLoaded(t)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("n")})
	next = run(t, next, cmd)
	assert.Equal(t, 2, src.queries[1].Page)
	assert.Equal(t, 2, next.(Model).query.Page)

	prev, cmd := next.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("p")})
	run(t, prev, cmd)
	assert.Equal(t, 1, src.queries[2].Page)
}

func TestModel_PrevOnFirstPageIsNoop(t *testing.T) {
	m, src := newLoaded(t)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("p")})
	assert.Nil(t, cmd)
	assert.Len(t, src.queries, 1)
}

func TestModel_AddToCart(t *testing.T) {
	m, src := newLoaded(t)

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a")})
	updated = run(t, updated, cmd)

	assert.True(t, src.inCart["c1"])
	assert.Contains(t, updated.(Model).status, "Added")
	assert.True(t, updated.(Model).list.Items()[0].(CourseItem).InCart)

	again, cmd := updated.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a")})
	again = run(t, again, cmd)
	assert.Contains(t, again.(Model).status, "already")
}

func TestModel_LoadError(t *testing.T) {
	src := &fakeSource{inCart: map[ident.ID]bool{}, err: errors.New("api down")}
	m := New(context.Background(), src, src, catalog.Query{})

	updated := run(t, m, m.Init())

	assert.Contains(t, updated.View(), "api down")
}

func TestModel_Detail(t *testing.T) {
	m, _ := newLoaded(t)

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.NotEmpty(t, updated.(Model).detail)

	back, _ := updated.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Empty(t, back.(Model).detail)
}

func TestCourseMarkdown(t *testing.T) {
	md := CourseMarkdown(catalog.Course{
		Title: "Go", Price: 10, Level: catalog.LevelBeginner, Rating: 4.5,
		InstructorName: "Ada", Description: "Learn **Go**.",
	})

	assert.Contains(t, md, "# Go")
	assert.Contains(t, md, "$10.00")
	assert.Contains(t, md, "Beginner")
	assert.Contains(t, md, "Instructor: *Ada*")
	assert.Contains(t, md, "Learn **Go**.")
}
