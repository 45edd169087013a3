package catalog

import (
	"encoding/json"
	"testing"

	"github.com/hay-kot/criterio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTotalPages(t *testing.T) {
	tests := []struct {
		total, size, want int
	}{
		{0, 12, 0},
		{1, 12, 1},
		{12, 12, 1},
		{13, 12, 2},
		{25, 10, 3},
		{5, 0, 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, TotalPages(tt.total, tt.size), "TotalPages(%d, %d)", tt.total, tt.size)
	}
}

func TestPage_HasNext(t *testing.T) {
	p := Page[Course]{TotalItems: 25, Page: 2, PageSize: 12}
	assert.Equal(t, 3, p.TotalPages())
	assert.True(t, p.HasNext())

	p.Page = 3
	assert.False(t, p.HasNext())
}

func TestQuery_Values(t *testing.T) {
	q := Query{Search: "go", Sort: SortRating}.Normalize(StorefrontPageSize)

	v := q.Values()
	assert.Equal(t, "1", v.Get("page"))
	assert.Equal(t, "12", v.Get("pageSize"))
	assert.Equal(t, "go", v.Get("search"))
	assert.Equal(t, "rating", v.Get("sort"))
	assert.False(t, v.Has("categoryId"))
}

func TestQuery_Validate(t *testing.T) {
	assert.NoError(t, Query{}.Validate())
	assert.NoError(t, Query{Sort: SortPriceHigh}.Validate())
	assert.Error(t, Query{Sort: "cheapest"}.Validate())
}

func TestLevel(t *testing.T) {
	assert.Equal(t, "Intermediate", LevelIntermediate.String())
	assert.Equal(t, "Unknown", Level(9).String())

	l, err := ParseLevel("3")
	require.NoError(t, err)
	assert.Equal(t, LevelExpert, l)

	l, err = ParseLevel("Beginner")
	require.NoError(t, err)
	assert.Equal(t, LevelBeginner, l)

	_, err = ParseLevel("wizard")
	assert.Error(t, err)
}

func TestJobTitle(t *testing.T) {
	assert.Equal(t, "UX/UI Designer", JobDesigner.String())
	assert.Equal(t, "Unknown", JobTitle(-1).String())

	j, err := ParseJobTitle("1")
	require.NoError(t, err)
	assert.Equal(t, JobBackend, j)

	j, err = ParseJobTitle("Frontend Developer")
	require.NoError(t, err)
	assert.Equal(t, JobFrontend, j)

	_, err = ParseJobTitle("astronaut")
	assert.Error(t, err)
}

func TestCourse_DecodesBothShapes(t *testing.T) {
	var storefront, admin Course
	require.NoError(t, json.Unmarshal([]byte(`{"id":"c1","title":"Go","imagePath":"/a.png","price":10}`), &storefront))
	require.NoError(t, json.Unmarshal([]byte(`{"id":7,"name":"Rust","thumbnailPath":"/b.png","createdAt":"2024-01-01T00:00:00"}`), &admin))

	assert.Equal(t, "Go", storefront.DisplayTitle())
	assert.Equal(t, "/a.png", storefront.Image())
	assert.Equal(t, "Rust", admin.DisplayTitle())
	assert.Equal(t, "/b.png", admin.Image())
	assert.Equal(t, "7", admin.ID.String())
}

func TestCourseInput_Validate(t *testing.T) {
	valid := CourseInput{
		Name:         "Go",
		Description:  "Learn Go",
		Price:        10,
		Level:        LevelBeginner,
		CategoryID:   "1",
		InstructorID: "2",
		Rating:       4,
	}
	assert.NoError(t, valid.Validate())

	bad := CourseInput{Price: -1, Level: 7, Rating: 6}
	err := bad.Validate()

	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)

	fields := map[string]bool{}
	for _, fe := range fieldErrs {
		fields[fe.Field] = true
	}
	for _, f := range []string{"name", "description", "price", "level", "categoryId", "instructorId", "rating"} {
		assert.True(t, fields[f], "expected error on %s", f)
	}
}

func TestInstructorInput_Validate(t *testing.T) {
	assert.NoError(t, InstructorInput{Name: "Ada", Email: "ada@example.com", JobTitle: JobBackend}.Validate())

	err := InstructorInput{Email: "nope", JobTitle: 12}.Validate()
	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Len(t, fieldErrs, 3)
}
