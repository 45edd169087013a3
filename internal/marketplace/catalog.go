package marketplace

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/hay-kot/skillshop/internal/core/catalog"
	"github.com/hay-kot/skillshop/internal/core/ident"
)

const (
	pathCatalogCourses    = "/catalog/courses"
	pathTopCourses        = "/catalog/courses/top"
	pathCategories        = "/catalog/categories"
	pathTopCategories     = "/catalog/categories/top"
	pathInstructors       = "/catalog/instructors"
	pathTopInstructors    = "/catalog/instructors/top"
	pathCourses           = "/courses"
	pathManageInstructors = "/instructors"
	pathDashboardStats    = "/admin/dashboard/stats"
	pathImageUpload       = "/fileupload/image"
)

func coursePath(id ident.ID) string {
	return pathCourses + "/" + url.PathEscape(id.String())
}

func instructorPath(id ident.ID) string {
	return pathManageInstructors + "/" + url.PathEscape(id.String())
}

// ListCourses returns one page of the storefront catalog.
func (s *Service) ListCourses(ctx context.Context, q catalog.Query) (catalog.Page[catalog.Course], error) {
	q = q.Normalize(s.config.Catalog.PageSize)
	if err := q.Validate(); err != nil {
		return catalog.Page[catalog.Course]{}, err
	}

	var page catalog.Page[catalog.Course]
	if err := s.api.Get(ctx, pathCatalogCourses, q.Values(), &page); err != nil {
		return catalog.Page[catalog.Course]{}, fmt.Errorf("list courses: %w", err)
	}
	page.Page, page.PageSize = q.Page, q.PageSize
	return page, nil
}

// Course fetches a single course.
func (s *Service) Course(ctx context.Context, id ident.ID) (catalog.Course, error) {
	if id.IsZero() {
		return catalog.Course{}, fmt.Errorf("course id is required")
	}

	var c catalog.Course
	if err := s.api.Get(ctx, coursePath(id), nil, &c); err != nil {
		return catalog.Course{}, fmt.Errorf("get course %s: %w", id, err)
	}
	return c, nil
}

// RelatedCourses returns up to catalog.RelatedCourseLimit other courses in the same
// category as c.
func (s *Service) RelatedCourses(ctx context.Context, c catalog.Course) ([]catalog.Course, error) {
	if c.CategoryID.IsZero() {
		return nil, nil
	}

	q := url.Values{}
	q.Set("categoryId", c.CategoryID.String())
	q.Set("pageSize", strconv.Itoa(catalog.RelatedCourseLimit))
	q.Set("excludeId", c.ID.String())

	var page catalog.Page[catalog.Course]
	if err := s.api.Get(ctx, pathCourses, q, &page); err != nil {
		return nil, fmt.Errorf("related courses: %w", err)
	}

	related := make([]catalog.Course, 0, catalog.RelatedCourseLimit)
	for _, rc := range page.Items {
		if rc.ID == c.ID {
			continue
		}
		related = append(related, rc)
		if len(related) == catalog.RelatedCourseLimit {
			break
		}
	}
	return related, nil
}

// TopCourses returns the featured courses shown on the landing page.
func (s *Service) TopCourses(ctx context.Context) ([]catalog.Course, error) {
	var courses []catalog.Course
	if err := s.api.Get(ctx, pathTopCourses, nil, &courses); err != nil {
		return nil, fmt.Errorf("top courses: %w", err)
	}
	return courses, nil
}

// TopCategories returns the most popular categories.
func (s *Service) TopCategories(ctx context.Context) ([]catalog.Category, error) {
	var categories []catalog.Category
	if err := s.api.Get(ctx, pathTopCategories, nil, &categories); err != nil {
		return nil, fmt.Errorf("top categories: %w", err)
	}
	return categories, nil
}

// TopInstructors returns the featured instructors.
func (s *Service) TopInstructors(ctx context.Context) ([]catalog.Instructor, error) {
	var instructors []catalog.Instructor
	if err := s.api.Get(ctx, pathTopInstructors, nil, &instructors); err != nil {
		return nil, fmt.Errorf("top instructors: %w", err)
	}
	return instructors, nil
}

// Categories returns every category.
func (s *Service) Categories(ctx context.Context) ([]catalog.Category, error) {
	var categories []catalog.Category
	if err := s.api.Get(ctx, pathCategories, nil, &categories); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// Instructors returns one page of instructors.
func (s *Service) Instructors(ctx context.Context, q catalog.Query) (catalog.Page[catalog.Instructor], error) {
	q = q.Normalize(catalog.AdminPageSize)
	q.Sort, q.CategoryID = "", ""

	var page catalog.Page[catalog.Instructor]
	if err := s.api.Get(ctx, pathInstructors, q.Values(), &page); err != nil {
		return catalog.Page[catalog.Instructor]{}, fmt.Errorf("list instructors: %w", err)
	}
	page.Page, page.PageSize = q.Page, q.PageSize
	return page, nil
}
