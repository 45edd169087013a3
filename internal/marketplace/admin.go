package marketplace

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/hay-kot/skillshop/internal/core/catalog"
	"github.com/hay-kot/skillshop/internal/core/ident"
)

// ImageExtensions lists the file types accepted by UploadImage.
var ImageExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".webp"}

// UploadResult is the outcome of one file in UploadImages.
type UploadResult struct {
	Path     string
	FilePath string
	Err      error
}

// DashboardStats returns the admin dashboard summary.
func (s *Service) DashboardStats(ctx context.Context) (catalog.DashboardStats, error) {
	if err := s.requireAdmin(); err != nil {
		return catalog.DashboardStats{}, err
	}

	var stats catalog.DashboardStats
	if err := s.api.Get(ctx, pathDashboardStats, nil, &stats); err != nil {
		return catalog.DashboardStats{}, fmt.Errorf("dashboard stats: %w", err)
	}
	return stats, nil
}

// AdminCourses returns one page of the course management list.
func (s *Service) AdminCourses(ctx context.Context, q catalog.Query) (catalog.Page[catalog.Course], error) {
	if err := s.requireAdmin(); err != nil {
		return catalog.Page[catalog.Course]{}, err
	}

	q = q.Normalize(catalog.AdminPageSize)
	q.Sort, q.CategoryID = "", ""

	// The management endpoint reports its total as totalCourses.
	var resp struct {
		Items        []catalog.Course `json:"items"`
		TotalCourses int              `json:"totalCourses"`
		TotalItems   int              `json:"totalItems"`
	}
	if err := s.api.Get(ctx, pathCourses, q.Values(), &resp); err != nil {
		return catalog.Page[catalog.Course]{}, fmt.Errorf("list courses: %w", err)
	}

	total := resp.TotalCourses
	if total == 0 {
		total = resp.TotalItems
	}
	return catalog.Page[catalog.Course]{
		Items:      resp.Items,
		TotalItems: total,
		Page:       q.Page,
		PageSize:   q.PageSize,
	}, nil
}

// CreateCourse validates and creates a course.
func (s *Service) CreateCourse(ctx context.Context, in catalog.CourseInput) (catalog.Course, error) {
	if err := s.requireAdmin(); err != nil {
		return catalog.Course{}, err
	}
	if err := in.Validate(); err != nil {
		return catalog.Course{}, err
	}

	var created catalog.Course
	if err := s.api.Post(ctx, pathCourses, in, &created); err != nil {
		return catalog.Course{}, fmt.Errorf("create course: %w", err)
	}
	s.log.Info().Str("course", created.ID.String()).Msg("course created")
	return created, nil
}

// UpdateCourse validates and replaces a course.
func (s *Service) UpdateCourse(ctx context.Context, id ident.ID, in catalog.CourseInput) (catalog.Course, error) {
	if err := s.requireAdmin(); err != nil {
		return catalog.Course{}, err
	}
	if err := in.Validate(); err != nil {
		return catalog.Course{}, err
	}

	var updated catalog.Course
	if err := s.api.Put(ctx, coursePath(id), in, &updated); err != nil {
		return catalog.Course{}, fmt.Errorf("update course %s: %w", id, err)
	}
	if updated.ID.IsZero() {
		updated.ID = id
	}
	s.log.Info().Str("course", id.String()).Msg("course updated")
	return updated, nil
}

// DeleteCourse removes a course.
func (s *Service) DeleteCourse(ctx context.Context, id ident.ID) error {
	if err := s.requireAdmin(); err != nil {
		return err
	}
	if err := s.api.Delete(ctx, coursePath(id)); err != nil {
		return fmt.Errorf("delete course %s: %w", id, err)
	}
	s.log.Info().Str("course", id.String()).Msg("course deleted")
	return nil
}

// CreateInstructor validates and creates an instructor.
func (s *Service) CreateInstructor(ctx context.Context, in catalog.InstructorInput) (catalog.Instructor, error) {
	if err := s.requireAdmin(); err != nil {
		return catalog.Instructor{}, err
	}
	if err := in.Validate(); err != nil {
		return catalog.Instructor{}, err
	}

	var created catalog.Instructor
	if err := s.api.Post(ctx, pathManageInstructors, in, &created); err != nil {
		return catalog.Instructor{}, fmt.Errorf("create instructor: %w", err)
	}
	s.log.Info().Str("instructor", created.ID.String()).Msg("instructor created")
	return created, nil
}

// UpdateInstructor validates and replaces an instructor.
func (s *Service) UpdateInstructor(ctx context.Context, id ident.ID, in catalog.InstructorInput) (catalog.Instructor, error) {
	if err := s.requireAdmin(); err != nil {
		return catalog.Instructor{}, err
	}
	if err := in.Validate(); err != nil {
		return catalog.Instructor{}, err
	}

	var updated catalog.Instructor
	if err := s.api.Put(ctx, instructorPath(id), in, &updated); err != nil {
		return catalog.Instructor{}, fmt.Errorf("update instructor %s: %w", id, err)
	}
	if updated.ID.IsZero() {
		updated.ID = id
	}
	s.log.Info().Str("instructor", id.String()).Msg("instructor updated")
	return updated, nil
}

// DeleteInstructor removes an instructor.
func (s *Service) DeleteInstructor(ctx context.Context, id ident.ID) error {
	if err := s.requireAdmin(); err != nil {
		return err
	}
	if err := s.api.Delete(ctx, instructorPath(id)); err != nil {
		return fmt.Errorf("delete instructor %s: %w", id, err)
	}
	s.log.Info().Str("instructor", id.String()).Msg("instructor deleted")
	return nil
}

// UploadImage uploads a local image and returns the server path to reference it by.
func (s *Service) UploadImage(ctx context.Context, path string) (string, error) {
	if err := s.requireAdmin(); err != nil {
		return "", err
	}
	return s.uploadImage(ctx, path)
}

func (s *Service) uploadImage(ctx context.Context, path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if !slices.Contains(ImageExtensions, ext) {
		return "", fmt.Errorf("%s: unsupported image type %q", path, ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open image: %w", err)
	}
	defer f.Close() //nolint:errcheck

	var resp struct {
		FilePath string `json:"filePath"`
	}
	if err := s.api.Upload(ctx, pathImageUpload, "file", filepath.Base(path), f, &resp); err != nil {
		return "", fmt.Errorf("upload %s: %w", path, err)
	}
	if resp.FilePath == "" {
		return "", fmt.Errorf("upload %s: response has no filePath", path)
	}

	s.log.Debug().Str("file", path).Str("path", resp.FilePath).Msg("image uploaded")
	return resp.FilePath, nil
}

// UploadImages uploads every image matching a doublestar glob pattern. Failures
// are reported per file; the returned error covers the pattern itself.
func (s *Service) UploadImages(ctx context.Context, pattern string) ([]UploadResult, error) {
	if err := s.requireAdmin(); err != nil {
		return nil, err
	}

	matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("expand %q: %w", pattern, err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no files match %q", pattern)
	}

	results := make([]UploadResult, 0, len(matches))
	for _, path := range matches {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		filePath, err := s.uploadImage(ctx, path)
		results = append(results, UploadResult{Path: path, FilePath: filePath, Err: err})
	}
	return results, nil
}

// UploadErrors joins the failures in results.
func UploadErrors(results []UploadResult) error {
	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, r.Err)
		}
	}
	return errors.Join(errs...)
}
