// Package catalog defines the course marketplace records returned by the API.
package catalog

import (
	"fmt"

	"github.com/hay-kot/skillshop/internal/core/ident"
)

// Level is the difficulty of a course.
type Level int

const (
	LevelAll Level = iota
	LevelBeginner
	LevelIntermediate
	LevelExpert
)

var levelNames = map[Level]string{
	LevelAll:          "All Levels",
	LevelBeginner:     "Beginner",
	LevelIntermediate: "Intermediate",
	LevelExpert:       "Expert",
}

func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return "Unknown"
}

// ParseLevel accepts a level number or name.
func ParseLevel(s string) (Level, error) {
	for l, name := range levelNames {
		if s == name || s == fmt.Sprint(int(l)) {
			return l, nil
		}
	}
	return 0, fmt.Errorf("unknown level %q", s)
}

// JobTitle is an instructor's role.
type JobTitle int

const (
	JobFullstack JobTitle = iota
	JobBackend
	JobFrontend
	JobDesigner
)

var jobTitleNames = map[JobTitle]string{
	JobFullstack: "Fullstack Developer",
	JobBackend:   "Backend Developer",
	JobFrontend:  "Frontend Developer",
	JobDesigner:  "UX/UI Designer",
}

func (j JobTitle) String() string {
	if name, ok := jobTitleNames[j]; ok {
		return name
	}
	return "Unknown"
}

// ParseJobTitle accepts a job title number or name.
func ParseJobTitle(s string) (JobTitle, error) {
	for j, name := range jobTitleNames {
		if s == name || s == fmt.Sprint(int(j)) {
			return j, nil
		}
	}
	return 0, fmt.Errorf("unknown job title %q", s)
}

// Course is a catalog entry. The storefront endpoints call the title "title" and the
// admin endpoints call it "name"; both are accepted.
type Course struct {
	ID             ident.ID `json:"id"`
	Title          string   `json:"title,omitempty"`
	Name           string   `json:"name,omitempty"`
	Description    string   `json:"description"`
	Price          float64  `json:"price"`
	Level          Level    `json:"level"`
	CategoryID     ident.ID `json:"categoryId"`
	CategoryName   string   `json:"categoryName,omitempty"`
	InstructorID   ident.ID `json:"instructorId"`
	InstructorName string   `json:"instructorName,omitempty"`
	ImagePath      string   `json:"imagePath,omitempty"`
	ThumbnailPath  string   `json:"thumbnailPath,omitempty"`
	Rating         float64  `json:"rating"`
	StudentsCount  int      `json:"studentsCount"`
	Duration       int      `json:"duration,omitempty"`
	CreatedAt      string   `json:"createdAt,omitempty"`
}

// DisplayTitle returns the course title whichever field carried it.
func (c Course) DisplayTitle() string {
	if c.Title != "" {
		return c.Title
	}
	return c.Name
}

// Image returns the course image path whichever field carried it.
func (c Course) Image() string {
	if c.ImagePath != "" {
		return c.ImagePath
	}
	return c.ThumbnailPath
}

// Category groups courses.
type Category struct {
	ID           ident.ID `json:"id"`
	Name         string   `json:"name"`
	CoursesCount int      `json:"coursesCount,omitempty"`
}

// Instructor teaches courses.
type Instructor struct {
	ID           ident.ID `json:"id"`
	Name         string   `json:"name"`
	Email        string   `json:"email,omitempty"`
	PhoneNumber  string   `json:"phoneNumber,omitempty"`
	JobTitle     JobTitle `json:"jobTitle"`
	Bio          string   `json:"bio,omitempty"`
	AvatarPath   string   `json:"avatarBase64,omitempty"`
	CoursesCount int      `json:"coursesCount,omitempty"`
	CreatedAt    string   `json:"createdAt,omitempty"`
}

// DashboardStats is the admin dashboard summary.
type DashboardStats struct {
	TotalInstructors     int `json:"totalInstructors"`
	TotalCategories      int `json:"totalCategories"`
	TotalCourses         int `json:"totalCourses"`
	MonthlySubscriptions int `json:"monthlySubscriptions"`
}

// CourseInput is the body of course create and update requests.
type CourseInput struct {
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Price         float64  `json:"price"`
	Level         Level    `json:"level"`
	CategoryID    ident.ID `json:"categoryId"`
	InstructorID  ident.ID `json:"instructorId"`
	ThumbnailPath string   `json:"thumbnailPath,omitempty"`
	Duration      int      `json:"duration"`
	Rating        float64  `json:"rating"`
}

// InstructorInput is the body of instructor create and update requests.
type InstructorInput struct {
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	PhoneNumber string   `json:"phoneNumber"`
	JobTitle    JobTitle `json:"jobTitle"`
	Bio         string   `json:"bio"`
	AvatarPath  string   `json:"avatarBase64,omitempty"`
}
