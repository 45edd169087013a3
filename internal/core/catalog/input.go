package catalog

import (
	"fmt"

	"github.com/hay-kot/criterio"

	"github.com/hay-kot/skillshop/internal/core/validate"
)

// Validate checks a course form before it is sent to the API.
func (in CourseInput) Validate() error {
	var errs criterio.FieldErrorsBuilder

	if err := validate.Required("name", in.Name); err != nil {
		errs = errs.Append("name", err)
	}
	if err := validate.Required("description", in.Description); err != nil {
		errs = errs.Append("description", err)
	}
	if err := validate.Price(in.Price); err != nil {
		errs = errs.Append("price", err)
	}
	if _, ok := levelNames[in.Level]; !ok {
		errs = errs.Append("level", fmt.Errorf("unknown level %d", in.Level))
	}
	if in.CategoryID.IsZero() {
		errs = errs.Append("categoryId", fmt.Errorf("category is required"))
	}
	if in.InstructorID.IsZero() {
		errs = errs.Append("instructorId", fmt.Errorf("instructor is required"))
	}
	if in.Duration < 0 {
		errs = errs.Append("duration", fmt.Errorf("duration cannot be negative"))
	}
	if in.Rating < 0 || in.Rating > 5 {
		errs = errs.Append("rating", fmt.Errorf("rating must be between 0 and 5"))
	}

	return errs.ToError()
}

// Validate checks an instructor form before it is sent to the API.
func (in InstructorInput) Validate() error {
	var errs criterio.FieldErrorsBuilder

	if err := validate.Required("name", in.Name); err != nil {
		errs = errs.Append("name", err)
	}
	if err := validate.Email(in.Email); err != nil {
		errs = errs.Append("email", err)
	}
	if _, ok := jobTitleNames[in.JobTitle]; !ok {
		errs = errs.Append("jobTitle", fmt.Errorf("unknown job title %d", in.JobTitle))
	}

	return errs.ToError()
}
