package model

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

// newValidator reports fields by their JSON name ("student_id").
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})
	return v
}

// Fields are pointers so that "required" checks presence only: an empty
// string is accepted, a missing key is not.

type CreateStudentPayload struct {
	Name *string `json:"name" validate:"required"`
}

func (p *CreateStudentPayload) Validate() error {
	return validate.Struct(p)
}

type CreateSubjectPayload struct {
	Name *string `json:"name" validate:"required"`
}

func (p *CreateSubjectPayload) Validate() error {
	return validate.Struct(p)
}

// SubmitGradePayload creates or overwrites the grade for a student/subject
// pair.
type SubmitGradePayload struct {
	StudentID *int64 `json:"student_id" validate:"required"`
	SubjectID *int64 `json:"subject_id" validate:"required"`
	Score     *int   `json:"score" validate:"required"`
}

func (p *SubmitGradePayload) Validate() error {
	return validate.Struct(p)
}

// DeletePayload carries the id path parameter of a delete route.
type DeletePayload struct {
	ID int64 `param:"id"`
}

func (p *DeletePayload) Validate() error {
	return nil
}

// ListPayload is the empty request of the list routes.
type ListPayload struct{}

func (p *ListPayload) Validate() error {
	return nil
}
