package admin

import (
	"context"
	"net/url"
	"strconv"

	"github.com/deppfellow/gradejournal/internal/model"
	"github.com/deppfellow/gradejournal/internal/repository"
)

// GradeView shows grades with the student and subject by name. The form
// picks them from select boxes.
type GradeView struct {
	repos *repository.Repositories
}

func NewGradeView(repos *repository.Repositories) *GradeView {
	return &GradeView{repos: repos}
}

func (v *GradeView) Identity() string   { return "grade" }
func (v *GradeView) Name() string       { return "Grade" }
func (v *GradeView) NamePlural() string { return "Grades" }
func (v *GradeView) Icon() string       { return "fa fa-star" }

func (v *GradeView) Columns() []Column {
	return columns("id", "student", "subject", "score")
}

func (v *GradeView) record(grade *model.Grade) Record {
	var student, subject string
	if grade.Student != nil {
		student = grade.Student.Name
	}
	if grade.Subject != nil {
		subject = grade.Subject.Name
	}

	return Record{
		ID:    grade.ID,
		Cells: []string{formatID(grade.ID), student, subject, strconv.Itoa(grade.Score)},
	}
}

func (v *GradeView) List(ctx context.Context) ([]Record, error) {
	grades, err := v.repos.Grades.List(ctx)
	if err != nil {
		return nil, err
	}

	records := make([]Record, 0, len(grades))
	for i := range grades {
		records = append(records, v.record(&grades[i]))
	}
	return records, nil
}

func (v *GradeView) Get(ctx context.Context, id int64) (Record, error) {
	grade, err := v.repos.Grades.Get(ctx, id)
	if err != nil {
		return Record{}, err
	}
	return v.record(grade), nil
}

func (v *GradeView) FormValues(ctx context.Context, id int64) (url.Values, error) {
	grade, err := v.repos.Grades.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return url.Values{
		"student_id": {formatID(grade.StudentID)},
		"subject_id": {formatID(grade.SubjectID)},
		"score":      {strconv.Itoa(grade.Score)},
	}, nil
}

func (v *GradeView) Fields(ctx context.Context, values url.Values) ([]Field, error) {
	students, err := v.repos.Students.List(ctx)
	if err != nil {
		return nil, err
	}
	subjects, err := v.repos.Subjects.List(ctx)
	if err != nil {
		return nil, err
	}

	studentOptions := make([]Option, 0, len(students))
	for _, s := range students {
		value := formatID(s.ID)
		studentOptions = append(studentOptions, Option{Value: value, Label: s.Name, Selected: value == values.Get("student_id")})
	}

	subjectOptions := make([]Option, 0, len(subjects))
	for _, s := range subjects {
		value := formatID(s.ID)
		subjectOptions = append(subjectOptions, Option{Value: value, Label: s.Name, Selected: value == values.Get("subject_id")})
	}

	return []Field{
		{Name: "student_id", Label: "Student", Type: "select", Value: values.Get("student_id"), Options: studentOptions},
		{Name: "subject_id", Label: "Subject", Type: "select", Value: values.Get("subject_id"), Options: subjectOptions},
		{Name: "score", Label: "Score", Type: "number", Value: values.Get("score")},
	}, nil
}

func (v *GradeView) Create(ctx context.Context, form url.Values) error {
	r := newFormReader(form)
	grade := &model.Grade{
		StudentID: r.Int64("student_id"),
		SubjectID: r.Int64("subject_id"),
		Score:     r.Int("score"),
	}
	if err := r.Err(); err != nil {
		return err
	}

	return v.repos.Grades.Create(ctx, grade)
}

func (v *GradeView) Update(ctx context.Context, id int64, form url.Values) error {
	r := newFormReader(form)
	studentID := r.Int64("student_id")
	subjectID := r.Int64("subject_id")
	score := r.Int("score")
	if err := r.Err(); err != nil {
		return err
	}

	_, err := v.repos.Grades.Update(ctx, id, studentID, subjectID, score)
	return err
}

func (v *GradeView) Delete(ctx context.Context, id int64) error {
	return v.repos.Grades.Delete(ctx, id)
}
