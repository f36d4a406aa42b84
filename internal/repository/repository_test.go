package repository_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/deppfellow/gradejournal/internal/errs"
	"github.com/deppfellow/gradejournal/internal/model"
	"github.com/deppfellow/gradejournal/internal/repository"
	"github.com/deppfellow/gradejournal/internal/sqlerr"
	"github.com/deppfellow/gradejournal/internal/testutil"
)

func newRepos(t *testing.T) *repository.Repositories {
	t.Helper()
	s := testutil.NewTestServer(t, testutil.NewTestConfig(t))
	return repository.NewRepositories(s)
}

func requireStatus(t *testing.T, err error, status int) {
	t.Helper()
	var httpErr *errs.HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("error = %v (%T), want *errs.HTTPError", err, err)
	}
	if httpErr.Status != status {
		t.Fatalf("status = %d, want %d", httpErr.Status, status)
	}
}

func TestStudentRepository_CreateListDelete(t *testing.T) {
	ctx := context.Background()
	repos := newRepos(t)

	alice, err := repos.Students.Create(ctx, "Alice")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if alice.ID == 0 || alice.Name != "Alice" {
		t.Fatalf("Create() = %+v", alice)
	}
	if _, err := repos.Students.Create(ctx, "Bob"); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	students, err := repos.Students.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(students) != 2 || students[0].Name != "Alice" || students[1].Name != "Bob" {
		t.Fatalf("List() = %+v, want Alice then Bob", students)
	}

	if err := repos.Students.Delete(ctx, alice.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	students, _ = repos.Students.List(ctx)
	if len(students) != 1 || students[0].Name != "Bob" {
		t.Fatalf("List() after delete = %+v", students)
	}
}

func TestNamedRepository_List_EmptyIsNotNil(t *testing.T) {
	repos := newRepos(t)

	subjects, err := repos.Subjects.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if subjects == nil || len(subjects) != 0 {
		t.Fatalf("List() = %#v, want empty non-nil slice", subjects)
	}
}

func TestNamedRepository_DuplicateName_UniqueViolation(t *testing.T) {
	ctx := context.Background()
	repos := newRepos(t)

	if _, err := repos.Subjects.Create(ctx, "Math"); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	_, err := repos.Subjects.Create(ctx, "Math")
	if err == nil {
		t.Fatal("second Create() error = nil, want unique violation")
	}
	if code := sqlerr.ErrCode(err); code != sqlerr.UniqueViolation {
		t.Fatalf("ErrCode() = %q, want %q", code, sqlerr.UniqueViolation)
	}

	var httpErr *errs.HTTPError
	if !errors.As(sqlerr.HandleError(err), &httpErr) || httpErr.Code != "SUBJECT_ALREADY_EXISTS" {
		t.Fatalf("HandleError() = %v, want SUBJECT_ALREADY_EXISTS", httpErr)
	}

	subjects, _ := repos.Subjects.List(ctx)
	if len(subjects) != 1 {
		t.Fatalf("rows = %d, want 1", len(subjects))
	}
}

func TestNamedRepository_MissingID_NotFound(t *testing.T) {
	ctx := context.Background()
	repos := newRepos(t)

	err := repos.Students.Delete(ctx, 42)
	requireStatus(t, err, http.StatusNotFound)
	if err.Error() != "Student not found" {
		t.Errorf("message = %q, want Student not found", err.Error())
	}

	_, err = repos.Subjects.Get(ctx, 42)
	requireStatus(t, err, http.StatusNotFound)
	if err.Error() != "Subject not found" {
		t.Errorf("message = %q, want Subject not found", err.Error())
	}

	_, err = repos.Subjects.Rename(ctx, 42, "Physics")
	requireStatus(t, err, http.StatusNotFound)
}

func TestNamedRepository_Rename(t *testing.T) {
	ctx := context.Background()
	repos := newRepos(t)

	subject, _ := repos.Subjects.Create(ctx, "Maths")
	renamed, err := repos.Subjects.Rename(ctx, subject.ID, "Mathematics")
	if err != nil {
		t.Fatalf("Rename() error = %v", err)
	}
	if renamed.ID != subject.ID || renamed.Name != "Mathematics" {
		t.Fatalf("Rename() = %+v", renamed)
	}

	got, err := repos.Subjects.Get(ctx, subject.ID)
	if err != nil || got.Name != "Mathematics" {
		t.Fatalf("Get() = %+v, %v", got, err)
	}
}

func TestGradeRepository_Upsert_OverwritesScore(t *testing.T) {
	ctx := context.Background()
	repos := newRepos(t)

	student, _ := repos.Students.Create(ctx, "Alice")
	subject, _ := repos.Subjects.Create(ctx, "Math")

	if _, err := repos.Grades.Upsert(ctx, student.ID, subject.ID, 80); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if _, err := repos.Grades.Upsert(ctx, student.ID, subject.ID, 95); err != nil {
		t.Fatalf("second Upsert() error = %v", err)
	}

	grades, err := repos.Grades.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(grades) != 1 {
		t.Fatalf("grades = %d, want 1", len(grades))
	}
	if grades[0].Score != 95 {
		t.Errorf("Score = %d, want 95", grades[0].Score)
	}
	if grades[0].Student == nil || grades[0].Student.Name != "Alice" {
		t.Errorf("Student not preloaded: %+v", grades[0].Student)
	}
	if grades[0].Subject == nil || grades[0].Subject.Name != "Math" {
		t.Errorf("Subject not preloaded: %+v", grades[0].Subject)
	}
}

func TestGradeRepository_Upsert_NewPairAddsRow(t *testing.T) {
	ctx := context.Background()
	repos := newRepos(t)

	student, _ := repos.Students.Create(ctx, "Alice")
	math, _ := repos.Subjects.Create(ctx, "Math")
	art, _ := repos.Subjects.Create(ctx, "Art")

	_, _ = repos.Grades.Upsert(ctx, student.ID, math.ID, 70)
	_, _ = repos.Grades.Upsert(ctx, student.ID, art.ID, 60)

	grades, _ := repos.Grades.List(ctx)
	if len(grades) != 2 {
		t.Fatalf("grades = %d, want 2", len(grades))
	}
}

func TestGradeRepository_UnknownStudent_Rejected(t *testing.T) {
	ctx := context.Background()
	repos := newRepos(t)

	subject, _ := repos.Subjects.Create(ctx, "Math")

	_, err := repos.Grades.Upsert(ctx, 999, subject.ID, 50)
	if err == nil {
		t.Fatal("Upsert() error = nil, want foreign key violation")
	}
	if code := sqlerr.ErrCode(err); code != sqlerr.ForeignKeyViolation {
		t.Fatalf("ErrCode() = %q, want %q", code, sqlerr.ForeignKeyViolation)
	}

	grades, _ := repos.Grades.List(ctx)
	if len(grades) != 0 {
		t.Fatalf("grades = %d, want 0", len(grades))
	}
}

func TestGradeRepository_DeleteStudent_CascadesToGrades(t *testing.T) {
	ctx := context.Background()
	repos := newRepos(t)

	alice, _ := repos.Students.Create(ctx, "Alice")
	bob, _ := repos.Students.Create(ctx, "Bob")
	subject, _ := repos.Subjects.Create(ctx, "Math")
	_, _ = repos.Grades.Upsert(ctx, alice.ID, subject.ID, 80)
	_, _ = repos.Grades.Upsert(ctx, bob.ID, subject.ID, 60)

	if err := repos.Students.Delete(ctx, alice.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	grades, _ := repos.Grades.List(ctx)
	if len(grades) != 1 || grades[0].StudentID != bob.ID {
		t.Fatalf("grades after delete = %+v, want only Bob's", grades)
	}

	if err := repos.Subjects.Delete(ctx, subject.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	grades, _ = repos.Grades.List(ctx)
	if len(grades) != 0 {
		t.Fatalf("grades after subject delete = %d, want 0", len(grades))
	}
}

func TestGradeRepository_CreateUpdateDelete(t *testing.T) {
	ctx := context.Background()
	repos := newRepos(t)

	student, _ := repos.Students.Create(ctx, "Alice")
	math, _ := repos.Subjects.Create(ctx, "Math")
	art, _ := repos.Subjects.Create(ctx, "Art")

	grade := &model.Grade{StudentID: student.ID, SubjectID: math.ID, Score: 40}
	if err := repos.Grades.Create(ctx, grade); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	duplicate := &model.Grade{StudentID: student.ID, SubjectID: math.ID, Score: 10}
	if err := repos.Grades.Create(ctx, duplicate); sqlerr.ErrCode(err) != sqlerr.UniqueViolation {
		t.Fatalf("duplicate Create() error = %v, want unique violation", err)
	}

	if _, err := repos.Grades.Update(ctx, grade.ID, student.ID, art.ID, 75); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	got, err := repos.Grades.Get(ctx, grade.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.SubjectID != art.ID || got.Score != 75 || got.Subject.Name != "Art" {
		t.Fatalf("Get() = %+v", got)
	}

	if err := repos.Grades.Delete(ctx, grade.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	requireStatus(t, repos.Grades.Delete(ctx, grade.ID), http.StatusNotFound)

	_, err = repos.Grades.Update(ctx, grade.ID, student.ID, art.ID, 1)
	requireStatus(t, err, http.StatusNotFound)
}
