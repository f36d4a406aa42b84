package service

import (
	"context"

	"github.com/deppfellow/gradejournal/internal/model"
	"github.com/deppfellow/gradejournal/internal/repository"
)

// JournalService implements the record operations behind the JSON API.
type JournalService struct {
	repos *repository.Repositories
}

func NewJournalService(repos *repository.Repositories) *JournalService {
	return &JournalService{repos: repos}
}

func (s *JournalService) CreateStudent(ctx context.Context, name string) (*model.Student, error) {
	return s.repos.Students.Create(ctx, name)
}

func (s *JournalService) ListStudents(ctx context.Context) ([]model.Student, error) {
	return s.repos.Students.List(ctx)
}

func (s *JournalService) DeleteStudent(ctx context.Context, id int64) error {
	return s.repos.Students.Delete(ctx, id)
}

func (s *JournalService) CreateSubject(ctx context.Context, name string) (*model.Subject, error) {
	return s.repos.Subjects.Create(ctx, name)
}

func (s *JournalService) ListSubjects(ctx context.Context) ([]model.Subject, error) {
	return s.repos.Subjects.List(ctx)
}

func (s *JournalService) DeleteSubject(ctx context.Context, id int64) error {
	return s.repos.Subjects.Delete(ctx, id)
}

// SubmitGrade records a score, replacing any earlier score for the same
// student and subject. Unknown ids are rejected by the foreign keys.
func (s *JournalService) SubmitGrade(ctx context.Context, studentID, subjectID int64, score int) (*model.Grade, error) {
	return s.repos.Grades.Upsert(ctx, studentID, subjectID, score)
}

func (s *JournalService) ListGrades(ctx context.Context) ([]model.Grade, error) {
	return s.repos.Grades.List(ctx)
}
