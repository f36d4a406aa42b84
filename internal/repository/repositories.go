package repository

import (
	"github.com/deppfellow/gradejournal/internal/model"
	"github.com/deppfellow/gradejournal/internal/server"
)

// Repositories groups the repositories handed to services and handlers.
type Repositories struct {
	Students *StudentRepository
	Subjects *SubjectRepository
	Grades   *GradeRepository
}

func NewRepositories(s *server.Server) *Repositories {
	return &Repositories{
		Students: NewNamedRepository[model.Student, *model.Student](s.DB.DB),
		Subjects: NewNamedRepository[model.Subject, *model.Subject](s.DB.DB),
		Grades:   NewGradeRepository(s.DB.DB),
	}
}
