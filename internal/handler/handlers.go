// Package handler is the HTTP layer: it binds and validates requests,
// calls the services and writes the responses.
package handler

import (
	"github.com/deppfellow/gradejournal/internal/admin"
	"github.com/deppfellow/gradejournal/internal/repository"
	"github.com/deppfellow/gradejournal/internal/server"
	"github.com/deppfellow/gradejournal/internal/service"
)

type Handlers struct {
	Health   *HealthHandler
	OpenAPI  *OpenAPIHandler
	Student  *StudentHandler
	Subject  *SubjectHandler
	Grade    *GradeHandler
	Frontend *FrontendHandler
	Admin    *admin.Console
}

func NewHandlers(s *server.Server, services *service.Services, repos *repository.Repositories) *Handlers {
	return &Handlers{
		Health:   NewHealthHandler(s),
		OpenAPI:  NewOpenAPIHandler(s),
		Student:  NewStudentHandler(s, services.Journal),
		Subject:  NewSubjectHandler(s, services.Journal),
		Grade:    NewGradeHandler(s, services.Journal),
		Frontend: NewFrontendHandler(s),
		Admin:    NewAdminConsole(services.AdminAuth, repos),
	}
}

// NewAdminConsole builds the console with the student, subject and grade
// views, in that order.
func NewAdminConsole(auth admin.AuthBackend, repos *repository.Repositories) *admin.Console {
	return admin.New(auth,
		admin.NewStudentView(repos.Students),
		admin.NewSubjectView(repos.Subjects),
		admin.NewGradeView(repos),
	)
}
