// Package service contains the business logic between the handlers and
// the repositories.
package service

import (
	"github.com/deppfellow/gradejournal/internal/repository"
	"github.com/deppfellow/gradejournal/internal/server"
)

type Services struct {
	Journal   *JournalService
	AdminAuth *AdminAuthService
}

func NewServices(s *server.Server, repos *repository.Repositories) (*Services, error) {
	return &Services{
		Journal:   NewJournalService(repos),
		AdminAuth: NewAdminAuthService(s),
	}, nil
}
