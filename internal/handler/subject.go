package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/gradejournal/internal/model"
	"github.com/deppfellow/gradejournal/internal/server"
	"github.com/deppfellow/gradejournal/internal/service"
)

type SubjectHandler struct {
	Handler
	journal *service.JournalService
}

func NewSubjectHandler(s *server.Server, journal *service.JournalService) *SubjectHandler {
	return &SubjectHandler{
		Handler: NewHandler(s),
		journal: journal,
	}
}

func (h *SubjectHandler) CreateSubject(c echo.Context, payload *model.CreateSubjectPayload) (*model.Subject, error) {
	return h.journal.CreateSubject(c.Request().Context(), *payload.Name)
}

func (h *SubjectHandler) ListSubjects(c echo.Context, _ *model.ListPayload) ([]model.Subject, error) {
	return h.journal.ListSubjects(c.Request().Context())
}

func (h *SubjectHandler) DeleteSubject(c echo.Context, payload *model.DeletePayload) (model.StatusResponse, error) {
	if err := h.journal.DeleteSubject(c.Request().Context(), payload.ID); err != nil {
		return model.StatusResponse{}, err
	}
	return model.StatusDeleted, nil
}
