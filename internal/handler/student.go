package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/gradejournal/internal/model"
	"github.com/deppfellow/gradejournal/internal/server"
	"github.com/deppfellow/gradejournal/internal/service"
)

type StudentHandler struct {
	Handler
	journal *service.JournalService
}

func NewStudentHandler(s *server.Server, journal *service.JournalService) *StudentHandler {
	return &StudentHandler{
		Handler: NewHandler(s),
		journal: journal,
	}
}

func (h *StudentHandler) CreateStudent(c echo.Context, payload *model.CreateStudentPayload) (*model.Student, error) {
	return h.journal.CreateStudent(c.Request().Context(), *payload.Name)
}

func (h *StudentHandler) ListStudents(c echo.Context, _ *model.ListPayload) ([]model.Student, error) {
	return h.journal.ListStudents(c.Request().Context())
}

func (h *StudentHandler) DeleteStudent(c echo.Context, payload *model.DeletePayload) (model.StatusResponse, error) {
	if err := h.journal.DeleteStudent(c.Request().Context(), payload.ID); err != nil {
		return model.StatusResponse{}, err
	}
	return model.StatusDeleted, nil
}
