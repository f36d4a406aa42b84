package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/gradejournal/internal/model"
	"github.com/deppfellow/gradejournal/internal/server"
	"github.com/deppfellow/gradejournal/internal/service"
)

type GradeHandler struct {
	Handler
	journal *service.JournalService
}

func NewGradeHandler(s *server.Server, journal *service.JournalService) *GradeHandler {
	return &GradeHandler{
		Handler: NewHandler(s),
		journal: journal,
	}
}

// SubmitGrade creates the grade or overwrites the score of the existing
// grade for the same student and subject.
func (h *GradeHandler) SubmitGrade(c echo.Context, payload *model.SubmitGradePayload) (model.StatusResponse, error) {
	_, err := h.journal.SubmitGrade(c.Request().Context(), *payload.StudentID, *payload.SubjectID, *payload.Score)
	if err != nil {
		return model.StatusResponse{}, err
	}
	return model.StatusOK, nil
}

func (h *GradeHandler) ListGrades(c echo.Context, _ *model.ListPayload) ([]model.Grade, error) {
	return h.journal.ListGrades(c.Request().Context())
}
