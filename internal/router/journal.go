package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/gradejournal/internal/handler"
	"github.com/deppfellow/gradejournal/internal/model"
)

// registerJournalRoutes mounts the JSON record API.
func registerJournalRoutes(r *echo.Echo, h *handler.Handlers) {
	students := r.Group("/students")
	students.POST("", handler.Handle(h.Student.Handler, h.Student.CreateStudent, http.StatusOK, &model.CreateStudentPayload{}))
	students.GET("", handler.Handle(h.Student.Handler, h.Student.ListStudents, http.StatusOK, &model.ListPayload{}))
	students.DELETE("/:id", handler.Handle(h.Student.Handler, h.Student.DeleteStudent, http.StatusOK, &model.DeletePayload{}))

	subjects := r.Group("/subjects")
	subjects.POST("", handler.Handle(h.Subject.Handler, h.Subject.CreateSubject, http.StatusOK, &model.CreateSubjectPayload{}))
	subjects.GET("", handler.Handle(h.Subject.Handler, h.Subject.ListSubjects, http.StatusOK, &model.ListPayload{}))
	subjects.DELETE("/:id", handler.Handle(h.Subject.Handler, h.Subject.DeleteSubject, http.StatusOK, &model.DeletePayload{}))

	grades := r.Group("/grades")
	grades.POST("", handler.Handle(h.Grade.Handler, h.Grade.SubmitGrade, http.StatusOK, &model.SubmitGradePayload{}))
	grades.GET("", handler.Handle(h.Grade.Handler, h.Grade.ListGrades, http.StatusOK, &model.ListPayload{}))
}

func registerFrontendRoutes(r *echo.Echo, h *handler.Handlers) {
	r.GET("/", h.Frontend.ServeIndex)
}
