package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/gradejournal/internal/server"
)

// FrontendHandler serves the single-page frontend.
type FrontendHandler struct {
	Handler
}

func NewFrontendHandler(s *server.Server) *FrontendHandler {
	return &FrontendHandler{
		Handler: NewHandler(s),
	}
}

// IndexPage is the data index.html is rendered with.
type IndexPage struct {
	Request *http.Request
	Title   string
}

// ServeIndex renders index.html through the echo renderer.
func (h *FrontendHandler) ServeIndex(c echo.Context) error {
	return c.Render(http.StatusOK, "index.html", IndexPage{
		Request: c.Request(),
		Title:   "Grade Journal",
	})
}
