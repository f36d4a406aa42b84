// Package admin is the server-rendered console for browsing and editing
// the journal's tables. Each table is exposed through a View; the
// console provides login, list, details, create, edit, delete and export
// pages for every registered view.
package admin

import (
	"bytes"
	"embed"
	"errors"
	"io/fs"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/gradejournal/internal/errs"
	"github.com/deppfellow/gradejournal/internal/lib/render"
	"github.com/deppfellow/gradejournal/internal/middleware"
	"github.com/deppfellow/gradejournal/internal/sqlerr"
)

// BasePath is where the console is mounted.
const BasePath = "/admin"

const consoleTitle = "Admin"

//go:embed templates/*.html
var templateFS embed.FS

// AuthBackend performs the console's login, logout and session checks.
type AuthBackend interface {
	Login(c echo.Context, username, password string) (bool, error)
	Logout(c echo.Context) error
	Authenticate(c echo.Context) (bool, error)
	Username(c echo.Context) string
}

type Console struct {
	auth       AuthBackend
	templates  *render.Templates
	views      []View
	byIdentity map[string]View
}

func New(auth AuthBackend, views ...View) *Console {
	pages, err := fs.Sub(templateFS, "templates")
	if err != nil {
		panic(err)
	}

	console := &Console{
		auth:       auth,
		templates:  render.New(pages, false, "layout.html"),
		byIdentity: make(map[string]View, len(views)),
	}
	for _, view := range views {
		console.AddView(view)
	}
	return console
}

func (a *Console) AddView(view View) {
	a.views = append(a.views, view)
	a.byIdentity[view.Identity()] = view
}

// Register mounts the console. requireAdmin guards every page except
// login and logout; loginLimiter guards the login form submission.
func (a *Console) Register(e *echo.Echo, requireAdmin, loginLimiter echo.MiddlewareFunc) {
	g := e.Group(BasePath)

	g.GET("/login", a.loginPage)
	g.POST("/login", a.login, loginLimiter)
	g.GET("/logout", a.logout)

	g.GET("", a.index, requireAdmin)
	g.GET("/:identity/list", a.list, requireAdmin)
	g.GET("/:identity/details/:id", a.details, requireAdmin)
	g.GET("/:identity/create", a.createPage, requireAdmin)
	g.POST("/:identity/create", a.create, requireAdmin)
	g.GET("/:identity/edit/:id", a.editPage, requireAdmin)
	g.POST("/:identity/edit/:id", a.edit, requireAdmin)
	g.POST("/:identity/delete", a.delete, requireAdmin)
	g.DELETE("/:identity/delete", a.delete, requireAdmin)
	g.GET("/:identity/export/:format", a.export, requireAdmin)
}

// page is the data handed to every template.
type page struct {
	Base     string
	Title    string
	Username string
	Views    []View

	View    View
	Columns []Column
	Records []Record
	Record  Record
	Fields  []Field
	Action  string
	Error   string
}

func (a *Console) render(c echo.Context, status int, name string, p *page) error {
	p.Base = BasePath
	p.Views = a.views
	p.Username = a.auth.Username(c)
	if p.Title == "" {
		p.Title = consoleTitle
	}

	var body bytes.Buffer
	if err := a.templates.Execute(&body, name, p); err != nil {
		return err
	}
	return c.HTMLBlob(status, body.Bytes())
}

func (a *Console) view(c echo.Context) (View, error) {
	view, ok := a.byIdentity[c.Param("identity")]
	if !ok {
		return nil, errs.NewNotFoundError("Page not found", false, nil)
	}
	return view, nil
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, errs.NewBadRequestError("Invalid id "+strconv.Quote(raw), false, nil, nil, nil)
	}
	return id, nil
}

func listURL(view View) string {
	return BasePath + "/" + view.Identity() + "/list"
}

func (a *Console) loginPage(c echo.Context) error {
	return a.render(c, http.StatusOK, "login.html", &page{Title: "Login"})
}

func (a *Console) login(c echo.Context) error {
	ok, err := a.auth.Login(c, c.FormValue("username"), c.FormValue("password"))
	if err != nil {
		return err
	}

	if !ok {
		middleware.GetLogger(c).Warn().Msg("admin login failed")
		return a.render(c, http.StatusBadRequest, "login.html", &page{
			Title: "Login",
			Error: "Invalid credentials.",
		})
	}

	middleware.GetLogger(c).Info().Msg("admin logged in")
	return c.Redirect(http.StatusFound, BasePath+"/")
}

func (a *Console) logout(c echo.Context) error {
	if err := a.auth.Logout(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusFound, BasePath+"/login")
}

func (a *Console) index(c echo.Context) error {
	return a.render(c, http.StatusOK, "index.html", &page{})
}

func (a *Console) list(c echo.Context) error {
	view, err := a.view(c)
	if err != nil {
		return err
	}

	records, err := view.List(c.Request().Context())
	if err != nil {
		return err
	}

	return a.render(c, http.StatusOK, "list.html", &page{
		Title:   view.NamePlural(),
		View:    view,
		Columns: view.Columns(),
		Records: records,
	})
}

func (a *Console) details(c echo.Context) error {
	view, err := a.view(c)
	if err != nil {
		return err
	}
	id, err := parseID(c.Param("id"))
	if err != nil {
		return err
	}

	record, err := view.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return a.render(c, http.StatusOK, "details.html", &page{
		Title:   view.Name() + " " + formatID(id),
		View:    view,
		Columns: view.Columns(),
		Record:  record,
	})
}

func (a *Console) createPage(c echo.Context) error {
	view, err := a.view(c)
	if err != nil {
		return err
	}

	fields, err := view.Fields(c.Request().Context(), nil)
	if err != nil {
		return err
	}

	return a.renderForm(c, http.StatusOK, view, "Create", BasePath+"/"+view.Identity()+"/create", fields, "")
}

func (a *Console) create(c echo.Context) error {
	view, err := a.view(c)
	if err != nil {
		return err
	}

	form, err := c.FormParams()
	if err != nil {
		return errs.NewBadRequestError("Invalid form", false, nil, nil, nil)
	}

	action := BasePath + "/" + view.Identity() + "/create"
	if err := view.Create(c.Request().Context(), form); err != nil {
		return a.formFailure(c, view, "Create", action, form, err)
	}

	return c.Redirect(http.StatusFound, listURL(view))
}

func (a *Console) editPage(c echo.Context) error {
	view, err := a.view(c)
	if err != nil {
		return err
	}
	id, err := parseID(c.Param("id"))
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	values, err := view.FormValues(ctx, id)
	if err != nil {
		return err
	}
	fields, err := view.Fields(ctx, values)
	if err != nil {
		return err
	}

	action := BasePath + "/" + view.Identity() + "/edit/" + formatID(id)
	return a.renderForm(c, http.StatusOK, view, "Edit", action, fields, "")
}

func (a *Console) edit(c echo.Context) error {
	view, err := a.view(c)
	if err != nil {
		return err
	}
	id, err := parseID(c.Param("id"))
	if err != nil {
		return err
	}

	form, err := c.FormParams()
	if err != nil {
		return errs.NewBadRequestError("Invalid form", false, nil, nil, nil)
	}

	action := BasePath + "/" + view.Identity() + "/edit/" + formatID(id)
	if err := view.Update(c.Request().Context(), id, form); err != nil {
		return a.formFailure(c, view, "Edit", action, form, err)
	}

	return c.Redirect(http.StatusFound, listURL(view))
}

// formFailure re-renders a submitted form. Coercion failures are shown
// next to their fields with a 400; storage failures are classified and
// shown as a banner with the classified status.
func (a *Console) formFailure(c echo.Context, view View, title, action string, form url.Values, cause error) error {
	fields, err := view.Fields(c.Request().Context(), form)
	if err != nil {
		return err
	}

	var formErr FormError
	if errors.As(cause, &formErr) {
		for i := range fields {
			fields[i].Error = formErr[fields[i].Name]
		}
		return a.renderForm(c, http.StatusBadRequest, view, title, action, fields, "")
	}

	var httpErr *errs.HTTPError
	if !errors.As(sqlerr.HandleError(cause), &httpErr) {
		return cause
	}
	if httpErr.Status == http.StatusNotFound {
		return httpErr
	}

	middleware.GetLogger(c).Error().Stack().Err(cause).
		Str("view", view.Identity()).
		Str("error_code", httpErr.Code).
		Msg("admin form submission failed")

	return a.renderForm(c, httpErr.Status, view, title, action, fields, httpErr.Message+" ("+httpErr.Code+")")
}

func (a *Console) renderForm(c echo.Context, status int, view View, title, action string, fields []Field, message string) error {
	return a.render(c, status, "form.html", &page{
		Title:  title + " " + view.Name(),
		View:   view,
		Fields: fields,
		Action: action,
		Error:  message,
	})
}

// delete removes every id in the comma-separated pks parameter. Form
// posts are redirected back to the list; DELETE requests get the list
// URL as a plain-text body.
func (a *Console) delete(c echo.Context) error {
	view, err := a.view(c)
	if err != nil {
		return err
	}

	pks := c.QueryParam("pks")
	if pks == "" {
		pks = c.FormValue("pks")
	}

	var ids []int64
	for _, raw := range strings.Split(pks, ",") {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		id, err := parseID(raw)
		if err != nil {
			return err
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return errs.NewBadRequestError("No records selected", false, nil, nil, nil)
	}

	ctx := c.Request().Context()
	for _, id := range ids {
		if err := view.Delete(ctx, id); err != nil {
			return err
		}
	}

	middleware.GetLogger(c).Info().
		Str("view", view.Identity()).
		Int("count", len(ids)).
		Msg("admin deleted records")

	if c.Request().Method == http.MethodDelete {
		return c.String(http.StatusOK, listURL(view))
	}
	return c.Redirect(http.StatusFound, listURL(view))
}

func (a *Console) export(c echo.Context) error {
	view, err := a.view(c)
	if err != nil {
		return err
	}

	format := c.Param("format")
	if _, ok := exporters[format]; !ok {
		return errs.NewNotFoundError("Unsupported export format", false, nil)
	}

	filename, contentType, data, err := Export(c.Request().Context(), view, format)
	if err != nil {
		return err
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename="+filename)
	return c.Blob(http.StatusOK, contentType, data)
}
