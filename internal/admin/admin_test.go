package admin_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/deppfellow/gradejournal/internal/admin"
	"github.com/deppfellow/gradejournal/internal/testutil"
)

// login signs in with the default credentials and returns the session
// cookie.
func login(t *testing.T, app *testutil.App) *http.Cookie {
	t.Helper()

	rec := app.Do(http.MethodPost, "/admin/login", "username=admin&password=admin123")
	if rec.Code != http.StatusFound {
		t.Fatalf("POST /admin/login = %d %s", rec.Code, rec.Body)
	}
	if loc := rec.Header().Get("Location"); loc != "/admin/" {
		t.Fatalf("redirect = %q, want /admin/", loc)
	}
	for _, c := range rec.Result().Cookies() {
		if c.Name == app.Server.Config.Admin.SessionCookie {
			return c
		}
	}
	t.Fatal("login set no session cookie")
	return nil
}

func TestLogin_ValidCredentials_GrantsAccess(t *testing.T) {
	app := testutil.NewApp(t)
	cookie := login(t, app)

	rec := app.Do(http.MethodGet, "/admin/", "", cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /admin/ = %d", rec.Code)
	}
	for _, name := range []string{"Students", "Subjects", "Grades"} {
		if !strings.Contains(rec.Body.String(), name) {
			t.Errorf("index is missing %s", name)
		}
	}
}

func TestLogin_WrongPassword_400NoSession(t *testing.T) {
	app := testutil.NewApp(t)

	rec := app.Do(http.MethodPost, "/admin/login", "username=admin&password=nope")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("POST /admin/login wrong password = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Invalid credentials.") {
		t.Errorf("login page does not show the error")
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Errorf("failed login set cookies: %v", rec.Result().Cookies())
	}
}

func TestProtectedPages_RedirectToLogin(t *testing.T) {
	app := testutil.NewApp(t)

	for _, path := range []string{"/admin/", "/admin/student/list", "/admin/grade/create", "/admin/subject/export/xlsx"} {
		rec := app.Do(http.MethodGet, path, "")
		if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/admin/login" {
			t.Errorf("GET %s = %d -> %q, want 302 -> /admin/login", path, rec.Code, rec.Header().Get("Location"))
		}
	}

	forged := &http.Cookie{Name: app.Server.Config.Admin.SessionCookie, Value: "admin_token"}
	if rec := app.Do(http.MethodGet, "/admin/", "", forged); rec.Code != http.StatusFound {
		t.Errorf("forged cookie got %d, want redirect", rec.Code)
	}
}

func TestLogout_RemovesAccess(t *testing.T) {
	app := testutil.NewApp(t)
	cookie := login(t, app)

	rec := app.Do(http.MethodGet, "/admin/logout", "", cookie)
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/admin/login" {
		t.Fatalf("GET /admin/logout = %d -> %q", rec.Code, rec.Header().Get("Location"))
	}

	rec = app.Do(http.MethodGet, "/admin/", "", cookie)
	if rec.Code != http.StatusFound {
		t.Fatalf("GET /admin/ after logout = %d, want 302", rec.Code)
	}
}

func TestStudentView_CreateEditDelete(t *testing.T) {
	ctx := context.Background()
	app := testutil.NewApp(t)
	cookie := login(t, app)

	rec := app.Do(http.MethodPost, "/admin/student/create", "name=Alice", cookie)
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/admin/student/list" {
		t.Fatalf("create = %d -> %q %s", rec.Code, rec.Header().Get("Location"), rec.Body)
	}

	students, _ := app.Repos.Students.List(ctx)
	if len(students) != 1 || students[0].Name != "Alice" {
		t.Fatalf("students = %+v", students)
	}
	id := students[0].ID

	rec = app.Do(http.MethodGet, "/admin/student/list", "", cookie)
	if !strings.Contains(rec.Body.String(), "Alice") {
		t.Fatalf("list page misses Alice: %s", rec.Body)
	}

	rec = app.Do(http.MethodPost, "/admin/student/edit/1", "name=Alicia", cookie)
	if rec.Code != http.StatusFound {
		t.Fatalf("edit = %d %s", rec.Code, rec.Body)
	}
	got, _ := app.Repos.Students.Get(ctx, id)
	if got.Name != "Alicia" {
		t.Fatalf("name after edit = %q", got.Name)
	}

	rec = app.Do(http.MethodGet, "/admin/student/details/1", "", cookie)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Alicia") {
		t.Fatalf("details = %d %s", rec.Code, rec.Body)
	}

	rec = app.Do(http.MethodPost, "/admin/student/delete", "pks=1", cookie)
	if rec.Code != http.StatusFound {
		t.Fatalf("delete = %d %s", rec.Code, rec.Body)
	}
	students, _ = app.Repos.Students.List(ctx)
	if len(students) != 0 {
		t.Fatalf("students after delete = %+v", students)
	}
}

func TestDelete_HTTPDeleteWithSeveralPks(t *testing.T) {
	ctx := context.Background()
	app := testutil.NewApp(t)
	cookie := login(t, app)

	for _, name := range []string{"Math", "Art", "Music"} {
		if _, err := app.Repos.Subjects.Create(ctx, name); err != nil {
			t.Fatalf("Create(%s) error = %v", name, err)
		}
	}

	rec := app.Do(http.MethodDelete, "/admin/subject/delete?pks=1,3", "", cookie)
	if rec.Code != http.StatusOK || rec.Body.String() != "/admin/subject/list" {
		t.Fatalf("DELETE = %d %q", rec.Code, rec.Body)
	}

	subjects, _ := app.Repos.Subjects.List(ctx)
	if len(subjects) != 1 || subjects[0].Name != "Art" {
		t.Fatalf("subjects = %+v, want only Art", subjects)
	}
}

func TestGradeView_CreateAndValidation(t *testing.T) {
	ctx := context.Background()
	app := testutil.NewApp(t)
	cookie := login(t, app)

	alice, _ := app.Repos.Students.Create(ctx, "Alice")
	math, _ := app.Repos.Subjects.Create(ctx, "Math")

	rec := app.Do(http.MethodGet, "/admin/grade/create", "", cookie)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Alice") || !strings.Contains(rec.Body.String(), "Math") {
		t.Fatalf("create form = %d, want select options for Alice and Math", rec.Code)
	}

	form := url.Values{"student_id": {"1"}, "subject_id": {"1"}, "score": {"abc"}}
	rec = app.Do(http.MethodPost, "/admin/grade/create", form.Encode(), cookie)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("non-integer score = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Not a valid integer value.") {
		t.Errorf("form does not show the field error")
	}

	form.Set("score", "88")
	rec = app.Do(http.MethodPost, "/admin/grade/create", form.Encode(), cookie)
	if rec.Code != http.StatusFound {
		t.Fatalf("create grade = %d %s", rec.Code, rec.Body)
	}

	grades, _ := app.Repos.Grades.List(ctx)
	if len(grades) != 1 || grades[0].StudentID != alice.ID || grades[0].SubjectID != math.ID || grades[0].Score != 88 {
		t.Fatalf("grades = %+v", grades)
	}

	rec = app.Do(http.MethodGet, "/admin/grade/list", "", cookie)
	if !strings.Contains(rec.Body.String(), "Alice") || !strings.Contains(rec.Body.String(), "88") {
		t.Fatalf("grade list = %s", rec.Body)
	}
}

func TestGradeView_DuplicatePair_ShowsClassifiedError(t *testing.T) {
	ctx := context.Background()
	app := testutil.NewApp(t)
	cookie := login(t, app)

	alice, _ := app.Repos.Students.Create(ctx, "Alice")
	math, _ := app.Repos.Subjects.Create(ctx, "Math")
	if _, err := app.Repos.Grades.Upsert(ctx, alice.ID, math.ID, 50); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	rec := app.Do(http.MethodPost, "/admin/grade/create", "student_id=1&subject_id=1&score=60", cookie)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("duplicate grade = %d, want 500", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "GRADE_ALREADY_EXISTS") {
		t.Errorf("form does not show the classified code: %s", rec.Body)
	}
}

func TestUnknownViewAndRecord_404(t *testing.T) {
	app := testutil.NewApp(t)
	cookie := login(t, app)

	if rec := app.Do(http.MethodGet, "/admin/course/list", "", cookie); rec.Code != http.StatusNotFound {
		t.Errorf("unknown view = %d, want 404", rec.Code)
	}
	if rec := app.Do(http.MethodGet, "/admin/student/details/9", "", cookie); rec.Code != http.StatusNotFound {
		t.Errorf("missing record = %d, want 404", rec.Code)
	}
	if rec := app.Do(http.MethodGet, "/admin/student/export/pdf", "", cookie); rec.Code != http.StatusNotFound {
		t.Errorf("unknown export format = %d, want 404", rec.Code)
	}
}

func TestExport_XLSX(t *testing.T) {
	ctx := context.Background()
	app := testutil.NewApp(t)
	cookie := login(t, app)

	_, _ = app.Repos.Students.Create(ctx, "Alice")
	_, _ = app.Repos.Students.Create(ctx, "Bob")

	rec := app.Do(http.MethodGet, "/admin/student/export/xlsx", "", cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("export = %d %s", rec.Code, rec.Body)
	}
	if ct := rec.Header().Get("Content-Type"); ct != admin.ContentTypeXLSX {
		t.Errorf("Content-Type = %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "students.xlsx") {
		t.Errorf("Content-Disposition = %q", cd)
	}

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Students")
	if err != nil {
		t.Fatalf("GetRows() error = %v", err)
	}
	want := [][]string{{"Id", "Name"}, {"1", "Alice"}, {"2", "Bob"}}
	if len(rows) != len(want) {
		t.Fatalf("rows = %v, want %v", rows, want)
	}
	for i := range want {
		if strings.Join(rows[i], ",") != strings.Join(want[i], ",") {
			t.Errorf("row %d = %v, want %v", i, rows[i], want[i])
		}
	}
}

func TestExport_CSV(t *testing.T) {
	ctx := context.Background()
	app := testutil.NewApp(t)
	cookie := login(t, app)

	_, _ = app.Repos.Students.Create(ctx, "Alice")
	_, _ = app.Repos.Students.Create(ctx, "Doe, John")

	rec := app.Do(http.MethodGet, "/admin/student/export/csv", "", cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("export = %d %s", rec.Code, rec.Body)
	}
	if ct := rec.Header().Get("Content-Type"); ct != admin.ContentTypeCSV {
		t.Errorf("Content-Type = %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "students.csv") {
		t.Errorf("Content-Disposition = %q", cd)
	}

	rows, err := csv.NewReader(rec.Body).ReadAll()
	if err != nil {
		t.Fatalf("ReadAll() error = %v\n%s", err, rec.Body)
	}
	want := [][]string{{"Id", "Name"}, {"1", "Alice"}, {"2", "Doe, John"}}
	if len(rows) != len(want) {
		t.Fatalf("rows = %q, want %q", rows, want)
	}
	for i := range want {
		if strings.Join(rows[i], "|") != strings.Join(want[i], "|") {
			t.Errorf("row %d = %q, want %q", i, rows[i], want[i])
		}
	}
}

func TestExport_JSON(t *testing.T) {
	ctx := context.Background()
	app := testutil.NewApp(t)

	alice, _ := app.Repos.Students.Create(ctx, "Alice")
	math, _ := app.Repos.Subjects.Create(ctx, "Math")
	_, _ = app.Repos.Grades.Upsert(ctx, alice.ID, math.ID, 91)

	view := admin.NewGradeView(app.Repos)
	filename, contentType, data, err := admin.Export(ctx, view, "json")
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if filename != "grades.json" || contentType != admin.ContentTypeJSON {
		t.Errorf("filename/content type = %q/%q", filename, contentType)
	}

	var rows []map[string]string
	if err := json.Unmarshal(data, &rows); err != nil {
		t.Fatalf("decode: %v\n%s", err, data)
	}
	if len(rows) != 1 || rows[0]["student"] != "Alice" || rows[0]["subject"] != "Math" || rows[0]["score"] != "91" {
		t.Fatalf("rows = %v", rows)
	}
}
