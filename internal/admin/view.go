package admin

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Column is one display column of a list or details page.
type Column struct {
	Key   string
	Label string
}

// columns labels each key by title-casing it: "student_id" -> "Student Id".
func columns(keys ...string) []Column {
	titleCase := cases.Title(language.English)
	cols := make([]Column, 0, len(keys))
	for _, key := range keys {
		cols = append(cols, Column{Key: key, Label: titleCase.String(strings.ReplaceAll(key, "_", " "))})
	}
	return cols
}

// Record is one row as shown by the console: the primary key plus one
// display cell per column.
type Record struct {
	ID    int64
	Cells []string
}

// Option is a choice of a select field.
type Option struct {
	Value    string
	Label    string
	Selected bool
}

// Field is an input of the create/edit form.
type Field struct {
	Name    string
	Label   string
	Type    string // "text", "number" or "select"
	Value   string
	Options []Option
	Error   string
}

// View exposes one table to the console.
type View interface {
	Identity() string
	Name() string
	NamePlural() string
	Icon() string
	Columns() []Column

	List(ctx context.Context) ([]Record, error)
	Get(ctx context.Context, id int64) (Record, error)

	// FormValues returns the stored values of a record as form values.
	FormValues(ctx context.Context, id int64) (url.Values, error)

	// Fields builds the form, filled in from values.
	Fields(ctx context.Context, values url.Values) ([]Field, error)

	// Create and Update coerce the submitted form and write it. A form
	// that cannot be coerced yields a *FormError.
	Create(ctx context.Context, form url.Values) error
	Update(ctx context.Context, id int64, form url.Values) error

	Delete(ctx context.Context, id int64) error
}

// FormError maps field names to coercion errors.
type FormError map[string]string

func (e FormError) Error() string {
	parts := make([]string, 0, len(e))
	for field, msg := range e {
		parts = append(parts, field+": "+msg)
	}
	return "invalid form: " + strings.Join(parts, ", ")
}

const (
	errFieldRequired = "This field is required."
	errNotAnInteger  = "Not a valid integer value."
)

// formReader coerces form values and collects the failures.
type formReader struct {
	form   url.Values
	errors FormError
}

func newFormReader(form url.Values) *formReader {
	return &formReader{form: form, errors: FormError{}}
}

func (r *formReader) fail(name, msg string) {
	if _, ok := r.errors[name]; !ok {
		r.errors[name] = msg
	}
}

// String requires the key to be present; an empty value is accepted.
func (r *formReader) String(name string) string {
	values, ok := r.form[name]
	if !ok || len(values) == 0 {
		r.fail(name, errFieldRequired)
		return ""
	}
	return values[0]
}

func (r *formReader) Int64(name string) int64 {
	raw := strings.TrimSpace(r.form.Get(name))
	if raw == "" {
		r.fail(name, errFieldRequired)
		return 0
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		r.fail(name, errNotAnInteger)
		return 0
	}
	return v
}

func (r *formReader) Int(name string) int {
	v := r.Int64(name)
	if int64(int(v)) != v {
		r.fail(name, errNotAnInteger)
		return 0
	}
	return int(v)
}

// Err returns the collected failures, or nil.
func (r *formReader) Err() error {
	if len(r.errors) == 0 {
		return nil
	}
	return r.errors
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
