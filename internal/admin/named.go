package admin

import (
	"context"
	"net/url"

	"github.com/deppfellow/gradejournal/internal/model"
	"github.com/deppfellow/gradejournal/internal/repository"
)

// ViewMeta holds the labels of a view.
type ViewMeta struct {
	Identity   string
	Name       string
	NamePlural string
	Icon       string
}

// NamedView shows students or subjects: an id and an editable name.
type NamedView[T any, PT interface {
	*T
	model.Named
}] struct {
	meta ViewMeta
	repo *repository.NamedRepository[T, PT]
}

func NewNamedView[T any, PT interface {
	*T
	model.Named
}](meta ViewMeta, repo *repository.NamedRepository[T, PT]) *NamedView[T, PT] {
	return &NamedView[T, PT]{meta: meta, repo: repo}
}

func NewStudentView(repo *repository.StudentRepository) View {
	return NewNamedView(ViewMeta{
		Identity:   "student",
		Name:       "Student",
		NamePlural: "Students",
		Icon:       "fa fa-user",
	}, repo)
}

func NewSubjectView(repo *repository.SubjectRepository) View {
	return NewNamedView(ViewMeta{
		Identity:   "subject",
		Name:       "Subject",
		NamePlural: "Subjects",
		Icon:       "fa fa-book",
	}, repo)
}

func (v *NamedView[T, PT]) Identity() string   { return v.meta.Identity }
func (v *NamedView[T, PT]) Name() string       { return v.meta.Name }
func (v *NamedView[T, PT]) NamePlural() string { return v.meta.NamePlural }
func (v *NamedView[T, PT]) Icon() string       { return v.meta.Icon }

func (v *NamedView[T, PT]) Columns() []Column {
	return columns("id", "name")
}

func (v *NamedView[T, PT]) record(entity PT) Record {
	return Record{
		ID:    entity.GetID(),
		Cells: []string{formatID(entity.GetID()), entity.GetName()},
	}
}

func (v *NamedView[T, PT]) List(ctx context.Context) ([]Record, error) {
	rows, err := v.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	records := make([]Record, 0, len(rows))
	for i := range rows {
		records = append(records, v.record(PT(&rows[i])))
	}
	return records, nil
}

func (v *NamedView[T, PT]) Get(ctx context.Context, id int64) (Record, error) {
	entity, err := v.repo.Get(ctx, id)
	if err != nil {
		return Record{}, err
	}
	return v.record(entity), nil
}

func (v *NamedView[T, PT]) FormValues(ctx context.Context, id int64) (url.Values, error) {
	entity, err := v.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return url.Values{"name": {entity.GetName()}}, nil
}

func (v *NamedView[T, PT]) Fields(_ context.Context, values url.Values) ([]Field, error) {
	return []Field{{Name: "name", Label: "Name", Type: "text", Value: values.Get("name")}}, nil
}

func (v *NamedView[T, PT]) Create(ctx context.Context, form url.Values) error {
	r := newFormReader(form)
	name := r.String("name")
	if err := r.Err(); err != nil {
		return err
	}

	_, err := v.repo.Create(ctx, name)
	return err
}

func (v *NamedView[T, PT]) Update(ctx context.Context, id int64, form url.Values) error {
	r := newFormReader(form)
	name := r.String("name")
	if err := r.Err(); err != nil {
		return err
	}

	_, err := v.repo.Rename(ctx, id, name)
	return err
}

func (v *NamedView[T, PT]) Delete(ctx context.Context, id int64) error {
	return v.repo.Delete(ctx, id)
}
