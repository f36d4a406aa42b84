// Package repository runs the journal's queries. Every method issues a
// single statement with the caller's context; driver errors are returned
// unchanged for sqlerr to classify.
package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/deppfellow/gradejournal/internal/errs"
	"github.com/deppfellow/gradejournal/internal/model"
)

// NamedRepository stores entities made of an id and a unique name.
type NamedRepository[T any, PT interface {
	*T
	model.Named
}] struct {
	db *gorm.DB
}

type (
	StudentRepository = NamedRepository[model.Student, *model.Student]
	SubjectRepository = NamedRepository[model.Subject, *model.Subject]
)

func NewNamedRepository[T any, PT interface {
	*T
	model.Named
}](db *gorm.DB) *NamedRepository[T, PT] {
	return &NamedRepository[T, PT]{db: db}
}

func (r *NamedRepository[T, PT]) notFound() error {
	var entity PT = new(T)
	return errs.NewNotFoundError(fmt.Sprintf("%s not found", entity.EntityName()), true, nil)
}

// Create inserts a row and returns it with its assigned id.
func (r *NamedRepository[T, PT]) Create(ctx context.Context, name string) (PT, error) {
	var entity PT = new(T)
	entity.SetName(name)

	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		return nil, err
	}
	return entity, nil
}

// List returns every row in id order.
func (r *NamedRepository[T, PT]) List(ctx context.Context) ([]T, error) {
	rows := make([]T, 0)
	if err := r.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *NamedRepository[T, PT]) Get(ctx context.Context, id int64) (PT, error) {
	var entity PT = new(T)
	err := r.db.WithContext(ctx).First(entity, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, r.notFound()
	}
	if err != nil {
		return nil, err
	}
	return entity, nil
}

// Rename changes the name of an existing row.
func (r *NamedRepository[T, PT]) Rename(ctx context.Context, id int64, name string) (PT, error) {
	var entity PT = new(T)
	result := r.db.WithContext(ctx).
		Model(entity).
		Clauses(clause.Returning{}).
		Where("id = ?", id).
		Update("name", name)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, r.notFound()
	}
	return entity, nil
}

// Delete removes a row. Grades that reference it go with it.
func (r *NamedRepository[T, PT]) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(PT(new(T)), id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return r.notFound()
	}
	return nil
}
