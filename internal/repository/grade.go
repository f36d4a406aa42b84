package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/deppfellow/gradejournal/internal/errs"
	"github.com/deppfellow/gradejournal/internal/model"
)

type GradeRepository struct {
	db *gorm.DB
}

func NewGradeRepository(db *gorm.DB) *GradeRepository {
	return &GradeRepository{db: db}
}

func gradeNotFound() error {
	return errs.NewNotFoundError("Grade not found", true, nil)
}

// Upsert stores the score for a student/subject pair, overwriting the
// score of an existing grade for that pair.
func (r *GradeRepository) Upsert(ctx context.Context, studentID, subjectID int64, score int) (*model.Grade, error) {
	grade := &model.Grade{
		StudentID: studentID,
		SubjectID: subjectID,
		Score:     score,
	}

	err := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "student_id"}, {Name: "subject_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"score"}),
		}).
		Create(grade).Error
	if err != nil {
		return nil, err
	}
	return grade, nil
}

// Create inserts a new grade; a second grade for the same pair violates
// the unique index.
func (r *GradeRepository) Create(ctx context.Context, grade *model.Grade) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(grade).Error
}

// List returns every grade with its student and subject loaded.
func (r *GradeRepository) List(ctx context.Context) ([]model.Grade, error) {
	grades := make([]model.Grade, 0)
	err := r.db.WithContext(ctx).
		Preload("Student").
		Preload("Subject").
		Order("id").
		Find(&grades).Error
	if err != nil {
		return nil, err
	}
	return grades, nil
}

func (r *GradeRepository) Get(ctx context.Context, id int64) (*model.Grade, error) {
	var grade model.Grade
	err := r.db.WithContext(ctx).
		Preload("Student").
		Preload("Subject").
		First(&grade, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, gradeNotFound()
	}
	if err != nil {
		return nil, err
	}
	return &grade, nil
}

// Update overwrites all columns of an existing grade.
func (r *GradeRepository) Update(ctx context.Context, id, studentID, subjectID int64, score int) (*model.Grade, error) {
	result := r.db.WithContext(ctx).
		Model(&model.Grade{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"student_id": studentID,
			"subject_id": subjectID,
			"score":      score,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gradeNotFound()
	}

	return &model.Grade{ID: id, StudentID: studentID, SubjectID: subjectID, Score: score}, nil
}

func (r *GradeRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&model.Grade{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gradeNotFound()
	}
	return nil
}
