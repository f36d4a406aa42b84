package database

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/deppfellow/gradejournal/internal/model"
)

// EnsureSchema creates the students, subjects and grades tables with
// their indexes and cascading foreign keys. Existing tables are left
// alone, so it is safe to run at every start.
func EnsureSchema(ctx context.Context, db *Database, logger *zerolog.Logger) error {
	if err := db.DB.WithContext(ctx).AutoMigrate(&model.Student{}, &model.Subject{}, &model.Grade{}); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}

	logger.Info().Msg("database schema is up to date")
	return nil
}
