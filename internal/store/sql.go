package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"promptgen-backend/internal/models"
)

// SQLStore keeps the log in a local database table, one record per row.
type SQLStore struct {
	db *gorm.DB
}

// NewSQLStore migrates the record table on db.
func NewSQLStore(db *gorm.DB) (*SQLStore, error) {
	if err := db.AutoMigrate(&models.PromptRecord{}); err != nil {
		return nil, fmt.Errorf("migrate prompt records: %w", err)
	}
	return &SQLStore{db: db}, nil
}

func (s *SQLStore) Append(ctx context.Context, rec models.PromptRecord) error {
	rec.ID = 0
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return fmt.Errorf("insert prompt record: %w", err)
	}
	return nil
}

func (s *SQLStore) ReadAll(ctx context.Context) ([][]string, error) {
	var records []models.PromptRecord
	if err := s.db.WithContext(ctx).Order("id asc").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list prompt records: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	rows := make([][]string, 0, len(records)+1)
	rows = append(rows, append([]string(nil), models.Columns...))
	for _, rec := range records {
		rows = append(rows, rec.Row())
	}
	return rows, nil
}
