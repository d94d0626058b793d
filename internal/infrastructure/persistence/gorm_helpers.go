package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/domain/shared"
	"gorm.io/gorm"
)

// updateModel writes every column of model but created_at, matching on the
// model's primary key. A missing row yields shared.ErrNotFound.
func updateModel(ctx context.Context, db *gorm.DB, model any) error {
	result := db.WithContext(ctx).Model(model).Select("*").Omit("created_at").Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// deleteByID removes the row of model's table with the given id
func deleteByID(ctx context.Context, db *gorm.DB, model any, id any) error {
	result := db.WithContext(ctx).Delete(model, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// notFound maps gorm.ErrRecordNotFound to shared.ErrNotFound
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.ErrNotFound
	}
	return err
}

// likePattern builds a case-insensitive contains pattern for LOWER(col) LIKE ?
func likePattern(term string) string {
	return "%" + strings.ToLower(strings.TrimSpace(term)) + "%"
}
