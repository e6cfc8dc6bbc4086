package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository wraps all persistence access. Coordination between concurrent
// request workers is pushed down to the store: unique constraints for
// engagement pairs, conditional updates for slot and ticket counters.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Transaction runs fn against a transaction-bound repository. All row
// mutations of an accept/register operation go through one call so a
// conflicting concurrent transaction leaves either all mutations or none.
func (r *Repository) Transaction(ctx context.Context, fn func(*Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Repository{db: tx})
	})
}
