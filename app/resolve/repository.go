package resolve

import (
	"context"

	"gorm.io/gorm"

	"github.com/propline/propline/models"
)

// repository implements the Repository interface using GORM
type repository struct {
	db *gorm.DB
}

// NewRepository creates a new resolution repository
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// GetUnresolved returns every market still awaiting an outcome, oldest
// expiry first so long-overdue markets are graded before fresh ones.
func (r *repository) GetUnresolved(ctx context.Context) ([]models.Market, error) {
	var markets []models.Market
	err := r.db.WithContext(ctx).
		Where("resolved = ?", false).
		Order("expires_at ASC").
		Find(&markets).Error
	if err != nil {
		return nil, err
	}
	return markets, nil
}
