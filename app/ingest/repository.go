package ingest

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/propline/propline/models"
)

// repository implements the Repository interface using GORM
type repository struct {
	db *gorm.DB
}

// NewRepository creates a new ingestion repository
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// GetByExternalID returns the market with the given external identity
func (r *repository) GetByExternalID(ctx context.Context, externalID string) (*models.Market, error) {
	var market models.Market
	err := r.db.WithContext(ctx).
		Where("external_id = ?", externalID).
		First(&market).Error
	if err != nil {
		return nil, err
	}
	return &market, nil
}

// Create inserts a new market. A unique-constraint violation on the
// external identity is reported as models.ErrDuplicateMarket: the store's
// uniqueness constraint is the sole dedup mechanism across overlapping runs.
func (r *repository) Create(ctx context.Context, market *models.Market) error {
	err := r.db.WithContext(ctx).Create(market).Error
	if err == nil {
		return nil
	}
	if isUniqueViolation(err) {
		return models.ErrDuplicateMarket
	}
	return err
}

// UpdateCategory patches only the category column
func (r *repository) UpdateCategory(ctx context.Context, id uuid.UUID, category string) error {
	return r.db.WithContext(ctx).
		Model(&models.Market{}).
		Where("id = ?", id).
		Update("category", category).Error
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505" // unique_violation
	}
	return false
}
