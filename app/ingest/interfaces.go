package ingest

import (
	"context"

	"github.com/google/uuid"

	"github.com/propline/propline/app/provider"
	"github.com/propline/propline/models"
)

// Repository defines the interface for market data access during ingestion
type Repository interface {
	GetByExternalID(ctx context.Context, externalID string) (*models.Market, error)
	Create(ctx context.Context, market *models.Market) error
	UpdateCategory(ctx context.Context, id uuid.UUID, category string) error
}

// OddsProvider defines the upstream calls the ingestor depends on
type OddsProvider interface {
	FetchOdds(ctx context.Context, sportKey string, markets []string) ([]provider.Event, error)
	FetchEventOdds(ctx context.Context, sportKey, eventID string, markets []string) ([]provider.Bookmaker, error)
}

// Service defines the interface for the ingestion pass
type Service interface {
	Ingest(ctx context.Context) (*Report, error)
}
