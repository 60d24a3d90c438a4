package resolve

import (
	"context"

	"github.com/google/uuid"

	"github.com/propline/propline/app/provider"
	"github.com/propline/propline/models"
)

// Repository defines the interface for market data access during resolution
type Repository interface {
	GetUnresolved(ctx context.Context) ([]models.Market, error)
}

// ScoreProvider defines the finished-score feed the resolver depends on
type ScoreProvider interface {
	FetchScores(ctx context.Context, sportKey string, daysFrom int) ([]provider.ScoreEvent, error)
}

// StatsProvider defines the player box-score lookup used for prop grading.
// The date is an explicit parameter; see the service for what callers pass.
type StatsProvider interface {
	PlayerStat(ctx context.Context, sportKey, playerName, stat, date string) (float64, bool, error)
}

// Settler is the external grading call. Settle must be idempotent on the
// caller's side of the contract: an already-resolved market comes back as
// models.ErrMarketAlreadyResolved, which the resolver treats as a benign race.
type Settler interface {
	Settle(ctx context.Context, marketID uuid.UUID, outcome models.Outcome) error
}

// Service defines the interface for the resolution pass
type Service interface {
	Resolve(ctx context.Context) (*Report, error)
}
