package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/propline/propline/app/provider"
	"github.com/propline/propline/models"
)

// MockIngestRepository mocks the ingest repository
type MockIngestRepository struct {
	mock.Mock
}

func (m *MockIngestRepository) GetByExternalID(ctx context.Context, externalID string) (*models.Market, error) {
	args := m.Called(ctx, externalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Market), args.Error(1)
}

func (m *MockIngestRepository) Create(ctx context.Context, market *models.Market) error {
	args := m.Called(ctx, market)
	return args.Error(0)
}

func (m *MockIngestRepository) UpdateCategory(ctx context.Context, id uuid.UUID, category string) error {
	args := m.Called(ctx, id, category)
	return args.Error(0)
}

// MockResolveRepository mocks the resolve repository
type MockResolveRepository struct {
	mock.Mock
}

func (m *MockResolveRepository) GetUnresolved(ctx context.Context) ([]models.Market, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Market), args.Error(1)
}

// MockOddsProvider mocks the upstream odds feed
type MockOddsProvider struct {
	mock.Mock
}

func (m *MockOddsProvider) FetchOdds(ctx context.Context, sportKey string, markets []string) ([]provider.Event, error) {
	args := m.Called(ctx, sportKey, markets)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]provider.Event), args.Error(1)
}

func (m *MockOddsProvider) FetchEventOdds(ctx context.Context, sportKey, eventID string, markets []string) ([]provider.Bookmaker, error) {
	args := m.Called(ctx, sportKey, eventID, markets)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]provider.Bookmaker), args.Error(1)
}

// MockScoreProvider mocks the finished-score feed
type MockScoreProvider struct {
	mock.Mock
}

func (m *MockScoreProvider) FetchScores(ctx context.Context, sportKey string, daysFrom int) ([]provider.ScoreEvent, error) {
	args := m.Called(ctx, sportKey, daysFrom)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]provider.ScoreEvent), args.Error(1)
}

// MockStatsProvider mocks the player box-score lookup
type MockStatsProvider struct {
	mock.Mock
}

func (m *MockStatsProvider) PlayerStat(ctx context.Context, sportKey, playerName, stat, date string) (float64, bool, error) {
	args := m.Called(ctx, sportKey, playerName, stat, date)
	return args.Get(0).(float64), args.Bool(1), args.Error(2)
}

// MockSettler mocks the external grading call
type MockSettler struct {
	mock.Mock
}

func (m *MockSettler) Settle(ctx context.Context, marketID uuid.UUID, outcome models.Outcome) error {
	args := m.Called(ctx, marketID, outcome)
	return args.Error(0)
}
