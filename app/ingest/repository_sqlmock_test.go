package ingest

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gLogger "gorm.io/gorm/logger"

	"github.com/propline/propline/models"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{
		Logger: gLogger.Discard,
	})
	require.NoError(t, err)
	return gormDB, mock
}

func TestRepository_Create_MapsUniqueViolation(t *testing.T) {
	gormDB, mock := newMockDB(t)
	repo := NewRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "markets"`).
		WillReturnError(&pq.Error{Code: "23505"})
	mock.ExpectRollback()

	err := repo.Create(context.Background(), &models.Market{
		ExternalID:    "evt1-h2h-lakers",
		Category:      "NBA",
		Question:      "Will Lakers win against Celtics?",
		YesMultiplier: decimal.NewFromFloat(1.8),
		NoMultiplier:  decimal.NewFromFloat(2.1),
		YesPercent:    54,
		EventID:       "evt1",
		ExpiresAt:     time.Now().Add(time.Hour),
	})

	assert.ErrorIs(t, err, models.ErrDuplicateMarket)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_UpdateCategory_PatchesSingleColumn(t *testing.T) {
	gormDB, mock := newMockDB(t)
	repo := NewRepository(gormDB)
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "markets" SET "category"=\$1,"updated_at"=\$2 WHERE id = \$3`).
		WithArgs("NBA", sqlmock.AnyArg(), id).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.UpdateCategory(context.Background(), id, "NBA")

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
