package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Outcome represents the graded side of a market
type Outcome string

const (
	OutcomeYes Outcome = "yes"
	OutcomeNo  Outcome = "no"
)

// DefaultCategory labels markets whose league could not be determined at
// ingest time. A default category may later be upgraded to a specific
// league, never the other way around.
const DefaultCategory = "Sports"

// ResolutionKind represents the kind of proposition a market encodes
type ResolutionKind string

const (
	ResolutionMoneyline  ResolutionKind = "moneyline"
	ResolutionSpread     ResolutionKind = "spread"
	ResolutionTotal      ResolutionKind = "total"
	ResolutionPlayerProp ResolutionKind = "player_prop"
)

// Direction represents the over/under side of a line
type Direction string

const (
	DirectionOver  Direction = "over"
	DirectionUnder Direction = "under"
)

// Resolution records, at creation time, which real-world result makes YES
// correct. The resolver grades from this structure; the rendered question
// text is cosmetic when a resolution is present.
type Resolution struct {
	Kind      ResolutionKind  `json:"kind"`
	Team      string          `json:"team,omitempty"`
	Opponent  string          `json:"opponent,omitempty"`
	Subject   string          `json:"subject,omitempty"`
	Stat      string          `json:"stat,omitempty"`
	Line      decimal.Decimal `json:"line"`
	Direction Direction       `json:"direction,omitempty"`
}

// Value implementation for the JSONB field
func (r *Resolution) Value() (driver.Value, error) {
	return json.Marshal(r)
}

func (r *Resolution) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, r)
	case string:
		return json.Unmarshal([]byte(v), r)
	}
	return nil
}

// Market represents a canonical two-sided prediction record derived from one
// upstream outcome group. ExternalID is the idempotency key for ingestion:
// re-ingesting the same upstream outcome must never create a second row.
type Market struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	ExternalID    string          `gorm:"type:varchar(255);not null;uniqueIndex:idx_markets_external_id" json:"external_id"`
	Category      string          `gorm:"type:varchar(100);not null;default:'Sports'" json:"category"`
	Question      string          `gorm:"type:text;not null" json:"question"`
	YesMultiplier decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"yes_multiplier"`
	NoMultiplier  decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"no_multiplier"`
	YesPercent    int             `gorm:"not null" json:"yes_percent"`
	EventID       string          `gorm:"type:varchar(255);not null;index:idx_markets_event_id" json:"event_id"`
	ExpiresAt     time.Time       `gorm:"type:timestamptz;not null;index" json:"expires_at"`
	Resolved      bool            `gorm:"not null;default:false;index:idx_markets_resolved" json:"resolved"`
	Outcome       *Outcome        `gorm:"type:varchar(10)" json:"outcome"`
	Volume        int64           `gorm:"not null;default:0" json:"volume"`
	Resolution    *Resolution     `gorm:"type:jsonb" json:"resolution,omitempty"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for Market model
func (*Market) TableName() string {
	return "markets"
}

// BeforeCreate sets up the model before creation
func (m *Market) BeforeCreate(_ *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// IsOpen checks if the market is still accepting positions
func (m *Market) IsOpen() bool {
	return !m.Resolved && time.Now().Before(m.ExpiresAt)
}

// HasDefaultCategory reports whether the league label is still the generic default
func (m *Market) HasDefaultCategory() bool {
	return m.Category == "" || m.Category == DefaultCategory
}

// UpgradeCategory replaces a generic category with a specific league label.
// Downgrading back to the default is rejected.
func (m *Market) UpgradeCategory(category string) error {
	if category == "" || category == DefaultCategory {
		return ErrCategoryDowngrade
	}
	if !m.HasDefaultCategory() {
		return ErrCategoryDowngrade
	}
	m.Category = category
	return nil
}

// MarkResolved sets the final outcome. The outcome is immutable once set.
func (m *Market) MarkResolved(outcome Outcome) error {
	if m.Resolved {
		return ErrMarketAlreadyResolved
	}
	if outcome != OutcomeYes && outcome != OutcomeNo {
		return ErrInvalidOutcome
	}
	m.Resolved = true
	m.Outcome = &outcome
	return nil
}

// Validate performs validation on the market model
func (m *Market) Validate() error {
	if m.ExternalID == "" {
		return ErrInvalidExternalID
	}
	if m.Question == "" {
		return ErrInvalidQuestion
	}
	if m.EventID == "" {
		return ErrInvalidEventID
	}
	one := decimal.NewFromInt(1)
	if m.YesMultiplier.LessThanOrEqual(one) || m.NoMultiplier.LessThanOrEqual(one) {
		return ErrInvalidMultiplier
	}
	if m.YesPercent < 1 || m.YesPercent > 99 {
		return ErrInvalidYesPercent
	}
	if m.ExpiresAt.IsZero() {
		return ErrInvalidExpiry
	}
	return nil
}
