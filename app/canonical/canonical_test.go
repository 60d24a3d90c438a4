package canonical

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/propline/propline/app/provider"
	"github.com/propline/propline/internal/sanitizer"
	"github.com/propline/propline/models"
)

func testEvent() *provider.Event {
	return &provider.Event{
		ID:           "Abc123XYZ",
		SportKey:     "basketball_nba",
		SportTitle:   "NBA",
		CommenceTime: time.Now().Add(10 * time.Hour),
		HomeTeam:     "Los Angeles Lakers",
		AwayTeam:     "Boston Celtics",
	}
}

func newTestBuilder() *Builder {
	return NewBuilder(sanitizer.NewNameStripper())
}

func ptr(v float64) *float64 { return &v }

func TestNormalizeID(t *testing.T) {
	assert.Equal(t, "abc123-h2h-los-angeles-lakers",
		NormalizeID("Abc123", "h2h", "Los Angeles Lakers"))

	// casing and whitespace drift upstream must not change the identity
	assert.Equal(t,
		NormalizeID("ABC123", "H2H", "  Los  Angeles Lakers "),
		NormalizeID("abc123", "h2h", "Los Angeles Lakers"))

	assert.Equal(t, "e1-spreads-spread-5-5", NormalizeID("e1", "spreads", "spread--5.5"))
}

func TestVolumeSeed(t *testing.T) {
	a := VolumeSeed("abc123-h2h-lakers")
	b := VolumeSeed("abc123-h2h-lakers")
	assert.Equal(t, a, b)
	assert.GreaterOrEqual(t, a, int64(100))
	assert.Less(t, a, int64(10000))
}

func TestBuildMoneyline(t *testing.T) {
	b := newTestBuilder()
	market := &provider.Market{
		Key: provider.MarketH2H,
		Outcomes: []provider.Outcome{
			{Name: "Boston Celtics", Price: 2.10},
			{Name: "Los Angeles Lakers", Price: 1.80},
		},
	}

	candidates := b.Build(testEvent(), market)
	assert.Len(t, candidates, 1)

	c := candidates[0]
	assert.Equal(t, "Will Los Angeles Lakers win against Boston Celtics?", c.Question)
	assert.Equal(t, NormalizeID("Abc123XYZ", "h2h", "Los Angeles Lakers"), c.ExternalID)
	assert.Equal(t, models.ResolutionMoneyline, c.Resolution.Kind)
	assert.Equal(t, "Los Angeles Lakers", c.Resolution.Team)
	assert.Equal(t, "Boston Celtics", c.Resolution.Opponent)
	assert.True(t, c.YesMultiplier.Equal(decimal.NewFromFloat(1.8)))
	assert.True(t, c.NoMultiplier.Equal(decimal.NewFromFloat(2.1)))

	// identity is stable under outcome reordering
	reversed := &provider.Market{
		Key: provider.MarketH2H,
		Outcomes: []provider.Outcome{
			{Name: "Los Angeles Lakers", Price: 1.80},
			{Name: "Boston Celtics", Price: 2.10},
		},
	}
	again := b.Build(testEvent(), reversed)
	assert.Equal(t, c.ExternalID, again[0].ExternalID)
	assert.Equal(t, c.Question, again[0].Question)
}

func TestBuildSpread(t *testing.T) {
	b := newTestBuilder()
	market := &provider.Market{
		Key: provider.MarketSpreads,
		Outcomes: []provider.Outcome{
			{Name: "Los Angeles Lakers", Price: 1.91, Point: ptr(-5.5)},
			{Name: "Boston Celtics", Price: 1.91, Point: ptr(5.5)},
		},
	}

	candidates := b.Build(testEvent(), market)
	assert.Len(t, candidates, 1)

	c := candidates[0]
	assert.Equal(t, "Will Los Angeles Lakers cover -5.5 vs Boston Celtics?", c.Question)
	assert.Equal(t, models.ResolutionSpread, c.Resolution.Kind)
	assert.True(t, c.Resolution.Line.Equal(decimal.NewFromFloat(-5.5)))
	assert.Equal(t, 50, c.YesPercent)
}

func TestBuildTotal(t *testing.T) {
	b := newTestBuilder()
	market := &provider.Market{
		Key: provider.MarketTotals,
		Outcomes: []provider.Outcome{
			{Name: "Under", Price: 1.95, Point: ptr(210.5)},
			{Name: "Over", Price: 1.87, Point: ptr(210.5)},
		},
	}

	candidates := b.Build(testEvent(), market)
	assert.Len(t, candidates, 1)

	c := candidates[0]
	assert.Equal(t, "Will Los Angeles Lakers vs Boston Celtics go OVER 210.5 points?", c.Question)
	assert.Equal(t, models.ResolutionTotal, c.Resolution.Kind)
	assert.Equal(t, models.DirectionOver, c.Resolution.Direction)
	assert.True(t, c.Resolution.Line.Equal(decimal.NewFromFloat(210.5)))

	// Over listed first yields the same candidate
	swapped := &provider.Market{
		Key: provider.MarketTotals,
		Outcomes: []provider.Outcome{
			{Name: "Over", Price: 1.87, Point: ptr(210.5)},
			{Name: "Under", Price: 1.95, Point: ptr(210.5)},
		},
	}
	again := b.Build(testEvent(), swapped)
	assert.Equal(t, c.ExternalID, again[0].ExternalID)
	assert.True(t, c.YesMultiplier.Equal(again[0].YesMultiplier))
}

func TestBuildPlayerProps(t *testing.T) {
	b := newTestBuilder()
	market := &provider.Market{
		Key: "player_points",
		Outcomes: []provider.Outcome{
			{Name: "Over", Price: 1.87, Point: ptr(25.5), Description: "LeBron James"},
			{Name: "Under", Price: 1.95, Point: ptr(25.5), Description: "LeBron James"},
			{Name: "Over", Price: 2.30, Point: ptr(30.5), Description: "LeBron James"},
			{Name: "Under", Price: 1.60, Point: ptr(30.5), Description: "LeBron James"},
			{Name: "Over", Price: 1.91, Point: ptr(22.5), Description: "Jayson Tatum"},
			{Name: "Under", Price: 1.91, Point: ptr(22.5), Description: "Jayson Tatum"},
		},
	}

	candidates := b.Build(testEvent(), market)
	assert.Len(t, candidates, 3)

	first := candidates[0]
	assert.Equal(t, "Will LeBron James get OVER 25.5 points?", first.Question)
	assert.Equal(t, NormalizeID("Abc123XYZ", "player_points", "LeBron James-over-25.5"), first.ExternalID)
	assert.Equal(t, models.ResolutionPlayerProp, first.Resolution.Kind)
	assert.Equal(t, "points", first.Resolution.Stat)
	assert.Equal(t, "LeBron James", first.Resolution.Subject)

	// distinct lines for one player are independent markets
	assert.NotEqual(t, candidates[0].ExternalID, candidates[1].ExternalID)
}

func TestBuildPropsDropsIncompleteGroups(t *testing.T) {
	b := newTestBuilder()
	market := &provider.Market{
		Key: "player_points",
		Outcomes: []provider.Outcome{
			{Name: "Over", Price: 1.87, Point: ptr(25.5), Description: "LeBron James"},
			// no matching Under for this line
			{Name: "Over", Price: 1.91, Point: ptr(22.5), Description: "Jayson Tatum"},
			{Name: "Under", Price: 1.91, Point: ptr(22.5), Description: "Jayson Tatum"},
		},
	}

	candidates := b.Build(testEvent(), market)
	assert.Len(t, candidates, 1)
	assert.Equal(t, "Jayson Tatum", candidates[0].Resolution.Subject)
}

// Punctuated names must survive the build untouched: the resolver later
// exact-matches Resolution.Subject/Team against the raw feed.
func TestBuildKeepsPunctuatedNames(t *testing.T) {
	b := newTestBuilder()

	props := &provider.Market{
		Key: "player_points",
		Outcomes: []provider.Outcome{
			{Name: "Over", Price: 1.87, Point: ptr(25.5), Description: "De'Aaron Fox"},
			{Name: "Under", Price: 1.95, Point: ptr(25.5), Description: "De'Aaron Fox"},
		},
	}
	candidates := b.Build(testEvent(), props)
	assert.Len(t, candidates, 1)
	assert.Equal(t, "De'Aaron Fox", candidates[0].Resolution.Subject)
	assert.Equal(t, "Will De'Aaron Fox get OVER 25.5 points?", candidates[0].Question)

	event := testEvent()
	event.HomeTeam = "Texas A&M Aggies"
	event.AwayTeam = "LSU Tigers"
	h2h := &provider.Market{
		Key: provider.MarketH2H,
		Outcomes: []provider.Outcome{
			{Name: "Texas A&M Aggies", Price: 1.80},
			{Name: "LSU Tigers", Price: 2.10},
		},
	}
	candidates = b.Build(event, h2h)
	assert.Len(t, candidates, 1)
	assert.Equal(t, "Texas A&M Aggies", candidates[0].Resolution.Team)
	assert.Equal(t, "Will Texas A&M Aggies win against LSU Tigers?", candidates[0].Question)
}

func TestBuildUnknownMarketKey(t *testing.T) {
	b := newTestBuilder()
	market := &provider.Market{
		Key:      "alternate_spreads",
		Outcomes: []provider.Outcome{{Name: "A", Price: 1.9}, {Name: "B", Price: 1.9}},
	}
	assert.Nil(t, b.Build(testEvent(), market))
}

func TestImpliedProbability(t *testing.T) {
	b := newTestBuilder()

	c := b.price(2.0, 2.0)
	assert.Equal(t, 50, c.YesPercent)

	c = b.price(1.5, 3.0)
	assert.Equal(t, 67, c.YesPercent)

	// junk prices invalidate the group
	assert.Nil(t, b.price(1.0, 2.0))
	assert.Nil(t, b.price(2.0, 0))
}

func TestPropStatHelpers(t *testing.T) {
	assert.True(t, IsPlayerProp("player_points"))
	assert.True(t, IsPlayerProp("player_pass_tds"))
	assert.False(t, IsPlayerProp("h2h"))

	assert.Equal(t, "points", PropStat("player_points"))
	assert.Equal(t, "pass tds", propStatLabel("player_pass_tds"))
}
