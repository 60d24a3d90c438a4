package canonical

import (
	"fmt"
	"hash/fnv"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/propline/propline/app/provider"
	"github.com/propline/propline/internal/sanitizer"
	"github.com/propline/propline/models"
)

// Candidate is one canonical market derived from a single outcome group.
// ExternalID is deterministic for a fixed (event, market key, group), no
// matter how the upstream orders or cases the raw outcomes.
type Candidate struct {
	ExternalID    string
	Question      string
	YesMultiplier decimal.Decimal
	NoMultiplier  decimal.Decimal
	YesPercent    int
	Resolution    *models.Resolution
}

// Builder turns provider outcome groups into canonical market candidates.
type Builder struct {
	stripper sanitizer.NameStripperer
}

// NewBuilder creates a canonicalizer. Upstream names pass through the
// stripper before they are embedded in identities or question text.
func NewBuilder(stripper sanitizer.NameStripperer) *Builder {
	return &Builder{stripper: stripper}
}

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// NormalizeID joins the parts into the external identity string: lowercase,
// runs of non-alphanumerics collapsed to single hyphens. Casing and
// whitespace drift upstream must not change the identity.
func NormalizeID(parts ...string) string {
	joined := strings.ToLower(strings.Join(parts, "-"))
	joined = nonAlnum.ReplaceAllString(joined, "-")
	return strings.Trim(joined, "-")
}

// VolumeSeed derives the display-only volume from the external identity so
// repeated ingests of the same market agree on it.
func VolumeSeed(externalID string) int64 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(externalID))
	return 100 + int64(h.Sum32()%9900)
}

// Build returns the canonical candidates for one market offered on one
// event. Multi-line prop markets yield one candidate per (player, line)
// pair; malformed groups are dropped, not errored, so one bad outcome
// cannot sink the event.
func (b *Builder) Build(event *provider.Event, market *provider.Market) []Candidate {
	switch {
	case market.Key == provider.MarketH2H:
		return b.buildSingle(event, market, b.moneyline)
	case market.Key == provider.MarketSpreads:
		return b.buildSingle(event, market, b.spread)
	case market.Key == provider.MarketTotals:
		return b.buildSingle(event, market, b.total)
	case IsPlayerProp(market.Key):
		return b.buildProps(event, market)
	default:
		return nil
	}
}

// IsPlayerProp reports whether a market key denotes a player prop.
func IsPlayerProp(marketKey string) bool {
	return strings.HasPrefix(marketKey, "player_")
}

// PropStat extracts the stat key from a prop market key, e.g.
// "player_points" -> "points".
func PropStat(marketKey string) string {
	return strings.TrimPrefix(marketKey, "player_")
}

func propStatLabel(marketKey string) string {
	return strings.ReplaceAll(PropStat(marketKey), "_", " ")
}

type buildFunc func(event *provider.Event, market *provider.Market, yes, no *provider.Outcome) *Candidate

func (b *Builder) buildSingle(event *provider.Event, market *provider.Market, build buildFunc) []Candidate {
	if len(market.Outcomes) < 2 {
		return nil
	}
	yes, no := b.pickSides(event, market.Outcomes[:2])
	c := build(event, market, yes, no)
	if c == nil {
		return nil
	}
	return []Candidate{*c}
}

// pickSides makes side selection deterministic: the home team's outcome is
// YES when present, else the first listed.
func (b *Builder) pickSides(event *provider.Event, outcomes []provider.Outcome) (yes, no *provider.Outcome) {
	yes, no = &outcomes[0], &outcomes[1]
	if outcomes[1].Name == event.HomeTeam {
		yes, no = &outcomes[1], &outcomes[0]
	}
	return yes, no
}

func (b *Builder) moneyline(event *provider.Event, market *provider.Market, yes, no *provider.Outcome) *Candidate {
	team := b.stripper.StripName(yes.Name)
	opponent := b.stripper.StripName(no.Name)

	c := b.price(yes.Price, no.Price)
	if c == nil {
		return nil
	}
	c.ExternalID = NormalizeID(event.ID, market.Key, yes.Name)
	c.Question = fmt.Sprintf("Will %s win against %s?", team, opponent)
	c.Resolution = &models.Resolution{
		Kind:     models.ResolutionMoneyline,
		Team:     team,
		Opponent: opponent,
	}
	return c
}

func (b *Builder) spread(event *provider.Event, market *provider.Market, yes, no *provider.Outcome) *Candidate {
	if yes.Point == nil {
		return nil
	}
	team := b.stripper.StripName(yes.Name)
	opponent := b.stripper.StripName(no.Name)
	point := *yes.Point

	c := b.price(yes.Price, no.Price)
	if c == nil {
		return nil
	}
	c.ExternalID = NormalizeID(event.ID, market.Key, "spread-"+formatPoint(point))
	c.Question = fmt.Sprintf("Will %s cover %s vs %s?", team, formatSignedPoint(point), opponent)
	c.Resolution = &models.Resolution{
		Kind:     models.ResolutionSpread,
		Team:     team,
		Opponent: opponent,
		Line:     decimal.NewFromFloat(point),
	}
	return c
}

func (b *Builder) total(event *provider.Event, market *provider.Market, yes, no *provider.Outcome) *Candidate {
	// YES is always Over on totals.
	if !strings.EqualFold(yes.Name, "Over") {
		yes, no = no, yes
	}
	if !strings.EqualFold(yes.Name, "Over") || yes.Point == nil {
		return nil
	}
	home := b.stripper.StripName(event.HomeTeam)
	away := b.stripper.StripName(event.AwayTeam)
	point := *yes.Point

	c := b.price(yes.Price, no.Price)
	if c == nil {
		return nil
	}
	c.ExternalID = NormalizeID(event.ID, market.Key, "total-"+formatPoint(point))
	c.Question = fmt.Sprintf("Will %s vs %s go OVER %s points?", home, away, formatPoint(point))
	c.Resolution = &models.Resolution{
		Kind:      models.ResolutionTotal,
		Team:      home,
		Opponent:  away,
		Line:      decimal.NewFromFloat(point),
		Direction: models.DirectionOver,
	}
	return c
}

// buildProps groups raw prop outcomes by (player, line) so each group is
// exactly the Over/Under pair for one line; N lines for one player yield N
// independent candidates.
func (b *Builder) buildProps(event *provider.Event, market *provider.Market) []Candidate {
	type groupKey struct {
		subject string
		line    float64
	}
	groups := make(map[groupKey]*struct{ over, under *provider.Outcome })
	var order []groupKey

	for i := range market.Outcomes {
		o := &market.Outcomes[i]
		if o.Description == "" || o.Point == nil {
			continue
		}
		key := groupKey{subject: o.Description, line: *o.Point}
		g, ok := groups[key]
		if !ok {
			g = &struct{ over, under *provider.Outcome }{}
			groups[key] = g
			order = append(order, key)
		}
		switch {
		case strings.EqualFold(o.Name, "Over"):
			g.over = o
		case strings.EqualFold(o.Name, "Under"):
			g.under = o
		}
	}

	var candidates []Candidate
	for _, key := range order {
		g := groups[key]
		if g.over == nil || g.under == nil {
			continue
		}
		c := b.price(g.over.Price, g.under.Price)
		if c == nil {
			continue
		}
		player := b.stripper.StripName(key.subject)
		stat := PropStat(market.Key)

		c.ExternalID = NormalizeID(event.ID, market.Key,
			key.subject+"-over-"+formatPoint(key.line))
		c.Question = fmt.Sprintf("Will %s get OVER %s %s?", player, formatPoint(key.line), propStatLabel(market.Key))
		c.Resolution = &models.Resolution{
			Kind:      models.ResolutionPlayerProp,
			Subject:   player,
			Stat:      stat,
			Line:      decimal.NewFromFloat(key.line),
			Direction: models.DirectionOver,
		}
		candidates = append(candidates, *c)
	}
	return candidates
}

// price converts the two decimal prices into multipliers and the implied
// YES percent. Prices at or below 1.01 carry no usable probability and
// invalidate the group.
func (b *Builder) price(yesPrice, noPrice float64) *Candidate {
	if yesPrice <= 1.01 || noPrice <= 1.01 {
		return nil
	}
	impliedYes := 1 / yesPrice
	impliedNo := 1 / noPrice
	pct := int(math.Round(100 * impliedYes / (impliedYes + impliedNo)))
	if pct < 1 {
		pct = 1
	}
	if pct > 99 {
		pct = 99
	}
	return &Candidate{
		YesMultiplier: decimal.NewFromFloat(yesPrice).Round(2),
		NoMultiplier:  decimal.NewFromFloat(noPrice).Round(2),
		YesPercent:    pct,
	}
}

func formatPoint(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatSignedPoint(v float64) string {
	if v > 0 {
		return "+" + formatPoint(v)
	}
	return formatPoint(v)
}
