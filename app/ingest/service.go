package ingest

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/propline/propline/app/canonical"
	"github.com/propline/propline/app/provider"
	"github.com/propline/propline/internal/logger"
	"github.com/propline/propline/models"
)

// service implements the Service interface
type service struct {
	repo    Repository
	odds    OddsProvider
	builder *canonical.Builder
	cfg     *Config
	logger  logger.Logger
}

// NewService creates a new ingestion service
func NewService(repo Repository, odds OddsProvider, builder *canonical.Builder, cfg *Config, l logger.Logger) Service {
	return &service{
		repo:    repo,
		odds:    odds,
		builder: builder,
		cfg:     cfg,
		logger:  l,
	}
}

// Ingest runs one full ingestion pass over all configured sports. A fetch
// or insert failure is scoped to its sport or market; the pass always runs
// to completion and is safe to re-run at any time.
func (s *service) Ingest(ctx context.Context) (*Report, error) {
	report := &Report{}
	for i := range s.cfg.Sports {
		sport := &s.cfg.Sports[i]
		report.Sports++
		if err := s.ingestSport(ctx, sport, report); err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("%s: %v", sport.Key, err))
			s.logger.Error(err, logger.Fields{"sport": sport.Key})
		}
	}

	s.logger.Info("ingestion pass complete", logger.Fields{
		"sports":            report.Sports,
		"events":            report.Events,
		"hydrated":          report.Hydrated,
		"inserted":          report.Inserted,
		"duplicates":        report.Duplicates,
		"category_upgrades": report.CategoryUpgrades,
		"errors":            len(report.Errors),
	})
	return report, nil
}

func (s *service) ingestSport(ctx context.Context, sport *Sport, report *Report) error {
	requested := append(append([]string{}, provider.CoreMarkets...), sport.PropMarkets...)

	events, err := s.odds.FetchOdds(ctx, sport.Key, requested)
	if err != nil {
		return fmt.Errorf("fetch odds: %w", err)
	}

	events = s.withinHorizon(events)
	if len(sport.PropMarkets) > 0 {
		report.Hydrated += s.hydrate(ctx, sport, events)
	}

	allowed := s.allowedMarkets(sport)
	for i := range events {
		event := &events[i]
		if len(event.Bookmakers) == 0 {
			continue
		}
		report.Events++

		book := s.pickBookmaker(event.Bookmakers)
		for j := range book.Markets {
			market := &book.Markets[j]
			if !allowed[market.Key] {
				continue
			}
			for _, candidate := range s.builder.Build(event, market) {
				s.upsert(ctx, sport, event, &candidate, report)
			}
		}
	}
	return nil
}

// withinHorizon keeps events commencing between now and the horizon.
// Distant futures pollute the catalog; already-started games cannot take
// positions.
func (s *service) withinHorizon(events []provider.Event) []provider.Event {
	now := time.Now()
	cutoff := now.Add(s.cfg.Horizon)

	kept := events[:0]
	for _, e := range events {
		if e.CommenceTime.After(now) && !e.CommenceTime.After(cutoff) {
			kept = append(kept, e)
		}
	}
	return kept
}

// hydrate enriches the nearest events with per-event prop markets. Each
// event's enrichment is independent and idempotent, so the fan-out is
// concurrent, bounded by the hydration cap. A failed hydration loses only
// that event's props.
func (s *service) hydrate(ctx context.Context, sport *Sport, events []provider.Event) int {
	n := len(events)
	if n > s.cfg.HydrationCap {
		sort.Slice(events, func(i, j int) bool {
			return events[i].CommenceTime.Before(events[j].CommenceTime)
		})
		n = s.cfg.HydrationCap
	}

	var mu sync.Mutex
	hydrated := 0

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.HydrationCap)
	for i := 0; i < n; i++ {
		event := &events[i]
		g.Go(func() error {
			books, err := s.odds.FetchEventOdds(gctx, sport.Key, event.ID, sport.PropMarkets)
			if err != nil {
				s.logger.Error(err, logger.Fields{"sport": sport.Key, "event": event.ID})
				return nil // one event's hydration failure must not stop the rest
			}
			mu.Lock()
			mergeBookmakers(event, books)
			hydrated++
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return hydrated
}

// mergeBookmakers appends hydrated markets into the event's existing
// bookmaker list. Append, never replace: the moneyline/spread/total markets
// from the list fetch must survive.
func mergeBookmakers(event *provider.Event, books []provider.Bookmaker) {
	for _, book := range books {
		merged := false
		for i := range event.Bookmakers {
			if event.Bookmakers[i].Key == book.Key {
				event.Bookmakers[i].Markets = append(event.Bookmakers[i].Markets, book.Markets...)
				merged = true
				break
			}
		}
		if !merged {
			event.Bookmakers = append(event.Bookmakers, book)
		}
	}
}

// pickBookmaker selects exactly one book per event so a single canonical
// market never mixes prices from different books.
func (s *service) pickBookmaker(books []provider.Bookmaker) *provider.Bookmaker {
	for _, preferred := range s.cfg.PreferredBookmakers {
		for i := range books {
			if books[i].Key == preferred {
				return &books[i]
			}
		}
	}
	return &books[0]
}

func (s *service) allowedMarkets(sport *Sport) map[string]bool {
	allowed := map[string]bool{
		provider.MarketH2H:     true,
		provider.MarketSpreads: true,
		provider.MarketTotals:  true,
	}
	for _, key := range sport.PropMarkets {
		allowed[key] = true
	}
	return allowed
}

func (s *service) upsert(ctx context.Context, sport *Sport, event *provider.Event, candidate *canonical.Candidate, report *Report) {
	existing, err := s.repo.GetByExternalID(ctx, candidate.ExternalID)
	switch {
	case err == nil:
		s.patchCategory(ctx, sport, existing, report)
		return
	case !errors.Is(err, gorm.ErrRecordNotFound):
		report.Errors = append(report.Errors, fmt.Sprintf("%s: %v", candidate.ExternalID, err))
		s.logger.Error(err, logger.Fields{"external_id": candidate.ExternalID})
		return
	}

	market := &models.Market{
		ExternalID:    candidate.ExternalID,
		Category:      s.category(sport),
		Question:      candidate.Question,
		YesMultiplier: candidate.YesMultiplier,
		NoMultiplier:  candidate.NoMultiplier,
		YesPercent:    candidate.YesPercent,
		EventID:       event.ID,
		ExpiresAt:     event.CommenceTime,
		Volume:        canonical.VolumeSeed(candidate.ExternalID),
		Resolution:    candidate.Resolution,
	}
	if err := market.Validate(); err != nil {
		report.Errors = append(report.Errors, fmt.Sprintf("%s: %v", candidate.ExternalID, err))
		s.logger.Error(err, logger.Fields{"external_id": candidate.ExternalID})
		return
	}

	err = s.repo.Create(ctx, market)
	switch {
	case err == nil:
		report.Inserted++
	case errors.Is(err, models.ErrDuplicateMarket):
		// a concurrent run inserted it first; expected, not an error
		report.Duplicates++
	default:
		report.Errors = append(report.Errors, fmt.Sprintf("%s: %v", candidate.ExternalID, err))
		s.logger.Error(err, logger.Fields{"external_id": candidate.ExternalID})
	}
}

// patchCategory upgrades a generic league label on re-encounter. Upgrades
// only: a specific label is never overwritten, and a resolved market is
// never touched again.
func (s *service) patchCategory(ctx context.Context, sport *Sport, existing *models.Market, report *Report) {
	if existing.Resolved {
		report.Duplicates++
		return
	}
	category := s.category(sport)
	if err := existing.UpgradeCategory(category); err != nil {
		report.Duplicates++
		return
	}
	if err := s.repo.UpdateCategory(ctx, existing.ID, category); err != nil {
		report.Errors = append(report.Errors, fmt.Sprintf("%s: %v", existing.ExternalID, err))
		s.logger.Error(err, logger.Fields{"external_id": existing.ExternalID})
		return
	}
	report.CategoryUpgrades++
}

func (s *service) category(sport *Sport) string {
	if sport.Category == "" {
		return models.DefaultCategory
	}
	return sport.Category
}
