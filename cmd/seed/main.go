package main

import (
	"context"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/eventhorizon/marketplace/internal/config"
	"github.com/eventhorizon/marketplace/internal/domain"
	"github.com/eventhorizon/marketplace/internal/observability"
	"github.com/eventhorizon/marketplace/internal/persistence"
	"github.com/eventhorizon/marketplace/internal/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx := context.Background()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	events := repository.NewEventRepository(pg.PoolHandle())
	for _, event := range sampleEvents() {
		e := event
		if err := events.Create(ctx, &e); err != nil {
			logger.Fatal("failed to seed event", zap.String("title", e.Title), zap.Error(err))
		}
		logger.Info("seeded event", zap.String("id", e.ID), zap.String("title", e.Title))
	}
}

func sampleEvents() []domain.Event {
	originalPrice := func(v float64) *float64 { return &v }
	return []domain.Event{
		{
			Title:         "Midnight Skyline Tour",
			Artist:        "The Neon Owls",
			Image:         "/images/events/neon-owls.jpg",
			Category:      domain.CategoryConcerts,
			Date:          time.Date(2026, time.October, 12, 20, 0, 0, 0, time.UTC),
			Time:          "8:00 PM",
			Venue:         "Harborside Arena",
			Location:      "Seattle, WA",
			Price:         89,
			OriginalPrice: originalPrice(120),
			SeatsLeft:     412,
			Rating:        4.8,
		},
		{
			Title:         "City Derby Finals",
			Artist:        "Northside FC vs. Dockers",
			Image:         "/images/events/derby-finals.jpg",
			Category:      domain.CategorySports,
			Date:          time.Date(2026, time.September, 27, 17, 30, 0, 0, time.UTC),
			Time:          "5:30 PM",
			Venue:         "Union Stadium",
			Location:      "Chicago, IL",
			Price:         65,
			SeatsLeft:     1890,
			Rating:        4.5,
		},
		{
			Title:         "Sundown Valley Festival",
			Artist:        "Various Artists",
			Image:         "/images/events/sundown-valley.jpg",
			Category:      domain.CategoryFestivals,
			Date:          time.Date(2026, time.November, 6, 12, 0, 0, 0, time.UTC),
			Time:          "12:00 PM",
			Venue:         "Valley Fairgrounds",
			Location:      "Austin, TX",
			Price:         149,
			OriginalPrice: originalPrice(199),
			SeatsLeft:     37,
			Rating:        4.9,
		},
		{
			Title:         "The Glass Menagerie",
			Artist:        "Riverside Players",
			Image:         "/images/events/glass-menagerie.jpg",
			Category:      domain.CategoryTheater,
			Date:          time.Date(2026, time.September, 14, 19, 0, 0, 0, time.UTC),
			Time:          "7:00 PM",
			Venue:         "Orpheum Theatre",
			Location:      "Boston, MA",
			Price:         55,
			SeatsLeft:     203,
			Rating:        4.6,
		},
	}
}
