// Package scheduler wires the cron jobs: the daily schedule ingestion
// and the nightly cleanup of expired game records.
package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"mlb_byte/scoreboard/internal/ingest"
)

// Scheduler manages the service's background timers
type Scheduler struct {
	ingest          *ingest.Service
	dailyIngestCron string
	cleanupCron     string
	cron            *cron.Cron
}

// New creates a new scheduler instance
func New(ingestSvc *ingest.Service, dailyIngestCron, cleanupCron string) *Scheduler {
	return &Scheduler{
		ingest:          ingestSvc,
		dailyIngestCron: dailyIngestCron,
		cleanupCron:     cleanupCron,
		cron:            cron.New(),
	}
}

// Start registers the cron jobs and starts the scheduler
func (s *Scheduler) Start(ctx context.Context) error {
	log.Info().Msg("Scheduler starting...")

	if _, err := s.cron.AddFunc(s.dailyIngestCron, func() {
		log.Info().Msg("Running daily schedule ingestion...")
		result, err := s.ingest.IngestDay(ctx, false)
		if err != nil {
			log.Error().Err(err).Msg("Daily schedule ingestion failed")
			return
		}
		if result.AlreadyIngested {
			log.Info().Msg("Day already ingested, nothing to do")
			return
		}
		log.Info().
			Int("created", result.Created).
			Int("skipped", result.Skipped).
			Msg("Daily schedule ingestion complete")
	}); err != nil {
		return fmt.Errorf("failed to schedule daily ingestion: %w", err)
	}

	if _, err := s.cron.AddFunc(s.cleanupCron, func() {
		log.Info().Msg("Running expired game cleanup...")
		count, err := s.ingest.CleanupExpired(ctx)
		if err != nil {
			log.Error().Err(err).Msg("Expired game cleanup failed")
			return
		}
		log.Info().Int("removed", count).Msg("Expired game cleanup complete")
	}); err != nil {
		return fmt.Errorf("failed to schedule cleanup: %w", err)
	}

	s.cron.Start()
	log.Info().
		Str("ingest_schedule", s.dailyIngestCron).
		Str("cleanup_schedule", s.cleanupCron).
		Msg("Cron jobs scheduled")

	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	log.Info().Msg("Stopping scheduler...")

	if s.cron != nil {
		s.cron.Stop()
	}

	log.Info().Msg("Scheduler stopped")
}
