// Package ingest implements the daily schedule ingestion workflow:
// fetch the day's miniscoreboard feed, validate each entry, persist
// game records and a day marker.
package ingest

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"mlb_byte/scoreboard/internal/metrics"
	"mlb_byte/scoreboard/internal/models"
)

// dayIDOffset shifts the marker day behind the current instant. The
// feed URL is built from the unadjusted instant, so near midnight the
// marker day and the fetched day can differ. Long-standing behavior;
// keep the two in lockstep if it is ever revisited.
const dayIDOffset = 7 * time.Hour

// retentionWindow is how long past its schedule day a record is kept.
const retentionWindow = 48 * time.Hour

// ScheduleFetcher fetches the schedule feed for a calendar day.
type ScheduleFetcher interface {
	FetchSchedule(ctx context.Context, year, month, day string) ([]models.GameEntry, error)
}

// DayStore persists day markers.
type DayStore interface {
	Exists(ctx context.Context, dayID time.Time) (bool, error)
	Create(ctx context.Context, dayID time.Time) error
}

// GameStore persists game records.
type GameStore interface {
	CreateBatch(ctx context.Context, games []*models.GameInfo) error
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
}

// Result reports the outcome of one ingestion run.
type Result struct {
	AlreadyIngested bool
	Created         int
	Skipped         int
}

// Service runs schedule ingestion.
type Service struct {
	fetcher           ScheduleFetcher
	days              DayStore
	games             GameStore
	linescoreTemplate string
	gamedayTemplate   string
	now               func() time.Time
}

// NewService creates an ingestion service. The URL templates each
// take a single %s placeholder.
func NewService(fetcher ScheduleFetcher, days DayStore, games GameStore, linescoreTemplate, gamedayTemplate string) *Service {
	return &Service{
		fetcher:           fetcher,
		days:              days,
		games:             games,
		linescoreTemplate: linescoreTemplate,
		gamedayTemplate:   gamedayTemplate,
		now:               time.Now,
	}
}

// IngestDay ingests today's schedule. A day whose marker already
// exists is skipped unless override is set. Entries missing required
// fields are dropped individually; the run still succeeds with the
// remainder.
func (s *Service) IngestDay(ctx context.Context, override bool) (*Result, error) {
	now := s.now()
	dayID := models.Midnight(now.Add(-dayIDOffset))
	day := models.Midnight(now)
	deleteTime := day.Add(retentionWindow)

	exists, err := s.days.Exists(ctx, dayID)
	if err != nil {
		metrics.RecordIngest("error", 0)
		return nil, err
	}
	if exists && !override {
		log.Info().Time("day_id", dayID).Msg("We already got this day's games")
		metrics.RecordIngest("already_ingested", 0)
		return &Result{AlreadyIngested: true}, nil
	}

	entries, err := s.fetcher.FetchSchedule(ctx,
		now.Format("2006"), now.Format("01"), now.Format("02"))
	if err != nil {
		metrics.RecordIngest("error", 0)
		metrics.RecordError("ingest", "fetch_schedule")
		return nil, err
	}

	games := make([]*models.GameInfo, 0, len(entries))
	skipped := 0
	for i := range entries {
		game, err := entries[i].ToGameInfo(day, deleteTime, s.linescoreTemplate, s.gamedayTemplate)
		if err != nil {
			log.Error().Err(err).Msg("Missing required params for a game, skipping")
			metrics.RecordGameSkipped()
			skipped++
			continue
		}
		games = append(games, game)
	}

	if err := s.games.CreateBatch(ctx, games); err != nil {
		metrics.RecordIngest("error", 0)
		metrics.RecordError("ingest", "persist_games")
		return nil, err
	}

	if err := s.days.Create(ctx, dayID); err != nil {
		metrics.RecordIngest("error", 0)
		metrics.RecordError("ingest", "persist_marker")
		return nil, err
	}

	log.Info().
		Time("day_id", dayID).
		Int("created", len(games)).
		Int("skipped", skipped).
		Msg("Schedule ingested")
	metrics.RecordIngest("success", len(games))

	return &Result{Created: len(games), Skipped: skipped}, nil
}

// CleanupExpired removes game records past their delete_time.
func (s *Service) CleanupExpired(ctx context.Context) (int, error) {
	return s.games.DeleteExpired(ctx, s.now())
}
