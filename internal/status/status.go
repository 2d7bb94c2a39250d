// Package status implements the per-team status lookup: find today's
// game, decide preview vs live, and keep a refresh-throttled live
// cache fed from the linescore feed.
package status

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"mlb_byte/scoreboard/internal/client"
	"mlb_byte/scoreboard/internal/metrics"
	"mlb_byte/scoreboard/internal/models"
	"mlb_byte/scoreboard/internal/repository"
)

// startTimeSlack is subtracted from the current instant before
// comparing against a game's start time. Companion to the ingestion
// side's day offset; preserved as-is.
const startTimeSlack = time.Hour

// refreshInterval is how long a live cache stays fresh.
const refreshInterval = 3 * time.Minute

// ErrTeamNotFound means no game record matches the team for today.
var ErrTeamNotFound = errors.New("no game found for team")

// ErrGameUnavailable means live state could not be obtained from the
// upstream feed.
var ErrGameUnavailable = errors.New("unable to get game info")

// Note type values for the requesting team's standing.
const (
	NoteGood = "good"
	NoteBad  = "bad"
	NoteOK   = "ok"
)

// Byte is the compact status summary returned to clients.
type Byte struct {
	Name    string `json:"name"`
	Message string `json:"message"`
	Note    *Note  `json:"note,omitempty"`
	URL     string `json:"url"`
}

// Note carries the score line and a qualitative standing indicator.
type Note struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// LinescoreFetcher fetches live game state.
type LinescoreFetcher interface {
	FetchLinescore(ctx context.Context, url string) (*models.LinescoreEntry, error)
}

// GameStore reads game records and attaches caches to them.
type GameStore interface {
	GetByTeamAndDay(ctx context.Context, team string, day time.Time) (*models.GameInfo, error)
	SetCacheID(ctx context.Context, gameID, cacheID int) error
}

// CacheStore persists live caches.
type CacheStore interface {
	Create(ctx context.Context, cache *models.GameCache) error
	GetByID(ctx context.Context, id int) (*models.GameCache, error)
	Update(ctx context.Context, cache *models.GameCache) error
}

// ByteCache stores rendered bytes for finished games. Optional; a nil
// ByteCache disables it.
type ByteCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// Service runs status lookups.
type Service struct {
	fetcher  LinescoreFetcher
	games    GameStore
	caches   CacheStore
	bytes    ByteCache
	finalTTL time.Duration
	now      func() time.Time
}

// NewService creates a status lookup service. bytes may be nil.
func NewService(fetcher LinescoreFetcher, games GameStore, caches CacheStore, bytes ByteCache, finalTTL time.Duration) *Service {
	return &Service{
		fetcher:  fetcher,
		games:    games,
		caches:   caches,
		bytes:    bytes,
		finalTTL: finalTTL,
		now:      time.Now,
	}
}

// GetStatus returns the current status byte for a team's game today.
func (s *Service) GetStatus(ctx context.Context, team string) (*Byte, error) {
	now := s.now()
	today := models.Midnight(now)
	gameNow := now.Add(-startTimeSlack)

	game, err := s.games.GetByTeamAndDay(ctx, team, today)
	if errors.Is(err, repository.ErrNotFound) {
		metrics.RecordByteRequest("not_found")
		return nil, fmt.Errorf("unable to find team %s for day %s: %w",
			team, today.Format("2006-01-02"), ErrTeamNotFound)
	}
	if err != nil {
		metrics.RecordByteRequest("error")
		return nil, err
	}

	// Not started yet: preview, no cache involved.
	if gameNow.Before(game.StartTime) {
		metrics.RecordByteRequest("preview")
		return &Byte{
			Name:    game.Title(),
			Message: game.StartTimeDisplay,
			URL:     game.GameDayURL,
		}, nil
	}

	if b := s.cachedFinalByte(ctx, team, today); b != nil {
		metrics.RecordByteRequest("live")
		return b, nil
	}

	var cache *models.GameCache
	if game.CacheID.Valid {
		stored, err := s.caches.GetByID(ctx, int(game.CacheID.Int64))
		if err != nil {
			metrics.RecordByteRequest("error")
			return nil, err
		}
		cache = stored
		if !stored.IsFinal() && gameNow.After(stored.RefreshTime) {
			cache = s.refreshCache(ctx, game, stored, gameNow)
		}
	} else {
		cache, err = s.createCache(ctx, game, gameNow)
		if err != nil {
			metrics.RecordByteRequest("error")
			return nil, err
		}
	}

	if cache == nil {
		log.Error().
			Str("team", team).
			Str("url", game.GameDayDataURL).
			Msg("Unable to get game info")
		metrics.RecordByteRequest("error")
		metrics.RecordError("status", "no_cache")
		return nil, ErrGameUnavailable
	}

	b := s.buildLiveByte(game, cache, team)
	if cache.IsFinal() {
		s.storeFinalByte(ctx, team, today, b)
	}

	metrics.RecordByteRequest("live")
	return b, nil
}

// createCache fetches live state and creates the game's cache. A feed
// missing required fields is a soft failure: nil cache, nil error.
func (s *Service) createCache(ctx context.Context, game *models.GameInfo, gameNow time.Time) (*models.GameCache, error) {
	entry, err := s.fetcher.FetchLinescore(ctx, game.GameDayDataURL)
	if err != nil {
		var mfe *client.MalformedFeedError
		if errors.As(err, &mfe) {
			log.Error().Err(err).Str("url", game.GameDayDataURL).Msg("Missing some required params in a game")
			return nil, nil
		}
		return nil, err
	}

	cache, err := entry.ToGameCache(gameNow.Add(refreshInterval))
	if err != nil {
		log.Error().Err(err).Str("url", game.GameDayDataURL).Msg("Missing required params for a game")
		return nil, nil
	}

	if err := s.caches.Create(ctx, cache); err != nil {
		return nil, err
	}
	if err := s.games.SetCacheID(ctx, game.ID, cache.ID); err != nil {
		return nil, err
	}

	return cache, nil
}

// refreshCache re-fetches live state and mutates the cache in place.
// The write back is fire-and-forget; losing it costs at most one
// refresh interval. Any fetch or validation failure yields nil, which
// the caller surfaces as an upstream failure.
func (s *Service) refreshCache(ctx context.Context, game *models.GameInfo, cache *models.GameCache, gameNow time.Time) *models.GameCache {
	entry, err := s.fetcher.FetchLinescore(ctx, game.GameDayDataURL)
	if err != nil {
		log.Error().Err(err).Str("url", game.GameDayDataURL).Msg("There was an error getting a game")
		metrics.RecordError("status", "refresh_fetch")
		return nil
	}

	if err := entry.ApplyTo(cache, gameNow.Add(refreshInterval)); err != nil {
		log.Error().Err(err).Str("url", game.GameDayDataURL).Msg("Missing required params for a game")
		metrics.RecordError("status", "refresh_validate")
		return nil
	}

	metrics.RecordLiveRefresh()

	updated := *cache
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.caches.Update(ctx, &updated); err != nil {
			log.Warn().Err(err).Int("cache_id", updated.ID).Msg("Failed to persist refreshed cache")
			metrics.RecordError("status", "refresh_persist")
		}
	}()

	return cache
}

// buildLiveByte renders the live summary for the requesting team.
func (s *Service) buildLiveByte(game *models.GameInfo, cache *models.GameCache, team string) *Byte {
	var inning string
	if cache.IsFinal() {
		inning = "Final"
	} else if cache.TopInning == models.TopInningYes {
		inning = fmt.Sprintf("Top %d", cache.Inning)
	} else {
		inning = fmt.Sprintf("Bottom %d", cache.Inning)
	}

	mine, theirs := cache.AwayTeamRuns, cache.HomeTeamRuns
	if team == game.HomeTeam {
		mine, theirs = cache.HomeTeamRuns, cache.AwayTeamRuns
	}

	noteType := NoteOK
	if mine > theirs {
		noteType = NoteGood
	} else if mine < theirs {
		noteType = NoteBad
	}

	return &Byte{
		Name:    game.Title(),
		Message: inning,
		Note: &Note{
			Message: fmt.Sprintf("%d - %d", cache.AwayTeamRuns, cache.HomeTeamRuns),
			Type:    noteType,
		},
		URL: game.GameDayURL,
	}
}

// finalByteKey keys a finished game's rendered byte by day and team.
func finalByteKey(team string, day time.Time) string {
	return fmt.Sprintf("byte:final:%s:%s", day.Format("2006-01-02"), team)
}

// cachedFinalByte returns a finished game's byte from redis, or nil.
func (s *Service) cachedFinalByte(ctx context.Context, team string, day time.Time) *Byte {
	if s.bytes == nil {
		return nil
	}

	value, err := s.bytes.Get(ctx, finalByteKey(team, day))
	if err != nil {
		metrics.RecordCacheMiss()
		return nil
	}

	var b Byte
	if err := json.Unmarshal([]byte(value), &b); err != nil {
		log.Warn().Err(err).Str("team", team).Msg("Discarding undecodable cached byte")
		metrics.RecordCacheMiss()
		return nil
	}

	metrics.RecordCacheHit()
	return &b
}

// storeFinalByte caches a finished game's byte; final state never
// changes, so serving it from redis skips the database entirely.
func (s *Service) storeFinalByte(ctx context.Context, team string, day time.Time, b *Byte) {
	if s.bytes == nil {
		return
	}

	value, err := json.Marshal(b)
	if err != nil {
		return
	}

	if err := s.bytes.Set(ctx, finalByteKey(team, day), string(value), s.finalTTL); err != nil {
		log.Warn().Err(err).Str("team", team).Msg("Failed to cache final byte")
	}
}
