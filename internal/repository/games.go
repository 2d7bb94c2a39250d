package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mlb_byte/scoreboard/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

// GameRepository handles game record database operations
type GameRepository struct {
	db *Database
}

const gameColumns = `id, day, home_team, away_team, start_time, start_time_display,
       game_day_data_url, game_day_url, delete_time, cache_id, created_at`

// CreateBatch inserts a day's game records as one batch. There is no
// transaction around the batch: a partial failure surfaces the first
// error and leaves earlier inserts in place.
func (r *GameRepository) CreateBatch(ctx context.Context, games []*models.GameInfo) error {
	if len(games) == 0 {
		return nil
	}

	query := `
		INSERT INTO games (
			day, home_team, away_team, start_time, start_time_display,
			game_day_data_url, game_day_url, delete_time
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	batch := &pgx.Batch{}
	for _, game := range games {
		batch.Queue(query,
			game.Day, game.HomeTeam, game.AwayTeam, game.StartTime, game.StartTimeDisplay,
			game.GameDayDataURL, game.GameDayURL, game.DeleteTime,
		)
	}

	results := r.db.Pool.SendBatch(ctx, batch)
	defer results.Close()

	for _, game := range games {
		if err := results.QueryRow().Scan(&game.ID); err != nil {
			return fmt.Errorf("failed to insert game %s @ %s: %w", game.AwayTeam, game.HomeTeam, err)
		}
	}

	log.Debug().Int("count", len(games)).Msg("Game records created")
	return nil
}

// GetByTeamAndDay retrieves the game on a schedule day in which the
// team plays on either side. Returns ErrNotFound when the team has no
// game that day.
func (r *GameRepository) GetByTeamAndDay(ctx context.Context, team string, day time.Time) (*models.GameInfo, error) {
	query := `
		SELECT ` + gameColumns + `
		FROM games
		WHERE day = $1 AND (home_team = $2 OR away_team = $2)
		LIMIT 1
	`

	var game models.GameInfo
	err := r.db.Pool.QueryRow(ctx, query, day, team).Scan(
		&game.ID, &game.Day, &game.HomeTeam, &game.AwayTeam, &game.StartTime, &game.StartTimeDisplay,
		&game.GameDayDataURL, &game.GameDayURL, &game.DeleteTime, &game.CacheID, &game.CreatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return &game, nil
}

// GetByDay retrieves all game records for a schedule day
func (r *GameRepository) GetByDay(ctx context.Context, day time.Time) ([]*models.GameInfo, error) {
	query := `
		SELECT ` + gameColumns + `
		FROM games
		WHERE day = $1
		ORDER BY start_time
	`

	rows, err := r.db.Pool.Query(ctx, query, day)
	if err != nil {
		return nil, fmt.Errorf("failed to get games by day: %w", err)
	}
	defer rows.Close()

	var games []*models.GameInfo
	for rows.Next() {
		var game models.GameInfo
		err := rows.Scan(
			&game.ID, &game.Day, &game.HomeTeam, &game.AwayTeam, &game.StartTime, &game.StartTimeDisplay,
			&game.GameDayDataURL, &game.GameDayURL, &game.DeleteTime, &game.CacheID, &game.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game: %w", err)
		}
		games = append(games, &game)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating games: %w", err)
	}

	return games, nil
}

// SetCacheID attaches a live cache to a game record. The cache id is
// set once and never reset to null.
func (r *GameRepository) SetCacheID(ctx context.Context, gameID, cacheID int) error {
	query := `
		UPDATE games
		SET cache_id = $1
		WHERE id = $2
	`

	result, err := r.db.Pool.Exec(ctx, query, cacheID, gameID)
	if err != nil {
		return fmt.Errorf("failed to attach cache to game: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("game not found: id=%d", gameID)
	}

	return nil
}

// DeleteExpired removes game records whose delete_time has passed,
// along with the caches they own. Returns the number of games removed.
func (r *GameRepository) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	query := `
		WITH removed AS (
			DELETE FROM games
			WHERE delete_time < $1
			RETURNING cache_id
		)
		DELETE FROM game_caches
		WHERE id IN (SELECT cache_id FROM removed WHERE cache_id IS NOT NULL)
	`

	// The CTE result counts caches, not games; count games first.
	var count int
	if err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM games WHERE delete_time < $1`, now).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count expired games: %w", err)
	}

	if _, err := r.db.Pool.Exec(ctx, query, now); err != nil {
		return 0, fmt.Errorf("failed to delete expired games: %w", err)
	}

	if count > 0 {
		log.Info().Int("count", count).Msg("Expired game records removed")
	}
	return count, nil
}

// CountByDay returns the number of game records for a schedule day
func (r *GameRepository) CountByDay(ctx context.Context, day time.Time) (int, error) {
	query := `SELECT COUNT(*) FROM games WHERE day = $1`

	var count int
	err := r.db.Pool.QueryRow(ctx, query, day).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count games: %w", err)
	}

	return count, nil
}
