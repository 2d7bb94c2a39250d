//go:build integration

package repository

import (
	"context"
	"testing"
	"time"

	"mlb_byte/scoreboard/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testGames(day time.Time) []*models.GameInfo {
	return []*models.GameInfo{
		{
			Day:              day,
			HomeTeam:         "Cubs",
			AwayTeam:         "Cardinals",
			StartTime:        day.Add(19 * time.Hour),
			StartTimeDisplay: "7:05PM CDT",
			GameDayDataURL:   "http://gd2.mlb.com/gid_a/linescore.json",
			GameDayURL:       "http://mlb.com/mlb/gameday/index.jsp?gid=gid_a",
			DeleteTime:       day.Add(48 * time.Hour),
		},
		{
			Day:              day,
			HomeTeam:         "Giants",
			AwayTeam:         "Dodgers",
			StartTime:        day.Add(22 * time.Hour),
			StartTimeDisplay: "7:10PM PDT",
			GameDayDataURL:   "http://gd2.mlb.com/gid_b/linescore.json",
			GameDayURL:       "http://mlb.com/mlb/gameday/index.jsp?gid=gid_b",
			DeleteTime:       day.Add(48 * time.Hour),
		},
	}
}

func cleanupGames(t *testing.T, db *Database, day time.Time) {
	_, err := db.Pool.Exec(context.Background(), `DELETE FROM games WHERE day = $1`, day)
	require.NoError(t, err)
}

func TestGameRepository_CreateBatchAndGet(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	day := time.Date(1997, 7, 1, 0, 0, 0, 0, time.UTC)
	defer cleanupGames(t, db, day)

	games := testGames(day)
	require.NoError(t, db.Games.CreateBatch(ctx, games))

	// CreateBatch fills in ids
	assert.NotZero(t, games[0].ID)
	assert.NotZero(t, games[1].ID)

	// Team lookup finds the game on either side
	home, err := db.Games.GetByTeamAndDay(ctx, "Cubs", day)
	require.NoError(t, err)
	assert.Equal(t, games[0].ID, home.ID)
	assert.Equal(t, "Cardinals", home.AwayTeam)
	assert.False(t, home.CacheID.Valid, "New game records carry no cache")

	away, err := db.Games.GetByTeamAndDay(ctx, "Dodgers", day)
	require.NoError(t, err)
	assert.Equal(t, games[1].ID, away.ID)

	// Unknown team yields ErrNotFound
	_, err = db.Games.GetByTeamAndDay(ctx, "Expos", day)
	assert.ErrorIs(t, err, ErrNotFound)

	count, err := db.Games.CountByDay(ctx, day)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	byDay, err := db.Games.GetByDay(ctx, day)
	require.NoError(t, err)
	require.Len(t, byDay, 2)
	assert.Equal(t, "Cubs", byDay[0].HomeTeam, "Games should order by start time")
}

func TestGameRepository_SetCacheID(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	day := time.Date(1997, 7, 2, 0, 0, 0, 0, time.UTC)
	defer cleanupGames(t, db, day)

	games := testGames(day)[:1]
	require.NoError(t, db.Games.CreateBatch(ctx, games))

	cache := &models.GameCache{
		HomeTeamRuns: 3,
		AwayTeamRuns: 5,
		Inning:       7,
		TopInning:    models.TopInningYes,
		Status:       models.StatusInProgress,
		RefreshTime:  time.Now().Add(3 * time.Minute),
	}
	require.NoError(t, db.Caches.Create(ctx, cache))

	require.NoError(t, db.Games.SetCacheID(ctx, games[0].ID, cache.ID))

	got, err := db.Games.GetByTeamAndDay(ctx, "Cubs", day)
	require.NoError(t, err)
	require.True(t, got.CacheID.Valid)
	assert.Equal(t, int64(cache.ID), got.CacheID.Int64)

	// Missing game id is an error
	err = db.Games.SetCacheID(ctx, -1, cache.ID)
	assert.Error(t, err)
}

func TestGameRepository_DeleteExpired(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	day := time.Date(1997, 7, 3, 0, 0, 0, 0, time.UTC)
	defer cleanupGames(t, db, day)

	games := testGames(day)
	// First game long expired, second still retained
	games[0].DeleteTime = day.Add(time.Hour)
	games[1].DeleteTime = day.Add(96 * time.Hour)
	require.NoError(t, db.Games.CreateBatch(ctx, games))

	// Attach a cache to the expired game; it goes with it
	cache := &models.GameCache{
		Status:      models.StatusFinal,
		RefreshTime: day,
	}
	require.NoError(t, db.Caches.Create(ctx, cache))
	require.NoError(t, db.Games.SetCacheID(ctx, games[0].ID, cache.ID))

	removed, err := db.Games.DeleteExpired(ctx, day.Add(48*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	_, err = db.Games.GetByTeamAndDay(ctx, "Cubs", day)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = db.Games.GetByTeamAndDay(ctx, "Giants", day)
	assert.NoError(t, err, "Unexpired game should survive cleanup")

	_, err = db.Caches.GetByID(ctx, cache.ID)
	assert.ErrorIs(t, err, ErrNotFound, "Owned cache should be removed with its game")
}
