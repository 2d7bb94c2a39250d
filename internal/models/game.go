package models

import (
	"database/sql"
	"time"
)

// GameCache status values, as delivered by the linescore feed.
const (
	StatusInProgress = "I"
	StatusFinal      = "F"
)

// GameCache top_inning values: is the visiting team batting.
const (
	TopInningYes = "Y"
	TopInningNo  = "N"
)

// Day marks a schedule day as ingested. At most one row per distinct
// day exists; ingestion checks before writing, the table itself does
// not enforce uniqueness.
type Day struct {
	ID        int       `db:"id"`
	DayID     time.Time `db:"day_id"`
	CreatedAt time.Time `db:"created_at"`
}

// GameInfo is one scheduled game for a schedule day. Day is the
// schedule day, not the game's actual start date; the two can differ.
type GameInfo struct {
	ID               int           `db:"id"`
	Day              time.Time     `db:"day"`
	HomeTeam         string        `db:"home_team"`
	AwayTeam         string        `db:"away_team"`
	StartTime        time.Time     `db:"start_time"`
	StartTimeDisplay string        `db:"start_time_display"`
	GameDayDataURL   string        `db:"game_day_data_url"`
	GameDayURL       string        `db:"game_day_url"`
	DeleteTime       time.Time     `db:"delete_time"`
	CacheID          sql.NullInt64 `db:"cache_id"`
	CreatedAt        time.Time     `db:"created_at"`
}

// GameCache is the last-known live state for one game. Each cache row
// is owned by exactly one GameInfo via cache_id and is mutated in
// place on refresh until status goes final.
type GameCache struct {
	ID           int       `db:"id"`
	HomeTeamRuns int       `db:"home_team_runs"`
	AwayTeamRuns int       `db:"away_team_runs"`
	Inning       int       `db:"inning"`
	TopInning    string    `db:"top_inning"`
	Status       string    `db:"status"`
	RefreshTime  time.Time `db:"refresh_time"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// IsFinal returns true if the game has finished; final caches are
// never refreshed again.
func (c *GameCache) IsFinal() bool {
	return c.Status == StatusFinal
}

// Title returns the display name for a game, away side first.
func (g *GameInfo) Title() string {
	return g.AwayTeam + " @ " + g.HomeTeam
}

// Midnight floors t to the start of its calendar day.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
