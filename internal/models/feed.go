package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// startTimeLayout parses the feed's time_date plus am/pm marker. The
// value is naive local venue time; no zone conversion is applied.
const startTimeLayout = "2006/01/02 3:04 PM"

// ScheduleFeed is the top-level miniscoreboard document. All nesting
// is optional; the feed's schema is asserted, not trusted.
type ScheduleFeed struct {
	Data *ScheduleData `json:"data"`
}

// ScheduleData holds the games container.
type ScheduleData struct {
	Games *ScheduleGames `json:"games"`
}

// ScheduleGames holds the day's game list.
type ScheduleGames struct {
	Game []GameEntry `json:"game"`
}

// HasGames reports whether the expected data.games.game path exists.
func (f *ScheduleFeed) HasGames() bool {
	return f.Data != nil && f.Data.Games != nil && f.Data.Games.Game != nil
}

// GameEntry is one raw schedule entry. Pointer fields record key
// presence so validation can distinguish missing from empty.
type GameEntry struct {
	HomeTeamName      *string `json:"home_team_name"`
	AwayTeamName      *string `json:"away_team_name"`
	HomeTime          *string `json:"home_time"`
	HomeAMPM          *string `json:"home_ampm"`
	HomeTimeZone      *string `json:"home_time_zone"`
	TimeDate          *string `json:"time_date"`
	GameDataDirectory *string `json:"game_data_directory"`
	ID                *string `json:"id"`
}

// Validate checks that every required schedule field is present.
// Entries failing validation are skipped, not fatal.
func (e *GameEntry) Validate() error {
	var missing []string
	for _, f := range []struct {
		name  string
		value *string
	}{
		{"home_team_name", e.HomeTeamName},
		{"away_team_name", e.AwayTeamName},
		{"home_time", e.HomeTime},
		{"home_ampm", e.HomeAMPM},
		{"home_time_zone", e.HomeTimeZone},
		{"time_date", e.TimeDate},
		{"game_data_directory", e.GameDataDirectory},
		{"id", e.ID},
	} {
		if f.value == nil {
			missing = append(missing, f.name)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("game entry missing required fields: %s", strings.Join(missing, ", "))
	}
	return nil
}

// ToGameInfo converts a validated schedule entry into a GameInfo
// record. The linescore and gameday URL templates each take a single
// %s placeholder.
func (e *GameEntry) ToGameInfo(day, deleteTime time.Time, linescoreTemplate, gamedayTemplate string) (*GameInfo, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}

	startTime, err := time.Parse(startTimeLayout, *e.TimeDate+" "+*e.HomeAMPM)
	if err != nil {
		return nil, fmt.Errorf("failed to parse start time %q %q: %w", *e.TimeDate, *e.HomeAMPM, err)
	}

	// The human-facing URL id swaps slashes and dashes for
	// underscores; the data URL keeps the directory as received.
	gid := strings.NewReplacer("/", "_", "-", "_").Replace(*e.ID)

	return &GameInfo{
		Day:              day,
		HomeTeam:         *e.HomeTeamName,
		AwayTeam:         *e.AwayTeamName,
		StartTime:        startTime,
		StartTimeDisplay: fmt.Sprintf("%s%s %s", *e.HomeTime, *e.HomeAMPM, *e.HomeTimeZone),
		GameDayDataURL:   fmt.Sprintf(linescoreTemplate, *e.GameDataDirectory),
		GameDayURL:       fmt.Sprintf(gamedayTemplate, gid),
		DeleteTime:       deleteTime,
	}, nil
}

// LinescoreFeed is the top-level per-game linescore document.
type LinescoreFeed struct {
	Data *LinescoreData `json:"data"`
}

// LinescoreData holds the game payload.
type LinescoreData struct {
	Game *LinescoreEntry `json:"game"`
}

// HasGame reports whether the expected data.game path exists.
func (f *LinescoreFeed) HasGame() bool {
	return f.Data != nil && f.Data.Game != nil
}

// LinescoreEntry is the raw live state for one game. The feed carries
// the game status under both "ind" and "status"; creation reads ind,
// refresh reads status.
type LinescoreEntry struct {
	HomeTeamRuns *string `json:"home_team_runs"`
	AwayTeamRuns *string `json:"away_team_runs"`
	Inning       *string `json:"inning"`
	TopInning    *string `json:"top_inning"`
	Ind          *string `json:"ind"`
	Status       *string `json:"status"`
}

// Validate checks the fields required to build or refresh a cache.
// The status key is deliberately not required here.
func (e *LinescoreEntry) Validate() error {
	var missing []string
	for _, f := range []struct {
		name  string
		value *string
	}{
		{"home_team_runs", e.HomeTeamRuns},
		{"away_team_runs", e.AwayTeamRuns},
		{"inning", e.Inning},
		{"top_inning", e.TopInning},
		{"ind", e.Ind},
	} {
		if f.value == nil {
			missing = append(missing, f.name)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("linescore missing required fields: %s", strings.Join(missing, ", "))
	}
	return nil
}

// ToGameCache builds a new cache from a validated linescore entry.
// Status comes from the ind field on this path.
func (e *LinescoreEntry) ToGameCache(refreshTime time.Time) (*GameCache, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}

	homeRuns, awayRuns, inning, err := e.numbers()
	if err != nil {
		return nil, err
	}

	return &GameCache{
		HomeTeamRuns: homeRuns,
		AwayTeamRuns: awayRuns,
		Inning:       inning,
		TopInning:    *e.TopInning,
		Status:       *e.Ind,
		RefreshTime:  refreshTime,
	}, nil
}

// ApplyTo refreshes an existing cache in place. Status is read from
// the status field on this path; when the feed omits it the stored
// status is left untouched.
func (e *LinescoreEntry) ApplyTo(cache *GameCache, refreshTime time.Time) error {
	if err := e.Validate(); err != nil {
		return err
	}

	homeRuns, awayRuns, inning, err := e.numbers()
	if err != nil {
		return err
	}

	cache.HomeTeamRuns = homeRuns
	cache.AwayTeamRuns = awayRuns
	cache.Inning = inning
	cache.TopInning = *e.TopInning
	if e.Status != nil {
		cache.Status = *e.Status
	}
	cache.RefreshTime = refreshTime
	return nil
}

// numbers parses the feed's stringly-typed run and inning counts.
func (e *LinescoreEntry) numbers() (homeRuns, awayRuns, inning int, err error) {
	homeRuns, err = strconv.Atoi(*e.HomeTeamRuns)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid home_team_runs %q: %w", *e.HomeTeamRuns, err)
	}
	awayRuns, err = strconv.Atoi(*e.AwayTeamRuns)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid away_team_runs %q: %w", *e.AwayTeamRuns, err)
	}
	inning, err = strconv.Atoi(*e.Inning)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid inning %q: %w", *e.Inning, err)
	}
	return homeRuns, awayRuns, inning, nil
}
