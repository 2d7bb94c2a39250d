package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"mlb_byte/scoreboard/internal/metrics"
	"mlb_byte/scoreboard/internal/models"
)

// Client fetches schedule and linescore documents from the gd2 feeds.
// Fetches are single-shot: upstream failures are surfaced verbatim to
// the caller, never retried.
type Client struct {
	scheduleTemplate string
	httpClient       *http.Client
}

// NewClient creates a gd2 feed client. scheduleTemplate takes three
// %s placeholders (year, month, day).
func NewClient(scheduleTemplate string, timeout time.Duration) *Client {
	return &Client{
		scheduleTemplate: scheduleTemplate,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// FetchSchedule fetches the miniscoreboard document for a calendar
// day and returns its game entries. A document missing the
// data.games.game path yields a *MalformedFeedError.
func (c *Client) FetchSchedule(ctx context.Context, year, month, day string) ([]models.GameEntry, error) {
	url := fmt.Sprintf(c.scheduleTemplate, year, month, day)

	body, err := c.get(ctx, url, "schedule")
	if err != nil {
		return nil, err
	}

	var feed models.ScheduleFeed
	if err := json.Unmarshal(body, &feed); err != nil {
		log.Error().Err(err).Str("url", url).Msg("Failed to decode schedule feed")
		return nil, &MalformedFeedError{URL: url, Doc: string(body)}
	}

	if !feed.HasGames() {
		log.Error().Str("url", url).Msg("Schedule feed missing data.games.game")
		return nil, &MalformedFeedError{URL: url, Doc: string(body)}
	}

	return feed.Data.Games.Game, nil
}

// FetchLinescore fetches the live linescore document for one game. A
// document missing the data.game path yields a *MalformedFeedError.
func (c *Client) FetchLinescore(ctx context.Context, url string) (*models.LinescoreEntry, error) {
	body, err := c.get(ctx, url, "linescore")
	if err != nil {
		return nil, err
	}

	var feed models.LinescoreFeed
	if err := json.Unmarshal(body, &feed); err != nil {
		log.Error().Err(err).Str("url", url).Msg("Failed to decode linescore feed")
		return nil, &MalformedFeedError{URL: url, Doc: string(body)}
	}

	if !feed.HasGame() {
		log.Error().Str("url", url).Msg("Linescore feed missing data.game")
		return nil, &MalformedFeedError{URL: url, Doc: string(body)}
	}

	return feed.Data.Game, nil
}

// get performs a single GET request against a gd2 endpoint.
func (c *Client) get(ctx context.Context, url, endpoint string) ([]byte, error) {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "scoreboard/1.0")

	log.Debug().
		Str("url", url).
		Str("endpoint", endpoint).
		Msg("Fetching feed")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.RecordUpstreamCall(endpoint, "transport_error", time.Since(start).Seconds())
		return nil, fmt.Errorf("feed request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.RecordUpstreamCall(endpoint, "read_error", time.Since(start).Seconds())
		return nil, fmt.Errorf("failed to read feed body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		metrics.RecordUpstreamCall(endpoint, "error", time.Since(start).Seconds())
		log.Warn().
			Str("url", url).
			Int("status", resp.StatusCode).
			Msg("Feed returned non-200")
		return nil, &UpstreamError{URL: url, StatusCode: resp.StatusCode, Body: string(body)}
	}

	metrics.RecordUpstreamCall(endpoint, "ok", time.Since(start).Seconds())
	log.Debug().
		Str("url", url).
		Int("size", len(body)).
		Msg("Feed fetched")

	return body, nil
}
