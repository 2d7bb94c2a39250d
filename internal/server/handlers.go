package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"mlb_byte/scoreboard/internal/client"
	"mlb_byte/scoreboard/internal/ingest"
	"mlb_byte/scoreboard/internal/status"
)

// IngestService triggers schedule ingestion.
type IngestService interface {
	IngestDay(ctx context.Context, override bool) (*ingest.Result, error)
}

// StatusService performs per-team status lookups.
type StatusService interface {
	GetStatus(ctx context.Context, team string) (*status.Byte, error)
}

// Handler contains dependencies for HTTP handlers
type Handler struct {
	ingest IngestService
	status StatusService
}

// NewHandler creates a new handler
func NewHandler(ingestSvc IngestService, statusSvc StatusService) *Handler {
	return &Handler{
		ingest: ingestSvc,
		status: statusSvc,
	}
}

// HealthCheck handles health check requests
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "healthy",
		"service": "scoreboard",
	})
}

// InitDay triggers schedule ingestion for today. Responses are plain
// text. Any non-empty override_current_vals value forces a re-run of
// an already-ingested day.
func (h *Handler) InitDay(w http.ResponseWriter, r *http.Request) {
	override := r.URL.Query().Get("override_current_vals") != ""

	result, err := h.ingest.IngestDay(r.Context(), override)
	if err != nil {
		var ue *client.UpstreamError
		if errors.As(err, &ue) {
			fmt.Fprintf(w, "There was an error getting the game schedule! - %d %s", ue.StatusCode, ue.Body)
			return
		}

		var mfe *client.MalformedFeedError
		if errors.As(err, &mfe) {
			fmt.Fprintf(w, "Missing some required params in today's schedule - %s", mfe.Doc)
			return
		}

		log.Error().Err(err).Msg("Schedule ingestion failed")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if result.AlreadyIngested {
		fmt.Fprint(w, "We already got this day's games")
		return
	}

	fmt.Fprint(w, "Success")
}

// byteRequest is the POST /byte body.
type byteRequest struct {
	Data struct {
		Team string `json:"team"`
	} `json:"data"`
}

// Byte returns the status byte for the requested team's game today.
func (h *Handler) Byte(w http.ResponseWriter, r *http.Request) {
	var req byteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Data.Team == "" {
		log.Error().Msg("There was no team passed to the byte handler")
		respondError(w, http.StatusBadRequest, "missing team")
		return
	}

	b, err := h.status.GetStatus(r.Context(), req.Data.Team)
	if err != nil {
		if errors.Is(err, status.ErrTeamNotFound) {
			log.Error().Err(err).Str("team", req.Data.Team).Msg("No game for team today")
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}

		log.Error().Err(err).Str("team", req.Data.Team).Msg("Status lookup failed")
		respondError(w, http.StatusInternalServerError, "unable to get game info")
		return
	}

	respondJSON(w, http.StatusOK, b)
}

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

// respondError writes a JSON error response
func respondError(w http.ResponseWriter, code int, message string) {
	respondJSON(w, code, map[string]string{"error": message})
}
