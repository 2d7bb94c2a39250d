package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mlb_byte/scoreboard/internal/client"
	"mlb_byte/scoreboard/internal/ingest"
	"mlb_byte/scoreboard/internal/status"
)

type fakeIngest struct {
	result   *ingest.Result
	err      error
	override bool
	calls    int
}

func (f *fakeIngest) IngestDay(ctx context.Context, override bool) (*ingest.Result, error) {
	f.calls++
	f.override = override
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type fakeStatus struct {
	resp *status.Byte
	err  error
	team string
}

func (f *fakeStatus) GetStatus(ctx context.Context, team string) (*status.Byte, error) {
	f.team = team
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

func newTestRouter(ingestSvc IngestService, statusSvc StatusService) http.Handler {
	return New(0, NewHandler(ingestSvc, statusSvc)).server.Handler
}

func TestHealthCheck(t *testing.T) {
	router := newTestRouter(&fakeIngest{}, &fakeStatus{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
}

func TestInitDaySuccess(t *testing.T) {
	svc := &fakeIngest{result: &ingest.Result{Created: 12}}
	router := newTestRouter(svc, &fakeStatus{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/admin/init_day", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Success", rec.Body.String())
	assert.False(t, svc.override)
}

func TestInitDayAlreadyIngested(t *testing.T) {
	svc := &fakeIngest{result: &ingest.Result{AlreadyIngested: true}}
	router := newTestRouter(svc, &fakeStatus{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/admin/init_day", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "We already got this day's games", rec.Body.String())
}

func TestInitDayOverrideParam(t *testing.T) {
	tests := []struct {
		name     string
		target   string
		override bool
	}{
		{"absent", "/admin/init_day", false},
		{"empty", "/admin/init_day?override_current_vals=", false},
		{"true", "/admin/init_day?override_current_vals=true", true},
		{"any value", "/admin/init_day?override_current_vals=no", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeIngest{result: &ingest.Result{}}
			router := newTestRouter(svc, &fakeStatus{})

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest("GET", tt.target, nil))

			assert.Equal(t, tt.override, svc.override)
		})
	}
}

func TestInitDayUpstreamError(t *testing.T) {
	svc := &fakeIngest{err: &client.UpstreamError{StatusCode: http.StatusBadGateway, Body: "gd2 is down"}}
	router := newTestRouter(svc, &fakeStatus{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/admin/init_day", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "There was an error getting the game schedule! - 502 gd2 is down", rec.Body.String())
}

func TestInitDayMalformedFeed(t *testing.T) {
	svc := &fakeIngest{err: &client.MalformedFeedError{Doc: "<html>"}}
	router := newTestRouter(svc, &fakeStatus{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/admin/init_day", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Missing some required params in today's schedule - <html>", rec.Body.String())
}

func TestByteSuccess(t *testing.T) {
	svc := &fakeStatus{resp: &status.Byte{
		Name:    "Cardinals @ Cubs",
		Message: "Top 7",
		Note:    &status.Note{Message: "5 - 3", Type: status.NoteBad},
		URL:     "http://mlb.com/mlb/gameday/index.jsp?gid=gid_x",
	}}
	router := newTestRouter(&fakeIngest{}, svc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("POST", "/byte",
		strings.NewReader(`{"data": {"team": "Cubs"}}`)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Cubs", svc.team)

	var b status.Byte
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &b))
	assert.Equal(t, "Top 7", b.Message)
	require.NotNil(t, b.Note)
	assert.Equal(t, status.NoteBad, b.Note.Type)
}

func TestBytePreviewOmitsNote(t *testing.T) {
	svc := &fakeStatus{resp: &status.Byte{
		Name:    "Cardinals @ Cubs",
		Message: "7:05PM CDT",
		URL:     "http://mlb.com/mlb/gameday/index.jsp?gid=gid_x",
	}}
	router := newTestRouter(&fakeIngest{}, svc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("POST", "/byte",
		strings.NewReader(`{"data": {"team": "Cubs"}}`)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "note")
}

func TestByteMissingTeam(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty body", ""},
		{"not json", "nope"},
		{"empty team", `{"data": {"team": ""}}`},
		{"missing data", `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(&fakeIngest{}, &fakeStatus{})

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest("POST", "/byte",
				strings.NewReader(tt.body)))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestByteTeamNotFound(t *testing.T) {
	svc := &fakeStatus{err: status.ErrTeamNotFound}
	router := newTestRouter(&fakeIngest{}, svc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("POST", "/byte",
		strings.NewReader(`{"data": {"team": "Expos"}}`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestByteUnavailable(t *testing.T) {
	svc := &fakeStatus{err: status.ErrGameUnavailable}
	router := newTestRouter(&fakeIngest{}, svc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("POST", "/byte",
		strings.NewReader(`{"data": {"team": "Cubs"}}`)))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "unable to get game info")
}
