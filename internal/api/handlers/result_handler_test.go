package handlers

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/progate-hackathon-strawberry-flavor/REDTRIS-backend/internal/models"
)

type stubScoreStore struct {
	results []models.ResultResponse
	err     error
}

func (s *stubScoreStore) SaveScore(playerName string, score, linesCleared, durationSec int) error {
	return nil
}

func (s *stubScoreStore) TopScores(limit int) ([]models.ResultResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	if limit < len(s.results) {
		return s.results[:limit], nil
	}
	return s.results, nil
}

func TestGetTopResultsWithoutStore(t *testing.T) {
	h := NewResultHandler(nil)
	rec := httptest.NewRecorder()
	h.GetTopResults(rec, httptest.NewRequest("GET", "/api/results", nil))

	assert.Equal(t, 503, rec.Code)
}

func TestGetTopResultsInvalidLimit(t *testing.T) {
	h := NewResultHandler(&stubScoreStore{})

	for _, limit := range []string{"abc", "0", "-5", "1000"} {
		rec := httptest.NewRecorder()
		h.GetTopResults(rec, httptest.NewRequest("GET", "/api/results?limit="+limit, nil))
		assert.Equal(t, 400, rec.Code, "limit=%s", limit)
	}
}

func TestGetTopResults(t *testing.T) {
	store := &stubScoreStore{
		results: []models.ResultResponse{
			{Rank: 1, PlayerName: "alice", Score: 500, Lines: 5, DurationSec: 120, CreatedAt: time.Now()},
			{Rank: 2, PlayerName: "bob", Score: 300, Lines: 3, DurationSec: 90, CreatedAt: time.Now()},
		},
	}
	h := NewResultHandler(store)

	rec := httptest.NewRecorder()
	h.GetTopResults(rec, httptest.NewRequest("GET", "/api/results", nil))
	require.Equal(t, 200, rec.Code)

	var body struct {
		Success bool                    `json:"success"`
		Results []models.ResultResponse `json:"results"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	require.Len(t, body.Results, 2)
	assert.Equal(t, "alice", body.Results[0].PlayerName)
	assert.Equal(t, 1, body.Results[0].Rank)
}

func TestGetTopResultsLimitApplied(t *testing.T) {
	store := &stubScoreStore{
		results: []models.ResultResponse{
			{Rank: 1, PlayerName: "alice", Score: 500},
			{Rank: 2, PlayerName: "bob", Score: 300},
		},
	}
	h := NewResultHandler(store)

	rec := httptest.NewRecorder()
	h.GetTopResults(rec, httptest.NewRequest("GET", "/api/results?limit=1", nil))
	require.Equal(t, 200, rec.Code)

	var body struct {
		Results []models.ResultResponse `json:"results"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.Results, 1)
}

func TestGetTopResultsStoreError(t *testing.T) {
	h := NewResultHandler(&stubScoreStore{err: errors.New("connection refused")})

	rec := httptest.NewRecorder()
	h.GetTopResults(rec, httptest.NewRequest("GET", "/api/results", nil))
	assert.Equal(t, 500, rec.Code)
}
