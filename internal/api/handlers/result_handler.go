package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/progate-hackathon-strawberry-flavor/REDTRIS-backend/internal/models"
	"github.com/progate-hackathon-strawberry-flavor/REDTRIS-backend/internal/services/tetris"
)

const defaultResultLimit = 10

// ResultHandler はゲーム結果ランキングのHTTPハンドラーです。
type ResultHandler struct {
	store tetris.ScoreStore
}

// NewResultHandler はハンドラーを作成します。store が nil の場合、APIは503を返します。
func NewResultHandler(store tetris.ScoreStore) *ResultHandler {
	return &ResultHandler{store: store}
}

type resultListResponse struct {
	Success bool                    `json:"success"`
	Results []models.ResultResponse `json:"results"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// GetTopResults はスコア上位のランキングを返します。
// GET /api/results?limit=10
func (h *ResultHandler) GetTopResults(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if h.store == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(errorResponse{Error: "score store is not configured"})
		return
	}

	limit := defaultResultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 100 {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(errorResponse{Error: "limit must be an integer between 1 and 100"})
			return
		}
		limit = parsed
	}

	results, err := h.store.TopScores(limit)
	if err != nil {
		log.Printf("[ResultHandler] ランキング取得に失敗: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(errorResponse{Error: "failed to fetch results"})
		return
	}
	if results == nil {
		results = []models.ResultResponse{}
	}

	json.NewEncoder(w).Encode(resultListResponse{Success: true, Results: results})
}
