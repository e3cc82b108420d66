package models

import "time"

// Result は results テーブルの1行です。
type Result struct {
	ID          int64     `json:"id"`
	PlayerName  string    `json:"playerName"`
	Score       int       `json:"score"`
	Lines       int       `json:"lines"`
	DurationSec int       `json:"durationSec"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ResultResponse はランキングAPIで返す1件です。スコア降順の順位が付きます。
type ResultResponse struct {
	Rank        int       `json:"rank"`
	PlayerName  string    `json:"playerName"`
	Score       int       `json:"score"`
	Lines       int       `json:"lines"`
	DurationSec int       `json:"durationSec"`
	CreatedAt   time.Time `json:"createdAt"`
}
