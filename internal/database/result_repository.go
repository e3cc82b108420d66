package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/progate-hackathon-strawberry-flavor/REDTRIS-backend/internal/models"
)

// ResultRepository はゲーム結果の保存と取得を行います。
type ResultRepository struct {
	db *sql.DB
}

// NewResultRepository はリポジトリを作成します。
func NewResultRepository(db *sql.DB) *ResultRepository {
	return &ResultRepository{db: db}
}

// SaveScore は1プレイヤーの最終結果を results テーブルへ保存します。
func (r *ResultRepository) SaveScore(playerName string, score, linesCleared, durationSec int) error {
	query := `
		INSERT INTO results (player_name, score, lines_cleared, duration_sec, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	if _, err := r.db.Exec(query, playerName, score, linesCleared, durationSec, time.Now()); err != nil {
		return fmt.Errorf("結果の保存に失敗しました: %w", err)
	}
	return nil
}

// TopScores はスコア上位 limit 件をランク付きで返します。
// 同点は先に記録された方が上位です。
func (r *ResultRepository) TopScores(limit int) ([]models.ResultResponse, error) {
	query := `
		SELECT
			ROW_NUMBER() OVER (ORDER BY score DESC, created_at ASC) AS rank,
			player_name, score, lines_cleared, duration_sec, created_at
		FROM results
		ORDER BY score DESC, created_at ASC
		LIMIT $1`
	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("ランキングの取得に失敗しました: %w", err)
	}
	defer rows.Close()

	results := make([]models.ResultResponse, 0, limit)
	for rows.Next() {
		var res models.ResultResponse
		if err := rows.Scan(&res.Rank, &res.PlayerName, &res.Score, &res.Lines, &res.DurationSec, &res.CreatedAt); err != nil {
			return nil, fmt.Errorf("結果行の読み取りに失敗しました: %w", err)
		}
		results = append(results, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("結果行の走査に失敗しました: %w", err)
	}
	return results, nil
}
