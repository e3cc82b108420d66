package tetris

import (
	"github.com/progate-hackathon-strawberry-flavor/REDTRIS-backend/internal/models"
)

// Transport はゲームロジックからクライアントへイベントを届けるための抽象です。
// 実装は internal/api/handlers の WebSocket ハブが持ちます。
type Transport interface {
	// Emit はルームにバインド済みの全接続へイベントをブロードキャストします。
	Emit(roomName string, event Event)
	// EmitTo は特定の接続だけにイベントを送ります。
	EmitTo(connID string, event Event)
	// Bind は接続をルームのブロードキャスト対象に加えます。
	Bind(connID, roomName string)
	// Unbind は接続を所属ルームのブロードキャスト対象から外します。
	Unbind(connID string)
}

// ScoreStore はゲーム結果の永続化の抽象です。nil の場合は保存をスキップします。
type ScoreStore interface {
	// SaveScore は1プレイヤーの最終結果を保存します。
	SaveScore(playerName string, score, linesCleared, durationSec int) error
	// TopScores はスコア上位 limit 件をランク付きで返します。
	TopScores(limit int) ([]models.ResultResponse, error)
}
