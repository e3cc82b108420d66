package tetris

import (
	"github.com/progate-hackathon-strawberry-flavor/REDTRIS-backend/internal/models/tetris"
)

// サーバー → クライアントのイベント名。
const (
	EventPlayerJoined      = "playerJoined"
	EventPlayerLeft        = "playerLeft"
	EventNewHost           = "newHost"
	EventGameStarted       = "gameStarted"
	EventGameRestarted     = "gameRestarted"
	EventBoardUpdate       = "boardUpdate"
	EventPieceMoved        = "pieceMoved"
	EventPieceRotated      = "pieceRotated"
	EventPieceDropped      = "pieceDropped"
	EventPenaltyLinesAdded = "penaltyLinesAdded"
	EventPlayerLost        = "playerLost"
	EventGameEnded         = "gameEnded"
	EventError             = "error"
)

// クライアント → サーバーのイベント名。
// movePiece/rotatePiece/hardDrop と gameAction{type:...} の両方の語彙を受け付けます。
const (
	FrameJoinGame    = "joinGame"
	FrameStartGame   = "startGame"
	FrameRestartGame = "restartGame"
	FramePlayerReady = "playerReady"
	FrameMovePiece   = "movePiece"
	FrameRotatePiece = "rotatePiece"
	FrameHardDrop    = "hardDrop"
	FrameGameAction  = "gameAction"
)

// Event はサーバーからクライアントへ送る1フレームです。
// {"event": <name>, "data": <object>} の形でシリアライズされます。
type Event struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// Frame はクライアントから受信する1フレームです。
type Frame struct {
	Event string    `json:"event"`
	Data  FrameData `json:"data"`
}

// FrameData は全インバウンドイベントのデータフィールドの和集合です。
// イベントごとに使うフィールドだけを読みます。
type FrameData struct {
	Room       string `json:"room"`
	PlayerName string `json:"playerName"`
	Direction  string `json:"direction"` // "left" | "right" | "down"
	Type       string `json:"type"`      // gameAction用: "move" | "rotate" | "hardDrop"
}

// PlayerInfo はクライアントに見せるプレイヤーのスナップショットです。
type PlayerInfo struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	RoomName     string `json:"roomName"`
	IsHost       bool   `json:"isHost"`
	IsAlive      bool   `json:"isAlive"`
	Score        int    `json:"score"`
	LinesCleared int    `json:"linesCleared"`
	Spectrum     []int  `json:"spectrum"`
}

// PiecePreview は gameStarted でプレイヤーごとの初期ピースを知らせるための構造体です。
type PiecePreview struct {
	PlayerID     string        `json:"playerId"`
	CurrentPiece *tetris.Piece `json:"currentPiece"`
	NextPiece    *tetris.Piece `json:"nextPiece"`
}

// PlayerJoinedData は playerJoined のペイロードです。
type PlayerJoinedData struct {
	Player  PlayerInfo   `json:"player"`
	Players []PlayerInfo `json:"players"`
}

// PlayerLeftData は playerLeft のペイロードです。
type PlayerLeftData struct {
	PlayerID string       `json:"playerId"`
	Players  []PlayerInfo `json:"players"`
}

// NewHostData は newHost のペイロードです。
type NewHostData struct {
	Host PlayerInfo `json:"host"`
}

// GameStartedData は gameStarted のペイロードです。
type GameStartedData struct {
	Players       []PlayerInfo   `json:"players"`
	CurrentPieces []PiecePreview `json:"currentPieces"`
}

// GameRestartedData は gameRestarted のペイロードです。
// リスタートで waiting に戻ったことをルーム全体へ知らせます。
type GameRestartedData struct {
	Players []PlayerInfo `json:"players"`
}

// BoardUpdateData は boardUpdate / pieceMoved / pieceRotated のペイロードです。
type BoardUpdateData struct {
	PlayerID     string        `json:"playerId"`
	Board        tetris.Board  `json:"board"`
	Spectrum     []int         `json:"spectrum"`
	CurrentPiece *tetris.Piece `json:"currentPiece,omitempty"`
}

// PieceDroppedData は pieceDropped のペイロードです。クリアしたライン数が付きます。
type PieceDroppedData struct {
	PlayerID     string        `json:"playerId"`
	Board        tetris.Board  `json:"board"`
	Spectrum     []int         `json:"spectrum"`
	CurrentPiece *tetris.Piece `json:"currentPiece,omitempty"`
	LinesCleared int           `json:"linesCleared"`
}

// PenaltyLinesAddedData は penaltyLinesAdded のペイロードです。
type PenaltyLinesAddedData struct {
	TargetPlayerID  string       `json:"targetPlayerId"`
	PenaltyLines    int          `json:"penaltyLines"`
	AffectedPlayers []PlayerInfo `json:"affectedPlayers"`
}

// PlayerLostData は playerLost のペイロードです。
type PlayerLostData struct {
	PlayerID string `json:"playerId"`
}

// GameEndedData は gameEnded のペイロードです。勝者がいない場合 winner は null です。
type GameEndedData struct {
	Winner  *PlayerInfo  `json:"winner"`
	Players []PlayerInfo `json:"players"`
}

// ErrorData は接続単位で送るエラーイベントのペイロードです。
type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
