package tetris

import (
	"github.com/progate-hackathon-strawberry-flavor/REDTRIS-backend/internal/models/tetris"
)

// PlayerGameState はルーム内の1プレイヤーの全状態を保持します。
// ルームのゴルーチンからのみ触るため、ロックは持ちません。
type PlayerGameState struct {
	ID           string // 接続ID
	Name         string
	IsHost       bool
	IsAlive      bool
	Ready        bool
	Score        int
	LinesCleared int
	Board        tetris.Board
	CurrentPiece *tetris.Piece
	NextPiece    *tetris.Piece

	// cursor は共有ピース列の中で CurrentPiece が指すインデックスです。
	// スポーンのたびに単調増加し、巻き戻ることはありません。
	cursor int

	// scoreSaved は二重保存を防ぐフラグです。
	scoreSaved bool
}

// NewPlayerGameState は待機状態のプレイヤーを作成します。
//
// Parameters:
//   - connID: WebSocket接続の識別子
//   - name: ルーム内で一意なプレイヤー名
func NewPlayerGameState(connID, name string) *PlayerGameState {
	return &PlayerGameState{
		ID:      connID,
		Name:    name,
		IsAlive: true,
		Board:   tetris.NewBoard(),
	}
}

// ResetForStart はゲーム開始時にプレイヤーをプレイ状態へ初期化します。
// 全プレイヤーが同じバッグから同じ順序でピースを受け取ります。
func (s *PlayerGameState) ResetForStart(bag *PieceBag) {
	s.IsAlive = true
	s.Ready = false
	s.Score = 0
	s.LinesCleared = 0
	s.Board = tetris.NewBoard()
	s.scoreSaved = false
	s.cursor = 0
	s.CurrentPiece = tetris.NewPiece(bag.KindAt(0))
	s.NextPiece = tetris.NewPiece(bag.KindAt(1))
}

// ResetForWaiting はリスタート時にプレイヤーを待機状態へ戻します。
func (s *PlayerGameState) ResetForWaiting() {
	s.IsAlive = true
	s.Ready = false
	s.Score = 0
	s.LinesCleared = 0
	s.Board = tetris.NewBoard()
	s.CurrentPiece = nil
	s.NextPiece = nil
	s.scoreSaved = false
	s.cursor = 0
}

// AdvancePiece は固定後に次のピースをスポーンさせます。
// cursor を1進め、NextPiece を新しい現在ピースとして配置し直します。
func (s *PlayerGameState) AdvancePiece(bag *PieceBag) {
	s.cursor++
	s.CurrentPiece = tetris.NewPiece(bag.KindAt(s.cursor))
	s.NextPiece = tetris.NewPiece(bag.KindAt(s.cursor + 1))
}

// Cursor は共有ピース列の現在位置を返します。
func (s *PlayerGameState) Cursor() int {
	return s.cursor
}

// Info はクライアントへ送るスナップショットを作ります。
//
// Parameters:
//   - roomName: プレイヤーが所属するルーム名
//
// Returns:
//   - PlayerInfo: スペクトラムを含む公開情報
func (s *PlayerGameState) Info(roomName string) PlayerInfo {
	return PlayerInfo{
		ID:           s.ID,
		Name:         s.Name,
		RoomName:     roomName,
		IsHost:       s.IsHost,
		IsAlive:      s.IsAlive,
		Score:        s.Score,
		LinesCleared: s.LinesCleared,
		Spectrum:     s.Board.Spectrum(),
	}
}
