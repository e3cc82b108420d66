package tetris

import (
	"log"
)

// プレイヤー操作のアクション名。
const (
	ActionMoveLeft  = "move_left"
	ActionMoveRight = "move_right"
	ActionSoftDrop  = "soft_drop"
	ActionRotate    = "rotate"
	ActionHardDrop  = "hard_drop"
)

// 1ライン消去あたりの得点。k ライン同時消しで k*ScorePerLine 加算します。
const ScorePerLine = 100

// applyPlayerInput はプレイヤーの操作を盤面へ適用します。
// playing 以外のフェーズや脱落済みプレイヤーの操作は黙って無視します。
func (r *Room) applyPlayerInput(p *PlayerGameState, action string) {
	if r.phase != PhasePlaying || !p.IsAlive || p.CurrentPiece == nil {
		return
	}

	switch action {
	case ActionMoveLeft:
		if !p.Board.HasCollision(p.CurrentPiece, -1, 0) {
			p.CurrentPiece.X--
			r.emitBoard(EventPieceMoved, p)
		}
	case ActionMoveRight:
		if !p.Board.HasCollision(p.CurrentPiece, 1, 0) {
			p.CurrentPiece.X++
			r.emitBoard(EventPieceMoved, p)
		}
	case ActionSoftDrop:
		// 着地していても固定はしない。固定は重力かハードドロップでのみ起こる。
		if !p.Board.HasCollision(p.CurrentPiece, 0, 1) {
			p.CurrentPiece.Y++
			r.emitBoard(EventPieceMoved, p)
		}
	case ActionRotate:
		// ウォールキックなし。回転後の形が盤面に収まらないなら棄却する。
		rotated := p.CurrentPiece.Clone()
		rotated.Rotate()
		if !p.Board.HasCollision(rotated, 0, 0) {
			p.CurrentPiece = rotated
			r.emitBoard(EventPieceRotated, p)
		}
	case ActionHardDrop:
		for !p.Board.HasCollision(p.CurrentPiece, 0, 1) {
			p.CurrentPiece.Y++
		}
		r.resolveLock(p, true)
	default:
		log.Printf("[Room %s] 未知のアクションを無視: %s", r.name, action)
	}
}

// autoFall は重力ティックでピースを1段落とします。
// すでに着地している場合はその場で固定します。
func (r *Room) autoFall(p *PlayerGameState) {
	if !p.IsAlive || p.CurrentPiece == nil {
		return
	}
	if !p.Board.HasCollision(p.CurrentPiece, 0, 1) {
		p.CurrentPiece.Y++
		r.emitBoard(EventBoardUpdate, p)
		return
	}
	r.resolveLock(p, false)
}

// resolveLock はピース固定に伴う一連の処理をまとめて行います。
// マージ → ライン消去 → 得点 → ペナルティ送信 → 次ピースのスポーン → トップアウト判定 → 終了判定。
func (r *Room) resolveLock(p *PlayerGameState, hardDrop bool) {
	p.Board.MergePiece(p.CurrentPiece)
	cleared := p.Board.ClearLines()
	p.Score += ScorePerLine * cleared
	p.LinesCleared += cleared

	p.AdvancePiece(r.bag)
	topout := p.Board.HasCollision(p.CurrentPiece, 0, 0)

	if hardDrop {
		r.emit(EventPieceDropped, PieceDroppedData{
			PlayerID:     p.ID,
			Board:        p.Board,
			Spectrum:     p.Board.Spectrum(),
			CurrentPiece: p.CurrentPiece,
			LinesCleared: cleared,
		})
	} else {
		r.emitBoard(EventBoardUpdate, p)
	}

	// k>=2 ライン同時消しで k-1 行のペナルティを他の生存者全員へ送る。
	if cleared >= 2 {
		r.distributePenaltyLines(p, cleared-1)
	}

	if topout {
		r.eliminatePlayer(p)
	}
	r.checkGameEnd()
}

// distributePenaltyLines は送信者以外の生存プレイヤー全員へペナルティ行を積みます。
// 押し上げで現在ピースが既存ブロックと重なったプレイヤーは脱落します。
func (r *Room) distributePenaltyLines(from *PlayerGameState, count int) {
	affected := make([]*PlayerGameState, 0, len(r.players))
	for _, p := range r.players {
		if p.ID == from.ID || !p.IsAlive {
			continue
		}
		p.Board.AddPenaltyLines(count)
		affected = append(affected, p)
	}
	if len(affected) == 0 {
		return
	}

	infos := make([]PlayerInfo, 0, len(affected))
	for _, p := range affected {
		infos = append(infos, p.Info(r.name))
	}
	for _, p := range affected {
		r.emit(EventPenaltyLinesAdded, PenaltyLinesAddedData{
			TargetPlayerID:  p.ID,
			PenaltyLines:    count,
			AffectedPlayers: infos,
		})
	}

	for _, p := range affected {
		if p.CurrentPiece != nil && p.Board.HasCollision(p.CurrentPiece, 0, 0) {
			r.eliminatePlayer(p)
		}
	}
}

// eliminatePlayer はプレイヤーを脱落させ、最終スコアを保存します。
// 盤面と得点は観戦用にそのまま残します。
func (r *Room) eliminatePlayer(p *PlayerGameState) {
	if !p.IsAlive {
		return
	}
	p.IsAlive = false
	log.Printf("[Room %s] プレイヤー脱落: %s (score=%d)", r.name, p.Name, p.Score)
	r.emit(EventPlayerLost, PlayerLostData{PlayerID: p.ID})
	r.saveScore(p)
}

// checkGameEnd は生存者が1人以下になったらゲームを終了させます。
// 1人で開始したゲームは対戦相手がいないため、その1人が脱落するまで続きます。
func (r *Room) checkGameEnd() {
	if r.phase != PhasePlaying {
		return
	}
	alive := r.alivePlayers()
	if r.startingPlayers <= 1 {
		if len(alive) > 0 {
			return
		}
		r.finishGame(nil)
		return
	}
	if len(alive) > 1 {
		return
	}
	var winner *PlayerGameState
	if len(alive) == 1 {
		winner = alive[0]
	}
	r.finishGame(winner)
}

// alivePlayers は生存中のプレイヤーを参加順で返します。
func (r *Room) alivePlayers() []*PlayerGameState {
	alive := make([]*PlayerGameState, 0, len(r.players))
	for _, p := range r.players {
		if p.IsAlive {
			alive = append(alive, p)
		}
	}
	return alive
}

// emitBoard は1プレイヤーの盤面スナップショットをルーム全体へ流します。
func (r *Room) emitBoard(event string, p *PlayerGameState) {
	r.emit(event, BoardUpdateData{
		PlayerID:     p.ID,
		Board:        p.Board,
		Spectrum:     p.Board.Spectrum(),
		CurrentPiece: p.CurrentPiece,
	})
}
