package tetris

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
)

// GameManager は全ルームと接続→ルームの対応を管理します。
// ルーム内の状態はルームゴルーチンのものなので、ここではマップの整合性だけをロックで守ります。
type GameManager struct {
	mu        sync.RWMutex
	rooms     map[string]*Room
	conns     map[string]*Room
	transport Transport
	scores    ScoreStore
}

// NewGameManager はゲームマネージャーを作成します。
//
// Parameters:
//   - transport: イベント配信先(WebSocketハブ)
//   - scores: スコア永続化ストア(nil可)
func NewGameManager(transport Transport, scores ScoreStore) *GameManager {
	return &GameManager{
		rooms:     make(map[string]*Room),
		conns:     make(map[string]*Room),
		transport: transport,
		scores:    scores,
	}
}

// HandleMessage は1接続から届いた生フレームを解釈してルームへ振り分けます。
// WebSocketハブの読み取りゴルーチンから呼ばれます。
func (gm *GameManager) HandleMessage(connID string, raw []byte) {
	var frame Frame
	if err := json.Unmarshal(raw, &frame); err != nil {
		log.Printf("[GameManager] フレームの解析に失敗: conn=%s: %v", connID, err)
		gm.sendError(connID, fmt.Errorf("%w: invalid frame", ErrUnknownCommand))
		return
	}

	switch frame.Event {
	case FrameJoinGame:
		gm.handleJoinGame(connID, frame.Data)
	case FrameStartGame:
		gm.withRoom(connID, func(room *Room) {
			if err := room.Start(connID, 0); err != nil {
				gm.sendError(connID, err)
			}
		})
	case FrameRestartGame:
		gm.withRoom(connID, func(room *Room) {
			if err := room.Restart(connID); err != nil {
				gm.sendError(connID, err)
			}
		})
	case FramePlayerReady:
		if room := gm.roomOf(connID); room != nil {
			room.Ready(connID)
		}
	case FrameMovePiece:
		gm.routeInput(connID, directionToAction(frame.Data.Direction))
	case FrameRotatePiece:
		gm.routeInput(connID, ActionRotate)
	case FrameHardDrop:
		gm.routeInput(connID, ActionHardDrop)
	case FrameGameAction:
		gm.handleGameAction(connID, frame.Data)
	default:
		gm.sendError(connID, fmt.Errorf("%w: %s", ErrUnknownCommand, frame.Event))
	}
}

// handleJoinGame はルームへの参加を処理します。初参加のルーム名なら作成します。
func (gm *GameManager) handleJoinGame(connID string, data FrameData) {
	if data.Room == "" || data.PlayerName == "" {
		gm.sendError(connID, fmt.Errorf("%w: room and playerName are required", ErrUnknownCommand))
		return
	}

	gm.mu.Lock()
	if _, joined := gm.conns[connID]; joined {
		gm.mu.Unlock()
		gm.sendError(connID, fmt.Errorf("%w: already in a room", ErrBadPhase))
		return
	}
	room, ok := gm.rooms[data.Room]
	created := false
	if !ok {
		room = NewRoom(data.Room, gm.transport, gm.scores)
		gm.rooms[data.Room] = room
		created = true
		go room.Run()
		log.Printf("[GameManager] ルーム作成: %s", data.Room)
	}
	gm.mu.Unlock()

	if err := room.Join(connID, data.PlayerName); err != nil {
		// このために作ったルームが空のままなら片付ける。
		// 作成直後に別の接続が先に参加していた場合は残す。
		if created && room.PlayerCount() == 0 {
			gm.destroyRoom(room)
		}
		gm.sendError(connID, err)
		return
	}

	gm.mu.Lock()
	gm.conns[connID] = room
	gm.mu.Unlock()
}

// handleGameAction は gameAction{type} 語彙を内部アクションへ変換します。
func (gm *GameManager) handleGameAction(connID string, data FrameData) {
	switch data.Type {
	case "move":
		gm.routeInput(connID, directionToAction(data.Direction))
	case "rotate":
		gm.routeInput(connID, ActionRotate)
	case "hardDrop":
		gm.routeInput(connID, ActionHardDrop)
	default:
		gm.sendError(connID, fmt.Errorf("%w: gameAction type %q", ErrUnknownCommand, data.Type))
	}
}

// routeInput はゲーム操作を接続の所属ルームへ送ります。
// 所属ルームがない、または方向が不正な操作は黙って無視します。
func (gm *GameManager) routeInput(connID, action string) {
	if action == "" {
		return
	}
	if room := gm.roomOf(connID); room != nil {
		room.Input(connID, action)
	}
}

// Disconnect は接続断の後始末をします。所属ルームから退出させ、
// 最後の1人だったらルームごと破棄します。
func (gm *GameManager) Disconnect(connID string) {
	gm.mu.RLock()
	room := gm.conns[connID]
	gm.mu.RUnlock()
	if room == nil {
		return
	}

	remaining := room.Leave(connID)

	// 空になったルームはアクター側ですでに閉じている(handleLeave)。
	// ここでは索引から外すだけで、同名で作り直された別ルームは消さない。
	gm.mu.Lock()
	delete(gm.conns, connID)
	if remaining == 0 && gm.rooms[room.Name()] == room {
		delete(gm.rooms, room.Name())
	}
	gm.mu.Unlock()

	if remaining == 0 {
		room.Close()
		log.Printf("[GameManager] ルーム破棄: %s", room.Name())
	}
}

// Shutdown は全ルームを停止させます。サーバー終了時に呼びます。
func (gm *GameManager) Shutdown() {
	gm.mu.Lock()
	rooms := make([]*Room, 0, len(gm.rooms))
	for _, room := range gm.rooms {
		rooms = append(rooms, room)
	}
	gm.rooms = make(map[string]*Room)
	gm.conns = make(map[string]*Room)
	gm.mu.Unlock()

	for _, room := range rooms {
		room.Close()
	}
	log.Printf("[GameManager] 全ルーム停止: %d", len(rooms))
}

// RoomCount は現在のルーム数を返します。
func (gm *GameManager) RoomCount() int {
	gm.mu.RLock()
	defer gm.mu.RUnlock()
	return len(gm.rooms)
}

func (gm *GameManager) roomOf(connID string) *Room {
	gm.mu.RLock()
	defer gm.mu.RUnlock()
	return gm.conns[connID]
}

// withRoom は接続の所属ルームを引いてコールバックを呼びます。
// 所属ルームがなければ unknownRoom エラーを返します。
func (gm *GameManager) withRoom(connID string, fn func(room *Room)) {
	room := gm.roomOf(connID)
	if room == nil {
		gm.sendError(connID, ErrUnknownRoom)
		return
	}
	fn(room)
}

func (gm *GameManager) destroyRoom(room *Room) {
	gm.mu.Lock()
	if gm.rooms[room.Name()] == room {
		delete(gm.rooms, room.Name())
	}
	gm.mu.Unlock()
	room.Close()
}

func (gm *GameManager) sendError(connID string, err error) {
	gm.transport.EmitTo(connID, NewErrorEvent(err))
}

// directionToAction は movePiece の direction をアクション名へ変換します。
// 不正な方向は空文字を返し、呼び出し側で無視されます。
func directionToAction(direction string) string {
	switch direction {
	case "left":
		return ActionMoveLeft
	case "right":
		return ActionMoveRight
	case "down":
		return ActionSoftDrop
	default:
		return ""
	}
}
