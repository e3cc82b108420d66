package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/progate-hackathon-strawberry-flavor/REDTRIS-backend/internal/services/tetris"
)

const (
	// 書き込みのタイムアウト
	writeWait = 10 * time.Second
	// Pong応答の待ち時間。これを超えたら接続断とみなす。
	pongWait = 60 * time.Second
	// Ping送信間隔。pongWaitより短くすること。
	pingPeriod = (pongWait * 9) / 10
	// 受信フレームの最大サイズ
	maxMessageSize = 4096
	// 送信バッファの深さ
	sendBufferSize = 256
)

// Client は1本のWebSocket接続を表します。
type Client struct {
	ConnID string
	Conn   *websocket.Conn
	Send   chan []byte

	mu     sync.Mutex
	closed bool
}

// SafeSend は closed チェック付きで送信バッファに積みます。
// バッファが詰まっている接続はフレームを落として先へ進みます。
func (c *Client) SafeSend(message []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.Send <- message:
	default:
		log.Printf("[WebSocket] 送信バッファ溢れ: conn=%s", c.ConnID)
	}
}

// SafeClose は送信チャネルを一度だけ閉じます。
func (c *Client) SafeClose() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.Send)
}

// Hub は全WebSocket接続とルームごとの配信先を管理し、
// ゲームロジックに対して tetris.Transport を実装します。
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client            // connID -> client
	rooms   map[string]map[string]*Client // roomName -> connID -> client
	roomOf  map[string]string             // connID -> roomName

	manager  *tetris.GameManager
	upgrader websocket.Upgrader
}

// NewHub はハブを作成します。CheckOrigin はCORSミドルウェア側で制御するため常に許可します。
func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*Client),
		rooms:   make(map[string]map[string]*Client),
		roomOf:  make(map[string]string),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// AttachManager は受信フレームの配送先となるゲームマネージャーを設定します。
func (h *Hub) AttachManager(manager *tetris.GameManager) {
	h.manager = manager
}

// HandleWebSocket は /ws へのHTTPリクエストをWebSocketへアップグレードします。
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[WebSocket] アップグレード失敗: %v", err)
		return
	}

	client := &Client{
		ConnID: uuid.New().String(),
		Conn:   conn,
		Send:   make(chan []byte, sendBufferSize),
	}
	h.mu.Lock()
	h.clients[client.ConnID] = client
	h.mu.Unlock()
	log.Printf("[WebSocket] 接続: conn=%s remote=%s", client.ConnID, conn.RemoteAddr())

	go h.readPump(client)
	go h.writePump(client)
}

// readPump は接続からフレームを読み続け、ゲームマネージャーへ渡します。
// 接続が切れたら退出処理とクリーンアップを行います。
func (h *Hub) readPump(client *Client) {
	defer func() {
		if h.manager != nil {
			h.manager.Disconnect(client.ConnID)
		}
		h.removeClient(client)
		client.Conn.Close()
		log.Printf("[WebSocket] 切断: conn=%s", client.ConnID)
	}()

	client.Conn.SetReadLimit(maxMessageSize)
	client.Conn.SetReadDeadline(time.Now().Add(pongWait))
	client.Conn.SetPongHandler(func(string) error {
		client.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := client.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[WebSocket] 読み取りエラー: conn=%s: %v", client.ConnID, err)
			}
			return
		}
		if h.manager != nil {
			h.manager.HandleMessage(client.ConnID, message)
		}
	}
}

// writePump は送信バッファの内容を接続へ書き、定期的にPingを打ちます。
func (h *Hub) writePump(client *Client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		client.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-client.Send:
			client.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				client.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := client.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			client.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := client.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Emit はルームにバインド済みの全接続へイベントを配ります。
func (h *Hub) Emit(roomName string, event tetris.Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("[WebSocket] イベントのシリアライズに失敗: %s: %v", event.Event, err)
		return
	}

	h.mu.RLock()
	members := make([]*Client, 0, len(h.rooms[roomName]))
	for _, client := range h.rooms[roomName] {
		members = append(members, client)
	}
	h.mu.RUnlock()

	for _, client := range members {
		client.SafeSend(payload)
	}
}

// EmitTo は1接続だけへイベントを送ります。
func (h *Hub) EmitTo(connID string, event tetris.Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("[WebSocket] イベントのシリアライズに失敗: %s: %v", event.Event, err)
		return
	}

	h.mu.RLock()
	client := h.clients[connID]
	h.mu.RUnlock()
	if client != nil {
		client.SafeSend(payload)
	}
}

// Bind は接続をルームのブロードキャスト対象に加えます。
func (h *Hub) Bind(connID, roomName string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	client, ok := h.clients[connID]
	if !ok {
		return
	}
	if h.rooms[roomName] == nil {
		h.rooms[roomName] = make(map[string]*Client)
	}
	h.rooms[roomName][connID] = client
	h.roomOf[connID] = roomName
}

// Unbind は接続を所属ルームのブロードキャスト対象から外します。
func (h *Hub) Unbind(connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.unbindLocked(connID)
}

func (h *Hub) unbindLocked(connID string) {
	roomName, ok := h.roomOf[connID]
	if !ok {
		return
	}
	delete(h.roomOf, connID)
	if members := h.rooms[roomName]; members != nil {
		delete(members, connID)
		if len(members) == 0 {
			delete(h.rooms, roomName)
		}
	}
}

// removeClient は接続をハブから完全に取り除きます。
func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	h.unbindLocked(client.ConnID)
	delete(h.clients, client.ConnID)
	h.mu.Unlock()
	client.SafeClose()
}

// Shutdown は全接続を閉じます。サーバー終了時に呼びます。
func (h *Hub) Shutdown() {
	h.mu.Lock()
	clients := make([]*Client, 0, len(h.clients))
	for _, client := range h.clients {
		clients = append(clients, client)
	}
	h.clients = make(map[string]*Client)
	h.rooms = make(map[string]map[string]*Client)
	h.roomOf = make(map[string]string)
	h.mu.Unlock()

	for _, client := range clients {
		client.SafeClose()
		client.Conn.Close()
	}
	log.Printf("[WebSocket] 全接続クローズ: %d", len(clients))
}
