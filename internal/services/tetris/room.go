package tetris

import (
	"log"
	"sync"
	"time"
)

// Phase はルームのライフサイクル上の状態です。
type Phase string

const (
	PhaseWaiting  Phase = "waiting"
	PhasePlaying  Phase = "playing"
	PhaseFinished Phase = "finished"
)

const (
	// RoomMaxPlayers は1ルームの最大参加人数です。
	RoomMaxPlayers = 4
	// DropInterval は重力ティックの間隔です。
	DropInterval = 1000 * time.Millisecond
)

type commandKind int

const (
	cmdJoin commandKind = iota
	cmdLeave
	cmdStart
	cmdRestart
	cmdReady
	cmdInput
	cmdCount
)

// roomCommand はルームのメールボックスへ投げる1コマンドです。
// 応答が必要なコマンドだけ reply チャネルを持ちます。
type roomCommand struct {
	kind     commandKind
	connID   string
	name     string
	action   string
	seed     int64
	replyErr chan error
	replyInt chan int
}

// Room は1ルームの全状態を単一ゴルーチンで管理するアクターです。
// 外部からの操作はすべて commands チャネル経由で直列化されます。
type Room struct {
	name      string
	transport Transport
	scores    ScoreStore

	phase     Phase
	players   []*PlayerGameState // 参加順
	bag       *PieceBag
	startedAt time.Time
	// startingPlayers は開始時点の人数です。1人開始のゲームは勝者なしで終わります。
	startingPlayers int

	commands  chan roomCommand
	ticker    *time.Ticker
	tickC     <-chan time.Time // playing 中のみ非nil
	done      chan struct{}
	closeOnce sync.Once
}

// NewRoom は待機状態のルームを作成します。Run は呼び出し側が起動します。
func NewRoom(name string, transport Transport, scores ScoreStore) *Room {
	return &Room{
		name:      name,
		transport: transport,
		scores:    scores,
		phase:     PhaseWaiting,
		commands:  make(chan roomCommand, 64),
		done:      make(chan struct{}),
	}
}

// Name はルーム名を返します。
func (r *Room) Name() string {
	return r.name
}

// Run はルームのイベントループです。専用ゴルーチンで実行してください。
// ルーム内でパニックが起きてもこのルームだけが止まり、サーバー全体は巻き込みません。
func (r *Room) Run() {
	defer func() {
		if rec := recover(); rec != nil {
			r.stopTicker()
			// done を閉じて、このルーム宛てに待っている呼び出し側を解放する
			r.Close()
			log.Printf("[Room %s] パニックによりルームを停止します: %v", r.name, rec)
		}
	}()
	log.Printf("[Room %s] ルーム起動", r.name)
	for {
		select {
		case cmd := <-r.commands:
			r.handleCommand(cmd)
		case <-r.tickC:
			r.handleTick()
		case <-r.done:
			r.stopTicker()
			// 停止後に届いていたコマンドの待ち手を解放する
			for {
				select {
				case cmd := <-r.commands:
					r.rejectCommand(cmd)
				default:
					log.Printf("[Room %s] ルーム停止", r.name)
					return
				}
			}
		}
	}
}

// Close はルームのゴルーチンを停止させます。何度呼んでも安全です。
func (r *Room) Close() {
	r.closeOnce.Do(func() { close(r.done) })
}

// Join はプレイヤーをルームに参加させます。ルームゴルーチンの応答を待ちます。
func (r *Room) Join(connID, playerName string) error {
	return r.sendErrCommand(roomCommand{
		kind:     cmdJoin,
		connID:   connID,
		name:     playerName,
		replyErr: make(chan error, 1),
	})
}

// Leave はプレイヤーを退出させ、残り人数を返します。
// 退出後の人数が0ならルームは破棄して構いません。
func (r *Room) Leave(connID string) int {
	cmd := roomCommand{
		kind:     cmdLeave,
		connID:   connID,
		replyInt: make(chan int, 1),
	}
	select {
	case r.commands <- cmd:
	case <-r.done:
		return 0
	}
	select {
	case n := <-cmd.replyInt:
		return n
	case <-r.done:
		return 0
	}
}

// Start はホストの開始要求を処理します。seed が0なら時刻から採番します。
func (r *Room) Start(connID string, seed int64) error {
	return r.sendErrCommand(roomCommand{
		kind:     cmdStart,
		connID:   connID,
		seed:     seed,
		replyErr: make(chan error, 1),
	})
}

// Restart はホストのリスタート要求を処理します。
func (r *Room) Restart(connID string) error {
	return r.sendErrCommand(roomCommand{
		kind:     cmdRestart,
		connID:   connID,
		replyErr: make(chan error, 1),
	})
}

// PlayerCount は現在の参加人数を返します。停止済みのルームは0を返します。
func (r *Room) PlayerCount() int {
	cmd := roomCommand{kind: cmdCount, replyInt: make(chan int, 1)}
	select {
	case r.commands <- cmd:
	case <-r.done:
		return 0
	}
	select {
	case n := <-cmd.replyInt:
		return n
	case <-r.done:
		return 0
	}
}

// Ready はプレイヤーの準備完了フラグを立てます。応答は待ちません。
func (r *Room) Ready(connID string) {
	r.sendAsyncCommand(roomCommand{kind: cmdReady, connID: connID})
}

// Input はプレイヤー操作をルームへ投げます。応答は待ちません。
func (r *Room) Input(connID, action string) {
	r.sendAsyncCommand(roomCommand{kind: cmdInput, connID: connID, action: action})
}

func (r *Room) sendErrCommand(cmd roomCommand) error {
	select {
	case r.commands <- cmd:
	case <-r.done:
		return ErrUnknownRoom
	}
	select {
	case err := <-cmd.replyErr:
		return err
	case <-r.done:
		return ErrUnknownRoom
	}
}

func (r *Room) sendAsyncCommand(cmd roomCommand) {
	select {
	case r.commands <- cmd:
	case <-r.done:
	}
}

func (r *Room) handleCommand(cmd roomCommand) {
	switch cmd.kind {
	case cmdJoin:
		cmd.replyErr <- r.handleJoin(cmd.connID, cmd.name)
	case cmdLeave:
		cmd.replyInt <- r.handleLeave(cmd.connID)
	case cmdStart:
		cmd.replyErr <- r.handleStart(cmd.connID, cmd.seed)
	case cmdRestart:
		cmd.replyErr <- r.handleRestart(cmd.connID)
	case cmdReady:
		r.handleReady(cmd.connID)
	case cmdInput:
		r.handleInput(cmd.connID, cmd.action)
	case cmdCount:
		cmd.replyInt <- len(r.players)
	}
}

func (r *Room) rejectCommand(cmd roomCommand) {
	if cmd.replyErr != nil {
		cmd.replyErr <- ErrUnknownRoom
	}
	if cmd.replyInt != nil {
		cmd.replyInt <- 0
	}
}

// handleJoin は参加要求を処理します。playing 中は参加できません。
// finished のルームには参加でき、次ゲームを待てます。
func (r *Room) handleJoin(connID, name string) error {
	if r.phase == PhasePlaying {
		return ErrGameInProgress
	}
	if len(r.players) >= RoomMaxPlayers {
		return ErrRoomFull
	}
	for _, p := range r.players {
		if p.Name == name {
			return ErrNameTaken
		}
	}

	p := NewPlayerGameState(connID, name)
	if len(r.players) == 0 {
		p.IsHost = true
	}
	r.players = append(r.players, p)
	r.transport.Bind(connID, r.name)

	log.Printf("[Room %s] 参加: %s (host=%v, players=%d)", r.name, name, p.IsHost, len(r.players))
	r.emit(EventPlayerJoined, PlayerJoinedData{
		Player:  p.Info(r.name),
		Players: r.infos(),
	})
	return nil
}

// handleLeave は退出を処理し、残り人数を返します。
// ホストが抜けた場合は参加順で次のプレイヤーへホストを移します。
func (r *Room) handleLeave(connID string) int {
	idx := -1
	for i, p := range r.players {
		if p.ID == connID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return len(r.players)
	}

	leaving := r.players[idx]
	r.players = append(r.players[:idx], r.players[idx+1:]...)
	r.transport.Unbind(connID)
	log.Printf("[Room %s] 退出: %s (players=%d)", r.name, leaving.Name, len(r.players))

	// playerLeft のロスターに新ホストを反映させるため、昇格を先に済ませる
	if leaving.IsHost && len(r.players) > 0 {
		r.players[0].IsHost = true
		r.emit(EventNewHost, NewHostData{Host: r.players[0].Info(r.name)})
	}
	r.emit(EventPlayerLeft, PlayerLeftData{
		PlayerID: leaving.ID,
		Players:  r.infos(),
	})

	// プレイ中の退出は脱落と同じ扱いで終了判定にかける
	r.checkGameEnd()

	if len(r.players) == 0 {
		// 空になったルームはその場で閉じる。以降の参加は unknownRoom で断られ、
		// レジストリの破棄と競合した参加が死んだルームに紐づくことはない。
		r.stopTicker()
		r.Close()
	}
	return len(r.players)
}

// handleStart はゲームを開始します。ホストのみ、waiting のみ許可です。
func (r *Room) handleStart(connID string, seed int64) error {
	p := r.findPlayer(connID)
	if p == nil || !p.IsHost {
		return ErrNotHost
	}
	if r.phase != PhaseWaiting {
		return ErrBadPhase
	}

	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	r.bag = NewPieceBag(seed)
	r.phase = PhasePlaying
	r.startedAt = time.Now()
	r.startingPlayers = len(r.players)
	for _, pl := range r.players {
		pl.ResetForStart(r.bag)
	}

	r.ticker = time.NewTicker(DropInterval)
	r.tickC = r.ticker.C

	previews := make([]PiecePreview, 0, len(r.players))
	for _, pl := range r.players {
		previews = append(previews, PiecePreview{
			PlayerID:     pl.ID,
			CurrentPiece: pl.CurrentPiece,
			NextPiece:    pl.NextPiece,
		})
	}
	log.Printf("[Room %s] ゲーム開始: players=%d seed=%d", r.name, len(r.players), seed)
	r.emit(EventGameStarted, GameStartedData{
		Players:       r.infos(),
		CurrentPieces: previews,
	})
	return nil
}

// handleRestart は finished のルームを waiting へ戻します。ホストのみ許可です。
func (r *Room) handleRestart(connID string) error {
	p := r.findPlayer(connID)
	if p == nil || !p.IsHost {
		return ErrNotHost
	}
	if r.phase != PhaseFinished {
		return ErrBadPhase
	}

	r.phase = PhaseWaiting
	r.bag = nil
	for _, pl := range r.players {
		pl.ResetForWaiting()
	}
	log.Printf("[Room %s] リスタート: players=%d", r.name, len(r.players))
	r.emit(EventGameRestarted, GameRestartedData{Players: r.infos()})
	return nil
}

func (r *Room) handleReady(connID string) {
	if p := r.findPlayer(connID); p != nil {
		p.Ready = true
	}
}

func (r *Room) handleInput(connID, action string) {
	p := r.findPlayer(connID)
	if p == nil {
		return
	}
	r.applyPlayerInput(p, action)
}

// handleTick は重力を全生存プレイヤーへ参加順に適用します。
func (r *Room) handleTick() {
	if r.phase != PhasePlaying {
		return
	}
	// autoFall の途中でゲームが終わることがあるためフェーズを都度確認する
	for _, p := range r.players {
		if r.phase != PhasePlaying {
			break
		}
		r.autoFall(p)
	}
}

// finishGame はゲームを終了させ、結果を通知・保存します。
func (r *Room) finishGame(winner *PlayerGameState) {
	r.phase = PhaseFinished
	r.stopTicker()

	var winnerInfo *PlayerInfo
	winnerName := "(none)"
	if winner != nil {
		info := winner.Info(r.name)
		winnerInfo = &info
		winnerName = winner.Name
	}
	log.Printf("[Room %s] ゲーム終了: winner=%s", r.name, winnerName)
	r.emit(EventGameEnded, GameEndedData{
		Winner:  winnerInfo,
		Players: r.infos(),
	})

	for _, p := range r.players {
		r.saveScore(p)
	}
}

// saveScore は最終結果を非同期で永続化します。ストア未設定なら何もしません。
func (r *Room) saveScore(p *PlayerGameState) {
	if r.scores == nil || p.scoreSaved {
		return
	}
	p.scoreSaved = true
	name, score, lines := p.Name, p.Score, p.LinesCleared
	duration := int(time.Since(r.startedAt).Seconds())
	store := r.scores
	go func() {
		if err := store.SaveScore(name, score, lines, duration); err != nil {
			log.Printf("[Room %s] スコア保存に失敗: %s: %v", r.name, name, err)
		}
	}()
}

func (r *Room) stopTicker() {
	if r.ticker != nil {
		r.ticker.Stop()
		r.ticker = nil
		r.tickC = nil
	}
}

func (r *Room) findPlayer(connID string) *PlayerGameState {
	for _, p := range r.players {
		if p.ID == connID {
			return p
		}
	}
	return nil
}

func (r *Room) infos() []PlayerInfo {
	infos := make([]PlayerInfo, 0, len(r.players))
	for _, p := range r.players {
		infos = append(infos, p.Info(r.name))
	}
	return infos
}

func (r *Room) emit(event string, data any) {
	r.transport.Emit(r.name, Event{Event: event, Data: data})
}
