package tetris

import "errors"

// ゲーム操作が失敗したときに返すセンチネルエラー群。
// 対応するエラーコードは ErrorCode で引けます。
var (
	ErrNameTaken      = errors.New("player name already taken in this room")
	ErrGameInProgress = errors.New("game already in progress")
	ErrRoomFull       = errors.New("room is full")
	ErrNotHost        = errors.New("only the host can do that")
	ErrBadPhase       = errors.New("operation not allowed in current phase")
	ErrUnknownRoom    = errors.New("room does not exist")
	ErrUnknownCommand = errors.New("unknown command")
)

// クライアントへ送るエラーコード。
const (
	CodeNameTaken      = "nameTaken"
	CodeGameInProgress = "gameInProgress"
	CodeRoomFull       = "roomFull"
	CodeNotHost        = "notHost"
	CodeBadPhase       = "badPhase"
	CodeUnknownRoom    = "unknownRoom"
	CodeUnknownCommand = "unknownCommand"
	CodeInternal       = "internal"
)

// ErrorCode はセンチネルエラーをワイヤー上のエラーコードへ変換します。
// 未知のエラーは internal 扱いになります。
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrNameTaken):
		return CodeNameTaken
	case errors.Is(err, ErrGameInProgress):
		return CodeGameInProgress
	case errors.Is(err, ErrRoomFull):
		return CodeRoomFull
	case errors.Is(err, ErrNotHost):
		return CodeNotHost
	case errors.Is(err, ErrBadPhase):
		return CodeBadPhase
	case errors.Is(err, ErrUnknownRoom):
		return CodeUnknownRoom
	case errors.Is(err, ErrUnknownCommand):
		return CodeUnknownCommand
	default:
		return CodeInternal
	}
}

// NewErrorEvent はエラーイベントのフレームを組み立てます。
func NewErrorEvent(err error) Event {
	return Event{
		Event: EventError,
		Data: ErrorData{
			Code:    ErrorCode(err),
			Message: err.Error(),
		},
	}
}
