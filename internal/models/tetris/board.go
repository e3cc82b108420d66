package tetris

const (
	BoardWidth  = 10 // テトリスボードの幅
	BoardHeight = 20 // テトリスボードの高さ（行0が最上段）

	// PenaltyHoleColumn はペナルティ行で空けておく列です。
	// 必ず1マス空いているため、ペナルティ行がラインクリアで揃うことはありません。
	PenaltyHoleColumn = 0
)

// Cell はボード上の1マスの状態を表します。
// 空マスは0、それ以外はテトリミノの1文字タグ、ペナルティは 'X' です。
type Cell byte

const (
	CellEmpty   Cell = 0
	CellI       Cell = 'I'
	CellO       Cell = 'O'
	CellT       Cell = 'T'
	CellS       Cell = 'S'
	CellZ       Cell = 'Z'
	CellJ       Cell = 'J'
	CellL       Cell = 'L'
	CellPenalty Cell = 'X'
)

// MarshalJSON は空マスを数値の 0、それ以外を1文字の文字列として出力します。
func (c Cell) MarshalJSON() ([]byte, error) {
	if c == CellEmpty {
		return []byte("0"), nil
	}
	return []byte{'"', byte(c), '"'}, nil
}

// UnmarshalJSON は MarshalJSON の逆変換です。
func (c *Cell) UnmarshalJSON(data []byte) error {
	if len(data) == 3 && data[0] == '"' {
		*c = Cell(data[1])
		return nil
	}
	*c = CellEmpty
	return nil
}

// Board はテトリスのゲームボードを表す2次元配列です。
// Board[y][x] でアクセスします。yは行、xは列です。常に 20x10 です。
type Board [BoardHeight][BoardWidth]Cell

// NewBoard は新しい空のボードを返します。
// Goの配列はゼロ値（CellEmpty）で初期化されるため、特別な初期化は不要です。
func NewBoard() Board {
	var board Board
	return board
}

// HasCollision は指定されたピースが現在位置からオフセット (dx, dy) だけ動いたとき、
// 壁・床・天井または既存のブロックと衝突するかどうかを判定します。
// スポーンが (3, 0) のため、埋まっているセルがボード上端より上に出ることも衝突扱いです。
//
// Parameters:
//   p  : 衝突判定を行うテトリミノのポインタ
//   dx : X軸方向の移動量（-1:左, 1:右, 0:移動なし）
//   dy : Y軸方向の移動量（1:下, 0:移動なし）
// Returns:
//   bool: 衝突する場合はtrue、しない場合はfalse
func (b *Board) HasCollision(p *Piece, dx, dy int) bool {
	for _, block := range p.Blocks() {
		x := p.X + block[0] + dx
		y := p.Y + block[1] + dy

		if x < 0 || x >= BoardWidth || y < 0 || y >= BoardHeight {
			return true
		}
		if b[y][x] != CellEmpty {
			return true
		}
	}
	return false
}

// MergePiece は落下したピースをボードに固定します。
// ボード上端より上 (y < 0) にはみ出したブロックは無視されます。
//
// Parameters:
//   p : ボードに固定するテトリミノのポインタ
func (b *Board) MergePiece(p *Piece) {
	for _, block := range p.Blocks() {
		x := p.X + block[0]
		y := p.Y + block[1]

		if x >= 0 && x < BoardWidth && y >= 0 && y < BoardHeight {
			b[y][x] = p.Cell()
		}
	}
}

// ClearLines は揃ったラインを消去し、上のブロックを落とします。
// 「揃った」は全マスが埋まっていて、かつ少なくとも1マスがペナルティ ('X') でないこと。
// ペナルティ行はラインクリアでは決して消えません（上に押し出されてのみ消えます）。
//
// Returns:
//   int: クリアされたライン数
func (b *Board) ClearLines() int {
	clearedLines := 0
	newBoard := NewBoard()

	destY := BoardHeight - 1

	// 最下段から上に向かって各行をチェック
	for y := BoardHeight - 1; y >= 0; y-- {
		isLineFull := true
		hasNonPenalty := false
		for x := 0; x < BoardWidth; x++ {
			if b[y][x] == CellEmpty {
				isLineFull = false
				break
			}
			if b[y][x] != CellPenalty {
				hasNonPenalty = true
			}
		}

		if isLineFull && hasNonPenalty {
			clearedLines++
		} else {
			for x := 0; x < BoardWidth; x++ {
				newBoard[destY][x] = b[y][x]
			}
			destY--
		}
	}
	*b = newBoard
	return clearedLines
}

// AddPenaltyLines は指定された数のペナルティ行をボードの最下部に押し込みます。
// 既存のブロックは上にシフトされ、上端からあふれた行は破棄されます。
// 各ペナルティ行は PenaltyHoleColumn の1マスだけ空けた 'X' の行です。
//
// Parameters:
//   count : 追加するペナルティ行の数
func (b *Board) AddPenaltyLines(count int) {
	if count <= 0 {
		return
	}
	if count > BoardHeight {
		count = BoardHeight
	}

	// 既存のブロックを上にシフト
	for y := 0; y < BoardHeight-count; y++ {
		for x := 0; x < BoardWidth; x++ {
			b[y][x] = b[y+count][x]
		}
	}

	// 最下部にペナルティ行を追加
	for y := BoardHeight - count; y < BoardHeight; y++ {
		for x := 0; x < BoardWidth; x++ {
			if x == PenaltyHoleColumn {
				b[y][x] = CellEmpty
			} else {
				b[y][x] = CellPenalty
			}
		}
	}
}

// Spectrum は各列の高さ（20 - 最上段の非空マスの行番号）を10要素で返します。
// 空の列は 0 です。対戦相手の盤面の埋まり具合の表示に使われます。
//
// Returns:
//   []int: 10要素の列高さベクトル
func (b *Board) Spectrum() []int {
	spectrum := make([]int, BoardWidth)
	for x := 0; x < BoardWidth; x++ {
		for y := 0; y < BoardHeight; y++ {
			if b[y][x] != CellEmpty {
				spectrum[x] = BoardHeight - y
				break
			}
		}
	}
	return spectrum
}
