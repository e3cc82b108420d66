package tetris

// PieceType はテトリミノの種類を表します。ワイヤ上では1文字でシリアライズされます。
type PieceType string

const (
	TypeI PieceType = "I" // I-ミノ (シアン)
	TypeO PieceType = "O" // O-ミノ (黄色)
	TypeT PieceType = "T" // T-ミノ (紫)
	TypeS PieceType = "S" // S-ミノ (緑)
	TypeZ PieceType = "Z" // Z-ミノ (赤)
	TypeJ PieceType = "J" // J-ミノ (青)
	TypeL PieceType = "L" // L-ミノ (オレンジ)
)

// AllPieceTypes は7種類のテトリミノを定義順に並べたスライスです。
// バッグ生成の元になります。
var AllPieceTypes = []PieceType{TypeI, TypeO, TypeT, TypeS, TypeZ, TypeJ, TypeL}

// スポーン位置は全ミノ共通で (3, 0) です。
const (
	SpawnX = 3
	SpawnY = 0
)

// spawnShapes は各PieceTypeのスポーン時の形状行列（0/1、行は上から下）を定義します。
// 回転は行列そのものに適用されるため、ここにあるのは初期状態のみです。
// 壁蹴り（SRSキックテーブル）は扱いません。
var spawnShapes = map[PieceType][][]int{
	TypeI: {
		{0, 0, 0, 0},
		{1, 1, 1, 1},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	},
	TypeO: {
		{1, 1},
		{1, 1},
	},
	TypeT: {
		{0, 1, 0},
		{1, 1, 1},
		{0, 0, 0},
	},
	TypeS: {
		{0, 1, 1},
		{1, 1, 0},
		{0, 0, 0},
	},
	TypeZ: {
		{1, 1, 0},
		{0, 1, 1},
		{0, 0, 0},
	},
	TypeJ: {
		{1, 0, 0},
		{1, 1, 1},
		{0, 0, 0},
	},
	TypeL: {
		{0, 0, 1},
		{1, 1, 1},
		{0, 0, 0},
	},
}

// Piece はテトリミノの現在の状態（種類、形状行列、ボード上の左上座標）を表します。
// 移動と回転だけが状態を変更します。座標に制約はなく、有効性の判定はボード側で行います。
type Piece struct {
	Type  PieceType `json:"type"`  // テトリミノの種類
	X     int       `json:"x"`     // ボード上のX座標（形状行列の左上）
	Y     int       `json:"y"`     // ボード上のY座標（形状行列の左上）
	Shape [][]int   `json:"shape"` // 形状行列 (0/1)
}

// NewPiece は指定された種類のテトリミノをスポーン位置 (3, 0) に生成して返します。
//
// Parameters:
//   t : 生成するテトリミノの種類
// Returns:
//   *Piece: 初期化されたテトリミノのポインタ
func NewPiece(t PieceType) *Piece {
	src := spawnShapes[t]
	shape := make([][]int, len(src))
	for i, row := range src {
		shape[i] = make([]int, len(row))
		copy(shape[i], row)
	}
	return &Piece{Type: t, X: SpawnX, Y: SpawnY, Shape: shape}
}

// Rotate はピースを時計回りに90度回転させます。
// 形状行列に対する転置＋列反転をその場で適用します。Oミノは回転しません。
func (p *Piece) Rotate() {
	if p.Type == TypeO {
		return
	}
	n := len(p.Shape)
	rotated := make([][]int, n)
	for i := range rotated {
		rotated[i] = make([]int, n)
	}
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			rotated[x][n-1-y] = p.Shape[y][x]
		}
	}
	p.Shape = rotated
}

// Blocks は埋まっているセルの相対座標 {x, y} の配列を返します。
//
// Returns:
//   [][2]int: 各ブロックの相対座標の配列。例: {{x1, y1}, {x2, y2}, ...}
func (p *Piece) Blocks() [][2]int {
	blocks := make([][2]int, 0, 4)
	for y, row := range p.Shape {
		for x, v := range row {
			if v != 0 {
				blocks = append(blocks, [2]int{x, y})
			}
		}
	}
	return blocks
}

// Clone は現在のPieceのディープコピーを返します。
// 回転や移動を衝突判定のために仮に試すときに使います。
func (p *Piece) Clone() *Piece {
	shape := make([][]int, len(p.Shape))
	for i, row := range p.Shape {
		shape[i] = make([]int, len(row))
		copy(shape[i], row)
	}
	return &Piece{Type: p.Type, X: p.X, Y: p.Y, Shape: shape}
}

// Cell はこのピースが固定されたときにボードへ書き込まれるセル値を返します。
func (p *Piece) Cell() Cell {
	return Cell(p.Type[0])
}

// ParsePieceType は文字列（"I", "O" など）をPieceTypeに変換します。
func ParsePieceType(s string) (PieceType, bool) {
	switch PieceType(s) {
	case TypeI, TypeO, TypeT, TypeS, TypeZ, TypeJ, TypeL:
		return PieceType(s), true
	default:
		return TypeI, false
	}
}
