package tetris

import (
	"math/rand"

	"github.com/progate-hackathon-strawberry-flavor/REDTRIS-backend/internal/models/tetris"
)

// bagSeedStride はバッグ番号をシードに混ぜるための定数です
// （splitmix64の増分 0x9E3779B97F4A7C15 をint64で表したもの）。
// 連続するシードのバッグ列が互いにずれるだけで十分なので、値自体に深い意味はありません。
const bagSeedStride int64 = -0x61C8864680B583EB

// PieceBag はルーム内の全プレイヤーが共有する決定論的なピース列です。
// 7種類のテトリミノの順列（バッグ）を繋げた無限ストリームで、
// バッグ b の順列はシード f(roomSeed, b) のFisher-Yatesシャッフルで決まります。
// 同じシードなら何度生成しても、どのプレイヤーから読んでも同じ列になります。
//
// PieceBag はルームのゴルーチンからのみアクセスされるため、ロックは持ちません。
type PieceBag struct {
	seed  int64
	kinds []tetris.PieceType // これまでに展開したストリームの先頭部分
}

// NewPieceBag は指定されたシードのピース列を初期化して返します。
//
// Parameters:
//   seed : ルームごとの64bitシード
// Returns:
//   *PieceBag: 初期化されたピース列のポインタ
func NewPieceBag(seed int64) *PieceBag {
	return &PieceBag{seed: seed}
}

// Seed はこのバッグのシードを返します。
func (b *PieceBag) Seed() int64 {
	return b.seed
}

// KindAt はストリームの i 番目のピース種類を返します。
// 必要に応じて新しいバッグを展開します。i はプレイヤーごとのカーソルで、
// あるプレイヤーの消費速度が他のプレイヤーの見るピースに影響することはありません。
//
// Parameters:
//   i : ストリーム上のインデックス (0始まり)
// Returns:
//   tetris.PieceType: i 番目のピース種類
func (b *PieceBag) KindAt(i int) tetris.PieceType {
	for len(b.kinds) <= i {
		b.appendBag()
	}
	return b.kinds[i]
}

// appendBag は次のバッグ（7種類の順列）をストリームの末尾に追加します。
func (b *PieceBag) appendBag() {
	bagIndex := int64(len(b.kinds) / len(tetris.AllPieceTypes))
	r := rand.New(rand.NewSource(b.seed + bagIndex*bagSeedStride))

	bag := make([]tetris.PieceType, len(tetris.AllPieceTypes))
	copy(bag, tetris.AllPieceTypes)
	r.Shuffle(len(bag), func(i, j int) {
		bag[i], bag[j] = bag[j], bag[i]
	})

	b.kinds = append(b.kinds, bag...)
}
