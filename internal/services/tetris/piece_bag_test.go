package tetris

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/progate-hackathon-strawberry-flavor/REDTRIS-backend/internal/models/tetris"
)

func TestPieceBagDeterministic(t *testing.T) {
	a := NewPieceBag(42)
	b := NewPieceBag(42)

	for i := 0; i < 100; i++ {
		assert.Equal(t, a.KindAt(i), b.KindAt(i), "i=%d", i)
	}
}

func TestPieceBagReadOrderIndependent(t *testing.T) {
	forward := NewPieceBag(7)
	backward := NewPieceBag(7)

	want := make([]tetris.PieceType, 50)
	for i := 0; i < 50; i++ {
		want[i] = forward.KindAt(i)
	}
	// 逆順に読んでも同じストリームが見える
	for i := 49; i >= 0; i-- {
		assert.Equal(t, want[i], backward.KindAt(i), "i=%d", i)
	}
}

func TestPieceBagEachWindowIsPermutation(t *testing.T) {
	b := NewPieceBag(123456789)

	for bag := 0; bag < 10; bag++ {
		seen := make(map[tetris.PieceType]bool)
		for i := 0; i < 7; i++ {
			seen[b.KindAt(bag*7+i)] = true
		}
		require.Len(t, seen, 7, "バッグ %d は7種類すべてを1回ずつ含む", bag)
	}
}

func TestPieceBagDifferentSeedsDiffer(t *testing.T) {
	a := NewPieceBag(1)
	b := NewPieceBag(2)

	same := true
	for i := 0; i < 28; i++ {
		if a.KindAt(i) != b.KindAt(i) {
			same = false
			break
		}
	}
	assert.False(t, same, "異なるシードが4バッグ連続で一致するのは事実上ありえない")
}

func TestPieceBagSeed(t *testing.T) {
	assert.Equal(t, int64(99), NewPieceBag(99).Seed())
}
