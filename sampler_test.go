package skipgram

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

type stuckSource int

func (s stuckSource) Intn(n int) int { return int(s) % n }

func Test_pickContext(t *testing.T) {
	tests := []struct {
		name   string
		rng    Source
		span   int
		center int
		n      int
		want   []int
	}{
		{
			name:   "scripted",
			rng:    &scriptedSource{draws: []int{1, 1, 0, 2}},
			span:   3,
			center: 1,
			n:      2,
			want:   []int{0, 2},
		},
		{
			name:   "stuckOnCenter",
			rng:    stuckSource(2),
			span:   5,
			center: 2,
			n:      4,
			want:   []int{0, 1, 3, 4},
		},
		{
			name:   "stuckOnFirstPick",
			rng:    stuckSource(4),
			span:   5,
			center: 2,
			n:      3,
			want:   []int{4, 0, 1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equalf(t, tt.want, pickContext(tt.rng, tt.span, tt.center, tt.n), "pickContext(%d, %d, %d)", tt.span, tt.center, tt.n)
		})
	}
}

func Test_pickContext_Terminates(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for skipWindow := 1; skipWindow <= 6; skipWindow++ {
		span := 2*skipWindow + 1
		for n := 1; n <= 2*skipWindow; n++ {
			for i := 0; i < 50; i++ {
				picks := pickContext(rng, span, skipWindow, n)
				assert.Len(t, picks, n)
				seen := map[int]bool{}
				for _, p := range picks {
					assert.NotEqual(t, skipWindow, p)
					assert.GreaterOrEqual(t, p, 0)
					assert.Less(t, p, span)
					assert.False(t, seen[p])
					seen[p] = true
				}
			}
		}
	}
}

func Test_pickContext_TooMany(t *testing.T) {
	assert.Panics(t, func() { pickContext(stuckSource(0), 3, 1, 3) })
}
