package patchmatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDirection_Scan(t *testing.T) {
	assert.Equal(t, Scan{0, 3, 1, 0, 5, 1}, Forward.Scan(3, 5))
	assert.Equal(t, Scan{2, -1, -1, 4, -1, -1}, Backward.Scan(3, 5))
}

func TestDirectionOf(t *testing.T) {
	assert.Equal(t, Forward, directionOf(0))
	assert.Equal(t, Backward, directionOf(1))
	assert.Equal(t, Forward, directionOf(2))
	assert.Equal(t, "backward", Backward.String())
}

func TestScan_VisitsEveryCellOnce(t *testing.T) {
	for _, d := range []Direction{Forward, Backward} {
		s := d.Scan(4, 3)
		seen := map[[2]int]int{}
		for i := s.YBegin; i != s.YEnd; i += s.YDelta {
			for j := s.XBegin; j != s.XEnd; j += s.XDelta {
				seen[[2]int{i, j}]++
			}
		}
		assert.Len(t, seen, 12, d.String())
		for cell, n := range seen {
			assert.Equal(t, 1, n, "%v visited %d times", cell, n)
		}
	}
}
