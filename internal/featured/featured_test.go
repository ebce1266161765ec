package featured

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRotation_At(t *testing.T) {
	r := NewRotation()
	epoch := time.Unix(0, 0)

	tests := []struct {
		name  string
		at    time.Time
		index int
		next  float64
	}{
		{"start", epoch, 0, 12},
		{"just before first change", epoch.Add(11 * time.Second), 0, 1},
		{"second slide", epoch.Add(12 * time.Second), 1, 12},
		{"third slide", epoch.Add(30 * time.Second), 2, 6},
		{"wraps around", epoch.Add(36 * time.Second), 0, 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slide := r.At(tt.at)
			assert.Equal(t, tt.index, slide.Index)
			assert.Equal(t, DefaultImages[tt.index], slide.Image)
			assert.InDelta(t, tt.next, slide.NextChangeIn, 0.001)
			assert.Equal(t, 12, slide.IntervalSeconds)
			assert.Len(t, slide.Images, 3)
		})
	}
}

func TestRotation_Empty(t *testing.T) {
	slide := Rotation{Interval: Interval}.At(time.Now())
	assert.Equal(t, 0, slide.Index)
	assert.Empty(t, slide.Image)
	assert.Empty(t, slide.Images)
}
