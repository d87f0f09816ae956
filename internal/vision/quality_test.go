package vision

import (
	"math"
	"testing"
)

func TestScore(t *testing.T) {
	tests := []struct {
		name   string
		box    BoundingBox
		width  int
		height int
		min    float64
		max    float64
	}{
		{
			name: "centered portrait face scores high",
			// 300x400 face centered in a 1000x1000 frame.
			box:    BoundingBox{X: 350, Y: 300, Width: 300, Height: 400},
			width:  1000,
			height: 1000,
			min:    80,
			max:    100,
		},
		{
			name: "tiny corner face scores low",
			box:    BoundingBox{X: 0, Y: 0, Width: 20, Height: 20},
			width:  1000,
			height: 1000,
			min:    30,
			max:    50,
		},
		{
			name:   "degenerate box scores zero",
			box:    BoundingBox{X: 10, Y: 10, Width: 0, Height: 0},
			width:  1000,
			height: 1000,
			min:    0,
			max:    0,
		},
		{
			name:   "invalid frame scores zero",
			box:    BoundingBox{X: 10, Y: 10, Width: 100, Height: 100},
			width:  0,
			height: 0,
			min:    0,
			max:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(tt.box, tt.width, tt.height)
			if got < tt.min || got > tt.max {
				t.Errorf("Score(%+v, %d, %d) = %v, want within [%v, %v]",
					tt.box, tt.width, tt.height, got, tt.min, tt.max)
			}
			if got < 0 || got > 100 {
				t.Errorf("Score out of range: %v", got)
			}
		})
	}
}

func TestScoreMonotonicInArea(t *testing.T) {
	// A larger centered face must never score below a smaller one.
	small := Score(BoundingBox{X: 480, Y: 470, Width: 40, Height: 60}, 1000, 1000)
	large := Score(BoundingBox{X: 350, Y: 300, Width: 300, Height: 400}, 1000, 1000)

	if small > large {
		t.Errorf("small face scored %v, large face %v", small, large)
	}
	if math.IsNaN(small) || math.IsNaN(large) {
		t.Fatalf("score must not be NaN")
	}
}
