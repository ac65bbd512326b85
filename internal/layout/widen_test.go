package layout

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWidenFillsNarrowestFirst(t *testing.T) {
	segments := []float64{10, 30, 20}
	widen(segments, span{left: 0, right: 3, dir: LTR}, 100)

	// 10 -> 20, затем {20,20} -> 30, затем остаток поровну
	third := 10.0 / 3
	assert.InDelta(t, 30+third, segments[0], 1e-9)
	assert.InDelta(t, 30+third, segments[1], 1e-9)
	assert.InDelta(t, 30+third, segments[2], 1e-9)
	assert.InDelta(t, 100, segments[0]+segments[1]+segments[2], 1e-9)
}

func TestWidenStopsBelowNextLevel(t *testing.T) {
	segments := []float64{10, 30}
	widen(segments, span{left: 0, right: 2, dir: LTR}, 50)
	assert.Equal(t, []float64{20, 30}, segments)
}

func TestWidenNoopWhenWideEnough(t *testing.T) {
	segments := []float64{40, 40, 0}
	widen(segments, span{left: 0, right: 2, dir: RTL}, 50)
	assert.Equal(t, []float64{40, 40, 0}, segments)
}

func TestWidenSelfUsesRightSegment(t *testing.T) {
	segments := []float64{50, 0}
	widen(segments, span{left: 1, right: 1, dir: None}, 84)
	assert.Equal(t, []float64{50, 84}, segments)
}

func TestWidenOnlyTouchesSpan(t *testing.T) {
	segments := []float64{5, 10, 10, 5}
	widen(segments, span{left: 1, right: 3, dir: LTR}, 30)
	assert.Equal(t, []float64{5, 15, 15, 5}, segments)
}

func TestWidenNeverShrinks(t *testing.T) {
	initial := []float64{7, 3, 12, 3, 0}
	segments := append([]float64(nil), initial...)
	for _, w := range []float64{10, 40, 41, 100, 7} {
		widen(segments, span{left: 0, right: 4, dir: LTR}, w)
		for i := range segments {
			assert.GreaterOrEqual(t, segments[i], initial[i])
		}
	}
	assert.Zero(t, segments[4])
}

func TestNextAllotment(t *testing.T) {
	segments := []float64{4, 4, 9}
	count, space := nextAllotment(segments, []int{0, 1, 2})
	assert.Equal(t, 2, count)
	assert.Equal(t, 10.0, space)

	count, space = nextAllotment([]float64{3, 3}, []int{0, 1})
	assert.Equal(t, 2, count)
	assert.True(t, math.IsInf(space, 1))
}

func TestGeometry(t *testing.T) {
	b := Box{X: 10, Y: 20, Width: 30, Height: 40}
	assert.Equal(t, 40.0, b.Right())
	assert.Equal(t, 60.0, b.Bottom())
	assert.Equal(t, 25.0, b.CenterX())

	assert.Equal(t, 5.0, Distance(Point{0, 0}, Point{3, 4}))
	assert.InDelta(t, math.Pi/4, InclinationAngle(Point{0, 0}, Point{2, 2}), 1e-12)
	assert.Zero(t, InclinationAngle(Point{1, 5}, Point{9, 5}))
}
