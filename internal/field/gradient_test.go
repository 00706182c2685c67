package field

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGradientValidate(t *testing.T) {
	t.Run("default ramp is valid", func(t *testing.T) {
		assert.NoError(t, DefaultGradient().Validate())
	})

	t.Run("empty", func(t *testing.T) {
		require.Error(t, Gradient{}.Validate())
	})

	t.Run("not ascending", func(t *testing.T) {
		g := Gradient{
			{Temp: 10, Color: color.NRGBA{A: 255}},
			{Temp: 10, Color: color.NRGBA{A: 255}},
		}
		err := g.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not above")
	})
}

func TestGradientAt(t *testing.T) {
	g := DefaultGradient()

	t.Run("idempotent", func(t *testing.T) {
		for _, temp := range []float64{-50, -12.5, 0, 7.3, 22, 100} {
			assert.Equal(t, g.At(temp), g.At(temp), "temp %g", temp)
		}
	})

	t.Run("clamps below the ramp", func(t *testing.T) {
		coldest := g[0].Color
		assert.Equal(t, coldest, g.At(-40))
		assert.Equal(t, coldest, g.At(-60))
		assert.Equal(t, coldest, g.At(-1000))
	})

	t.Run("clamps above the ramp", func(t *testing.T) {
		hottest := g[len(g)-1].Color
		assert.Equal(t, hottest, g.At(40))
		assert.Equal(t, hottest, g.At(55))
		assert.Equal(t, hottest, g.At(1000))
	})

	t.Run("exact stops return stop colors", func(t *testing.T) {
		for _, stop := range g {
			assert.Equal(t, stop.Color, g.At(stop.Temp), "stop %g", stop.Temp)
		}
	})

	t.Run("segment midpoint is the channel midpoint", func(t *testing.T) {
		g := Gradient{
			{Temp: 0, Color: color.NRGBA{R: 0, G: 100, B: 200, A: 255}},
			{Temp: 10, Color: color.NRGBA{R: 100, G: 200, B: 100, A: 255}},
		}
		got := g.At(5)
		assert.Equal(t, color.NRGBA{R: 50, G: 150, B: 150, A: 255}, got)
	})

	t.Run("monotonic within each segment", func(t *testing.T) {
		// Each channel must move steadily toward the segment's hi stop;
		// a reversal would make a warmer temperature look cooler.
		for i := 1; i < len(g); i++ {
			lo, hi := g[i-1], g[i]
			span := hi.Temp - lo.Temp
			prev := g.At(lo.Temp)
			for step := 1; step <= 10; step++ {
				cur := g.At(lo.Temp + span*float64(step)/10)
				assertChannelToward(t, prev.R, cur.R, lo.Color.R, hi.Color.R)
				assertChannelToward(t, prev.G, cur.G, lo.Color.G, hi.Color.G)
				assertChannelToward(t, prev.B, cur.B, lo.Color.B, hi.Color.B)
				prev = cur
			}
		}
	})
}

// assertChannelToward checks that a channel moved in the segment's
// direction: nondecreasing when the hi stop is brighter, nonincreasing
// when it is darker.
func assertChannelToward(t *testing.T, prev, cur, lo, hi uint8) {
	t.Helper()
	if hi >= lo {
		assert.GreaterOrEqual(t, cur, prev)
	} else {
		assert.LessOrEqual(t, cur, prev)
	}
}

func TestGradientLegendImage(t *testing.T) {
	g := DefaultGradient()
	img := g.LegendImage(256, 24)

	assert.Equal(t, 256, img.Bounds().Dx())
	assert.Equal(t, 24, img.Bounds().Dy())
	assert.Equal(t, g[0].Color, img.NRGBAAt(0, 0))
	assert.Equal(t, g[len(g)-1].Color, img.NRGBAAt(255, 23))
}
