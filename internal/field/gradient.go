package field

import (
	"fmt"
	"image"
	"image/color"
	"math"
)

// GradientStop pairs a temperature threshold in °C with its color.
type GradientStop struct {
	Temp  float64
	Color color.NRGBA
}

// Gradient is an ascending sequence of stops defining the color ramp.
// Temperatures below the first stop clamp to its color, above the last
// stop to the last color, and in between the two bracketing stops are
// linearly interpolated per channel.
type Gradient []GradientStop

// DefaultGradient is the thermal ramp used for rendering: deep purple
// through blue, green and yellow to red across -40..40 °C.
func DefaultGradient() Gradient {
	return Gradient{
		{Temp: -40, Color: color.NRGBA{R: 48, G: 18, B: 84, A: 255}},
		{Temp: -20, Color: color.NRGBA{R: 40, G: 64, B: 170, A: 255}},
		{Temp: -10, Color: color.NRGBA{R: 62, G: 120, B: 210, A: 255}},
		{Temp: 0, Color: color.NRGBA{R: 90, G: 170, B: 220, A: 255}},
		{Temp: 10, Color: color.NRGBA{R: 110, G: 200, B: 140, A: 255}},
		{Temp: 20, Color: color.NRGBA{R: 240, G: 210, B: 80, A: 255}},
		{Temp: 30, Color: color.NRGBA{R: 245, G: 130, B: 50, A: 255}},
		{Temp: 40, Color: color.NRGBA{R: 200, G: 30, B: 30, A: 255}},
	}
}

// Validate checks that the ramp has at least one stop and strictly
// ascending thresholds.
func (g Gradient) Validate() error {
	if len(g) == 0 {
		return fmt.Errorf("gradient: no stops")
	}
	for i := 1; i < len(g); i++ {
		if g[i].Temp <= g[i-1].Temp {
			return fmt.Errorf("gradient: stop %d (%g) not above stop %d (%g)",
				i, g[i].Temp, i-1, g[i-1].Temp)
		}
	}
	return nil
}

// At maps a temperature to its ramp color. Pure: the same input always
// yields the same color.
func (g Gradient) At(temp float64) color.NRGBA {
	if len(g) == 0 {
		return color.NRGBA{}
	}
	if temp <= g[0].Temp {
		return g[0].Color
	}
	last := g[len(g)-1]
	if temp >= last.Temp {
		return last.Color
	}

	for i := 1; i < len(g); i++ {
		if temp > g[i].Temp {
			continue
		}
		lo, hi := g[i-1], g[i]
		t := (temp - lo.Temp) / (hi.Temp - lo.Temp)
		return color.NRGBA{
			R: lerp8(lo.Color.R, hi.Color.R, t),
			G: lerp8(lo.Color.G, hi.Color.G, t),
			B: lerp8(lo.Color.B, hi.Color.B, t),
			A: lerp8(lo.Color.A, hi.Color.A, t),
		}
	}
	return last.Color
}

// Min and Max return the ramp's temperature extent.
func (g Gradient) Min() float64 { return g[0].Temp }
func (g Gradient) Max() float64 { return g[len(g)-1].Temp }

// LegendImage renders the ramp as a horizontal bar spanning the
// gradient's full temperature extent, for use as a map legend.
func (g Gradient) LegendImage(width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	if width < 2 || height < 1 || len(g) == 0 {
		return img
	}
	lo, hi := g.Min(), g.Max()
	for x := 0; x < width; x++ {
		temp := lo + (hi-lo)*float64(x)/float64(width-1)
		c := g.At(temp)
		for y := 0; y < height; y++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func lerp8(a, b uint8, t float64) uint8 {
	return uint8(math.Round(float64(a) + (float64(b)-float64(a))*t))
}
