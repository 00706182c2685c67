package field

import (
	"fmt"
	"image"
	"math"

	"golang.org/x/image/draw"

	"github.com/couchcryptid/city-temp-map/internal/domain"
)

// Renderer rasterizes a temperature field over a viewport. It samples a
// grid one point every Step canvas pixels, colors each sample through
// the gradient, and upscales the small buffer to the full canvas with
// bilinear smoothing. Stateless between calls: the same viewport, month
// and dataset always produce the same image.
type Renderer struct {
	Interpolator Interpolator
	Gradient     Gradient
	// Step is the sample spacing in canvas pixels. Larger steps trade
	// detail for speed. Values below 1 are treated as 1.
	Step int
	// Alpha is the overlay opacity applied to valid samples so the
	// basemap stays readable underneath. NaN samples stay fully
	// transparent regardless.
	Alpha uint8
}

// NewRenderer returns a Renderer with the default interpolator, ramp,
// sample spacing and overlay opacity.
func NewRenderer() Renderer {
	return Renderer{
		Interpolator: NewInterpolator(),
		Gradient:     DefaultGradient(),
		Step:         8,
		Alpha:        168,
	}
}

// Render produces the field raster for one viewport and month. An empty
// or nil dataset yields a fully transparent image, not an error; the
// map simply shows no field.
func (r Renderer) Render(ds *domain.Dataset, month domain.Month, vp Viewport) (*image.NRGBA, error) {
	if err := vp.Validate(); err != nil {
		return nil, err
	}
	if err := r.Gradient.Validate(); err != nil {
		return nil, err
	}
	if !month.Valid() {
		return nil, fmt.Errorf("render: invalid month selector %d", int(month))
	}

	out := image.NewNRGBA(image.Rect(0, 0, vp.Width, vp.Height))
	if ds.Len() == 0 {
		return out, nil
	}

	step := r.Step
	if step < 1 {
		step = 1
	}
	gridW := (vp.Width + step - 1) / step
	gridH := (vp.Height + step - 1) / step

	small := image.NewNRGBA(image.Rect(0, 0, gridW, gridH))
	for gy := 0; gy < gridH; gy++ {
		py := float64(gy * step)
		for gx := 0; gx < gridW; gx++ {
			px := float64(gx * step)
			lat, lng := vp.Unproject(px, py)

			temp := r.Interpolator.Interpolate(ds, month, lat, lng)
			if math.IsNaN(temp) {
				continue
			}
			c := r.Gradient.At(temp)
			c.A = r.Alpha
			small.SetNRGBA(gx, gy, c)
		}
	}

	draw.BiLinear.Scale(out, out.Bounds(), small, small.Bounds(), draw.Src, nil)
	return out, nil
}
