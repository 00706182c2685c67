package field

import (
	"fmt"
	"math"
)

// MaxLatitude is the Web-Mercator projection cap. Leaflet clamps map
// bounds to the same value.
const MaxLatitude = 85.05112878

// Viewport is the visible map area: geographic bounds plus the canvas
// size in pixels. Bounds come straight from the map client; longitudes
// may run past ±180 when the view crosses the antimeridian.
type Viewport struct {
	West   float64
	South  float64
	East   float64
	North  float64
	Width  int
	Height int
}

// Validate checks bounds ordering and canvas size.
func (v Viewport) Validate() error {
	if v.Width <= 0 || v.Height <= 0 {
		return fmt.Errorf("viewport: canvas %dx%d is not positive", v.Width, v.Height)
	}
	if v.East <= v.West {
		return fmt.Errorf("viewport: east %g not greater than west %g", v.East, v.West)
	}
	if v.North <= v.South {
		return fmt.Errorf("viewport: north %g not greater than south %g", v.North, v.South)
	}
	if math.Abs(v.North) > MaxLatitude || math.Abs(v.South) > MaxLatitude {
		return fmt.Errorf("viewport: latitude beyond ±%v", MaxLatitude)
	}
	return nil
}

// Unproject maps a canvas pixel to geographic coordinates. Longitude is
// linear across the canvas; latitude is linear in Mercator Y, matching
// how an EPSG:3857 map stretches an image overlay.
func (v Viewport) Unproject(px, py float64) (lat, lng float64) {
	lng = v.West + (v.East-v.West)*px/float64(v.Width)

	top := mercatorY(v.North)
	bottom := mercatorY(v.South)
	y := top + (bottom-top)*py/float64(v.Height)
	lat = inverseMercatorY(y)
	return lat, lng
}

// mercatorY maps latitude in degrees to Web-Mercator Y. Grows northward.
func mercatorY(lat float64) float64 {
	rad := lat * math.Pi / 180
	return math.Log(math.Tan(math.Pi/4 + rad/2))
}

func inverseMercatorY(y float64) float64 {
	return (2*math.Atan(math.Exp(y)) - math.Pi/2) * 180 / math.Pi
}

// earthRadiusKm is the mean Earth radius used for great-circle distances.
const earthRadiusKm = 6371.0

// distanceKm returns the haversine great-circle distance between two
// points in kilometers. The formula is periodic in longitude, so
// unnormalized longitudes from antimeridian-crossing viewports are fine.
func distanceKm(lat1, lng1, lat2, lng2 float64) float64 {
	const degToRad = math.Pi / 180
	dLat := (lat2 - lat1) * degToRad
	dLng := (lng2 - lng1) * degToRad

	sinLat := math.Sin(dLat / 2)
	sinLng := math.Sin(dLng / 2)
	a := sinLat*sinLat + math.Cos(lat1*degToRad)*math.Cos(lat2*degToRad)*sinLng*sinLng
	return 2 * earthRadiusKm * math.Asin(math.Min(1, math.Sqrt(a)))
}
