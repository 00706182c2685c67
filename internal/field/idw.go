package field

import (
	"math"

	"github.com/couchcryptid/city-temp-map/internal/domain"
)

// Interpolator computes inverse-distance-weighted temperatures from the
// city dataset. The zero value is not usable; call NewInterpolator.
type Interpolator struct {
	// Power is the distance exponent p in w = 1/(d^p + ε).
	Power float64
	// Epsilon keeps the weight finite when d approaches zero.
	Epsilon float64
	// SnapKm short-circuits to the city's own value when the query
	// point is within this distance of it, avoiding the numerical
	// blow-up of near-zero distances dominating the weighted sum.
	SnapKm float64
}

// NewInterpolator returns an Interpolator with the standard
// inverse-square weighting.
func NewInterpolator() Interpolator {
	return Interpolator{
		Power:   2,
		Epsilon: 1e-12,
		SnapKm:  0.1,
	}
}

// Interpolate returns the weighted temperature at (lat, lng) for the
// selected month. Records without coordinates are skipped; records
// without a value for the month are excluded from the sum rather than
// contributing zero. Returns NaN when nothing contributes; callers
// treat that as "no field here", not as an error.
func (ip Interpolator) Interpolate(ds *domain.Dataset, month domain.Month, lat, lng float64) float64 {
	if ds == nil {
		return math.NaN()
	}

	var sumWeighted, sumWeights float64
	contributed := false

	for i := range ds.Cities {
		rec := &ds.Cities[i]
		if !rec.HasCoordinates() {
			continue
		}
		value, ok := rec.Value(month)
		if !ok {
			continue
		}

		d := distanceKm(lat, lng, *rec.Lat, *rec.Lng)
		if d < ip.SnapKm {
			return value
		}

		w := 1 / (math.Pow(d, ip.Power) + ip.Epsilon)
		sumWeighted += w * value
		sumWeights += w
		contributed = true
	}

	if !contributed || sumWeights == 0 {
		return math.NaN()
	}
	return sumWeighted / sumWeights
}
