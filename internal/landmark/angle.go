package landmark

import (
	"fmt"
	"math"
)

// Query names the three landmarks of an angle measurement. P2 is the vertex;
// P1 and P3 are the ray endpoints.
type Query struct {
	P1 int `json:"p1"`
	P2 int `json:"p2"`
	P3 int `json:"p3"`
}

// Angle computes the directional angle at the vertex p2, in degrees, swept
// counter-clockwise (in y-down image coordinates) from ray p2->p1 to ray
// p2->p3. The result is always in [0, 360). Callers wanting the interior
// angle take min(a, 360-a) themselves.
//
// Returns ErrNotFound if any id is absent from the set and ErrDegenerate if
// the vertex coincides with one of its own endpoints. p1 == p3 is allowed
// (two copies of the same ray, angle 0).
func Angle(set Set, p1, p2, p3 int) (float64, error) {
	if p2 == p1 || p2 == p3 {
		return 0, fmt.Errorf("vertex %d equals ray endpoint: %w", p2, ErrDegenerate)
	}

	a, err := set.Get(p1)
	if err != nil {
		return 0, fmt.Errorf("p1 %d: %w", p1, err)
	}
	v, err := set.Get(p2)
	if err != nil {
		return 0, fmt.Errorf("p2 %d: %w", p2, err)
	}
	b, err := set.Get(p3)
	if err != nil {
		return 0, fmt.Errorf("p3 %d: %w", p3, err)
	}

	angle := math.Atan2(float64(b.Y-v.Y), float64(b.X-v.X)) -
		math.Atan2(float64(a.Y-v.Y), float64(a.X-v.X))
	angle = angle * 180 / math.Pi
	if angle < 0 {
		angle += 360
	}
	return angle, nil
}

// AngleQuery is Angle with the ids carried as a Query value.
func AngleQuery(set Set, q Query) (float64, error) {
	return Angle(set, q.P1, q.P2, q.P3)
}

// Interior reduces a directional angle to the interior angle between the
// two rays, always in [0, 180].
func Interior(angle float64) float64 {
	if angle > 180 {
		return 360 - angle
	}
	return angle
}
