// Package landmark provides the pixel-space landmark model shared by the
// face, hand, and pose tracking pipelines, and the angle geometry computed
// over it.
package landmark

import "errors"

// ErrNotFound is returned when a requested landmark id is absent from a set.
var ErrNotFound = errors.New("landmark not found")

// ErrDegenerate is returned when an angle query places the vertex on one of
// its own ray endpoints, leaving a ray with no direction.
var ErrDegenerate = errors.New("degenerate angle query")

// Landmark is a single tracked keypoint on a detected entity. ID follows the
// detector's topology (wrist = 0 for hands, nose = 0 for pose, and so on)
// and is stable across frames. X and Y are pixel coordinates, already
// projected from the detector's normalized output.
type Landmark struct {
	ID int `json:"id"`
	X  int `json:"x"`
	Y  int `json:"y"`
}

// Set holds the landmarks of one detected entity in one frame, in detector
// output order, with O(1) lookup by id. A Set is built once per frame and
// read-only afterward; it is only valid for the frame that produced it.
type Set struct {
	points []Landmark
	byID   map[int]int
}

// NewSet builds a Set from landmarks in detector output order. Later
// duplicates of an id shadow earlier ones, matching positional indexing
// into the raw output list.
func NewSet(points []Landmark) Set {
	s := Set{
		points: make([]Landmark, len(points)),
		byID:   make(map[int]int, len(points)),
	}
	copy(s.points, points)
	for i, p := range s.points {
		s.byID[p.ID] = i
	}
	return s
}

// Get returns the landmark with the given id, or ErrNotFound.
func (s Set) Get(id int) (Landmark, error) {
	i, ok := s.byID[id]
	if !ok {
		return Landmark{}, ErrNotFound
	}
	return s.points[i], nil
}

// All returns the landmarks in detector output order. The returned slice is
// shared with the set and must not be modified.
func (s Set) All() []Landmark {
	return s.points
}

// Len returns the number of landmarks in the set.
func (s Set) Len() int {
	return len(s.points)
}
