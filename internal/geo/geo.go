// Package geo implements the grid/screen geometry used by the map-runner:
// grid positions, the isometric projection into move angles, and the small
// set of distance helpers every other package builds on.
package geo

import "math"

// Pos is a position in game grid units. The zero value (0,0) is a sentinel
// meaning "uninitialised" and must never be emitted as a real target.
type Pos struct {
	X float32
	Y float32
}

// Zero is the sentinel "uninitialised" position.
var Zero = Pos{}

// IsZero reports whether p is the uninitialised sentinel.
func (p Pos) IsZero() bool {
	return p.X == 0 && p.Y == 0
}

// GridToWorldRatio converts a grid-unit delta into world units.
const GridToWorldRatio = 250.0 / 23.0

// Sub returns a-b.
func (a Pos) Sub(b Pos) Pos {
	return Pos{X: a.X - b.X, Y: a.Y - b.Y}
}

// Add returns a+b.
func (a Pos) Add(b Pos) Pos {
	return Pos{X: a.X + b.X, Y: a.Y + b.Y}
}

// Dist returns the Euclidean distance between a and b, in grid units.
func Dist(a, b Pos) float32 {
	return float32(math.Sqrt(float64(DistSq(a, b))))
}

// DistSq returns the squared Euclidean distance, avoiding the sqrt when
// only relative ordering matters (clustering, nearest-candidate scans).
func DistSq(a, b Pos) float32 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return dx*dx + dy*dy
}

// Within reports whether b lies within radius r of a.
func Within(a, b Pos, r float32) bool {
	return DistSq(a, b) <= r*r
}

// ScreenAngleDeg converts a grid delta (dx,dy) into a screen-space angle in
// degrees, using the game's isometric projection.
func ScreenAngleDeg(dx, dy float32) float64 {
	rad := math.Atan2(float64(dx+dy)/2, float64(dx-dy))
	return rad * 180 / math.Pi
}

// MoveVector computes the screen angle and clamped distance for a grid move
// from `from` toward `to`, capped at maxMoveDistance world units.
func MoveVector(from, to Pos, maxMoveDistance float32) (angleDeg float64, distance float32) {
	delta := to.Sub(from)
	angleDeg = ScreenAngleDeg(delta.X, delta.Y)
	gridMag := float32(math.Sqrt(float64(delta.X*delta.X + delta.Y*delta.Y)))
	worldMag := gridMag * GridToWorldRatio
	if worldMag > maxMoveDistance {
		worldMag = maxMoveDistance
	}
	return angleDeg, worldMag
}

// IsoDelta projects a grid delta from `from` to `to` into the screen-space
// (dx,dy) pair the channeled-skill packet expects, using the same
// isometric transform as ScreenAngleDeg.
func IsoDelta(from, to Pos) (dx, dy float32) {
	delta := to.Sub(from)
	return (delta.X + delta.Y) / 2, delta.X - delta.Y
}

// RandomAngleDeg returns a deterministic-free random angle in [0,360), using
// the supplied entropy source so callers can inject determinism in tests.
func RandomAngleDeg(r Rand) float64 {
	return r.Float64() * 360
}

// Rand is the minimal entropy source the geo/kite packages need. Production
// code wraps math/rand's top-level Float64; tests supply a fixed sequence.
type Rand interface {
	Float64() float64
}
