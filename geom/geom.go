// Package geom provides the 2D vector helpers used by the simulation.
// Vectors are gonum r2.Vec values; this package adds the game-specific
// operations (guarded normalization, target stepping, shortest-path angle lerp).
package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Vec is a 2D vector in world units.
type Vec = r2.Vec

// Epsilon is the distance below which two points are treated as coincident.
const Epsilon = 1e-9

// Rand is the subset of a random source the helpers need.
type Rand interface {
	Float64() float64
}

// V is shorthand for constructing a vector.
func V(x, y float64) Vec {
	return Vec{X: x, Y: y}
}

// Distance returns the Euclidean distance between a and b.
func Distance(a, b Vec) float64 {
	return r2.Norm(r2.Sub(a, b))
}

// DistanceSq returns the squared distance between a and b.
func DistanceSq(a, b Vec) float64 {
	return r2.Norm2(r2.Sub(a, b))
}

// AngleTo returns the heading in radians from `from` towards `to`.
func AngleTo(from, to Vec) float64 {
	return math.Atan2(to.Y-from.Y, to.X-from.X)
}

// FromAngle returns the unit vector for the given heading.
func FromAngle(theta float64) Vec {
	return Vec{X: math.Cos(theta), Y: math.Sin(theta)}
}

// Unit normalizes v. ok is false for a (near) zero vector, in which case the
// zero vector is returned instead of NaNs.
func Unit(v Vec) (u Vec, ok bool) {
	n := r2.Norm(v)
	if n < Epsilon {
		return Vec{}, false
	}
	return r2.Scale(1/n, v), true
}

// Direction returns the unit vector pointing from `from` to `to`.
func Direction(from, to Vec) (Vec, bool) {
	return Unit(r2.Sub(to, from))
}

// RandomUnit returns a uniformly distributed unit vector.
func RandomUnit(rng Rand) Vec {
	return FromAngle(rng.Float64() * 2 * math.Pi)
}

// StepToward moves pos towards target by at most speed. When the remaining
// distance is below speed the target itself is returned, so motion converges
// without oscillating around the target.
func StepToward(pos, target Vec, speed float64) Vec {
	d := r2.Sub(target, pos)
	dist := r2.Norm(d)
	if dist < speed || dist < Epsilon {
		return target
	}
	return r2.Add(pos, r2.Scale(speed/dist, d))
}

// NormalizeAngle wraps an angle to [-Pi, Pi].
func NormalizeAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a > math.Pi {
		a -= 2 * math.Pi
	} else if a < -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

// LerpAngle interpolates from a to b along the shortest arc.
func LerpAngle(a, b, t float64) float64 {
	return NormalizeAngle(a + NormalizeAngle(b-a)*t)
}

// SegmentDistance returns the distance from p to the segment a-b.
func SegmentDistance(a, b, p Vec) float64 {
	_, d := SegmentClosest(a, b, p)
	return d
}

// SegmentClosest returns the parameter t in [0,1] of the point on segment
// a-b closest to p, and the distance from p to that point.
func SegmentClosest(a, b, p Vec) (t, dist float64) {
	ab := r2.Sub(b, a)
	l2 := r2.Norm2(ab)
	if l2 < Epsilon {
		return 0, Distance(a, p)
	}
	t = Clamp(r2.Dot(r2.Sub(p, a), ab)/l2, 0, 1)
	return t, Distance(r2.Add(a, r2.Scale(t, ab)), p)
}

// CirclesOverlap reports whether two circles intersect (strictly).
func CirclesOverlap(a Vec, ra float64, b Vec, rb float64) bool {
	r := ra + rb
	return DistanceSq(a, b) < r*r
}

// ClampCircle keeps a circle of radius r inside [0,w]x[0,h]. A circle wider
// than the rectangle is centered on that axis.
func ClampCircle(pos Vec, r, w, h float64) Vec {
	return Vec{X: clampAxis(pos.X, r, w), Y: clampAxis(pos.Y, r, h)}
}

func clampAxis(v, r, size float64) float64 {
	if 2*r >= size {
		return size / 2
	}
	return Clamp(v, r, size-r)
}

// Clamp restricts v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Sign returns -1, 0 or 1.
func Sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
