// Package geometry provides the rotation math used to orient placed items.
// Local frame convention: +X east, +Y up, +Z north; objects face along +Z.
package geometry

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/example/geoanchor/internal/core/item"
)

// Up is the world up axis.
var Up = r3.Vec{Y: 1}

// Forward is the object-space facing axis.
var Forward = r3.Vec{Z: 1}

const parallelEpsilon = 1e-9

// Identity is the no-rotation quaternion.
var Identity = quat.Number{Real: 1}

// LookRotation returns the rotation that turns Forward onto forward while
// keeping the object's up axis as close to up as possible.
// When forward is parallel to up (a flat ground normal, say) a fixed fallback
// up axis is used so the result stays well defined. A zero forward yields Identity.
func LookRotation(forward, up r3.Vec) quat.Number {
	if r3.Norm(forward) < parallelEpsilon {
		return Identity
	}
	f := r3.Unit(forward)
	if r3.Norm(up) < parallelEpsilon {
		up = Up
	}

	right := r3.Cross(up, f)
	if r3.Norm(right) < parallelEpsilon {
		// forward is (anti)parallel to up; pick an up that lies in the ground plane
		right = r3.Cross(r3.Vec{Z: -1}, f)
		if r3.Norm(right) < parallelEpsilon {
			right = r3.Cross(Up, f)
		}
	}
	right = r3.Unit(right)
	u := r3.Cross(f, right)

	return fromBasis(right, u, f)
}

// fromBasis converts the rotation matrix with columns (x, y, z) into a quaternion.
func fromBasis(x, y, z r3.Vec) quat.Number {
	m00, m01, m02 := x.X, y.X, z.X
	m10, m11, m12 := x.Y, y.Y, z.Y
	m20, m21, m22 := x.Z, y.Z, z.Z

	var q quat.Number
	switch trace := m00 + m11 + m22; {
	case trace > 0:
		s := math.Sqrt(trace+1) * 2
		q = quat.Number{Real: s / 4, Imag: (m21 - m12) / s, Jmag: (m02 - m20) / s, Kmag: (m10 - m01) / s}
	case m00 > m11 && m00 > m22:
		s := math.Sqrt(1+m00-m11-m22) * 2
		q = quat.Number{Real: (m21 - m12) / s, Imag: s / 4, Jmag: (m01 + m10) / s, Kmag: (m02 + m20) / s}
	case m11 > m22:
		s := math.Sqrt(1+m11-m00-m22) * 2
		q = quat.Number{Real: (m02 - m20) / s, Imag: (m01 + m10) / s, Jmag: s / 4, Kmag: (m12 + m21) / s}
	default:
		s := math.Sqrt(1+m22-m00-m11) * 2
		q = quat.Number{Real: (m10 - m01) / s, Imag: (m02 + m20) / s, Jmag: (m12 + m21) / s, Kmag: s / 4}
	}
	return quat.Scale(1/quat.Abs(q), q)
}

// Rotate applies the rotation q to v.
func Rotate(q quat.Number, v r3.Vec) r3.Vec {
	p := quat.Mul(quat.Mul(q, quat.Number{Imag: v.X, Jmag: v.Y, Kmag: v.Z}), quat.Conj(q))
	return r3.Vec{X: p.Imag, Y: p.Jmag, Z: p.Kmag}
}

// ToOrientation narrows q to the persisted float32 representation.
func ToOrientation(q quat.Number) item.Orientation {
	return item.Orientation{
		X: float32(q.Imag),
		Y: float32(q.Jmag),
		Z: float32(q.Kmag),
		W: float32(q.Real),
	}
}

// FromOrientation widens a persisted orientation. The components are taken
// as stored; nothing is normalized.
func FromOrientation(o item.Orientation) quat.Number {
	return quat.Number{
		Real: float64(o.W),
		Imag: float64(o.X),
		Jmag: float64(o.Y),
		Kmag: float64(o.Z),
	}
}

// OrientationFromNormal orients an item so it faces along a surface normal.
func OrientationFromNormal(normal r3.Vec) item.Orientation {
	return ToOrientation(LookRotation(normal, Up))
}
