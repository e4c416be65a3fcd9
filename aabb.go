package physics

import "math"

// AABB is an axis-aligned bounding box. The invariant
// LowerBound <= UpperBound componentwise is maintained by every
// constructor/combiner below; callers that build one by hand must preserve
// it themselves.
type AABB struct {
	LowerBound, UpperBound Vector
}

func NewAABBForCircle(center Vector, radius float64) AABB {
	r := Vector{radius, radius}
	return AABB{LowerBound: center.Sub(r), UpperBound: center.Add(r)}
}

func (a AABB) IsValid() bool {
	d := a.UpperBound.Sub(a.LowerBound)
	return d.X >= 0 && d.Y >= 0 && a.LowerBound.IsValid() && a.UpperBound.IsValid()
}

func (a AABB) Center() Vector {
	return a.LowerBound.Add(a.UpperBound).Mul(0.5)
}

func (a AABB) Extents() Vector {
	return a.UpperBound.Sub(a.LowerBound).Mul(0.5)
}

// Perimeter returns twice the sum of the box's width and height; used as
// the surface-area-heuristic cost metric by the dynamic tree.
func (a AABB) Perimeter() float64 {
	wx := a.UpperBound.X - a.LowerBound.X
	wy := a.UpperBound.Y - a.LowerBound.Y
	return 2.0 * (wx + wy)
}

// Combine returns the smallest AABB enclosing both a and b.
func (a AABB) Combine(b AABB) AABB {
	return AABB{
		LowerBound: MinVec(a.LowerBound, b.LowerBound),
		UpperBound: MaxVec(a.UpperBound, b.UpperBound),
	}
}

// Contains reports whether b lies entirely within a.
func (a AABB) Contains(b AABB) bool {
	return a.LowerBound.X <= b.LowerBound.X && a.LowerBound.Y <= b.LowerBound.Y &&
		b.UpperBound.X <= a.UpperBound.X && b.UpperBound.Y <= a.UpperBound.Y
}

// Intersects reports whether a and b overlap (touching edges count as
// overlap).
func (a AABB) Intersects(b AABB) bool {
	d1x := b.LowerBound.X - a.UpperBound.X
	d1y := b.LowerBound.Y - a.UpperBound.Y
	d2x := a.LowerBound.X - b.UpperBound.X
	d2y := a.LowerBound.Y - b.UpperBound.Y
	if d1x > 0 || d1y > 0 {
		return false
	}
	if d2x > 0 || d2y > 0 {
		return false
	}
	return true
}

// Extend grows the box by margin in every direction, used by the dynamic
// tree to compute a leaf's fat AABB.
func (a AABB) Extend(margin float64) AABB {
	m := Vector{margin, margin}
	return AABB{LowerBound: a.LowerBound.Sub(m), UpperBound: a.UpperBound.Add(m)}
}

// RayCastInput describes a segment to test against an AABB or shape.
type RayCastInput struct {
	P1, P2      Vector
	MaxFraction float64
}

// RayCastOutput is the result of a hit: Normal points away from the
// surface, Fraction in [0, input.MaxFraction] along P1->P2.
type RayCastOutput struct {
	Normal   Vector
	Fraction float64
}

// RayCast performs a conservative slab test of a segment against the AABB,
// used both standalone and by the dynamic tree's internal-node pruning.
func (a AABB) RayCast(input RayCastInput) (RayCastOutput, bool) {
	tmin := math.Inf(-1)
	tmax := input.MaxFraction

	d := input.P2.Sub(input.P1)
	absD := Vector{math.Abs(d.X), math.Abs(d.Y)}

	var normal Vector

	axes := [2]struct {
		d, absD, p1, lower, upper float64
	}{
		{d.X, absD.X, input.P1.X, a.LowerBound.X, a.UpperBound.X},
		{d.Y, absD.Y, input.P1.Y, a.LowerBound.Y, a.UpperBound.Y},
	}

	for i, ax := range axes {
		if ax.absD < epsilon {
			if ax.p1 < ax.lower || ax.upper < ax.p1 {
				return RayCastOutput{}, false
			}
			continue
		}

		inv := 1.0 / ax.d
		t1 := (ax.lower - ax.p1) * inv
		t2 := (ax.upper - ax.p1) * inv
		s := -1.0

		if t1 > t2 {
			t1, t2 = t2, t1
			s = 1.0
		}

		if t1 > tmin {
			if i == 0 {
				normal = Vector{s, 0}
			} else {
				normal = Vector{0, s}
			}
			tmin = t1
		}
		tmax = math.Min(tmax, t2)
		if tmin > tmax {
			return RayCastOutput{}, false
		}
	}

	if tmin < 0 || tmin > input.MaxFraction {
		return RayCastOutput{}, false
	}

	return RayCastOutput{Normal: normal, Fraction: tmin}, true
}
