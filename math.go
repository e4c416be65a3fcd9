package physics

import "math"

// Vector is an ordered pair (X, Y) of finite 64-bit reals. It is pure
// data: operations return new values, or write into a caller-supplied
// output for the allocation-free path the solver needs. No method ever
// mutates its receiver in place, so a Vector can always be passed by value.
type Vector struct {
	X, Y float64
}

// VectorZero returns the zero vector.
func VectorZero() Vector { return Vector{} }

func V(x, y float64) Vector { return Vector{x, y} }

func (v Vector) Add(o Vector) Vector { return Vector{v.X + o.X, v.Y + o.Y} }
func (v Vector) Sub(o Vector) Vector { return Vector{v.X - o.X, v.Y - o.Y} }
func (v Vector) Neg() Vector         { return Vector{-v.X, -v.Y} }
func (v Vector) Mul(s float64) Vector {
	return Vector{v.X * s, v.Y * s}
}
func (v Vector) Dot(o Vector) float64   { return v.X*o.X + v.Y*o.Y }
func (v Vector) Cross(o Vector) float64 { return v.X*o.Y - v.Y*o.X }

// CrossVS returns the vector perpendicular to v scaled by s: (s*v.Y, -s*v.X)
// in left-hand convention, matching Box2D's b2Cross(Vector, float).
func CrossVS(v Vector, s float64) Vector {
	return Vector{s * v.Y, -s * v.X}
}

// CrossSV returns s x v, i.e. (-s*v.Y, s*v.X).
func CrossSV(s float64, v Vector) Vector {
	return Vector{-s * v.Y, s * v.X}
}

func (v Vector) LengthSq() float64 { return v.X*v.X + v.Y*v.Y }
func (v Vector) Length() float64   { return math.Sqrt(v.LengthSq()) }

func (v Vector) Normalize() Vector {
	length := v.Length()
	if length < epsilon {
		return Vector{}
	}
	inv := 1.0 / length
	return Vector{v.X * inv, v.Y * inv}
}

// Perp returns the left-perpendicular of v (rotate +90 degrees).
func (v Vector) Perp() Vector { return Vector{-v.Y, v.X} }

// RPerp returns the right-perpendicular of v (rotate -90 degrees).
func (v Vector) RPerp() Vector { return Vector{v.Y, -v.X} }

func (v Vector) IsValid() bool { return isValid(v.X) && isValid(v.Y) }

func MinVec(a, b Vector) Vector { return Vector{math.Min(a.X, b.X), math.Min(a.Y, b.Y)} }
func MaxVec(a, b Vector) Vector { return Vector{math.Max(a.X, b.X), math.Max(a.Y, b.Y)} }

func ClampVec(v, lo, hi Vector) Vector {
	return Vector{clampF(v.X, lo.X, hi.X), clampF(v.Y, lo.Y, hi.Y)}
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func DistanceSq(a, b Vector) float64 { return a.Sub(b).LengthSq() }
func Distance(a, b Vector) float64   { return a.Sub(b).Length() }

// addVec2 is an in-place output-parameter accumulator used by the solver's
// no-allocation path. Uses the commutative out.Y = v.Y + w.Y formula; see
// DESIGN.md for the decision record on a source variant that transposed
// this term.
func addVec2(out *Vector, v, w Vector) {
	out.X = v.X + w.X
	out.Y = v.Y + w.Y
}

// Rotation represents an angle as a (sin, cos) pair, never stored as a
// raw radian so that composition is a cheap multiply instead of a trig
// call.
type Rotation struct {
	S, C float64
}

func NewRotation(angle float64) Rotation {
	return Rotation{S: math.Sin(angle), C: math.Cos(angle)}
}

func RotationIdentity() Rotation { return Rotation{S: 0, C: 1} }

func (r Rotation) Angle() float64 { return math.Atan2(r.S, r.C) }

// Mul composes two rotations: q * r.
func (q Rotation) Mul(r Rotation) Rotation {
	return Rotation{
		S: q.S*r.C + q.C*r.S,
		C: q.C*r.C - q.S*r.S,
	}
}

// MulT composes the inverse of q with r: qT * r.
func (q Rotation) MulT(r Rotation) Rotation {
	return Rotation{
		S: q.C*r.S - q.S*r.C,
		C: q.C*r.C + q.S*r.S,
	}
}

// RotateVec applies the rotation to v.
func (q Rotation) RotateVec(v Vector) Vector {
	return Vector{q.C*v.X - q.S*v.Y, q.S*v.X + q.C*v.Y}
}

// InvRotateVec applies the inverse rotation to v.
func (q Rotation) InvRotateVec(v Vector) Vector {
	return Vector{q.C*v.X + q.S*v.Y, -q.S*v.X + q.C*v.Y}
}

// Transform is a rigid motion from body-local to world frame: (P, Q).
type Transform struct {
	P Vector
	Q Rotation
}

func TransformIdentity() Transform {
	return Transform{P: VectorZero(), Q: RotationIdentity()}
}

// Apply maps a local point into world space.
func (t Transform) Apply(v Vector) Vector {
	return Vector{
		t.Q.C*v.X - t.Q.S*v.Y + t.P.X,
		t.Q.S*v.X + t.Q.C*v.Y + t.P.Y,
	}
}

// ApplyInv maps a world point into local space.
func (t Transform) ApplyInv(v Vector) Vector {
	px := v.X - t.P.X
	py := v.Y - t.P.Y
	return Vector{t.Q.C*px + t.Q.S*py, -t.Q.S*px + t.Q.C*py}
}

// MulTransforms composes two transforms: A * B, the frame that first applies B then A.
func MulTransforms(a, b Transform) Transform {
	return Transform{
		Q: a.Q.Mul(b.Q),
		P: a.Q.RotateVec(b.P).Add(a.P),
	}
}

// MulTInvTransforms computes A^-1 * B.
func MulTInvTransforms(a, b Transform) Transform {
	return Transform{
		Q: a.Q.MulT(b.Q),
		P: a.Q.InvRotateVec(b.P.Sub(a.P)),
	}
}

// Mat22 is a 2x2 matrix stored column-major (Ex, Ey), matching Box2D's
// b2Mat22 layout.
type Mat22 struct {
	Ex, Ey Vector
}

func Mat22FromAngle(angle float64) Mat22 {
	c, s := math.Cos(angle), math.Sin(angle)
	return Mat22{Ex: Vector{c, s}, Ey: Vector{-s, c}}
}

func (m Mat22) MulVec(v Vector) Vector {
	return Vector{m.Ex.X*v.X + m.Ey.X*v.Y, m.Ex.Y*v.X + m.Ey.Y*v.Y}
}

func (m Mat22) Transpose() Mat22 {
	return Mat22{
		Ex: Vector{m.Ex.X, m.Ey.X},
		Ey: Vector{m.Ex.Y, m.Ey.Y},
	}
}

func (m Mat22) Det() float64 {
	return m.Ex.X*m.Ey.Y - m.Ey.X*m.Ex.Y
}

// Solve returns the x such that Mx = b, or the zero vector if M is
// singular: a zero-determinant effective-mass matrix is clamped to zero
// impulse rather than treated as an error.
func (m Mat22) Solve(b Vector) Vector {
	a11, a12, a21, a22 := m.Ex.X, m.Ey.X, m.Ex.Y, m.Ey.Y
	det := a11*a22 - a12*a21
	if det != 0 {
		det = 1.0 / det
	}
	return Vector{det * (a22*b.X - a12*b.Y), det * (a11*b.Y - a21*b.X)}
}

func AddMat22(a, b Mat22) Mat22 {
	return Mat22{Ex: a.Ex.Add(b.Ex), Ey: a.Ey.Add(b.Ey)}
}

// Mat33 is a 3x3 matrix used by joints that couple a linear and an angular
// constraint row (Revolute/Weld point-to-point plus angle).
type Mat33 struct {
	Ex, Ey, Ez Vec3
}

type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Mul(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}
func (v Vec3) Dot(o Vec3) float64 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }

func (m Mat33) MulVec3(v Vec3) Vec3 {
	return m.Ex.Mul(v.X).Add(m.Ey.Mul(v.Y)).Add(m.Ez.Mul(v.Z))
}

func (m Mat33) Solve33(b Vec3) Vec3 {
	det := m.Ex.Dot(crossVec3(m.Ey, m.Ez))
	if det != 0 {
		det = 1.0 / det
	}
	return Vec3{
		det * b.Dot(crossVec3(m.Ey, m.Ez)),
		det * m.Ex.Dot(crossVec3(b, m.Ez)),
		det * m.Ex.Dot(crossVec3(m.Ey, b)),
	}
}

// Solve22 solves the top-left 2x2 block of the matrix, ignoring the z row
// and column, for joints that fall back to a point constraint when a weld's
// angular row is disabled.
func (m Mat33) Solve22(b Vector) Vector {
	a11, a12, a21, a22 := m.Ex.X, m.Ey.X, m.Ex.Y, m.Ey.Y
	det := a11*a22 - a12*a21
	if det != 0 {
		det = 1.0 / det
	}
	return Vector{det * (a22*b.X - a12*b.Y), det * (a11*b.Y - a21*b.X)}
}

func crossVec3(a, b Vec3) Vec3 {
	return Vec3{a.Y*b.Z - a.Z*b.Y, a.Z*b.X - a.X*b.Z, a.X*b.Y - a.Y*b.X}
}

// Sweep is an interpolable rigid motion over a time step.
// getTransform(t) yields a body's pose at t in [alpha0, 1], used by CCD to
// evaluate a sub-step pose without committing to it.
type Sweep struct {
	LocalCenter Vector  // center of mass in body-local frame
	C0, C       Vector  // center of mass, start/end of current step
	A0, A       float64 // angle, start/end of current step
	Alpha0      float64 // fraction of the step already consumed by TOI
}

// GetTransform returns the interpolated transform at beta in [0, 1], where
// 0 is (c0, a0) and 1 is (c, a). Rotation is linearly interpolated (angles
// are stored as radians, not quaternions, in this 2D engine) and then
// re-normalized into a Rotation.
func (s Sweep) GetTransform(beta float64) Transform {
	var t Transform
	t.P = s.C0.Mul(1 - beta).Add(s.C.Mul(beta))
	angle := (1-beta)*s.A0 + beta*s.A
	t.Q = NewRotation(angle)

	// shift to account for the local center of mass offset
	t.P = t.P.Sub(t.Q.RotateVec(s.LocalCenter))
	return t
}

// Advance moves the start of the sweep up to alpha in [Alpha0, 1], used by
// the TOI solver once a sub-step has been committed.
func (s *Sweep) Advance(alpha float64) {
	assert(s.Alpha0 < 1, "sweep already fully advanced")
	beta := (alpha - s.Alpha0) / (1 - s.Alpha0)
	s.C0 = s.C0.Mul(1 - beta).Add(s.C.Mul(beta))
	s.A0 = (1-beta)*s.A0 + beta*s.A
	s.Alpha0 = alpha
}

// Normalize moves A0 into [0, 2*pi) and shifts A by the same delta so the
// interpolation in GetTransform never wraps discontinuously.
func (s *Sweep) Normalize() {
	twoPi := 2.0 * math.Pi
	d := twoPi * math.Floor(s.A0/twoPi)
	s.A0 -= d
	s.A -= d
}
