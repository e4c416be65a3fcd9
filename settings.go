package physics

import "math"

// Tunable constants for the simulation, gathered into named constants the
// way Box2D's b2Settings.h does.
const (
	// LinearSlop is the allowed penetration used by the position solver;
	// bodies are allowed to interpenetrate by this much to avoid jitter.
	LinearSlop = 0.005

	// AngularSlop is the allowed angular penetration, in radians.
	AngularSlop = 2.0 / 180.0 * math.Pi

	// PolygonRadius is the "skin" Box2D-style polygons carry so that
	// distance/TOI never operates on exactly-touching features.
	PolygonRadius = 2.0 * LinearSlop

	// AABBExtension fattens every broad-phase proxy AABB by this much so
	// that small motions do not force a tree reinsertion.
	AABBExtension = 0.1

	// AABBMultiplier scales predicted displacement when fattening a moved
	// proxy's AABB in the direction of travel.
	AABBMultiplier = 4.0

	// MaxLinearCorrection bounds a single position-solver correction step.
	MaxLinearCorrection = 0.2

	// MaxAngularCorrection bounds a single position-solver angular
	// correction step, in radians.
	MaxAngularCorrection = 8.0 / 180.0 * math.Pi

	// MaxTranslation bounds how far a body may move in a single step,
	// guarding against tunneling from a runaway force.
	MaxTranslation = 2.0
	// MaxRotation bounds how far a body may rotate in a single step.
	MaxRotation = 0.5 * math.Pi

	// Baumgarte is the position-error bleed-off fraction per velocity step.
	Baumgarte = 0.2
	// ToiBaumgarte is the analogous fraction used by the TOI position solve.
	ToiBaumgarte = 0.75

	// TimeToSleep is how long a body's motion must stay below the sleep
	// thresholds before its island is allowed to sleep.
	TimeToSleep = 0.5
	// LinearSleepTolerance is the linear speed (velocity magnitude) below
	// which a body is considered idle.
	LinearSleepTolerance = 0.01
	// AngularSleepTolerance is the angular speed below which a body is
	// considered idle.
	AngularSleepTolerance = 2.0 / 180.0 * math.Pi

	// MaxManifoldPoints is the maximum number of contact points a manifold
	// between any two shape kinds can carry.
	MaxManifoldPoints = 2

	// MaxPolygonVertices bounds polygon shape vertex counts.
	MaxPolygonVertices = 8

	// DefaultVelocityIterations / DefaultPositionIterations are the solver
	// defaults World.Step uses when the caller requests zero iterations.
	DefaultVelocityIterations = 8
	DefaultPositionIterations = 3

	// MaxSubSteps bounds the push-back iterations of one ComputeTOI root
	// search; the TOI pass in World.solveTOI does no sub-stepping.
	MaxSubSteps = 8
	// MaxTOIContacts is not read anywhere: the TOI pass builds no contact
	// island.
	MaxTOIContacts = 32

	// MaxGJKIterations bounds the GJK simplex evolution loop.
	MaxGJKIterations = 20
	// MaxTOIIterations bounds the outer TOI root-search loop.
	MaxTOIIterations = 20
	// MaxTOIRootIterations bounds the inner secant/bisection root solve.
	MaxTOIRootIterations = 50

	epsilon = 1.1920929e-7 // float32 machine epsilon, kept for parity with source tolerances
)

var (
	// MaxLinearVelocity / MaxAngularVelocity clamp a body's velocity after
	// each integration step.
	MaxLinearVelocity  = 400.0
	MaxAngularVelocity = 4.0 * math.Pi
)
