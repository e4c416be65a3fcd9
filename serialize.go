package physics

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Dump/Load convert a World to and from a plain WorldSnapshot tree that
// round-trips through YAML. Bodies and joints cross-reference each other
// by index rather than pointer, so the tree round-trips through any text
// format.

// ShapeSnapshot is a tagged union over the four shape kinds.
type ShapeSnapshot struct {
	Type ShapeType `yaml:"type"`

	// circle
	Center Vector  `yaml:"center,omitempty"`
	Radius float64 `yaml:"radius,omitempty"`

	// edge
	V1, V2                 Vector `yaml:"v1,omitempty"`
	V0, V3                 Vector `yaml:"v0,omitempty"`
	HasV0, HasV3           bool   `yaml:"hasV0,omitempty"`

	// polygon / chain
	Vertices []Vector `yaml:"vertices,omitempty"`
}

func snapshotShape(s Shape) ShapeSnapshot {
	switch v := s.(type) {
	case *Circle:
		return ShapeSnapshot{Type: ShapeTypeCircle, Center: v.Center, Radius: v.Radius}
	case *Edge:
		return ShapeSnapshot{
			Type: ShapeTypeEdge, V1: v.V1, V2: v.V2,
			V0: v.Vertex0, V3: v.Vertex3, HasV0: v.HasVertex0, HasV3: v.HasVertex3,
			Radius: v.Radius,
		}
	case *Polygon:
		return ShapeSnapshot{Type: ShapeTypePolygon, Vertices: v.Vertices, Radius: v.Radius}
	case *Chain:
		return ShapeSnapshot{Type: ShapeTypeChain, Vertices: v.Vertices, Radius: v.Radius}
	default:
		panic("serialize: unknown shape type")
	}
}

func (s ShapeSnapshot) build() (Shape, error) {
	switch s.Type {
	case ShapeTypeCircle:
		return NewCircleShape(s.Center, s.Radius)
	case ShapeTypeEdge:
		e, err := NewEdgeShape(s.V1, s.V2)
		if err != nil {
			return nil, err
		}
		e.Vertex0, e.Vertex3 = s.V0, s.V3
		e.HasVertex0, e.HasVertex3 = s.HasV0, s.HasV3
		return e, nil
	case ShapeTypePolygon:
		return NewPolygonShape(s.Vertices)
	case ShapeTypeChain:
		return NewChainShape(s.Vertices)
	default:
		return nil, invalidArg("ShapeSnapshot.build", "unknown shape type")
	}
}

// FixtureSnapshot captures everything FixtureDef needs plus the shape it
// wraps.
type FixtureSnapshot struct {
	Shape       ShapeSnapshot `yaml:"shape"`
	Density     float64       `yaml:"density"`
	Friction    float64       `yaml:"friction"`
	Restitution float64       `yaml:"restitution"`
	IsSensor    bool          `yaml:"isSensor,omitempty"`
	Filter      Filter        `yaml:"filter"`
}

// BodySnapshot captures a BodyDef plus its attached fixtures. Bodies are
// addressed by their position in WorldSnapshot.Bodies, not by Body.id, so
// the tree round-trips even if the live world's id counter has advanced.
type BodySnapshot struct {
	Type            BodyType          `yaml:"type"`
	Position        Vector            `yaml:"position"`
	Angle           float64           `yaml:"angle,omitempty"`
	LinearVelocity  Vector            `yaml:"linearVelocity,omitempty"`
	AngularVelocity float64           `yaml:"angularVelocity,omitempty"`
	LinearDamping   float64           `yaml:"linearDamping,omitempty"`
	AngularDamping  float64           `yaml:"angularDamping,omitempty"`
	FixedRotation   bool              `yaml:"fixedRotation,omitempty"`
	Bullet          bool              `yaml:"bullet,omitempty"`
	GravityScale    float64           `yaml:"gravityScale,omitempty"`
	AllowSleep      bool              `yaml:"allowSleep,omitempty"`
	Awake           bool              `yaml:"awake,omitempty"`
	Active          bool              `yaml:"active,omitempty"`
	Fixtures        []FixtureSnapshot `yaml:"fixtures,omitempty"`
}

// JointSnapshot is a tagged union over the eleven joint kinds. BodyA/BodyB
// (and, for a gear joint, JointA/JointB) are indices into
// WorldSnapshot.Bodies/Joints.
type JointSnapshot struct {
	Type             JointType `yaml:"type"`
	BodyA, BodyB     int       `yaml:"bodyA"`
	CollideConnected bool      `yaml:"collideConnected,omitempty"`

	LocalAnchorA, LocalAnchorB Vector  `yaml:"localAnchorA,omitempty"`
	LocalAxisA                 Vector  `yaml:"localAxisA,omitempty"`
	ReferenceAngle              float64 `yaml:"referenceAngle,omitempty"`
	Length                       float64 `yaml:"length,omitempty"`
	MaxLength                    float64 `yaml:"maxLength,omitempty"`
	FrequencyHz, DampingRatio    float64 `yaml:"frequencyHz,omitempty"`
	EnableLimit                  bool    `yaml:"enableLimit,omitempty"`
	LowerLimit, UpperLimit        float64 `yaml:"lowerLimit,omitempty"`
	EnableMotor                  bool    `yaml:"enableMotor,omitempty"`
	MotorSpeed                    float64 `yaml:"motorSpeed,omitempty"`
	MaxMotorForce                 float64 `yaml:"maxMotorForce,omitempty"`
	MaxForce, MaxTorque            float64 `yaml:"maxForce,omitempty"`
	GroundAnchorA, GroundAnchorB Vector  `yaml:"groundAnchorA,omitempty"`
	Ratio                         float64 `yaml:"ratio,omitempty"`
	Target                        Vector  `yaml:"target,omitempty"`
	LinearOffset                  Vector  `yaml:"linearOffset,omitempty"`
	AngularOffset                  float64 `yaml:"angularOffset,omitempty"`
	CorrectionFactor                float64 `yaml:"correctionFactor,omitempty"`

	// gear joint only: indices into WorldSnapshot.Joints of the two
	// coupled joints, which must already have been restored.
	JointA, JointB int `yaml:"jointA,omitempty"`
}

// WorldSnapshot is the plain-struct mirror of a World's live graph.
type WorldSnapshot struct {
	Gravity           Vector          `yaml:"gravity"`
	AllowSleep        bool            `yaml:"allowSleep"`
	ContinuousPhysics bool            `yaml:"continuousPhysics"`
	SubStepping       bool            `yaml:"subStepping,omitempty"`
	Bodies            []BodySnapshot  `yaml:"bodies"`
	Joints            []JointSnapshot `yaml:"joints,omitempty"`
}

// Snapshot captures the world's current graph as a plain value tree.
// Fixture and joint UserData is not carried across: it is an opaque
// interface{} payload the caller attaches, not state this package owns.
func (w *World) Snapshot() WorldSnapshot {
	snap := WorldSnapshot{
		Gravity:           w.gravity,
		AllowSleep:        w.allowSleep,
		ContinuousPhysics: w.continuousPhysics,
		SubStepping:       w.subStepping,
	}

	bodyIndex := make(map[*Body]int, w.bodyCount)
	for b := w.bodyList; b != nil; b = b.next {
		bs := BodySnapshot{
			Type: b.bodyType, Position: b.transform.P, Angle: b.sweep.A,
			LinearVelocity: b.linearVelocity, AngularVelocity: b.angularVelocity,
			LinearDamping: b.linearDamping, AngularDamping: b.angularDamping,
			FixedRotation: b.fixedRotation, Bullet: b.bullet,
			GravityScale: b.gravityScale, AllowSleep: b.sleepAllowed,
			Awake: b.awake, Active: b.active,
		}
		for f := b.fixtureList; f != nil; f = f.next {
			bs.Fixtures = append(bs.Fixtures, FixtureSnapshot{
				Shape: snapshotShape(f.shape), Density: f.density,
				Friction: f.friction, Restitution: f.restitution,
				IsSensor: f.isSensor, Filter: f.filter,
			})
		}
		bodyIndex[b] = len(snap.Bodies)
		snap.Bodies = append(snap.Bodies, bs)
	}

	jointIndex := make(map[Joint]int, w.jointCount)
	var gearJoints []*GearJoint
	for j := w.jointList; j != nil; j = j.getNext() {
		if g, ok := j.(*GearJoint); ok {
			gearJoints = append(gearJoints, g)
			continue
		}
		jointIndex[j] = len(snap.Joints)
		snap.Joints = append(snap.Joints, snapshotJoint(j, bodyIndex, nil))
	}
	for _, g := range gearJoints {
		jointIndex[g] = len(snap.Joints)
		snap.Joints = append(snap.Joints, snapshotJoint(g, bodyIndex, jointIndex))
	}

	return snap
}

func snapshotJoint(j Joint, bodyIndex map[*Body]int, jointIndex map[Joint]int) JointSnapshot {
	js := JointSnapshot{
		Type: j.GetType(), BodyA: bodyIndex[j.BodyA()], BodyB: bodyIndex[j.BodyB()],
		CollideConnected: j.CollideConnected(),
	}
	switch v := j.(type) {
	case *DistanceJoint:
		js.LocalAnchorA, js.LocalAnchorB = v.localAnchorA, v.localAnchorB
		js.Length, js.FrequencyHz, js.DampingRatio = v.length, v.frequencyHz, v.dampingRatio
	case *RevoluteJoint:
		js.LocalAnchorA, js.LocalAnchorB = v.localAnchorA, v.localAnchorB
		js.ReferenceAngle = v.referenceAngle
		js.EnableLimit, js.LowerLimit, js.UpperLimit = v.enableLimit, v.lowerAngle, v.upperAngle
		js.EnableMotor, js.MotorSpeed, js.MaxMotorForce = v.enableMotor, v.motorSpeed, v.maxMotorTorque
	case *PrismaticJoint:
		js.LocalAnchorA, js.LocalAnchorB, js.LocalAxisA = v.localAnchorA, v.localAnchorB, v.localAxisA
		js.ReferenceAngle = v.referenceAngle
		js.EnableLimit, js.LowerLimit, js.UpperLimit = v.enableLimit, v.lowerTranslation, v.upperTranslation
		js.EnableMotor, js.MotorSpeed, js.MaxMotorForce = v.enableMotor, v.motorSpeed, v.maxMotorForce
	case *WeldJoint:
		js.LocalAnchorA, js.LocalAnchorB = v.localAnchorA, v.localAnchorB
		js.ReferenceAngle, js.FrequencyHz, js.DampingRatio = v.referenceAngle, v.frequencyHz, v.dampingRatio
	case *PulleyJoint:
		js.GroundAnchorA, js.GroundAnchorB = v.groundAnchorA, v.groundAnchorB
		js.LocalAnchorA, js.LocalAnchorB = v.localAnchorA, v.localAnchorB
		js.Length, js.MaxLength, js.Ratio = v.lengthA, v.lengthB, v.ratio
	case *MouseJoint:
		js.Target, js.MaxForce, js.FrequencyHz, js.DampingRatio = v.target, v.maxForce, v.frequencyHz, v.dampingRatio
	case *FrictionJoint:
		js.LocalAnchorA, js.LocalAnchorB = v.localAnchorA, v.localAnchorB
		js.MaxForce, js.MaxTorque = v.maxForce, v.maxTorque
	case *RopeJoint:
		js.LocalAnchorA, js.LocalAnchorB, js.MaxLength = v.localAnchorA, v.localAnchorB, v.maxLength
	case *WheelJoint:
		js.LocalAnchorA, js.LocalAnchorB, js.LocalAxisA = v.localAnchorA, v.localAnchorB, v.localAxisA
		js.EnableMotor, js.MotorSpeed, js.MaxMotorForce = v.enableMotor, v.motorSpeed, v.maxMotorTorque
		js.FrequencyHz, js.DampingRatio = v.frequencyHz, v.dampingRatio
	case *MotorJoint:
		js.LinearOffset, js.AngularOffset = v.linearOffset, v.angularOffset
		js.MaxForce, js.MaxTorque, js.CorrectionFactor = v.maxForce, v.maxTorque, v.correctionFactor
	case *GearJoint:
		js.Ratio = v.ratio
		js.JointA, js.JointB = jointIndex[v.jointA], jointIndex[v.jointB]
	default:
		panic("serialize: unknown joint type")
	}
	return js
}

// Dump writes the world's snapshot to w as YAML.
func (w *World) Dump(out io.Writer) error {
	enc := yaml.NewEncoder(out)
	defer enc.Close()
	return enc.Encode(w.Snapshot())
}

// Load reads a WorldSnapshot as YAML from r and rebuilds a live World from
// it, restoring bodies and fixtures in one pass and joints (gear joints
// last, since they reference two already-restored joints) in a second.
func Load(r io.Reader) (*World, error) {
	var snap WorldSnapshot
	if err := yaml.NewDecoder(r).Decode(&snap); err != nil {
		return nil, fmt.Errorf("physics: decode world snapshot: %w", err)
	}
	return snap.Build()
}

// Build rebuilds a live World from a previously captured WorldSnapshot.
func (snap WorldSnapshot) Build() (*World, error) {
	w := NewWorld(snap.Gravity)
	w.SetAllowSleeping(snap.AllowSleep)
	w.SetContinuousPhysics(snap.ContinuousPhysics)
	w.SetSubStepping(snap.SubStepping)

	bodies := make([]*Body, len(snap.Bodies))
	for i, bs := range snap.Bodies {
		b, err := w.CreateBody(BodyDef{
			Type: bs.Type, Position: bs.Position, Angle: bs.Angle,
			LinearVelocity: bs.LinearVelocity, AngularVelocity: bs.AngularVelocity,
			LinearDamping: bs.LinearDamping, AngularDamping: bs.AngularDamping,
			FixedRotation: bs.FixedRotation, Bullet: bs.Bullet,
			GravityScale: bs.GravityScale, AllowSleep: bs.AllowSleep,
			Awake: bs.Awake, Active: bs.Active,
		})
		if err != nil {
			return nil, fmt.Errorf("physics: restore body %d: %w", i, err)
		}
		for fi, fs := range bs.Fixtures {
			shape, err := fs.Shape.build()
			if err != nil {
				return nil, fmt.Errorf("physics: restore body %d fixture %d: %w", i, fi, err)
			}
			if _, err := b.CreateFixture(FixtureDef{
				Shape: shape, Density: fs.Density, Friction: fs.Friction,
				Restitution: fs.Restitution, IsSensor: fs.IsSensor, Filter: fs.Filter,
			}); err != nil {
				return nil, fmt.Errorf("physics: restore body %d fixture %d: %w", i, fi, err)
			}
		}
		bodies[i] = b
	}

	joints := make([]Joint, len(snap.Joints))
	for i, js := range snap.Joints {
		if js.Type == JointGearType {
			continue // built in the second pass below
		}
		j, err := js.build(bodies, joints)
		if err != nil {
			return nil, fmt.Errorf("physics: restore joint %d: %w", i, err)
		}
		joints[i] = j
		if err := w.CreateJoint(j); err != nil {
			return nil, fmt.Errorf("physics: restore joint %d: %w", i, err)
		}
	}
	for i, js := range snap.Joints {
		if js.Type != JointGearType {
			continue
		}
		j, err := js.build(bodies, joints)
		if err != nil {
			return nil, fmt.Errorf("physics: restore joint %d: %w", i, err)
		}
		joints[i] = j
		if err := w.CreateJoint(j); err != nil {
			return nil, fmt.Errorf("physics: restore joint %d: %w", i, err)
		}
	}

	return w, nil
}

func (js JointSnapshot) build(bodies []*Body, joints []Joint) (Joint, error) {
	if js.BodyA < 0 || js.BodyA >= len(bodies) || js.BodyB < 0 || js.BodyB >= len(bodies) {
		return nil, invalidArg("JointSnapshot.build", "body index out of range")
	}
	bodyA, bodyB := bodies[js.BodyA], bodies[js.BodyB]

	switch js.Type {
	case JointDistanceType:
		return NewDistanceJoint(DistanceJointDef{
			BodyA: bodyA, BodyB: bodyB, LocalAnchorA: js.LocalAnchorA, LocalAnchorB: js.LocalAnchorB,
			Length: js.Length, FrequencyHz: js.FrequencyHz, DampingRatio: js.DampingRatio,
			CollideConnected: js.CollideConnected,
		})
	case JointRevoluteType:
		return NewRevoluteJoint(RevoluteJointDef{
			BodyA: bodyA, BodyB: bodyB, LocalAnchorA: js.LocalAnchorA, LocalAnchorB: js.LocalAnchorB,
			ReferenceAngle: js.ReferenceAngle, EnableLimit: js.EnableLimit,
			LowerAngle: js.LowerLimit, UpperAngle: js.UpperLimit,
			EnableMotor: js.EnableMotor, MotorSpeed: js.MotorSpeed, MaxMotorTorque: js.MaxMotorForce,
			CollideConnected: js.CollideConnected,
		})
	case JointPrismaticType:
		return NewPrismaticJoint(PrismaticJointDef{
			BodyA: bodyA, BodyB: bodyB, LocalAnchorA: js.LocalAnchorA, LocalAnchorB: js.LocalAnchorB,
			LocalAxisA: js.LocalAxisA, ReferenceAngle: js.ReferenceAngle, EnableLimit: js.EnableLimit,
			LowerTranslation: js.LowerLimit, UpperTranslation: js.UpperLimit,
			EnableMotor: js.EnableMotor, MotorSpeed: js.MotorSpeed, MaxMotorForce: js.MaxMotorForce,
			CollideConnected: js.CollideConnected,
		})
	case JointWeldType:
		return NewWeldJoint(WeldJointDef{
			BodyA: bodyA, BodyB: bodyB, LocalAnchorA: js.LocalAnchorA, LocalAnchorB: js.LocalAnchorB,
			ReferenceAngle: js.ReferenceAngle, FrequencyHz: js.FrequencyHz, DampingRatio: js.DampingRatio,
			CollideConnected: js.CollideConnected,
		})
	case JointPulleyType:
		return NewPulleyJoint(PulleyJointDef{
			BodyA: bodyA, BodyB: bodyB,
			GroundAnchorA: js.GroundAnchorA, GroundAnchorB: js.GroundAnchorB,
			LocalAnchorA: js.LocalAnchorA, LocalAnchorB: js.LocalAnchorB,
			LengthA: js.Length, LengthB: js.MaxLength, Ratio: js.Ratio,
			CollideConnected: js.CollideConnected,
		})
	case JointMouseType:
		return NewMouseJoint(MouseJointDef{
			BodyA: bodyA, BodyB: bodyB, Target: js.Target, MaxForce: js.MaxForce,
			FrequencyHz: js.FrequencyHz, DampingRatio: js.DampingRatio,
			CollideConnected: js.CollideConnected,
		})
	case JointFrictionType:
		return NewFrictionJoint(FrictionJointDef{
			BodyA: bodyA, BodyB: bodyB, LocalAnchorA: js.LocalAnchorA, LocalAnchorB: js.LocalAnchorB,
			MaxForce: js.MaxForce, MaxTorque: js.MaxTorque, CollideConnected: js.CollideConnected,
		})
	case JointRopeType:
		return NewRopeJoint(RopeJointDef{
			BodyA: bodyA, BodyB: bodyB, LocalAnchorA: js.LocalAnchorA, LocalAnchorB: js.LocalAnchorB,
			MaxLength: js.MaxLength, CollideConnected: js.CollideConnected,
		})
	case JointWheelType:
		return NewWheelJoint(WheelJointDef{
			BodyA: bodyA, BodyB: bodyB, LocalAnchorA: js.LocalAnchorA, LocalAnchorB: js.LocalAnchorB,
			LocalAxisA: js.LocalAxisA, EnableMotor: js.EnableMotor, MotorSpeed: js.MotorSpeed,
			MaxMotorTorque: js.MaxMotorForce, FrequencyHz: js.FrequencyHz, DampingRatio: js.DampingRatio,
			CollideConnected: js.CollideConnected,
		})
	case JointMotorType:
		return NewMotorJoint(MotorJointDef{
			BodyA: bodyA, BodyB: bodyB, LinearOffset: js.LinearOffset, AngularOffset: js.AngularOffset,
			MaxForce: js.MaxForce, MaxTorque: js.MaxTorque, CorrectionFactor: js.CorrectionFactor,
			CollideConnected: js.CollideConnected,
		})
	case JointGearType:
		if js.JointA < 0 || js.JointA >= len(joints) || js.JointB < 0 || js.JointB >= len(joints) {
			return nil, invalidArg("JointSnapshot.build", "gear sub-joint index out of range")
		}
		return NewGearJoint(GearJointDef{
			BodyA: bodyA, BodyB: bodyB, JointA: joints[js.JointA], JointB: joints[js.JointB],
			Ratio: js.Ratio, CollideConnected: js.CollideConnected,
		})
	default:
		return nil, invalidArg("JointSnapshot.build", "unknown joint type")
	}
}
