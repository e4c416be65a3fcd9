// Command ropebridge runs the 30-box rope bridge scenario headlessly: a
// chain of dynamic boxes pinned to their neighbors with revolute joints,
// strung between two static anchors, settling under gravity.
package main

import (
	"fmt"

	physics "github.com/mreinstein/planck-array"
)

const (
	plankCount  = 30
	plankWidth  = 1.0
	plankHeight = 0.25
	gap         = 0.05
)

func main() {
	w := physics.NewWorld(physics.V(0, -10))

	span := float64(plankCount) * (plankWidth + gap)
	leftAnchor, err := w.CreateBody(physics.BodyDef{
		Type: physics.BodyStatic, Position: physics.V(-span/2, 10), Active: true,
	})
	must(err)
	rightAnchor, err := w.CreateBody(physics.BodyDef{
		Type: physics.BodyStatic, Position: physics.V(span/2, 10), Active: true,
	})
	must(err)

	box, err := physics.NewBoxShape(plankWidth/2, plankHeight/2)
	must(err)

	planks := make([]*physics.Body, plankCount)
	for i := 0; i < plankCount; i++ {
		x := -span/2 + (float64(i)+0.5)*(plankWidth+gap)
		b, err := w.CreateBody(physics.BodyDef{
			Type: physics.BodyDynamic, Position: physics.V(x, 10),
			Awake: true, Active: true, AllowSleep: true,
		})
		must(err)
		_, err = b.CreateFixture(physics.FixtureDef{Shape: box, Density: 20, Friction: 0.2})
		must(err)
		planks[i] = b
	}

	link := func(a, b *physics.Body, worldAnchor physics.Vector) {
		joint, err := physics.NewRevoluteJoint(physics.RevoluteJointDef{
			BodyA: a, BodyB: b,
			LocalAnchorA: a.GetLocalPoint(worldAnchor),
			LocalAnchorB: b.GetLocalPoint(worldAnchor),
		})
		must(err)
		must(w.CreateJoint(joint))
	}

	link(leftAnchor, planks[0], planks[0].Position().Sub(physics.V(plankWidth/2, 0)))
	for i := 0; i < plankCount-1; i++ {
		mid := planks[i].Position().Add(physics.V(plankWidth/2+gap/2, 0))
		link(planks[i], planks[i+1], mid)
	}
	link(planks[plankCount-1], rightAnchor, planks[plankCount-1].Position().Add(physics.V(plankWidth/2, 0)))

	const dt = 1.0 / 60.0
	for step := 0; step < 600; step++ {
		w.Step(dt, 8, 3)
	}

	mid := planks[plankCount/2]
	fmt.Printf("middle plank: pos=%.3f,%.3f |v|=%.4f\n", mid.Position().X, mid.Position().Y, mid.LinearVelocity().Length())
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}
