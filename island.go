package physics

// Island is a connected component of awake dynamic bodies plus the
// contacts and joints linking them, solved together each step. Bodies
// connected via touching contacts or joints are solved together; islands
// never span a static body.
type Island struct {
	bodies   []*Body
	contacts []*Contact
	joints   []Joint

	listener ContactListener
}

func newIsland(bodyCap, contactCap, jointCap int) *Island {
	return &Island{
		bodies:   make([]*Body, 0, bodyCap),
		contacts: make([]*Contact, 0, contactCap),
		joints:   make([]Joint, 0, jointCap),
	}
}

func (isl *Island) clear() {
	isl.bodies = isl.bodies[:0]
	isl.contacts = isl.contacts[:0]
	isl.joints = isl.joints[:0]
}

func (isl *Island) addBody(b *Body)       { b.islandIndex = len(isl.bodies); isl.bodies = append(isl.bodies, b) }
func (isl *Island) addContact(c *Contact) { isl.contacts = append(isl.contacts, c) }
func (isl *Island) addJoint(j Joint)      { isl.joints = append(isl.joints, j) }

// solve runs one step's sequential-impulse solve over this island:
// integrate forces, warm-start, solveVelocity x N, integrate positions,
// solvePosition x N, then apply the sleep-time bookkeeping.
func (isl *Island) solve(step TimeStep, gravity Vector, allowSleep bool) {
	for _, b := range isl.bodies {
		b.integrateVelocity(gravity, step.dt)
	}

	ss := step.asSolverStep()

	for _, j := range isl.joints {
		j.initVelocityConstraints(ss)
	}
	for i := range isl.contacts {
		initContactVelocityConstraints(isl.contacts[i], ss)
	}

	if step.warmStarting {
		for _, j := range isl.joints {
			j.warmStart()
		}
		for i := range isl.contacts {
			warmStartContact(isl.contacts[i], ss)
		}
	}

	for iter := 0; iter < step.velocityIterations; iter++ {
		for _, j := range isl.joints {
			j.solveVelocityConstraints(ss)
		}
		for i := range isl.contacts {
			solveContactVelocityConstraints(isl.contacts[i], ss)
		}
	}

	if isl.listener != nil {
		for _, c := range isl.contacts {
			ci := contactImpulses(c)
			isl.listener.PostSolve(c, &ci)
		}
	}

	for _, b := range isl.bodies {
		b.clampVelocity()
		b.integratePosition(step.dt)
	}

	for iter := 0; iter < step.positionIterations; iter++ {
		contactsOK := true
		for i := range isl.contacts {
			if !solveContactPositionConstraints(isl.contacts[i], ss) {
				contactsOK = false
			}
		}
		jointsOK := true
		for _, j := range isl.joints {
			if !j.solvePositionConstraints(ss) {
				jointsOK = false
			}
		}
		if contactsOK && jointsOK {
			break
		}
	}

	for _, b := range isl.bodies {
		b.synchronizeFixtures()
	}

	if !allowSleep {
		return
	}

	minSleepTime := TimeToSleep
	for _, b := range isl.bodies {
		if b.bodyType == BodyStatic {
			continue
		}
		if !b.sleepAllowed ||
			b.angularVelocity*b.angularVelocity > AngularSleepTolerance*AngularSleepTolerance ||
			b.linearVelocity.LengthSq() > LinearSleepTolerance*LinearSleepTolerance {
			b.sleepTime = 0
			minSleepTime = 0
		} else {
			b.sleepTime += step.dt
			if b.sleepTime < minSleepTime {
				minSleepTime = b.sleepTime
			}
		}
	}

	if minSleepTime >= TimeToSleep {
		for _, b := range isl.bodies {
			b.SetAwake(false)
		}
	}
}

// buildIslands runs a DFS flood fill over the body/contact/joint graph:
// every awake dynamic body not yet assigned seeds a new island; edges
// cross a static body without continuing through it so islands never
// span the ground.
func buildIslands(bodies []*Body) []*Island {
	visited := make(map[*Body]bool, len(bodies))
	var islands []*Island
	var stack []*Body

	for _, seed := range bodies {
		if visited[seed] || seed.bodyType == BodyStatic || !seed.awake || !seed.active {
			continue
		}

		isl := newIsland(len(bodies), 16, 16)
		contactSeen := make(map[*Contact]bool)
		jointSeen := make(map[Joint]bool)

		stack = append(stack[:0], seed)
		visited[seed] = true

		for len(stack) > 0 {
			b := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			isl.addBody(b)

			if b.bodyType == BodyStatic {
				continue
			}

			for e := b.contactList; e != nil; e = e.next {
				c := e.contact
				if contactSeen[c] || !c.IsEnabled() || !c.IsTouching() {
					continue
				}
				if c.fixtureA.isSensor || c.fixtureB.isSensor {
					continue
				}
				contactSeen[c] = true
				isl.addContact(c)

				other := e.other
				if !visited[other] {
					visited[other] = true
					stack = append(stack, other)
				}
			}

			for e := b.jointList; e != nil; e = e.next {
				j := e.joint
				if jointSeen[j] {
					continue
				}
				jointSeen[j] = true
				isl.addJoint(j)

				other := e.other
				if !visited[other] {
					visited[other] = true
					stack = append(stack, other)
				}
			}
		}

		islands = append(islands, isl)
	}

	return islands
}
