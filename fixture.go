package physics

// FixtureDef is the option struct accepted by Body.CreateFixture: shape,
// density, friction, restitution, sensor flag, and collision filter.
// A zero Filter is replaced with DefaultFilter(); every other field is
// used as given (DefaultFixtureDef below fills in the usual defaults).
type FixtureDef struct {
	Shape       Shape
	Density     float64
	Friction    float64
	Restitution float64
	IsSensor    bool
	Filter      Filter
	UserData    interface{}
}

func DefaultFixtureDef() FixtureDef {
	return FixtureDef{Density: 1.0, Friction: 0.2, Restitution: 0.0, Filter: DefaultFilter()}
}

// fixtureProxy is one broad-phase registration for one child of a
// fixture's shape: an AABB, a tree node id, and the child index.
type fixtureProxy struct {
	aabb       AABB
	proxyID    int
	childIndex int
	fixture    *Fixture
}

// Fixture attaches a Shape to a Body. Invariant:
// len(proxies) == shape.GetChildCount().
type Fixture struct {
	body *Body

	shape       Shape
	density     float64
	friction    float64
	restitution float64
	isSensor    bool
	filter      Filter
	userData    interface{}

	proxies []fixtureProxy

	next *Fixture
}

func (f *Fixture) Body() *Body              { return f.body }
func (f *Fixture) Shape() Shape             { return f.shape }
func (f *Fixture) IsSensor() bool           { return f.isSensor }
func (f *Fixture) SetSensor(v bool)         { f.isSensor = v }
func (f *Fixture) Friction() float64        { return f.friction }
func (f *Fixture) Restitution() float64     { return f.restitution }
func (f *Fixture) Density() float64         { return f.density }
func (f *Fixture) Filter() Filter           { return f.filter }
func (f *Fixture) UserData() interface{}    { return f.userData }

// SetFilterData updates the filter and forces the broad phase to re-emit
// pairs for every proxy of this fixture so contacts re-check the new
// filter.
func (f *Fixture) SetFilterData(filter Filter) {
	f.filter = filter
	if f.body == nil || f.body.world == nil {
		return
	}
	for _, c := range f.body.contactEdgesInvolving(f) {
		c.flagFilterDirty()
	}
	for _, p := range f.proxies {
		f.body.world.broadPhase.TouchProxy(p.proxyID)
	}
}

func (f *Fixture) TestPoint(p Vector) bool {
	return f.shape.TestPoint(f.body.transform, p)
}

func (f *Fixture) RayCast(input RayCastInput, childIndex int) (RayCastOutput, bool) {
	return f.shape.RayCast(input, f.body.transform, childIndex)
}

func (f *Fixture) GetAABB(childIndex int) AABB {
	return f.proxies[childIndex].aabb
}

func (f *Fixture) createProxies(broadPhase *BroadPhase, xf Transform) {
	n := f.shape.GetChildCount()
	f.proxies = make([]fixtureProxy, n)
	for i := 0; i < n; i++ {
		aabb := f.shape.ComputeAABB(xf, i)
		f.proxies[i] = fixtureProxy{aabb: aabb, childIndex: i, fixture: f}
		f.proxies[i].proxyID = broadPhase.CreateProxy(aabb, &f.proxies[i])
	}
}

func (f *Fixture) destroyProxies(broadPhase *BroadPhase) {
	for _, p := range f.proxies {
		broadPhase.DestroyProxy(p.proxyID)
	}
	f.proxies = nil
}

// synchronize updates every proxy's broad-phase AABB from the body's
// current and predicted (end-of-step) transforms, fattening in the
// direction of travel.
func (f *Fixture) synchronize(broadPhase *BroadPhase, xf1, xf2 Transform) {
	for i := range f.proxies {
		aabb1 := f.shape.ComputeAABB(xf1, i)
		aabb2 := f.shape.ComputeAABB(xf2, i)
		f.proxies[i].aabb = aabb1.Combine(aabb2)
		displacement := xf2.P.Sub(xf1.P)
		broadPhase.MoveProxy(f.proxies[i].proxyID, f.proxies[i].aabb, displacement)
	}
}
