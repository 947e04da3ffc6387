package starmap

import (
	"errors"
	"math"
	"testing"

	"starmap-server/internal/geometry"
)

const testFeed = `{
	"stanton_star": {"display_name": "Stanton", "position": {"x": 0, "y": 0, "z": 0}},
	"stanton1": {"parent": "stanton_star", "position": {"x": 100, "y": 0, "z": 0}, "type": "planet"},
	"stanton1_moon": {"parent": "stanton1", "position": {"x": 0, "y": 10, "z": 0}},
	"stanton2": {"parent": "stanton_star", "position": {"x": 0, "y": 0, "z": 500}, "type": "planet"},
	"port_station": {"parent": "stanton1", "position": {"x": 5, "y": 0, "z": 0}}
}`

func testSystem(t *testing.T) *StarSystem {
	t.Helper()
	return buildFromJSON(t, testFeed)
}

func TestObjectLookup(t *testing.T) {
	t.Parallel()
	system := testSystem(t)

	obj, err := system.Object("stanton1")
	if err != nil {
		t.Fatalf("Object: %v", err)
	}
	if obj.Type != TypePlanet {
		t.Errorf("type = %v, want %v", obj.Type, TypePlanet)
	}

	if _, err := system.Object("nope"); !errors.Is(err, ErrObjectNotFound) {
		t.Errorf("unknown id error = %v, want ErrObjectNotFound", err)
	}
}

func TestObjectsByTypeInsertionOrder(t *testing.T) {
	t.Parallel()
	system := testSystem(t)

	planets := system.ObjectsByType(TypePlanet)
	if len(planets) != 2 {
		t.Fatalf("got %d planets, want 2", len(planets))
	}
	if planets[0].ID != "stanton1" || planets[1].ID != "stanton2" {
		t.Errorf("planet order = [%s, %s], want [stanton1, stanton2]", planets[0].ID, planets[1].ID)
	}

	if got := system.ObjectsByType(TypeJumpPoint); len(got) != 0 {
		t.Errorf("jump points = %v, want empty", got)
	}
}

func TestChildren(t *testing.T) {
	t.Parallel()
	system := testSystem(t)

	children := system.Children("stanton1")
	if len(children) != 2 {
		t.Fatalf("got %d children, want 2", len(children))
	}
	if children[0].ID != "stanton1_moon" || children[1].ID != "port_station" {
		t.Errorf("children = [%s, %s], want [stanton1_moon, port_station]", children[0].ID, children[1].ID)
	}

	if got := system.Children("stanton1_moon"); len(got) != 0 {
		t.Errorf("leaf children = %v, want empty", got)
	}
}

func TestAbsolutePositionThreeLevelChain(t *testing.T) {
	t.Parallel()
	system := testSystem(t)

	got, err := system.AbsolutePosition("stanton1_moon")
	if err != nil {
		t.Fatalf("AbsolutePosition: %v", err)
	}
	want := geometry.Vec3{X: 100, Y: 10}
	if got != want {
		t.Errorf("AbsolutePosition = %v, want %v", got, want)
	}

	if _, err := system.AbsolutePosition("nope"); !errors.Is(err, ErrObjectNotFound) {
		t.Errorf("unknown id error = %v, want ErrObjectNotFound", err)
	}
}

func TestAbsolutePositionBrokenLinkPartialSum(t *testing.T) {
	t.Parallel()

	// Hand-built system with a dangling mid-chain link: the walk stops
	// early and returns what it accumulated.
	moon := &CelestialObject{ID: "moon", ParentID: "ghost", Position: geometry.Vec3{Y: 10}, Type: TypeMoon}
	system := &StarSystem{
		objects: map[string]*CelestialObject{"moon": moon},
		order:   []string{"moon"},
	}

	got, err := system.AbsolutePosition("moon")
	if err != nil {
		t.Fatalf("AbsolutePosition: %v", err)
	}
	if got != (geometry.Vec3{Y: 10}) {
		t.Errorf("partial sum = %v, want %v", got, geometry.Vec3{Y: 10})
	}
}

func TestPrecomputedAbsolutePositions(t *testing.T) {
	t.Parallel()
	system := testSystem(t)

	positions := system.PrecomputedAbsolutePositions()
	if len(positions) != system.ObjectCount() {
		t.Fatalf("precomputed %d positions, want %d", len(positions), system.ObjectCount())
	}
	if positions["stanton1_moon"] != (geometry.Vec3{X: 100, Y: 10}) {
		t.Errorf("moon absolute = %v, want (100,10,0)", positions["stanton1_moon"])
	}
	if positions["port_station"] != (geometry.Vec3{X: 105}) {
		t.Errorf("station absolute = %v, want (105,0,0)", positions["port_station"])
	}
}

func TestOrbitPathDefaults(t *testing.T) {
	t.Parallel()
	system := testSystem(t)

	points, err := system.OrbitPath("stanton1", 0)
	if err != nil {
		t.Fatalf("OrbitPath: %v", err)
	}
	if len(points) != defaultOrbitPathSteps {
		t.Errorf("got %d points, want %d", len(points), defaultOrbitPathSteps)
	}
	for i, p := range points {
		if math.Abs(p.Length()-100) > 1e-9 {
			t.Fatalf("point %d radius = %v, want 100", i, p.Length())
		}
	}

	if _, err := system.OrbitPath("nope", 10); !errors.Is(err, ErrObjectNotFound) {
		t.Errorf("unknown id error = %v, want ErrObjectNotFound", err)
	}
}

func TestStatistics(t *testing.T) {
	t.Parallel()
	system := testSystem(t)

	stats := system.Statistics()
	if stats.ObjectCount != 5 {
		t.Errorf("object count = %d, want 5", stats.ObjectCount)
	}
	if stats.CountsByType[TypePlanet] != 2 {
		t.Errorf("planet count = %d, want 2", stats.CountsByType[TypePlanet])
	}
	if stats.MaxDepth != 2 {
		t.Errorf("max depth = %d, want 2", stats.MaxDepth)
	}

	wantHistogram := map[int]int{0: 1, 1: 2, 2: 2}
	for depth, count := range wantHistogram {
		if stats.DepthHistogram[depth] != count {
			t.Errorf("depth %d count = %d, want %d", depth, stats.DepthHistogram[depth], count)
		}
	}
}
