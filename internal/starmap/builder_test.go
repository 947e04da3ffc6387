package starmap

import (
	"errors"
	"log/slog"
	"testing"

	"starmap-server/internal/geometry"
)

// buildFromJSON parses raw feed JSON and builds the system, failing the test
// on any error.
func buildFromJSON(t *testing.T, raw string) *StarSystem {
	t.Helper()

	feed, err := ParseFeed([]byte(raw))
	if err != nil {
		t.Fatalf("ParseFeed: %v", err)
	}

	system, err := NewBuilder(slog.Default()).Build(feed)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return system
}

func TestParseFeedMalformed(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{`[]`, `"text"`, `42`, `not json`} {
		if _, err := ParseFeed([]byte(raw)); !errors.Is(err, ErrMalformedInput) {
			t.Errorf("ParseFeed(%q) error = %v, want ErrMalformedInput", raw, err)
		}
	}
}

func TestParseFeedPreservesOrder(t *testing.T) {
	t.Parallel()

	feed, err := ParseFeed([]byte(`{"zz": {}, "aa": {}, "mm": {}}`))
	if err != nil {
		t.Fatalf("ParseFeed: %v", err)
	}

	want := []string{"zz", "aa", "mm"}
	if len(feed.Order) != len(want) {
		t.Fatalf("got %d records, want %d", len(feed.Order), len(want))
	}
	for i, id := range want {
		if feed.Order[i] != id {
			t.Errorf("Order[%d] = %q, want %q", i, feed.Order[i], id)
		}
	}
}

func TestParseFeedToleratesGarbageRecord(t *testing.T) {
	t.Parallel()

	feed, err := ParseFeed([]byte(`{"star1": {}, "junk": "not an object"}`))
	if err != nil {
		t.Fatalf("ParseFeed: %v", err)
	}
	if _, ok := feed.Records["junk"]; !ok {
		t.Error("garbage record dropped, want default-valued record")
	}
	if len(feed.Issues) == 0 {
		t.Error("garbage record produced no issue")
	}
}

func TestBuildRootSentinel(t *testing.T) {
	t.Parallel()

	system := buildFromJSON(t, `{
		"sun": {"parent": "root"},
		"stanton1": {"parent": "sun"}
	}`)

	root := system.Root()
	if root.ID != "sun" {
		t.Fatalf("root id = %q, want %q", root.ID, "sun")
	}
	if root.ParentID != "" {
		t.Errorf("root parent = %q, want empty", root.ParentID)
	}

	var found bool
	for _, repair := range system.Repairs() {
		if repair.ObjectID == "sun" && repair.Rule == RepairRuleRootSentinel {
			found = true
			if repair.OldParent != "root" || repair.NewParent != "" {
				t.Errorf("sentinel repair = %+v, want root -> empty", repair)
			}
		}
	}
	if !found {
		t.Error("no root_sentinel repair recorded")
	}
}

func TestBuildLagrangeInference(t *testing.T) {
	t.Parallel()

	system := buildFromJSON(t, `{
		"stanton_star": {},
		"stanton3": {"parent": "stanton_star", "position": {"x": 100, "y": 0, "z": 0}},
		"outpost_a": {"parent": "stanton3_l1"}
	}`)

	inferred, err := system.Object("stanton3_l1")
	if err != nil {
		t.Fatalf("inferred object missing: %v", err)
	}
	if inferred.Type != TypeLagrangePoint {
		t.Errorf("inferred type = %v, want %v", inferred.Type, TypeLagrangePoint)
	}
	if inferred.ParentID != "stanton3" {
		t.Errorf("inferred parent = %q, want %q", inferred.ParentID, "stanton3")
	}
	if inferred.Position != (geometry.Vec3{}) {
		t.Errorf("inferred position = %v, want zero", inferred.Position)
	}
	if inferred.ArrivalRadius != inferredArrivalRadius {
		t.Errorf("inferred arrival radius = %v, want %v", inferred.ArrivalRadius, float64(inferredArrivalRadius))
	}

	ids := system.InferredIDs()
	if len(ids) != 1 || ids[0] != "stanton3_l1" {
		t.Errorf("InferredIDs = %v, want [stanton3_l1]", ids)
	}
}

func TestBuildRepairLagrangeID(t *testing.T) {
	t.Parallel()

	// The lagrange point itself exists but carries a broken parent; its own
	// id names the planet to retarget to.
	system := buildFromJSON(t, `{
		"stanton_star": {},
		"stanton3": {"parent": "stanton_star"},
		"stanton3_l1": {"parent": "gone"}
	}`)

	obj, err := system.Object("stanton3_l1")
	if err != nil {
		t.Fatalf("Object: %v", err)
	}
	if obj.ParentID != "stanton3" {
		t.Errorf("repaired parent = %q, want %q", obj.ParentID, "stanton3")
	}
	assertRepairRule(t, system, "stanton3_l1", RepairRuleLagrange)
}

func TestBuildRepairRestStop(t *testing.T) {
	t.Parallel()

	// A station whose broken parent string still hints at the planet via the
	// embedded lagrange id.
	system := buildFromJSON(t, `{
		"stanton_star": {},
		"stanton3": {"parent": "stanton_star"},
		"grim_hex_station": {"parent": "stanton3_l1_reststop_old"}
	}`)

	obj, err := system.Object("grim_hex_station")
	if err != nil {
		t.Fatalf("Object: %v", err)
	}
	if obj.ParentID != "stanton3" {
		t.Errorf("repaired parent = %q, want %q", obj.ParentID, "stanton3")
	}
	assertRepairRule(t, system, "grim_hex_station", RepairRuleRestStop)
}

func TestBuildRepairFallbackToRoot(t *testing.T) {
	t.Parallel()

	system := buildFromJSON(t, `{
		"stanton_star": {},
		"mystery_body": {"parent": "nowhere"}
	}`)

	obj, err := system.Object("mystery_body")
	if err != nil {
		t.Fatalf("Object: %v", err)
	}
	if obj.ParentID != "stanton_star" {
		t.Errorf("repaired parent = %q, want %q", obj.ParentID, "stanton_star")
	}
	assertRepairRule(t, system, "mystery_body", RepairRuleFallbackRoot)
}

func TestBuildRootDetectionPriority(t *testing.T) {
	t.Parallel()

	// A Star-typed object outranks an id merely containing "star" (here a
	// jump point, since "jumppoint" wins classification), which outranks an
	// empty parent.
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			"star type wins",
			`{"free_floater": {}, "star_gate_jumppoint": {"parent": "free_floater"}, "central_body": {"parent": "free_floater", "type": "star"}}`,
			"central_body",
		},
		{
			"star substring next",
			`{"free_floater": {}, "star_gate_jumppoint": {"parent": "free_floater"}}`,
			"star_gate_jumppoint",
		},
		{
			"empty parent last",
			`{"free_floater": {}, "drifter": {"parent": "free_floater"}}`,
			"free_floater",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			system := buildFromJSON(t, tt.raw)
			if system.Root().ID != tt.want {
				t.Errorf("root = %q, want %q", system.Root().ID, tt.want)
			}
		})
	}
}

func TestBuildMissingRoot(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
	}{
		{"empty feed", `{}`},
		{"parent cycle with no star", `{"a": {"parent": "b"}, "b": {"parent": "a"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			feed, err := ParseFeed([]byte(tt.raw))
			if err != nil {
				t.Fatalf("ParseFeed: %v", err)
			}
			if _, err := NewBuilder(slog.Default()).Build(feed); !errors.Is(err, ErrMissingRoot) {
				t.Errorf("Build error = %v, want ErrMissingRoot", err)
			}
		})
	}
}

func TestBuildParentChainsTerminate(t *testing.T) {
	t.Parallel()

	system := buildFromJSON(t, `{
		"stanton_star": {},
		"stanton1": {"parent": "stanton_star"},
		"stanton2": {"parent": "stanton_star"},
		"yela_moon": {"parent": "stanton2"},
		"orphan": {"parent": "missing"},
		"outpost_b": {"parent": "stanton1_l4"}
	}`)

	limit := system.ObjectCount()
	for _, obj := range system.All() {
		current := obj
		hops := 0
		for current.ParentID != "" {
			parent, err := system.Object(current.ParentID)
			if err != nil {
				t.Fatalf("object %q: broken chain at %q after build", obj.ID, current.ParentID)
			}
			current = parent
			hops++
			if hops > limit {
				t.Fatalf("object %q: parent chain exceeds %d hops", obj.ID, limit)
			}
		}
		if current.ID != system.Root().ID {
			t.Errorf("object %q: chain ends at %q, not root", obj.ID, current.ID)
		}
	}
}

func assertRepairRule(t *testing.T, system *StarSystem, objectID string, rule RepairRule) {
	t.Helper()

	for _, repair := range system.Repairs() {
		if repair.ObjectID == objectID {
			if repair.Rule != rule {
				t.Errorf("repair rule for %q = %v, want %v", objectID, repair.Rule, rule)
			}
			return
		}
	}
	t.Errorf("no repair recorded for %q", objectID)
}
