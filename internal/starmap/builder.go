package starmap

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"starmap-server/internal/geometry"
)

// lagrangePattern matches lagrange-point ids of the form
// "<system-prefix><planet-number>_l<lagrange-number>", e.g. "stanton3_l1".
// The first capture group is the id of the planet the point belongs to.
var lagrangePattern = regexp.MustCompile(`^([A-Za-z]+[0-9]+)_[lL][0-9]+$`)

// lagrangeHintPattern is the non-anchored variant used to dig a planet id
// out of a broken parent string such as "stanton3_l1_reststop".
var lagrangeHintPattern = regexp.MustCompile(`([A-Za-z]+[0-9]+)_[lL][0-9]+`)

// inferredArrivalRadius is the nominal arrival radius stamped onto
// synthesized lagrange-point records.
const inferredArrivalRadius = 50000

// rootParentSentinel is the placeholder parent value some feeds put on the
// central star instead of leaving the field empty.
const rootParentSentinel = "root"

// RepairRule names the policy that produced a parent repair, so callers and
// tests can assert on why a repair happened, not just its end state.
type RepairRule string

const (
	RepairRuleRootSentinel RepairRule = "root_sentinel"
	RepairRuleLagrange     RepairRule = "lagrange_parent"
	RepairRuleRestStop     RepairRule = "reststop_parent"
	RepairRuleFallbackRoot RepairRule = "fallback_root"
)

// RepairDecision is one audit-trail entry of the repair pass.
type RepairDecision struct {
	ObjectID  string     `json:"objectId"`
	OldParent string     `json:"oldParent"`
	NewParent string     `json:"newParent"`
	Rule      RepairRule `json:"rule"`
	Reason    string     `json:"reason"`
}

// Builder reconstructs a StarSystem from a parsed feed. Inference and repair
// never fail; only the total absence of a root is fatal.
type Builder struct {
	logger *slog.Logger
}

func NewBuilder(logger *slog.Logger) *Builder {
	return &Builder{logger: logger}
}

// Build runs the full pipeline: lagrange inference, object construction and
// indexing, parent repair, root detection and absolute-position precompute.
// Returns ErrMissingRoot when no root can be determined.
func (b *Builder) Build(feed *Feed) (*StarSystem, error) {
	logger := b.logger.With("component", "hierarchy_builder", "operation", "build")
	logger.Debug("Building star system", "record_count", len(feed.Records))

	order, records, inferred := b.inferMissingObjects(feed)

	system := &StarSystem{
		objects:  make(map[string]*CelestialObject, len(records)),
		byType:   make(map[ObjectType][]*CelestialObject),
		children: make(map[string][]*CelestialObject),
		absolute: make(map[string]geometry.Vec3),
		order:    order,
		inferred: inferred,
	}

	for _, id := range order {
		obj := newObject(id, records[id])
		system.objects[id] = obj
		system.byType[obj.Type] = append(system.byType[obj.Type], obj)
	}

	system.repairs = b.repairParents(system)

	root := detectRoot(system)
	if root == nil {
		logger.Error("No root object found", "record_count", len(records))
		return nil, ErrMissingRoot
	}
	system.root = root

	// The children index is built after repair so retargeted parents group
	// correctly.
	for _, id := range system.order {
		obj := system.objects[id]
		if obj == root {
			continue
		}
		system.children[obj.ParentID] = append(system.children[obj.ParentID], obj)
	}

	b.precomputeAbsolutePositions(system)

	logger.Info("Star system built",
		"root_id", root.ID,
		"object_count", len(system.objects),
		"inferred_count", len(system.inferred),
		"repair_count", len(system.repairs),
	)

	return system, nil
}

// inferMissingObjects scans parent references and synthesizes placeholder
// lagrange-point records for referenced-but-undefined ids matching the
// lagrange naming pattern. Other dangling references are left for the repair
// pass.
func (b *Builder) inferMissingObjects(feed *Feed) (order []string, records map[string]RawRecord, inferred []string) {
	logger := b.logger.With("component", "hierarchy_builder", "operation", "infer")

	order = append(order, feed.Order...)
	records = make(map[string]RawRecord, len(feed.Records))
	for id, record := range feed.Records {
		records[id] = record
	}

	for _, id := range feed.Order {
		parent := records[id].Parent
		if parent == "" {
			continue
		}
		if _, ok := records[parent]; ok {
			continue
		}

		match := lagrangePattern.FindStringSubmatch(parent)
		if match == nil {
			continue
		}

		planetID := match[1]
		logger.Debug("Inferring lagrange point",
			"inferred_id", parent,
			"planet_id", planetID,
			"referenced_by", id,
		)

		// The id alone does not classify as a lagrange point ("stanton3_l1"
		// carries no keyword), so the placeholder gets an explicit type.
		records[parent] = RawRecord{
			Parent:        planetID,
			ArrivalRadius: inferredArrivalRadius,
			Type:          "lagrange",
		}
		order = append(order, parent)
		inferred = append(inferred, parent)
	}

	return order, records, inferred
}

// repairParents retargets every unresolvable parent reference using the
// naming-convention heuristics. Best effort: the worst case reparents the
// object directly to the root. Returns the audit trail of decisions made.
func (b *Builder) repairParents(system *StarSystem) []RepairDecision {
	logger := b.logger.With("component", "hierarchy_builder", "operation", "repair")

	var decisions []RepairDecision
	record := func(obj *CelestialObject, oldParent string, rule RepairRule, reason string) {
		decisions = append(decisions, RepairDecision{
			ObjectID:  obj.ID,
			OldParent: oldParent,
			NewParent: obj.ParentID,
			Rule:      rule,
			Reason:    reason,
		})
		logger.Debug("Repaired parent link",
			"object_id", obj.ID,
			"old_parent", oldParent,
			"new_parent", obj.ParentID,
			"rule", string(rule),
		)
	}

	// The root sentinel is cleared first so root detection can key off the
	// now-empty parent before the remaining repairs need a root to fall
	// back to.
	for _, id := range system.order {
		obj := system.objects[id]
		if obj.ParentID != rootParentSentinel {
			continue
		}
		if _, ok := system.objects[obj.ParentID]; ok {
			continue
		}
		lower := strings.ToLower(obj.ID)
		if strings.Contains(lower, "star") || strings.Contains(lower, "sun") {
			obj.ParentID = ""
			record(obj, rootParentSentinel, RepairRuleRootSentinel, "root carried the placeholder parent sentinel")
		}
	}

	root := detectRoot(system)
	rootID := ""
	if root != nil {
		rootID = root.ID
	}

	for _, id := range system.order {
		obj := system.objects[id]
		if obj.ParentID == "" {
			continue
		}
		if _, ok := system.objects[obj.ParentID]; ok {
			continue
		}

		oldParent := obj.ParentID

		if match := lagrangePattern.FindStringSubmatch(obj.ID); match != nil {
			planetID := match[1]
			if _, ok := system.objects[planetID]; ok {
				obj.ParentID = planetID
				record(obj, oldParent, RepairRuleLagrange, fmt.Sprintf("lagrange-point id implies planet %q", planetID))
			} else if rootID != "" {
				obj.ParentID = rootID
				record(obj, oldParent, RepairRuleLagrange, fmt.Sprintf("lagrange-point id implies planet %q, which does not exist", planetID))
			}
			continue
		}

		lower := strings.ToLower(obj.ID)
		if strings.Contains(lower, "reststop") || strings.Contains(lower, "station") {
			// A station parked at a rest stop usually carried the rest
			// stop's lagrange id as its parent; that id names the planet.
			if match := lagrangeHintPattern.FindStringSubmatch(oldParent); match != nil {
				if _, ok := system.objects[match[1]]; ok {
					obj.ParentID = match[1]
					record(obj, oldParent, RepairRuleRestStop, fmt.Sprintf("broken parent %q implies planet %q", oldParent, match[1]))
					continue
				}
			}
			if rootID != "" {
				obj.ParentID = rootID
				record(obj, oldParent, RepairRuleRestStop, fmt.Sprintf("broken parent %q implies no known planet", oldParent))
			}
			continue
		}

		if rootID != "" {
			obj.ParentID = rootID
			record(obj, oldParent, RepairRuleFallbackRoot, fmt.Sprintf("parent %q is unknown", oldParent))
		}
	}

	return decisions
}

// detectRoot locates the root object: first any Star-typed object, then any
// object whose id contains "star", then any object with an empty parent.
// Iteration follows feed order so ties resolve deterministically.
func detectRoot(system *StarSystem) *CelestialObject {
	for _, id := range system.order {
		if system.objects[id].Type == TypeStar {
			return system.objects[id]
		}
	}

	for _, id := range system.order {
		if strings.Contains(strings.ToLower(id), "star") {
			return system.objects[id]
		}
	}

	for _, id := range system.order {
		if system.objects[id].ParentID == "" {
			return system.objects[id]
		}
	}

	return nil
}

// precomputeAbsolutePositions walks the tree from the root with an explicit
// stack, accumulating parent-relative positions into world-space coordinates.
// The visited set guards against cycles even though the repair pass is
// contracted to prevent them.
func (b *Builder) precomputeAbsolutePositions(system *StarSystem) {
	type frame struct {
		obj    *CelestialObject
		origin geometry.Vec3
	}

	visited := make(map[string]bool, len(system.objects))
	stack := []frame{{obj: system.root}}

	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if visited[current.obj.ID] {
			continue
		}
		visited[current.obj.ID] = true

		absolute := current.origin.Add(current.obj.Position)
		system.absolute[current.obj.ID] = absolute

		for _, child := range system.children[current.obj.ID] {
			stack = append(stack, frame{obj: child, origin: absolute})
		}
	}
}
