package starmap

import (
	"fmt"

	"starmap-server/internal/geometry"
)

// defaultOrbitPathSteps is the sample count used when a caller does not ask
// for a specific resolution.
const defaultOrbitPathSteps = 100

// StarSystem is the reconstructed hierarchy: one root star, all objects
// indexed by id, type and parent, and precomputed absolute positions.
// Immutable after Build; safe for concurrent reads.
type StarSystem struct {
	root     *CelestialObject
	objects  map[string]*CelestialObject
	order    []string
	byType   map[ObjectType][]*CelestialObject
	children map[string][]*CelestialObject
	absolute map[string]geometry.Vec3
	repairs  []RepairDecision
	inferred []string
}

// Root returns the central star.
func (s *StarSystem) Root() *CelestialObject {
	return s.root
}

// Object returns the object with the given id, or ErrObjectNotFound.
func (s *StarSystem) Object(id string) (*CelestialObject, error) {
	obj, ok := s.objects[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrObjectNotFound, id)
	}
	return obj, nil
}

// ObjectsByType returns all objects of the given type in feed order.
func (s *StarSystem) ObjectsByType(t ObjectType) []*CelestialObject {
	return s.byType[t]
}

// Children returns the direct children of the given parent id in index
// build order.
func (s *StarSystem) Children(parentID string) []*CelestialObject {
	return s.children[parentID]
}

// ObjectCount returns the number of objects in the system, inferred ones
// included.
func (s *StarSystem) ObjectCount() int {
	return len(s.objects)
}

// All returns every object in feed order.
func (s *StarSystem) All() []*CelestialObject {
	objects := make([]*CelestialObject, 0, len(s.order))
	for _, id := range s.order {
		objects = append(objects, s.objects[id])
	}
	return objects
}

// Repairs returns the audit trail of parent repairs made during the build.
func (s *StarSystem) Repairs() []RepairDecision {
	return s.repairs
}

// InferredIDs returns the ids of objects synthesized during the build
// because they were referenced but never defined.
func (s *StarSystem) InferredIDs() []string {
	return s.inferred
}

// AbsolutePosition sums parent-relative positions walking the chain from the
// object up to the root. If a broken link is encountered mid-walk the
// partial sum is returned; the hop guard stops runaway chains that would
// indicate a cycle.
func (s *StarSystem) AbsolutePosition(id string) (geometry.Vec3, error) {
	obj, ok := s.objects[id]
	if !ok {
		return geometry.Vec3{}, fmt.Errorf("%w: %q", ErrObjectNotFound, id)
	}

	position := obj.Position
	hops := 0
	for obj.ParentID != "" {
		parent, ok := s.objects[obj.ParentID]
		if !ok {
			// Should not happen after a successful build; stop early and
			// return what was accumulated.
			break
		}
		position = position.Add(parent.Position)
		obj = parent

		hops++
		if hops > len(s.objects) {
			break
		}
	}

	return position, nil
}

// PrecomputedAbsolutePositions returns the world-space coordinates computed
// during the build for every object reachable from the root.
func (s *StarSystem) PrecomputedAbsolutePositions() map[string]geometry.Vec3 {
	positions := make(map[string]geometry.Vec3, len(s.absolute))
	for id, position := range s.absolute {
		positions[id] = position
	}
	return positions
}

// OrbitPath samples points on the object's circular orbit around its parent.
// steps <= 0 selects the default resolution. Deterministic and independent
// of any simulation clock.
func (s *StarSystem) OrbitPath(id string, steps int) ([]geometry.Vec3, error) {
	obj, ok := s.objects[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrObjectNotFound, id)
	}

	if steps <= 0 {
		steps = defaultOrbitPathSteps
	}

	return geometry.OrbitPath(obj.Position, steps), nil
}

// Statistics summarizes the built hierarchy.
type Statistics struct {
	ObjectCount      int                `json:"objectCount"`
	CountsByType     map[ObjectType]int `json:"countsByType"`
	ParentGroupCount int                `json:"parentGroupCount"`
	DepthHistogram   map[int]int        `json:"depthHistogram"`
	MaxDepth         int                `json:"maxDepth"`
}

// Statistics computes object counts and the depth histogram via a
// root-anchored traversal with an explicit stack and visited guard.
func (s *StarSystem) Statistics() Statistics {
	stats := Statistics{
		ObjectCount:      len(s.objects),
		CountsByType:     make(map[ObjectType]int, len(s.byType)),
		ParentGroupCount: len(s.children),
		DepthHistogram:   make(map[int]int),
	}

	for t, objects := range s.byType {
		stats.CountsByType[t] = len(objects)
	}

	type frame struct {
		obj   *CelestialObject
		depth int
	}

	visited := make(map[string]bool, len(s.objects))
	stack := []frame{{obj: s.root, depth: 0}}

	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if visited[current.obj.ID] {
			continue
		}
		visited[current.obj.ID] = true

		stats.DepthHistogram[current.depth]++
		if current.depth > stats.MaxDepth {
			stats.MaxDepth = current.depth
		}

		for _, child := range s.children[current.obj.ID] {
			stack = append(stack, frame{obj: child, depth: current.depth + 1})
		}
	}

	return stats
}
