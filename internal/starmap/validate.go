package starmap

import (
	"fmt"
	"sort"
	"strings"
)

// ValidationResult lists structural issues found in a built system. Issues
// are diagnostic only; callers decide whether to act on them.
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Issues []string `json:"issues"`
}

// Validate checks the structural invariants: a root exists, every non-root
// parent resolves (lagrange-pattern parents are tolerated even if
// unresolved), and every position is finite.
func (s *StarSystem) Validate() ValidationResult {
	var issues []string

	if s.root == nil {
		issues = append(issues, "system has no root object")
	}

	for _, id := range s.order {
		obj := s.objects[id]

		if obj != s.root && obj.ParentID != "" {
			if _, ok := s.objects[obj.ParentID]; !ok {
				// Unresolved lagrange parents are a known, tolerated gap:
				// the repair pass targets them on a best-effort basis only.
				if !lagrangePattern.MatchString(obj.ParentID) {
					issues = append(issues, fmt.Sprintf("object %q has unknown parent %q", obj.ID, obj.ParentID))
				}
			}
		}

		if !obj.Position.IsFinite() {
			issues = append(issues, fmt.Sprintf("object %q has a non-finite position", obj.ID))
		}
	}

	return ValidationResult{
		Valid:  len(issues) == 0,
		Issues: issues,
	}
}

// FindDisconnected returns every non-root object whose parent chain does not
// pass through a Star-typed object: a missing link mid-chain, or a chain
// that tops out at something other than the star.
func (s *StarSystem) FindDisconnected() []*CelestialObject {
	var disconnected []*CelestialObject

	for _, id := range s.order {
		obj := s.objects[id]
		if obj == s.root {
			continue
		}

		current := obj
		hops := 0
		reachedStar := false
		for {
			if current.Type == TypeStar {
				reachedStar = true
				break
			}
			if current.ParentID == "" {
				break
			}
			parent, ok := s.objects[current.ParentID]
			if !ok {
				break
			}
			current = parent

			hops++
			if hops > len(s.objects) {
				break
			}
		}

		if !reachedStar {
			disconnected = append(disconnected, obj)
		}
	}

	return disconnected
}

// DumpTree renders the hierarchy as indented text, one object per line with
// its type and precomputed absolute position. Children are sorted by id for
// stable output. The traversal is iterative with a visited guard.
func (s *StarSystem) DumpTree() string {
	if s.root == nil {
		return ""
	}

	type frame struct {
		obj   *CelestialObject
		depth int
	}

	var sb strings.Builder
	visited := make(map[string]bool, len(s.objects))
	stack := []frame{{obj: s.root, depth: 0}}

	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if visited[current.obj.ID] {
			continue
		}
		visited[current.obj.ID] = true

		absolute := s.absolute[current.obj.ID]
		fmt.Fprintf(&sb, "%s%s [%s] (%.0f, %.0f, %.0f)\n",
			strings.Repeat("  ", current.depth),
			current.obj.ID,
			current.obj.Type,
			absolute.X, absolute.Y, absolute.Z,
		)

		// Reverse-sorted push so the stack pops children in ascending id order.
		children := append([]*CelestialObject(nil), s.children[current.obj.ID]...)
		sort.Slice(children, func(i, j int) bool {
			return children[i].ID > children[j].ID
		})
		for _, child := range children {
			stack = append(stack, frame{obj: child, depth: current.depth + 1})
		}
	}

	return sb.String()
}
