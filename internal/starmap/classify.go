package starmap

import "strings"

// classifierKeywords is the fixed keyword priority list. Order matters: the
// first substring match wins, so an id containing both "station" and
// "reststop" resolves as Station because "station" is tested first.
var classifierKeywords = []struct {
	keyword    string
	objectType ObjectType
}{
	{"jumppoint", TypeJumpPoint},
	{"lagrange", TypeLagrangePoint},
	{"commarray", TypeCommArray},
	{"star", TypeStar},
	{"planet", TypePlanet},
	{"moon", TypeMoon},
	{"station", TypeStation},
	{"outpost", TypeStation},
	{"reststop", TypeStation},
	{"landingzone", TypeLandingZone},
	{"orbitmarker", TypeOrbitMarker},
}

// typeFieldNames maps explicit payload type strings to object types, used
// when no identifier keyword matches.
var typeFieldNames = map[string]ObjectType{
	"star":          TypeStar,
	"planet":        TypePlanet,
	"moon":          TypeMoon,
	"station":       TypeStation,
	"jumppoint":     TypeJumpPoint,
	"lagrange":      TypeLagrangePoint,
	"lagrangepoint": TypeLagrangePoint,
	"commarray":     TypeCommArray,
	"landingzone":   TypeLandingZone,
	"orbitmarker":   TypeOrbitMarker,
}

// Classify assigns a semantic type to an object from its identifier, falling
// back to the payload's explicit type field and finally Generic. Total and
// deterministic: it never fails.
func Classify(id string, raw RawRecord) ObjectType {
	lower := strings.ToLower(id)
	for _, entry := range classifierKeywords {
		if strings.Contains(lower, entry.keyword) {
			return entry.objectType
		}
	}

	if t, ok := typeFieldNames[strings.ToLower(raw.Type)]; ok {
		return t
	}

	return TypeGeneric
}
