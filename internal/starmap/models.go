// Package starmap reconstructs a rooted star-system hierarchy from a flat,
// loosely-structured feed of celestial object records, and exposes query,
// validation and statistics operations over the result.
package starmap

import (
	"encoding/json"
	"errors"
	"fmt"

	"starmap-server/internal/geometry"

	"github.com/iancoleman/orderedmap"
)

var (
	// ErrMissingRoot is returned by Build when no root object can be
	// determined. This is the only fatal build failure.
	ErrMissingRoot = errors.New("no root object found in system data")

	// ErrObjectNotFound is returned by queries that reference an unknown
	// object id.
	ErrObjectNotFound = errors.New("object not found")

	// ErrMalformedInput is returned when the raw feed is not a JSON mapping
	// from object id to record.
	ErrMalformedInput = errors.New("malformed system data")
)

// ObjectType is the closed set of semantic object kinds assigned by the
// classifier.
type ObjectType string

const (
	TypeStar          ObjectType = "Star"
	TypePlanet        ObjectType = "Planet"
	TypeMoon          ObjectType = "Moon"
	TypeStation       ObjectType = "Station"
	TypeJumpPoint     ObjectType = "JumpPoint"
	TypeLagrangePoint ObjectType = "LagrangePoint"
	TypeCommArray     ObjectType = "CommArray"
	TypeLandingZone   ObjectType = "LandingZone"
	TypeOrbitMarker   ObjectType = "OrbitMarker"
	TypeGeneric       ObjectType = "Generic"
)

// RawRecord is one loosely-typed entry of the input feed. Every field is
// optional; absent fields take zero-value defaults at construction.
type RawRecord struct {
	Parent            string               `json:"parent"`
	Position          *geometry.Vec3       `json:"position"`
	Rotation          *geometry.Quaternion `json:"rotation"`
	Size              float64              `json:"size"`
	ArrivalRadius     float64              `json:"arrivalRadius"`
	ObstructionRadius float64              `json:"obstructionRadius"`
	AtmosphereHeight  float64              `json:"atmoHeight"`
	DisplayName       string               `json:"display_name"`
	EntityName        string               `json:"system_entity_name"`
	Type              string               `json:"type"`
}

// CelestialObject is an immutable-after-build node of the hierarchy.
// Position is parent-relative; absolute coordinates are derived on demand.
type CelestialObject struct {
	ID                string              `json:"id"`
	DisplayName       string              `json:"displayName"`
	ParentID          string              `json:"parentId"`
	Type              ObjectType          `json:"objectType"`
	Position          geometry.Vec3       `json:"position"`
	Rotation          geometry.Quaternion `json:"rotation"`
	Size              float64             `json:"size"`
	ArrivalRadius     float64             `json:"arrivalRadius"`
	ObstructionRadius float64             `json:"obstructionRadius"`
	AtmosphereHeight  float64             `json:"atmosphereHeight"`
	EntityName        string              `json:"entityName"`
}

// newObject constructs a CelestialObject from its raw record, applying the
// documented defaults: zero position, identity rotation, entity name falling
// back to the object id.
func newObject(id string, raw RawRecord) *CelestialObject {
	obj := &CelestialObject{
		ID:                id,
		DisplayName:       raw.DisplayName,
		ParentID:          raw.Parent,
		Type:              Classify(id, raw),
		Rotation:          geometry.IdentityQuaternion(),
		Size:              raw.Size,
		ArrivalRadius:     raw.ArrivalRadius,
		ObstructionRadius: raw.ObstructionRadius,
		AtmosphereHeight:  raw.AtmosphereHeight,
		EntityName:        raw.EntityName,
	}

	if raw.Position != nil {
		obj.Position = *raw.Position
	}
	if raw.Rotation != nil {
		obj.Rotation = *raw.Rotation
	}
	if obj.EntityName == "" {
		obj.EntityName = id
	}

	return obj
}

// Feed is a parsed input feed: the record mapping plus the order in which
// ids appeared, which downstream indices preserve.
type Feed struct {
	Order   []string
	Records map[string]RawRecord
	// Issues collects records that could not be decoded; they degrade to
	// default-valued records rather than failing the load.
	Issues []string
}

// ParseFeed decodes the raw JSON feed into a Feed, preserving key order.
// Returns ErrMalformedInput when the payload is not a JSON object.
func ParseFeed(data []byte) (*Feed, error) {
	om := orderedmap.New()
	if err := json.Unmarshal(data, om); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}

	feed := &Feed{
		Records: make(map[string]RawRecord),
	}

	for _, id := range om.Keys() {
		value, _ := om.Get(id)

		var record RawRecord
		encoded, err := json.Marshal(value)
		if err == nil {
			err = json.Unmarshal(encoded, &record)
		}
		if err != nil {
			// Tolerate garbage records: keep the id with defaults and let
			// the validator surface the problem.
			feed.Issues = append(feed.Issues, fmt.Sprintf("record %q could not be decoded: %v", id, err))
			record = RawRecord{}
		}

		feed.Order = append(feed.Order, id)
		feed.Records[id] = record
	}

	return feed, nil
}
