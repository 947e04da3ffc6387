package starmap

import "testing"

func TestClassifyKeywords(t *testing.T) {
	t.Parallel()

	tests := []struct {
		id   string
		want ObjectType
	}{
		{"stanton_star", TypeStar},
		{"stanton1", TypeGeneric},
		{"stanton2_planet", TypePlanet},
		{"yela_moon", TypeMoon},
		{"port_olisar_station", TypeStation},
		{"hur_l1_outpost", TypeStation},
		{"crusader_reststop_2", TypeStation},
		{"stanton3_l1_lagrange", TypeLagrangePoint},
		{"pyro_jumppoint", TypeJumpPoint},
		{"commarray_st1", TypeCommArray},
		{"lorville_landingzone", TypeLandingZone},
		{"stanton4_orbitmarker_3", TypeOrbitMarker},
		{"unknown_body", TypeGeneric},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			if got := Classify(tt.id, RawRecord{}); got != tt.want {
				t.Errorf("Classify(%q) = %v, want %v", tt.id, got, tt.want)
			}
		})
	}
}

func TestClassifyKeywordPriority(t *testing.T) {
	t.Parallel()

	// "station" is tested before "reststop", so an id containing both
	// resolves as Station by first match, never ambiguously.
	if got := Classify("stanton_station_reststop_3", RawRecord{}); got != TypeStation {
		t.Errorf("Classify = %v, want %v", got, TypeStation)
	}

	// "jumppoint" outranks "star" even though both substrings appear.
	if got := Classify("starlight_jumppoint", RawRecord{}); got != TypeJumpPoint {
		t.Errorf("Classify = %v, want %v", got, TypeJumpPoint)
	}
}

func TestClassifyCaseInsensitive(t *testing.T) {
	t.Parallel()

	if got := Classify("Stanton_STAR", RawRecord{}); got != TypeStar {
		t.Errorf("Classify = %v, want %v", got, TypeStar)
	}
}

func TestClassifyPayloadFallback(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		id       string
		typeName string
		want     ObjectType
	}{
		{"explicit type used", "body_a", "planet", TypePlanet},
		{"type field case insensitive", "body_b", "Moon", TypeMoon},
		{"keyword outranks type field", "yela_moon", "station", TypeMoon},
		{"unknown type falls to generic", "body_c", "nebula", TypeGeneric},
		{"empty everything", "body_d", "", TypeGeneric},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.id, RawRecord{Type: tt.typeName}); got != tt.want {
				t.Errorf("Classify(%q, type=%q) = %v, want %v", tt.id, tt.typeName, got, tt.want)
			}
		})
	}
}

func TestClassifyDeterministic(t *testing.T) {
	t.Parallel()

	record := RawRecord{Type: "station"}
	first := Classify("some_body", record)
	for i := 0; i < 100; i++ {
		if got := Classify("some_body", record); got != first {
			t.Fatalf("Classify is not deterministic: got %v then %v", first, got)
		}
	}
}
