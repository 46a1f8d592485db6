// Package profiles provides the static aircraft performance table used
// by the fuel-burn model.
//
// The table is reference data: loaded once at startup, read-only
// afterwards. Lookups for unknown aircraft types fall back to a
// designated default profile rather than failing, so new types can be
// added by extending the data without touching engine code.
package profiles

import (
	"encoding/json"
	"fmt"
	"os"

	"fuel_optimizer/internal/model"
)

// DefaultType is the profile used when an aircraft type is not in the
// table.
const DefaultType = "B737-800"

// Table maps aircraft type keys to performance profiles.
type Table struct {
	profiles    map[string]model.AircraftProfile
	defaultType string
}

// Builtin returns the table of builtin aircraft profiles.
func Builtin() *Table {
	return &Table{
		defaultType: DefaultType,
		profiles: map[string]model.AircraftProfile{
			"B737-800": {
				AircraftType:          "B737-800",
				MaxCruiseAltitude:     41000,
				OptimalCruiseAltitude: 36000,
				CruiseSpeed:           450,
				FuelCapacity:          26000,
				FuelBurnRateBase:      2400,
				WeightEmpty:           42000,
				MaxPayload:            20000,
			},
			"A320": {
				AircraftType:          "A320",
				MaxCruiseAltitude:     39000,
				OptimalCruiseAltitude: 35000,
				CruiseSpeed:           447,
				FuelCapacity:          24000,
				FuelBurnRateBase:      2300,
				WeightEmpty:           42400,
				MaxPayload:            19000,
			},
			"B777-300": {
				AircraftType:          "B777-300",
				MaxCruiseAltitude:     43100,
				OptimalCruiseAltitude: 38000,
				CruiseSpeed:           490,
				FuelCapacity:          181000,
				FuelBurnRateBase:      7500,
				WeightEmpty:           167800,
				MaxPayload:            70000,
			},
		},
	}
}

// New builds a table from explicit profiles. Intended for tests that
// need custom performance data. The default type must be present.
func New(defaultType string, list []model.AircraftProfile) (*Table, error) {
	m := make(map[string]model.AircraftProfile, len(list))
	for _, p := range list {
		if p.AircraftType == "" {
			return nil, fmt.Errorf("profile with empty aircraft_type")
		}
		m[p.AircraftType] = p
	}
	if _, ok := m[defaultType]; !ok {
		return nil, fmt.Errorf("default profile %q not in table", defaultType)
	}
	return &Table{profiles: m, defaultType: defaultType}, nil
}

// LoadFile reads additional profiles from a JSON file and merges them
// over the builtin table. File entries replace builtin entries with the
// same type key.
func LoadFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profiles: %w", err)
	}

	var list []model.AircraftProfile
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("parse profiles: %w", err)
	}

	t := Builtin()
	for _, p := range list {
		if p.AircraftType == "" {
			return nil, fmt.Errorf("profiles file %s: entry with empty aircraft_type", path)
		}
		t.profiles[p.AircraftType] = p
	}
	return t, nil
}

// Lookup returns the profile for the given aircraft type, or the
// default profile if the type is unknown. The fallback is deliberate:
// an unrecognised type is not an error.
func (t *Table) Lookup(aircraftType string) model.AircraftProfile {
	if p, ok := t.profiles[aircraftType]; ok {
		return p
	}
	return t.profiles[t.defaultType]
}

// Has reports whether the table contains an exact entry for the type.
func (t *Table) Has(aircraftType string) bool {
	_, ok := t.profiles[aircraftType]
	return ok
}

// Types returns the aircraft type keys in the table.
func (t *Table) Types() []string {
	types := make([]string, 0, len(t.profiles))
	for k := range t.profiles {
		types = append(types, k)
	}
	return types
}
