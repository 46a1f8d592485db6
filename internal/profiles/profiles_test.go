package profiles

import (
	"os"
	"path/filepath"
	"testing"

	"fuel_optimizer/internal/model"
)

func TestBuiltinLookup(t *testing.T) {
	table := Builtin()

	b737 := table.Lookup("B737-800")
	if b737.OptimalCruiseAltitude != 36000 {
		t.Errorf("B737-800 optimal altitude = %d, want 36000", b737.OptimalCruiseAltitude)
	}
	if b737.FuelBurnRateBase != 2400 {
		t.Errorf("B737-800 base burn = %.0f, want 2400", b737.FuelBurnRateBase)
	}

	a320 := table.Lookup("A320")
	if a320.CruiseSpeed != 447 {
		t.Errorf("A320 cruise speed = %d, want 447", a320.CruiseSpeed)
	}
}

func TestLookupFallsBackToDefault(t *testing.T) {
	table := Builtin()

	unknown := table.Lookup("MD-11")
	if unknown.AircraftType != DefaultType {
		t.Errorf("unknown type resolved to %q, want %q", unknown.AircraftType, DefaultType)
	}
	if table.Has("MD-11") {
		t.Error("Has(MD-11) = true, want false")
	}
}

func TestNewRequiresDefault(t *testing.T) {
	_, err := New("B757", []model.AircraftProfile{{AircraftType: "A380"}})
	if err == nil {
		t.Fatal("New without default profile succeeded")
	}
}

func TestLoadFileMergesOverBuiltins(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.json")
	data := `[
		{"aircraft_type": "A350-900", "optimal_cruise_altitude": 39000, "cruise_speed": 488,
		 "fuel_burn_rate_base": 5800, "weight_empty": 142400, "max_cruise_altitude": 43100,
		 "fuel_capacity": 110000, "max_payload": 53000},
		{"aircraft_type": "B737-800", "optimal_cruise_altitude": 37000, "cruise_speed": 450,
		 "fuel_burn_rate_base": 2400, "weight_empty": 42000, "max_cruise_altitude": 41000,
		 "fuel_capacity": 26000, "max_payload": 20000}
	]`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	table, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	if !table.Has("A350-900") {
		t.Error("A350-900 not loaded")
	}
	if got := table.Lookup("A350-900").OptimalCruiseAltitude; got != 39000 {
		t.Errorf("A350-900 optimal altitude = %d, want 39000", got)
	}

	// File entries replace builtins with the same key.
	if got := table.Lookup("B737-800").OptimalCruiseAltitude; got != 37000 {
		t.Errorf("overridden B737-800 optimal altitude = %d, want 37000", got)
	}

	// Untouched builtins survive the merge.
	if !table.Has("B777-300") {
		t.Error("builtin B777-300 lost after merge")
	}
}

func TestLoadFileRejectsBadData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte(`[{"aircraft_type": ""}]`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Error("LoadFile accepted entry with empty aircraft_type")
	}
}
