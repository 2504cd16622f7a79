package inventory_test

import (
	"testing"

	"github.com/felixgeelhaar/aiscan/internal/domain/inventory"
)

func TestDisplayName(t *testing.T) {
	tests := []struct {
		name string
		rec  inventory.SoftwareRecord
		want string
	}{
		{"vendor and product", inventory.SoftwareRecord{Vendor: "Intellidesk", Product: "Mobile Connect"}, "Intellidesk - Mobile Connect"},
		{"product only", inventory.SoftwareRecord{Product: "Mobile Connect"}, "Mobile Connect"},
		{"vendor only", inventory.SoftwareRecord{Vendor: "Intellidesk"}, "Intellidesk"},
		{"empty", inventory.SoftwareRecord{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rec.DisplayName(); got != tt.want {
				t.Errorf("DisplayName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIdentifiable(t *testing.T) {
	tests := []struct {
		rec  inventory.SoftwareRecord
		want bool
	}{
		{inventory.SoftwareRecord{Vendor: "Acme"}, true},
		{inventory.SoftwareRecord{Product: "Widget"}, true},
		{inventory.SoftwareRecord{Description: "only a description"}, false},
		{inventory.SoftwareRecord{Vendor: "   ", Product: "\t"}, false},
		{inventory.SoftwareRecord{}, false},
	}

	for _, tt := range tests {
		if got := tt.rec.Identifiable(); got != tt.want {
			t.Errorf("Identifiable(%+v) = %v, want %v", tt.rec, got, tt.want)
		}
	}
}

func TestContainsErrorMarker(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"#REF!", true},
		{"prefix #N/A suffix", true},
		{"#value!", true},
		{"#DIV/0!", true},
		{"#NAME?", true},
		{"#NULL!", true},
		{"Reference Manager", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := inventory.ContainsErrorMarker(tt.input); got != tt.want {
			t.Errorf("ContainsErrorMarker(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestHasErrorMarker(t *testing.T) {
	rec := inventory.SoftwareRecord{Vendor: "Acme", Product: "Widget", Description: "see #REF! for details"}
	if !rec.HasErrorMarker() {
		t.Error("marker in description not detected")
	}

	clean := inventory.SoftwareRecord{Vendor: "Acme", Product: "Widget", Description: "a normal tool"}
	if clean.HasErrorMarker() {
		t.Error("false positive on clean record")
	}
}
