package inventory

import "strings"

// SoftwareRecord is one row of the approved-software list. Vendor and product
// may individually be empty; rows where both are empty are unusable and are
// short-circuited by the classifier. Duplicate (vendor, product) pairs are
// legitimate and processed independently, since their descriptions can diverge.
type SoftwareRecord struct {
	Vendor      string
	Product     string
	Description string
	Sheet       string // originating worksheet, empty for CSV input
}

// DisplayName returns the operator-facing label for progress output.
func (r SoftwareRecord) DisplayName() string {
	switch {
	case r.Vendor == "":
		return r.Product
	case r.Product == "":
		return r.Vendor
	default:
		return r.Vendor + " - " + r.Product
	}
}

// Identifiable reports whether the record carries enough identity to be worth
// a classification request.
func (r SoftwareRecord) Identifiable() bool {
	return strings.TrimSpace(r.Vendor) != "" || strings.TrimSpace(r.Product) != ""
}

// errorMarkers are the spreadsheet formula-error literals that leak into
// exported inventories. A record carrying one is garbage and must never reach
// the classifier.
var errorMarkers = []string{"#REF!", "#N/A", "#VALUE!", "#DIV/0!", "#NAME?", "#NULL!"}

// ContainsErrorMarker reports whether s contains a spreadsheet error literal.
func ContainsErrorMarker(s string) bool {
	upper := strings.ToUpper(s)
	for _, m := range errorMarkers {
		if strings.Contains(upper, m) {
			return true
		}
	}
	return false
}

// HasErrorMarker reports whether any identifying field of the record contains
// a spreadsheet error literal.
func (r SoftwareRecord) HasErrorMarker() bool {
	return ContainsErrorMarker(r.Vendor) ||
		ContainsErrorMarker(r.Product) ||
		ContainsErrorMarker(r.Description)
}
