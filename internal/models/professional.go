package models

// LicenseStatus is the verification outcome for a professional's license
// in a given jurisdiction.
type LicenseStatus string

const (
	LicenseVerified   LicenseStatus = "verified"
	LicenseExpired    LicenseStatus = "expired"
	LicenseUnverified LicenseStatus = "unverified"
	LicenseUnknown    LicenseStatus = "unknown"
)

// Professional is a catalog entry. Entries are read-only at request time;
// only LicenseStatus is recomputed per lookup.
type Professional struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Trade         string        `json:"trade"`
	Location      string        `json:"location"`
	LicenseNumber string        `json:"license_number"`
	LicenseStatus LicenseStatus `json:"license_status"`
	Rating        float64       `json:"rating"`
	ReviewCount   int           `json:"review_count"`
	Phone         string        `json:"phone,omitempty"`
	Website       string        `json:"website,omitempty"`
}

// Jurisdiction extracts the governing licensing region from a location
// string like "Austin, TX". Empty when no state token is present.
func Jurisdiction(location string) string {
	for i := len(location) - 1; i >= 0; i-- {
		if location[i] == ',' {
			state := location[i+1:]
			for len(state) > 0 && state[0] == ' ' {
				state = state[1:]
			}
			return state
		}
	}
	return ""
}
