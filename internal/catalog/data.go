package catalog

import "github.com/profinder/backend/internal/models"

// builtinProfessionals is the embedded fallback dataset. License statuses
// are left unknown here; the resolver recomputes them per lookup.
func builtinProfessionals() []models.Professional {
	return []models.Professional{
		{ID: "pro-001", Name: "Austin Plumbing Pros", Trade: "plumber", Location: "Austin, TX", LicenseNumber: "TX-PLB-48291", Rating: 4.9, ReviewCount: 182, Phone: "(512) 555-0148", Website: "https://austinplumbingpros.example.com"},
		{ID: "pro-002", Name: "Hill Country Plumbing", Trade: "plumber", Location: "Austin, TX", LicenseNumber: "TX-PLB-50317", Rating: 4.7, ReviewCount: 95, Phone: "(512) 555-0192"},
		{ID: "pro-003", Name: "Precision Pipe Works", Trade: "plumber", Location: "Austin, TX", LicenseNumber: "TX-PLB-61744", Rating: 4.7, ReviewCount: 61, Phone: "(512) 555-0123"},
		{ID: "pro-004", Name: "Lone Star Drains", Trade: "plumber", Location: "Austin, TX", LicenseNumber: "TX-PLB-33958", Rating: 4.3, ReviewCount: 210, Phone: "(512) 555-0177"},
		{ID: "pro-005", Name: "Budget Rooter", Trade: "plumber", Location: "Austin, TX", LicenseNumber: "", Rating: 3.6, ReviewCount: 44, Phone: "(512) 555-0101"},
		{ID: "pro-006", Name: "Round Rock Plumbing Co", Trade: "plumber", Location: "Round Rock, TX", LicenseNumber: "TX-PLB-27730", Rating: 4.8, ReviewCount: 73, Phone: "(512) 555-0160"},
		{ID: "pro-007", Name: "Capitol Electric", Trade: "electrician", Location: "Austin, TX", LicenseNumber: "TX-ELC-19284", Rating: 4.8, ReviewCount: 143, Phone: "(512) 555-0135"},
		{ID: "pro-008", Name: "Volt Brothers", Trade: "electrician", Location: "Austin, TX", LicenseNumber: "TX-ELC-55012", Rating: 4.5, ReviewCount: 88, Phone: "(512) 555-0119"},
		{ID: "pro-009", Name: "Miami Accounting Group", Trade: "bookkeeper", Location: "Miami, FL", LicenseNumber: "CPA-FL-101204", Rating: 4.9, ReviewCount: 167, Phone: "(305) 555-0142", Website: "https://miamiaccounting.example.com"},
		{ID: "pro-010", Name: "Elite Tax Services", Trade: "bookkeeper", Location: "Miami, FL", LicenseNumber: "CPA-FL-100873", Rating: 4.6, ReviewCount: 129, Phone: "(305) 555-0188"},
		{ID: "pro-011", Name: "Precision Bookkeeping", Trade: "bookkeeper", Location: "Miami, FL", LicenseNumber: "CPA-FL-102511", Rating: 4.6, ReviewCount: 58, Phone: "(305) 555-0114"},
		{ID: "pro-012", Name: "Biscayne Financial", Trade: "bookkeeper", Location: "Miami, FL", LicenseNumber: "", Rating: 4.2, ReviewCount: 35, Phone: "(305) 555-0170"},
		{ID: "pro-013", Name: "Tampa Ledger Pros", Trade: "bookkeeper", Location: "Tampa, FL", LicenseNumber: "CPA-FL-104108", Rating: 4.7, ReviewCount: 91, Phone: "(813) 555-0133"},
		{ID: "pro-014", Name: "Bay Area CPA Partners", Trade: "bookkeeper", Location: "San Francisco, CA", LicenseNumber: "CPA-CA-88412", Rating: 4.8, ReviewCount: 204, Phone: "(415) 555-0150"},
		{ID: "pro-015", Name: "Golden Gate Accounting", Trade: "bookkeeper", Location: "San Francisco, CA", LicenseNumber: "CPA-CA-90277", Rating: 4.4, ReviewCount: 77, Phone: "(415) 555-0126"},
		{ID: "pro-016", Name: "Mission Electric", Trade: "electrician", Location: "San Francisco, CA", LicenseNumber: "CA-ELC-44139", Rating: 4.6, ReviewCount: 112, Phone: "(415) 555-0109"},
		{ID: "pro-017", Name: "Windy City Plumbing", Trade: "plumber", Location: "Chicago, IL", LicenseNumber: "IL-PLB-72650", Rating: 4.5, ReviewCount: 156, Phone: "(312) 555-0181"},
		{ID: "pro-018", Name: "Lakeshore HVAC", Trade: "hvac", Location: "Chicago, IL", LicenseNumber: "IL-HVC-31804", Rating: 4.7, ReviewCount: 134, Phone: "(312) 555-0165"},
		{ID: "pro-019", Name: "Desert Air Conditioning", Trade: "hvac", Location: "Phoenix, AZ", LicenseNumber: "AZ-HVC-20533", Rating: 4.9, ReviewCount: 221, Phone: "(602) 555-0138"},
		{ID: "pro-020", Name: "Saguaro Roofing", Trade: "roofer", Location: "Phoenix, AZ", LicenseNumber: "AZ-ROF-17842", Rating: 4.4, ReviewCount: 67, Phone: "(602) 555-0154"},
	}
}
