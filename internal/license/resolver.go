// backend/internal/license/resolver.go
package license

import (
	"context"
	"hash/fnv"

	"github.com/profinder/backend/internal/models"
)

// Resolver maps a professional + jurisdiction to a license verification
// status. Implementations must be idempotent: repeated calls with the same
// input return the same status within their freshness window, and a failed
// lookup yields unknown rather than a fabricated verified.
type Resolver interface {
	Resolve(ctx context.Context, pro models.Professional, jurisdiction string) (models.LicenseStatus, error)
}

// DeterministicResolver derives a status purely from the license number
// and jurisdiction. It never performs I/O, which makes it the default for
// environments without a license-board endpoint and the substitute used in
// tests.
type DeterministicResolver struct{}

func NewDeterministicResolver() *DeterministicResolver {
	return &DeterministicResolver{}
}

func (r *DeterministicResolver) Resolve(_ context.Context, pro models.Professional, jurisdiction string) (models.LicenseStatus, error) {
	return DeriveStatus(pro.LicenseNumber, jurisdiction), nil
}

// DeriveStatus is the pure derivation shared by the deterministic resolver
// and the seeder. A missing license number is always unverified.
func DeriveStatus(licenseNumber, jurisdiction string) models.LicenseStatus {
	if licenseNumber == "" {
		return models.LicenseUnverified
	}

	h := fnv.New32a()
	h.Write([]byte(licenseNumber))
	h.Write([]byte("|"))
	h.Write([]byte(jurisdiction))

	switch h.Sum32() % 10 {
	case 7, 8:
		return models.LicenseExpired
	case 9:
		return models.LicenseUnverified
	default:
		return models.LicenseVerified
	}
}
