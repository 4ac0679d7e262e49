// backend/internal/gate/errors.go
package gate

import (
	"fmt"

	"github.com/profinder/backend/internal/models"
)

// ValidationError is a malformed query; user-correctable, 400-class.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// PaymentRequiredError terminates an unpaid request with the challenge the
// client needs to retry; 402-class.
type PaymentRequiredError struct {
	Requirement *models.PaymentRequirement
}

func (e *PaymentRequiredError) Error() string {
	return "payment required"
}

// PaymentRejectedError carries the taxonomy reason for a bad proof;
// 402-class. Replay keeps its own reason code so it stays distinguishable
// from other rejections.
type PaymentRejectedError struct {
	Reason      models.RejectionReason
	Requirement *models.PaymentRequirement
}

func (e *PaymentRejectedError) Error() string {
	return fmt.Sprintf("payment rejected: %s", e.Reason)
}
