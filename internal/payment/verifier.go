// backend/internal/payment/verifier.go
package payment

import (
	"context"
	"encoding/json"
	"time"

	"github.com/profinder/backend/internal/models"
	"github.com/profinder/backend/pkg/utils"
	"github.com/sirupsen/logrus"
)

// Result is the outcome of verifying one proof against one requirement.
// A non-verified result always carries a taxonomy reason; replay is kept
// distinct from the other rejections so it stays observable.
type Result struct {
	Verified    bool
	Reason      models.RejectionReason
	Fingerprint string
	Amount      string
}

// Verifier validates inbound payment proofs: structural checks locally,
// ledger validation delegated to the facilitator, then an atomic
// settlement insert that enforces one response per proof.
type Verifier struct {
	facilitator Facilitator
	store       SettlementStore
	retry       RetryConfig
	logger      *logrus.Logger
}

func NewVerifier(facilitator Facilitator, store SettlementStore, retry RetryConfig, logger *logrus.Logger) *Verifier {
	return &Verifier{
		facilitator: facilitator,
		store:       store,
		retry:       retry,
		logger:      logger,
	}
}

// Verify checks rawProof against the requirement. Rejections come back as
// a Result; only facilitator unreachability (after bounded retries) is an
// error, so callers can map it to a 503 without a settlement existing.
func (v *Verifier) Verify(ctx context.Context, rawProof string, requirement *models.PaymentRequirement, queryFingerprint string) (*Result, error) {
	var proof models.PaymentProof
	if err := json.Unmarshal([]byte(rawProof), &proof); err != nil {
		v.logger.WithError(err).Debug("Unparseable payment proof")
		return &Result{Reason: models.ReasonInvalidSignature}, nil
	}

	if proof.TxHash == "" && proof.Signature == "" {
		return &Result{Reason: models.ReasonInvalidSignature}, nil
	}

	if reason, ok := matchRequirement(proof, requirement); !ok {
		return &Result{Reason: reason}, nil
	}

	if requirement.Expired(time.Now()) {
		return &Result{Reason: models.ReasonExpired}, nil
	}

	var verdict *FacilitatorResponse
	err := retryOperation(ctx, v.retry, v.logger, func() error {
		var opErr error
		verdict, opErr = v.facilitator.Verify(ctx, proof, requirement)
		return opErr
	})
	if err != nil {
		return nil, err
	}

	if !verdict.Valid {
		reason := mapFacilitatorReason(verdict.Reason)
		v.logger.WithFields(logrus.Fields{
			"reason": reason,
		}).Info("Facilitator rejected payment proof")
		return &Result{Reason: reason}, nil
	}

	fingerprint := utils.ProofFingerprint(rawProof)

	inserted, err := v.store.PutIfAbsent(ctx, models.Settlement{
		ProofFingerprint: fingerprint,
		Amount:           requirement.Amount,
		QueryFingerprint: queryFingerprint,
		VerifiedAt:       time.Now(),
	})
	if err != nil {
		return nil, err
	}

	if !inserted {
		v.logger.WithField("fingerprint", fingerprint).Warn("Replayed payment proof")
		return &Result{Reason: models.ReasonReplay, Fingerprint: fingerprint}, nil
	}

	return &Result{
		Verified:    true,
		Fingerprint: fingerprint,
		Amount:      requirement.Amount,
	}, nil
}

// matchRequirement enforces exact scheme/asset/amount/network agreement
// between the proof and the requirement. Fields the client omitted are
// taken as assent to the requirement's values.
func matchRequirement(proof models.PaymentProof, requirement *models.PaymentRequirement) (models.RejectionReason, bool) {
	if proof.Amount != "" && proof.Amount != requirement.Amount {
		return models.ReasonAmountMismatch, false
	}
	if proof.Network != "" && proof.Network != requirement.Network {
		return models.ReasonNetworkMismatch, false
	}
	if proof.Scheme != "" && proof.Scheme != requirement.Scheme {
		return models.ReasonInvalidSignature, false
	}
	if proof.Asset != "" && proof.Asset != requirement.Asset {
		return models.ReasonInvalidSignature, false
	}
	return "", true
}

// mapFacilitatorReason folds facilitator verdicts into the fixed taxonomy
// so internal error text never reaches clients verbatim.
func mapFacilitatorReason(reason string) models.RejectionReason {
	switch models.RejectionReason(reason) {
	case models.ReasonAmountMismatch, models.ReasonNetworkMismatch, models.ReasonExpired:
		return models.RejectionReason(reason)
	default:
		return models.ReasonInvalidSignature
	}
}
