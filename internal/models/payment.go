package models

import "time"

// PaymentRequirement is the machine-readable 402 challenge. Amounts are
// decimal strings so the price survives JSON round-trips without float
// drift. Created fresh per unpaid request; never persisted.
type PaymentRequirement struct {
	Scheme      string    `json:"scheme"`
	Network     string    `json:"network"`
	Asset       string    `json:"asset"`
	Amount      string    `json:"amount"`
	Receiver    string    `json:"receiver"`
	Facilitator string    `json:"facilitator"`
	Nonce       string    `json:"nonce"`
	ExpiresAt   time.Time `json:"expires_at"`
	Memo        string    `json:"memo,omitempty"`
}

func (r *PaymentRequirement) Expired(now time.Time) bool {
	return !r.ExpiresAt.IsZero() && now.After(r.ExpiresAt)
}

// PaymentProof is the parsed form of the X-Payment-Signature header.
// Untrusted input until the facilitator confirms it.
type PaymentProof struct {
	TxHash    string `json:"tx_hash,omitempty"`
	Signature string `json:"signature,omitempty"`
	Scheme    string `json:"scheme,omitempty"`
	Network   string `json:"network,omitempty"`
	Asset     string `json:"asset,omitempty"`
	Amount    string `json:"amount,omitempty"`
	Nonce     string `json:"nonce,omitempty"`
}

// RejectionReason codes surfaced to clients in 402 bodies. Facilitator
// error text is mapped onto these, never passed through verbatim.
type RejectionReason string

const (
	ReasonAmountMismatch   RejectionReason = "amount_mismatch"
	ReasonNetworkMismatch  RejectionReason = "network_mismatch"
	ReasonInvalidSignature RejectionReason = "invalid_signature"
	ReasonExpired          RejectionReason = "expired"
	ReasonReplay           RejectionReason = "replay"
)

// Settlement records that a proof fingerprint has been consumed to
// authorize exactly one response.
type Settlement struct {
	ProofFingerprint string    `json:"proof_fingerprint"`
	Amount           string    `json:"amount"`
	QueryFingerprint string    `json:"query_fingerprint"`
	VerifiedAt       time.Time `json:"verified_at"`
}
