package gate

import (
	"context"
	"testing"
	"time"

	"github.com/profinder/backend/internal/catalog"
	"github.com/profinder/backend/internal/config"
	"github.com/profinder/backend/internal/license"
	"github.com/profinder/backend/internal/matcher"
	"github.com/profinder/backend/internal/models"
	"github.com/profinder/backend/internal/payment"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFacilitator struct {
	valid  bool
	reason string
	err    error
	calls  int
}

func (s *stubFacilitator) Verify(_ context.Context, _ models.PaymentProof, _ *models.PaymentRequirement) (*payment.FacilitatorResponse, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &payment.FacilitatorResponse{Valid: s.valid, Reason: s.reason}, nil
}

// countingMatcher proves the matcher is only reached behind a verified
// payment.
type countingMatcher struct {
	inner *matcher.Matcher
	calls int
}

func (m *countingMatcher) Match(query models.FindRequest, pros []models.Professional) []models.Professional {
	m.calls++
	return m.inner.Match(query, pros)
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Payment.Price = "0.10"
	cfg.Payment.Asset = "USDC"
	cfg.Payment.Network = "base"
	cfg.Payment.Scheme = "exact"
	cfg.Payment.Receiver = "0xb3e17988e6eE4D31e6D07decf363f736461d9e08"
	cfg.Payment.ChallengeTTL = 5 * time.Minute
	cfg.Facilitator.URL = "https://x402.org/facilitator"
	return cfg
}

func newTestGate(facilitator payment.Facilitator) (*Gate, *countingMatcher, *payment.MemoryStore) {
	logger := logrus.New()
	store := payment.NewMemoryStore(time.Minute)
	retry := payment.RetryConfig{MaxRetries: 1, BaseDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond}
	verifier := payment.NewVerifier(facilitator, store, retry, logger)
	builder := payment.NewBuilder(testConfig())
	counting := &countingMatcher{inner: matcher.New(3)}

	g := New(builder, verifier, counting, license.NewDeterministicResolver(), catalog.Builtin(), "0.10", logger)
	return g, counting, store
}

func findQuery() models.FindRequest {
	return models.FindRequest{Service: "plumber", Location: "Austin, TX", MinRating: 4.0}
}

func TestGate_MissingProofIssuesChallenge(t *testing.T) {
	g, counting, store := newTestGate(&stubFacilitator{valid: true})

	_, err := g.Handle(context.Background(), findQuery(), "")

	var required *PaymentRequiredError
	require.ErrorAs(t, err, &required)
	assert.Equal(t, "0.10", required.Requirement.Amount)
	assert.Equal(t, "base", required.Requirement.Network)
	assert.Equal(t, "USDC", required.Requirement.Asset)
	assert.Equal(t, "exact", required.Requirement.Scheme)
	assert.NotEmpty(t, required.Requirement.Nonce)
	assert.True(t, required.Requirement.ExpiresAt.After(time.Now()))

	assert.Zero(t, counting.calls, "no search may run without payment")
	assert.Zero(t, store.Len())
}

func TestGate_ChallengeNoncesAreUnique(t *testing.T) {
	g, _, _ := newTestGate(&stubFacilitator{valid: true})

	seen := map[string]bool{}
	for i := 0; i < 10; i++ {
		_, err := g.Handle(context.Background(), findQuery(), "")
		var required *PaymentRequiredError
		require.ErrorAs(t, err, &required)
		assert.False(t, seen[required.Requirement.Nonce])
		seen[required.Requirement.Nonce] = true
	}
}

func TestGate_ValidationBeforePayment(t *testing.T) {
	g, counting, _ := newTestGate(&stubFacilitator{valid: true})

	cases := []models.FindRequest{
		{Service: "", Location: "Austin, TX"},
		{Service: "plumber", Location: ""},
		{Service: "plumber", Location: "Austin, TX", MinRating: 7},
		{Service: "plumber", Location: "Austin, TX", MinRating: -1},
	}
	for _, query := range cases {
		_, err := g.Handle(context.Background(), query, `{"tx_hash":"0xabc"}`)
		var validation *ValidationError
		assert.ErrorAs(t, err, &validation)
	}

	assert.Zero(t, counting.calls)
}

func TestGate_VerifiedProofServesResults(t *testing.T) {
	facilitator := &stubFacilitator{valid: true}
	g, counting, _ := newTestGate(facilitator)

	response, err := g.Handle(context.Background(), findQuery(), `{"tx_hash":"0xabc"}`)
	require.NoError(t, err)
	require.NotNil(t, response)

	assert.Equal(t, 1, counting.calls)
	assert.Equal(t, 1, facilitator.calls)
	assert.Equal(t, "0.10", response.PriceCharged)
	assert.Equal(t, "received", response.PaymentStatus)
	assert.LessOrEqual(t, response.Count, 3)
	assert.Len(t, response.Results, response.Count)
	for _, pro := range response.Results {
		assert.GreaterOrEqual(t, pro.Rating, 4.0)
		assert.NotEmpty(t, pro.LicenseStatus, "every result carries a license annotation")
	}
}

func TestGate_ReplayedProofIsRejected(t *testing.T) {
	g, counting, _ := newTestGate(&stubFacilitator{valid: true})
	proof := `{"tx_hash":"0xabc"}`

	_, err := g.Handle(context.Background(), findQuery(), proof)
	require.NoError(t, err)

	_, err = g.Handle(context.Background(), findQuery(), proof)
	var rejected *PaymentRejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, models.ReasonReplay, rejected.Reason)
	assert.NotEmpty(t, rejected.Requirement.Nonce, "a rejection still carries a fresh challenge")

	assert.Equal(t, 1, counting.calls, "a replayed proof must not buy a second search")
}

func TestGate_RejectedProofCarriesReason(t *testing.T) {
	g, counting, store := newTestGate(&stubFacilitator{valid: false, reason: "amount_mismatch"})

	_, err := g.Handle(context.Background(), findQuery(), `{"tx_hash":"0xabc"}`)

	var rejected *PaymentRejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, models.ReasonAmountMismatch, rejected.Reason)
	assert.Zero(t, counting.calls)
	assert.Zero(t, store.Len())
}

func TestGate_FacilitatorOutagePropagates(t *testing.T) {
	g, counting, store := newTestGate(&stubFacilitator{err: payment.ErrFacilitatorUnavailable})

	_, err := g.Handle(context.Background(), findQuery(), `{"tx_hash":"0xabc"}`)
	assert.ErrorIs(t, err, payment.ErrFacilitatorUnavailable)
	assert.Zero(t, counting.calls)
	assert.Zero(t, store.Len(), "an unverified proof must leave no settlement behind")
}

func TestGate_PaidEmptyResultIsSuccess(t *testing.T) {
	g, _, _ := newTestGate(&stubFacilitator{valid: true})

	query := models.FindRequest{Service: "unicorn-groomer", Location: "Austin, TX"}
	response, err := g.Handle(context.Background(), query, `{"tx_hash":"0xdef"}`)
	require.NoError(t, err)

	assert.Equal(t, 0, response.Count)
	assert.NotNil(t, response.Results)
	assert.Empty(t, response.Results)
	assert.Equal(t, "received", response.PaymentStatus)
}
