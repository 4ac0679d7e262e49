package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/profinder/backend/internal/catalog"
	"github.com/profinder/backend/internal/config"
	"github.com/profinder/backend/internal/gate"
	"github.com/profinder/backend/internal/license"
	"github.com/profinder/backend/internal/matcher"
	"github.com/profinder/backend/internal/models"
	"github.com/profinder/backend/internal/payment"
	"github.com/profinder/backend/pkg/utils"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedFacilitator struct {
	valid  bool
	reason string
	err    error
}

func (s *scriptedFacilitator) Verify(_ context.Context, _ models.PaymentProof, _ *models.PaymentRequirement) (*payment.FacilitatorResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &payment.FacilitatorResponse{Valid: s.valid, Reason: s.reason}, nil
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

func newTestRouter(facilitator payment.Facilitator) (*gin.Engine, *payment.MemoryStore) {
	gin.SetMode(gin.TestMode)
	logger := logrus.New()
	cfg := testConfig()

	store := payment.NewMemoryStore(time.Minute)
	retry := payment.RetryConfig{MaxRetries: 1, BaseDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond}
	verifier := payment.NewVerifier(facilitator, store, retry, logger)
	builder := payment.NewBuilder(cfg)

	g := gate.New(builder, verifier, matcher.New(3), license.NewDeterministicResolver(), catalog.Builtin(), cfg.Payment.Price, logger)

	findHandler := NewFindHandler(g, cfg, nil, logger)
	infoHandler := NewInfoHandler(cfg, builder, nil)

	router := gin.New()
	router.GET("/", infoHandler.HandleRoot)
	router.GET("/health", infoHandler.HandleHealth)
	router.GET("/payment-info", infoHandler.HandlePaymentInfo)
	router.POST("/find", findHandler.HandleFind)
	return router, store
}

func postFind(router *gin.Engine, body string, proof string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", "/find", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if proof != "" {
		req.Header.Set(PaymentProofHeader, proof)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

const plumberQuery = `{"service":"plumber","location":"Austin, TX","min_rating":4.0}`

func TestFind_UnpaidRequestGetsChallenge(t *testing.T) {
	router, store := newTestRouter(&scriptedFacilitator{valid: true})

	w := postFind(router, plumberQuery, "")
	assert.Equal(t, http.StatusPaymentRequired, w.Code)

	var body utils.PaymentErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Payment Required", body.Error)
	assert.Equal(t, 402, body.Status)
	assert.Empty(t, body.Reason)

	challenge := body.Payment.(map[string]interface{})
	assert.Equal(t, "exact", challenge["scheme"])
	assert.Equal(t, "base", challenge["network"])
	assert.Equal(t, "USDC", challenge["asset"])
	assert.Equal(t, "0.10", challenge["amount"])
	assert.NotEmpty(t, challenge["receiver"])
	assert.NotEmpty(t, challenge["nonce"])
	assert.NotEmpty(t, challenge["expires_at"])

	assert.Zero(t, store.Len())
}

func TestFind_PaidRequestReturnsRankedResults(t *testing.T) {
	router, _ := newTestRouter(&scriptedFacilitator{valid: true})

	w := postFind(router, plumberQuery, `{"tx_hash":"0xfeed01"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var body models.FindResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	assert.Equal(t, "received", body.PaymentStatus)
	assert.Equal(t, "0.10", body.PriceCharged)
	assert.LessOrEqual(t, body.Count, 3)
	require.NotEmpty(t, body.Results)

	for i, pro := range body.Results {
		assert.GreaterOrEqual(t, pro.Rating, 4.0)
		assert.NotEmpty(t, pro.LicenseStatus)
		if i > 0 {
			assert.GreaterOrEqual(t, body.Results[i-1].Rating, pro.Rating, "results must be rating-descending")
		}
	}
}

func TestFind_ReplayedProofIsRefused(t *testing.T) {
	router, _ := newTestRouter(&scriptedFacilitator{valid: true})
	proof := `{"tx_hash":"0xfeed02"}`

	w := postFind(router, plumberQuery, proof)
	require.Equal(t, http.StatusOK, w.Code)

	w = postFind(router, plumberQuery, proof)
	assert.Equal(t, http.StatusPaymentRequired, w.Code)

	var body utils.PaymentErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Payment Rejected", body.Error)
	assert.Equal(t, "replay", body.Reason)
	assert.NotNil(t, body.Payment, "a refusal still carries a fresh challenge")
}

func TestFind_FacilitatorOutageIs503(t *testing.T) {
	router, store := newTestRouter(&scriptedFacilitator{err: payment.ErrFacilitatorUnavailable})

	w := postFind(router, plumberQuery, `{"tx_hash":"0xfeed03"}`)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	var body utils.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, "Payment verification temporarily unavailable", body.Message)
	assert.Empty(t, body.Error, "internal facilitator detail must not leak")

	assert.Zero(t, store.Len(), "no settlement may be recorded on an outage")
}

func TestFind_PaidUnknownTradeIsEmptySuccess(t *testing.T) {
	router, _ := newTestRouter(&scriptedFacilitator{valid: true})

	w := postFind(router, `{"service":"unicorn-groomer","location":"Austin, TX"}`, `{"tx_hash":"0xfeed04"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var body models.FindResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 0, body.Count)
	require.NotNil(t, body.Results)
	assert.Empty(t, body.Results)
	assert.Equal(t, "received", body.PaymentStatus)
}

func TestFind_RejectedProofCarriesTaxonomyReason(t *testing.T) {
	router, _ := newTestRouter(&scriptedFacilitator{valid: false, reason: "network_mismatch"})

	w := postFind(router, plumberQuery, `{"tx_hash":"0xfeed05"}`)
	assert.Equal(t, http.StatusPaymentRequired, w.Code)

	var body utils.PaymentErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "network_mismatch", body.Reason)
}

func TestFind_MalformedBodyIs400(t *testing.T) {
	router, _ := newTestRouter(&scriptedFacilitator{valid: true})

	for _, body := range []string{`{`, `{"service":"plumber"}`, `{"location":"Austin, TX"}`} {
		w := postFind(router, body, `{"tx_hash":"0xfeed06"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code, "body %q", body)
	}
}

func TestFind_InvalidRatingIs400(t *testing.T) {
	router, _ := newTestRouter(&scriptedFacilitator{valid: true})

	w := postFind(router, `{"service":"plumber","location":"Austin, TX","min_rating":9}`, `{"tx_hash":"0xfeed07"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealth_NoPaymentRequired(t *testing.T) {
	router, _ := newTestRouter(&scriptedFacilitator{valid: true})

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body models.HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body.Status)
	assert.True(t, body.PaymentRequired)
	assert.Equal(t, "0.10 USDC", body.Price)
	assert.Equal(t, "base", body.Network)
}

func TestRoot_ServiceInfo(t *testing.T) {
	router, _ := newTestRouter(&scriptedFacilitator{valid: true})

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body models.ServiceInfoResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, ServiceName, body.Name)
	assert.Contains(t, body.Endpoints, "find")
}

func TestPaymentInfo_ExposesRequirement(t *testing.T) {
	router, _ := newTestRouter(&scriptedFacilitator{valid: true})

	req := httptest.NewRequest("GET", "/payment-info", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var requirement models.PaymentRequirement
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &requirement))
	assert.Equal(t, "0.10", requirement.Amount)
	assert.NotEmpty(t, requirement.Nonce)
}
