package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/profinder/backend/internal/models"
	"github.com/sirupsen/logrus"
)

// ErrFacilitatorUnavailable marks transport-level failures talking to the
// facilitator. It is the only error class the verifier retries, and it is
// never treated as a successful verification.
var ErrFacilitatorUnavailable = errors.New("facilitator unavailable")

// Facilitator is the external oracle that confirms a payment proof
// satisfies a requirement. Implementations never hold funds; they answer
// accept/reject or fail with ErrFacilitatorUnavailable.
type Facilitator interface {
	Verify(ctx context.Context, proof models.PaymentProof, requirement *models.PaymentRequirement) (*FacilitatorResponse, error)
}

// FacilitatorResponse is the facilitator's verdict on a proof.
type FacilitatorResponse struct {
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"`
}

type verifyPayload struct {
	Proof       models.PaymentProof        `json:"proof"`
	Requirement *models.PaymentRequirement `json:"requirement"`
}

// HTTPFacilitator talks to a facilitator service over JSON/HTTP.
type HTTPFacilitator struct {
	baseURL    string
	httpClient *http.Client
	logger     *logrus.Logger
}

func NewHTTPFacilitator(baseURL string, timeout time.Duration, logger *logrus.Logger) *HTTPFacilitator {
	return &HTTPFacilitator{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

func (f *HTTPFacilitator) Verify(ctx context.Context, proof models.PaymentProof, requirement *models.PaymentRequirement) (*FacilitatorResponse, error) {
	jsonData, err := json.Marshal(verifyPayload{Proof: proof, Requirement: requirement})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal verify payload: %w", err)
	}

	url := f.baseURL + "/verify"

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	f.logger.WithFields(logrus.Fields{
		"url":          url,
		"payload_size": len(jsonData),
	}).Debug("Making facilitator verify request")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFacilitatorUnavailable, err)
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", ErrFacilitatorUnavailable, err)
	}

	f.logger.WithFields(logrus.Fields{
		"status_code":   resp.StatusCode,
		"url":           url,
		"response_size": len(responseBody),
	}).Debug("Facilitator response received")

	if resp.StatusCode >= 500 {
		return nil, fmt.Errorf("%w: facilitator returned status %d", ErrFacilitatorUnavailable, resp.StatusCode)
	}

	var verdict FacilitatorResponse
	if err := json.Unmarshal(responseBody, &verdict); err != nil {
		// A 4xx without a parseable body is still a definitive rejection.
		if resp.StatusCode >= 400 {
			return &FacilitatorResponse{Valid: false, Reason: "invalid_signature"}, nil
		}
		return nil, fmt.Errorf("%w: failed to unmarshal response: %v", ErrFacilitatorUnavailable, err)
	}

	if resp.StatusCode >= 400 {
		verdict.Valid = false
	}

	return &verdict, nil
}
