package license

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/profinder/backend/internal/models"
	"github.com/sirupsen/logrus"
)

// BoardResolver looks a license up with an external board service and
// caches the answer for a freshness window. Lookups that fail return
// unknown; the board is never guessed for.
type BoardResolver struct {
	baseURL    string
	httpClient *http.Client
	cacheTTL   time.Duration
	logger     *logrus.Logger

	mu    sync.Mutex
	cache map[string]cachedStatus
}

type cachedStatus struct {
	status    models.LicenseStatus
	expiresAt time.Time
}

type lookupRequest struct {
	LicenseNumber string `json:"license_number"`
	Jurisdiction  string `json:"jurisdiction"`
	Name          string `json:"name,omitempty"`
}

type lookupResponse struct {
	Status string `json:"status"`
}

func NewBoardResolver(baseURL string, timeout, cacheTTL time.Duration, logger *logrus.Logger) *BoardResolver {
	return &BoardResolver{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		cacheTTL: cacheTTL,
		logger:   logger,
		cache:    make(map[string]cachedStatus),
	}
}

func (r *BoardResolver) Resolve(ctx context.Context, pro models.Professional, jurisdiction string) (models.LicenseStatus, error) {
	if pro.LicenseNumber == "" {
		return models.LicenseUnverified, nil
	}

	key := pro.LicenseNumber + "|" + jurisdiction

	r.mu.Lock()
	if entry, ok := r.cache[key]; ok && time.Now().Before(entry.expiresAt) {
		r.mu.Unlock()
		return entry.status, nil
	}
	r.mu.Unlock()

	status, err := r.lookup(ctx, pro, jurisdiction)
	if err != nil {
		r.logger.WithError(err).WithFields(logrus.Fields{
			"license_number": pro.LicenseNumber,
			"jurisdiction":   jurisdiction,
		}).Warn("License board lookup failed")
		return models.LicenseUnknown, nil
	}

	r.mu.Lock()
	r.cache[key] = cachedStatus{status: status, expiresAt: time.Now().Add(r.cacheTTL)}
	r.mu.Unlock()

	return status, nil
}

func (r *BoardResolver) lookup(ctx context.Context, pro models.Professional, jurisdiction string) (models.LicenseStatus, error) {
	payload := lookupRequest{
		LicenseNumber: pro.LicenseNumber,
		Jurisdiction:  jurisdiction,
		Name:          pro.Name,
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return models.LicenseUnknown, fmt.Errorf("failed to marshal lookup payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", r.baseURL+"/lookup", bytes.NewBuffer(jsonData))
	if err != nil {
		return models.LicenseUnknown, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	r.logger.WithFields(logrus.Fields{
		"url":            r.baseURL + "/lookup",
		"license_number": pro.LicenseNumber,
		"jurisdiction":   jurisdiction,
	}).Debug("Making license board request")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return models.LicenseUnknown, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.LicenseUnknown, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return models.LicenseUnknown, fmt.Errorf("board request failed with status %d", resp.StatusCode)
	}

	var lookup lookupResponse
	if err := json.Unmarshal(responseBody, &lookup); err != nil {
		return models.LicenseUnknown, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	switch models.LicenseStatus(lookup.Status) {
	case models.LicenseVerified, models.LicenseExpired, models.LicenseUnverified:
		return models.LicenseStatus(lookup.Status), nil
	default:
		return models.LicenseUnknown, nil
	}
}
