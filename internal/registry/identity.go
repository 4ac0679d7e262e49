// backend/internal/registry/identity.go
package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/profinder/backend/internal/config"
	"github.com/sirupsen/logrus"
)

// AgentMetadata is the ERC-8004 style identity document published for
// discovery. Registration is write-once and entirely off the request path.
type AgentMetadata struct {
	ERC          string            `json:"erc"`
	Version      string            `json:"version"`
	Name         string            `json:"name"`
	Description  string            `json:"description"`
	AgentType    string            `json:"agent_type"`
	Owner        string            `json:"owner"`
	Capabilities []string          `json:"capabilities"`
	Payment      PaymentMetadata   `json:"payment"`
	Endpoints    map[string]string `json:"endpoints"`
	Protocols    []string          `json:"protocols"`
}

type PaymentMetadata struct {
	Protocol    string `json:"protocol"`
	Scheme      string `json:"scheme"`
	Network     string `json:"network"`
	Asset       string `json:"asset"`
	Amount      string `json:"amount"`
	Receiver    string `json:"receiver"`
	Facilitator string `json:"facilitator"`
}

// Client registers the service identity with an ERC-8004 registry
// endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *logrus.Logger
}

func NewClient(baseURL string, logger *logrus.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// BuildMetadata assembles the identity document from configuration.
func BuildMetadata(cfg *config.Config) AgentMetadata {
	api := cfg.Registry.APIEndpoint

	return AgentMetadata{
		ERC:         "8004",
		Version:     "1.0.0",
		Name:        "ProFinder",
		Description: "Service that finds licensed professionals with verified reviews",
		AgentType:   "service",
		Owner:       cfg.Payment.Receiver,
		Capabilities: []string{
			"professional_search",
			"license_verification",
			"review_aggregation",
		},
		Payment: PaymentMetadata{
			Protocol:    "x402",
			Scheme:      cfg.Payment.Scheme,
			Network:     cfg.Payment.Network,
			Asset:       cfg.Payment.Asset,
			Amount:      cfg.Payment.Price,
			Receiver:    cfg.Payment.Receiver,
			Facilitator: cfg.Facilitator.URL,
		},
		Endpoints: map[string]string{
			"api":          api,
			"health":       api + "/health",
			"payment_info": api + "/payment-info",
		},
		Protocols: []string{"http", "x402"},
	}
}

// Register publishes the metadata unless the owner is already registered.
// Registration is best-effort: the serving path never depends on it.
func (c *Client) Register(ctx context.Context, metadata AgentMetadata) error {
	registered, err := c.isRegistered(ctx, metadata.Owner)
	if err != nil {
		return err
	}
	if registered {
		c.logger.WithField("owner", metadata.Owner).Info("Identity already registered, skipping")
		return nil
	}

	jsonData, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal identity metadata: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/agents", bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("registration request failed: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("registration failed with status %d: %s", resp.StatusCode, string(body))
	}

	c.logger.WithField("owner", metadata.Owner).Info("Identity registered")
	return nil
}

func (c *Client) isRegistered(ctx context.Context, owner string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/agents/"+owner, nil)
	if err != nil {
		return false, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("registry lookup failed: %w", err)
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK, nil
}
