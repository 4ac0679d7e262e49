// backend/internal/payment/requirement.go
package payment

import (
	"time"

	"github.com/google/uuid"
	"github.com/profinder/backend/internal/config"
	"github.com/profinder/backend/internal/models"
)

// Builder produces 402 payment challenges. Everything but the nonce and
// expiry comes straight from configuration, which is validated once at
// startup; Build itself cannot fail.
type Builder struct {
	scheme      string
	network     string
	asset       string
	amount      string
	receiver    string
	facilitator string
	ttl         time.Duration
}

func NewBuilder(cfg *config.Config) *Builder {
	return &Builder{
		scheme:      cfg.Payment.Scheme,
		network:     cfg.Payment.Network,
		asset:       cfg.Payment.Asset,
		amount:      cfg.Payment.Price,
		receiver:    cfg.Payment.Receiver,
		facilitator: cfg.Facilitator.URL,
		ttl:         cfg.Payment.ChallengeTTL,
	}
}

// Build returns a fresh requirement. The nonce and expiry make a stale
// challenge unusable; nothing is persisted.
func (b *Builder) Build() *models.PaymentRequirement {
	return &models.PaymentRequirement{
		Scheme:      b.scheme,
		Network:     b.network,
		Asset:       b.asset,
		Amount:      b.amount,
		Receiver:    b.receiver,
		Facilitator: b.facilitator,
		Nonce:       uuid.NewString(),
		ExpiresAt:   time.Now().Add(b.ttl),
		Memo:        "ProFinder API call",
	}
}
