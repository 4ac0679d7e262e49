// backend/internal/gate/gate.go
package gate

import (
	"context"
	"fmt"
	"strings"

	"github.com/profinder/backend/internal/catalog"
	"github.com/profinder/backend/internal/license"
	"github.com/profinder/backend/internal/models"
	"github.com/profinder/backend/internal/payment"
	"github.com/profinder/backend/pkg/utils"
	"github.com/sirupsen/logrus"
)

// State names the per-request lifecycle. Requests are stateless between
// calls; the state only ever moves forward within a single Handle.
type State string

const (
	StateReceived        State = "received"
	StateAwaitingPayment State = "awaiting_payment"
	StateVerifying       State = "verifying"
	StateServing         State = "serving"
	StateCompleted       State = "completed"
)

// ProMatcher is what the gate needs from the matcher. Narrowed to an
// interface so tests can count invocations.
type ProMatcher interface {
	Match(query models.FindRequest, pros []models.Professional) []models.Professional
}

// Gate orchestrates one paid search request: challenge, verify, serve.
// The matcher is never touched before a verified settlement exists.
type Gate struct {
	builder  *payment.Builder
	verifier *payment.Verifier
	matcher  ProMatcher
	resolver license.Resolver
	catalog  *catalog.Catalog
	price    string
	logger   *logrus.Logger
}

func New(
	builder *payment.Builder,
	verifier *payment.Verifier,
	matcher ProMatcher,
	resolver license.Resolver,
	cat *catalog.Catalog,
	price string,
	logger *logrus.Logger,
) *Gate {
	return &Gate{
		builder:  builder,
		verifier: verifier,
		matcher:  matcher,
		resolver: resolver,
		catalog:  cat,
		price:    price,
		logger:   logger,
	}
}

// Handle runs the request state machine. It returns the paid response, or
// one of the typed errors from errors.go, or the facilitator sentinel
// after retries are exhausted.
func (g *Gate) Handle(ctx context.Context, query models.FindRequest, rawProof string) (*models.FindResponse, error) {
	state := StateReceived

	if err := validateQuery(query); err != nil {
		return nil, err
	}

	if strings.TrimSpace(rawProof) == "" {
		state = StateAwaitingPayment
		requirement := g.builder.Build()
		g.logger.WithFields(logrus.Fields{
			"state":   state,
			"service": query.Service,
			"nonce":   requirement.Nonce,
		}).Info("Issuing payment challenge")
		return nil, &PaymentRequiredError{Requirement: requirement}
	}

	state = StateVerifying
	requirement := g.builder.Build()
	queryFingerprint := utils.MD5Hash(fmt.Sprintf("%s|%s|%.2f", query.Service, query.Location, query.MinRating))

	// A client disconnect must not strand a paid-but-unrecorded proof, so
	// verification runs detached from request cancellation. The per-attempt
	// facilitator timeout still bounds it.
	result, err := g.verifier.Verify(context.WithoutCancel(ctx), rawProof, requirement, queryFingerprint)
	if err != nil {
		g.logger.WithError(err).WithField("state", state).Error("Payment verification unavailable")
		return nil, err
	}

	if !result.Verified {
		g.logger.WithFields(logrus.Fields{
			"state":  state,
			"reason": result.Reason,
		}).Info("Payment proof not accepted")
		return nil, &PaymentRejectedError{Reason: result.Reason, Requirement: g.builder.Build()}
	}

	state = StateServing
	matched := g.matcher.Match(query, g.catalog.All())

	jurisdiction := models.Jurisdiction(query.Location)
	for i := range matched {
		status, err := g.resolver.Resolve(ctx, matched[i], jurisdiction)
		if err != nil {
			status = models.LicenseUnknown
		}
		matched[i].LicenseStatus = status
	}

	if matched == nil {
		matched = []models.Professional{}
	}

	state = StateCompleted
	g.logger.WithFields(logrus.Fields{
		"state":       state,
		"service":     query.Service,
		"location":    query.Location,
		"count":       len(matched),
		"fingerprint": result.Fingerprint,
	}).Info("Paid search completed")

	return &models.FindResponse{
		Query:         query,
		Results:       matched,
		Count:         len(matched),
		PriceCharged:  g.price,
		PaymentStatus: "received",
	}, nil
}

func validateQuery(query models.FindRequest) error {
	if strings.TrimSpace(query.Service) == "" {
		return &ValidationError{Message: "service is required"}
	}
	if strings.TrimSpace(query.Location) == "" {
		return &ValidationError{Message: "location is required"}
	}
	if query.MinRating < 0 || query.MinRating > 5 {
		return &ValidationError{Message: "min_rating must be between 0 and 5"}
	}
	return nil
}
