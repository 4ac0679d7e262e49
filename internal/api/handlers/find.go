// backend/internal/api/handlers/find.go
package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/profinder/backend/internal/config"
	"github.com/profinder/backend/internal/gate"
	"github.com/profinder/backend/internal/models"
	"github.com/profinder/backend/internal/payment"
	"github.com/profinder/backend/pkg/utils"
	"github.com/sirupsen/logrus"
)

// PaymentProofHeader carries the client's payment assertion. The value is
// untrusted input until the verifier accepts it.
const PaymentProofHeader = "X-Payment-Signature"

type FindHandler struct {
	gate      *gate.Gate
	cfg       *config.Config
	analytics models.SearchQueryRepository // nil when no database is configured
	logger    *logrus.Logger
}

func NewFindHandler(g *gate.Gate, cfg *config.Config, analytics models.SearchQueryRepository, logger *logrus.Logger) *FindHandler {
	return &FindHandler{
		gate:      g,
		cfg:       cfg,
		analytics: analytics,
		logger:    logger,
	}
}

// HandleFind processes payment-gated search requests
func (h *FindHandler) HandleFind(c *gin.Context) {
	startTime := time.Now()

	var req models.FindRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithError(err).Debug("Invalid find request")
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	rawProof := c.GetHeader(PaymentProofHeader)

	h.logger.WithFields(logrus.Fields{
		"service":    req.Service,
		"location":   req.Location,
		"has_proof":  rawProof != "",
		"ip_address": c.ClientIP(),
	}).Info("Processing find request")

	response, err := h.gate.Handle(c.Request.Context(), req, rawProof)
	if err != nil {
		h.respondError(c, err)
		return
	}

	responseTime := time.Since(startTime)

	go h.trackSearchQuery(req, response, responseTime, c.GetHeader("User-Agent"), c.ClientIP(), h.userSession(c))

	h.logger.WithFields(logrus.Fields{
		"results_count": response.Count,
		"response_time": responseTime.Milliseconds(),
	}).Info("Find completed successfully")

	c.JSON(http.StatusOK, response)
}

func (h *FindHandler) respondError(c *gin.Context, err error) {
	var validationErr *gate.ValidationError
	var requiredErr *gate.PaymentRequiredError
	var rejectedErr *gate.PaymentRejectedError

	switch {
	case errors.As(err, &validationErr):
		utils.ErrorResponse(c, http.StatusBadRequest, validationErr.Message, nil)
	case errors.As(err, &requiredErr):
		utils.PaymentRequired(c, "Payment Required", "", requiredErr.Requirement)
	case errors.As(err, &rejectedErr):
		utils.PaymentRequired(c, "Payment Rejected", string(rejectedErr.Reason), rejectedErr.Requirement)
	case errors.Is(err, payment.ErrFacilitatorUnavailable):
		// Internal facilitator error text stays out of the response.
		utils.ErrorResponse(c, http.StatusServiceUnavailable, "Payment verification temporarily unavailable", nil)
	default:
		h.logger.WithError(err).Error("Find request failed")
		utils.ErrorResponse(c, http.StatusInternalServerError, "Search failed", nil)
	}
}

func (h *FindHandler) userSession(c *gin.Context) string {
	if session := c.GetHeader("X-Session-ID"); session != "" {
		return session
	}
	return utils.GenerateSessionID(c.ClientIP() + c.GetHeader("User-Agent"))
}

func (h *FindHandler) trackSearchQuery(req models.FindRequest, resp *models.FindResponse, responseTime time.Duration, userAgent, ip, session string) {
	if h.analytics == nil {
		return
	}

	searchQuery := &models.SearchQuery{
		Service:         req.Service,
		Location:        req.Location,
		MinRating:       req.MinRating,
		ResultsCount:    resp.Count,
		AmountCharged:   resp.PriceCharged,
		UserSession:     session,
		SearchTimestamp: time.Now(),
		ResponseTimeMs:  int(responseTime.Milliseconds()),
		UserAgent:       userAgent,
		IPAddress:       ip,
	}

	if err := h.analytics.Create(searchQuery); err != nil {
		h.logger.WithError(err).Error("Failed to track search query")
	}
}
