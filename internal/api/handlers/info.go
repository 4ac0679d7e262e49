package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/profinder/backend/internal/config"
	"github.com/profinder/backend/internal/health"
	"github.com/profinder/backend/internal/models"
	"github.com/profinder/backend/internal/payment"
)

const (
	ServiceName    = "ProFinder API"
	ServiceVersion = "1.0.0"
)

// InfoHandler serves the unpaid surface: service info, health, and the
// payment requirement template.
type InfoHandler struct {
	cfg     *config.Config
	builder *payment.Builder
	checker *health.Checker
}

func NewInfoHandler(cfg *config.Config, builder *payment.Builder, checker *health.Checker) *InfoHandler {
	return &InfoHandler{
		cfg:     cfg,
		builder: builder,
		checker: checker,
	}
}

// HandleRoot returns service metadata and the endpoint map.
func (h *InfoHandler) HandleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, models.ServiceInfoResponse{
		Name:    ServiceName,
		Version: ServiceVersion,
		Price:   "$" + h.cfg.Payment.Price + " " + h.cfg.Payment.Asset + " per call",
		Network: h.cfg.Payment.Network,
		Wallet:  h.cfg.Payment.Receiver,
		Endpoints: map[string]string{
			"health":       "/health",
			"find":         "POST /find (requires " + h.cfg.Payment.Price + " " + h.cfg.Payment.Asset + " payment)",
			"payment_info": "/payment-info",
		},
	})
}

// HandleHealth returns service status without requiring payment.
func (h *InfoHandler) HandleHealth(c *gin.Context) {
	services := map[string]string{}
	status := "healthy"

	if h.checker != nil {
		overall := h.checker.CheckAll(c.Request.Context())
		status = overall.Status
		for _, svc := range overall.Services {
			services[svc.Name] = svc.Status
		}
	}

	c.JSON(http.StatusOK, models.HealthResponse{
		Status:          status,
		Service:         "profinder",
		Timestamp:       time.Now().Format(time.RFC3339),
		PaymentRequired: true,
		Price:           h.cfg.Payment.Price + " " + h.cfg.Payment.Asset,
		Network:         h.cfg.Payment.Network,
		Services:        services,
	})
}

// HandlePaymentInfo exposes the requirement shape a client will receive
// on an unpaid request.
func (h *InfoHandler) HandlePaymentInfo(c *gin.Context) {
	c.JSON(http.StatusOK, h.builder.Build())
}
