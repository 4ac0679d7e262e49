package health

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/profinder/backend/internal/database"
	"github.com/sirupsen/logrus"
)

// Checker probes the service's collaborators. The facilitator is the one
// dependency the paid path cannot serve without; db and redis are optional.
type Checker struct {
	dbManager      *database.Manager
	facilitatorURL string
	httpClient     *http.Client
	logger         *logrus.Logger
}

func NewChecker(dbManager *database.Manager, facilitatorURL string, logger *logrus.Logger) *Checker {
	return &Checker{
		dbManager:      dbManager,
		facilitatorURL: facilitatorURL,
		httpClient:     &http.Client{Timeout: 10 * time.Second},
		logger:         logger,
	}
}

// ServiceHealth represents the health status of a service
type ServiceHealth struct {
	Name         string `json:"name"`
	Status       string `json:"status"`
	ResponseTime int    `json:"response_time_ms"`
	Error        string `json:"error,omitempty"`
	LastChecked  string `json:"last_checked"`
}

// OverallHealth represents the overall system health
type OverallHealth struct {
	Status   string          `json:"status"`
	Services []ServiceHealth `json:"services"`
	Uptime   string          `json:"uptime"`
}

// CheckFacilitator probes the facilitator endpoint.
func (h *Checker) CheckFacilitator(ctx context.Context) ServiceHealth {
	start := time.Now()

	status := "healthy"
	errorMsg := ""

	req, err := http.NewRequestWithContext(ctx, "GET", h.facilitatorURL+"/health", nil)
	if err == nil {
		var resp *http.Response
		resp, err = h.httpClient.Do(req)
		if err == nil {
			defer resp.Body.Close()
			if resp.StatusCode >= 500 {
				err = fmt.Errorf("HTTP %d", resp.StatusCode)
			}
		}
	}

	if err != nil {
		status = "unhealthy"
		errorMsg = err.Error()
		h.logger.WithError(err).Warn("Facilitator health check failed")
	}

	return ServiceHealth{
		Name:         "facilitator",
		Status:       status,
		ResponseTime: int(time.Since(start).Milliseconds()),
		Error:        errorMsg,
		LastChecked:  time.Now().Format(time.RFC3339),
	}
}

// CheckDatabase checks the optional Postgres backend.
func (h *Checker) CheckDatabase() ServiceHealth {
	start := time.Now()
	err := h.dbManager.PingDatabase()

	status := "healthy"
	errorMsg := ""
	if err != nil {
		status = "unhealthy"
		errorMsg = err.Error()
		h.logger.WithError(err).Error("Database health check failed")
	}

	return ServiceHealth{
		Name:         "postgresql",
		Status:       status,
		ResponseTime: int(time.Since(start).Milliseconds()),
		Error:        errorMsg,
		LastChecked:  time.Now().Format(time.RFC3339),
	}
}

// CheckRedis checks the optional Redis backend.
func (h *Checker) CheckRedis() ServiceHealth {
	start := time.Now()
	err := h.dbManager.PingRedis()

	status := "healthy"
	errorMsg := ""
	if err != nil {
		status = "unhealthy"
		errorMsg = err.Error()
		h.logger.WithError(err).Error("Redis health check failed")
	}

	return ServiceHealth{
		Name:         "redis",
		Status:       status,
		ResponseTime: int(time.Since(start).Milliseconds()),
		Error:        errorMsg,
		LastChecked:  time.Now().Format(time.RFC3339),
	}
}

// CheckAll performs health checks on all configured collaborators.
func (h *Checker) CheckAll(ctx context.Context) OverallHealth {
	services := []ServiceHealth{
		h.CheckFacilitator(ctx),
	}

	if h.dbManager != nil {
		services = append(services, h.CheckDatabase(), h.CheckRedis())
	}

	overallStatus := "healthy"
	for _, service := range services {
		if service.Status == "unhealthy" {
			// An unreachable facilitator means no paid requests can clear.
			if service.Name == "facilitator" {
				overallStatus = "unhealthy"
				break
			}
			overallStatus = "degraded"
		}
	}

	return OverallHealth{
		Status:   overallStatus,
		Services: services,
		Uptime:   time.Since(startTime).String(),
	}
}

var startTime = time.Now()

// PeriodicHealthCheck runs health checks periodically
func (h *Checker) PeriodicHealthCheck(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			overall := h.CheckAll(ctx)
			h.logger.WithField("status", overall.Status).Debug("Periodic health check completed")
		}
	}
}
