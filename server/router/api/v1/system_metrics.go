package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hrygo/vnchrono/plugin/cache"
	"github.com/hrygo/vnchrono/plugin/metrics"
)

// MetricsOverviewResponse represents the overview response of system metrics
type MetricsOverviewResponse struct {
	*metrics.Overview
	Cache *cache.Stats `json:"cache,omitempty"`
}

// GetMetricsOverview returns the recorded recognizer and endpoint metrics.
// GET /api/v1/system/metrics/overview
func (s *APIV1Service) GetMetricsOverview(c echo.Context) error {
	resp := MetricsOverviewResponse{Overview: s.Metrics.Snapshot()}
	if s.Cache != nil {
		stats := s.Cache.Stats()
		resp.Cache = &stats
	}
	return c.JSON(http.StatusOK, resp)
}
