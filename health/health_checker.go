// Package health derives the service health from the state of the dataset.
package health

import (
	"math"
	"net/http"
	"time"

	"github.com/giygas/medicines-search/interfaces"
	"github.com/giygas/medicines-search/scheduler"
)

// HealthCheckerImpl implements the interfaces.HealthChecker interface
type HealthCheckerImpl struct {
	dataStore interfaces.DataStore
	reloadAt  string
	now       func() time.Time
}

// NewHealthChecker creates a new health checker. reloadAt is the reload
// schedule; data age only matters when reloads are enabled.
func NewHealthChecker(dataStore interfaces.DataStore, reloadAt string) interfaces.HealthChecker {
	return &HealthCheckerImpl{
		dataStore: dataStore,
		reloadAt:  reloadAt,
		now:       time.Now,
	}
}

// HealthCheck returns the status, the data details and the HTTP status code
// for the /health endpoint
func (h *HealthCheckerImpl) HealthCheck() (status string, data map[string]any, httpStatus int) {
	ds := h.dataStore.GetDataset()
	lastUpdate := h.dataStore.GetLastUpdated()
	isUpdating := h.dataStore.IsUpdating()

	dataAge := h.now().Sub(lastUpdate)
	reloads := h.reloadAt != ""

	switch {
	case ds == nil || ds.Len() == 0:
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable

	case reloads && dataAge > 48*time.Hour:
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable

	case reloads && dataAge > 24*time.Hour:
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable

	case isUpdating && dataAge > 6*time.Hour:
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable

	default:
		status = "healthy"
		httpStatus = http.StatusOK
	}

	data = map[string]any{
		"records":     ds.Len(),
		"generation":  h.dataStore.GetGeneration(),
		"source":      ds.Source(),
		"is_updating": isUpdating,
	}

	if !lastUpdate.IsZero() {
		data["last_update"] = lastUpdate.Format(time.RFC3339)
		data["data_age_hours"] = math.Round(dataAge.Hours()*10) / 10
	}

	if report := h.dataStore.GetDataQualityReport(); report != nil {
		data["records_without_name"] = report.RecordsWithoutName
		data["duplicate_names"] = len(report.DuplicateNames)
		data["missing_columns"] = report.MissingColumns
	}

	return status, data, httpStatus
}

// CalculateNextUpdate returns the next scheduled reload, zero when reloads
// are disabled
func (h *HealthCheckerImpl) CalculateNextUpdate() time.Time {
	return scheduler.NextUpdate(h.reloadAt, h.now())
}
