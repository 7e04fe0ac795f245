package handlers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/theo45530/commerceai-pro/pkg/middleware"
	"github.com/theo45530/commerceai-pro/pkg/models"
)

const analyticsDateLayout = "2006-01-02"

// defaultAnalyticsWindow is the range used when the caller pins no dates
const defaultAnalyticsWindow = 30 * 24 * time.Hour

// GetPlatformAnalytics fetches account-level metrics for a date range and
// keeps the latest numbers per platform and range.
func GetPlatformAnalytics(c middleware.Context) {
	platform := c.Param("platform")

	endDate := c.Query("end_date")
	if endDate == "" {
		endDate = time.Now().UTC().Format(analyticsDateLayout)
	}
	startDate := c.Query("start_date")
	if startDate == "" {
		startDate = time.Now().UTC().Add(-defaultAnalyticsWindow).Format(analyticsDateLayout)
	}
	for _, date := range []string{startDate, endDate} {
		if _, err := time.Parse(analyticsDateLayout, date); err != nil {
			c.JSON(http.StatusBadRequest, middleware.H{"error": "Dates must use the YYYY-MM-DD format"})
			return
		}
	}

	connectorID, ok := connectorFor(c, platform)
	if !ok {
		return
	}

	analytics, err := gw.GetPlatformAnalytics(c.Request.Context(), platform, connectorID, startDate, endDate)
	if err != nil {
		logger.WithError(err).WithField("platform", platform).Error("Failed to fetch platform analytics")
		c.JSON(http.StatusBadGateway, middleware.H{"error": "Failed to fetch platform analytics"})
		return
	}

	snapshot := models.PlatformAnalytics{
		ID:        uuid.New().String(),
		Platform:  platform,
		StartDate: startDate,
		EndDate:   endDate,
		Analytics: analytics,
		FetchedAt: time.Now().UTC(),
	}
	if err := store.UpsertPlatformAnalytics(c.Request.Context(), snapshot); err != nil {
		logger.WithError(err).Warn("Failed to store analytics snapshot")
	}

	c.JSON(http.StatusOK, middleware.H{
		"platform":   platform,
		"start_date": startDate,
		"end_date":   endDate,
		"analytics":  analytics,
	})
}
