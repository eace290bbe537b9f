package handlers

import (
	"fmt"
	"net/http"
	"time"

	analyticsSvc "barangaylink/services/analytics"
	"barangaylink/utils"

	"github.com/gin-gonic/gin"
)

// AnalyticsHandler serves the admin dashboard KPIs and the downloadable
// report.
type AnalyticsHandler struct {
	Analytics analyticsSvc.AnalyticsService
}

func NewAnalyticsHandler(analytics analyticsSvc.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{Analytics: analytics}
}

// OverviewHandler returns the KPI map. Transport failures surface as
// zeroed counters, not errors.
func (h *AnalyticsHandler) OverviewHandler(c *gin.Context) {
	c.JSON(http.StatusOK, h.Analytics.Overview(c.Request.Context()))
}

// ReportHandler streams the rendered report as a download.
func (h *AnalyticsHandler) ReportHandler(c *gin.Context) {
	artifact, contentType, err := h.Analytics.Report(c.Request.Context())
	if err != nil {
		utils.JSONError(c, http.StatusBadGateway, "Failed to render report", err.Error())
		return
	}
	filename := fmt.Sprintf("barangay-report-%s.csv", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, contentType, artifact)
}
