package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pageza/foodflow/backend/internal/service"
)

type AnalyticsHandler struct {
	analyticsService service.IAnalyticsService
	reportService    service.IReportService
}

func NewAnalyticsHandler(analyticsService service.IAnalyticsService, reportService service.IReportService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService, reportService: reportService}
}

func (h *AnalyticsHandler) RegisterRoutes(router *gin.RouterGroup) {
	analytics := router.Group("/analytics")
	{
		analytics.GET("", h.Summary)
		analytics.GET("/waste-score", h.WasteScore)
		analytics.GET("/weekly-report", h.WeeklyReport)
		analytics.POST("/weekly-report/export", h.ExportWeeklyReport)
	}
}

func (h *AnalyticsHandler) Summary(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	days, ok := intQuery(c, "days", 30)
	if !ok {
		return
	}
	summary, err := h.analyticsService.Summary(c.Request.Context(), userID, days)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "", summary)
}

func (h *AnalyticsHandler) WasteScore(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	days, ok := intQuery(c, "days", 30)
	if !ok {
		return
	}
	score, err := h.analyticsService.WasteScore(c.Request.Context(), userID, days)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "", score)
}

func (h *AnalyticsHandler) WeeklyReport(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	end, ok := dateQuery(c, "end")
	if !ok {
		return
	}
	report, err := h.analyticsService.WeeklyReport(c.Request.Context(), userID, end)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "", report)
}

func (h *AnalyticsHandler) ExportWeeklyReport(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	exported, err := h.reportService.ExportWeeklyReport(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, "Report exported", exported)
}
