package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pageza/foodflow/backend/internal/service"
)

type GamificationHandler struct {
	gamificationService service.IGamificationService
}

func NewGamificationHandler(gamificationService service.IGamificationService) *GamificationHandler {
	return &GamificationHandler{gamificationService: gamificationService}
}

func (h *GamificationHandler) RegisterRoutes(router *gin.RouterGroup) {
	g := router.Group("/gamification")
	{
		g.GET("/stats", h.GetStats)
		g.GET("/leaderboard", h.Leaderboard)
		g.GET("/badges", h.ListBadges)
	}
}

func (h *GamificationHandler) GetStats(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	overview, err := h.gamificationService.GetStats(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "", overview)
}

func (h *GamificationHandler) Leaderboard(c *gin.Context) {
	topN, ok := intQuery(c, "limit", 10)
	if !ok {
		return
	}
	metric := c.DefaultQuery("metric", service.MetricPoints)
	board, err := h.gamificationService.Leaderboard(c.Request.Context(), metric, topN, c.Query("timeframe"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "", board)
}

func (h *GamificationHandler) ListBadges(c *gin.Context) {
	badges, err := h.gamificationService.ListBadges(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "", badges)
}
