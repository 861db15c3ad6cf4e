package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pageza/foodflow/backend/internal/service"
	"github.com/pageza/foodflow/backend/internal/types"
)

type FamilyHandler struct {
	familyService service.IFamilyService
}

func NewFamilyHandler(familyService service.IFamilyService) *FamilyHandler {
	return &FamilyHandler{familyService: familyService}
}

func (h *FamilyHandler) RegisterRoutes(router *gin.RouterGroup) {
	families := router.Group("/families")
	{
		families.GET("", h.ListFamilies)
		families.POST("", h.CreateFamily)
		families.POST("/join", h.JoinFamily)
		families.GET("/:id/members", h.Members)
		families.DELETE("/:id/membership", h.LeaveFamily)
	}
}

func (h *FamilyHandler) ListFamilies(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	families, err := h.familyService.ListFamilies(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "", families)
}

func (h *FamilyHandler) CreateFamily(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req types.CreateFamilyRequest
	if !bindJSON(c, &req) {
		return
	}
	family, err := h.familyService.CreateFamily(c.Request.Context(), userID, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, "Family created", family)
}

func (h *FamilyHandler) JoinFamily(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req types.JoinFamilyRequest
	if !bindJSON(c, &req) {
		return
	}
	family, err := h.familyService.JoinFamily(c.Request.Context(), userID, req.FamilyCode)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Joined family "+family.Name, family)
}

func (h *FamilyHandler) Members(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	familyID, ok := idParam(c, "id")
	if !ok {
		return
	}
	members, err := h.familyService.Members(c.Request.Context(), userID, familyID)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "", members)
}

func (h *FamilyHandler) LeaveFamily(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	familyID, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.familyService.LeaveFamily(c.Request.Context(), userID, familyID); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Left family", nil)
}
