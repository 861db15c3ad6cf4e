package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pageza/foodflow/backend/internal/service"
	"github.com/pageza/foodflow/backend/internal/types"
)

type ShoppingHandler struct {
	shoppingService service.IShoppingService
}

func NewShoppingHandler(shoppingService service.IShoppingService) *ShoppingHandler {
	return &ShoppingHandler{shoppingService: shoppingService}
}

func (h *ShoppingHandler) RegisterRoutes(router *gin.RouterGroup) {
	lists := router.Group("/shopping-lists")
	{
		lists.GET("", h.ListLists)
		lists.POST("", h.CreateList)
		lists.GET("/suggestions", h.Suggestions)
		lists.GET("/:id", h.GetList)
		lists.DELETE("/:id", h.DeleteList)
		lists.POST("/:id/items", h.AddItem)
		lists.POST("/:id/complete", h.CompleteList)
	}

	items := router.Group("/shopping-items")
	{
		items.POST("/:id/toggle", h.ToggleItem)
		items.DELETE("/:id", h.DeleteItem)
	}
}

func (h *ShoppingHandler) ListLists(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	lists, err := h.shoppingService.ListLists(c.Request.Context(), userID, c.Query("include_completed") == "true")
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "", lists)
}

func (h *ShoppingHandler) CreateList(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req types.CreateShoppingListRequest
	if !bindJSON(c, &req) {
		return
	}

	list, err := h.shoppingService.CreateList(c.Request.Context(), userID, service.ShoppingListInput{
		Name:        req.Name,
		Description: req.Description,
		StoreName:   req.StoreName,
		Budget:      req.Budget,
		IsSmart:     req.IsSmart,
		IsTemplate:  req.IsTemplate,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, "Shopping list created", list)
}

func (h *ShoppingHandler) GetList(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	listID, ok := idParam(c, "id")
	if !ok {
		return
	}
	list, err := h.shoppingService.GetList(c.Request.Context(), userID, listID)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "", gin.H{
		"list":                list,
		"total_items":         list.TotalItems(),
		"completed_items":     list.CompletedItems(),
		"progress_percentage": list.ProgressPercentage(),
		"estimated_total":     list.EstimatedTotal(),
	})
}

func (h *ShoppingHandler) DeleteList(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	listID, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.shoppingService.DeleteList(c.Request.Context(), userID, listID); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Shopping list deleted", nil)
}

func (h *ShoppingHandler) AddItem(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	listID, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req types.AddShoppingItemRequest
	if !bindJSON(c, &req) {
		return
	}

	item, err := h.shoppingService.AddItem(c.Request.Context(), userID, listID, service.ShoppingItemInput{
		Name:           req.Name,
		Quantity:       req.Quantity,
		Unit:           req.Unit,
		Category:       req.Category,
		Priority:       req.Priority,
		EstimatedPrice: req.EstimatedPrice,
		Notes:          req.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, "Item added", item)
}

func (h *ShoppingHandler) ToggleItem(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	itemID, ok := idParam(c, "id")
	if !ok {
		return
	}
	item, err := h.shoppingService.ToggleItem(c.Request.Context(), userID, itemID)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "", item)
}

func (h *ShoppingHandler) DeleteItem(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	itemID, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.shoppingService.DeleteItem(c.Request.Context(), userID, itemID); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Item deleted", nil)
}

func (h *ShoppingHandler) CompleteList(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	listID, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req types.CompleteShoppingListRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}

	result, err := h.shoppingService.CompleteList(c.Request.Context(), userID, listID, req.ActualSpent)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Shopping completed", result)
}

func (h *ShoppingHandler) Suggestions(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	suggestions, err := h.shoppingService.SmartSuggestions(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "", suggestions)
}
