package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pageza/foodflow/backend/internal/service"
	"github.com/pageza/foodflow/backend/internal/types"
)

const defaultExpiringDays = 7

type ProductHandler struct {
	productService service.IProductService
}

func NewProductHandler(productService service.IProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

func (h *ProductHandler) RegisterRoutes(router *gin.RouterGroup) {
	products := router.Group("/products")
	{
		products.GET("", h.ListProducts)
		products.POST("", h.AddProduct)
		products.GET("/expiring", h.ExpiringProducts)
		products.GET("/low-stock", h.LowStockProducts)
		products.GET("/:id", h.GetProduct)
		products.PUT("/:id", h.UpdateProduct)
		products.DELETE("/:id", h.DeleteProduct)
		products.POST("/:id/waste", h.WasteProduct)
	}
}

func (h *ProductHandler) ListProducts(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	filter := service.ProductFilter{
		Category:      c.Query("category"),
		IncludeWasted: c.Query("include_wasted") == "true",
	}
	products, err := h.productService.ListProducts(c.Request.Context(), userID, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "", products)
}

func (h *ProductHandler) AddProduct(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req types.CreateProductRequest
	if !bindJSON(c, &req) {
		return
	}

	product, err := h.productService.AddProduct(c.Request.Context(), userID, service.ProductInput{
		Name:        req.Name,
		Quantity:    req.Quantity,
		Unit:        req.Unit,
		Category:    req.Category,
		ExpiryDate:  req.ExpiryDate.Time,
		MinQuantity: req.MinQuantity,
		IsShared:    req.IsShared,
		Allergens:   req.Allergens,
		Notes:       req.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, "Product added", product)
}

func (h *ProductHandler) GetProduct(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	productID, ok := idParam(c, "id")
	if !ok {
		return
	}
	product, err := h.productService.GetProduct(c.Request.Context(), userID, productID)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "", product)
}

func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	productID, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req types.UpdateProductRequest
	if !bindJSON(c, &req) {
		return
	}

	upd := service.ProductUpdate{
		Name:        req.Name,
		Quantity:    req.Quantity,
		Unit:        req.Unit,
		Category:    req.Category,
		MinQuantity: req.MinQuantity,
		IsShared:    req.IsShared,
		Allergens:   req.Allergens,
		Notes:       req.Notes,
	}
	if req.ExpiryDate != nil {
		expiry := req.ExpiryDate.Time
		upd.ExpiryDate = &expiry
	}

	product, err := h.productService.UpdateProduct(c.Request.Context(), userID, productID, upd)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Product updated", product)
}

func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	productID, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.productService.DeleteProduct(c.Request.Context(), userID, productID); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Product deleted", nil)
}

func (h *ProductHandler) WasteProduct(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	productID, ok := idParam(c, "id")
	if !ok {
		return
	}
	req := types.WasteProductRequest{WastePercentage: 100}
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}

	result, err := h.productService.WasteProduct(c.Request.Context(), userID, productID, req.WastePercentage)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Waste recorded", result)
}

func (h *ProductHandler) ExpiringProducts(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	days, ok := intQuery(c, "days", defaultExpiringDays)
	if !ok {
		return
	}
	products, err := h.productService.ExpiringProducts(c.Request.Context(), userID, days)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "", products)
}

func (h *ProductHandler) LowStockProducts(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	products, err := h.productService.LowStockProducts(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "", products)
}
