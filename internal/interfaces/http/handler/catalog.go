package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/application/catalog"
)

// CatalogHandler serves categories, products and price quotes
type CatalogHandler struct {
	BaseHandler
	categoryService *catalog.CategoryService
	productService  *catalog.ProductService
	pricingService  *catalog.PricingService
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(
	categoryService *catalog.CategoryService,
	productService *catalog.ProductService,
	pricingService *catalog.PricingService,
) *CatalogHandler {
	return &CatalogHandler{
		categoryService: categoryService,
		productService:  productService,
		pricingService:  pricingService,
	}
}

// ListCategories godoc
// @Summary      List product categories
// @Tags         catalog
// @Produce      json
// @Success      200 {object} dto.Response{data=[]catalog.CategoryResponse}
// @Router       /products/categories [get]
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	categories, err := h.categoryService.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, categories)
}

// ListProducts godoc
// @Summary      List products, optionally within one category
// @Tags         catalog
// @Produce      json
// @Param        category query string false "Category slug"
// @Success      200 {object} dto.Response{data=[]catalog.ProductListItemResponse}
// @Router       /products [get]
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	products, err := h.productService.List(c.Request.Context(), c.Query("category"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, products)
}

// GetProduct godoc
// @Summary      Product with views, variants and price tiers
// @Tags         catalog
// @Produce      json
// @Param        id path string true "Product ID"
// @Success      200 {object} dto.Response{data=catalog.ProductResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /products/{id} [get]
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	product, err := h.productService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// Quote godoc
// @Summary      Price preview for a size, colour and quantity
// @Tags         catalog
// @Produce      json
// @Param        id       path  string true  "Product ID"
// @Param        quantity query int    true  "Quantity"
// @Param        size     query string false "Size"
// @Param        color    query string false "Colour"
// @Success      200 {object} dto.Response{data=catalog.QuoteResponse}
// @Router       /products/{id}/quote [get]
func (h *CatalogHandler) Quote(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req catalog.QuoteRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	quote, err := h.pricingService.Quote(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, quote)
}

// CreateProduct godoc
// @Summary      Create a product (admin)
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Success      201 {object} dto.Response{data=catalog.ProductResponse}
// @Router       /admin/products [post]
func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	var req catalog.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}
	product, err := h.productService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, product)
}

// ListAdminProducts godoc
// @Summary      List every product, inactive ones included (admin)
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.Response{data=[]catalog.ProductResponse}
// @Router       /admin/products [get]
func (h *CatalogHandler) ListAdminProducts(c *gin.Context) {
	products, err := h.productService.ListAll(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, products)
}

// UpdateProduct godoc
// @Summary      Update a product with its views, variants and price tiers (admin)
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.Response{data=catalog.ProductResponse}
// @Router       /admin/products/{id} [put]
func (h *CatalogHandler) UpdateProduct(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req catalog.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}
	product, err := h.productService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// DeleteProduct godoc
// @Summary      Delete a product that no order references (admin)
// @Tags         admin
// @Security     BearerAuth
// @Router       /admin/products/{id} [delete]
func (h *CatalogHandler) DeleteProduct(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.productService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
