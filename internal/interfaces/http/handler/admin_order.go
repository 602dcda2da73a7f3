package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/application/trade"
	domaintrade "github.com/storefront/backend/internal/domain/trade"
)

// AdminOrderHandler serves the back-office order screens
type AdminOrderHandler struct {
	BaseHandler
	orderService *trade.OrderService
}

// NewAdminOrderHandler creates a new AdminOrderHandler
func NewAdminOrderHandler(orderService *trade.OrderService) *AdminOrderHandler {
	return &AdminOrderHandler{orderService: orderService}
}

// List godoc
// @Summary      List orders (admin)
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        status    query string false "pending, in_progress, completed or cancelled"
// @Param        startDate query string false "YYYY-MM-DD"
// @Param        endDate   query string false "YYYY-MM-DD, inclusive"
// @Param        limit     query int    false "Page size" default(50)
// @Param        offset    query int    false "Offset"
// @Success      200 {object} dto.Response{data=[]trade.OrderResponse,meta=dto.Meta}
// @Router       /admin/orders [get]
func (h *AdminOrderHandler) List(c *gin.Context) {
	var filter trade.OrderListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindingError(c, err)
		return
	}

	orders, total, err := h.orderService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page := domaintrade.OrderFilter{Limit: filter.Limit, Offset: filter.Offset}.Normalized()
	h.SuccessWithMeta(c, orders, total, page.Limit, page.Offset)
}

// Get returns any order by id
// @Router /admin/orders/{id} [get]
func (h *AdminOrderHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	order, err := h.orderService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// UpdateStatus godoc
// @Summary      Move an order through its status workflow (admin)
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /admin/orders/{id}/status [put]
func (h *AdminOrderHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req trade.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	order, err := h.orderService.UpdateStatus(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// Delete removes an order with its items and design elements
// @Router /admin/orders/{id} [delete]
func (h *AdminOrderHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.orderService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Stats returns the dashboard counters
// @Router /admin/stats [get]
func (h *AdminOrderHandler) Stats(c *gin.Context) {
	stats, err := h.orderService.Stats(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stats)
}

// Revenue returns revenue per day, oldest first
// @Router /admin/analytics/revenue [get]
func (h *AdminOrderHandler) Revenue(c *gin.Context) {
	rows, err := h.orderService.RevenueByDay(c.Request.Context(), queryLimit(c, trade.DefaultRevenueDays))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rows)
}

// TopProducts returns the best sellers by quantity
// @Router /admin/analytics/products [get]
func (h *AdminOrderHandler) TopProducts(c *gin.Context) {
	rows, err := h.orderService.TopProducts(c.Request.Context(), queryLimit(c, trade.DefaultTopProducts))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rows)
}

// WhatsApp builds the wa.me handoff link for an order
// @Router /admin/orders/{id}/whatsapp [post]
func (h *AdminOrderHandler) WhatsApp(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	link, err := h.orderService.WhatsAppLink(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, link)
}

func queryLimit(c *gin.Context, def int) int {
	n, err := strconv.Atoi(c.Query("limit"))
	if err != nil || n <= 0 {
		return def
	}
	return n
}
