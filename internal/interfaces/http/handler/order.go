package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	appdesign "github.com/storefront/backend/internal/application/design"
	"github.com/storefront/backend/internal/application/trade"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// Multipart field names of a checkout submission
const (
	FieldDesignImages = "designImages"
	FieldPreviewImage = "previewImage"
	FieldItems        = "items"
	AssetPartPrefix   = "asset:"
)

// checkoutBody is the JSON form of a checkout, used when no files are attached
type checkoutBody struct {
	CustomerName     string          `json:"customerName"`
	CustomerEmail    string          `json:"customerEmail"`
	CustomerPhone    string          `json:"customerPhone"`
	DeliveryAddress  string          `json:"deliveryAddress"`
	DeliveryCity     string          `json:"deliveryCity"`
	DeliveryPostcode string          `json:"deliveryPostcode"`
	OrderNotes       string          `json:"orderNotes"`
	Notes            string          `json:"notes"`
	Items            json.RawMessage `json:"items"`
}

// OrderHandler handles checkout and the customer's own orders
type OrderHandler struct {
	BaseHandler
	materializer *trade.OrderMaterializer
	orderService *trade.OrderService
	draftService *appdesign.DraftService
}

// NewOrderHandler creates a new OrderHandler. draftService may be nil.
func NewOrderHandler(
	materializer *trade.OrderMaterializer,
	orderService *trade.OrderService,
	draftService *appdesign.DraftService,
) *OrderHandler {
	return &OrderHandler{
		materializer: materializer,
		orderService: orderService,
		draftService: draftService,
	}
}

// CreateOrder godoc
// @Summary      Place an order
// @Description  Accepts multipart/form-data with text fields, an items JSON string, designImages,
// @Description  previewImage and asset:<token> parts, or a plain JSON body without files.
// @Tags         orders
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Success      201 {object} dto.Response{data=trade.CreateOrderResult}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /orders [post]
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var (
		cmd trade.CreateOrderCommand
		err error
	)
	if strings.HasPrefix(c.ContentType(), gin.MIMEMultipartPOSTForm) {
		cmd, err = commandFromMultipart(c)
	} else {
		cmd, err = commandFromJSON(c)
	}
	if err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, err.Error())
		return
	}

	if userID, idErr := getUserID(c); idErr == nil {
		cmd.UserID = &userID
	}

	result, err := h.materializer.CreateOrder(c.Request.Context(), cmd)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if owner := middleware.GetJWTUserID(c); owner != "" && h.draftService != nil {
		if clearErr := h.draftService.Clear(c.Request.Context(), owner); clearErr != nil {
			logger.GetGinLogger(c).Warn("failed to clear checkout draft",
				zap.String("order_number", result.OrderNumber), zap.Error(clearErr))
		}
	}
	h.Created(c, result)
}

func commandFromJSON(c *gin.Context) (trade.CreateOrderCommand, error) {
	var body checkoutBody
	if err := c.ShouldBindJSON(&body); err != nil {
		return trade.CreateOrderCommand{}, errInvalidBody
	}
	notes := body.OrderNotes
	if notes == "" {
		notes = body.Notes
	}
	return trade.CreateOrderCommand{
		CustomerName:     body.CustomerName,
		CustomerEmail:    body.CustomerEmail,
		CustomerPhone:    body.CustomerPhone,
		DeliveryAddress:  body.DeliveryAddress,
		DeliveryCity:     body.DeliveryCity,
		DeliveryPostcode: body.DeliveryPostcode,
		Notes:            notes,
		Items:            body.Items,
	}, nil
}

func commandFromMultipart(c *gin.Context) (trade.CreateOrderCommand, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return trade.CreateOrderCommand{}, errInvalidBody
	}
	value := func(name string) string {
		if v := form.Value[name]; len(v) > 0 {
			return v[0]
		}
		return ""
	}

	notes := value("orderNotes")
	if notes == "" {
		notes = value("notes")
	}
	cmd := trade.CreateOrderCommand{
		CustomerName:     value("customerName"),
		CustomerEmail:    value("customerEmail"),
		CustomerPhone:    value("customerPhone"),
		DeliveryAddress:  value("deliveryAddress"),
		DeliveryCity:     value("deliveryCity"),
		DeliveryPostcode: value("deliveryPostcode"),
		Notes:            notes,
	}
	if items := value(FieldItems); items != "" {
		cmd.Items = json.RawMessage(items)
	}

	for name, files := range form.File {
		switch {
		case name == FieldDesignImages:
			for _, fh := range files {
				asset, readErr := readAsset(fh)
				if readErr != nil {
					return trade.CreateOrderCommand{}, readErr
				}
				cmd.DesignImages = append(cmd.DesignImages, asset)
			}
		case name == FieldPreviewImage && len(files) > 0:
			asset, readErr := readAsset(files[0])
			if readErr != nil {
				return trade.CreateOrderCommand{}, readErr
			}
			cmd.Preview = &asset
		case strings.HasPrefix(name, AssetPartPrefix) && len(files) > 0:
			asset, readErr := readAsset(files[0])
			if readErr != nil {
				return trade.CreateOrderCommand{}, readErr
			}
			if cmd.TokenAssets == nil {
				cmd.TokenAssets = make(map[string]appdesign.Asset)
			}
			cmd.TokenAssets[strings.TrimPrefix(name, AssetPartPrefix)] = asset
		}
	}
	return cmd, nil
}

// ListMyOrders godoc
// @Summary      The caller's orders, newest first
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Router       /user/orders [get]
func (h *OrderHandler) ListMyOrders(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	orders, err := h.orderService.ListForUser(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, orders)
}

// GetMyOrder returns one of the caller's orders
// @Router /user/orders/{id} [get]
func (h *OrderHandler) GetMyOrder(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	order, err := h.orderService.GetForUser(c.Request.Context(), userID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}
