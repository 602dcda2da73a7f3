package handler

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	appdesign "github.com/storefront/backend/internal/application/design"
	"github.com/storefront/backend/internal/domain/design"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

// DesignHandler serves the editor's shape library, image uploads and drafts
type DesignHandler struct {
	BaseHandler
	assetService *appdesign.AssetService
	draftService *appdesign.DraftService
}

// NewDesignHandler creates a new DesignHandler
func NewDesignHandler(assetService *appdesign.AssetService, draftService *appdesign.DraftService) *DesignHandler {
	return &DesignHandler{
		assetService: assetService,
		draftService: draftService,
	}
}

// ListShapes godoc
// @Summary      Built-in vector shapes
// @Tags         design
// @Produce      json
// @Success      200 {object} dto.Response{data=[]design.Shape}
// @Router       /design/shapes [get]
func (h *DesignHandler) ListShapes(c *gin.Context) {
	h.Success(c, design.Shapes())
}

// GetShape returns one built-in shape
func (h *DesignHandler) GetShape(c *gin.Context) {
	shape, ok := design.ShapeByID(c.Param("id"))
	if !ok {
		h.NotFound(c, "Shape not found")
		return
	}
	h.Success(c, shape)
}

// UploadAsset godoc
// @Summary      Upload a design image
// @Description  Stores the image and returns an upload element plus the asset token to reference at checkout
// @Tags         design
// @Accept       multipart/form-data
// @Produce      json
// @Param        image formData file true "PNG, JPEG, GIF or WebP image"
// @Success      201 {object} dto.Response{data=appdesign.AssetUploadResponse}
// @Router       /design/assets [post]
func (h *DesignHandler) UploadAsset(c *gin.Context) {
	fh, err := c.FormFile("image")
	if err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeValidation, "image file is required")
		return
	}
	asset, err := readAsset(fh)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.assetService.Upload(c.Request.Context(), asset)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// SaveDraft godoc
// @Summary      Replace the caller's pending design draft
// @Tags         design
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Router       /drafts/current [put]
func (h *DesignHandler) SaveDraft(c *gin.Context) {
	var req appdesign.SaveDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}
	draft, err := h.draftService.Save(c.Request.Context(), middleware.GetJWTUserID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, draft)
}

// GetDraft returns the caller's pending draft
// @Router /drafts/current [get]
func (h *DesignHandler) GetDraft(c *gin.Context) {
	draft, err := h.draftService.Load(c.Request.Context(), middleware.GetJWTUserID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, draft)
}

// ClearDraft discards the caller's pending draft
// @Router /drafts/current [delete]
func (h *DesignHandler) ClearDraft(c *gin.Context) {
	if err := h.draftService.Clear(c.Request.Context(), middleware.GetJWTUserID(c)); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// readAsset loads an uploaded part into memory
func readAsset(fh *multipart.FileHeader) (appdesign.Asset, error) {
	f, err := fh.Open()
	if err != nil {
		return appdesign.Asset{}, fmt.Errorf("cannot read %s", fh.Filename)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return appdesign.Asset{}, fmt.Errorf("cannot read %s", fh.Filename)
	}
	return appdesign.Asset{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}
