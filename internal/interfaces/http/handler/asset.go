package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	assetapp "github.com/rwbiz/backend/internal/application/asset"
)

// AssetHandler handles the fixed asset register endpoints
type AssetHandler struct {
	BaseHandler
	assetService *assetapp.AssetService
}

// NewAssetHandler creates a new AssetHandler
func NewAssetHandler(assetService *assetapp.AssetService) *AssetHandler {
	return &AssetHandler{
		assetService: assetService,
	}
}

// Create godoc
// @ID           createAsset
// @Summary      Register a fixed asset
// @Tags         assets
// @Accept       json
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        request body assetapp.AssetRequest true "Asset"
// @Success      201 {object} APIResponse[assetapp.AssetResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /assets [post]
func (h *AssetHandler) Create(c *gin.Context) {
	a, ok := h.requireActor(c)
	if !ok {
		return
	}
	var req assetapp.AssetRequest
	if !h.bindJSON(c, &req) {
		return
	}

	asset, err := h.assetService.Create(c.Request.Context(), a, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, "Asset registered", asset)
}

// List godoc
// @ID           listAssets
// @Summary      List fixed assets
// @Tags         assets
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Param        search query string false "Name"
// @Param        asset_class query string false "Asset class"
// @Param        status query string false "Status" Enums(ACTIVE, DISPOSED)
// @Success      200 {object} APIResponse[[]assetapp.AssetResponse]
// @Security     BearerAuth
// @Router       /assets [get]
func (h *AssetHandler) List(c *gin.Context) {
	a, ok := h.requireActor(c)
	if !ok {
		return
	}
	var req assetapp.ListAssetsRequest
	if !h.bindQuery(c, &req) {
		return
	}

	items, total, err := h.assetService.List(c.Request.Context(), a, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, "Assets retrieved", items, total, req.Page, req.PageSize)
}

// Preview godoc
// @ID           previewAssetSchedule
// @Summary      Preview a depreciation schedule
// @Description  Compute the schedule of an asset without saving it
// @Tags         assets
// @Accept       json
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        request body assetapp.AssetRequest true "Asset"
// @Success      200 {object} APIResponse[assetapp.ScheduleResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /assets/preview [post]
func (h *AssetHandler) Preview(c *gin.Context) {
	var req assetapp.AssetRequest
	if !h.bindJSON(c, &req) {
		return
	}

	schedule, err := h.assetService.Preview(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, "Schedule computed", schedule)
}

// Depreciation godoc
// @ID           assetDepreciation
// @Summary      Depreciation charge of a year
// @Tags         assets
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        year query int false "Year, defaults to the current year"
// @Success      200 {object} APIResponse[assetapp.DepreciationResponse]
// @Security     BearerAuth
// @Router       /assets/depreciation [get]
func (h *AssetHandler) Depreciation(c *gin.Context) {
	a, ok := h.requireActor(c)
	if !ok {
		return
	}
	year, ok := h.queryInt(c, "year", time.Now().UTC().Year())
	if !ok {
		return
	}

	dep, err := h.assetService.Depreciation(c.Request.Context(), a, year)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, "Depreciation retrieved", dep)
}

// Get godoc
// @ID           getAsset
// @Summary      Get a fixed asset
// @Tags         assets
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        id path string true "Asset ID" format(uuid)
// @Success      200 {object} APIResponse[assetapp.AssetResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /assets/{id} [get]
func (h *AssetHandler) Get(c *gin.Context) {
	a, ok := h.requireActor(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id", "asset")
	if !ok {
		return
	}

	asset, err := h.assetService.Get(c.Request.Context(), a, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, "Asset retrieved", asset)
}

// Update godoc
// @ID           updateAsset
// @Summary      Update a fixed asset
// @Tags         assets
// @Accept       json
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        id path string true "Asset ID" format(uuid)
// @Param        request body assetapp.AssetRequest true "Asset"
// @Success      200 {object} APIResponse[assetapp.AssetResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /assets/{id} [put]
func (h *AssetHandler) Update(c *gin.Context) {
	a, ok := h.requireActor(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id", "asset")
	if !ok {
		return
	}
	var req assetapp.AssetRequest
	if !h.bindJSON(c, &req) {
		return
	}

	asset, err := h.assetService.Update(c.Request.Context(), a, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, "Asset updated", asset)
}

// Dispose godoc
// @ID           disposeAsset
// @Summary      Dispose of a fixed asset
// @Tags         assets
// @Accept       json
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        id path string true "Asset ID" format(uuid)
// @Param        request body assetapp.DisposeRequest true "Disposal"
// @Success      200 {object} APIResponse[assetapp.AssetResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /assets/{id}/dispose [post]
func (h *AssetHandler) Dispose(c *gin.Context) {
	a, ok := h.requireActor(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id", "asset")
	if !ok {
		return
	}
	var req assetapp.DisposeRequest
	if !h.bindJSON(c, &req) {
		return
	}

	asset, err := h.assetService.Dispose(c.Request.Context(), a, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, "Asset disposed", asset)
}

// Schedule godoc
// @ID           getAssetSchedule
// @Summary      Depreciation schedule of an asset
// @Tags         assets
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        id path string true "Asset ID" format(uuid)
// @Success      200 {object} APIResponse[assetapp.ScheduleResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /assets/{id}/schedule [get]
func (h *AssetHandler) Schedule(c *gin.Context) {
	a, ok := h.requireActor(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id", "asset")
	if !ok {
		return
	}

	schedule, err := h.assetService.Schedule(c.Request.Context(), a, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, "Schedule retrieved", schedule)
}

// Delete godoc
// @ID           deleteAsset
// @Summary      Delete a fixed asset
// @Tags         assets
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        id path string true "Asset ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /assets/{id} [delete]
func (h *AssetHandler) Delete(c *gin.Context) {
	a, ok := h.requireActor(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id", "asset")
	if !ok {
		return
	}

	if err := h.assetService.Delete(c.Request.Context(), a, id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
