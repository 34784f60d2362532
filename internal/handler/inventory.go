package handler

import (
	"net/http"

	"github.com/JUNIORPRUEVA/FULLTECHAPPPROYECTO-sub000/internal/apierror"
	"github.com/JUNIORPRUEVA/FULLTECHAPPPROYECTO-sub000/internal/dto"
	"github.com/JUNIORPRUEVA/FULLTECHAPPPROYECTO-sub000/internal/middleware"
	"github.com/JUNIORPRUEVA/FULLTECHAPPPROYECTO-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

type InventoryHandler struct{ svc service.InventoryService }

func NewInventoryHandler(svc service.InventoryService) *InventoryHandler {
	return &InventoryHandler{svc: svc}
}

// Adjust godoc
// @Summary      Manual stock adjustment
// @Description  Applies a signed stock correction under a row lock. A note is mandatory. Honors the product's allow_negative_stock flag.
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.AdjustStockRequest true "Adjustment"
// @Success      200  {object} dto.AdjustStockResponse
// @Failure      409  {object} apierror.Error
// @Router       /v1/inventory/adjust [post]
func (h *InventoryHandler) Adjust(c *gin.Context) {
	var req dto.AdjustStockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Adjust(c.Request.Context(), middleware.GetActor(c), req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Movements godoc
// @Summary      List stock movements
// @Description  The append-only audit trail, filterable by product and movement type.
// @Tags         inventory
// @Produce      json
// @Security     BearerAuth
// @Param        product_id query string false "Product UUID"
// @Param        ref_type   query string false "SALE | REFUND | PURCHASE_RECEIPT | ADJUSTMENT | CANCEL_RESTORE"
// @Success      200        {object} dto.MovementListResponse
// @Router       /v1/reports/stock-movements [get]
func (h *InventoryHandler) Movements(c *gin.Context) {
	var filter dto.MovementFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.BadRequest(apierror.CodeValidation, err.Error()))
		return
	}
	resp, err := h.svc.ListMovements(c.Request.Context(), middleware.GetActor(c), filter)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *InventoryHandler) LowStock(c *gin.Context) {
	resp, err := h.svc.LowStock(c.Request.Context(), middleware.GetActor(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
