package handler

import (
	"net/http"

	"github.com/JUNIORPRUEVA/FULLTECHAPPPROYECTO-sub000/internal/apierror"
	"github.com/JUNIORPRUEVA/FULLTECHAPPPROYECTO-sub000/internal/dto"
	"github.com/JUNIORPRUEVA/FULLTECHAPPPROYECTO-sub000/internal/middleware"
	"github.com/JUNIORPRUEVA/FULLTECHAPPPROYECTO-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

type ReportsHandler struct{ svc service.ReportService }

func NewReportsHandler(svc service.ReportService) *ReportsHandler {
	return &ReportsHandler{svc: svc}
}

// SalesSummary godoc
// @Summary      Sales summary report
// @Description  Revenue, ITBIS, and discount totals over a date range, broken down by status and payment method.
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Param        from query string false "YYYY-MM-DD inclusive (default today)"
// @Param        to   query string false "YYYY-MM-DD inclusive (default today)"
// @Success      200  {object} dto.SalesSummaryResponse
// @Router       /v1/reports/sales-summary [get]
func (h *ReportsHandler) SalesSummary(c *gin.Context) {
	var r dto.ReportRange
	if err := c.ShouldBindQuery(&r); err != nil {
		c.JSON(http.StatusBadRequest, apierror.BadRequest(apierror.CodeValidation, err.Error()))
		return
	}
	resp, err := h.svc.SalesSummary(c.Request.Context(), middleware.GetActor(c), r)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ReportsHandler) LowStock(c *gin.Context) {
	resp, err := h.svc.LowStock(c.Request.Context(), middleware.GetActor(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
