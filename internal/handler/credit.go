package handler

import (
	"net/http"

	"github.com/JUNIORPRUEVA/FULLTECHAPPPROYECTO-sub000/internal/apierror"
	"github.com/JUNIORPRUEVA/FULLTECHAPPPROYECTO-sub000/internal/dto"
	"github.com/JUNIORPRUEVA/FULLTECHAPPPROYECTO-sub000/internal/middleware"
	"github.com/JUNIORPRUEVA/FULLTECHAPPPROYECTO-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

type CreditHandler struct{ svc service.CreditService }

func NewCreditHandler(svc service.CreditService) *CreditHandler { return &CreditHandler{svc: svc} }

func (h *CreditHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), middleware.GetActor(c), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// List godoc
// @Summary      List credit accounts
// @Tags         credit
// @Produce      json
// @Security     BearerAuth
// @Param        status query string false "OPEN | PARTIAL | PAID | OVERDUE"
// @Success      200    {object} dto.CreditListResponse
// @Router       /v1/credit [get]
func (h *CreditHandler) List(c *gin.Context) {
	var filter dto.CreditFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.BadRequest(apierror.CodeValidation, err.Error()))
		return
	}
	resp, err := h.svc.List(c.Request.Context(), middleware.GetActor(c), filter)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RegisterPayment godoc
// @Summary      Register a payment against a credit account
// @Description  Applies a partial or final payment. Overpayment is rejected.
// @Tags         credit
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                   true "Credit account UUID"
// @Param        body body dto.CreditPaymentRequest true "Payment"
// @Success      200  {object} dto.CreditAccountResponse
// @Router       /v1/credit/{id}/payments [post]
func (h *CreditHandler) RegisterPayment(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.CreditPaymentRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RegisterPayment(c.Request.Context(), middleware.GetActor(c), id, req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
