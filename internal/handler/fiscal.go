package handler

import (
	"net/http"

	"github.com/JUNIORPRUEVA/FULLTECHAPPPROYECTO-sub000/internal/dto"
	"github.com/JUNIORPRUEVA/FULLTECHAPPPROYECTO-sub000/internal/middleware"
	"github.com/JUNIORPRUEVA/FULLTECHAPPPROYECTO-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

type FiscalHandler struct{ svc service.FiscalService }

func NewFiscalHandler(svc service.FiscalService) *FiscalHandler { return &FiscalHandler{svc: svc} }

// NextNCF godoc
// @Summary      Issue the next NCF
// @Description  Atomically increments the active sequence for the doc type and returns the formatted fiscal number. Issued numbers are never reused.
// @Tags         fiscal
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.NextNCFRequest true "Doc type"
// @Success      200  {object} dto.NextNCFResponse
// @Failure      400  {object} apierror.Error
// @Router       /v1/fiscal/next-ncf [post]
func (h *FiscalHandler) NextNCF(c *gin.Context) {
	var req dto.NextNCFRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.NextNCF(c.Request.Context(), middleware.GetActor(c), req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CreateSequence godoc
// @Summary      Register a fiscal sequence
// @Tags         fiscal
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateSequenceRequest true "Sequence detail"
// @Success      201  {object} dto.SequenceResponse
// @Router       /v1/fiscal/sequences [post]
func (h *FiscalHandler) CreateSequence(c *gin.Context) {
	var req dto.CreateSequenceRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateSequence(c.Request.Context(), middleware.GetActor(c), req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *FiscalHandler) ListSequences(c *gin.Context) {
	resp, err := h.svc.ListSequences(c.Request.Context(), middleware.GetActor(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
