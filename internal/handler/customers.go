package handler

import (
	"net/http"

	"github.com/JUNIORPRUEVA/FULLTECHAPPPROYECTO-sub000/internal/apierror"
	"github.com/JUNIORPRUEVA/FULLTECHAPPPROYECTO-sub000/internal/dto"
	"github.com/JUNIORPRUEVA/FULLTECHAPPPROYECTO-sub000/internal/middleware"
	"github.com/JUNIORPRUEVA/FULLTECHAPPPROYECTO-sub000/internal/model"
	"github.com/JUNIORPRUEVA/FULLTECHAPPPROYECTO-sub000/internal/repository"

	"github.com/gin-gonic/gin"
)

// CustomersHandler works against the repository directly; customer CRUD has
// no business rules beyond scoping.
type CustomersHandler struct{ repo repository.CustomerRepository }

func NewCustomersHandler(repo repository.CustomerRepository) *CustomersHandler {
	return &CustomersHandler{repo: repo}
}

// Create godoc
// @Summary      Create a customer
// @Tags         customers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateCustomerRequest true "Customer detail"
// @Success      201  {object} dto.CustomerResponse
// @Router       /v1/customers [post]
func (h *CustomersHandler) Create(c *gin.Context) {
	var req dto.CreateCustomerRequest
	if !bindAndValidate(c, &req) {
		return
	}
	actor := middleware.GetActor(c)
	customer := model.Customer{
		CompanyID: actor.CompanyID,
		Name:      req.Name,
		RNC:       req.RNC,
		Phone:     req.Phone,
		Email:     req.Email,
		Active:    true,
	}
	if err := h.repo.Create(c.Request.Context(), &customer); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, customerToResponse(&customer))
}

func (h *CustomersHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	customer, err := h.repo.FindByID(c.Request.Context(), middleware.GetActor(c).CompanyID, id)
	if err != nil {
		respondErr(c, apierror.NotFound("customer not found"))
		return
	}
	c.JSON(http.StatusOK, customerToResponse(customer))
}

func (h *CustomersHandler) List(c *gin.Context) {
	customers, err := h.repo.List(c.Request.Context(), middleware.GetActor(c).CompanyID, c.Query("name"))
	if err != nil {
		respondErr(c, err)
		return
	}
	out := make([]dto.CustomerResponse, 0, len(customers))
	for i := range customers {
		out = append(out, customerToResponse(&customers[i]))
	}
	c.JSON(http.StatusOK, out)
}

func customerToResponse(customer *model.Customer) dto.CustomerResponse {
	return dto.CustomerResponse{
		ID:    customer.ID.String(),
		Name:  customer.Name,
		RNC:   customer.RNC,
		Phone: customer.Phone,
		Email: customer.Email,
	}
}
