// internal/handlers/customer.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/shopworks/storefront/internal/services"
	"github.com/shopworks/storefront/internal/utils"
)

type CustomerHandler struct {
	customerService *services.CustomerService
}

func NewCustomerHandler(customerService *services.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: customerService}
}

// GET /customers/me
//
// First access creates the customer profile with defaults, so this
// never 404s for an authenticated caller.
func (h *CustomerHandler) GetMe(c *gin.Context) {
	principalID, ok := principalFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	customer, err := h.customerService.ResolveByPrincipal(principalID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"customer": customer,
	})
}

// PUT /customers/me
func (h *CustomerHandler) UpdateMe(c *gin.Context) {
	principalID, ok := principalFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req services.UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "invalid input", err.Error())
		return
	}

	customer, err := h.customerService.UpdateByPrincipal(principalID, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"customer": customer,
	})
}

// GET /customers (staff only)
func (h *CustomerHandler) GetCustomers(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	customers, total, err := h.customerService.ListCustomers(params)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	result := utils.CreatePaginationResult(customers, total, params)
	utils.PaginatedResponse(c, result)
}

// GET /customers/:id (staff only)
func (h *CustomerHandler) GetCustomer(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	customer, err := h.customerService.GetCustomer(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"customer": customer,
	})
}

// GET /customers/me/addresses
func (h *CustomerHandler) GetAddresses(c *gin.Context) {
	principalID, ok := principalFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	addresses, err := h.customerService.ListAddresses(principalID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"addresses": addresses,
	})
}

// POST /customers/me/addresses
func (h *CustomerHandler) AddAddress(c *gin.Context) {
	principalID, ok := principalFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req services.AddAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "invalid input", err.Error())
		return
	}

	address, err := h.customerService.AddAddress(principalID, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"address": address,
	})
}
