package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	customerdomain "github.com/solobooks/solobooks/internal/customer/domain"
)

type createCustomerRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Notes   string `json:"notes"`
}

type updateCustomerRequest struct {
	Name    *string `json:"name"`
	Email   *string `json:"email"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
	Notes   *string `json:"notes"`
}

func (s *Server) CreateCustomer(c *gin.Context) {
	var req createCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.customerSvc.Create(c.Request.Context(), customerdomain.CreateCustomerRequest{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
		Notes:   req.Notes,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListCustomers(c *gin.Context) {
	resp, err := s.customerSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetCustomerByID(c *gin.Context) {
	id, err := parseSnowflakeParam(c.Param("id"))
	if err != nil {
		AbortWithError(c, customerdomain.ErrInvalidID)
		return
	}

	resp, err := s.customerSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateCustomer(c *gin.Context) {
	id, err := parseSnowflakeParam(c.Param("id"))
	if err != nil {
		AbortWithError(c, customerdomain.ErrInvalidID)
		return
	}

	var req updateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.customerSvc.Update(c.Request.Context(), id, customerdomain.UpdateCustomerRequest{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
		Notes:   req.Notes,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteCustomer(c *gin.Context) {
	id, err := parseSnowflakeParam(c.Param("id"))
	if err != nil {
		AbortWithError(c, customerdomain.ErrInvalidID)
		return
	}

	if err := s.customerSvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
}

func isCustomerValidationError(err error) bool {
	switch err {
	case customerdomain.ErrInvalidName,
		customerdomain.ErrInvalidID:
		return true
	default:
		return false
	}
}
