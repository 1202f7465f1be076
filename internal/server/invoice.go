package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	invoicedomain "github.com/solobooks/solobooks/internal/invoice/domain"
)

type invoiceItemRequest struct {
	Description string `json:"description"`
	Quantity    int64  `json:"quantity"`
	UnitPrice   int64  `json:"unit_price"`
	Hours       int64  `json:"hours"`
}

type createInvoiceRequest struct {
	CustomerID    string               `json:"customer_id"`
	ProjectID     string               `json:"project_id"`
	InvoiceNumber string               `json:"invoice_number"`
	IssuedAt      string               `json:"issued_at"`
	DueAt         string               `json:"due_at"`
	Notes         string               `json:"notes"`
	Items         []invoiceItemRequest `json:"items"`
}

type updateInvoiceRequest struct {
	CustomerID    *string               `json:"customer_id"`
	ProjectID     *string               `json:"project_id"`
	InvoiceNumber *string               `json:"invoice_number"`
	Status        *string               `json:"status"`
	IssuedAt      *string               `json:"issued_at"`
	DueAt         *string               `json:"due_at"`
	Notes         *string               `json:"notes"`
	Items         *[]invoiceItemRequest `json:"items"`
}

func toItemInputs(items []invoiceItemRequest) []invoicedomain.ItemInput {
	inputs := make([]invoicedomain.ItemInput, 0, len(items))
	for _, item := range items {
		inputs = append(inputs, invoicedomain.ItemInput{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Hours:       item.Hours,
		})
	}
	return inputs
}

func (s *Server) CreateInvoice(c *gin.Context) {
	var req createInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	customerID, err := parseSnowflakeParam(req.CustomerID)
	if err != nil {
		AbortWithError(c, invoicedomain.ErrInvalidCustomer)
		return
	}
	projectID, err := parseOptionalSnowflakeID(req.ProjectID)
	if err != nil {
		AbortWithError(c, newValidationError("project_id", "invalid_project_id", "invalid project_id"))
		return
	}
	issuedAt, err := parseRequiredTime(req.IssuedAt)
	if err != nil {
		AbortWithError(c, invoicedomain.ErrInvalidDates)
		return
	}
	dueAt, err := parseRequiredTime(req.DueAt)
	if err != nil {
		AbortWithError(c, invoicedomain.ErrInvalidDates)
		return
	}

	resp, err := s.invoiceSvc.Create(c.Request.Context(), invoicedomain.CreateInvoiceRequest{
		CustomerID:    customerID,
		ProjectID:     projectID,
		InvoiceNumber: req.InvoiceNumber,
		IssuedAt:      issuedAt,
		DueAt:         dueAt,
		Notes:         req.Notes,
		Items:         toItemInputs(req.Items),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListInvoices(c *gin.Context) {
	var query struct {
		Status     string `form:"status"`
		CustomerID string `form:"customer_id"`
		ProjectID  string `form:"project_id"`
		IssuedFrom string `form:"issued_from"`
		IssuedTo   string `form:"issued_to"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	customerID, err := parseOptionalSnowflakeID(query.CustomerID)
	if err != nil {
		AbortWithError(c, newValidationError("customer_id", "invalid_customer_id", "invalid customer_id"))
		return
	}
	projectID, err := parseOptionalSnowflakeID(query.ProjectID)
	if err != nil {
		AbortWithError(c, newValidationError("project_id", "invalid_project_id", "invalid project_id"))
		return
	}
	issuedFrom, err := parseOptionalTime(query.IssuedFrom, false)
	if err != nil {
		AbortWithError(c, newValidationError("issued_from", "invalid_issued_from", "invalid issued_from"))
		return
	}
	issuedTo, err := parseOptionalTime(query.IssuedTo, true)
	if err != nil {
		AbortWithError(c, newValidationError("issued_to", "invalid_issued_to", "invalid issued_to"))
		return
	}

	var status *invoicedomain.InvoiceStatus
	if trimmed := strings.TrimSpace(query.Status); trimmed != "" {
		parsed := invoicedomain.InvoiceStatus(strings.ToUpper(trimmed))
		status = &parsed
	}

	resp, err := s.invoiceSvc.List(c.Request.Context(), invoicedomain.ListInvoiceRequest{
		Status:     status,
		CustomerID: customerID,
		ProjectID:  projectID,
		IssuedFrom: issuedFrom,
		IssuedTo:   issuedTo,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetInvoiceByID(c *gin.Context) {
	id, err := parseSnowflakeParam(c.Param("id"))
	if err != nil {
		AbortWithError(c, invoicedomain.ErrInvalidID)
		return
	}

	resp, err := s.invoiceSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateInvoice(c *gin.Context) {
	id, err := parseSnowflakeParam(c.Param("id"))
	if err != nil {
		AbortWithError(c, invoicedomain.ErrInvalidID)
		return
	}

	var req updateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	update := invoicedomain.UpdateInvoiceRequest{
		InvoiceNumber: req.InvoiceNumber,
		Notes:         req.Notes,
	}
	if req.CustomerID != nil {
		customerID, err := parseSnowflakeParam(*req.CustomerID)
		if err != nil {
			AbortWithError(c, invoicedomain.ErrInvalidCustomer)
			return
		}
		update.CustomerID = &customerID
	}
	if req.ProjectID != nil {
		projectID, err := parseOptionalSnowflakeID(*req.ProjectID)
		if err != nil {
			AbortWithError(c, newValidationError("project_id", "invalid_project_id", "invalid project_id"))
			return
		}
		update.ProjectID = projectID
	}
	if req.Status != nil {
		parsed := invoicedomain.InvoiceStatus(strings.ToUpper(strings.TrimSpace(*req.Status)))
		update.Status = &parsed
	}
	if req.IssuedAt != nil {
		issuedAt, err := parseRequiredTime(*req.IssuedAt)
		if err != nil {
			AbortWithError(c, invoicedomain.ErrInvalidDates)
			return
		}
		update.IssuedAt = &issuedAt
	}
	if req.DueAt != nil {
		dueAt, err := parseRequiredTime(*req.DueAt)
		if err != nil {
			AbortWithError(c, invoicedomain.ErrInvalidDates)
			return
		}
		update.DueAt = &dueAt
	}
	if req.Items != nil {
		update.Items = toItemInputs(*req.Items)
		update.ItemsProvided = true
	}

	resp, err := s.invoiceSvc.Update(c.Request.Context(), id, update)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteInvoice(c *gin.Context) {
	id, err := parseSnowflakeParam(c.Param("id"))
	if err != nil {
		AbortWithError(c, invoicedomain.ErrInvalidID)
		return
	}

	if err := s.invoiceSvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
}

func (s *Server) MarkInvoiceSent(c *gin.Context) {
	id, err := parseSnowflakeParam(c.Param("id"))
	if err != nil {
		AbortWithError(c, invoicedomain.ErrInvalidID)
		return
	}

	resp, err := s.invoiceSvc.MarkSent(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) MarkInvoicePaid(c *gin.Context) {
	id, err := parseSnowflakeParam(c.Param("id"))
	if err != nil {
		AbortWithError(c, invoicedomain.ErrInvalidID)
		return
	}

	resp, err := s.invoiceSvc.MarkPaid(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func isInvoiceValidationError(err error) bool {
	switch err {
	case invoicedomain.ErrInvalidID,
		invoicedomain.ErrInvalidCustomer,
		invoicedomain.ErrInvalidInvoiceNumber,
		invoicedomain.ErrInvalidStatus,
		invoicedomain.ErrInvalidItems,
		invoicedomain.ErrInvalidDates:
		return true
	default:
		return false
	}
}
