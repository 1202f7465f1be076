package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	paymentdomain "github.com/solobooks/solobooks/internal/payment/domain"
)

type registerPaymentRequest struct {
	Amount        int64  `json:"amount"`
	PaidAt        string `json:"paid_at"`
	PaymentMethod string `json:"payment_method"`
	Notes         string `json:"notes"`
}

type updatePaymentRequest struct {
	Amount        *int64  `json:"amount"`
	PaidAt        *string `json:"paid_at"`
	PaymentMethod *string `json:"payment_method"`
	Notes         *string `json:"notes"`
}

func (s *Server) RegisterPayment(c *gin.Context) {
	invoiceID, err := parseSnowflakeParam(c.Param("id"))
	if err != nil {
		AbortWithError(c, paymentdomain.ErrInvalidID)
		return
	}

	var req registerPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	paidAt, err := parseRequiredTime(req.PaidAt)
	if err != nil {
		AbortWithError(c, paymentdomain.ErrInvalidPaidAt)
		return
	}

	resp, err := s.paymentSvc.Register(c.Request.Context(), invoiceID, paymentdomain.RegisterPaymentRequest{
		Amount:        req.Amount,
		PaidAt:        paidAt,
		PaymentMethod: paymentdomain.PaymentMethod(strings.ToUpper(strings.TrimSpace(req.PaymentMethod))),
		Notes:         req.Notes,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListInvoicePayments(c *gin.Context) {
	invoiceID, err := parseSnowflakeParam(c.Param("id"))
	if err != nil {
		AbortWithError(c, paymentdomain.ErrInvalidID)
		return
	}

	resp, err := s.paymentSvc.ListByInvoice(c.Request.Context(), invoiceID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdatePayment(c *gin.Context) {
	id, err := parseSnowflakeParam(c.Param("id"))
	if err != nil {
		AbortWithError(c, paymentdomain.ErrInvalidID)
		return
	}

	var req updatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	update := paymentdomain.UpdatePaymentRequest{
		Amount: req.Amount,
		Notes:  req.Notes,
	}
	if req.PaidAt != nil {
		paidAt, err := parseRequiredTime(*req.PaidAt)
		if err != nil {
			AbortWithError(c, paymentdomain.ErrInvalidPaidAt)
			return
		}
		update.PaidAt = &paidAt
	}
	if req.PaymentMethod != nil {
		parsed := paymentdomain.PaymentMethod(strings.ToUpper(strings.TrimSpace(*req.PaymentMethod)))
		update.PaymentMethod = &parsed
	}

	resp, err := s.paymentSvc.Update(c.Request.Context(), id, update)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeletePayment(c *gin.Context) {
	id, err := parseSnowflakeParam(c.Param("id"))
	if err != nil {
		AbortWithError(c, paymentdomain.ErrInvalidID)
		return
	}

	if err := s.paymentSvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
}

func isPaymentValidationError(err error) bool {
	switch err {
	case paymentdomain.ErrInvalidID,
		paymentdomain.ErrInvalidAmount,
		paymentdomain.ErrInvalidPaidAt,
		paymentdomain.ErrInvalidMethod:
		return true
	default:
		return false
	}
}
