package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	customerdomain "github.com/solobooks/solobooks/internal/customer/domain"
	expensedomain "github.com/solobooks/solobooks/internal/expense/domain"
	invoicedomain "github.com/solobooks/solobooks/internal/invoice/domain"
	paymentdomain "github.com/solobooks/solobooks/internal/payment/domain"
	projectdomain "github.com/solobooks/solobooks/internal/project/domain"
	reportdomain "github.com/solobooks/solobooks/internal/report/domain"
	"github.com/solobooks/solobooks/pkg/period"
	"gorm.io/gorm"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrUnauthorized   = errors.New("unauthorized")
	ErrTooManyRequest = errors.New("too_many_requests")
	ErrInternal       = errors.New("internal_error")
	ErrNotFound       = errors.New("not_found")
	ErrInvalidRequest = errors.New("invalid_request")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	if isValidationError(err) {
		code := validationErrorCode(err)
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{
					Field:   validationErrorField(code),
					Code:    code,
					Message: validationErrorMessage(code),
				},
			},
		}
	}

	switch {
	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, customerdomain.ErrInvalidOwner),
		errors.Is(err, projectdomain.ErrInvalidOwner),
		errors.Is(err, expensedomain.ErrInvalidOwner),
		errors.Is(err, invoicedomain.ErrInvalidOwner),
		errors.Is(err, paymentdomain.ErrInvalidOwner),
		errors.Is(err, reportdomain.ErrInvalidOwner):
		return http.StatusUnauthorized, errorPayload{
			Type:    "unauthorized",
			Message: "unauthorized",
		}
	case isBusinessRuleError(err):
		return http.StatusConflict, errorPayload{
			Type:    "business_rule_violation",
			Message: err.Error(),
		}
	case isNotFoundError(err):
		// Absent and not-owned are deliberately indistinguishable here.
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	case errors.Is(err, ErrTooManyRequest):
		return http.StatusTooManyRequests, errorPayload{
			Type:    "too_many_requests",
			Message: "too many requests",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, period.ErrInvalidMonth),
		errors.Is(err, reportdomain.ErrInvalidMonths),
		errors.Is(err, reportdomain.ErrInvalidLimit):
		return true
	case isCustomerValidationError(err),
		isProjectValidationError(err),
		isExpenseValidationError(err),
		isInvoiceValidationError(err),
		isPaymentValidationError(err):
		return true
	default:
		return false
	}
}

func isBusinessRuleError(err error) bool {
	return errors.Is(err, invoicedomain.ErrNotDraft)
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, customerdomain.ErrNotFound),
		errors.Is(err, projectdomain.ErrNotFound),
		errors.Is(err, expensedomain.ErrNotFound),
		errors.Is(err, invoicedomain.ErrNotFound),
		errors.Is(err, paymentdomain.ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

func validationErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return "invalid_request"
	default:
		return err.Error()
	}
}

func validationErrorField(code string) string {
	if code == "invalid_request" {
		return "request"
	}
	if strings.HasPrefix(code, "invalid_") {
		return strings.TrimPrefix(code, "invalid_")
	}
	return ""
}

func validationErrorMessage(code string) string {
	switch code {
	case "invalid_request":
		return "invalid request"
	default:
		return "invalid value"
	}
}
