package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	expensedomain "github.com/solobooks/solobooks/internal/expense/domain"
)

type createExpenseRequest struct {
	ProjectID     string `json:"project_id"`
	CategoryID    string `json:"category_id"`
	Amount        int64  `json:"amount"`
	Date          string `json:"date"`
	PaymentMethod string `json:"payment_method"`
	Description   string `json:"description"`
	Notes         string `json:"notes"`
}

type updateExpenseRequest struct {
	ProjectID     *string `json:"project_id"`
	CategoryID    *string `json:"category_id"`
	Amount        *int64  `json:"amount"`
	Date          *string `json:"date"`
	PaymentMethod *string `json:"payment_method"`
	Description   *string `json:"description"`
	Notes         *string `json:"notes"`
}

type expenseCategoryRequest struct {
	Name      string `json:"name"`
	Color     string `json:"color"`
	SortOrder int    `json:"sort_order"`
}

type updateExpenseCategoryRequest struct {
	Name      *string `json:"name"`
	Color     *string `json:"color"`
	SortOrder *int    `json:"sort_order"`
}

func (s *Server) CreateExpense(c *gin.Context) {
	var req createExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	projectID, err := parseOptionalSnowflakeID(req.ProjectID)
	if err != nil {
		AbortWithError(c, newValidationError("project_id", "invalid_project_id", "invalid project_id"))
		return
	}
	categoryID, err := parseOptionalSnowflakeID(req.CategoryID)
	if err != nil {
		AbortWithError(c, newValidationError("category_id", "invalid_category_id", "invalid category_id"))
		return
	}
	date, err := parseRequiredTime(req.Date)
	if err != nil {
		AbortWithError(c, newValidationError("date", "invalid_date", "invalid date"))
		return
	}

	resp, err := s.expenseSvc.Create(c.Request.Context(), expensedomain.CreateExpenseRequest{
		ProjectID:     projectID,
		CategoryID:    categoryID,
		Amount:        req.Amount,
		Date:          date,
		PaymentMethod: req.PaymentMethod,
		Description:   req.Description,
		Notes:         req.Notes,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListExpenses(c *gin.Context) {
	var query struct {
		CategoryID string `form:"category_id"`
		ProjectID  string `form:"project_id"`
		DateFrom   string `form:"date_from"`
		DateTo     string `form:"date_to"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	categoryID, err := parseOptionalSnowflakeID(query.CategoryID)
	if err != nil {
		AbortWithError(c, newValidationError("category_id", "invalid_category_id", "invalid category_id"))
		return
	}
	projectID, err := parseOptionalSnowflakeID(query.ProjectID)
	if err != nil {
		AbortWithError(c, newValidationError("project_id", "invalid_project_id", "invalid project_id"))
		return
	}
	dateFrom, err := parseOptionalTime(query.DateFrom, false)
	if err != nil {
		AbortWithError(c, newValidationError("date_from", "invalid_date_from", "invalid date_from"))
		return
	}
	dateTo, err := parseOptionalTime(query.DateTo, true)
	if err != nil {
		AbortWithError(c, newValidationError("date_to", "invalid_date_to", "invalid date_to"))
		return
	}

	resp, err := s.expenseSvc.List(c.Request.Context(), expensedomain.ListExpenseRequest{
		CategoryID: categoryID,
		ProjectID:  projectID,
		DateFrom:   dateFrom,
		DateTo:     dateTo,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetExpenseByID(c *gin.Context) {
	id, err := parseSnowflakeParam(c.Param("id"))
	if err != nil {
		AbortWithError(c, expensedomain.ErrInvalidID)
		return
	}

	resp, err := s.expenseSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateExpense(c *gin.Context) {
	id, err := parseSnowflakeParam(c.Param("id"))
	if err != nil {
		AbortWithError(c, expensedomain.ErrInvalidID)
		return
	}

	var req updateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	update := expensedomain.UpdateExpenseRequest{
		Amount:        req.Amount,
		PaymentMethod: req.PaymentMethod,
		Description:   req.Description,
		Notes:         req.Notes,
	}
	if req.ProjectID != nil {
		projectID, err := parseOptionalSnowflakeID(*req.ProjectID)
		if err != nil {
			AbortWithError(c, newValidationError("project_id", "invalid_project_id", "invalid project_id"))
			return
		}
		update.ProjectID = projectID
	}
	if req.CategoryID != nil {
		categoryID, err := parseOptionalSnowflakeID(*req.CategoryID)
		if err != nil {
			AbortWithError(c, newValidationError("category_id", "invalid_category_id", "invalid category_id"))
			return
		}
		update.CategoryID = categoryID
	}
	if req.Date != nil {
		date, err := parseRequiredTime(*req.Date)
		if err != nil {
			AbortWithError(c, newValidationError("date", "invalid_date", "invalid date"))
			return
		}
		update.Date = &date
	}

	resp, err := s.expenseSvc.Update(c.Request.Context(), id, update)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteExpense(c *gin.Context) {
	id, err := parseSnowflakeParam(c.Param("id"))
	if err != nil {
		AbortWithError(c, expensedomain.ErrInvalidID)
		return
	}

	if err := s.expenseSvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
}

func (s *Server) DuplicateExpense(c *gin.Context) {
	id, err := parseSnowflakeParam(c.Param("id"))
	if err != nil {
		AbortWithError(c, expensedomain.ErrInvalidID)
		return
	}

	resp, err := s.expenseSvc.Duplicate(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) CreateExpenseCategory(c *gin.Context) {
	var req expenseCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.expenseSvc.CreateCategory(c.Request.Context(), expensedomain.CreateCategoryRequest{
		Name:      req.Name,
		Color:     req.Color,
		SortOrder: req.SortOrder,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListExpenseCategories(c *gin.Context) {
	resp, err := s.expenseSvc.ListCategories(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateExpenseCategory(c *gin.Context) {
	id, err := parseSnowflakeParam(c.Param("id"))
	if err != nil {
		AbortWithError(c, expensedomain.ErrInvalidID)
		return
	}

	var req updateExpenseCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.expenseSvc.UpdateCategory(c.Request.Context(), id, expensedomain.UpdateCategoryRequest{
		Name:      req.Name,
		Color:     req.Color,
		SortOrder: req.SortOrder,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteExpenseCategory(c *gin.Context) {
	id, err := parseSnowflakeParam(c.Param("id"))
	if err != nil {
		AbortWithError(c, expensedomain.ErrInvalidID)
		return
	}

	if err := s.expenseSvc.DeleteCategory(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
}

func isExpenseValidationError(err error) bool {
	switch err {
	case expensedomain.ErrInvalidID,
		expensedomain.ErrInvalidAmount,
		expensedomain.ErrInvalidDate,
		expensedomain.ErrInvalidName:
		return true
	default:
		return false
	}
}
