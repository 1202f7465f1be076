package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	projectdomain "github.com/solobooks/solobooks/internal/project/domain"
)

type createProjectRequest struct {
	CustomerID     string `json:"customer_id"`
	Name           string `json:"name"`
	Description    string `json:"description"`
	ContractType   string `json:"contract_type"`
	ContractAmount int64  `json:"contract_amount"`
	HourlyRate     int64  `json:"hourly_rate"`
	Status         string `json:"status"`
	StartDate      string `json:"start_date"`
	EndDate        string `json:"end_date"`
	Notes          string `json:"notes"`
}

type updateProjectRequest struct {
	CustomerID     *string `json:"customer_id"`
	Name           *string `json:"name"`
	Description    *string `json:"description"`
	ContractType   *string `json:"contract_type"`
	ContractAmount *int64  `json:"contract_amount"`
	HourlyRate     *int64  `json:"hourly_rate"`
	Status         *string `json:"status"`
	StartDate      *string `json:"start_date"`
	EndDate        *string `json:"end_date"`
	Notes          *string `json:"notes"`
}

func (s *Server) CreateProject(c *gin.Context) {
	var req createProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	customerID, err := parseOptionalSnowflakeID(req.CustomerID)
	if err != nil {
		AbortWithError(c, newValidationError("customer_id", "invalid_customer_id", "invalid customer_id"))
		return
	}
	startDate, err := parseOptionalTime(req.StartDate, false)
	if err != nil {
		AbortWithError(c, newValidationError("start_date", "invalid_start_date", "invalid start_date"))
		return
	}
	endDate, err := parseOptionalTime(req.EndDate, true)
	if err != nil {
		AbortWithError(c, newValidationError("end_date", "invalid_end_date", "invalid end_date"))
		return
	}

	resp, err := s.projectSvc.Create(c.Request.Context(), projectdomain.CreateProjectRequest{
		CustomerID:     customerID,
		Name:           req.Name,
		Description:    req.Description,
		ContractType:   projectdomain.ContractType(strings.ToUpper(strings.TrimSpace(req.ContractType))),
		ContractAmount: req.ContractAmount,
		HourlyRate:     req.HourlyRate,
		Status:         projectdomain.ProjectStatus(strings.ToUpper(strings.TrimSpace(req.Status))),
		StartDate:      startDate,
		EndDate:        endDate,
		Notes:          req.Notes,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListProjects(c *gin.Context) {
	var query struct {
		Status     string `form:"status"`
		CustomerID string `form:"customer_id"`
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

	var status *projectdomain.ProjectStatus
	if trimmed := strings.TrimSpace(query.Status); trimmed != "" {
		parsed := projectdomain.ProjectStatus(strings.ToUpper(trimmed))
		status = &parsed
	}

	resp, err := s.projectSvc.List(c.Request.Context(), projectdomain.ListProjectRequest{
		Status:     status,
		CustomerID: customerID,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetProjectByID(c *gin.Context) {
	id, err := parseSnowflakeParam(c.Param("id"))
	if err != nil {
		AbortWithError(c, projectdomain.ErrInvalidID)
		return
	}

	resp, err := s.projectSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateProject(c *gin.Context) {
	id, err := parseSnowflakeParam(c.Param("id"))
	if err != nil {
		AbortWithError(c, projectdomain.ErrInvalidID)
		return
	}

	var req updateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	update := projectdomain.UpdateProjectRequest{
		Name:           req.Name,
		Description:    req.Description,
		ContractAmount: req.ContractAmount,
		HourlyRate:     req.HourlyRate,
		Notes:          req.Notes,
	}
	if req.CustomerID != nil {
		customerID, err := parseOptionalSnowflakeID(*req.CustomerID)
		if err != nil {
			AbortWithError(c, newValidationError("customer_id", "invalid_customer_id", "invalid customer_id"))
			return
		}
		update.CustomerID = customerID
	}
	if req.ContractType != nil {
		parsed := projectdomain.ContractType(strings.ToUpper(strings.TrimSpace(*req.ContractType)))
		update.ContractType = &parsed
	}
	if req.Status != nil {
		parsed := projectdomain.ProjectStatus(strings.ToUpper(strings.TrimSpace(*req.Status)))
		update.Status = &parsed
	}
	if req.StartDate != nil {
		startDate, err := parseOptionalTime(*req.StartDate, false)
		if err != nil {
			AbortWithError(c, newValidationError("start_date", "invalid_start_date", "invalid start_date"))
			return
		}
		update.StartDate = startDate
	}
	if req.EndDate != nil {
		endDate, err := parseOptionalTime(*req.EndDate, true)
		if err != nil {
			AbortWithError(c, newValidationError("end_date", "invalid_end_date", "invalid end_date"))
			return
		}
		update.EndDate = endDate
	}

	resp, err := s.projectSvc.Update(c.Request.Context(), id, update)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteProject(c *gin.Context) {
	id, err := parseSnowflakeParam(c.Param("id"))
	if err != nil {
		AbortWithError(c, projectdomain.ErrInvalidID)
		return
	}

	if err := s.projectSvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
}

func (s *Server) DuplicateProject(c *gin.Context) {
	id, err := parseSnowflakeParam(c.Param("id"))
	if err != nil {
		AbortWithError(c, projectdomain.ErrInvalidID)
		return
	}

	resp, err := s.projectSvc.Duplicate(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func isProjectValidationError(err error) bool {
	switch err {
	case projectdomain.ErrInvalidID,
		projectdomain.ErrInvalidName,
		projectdomain.ErrInvalidStatus,
		projectdomain.ErrInvalidContractType,
		projectdomain.ErrInvalidAmount:
		return true
	default:
		return false
	}
}
