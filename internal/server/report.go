package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	reportdomain "github.com/solobooks/solobooks/internal/report/domain"
	"github.com/solobooks/solobooks/pkg/period"
)

// currentOrRequestedMonth parses the optional ?month=YYYY-MM query, falling
// back to the current calendar month on the service clock so the default
// agrees with the trend's notion of "now".
func (s *Server) currentOrRequestedMonth(c *gin.Context) (period.Month, error) {
	raw := strings.TrimSpace(c.Query("month"))
	if raw == "" {
		return period.Of(s.clock.Now()), nil
	}
	return period.Parse(raw)
}

func (s *Server) GetMonthlySummary(c *gin.Context) {
	month, err := s.currentOrRequestedMonth(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.reportSvc.MonthlySummary(c.Request.Context(), month)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetMonthlyTrend(c *gin.Context) {
	months := 0
	if raw := strings.TrimSpace(c.Query("months")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			AbortWithError(c, reportdomain.ErrInvalidMonths)
			return
		}
		months = parsed
	}

	resp, err := s.reportSvc.MonthlyTrend(c.Request.Context(), months)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetExpenseBreakdown(c *gin.Context) {
	month, err := parseOptionalMonth(c.Query("month"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.reportSvc.ExpenseBreakdown(c.Request.Context(), month)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetProjectSales(c *gin.Context) {
	month, err := parseOptionalMonth(c.Query("month"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.reportSvc.ProjectSales(c.Request.Context(), month)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetRecentInvoices(c *gin.Context) {
	limit, err := parseLimit(c.Query("limit"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.reportSvc.RecentInvoices(c.Request.Context(), limit)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetRecentExpenses(c *gin.Context) {
	limit, err := parseLimit(c.Query("limit"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.reportSvc.RecentExpenses(c.Request.Context(), limit)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetDashboard(c *gin.Context) {
	month, err := s.currentOrRequestedMonth(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.reportSvc.Dashboard(c.Request.Context(), month)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func parseLimit(raw string) (int, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, nil
	}
	parsed, err := strconv.Atoi(trimmed)
	if err != nil || parsed <= 0 {
		return 0, reportdomain.ErrInvalidLimit
	}
	return parsed, nil
}
