package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/solobooks/solobooks/internal/cache"
	"github.com/solobooks/solobooks/internal/clock"
	"github.com/solobooks/solobooks/internal/config"
	"github.com/solobooks/solobooks/internal/customer"
	customerdomain "github.com/solobooks/solobooks/internal/customer/domain"
	"github.com/solobooks/solobooks/internal/expense"
	expensedomain "github.com/solobooks/solobooks/internal/expense/domain"
	"github.com/solobooks/solobooks/internal/invoice"
	invoicedomain "github.com/solobooks/solobooks/internal/invoice/domain"
	"github.com/solobooks/solobooks/internal/payment"
	paymentdomain "github.com/solobooks/solobooks/internal/payment/domain"
	"github.com/solobooks/solobooks/internal/project"
	projectdomain "github.com/solobooks/solobooks/internal/project/domain"
	"github.com/solobooks/solobooks/internal/ratelimit"
	"github.com/solobooks/solobooks/internal/report"
	reportdomain "github.com/solobooks/solobooks/internal/report/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	cache.Module,
	customer.Module,
	project.Module,
	expense.Module,
	invoice.Module,
	payment.Module,
	report.Module,
	ratelimit.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(AccessLog(log))
	r.Use(HTTPMetrics())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(log *zap.Logger) *gin.Engine {
	return NewEngine(log)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine      *gin.Engine
	cfg         config.Config
	log         *zap.Logger
	clock       clock.Clock
	limiter     *ratelimit.AttemptLimiter
	customerSvc customerdomain.Service
	projectSvc  projectdomain.Service
	expenseSvc  expensedomain.Service
	invoiceSvc  invoicedomain.Service
	paymentSvc  paymentdomain.Service
	reportSvc   reportdomain.Service
}

type ServerParams struct {
	fx.In

	Gin         *gin.Engine
	Cfg         config.Config
	Log         *zap.Logger
	Clock       clock.Clock
	Limiter     *ratelimit.AttemptLimiter
	CustomerSvc customerdomain.Service
	ProjectSvc  projectdomain.Service
	ExpenseSvc  expensedomain.Service
	InvoiceSvc  invoicedomain.Service
	PaymentSvc  paymentdomain.Service
	ReportSvc   reportdomain.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:      p.Gin,
		cfg:         p.Cfg,
		log:         p.Log.Named("http.server"),
		clock:       p.Clock,
		limiter:     p.Limiter,
		customerSvc: p.CustomerSvc,
		projectSvc:  p.ProjectSvc,
		expenseSvc:  p.ExpenseSvc,
		invoiceSvc:  p.InvoiceSvc,
		paymentSvc:  p.PaymentSvc,
		reportSvc:   p.ReportSvc,
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api/v1")
	api.Use(s.OwnerRequired())
	api.Use(s.AttemptLimit())

	// -------- Customers --------
	api.GET("/customers", s.ListCustomers)
	api.POST("/customers", s.CreateCustomer)
	api.GET("/customers/:id", s.GetCustomerByID)
	api.PATCH("/customers/:id", s.UpdateCustomer)
	api.DELETE("/customers/:id", s.DeleteCustomer)

	// -------- Projects --------
	api.GET("/projects", s.ListProjects)
	api.POST("/projects", s.CreateProject)
	api.GET("/projects/:id", s.GetProjectByID)
	api.PATCH("/projects/:id", s.UpdateProject)
	api.DELETE("/projects/:id", s.DeleteProject)
	api.POST("/projects/:id/duplicate", s.DuplicateProject)

	// -------- Expenses --------
	api.GET("/expenses", s.ListExpenses)
	api.POST("/expenses", s.CreateExpense)
	api.GET("/expenses/:id", s.GetExpenseByID)
	api.PATCH("/expenses/:id", s.UpdateExpense)
	api.DELETE("/expenses/:id", s.DeleteExpense)
	api.POST("/expenses/:id/duplicate", s.DuplicateExpense)

	api.GET("/expense-categories", s.ListExpenseCategories)
	api.POST("/expense-categories", s.CreateExpenseCategory)
	api.PATCH("/expense-categories/:id", s.UpdateExpenseCategory)
	api.DELETE("/expense-categories/:id", s.DeleteExpenseCategory)

	// -------- Invoices --------
	api.GET("/invoices", s.ListInvoices)
	api.POST("/invoices", s.CreateInvoice)
	api.GET("/invoices/:id", s.GetInvoiceByID)
	api.PATCH("/invoices/:id", s.UpdateInvoice)
	api.DELETE("/invoices/:id", s.DeleteInvoice)
	api.POST("/invoices/:id/send", s.MarkInvoiceSent)
	api.POST("/invoices/:id/mark-paid", s.MarkInvoicePaid)

	// -------- Payments --------
	api.GET("/invoices/:id/payments", s.ListInvoicePayments)
	api.POST("/invoices/:id/payments", s.RegisterPayment)
	api.PATCH("/payments/:id", s.UpdatePayment)
	api.DELETE("/payments/:id", s.DeletePayment)

	// -------- Reports --------
	api.GET("/reports/summary", s.GetMonthlySummary)
	api.GET("/reports/trend", s.GetMonthlyTrend)
	api.GET("/reports/expense-breakdown", s.GetExpenseBreakdown)
	api.GET("/reports/project-sales", s.GetProjectSales)
	api.GET("/reports/recent-invoices", s.GetRecentInvoices)
	api.GET("/reports/recent-expenses", s.GetRecentExpenses)
	api.GET("/dashboard", s.GetDashboard)
}
