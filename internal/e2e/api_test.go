package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/solobooks/solobooks/internal/cache"
	"github.com/solobooks/solobooks/internal/clock"
	"github.com/solobooks/solobooks/internal/config"
	customerdomain "github.com/solobooks/solobooks/internal/customer/domain"
	customerrepository "github.com/solobooks/solobooks/internal/customer/repository"
	customerservice "github.com/solobooks/solobooks/internal/customer/service"
	expensedomain "github.com/solobooks/solobooks/internal/expense/domain"
	expenserepository "github.com/solobooks/solobooks/internal/expense/repository"
	expenseservice "github.com/solobooks/solobooks/internal/expense/service"
	invoicedomain "github.com/solobooks/solobooks/internal/invoice/domain"
	invoicerepository "github.com/solobooks/solobooks/internal/invoice/repository"
	invoiceservice "github.com/solobooks/solobooks/internal/invoice/service"
	paymentdomain "github.com/solobooks/solobooks/internal/payment/domain"
	paymentrepository "github.com/solobooks/solobooks/internal/payment/repository"
	paymentservice "github.com/solobooks/solobooks/internal/payment/service"
	projectdomain "github.com/solobooks/solobooks/internal/project/domain"
	projectrepository "github.com/solobooks/solobooks/internal/project/repository"
	projectservice "github.com/solobooks/solobooks/internal/project/service"
	"github.com/solobooks/solobooks/internal/ratelimit"
	reportrepository "github.com/solobooks/solobooks/internal/report/repository"
	reportservice "github.com/solobooks/solobooks/internal/report/service"
	"github.com/solobooks/solobooks/internal/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type apiEnv struct {
	engine  *gin.Engine
	ownerID string
}

func setupAPI(t *testing.T) apiEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&customerdomain.Customer{},
		&projectdomain.Project{},
		&expensedomain.Expense{},
		&expensedomain.ExpenseCategory{},
		&invoicedomain.Invoice{},
		&invoicedomain.InvoiceItem{},
		&paymentdomain.Payment{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	fake := clock.NewFakeClock(time.Date(2026, time.January, 20, 10, 0, 0, 0, time.UTC))
	log := zap.NewNop()

	invoiceRepo := invoicerepository.Provide()
	paymentRepo := paymentrepository.Provide()
	snapshots := cache.NewReportSnapshotCache()

	engine := server.NewEngine(log)
	server.NewServer(server.ServerParams{
		Gin:     engine,
		Cfg:     config.Config{},
		Log:     log,
		Clock:   fake,
		Limiter: ratelimit.NewAttemptLimiter(nil, 100, time.Minute),
		CustomerSvc: customerservice.New(customerservice.Params{
			DB: db, Log: log, GenID: node, Repo: customerrepository.Provide(),
		}),
		ProjectSvc: projectservice.New(projectservice.Params{
			DB: db, Log: log, GenID: node, Clock: fake, Repo: projectrepository.Provide(),
		}),
		ExpenseSvc: expenseservice.New(expenseservice.Params{
			DB: db, Log: log, GenID: node, Clock: fake, Repo: expenserepository.Provide(),
			Snapshots: snapshots,
		}),
		InvoiceSvc: invoiceservice.New(invoiceservice.Params{
			DB: db, Log: log, GenID: node, Clock: fake, Repo: invoiceRepo, PaymentRepo: paymentRepo,
			Snapshots: snapshots,
		}),
		PaymentSvc: paymentservice.New(paymentservice.Params{
			DB: db, Log: log, GenID: node, Clock: fake, Repo: paymentRepo, InvoiceRepo: invoiceRepo,
			Snapshots: snapshots,
		}),
		ReportSvc: reportservice.New(reportservice.Params{
			DB:        db,
			Log:       log,
			Clock:     fake,
			Reporting: config.NewStaticReportingConfigHolder(config.DefaultReportingConfig()),
			Repo:      reportrepository.Provide(),
			Snapshots: snapshots,
		}),
	})

	return apiEnv{engine: engine, ownerID: node.Generate().String()}
}

func (e apiEnv) do(t *testing.T, method, path, owner string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if owner != "" {
		req.Header.Set(server.HeaderUser, owner)
	}
	rec := httptest.NewRecorder()
	e.engine.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.NoError(t, json.Unmarshal(envelope.Data, out))
}

type invoicePayload struct {
	ID          snowflake.ID `json:"id"`
	Status      string       `json:"status"`
	TotalAmount int64        `json:"total_amount"`
	PaidAmount  int64        `json:"paid_amount"`
}

func TestInvoiceLifecycleOverHTTP(t *testing.T) {
	env := setupAPI(t)

	rec := env.do(t, http.MethodPost, "/api/v1/invoices", env.ownerID, map[string]any{
		"customer_id":    "42",
		"invoice_number": "INV-2026-001",
		"issued_at":      "2026-01-05",
		"due_at":         "2026-02-05",
		"items": []map[string]any{
			{"description": "Consulting", "quantity": 1, "unit_price": 500000},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var invoice invoicePayload
	decodeData(t, rec, &invoice)
	assert.Equal(t, "DRAFT", invoice.Status)
	assert.Equal(t, int64(500000), invoice.TotalAmount)

	invoicePath := fmt.Sprintf("/api/v1/invoices/%s", invoice.ID)

	rec = env.do(t, http.MethodPost, invoicePath+"/send", env.ownerID, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	decodeData(t, rec, &invoice)
	assert.Equal(t, "SENT", invoice.Status)

	rec = env.do(t, http.MethodPost, invoicePath+"/payments", env.ownerID, map[string]any{
		"amount":         250000,
		"paid_at":        "2026-01-10",
		"payment_method": "bank_transfer",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodGet, invoicePath, env.ownerID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeData(t, rec, &invoice)
	assert.Equal(t, int64(250000), invoice.PaidAmount)
	assert.Equal(t, "SENT", invoice.Status)

	rec = env.do(t, http.MethodPost, invoicePath+"/mark-paid", env.ownerID, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	decodeData(t, rec, &invoice)
	assert.Equal(t, "PAID", invoice.Status)
	assert.Equal(t, int64(500000), invoice.PaidAmount)

	var payments []paymentdomain.Payment
	rec = env.do(t, http.MethodGet, invoicePath+"/payments", env.ownerID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeData(t, rec, &payments)
	assert.Len(t, payments, 2, "manual payment plus settlement remainder")
}

func TestDashboardOverHTTP(t *testing.T) {
	env := setupAPI(t)

	rec := env.do(t, http.MethodPost, "/api/v1/invoices", env.ownerID, map[string]any{
		"customer_id":    "42",
		"invoice_number": "INV-2026-002",
		"issued_at":      "2026-01-05",
		"due_at":         "2026-02-05",
		"items": []map[string]any{
			{"description": "Work", "quantity": 1, "unit_price": 120000},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodPost, "/api/v1/expenses", env.ownerID, map[string]any{
		"amount": 5000,
		"date":   "2026-01-08",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodGet, "/api/v1/dashboard?month=2026-01", env.ownerID, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var dashboard struct {
		Summary struct {
			Month        string `json:"month"`
			BilledAmount int64  `json:"billed_amount"`
			Expenses     int64  `json:"expenses"`
		} `json:"summary"`
		Trend []json.RawMessage `json:"trend"`
	}
	decodeData(t, rec, &dashboard)
	assert.Equal(t, "2026-01", dashboard.Summary.Month)
	assert.Equal(t, int64(120000), dashboard.Summary.BilledAmount)
	assert.Equal(t, int64(5000), dashboard.Summary.Expenses)
	assert.Len(t, dashboard.Trend, 6)

	rec = env.do(t, http.MethodGet, "/api/v1/reports/summary?month=not-a-month", env.ownerID, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSummaryReflectsLedgerWrites(t *testing.T) {
	env := setupAPI(t)

	rec := env.do(t, http.MethodPost, "/api/v1/invoices", env.ownerID, map[string]any{
		"customer_id":    "42",
		"invoice_number": "INV-2026-010",
		"issued_at":      "2026-01-05",
		"due_at":         "2026-02-05",
		"items": []map[string]any{
			{"description": "Work", "quantity": 1, "unit_price": 500000},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var invoice invoicePayload
	decodeData(t, rec, &invoice)

	var summary struct {
		Revenue int64 `json:"revenue"`
	}
	rec = env.do(t, http.MethodGet, "/api/v1/reports/summary?month=2026-01", env.ownerID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeData(t, rec, &summary)
	assert.Equal(t, int64(0), summary.Revenue)

	rec = env.do(t, http.MethodPost, fmt.Sprintf("/api/v1/invoices/%s/payments", invoice.ID), env.ownerID, map[string]any{
		"amount":         250000,
		"paid_at":        "2026-01-10",
		"payment_method": "bank_transfer",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// A repeat read right after the payment must see it, not a cached snapshot.
	rec = env.do(t, http.MethodGet, "/api/v1/reports/summary?month=2026-01", env.ownerID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeData(t, rec, &summary)
	assert.Equal(t, int64(250000), summary.Revenue)
}

func TestSummaryDefaultsToClockMonth(t *testing.T) {
	env := setupAPI(t)

	var summary struct {
		Month string `json:"month"`
	}
	rec := env.do(t, http.MethodGet, "/api/v1/reports/summary", env.ownerID, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	decodeData(t, rec, &summary)
	assert.Equal(t, "2026-01", summary.Month, "default month comes from the service clock")
}

func TestErrorMappingOverHTTP(t *testing.T) {
	env := setupAPI(t)

	rec := env.do(t, http.MethodGet, "/api/v1/invoices", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/v1/invoices", env.ownerID, map[string]any{
		"customer_id":    "42",
		"invoice_number": "INV-2026-003",
		"issued_at":      "2026-01-05",
		"due_at":         "2026-02-05",
		"items": []map[string]any{
			{"description": "Work", "quantity": 1, "unit_price": 1000},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var invoice invoicePayload
	decodeData(t, rec, &invoice)

	invoicePath := fmt.Sprintf("/api/v1/invoices/%s", invoice.ID)

	// Foreign owners see not_found, never a permission error.
	rec = env.do(t, http.MethodGet, invoicePath, "999999", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	var payload struct {
		Error struct {
			Type string `json:"type"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, "not_found", payload.Error.Type)

	rec = env.do(t, http.MethodPost, invoicePath+"/send", env.ownerID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = env.do(t, http.MethodPost, invoicePath+"/send", env.ownerID, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, "business_rule_violation", payload.Error.Type)

	rec = env.do(t, http.MethodPost, "/api/v1/invoices", env.ownerID, map[string]any{
		"customer_id": "not-a-number",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
