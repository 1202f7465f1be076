package domain

import (
	"github.com/bwmarrin/snowflake"
	expensedomain "github.com/solobooks/solobooks/internal/expense/domain"
	invoicedomain "github.com/solobooks/solobooks/internal/invoice/domain"
)

// MonthlySummary aggregates one calendar month of activity. UnpaidAmount is a
// point-in-time snapshot over all open invoices, not scoped to the month.
type MonthlySummary struct {
	Month          string  `json:"month"`
	Revenue        int64   `json:"revenue"`
	BilledAmount   int64   `json:"billed_amount"`
	Expenses       int64   `json:"expenses"`
	Profit         int64   `json:"profit"`
	UnpaidAmount   int64   `json:"unpaid_amount"`
	CollectionRate float64 `json:"collection_rate"`
}

type TrendPoint struct {
	Month    string `json:"month"`
	Revenue  int64  `json:"revenue"`
	Expenses int64  `json:"expenses"`
	Profit   int64  `json:"profit"`
}

type CategoryBreakdown struct {
	CategoryID    *snowflake.ID `json:"category_id,omitempty"`
	CategoryName  string        `json:"category_name"`
	CategoryColor string        `json:"category_color,omitempty"`
	Amount        int64         `json:"amount"`
	Count         int64         `json:"count"`
}

type ProjectSales struct {
	ProjectID    snowflake.ID `json:"project_id"`
	ProjectName  string       `json:"project_name"`
	TotalBilled  int64        `json:"total_billed"`
	TotalPaid    int64        `json:"total_paid"`
	UnpaidAmount int64        `json:"unpaid_amount"`
}

type Dashboard struct {
	Summary          MonthlySummary          `json:"summary"`
	Trend            []TrendPoint            `json:"trend"`
	ExpenseBreakdown []CategoryBreakdown     `json:"expense_breakdown"`
	ProjectSales     []ProjectSales          `json:"project_sales"`
	RecentInvoices   []invoicedomain.Invoice `json:"recent_invoices"`
	RecentExpenses   []expensedomain.Expense `json:"recent_expenses"`
}
