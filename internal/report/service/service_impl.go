package service

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/solobooks/solobooks/internal/cache"
	"github.com/solobooks/solobooks/internal/clock"
	"github.com/solobooks/solobooks/internal/config"
	expensedomain "github.com/solobooks/solobooks/internal/expense/domain"
	invoicedomain "github.com/solobooks/solobooks/internal/invoice/domain"
	"github.com/solobooks/solobooks/internal/report/domain"
	"github.com/solobooks/solobooks/internal/userctx"
	"github.com/solobooks/solobooks/pkg/money"
	"github.com/solobooks/solobooks/pkg/period"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	Clock     clock.Clock
	Reporting *config.ReportingConfigHolder
	Repo      domain.Repository
	Snapshots cache.ReportSnapshotCache
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	clock     clock.Clock
	reporting *config.ReportingConfigHolder
	repo      domain.Repository
	snapshots cache.ReportSnapshotCache
}

func New(p Params) domain.Service {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("report.service"),
		clock:     p.Clock,
		reporting: p.Reporting,
		repo:      p.Repo,
		snapshots: p.Snapshots,
	}
}

func (s *Service) MonthlySummary(ctx context.Context, month period.Month) (domain.MonthlySummary, error) {
	ownerID, ok := userctx.UserIDFromContext(ctx)
	if !ok || ownerID == 0 {
		return domain.MonthlySummary{}, domain.ErrInvalidOwner
	}
	if cached, ok := s.snapshots.GetSummary(ownerID, month); ok {
		return cached, nil
	}
	summary, err := s.monthlySummary(ctx, ownerID, month)
	if err != nil {
		return domain.MonthlySummary{}, err
	}
	s.snapshots.SetSummary(ownerID, month, summary)
	return summary, nil
}

func (s *Service) monthlySummary(ctx context.Context, ownerID snowflake.ID, month period.Month) (domain.MonthlySummary, error) {
	from, to := month.Window()

	revenue, err := s.repo.RevenueInWindow(ctx, s.db, ownerID, from, to)
	if err != nil {
		return domain.MonthlySummary{}, err
	}
	billed, err := s.repo.BilledInWindow(ctx, s.db, ownerID, from, to)
	if err != nil {
		return domain.MonthlySummary{}, err
	}
	expenses, err := s.repo.ExpensesInWindow(ctx, s.db, ownerID, from, to)
	if err != nil {
		return domain.MonthlySummary{}, err
	}
	// Outstanding balance is deliberately not scoped to the month: it is the
	// current open-invoice snapshot, whatever month the report covers.
	unpaid, err := s.repo.OutstandingBalance(ctx, s.db, ownerID)
	if err != nil {
		return domain.MonthlySummary{}, err
	}

	return domain.MonthlySummary{
		Month:          month.String(),
		Revenue:        revenue,
		BilledAmount:   billed,
		Expenses:       expenses,
		Profit:         money.Profit(revenue, expenses),
		UnpaidAmount:   unpaid,
		CollectionRate: money.Rate(revenue, billed),
	}, nil
}

func (s *Service) MonthlyTrend(ctx context.Context, months int) ([]domain.TrendPoint, error) {
	ownerID, ok := userctx.UserIDFromContext(ctx)
	if !ok || ownerID == 0 {
		return nil, domain.ErrInvalidOwner
	}
	cfg := s.reporting.Get()
	if months <= 0 {
		months = cfg.TrendMonthsDefault
	}
	if months > cfg.TrendMonthsMax {
		return nil, domain.ErrInvalidMonths
	}
	return s.monthlyTrend(ctx, ownerID, months)
}

func (s *Service) monthlyTrend(ctx context.Context, ownerID snowflake.ID, months int) ([]domain.TrendPoint, error) {
	current := period.Of(s.clock.Now())
	points := make([]domain.TrendPoint, 0, months)
	for _, m := range period.Trailing(current, months) {
		from, to := m.Window()
		revenue, err := s.repo.RevenueInWindow(ctx, s.db, ownerID, from, to)
		if err != nil {
			return nil, err
		}
		expenses, err := s.repo.ExpensesInWindow(ctx, s.db, ownerID, from, to)
		if err != nil {
			return nil, err
		}
		points = append(points, domain.TrendPoint{
			Month:    m.String(),
			Revenue:  revenue,
			Expenses: expenses,
			Profit:   money.Profit(revenue, expenses),
		})
	}
	return points, nil
}

func (s *Service) ExpenseBreakdown(ctx context.Context, month *period.Month) ([]domain.CategoryBreakdown, error) {
	ownerID, ok := userctx.UserIDFromContext(ctx)
	if !ok || ownerID == 0 {
		return nil, domain.ErrInvalidOwner
	}
	return s.expenseBreakdown(ctx, ownerID, month)
}

func (s *Service) expenseBreakdown(ctx context.Context, ownerID snowflake.ID, month *period.Month) ([]domain.CategoryBreakdown, error) {
	var from, to *time.Time
	if month != nil {
		f, t := month.Window()
		from, to = &f, &t
	}
	return s.repo.ExpenseBreakdown(ctx, s.db, ownerID, from, to)
}

func (s *Service) ProjectSales(ctx context.Context, month *period.Month) ([]domain.ProjectSales, error) {
	ownerID, ok := userctx.UserIDFromContext(ctx)
	if !ok || ownerID == 0 {
		return nil, domain.ErrInvalidOwner
	}
	return s.projectSales(ctx, ownerID, month)
}

func (s *Service) projectSales(ctx context.Context, ownerID snowflake.ID, month *period.Month) ([]domain.ProjectSales, error) {
	var from, to *time.Time
	if month != nil {
		f, t := month.Window()
		from, to = &f, &t
	}
	return s.repo.ProjectSales(ctx, s.db, ownerID, from, to)
}

func (s *Service) RecentInvoices(ctx context.Context, limit int) ([]invoicedomain.Invoice, error) {
	ownerID, ok := userctx.UserIDFromContext(ctx)
	if !ok || ownerID == 0 {
		return nil, domain.ErrInvalidOwner
	}
	if limit < 0 {
		return nil, domain.ErrInvalidLimit
	}
	if limit == 0 {
		limit = s.reporting.Get().RecentLimit
	}
	return s.repo.RecentInvoices(ctx, s.db, ownerID, limit)
}

func (s *Service) RecentExpenses(ctx context.Context, limit int) ([]expensedomain.Expense, error) {
	ownerID, ok := userctx.UserIDFromContext(ctx)
	if !ok || ownerID == 0 {
		return nil, domain.ErrInvalidOwner
	}
	if limit < 0 {
		return nil, domain.ErrInvalidLimit
	}
	if limit == 0 {
		limit = s.reporting.Get().RecentLimit
	}
	return s.repo.RecentExpenses(ctx, s.db, ownerID, limit)
}

// Dashboard composes every report for one month. The sub-aggregations are
// independent of each other, so they run concurrently.
func (s *Service) Dashboard(ctx context.Context, month period.Month) (domain.Dashboard, error) {
	ownerID, ok := userctx.UserIDFromContext(ctx)
	if !ok || ownerID == 0 {
		return domain.Dashboard{}, domain.ErrInvalidOwner
	}
	if cached, ok := s.snapshots.GetDashboard(ownerID, month); ok {
		return cached, nil
	}

	cfg := s.reporting.Get()
	var dashboard domain.Dashboard

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		summary, err := s.monthlySummary(gctx, ownerID, month)
		if err != nil {
			return err
		}
		dashboard.Summary = summary
		return nil
	})
	g.Go(func() error {
		trend, err := s.monthlyTrend(gctx, ownerID, cfg.TrendMonthsDefault)
		if err != nil {
			return err
		}
		dashboard.Trend = trend
		return nil
	})
	g.Go(func() error {
		m := month
		breakdown, err := s.expenseBreakdown(gctx, ownerID, &m)
		if err != nil {
			return err
		}
		dashboard.ExpenseBreakdown = breakdown
		return nil
	})
	g.Go(func() error {
		m := month
		sales, err := s.projectSales(gctx, ownerID, &m)
		if err != nil {
			return err
		}
		dashboard.ProjectSales = sales
		return nil
	})
	g.Go(func() error {
		invoices, err := s.repo.RecentInvoices(gctx, s.db, ownerID, cfg.RecentLimit)
		if err != nil {
			return err
		}
		dashboard.RecentInvoices = invoices
		return nil
	})
	g.Go(func() error {
		expenses, err := s.repo.RecentExpenses(gctx, s.db, ownerID, cfg.RecentLimit)
		if err != nil {
			return err
		}
		dashboard.RecentExpenses = expenses
		return nil
	})
	if err := g.Wait(); err != nil {
		return domain.Dashboard{}, err
	}
	s.snapshots.SetDashboard(ownerID, month, dashboard)
	return dashboard, nil
}
