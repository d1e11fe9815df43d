package reports

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ledgerline/ledgerline/internal/inventory"
	"github.com/ledgerline/ledgerline/internal/invoices"
	"github.com/ledgerline/ledgerline/internal/purchases"
	"github.com/ledgerline/ledgerline/internal/sales"
)

// SalesSource provides the sales side of the dashboard.
type SalesSource interface {
	Summarize(ctx context.Context, from, to time.Time) (sales.Summary, error)
}

// PurchaseSource provides the purchasing side of the dashboard.
type PurchaseSource interface {
	Summarize(ctx context.Context, from, to time.Time) (purchases.Summary, error)
}

// InvoiceSource provides invoicing figures for the dashboard.
type InvoiceSource interface {
	Summarize(ctx context.Context, from, to time.Time) (invoices.Summary, error)
	Overdue(ctx context.Context, asOf time.Time) ([]invoices.Invoice, error)
}

// StockSource provides current stock levels.
type StockSource interface {
	StockLevels(ctx context.Context) ([]inventory.StockLevel, error)
}

// Dashboard aggregates the period's figures across all modules.
type Dashboard struct {
	Range        RangeInfo              `json:"range"`
	Sales        sales.Summary          `json:"sales"`
	Purchases    purchases.Summary      `json:"purchases"`
	Invoices     invoices.Summary       `json:"invoices"`
	OverdueCount int                    `json:"overdueCount"`
	Stock        []inventory.StockLevel `json:"stock"`
}

// RangeInfo echoes the resolved reporting window.
type RangeInfo struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Service assembles cross-module reports.
type Service struct {
	sales     SalesSource
	purchases PurchaseSource
	invoices  InvoiceSource
	stock     StockSource
	cache     *Cache
}

// NewService builds Service instance.
func NewService(salesSrc SalesSource, purchaseSrc PurchaseSource, invoiceSrc InvoiceSource, stockSrc StockSource, cache *Cache) *Service {
	return &Service{
		sales:     salesSrc,
		purchases: purchaseSrc,
		invoices:  invoiceSrc,
		stock:     stockSrc,
		cache:     cache,
	}
}

// Dashboard fans out to each module's summary for the window and
// caches the assembled result.
func (s *Service) Dashboard(ctx context.Context, from, to time.Time) (Dashboard, error) {
	key, err := s.cache.BuildKey(ctx, "reports", "dashboard", from.Format("2006-01-02"), to.Format("2006-01-02"))
	if err != nil {
		return Dashboard{}, err
	}

	var dashboard Dashboard
	err = s.cache.FetchJSON(ctx, key, &dashboard, func(ctx context.Context) (any, error) {
		return s.buildDashboard(ctx, from, to)
	})
	return dashboard, err
}

func (s *Service) buildDashboard(ctx context.Context, from, to time.Time) (Dashboard, error) {
	dashboard := Dashboard{Range: RangeInfo{Start: from, End: to}}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		summary, err := s.sales.Summarize(ctx, from, to)
		if err != nil {
			return err
		}
		dashboard.Sales = summary
		return nil
	})

	g.Go(func() error {
		summary, err := s.purchases.Summarize(ctx, from, to)
		if err != nil {
			return err
		}
		dashboard.Purchases = summary
		return nil
	})

	g.Go(func() error {
		summary, err := s.invoices.Summarize(ctx, from, to)
		if err != nil {
			return err
		}
		dashboard.Invoices = summary
		return nil
	})

	g.Go(func() error {
		overdue, err := s.invoices.Overdue(ctx, to)
		if err != nil {
			return err
		}
		dashboard.OverdueCount = len(overdue)
		return nil
	})

	g.Go(func() error {
		levels, err := s.stock.StockLevels(ctx)
		if err != nil {
			return err
		}
		dashboard.Stock = levels
		return nil
	})

	if err := g.Wait(); err != nil {
		return Dashboard{}, err
	}
	return dashboard, nil
}

// Invalidate drops all cached reports by bumping the cache version.
// Freshness otherwise relies on the cache TTL; the nightly overdue
// sweep calls this when it changes invoice statuses.
func (s *Service) Invalidate(ctx context.Context) error {
	return s.cache.Bump(ctx)
}
