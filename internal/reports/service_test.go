package reports

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/ledgerline/ledgerline/internal/inventory"
	"github.com/ledgerline/ledgerline/internal/invoices"
	"github.com/ledgerline/ledgerline/internal/purchases"
	"github.com/ledgerline/ledgerline/internal/sales"
)

type fakeSources struct {
	calls atomic.Int64
}

func (f *fakeSources) Summarize(ctx context.Context, from, to time.Time) (sales.Summary, error) {
	f.calls.Add(1)
	return sales.Summary{TotalSales: 3, TotalAmount: 600, AvgAmount: 200}, nil
}

type fakePurchases struct{}

func (fakePurchases) Summarize(ctx context.Context, from, to time.Time) (purchases.Summary, error) {
	return purchases.Summary{TotalPurchases: 2, TotalAmount: 400, AvgAmount: 200}, nil
}

type fakeInvoices struct{}

func (fakeInvoices) Summarize(ctx context.Context, from, to time.Time) (invoices.Summary, error) {
	return invoices.Summary{TotalInvoices: 5, TotalAmount: 1000, AvgAmount: 200}, nil
}

func (fakeInvoices) Overdue(ctx context.Context, asOf time.Time) ([]invoices.Invoice, error) {
	return []invoices.Invoice{{ID: 1}, {ID: 2}}, nil
}

type fakeStock struct{}

func (fakeStock) StockLevels(ctx context.Context) ([]inventory.StockLevel, error) {
	return []inventory.StockLevel{
		{ProductID: 1, OpeningQty: 10, TotalIn: 5, TotalOut: 3, ClosingQty: 12},
	}, nil
}

func newTestService(t *testing.T) (*Service, *fakeSources) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	src := &fakeSources{}
	svc := NewService(src, fakePurchases{}, fakeInvoices{}, fakeStock{}, NewCache(client, time.Minute))
	return svc, src
}

func TestDashboardAssemblesAllSections(t *testing.T) {
	svc, _ := newTestService(t)
	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)

	dashboard, err := svc.Dashboard(context.Background(), from, to)
	require.NoError(t, err)
	require.Equal(t, 3, dashboard.Sales.TotalSales)
	require.Equal(t, 2, dashboard.Purchases.TotalPurchases)
	require.Equal(t, 5, dashboard.Invoices.TotalInvoices)
	require.Equal(t, 2, dashboard.OverdueCount)
	require.Len(t, dashboard.Stock, 1)
	require.Equal(t, int64(12), dashboard.Stock[0].ClosingQty)
}

func TestDashboardServesSecondCallFromCache(t *testing.T) {
	svc, src := newTestService(t)
	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)

	_, err := svc.Dashboard(context.Background(), from, to)
	require.NoError(t, err)
	_, err = svc.Dashboard(context.Background(), from, to)
	require.NoError(t, err)
	require.Equal(t, int64(1), src.calls.Load())
}

func TestInvalidateForcesRebuild(t *testing.T) {
	svc, src := newTestService(t)
	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)

	_, err := svc.Dashboard(context.Background(), from, to)
	require.NoError(t, err)

	require.NoError(t, svc.Invalidate(context.Background()))

	_, err = svc.Dashboard(context.Background(), from, to)
	require.NoError(t, err)
	require.Equal(t, int64(2), src.calls.Load())
}

func TestCacheNilClientLoadsFresh(t *testing.T) {
	src := &fakeSources{}
	svc := NewService(src, fakePurchases{}, fakeInvoices{}, fakeStock{}, nil)
	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)

	_, err := svc.Dashboard(context.Background(), from, to)
	require.NoError(t, err)
	_, err = svc.Dashboard(context.Background(), from, to)
	require.NoError(t, err)
	require.Equal(t, int64(2), src.calls.Load())
}
