package invoices

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ledgerline/ledgerline/internal/platform/httpx"
)

type memoryRepo struct {
	invoices   map[int64]*Invoice
	lines      map[int64][]Line
	payments   map[int64][]Payment
	nextID     int64
	nextLineID int64
	nextPayID  int64
	lastNumber string
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		invoices: make(map[int64]*Invoice),
		lines:    make(map[int64][]Line),
		payments: make(map[int64][]Payment),
	}
}

func (r *memoryRepo) LatestNumber(ctx context.Context) (string, error) {
	return r.lastNumber, nil
}

func (r *memoryRepo) CreateInvoice(ctx context.Context, inv Invoice, lines []LineInput) (*InvoiceWithLines, error) {
	r.nextID++
	inv.ID = r.nextID
	r.invoices[inv.ID] = &inv
	r.lastNumber = inv.Number
	result := InvoiceWithLines{Invoice: inv}
	for _, line := range lines {
		r.nextLineID++
		l := Line{
			ID:          r.nextLineID,
			InvoiceID:   inv.ID,
			ProductID:   line.ProductID,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			Description: line.Description,
		}
		r.lines[inv.ID] = append(r.lines[inv.ID], l)
		result.Lines = append(result.Lines, l)
	}
	return &result, nil
}

func (r *memoryRepo) GetInvoice(ctx context.Context, id int64) (*Invoice, error) {
	inv, ok := r.invoices[id]
	if !ok {
		return nil, httpx.ErrNotFound
	}
	copied := *inv
	return &copied, nil
}

func (r *memoryRepo) GetInvoiceWithLines(ctx context.Context, id int64) (*InvoiceWithLines, error) {
	inv, err := r.GetInvoice(ctx, id)
	if err != nil {
		return nil, err
	}
	return &InvoiceWithLines{Invoice: *inv, Lines: r.lines[id]}, nil
}

func (r *memoryRepo) ListInvoices(ctx context.Context, filter ListFilter) ([]Invoice, error) {
	var out []Invoice
	for _, inv := range r.invoices {
		if filter.Status != "" && inv.Status != filter.Status {
			continue
		}
		if filter.CustomerID != 0 && inv.CustomerID != filter.CustomerID {
			continue
		}
		if !filter.From.IsZero() && inv.IssueDate.Before(filter.From) {
			continue
		}
		if !filter.To.IsZero() && inv.IssueDate.After(filter.To) {
			continue
		}
		out = append(out, *inv)
	}
	return out, nil
}

func (r *memoryRepo) UpdateInvoice(ctx context.Context, id int64, input UpdateInvoiceInput) (*Invoice, error) {
	inv, ok := r.invoices[id]
	if !ok {
		return nil, httpx.ErrNotFound
	}
	inv.CustomerID = input.CustomerID
	inv.IssueDate = input.IssueDate
	inv.DueDate = input.DueDate
	inv.TotalAmount = input.TotalAmount
	inv.Tax = input.Tax
	inv.Discount = input.Discount
	inv.Notes = input.Notes
	inv.UpdatedAt = time.Now()
	copied := *inv
	return &copied, nil
}

func (r *memoryRepo) UpdateStatus(ctx context.Context, id int64, status Status) error {
	inv, ok := r.invoices[id]
	if !ok {
		return httpx.ErrNotFound
	}
	inv.Status = status
	return nil
}

func (r *memoryRepo) DeleteInvoice(ctx context.Context, id int64) error {
	if _, ok := r.invoices[id]; !ok {
		return httpx.ErrNotFound
	}
	delete(r.invoices, id)
	delete(r.lines, id)
	return nil
}

func (r *memoryRepo) AddLine(ctx context.Context, invoiceID int64, line LineInput) (*Line, error) {
	r.nextLineID++
	l := Line{ID: r.nextLineID, InvoiceID: invoiceID, ProductID: line.ProductID, Quantity: line.Quantity, UnitPrice: line.UnitPrice, Description: line.Description}
	r.lines[invoiceID] = append(r.lines[invoiceID], l)
	return &l, nil
}

func (r *memoryRepo) UpdateLine(ctx context.Context, invoiceID, lineID int64, line LineInput) (*Line, error) {
	for i, l := range r.lines[invoiceID] {
		if l.ID == lineID {
			l.ProductID = line.ProductID
			l.Quantity = line.Quantity
			l.UnitPrice = line.UnitPrice
			l.Description = line.Description
			r.lines[invoiceID][i] = l
			return &l, nil
		}
	}
	return nil, httpx.ErrNotFound
}

func (r *memoryRepo) DeleteLine(ctx context.Context, invoiceID, lineID int64) error {
	lines := r.lines[invoiceID]
	for i, l := range lines {
		if l.ID == lineID {
			r.lines[invoiceID] = append(lines[:i], lines[i+1:]...)
			return nil
		}
	}
	return httpx.ErrNotFound
}

func (r *memoryRepo) ListPayments(ctx context.Context, invoiceID int64) ([]Payment, error) {
	return r.payments[invoiceID], nil
}

func (r *memoryRepo) ApplyPayment(ctx context.Context, invoiceID int64, payment Payment, newPaid float64, newStatus Status) (*Payment, error) {
	inv, ok := r.invoices[invoiceID]
	if !ok {
		return nil, httpx.ErrNotFound
	}
	r.nextPayID++
	payment.ID = r.nextPayID
	r.payments[invoiceID] = append(r.payments[invoiceID], payment)
	inv.PaidAmount = newPaid
	inv.Status = newStatus
	return &payment, nil
}

func (r *memoryRepo) MarkOverdue(ctx context.Context, asOf time.Time) (int64, error) {
	var n int64
	for _, inv := range r.invoices {
		if (inv.Status == StatusSent || inv.Status == StatusPartial) && inv.DueDate.Before(asOf) {
			inv.Status = StatusOverdue
			n++
		}
	}
	return n, nil
}

func newTestService(repo *memoryRepo, now time.Time) *Service {
	svc := NewService(repo)
	svc.now = func() time.Time { return now }
	return svc
}

func TestCreateComputesTotalFromLines(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo, time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC))

	inv, err := svc.Create(context.Background(), CreateInvoiceInput{
		CustomerID: 1,
		DueDate:    time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC),
		Tax:        25,
		Discount:   10,
		Lines: []LineInput{
			{ProductID: 1, Quantity: 2, UnitPrice: 100},
			{ProductID: 2, Quantity: 1, UnitPrice: 50},
		},
	})
	require.NoError(t, err)
	require.Equal(t, 265.0, inv.TotalAmount)
	require.Equal(t, StatusDraft, inv.Status)
	require.Equal(t, 0.0, inv.PaidAmount)
	require.Len(t, inv.Lines, 2)
}

func TestCreateUsesExplicitTotalWithoutLines(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo, time.Now())

	inv, err := svc.Create(context.Background(), CreateInvoiceInput{
		CustomerID:  1,
		DueDate:     time.Now().AddDate(0, 1, 0),
		TotalAmount: 999.5,
	})
	require.NoError(t, err)
	require.Equal(t, 999.5, inv.TotalAmount)
	require.Empty(t, inv.Lines)
}

func TestCreateGeneratesSequentialNumbers(t *testing.T) {
	repo := newMemoryRepo()
	now := time.Date(2025, time.February, 15, 0, 0, 0, 0, time.UTC)
	svc := newTestService(repo, now)

	first, err := svc.Create(context.Background(), CreateInvoiceInput{CustomerID: 1, DueDate: now, TotalAmount: 10})
	require.NoError(t, err)
	require.Equal(t, "INV-1-202502", first.Number)

	second, err := svc.Create(context.Background(), CreateInvoiceInput{CustomerID: 1, DueDate: now, TotalAmount: 20})
	require.NoError(t, err)
	require.Equal(t, "INV-2-202502", second.Number)
}

func TestRecordPaymentDerivesStatus(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo, time.Now())

	inv, err := svc.Create(context.Background(), CreateInvoiceInput{CustomerID: 1, DueDate: time.Now(), TotalAmount: 265})
	require.NoError(t, err)

	_, err = svc.RecordPayment(context.Background(), inv.ID, PaymentInput{Amount: 100, Method: "CASH"})
	require.NoError(t, err)

	got, err := svc.Get(context.Background(), inv.ID)
	require.NoError(t, err)
	require.Equal(t, 100.0, got.PaidAmount)
	require.Equal(t, StatusPartial, got.Status)

	_, err = svc.RecordPayment(context.Background(), inv.ID, PaymentInput{Amount: 165, Method: "CASH"})
	require.NoError(t, err)

	got, err = svc.Get(context.Background(), inv.ID)
	require.NoError(t, err)
	require.Equal(t, 265.0, got.PaidAmount)
	require.Equal(t, StatusPaid, got.Status)

	payments, err := svc.ListPayments(context.Background(), inv.ID)
	require.NoError(t, err)
	require.Len(t, payments, 2)
}

func TestRecordPaymentMissingInvoice(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo, time.Now())

	_, err := svc.RecordPayment(context.Background(), 42, PaymentInput{Amount: 10, Method: "CASH"})
	require.True(t, errors.Is(err, httpx.ErrNotFound))
}

func TestOverdueOrderingAndMembership(t *testing.T) {
	repo := newMemoryRepo()
	asOf := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	svc := newTestService(repo, asOf)

	seed := func(status Status, due time.Time) int64 {
		repo.nextID++
		repo.invoices[repo.nextID] = &Invoice{ID: repo.nextID, Status: status, DueDate: due, TotalAmount: 100}
		return repo.nextID
	}
	late2 := seed(StatusSent, asOf.AddDate(0, 0, -2))
	late10 := seed(StatusPartial, asOf.AddDate(0, 0, -10))
	seed(StatusPaid, asOf.AddDate(0, 0, -30))   // settled, never overdue
	seed(StatusSent, asOf.AddDate(0, 0, 5))     // not yet due
	seed(StatusDraft, asOf.AddDate(0, 0, -5))   // never sent
	late1 := seed(StatusOverdue, asOf.AddDate(0, 0, -1))

	overdue, err := svc.Overdue(context.Background(), asOf)
	require.NoError(t, err)
	require.Len(t, overdue, 3)
	require.Equal(t, late10, overdue[0].ID)
	require.Equal(t, late2, overdue[1].ID)
	require.Equal(t, late1, overdue[2].ID)
}

func TestSummarizeEmptyRange(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo, time.Now())

	summary, err := svc.Summarize(context.Background(),
		time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2020, time.January, 31, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	require.Equal(t, 0, summary.TotalInvoices)
	require.Equal(t, 0.0, summary.TotalAmount)
	require.Equal(t, 0.0, summary.AvgAmount)
	require.Len(t, summary.ByStatus, len(AllStatuses))
	for status, count := range summary.ByStatus {
		require.Zero(t, count, "status %s", status)
	}
}

func TestSummarizeCountsAndAverage(t *testing.T) {
	repo := newMemoryRepo()
	now := time.Date(2025, time.May, 10, 0, 0, 0, 0, time.UTC)
	svc := newTestService(repo, now)

	repo.nextID++
	repo.invoices[repo.nextID] = &Invoice{ID: repo.nextID, IssueDate: now, Status: StatusSent, TotalAmount: 100}
	repo.nextID++
	repo.invoices[repo.nextID] = &Invoice{ID: repo.nextID, IssueDate: now, Status: StatusPaid, TotalAmount: 300}
	repo.nextID++
	repo.invoices[repo.nextID] = &Invoice{ID: repo.nextID, IssueDate: now.AddDate(0, -6, 0), Status: StatusPaid, TotalAmount: 999}

	summary, err := svc.Summarize(context.Background(), now.AddDate(0, 0, -30), now)
	require.NoError(t, err)
	require.Equal(t, 2, summary.TotalInvoices)
	require.Equal(t, 400.0, summary.TotalAmount)
	require.Equal(t, 200.0, summary.AvgAmount)
	require.Equal(t, 1, summary.ByStatus[StatusSent])
	require.Equal(t, 1, summary.ByStatus[StatusPaid])
	require.Equal(t, 0, summary.ByStatus[StatusDraft])
}

func TestRefreshOverdueFlipsStatuses(t *testing.T) {
	repo := newMemoryRepo()
	asOf := time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC)
	svc := newTestService(repo, asOf)

	repo.nextID++
	repo.invoices[repo.nextID] = &Invoice{ID: repo.nextID, Status: StatusSent, DueDate: asOf.AddDate(0, 0, -1)}
	repo.nextID++
	repo.invoices[repo.nextID] = &Invoice{ID: repo.nextID, Status: StatusPartial, DueDate: asOf.AddDate(0, 0, -3)}
	repo.nextID++
	repo.invoices[repo.nextID] = &Invoice{ID: repo.nextID, Status: StatusSent, DueDate: asOf.AddDate(0, 0, 3)}

	n, err := svc.RefreshOverdue(context.Background(), asOf)
	require.NoError(t, err)
	require.Equal(t, int64(2), n)
	require.Equal(t, StatusSent, repo.invoices[3].Status)
}

func TestChangeStatusRejectsUnknown(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo, time.Now())

	err := svc.ChangeStatus(context.Background(), 1, Status("VOID"))
	require.True(t, errors.Is(err, httpx.ErrValidation))
}
