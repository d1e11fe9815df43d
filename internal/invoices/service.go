package invoices

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerline/ledgerline/internal/platform/httpx"
)

// RepositoryPort defines data access methods for invoices.
type RepositoryPort interface {
	LatestNumber(ctx context.Context) (string, error)
	CreateInvoice(ctx context.Context, inv Invoice, lines []LineInput) (*InvoiceWithLines, error)
	GetInvoice(ctx context.Context, id int64) (*Invoice, error)
	GetInvoiceWithLines(ctx context.Context, id int64) (*InvoiceWithLines, error)
	ListInvoices(ctx context.Context, filter ListFilter) ([]Invoice, error)
	UpdateInvoice(ctx context.Context, id int64, input UpdateInvoiceInput) (*Invoice, error)
	UpdateStatus(ctx context.Context, id int64, status Status) error
	DeleteInvoice(ctx context.Context, id int64) error
	AddLine(ctx context.Context, invoiceID int64, line LineInput) (*Line, error)
	UpdateLine(ctx context.Context, invoiceID, lineID int64, line LineInput) (*Line, error)
	DeleteLine(ctx context.Context, invoiceID, lineID int64) error
	ListPayments(ctx context.Context, invoiceID int64) ([]Payment, error)
	ApplyPayment(ctx context.Context, invoiceID int64, payment Payment, newPaid float64, newStatus Status) (*Payment, error)
	MarkOverdue(ctx context.Context, asOf time.Time) (int64, error)
}

// Service handles invoice business logic.
type Service struct {
	repo RepositoryPort
	now  func() time.Time
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Create persists a new invoice with its line items.
//
// When line items are submitted the total is computed as
// sum(quantity*unitPrice) + tax - discount; otherwise the caller
// supplied total is used verbatim. The invoice starts as DRAFT with
// nothing paid.
func (s *Service) Create(ctx context.Context, input CreateInvoiceInput) (*InvoiceWithLines, error) {
	if input.CustomerID == 0 {
		return nil, fmt.Errorf("customer required: %w", httpx.ErrValidation)
	}

	now := s.now()
	number := input.Number
	if number == "" {
		last, err := s.repo.LatestNumber(ctx)
		if err != nil {
			return nil, fmt.Errorf("read latest invoice number: %w", err)
		}
		number = NextNumber(last, now)
	}

	total := input.TotalAmount
	if len(input.Lines) > 0 {
		var itemsTotal float64
		for _, line := range input.Lines {
			itemsTotal += line.Quantity * line.UnitPrice
		}
		total = itemsTotal + input.Tax - input.Discount
	}

	issue := input.IssueDate
	if issue.IsZero() {
		issue = now
	}

	inv := Invoice{
		Number:      number,
		CustomerID:  input.CustomerID,
		IssueDate:   issue,
		DueDate:     input.DueDate,
		TotalAmount: total,
		Tax:         input.Tax,
		Discount:    input.Discount,
		PaidAmount:  0,
		Status:      StatusDraft,
		Notes:       input.Notes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return s.repo.CreateInvoice(ctx, inv, input.Lines)
}

// Get returns an invoice with its line items.
func (s *Service) Get(ctx context.Context, id int64) (*InvoiceWithLines, error) {
	return s.repo.GetInvoiceWithLines(ctx, id)
}

// List returns invoices matching the filter.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]Invoice, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, fmt.Errorf("unknown status %q: %w", filter.Status, httpx.ErrValidation)
	}
	return s.repo.ListInvoices(ctx, filter)
}

// Update mutates invoice header fields.
func (s *Service) Update(ctx context.Context, id int64, input UpdateInvoiceInput) (*Invoice, error) {
	return s.repo.UpdateInvoice(ctx, id, input)
}

// Delete removes an invoice and, by cascade, its line items.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.DeleteInvoice(ctx, id)
}

// ChangeStatus sets the invoice status to any known value.
func (s *Service) ChangeStatus(ctx context.Context, id int64, status Status) error {
	if !status.Valid() {
		return fmt.Errorf("unknown status %q: %w", status, httpx.ErrValidation)
	}
	return s.repo.UpdateStatus(ctx, id, status)
}

// Send marks an invoice as sent.
func (s *Service) Send(ctx context.Context, id int64) error {
	return s.repo.UpdateStatus(ctx, id, StatusSent)
}

// AddLine appends a line item to an invoice.
func (s *Service) AddLine(ctx context.Context, invoiceID int64, line LineInput) (*Line, error) {
	return s.repo.AddLine(ctx, invoiceID, line)
}

// UpdateLine replaces a line item.
func (s *Service) UpdateLine(ctx context.Context, invoiceID, lineID int64, line LineInput) (*Line, error) {
	return s.repo.UpdateLine(ctx, invoiceID, lineID, line)
}

// DeleteLine removes a single line item.
func (s *Service) DeleteLine(ctx context.Context, invoiceID, lineID int64) error {
	return s.repo.DeleteLine(ctx, invoiceID, lineID)
}

// ListPayments returns the payment history of an invoice.
func (s *Service) ListPayments(ctx context.Context, invoiceID int64) ([]Payment, error) {
	return s.repo.ListPayments(ctx, invoiceID)
}

// RecordPayment applies a payment to an invoice and derives its new status.
//
// The HTTP layer rejects non-positive amounts before this runs. The
// payment row and the updated paid amount/status are written in one
// unit of work. Overpayment is representable and not rejected here.
func (s *Service) RecordPayment(ctx context.Context, invoiceID int64, input PaymentInput) (*Payment, error) {
	inv, err := s.repo.GetInvoice(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	newPaid := inv.PaidAmount + input.Amount
	newStatus := StatusPartial
	if newPaid >= inv.TotalAmount {
		newStatus = StatusPaid
	}

	paidAt := input.PaidAt
	if paidAt.IsZero() {
		paidAt = s.now()
	}
	reference := input.Reference
	if reference == "" {
		reference = "PAY-" + uuid.NewString()
	}

	payment := Payment{
		InvoiceID: invoiceID,
		Amount:    input.Amount,
		Method:    input.Method,
		Reference: reference,
		Note:      input.Note,
		PaidAt:    paidAt,
		CreatedAt: s.now(),
	}
	return s.repo.ApplyPayment(ctx, invoiceID, payment, newPaid, newStatus)
}

// Overdue returns invoices that are past due and not settled, ordered
// by due date ascending. An invoice qualifies when its status is SENT,
// PARTIAL or OVERDUE and its due date is strictly before asOf.
func (s *Service) Overdue(ctx context.Context, asOf time.Time) ([]Invoice, error) {
	if asOf.IsZero() {
		asOf = s.now()
	}
	all, err := s.repo.ListInvoices(ctx, ListFilter{})
	if err != nil {
		return nil, err
	}
	var overdue []Invoice
	for _, inv := range all {
		switch inv.Status {
		case StatusSent, StatusPartial, StatusOverdue:
		default:
			continue
		}
		if inv.DueDate.Before(asOf) {
			overdue = append(overdue, inv)
		}
	}
	sort.Slice(overdue, func(i, j int) bool {
		return overdue[i].DueDate.Before(overdue[j].DueDate)
	})
	return overdue, nil
}

// Summarize reduces all invoices issued within [from, to] to period
// statistics including a fixed-category status breakdown.
func (s *Service) Summarize(ctx context.Context, from, to time.Time) (Summary, error) {
	rows, err := s.repo.ListInvoices(ctx, ListFilter{From: from, To: to})
	if err != nil {
		return Summary{}, err
	}

	summary := Summary{ByStatus: make(map[Status]int, len(AllStatuses))}
	for _, status := range AllStatuses {
		summary.ByStatus[status] = 0
	}
	for _, inv := range rows {
		summary.TotalInvoices++
		summary.TotalAmount += inv.TotalAmount
		summary.ByStatus[inv.Status]++
	}
	if summary.TotalInvoices > 0 {
		summary.AvgAmount = summary.TotalAmount / float64(summary.TotalInvoices)
	}
	return summary, nil
}

// RefreshOverdue flips past-due SENT and PARTIAL invoices to OVERDUE
// and reports how many rows changed. Invoked by the nightly worker.
func (s *Service) RefreshOverdue(ctx context.Context, asOf time.Time) (int64, error) {
	if asOf.IsZero() {
		asOf = s.now()
	}
	return s.repo.MarkOverdue(ctx, asOf)
}
