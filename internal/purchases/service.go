package purchases

import (
	"context"
	"fmt"
	"time"

	"github.com/ledgerline/ledgerline/internal/inventory"
	"github.com/ledgerline/ledgerline/internal/platform/httpx"
)

// TxRepository exposes the writes grouped into one unit of work.
type TxRepository interface {
	MarkReceived(ctx context.Context, id int64, receivedAt time.Time) (*Purchase, error)
	InsertStockMovement(ctx context.Context, m inventory.Movement) error
}

// RepositoryPort defines data access methods for purchases.
type RepositoryPort interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
	CreatePurchase(ctx context.Context, p Purchase) (*Purchase, error)
	GetPurchase(ctx context.Context, id int64) (*Purchase, error)
	ListPurchases(ctx context.Context, filter ListFilter) ([]Purchase, error)
	UpdateStatus(ctx context.Context, id int64, status Status) error
	DeletePurchase(ctx context.Context, id int64) error
}

// Service handles purchase business logic.
type Service struct {
	repo RepositoryPort
	now  func() time.Time
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Create records a purchase order in PENDING state. No stock moves
// until the goods are received.
func (s *Service) Create(ctx context.Context, input CreatePurchaseInput) (*Purchase, error) {
	if input.SupplierID == 0 || input.ProductID == 0 {
		return nil, fmt.Errorf("supplier and product required: %w", httpx.ErrValidation)
	}
	if input.Quantity <= 0 {
		return nil, fmt.Errorf("quantity must be positive: %w", httpx.ErrValidation)
	}

	now := s.now()
	date := input.PurchaseDate
	if date.IsZero() {
		date = now
	}
	total := float64(input.Quantity) * input.UnitPrice
	if input.Total != nil {
		total = *input.Total
	}

	return s.repo.CreatePurchase(ctx, Purchase{
		SupplierID:   input.SupplierID,
		ProductID:    input.ProductID,
		Quantity:     input.Quantity,
		UnitPrice:    input.UnitPrice,
		Total:        total,
		Status:       StatusPending,
		PurchaseDate: date,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
}

// Receive marks the purchase as received and posts the inbound stock
// movement in the same unit of work as the status change.
func (s *Service) Receive(ctx context.Context, id int64) (*Purchase, error) {
	existing, err := s.repo.GetPurchase(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.Status == StatusReceived {
		return nil, fmt.Errorf("purchase already received: %w", httpx.ErrValidation)
	}
	if existing.Status == StatusCancelled {
		return nil, fmt.Errorf("purchase cancelled: %w", httpx.ErrValidation)
	}

	now := s.now()
	var received *Purchase
	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		p, err := tx.MarkReceived(ctx, id, now)
		if err != nil {
			return fmt.Errorf("mark received: %w", err)
		}
		received = p

		movement := inventory.Movement{
			ProductID: existing.ProductID,
			Direction: inventory.DirectionIn,
			Quantity:  existing.Quantity,
			TxDate:    now,
			Reference: fmt.Sprintf("PURCHASE-%d", id),
			Note:      "purchase receipt",
			CreatedAt: now,
		}
		if err := tx.InsertStockMovement(ctx, movement); err != nil {
			return fmt.Errorf("insert stock movement: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return received, nil
}

// Get returns one purchase.
func (s *Service) Get(ctx context.Context, id int64) (*Purchase, error) {
	return s.repo.GetPurchase(ctx, id)
}

// List returns purchases matching the filter.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]Purchase, error) {
	return s.repo.ListPurchases(ctx, filter)
}

// Cancel marks a pending purchase as cancelled.
func (s *Service) Cancel(ctx context.Context, id int64) error {
	existing, err := s.repo.GetPurchase(ctx, id)
	if err != nil {
		return err
	}
	if existing.Status == StatusReceived {
		return fmt.Errorf("received purchase cannot be cancelled: %w", httpx.ErrValidation)
	}
	return s.repo.UpdateStatus(ctx, id, StatusCancelled)
}

// Delete removes a purchase row.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.DeletePurchase(ctx, id)
}

// Summarize reduces purchases within [from, to] to period statistics.
func (s *Service) Summarize(ctx context.Context, from, to time.Time) (Summary, error) {
	rows, err := s.repo.ListPurchases(ctx, ListFilter{From: from, To: to})
	if err != nil {
		return Summary{}, err
	}
	var summary Summary
	for _, p := range rows {
		summary.TotalPurchases++
		summary.TotalAmount += p.Total
	}
	if summary.TotalPurchases > 0 {
		summary.AvgAmount = summary.TotalAmount / float64(summary.TotalPurchases)
	}
	return summary, nil
}
