package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/ledgerline/ledgerline/internal/inventory"
	"github.com/ledgerline/ledgerline/internal/platform/httpx"
)

// TxRepository exposes the writes grouped into one unit of work.
type TxRepository interface {
	InsertSale(ctx context.Context, sale Sale) (int64, error)
	InsertStockMovement(ctx context.Context, m inventory.Movement) error
}

// RepositoryPort defines data access methods for sales.
type RepositoryPort interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
	GetSale(ctx context.Context, id int64) (*Sale, error)
	ListSales(ctx context.Context, filter ListFilter) ([]Sale, error)
	UpdateSale(ctx context.Context, id int64, sale Sale) (*Sale, error)
	DeleteSale(ctx context.Context, id int64) error
}

// Service handles sales business logic.
type Service struct {
	repo RepositoryPort
	now  func() time.Time
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Create records a sale and its outbound stock movement as one unit of
// work. Both rows commit or neither does.
func (s *Service) Create(ctx context.Context, input CreateSaleInput) (*Sale, error) {
	if input.CustomerID == 0 || input.ProductID == 0 {
		return nil, fmt.Errorf("customer and product required: %w", httpx.ErrValidation)
	}

	now := s.now()
	saleDate := input.SaleDate
	if saleDate.IsZero() {
		saleDate = now
	}

	total := ComputeTotal(input.Quantity, input.UnitPrice, input.Discount, input.Tax, input.RoundOff)
	if input.Total != nil {
		total = *input.Total
	}

	sale := Sale{
		CustomerID: input.CustomerID,
		ProductID:  input.ProductID,
		Quantity:   input.Quantity,
		UnitPrice:  input.UnitPrice,
		Discount:   input.Discount,
		Tax:        input.Tax,
		RoundOff:   input.RoundOff,
		Total:      total,
		SaleDate:   saleDate,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		id, err := tx.InsertSale(ctx, sale)
		if err != nil {
			return fmt.Errorf("insert sale: %w", err)
		}
		sale.ID = id

		movement := inventory.Movement{
			ProductID: sale.ProductID,
			Direction: inventory.DirectionOut,
			Quantity:  sale.Quantity,
			TxDate:    saleDate,
			Reference: fmt.Sprintf("SALE-%d", id),
			Note:      "sale dispatch",
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
	return &sale, nil
}

// Get returns one sale.
func (s *Service) Get(ctx context.Context, id int64) (*Sale, error) {
	return s.repo.GetSale(ctx, id)
}

// List returns sales matching the filter.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]Sale, error) {
	return s.repo.ListSales(ctx, filter)
}

// Update mutates a sale, recomputing the total with the same formula
// when one is not supplied. The stock movement recorded at creation is
// left untouched.
func (s *Service) Update(ctx context.Context, id int64, input UpdateSaleInput) (*Sale, error) {
	existing, err := s.repo.GetSale(ctx, id)
	if err != nil {
		return nil, err
	}

	total := ComputeTotal(input.Quantity, input.UnitPrice, input.Discount, input.Tax, input.RoundOff)
	if input.Total != nil {
		total = *input.Total
	}

	updated := Sale{
		ID:         id,
		CustomerID: input.CustomerID,
		ProductID:  input.ProductID,
		Quantity:   input.Quantity,
		UnitPrice:  input.UnitPrice,
		Discount:   input.Discount,
		Tax:        input.Tax,
		RoundOff:   input.RoundOff,
		Total:      total,
		SaleDate:   input.SaleDate,
		CreatedAt:  existing.CreatedAt,
		UpdatedAt:  s.now(),
	}
	if updated.SaleDate.IsZero() {
		updated.SaleDate = existing.SaleDate
	}
	return s.repo.UpdateSale(ctx, id, updated)
}

// Delete removes a sale.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.DeleteSale(ctx, id)
}

// Summarize reduces sales within [from, to] to period statistics.
func (s *Service) Summarize(ctx context.Context, from, to time.Time) (Summary, error) {
	rows, err := s.repo.ListSales(ctx, ListFilter{From: from, To: to})
	if err != nil {
		return Summary{}, err
	}
	var summary Summary
	for _, sale := range rows {
		summary.TotalSales++
		summary.TotalAmount += sale.Total
	}
	if summary.TotalSales > 0 {
		summary.AvgAmount = summary.TotalAmount / float64(summary.TotalSales)
	}
	return summary, nil
}
