package inventory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerline/ledgerline/internal/platform/httpx"
)

// RepositoryPort abstracts repository usage for the service.
type RepositoryPort interface {
	InsertMovement(ctx context.Context, m Movement) (*Movement, error)
	ListMovements(ctx context.Context, filter MovementFilter) ([]Movement, error)
	UpdateMovement(ctx context.Context, id int64, input MovementInput) (*Movement, error)
	ListProductOpenings(ctx context.Context) ([]ProductOpening, error)
}

// Service coordinates stock movement operations.
type Service struct {
	repo RepositoryPort
	now  func() time.Time
}

// NewService builds Service.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo, now: time.Now}
}

func validateMovement(input MovementInput) error {
	if input.ProductID == 0 {
		return fmt.Errorf("product required: %w", httpx.ErrValidation)
	}
	if !input.Direction.Valid() {
		return fmt.Errorf("direction must be IN or OUT: %w", httpx.ErrValidation)
	}
	if input.Quantity <= 0 {
		return fmt.Errorf("quantity must be positive: %w", httpx.ErrValidation)
	}
	return nil
}

// Record appends a manual stock movement.
func (s *Service) Record(ctx context.Context, input MovementInput) (*Movement, error) {
	if err := validateMovement(input); err != nil {
		return nil, err
	}
	txDate := input.TxDate
	if txDate.IsZero() {
		txDate = s.now()
	}
	reference := input.Reference
	if reference == "" {
		reference = "ADJ-" + uuid.NewString()
	}
	return s.repo.InsertMovement(ctx, Movement{
		ProductID: input.ProductID,
		Direction: input.Direction,
		Quantity:  input.Quantity,
		TxDate:    txDate,
		Reference: reference,
		Note:      input.Note,
		CreatedAt: s.now(),
	})
}

// List returns movements matching the filter.
func (s *Service) List(ctx context.Context, filter MovementFilter) ([]Movement, error) {
	return s.repo.ListMovements(ctx, filter)
}

// Correct replaces a mistaken movement entry in place.
func (s *Service) Correct(ctx context.Context, id int64, input MovementInput) (*Movement, error) {
	if err := validateMovement(input); err != nil {
		return nil, err
	}
	return s.repo.UpdateMovement(ctx, id, input)
}

// StockLevels produces the current-stock snapshot: one row per product
// with closing = opening + sum(IN) - sum(OUT). The full movement
// history is re-scanned on every call; no running balance is kept.
func (s *Service) StockLevels(ctx context.Context) ([]StockLevel, error) {
	openings, err := s.repo.ListProductOpenings(ctx)
	if err != nil {
		return nil, err
	}
	movements, err := s.repo.ListMovements(ctx, MovementFilter{})
	if err != nil {
		return nil, err
	}

	levels := make(map[int64]*StockLevel, len(openings))
	for _, p := range openings {
		levels[p.ProductID] = &StockLevel{
			ProductID:  p.ProductID,
			Name:       p.Name,
			SKU:        p.SKU,
			OpeningQty: p.OpeningQty,
		}
	}
	for _, m := range movements {
		level, ok := levels[m.ProductID]
		if !ok {
			continue
		}
		switch m.Direction {
		case DirectionIn:
			level.TotalIn += m.Quantity
		case DirectionOut:
			level.TotalOut += m.Quantity
		}
	}

	out := make([]StockLevel, 0, len(levels))
	for _, level := range levels {
		level.ClosingQty = level.OpeningQty + level.TotalIn - level.TotalOut
		out = append(out, *level)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out, nil
}
