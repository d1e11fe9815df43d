package taxes

import (
	"context"
	"fmt"
	"strings"

	"github.com/ledgerline/ledgerline/internal/masterdata/shared"
	"github.com/ledgerline/ledgerline/internal/platform/httpx"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, filters shared.ListFilters) ([]Tax, int, error) {
	return s.repo.List(ctx, filters.Normalize())
}

func (s *Service) Get(ctx context.Context, id int64) (Tax, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, tax Tax) (Tax, error) {
	if err := validate(tax); err != nil {
		return Tax{}, err
	}
	return s.repo.Create(ctx, tax)
}

func (s *Service) Update(ctx context.Context, id int64, tax Tax) error {
	if err := validate(tax); err != nil {
		return err
	}
	return s.repo.Update(ctx, id, tax)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func validate(t Tax) error {
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("tax name is required: %w", httpx.ErrValidation)
	}
	if t.Rate < 0 || t.Rate > 100 {
		return fmt.Errorf("tax rate must be between 0 and 100: %w", httpx.ErrValidation)
	}
	return nil
}
