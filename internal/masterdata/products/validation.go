package products

import (
	"fmt"
	"strings"

	"github.com/ledgerline/ledgerline/internal/platform/httpx"
)

func (s *Service) validate(p Product) error {
	if strings.TrimSpace(p.SKU) == "" {
		return fmt.Errorf("product sku is required: %w", httpx.ErrValidation)
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("product name is required: %w", httpx.ErrValidation)
	}
	if p.Price < 0 {
		return fmt.Errorf("product price cannot be negative: %w", httpx.ErrValidation)
	}
	if p.OpeningQty < 0 {
		return fmt.Errorf("opening quantity cannot be negative: %w", httpx.ErrValidation)
	}
	return nil
}
