package inventory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ledgerline/ledgerline/internal/platform/httpx"
)

type memoryInventoryRepo struct {
	movements []Movement
	openings  []ProductOpening
	nextID    int64
}

func (r *memoryInventoryRepo) InsertMovement(ctx context.Context, m Movement) (*Movement, error) {
	r.nextID++
	m.ID = r.nextID
	r.movements = append(r.movements, m)
	return &m, nil
}

func (r *memoryInventoryRepo) ListMovements(ctx context.Context, filter MovementFilter) ([]Movement, error) {
	var out []Movement
	for _, m := range r.movements {
		if filter.ProductID != 0 && m.ProductID != filter.ProductID {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func (r *memoryInventoryRepo) UpdateMovement(ctx context.Context, id int64, input MovementInput) (*Movement, error) {
	for i, m := range r.movements {
		if m.ID == id {
			m.ProductID = input.ProductID
			m.Direction = input.Direction
			m.Quantity = input.Quantity
			m.Reference = input.Reference
			m.Note = input.Note
			r.movements[i] = m
			return &m, nil
		}
	}
	return nil, httpx.ErrNotFound
}

func (r *memoryInventoryRepo) ListProductOpenings(ctx context.Context) ([]ProductOpening, error) {
	return r.openings, nil
}

func TestRecordValidatesInput(t *testing.T) {
	svc := NewService(&memoryInventoryRepo{})

	_, err := svc.Record(context.Background(), MovementInput{ProductID: 1, Direction: "SIDEWAYS", Quantity: 5})
	require.True(t, errors.Is(err, httpx.ErrValidation))

	_, err = svc.Record(context.Background(), MovementInput{ProductID: 1, Direction: DirectionIn, Quantity: 0})
	require.True(t, errors.Is(err, httpx.ErrValidation))

	_, err = svc.Record(context.Background(), MovementInput{Direction: DirectionIn, Quantity: 5})
	require.True(t, errors.Is(err, httpx.ErrValidation))
}

func TestRecordDefaultsDateAndReference(t *testing.T) {
	repo := &memoryInventoryRepo{}
	svc := NewService(repo)

	m, err := svc.Record(context.Background(), MovementInput{ProductID: 1, Direction: DirectionIn, Quantity: 5})
	require.NoError(t, err)
	require.False(t, m.TxDate.IsZero())
	require.Contains(t, m.Reference, "ADJ-")
}

func TestStockLevelsClosingQuantity(t *testing.T) {
	repo := &memoryInventoryRepo{
		openings: []ProductOpening{
			{ProductID: 1, Name: "Widget", SKU: "WID-1", OpeningQty: 10},
			{ProductID: 2, Name: "Gadget", SKU: "GAD-1", OpeningQty: 0},
			{ProductID: 3, Name: "Sprocket", SKU: "SPR-1", OpeningQty: 7},
		},
	}
	svc := NewService(repo)

	seed := func(product int64, dir Direction, qty int64) {
		_, err := svc.Record(context.Background(), MovementInput{ProductID: product, Direction: dir, Quantity: qty})
		require.NoError(t, err)
	}
	seed(1, DirectionIn, 20)
	seed(1, DirectionOut, 5)
	seed(1, DirectionOut, 3)
	seed(2, DirectionIn, 100)
	seed(2, DirectionOut, 40)

	levels, err := svc.StockLevels(context.Background())
	require.NoError(t, err)
	require.Len(t, levels, 3)

	byProduct := make(map[int64]StockLevel, len(levels))
	for _, level := range levels {
		byProduct[level.ProductID] = level
		require.Equal(t, level.OpeningQty+level.TotalIn-level.TotalOut, level.ClosingQty)
	}

	require.Equal(t, int64(22), byProduct[1].ClosingQty)
	require.Equal(t, int64(20), byProduct[1].TotalIn)
	require.Equal(t, int64(8), byProduct[1].TotalOut)
	require.Equal(t, int64(60), byProduct[2].ClosingQty)
	// No movements at all: closing equals opening.
	require.Equal(t, int64(7), byProduct[3].ClosingQty)
}

func TestCorrectReplacesEntry(t *testing.T) {
	repo := &memoryInventoryRepo{}
	svc := NewService(repo)

	m, err := svc.Record(context.Background(), MovementInput{ProductID: 1, Direction: DirectionIn, Quantity: 5})
	require.NoError(t, err)

	fixed, err := svc.Correct(context.Background(), m.ID, MovementInput{
		ProductID: 1,
		Direction: DirectionIn,
		Quantity:  8,
		TxDate:    time.Now(),
		Reference: m.Reference,
	})
	require.NoError(t, err)
	require.Equal(t, int64(8), fixed.Quantity)
	require.Len(t, repo.movements, 1)
}
