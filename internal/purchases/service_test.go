package purchases

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ledgerline/ledgerline/internal/inventory"
	"github.com/ledgerline/ledgerline/internal/platform/httpx"
)

// memoryPurchaseRepo simulates the transactional repository: the status
// change and the stock movement inside WithTx are staged and discarded
// together when the callback fails.
type memoryPurchaseRepo struct {
	purchases    map[int64]*Purchase
	movements    []inventory.Movement
	nextID       int64
	failReceive  bool
	failMovement bool
}

func newMemoryPurchaseRepo() *memoryPurchaseRepo {
	return &memoryPurchaseRepo{purchases: make(map[int64]*Purchase)}
}

type stagedPurchaseTx struct {
	repo      *memoryPurchaseRepo
	received  map[int64]*Purchase
	movements []inventory.Movement
}

func (t *stagedPurchaseTx) MarkReceived(ctx context.Context, id int64, receivedAt time.Time) (*Purchase, error) {
	if t.repo.failReceive {
		return nil, errors.New("update failed")
	}
	p, ok := t.repo.purchases[id]
	if !ok {
		return nil, httpx.ErrNotFound
	}
	copied := *p
	copied.Status = StatusReceived
	copied.ReceivedAt = &receivedAt
	copied.UpdatedAt = receivedAt
	t.received[id] = &copied
	return &copied, nil
}

func (t *stagedPurchaseTx) InsertStockMovement(ctx context.Context, m inventory.Movement) error {
	if t.repo.failMovement {
		return errors.New("movement insert failed")
	}
	t.movements = append(t.movements, m)
	return nil
}

func (r *memoryPurchaseRepo) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	staged := &stagedPurchaseTx{repo: r, received: make(map[int64]*Purchase)}
	if err := fn(ctx, staged); err != nil {
		return err
	}
	for id, p := range staged.received {
		r.purchases[id] = p
	}
	r.movements = append(r.movements, staged.movements...)
	return nil
}

func (r *memoryPurchaseRepo) CreatePurchase(ctx context.Context, p Purchase) (*Purchase, error) {
	r.nextID++
	p.ID = r.nextID
	r.purchases[p.ID] = &p
	copied := p
	return &copied, nil
}

func (r *memoryPurchaseRepo) GetPurchase(ctx context.Context, id int64) (*Purchase, error) {
	p, ok := r.purchases[id]
	if !ok {
		return nil, httpx.ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func (r *memoryPurchaseRepo) ListPurchases(ctx context.Context, filter ListFilter) ([]Purchase, error) {
	var out []Purchase
	for _, p := range r.purchases {
		if !filter.From.IsZero() && p.PurchaseDate.Before(filter.From) {
			continue
		}
		if !filter.To.IsZero() && p.PurchaseDate.After(filter.To) {
			continue
		}
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

func (r *memoryPurchaseRepo) UpdateStatus(ctx context.Context, id int64, status Status) error {
	p, ok := r.purchases[id]
	if !ok {
		return httpx.ErrNotFound
	}
	p.Status = status
	return nil
}

func (r *memoryPurchaseRepo) DeletePurchase(ctx context.Context, id int64) error {
	if _, ok := r.purchases[id]; !ok {
		return httpx.ErrNotFound
	}
	delete(r.purchases, id)
	return nil
}

func TestCreateDefaultsTotalAndStatus(t *testing.T) {
	repo := newMemoryPurchaseRepo()
	svc := NewService(repo)

	p, err := svc.Create(context.Background(), CreatePurchaseInput{
		SupplierID: 2,
		ProductID:  9,
		Quantity:   4,
		UnitPrice:  12.5,
	})
	require.NoError(t, err)
	require.Equal(t, 50.0, p.Total)
	require.Equal(t, StatusPending, p.Status)
	require.Nil(t, p.ReceivedAt)
	require.Empty(t, repo.movements)
}

func TestCreateUsesExplicitTotal(t *testing.T) {
	repo := newMemoryPurchaseRepo()
	svc := NewService(repo)

	total := 45.0
	p, err := svc.Create(context.Background(), CreatePurchaseInput{
		SupplierID: 2,
		ProductID:  9,
		Quantity:   4,
		UnitPrice:  12.5,
		Total:      &total,
	})
	require.NoError(t, err)
	require.Equal(t, 45.0, p.Total)
}

func TestCreateRejectsNonPositiveQuantity(t *testing.T) {
	repo := newMemoryPurchaseRepo()
	svc := NewService(repo)

	_, err := svc.Create(context.Background(), CreatePurchaseInput{
		SupplierID: 2,
		ProductID:  9,
		Quantity:   0,
		UnitPrice:  12.5,
	})
	require.ErrorIs(t, err, httpx.ErrValidation)
}

func TestReceivePostsInboundMovement(t *testing.T) {
	repo := newMemoryPurchaseRepo()
	svc := NewService(repo)

	p, err := svc.Create(context.Background(), CreatePurchaseInput{
		SupplierID: 2,
		ProductID:  9,
		Quantity:   4,
		UnitPrice:  12.5,
	})
	require.NoError(t, err)

	received, err := svc.Receive(context.Background(), p.ID)
	require.NoError(t, err)
	require.Equal(t, StatusReceived, received.Status)
	require.NotNil(t, received.ReceivedAt)

	require.Len(t, repo.movements, 1)
	m := repo.movements[0]
	require.Equal(t, inventory.DirectionIn, m.Direction)
	require.Equal(t, int64(4), m.Quantity)
	require.Equal(t, int64(9), m.ProductID)
	require.Equal(t, "PURCHASE-1", m.Reference)
}

func TestReceiveRollsBackWhenMovementFails(t *testing.T) {
	repo := newMemoryPurchaseRepo()
	svc := NewService(repo)

	p, err := svc.Create(context.Background(), CreatePurchaseInput{
		SupplierID: 2, ProductID: 9, Quantity: 4, UnitPrice: 12.5,
	})
	require.NoError(t, err)

	repo.failMovement = true
	_, err = svc.Receive(context.Background(), p.ID)
	require.Error(t, err)

	stored, err := repo.GetPurchase(context.Background(), p.ID)
	require.NoError(t, err)
	require.Equal(t, StatusPending, stored.Status)
	require.Empty(t, repo.movements)
}

func TestReceiveRejectsAlreadyReceived(t *testing.T) {
	repo := newMemoryPurchaseRepo()
	svc := NewService(repo)

	p, err := svc.Create(context.Background(), CreatePurchaseInput{
		SupplierID: 2, ProductID: 9, Quantity: 4, UnitPrice: 12.5,
	})
	require.NoError(t, err)

	_, err = svc.Receive(context.Background(), p.ID)
	require.NoError(t, err)

	_, err = svc.Receive(context.Background(), p.ID)
	require.ErrorIs(t, err, httpx.ErrValidation)
	require.Len(t, repo.movements, 1)
}

func TestCancelRejectsReceived(t *testing.T) {
	repo := newMemoryPurchaseRepo()
	svc := NewService(repo)

	p, err := svc.Create(context.Background(), CreatePurchaseInput{
		SupplierID: 2, ProductID: 9, Quantity: 4, UnitPrice: 12.5,
	})
	require.NoError(t, err)

	_, err = svc.Receive(context.Background(), p.ID)
	require.NoError(t, err)

	err = svc.Cancel(context.Background(), p.ID)
	require.ErrorIs(t, err, httpx.ErrValidation)
}

func TestSummarizePurchases(t *testing.T) {
	repo := newMemoryPurchaseRepo()
	svc := NewService(repo)
	now := time.Now()

	for _, total := range []float64{150, 250} {
		explicit := total
		_, err := svc.Create(context.Background(), CreatePurchaseInput{
			SupplierID: 1, ProductID: 1, Quantity: 1, UnitPrice: total,
			Total: &explicit, PurchaseDate: now,
		})
		require.NoError(t, err)
	}

	summary, err := svc.Summarize(context.Background(), now.AddDate(0, 0, -1), now.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Equal(t, 2, summary.TotalPurchases)
	require.Equal(t, 400.0, summary.TotalAmount)
	require.Equal(t, 200.0, summary.AvgAmount)
}
