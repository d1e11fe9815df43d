package purchases

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ledgerline/ledgerline/internal/inventory"
	"github.com/ledgerline/ledgerline/internal/platform/httpx"
)

// Repository persists purchases in PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type txRepository struct {
	tx pgx.Tx
}

// WithTx executes the callback inside a repeatable-read transaction.
func (r *Repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead})
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if err := fn(ctx, &txRepository{tx: tx}); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *txRepository) MarkReceived(ctx context.Context, id int64, receivedAt time.Time) (*Purchase, error) {
	row := r.tx.QueryRow(ctx, `
		UPDATE purchases
		SET status = $1, received_at = $2, updated_at = $3
		WHERE id = $4
		RETURNING `+purchaseColumns,
		StatusReceived, receivedAt, receivedAt, id,
	)
	return scanPurchase(row)
}

func (r *txRepository) InsertStockMovement(ctx context.Context, m inventory.Movement) error {
	_, err := r.tx.Exec(ctx, `
		INSERT INTO stock_items (product_id, type, quantity, transaction_date, reference, note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		m.ProductID, m.Direction, m.Quantity, m.TxDate, m.Reference, m.Note, m.CreatedAt,
	)
	return httpx.TranslatePG(err)
}

const purchaseColumns = `id, supplier_id, product_id, quantity, unit_price, total, status, purchase_date, received_at, created_at, updated_at`

func scanPurchase(row pgx.Row) (*Purchase, error) {
	var p Purchase
	err := row.Scan(
		&p.ID, &p.SupplierID, &p.ProductID, &p.Quantity, &p.UnitPrice,
		&p.Total, &p.Status, &p.PurchaseDate, &p.ReceivedAt,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("purchase: %w", httpx.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// CreatePurchase inserts a purchase row.
func (r *Repository) CreatePurchase(ctx context.Context, p Purchase) (*Purchase, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO purchases (supplier_id, product_id, quantity, unit_price, total, status, purchase_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+purchaseColumns,
		p.SupplierID, p.ProductID, p.Quantity, p.UnitPrice, p.Total,
		p.Status, p.PurchaseDate, p.CreatedAt, p.UpdatedAt,
	)
	created, err := scanPurchase(row)
	if err != nil {
		return nil, httpx.TranslatePG(err)
	}
	return created, nil
}

// GetPurchase retrieves one purchase by ID.
func (r *Repository) GetPurchase(ctx context.Context, id int64) (*Purchase, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+purchaseColumns+` FROM purchases WHERE id = $1`, id)
	return scanPurchase(row)
}

// ListPurchases returns purchases matching the filter, newest first.
func (r *Repository) ListPurchases(ctx context.Context, filter ListFilter) ([]Purchase, error) {
	query := `SELECT ` + purchaseColumns + ` FROM purchases WHERE 1=1`
	args := []any{}

	if filter.SupplierID != 0 {
		args = append(args, filter.SupplierID)
		query += fmt.Sprintf(" AND supplier_id = $%d", len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if !filter.From.IsZero() {
		args = append(args, filter.From)
		query += fmt.Sprintf(" AND purchase_date >= $%d", len(args))
	}
	if !filter.To.IsZero() {
		args = append(args, filter.To)
		query += fmt.Sprintf(" AND purchase_date <= $%d", len(args))
	}
	query += " ORDER BY purchase_date DESC, id DESC"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var purchases []Purchase
	for rows.Next() {
		var p Purchase
		if err := rows.Scan(
			&p.ID, &p.SupplierID, &p.ProductID, &p.Quantity, &p.UnitPrice,
			&p.Total, &p.Status, &p.PurchaseDate, &p.ReceivedAt,
			&p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, err
		}
		purchases = append(purchases, p)
	}
	return purchases, rows.Err()
}

// UpdateStatus changes the purchase status.
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status Status) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE purchases SET status = $1, updated_at = $2 WHERE id = $3`,
		status, time.Now(), id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("purchase %d: %w", id, httpx.ErrNotFound)
	}
	return nil
}

// DeletePurchase removes a purchase row.
func (r *Repository) DeletePurchase(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM purchases WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("purchase %d: %w", id, httpx.ErrNotFound)
	}
	return nil
}
