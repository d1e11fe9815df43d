package sales

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

// Repository persists sales in PostgreSQL.
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

func (r *txRepository) InsertSale(ctx context.Context, sale Sale) (int64, error) {
	var id int64
	err := r.tx.QueryRow(ctx, `
		INSERT INTO sales (customer_id, product_id, quantity, unit_price, discount, tax, round_off, total, sale_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`,
		sale.CustomerID, sale.ProductID, sale.Quantity, sale.UnitPrice,
		sale.Discount, sale.Tax, sale.RoundOff, sale.Total, sale.SaleDate,
		sale.CreatedAt, sale.UpdatedAt,
	).Scan(&id)
	if err != nil {
		return 0, httpx.TranslatePG(err)
	}
	return id, nil
}

func (r *txRepository) InsertStockMovement(ctx context.Context, m inventory.Movement) error {
	_, err := r.tx.Exec(ctx, `
		INSERT INTO stock_items (product_id, type, quantity, transaction_date, reference, note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		m.ProductID, m.Direction, m.Quantity, m.TxDate, m.Reference, m.Note, m.CreatedAt,
	)
	return httpx.TranslatePG(err)
}

const saleColumns = `id, customer_id, product_id, quantity, unit_price, discount, tax, round_off, total, sale_date, created_at, updated_at`

func scanSale(row pgx.Row) (*Sale, error) {
	var s Sale
	err := row.Scan(
		&s.ID, &s.CustomerID, &s.ProductID, &s.Quantity, &s.UnitPrice,
		&s.Discount, &s.Tax, &s.RoundOff, &s.Total, &s.SaleDate,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("sale: %w", httpx.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// GetSale retrieves one sale by ID.
func (r *Repository) GetSale(ctx context.Context, id int64) (*Sale, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+saleColumns+` FROM sales WHERE id = $1`, id)
	return scanSale(row)
}

// ListSales returns sales matching the filter, newest first.
func (r *Repository) ListSales(ctx context.Context, filter ListFilter) ([]Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE 1=1`
	args := []any{}

	if filter.CustomerID != 0 {
		args = append(args, filter.CustomerID)
		query += fmt.Sprintf(" AND customer_id = $%d", len(args))
	}
	if filter.ProductID != 0 {
		args = append(args, filter.ProductID)
		query += fmt.Sprintf(" AND product_id = $%d", len(args))
	}
	if !filter.From.IsZero() {
		args = append(args, filter.From)
		query += fmt.Sprintf(" AND sale_date >= $%d", len(args))
	}
	if !filter.To.IsZero() {
		args = append(args, filter.To)
		query += fmt.Sprintf(" AND sale_date <= $%d", len(args))
	}
	query += " ORDER BY sale_date DESC, id DESC"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sales []Sale
	for rows.Next() {
		var s Sale
		if err := rows.Scan(
			&s.ID, &s.CustomerID, &s.ProductID, &s.Quantity, &s.UnitPrice,
			&s.Discount, &s.Tax, &s.RoundOff, &s.Total, &s.SaleDate,
			&s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, err
		}
		sales = append(sales, s)
	}
	return sales, rows.Err()
}

// UpdateSale overwrites a sale row.
func (r *Repository) UpdateSale(ctx context.Context, id int64, sale Sale) (*Sale, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE sales
		SET customer_id = $1, product_id = $2, quantity = $3, unit_price = $4, discount = $5, tax = $6, round_off = $7, total = $8, sale_date = $9, updated_at = $10
		WHERE id = $11`,
		sale.CustomerID, sale.ProductID, sale.Quantity, sale.UnitPrice,
		sale.Discount, sale.Tax, sale.RoundOff, sale.Total, sale.SaleDate,
		time.Now(), id,
	)
	if err != nil {
		return nil, httpx.TranslatePG(err)
	}
	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("sale %d: %w", id, httpx.ErrNotFound)
	}
	return &sale, nil
}

// DeleteSale removes a sale row.
func (r *Repository) DeleteSale(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM sales WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("sale %d: %w", id, httpx.ErrNotFound)
	}
	return nil
}
