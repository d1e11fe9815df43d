package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ledgerline/ledgerline/internal/platform/httpx"
)

func translateNoRows(err error, what string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", what, httpx.ErrNotFound)
	}
	return err
}

// Repository persists stock movements in PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// InsertMovement appends one stock movement row.
func (r *Repository) InsertMovement(ctx context.Context, m Movement) (*Movement, error) {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO stock_items (product_id, type, quantity, transaction_date, reference, note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		m.ProductID, m.Direction, m.Quantity, m.TxDate, m.Reference, m.Note, m.CreatedAt,
	).Scan(&m.ID)
	if err != nil {
		return nil, httpx.TranslatePG(err)
	}
	return &m, nil
}

// ListMovements returns movement history, newest first.
func (r *Repository) ListMovements(ctx context.Context, filter MovementFilter) ([]Movement, error) {
	query := `SELECT id, product_id, type, quantity, transaction_date, reference, note, created_at FROM stock_items WHERE 1=1`
	args := []any{}

	if filter.ProductID != 0 {
		args = append(args, filter.ProductID)
		query += fmt.Sprintf(" AND product_id = $%d", len(args))
	}
	if !filter.From.IsZero() {
		args = append(args, filter.From)
		query += fmt.Sprintf(" AND transaction_date >= $%d", len(args))
	}
	if !filter.To.IsZero() {
		args = append(args, filter.To)
		query += fmt.Sprintf(" AND transaction_date <= $%d", len(args))
	}
	query += " ORDER BY transaction_date DESC, id DESC"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var movements []Movement
	for rows.Next() {
		var m Movement
		if err := rows.Scan(&m.ID, &m.ProductID, &m.Direction, &m.Quantity, &m.TxDate, &m.Reference, &m.Note, &m.CreatedAt); err != nil {
			return nil, err
		}
		movements = append(movements, m)
	}
	return movements, rows.Err()
}

// UpdateMovement corrects an existing movement entry.
func (r *Repository) UpdateMovement(ctx context.Context, id int64, input MovementInput) (*Movement, error) {
	var m Movement
	err := r.pool.QueryRow(ctx, `
		UPDATE stock_items
		SET product_id = $1, type = $2, quantity = $3, transaction_date = $4, reference = $5, note = $6
		WHERE id = $7
		RETURNING id, product_id, type, quantity, transaction_date, reference, note, created_at`,
		input.ProductID, input.Direction, input.Quantity, input.TxDate, input.Reference, input.Note, id,
	).Scan(&m.ID, &m.ProductID, &m.Direction, &m.Quantity, &m.TxDate, &m.Reference, &m.Note, &m.CreatedAt)
	if err != nil {
		return nil, translateNoRows(err, "stock movement")
	}
	return &m, nil
}

// ListProductOpenings returns the product fields the snapshot needs.
func (r *Repository) ListProductOpenings(ctx context.Context) ([]ProductOpening, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, sku, opening_qty FROM products WHERE is_active ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var openings []ProductOpening
	for rows.Next() {
		var p ProductOpening
		if err := rows.Scan(&p.ProductID, &p.Name, &p.SKU, &p.OpeningQty); err != nil {
			return nil, err
		}
		openings = append(openings, p)
	}
	return openings, rows.Err()
}
