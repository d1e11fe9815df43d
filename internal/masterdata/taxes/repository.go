package taxes

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ledgerline/ledgerline/internal/masterdata/shared"
	"github.com/ledgerline/ledgerline/internal/platform/httpx"
)

type Repository interface {
	List(ctx context.Context, filters shared.ListFilters) ([]Tax, int, error)
	Get(ctx context.Context, id int64) (Tax, error)
	Create(ctx context.Context, tax Tax) (Tax, error)
	Update(ctx context.Context, id int64, tax Tax) error
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const taxColumns = `id, code, name, rate, is_active, created_at, updated_at`

func (r *repository) List(ctx context.Context, filters shared.ListFilters) ([]Tax, int, error) {
	where := ` WHERE 1=1`
	args := []any{}

	if filters.Search != "" {
		args = append(args, "%"+filters.Search+"%")
		n := strconv.Itoa(len(args))
		where += ` AND (name ILIKE $` + n + ` OR code ILIKE $` + n + `)`
	}
	if filters.IsActive != nil {
		args = append(args, *filters.IsActive)
		where += ` AND is_active = $` + strconv.Itoa(len(args))
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM taxes`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + taxColumns + ` FROM taxes` + where + ` ORDER BY name ASC`
	if filters.Limit > 0 {
		args = append(args, filters.Limit)
		query += ` LIMIT $` + strconv.Itoa(len(args))
		args = append(args, filters.Offset())
		query += ` OFFSET $` + strconv.Itoa(len(args))
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var taxes []Tax
	for rows.Next() {
		var t Tax
		if err := rows.Scan(&t.ID, &t.Code, &t.Name, &t.Rate, &t.IsActive, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, 0, err
		}
		taxes = append(taxes, t)
	}
	return taxes, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Tax, error) {
	var t Tax
	err := r.db.QueryRow(ctx, `SELECT `+taxColumns+` FROM taxes WHERE id = $1`, id).
		Scan(&t.ID, &t.Code, &t.Name, &t.Rate, &t.IsActive, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Tax{}, fmt.Errorf("tax %d: %w", id, httpx.ErrNotFound)
	}
	return t, err
}

func (r *repository) Create(ctx context.Context, tax Tax) (Tax, error) {
	now := time.Now()
	err := r.db.QueryRow(ctx, `
		INSERT INTO taxes (code, name, rate, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		tax.Code, tax.Name, tax.Rate, tax.IsActive, now, now,
	).Scan(&tax.ID)
	if err != nil {
		return Tax{}, httpx.TranslatePG(err)
	}
	tax.CreatedAt = now
	tax.UpdatedAt = now
	return tax, nil
}

func (r *repository) Update(ctx context.Context, id int64, tax Tax) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE taxes SET code = $1, name = $2, rate = $3, is_active = $4, updated_at = $5 WHERE id = $6`,
		tax.Code, tax.Name, tax.Rate, tax.IsActive, time.Now(), id,
	)
	if err != nil {
		return httpx.TranslatePG(err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("tax %d: %w", id, httpx.ErrNotFound)
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM taxes WHERE id = $1`, id)
	if err != nil {
		return httpx.TranslatePG(err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("tax %d: %w", id, httpx.ErrNotFound)
	}
	return nil
}
