package invoices

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ledgerline/ledgerline/internal/platform/db"
	"github.com/ledgerline/ledgerline/internal/platform/httpx"
)

// Repository provides PostgreSQL backed persistence for invoices.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const invoiceColumns = `id, number, customer_id, issue_date, due_date, total_amount, tax, discount, paid_amount, status, notes, created_at, updated_at`

func scanInvoice(row pgx.Row) (*Invoice, error) {
	var inv Invoice
	err := row.Scan(
		&inv.ID, &inv.Number, &inv.CustomerID, &inv.IssueDate, &inv.DueDate,
		&inv.TotalAmount, &inv.Tax, &inv.Discount, &inv.PaidAmount,
		&inv.Status, &inv.Notes, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("invoice: %w", httpx.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// LatestNumber returns the number of the most recently created invoice,
// or the empty string when no invoice exists yet.
func (r *Repository) LatestNumber(ctx context.Context) (string, error) {
	var number string
	err := r.pool.QueryRow(ctx,
		`SELECT number FROM invoices ORDER BY created_at DESC, id DESC LIMIT 1`,
	).Scan(&number)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return number, nil
}

// CreateInvoice inserts the invoice header and its line items in one
// transaction.
func (r *Repository) CreateInvoice(ctx context.Context, inv Invoice, lines []LineInput) (*InvoiceWithLines, error) {
	result := InvoiceWithLines{Invoice: inv}

	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO invoices (number, customer_id, issue_date, due_date, total_amount, tax, discount, paid_amount, status, notes, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			RETURNING id`,
			inv.Number, inv.CustomerID, inv.IssueDate, inv.DueDate,
			inv.TotalAmount, inv.Tax, inv.Discount, inv.PaidAmount,
			inv.Status, inv.Notes, inv.CreatedAt, inv.UpdatedAt,
		).Scan(&result.ID)
		if err != nil {
			return httpx.TranslatePG(err)
		}

		for _, line := range lines {
			var l Line
			err := tx.QueryRow(ctx, `
				INSERT INTO invoice_items (invoice_id, product_id, quantity, unit_price, description)
				VALUES ($1, $2, $3, $4, $5)
				RETURNING id`,
				result.ID, line.ProductID, line.Quantity, line.UnitPrice, line.Description,
			).Scan(&l.ID)
			if err != nil {
				return httpx.TranslatePG(err)
			}
			l.InvoiceID = result.ID
			l.ProductID = line.ProductID
			l.Quantity = line.Quantity
			l.UnitPrice = line.UnitPrice
			l.Description = line.Description
			result.Lines = append(result.Lines, l)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// GetInvoice retrieves an invoice header by ID.
func (r *Repository) GetInvoice(ctx context.Context, id int64) (*Invoice, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE id = $1`, id)
	return scanInvoice(row)
}

// GetInvoiceWithLines retrieves an invoice with its line items attached.
func (r *Repository) GetInvoiceWithLines(ctx context.Context, id int64) (*InvoiceWithLines, error) {
	inv, err := r.GetInvoice(ctx, id)
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, invoice_id, product_id, quantity, unit_price, description FROM invoice_items WHERE invoice_id = $1 ORDER BY id`,
		id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := InvoiceWithLines{Invoice: *inv}
	for rows.Next() {
		var l Line
		if err := rows.Scan(&l.ID, &l.InvoiceID, &l.ProductID, &l.Quantity, &l.UnitPrice, &l.Description); err != nil {
			return nil, err
		}
		result.Lines = append(result.Lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListInvoices returns invoices matching the filter, newest first.
func (r *Repository) ListInvoices(ctx context.Context, filter ListFilter) ([]Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE 1=1`
	args := []any{}

	if filter.Status != "" {
		args = append(args, filter.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.CustomerID != 0 {
		args = append(args, filter.CustomerID)
		query += fmt.Sprintf(" AND customer_id = $%d", len(args))
	}
	if !filter.From.IsZero() {
		args = append(args, filter.From)
		query += fmt.Sprintf(" AND issue_date >= $%d", len(args))
	}
	if !filter.To.IsZero() {
		args = append(args, filter.To)
		query += fmt.Sprintf(" AND issue_date <= $%d", len(args))
	}
	query += " ORDER BY created_at DESC, id DESC"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invoices []Invoice
	for rows.Next() {
		var inv Invoice
		if err := rows.Scan(
			&inv.ID, &inv.Number, &inv.CustomerID, &inv.IssueDate, &inv.DueDate,
			&inv.TotalAmount, &inv.Tax, &inv.Discount, &inv.PaidAmount,
			&inv.Status, &inv.Notes, &inv.CreatedAt, &inv.UpdatedAt,
		); err != nil {
			return nil, err
		}
		invoices = append(invoices, inv)
	}
	return invoices, rows.Err()
}

// UpdateInvoice mutates the invoice header.
func (r *Repository) UpdateInvoice(ctx context.Context, id int64, input UpdateInvoiceInput) (*Invoice, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE invoices
		SET customer_id = $1, issue_date = $2, due_date = $3, total_amount = $4, tax = $5, discount = $6, notes = $7, updated_at = $8
		WHERE id = $9
		RETURNING `+invoiceColumns,
		input.CustomerID, input.IssueDate, input.DueDate, input.TotalAmount,
		input.Tax, input.Discount, input.Notes, time.Now(), id,
	)
	inv, err := scanInvoice(row)
	if err != nil {
		return nil, httpx.TranslatePG(err)
	}
	return inv, nil
}

// UpdateStatus sets the status column.
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status Status) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE invoices SET status = $1, updated_at = $2 WHERE id = $3`,
		status, time.Now(), id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("invoice %d: %w", id, httpx.ErrNotFound)
	}
	return nil
}

// DeleteInvoice removes an invoice; line items cascade in the schema.
func (r *Repository) DeleteInvoice(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM invoices WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("invoice %d: %w", id, httpx.ErrNotFound)
	}
	return nil
}

// AddLine inserts a line item.
func (r *Repository) AddLine(ctx context.Context, invoiceID int64, line LineInput) (*Line, error) {
	l := Line{
		InvoiceID:   invoiceID,
		ProductID:   line.ProductID,
		Quantity:    line.Quantity,
		UnitPrice:   line.UnitPrice,
		Description: line.Description,
	}
	err := r.pool.QueryRow(ctx, `
		INSERT INTO invoice_items (invoice_id, product_id, quantity, unit_price, description)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		invoiceID, line.ProductID, line.Quantity, line.UnitPrice, line.Description,
	).Scan(&l.ID)
	if err != nil {
		return nil, httpx.TranslatePG(err)
	}
	return &l, nil
}

// UpdateLine replaces a line item belonging to the invoice.
func (r *Repository) UpdateLine(ctx context.Context, invoiceID, lineID int64, line LineInput) (*Line, error) {
	l := Line{
		ID:          lineID,
		InvoiceID:   invoiceID,
		ProductID:   line.ProductID,
		Quantity:    line.Quantity,
		UnitPrice:   line.UnitPrice,
		Description: line.Description,
	}
	tag, err := r.pool.Exec(ctx, `
		UPDATE invoice_items SET product_id = $1, quantity = $2, unit_price = $3, description = $4
		WHERE id = $5 AND invoice_id = $6`,
		line.ProductID, line.Quantity, line.UnitPrice, line.Description, lineID, invoiceID,
	)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("line item %d: %w", lineID, httpx.ErrNotFound)
	}
	return &l, nil
}

// DeleteLine removes a single line item.
func (r *Repository) DeleteLine(ctx context.Context, invoiceID, lineID int64) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM invoice_items WHERE id = $1 AND invoice_id = $2`,
		lineID, invoiceID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("line item %d: %w", lineID, httpx.ErrNotFound)
	}
	return nil
}

// ListPayments returns the payment history of an invoice, oldest first.
func (r *Repository) ListPayments(ctx context.Context, invoiceID int64) ([]Payment, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, invoice_id, amount, method, reference, note, paid_at, created_at FROM payments WHERE invoice_id = $1 ORDER BY paid_at, id`,
		invoiceID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []Payment
	for rows.Next() {
		var p Payment
		if err := rows.Scan(&p.ID, &p.InvoiceID, &p.Amount, &p.Method, &p.Reference, &p.Note, &p.PaidAt, &p.CreatedAt); err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

// ApplyPayment inserts the payment row and updates the invoice's paid
// amount and status in one transaction.
func (r *Repository) ApplyPayment(ctx context.Context, invoiceID int64, payment Payment, newPaid float64, newStatus Status) (*Payment, error) {
	result := payment

	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO payments (invoice_id, amount, method, reference, note, paid_at, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id`,
			invoiceID, payment.Amount, payment.Method, payment.Reference,
			payment.Note, payment.PaidAt, payment.CreatedAt,
		).Scan(&result.ID)
		if err != nil {
			return httpx.TranslatePG(err)
		}

		tag, err := tx.Exec(ctx,
			`UPDATE invoices SET paid_amount = $1, status = $2, updated_at = $3 WHERE id = $4`,
			newPaid, newStatus, time.Now(), invoiceID,
		)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("invoice %d: %w", invoiceID, httpx.ErrNotFound)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// MarkOverdue flips past-due SENT and PARTIAL invoices to OVERDUE.
func (r *Repository) MarkOverdue(ctx context.Context, asOf time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE invoices SET status = $1, updated_at = $2 WHERE status IN ($3, $4) AND due_date < $5`,
		StatusOverdue, time.Now(), StatusSent, StatusPartial, asOf,
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
