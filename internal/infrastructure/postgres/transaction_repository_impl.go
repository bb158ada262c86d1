package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/moneta-app/moneta-server/internal/domain/entity"
	"github.com/moneta-app/moneta-server/internal/domain/repository"
)

// Amounts live in a NUMERIC column and cross the wire as text so they
// round-trip through decimal.Decimal without touching float64.
const transactionColumns = `id, user_id, title, amount::text, type, category, date, notes,
	recurring_enabled, recurring_frequency, created_at, updated_at`

type TransactionRepository struct {
	pool *pgxpool.Pool
}

func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

func scanTransaction(row pgx.Row) (*entity.Transaction, error) {
	t := &entity.Transaction{}
	var amount string
	var txType string
	if err := row.Scan(&t.ID, &t.UserID, &t.Title, &amount, &txType, &t.Category, &t.Date,
		&t.Notes, &t.Recurring.Enabled, &t.Recurring.Frequency, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("parse amount %q: %w", amount, err)
	}
	t.Amount = d
	t.Type = entity.TransactionType(txType)
	return t, nil
}

// isMalformedID reports whether postgres rejected the id literal itself
// (22P02). A syntactically bogus id can never match a row, so lookups
// treat it the same as an absent one.
func isMalformedID(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "22P02"
}

func (r *TransactionRepository) Create(ctx context.Context, t *entity.Transaction) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	row := r.pool.QueryRow(ctx, `
		INSERT INTO transactions (user_id, title, amount, type, category, date, notes, recurring_enabled, recurring_frequency)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`, t.UserID, t.Title, t.Amount.String(), string(t.Type), t.Category, t.Date,
		t.Notes, t.Recurring.Enabled, t.Recurring.Frequency)

	return row.Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
}

func (r *TransactionRepository) GetByID(ctx context.Context, userID, id string) (*entity.Transaction, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	row := r.pool.QueryRow(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE id = $1 AND user_id = $2
	`, id, userID)

	t, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isMalformedID(err) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

func (r *TransactionRepository) List(ctx context.Context, userID string, f repository.TransactionFilter) ([]*entity.Transaction, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE user_id = $1`
	args := []any{userID}
	if f.Category != "" {
		args = append(args, f.Category)
		query += fmt.Sprintf(" AND category = $%d", len(args))
	}
	if f.Start != nil {
		args = append(args, *f.Start)
		query += fmt.Sprintf(" AND date >= $%d", len(args))
	}
	if f.End != nil {
		args = append(args, *f.End)
		query += fmt.Sprintf(" AND date <= $%d", len(args))
	}
	query += " ORDER BY date DESC, created_at DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]*entity.Transaction, 0)
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, t)
	}
	return items, rows.Err()
}

func (r *TransactionRepository) Update(ctx context.Context, t *entity.Transaction) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	t.UpdatedAt = time.Now().UTC()
	res, err := r.pool.Exec(ctx, `
		UPDATE transactions
		SET title = $1, amount = $2, type = $3, category = $4, date = $5, notes = $6,
			recurring_enabled = $7, recurring_frequency = $8, updated_at = $9
		WHERE id = $10 AND user_id = $11
	`, t.Title, t.Amount.String(), string(t.Type), t.Category, t.Date, t.Notes,
		t.Recurring.Enabled, t.Recurring.Frequency, t.UpdatedAt, t.ID, t.UserID)
	if err != nil {
		if isMalformedID(err) {
			return repository.ErrNotFound
		}
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *TransactionRepository) Delete(ctx context.Context, userID, id string) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	res, err := r.pool.Exec(ctx, `
		DELETE FROM transactions WHERE id = $1 AND user_id = $2
	`, id, userID)
	if err != nil {
		if isMalformedID(err) {
			return repository.ErrNotFound
		}
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *TransactionRepository) ExpenseByCategory(ctx context.Context, userID string, start, end *time.Time) ([]entity.CategoryTotal, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	query := `SELECT category, SUM(amount)::text FROM transactions WHERE user_id = $1 AND type = 'Expense'`
	args := []any{userID}
	if start != nil {
		args = append(args, *start)
		query += fmt.Sprintf(" AND date >= $%d", len(args))
	}
	if end != nil {
		args = append(args, *end)
		query += fmt.Sprintf(" AND date <= $%d", len(args))
	}
	query += " GROUP BY category ORDER BY SUM(amount) DESC, category ASC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]entity.CategoryTotal, 0)
	for rows.Next() {
		var ct entity.CategoryTotal
		var total string
		if err := rows.Scan(&ct.Category, &total); err != nil {
			return nil, err
		}
		d, err := decimal.NewFromString(total)
		if err != nil {
			return nil, fmt.Errorf("parse total %q: %w", total, err)
		}
		ct.Total = d
		out = append(out, ct)
	}
	return out, rows.Err()
}

var _ repository.TransactionRepository = (*TransactionRepository)(nil)
