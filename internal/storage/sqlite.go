package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"kakeibo/internal/core"

	_ "modernc.org/sqlite"
)

// Mirror states of a transaction row with respect to the spreadsheet backup.
const (
	MirrorPending = "pending"
	MirrorDone    = "done"
	MirrorError   = "error"
)

const txColumns = "id, date, title, amount, payer, category, payment_type, created_at, updated_at"

type SQLiteRepository struct {
	db    *sql.DB
	users core.Users
}

var _ Store = (*SQLiteRepository)(nil)

func NewSQLiteRepository(dbPath string, users core.Users) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db, users: users}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) Create(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	if err := tx.Validate(r.users); err != nil {
		return core.Transaction{}, err
	}

	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO transactions (date, title, amount, payer, category, payment_type, mirror_state, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		tx.Date.String(), tx.Title, tx.Amount.Yen, tx.Payer,
		string(tx.Category), string(tx.PaymentType), MirrorPending, now, now,
	)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return core.Transaction{}, fmt.Errorf("last insert id: %w", err)
	}

	tx.ID = id
	tx.CreatedAt = now
	tx.UpdatedAt = now

	slog.InfoContext(ctx, "Transaction saved",
		"id", id,
		"title", tx.Title,
		"amount_yen", tx.Amount.Yen,
		"payer", tx.Payer,
		"payment_type", tx.PaymentType)

	return tx, nil
}

// Update replaces every mutable field of the record in one statement, so a
// failed validation or a missing id leaves the row untouched.
func (r *SQLiteRepository) Update(ctx context.Context, id int64, tx core.Transaction) (core.Transaction, error) {
	if err := tx.Validate(r.users); err != nil {
		return core.Transaction{}, err
	}

	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
		UPDATE transactions
		SET date = ?, title = ?, amount = ?, payer = ?, category = ?, payment_type = ?,
		    mirror_state = ?, updated_at = ?
		WHERE id = ?`,
		tx.Date.String(), tx.Title, tx.Amount.Yen, tx.Payer,
		string(tx.Category), string(tx.PaymentType), MirrorPending, now, id,
	)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("update transaction: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return core.Transaction{}, fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return core.Transaction{}, ErrTransactionNotFound
	}

	return r.Get(ctx, id)
}

func (r *SQLiteRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrTransactionNotFound
	}

	slog.InfoContext(ctx, "Transaction deleted", "id", id)
	return nil
}

func (r *SQLiteRepository) Get(ctx context.Context, id int64) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+txColumns+` FROM transactions WHERE id = ?`, id)
	tx, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, ErrTransactionNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}
	return tx, nil
}

func (r *SQLiteRepository) ListAll(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+txColumns+` FROM transactions ORDER BY date DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	return collectTransactions(rows)
}

func (r *SQLiteRepository) ListPage(ctx context.Context, page, pageSize int) (Page, error) {
	p := Page{Page: page, PageSize: pageSize}

	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions`).Scan(&p.Total); err != nil {
		return Page{}, fmt.Errorf("count transactions: %w", err)
	}

	if page < 1 || pageSize < 1 {
		return p, nil
	}
	offset := (page - 1) * pageSize
	if offset >= p.Total {
		return p, nil
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+txColumns+` FROM transactions ORDER BY date DESC, id DESC LIMIT ? OFFSET ?`,
		pageSize, offset)
	if err != nil {
		return Page{}, fmt.Errorf("list transactions page: %w", err)
	}
	defer rows.Close()

	p.Items, err = collectTransactions(rows)
	if err != nil {
		return Page{}, err
	}
	return p, nil
}

// ListMirrorPending returns rows not yet exported to the backup sheet.
func (r *SQLiteRepository) ListMirrorPending(ctx context.Context, limit int) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+txColumns+` FROM transactions WHERE mirror_state = ? ORDER BY id ASC LIMIT ?`,
		MirrorPending, limit)
	if err != nil {
		return nil, fmt.Errorf("list mirror pending: %w", err)
	}
	defer rows.Close()

	return collectTransactions(rows)
}

func (r *SQLiteRepository) MarkMirrored(ctx context.Context, id int64) error {
	return r.setMirrorState(ctx, id, MirrorDone)
}

func (r *SQLiteRepository) MarkMirrorError(ctx context.Context, id int64) error {
	return r.setMirrorState(ctx, id, MirrorError)
}

func (r *SQLiteRepository) setMirrorState(ctx context.Context, id int64, state string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET mirror_state = ? WHERE id = ?`, state, id)
	if err != nil {
		return fmt.Errorf("set mirror state: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrTransactionNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var (
		tx       core.Transaction
		date     string
		category string
		payType  string
	)
	err := row.Scan(&tx.ID, &date, &tx.Title, &tx.Amount.Yen, &tx.Payer,
		&category, &payType, &tx.CreatedAt, &tx.UpdatedAt)
	if err != nil {
		return core.Transaction{}, err
	}

	tx.Category = core.Category(category)
	tx.PaymentType = core.PaymentType(payType)
	tx.Date, err = core.ParseDate(date)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("parse stored date %q: %w", date, err)
	}
	return tx, nil
}

func collectTransactions(rows *sql.Rows) ([]core.Transaction, error) {
	var out []core.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return out, nil
}
