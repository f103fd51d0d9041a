package repo

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/ovaphlow/pitchfork/service-user-lambda-go/internal/user/entity"
	"github.com/ovaphlow/pitchfork/service-user-lambda-go/pkg/database"
)

// UserRepo runs the CRUD statements against one table using sqlx. It owns
// the underlying handle; Close releases it.
type UserRepo struct {
	db    *sqlx.DB
	table string
}

// NewUserRepo wraps db. table must already be validated as a plain identifier.
func NewUserRepo(db *sqlx.DB, table string) *UserRepo {
	return &UserRepo{db: db, table: database.QuoteIdent(db.DriverName(), table)}
}

// GetByID returns every column of the row with the given id, or sql.ErrNoRows.
func (r *UserRepo) GetByID(ctx context.Context, id string) (entity.Record, error) {
	q := r.db.Rebind(fmt.Sprintf("SELECT * FROM %s WHERE id = ?", r.table))
	rows, err := r.db.QueryxContext(ctx, q, id)
	if err != nil {
		return entity.Record{}, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return entity.Record{}, err
		}
		return entity.Record{}, sql.ErrNoRows
	}
	cols, err := rows.Columns()
	if err != nil {
		return entity.Record{}, err
	}
	vals := make(map[string]any, len(cols))
	if err := rows.MapScan(vals); err != nil {
		return entity.Record{}, err
	}
	for k, v := range vals {
		// text columns come back as raw bytes from the mysql driver
		if b, ok := v.([]byte); ok {
			vals[k] = string(b)
		}
	}
	return entity.Record{Columns: cols, Values: vals}, nil
}

// Create inserts a row; the id is assigned by the database.
func (r *UserRepo) Create(ctx context.Context, in entity.UserInput) error {
	q := fmt.Sprintf("INSERT INTO %s (name, email) VALUES (?, ?)", r.table)
	return r.execTx(ctx, q, in.Name, in.Email)
}

// Update sets name and email on the row with the given id. Matching zero
// rows is not an error.
func (r *UserRepo) Update(ctx context.Context, id string, in entity.UserInput) error {
	q := fmt.Sprintf("UPDATE %s SET name = ?, email = ? WHERE id = ?", r.table)
	return r.execTx(ctx, q, in.Name, in.Email, id)
}

// Delete removes the row with the given id, if any.
func (r *UserRepo) Delete(ctx context.Context, id string) error {
	q := fmt.Sprintf("DELETE FROM %s WHERE id = ?", r.table)
	return r.execTx(ctx, q, id)
}

// Close releases the connection.
func (r *UserRepo) Close() error {
	return r.db.Close()
}

// execTx runs a single statement and commits only if it succeeded.
func (r *UserRepo) execTx(ctx context.Context, q string, args ...any) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if _, err := tx.ExecContext(ctx, r.db.Rebind(q), args...); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
