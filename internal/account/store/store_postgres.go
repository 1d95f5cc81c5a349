package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"

	"accountd/internal/account/models"
	"accountd/pkg/domain"
	"accountd/pkg/platform/sentinel"
	"accountd/pkg/platform/tx"
)

//go:embed schema.sql
var schemaSQL string

const uniqueViolation = "23505"

// PostgresStore persists accounts in PostgreSQL. The account value is kept as a
// JSONB document in the same shape the decoder accepts and is re-validated
// through models.Decode on every read.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed account store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the accounts table when missing.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("ensure accounts schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Create(ctx context.Context, record *models.AccountRecord) error {
	doc, err := models.EncodeJSON(record.Account)
	if err != nil {
		return fmt.Errorf("encode account: %w", err)
	}
	_, err = tx.Q(ctx, s.db).ExecContext(ctx, `
		INSERT INTO accounts (id, status, name, document, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, uuid.UUID(record.ID), string(record.Status()), string(record.Account.Name()), string(doc), record.CreatedAt, record.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return sentinel.ErrAlreadyUsed
		}
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id domain.AccountID) (*models.AccountRecord, error) {
	row := tx.Q(ctx, s.db).QueryRowContext(ctx, `
		SELECT id, document, created_at, updated_at FROM accounts WHERE id = $1
	`, uuid.UUID(id))
	return scanRecord(row)
}

func (s *PostgresStore) ListByStatus(ctx context.Context, statuses ...models.Status) ([]*models.AccountRecord, error) {
	query := `SELECT id, document, created_at, updated_at FROM accounts`
	var args []any
	if len(statuses) > 0 {
		names := make([]string, len(statuses))
		for i, st := range statuses {
			names[i] = string(st)
		}
		query += ` WHERE status = ANY($1)`
		args = append(args, pq.Array(names))
	}
	query += ` ORDER BY created_at, id`

	rows, err := tx.Q(ctx, s.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var out []*models.AccountRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate accounts: %w", err)
	}
	return out, nil
}

// Execute locks the row with SELECT ... FOR UPDATE for the duration of fn.
func (s *PostgresStore) Execute(ctx context.Context, id domain.AccountID, fn TransitionFunc) (*models.AccountRecord, error) {
	var result *models.AccountRecord
	err := tx.Run(ctx, s.db, func(txCtx context.Context) error {
		q := tx.Q(txCtx, s.db)
		current, err := scanRecord(q.QueryRowContext(txCtx, `
			SELECT id, document, created_at, updated_at FROM accounts WHERE id = $1 FOR UPDATE
		`, uuid.UUID(id)))
		if err != nil {
			return err
		}

		next, err := fn(*current)
		if err != nil {
			return err
		}

		doc, err := models.EncodeJSON(next.Account)
		if err != nil {
			return fmt.Errorf("encode account: %w", err)
		}
		_, err = q.ExecContext(txCtx, `
			UPDATE accounts SET status = $2, name = $3, document = $4, updated_at = $5 WHERE id = $1
		`, uuid.UUID(id), string(next.Status()), string(next.Account.Name()), string(doc), next.UpdatedAt)
		if err != nil {
			return fmt.Errorf("update account: %w", err)
		}
		result = next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*models.AccountRecord, error) {
	var (
		id                   uuid.UUID
		doc                  []byte
		createdAt, updatedAt time.Time
	)
	if err := row.Scan(&id, &doc, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan account: %w", err)
	}
	acct, err := models.DecodeJSON(doc)
	if err != nil {
		return nil, fmt.Errorf("stored account %s: %w", id, err)
	}
	return &models.AccountRecord{
		ID:        domain.AccountID(id),
		Account:   acct,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}, nil
}
