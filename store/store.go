package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/lib/pq"

	"sales-management/apperr"
)

// Postgres error codes the store translates.
const (
	uniqueViolation     pq.ErrorCode = "23505"
	foreignKeyViolation pq.ErrorCode = "23503"
	checkViolation      pq.ErrorCode = "23514"
	numericOutOfRange   pq.ErrorCode = "22003"
)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
}

// PostgresStore is a Store backed by Postgres. The zero tx value means
// statements run on the pool; RunInTx hands out copies bound to a tx.
type PostgresStore struct {
	DB *sql.DB

	// Clock is used for relative time filters. Defaults to time.Now.
	Clock func() time.Time

	tx *sql.Tx
}

var _ Store = (*PostgresStore)(nil)

// NewPostgresStore opens a pool for dsn and checks that the server answers.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	DB, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	if err := DB.PingContext(ctx); err != nil {
		DB.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &PostgresStore{DB: DB}, nil
}

func (s *PostgresStore) Close() error { return s.DB.Close() }

func (s *PostgresStore) Ping(ctx context.Context) error { return s.DB.PingContext(ctx) }

func (s *PostgresStore) conn() querier {
	if s.tx != nil {
		return s.tx
	}
	return s.DB
}

func (s *PostgresStore) now() time.Time {
	if s.Clock != nil {
		return s.Clock().UTC()
	}
	return time.Now().UTC()
}

func (s *PostgresStore) RunInTx(ctx context.Context, fn func(Store) error) error {
	return s.inTx(ctx, func(tx *PostgresStore) error { return fn(tx) })
}

func (s *PostgresStore) RunInReadTx(ctx context.Context, fn func(Store) error) error {
	return s.inReadTx(ctx, func(tx *PostgresStore) error { return fn(tx) })
}

// readTxOptions give every statement of a read the same snapshot.
var readTxOptions = &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}

// inTx joins the current transaction if there is one.
func (s *PostgresStore) inTx(ctx context.Context, fn func(*PostgresStore) error) error {
	return s.withTx(ctx, nil, fn)
}

// inReadTx is inTx for multi-statement reads.
func (s *PostgresStore) inReadTx(ctx context.Context, fn func(*PostgresStore) error) error {
	return s.withTx(ctx, readTxOptions, fn)
}

func (s *PostgresStore) withTx(ctx context.Context, opts *sql.TxOptions, fn func(*PostgresStore) error) error {
	if s.tx != nil {
		return fn(s)
	}

	tx, err := s.DB.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	// no-op once committed
	defer func() { _ = tx.Rollback() }()

	if err := fn(&PostgresStore{DB: s.DB, Clock: s.Clock, tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return mapError(err, "transaction")
	}
	return nil
}

// mapError translates driver errors into the apperr taxonomy. Errors it
// does not recognise are wrapped and later surface as internal errors.
func mapError(err error, resource string) error {
	if err == nil {
		return nil
	}
	if _, ok := apperr.As(err); ok {
		return err
	}
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.NotFound(resource)
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case uniqueViolation:
			return apperr.Conflict("unique field duplicated").WithDetail("constraint", pqErr.Constraint).Wrap(err)
		case foreignKeyViolation:
			return apperr.Conflict("invalid foreign key").WithDetail("constraint", pqErr.Constraint).Wrap(err)
		case checkViolation:
			return apperr.InvalidInput("check constraint violated").WithDetail("constraint", pqErr.Constraint).Wrap(err)
		case numericOutOfRange:
			return apperr.InvalidInput("numeric value out of range").Wrap(err)
		}
	}
	return fmt.Errorf("%s: %w", resource, err)
}

// inList renders "$n, $n+1, ..." for ids, numbering after the args
// already collected.
func inList(args []any, ids []int64) (string, []any) {
	ph := make([]string, len(ids))
	for i, id := range ids {
		args = append(args, id)
		ph[i] = "$" + strconv.Itoa(len(args))
	}
	return strings.Join(ph, ", "), args
}

// setClause accumulates "col = $n" pairs for partial updates.
type setClause struct {
	cols []string
	args []any
}

func (c *setClause) add(col string, v any) {
	c.args = append(c.args, v)
	c.cols = append(c.cols, col+" = $"+strconv.Itoa(len(c.args)))
}

func (c *setClause) empty() bool { return len(c.cols) == 0 }

func (c *setClause) update(table string, id int64, returning string) (string, []any) {
	args := append(c.args, id)
	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d RETURNING %s",
		table, strings.Join(c.cols, ", "), len(args), returning)
	return query, args
}
