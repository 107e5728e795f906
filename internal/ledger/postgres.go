package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// PostgresStore persists the chain as a single jsonb document per ledger
// name in the attendance_chains table (see migrations/). One row is the one
// durable unit: every Save upserts the full sequence in a single statement,
// so a reader can never observe a partially written chain. Concurrent
// writers are out of scope — the last committed document wins.
type PostgresStore struct {
	pool   *pgxpool.Pool
	name   string
	logger *zap.Logger
}

// NewPostgresStore creates a store for the ledger with the given name,
// backed by the given connection pool.
func NewPostgresStore(pool *pgxpool.Pool, name string, logger *zap.Logger) *PostgresStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PostgresStore{pool: pool, name: name, logger: logger}
}

// Load implements Store.
func (s *PostgresStore) Load(ctx context.Context) ([]Record, error) {
	var data []byte
	err := s.pool.QueryRow(ctx,
		"SELECT records FROM attendance_chains WHERE name = $1", s.name,
	).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotExist
	}
	if err != nil {
		return nil, fmt.Errorf("load chain %q: %w", s.name, err)
	}

	var recs []Record
	if err := json.Unmarshal(data, &recs); err != nil {
		return nil, &CorruptError{Source: "attendance_chains/" + s.name, Err: err}
	}
	return recs, nil
}

// Save implements Store.
func (s *PostgresStore) Save(ctx context.Context, recs []Record) error {
	data, err := json.Marshal(recs)
	if err != nil {
		return fmt.Errorf("encode chain %q: %w", s.name, err)
	}
	if _, err := s.pool.Exec(ctx,
		`INSERT INTO attendance_chains (name, records, updated_at)
		 VALUES ($1, $2, now())
		 ON CONFLICT (name) DO UPDATE SET records = EXCLUDED.records, updated_at = now()`,
		s.name, data,
	); err != nil {
		return fmt.Errorf("save chain %q: %w", s.name, err)
	}
	s.logger.Debug("chain persisted", zap.String("name", s.name), zap.Int("records", len(recs)))
	return nil
}
