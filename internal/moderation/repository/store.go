// Package repository implements the moderation store against PostgreSQL.
package repository

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmerrifield20/NexusTrustSafety/internal/moderation/store"
	"github.com/jmerrifield20/NexusTrustSafety/internal/trustledger"
)

// DBTX is satisfied by *pgxpool.Pool, *pgxpool.Conn and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store is the PostgreSQL implementation of store.Store.
type Store struct {
	pool    *pgxpool.Pool
	replica *pgxpool.Pool // nil = reads go to pool
	ledger  *trustledger.PostgresLedger
}

var _ store.Store = (*Store)(nil)

// NewStore creates a Store. Moderation writes append to ledger inside their
// own transaction.
func NewStore(pool *pgxpool.Pool, ledger *trustledger.PostgresLedger) *Store {
	return &Store{pool: pool, ledger: ledger}
}

// SetReadReplica routes Read() repositories to a replica pool.
func (s *Store) SetReadReplica(replica *pgxpool.Pool) {
	s.replica = replica
}

// Read implements store.Store.
func (s *Store) Read() store.Repos {
	db := s.pool
	if s.replica != nil {
		db = s.replica
	}
	return repos(db, s.ledger)
}

// InTx implements store.Store.
func (s *Store) InTx(ctx context.Context, fn func(store.Repos) error) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		return fn(repos(tx, s.ledger.InTx(tx)))
	})
}

func repos(db DBTX, ledger trustledger.Appender) store.Repos {
	return store.Repos{
		Reports:  NewReportRepository(db),
		Actions:  NewActionRepository(db),
		Bans:     NewBanRepository(db),
		Warnings: NewWarningRepository(db),
		Content:  NewContentRepository(db),
		Ledger:   ledger,
	}
}

// likePattern turns a free-text search term into an ILIKE pattern.
func likePattern(term string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(term) + "%"
}

// page normalises limit/offset.
func page(limit, offset int) (int, int) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
