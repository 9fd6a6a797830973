package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jmerrifield20/NexusTrustSafety/internal/moderation/model"
)

// BanRepository persists the ban registry. banned_users.user_id is UNIQUE.
type BanRepository struct {
	db DBTX
}

// NewBanRepository creates a new BanRepository.
func NewBanRepository(db DBTX) *BanRepository {
	return &BanRepository{db: db}
}

const banColumns = `id, user_id, moderator_id, reason, banned_at, banned_until, is_permanent, updated_at`

// Upsert creates or overwrites the user's single ban row.
func (r *BanRepository) Upsert(ctx context.Context, b *model.BannedUser) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	if b.BannedAt.IsZero() {
		b.BannedAt = time.Now().UTC()
	}
	b.UpdatedAt = b.BannedAt

	query := `
		INSERT INTO banned_users (` + banColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id) DO UPDATE SET
			moderator_id = EXCLUDED.moderator_id,
			reason       = EXCLUDED.reason,
			banned_at    = EXCLUDED.banned_at,
			banned_until = EXCLUDED.banned_until,
			is_permanent = EXCLUDED.is_permanent,
			updated_at   = EXCLUDED.updated_at
		RETURNING id`

	if err := r.db.QueryRow(ctx, query,
		b.ID, b.UserID, b.ModeratorID, b.Reason,
		b.BannedAt, b.BannedUntil, b.IsPermanent, b.UpdatedAt,
	).Scan(&b.ID); err != nil {
		return fmt.Errorf("upsert ban: %w", err)
	}
	return nil
}

// Get returns the user's ban row, expired or not.
func (r *BanRepository) Get(ctx context.Context, userID string) (*model.BannedUser, error) {
	b, err := scanBan(r.db.QueryRow(ctx, `SELECT `+banColumns+` FROM banned_users WHERE user_id = $1`, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrNotFound
	}
	return b, err
}

// Delete removes the user's ban row.
func (r *BanRepository) Delete(ctx context.Context, userID string) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM banned_users WHERE user_id = $1`, userID)
	if err != nil {
		return false, fmt.Errorf("delete ban: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// List returns ban rows, most recent first. Expired rows are skipped unless
// f.IncludeExpired is set.
func (r *BanRepository) List(ctx context.Context, f model.BanFilter, now time.Time) ([]*model.BannedUser, error) {
	limit, offset := page(f.Limit, f.Offset)
	query := `SELECT ` + banColumns + `
	          FROM banned_users
	          WHERE $1 OR is_permanent OR banned_until IS NULL OR banned_until > $2
	          ORDER BY banned_at DESC
	          LIMIT $3 OFFSET $4`

	rows, err := r.db.Query(ctx, query, f.IncludeExpired, now, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list bans: %w", err)
	}
	defer rows.Close()

	var out []*model.BannedUser
	for rows.Next() {
		b, err := scanBan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// DeleteExpired removes temporary bans whose banned_until is not after now.
func (r *BanRepository) DeleteExpired(ctx context.Context, now time.Time) ([]string, error) {
	rows, err := r.db.Query(ctx, `
		DELETE FROM banned_users
		WHERE NOT is_permanent AND banned_until IS NOT NULL AND banned_until <= $1
		RETURNING user_id`, now)
	if err != nil {
		return nil, fmt.Errorf("delete expired bans: %w", err)
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

// CountActive counts bans in force at now.
func (r *BanRepository) CountActive(ctx context.Context, now time.Time) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM banned_users
		WHERE is_permanent OR banned_until IS NULL OR banned_until > $1`, now).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count active bans: %w", err)
	}
	return n, nil
}

func scanBan(row pgx.Row) (*model.BannedUser, error) {
	var b model.BannedUser
	err := row.Scan(
		&b.ID, &b.UserID, &b.ModeratorID, &b.Reason,
		&b.BannedAt, &b.BannedUntil, &b.IsPermanent, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}
