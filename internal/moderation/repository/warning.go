package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmerrifield20/NexusTrustSafety/internal/moderation/model"
)

// WarningRepository persists warnings issued to users.
type WarningRepository struct {
	db DBTX
}

// NewWarningRepository creates a new WarningRepository.
func NewWarningRepository(db DBTX) *WarningRepository {
	return &WarningRepository{db: db}
}

// Create inserts a warning.
func (r *WarningRepository) Create(ctx context.Context, w *model.Warning) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	if w.CreatedAt.IsZero() {
		w.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO warnings (id, user_id, moderator_id, warning_type, message, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		w.ID, w.UserID, w.ModeratorID, w.WarningType, w.Message, w.IsRead, w.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert warning: %w", err)
	}
	return nil
}

// ListByUser returns a user's warnings, newest first.
func (r *WarningRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*model.Warning, error) {
	limit, offset = page(limit, offset)
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, moderator_id, warning_type, message, is_read, created_at
		FROM warnings WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list warnings: %w", err)
	}
	defer rows.Close()

	var out []*model.Warning
	for rows.Next() {
		var w model.Warning
		if err := rows.Scan(&w.ID, &w.UserID, &w.ModeratorID, &w.WarningType, &w.Message, &w.IsRead, &w.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &w)
	}
	return out, rows.Err()
}

// MarkRead flags a warning owned by userID as read.
func (r *WarningRepository) MarkRead(ctx context.Context, id uuid.UUID, userID string) error {
	tag, err := r.db.Exec(ctx, `UPDATE warnings SET is_read = true WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("mark warning read: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}
