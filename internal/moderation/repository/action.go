package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jmerrifield20/NexusTrustSafety/internal/moderation/model"
)

// ActionRepository appends to and reads the moderation action log.
// It has no update or delete methods.
type ActionRepository struct {
	db DBTX
}

// NewActionRepository creates a new ActionRepository.
func NewActionRepository(db DBTX) *ActionRepository {
	return &ActionRepository{db: db}
}

const actionColumns = `id, report_id, moderator_id, target_content_type, target_content_id,
	target_user_id, action_type, reason, notes, duration_hours, created_at`

// Create appends an action to the log.
func (r *ActionRepository) Create(ctx context.Context, a *model.ModerationAction) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}

	query := `INSERT INTO moderation_actions (` + actionColumns + `)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.db.Exec(ctx, query,
		a.ID, a.ReportID, a.ModeratorID, a.TargetContentType, a.TargetContentID,
		a.TargetUserID, a.ActionType, a.Reason, a.Notes, a.DurationHours, a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert moderation action: %w", err)
	}
	return nil
}

// List returns actions matching f, newest first.
func (r *ActionRepository) List(ctx context.Context, f model.ActionFilter) ([]*model.ModerationAction, error) {
	limit, offset := page(f.Limit, f.Offset)
	query := `SELECT ` + actionColumns + `
	          FROM moderation_actions
	          WHERE ($1 = '' OR moderator_id = $1)
	            AND ($2 = '' OR target_user_id = $2)
	            AND ($3 = '' OR action_type = $3)
	          ORDER BY created_at DESC
	          LIMIT $4 OFFSET $5`

	rows, err := r.db.Query(ctx, query, f.ModeratorID, f.TargetUserID, string(f.ActionType), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list moderation actions: %w", err)
	}
	defer rows.Close()

	var out []*model.ModerationAction
	for rows.Next() {
		a, err := scanAction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// CountByType counts actions created at or after since, grouped by type.
func (r *ActionRepository) CountByType(ctx context.Context, since time.Time) (map[model.ActionType]int, error) {
	out := make(map[model.ActionType]int)
	err := groupCount(ctx, r.db,
		`SELECT action_type, COUNT(*) FROM moderation_actions WHERE created_at >= $1 GROUP BY action_type`,
		func(k string, n int) { out[model.ActionType(k)] = n },
		since,
	)
	return out, err
}

func scanAction(row pgx.Row) (*model.ModerationAction, error) {
	var a model.ModerationAction
	err := row.Scan(
		&a.ID, &a.ReportID, &a.ModeratorID, &a.TargetContentType, &a.TargetContentID,
		&a.TargetUserID, &a.ActionType, &a.Reason, &a.Notes, &a.DurationHours, &a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
