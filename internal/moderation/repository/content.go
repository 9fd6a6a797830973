package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jmerrifield20/NexusTrustSafety/internal/content"
	"github.com/jmerrifield20/NexusTrustSafety/internal/moderation/model"
)

// ContentRepository applies moderation effects to collaborator-owned content
// tables. Table and column names come only from the content.Target registry
// and are quoted with pgx.Identifier.
type ContentRepository struct {
	db DBTX
}

// NewContentRepository creates a new ContentRepository.
func NewContentRepository(db DBTX) *ContentRepository {
	return &ContentRepository{db: db}
}

func ident(name string) string {
	return pgx.Identifier{name}.Sanitize()
}

// moderatable resolves ref to a Target that carries the visibility flag.
func moderatable(ref content.Ref) (content.Target, error) {
	t, err := ref.Target()
	if err != nil {
		return content.Target{}, fmt.Errorf("%w: %v", model.ErrUnsupportedContentType, err)
	}
	if !t.Moderatable {
		return content.Target{}, fmt.Errorf("%w: %s", model.ErrUnsupportedContentType, ref.Kind)
	}
	return t, nil
}

// AuthorOf returns the owning user id of ref.
func (r *ContentRepository) AuthorOf(ctx context.Context, ref content.Ref) (string, error) {
	t, err := ref.Target()
	if err != nil {
		return "", fmt.Errorf("%w: %v", model.ErrUnsupportedContentType, err)
	}
	query := fmt.Sprintf(`SELECT %s::text FROM %s WHERE %s = $1`,
		ident(t.AuthorColumn), ident(t.Table), ident(t.IDColumn))

	var author string
	if err := r.db.QueryRow(ctx, query, ref.ID).Scan(&author); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", model.ErrNotFound
		}
		return "", fmt.Errorf("author of %s: %w", ref, err)
	}
	return author, nil
}

// Hide sets the visibility flag on ref.
func (r *ContentRepository) Hide(ctx context.Context, ref content.Ref, by, reason string, at time.Time) (bool, error) {
	t, err := moderatable(ref)
	if err != nil {
		return false, err
	}
	query := fmt.Sprintf(`UPDATE %s SET is_hidden = true, hidden_by = $2, hidden_at = $3, hidden_reason = $4 WHERE %s = $1`,
		ident(t.Table), ident(t.IDColumn))
	tag, err := r.db.Exec(ctx, query, ref.ID, by, at, reason)
	if err != nil {
		return false, fmt.Errorf("hide %s: %w", ref, err)
	}
	return tag.RowsAffected() > 0, nil
}

// Restore clears the visibility flag and hide metadata on ref.
func (r *ContentRepository) Restore(ctx context.Context, ref content.Ref) (bool, error) {
	t, err := moderatable(ref)
	if err != nil {
		return false, err
	}
	query := fmt.Sprintf(`UPDATE %s SET is_hidden = false, hidden_by = NULL, hidden_at = NULL, hidden_reason = NULL WHERE %s = $1`,
		ident(t.Table), ident(t.IDColumn))
	tag, err := r.db.Exec(ctx, query, ref.ID)
	if err != nil {
		return false, fmt.Errorf("restore %s: %w", ref, err)
	}
	return tag.RowsAffected() > 0, nil
}

// Delete permanently removes ref.
func (r *ContentRepository) Delete(ctx context.Context, ref content.Ref) (bool, error) {
	t, err := moderatable(ref)
	if err != nil {
		return false, err
	}
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, ident(t.Table), ident(t.IDColumn))
	tag, err := r.db.Exec(ctx, query, ref.ID)
	if err != nil {
		return false, fmt.Errorf("delete %s: %w", ref, err)
	}
	return tag.RowsAffected() > 0, nil
}

// hiddenUnion builds one SELECT per moderatable kind joined with UNION ALL.
func hiddenUnion() string {
	var parts []string
	for _, t := range content.ModeratableTargets() {
		parts = append(parts, fmt.Sprintf(
			`SELECT '%s' AS kind, %s::text AS id, %s::text AS author_id, COALESCE(%s::text, '') AS summary,
			        COALESCE(hidden_by, '') AS hidden_by, hidden_at, COALESCE(hidden_reason, '') AS hidden_reason
			 FROM %s WHERE is_hidden`,
			t.Kind, ident(t.IDColumn), ident(t.AuthorColumn), ident(t.SummaryColumn), ident(t.Table)))
	}
	return strings.Join(parts, "\nUNION ALL\n")
}

// ListHidden returns hidden items across every content kind, most recently
// hidden first.
func (r *ContentRepository) ListHidden(ctx context.Context, limit, offset int) ([]*model.HiddenContent, error) {
	limit, offset = page(limit, offset)
	query := `SELECT kind, id, author_id, summary, hidden_by, hidden_at, hidden_reason
	          FROM (` + hiddenUnion() + `) h
	          ORDER BY hidden_at DESC NULLS LAST
	          LIMIT $1 OFFSET $2`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list hidden content: %w", err)
	}
	defer rows.Close()

	var out []*model.HiddenContent
	for rows.Next() {
		var h model.HiddenContent
		var hiddenAt *time.Time
		if err := rows.Scan(&h.Ref.Kind, &h.Ref.ID, &h.AuthorID, &h.Summary, &h.HiddenBy, &hiddenAt, &h.HiddenReason); err != nil {
			return nil, err
		}
		if hiddenAt != nil {
			h.HiddenAt = *hiddenAt
		}
		out = append(out, &h)
	}
	return out, rows.Err()
}

// CountHidden counts hidden items across every content kind.
func (r *ContentRepository) CountHidden(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM (`+hiddenUnion()+`) h`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count hidden content: %w", err)
	}
	return n, nil
}
