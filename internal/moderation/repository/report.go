package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jmerrifield20/NexusTrustSafety/internal/content"
	"github.com/jmerrifield20/NexusTrustSafety/internal/moderation/model"
)

// ReportRepository provides CRUD operations for reports.
type ReportRepository struct {
	db DBTX
}

// NewReportRepository creates a new ReportRepository.
func NewReportRepository(db DBTX) *ReportRepository {
	return &ReportRepository{db: db}
}

const reportColumns = `r.id, r.reporter_id, r.reported_content_type, r.reported_content_id,
	r.reported_user_id, r.reason, r.description, r.status, r.moderator_id,
	r.moderator_notes, r.created_at, r.updated_at`

// Create inserts a new report in pending state.
func (r *ReportRepository) Create(ctx context.Context, rpt *model.Report) error {
	if rpt.ID == uuid.Nil {
		rpt.ID = uuid.New()
	}
	if rpt.CreatedAt.IsZero() {
		rpt.CreatedAt = time.Now().UTC()
	}
	rpt.UpdatedAt = rpt.CreatedAt
	rpt.Status = model.ReportStatusPending

	query := `
		INSERT INTO reports (id, reporter_id, reported_content_type, reported_content_id,
		                     reported_user_id, reason, description, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.db.Exec(ctx, query,
		rpt.ID, rpt.ReporterID, rpt.ReportedContentType, rpt.ReportedContentID,
		rpt.ReportedUserID, rpt.Reason, rpt.Description, rpt.Status,
		rpt.CreatedAt, rpt.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert report: %w", err)
	}
	return nil
}

// Get retrieves a report by ID.
func (r *ReportRepository) Get(ctx context.Context, id uuid.UUID) (*model.Report, error) {
	return r.scanOne(r.db.QueryRow(ctx, `SELECT `+reportColumns+` FROM reports r WHERE r.id = $1`, id))
}

// GetForUpdate retrieves a report and row-locks it for the rest of the
// transaction, so concurrent resolvers queue behind each other.
func (r *ReportRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*model.Report, error) {
	return r.scanOne(r.db.QueryRow(ctx, `SELECT `+reportColumns+` FROM reports r WHERE r.id = $1 FOR UPDATE`, id))
}

// List returns reports matching f, newest first. The search term matches
// reason, description and the reporter/reported usernames case-insensitively.
func (r *ReportRepository) List(ctx context.Context, f model.ReportFilter) ([]*model.Report, error) {
	limit, offset := page(f.Limit, f.Offset)

	query := `SELECT ` + reportColumns + `
	          FROM reports r
	          LEFT JOIN profiles rp ON rp.id::text = r.reporter_id
	          LEFT JOIN profiles ru ON ru.id::text = r.reported_user_id
	          WHERE ($1 = '' OR r.status = $1)
	            AND ($2 = '' OR r.reported_content_type = $2)
	            AND ($3::timestamptz IS NULL OR r.created_at >= $3)
	            AND ($4::timestamptz IS NULL OR r.created_at < $4)
	            AND ($5 = '' OR r.reason ILIKE $6 OR r.description ILIKE $6
	                 OR rp.username ILIKE $6 OR ru.username ILIKE $6)
	          ORDER BY r.created_at DESC
	          LIMIT $7 OFFSET $8`

	rows, err := r.db.Query(ctx, query,
		string(f.Status), string(f.ContentType), f.From, f.To,
		f.Search, likePattern(f.Search), limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	var reports []*model.Report
	for rows.Next() {
		rpt, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, rpt)
	}
	return reports, rows.Err()
}

// Resolve moves a pending report to status. The WHERE status = 'pending'
// guard makes the transition happen at most once.
func (r *ReportRepository) Resolve(ctx context.Context, id uuid.UUID, status model.ReportStatus, moderatorID, notes string, at time.Time) (*model.Report, error) {
	query := `UPDATE reports r
	          SET status = $2, moderator_id = $3, moderator_notes = $4, updated_at = $5
	          WHERE r.id = $1 AND r.status = 'pending'
	          RETURNING ` + reportColumns

	rpt, err := r.scanOne(r.db.QueryRow(ctx, query, id, status, moderatorID, notes, at))
	if errors.Is(err, model.ErrNotFound) {
		var exists bool
		if err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM reports WHERE id = $1)`, id).Scan(&exists); err != nil {
			return nil, fmt.Errorf("check report: %w", err)
		}
		if exists {
			return nil, model.ErrAlreadyResolved
		}
		return nil, model.ErrNotFound
	}
	return rpt, err
}

// CountByContent counts reports per content ref.
func (r *ReportRepository) CountByContent(ctx context.Context, refs []content.Ref) (map[content.Ref]int, error) {
	out := make(map[content.Ref]int, len(refs))
	if len(refs) == 0 {
		return out, nil
	}
	kinds := make([]string, len(refs))
	ids := make([]string, len(refs))
	for i, ref := range refs {
		kinds[i] = string(ref.Kind)
		ids[i] = ref.ID
	}

	rows, err := r.db.Query(ctx, `
		SELECT reported_content_type, reported_content_id, COUNT(*)
		FROM reports
		WHERE (reported_content_type, reported_content_id) IN (
			SELECT * FROM unnest($1::text[], $2::text[])
		)
		GROUP BY reported_content_type, reported_content_id`, kinds, ids)
	if err != nil {
		return nil, fmt.Errorf("count reports by content: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ref content.Ref
		var n int
		if err := rows.Scan(&ref.Kind, &ref.ID, &n); err != nil {
			return nil, err
		}
		out[ref] = n
	}
	return out, rows.Err()
}

// CountByStatus returns report counts grouped by status.
func (r *ReportRepository) CountByStatus(ctx context.Context) (map[model.ReportStatus]int, error) {
	out := make(map[model.ReportStatus]int)
	err := groupCount(ctx, r.db, `SELECT status, COUNT(*) FROM reports GROUP BY status`, func(k string, n int) {
		out[model.ReportStatus(k)] = n
	})
	return out, err
}

// CountByReason returns report counts grouped by reason.
func (r *ReportRepository) CountByReason(ctx context.Context) (map[model.Reason]int, error) {
	out := make(map[model.Reason]int)
	err := groupCount(ctx, r.db, `SELECT reason, COUNT(*) FROM reports GROUP BY reason`, func(k string, n int) {
		out[model.Reason(k)] = n
	})
	return out, err
}

// CountByContentType returns report counts grouped by content kind.
func (r *ReportRepository) CountByContentType(ctx context.Context) (map[content.Kind]int, error) {
	out := make(map[content.Kind]int)
	err := groupCount(ctx, r.db, `SELECT reported_content_type, COUNT(*) FROM reports GROUP BY reported_content_type`, func(k string, n int) {
		out[content.Kind(k)] = n
	})
	return out, err
}

func groupCount(ctx context.Context, db DBTX, query string, add func(string, int), args ...any) error {
	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("group count: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var k string
		var n int
		if err := rows.Scan(&k, &n); err != nil {
			return err
		}
		add(k, n)
	}
	return rows.Err()
}

func (r *ReportRepository) scanOne(row pgx.Row) (*model.Report, error) {
	rpt, err := r.scan(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrNotFound
	}
	return rpt, err
}

func (r *ReportRepository) scan(row pgx.Row) (*model.Report, error) {
	var rpt model.Report
	err := row.Scan(
		&rpt.ID, &rpt.ReporterID, &rpt.ReportedContentType, &rpt.ReportedContentID,
		&rpt.ReportedUserID, &rpt.Reason, &rpt.Description, &rpt.Status,
		&rpt.ModeratorID, &rpt.ModeratorNotes, &rpt.CreatedAt, &rpt.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rpt, nil
}
