package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jmerrifield20/NexusTrustSafety/internal/content"
	"github.com/jmerrifield20/NexusTrustSafety/internal/moderation/model"
	"github.com/jmerrifield20/NexusTrustSafety/internal/moderation/store"
)

// CreateReport files a report. Identical reports from the same reporter are
// accepted; report volume is a triage signal. When ReportedUserID is empty
// it is taken from the content's author.
func (s *ModerationService) CreateReport(ctx context.Context, reporterID string, req model.CreateReportRequest) (*model.Report, error) {
	if reporterID == "" {
		return nil, &model.ErrValidation{Msg: "reporter id is required"}
	}
	if !req.Reason.Valid() {
		return nil, fmt.Errorf("%w: %q", model.ErrInvalidReason, req.Reason)
	}
	kind := content.Kind(strings.ToLower(string(req.ContentType)))
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %q", model.ErrUnsupportedContentType, req.ContentType)
	}
	contentID := strings.TrimSpace(req.ContentID)
	if contentID == "" {
		return nil, &model.ErrValidation{Msg: "content_id is required"}
	}
	desc := strings.TrimSpace(req.Description)
	if utf8.RuneCountInString(desc) > model.MaxDescriptionLen {
		return nil, &model.ErrValidation{Msg: fmt.Sprintf("description exceeds %d characters", model.MaxDescriptionLen)}
	}

	ref := content.Ref{Kind: kind, ID: contentID}
	rpt := &model.Report{
		ReporterID:          reporterID,
		ReportedContentType: kind,
		ReportedContentID:   contentID,
		ReportedUserID:      strings.TrimSpace(req.ReportedUserID),
		Reason:              req.Reason,
		Description:         desc,
		CreatedAt:           s.clock(),
	}

	err := s.store.InTx(ctx, func(r store.Repos) error {
		author, err := r.Content.AuthorOf(ctx, ref)
		if err != nil {
			return fmt.Errorf("reported %s: %w", ref, err)
		}
		if rpt.ReportedUserID == "" {
			rpt.ReportedUserID = author
		}
		return r.Reports.Create(ctx, rpt)
	})
	if err != nil {
		return nil, err
	}

	if s.onReport != nil {
		s.onReport(rpt.Reason)
	}
	s.logger.Info("report filed",
		zap.String("report_id", rpt.ID.String()),
		zap.String("content", ref.String()),
		zap.String("reason", string(rpt.Reason)),
	)
	return rpt, nil
}

// GetReport returns a single enriched report.
func (s *ModerationService) GetReport(ctx context.Context, id uuid.UUID) (*model.ReportView, error) {
	rpt, err := s.store.Read().Reports.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	views := s.reportViews(ctx, []*model.Report{rpt})
	return views[0], nil
}

// ListReports returns reports matching f, newest first, each enriched with
// display names and a triage severity.
func (s *ModerationService) ListReports(ctx context.Context, f model.ReportFilter) ([]*model.ReportView, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, &model.ErrValidation{Msg: fmt.Sprintf("unknown status %q", f.Status)}
	}
	if f.ContentType != "" && !f.ContentType.Valid() {
		return nil, fmt.Errorf("%w: %q", model.ErrUnsupportedContentType, f.ContentType)
	}
	if f.From != nil && f.To != nil && f.To.Before(*f.From) {
		return nil, &model.ErrValidation{Msg: "date range end is before its start"}
	}
	f.Search = strings.TrimSpace(f.Search)

	reports, err := s.store.Read().Reports.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	return s.reportViews(ctx, reports), nil
}

func (s *ModerationService) reportViews(ctx context.Context, reports []*model.Report) []*model.ReportView {
	refs := make([]content.Ref, 0, len(reports))
	for _, r := range reports {
		refs = append(refs, r.Ref())
	}
	counts, err := s.store.Read().Reports.CountByContent(ctx, refs)
	if err != nil {
		s.logger.Warn("count reports by content", zap.Error(err))
		counts = nil
	}

	names := newNameCache(s)
	views := make([]*model.ReportView, 0, len(reports))
	for _, r := range reports {
		v := &model.ReportView{
			Report:           r,
			ReporterName:     names.lookup(ctx, r.ReporterID, "report", r.ID.String()),
			ReportedUserName: names.lookup(ctx, r.ReportedUserID, "report", r.ID.String()),
			ContentReports:   max(counts[r.Ref()], 1),
		}
		if s.scorer != nil {
			a := s.scorer.Score(triageSignals(r, v.ContentReports))
			v.Severity, v.SeverityScore = a.Severity, a.Score
		}
		views = append(views, v)
	}
	return views
}

// ResolveReport closes a pending report without dispatching an action.
// It returns model.ErrAlreadyResolved when the report is no longer pending.
func (s *ModerationService) ResolveReport(ctx context.Context, id uuid.UUID, moderatorID string, req model.ResolveReportRequest) (*model.Report, error) {
	if moderatorID == "" {
		return nil, &model.ErrValidation{Msg: "moderator id is required"}
	}
	if !req.Outcome.Terminal() {
		return nil, fmt.Errorf("%w: %q", model.ErrInvalidOutcome, req.Outcome)
	}
	notes := strings.TrimSpace(req.Notes)

	var out *model.Report
	err := s.store.InTx(ctx, func(r store.Repos) error {
		rpt, err := r.Reports.Resolve(ctx, id, req.Outcome, moderatorID, notes, s.clock())
		if err != nil {
			return err
		}
		if _, err := r.Ledger.Append(ctx, "report/"+id.String(), "report_"+string(req.Outcome), moderatorID, rpt); err != nil {
			return fmt.Errorf("ledger: %w", err)
		}
		out = rpt
		return nil
	})
	if err != nil {
		if errors.Is(err, model.ErrAlreadyResolved) {
			s.logger.Info("report already resolved", zap.String("report_id", id.String()), zap.String("moderator_id", moderatorID))
		}
		return nil, err
	}
	s.ledgerCommitted()
	s.logger.Info("report resolved",
		zap.String("report_id", id.String()),
		zap.String("outcome", string(req.Outcome)),
		zap.String("moderator_id", moderatorID),
	)
	return out, nil
}
