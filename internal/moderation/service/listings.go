package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jmerrifield20/NexusTrustSafety/internal/moderation/model"
	"github.com/jmerrifield20/NexusTrustSafety/internal/triage"
	"github.com/jmerrifield20/NexusTrustSafety/internal/users"
)

// RecentWindow is the period covered by Stats.RecentActions.
const RecentWindow = 7 * 24 * time.Hour

// nameCache resolves display names once per listing. A failed lookup yields
// users.UnknownUser and a warning instead of an error.
type nameCache struct {
	s     *ModerationService
	names map[string]string
}

func newNameCache(s *ModerationService) *nameCache {
	return &nameCache{s: s, names: make(map[string]string)}
}

func (n *nameCache) lookup(ctx context.Context, userID, kind, recordID string) string {
	if userID == "" {
		return users.UnknownUser
	}
	if name, ok := n.names[userID]; ok {
		return name
	}
	p, err := n.s.dir.Profile(ctx, userID)
	if err != nil {
		n.s.logger.Warn("profile lookup failed; using placeholder",
			zap.String("record", kind),
			zap.String("record_id", recordID),
			zap.String("user_id", userID),
			zap.Error(err),
		)
	}
	name := p.Name()
	n.names[userID] = name
	return name
}

func triageSignals(r *model.Report, contentReports int) triage.Signals {
	return triage.Signals{
		Reason:         r.Reason,
		Description:    r.Description,
		ContentReports: contentReports,
	}
}

// ListBannedUsers returns ban rows, most recent first. Rows whose
// banned_until has passed are skipped unless f.IncludeExpired is set.
func (s *ModerationService) ListBannedUsers(ctx context.Context, f model.BanFilter) ([]*model.BanView, error) {
	now := s.clock()
	bans, err := s.store.Read().Bans.List(ctx, f, now)
	if err != nil {
		return nil, fmt.Errorf("list bans: %w", err)
	}
	names := newNameCache(s)
	out := make([]*model.BanView, 0, len(bans))
	for _, b := range bans {
		out = append(out, &model.BanView{
			BannedUser:    b,
			UserName:      names.lookup(ctx, b.UserID, "ban", b.ID.String()),
			ModeratorName: names.lookup(ctx, b.ModeratorID, "ban", b.ID.String()),
			Active:        b.ActiveAt(now),
		})
	}
	return out, nil
}

// ListHiddenContent returns hidden items across every content kind.
func (s *ModerationService) ListHiddenContent(ctx context.Context, limit, offset int) ([]*model.HiddenContentView, error) {
	items, err := s.store.Read().Content.ListHidden(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list hidden content: %w", err)
	}
	names := newNameCache(s)
	out := make([]*model.HiddenContentView, 0, len(items))
	for _, it := range items {
		out = append(out, &model.HiddenContentView{
			HiddenContent: it,
			AuthorName:    names.lookup(ctx, it.AuthorID, "content", it.Ref.String()),
			HiddenByName:  names.lookup(ctx, it.HiddenBy, "content", it.Ref.String()),
		})
	}
	return out, nil
}

// ListActions returns the moderation action log, newest first.
func (s *ModerationService) ListActions(ctx context.Context, f model.ActionFilter) ([]*model.ActionView, error) {
	if f.ActionType != "" && !f.ActionType.Valid() {
		return nil, &model.ErrValidation{Msg: fmt.Sprintf("unknown action type %q", f.ActionType)}
	}
	actions, err := s.store.Read().Actions.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list actions: %w", err)
	}
	names := newNameCache(s)
	out := make([]*model.ActionView, 0, len(actions))
	for _, a := range actions {
		out = append(out, &model.ActionView{
			ModerationAction: a,
			ModeratorName:    names.lookup(ctx, a.ModeratorID, "action", a.ID.String()),
			TargetUserName:   names.lookup(ctx, a.TargetUserID, "action", a.ID.String()),
		})
	}
	return out, nil
}

// Stats aggregates moderation activity. The individual counts run
// concurrently against the read store.
func (s *ModerationService) Stats(ctx context.Context) (*model.Stats, error) {
	now := s.clock()
	r := s.store.Read()
	st := &model.Stats{RecentWindow: RecentWindow.String(), GeneratedAt: now}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		st.ReportsByStatus, err = r.Reports.CountByStatus(gctx)
		return err
	})
	g.Go(func() (err error) {
		st.ReportsByReason, err = r.Reports.CountByReason(gctx)
		return err
	})
	g.Go(func() (err error) {
		st.ReportsByContentType, err = r.Reports.CountByContentType(gctx)
		return err
	})
	g.Go(func() (err error) {
		st.ActiveBans, err = r.Bans.CountActive(gctx, now)
		return err
	})
	g.Go(func() (err error) {
		st.HiddenContent, err = r.Content.CountHidden(gctx)
		return err
	})
	g.Go(func() (err error) {
		st.RecentActions, err = r.Actions.CountByType(gctx, now.Add(-RecentWindow))
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("moderation stats: %w", err)
	}
	return st, nil
}
