package memstore

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmerrifield20/NexusTrustSafety/internal/content"
	"github.com/jmerrifield20/NexusTrustSafety/internal/moderation/model"
)

// ── reports ───────────────────────────────────────────────────────────────

type reportRepo struct{ v view }

func (r reportRepo) Create(_ context.Context, rpt *model.Report) error {
	if rpt.ID == uuid.Nil {
		rpt.ID = uuid.New()
	}
	if rpt.CreatedAt.IsZero() {
		rpt.CreatedAt = time.Now().UTC()
	}
	rpt.UpdatedAt = rpt.CreatedAt
	rpt.Status = model.ReportStatusPending
	return r.v.do(func(d *data) error {
		cp := *rpt
		d.reports[rpt.ID] = &cp
		return nil
	})
}

func (r reportRepo) Get(_ context.Context, id uuid.UUID) (*model.Report, error) {
	var out *model.Report
	err := r.v.do(func(d *data) error {
		rpt, ok := d.reports[id]
		if !ok {
			return model.ErrNotFound
		}
		cp := *rpt
		out = &cp
		return nil
	})
	return out, err
}

// GetForUpdate needs no extra locking: transactions already hold the store.
func (r reportRepo) GetForUpdate(ctx context.Context, id uuid.UUID) (*model.Report, error) {
	return r.Get(ctx, id)
}

func (r reportRepo) List(_ context.Context, f model.ReportFilter) ([]*model.Report, error) {
	var out []*model.Report
	err := r.v.do(func(d *data) error {
		term := strings.ToLower(strings.TrimSpace(f.Search))
		for _, rpt := range d.reports {
			if f.Status != "" && rpt.Status != f.Status {
				continue
			}
			if f.ContentType != "" && rpt.ReportedContentType != f.ContentType {
				continue
			}
			if f.From != nil && rpt.CreatedAt.Before(*f.From) {
				continue
			}
			if f.To != nil && !rpt.CreatedAt.Before(*f.To) {
				continue
			}
			if term != "" && !d.reportMatches(rpt, term) {
				continue
			}
			cp := *rpt
			out = append(out, &cp)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	start, end := paginate(len(out), f.Limit, f.Offset)
	return out[start:end], err
}

func (d *data) reportMatches(rpt *model.Report, term string) bool {
	fields := []string{string(rpt.Reason), rpt.Description}
	if p, ok := d.profiles[rpt.ReporterID]; ok {
		fields = append(fields, p.Username)
	}
	if p, ok := d.profiles[rpt.ReportedUserID]; ok {
		fields = append(fields, p.Username)
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}

func (r reportRepo) Resolve(_ context.Context, id uuid.UUID, status model.ReportStatus, moderatorID, notes string, at time.Time) (*model.Report, error) {
	var out *model.Report
	err := r.v.do(func(d *data) error {
		rpt, ok := d.reports[id]
		if !ok {
			return model.ErrNotFound
		}
		if rpt.Status != model.ReportStatusPending {
			return model.ErrAlreadyResolved
		}
		mod := moderatorID
		rpt.Status = status
		rpt.ModeratorID = &mod
		rpt.ModeratorNotes = notes
		rpt.UpdatedAt = at
		cp := *rpt
		out = &cp
		return nil
	})
	return out, err
}

func (r reportRepo) CountByContent(_ context.Context, refs []content.Ref) (map[content.Ref]int, error) {
	out := make(map[content.Ref]int, len(refs))
	want := make(map[content.Ref]bool, len(refs))
	for _, ref := range refs {
		want[ref] = true
	}
	err := r.v.do(func(d *data) error {
		for _, rpt := range d.reports {
			if ref := rpt.Ref(); want[ref] {
				out[ref]++
			}
		}
		return nil
	})
	return out, err
}

func (r reportRepo) CountByStatus(_ context.Context) (map[model.ReportStatus]int, error) {
	out := make(map[model.ReportStatus]int)
	err := r.v.do(func(d *data) error {
		for _, rpt := range d.reports {
			out[rpt.Status]++
		}
		return nil
	})
	return out, err
}

func (r reportRepo) CountByReason(_ context.Context) (map[model.Reason]int, error) {
	out := make(map[model.Reason]int)
	err := r.v.do(func(d *data) error {
		for _, rpt := range d.reports {
			out[rpt.Reason]++
		}
		return nil
	})
	return out, err
}

func (r reportRepo) CountByContentType(_ context.Context) (map[content.Kind]int, error) {
	out := make(map[content.Kind]int)
	err := r.v.do(func(d *data) error {
		for _, rpt := range d.reports {
			out[rpt.ReportedContentType]++
		}
		return nil
	})
	return out, err
}

// ── actions ───────────────────────────────────────────────────────────────

type actionRepo struct{ v view }

func (r actionRepo) Create(_ context.Context, a *model.ModerationAction) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	return r.v.do(func(d *data) error {
		cp := *a
		d.actions = append(d.actions, &cp)
		return nil
	})
}

func (r actionRepo) List(_ context.Context, f model.ActionFilter) ([]*model.ModerationAction, error) {
	var out []*model.ModerationAction
	err := r.v.do(func(d *data) error {
		for i := len(d.actions) - 1; i >= 0; i-- {
			a := d.actions[i]
			if f.ModeratorID != "" && a.ModeratorID != f.ModeratorID {
				continue
			}
			if f.TargetUserID != "" && a.TargetUserID != f.TargetUserID {
				continue
			}
			if f.ActionType != "" && a.ActionType != f.ActionType {
				continue
			}
			cp := *a
			out = append(out, &cp)
		}
		return nil
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	start, end := paginate(len(out), f.Limit, f.Offset)
	return out[start:end], err
}

func (r actionRepo) CountByType(_ context.Context, since time.Time) (map[model.ActionType]int, error) {
	out := make(map[model.ActionType]int)
	err := r.v.do(func(d *data) error {
		for _, a := range d.actions {
			if !a.CreatedAt.Before(since) {
				out[a.ActionType]++
			}
		}
		return nil
	})
	return out, err
}

// ── bans ──────────────────────────────────────────────────────────────────

type banRepo struct{ v view }

func (r banRepo) Upsert(_ context.Context, b *model.BannedUser) error {
	if b.BannedAt.IsZero() {
		b.BannedAt = time.Now().UTC()
	}
	b.UpdatedAt = b.BannedAt
	return r.v.do(func(d *data) error {
		if existing, ok := d.bans[b.UserID]; ok {
			b.ID = existing.ID
		} else if b.ID == uuid.Nil {
			b.ID = uuid.New()
		}
		cp := *b
		d.bans[b.UserID] = &cp
		return nil
	})
}

func (r banRepo) Get(_ context.Context, userID string) (*model.BannedUser, error) {
	var out *model.BannedUser
	err := r.v.do(func(d *data) error {
		b, ok := d.bans[userID]
		if !ok {
			return model.ErrNotFound
		}
		cp := *b
		out = &cp
		return nil
	})
	return out, err
}

func (r banRepo) Delete(_ context.Context, userID string) (bool, error) {
	var existed bool
	err := r.v.do(func(d *data) error {
		_, existed = d.bans[userID]
		delete(d.bans, userID)
		return nil
	})
	return existed, err
}

func (r banRepo) List(_ context.Context, f model.BanFilter, now time.Time) ([]*model.BannedUser, error) {
	var out []*model.BannedUser
	err := r.v.do(func(d *data) error {
		for _, b := range d.bans {
			if !f.IncludeExpired && !b.ActiveAt(now) {
				continue
			}
			cp := *b
			out = append(out, &cp)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].BannedAt.After(out[j].BannedAt) })
	start, end := paginate(len(out), f.Limit, f.Offset)
	return out[start:end], err
}

func (r banRepo) DeleteExpired(_ context.Context, now time.Time) ([]string, error) {
	var out []string
	err := r.v.do(func(d *data) error {
		for id, b := range d.bans {
			if !b.ActiveAt(now) {
				out = append(out, id)
				delete(d.bans, id)
			}
		}
		return nil
	})
	sort.Strings(out)
	return out, err
}

func (r banRepo) CountActive(_ context.Context, now time.Time) (int, error) {
	n := 0
	err := r.v.do(func(d *data) error {
		for _, b := range d.bans {
			if b.ActiveAt(now) {
				n++
			}
		}
		return nil
	})
	return n, err
}

// ── warnings ──────────────────────────────────────────────────────────────

type warningRepo struct{ v view }

func (r warningRepo) Create(_ context.Context, w *model.Warning) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	if w.CreatedAt.IsZero() {
		w.CreatedAt = time.Now().UTC()
	}
	return r.v.do(func(d *data) error {
		cp := *w
		d.warnings[w.ID] = &cp
		return nil
	})
}

func (r warningRepo) ListByUser(_ context.Context, userID string, limit, offset int) ([]*model.Warning, error) {
	var out []*model.Warning
	err := r.v.do(func(d *data) error {
		for _, w := range d.warnings {
			if w.UserID == userID {
				cp := *w
				out = append(out, &cp)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	start, end := paginate(len(out), limit, offset)
	return out[start:end], err
}

func (r warningRepo) MarkRead(_ context.Context, id uuid.UUID, userID string) error {
	return r.v.do(func(d *data) error {
		w, ok := d.warnings[id]
		if !ok || w.UserID != userID {
			return model.ErrNotFound
		}
		w.IsRead = true
		return nil
	})
}

// ── content ───────────────────────────────────────────────────────────────

type contentRepo struct{ v view }

func moderatable(ref content.Ref) error {
	if !ref.Kind.Moderatable() {
		return fmt.Errorf("%w: %s", model.ErrUnsupportedContentType, ref.Kind)
	}
	return nil
}

func (r contentRepo) AuthorOf(_ context.Context, ref content.Ref) (string, error) {
	if !ref.Kind.Valid() {
		return "", fmt.Errorf("%w: %s", model.ErrUnsupportedContentType, ref.Kind)
	}
	var author string
	err := r.v.do(func(d *data) error {
		if ref.Kind == content.KindUser {
			if _, ok := d.profiles[ref.ID]; !ok {
				return model.ErrNotFound
			}
			author = ref.ID
			return nil
		}
		it, ok := d.items[ref]
		if !ok {
			return model.ErrNotFound
		}
		author = it.AuthorID
		return nil
	})
	return author, err
}

func (r contentRepo) Hide(_ context.Context, ref content.Ref, by, reason string, at time.Time) (bool, error) {
	if err := moderatable(ref); err != nil {
		return false, err
	}
	var found bool
	err := r.v.do(func(d *data) error {
		it, ok := d.items[ref]
		if !ok {
			return nil
		}
		found = true
		hiddenAt := at
		it.IsHidden = true
		it.HiddenBy = by
		it.HiddenAt = &hiddenAt
		it.HiddenReason = reason
		return nil
	})
	return found, err
}

func (r contentRepo) Restore(_ context.Context, ref content.Ref) (bool, error) {
	if err := moderatable(ref); err != nil {
		return false, err
	}
	var found bool
	err := r.v.do(func(d *data) error {
		it, ok := d.items[ref]
		if !ok {
			return nil
		}
		found = true
		it.IsHidden = false
		it.HiddenBy = ""
		it.HiddenAt = nil
		it.HiddenReason = ""
		return nil
	})
	return found, err
}

func (r contentRepo) Delete(_ context.Context, ref content.Ref) (bool, error) {
	if err := moderatable(ref); err != nil {
		return false, err
	}
	var found bool
	err := r.v.do(func(d *data) error {
		_, found = d.items[ref]
		delete(d.items, ref)
		return nil
	})
	return found, err
}

func (r contentRepo) hidden() ([]*model.HiddenContent, error) {
	var out []*model.HiddenContent
	err := r.v.do(func(d *data) error {
		for _, it := range d.items {
			if !it.IsHidden {
				continue
			}
			h := &model.HiddenContent{
				Ref:          it.Ref,
				AuthorID:     it.AuthorID,
				Summary:      it.Summary,
				HiddenBy:     it.HiddenBy,
				HiddenReason: it.HiddenReason,
			}
			if it.HiddenAt != nil {
				h.HiddenAt = *it.HiddenAt
			}
			out = append(out, h)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].HiddenAt.After(out[j].HiddenAt) })
	return out, err
}

func (r contentRepo) ListHidden(_ context.Context, limit, offset int) ([]*model.HiddenContent, error) {
	out, err := r.hidden()
	if err != nil {
		return nil, err
	}
	start, end := paginate(len(out), limit, offset)
	return out[start:end], nil
}

func (r contentRepo) CountHidden(_ context.Context) (int, error) {
	out, err := r.hidden()
	return len(out), err
}
