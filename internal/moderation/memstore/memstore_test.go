package memstore_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jmerrifield20/NexusTrustSafety/internal/content"
	"github.com/jmerrifield20/NexusTrustSafety/internal/moderation/memstore"
	"github.com/jmerrifield20/NexusTrustSafety/internal/moderation/model"
	"github.com/jmerrifield20/NexusTrustSafety/internal/moderation/store"
)

var post1 = content.Ref{Kind: content.KindPost, ID: "1"}

func TestInTx_rollsBackEverything(t *testing.T) {
	s := memstore.New()
	s.PutContent(post1, "author", "hello")
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.InTx(ctx, func(r store.Repos) error {
		if err := r.Reports.Create(ctx, &model.Report{ReporterID: "u", ReportedContentType: content.KindPost, ReportedContentID: "1", Reason: model.ReasonSpam}); err != nil {
			return err
		}
		if err := r.Bans.Upsert(ctx, &model.BannedUser{UserID: "author", IsPermanent: true}); err != nil {
			return err
		}
		if _, err := r.Content.Hide(ctx, post1, "mod", "spam", time.Now()); err != nil {
			return err
		}
		if _, err := r.Ledger.Append(ctx, "post/1", "hide", "mod", nil); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("InTx err = %v, want boom", err)
	}

	reports, actions, bans, warnings := s.Counts()
	if reports+actions+bans+warnings != 0 {
		t.Errorf("rows after rollback: %d %d %d %d", reports, actions, bans, warnings)
	}
	if item, _ := s.Content(post1); item.IsHidden {
		t.Error("hide leaked out of rolled back transaction")
	}
	if n, _ := s.Ledger().Len(ctx); n != 1 {
		t.Errorf("ledger len = %d, want 1", n)
	}
}

func TestInTx_commit(t *testing.T) {
	s := memstore.New()
	ctx := context.Background()
	err := s.InTx(ctx, func(r store.Repos) error {
		return r.Bans.Upsert(ctx, &model.BannedUser{UserID: "u1", IsPermanent: true})
	})
	if err != nil {
		t.Fatalf("InTx: %v", err)
	}
	if _, err := s.Read().Bans.Get(ctx, "u1"); err != nil {
		t.Errorf("committed ban not visible: %v", err)
	}
}

func TestInTx_cancelledContext(t *testing.T) {
	s := memstore.New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	called := false
	err := s.InTx(ctx, func(store.Repos) error { called = true; return nil })
	if !errors.Is(err, context.Canceled) || called {
		t.Errorf("err = %v, called = %v", err, called)
	}
}

func TestReadsReturnCopies(t *testing.T) {
	s := memstore.New()
	ctx := context.Background()
	r := &model.Report{ReporterID: "u", ReportedContentType: content.KindPost, ReportedContentID: "1", Reason: model.ReasonSpam}
	if err := s.Read().Reports.Create(ctx, r); err != nil {
		t.Fatalf("Create: %v", err)
	}
	got, _ := s.Read().Reports.Get(ctx, r.ID)
	got.Status = model.ReportStatusResolved

	again, _ := s.Read().Reports.Get(ctx, r.ID)
	if again.Status != model.ReportStatusPending {
		t.Error("mutating a returned report changed the store")
	}
}

func TestBanUpsertKeepsID(t *testing.T) {
	s := memstore.New()
	ctx := context.Background()
	bans := s.Read().Bans
	first := &model.BannedUser{UserID: "u1", Reason: "a", IsPermanent: true}
	_ = bans.Upsert(ctx, first)
	second := &model.BannedUser{UserID: "u1", Reason: "b", IsPermanent: true}
	_ = bans.Upsert(ctx, second)

	if second.ID != first.ID {
		t.Errorf("upsert changed row id: %s -> %s", first.ID, second.ID)
	}
	got, _ := bans.Get(ctx, "u1")
	if got.Reason != "b" {
		t.Errorf("Reason = %q, want b", got.Reason)
	}
}

func TestContentMutationsOnUnmoderatableKind(t *testing.T) {
	s := memstore.New()
	_, err := s.Read().Content.Hide(context.Background(), content.Ref{Kind: content.KindUser, ID: "u1"}, "m", "r", time.Now())
	if !errors.Is(err, model.ErrUnsupportedContentType) {
		t.Errorf("err = %v, want ErrUnsupportedContentType", err)
	}
}
