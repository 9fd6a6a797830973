// Package store declares the persistence contract of the moderation core.
//
// The PostgreSQL implementation lives in package repository and an in-memory
// implementation with the same transactional semantics lives in package
// memstore. Services depend only on these interfaces.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmerrifield20/NexusTrustSafety/internal/content"
	"github.com/jmerrifield20/NexusTrustSafety/internal/moderation/model"
	"github.com/jmerrifield20/NexusTrustSafety/internal/trustledger"
)

// Reports persists user reports.
type Reports interface {
	Create(ctx context.Context, r *model.Report) error
	Get(ctx context.Context, id uuid.UUID) (*model.Report, error)

	// GetForUpdate loads a report and locks it until the transaction ends.
	GetForUpdate(ctx context.Context, id uuid.UUID) (*model.Report, error)

	List(ctx context.Context, f model.ReportFilter) ([]*model.Report, error)

	// Resolve moves a pending report to a terminal status. It returns
	// model.ErrAlreadyResolved when the report is not pending and
	// model.ErrNotFound when it does not exist.
	Resolve(ctx context.Context, id uuid.UUID, status model.ReportStatus, moderatorID, notes string, at time.Time) (*model.Report, error)

	// CountByContent counts all reports filed against each ref.
	CountByContent(ctx context.Context, refs []content.Ref) (map[content.Ref]int, error)

	CountByStatus(ctx context.Context) (map[model.ReportStatus]int, error)
	CountByReason(ctx context.Context) (map[model.Reason]int, error)
	CountByContentType(ctx context.Context) (map[content.Kind]int, error)
}

// Actions persists the append-only moderation action log.
type Actions interface {
	Create(ctx context.Context, a *model.ModerationAction) error
	List(ctx context.Context, f model.ActionFilter) ([]*model.ModerationAction, error)
	CountByType(ctx context.Context, since time.Time) (map[model.ActionType]int, error)
}

// Bans persists the ban registry.
type Bans interface {
	// Upsert creates the user's ban row or overwrites the existing one in
	// place. b.ID is set to the id of the surviving row.
	Upsert(ctx context.Context, b *model.BannedUser) error

	// Get returns the user's ban row regardless of expiry, or model.ErrNotFound.
	Get(ctx context.Context, userID string) (*model.BannedUser, error)

	// Delete removes the user's ban row and reports whether one existed.
	Delete(ctx context.Context, userID string) (bool, error)

	List(ctx context.Context, f model.BanFilter, now time.Time) ([]*model.BannedUser, error)

	// DeleteExpired removes rows whose banned_until is before now and returns
	// the affected user ids.
	DeleteExpired(ctx context.Context, now time.Time) ([]string, error)

	CountActive(ctx context.Context, now time.Time) (int, error)
}

// Warnings persists user warnings.
type Warnings interface {
	Create(ctx context.Context, w *model.Warning) error
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*model.Warning, error)

	// MarkRead flags a warning owned by userID as read, or returns
	// model.ErrNotFound.
	MarkRead(ctx context.Context, id uuid.UUID, userID string) error
}

// Content is the uniform update/delete primitive over every content kind.
// Mutations report whether the target row existed; a missing row is not an
// error.
type Content interface {
	// AuthorOf returns the owning user of ref, or model.ErrNotFound.
	AuthorOf(ctx context.Context, ref content.Ref) (string, error)

	Hide(ctx context.Context, ref content.Ref, by, reason string, at time.Time) (bool, error)
	Restore(ctx context.Context, ref content.Ref) (bool, error)
	Delete(ctx context.Context, ref content.Ref) (bool, error)

	ListHidden(ctx context.Context, limit, offset int) ([]*model.HiddenContent, error)
	CountHidden(ctx context.Context) (int, error)
}

// Repos groups the repositories bound to one connection or transaction.
type Repos struct {
	Reports  Reports
	Actions  Actions
	Bans     Bans
	Warnings Warnings
	Content  Content
	Ledger   trustledger.Appender
}

// Store hands out repositories.
type Store interface {
	// Read returns repositories for non-transactional reads. They may be
	// served from a replica and lag the primary by a few seconds.
	Read() Repos

	// InTx runs fn inside a single transaction. If fn returns an error every
	// write made through the supplied Repos is rolled back.
	InTx(ctx context.Context, fn func(Repos) error) error
}
