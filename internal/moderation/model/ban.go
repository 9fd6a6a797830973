package model

import (
	"time"

	"github.com/google/uuid"
)

// MaxBanHours caps a temporary ban at 100 years. Longer bans are permanent.
const MaxBanHours = 100 * 365 * 24

// BannedUser is the single ban row of a user. A user has at most one row;
// re-banning updates it in place.
type BannedUser struct {
	ID          uuid.UUID  `json:"id"                     db:"id"`
	UserID      string     `json:"user_id"                db:"user_id"`
	ModeratorID string     `json:"moderator_id"           db:"moderator_id"`
	Reason      string     `json:"reason"                 db:"reason"`
	BannedAt    time.Time  `json:"banned_at"              db:"banned_at"`
	BannedUntil *time.Time `json:"banned_until,omitempty" db:"banned_until"`
	IsPermanent bool       `json:"is_permanent"           db:"is_permanent"`
	UpdatedAt   time.Time  `json:"updated_at"             db:"updated_at"`
}

// ActiveAt reports whether the ban denies access at t. Expiry is evaluated
// here, at read time, regardless of whether the row has been reaped.
func (b *BannedUser) ActiveAt(t time.Time) bool {
	if b.IsPermanent || b.BannedUntil == nil {
		return true
	}
	return t.Before(*b.BannedUntil)
}

// BanStatus is the answer to "is this user currently banned?".
type BanStatus struct {
	Banned    bool       `json:"banned"`
	Until     *time.Time `json:"until,omitempty"`
	Permanent bool       `json:"permanent"`
	Reason    string     `json:"reason,omitempty"`
}

// StatusAt derives the BanStatus of b at time t. A nil ban is not banned.
func (b *BannedUser) StatusAt(t time.Time) BanStatus {
	if b == nil || !b.ActiveAt(t) {
		return BanStatus{}
	}
	return BanStatus{
		Banned:    true,
		Until:     b.BannedUntil,
		Permanent: b.IsPermanent,
		Reason:    b.Reason,
	}
}

// BanFilter narrows ListBannedUsers.
type BanFilter struct {
	// IncludeExpired returns rows whose banned_until has passed but which
	// have not been reaped yet.
	IncludeExpired bool
	Limit          int
	Offset         int
}

// BanView is a BannedUser enriched for moderator tooling.
type BanView struct {
	*BannedUser
	UserName      string `json:"user_name"`
	ModeratorName string `json:"moderator_name"`
	Active        bool   `json:"active"`
}
