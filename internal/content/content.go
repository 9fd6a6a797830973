// Package content maps moderatable content references onto their storage.
//
// Every report and moderation action addresses its target as a Ref: a Kind
// discriminator plus the collaborator-owned identifier of the item. Each Kind
// resolves to exactly one Target describing where the item lives and how its
// author and visibility flag are stored. Adding a content kind means adding a
// Kind constant and one entry to the targets table; call sites never switch on
// table names.
package content

import (
	"errors"
	"fmt"
	"strings"
)

// Kind discriminates the kinds of things that can be reported or acted upon.
type Kind string

const (
	KindPost         Kind = "post"
	KindComment      Kind = "comment"
	KindService      Kind = "service"
	KindAnnouncement Kind = "announcement"
	KindProduct      Kind = "product"
	KindUser         Kind = "user"
)

// ErrUnsupportedKind is returned when a Kind has no registered Target.
var ErrUnsupportedKind = errors.New("unsupported content kind")

// Target describes the storage of one content kind.
type Target struct {
	Kind Kind

	// Table is the collaborator table holding items of this kind.
	Table string

	// IDColumn is the primary key column.
	IDColumn string

	// AuthorColumn holds the id of the user who owns the item.
	AuthorColumn string

	// SummaryColumn is a short human-readable column (title, name, body)
	// shown in moderation listings.
	SummaryColumn string

	// Moderatable is true when the item carries the visibility flag columns
	// (is_hidden, hidden_by, hidden_at, hidden_reason) and can be hidden,
	// restored or deleted by enforcement.
	Moderatable bool
}

var targets = map[Kind]Target{
	KindPost: {
		Kind: KindPost, Table: "posts", IDColumn: "id",
		AuthorColumn: "author_id", SummaryColumn: "title", Moderatable: true,
	},
	KindComment: {
		Kind: KindComment, Table: "comments", IDColumn: "id",
		AuthorColumn: "author_id", SummaryColumn: "body", Moderatable: true,
	},
	KindService: {
		Kind: KindService, Table: "services", IDColumn: "id",
		AuthorColumn: "provider_id", SummaryColumn: "title", Moderatable: true,
	},
	KindAnnouncement: {
		Kind: KindAnnouncement, Table: "announcements", IDColumn: "id",
		AuthorColumn: "author_id", SummaryColumn: "title", Moderatable: true,
	},
	KindProduct: {
		Kind: KindProduct, Table: "products", IDColumn: "id",
		AuthorColumn: "seller_id", SummaryColumn: "name", Moderatable: true,
	},
	KindUser: {
		Kind: KindUser, Table: "profiles", IDColumn: "id",
		AuthorColumn: "id", SummaryColumn: "username", Moderatable: false,
	},
}

// order fixes the iteration order used by Kinds and ModeratableTargets.
var order = []Kind{KindPost, KindComment, KindService, KindAnnouncement, KindProduct, KindUser}

// Kinds returns every registered kind in a stable order.
func Kinds() []Kind {
	out := make([]Kind, len(order))
	copy(out, order)
	return out
}

// Valid reports whether k is a registered kind.
func (k Kind) Valid() bool {
	_, ok := targets[k]
	return ok
}

// Moderatable reports whether items of kind k carry a visibility flag.
// The user kind is reportable but not hideable.
func (k Kind) Moderatable() bool {
	t, ok := targets[k]
	return ok && t.Moderatable
}

// Resolve returns the Target for a kind.
func Resolve(k Kind) (Target, error) {
	t, ok := targets[k]
	if !ok {
		return Target{}, fmt.Errorf("%w: %q", ErrUnsupportedKind, string(k))
	}
	return t, nil
}

// ModeratableTargets returns the Targets of every hideable kind.
func ModeratableTargets() []Target {
	var out []Target
	for _, k := range order {
		if t := targets[k]; t.Moderatable {
			out = append(out, t)
		}
	}
	return out
}

// Ref addresses a single content item.
type Ref struct {
	Kind Kind   `json:"content_type"`
	ID   string `json:"content_id"`
}

// String renders the ref as "kind/id".
func (r Ref) String() string {
	return string(r.Kind) + "/" + r.ID
}

// Target resolves the storage of the referenced item.
func (r Ref) Target() (Target, error) {
	return Resolve(r.Kind)
}

// ParseRef parses a "kind/id" string such as "post/42".
func ParseRef(s string) (Ref, error) {
	kind, id, ok := strings.Cut(strings.TrimSpace(s), "/")
	if !ok || kind == "" || id == "" {
		return Ref{}, fmt.Errorf("content ref %q: expected kind/id", s)
	}
	ref := Ref{Kind: Kind(strings.ToLower(kind)), ID: id}
	if !ref.Kind.Valid() {
		return Ref{}, fmt.Errorf("%w: %q", ErrUnsupportedKind, kind)
	}
	return ref, nil
}
