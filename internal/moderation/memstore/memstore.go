// Package memstore is an in-memory store.Store.
//
// Transactions are serialised by a single mutex and run against a copy of the
// data; the copy replaces the live state only when the transaction function
// returns nil. This gives the same all-or-nothing and pending-guard behaviour
// as the PostgreSQL store, which makes it suitable for tests and for running
// the service without a database.
package memstore

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jmerrifield20/NexusTrustSafety/internal/content"
	"github.com/jmerrifield20/NexusTrustSafety/internal/moderation/model"
	"github.com/jmerrifield20/NexusTrustSafety/internal/moderation/store"
	"github.com/jmerrifield20/NexusTrustSafety/internal/trustledger"
	"github.com/jmerrifield20/NexusTrustSafety/internal/users"
)

// Item is a content row owned by the content collaborator.
type Item struct {
	Ref          content.Ref
	AuthorID     string
	Summary      string
	IsHidden     bool
	HiddenBy     string
	HiddenAt     *time.Time
	HiddenReason string
}

type data struct {
	reports  map[uuid.UUID]*model.Report
	actions  []*model.ModerationAction
	bans     map[string]*model.BannedUser
	warnings map[uuid.UUID]*model.Warning
	items    map[content.Ref]*Item
	profiles map[string]*users.Profile
}

func newData() *data {
	return &data{
		reports:  make(map[uuid.UUID]*model.Report),
		bans:     make(map[string]*model.BannedUser),
		warnings: make(map[uuid.UUID]*model.Warning),
		items:    make(map[content.Ref]*Item),
		profiles: make(map[string]*users.Profile),
	}
}

// clone copies every row so writes to the copy never leak into d.
func (d *data) clone() *data {
	c := newData()
	for k, v := range d.reports {
		cp := *v
		c.reports[k] = &cp
	}
	c.actions = make([]*model.ModerationAction, len(d.actions))
	copy(c.actions, d.actions) // append-only, rows never mutated
	for k, v := range d.bans {
		cp := *v
		c.bans[k] = &cp
	}
	for k, v := range d.warnings {
		cp := *v
		c.warnings[k] = &cp
	}
	for k, v := range d.items {
		cp := *v
		c.items[k] = &cp
	}
	for k, v := range d.profiles {
		c.profiles[k] = v
	}
	return c
}

// view runs fn against some version of the data.
type view interface {
	do(fn func(d *data) error) error
}

// liveView locks the store for the duration of a single call.
type liveView struct{ s *Store }

func (v liveView) do(fn func(d *data) error) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	return fn(v.s.cur)
}

// txView operates on a transaction's private copy; the store lock is
// already held by InTx.
type txView struct{ d *data }

func (v txView) do(fn func(d *data) error) error { return fn(v.d) }

// Store is the in-memory store.Store.
type Store struct {
	mu     sync.Mutex
	cur    *data
	ledger *trustledger.MemoryLedger
}

var (
	_ store.Store     = (*Store)(nil)
	_ users.Directory = (*Store)(nil)
)

// New creates an empty Store with its own MemoryLedger.
func New() *Store {
	return &Store{cur: newData(), ledger: trustledger.New()}
}

// Ledger returns the ledger moderation writes append to.
func (s *Store) Ledger() *trustledger.MemoryLedger {
	return s.ledger
}

// Read implements store.Store.
func (s *Store) Read() store.Repos {
	return reposFor(liveView{s}, s.ledger)
}

// InTx implements store.Store.
func (s *Store) InTx(ctx context.Context, fn func(store.Repos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := s.cur.clone()
	mark, _ := s.ledger.Len(ctx)
	if err := fn(reposFor(txView{tx}, s.ledger)); err != nil {
		s.ledger.Rewind(mark)
		return err
	}
	s.cur = tx
	return nil
}

func reposFor(v view, ledger trustledger.Appender) store.Repos {
	return store.Repos{
		Reports:  reportRepo{v},
		Actions:  actionRepo{v},
		Bans:     banRepo{v},
		Warnings: warningRepo{v},
		Content:  contentRepo{v},
		Ledger:   ledger,
	}
}

// PutContent inserts or replaces a content item.
func (s *Store) PutContent(ref content.Ref, authorID, summary string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cur.items[ref] = &Item{Ref: ref, AuthorID: authorID, Summary: summary}
}

// Content returns a copy of a content item.
func (s *Store) Content(ref content.Ref) (Item, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.cur.items[ref]
	if !ok {
		return Item{}, false
	}
	return *it, true
}

// PutProfile inserts or replaces a user profile. The user kind resolves
// against profiles, so a profile is also a reportable item.
func (s *Store) PutProfile(p users.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := p
	s.cur.profiles[p.ID] = &cp
}

// Profile implements users.Directory.
func (s *Store) Profile(_ context.Context, id string) (*users.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.cur.profiles[id]
	if !ok {
		return nil, users.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

// Counts reports row totals, for tests.
func (s *Store) Counts() (reports, actions, bans, warnings int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.cur.reports), len(s.cur.actions), len(s.cur.bans), len(s.cur.warnings)
}

func paginate(n, limit, offset int) (int, int) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	if offset > n {
		offset = n
	}
	end := offset + limit
	if end > n {
		end = n
	}
	return offset, end
}
