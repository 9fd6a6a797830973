package trustledger

import "context"

// Appender adds entries to the chain. The moderation store hands out an
// Appender bound to the current transaction so the entry commits or rolls
// back together with the decision it records.
type Appender interface {
	// Append adds a new entry chained to the previous one.
	// payload is JSON-marshalled and its SHA-256 is stored as DataHash.
	Append(ctx context.Context, subject, action, actor string, payload any) (*Entry, error)
}

// Ledger is the read/write interface of the hash chain.
type Ledger interface {
	Appender

	// Get returns the entry at the given zero-based index.
	Get(ctx context.Context, index int) (*Entry, error)

	// Entries returns up to limit entries, newest first, skipping offset.
	Entries(ctx context.Context, limit, offset int) ([]*Entry, error)

	// Len returns the total number of entries (including genesis).
	Len(ctx context.Context) (int, error)

	// Verify walks the entire chain and returns nil if it is intact.
	Verify(ctx context.Context) error

	// Root returns the hash of the most recent entry.
	Root(ctx context.Context) (string, error)
}
