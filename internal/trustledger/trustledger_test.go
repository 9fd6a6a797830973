package trustledger_test

import (
	"context"
	"testing"
	"time"

	"github.com/jmerrifield20/NexusTrustSafety/internal/trustledger"
)

var ctx = context.Background()

func TestNew_genesisEntry(t *testing.T) {
	l := trustledger.New()

	n, err := l.Len(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("expected 1 genesis entry, got %d", n)
	}

	entry, err := l.Get(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	if entry.Action != "genesis" {
		t.Errorf("expected action 'genesis', got %q", entry.Action)
	}
	if entry.Hash != trustledger.GenesisHash {
		t.Errorf("genesis hash: got %q, want GenesisHash", entry.Hash)
	}
}

func TestAppend_chainsCorrectly(t *testing.T) {
	l := trustledger.New()

	e1, err := l.Append(ctx, "post/42", "hide", "mod-1", map[string]string{"reason": "confirmed spam"})
	if err != nil {
		t.Fatal(err)
	}
	if e1.PrevHash != trustledger.GenesisHash {
		t.Errorf("first entry should chain from genesis, got %q", e1.PrevHash)
	}

	e2, err := l.Append(ctx, "user/U1", "ban_user", "mod-1", nil)
	if err != nil {
		t.Fatal(err)
	}
	if e2.PrevHash != e1.Hash {
		t.Errorf("chain broken: e2.PrevHash=%q, want e1.Hash=%q", e2.PrevHash, e1.Hash)
	}

	n, _ := l.Len(ctx)
	if n != 3 {
		t.Errorf("expected 3 entries, got %d", n)
	}
	if err := l.Verify(ctx); err != nil {
		t.Errorf("Verify() failed on valid chain: %v", err)
	}
}

func TestVerify_detectsTampering(t *testing.T) {
	l := trustledger.New()
	_, _ = l.Append(ctx, "post/1", "hide", "mod-1", nil)
	e, _ := l.Append(ctx, "post/1", "restore", "mod-1", nil)

	e.Action = "delete"
	if err := l.Verify(ctx); err == nil {
		t.Fatal("expected Verify to detect a rewritten entry")
	}
}

func TestRewind_dropsUncommittedEntries(t *testing.T) {
	l := trustledger.New()
	e1, _ := l.Append(ctx, "post/1", "hide", "mod-1", nil)
	_, _ = l.Append(ctx, "post/2", "hide", "mod-1", nil)

	l.Rewind(2)

	root, _ := l.Root(ctx)
	if root != e1.Hash {
		t.Errorf("Root after rewind: got %q, want %q", root, e1.Hash)
	}

	l.Rewind(0)
	if n, _ := l.Len(ctx); n != 1 {
		t.Errorf("rewind must keep genesis, got %d entries", n)
	}
}

func TestEntries_newestFirst(t *testing.T) {
	l := trustledger.New()
	l.SetClock(func() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) })
	_, _ = l.Append(ctx, "post/1", "hide", "mod-1", nil)
	_, _ = l.Append(ctx, "post/2", "delete", "mod-1", nil)

	entries, err := l.Entries(ctx, 2, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 || entries[0].Action != "delete" || entries[1].Action != "hide" {
		t.Fatalf("unexpected entries order: %+v", entries)
	}

	entries, _ = l.Entries(ctx, 10, 2)
	if len(entries) != 1 || entries[0].Action != "genesis" {
		t.Fatalf("expected only genesis after offset 2, got %+v", entries)
	}
}

func TestRoot_genesisOnly(t *testing.T) {
	l := trustledger.New()
	root, err := l.Root(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if root != trustledger.GenesisHash {
		t.Errorf("Root() on genesis-only: got %q, want GenesisHash", root)
	}
}
