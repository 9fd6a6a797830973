package users_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jmerrifield20/NexusTrustSafety/internal/users"
)

type countingDirectory struct {
	inner users.Directory
	calls int
}

func (c *countingDirectory) Profile(ctx context.Context, id string) (*users.Profile, error) {
	c.calls++
	return c.inner.Profile(ctx, id)
}

func TestCachedDirectory_cachesHits(t *testing.T) {
	inner := &countingDirectory{inner: users.MapDirectory{
		"u1": {ID: "u1", Username: "alice"},
	}}
	d := users.NewCachedDirectory(inner, 16, time.Minute)

	for i := 0; i < 3; i++ {
		p, err := d.Profile(context.Background(), "u1")
		if err != nil {
			t.Fatal(err)
		}
		if p.Username != "alice" {
			t.Fatalf("unexpected profile %+v", p)
		}
	}
	if inner.calls != 1 {
		t.Errorf("expected 1 backend call, got %d", inner.calls)
	}
}

func TestCachedDirectory_missesAreNotCached(t *testing.T) {
	inner := &countingDirectory{inner: users.MapDirectory{}}
	d := users.NewCachedDirectory(inner, 16, time.Minute)

	for i := 0; i < 2; i++ {
		if _, err := d.Profile(context.Background(), "ghost"); !errors.Is(err, users.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	}
	if inner.calls != 2 {
		t.Errorf("expected 2 backend calls, got %d", inner.calls)
	}
}

func TestProfileName(t *testing.T) {
	var nilProfile *users.Profile
	cases := []struct {
		p    *users.Profile
		want string
	}{
		{nilProfile, users.UnknownUser},
		{&users.Profile{}, users.UnknownUser},
		{&users.Profile{Username: "bob"}, "bob"},
		{&users.Profile{Username: "bob", DisplayName: "Bob B."}, "Bob B."},
	}
	for _, c := range cases {
		if got := c.p.Name(); got != c.want {
			t.Errorf("Name() = %q, want %q", got, c.want)
		}
	}
}
