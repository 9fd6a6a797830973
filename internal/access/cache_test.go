package access

import (
	"testing"
	"time"
)

func TestRedisStatusCache_negativeEntriesExpireSooner(t *testing.T) {
	s := &RedisStatusCache{TTL: 30 * time.Second}
	if got := s.ttlFor(Entry{}); got != localTTL {
		t.Errorf("negative ttl = %v, want %v", got, localTTL)
	}
	if got := s.ttlFor(Entry{Found: true, Permanent: true}); got != 30*time.Second {
		t.Errorf("positive ttl = %v, want 30s", got)
	}

	s.TTL = time.Second
	if got := s.ttlFor(Entry{}); got != time.Second {
		t.Errorf("negative ttl with short base = %v, want 1s", got)
	}
}
