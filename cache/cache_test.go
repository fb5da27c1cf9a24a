package cache

import (
	"bytes"
	"testing"
)

func TestKey(t *testing.T) {
	base := Key("md5", "words", 3, "some text")

	if len(base) != 64 {
		t.Fatalf("key length = %d, want 64 hex chars", len(base))
	}
	if got := Key("md5", "words", 3, "some text"); got != base {
		t.Error("identical inputs produced different keys")
	}

	variants := []string{
		Key("sha256", "words", 3, "some text"),
		Key("md5", "chars", 3, "some text"),
		Key("md5", "words", 4, "some text"),
		Key("md5", "words", 3, "other text"),
	}
	for i, v := range variants {
		if v == base {
			t.Errorf("variant %d collided with base key", i)
		}
	}
}

func TestGetSet(t *testing.T) {
	c := New(10)
	key := Key("md5", "words", 3, "hello world")

	if _, ok := c.Get(key); ok {
		t.Fatal("unexpected hit on empty cache")
	}

	want := &Entry{Fingerprint: []byte{0xAB, 0xCD}, Tokens: 2, Shingles: 1}
	c.Set(key, want)

	got, ok := c.Get(key)
	if !ok {
		t.Fatal("expected hit after Set")
	}
	if !bytes.Equal(got.Fingerprint, want.Fingerprint) {
		t.Errorf("Fingerprint = %x, want %x", got.Fingerprint, want.Fingerprint)
	}
	if got.Tokens != 2 || got.Shingles != 1 {
		t.Errorf("counts = (%d, %d), want (2, 1)", got.Tokens, got.Shingles)
	}
}

func TestEvictionAtCapacity(t *testing.T) {
	c := New(2)

	c.Set("a", &Entry{})
	c.Set("b", &Entry{})
	c.Set("c", &Entry{})

	c.mu.RLock()
	size := len(c.store)
	c.mu.RUnlock()
	if size != 2 {
		t.Errorf("store size = %d, want 2 after eviction", size)
	}

	// The newest entry always survives eviction.
	if _, ok := c.Get("c"); !ok {
		t.Error("latest entry missing after eviction")
	}
}
