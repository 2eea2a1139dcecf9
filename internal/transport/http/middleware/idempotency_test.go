package middleware

import (
	"context"
	"testing"
)

func TestRequestHashDeterministic(t *testing.T) {
	first := RequestHash([]byte(`{"items":[{"kind":"product","quantity":2}]}`))
	second := RequestHash([]byte(`{"items":[{"kind":"product","quantity":2}]}`))
	if first != second {
		t.Fatalf("expected identical payloads to hash the same, got %q and %q", first, second)
	}
	if len(first) != 64 {
		t.Fatalf("expected hex sha256 digest, got %q", first)
	}

	other := RequestHash([]byte(`{"items":[{"kind":"product","quantity":3}]}`))
	if first == other {
		t.Fatal("expected different payloads to hash differently")
	}
}

func TestIdempotencyStoreNilSafe(t *testing.T) {
	var store *IdempotencyStore
	if _, found, err := store.Check(context.Background(), "u1", "/sales", "key", "hash"); err != nil || found {
		t.Fatalf("nil store must report no stored response, got found=%v err=%v", found, err)
	}
	if err := store.Save(context.Background(), "u1", "/sales", "key", "hash", nil); err != nil {
		t.Fatalf("nil store save must be a no-op, got %v", err)
	}
}
