package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
)

func newTestStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	return NewRedisStore(client), mr
}

func TestRedisStoreRoundTrip(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	now := time.Now()
	sess := Session{
		SessionID: "urn:uuid:abc",
		Token:     "tok",
		Domain:    "hachyderm.io",
		CreatedAt: now,
		ExpiresAt: now.Add(TTL),
	}

	if err := store.Create(ctx, sess); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := store.Get(ctx, "urn:uuid:abc")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got == nil {
		t.Fatal("expected session")
	}
	if got.Token != "tok" || got.Domain != "hachyderm.io" {
		t.Fatalf("session = %+v", got)
	}
}

func TestRedisStoreGetUnknown(t *testing.T) {
	store, _ := newTestStore(t)

	got, err := store.Get(context.Background(), "nope")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil session, got %+v", got)
	}
}

func TestRedisStoreExpiry(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	sess := Session{
		SessionID: "urn:uuid:short",
		Token:     "tok",
		Domain:    "example.social",
		ExpiresAt: time.Now().Add(time.Minute),
	}
	if err := store.Create(ctx, sess); err != nil {
		t.Fatalf("Create: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	got, err := store.Get(ctx, "urn:uuid:short")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != nil {
		t.Fatal("expected session to have expired")
	}
}

func TestRedisStoreCreateValidation(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	if err := store.Create(ctx, Session{Token: "tok", ExpiresAt: time.Now().Add(time.Hour)}); err == nil {
		t.Fatal("expected error for missing session id")
	}
	if err := store.Create(ctx, Session{SessionID: "x", Token: "tok", ExpiresAt: time.Now().Add(-time.Hour)}); err == nil {
		t.Fatal("expected error for past expiry")
	}
}

func TestRedisStoreDelete(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	sess := Session{
		SessionID: "urn:uuid:gone",
		Token:     "tok",
		Domain:    "example.social",
		ExpiresAt: time.Now().Add(TTL),
	}
	if err := store.Create(ctx, sess); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := store.Delete(ctx, "urn:uuid:gone"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	got, err := store.Get(ctx, "urn:uuid:gone")
	if err != nil || got != nil {
		t.Fatalf("expected deleted session, got %+v err=%v", got, err)
	}
}
