package oauthstate_test

import (
	"testing"
	"time"

	"github.com/dalemusser/aftershift/internal/app/store/oauthstate"
	"github.com/dalemusser/aftershift/internal/testutil"
)

func TestStore_SaveAndConsume(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := oauthstate.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := store.EnsureIndexes(ctx); err != nil {
		t.Fatalf("EnsureIndexes failed: %v", err)
	}
	if err := store.Save(ctx, "state-1", "/admin/coupons", time.Now().Add(10*time.Minute)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	ret, ok, err := store.Consume(ctx, "state-1")
	if err != nil {
		t.Fatalf("Consume failed: %v", err)
	}
	if !ok {
		t.Fatal("expected state to be valid")
	}
	if ret != "/admin/coupons" {
		t.Errorf("return url = %q, want /admin/coupons", ret)
	}
}

func TestStore_ConsumeIsOneTime(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := oauthstate.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := store.Save(ctx, "once", "", time.Now().Add(time.Minute)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, ok, _ := store.Consume(ctx, "once"); !ok {
		t.Fatal("first consume should succeed")
	}
	if _, ok, err := store.Consume(ctx, "once"); err != nil || ok {
		t.Errorf("second consume: ok=%v err=%v, want false nil", ok, err)
	}
}

func TestStore_ConsumeUnknown(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := oauthstate.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, ok, err := store.Consume(ctx, "nope")
	if err != nil {
		t.Fatalf("Consume failed: %v", err)
	}
	if ok {
		t.Error("unknown state should not validate")
	}
}

func TestStore_ExpiredState(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := oauthstate.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := store.Save(ctx, "stale", "/admin", time.Now().Add(-time.Minute)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, ok, _ := store.Consume(ctx, "stale"); ok {
		t.Error("expired state should not validate")
	}

	n, err := store.CleanupExpired(ctx)
	if err != nil {
		t.Fatalf("CleanupExpired failed: %v", err)
	}
	if n != 1 {
		t.Errorf("cleaned %d, want 1", n)
	}
}
