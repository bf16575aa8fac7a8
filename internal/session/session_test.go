package session

import (
	"context"
	"testing"
	"time"

	"github.com/slashroll/slashroll/internal/models"
	"github.com/slashroll/slashroll/internal/testutil"
)

func TestDBRevocationStore(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := NewDBRevocationStore(db)
	ctx := context.Background()

	revoked, err := store.IsRevoked(ctx, "abc")
	if err != nil {
		t.Fatalf("IsRevoked returned error: %v", err)
	}
	if revoked {
		t.Fatal("expected unknown session to be valid")
	}

	if err := store.Revoke(ctx, "abc", time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("Revoke returned error: %v", err)
	}
	// Revoking twice is harmless.
	if err := store.Revoke(ctx, "abc", time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("second Revoke returned error: %v", err)
	}

	revoked, err = store.IsRevoked(ctx, "abc")
	if err != nil {
		t.Fatalf("IsRevoked returned error: %v", err)
	}
	if !revoked {
		t.Error("expected revoked session to be reported")
	}
}

func TestDBRevocationStorePrunesExpired(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := NewDBRevocationStore(db)
	ctx := context.Background()

	if err := db.Create(&models.RevokedSession{JTI: "old", ExpiresAt: time.Now().Add(-time.Hour).UTC()}).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := store.Revoke(ctx, "new", time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("Revoke returned error: %v", err)
	}

	if n := testutil.CountRows(t, db, &models.RevokedSession{}, ""); n != 1 {
		t.Errorf("expected 1 revoked session after pruning, got %d", n)
	}
}

func TestDBRevocationStoreRejectsEmptyID(t *testing.T) {
	store := NewDBRevocationStore(testutil.SetupTestDB(t))
	if err := store.Revoke(context.Background(), "", time.Now().Add(time.Hour)); err == nil {
		t.Error("expected error for empty session id")
	}
}
