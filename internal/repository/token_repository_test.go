package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/iliyamo/event-registration/internal/utils"
)

func TestRefreshTokenLifecycle(t *testing.T) {
	m := newManager(t)
	organizers := NewOrganizerRepo(m.Registry())
	tokens := NewTokenRepo(m.Registry())
	ctx := context.Background()

	o, err := organizers.Create(ctx, "acme", "password", 4)
	if err != nil {
		t.Fatalf("Create organizer: %v", err)
	}

	hash := utils.HashRefreshRaw("raw-refresh-token")
	exp := time.Now().UTC().Add(24 * time.Hour)
	if err := tokens.StoreRefresh(ctx, o.ID, hash, exp); err != nil {
		t.Fatalf("StoreRefresh: %v", err)
	}

	got, err := tokens.ValidateRefresh(ctx, hash)
	if err != nil {
		t.Fatalf("ValidateRefresh: %v", err)
	}
	if got != o.ID {
		t.Fatalf("ValidateRefresh = %d, want %d", got, o.ID)
	}

	if err := tokens.RevokeByHash(ctx, hash); err != nil {
		t.Fatalf("RevokeByHash: %v", err)
	}
	if _, err := tokens.ValidateRefresh(ctx, hash); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("revoked token err = %v, want sql.ErrNoRows", err)
	}
}

func TestRefreshTokenExpired(t *testing.T) {
	m := newManager(t)
	organizers := NewOrganizerRepo(m.Registry())
	tokens := NewTokenRepo(m.Registry())
	ctx := context.Background()

	o, err := organizers.Create(ctx, "acme", "password", 4)
	if err != nil {
		t.Fatalf("Create organizer: %v", err)
	}

	hash := utils.HashRefreshRaw("stale-token")
	if err := tokens.StoreRefresh(ctx, o.ID, hash, time.Now().UTC().Add(-time.Minute)); err != nil {
		t.Fatalf("StoreRefresh: %v", err)
	}
	if _, err := tokens.ValidateRefresh(ctx, hash); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("expired token err = %v, want sql.ErrNoRows", err)
	}
}

func TestRevokeAllForOrganizer(t *testing.T) {
	m := newManager(t)
	organizers := NewOrganizerRepo(m.Registry())
	tokens := NewTokenRepo(m.Registry())
	ctx := context.Background()

	o, err := organizers.Create(ctx, "acme", "password", 4)
	if err != nil {
		t.Fatalf("Create organizer: %v", err)
	}

	exp := time.Now().UTC().Add(24 * time.Hour)
	hashes := []string{utils.HashRefreshRaw("one"), utils.HashRefreshRaw("two")}
	for _, h := range hashes {
		if err := tokens.StoreRefresh(ctx, o.ID, h, exp); err != nil {
			t.Fatalf("StoreRefresh: %v", err)
		}
	}
	if err := tokens.RevokeAllForOrganizer(ctx, o.ID); err != nil {
		t.Fatalf("RevokeAllForOrganizer: %v", err)
	}
	for _, h := range hashes {
		if _, err := tokens.ValidateRefresh(ctx, h); !errors.Is(err, sql.ErrNoRows) {
			t.Fatalf("token %q still validates after revoke all", h)
		}
	}
}
