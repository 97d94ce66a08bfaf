package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/iliyamo/event-registration/internal/utils"
)

func TestOrganizerCreateAndLookup(t *testing.T) {
	m := newManager(t)
	repo := NewOrganizerRepo(m.Registry())
	ctx := context.Background()

	o, err := repo.Create(ctx, "  Acme Corp!  ", "s3cret-pass", 4)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if o.TenantID != "AcmeCorp" {
		t.Fatalf("tenant id = %q, want AcmeCorp", o.TenantID)
	}
	if o.DisplayName != "Acme Corp!" {
		t.Fatalf("display name = %q, want trimmed original", o.DisplayName)
	}
	if !utils.VerifyPassword(o.PasswordHash, "s3cret-pass") {
		t.Fatal("stored hash does not verify the password")
	}

	// Raw and sanitized spellings must resolve to the same account.
	for _, name := range []string{"Acme Corp!", "AcmeCorp"} {
		got, err := repo.GetByTenant(ctx, name)
		if err != nil {
			t.Fatalf("GetByTenant(%q): %v", name, err)
		}
		if got.ID != o.ID {
			t.Fatalf("GetByTenant(%q) resolved account %d, want %d", name, got.ID, o.ID)
		}
	}
}

func TestOrganizerDuplicateSanitizedName(t *testing.T) {
	m := newManager(t)
	repo := NewOrganizerRepo(m.Registry())
	ctx := context.Background()

	if _, err := repo.Create(ctx, "Acme Corp", "pass-one", 4); err != nil {
		t.Fatalf("first Create: %v", err)
	}
	// Different raw spelling, same sanitized identifier.
	if _, err := repo.Create(ctx, "acme... hm", "pass-two", 4); err != nil {
		t.Fatalf("unrelated Create: %v", err)
	}
	_, err := repo.Create(ctx, "Acme! Corp?", "pass-three", 4)
	if !errors.Is(err, ErrNameExists) {
		t.Fatalf("err = %v, want ErrNameExists", err)
	}
}

func TestOrganizerUnknownLookup(t *testing.T) {
	m := newManager(t)
	repo := NewOrganizerRepo(m.Registry())

	if _, err := repo.GetByTenant(context.Background(), "Nobody"); !errors.Is(err, ErrOrganizerNotFound) {
		t.Fatalf("GetByTenant err = %v, want ErrOrganizerNotFound", err)
	}
	if _, err := repo.GetByID(context.Background(), 9999); !errors.Is(err, ErrOrganizerNotFound) {
		t.Fatalf("GetByID err = %v, want ErrOrganizerNotFound", err)
	}
}
