package account

import (
	"errors"
	"testing"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/user"
	"github.com/riskibarqy/fantasy-cricket/internal/usecase"
)

func TestStaticVerifier_VerifyAccessToken(t *testing.T) {
	verifier := NewStaticVerifier()
	verifier.Register("tok-admin", user.Principal{UserID: "admin", DisplayName: "Administrator", IsAdmin: true})
	verifier.Register("tok-user", user.Principal{UserID: "user-1", DisplayName: "user-1"})

	principal, err := verifier.VerifyAccessToken(t.Context(), "tok-admin")
	if err != nil {
		t.Fatalf("verify admin: %v", err)
	}
	if principal.UserID != "admin" || !principal.IsAdmin {
		t.Fatalf("unexpected principal %+v", principal)
	}

	principal, err = verifier.VerifyAccessToken(t.Context(), " tok-user ")
	if err != nil {
		t.Fatalf("verify with surrounding spaces: %v", err)
	}
	if principal.UserID != "user-1" || principal.IsAdmin {
		t.Fatalf("unexpected principal %+v", principal)
	}

	if _, err := verifier.VerifyAccessToken(t.Context(), "unknown"); !errors.Is(err, usecase.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if _, err := verifier.VerifyAccessToken(t.Context(), ""); !errors.Is(err, usecase.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for empty token, got %v", err)
	}
}

func TestStaticVerifier_RegisterOverwrites(t *testing.T) {
	verifier := NewStaticVerifier()
	verifier.Register("tok", user.Principal{UserID: "old"})
	verifier.Register("tok", user.Principal{UserID: "new"})
	verifier.Register("", user.Principal{UserID: "ignored"})

	principal, err := verifier.VerifyAccessToken(t.Context(), "tok")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if principal.UserID != "new" {
		t.Fatalf("expected overwritten principal, got %+v", principal)
	}
}
