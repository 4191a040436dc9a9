package auth

import (
	"context"
	"testing"
)

func TestRegisterHashesPassword(t *testing.T) {
	svc := NewService(NewInMemoryUserRepository())

	user, err := svc.Register(context.Background(), "Ali", "ali@khapey.pk", "secret123", "")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if user.ID == "" {
		t.Fatal("expected an assigned user id")
	}
	if user.Role != RoleManager {
		t.Fatalf("expected default role %s, got %s", RoleManager, user.Role)
	}
	if user.Password == "secret123" {
		t.Fatal("password stored in plaintext")
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc := NewService(NewInMemoryUserRepository())
	ctx := context.Background()

	if _, err := svc.Register(ctx, "Ali", "ali@khapey.pk", "secret123", ""); err != nil {
		t.Fatalf("first register failed: %v", err)
	}

	_, err := svc.Register(ctx, "Ali Again", "ali@khapey.pk", "other456", "")
	if err != ErrEmailTaken {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestLogin(t *testing.T) {
	svc := NewService(NewInMemoryUserRepository())
	ctx := context.Background()

	if _, err := svc.Register(ctx, "Ali", "ali@khapey.pk", "secret123", RoleAdmin); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	user, err := svc.Login(ctx, "ali@khapey.pk", "secret123")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if user.Role != RoleAdmin {
		t.Fatalf("expected role %s, got %s", RoleAdmin, user.Role)
	}

	if _, err := svc.Login(ctx, "ali@khapey.pk", "wrong"); err != ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Login(ctx, "nobody@khapey.pk", "secret123"); err != ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}
