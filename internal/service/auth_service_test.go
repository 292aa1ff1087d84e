package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"task-tracker/internal/model"
	"task-tracker/internal/repository"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := repository.NewDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func newAuthService(t *testing.T) (*AuthService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	svc := NewAuthService(repository.NewUserRepository(db), repository.NewTokenRepository(db), bcrypt.MinCost)
	return svc, db
}

func TestRegisterThenLogin(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, "ana", "secret123")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if registered.Username != "ana" || registered.Token == "" {
		t.Fatalf("unexpected session: %+v", registered)
	}

	logged, err := svc.Login(ctx, "ana", "secret123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if logged.UserID != registered.UserID {
		t.Fatalf("expected same user id, got %d and %d", registered.UserID, logged.UserID)
	}
	if logged.Token != registered.Token {
		t.Fatalf("expected same token, got %q and %q", registered.Token, logged.Token)
	}
}

func TestRegisterMissingFields(t *testing.T) {
	svc, db := newAuthService(t)
	ctx := context.Background()

	cases := map[string]struct{ username, password string }{
		"no_password": {"ana", ""},
		"no_username": {"", "secret123"},
		"neither":     {"", ""},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := svc.Register(ctx, tc.username, tc.password); !errors.Is(err, ErrMissingCredentials) {
				t.Fatalf("expected ErrMissingCredentials, got %v", err)
			}
		})
	}

	var count int64
	if err := db.Model(&model.User{}).Count(&count).Error; err != nil {
		t.Fatalf("count users: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no identities created, found %d", count)
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	first, err := svc.Register(ctx, "ana", "secret123")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := svc.Register(ctx, "ana", "otra-clave"); !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}

	// The first user's token must be untouched.
	logged, err := svc.Login(ctx, "ana", "secret123")
	if err != nil {
		t.Fatalf("login after duplicate attempt: %v", err)
	}
	if logged.Token != first.Token {
		t.Fatalf("token changed after failed duplicate registration: %q -> %q", first.Token, logged.Token)
	}
}

func TestLoginFailuresIndistinguishable(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "ana", "secret123"); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, wrongPassword := svc.Login(ctx, "ana", "wrong")
	_, unknownUser := svc.Login(ctx, "nadie", "secret123")

	if !errors.Is(wrongPassword, ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", wrongPassword)
	}
	if !errors.Is(unknownUser, ErrInvalidCredentials) {
		t.Fatalf("unknown user: expected ErrInvalidCredentials, got %v", unknownUser)
	}
	if wrongPassword.Error() != unknownUser.Error() {
		t.Fatalf("failure modes leak information: %q vs %q", wrongPassword, unknownUser)
	}
}

func TestLoginIdempotentToken(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "ana", "secret123"); err != nil {
		t.Fatalf("register: %v", err)
	}

	first, err := svc.Login(ctx, "ana", "secret123")
	if err != nil {
		t.Fatalf("first login: %v", err)
	}
	second, err := svc.Login(ctx, "ana", "secret123")
	if err != nil {
		t.Fatalf("second login: %v", err)
	}
	if first.Token != second.Token {
		t.Fatalf("expected identical token on repeat login, got %q and %q", first.Token, second.Token)
	}
}

func TestAuthenticate(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	sess, err := svc.Register(ctx, "ana", "secret123")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	user, err := svc.Authenticate(ctx, sess.Token)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if user.ID != sess.UserID || user.Username != "ana" {
		t.Fatalf("token resolved to wrong user: %+v", user)
	}

	if _, err := svc.Authenticate(ctx, "0000000000000000000000000000000000000000"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown key, got %v", err)
	}
}

func TestPasswordStoredHashed(t *testing.T) {
	svc, db := newAuthService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "ana", "secret123"); err != nil {
		t.Fatalf("register: %v", err)
	}

	var user model.User
	if err := db.Where("username = ?", "ana").First(&user).Error; err != nil {
		t.Fatalf("load user: %v", err)
	}
	if user.PasswordHash == "secret123" {
		t.Fatal("password stored in plaintext")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret123")) != nil {
		t.Fatal("stored hash does not verify the original password")
	}
}
