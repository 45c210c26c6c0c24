package service

import (
	"errors"
	"testing"
	"time"

	"go-kasir-pos/internal/model"
	"go-kasir-pos/internal/repository"

	"gorm.io/gorm"
)

func newAuthService(t *testing.T, db *gorm.DB) AuthService {
	t.Helper()

	if err := repository.NewPrivilegeRepo(db).SeedDefaults(); err != nil {
		t.Fatalf("failed to seed privileges: %v", err)
	}
	if err := repository.NewRoleRepo(db).SeedDefaults(); err != nil {
		t.Fatalf("failed to seed roles: %v", err)
	}

	return NewAuthService(
		repository.NewUserRepo(db),
		repository.NewRoleRepo(db),
		repository.NewPrivilegeRepo(db),
		NopNotifier{},
	)
}

func TestRegisterAndLogin(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(t, db)

	resp, err := svc.Register("kasir@example.com", "rahasia123", "Kasir Satu")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if resp.Token == "" {
		t.Error("expected a token from register")
	}
	if resp.Role == nil || resp.Role.Code != model.RoleKasir {
		t.Errorf("role = %+v, want KASIR", resp.Role)
	}
	if len(resp.Privileges) == 0 {
		t.Error("expected cashier privileges to be assigned")
	}

	login, err := svc.Login("kasir@example.com", "rahasia123")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if login.User.Email != "kasir@example.com" {
		t.Errorf("email = %q, want kasir@example.com", login.User.Email)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(t, db)

	if _, err := svc.Register("kasir@example.com", "rahasia123", "Kasir Satu"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	_, err := svc.Register("kasir@example.com", "lain456", "Kasir Dua")
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("err = %v, want ErrEmailTaken", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(t, db)

	if _, err := svc.Register("kasir@example.com", "rahasia123", "Kasir Satu"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if _, err := svc.Login("kasir@example.com", "salah"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
	if _, err := svc.Login("nobody@example.com", "rahasia123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestLoginInactiveUser(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(t, db)

	if _, err := svc.Register("kasir@example.com", "rahasia123", "Kasir Satu"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if err := db.Model(&model.User{}).
		Where("email = ?", "kasir@example.com").
		Update("is_active", false).Error; err != nil {
		t.Fatalf("failed to deactivate user: %v", err)
	}

	if _, err := svc.Login("kasir@example.com", "rahasia123"); !errors.Is(err, ErrUserInactive) {
		t.Fatalf("err = %v, want ErrUserInactive", err)
	}
}

func TestLoginInvalidatesOlderToken(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(t, db)

	first, err := svc.Register("kasir@example.com", "rahasia123", "Kasir Satu")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	// Second login rotates the token version.
	if _, err := svc.Login("kasir@example.com", "rahasia123"); err != nil {
		t.Fatalf("second Login failed: %v", err)
	}

	if _, err := svc.ValidateToken(first.Token); err == nil {
		t.Fatal("expected the first token to be rejected after re-login")
	}
}

func TestValidateTokenInactivityTimeout(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(t, db)

	resp, err := svc.Register("kasir@example.com", "rahasia123", "Kasir Satu")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	stale := time.Now().Add(-10 * time.Minute)
	if err := db.Model(&model.User{}).
		Where("email = ?", "kasir@example.com").
		Update("last_seen_at", stale).Error; err != nil {
		t.Fatalf("failed to backdate last_seen_at: %v", err)
	}

	if _, err := svc.ValidateToken(resp.Token); !errors.Is(err, ErrSessionTimeout) {
		t.Fatalf("err = %v, want ErrSessionTimeout", err)
	}

	// A heartbeat brings the session back within the window.
	if err := svc.Heartbeat(resp.User.ID); err != nil {
		t.Fatalf("Heartbeat failed: %v", err)
	}
	if _, err := svc.ValidateToken(resp.Token); err != nil {
		t.Fatalf("ValidateToken after heartbeat failed: %v", err)
	}
}

func TestResetPassword(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(t, db)

	if _, err := svc.Register("kasir@example.com", "rahasia123", "Kasir Satu"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if err := svc.ResetPassword("kasir@example.com", "salah", "baru789"); !errors.Is(err, ErrWrongPassword) {
		t.Fatalf("err = %v, want ErrWrongPassword", err)
	}

	if err := svc.ResetPassword("kasir@example.com", "rahasia123", "baru789"); err != nil {
		t.Fatalf("ResetPassword failed: %v", err)
	}

	if _, err := svc.Login("kasir@example.com", "baru789"); err != nil {
		t.Fatalf("Login with new password failed: %v", err)
	}
	if _, err := svc.Login("kasir@example.com", "rahasia123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials with old password", err)
	}
}
