package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tenantkit/identity-service/internal/core/domain"
	"github.com/tenantkit/identity-service/internal/core/ports"
)

func newAuthFixture(t *testing.T) (*AuthService, *stubUserRepo, *stubRoleRepo, *stubThrottle) {
	t.Helper()

	users := newStubUserRepo()
	roles := newStubRoleRepo()
	throttle := newStubThrottle(3)
	hasher := NewPasswordHasher()
	tokens, err := NewTokenService(testSecret, "identity-service", "identity-service.api", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenService returned error: %v", err)
	}
	svc := NewAuthService(users, roles, hasher, tokens, throttle, zerolog.Nop())
	return svc, users, roles, throttle
}

func seedUser(t *testing.T, users *stubUserRepo, tenantID uuid.UUID, username, password string) *domain.User {
	t.Helper()

	hash, salt, err := NewPasswordHasher().HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	user, err := domain.NewUser(tenantID, username, username+"@example.com", hash, salt)
	if err != nil {
		t.Fatalf("NewUser returned error: %v", err)
	}
	if err := users.Insert(context.Background(), user); err != nil {
		t.Fatalf("Insert returned error: %v", err)
	}
	return user
}

func TestLoginSuccess(t *testing.T) {
	svc, users, roles, throttle := newAuthFixture(t)
	tenantID := uuid.New()

	admin, _ := domain.NewRole(tenantID, domain.RoleAdmin, "")
	if err := roles.Insert(context.Background(), admin); err != nil {
		t.Fatalf("Insert role returned error: %v", err)
	}
	user := seedUser(t, users, tenantID, "alice", "correct horse battery")
	user.AddRole(*admin)
	if err := users.Update(context.Background(), user); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	// A prior failure must be cleared by a successful login.
	throttle.failures[throttle.key(tenantID, "alice")] = 2

	result, err := svc.Login(context.Background(), ports.LoginInput{
		TenantID: tenantID,
		Username: "alice",
		Password: "correct horse battery",
	})
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if result.Token == "" {
		t.Fatal("expected a signed token")
	}
	if result.User.Username != "alice" {
		t.Errorf("user = %q, want alice", result.User.Username)
	}
	if len(result.User.Roles) != 1 || result.User.Roles[0].Name != domain.RoleAdmin {
		t.Errorf("roles = %v, want [%s]", result.User.Roles, domain.RoleAdmin)
	}
	if got := throttle.failures[throttle.key(tenantID, "alice")]; got != 0 {
		t.Errorf("failure counter = %d after successful login, want 0", got)
	}
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	svc, users, _, _ := newAuthFixture(t)
	tenantID := uuid.New()
	seedUser(t, users, tenantID, "alice", "correct horse battery")

	_, ghostErr := svc.Login(context.Background(), ports.LoginInput{
		TenantID: tenantID,
		Username: "nobody",
		Password: "whatever",
	})
	_, badPassErr := svc.Login(context.Background(), ports.LoginInput{
		TenantID: tenantID,
		Username: "alice",
		Password: "wrong password",
	})

	if !errors.Is(ghostErr, domain.ErrInvalidCredentials) {
		t.Fatalf("unknown user: got %v, want ErrInvalidCredentials", ghostErr)
	}
	if !errors.Is(badPassErr, domain.ErrInvalidCredentials) {
		t.Fatalf("wrong password: got %v, want ErrInvalidCredentials", badPassErr)
	}
	if ghostErr.Error() != badPassErr.Error() {
		t.Fatalf("error messages differ: %q vs %q", ghostErr, badPassErr)
	}
}

func TestLoginRejectsBlankCredentials(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t)

	for _, in := range []ports.LoginInput{
		{TenantID: uuid.New(), Username: "", Password: "pw"},
		{TenantID: uuid.New(), Username: "alice", Password: ""},
	} {
		if _, err := svc.Login(context.Background(), in); !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Fatalf("got %v, want ErrInvalidCredentials", err)
		}
	}
}

func TestLoginTenantScoped(t *testing.T) {
	svc, users, _, _ := newAuthFixture(t)
	tenantA := uuid.New()
	tenantB := uuid.New()
	seedUser(t, users, tenantA, "alice", "tenant-a-password")

	// Valid credentials presented against the wrong tenant must fail.
	_, err := svc.Login(context.Background(), ports.LoginInput{
		TenantID: tenantB,
		Username: "alice",
		Password: "tenant-a-password",
	})
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("got %v, want ErrInvalidCredentials", err)
	}
}

func TestLoginThrottledAfterRepeatedFailures(t *testing.T) {
	svc, users, _, throttle := newAuthFixture(t)
	tenantID := uuid.New()
	seedUser(t, users, tenantID, "alice", "correct horse battery")

	for i := 0; i < 3; i++ {
		if _, err := svc.Login(context.Background(), ports.LoginInput{
			TenantID: tenantID,
			Username: "alice",
			Password: "wrong password",
		}); !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Fatalf("attempt %d: got %v, want ErrInvalidCredentials", i+1, err)
		}
	}
	if got := throttle.failures[throttle.key(tenantID, "alice")]; got != 3 {
		t.Fatalf("failure counter = %d, want 3", got)
	}

	// Correct credentials are now rejected until the window expires.
	_, err := svc.Login(context.Background(), ports.LoginInput{
		TenantID: tenantID,
		Username: "alice",
		Password: "correct horse battery",
	})
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("throttled login: got %v, want ErrInvalidCredentials", err)
	}
}
