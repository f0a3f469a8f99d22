package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/tenantkit/identity-service/internal/core/domain"
)

// In-memory repository stubs mirroring the tenant scoping and uniqueness
// behavior of the real store.

type stubUserRepo struct {
	users []*domain.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	clone.Roles = append([]domain.UserRole(nil), u.Roles...)
	clone.Salt = append([]byte(nil), u.Salt...)
	return &clone
}

func (r *stubUserRepo) Insert(_ context.Context, user *domain.User) error {
	for _, u := range r.users {
		if u.TenantID != user.TenantID {
			continue
		}
		if u.Username == user.Username {
			return domain.ErrUsernameTaken
		}
		if u.Email == user.Email {
			return domain.ErrEmailTaken
		}
	}
	r.users = append(r.users, cloneUser(user))
	return nil
}

func (r *stubUserRepo) Update(_ context.Context, user *domain.User) error {
	for i, u := range r.users {
		if u.ID == user.ID && u.TenantID == user.TenantID {
			r.users[i] = cloneUser(user)
			return nil
		}
	}
	return domain.ErrUserNotFound
}

func (r *stubUserRepo) Delete(_ context.Context, tenantID, userID uuid.UUID) error {
	for i, u := range r.users {
		if u.ID == userID && u.TenantID == tenantID {
			r.users = append(r.users[:i], r.users[i+1:]...)
			return nil
		}
	}
	return domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, tenantID, userID uuid.UUID) (*domain.User, error) {
	for _, u := range r.users {
		if u.ID == userID && u.TenantID == tenantID {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByUsername(_ context.Context, tenantID uuid.UUID, username string) (*domain.User, error) {
	for _, u := range r.users {
		if u.TenantID == tenantID && u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) List(_ context.Context, tenantID uuid.UUID) ([]domain.User, error) {
	var out []domain.User
	for _, u := range r.users {
		if u.TenantID == tenantID {
			out = append(out, *cloneUser(u))
		}
	}
	return out, nil
}

func (r *stubUserRepo) UsernameExists(_ context.Context, tenantID uuid.UUID, username string, excludeID uuid.UUID) (bool, error) {
	for _, u := range r.users {
		if u.TenantID == tenantID && u.Username == username && u.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubUserRepo) EmailExists(_ context.Context, tenantID uuid.UUID, email string, excludeID uuid.UUID) (bool, error) {
	for _, u := range r.users {
		if u.TenantID == tenantID && u.Email == email && u.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubUserRepo) DetachRole(_ context.Context, tenantID, roleID uuid.UUID) error {
	for _, u := range r.users {
		if u.TenantID == tenantID {
			u.RemoveRole(roleID)
		}
	}
	return nil
}

type stubRoleRepo struct {
	roles []*domain.Role
}

func newStubRoleRepo() *stubRoleRepo {
	return &stubRoleRepo{}
}

func (r *stubRoleRepo) Insert(_ context.Context, role *domain.Role) error {
	for _, existing := range r.roles {
		if existing.TenantID == role.TenantID && existing.Name == role.Name {
			return domain.ErrRoleNameTaken
		}
	}
	clone := *role
	r.roles = append(r.roles, &clone)
	return nil
}

func (r *stubRoleRepo) Update(_ context.Context, role *domain.Role) error {
	for i, existing := range r.roles {
		if existing.ID == role.ID && existing.TenantID == role.TenantID {
			clone := *role
			r.roles[i] = &clone
			return nil
		}
	}
	return domain.ErrRoleNotFound
}

func (r *stubRoleRepo) Delete(_ context.Context, tenantID, roleID uuid.UUID) error {
	for i, existing := range r.roles {
		if existing.ID == roleID && existing.TenantID == tenantID {
			r.roles = append(r.roles[:i], r.roles[i+1:]...)
			return nil
		}
	}
	return domain.ErrRoleNotFound
}

func (r *stubRoleRepo) FindByID(_ context.Context, tenantID, roleID uuid.UUID) (*domain.Role, error) {
	for _, existing := range r.roles {
		if existing.ID == roleID && existing.TenantID == tenantID {
			clone := *existing
			return &clone, nil
		}
	}
	return nil, domain.ErrRoleNotFound
}

func (r *stubRoleRepo) FindByIDs(_ context.Context, tenantID uuid.UUID, roleIDs []uuid.UUID) ([]domain.Role, error) {
	wanted := make(map[uuid.UUID]struct{}, len(roleIDs))
	for _, id := range roleIDs {
		wanted[id] = struct{}{}
	}
	var out []domain.Role
	for _, existing := range r.roles {
		if existing.TenantID != tenantID {
			continue
		}
		if _, ok := wanted[existing.ID]; ok {
			out = append(out, *existing)
		}
	}
	return out, nil
}

func (r *stubRoleRepo) List(_ context.Context, tenantID uuid.UUID) ([]domain.Role, error) {
	var out []domain.Role
	for _, existing := range r.roles {
		if existing.TenantID == tenantID {
			out = append(out, *existing)
		}
	}
	return out, nil
}

type stubThrottle struct {
	failures map[string]int
	limit    int
}

func newStubThrottle(limit int) *stubThrottle {
	return &stubThrottle{failures: make(map[string]int), limit: limit}
}

func (t *stubThrottle) key(tenantID uuid.UUID, username string) string {
	return tenantID.String() + ":" + username
}

func (t *stubThrottle) Allowed(_ context.Context, tenantID uuid.UUID, username string) (bool, error) {
	return t.failures[t.key(tenantID, username)] < t.limit, nil
}

func (t *stubThrottle) RecordFailure(_ context.Context, tenantID uuid.UUID, username string) error {
	t.failures[t.key(tenantID, username)]++
	return nil
}

func (t *stubThrottle) Reset(_ context.Context, tenantID uuid.UUID, username string) error {
	delete(t.failures, t.key(tenantID, username))
	return nil
}

type stubDispatcher struct {
	events []domain.UserCreated
}

func (d *stubDispatcher) Enqueue(event domain.UserCreated) {
	d.events = append(d.events, event)
}
