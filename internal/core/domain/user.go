package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// User models an identity scoped to a single tenant. Username and email are
// unique within the tenant; the password is stored only as a PBKDF2 hash plus
// its salt. Role membership is recorded through UserRole entries.
type User struct {
	ID           uuid.UUID  `json:"id"`
	TenantID     uuid.UUID  `json:"tenant_id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Salt         []byte     `json:"-"`
	Roles        []UserRole `json:"-"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// UserRole associates a user with a role inside one tenant.
type UserRole struct {
	UserID   uuid.UUID `json:"user_id"`
	RoleID   uuid.UUID `json:"role_id"`
	TenantID uuid.UUID `json:"tenant_id"`
}

// NewUser builds a user with a fresh id. The password must already be hashed.
func NewUser(tenantID uuid.UUID, username, email, passwordHash string, salt []byte) (*User, error) {
	if strings.TrimSpace(username) == "" || strings.TrimSpace(email) == "" {
		return nil, ErrInvalidInput
	}
	if passwordHash == "" || len(salt) == 0 {
		return nil, ErrInvalidInput
	}

	now := time.Now().UTC()
	return &User{
		ID:           uuid.New(),
		TenantID:     tenantID,
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		Salt:         salt,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// UpdateProfile applies the provided fields. A nil pointer leaves the field
// untouched; a blank value is rejected.
func (u *User) UpdateProfile(username, email *string) error {
	if username != nil {
		if strings.TrimSpace(*username) == "" {
			return ErrInvalidInput
		}
		u.Username = *username
	}
	if email != nil {
		if strings.TrimSpace(*email) == "" {
			return ErrInvalidInput
		}
		u.Email = *email
	}
	u.UpdatedAt = time.Now().UTC()
	return nil
}

// SetPassword replaces the stored hash and salt.
func (u *User) SetPassword(passwordHash string, salt []byte) error {
	if passwordHash == "" || len(salt) == 0 {
		return ErrInvalidInput
	}
	u.PasswordHash = passwordHash
	u.Salt = salt
	u.UpdatedAt = time.Now().UTC()
	return nil
}

// AddRole attaches a role to the user. Adding a role twice is a no-op.
func (u *User) AddRole(role Role) {
	for _, ur := range u.Roles {
		if ur.RoleID == role.ID {
			return
		}
	}
	u.Roles = append(u.Roles, UserRole{UserID: u.ID, RoleID: role.ID, TenantID: u.TenantID})
}

// RemoveRole detaches the role with the given id, if present.
func (u *User) RemoveRole(roleID uuid.UUID) {
	for i, ur := range u.Roles {
		if ur.RoleID == roleID {
			u.Roles = append(u.Roles[:i], u.Roles[i+1:]...)
			return
		}
	}
}

// HasRole reports whether the user holds a role with the given name,
// resolving role ids against the provided roles.
func (u *User) HasRole(name string, roles []Role) bool {
	ids := make(map[uuid.UUID]struct{}, len(u.Roles))
	for _, ur := range u.Roles {
		ids[ur.RoleID] = struct{}{}
	}
	for _, r := range roles {
		if _, ok := ids[r.ID]; ok && strings.EqualFold(r.Name, name) {
			return true
		}
	}
	return false
}

// RoleIDs returns the ids of all roles attached to the user.
func (u *User) RoleIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(u.Roles))
	for _, ur := range u.Roles {
		ids = append(ids, ur.RoleID)
	}
	return ids
}
