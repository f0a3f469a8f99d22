package handler

import (
	"time"

	"github.com/tenantkit/identity-service/internal/core/ports"
)

// --- Shared response types ---

type roleResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type userResponse struct {
	ID        string         `json:"id"`
	TenantID  string         `json:"tenant_id"`
	Username  string         `json:"username"`
	Email     string         `json:"email"`
	Roles     []roleResponse `json:"roles"`
	CreatedAt time.Time      `json:"created_at"`
}

func toRoleResponse(r ports.RoleResult) roleResponse {
	return roleResponse{ID: r.ID.String(), Name: r.Name, Description: r.Description}
}

func toUserResponse(u ports.UserResult) userResponse {
	roles := make([]roleResponse, 0, len(u.Roles))
	for _, r := range u.Roles {
		roles = append(roles, toRoleResponse(r))
	}
	return userResponse{
		ID:        u.ID.String(),
		TenantID:  u.TenantID.String(),
		Username:  u.Username,
		Email:     u.Email,
		Roles:     roles,
		CreatedAt: u.CreatedAt,
	}
}
