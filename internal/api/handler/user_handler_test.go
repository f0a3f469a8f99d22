package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/tenantkit/identity-service/internal/core/domain"
	"github.com/tenantkit/identity-service/internal/core/ports"
)

type stubUserService struct {
	registerFn   func(ctx context.Context, in ports.RegisterUserInput) (*ports.UserResult, error)
	updateFn     func(ctx context.Context, in ports.UpdateUserInput) (*ports.UserResult, error)
	deleteFn     func(ctx context.Context, tenantID, userID uuid.UUID) error
	getFn        func(ctx context.Context, tenantID, userID uuid.UUID) (*ports.UserResult, error)
	listFn       func(ctx context.Context, tenantID uuid.UUID) ([]ports.UserResult, error)
	assignRoleFn func(ctx context.Context, tenantID, userID, roleID uuid.UUID) (*ports.UserResult, error)
	removeRoleFn func(ctx context.Context, tenantID, userID, roleID uuid.UUID) (*ports.UserResult, error)
}

func (s *stubUserService) Register(ctx context.Context, in ports.RegisterUserInput) (*ports.UserResult, error) {
	return s.registerFn(ctx, in)
}

func (s *stubUserService) Update(ctx context.Context, in ports.UpdateUserInput) (*ports.UserResult, error) {
	return s.updateFn(ctx, in)
}

func (s *stubUserService) Delete(ctx context.Context, tenantID, userID uuid.UUID) error {
	return s.deleteFn(ctx, tenantID, userID)
}

func (s *stubUserService) Get(ctx context.Context, tenantID, userID uuid.UUID) (*ports.UserResult, error) {
	return s.getFn(ctx, tenantID, userID)
}

func (s *stubUserService) List(ctx context.Context, tenantID uuid.UUID) ([]ports.UserResult, error) {
	return s.listFn(ctx, tenantID)
}

func (s *stubUserService) AssignRole(ctx context.Context, tenantID, userID, roleID uuid.UUID) (*ports.UserResult, error) {
	return s.assignRoleFn(ctx, tenantID, userID, roleID)
}

func (s *stubUserService) RemoveRole(ctx context.Context, tenantID, userID, roleID uuid.UUID) (*ports.UserResult, error) {
	return s.removeRoleFn(ctx, tenantID, userID, roleID)
}

func TestRegisterHandlerSuccess(t *testing.T) {
	tenantID := uuid.New()
	userID := uuid.New()
	roleID := uuid.New()

	h := NewUserHandler(&stubUserService{
		registerFn: func(_ context.Context, in ports.RegisterUserInput) (*ports.UserResult, error) {
			if in.TenantID != tenantID {
				t.Errorf("tenant = %s, want %s", in.TenantID, tenantID)
			}
			if len(in.RoleIDs) != 1 || in.RoleIDs[0] != roleID {
				t.Errorf("role ids = %v, want [%s]", in.RoleIDs, roleID)
			}
			return &ports.UserResult{
				ID:       userID,
				TenantID: in.TenantID,
				Username: in.Username,
				Email:    in.Email,
			}, nil
		},
	})

	body := `{"username":"alice","email":"alice@example.com","password":"long enough","role_ids":["` + roleID.String() + `"]}`
	c, rec := newTestContext(t, http.MethodPost, "/api/users", body, tenantID)
	if err := h.Register(c); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}

	var resp userResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response did not decode: %v", err)
	}
	if resp.ID != userID.String() || resp.Username != "alice" {
		t.Errorf("response = %+v", resp)
	}
}

func TestRegisterHandlerValidation(t *testing.T) {
	h := NewUserHandler(&stubUserService{
		registerFn: func(context.Context, ports.RegisterUserInput) (*ports.UserResult, error) {
			t.Fatal("service must not be called for invalid payloads")
			return nil, nil
		},
	})

	cases := []struct {
		name string
		body string
		code int
	}{
		{"missing username", `{"email":"a@b.c","password":"long enough"}`, http.StatusUnprocessableEntity},
		{"bad email", `{"username":"alice","email":"nope","password":"long enough"}`, http.StatusUnprocessableEntity},
		{"short password", `{"username":"alice","email":"a@b.c","password":"short"}`, http.StatusUnprocessableEntity},
		{"bad role id", `{"username":"alice","email":"a@b.c","password":"long enough","role_ids":["nope"]}`, http.StatusUnprocessableEntity},
		{"broken json", `{broken`, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := newTestContext(t, http.MethodPost, "/api/users", tc.body, uuid.New())
			err := h.Register(c)
			httpErr, ok := err.(*echo.HTTPError)
			if !ok {
				t.Fatalf("expected *echo.HTTPError, got %v", err)
			}
			if httpErr.Code != tc.code {
				t.Fatalf("status = %d, want %d", httpErr.Code, tc.code)
			}
		})
	}
}

func TestRegisterHandlerConflict(t *testing.T) {
	h := NewUserHandler(&stubUserService{
		registerFn: func(context.Context, ports.RegisterUserInput) (*ports.UserResult, error) {
			return nil, domain.ErrUsernameTaken
		},
	})

	c, _ := newTestContext(t, http.MethodPost, "/api/users",
		`{"username":"alice","email":"a@b.c","password":"long enough"}`, uuid.New())
	if err := h.Register(c); !errors.Is(err, domain.ErrUsernameTaken) {
		t.Fatalf("got %v, want ErrUsernameTaken", err)
	}
}

func TestUpdateHandlerPartialFields(t *testing.T) {
	tenantID := uuid.New()
	userID := uuid.New()

	h := NewUserHandler(&stubUserService{
		updateFn: func(_ context.Context, in ports.UpdateUserInput) (*ports.UserResult, error) {
			if in.Username == nil || *in.Username != "renamed" {
				t.Errorf("username = %v, want renamed", in.Username)
			}
			if in.Email != nil {
				t.Errorf("email = %v, want nil", in.Email)
			}
			if in.Password != nil {
				t.Errorf("password = %v, want nil", in.Password)
			}
			return &ports.UserResult{ID: in.UserID, TenantID: in.TenantID, Username: "renamed"}, nil
		},
	})

	c, rec := newTestContext(t, http.MethodPut, "/api/users/"+userID.String(),
		`{"username":"renamed"}`, tenantID)
	c.SetParamNames("id")
	c.SetParamValues(userID.String())
	if err := h.Update(c); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestUpdateHandlerRejectsMalformedID(t *testing.T) {
	h := NewUserHandler(&stubUserService{})

	c, _ := newTestContext(t, http.MethodPut, "/api/users/not-a-uuid", `{"username":"x"}`, uuid.New())
	c.SetParamNames("id")
	c.SetParamValues("not-a-uuid")
	err := h.Update(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected *echo.HTTPError, got %v", err)
	}
	if httpErr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", httpErr.Code)
	}
}

func TestDeleteHandler(t *testing.T) {
	tenantID := uuid.New()
	userID := uuid.New()

	h := NewUserHandler(&stubUserService{
		deleteFn: func(_ context.Context, gotTenant, gotUser uuid.UUID) error {
			if gotTenant != tenantID || gotUser != userID {
				t.Errorf("delete(%s, %s), want (%s, %s)", gotTenant, gotUser, tenantID, userID)
			}
			return nil
		},
	})

	c, rec := newTestContext(t, http.MethodDelete, "/api/users/"+userID.String(), "", tenantID)
	c.SetParamNames("id")
	c.SetParamValues(userID.String())
	if err := h.Delete(c); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
}

func TestGetHandlerNotFound(t *testing.T) {
	h := NewUserHandler(&stubUserService{
		getFn: func(context.Context, uuid.UUID, uuid.UUID) (*ports.UserResult, error) {
			return nil, domain.ErrUserNotFound
		},
	})

	userID := uuid.New()
	c, _ := newTestContext(t, http.MethodGet, "/api/users/"+userID.String(), "", uuid.New())
	c.SetParamNames("id")
	c.SetParamValues(userID.String())
	if err := h.Get(c); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("got %v, want ErrUserNotFound", err)
	}
}

func TestAssignRoleHandler(t *testing.T) {
	tenantID := uuid.New()
	userID := uuid.New()
	roleID := uuid.New()

	h := NewUserHandler(&stubUserService{
		assignRoleFn: func(_ context.Context, gotTenant, gotUser, gotRole uuid.UUID) (*ports.UserResult, error) {
			if gotTenant != tenantID || gotUser != userID || gotRole != roleID {
				t.Errorf("assign(%s, %s, %s)", gotTenant, gotUser, gotRole)
			}
			return &ports.UserResult{
				ID:       userID,
				TenantID: tenantID,
				Roles:    []ports.RoleResult{{ID: roleID, Name: domain.RoleUser}},
			}, nil
		},
	})

	c, rec := newTestContext(t, http.MethodPost, "/api/users/"+userID.String()+"/roles",
		`{"role_id":"`+roleID.String()+`"}`, tenantID)
	c.SetParamNames("id")
	c.SetParamValues(userID.String())
	if err := h.AssignRole(c); err != nil {
		t.Fatalf("AssignRole returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp userResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response did not decode: %v", err)
	}
	if len(resp.Roles) != 1 || resp.Roles[0].Name != domain.RoleUser {
		t.Errorf("roles = %v", resp.Roles)
	}
}

func TestListHandler(t *testing.T) {
	tenantID := uuid.New()

	h := NewUserHandler(&stubUserService{
		listFn: func(_ context.Context, gotTenant uuid.UUID) ([]ports.UserResult, error) {
			if gotTenant != tenantID {
				t.Errorf("tenant = %s, want %s", gotTenant, tenantID)
			}
			return []ports.UserResult{
				{ID: uuid.New(), TenantID: tenantID, Username: "alice"},
				{ID: uuid.New(), TenantID: tenantID, Username: "bob"},
			}, nil
		},
	})

	c, rec := newTestContext(t, http.MethodGet, "/api/users", "", tenantID)
	if err := h.List(c); err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp []userResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response did not decode: %v", err)
	}
	if len(resp) != 2 {
		t.Fatalf("listed %d users, want 2", len(resp))
	}
}
