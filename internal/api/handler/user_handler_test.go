package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/fleetops/fleet-console/internal/core/domain"
	"github.com/fleetops/fleet-console/internal/core/ports"
)

type stubUserService struct {
	listFn   func(ctx context.Context) ([]domain.User, error)
	createFn func(ctx context.Context, input ports.CreateUserInput) (*domain.User, error)
	updateFn func(ctx context.Context, id int64, input ports.UpdateUserInput) error
	deleteFn func(ctx context.Context, id int64) error
}

func (s *stubUserService) List(ctx context.Context) ([]domain.User, error) {
	return s.listFn(ctx)
}

func (s *stubUserService) Create(ctx context.Context, input ports.CreateUserInput) (*domain.User, error) {
	return s.createFn(ctx, input)
}

func (s *stubUserService) Update(ctx context.Context, id int64, input ports.UpdateUserInput) error {
	return s.updateFn(ctx, id, input)
}

func (s *stubUserService) Delete(ctx context.Context, id int64) error {
	return s.deleteFn(ctx, id)
}

// memoryGuard remembers claimed keys in-process.
type memoryGuard struct {
	seen map[string]bool
}

func (g *memoryGuard) Claim(_ context.Context, key string) (bool, error) {
	if g.seen == nil {
		g.seen = make(map[string]bool)
	}
	if g.seen[key] {
		return false, nil
	}
	g.seen[key] = true
	return true, nil
}

func TestUserHandler_List_Success(t *testing.T) {
	stub := &stubUserService{
		listFn: func(ctx context.Context) ([]domain.User, error) {
			return []domain.User{
				{ID: 1, Name: "Ana", Email: "ana@x.com", Role: domain.RoleDriver, Status: domain.StatusActive, CreatedAt: time.Now()},
				{ID: 2, Name: "Ben", Email: "ben@x.com", Role: domain.RoleAdmin, Status: domain.StatusInactive, CreatedAt: time.Now()},
			}, nil
		},
	}
	h := NewUserHandler(stub, nil, zerolog.Nop())

	c, rec := newContext(t, http.MethodGet, "/api/users", "")
	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("expected a bare array, got %s", rec.Body.String())
	}
	if len(resp) != 2 || resp[0]["email"] != "ana@x.com" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
	if strings.Contains(rec.Body.String(), "password") {
		t.Fatalf("list response must not mention passwords: %s", rec.Body.String())
	}
}

func TestUserHandler_List_EmptyIsArray(t *testing.T) {
	stub := &stubUserService{
		listFn: func(ctx context.Context) ([]domain.User, error) {
			return []domain.User{}, nil
		},
	}
	h := NewUserHandler(stub, nil, zerolog.Nop())

	c, rec := newContext(t, http.MethodGet, "/api/users", "")
	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Fatalf("empty directory must serialize as [], got %s", rec.Body.String())
	}
}

func TestUserHandler_Create_Success(t *testing.T) {
	stub := &stubUserService{
		createFn: func(ctx context.Context, input ports.CreateUserInput) (*domain.User, error) {
			if input.Name != "Ana" || input.Role != "driver" {
				t.Fatalf("unexpected input: %+v", input)
			}
			return &domain.User{ID: 5, Name: input.Name, Email: input.Email, Role: domain.Role(input.Role), Status: domain.StatusActive, CreatedAt: time.Now()}, nil
		},
	}
	h := NewUserHandler(stub, nil, zerolog.Nop())

	body := `{"name":"Ana","email":"ana@x.com","password":"p1","role":"driver","status":"active"}`
	c, rec := newContext(t, http.MethodPost, "/api/users", body)
	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["success"] != true || resp["message"] != "User added successfully!" {
		t.Fatalf("unexpected envelope: %+v", resp)
	}
	user, ok := resp["user"].(map[string]any)
	if !ok || user["id"] != float64(5) {
		t.Fatalf("expected created user with id, got %+v", resp["user"])
	}
	if strings.Contains(rec.Body.String(), "password") {
		t.Fatalf("create response must not mention passwords: %s", rec.Body.String())
	}
}

func TestUserHandler_Create_MissingFields(t *testing.T) {
	stub := &stubUserService{
		createFn: func(ctx context.Context, input ports.CreateUserInput) (*domain.User, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	h := NewUserHandler(stub, nil, zerolog.Nop())

	c, _ := newContext(t, http.MethodPost, "/api/users", `{"name":"Ana"}`)
	err := h.Create(c)

	var he *echo.HTTPError
	if !asHTTPError(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}

func TestUserHandler_Create_DuplicateEmail(t *testing.T) {
	stub := &stubUserService{
		createFn: func(ctx context.Context, input ports.CreateUserInput) (*domain.User, error) {
			return nil, domain.ErrDuplicateEmail
		},
	}
	h := NewUserHandler(stub, nil, zerolog.Nop())

	body := `{"name":"Ana","email":"ana@x.com","password":"p1","role":"driver"}`
	c, _ := newContext(t, http.MethodPost, "/api/users", body)
	if err := h.Create(c); err != domain.ErrDuplicateEmail {
		t.Fatalf("expected ErrDuplicateEmail to propagate, got %v", err)
	}
}

func TestUserHandler_Create_DoubleSubmit(t *testing.T) {
	calls := 0
	stub := &stubUserService{
		createFn: func(ctx context.Context, input ports.CreateUserInput) (*domain.User, error) {
			calls++
			return &domain.User{ID: 1, Name: input.Name, Email: input.Email, Role: domain.Role(input.Role), Status: domain.StatusActive}, nil
		},
	}
	h := NewUserHandler(stub, &memoryGuard{}, zerolog.Nop())

	body := `{"name":"Ana","email":"ana@x.com","password":"p1","role":"driver"}`

	first, rec := newContext(t, http.MethodPost, "/api/users", body)
	first.Request().Header.Set(idempotencyKeyHeader, "form-1")
	if err := h.Create(first); err != nil {
		t.Fatalf("first submission failed: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	replay, _ := newContext(t, http.MethodPost, "/api/users", body)
	replay.Request().Header.Set(idempotencyKeyHeader, "form-1")
	if err := h.Create(replay); err != domain.ErrDuplicateSubmission {
		t.Fatalf("expected ErrDuplicateSubmission, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("replay must not reach the service, got %d calls", calls)
	}
}

func TestUserHandler_Update_Success(t *testing.T) {
	stub := &stubUserService{
		updateFn: func(ctx context.Context, id int64, input ports.UpdateUserInput) error {
			if id != 9 || input.Password != "" {
				t.Fatalf("unexpected args: id=%d input=%+v", id, input)
			}
			return nil
		},
	}
	h := NewUserHandler(stub, nil, zerolog.Nop())

	body := `{"name":"Ana","email":"ana@x.com","role":"health","status":"inactive"}`
	c, rec := newContext(t, http.MethodPut, "/api/users/9", body)
	c.SetParamNames("id")
	c.SetParamValues("9")
	if err := h.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["success"] != true || resp["message"] != "User updated successfully!" {
		t.Fatalf("unexpected envelope: %+v", resp)
	}
}

func TestUserHandler_Update_BadID(t *testing.T) {
	stub := &stubUserService{
		updateFn: func(ctx context.Context, id int64, input ports.UpdateUserInput) error {
			t.Fatalf("should not be called")
			return nil
		},
	}
	h := NewUserHandler(stub, nil, zerolog.Nop())

	c, _ := newContext(t, http.MethodPut, "/api/users/not-a-number", `{"name":"A","email":"a@x.com","role":"admin","status":"active"}`)
	c.SetParamNames("id")
	c.SetParamValues("not-a-number")
	if err := h.Update(c); err != domain.ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound for bad id, got %v", err)
	}
}

func TestUserHandler_Delete_Success(t *testing.T) {
	stub := &stubUserService{
		deleteFn: func(ctx context.Context, id int64) error {
			if id != 3 {
				t.Fatalf("unexpected id: %d", id)
			}
			return nil
		},
	}
	h := NewUserHandler(stub, nil, zerolog.Nop())

	c, rec := newContext(t, http.MethodDelete, "/api/users/3", "")
	c.SetParamNames("id")
	c.SetParamValues("3")
	if err := h.Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestUserHandler_Delete_Conflict(t *testing.T) {
	stub := &stubUserService{
		deleteFn: func(ctx context.Context, id int64) error {
			return domain.ErrReferentialConflict
		},
	}
	h := NewUserHandler(stub, nil, zerolog.Nop())

	c, _ := newContext(t, http.MethodDelete, "/api/users/3", "")
	c.SetParamNames("id")
	c.SetParamValues("3")
	if err := h.Delete(c); err != domain.ErrReferentialConflict {
		t.Fatalf("expected ErrReferentialConflict to propagate, got %v", err)
	}
}
