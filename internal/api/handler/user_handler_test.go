package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/ChhatbarPooja/crm-api/internal/core/domain"
	"github.com/ChhatbarPooja/crm-api/internal/core/ports"
)

type stubUserService struct {
	listFn        func(ctx context.Context) ([]*domain.User, error)
	listSalesFn   func(ctx context.Context, actor domain.Actor) ([]ports.SalesRep, error)
	getFn         func(ctx context.Context, actor domain.Actor, id string) (*domain.User, error)
	updateFn      func(ctx context.Context, actor domain.Actor, id string, input ports.UpdateUserInput) (*domain.User, error)
	deleteFn      func(ctx context.Context, actor domain.Actor, id string) error
	updatePrefsFn func(ctx context.Context, actor domain.Actor, id string, input ports.UpdatePreferencesInput) (map[string]bool, error)
}

func (s *stubUserService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.listFn(ctx)
}

func (s *stubUserService) ListSalesReps(ctx context.Context, actor domain.Actor) ([]ports.SalesRep, error) {
	return s.listSalesFn(ctx, actor)
}

func (s *stubUserService) GetUser(ctx context.Context, actor domain.Actor, id string) (*domain.User, error) {
	return s.getFn(ctx, actor, id)
}

func (s *stubUserService) UpdateUser(ctx context.Context, actor domain.Actor, id string, input ports.UpdateUserInput) (*domain.User, error) {
	return s.updateFn(ctx, actor, id, input)
}

func (s *stubUserService) DeleteUser(ctx context.Context, actor domain.Actor, id string) error {
	return s.deleteFn(ctx, actor, id)
}

func (s *stubUserService) UpdatePreferences(ctx context.Context, actor domain.Actor, id string, input ports.UpdatePreferencesInput) (map[string]bool, error) {
	return s.updatePrefsFn(ctx, actor, id, input)
}

func TestUserHandler_UpdatePreferences_Success(t *testing.T) {
	stub := &stubUserService{
		updatePrefsFn: func(ctx context.Context, actor domain.Actor, id string, input ports.UpdatePreferencesInput) (map[string]bool, error) {
			if id != "rep1" || input.LeadAssigned == nil || *input.LeadAssigned {
				t.Fatalf("unexpected input: id=%s %+v", id, input)
			}
			return map[string]bool{domain.PrefLeadAssigned: false}, nil
		},
	}
	handler := NewUserHandler(stub)

	c, rec := newContext(t, http.MethodPut, "/api/v1/users/rep1/notification-preferences", `{"lead_assigned":false}`, salesClaims)
	c.SetParamNames("id")
	c.SetParamValues("rep1")

	if err := handler.UpdatePreferences(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	resp := decodeEnvelope(t, rec)
	data := resp["data"].(map[string]any)
	if data["lead_assigned"] != false {
		t.Errorf("unexpected data: %v", data)
	}
}

func TestUserHandler_UpdatePreferences_RejectsUnknownKeys(t *testing.T) {
	handler := NewUserHandler(&stubUserService{
		updatePrefsFn: func(ctx context.Context, actor domain.Actor, id string, input ports.UpdatePreferencesInput) (map[string]bool, error) {
			t.Fatal("service must not be reached when the body has unknown keys")
			return nil, nil
		},
	})

	// A misspelled key must fail loudly, not bind to nothing and return 200.
	body := `{"bogus_key": true, "leadAssigned": true}`
	c, _ := newContext(t, http.MethodPut, "/api/v1/users/rep1/notification-preferences", body, salesClaims)
	c.SetParamNames("id")
	c.SetParamValues("rep1")

	err := handler.UpdatePreferences(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestUserHandler_Update_RejectsUnknownKeys(t *testing.T) {
	handler := NewUserHandler(&stubUserService{
		updateFn: func(ctx context.Context, actor domain.Actor, id string, input ports.UpdateUserInput) (*domain.User, error) {
			t.Fatal("service must not be reached when the body has unknown keys")
			return nil, nil
		},
	})

	c, _ := newContext(t, http.MethodPut, "/api/v1/users/rep1", `{"name":"Rita","password":"sneaky"}`, salesClaims)
	c.SetParamNames("id")
	c.SetParamValues("rep1")

	err := handler.Update(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestUserHandler_Delete(t *testing.T) {
	stub := &stubUserService{
		deleteFn: func(ctx context.Context, actor domain.Actor, id string) error {
			if id != "rep2" {
				t.Fatalf("unexpected id %q", id)
			}
			return nil
		},
	}
	handler := NewUserHandler(stub)

	c, rec := newContext(t, http.MethodDelete, "/api/v1/users/rep2", "", map[string]string{"user_id": "admin1", "name": "Ada", "role": "admin"})
	c.SetParamNames("id")
	c.SetParamValues("rep2")

	if err := handler.Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
