package service

import (
	"context"
	"errors"
	"testing"

	"github.com/ChhatbarPooja/crm-api/internal/core/domain"
	"github.com/ChhatbarPooja/crm-api/internal/core/ports"
)

func newUserFixture() (*UserService, *stubUserRepo) {
	repo := newStubUserRepo(
		&domain.User{ID: "admin1", Name: "Ada", Email: "ada@crm.test", Role: domain.RoleAdmin},
		&domain.User{ID: "rep1", Name: "Rita", Email: "rita@crm.test", Role: domain.RoleSales},
		&domain.User{ID: "rep2", Name: "Remy", Email: "remy@crm.test", Role: domain.RoleSales},
		&domain.User{ID: "viewer1", Name: "Vic", Email: "vic@crm.test", Role: domain.RoleOther},
	)
	return NewUserService(repo, discardLogger), repo
}

func TestUserService_ListUsers_StripsPreferences(t *testing.T) {
	svc, repo := newUserFixture()
	repo.users["rep1"].NotificationPreferences = map[string]bool{domain.PrefLeadAssigned: false}

	users, err := svc.ListUsers(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(users) != 4 {
		t.Fatalf("expected 4 users, got %d", len(users))
	}
	for _, u := range users {
		if u.NotificationPreferences != nil {
			t.Errorf("user %s should not expose preferences in the listing", u.ID)
		}
	}
}

func TestUserService_ListSalesReps_Projection(t *testing.T) {
	svc, _ := newUserFixture()

	reps, err := svc.ListSalesReps(context.Background(), domain.Actor{ID: "viewer1", Role: domain.RoleOther})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(reps) != 2 {
		t.Fatalf("expected 2 sales reps, got %d", len(reps))
	}
	for _, rep := range reps {
		if rep.ID == "" || rep.Name == "" || rep.Email == "" {
			t.Errorf("projection incomplete: %+v", rep)
		}
	}
}

func TestUserService_GetUser(t *testing.T) {
	svc, _ := newUserFixture()

	// Self read is allowed.
	u, err := svc.GetUser(context.Background(), actorRep, "rep1")
	if err != nil {
		t.Fatalf("self read failed: %v", err)
	}
	if u.ID != "rep1" {
		t.Errorf("got user %s", u.ID)
	}

	// Reading someone else requires admin.
	if _, err := svc.GetUser(context.Background(), actorRep, "rep2"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := svc.GetUser(context.Background(), actorAdmin, "rep2"); err != nil {
		t.Fatalf("admin read failed: %v", err)
	}
}

func TestUserService_UpdateUser_SelfProfile(t *testing.T) {
	svc, repo := newUserFixture()

	name := "Rita Q."
	u, err := svc.UpdateUser(context.Background(), actorRep, "rep1", ports.UpdateUserInput{Name: &name})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.Name != "Rita Q." {
		t.Errorf("name = %q", u.Name)
	}
	if repo.users["rep1"].Name != "Rita Q." {
		t.Error("update not persisted")
	}
}

func TestUserService_UpdateUser_OtherProfileForbidden(t *testing.T) {
	svc, repo := newUserFixture()

	name := "hijacked"
	_, err := svc.UpdateUser(context.Background(), actorRep, "rep2", ports.UpdateUserInput{Name: &name})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if repo.users["rep2"].Name != "Remy" {
		t.Error("denied update must not mutate")
	}
}

func TestUserService_UpdateUser_RoleChangeAdminOnly(t *testing.T) {
	svc, repo := newUserFixture()

	role := domain.RoleAdmin
	_, err := svc.UpdateUser(context.Background(), actorRep, "rep1", ports.UpdateUserInput{Role: &role})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("self role escalation: expected ErrForbidden, got %v", err)
	}
	if repo.users["rep1"].Role != domain.RoleSales {
		t.Error("denied role change must not mutate")
	}

	u, err := svc.UpdateUser(context.Background(), actorAdmin, "rep1", ports.UpdateUserInput{Role: &role})
	if err != nil {
		t.Fatalf("admin role change failed: %v", err)
	}
	if u.Role != domain.RoleAdmin {
		t.Errorf("role = %q", u.Role)
	}
}

func TestUserService_UpdateUser_InvalidRole(t *testing.T) {
	svc, _ := newUserFixture()

	role := "superuser"
	_, err := svc.UpdateUser(context.Background(), actorAdmin, "rep1", ports.UpdateUserInput{Role: &role})
	if !errors.Is(err, domain.ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
}

func TestUserService_DeleteUser(t *testing.T) {
	svc, repo := newUserFixture()

	if err := svc.DeleteUser(context.Background(), actorAdmin, "rep2"); err != nil {
		t.Fatalf("admin delete failed: %v", err)
	}
	if _, ok := repo.users["rep2"]; ok {
		t.Error("user should be gone")
	}
}

func TestUserService_DeleteUser_SelfDeleteRejected(t *testing.T) {
	svc, repo := newUserFixture()

	err := svc.DeleteUser(context.Background(), actorAdmin, "admin1")
	if !errors.Is(err, domain.ErrSelfDelete) {
		t.Fatalf("expected ErrSelfDelete, got %v", err)
	}
	if _, ok := repo.users["admin1"]; !ok {
		t.Error("self delete must not remove the account")
	}
}

func TestUserService_DeleteUser_NonAdminForbidden(t *testing.T) {
	svc, _ := newUserFixture()

	if err := svc.DeleteUser(context.Background(), actorRep, "rep2"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestUserService_DeleteUser_Missing(t *testing.T) {
	svc, _ := newUserFixture()

	if err := svc.DeleteUser(context.Background(), actorAdmin, "ghost"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserService_UpdatePreferences_MergesKeys(t *testing.T) {
	svc, repo := newUserFixture()
	repo.users["rep1"].NotificationPreferences = map[string]bool{domain.PrefStatusChanged: false}

	off := false
	merged, err := svc.UpdatePreferences(context.Background(), actorRep, "rep1", ports.UpdatePreferencesInput{
		LeadAssigned: &off,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if merged[domain.PrefLeadAssigned] != false {
		t.Error("submitted key not applied")
	}
	if v, ok := merged[domain.PrefStatusChanged]; !ok || v != false {
		t.Error("untouched keys must survive the merge")
	}
}

func TestUserService_UpdatePreferences_SelfOnly(t *testing.T) {
	svc, _ := newUserFixture()

	on := true
	_, err := svc.UpdatePreferences(context.Background(), actorRep, "rep2", ports.UpdatePreferencesInput{
		LeadAssigned: &on,
	})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	// Admins manage accounts, not other people's preferences.
	_, err = svc.UpdatePreferences(context.Background(), actorAdmin, "rep2", ports.UpdatePreferencesInput{
		LeadAssigned: &on,
	})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for admin, got %v", err)
	}
}
