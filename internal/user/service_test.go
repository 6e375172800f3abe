// AngelaMos | 2026
// service_test.go

package user

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/partnerdesk/agreements-api/internal/core"
	"github.com/partnerdesk/agreements-api/internal/identity"
)

type fakeRepo struct {
	bySubject map[string]*User
	byID      map[int64]*User
	nextID    int64
	deleted   []int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		bySubject: make(map[string]*User),
		byID:      make(map[int64]*User),
		nextID:    1,
	}
}

func (f *fakeRepo) Upsert(_ context.Context, u *User) error {
	now := time.Now()
	if existing, ok := f.bySubject[u.Auth0ID]; ok {
		existing.Email = u.Email
		existing.Name = u.Name
		existing.Picture = u.Picture
		existing.LastLoginAt = &now
		*u = *existing
		return nil
	}

	u.ID = f.nextID
	f.nextID++
	u.LastLoginAt = &now
	u.CreatedAt = now
	u.UpdatedAt = now
	copied := *u
	f.bySubject[u.Auth0ID] = &copied
	f.byID[u.ID] = &copied
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id int64) (*User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (f *fakeRepo) GetByAuth0ID(
	_ context.Context,
	auth0ID string,
) (*User, error) {
	u, ok := f.bySubject[auth0ID]
	if !ok {
		return nil, core.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (f *fakeRepo) UpdateRole(
	_ context.Context,
	id int64,
	role string,
) (*User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	u.Role = role
	copied := *u
	return &copied, nil
}

func (f *fakeRepo) Delete(_ context.Context, id int64) error {
	if _, ok := f.byID[id]; !ok {
		return core.ErrNotFound
	}
	delete(f.byID, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeRepo) DeleteAll(_ context.Context) (int64, error) {
	n := int64(len(f.byID))
	f.byID = make(map[int64]*User)
	f.bySubject = make(map[string]*User)
	return n, nil
}

func (f *fakeRepo) List(
	_ context.Context,
	_ ListUsersParams,
) ([]User, int, error) {
	var out []User
	for _, u := range f.byID {
		out = append(out, *u)
	}
	return out, len(out), nil
}

func (f *fakeRepo) Count(_ context.Context) (int, error) {
	return len(f.byID), nil
}

func (f *fakeRepo) CountByRole(_ context.Context) (map[string]int, error) {
	return map[string]int{}, nil
}

func newTestService(repo Repository) *Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(repo, logger)
}

func TestSyncFromClaimsProvisionsWithDefaults(t *testing.T) {
	svc := newTestService(newFakeRepo())

	u, err := svc.SyncFromClaims(context.Background(), &identity.Claims{
		Subject: "auth0|abc",
		Email:   "Jordan.Lee@Example.COM",
		Name:    "Jordan Lee",
	}, nil)
	if err != nil {
		t.Fatalf("sync: %v", err)
	}

	if u.Email != "jordan.lee@example.com" {
		t.Errorf("email = %q, want lower-cased", u.Email)
	}
	if u.Role != RolePartnerUser {
		t.Errorf("role = %q, want %q", u.Role, RolePartnerUser)
	}
	if u.LastLoginAt == nil {
		t.Error("last_login_at not set on login")
	}
}

func TestSyncFromClaimsFallsBackToEmailForName(t *testing.T) {
	svc := newTestService(newFakeRepo())

	u, err := svc.SyncFromClaims(context.Background(), &identity.Claims{
		Subject: "auth0|abc",
		Email:   "a@b.co",
	}, nil)
	if err != nil {
		t.Fatalf("sync: %v", err)
	}

	if u.Name != "a@b.co" {
		t.Errorf("name = %q, want email fallback", u.Name)
	}
}

func TestSyncFromClaimsAppliesProfileExtras(t *testing.T) {
	svc := newTestService(newFakeRepo())

	name := "Custom Display Name"
	picture := "https://cdn.example.com/avatar.png"

	u, err := svc.SyncFromClaims(context.Background(), &identity.Claims{
		Subject: "auth0|abc",
		Email:   "a@b.co",
		Name:    "Provider Name",
	}, &ProfileExtras{Name: &name, Picture: &picture})
	if err != nil {
		t.Fatalf("sync: %v", err)
	}

	if u.Name != name {
		t.Errorf("name = %q, want extras override", u.Name)
	}
	if u.Picture == nil || *u.Picture != picture {
		t.Errorf("picture = %v, want extras override", u.Picture)
	}
	if u.Email != "a@b.co" {
		t.Errorf("email = %q, extras must not touch identity fields", u.Email)
	}
}

func TestSyncFromClaimsRejectsMissingSubject(t *testing.T) {
	svc := newTestService(newFakeRepo())

	_, err := svc.SyncFromClaims(context.Background(), &identity.Claims{
		Email: "a@b.co",
	}, nil)
	if !errors.Is(err, core.ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
}

func TestSyncFromClaimsRejectsMissingEmail(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	_, err := svc.SyncFromClaims(context.Background(), &identity.Claims{
		Subject: "auth0|no-email-scope",
	}, nil)
	if !errors.Is(err, core.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
	if len(repo.byID) != 0 {
		t.Error("user persisted despite missing email claim")
	}
}

func TestSyncFromClaimsPreservesRoleOnRelogin(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	first, err := svc.SyncFromClaims(context.Background(), &identity.Claims{
		Subject: "auth0|abc",
		Email:   "a@b.co",
	}, nil)
	if err != nil {
		t.Fatalf("first sync: %v", err)
	}

	// Admin promotion between logins must survive the next login.
	if _, err := svc.UpdateUserRole(
		context.Background(),
		first.ID,
		RoleAdmin,
	); err != nil {
		t.Fatalf("promote: %v", err)
	}

	again, err := svc.SyncFromClaims(context.Background(), &identity.Claims{
		Subject: "auth0|abc",
		Email:   "a@b.co",
	}, nil)
	if err != nil {
		t.Fatalf("second sync: %v", err)
	}

	if again.ID != first.ID {
		t.Errorf("relogin created a new user: %d != %d", again.ID, first.ID)
	}
	if again.Role != RoleAdmin {
		t.Errorf("role after relogin = %q, want %q", again.Role, RoleAdmin)
	}
}

func TestResolvePrincipal(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	u, err := svc.SyncFromClaims(context.Background(), &identity.Claims{
		Subject: "auth0|abc",
		Email:   "a@b.co",
	}, nil)
	if err != nil {
		t.Fatalf("sync: %v", err)
	}

	p, err := svc.ResolvePrincipal(context.Background(), "auth0|abc")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	if p.ID != u.ID || p.Email != u.Email || p.Role != u.Role {
		t.Errorf("principal = %+v, want user %+v", p, u)
	}

	_, err = svc.ResolvePrincipal(context.Background(), "auth0|missing")
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestUpdateUserRoleRejectsUnknownRole(t *testing.T) {
	svc := newTestService(newFakeRepo())

	_, err := svc.UpdateUserRole(context.Background(), 1, "SUPERUSER")
	if !errors.Is(err, core.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestDeleteUserRejectsSelfDeletion(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	err := svc.DeleteUser(context.Background(), 5, 5)
	if !errors.Is(err, core.ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}
	if len(repo.deleted) != 0 {
		t.Error("self-deletion reached the repository")
	}
}
