package authpw

import (
	"context"
	"errors"
	"testing"

	"zelapb/api/internal/store"
)

type mockUserStore struct {
	team  []store.TeamUser
	gov   []store.GovernmentUser
	admin store.AdminUser
	err   error
}

func (m *mockUserStore) ListTeamUsers(context.Context) ([]store.TeamUser, error) {
	return m.team, m.err
}

func (m *mockUserStore) ListGovernmentUsers(context.Context) ([]store.GovernmentUser, error) {
	return m.gov, m.err
}

func (m *mockUserStore) AdminUser(context.Context) (store.AdminUser, error) {
	return m.admin, m.err
}

func TestSignInTeamDemoPassword(t *testing.T) {
	svc := NewService(&mockUserStore{team: []store.TeamUser{
		{ID: "l2", Username: "lider.infra", Role: store.TeamRoleLeader},
	}}, "admin123")
	ctx := context.Background()

	user, err := svc.SignInTeam(ctx, "lider.infra", "1234")
	if err != nil {
		t.Fatalf("SignInTeam() error = %v", err)
	}
	if user.ID != "l2" {
		t.Fatalf("expected l2, got %s", user.ID)
	}

	if _, err := svc.SignInTeam(ctx, "lider.infra", ""); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("empty password: error = %v, want ErrInvalidCredentials", err)
	}
	if _, err := svc.SignInTeam(ctx, "lider.infra", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password: error = %v, want ErrInvalidCredentials", err)
	}
}

func TestSignInTeamDuplicateUsernameFirstMatchWins(t *testing.T) {
	svc := NewService(&mockUserStore{team: []store.TeamUser{
		{ID: "first", Username: "jose", Password: "abc"},
		{ID: "second", Username: "jose", Password: "abc"},
	}}, "")

	user, err := svc.SignInTeam(context.Background(), "jose", "abc")
	if err != nil {
		t.Fatalf("SignInTeam() error = %v", err)
	}
	if user.ID != "first" {
		t.Fatalf("expected first inserted user, got %s", user.ID)
	}
}

func TestSignInTeamSkipsDuplicateWithOtherPassword(t *testing.T) {
	svc := NewService(&mockUserStore{team: []store.TeamUser{
		{ID: "first", Username: "jose", Password: "abc"},
		{ID: "second", Username: "jose", Password: "xyz"},
	}}, "")

	user, err := svc.SignInTeam(context.Background(), "jose", "xyz")
	if err != nil {
		t.Fatalf("SignInTeam() error = %v", err)
	}
	if user.ID != "second" {
		t.Fatalf("expected second user, got %s", user.ID)
	}
}

func TestSignInTeamHashedPassword(t *testing.T) {
	hash, err := HashPassword("s3nha")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	svc := NewService(&mockUserStore{team: []store.TeamUser{{ID: "m9", Username: "novo", Password: hash}}}, "")

	if _, err := svc.SignInTeam(context.Background(), "novo", "s3nha"); err != nil {
		t.Fatalf("SignInTeam() error = %v", err)
	}
	if _, err := svc.SignInTeam(context.Background(), "novo", "1234"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("demo password must not unlock a user with a password, got %v", err)
	}
}

func TestSignInGovernment(t *testing.T) {
	svc := NewService(&mockUserStore{gov: []store.GovernmentUser{
		{ID: "g1", Username: "prefeito", Role: "mayor"},
	}}, "")

	user, err := svc.SignInGovernment(context.Background(), "prefeito", "1234")
	if err != nil {
		t.Fatalf("SignInGovernment() error = %v", err)
	}
	if user.SenderRole() != "Prefeito" {
		t.Fatalf("unexpected sender role %q", user.SenderRole())
	}
	if _, err := svc.SignInGovernment(context.Background(), "ninguem", "1234"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown user: error = %v", err)
	}
}

func TestSignInAdmin(t *testing.T) {
	svc := NewService(&mockUserStore{admin: store.AdminUser{ID: "admin_yslamarcke", Username: "yslamarcke"}}, "admin123")
	ctx := context.Background()

	if _, err := svc.SignInAdmin(ctx, "yslamarcke", "admin123"); err != nil {
		t.Fatalf("SignInAdmin() error = %v", err)
	}
	if _, err := svc.SignInAdmin(ctx, "yslamarcke", "1234"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("demo password: error = %v", err)
	}
	if _, err := svc.SignInAdmin(ctx, "other", "admin123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong username: error = %v", err)
	}
}

func TestSignInStoreError(t *testing.T) {
	svc := NewService(&mockUserStore{err: errors.New("boom")}, "")
	_, err := svc.SignInTeam(context.Background(), "x", "y")
	if err == nil || errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
}
