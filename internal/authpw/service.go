// Package authpw checks team, city-hall and admin credentials.
package authpw

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"zelapb/api/internal/store"
)

// DemoPassword is accepted for any directory user that has no password set.
const DemoPassword = "1234"

var ErrInvalidCredentials = errors.New("invalid username or password")

// Service matches credentials against the directories held by the store.
type Service struct {
	store         UserStore
	adminPassword string
}

// UserStore defines the storage interface for sign-in.
type UserStore interface {
	ListTeamUsers(ctx context.Context) ([]store.TeamUser, error)
	ListGovernmentUsers(ctx context.Context) ([]store.GovernmentUser, error)
	AdminUser(ctx context.Context) (store.AdminUser, error)
}

func NewService(users UserStore, adminPassword string) *Service {
	return &Service{store: users, adminPassword: adminPassword}
}

// SignInTeam returns the first team user, in directory order, whose username
// and password both match.
func (s *Service) SignInTeam(ctx context.Context, username, password string) (store.TeamUser, error) {
	users, err := s.store.ListTeamUsers(ctx)
	if err != nil {
		return store.TeamUser{}, fmt.Errorf("list team users: %w", err)
	}
	for _, user := range users {
		if user.Username == username && PasswordMatches(user.Password, password) {
			return user, nil
		}
	}
	return store.TeamUser{}, ErrInvalidCredentials
}

// SignInGovernment applies the same rule as SignInTeam to city-hall staff.
func (s *Service) SignInGovernment(ctx context.Context, username, password string) (store.GovernmentUser, error) {
	users, err := s.store.ListGovernmentUsers(ctx)
	if err != nil {
		return store.GovernmentUser{}, fmt.Errorf("list government users: %w", err)
	}
	for _, user := range users {
		if user.Username == username && PasswordMatches(user.Password, password) {
			return user, nil
		}
	}
	return store.GovernmentUser{}, ErrInvalidCredentials
}

// SignInAdmin checks the single super-admin account. The admin has no demo
// fallback.
func (s *Service) SignInAdmin(ctx context.Context, username, password string) (store.AdminUser, error) {
	admin, err := s.store.AdminUser(ctx)
	if err != nil {
		return store.AdminUser{}, fmt.Errorf("load admin: %w", err)
	}
	if s.adminPassword == "" || admin.Username != username || !PasswordMatches(s.adminPassword, password) {
		return store.AdminUser{}, ErrInvalidCredentials
	}
	return admin, nil
}

// PasswordMatches compares a stored password with a supplied one. Stored values
// that look like bcrypt hashes are checked with bcrypt, anything else by
// equality. An empty stored password only accepts DemoPassword.
func PasswordMatches(stored, supplied string) bool {
	if stored == "" {
		return supplied == DemoPassword
	}
	if isBcryptHash(stored) {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(supplied)) == nil
	}
	return stored == supplied
}

// HashPassword hashes a password for storage. Empty input stays empty so the
// demo fallback keeps working for that user.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func isBcryptHash(value string) bool {
	return len(value) == 60 && strings.HasPrefix(value, "$2")
}
