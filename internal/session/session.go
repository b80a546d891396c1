// Package session tracks which role an access token is currently acting as.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"zelapb/api/internal/rbac"
	"zelapb/api/internal/store"
)

var ErrNotFound = errors.New("session not found or expired")

type Kind string

const (
	KindNone       Kind = "none"
	KindCitizen    Kind = "citizen"
	KindTeam       Kind = "team"
	KindGovernment Kind = "government"
	KindAdmin      Kind = "admin"
)

// Active is the single role a session holds. Exactly one of the payload
// pointers is set, matching Kind; KindNone carries none.
type Active struct {
	Kind       Kind                  `json:"kind"`
	Citizen    *store.CitizenProfile `json:"citizen,omitempty"`
	Team       *store.TeamUser       `json:"team,omitempty"`
	Government *store.GovernmentUser `json:"government,omitempty"`
	Admin      *store.AdminUser      `json:"admin,omitempty"`
	CreatedAt  time.Time             `json:"createdAt"`
}

func None() Active { return Active{Kind: KindNone} }

func Citizen(profile store.CitizenProfile) Active {
	return Active{Kind: KindCitizen, Citizen: &profile}
}

func Team(user store.TeamUser) Active {
	user.Password = ""
	return Active{Kind: KindTeam, Team: &user}
}

func Government(user store.GovernmentUser) Active {
	user.Password = ""
	return Active{Kind: KindGovernment, Government: &user}
}

func Admin(user store.AdminUser) Active {
	return Active{Kind: KindAdmin, Admin: &user}
}

// Role maps the session onto the permission matrix.
func (a Active) Role() rbac.Role {
	switch a.Kind {
	case KindCitizen:
		if a.Citizen != nil {
			return rbac.RoleCitizen
		}
	case KindTeam:
		if a.Team != nil {
			if a.Team.Role == store.TeamRoleLeader {
				return rbac.RoleTeamLeader
			}
			return rbac.RoleTeamMember
		}
	case KindGovernment:
		if a.Government != nil {
			return rbac.RoleGovernment
		}
	case KindAdmin:
		if a.Admin != nil {
			return rbac.RoleAdmin
		}
	}
	return rbac.RoleNone
}

// DisplayName is the name of whoever holds the session.
func (a Active) DisplayName() string {
	switch {
	case a.Citizen != nil:
		return a.Citizen.Name
	case a.Team != nil:
		return a.Team.Name
	case a.Government != nil:
		return a.Government.Name
	case a.Admin != nil:
		return a.Admin.Name
	default:
		return ""
	}
}

// Store keeps sessions by id until they expire or are revoked.
type Store interface {
	Save(ctx context.Context, id string, active Active, ttl time.Duration) error
	Lookup(ctx context.Context, id string) (Active, error)
	Revoke(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}

type memoryEntry struct {
	active    Active
	expiresAt time.Time
}

// MemoryStore is the in-process Store used when no Redis URL is configured.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: map[string]memoryEntry{}, now: time.Now}
}

func (s *MemoryStore) Save(_ context.Context, id string, active Active, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if active.CreatedAt.IsZero() {
		active.CreatedAt = s.now()
	}
	s.entries[id] = memoryEntry{active: active, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *MemoryStore) Lookup(_ context.Context, id string) (Active, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[id]
	if !ok {
		return Active{}, ErrNotFound
	}
	if !s.now().Before(entry.expiresAt) {
		delete(s.entries, id)
		return Active{}, ErrNotFound
	}
	return entry.active, nil
}

func (s *MemoryStore) Revoke(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
	return nil
}

func (s *MemoryStore) Ping(context.Context) error { return nil }
