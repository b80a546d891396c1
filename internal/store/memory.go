package store

import (
	"context"
	"errors"
	"sync"
)

// ErrNotFound is returned when a lookup by id matches nothing.
var ErrNotFound = errors.New("not found")

// Snapshot is the full set of collections the store is seeded with.
type Snapshot struct {
	Config          SystemConfig       `yaml:"config"`
	Reports         []Report           `yaml:"reports"`
	TeamUsers       []TeamUser         `yaml:"teamUsers"`
	GovernmentUsers []GovernmentUser   `yaml:"governmentUsers"`
	Admin           AdminUser          `yaml:"admin"`
	Municipalities  []Municipality     `yaml:"municipalities"`
	Instructions    []TeamInstruction  `yaml:"instructions"`
	Broadcasts      []BroadcastMessage `yaml:"broadcasts"`
}

// MemoryStore keeps every collection as an ordered slice. Lookups are linear
// scans and every read hands back a copy.
type MemoryStore struct {
	mu             sync.RWMutex
	config         SystemConfig
	reports        []Report
	teamUsers      []TeamUser
	govUsers       []GovernmentUser
	admin          AdminUser
	municipalities []Municipality
	instructions   []TeamInstruction
	broadcasts     []BroadcastMessage
}

func NewMemoryStore(seed Snapshot) *MemoryStore {
	return &MemoryStore{
		config:         seed.Config,
		reports:        append([]Report(nil), seed.Reports...),
		teamUsers:      append([]TeamUser(nil), seed.TeamUsers...),
		govUsers:       append([]GovernmentUser(nil), seed.GovernmentUsers...),
		admin:          seed.Admin,
		municipalities: append([]Municipality(nil), seed.Municipalities...),
		instructions:   append([]TeamInstruction(nil), seed.Instructions...),
		broadcasts:     append([]BroadcastMessage(nil), seed.Broadcasts...),
	}
}

func (s *MemoryStore) Ping(context.Context) error { return nil }

func (s *MemoryStore) AppendReport(_ context.Context, report Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports = append(s.reports, report)
	return nil
}

func (s *MemoryStore) ListReports(context.Context) ([]Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Report{}, s.reports...), nil
}

func (s *MemoryStore) GetReport(_ context.Context, id string) (Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, report := range s.reports {
		if report.ID == id {
			return report, nil
		}
	}
	return Report{}, ErrNotFound
}

// UpdateReportStatus replaces the status of every report carrying id. Ids are
// unique for reports created through the service, so this touches one entry.
func (s *MemoryStore) UpdateReportStatus(_ context.Context, id string, status ReportStatus) (Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var (
		updated Report
		found   bool
	)
	for i := range s.reports {
		if s.reports[i].ID == id {
			s.reports[i].Status = status
			if !found {
				updated = s.reports[i]
				found = true
			}
		}
	}
	if !found {
		return Report{}, ErrNotFound
	}
	return updated, nil
}

func (s *MemoryStore) AppendBroadcast(_ context.Context, message BroadcastMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.broadcasts = append(s.broadcasts, message)
	return nil
}

func (s *MemoryStore) ListBroadcasts(context.Context) ([]BroadcastMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]BroadcastMessage{}, s.broadcasts...), nil
}

func (s *MemoryStore) GetBroadcast(_ context.Context, id string) (BroadcastMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, message := range s.broadcasts {
		if message.ID == id {
			return message, nil
		}
	}
	return BroadcastMessage{}, ErrNotFound
}

func (s *MemoryStore) ListTeamUsers(context.Context) ([]TeamUser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]TeamUser{}, s.teamUsers...), nil
}

func (s *MemoryStore) AppendTeamUser(_ context.Context, user TeamUser) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.teamUsers = append(s.teamUsers, user)
	return nil
}

// RemoveTeamUser drops every user with the given id. Instructions and reports
// are left untouched.
func (s *MemoryStore) RemoveTeamUser(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.teamUsers[:0:0]
	for _, user := range s.teamUsers {
		if user.ID != id {
			kept = append(kept, user)
		}
	}
	if len(kept) == len(s.teamUsers) {
		return ErrNotFound
	}
	s.teamUsers = kept
	return nil
}

func (s *MemoryStore) GetTeamUser(_ context.Context, id string) (TeamUser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, user := range s.teamUsers {
		if user.ID == id {
			return user, nil
		}
	}
	return TeamUser{}, ErrNotFound
}

func (s *MemoryStore) ListGovernmentUsers(context.Context) ([]GovernmentUser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]GovernmentUser{}, s.govUsers...), nil
}

func (s *MemoryStore) AdminUser(context.Context) (AdminUser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.admin, nil
}

func (s *MemoryStore) AppendInstruction(_ context.Context, instruction TeamInstruction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.instructions = append(s.instructions, instruction)
	return nil
}

func (s *MemoryStore) ListInstructions(context.Context) ([]TeamInstruction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]TeamInstruction{}, s.instructions...), nil
}

func (s *MemoryStore) ListMunicipalities(context.Context) ([]Municipality, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Municipality{}, s.municipalities...), nil
}

func (s *MemoryStore) SetMunicipalityStatus(_ context.Context, id string, status MunicipalityStatus) (Municipality, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.municipalities {
		if s.municipalities[i].ID == id {
			s.municipalities[i].Status = status
			return s.municipalities[i], nil
		}
	}
	return Municipality{}, ErrNotFound
}

func (s *MemoryStore) Config(context.Context) (SystemConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config, nil
}

func (s *MemoryStore) ReplaceConfig(_ context.Context, cfg SystemConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.config = cfg
	return nil
}
