package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"zelapb/api/internal/auth"
	"zelapb/api/internal/authpw"
	"zelapb/api/internal/classify"
	"zelapb/api/internal/config"
	"zelapb/api/internal/export"
	"zelapb/api/internal/media"
	"zelapb/api/internal/metrics"
	"zelapb/api/internal/rbac"
	"zelapb/api/internal/search"
	"zelapb/api/internal/session"
	"zelapb/api/internal/store"
	"zelapb/api/internal/util"
)

// Session is the authenticated view of one bearer token.
type Session struct {
	ID        string
	Token     string
	Active    session.Active
	ExpiresAt time.Time
}

func (s Session) Role() rbac.Role {
	return s.Active.Role()
}

type dataStore interface {
	Ping(context.Context) error
	AppendReport(context.Context, store.Report) error
	ListReports(context.Context) ([]store.Report, error)
	GetReport(context.Context, string) (store.Report, error)
	UpdateReportStatus(context.Context, string, store.ReportStatus) (store.Report, error)
	AppendBroadcast(context.Context, store.BroadcastMessage) error
	ListBroadcasts(context.Context) ([]store.BroadcastMessage, error)
	GetBroadcast(context.Context, string) (store.BroadcastMessage, error)
	ListTeamUsers(context.Context) ([]store.TeamUser, error)
	GetTeamUser(context.Context, string) (store.TeamUser, error)
	AppendTeamUser(context.Context, store.TeamUser) error
	RemoveTeamUser(context.Context, string) error
	ListGovernmentUsers(context.Context) ([]store.GovernmentUser, error)
	AdminUser(context.Context) (store.AdminUser, error)
	AppendInstruction(context.Context, store.TeamInstruction) error
	ListInstructions(context.Context) ([]store.TeamInstruction, error)
	ListMunicipalities(context.Context) ([]store.Municipality, error)
	SetMunicipalityStatus(context.Context, string, store.MunicipalityStatus) (store.Municipality, error)
	Config(context.Context) (store.SystemConfig, error)
	ReplaceConfig(context.Context, store.SystemConfig) error
}

// publisher pushes events to live-feed subscribers.
type publisher interface {
	Publish(eventType string, audience store.BroadcastTarget, data any)
}

type nopPublisher struct{}

func (nopPublisher) Publish(string, store.BroadcastTarget, any) {}

// Deps are the collaborators a Service runs with. Only Store is required;
// the rest fall back to in-process implementations.
type Deps struct {
	Store    dataStore
	Sessions session.Store
	AI       *classify.Guarded
	Feed     publisher
	Search   *search.Service
	Photos   media.Store
	Exporter *export.Service
	Logger   *zap.Logger
}

type Service struct {
	cfg      config.Config
	store    dataStore
	sessions session.Store
	users    *authpw.Service
	ai       *classify.Guarded
	feed     publisher
	search   *search.Service
	photos   media.Store
	exporter *export.Service
	logger   *zap.Logger
	now      func() time.Time
}

func New(cfg config.Config, deps Deps) *Service {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &Service{
		cfg:      cfg,
		store:    deps.Store,
		sessions: deps.Sessions,
		users:    authpw.NewService(deps.Store, cfg.AdminPassword),
		ai:       deps.AI,
		feed:     deps.Feed,
		search:   deps.Search,
		photos:   deps.Photos,
		exporter: deps.Exporter,
		logger:   logger,
		now:      time.Now,
	}
	if svc.sessions == nil {
		svc.sessions = session.NewMemoryStore()
	}
	if svc.ai == nil {
		stub := classify.NewStub()
		svc.ai = classify.WithFallback(stub, stub, cfg.ClassifyTimeout, logger)
	}
	if svc.feed == nil {
		svc.feed = nopPublisher{}
	}
	if svc.search == nil {
		svc.search = search.NewService(nil, search.NewMemory(deps.Store), logger)
	}
	if svc.photos == nil {
		svc.photos = media.Inline{}
	}
	if svc.exporter == nil {
		svc.exporter = export.NewService()
	}
	return svc
}

func (s *Service) Ping(ctx context.Context) error {
	if err := s.store.Ping(ctx); err != nil {
		return fmt.Errorf("store: %w", err)
	}
	if err := s.sessions.Ping(ctx); err != nil {
		return fmt.Errorf("sessions: %w", err)
	}
	return nil
}

func (s *Service) Can(role string, action rbac.Action) bool {
	return rbac.Can(rbac.Normalize(role), action)
}

func (s *Service) require(session Session, action rbac.Action) error {
	if !s.Can(string(session.Role()), action) {
		return forbidden()
	}
	return nil
}

// requireAny passes when the session may perform at least one of actions.
func (s *Service) requireAny(session Session, actions ...rbac.Action) error {
	for _, action := range actions {
		if s.Can(string(session.Role()), action) {
			return nil
		}
	}
	return forbidden()
}

// Config is public: every view needs the app name and the maintenance flag.
func (s *Service) Config(ctx context.Context) (store.SystemConfig, error) {
	return s.store.Config(ctx)
}

type RegisterCitizenInput struct {
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Neighborhood string `json:"neighborhood"`
	Street       string `json:"street"`
}

// RegisterCitizen starts a citizen session. previousToken, when valid, is
// revoked so the caller keeps a single active role.
func (s *Service) RegisterCitizen(ctx context.Context, previousToken string, input RegisterCitizenInput) (Session, error) {
	cfg, err := s.store.Config(ctx)
	if err != nil {
		return Session{}, err
	}
	if !cfg.AllowRegistrations {
		return Session{}, domainError(http.StatusForbidden, "REGISTRATION_CLOSED", "Novos cadastros estão temporariamente suspensos", nil)
	}

	profile := store.CitizenProfile{
		Name:         strings.TrimSpace(input.Name),
		Phone:        strings.TrimSpace(input.Phone),
		Neighborhood: strings.TrimSpace(input.Neighborhood),
		Street:       strings.TrimSpace(input.Street),
	}
	var missing []string
	if profile.Name == "" {
		missing = append(missing, "name")
	}
	if profile.Phone == "" {
		missing = append(missing, "phone")
	}
	if profile.Neighborhood == "" {
		missing = append(missing, "neighborhood")
	}
	if len(missing) > 0 {
		return Session{}, validationError("Preencha os campos obrigatórios", missing...)
	}

	metrics.Logins.WithLabelValues(string(session.KindCitizen), "success").Inc()
	return s.issueSession(ctx, previousToken, session.Citizen(profile))
}

func (s *Service) LoginTeam(ctx context.Context, previousToken, username, password string) (Session, error) {
	user, err := s.users.SignInTeam(ctx, strings.TrimSpace(username), password)
	if err != nil {
		return Session{}, s.loginFailed(session.KindTeam, err)
	}
	metrics.Logins.WithLabelValues(string(session.KindTeam), "success").Inc()
	return s.issueSession(ctx, previousToken, session.Team(user))
}

func (s *Service) LoginGovernment(ctx context.Context, previousToken, username, password string) (Session, error) {
	user, err := s.users.SignInGovernment(ctx, strings.TrimSpace(username), password)
	if err != nil {
		return Session{}, s.loginFailed(session.KindGovernment, err)
	}
	metrics.Logins.WithLabelValues(string(session.KindGovernment), "success").Inc()
	return s.issueSession(ctx, previousToken, session.Government(user))
}

func (s *Service) LoginAdmin(ctx context.Context, previousToken, username, password string) (Session, error) {
	admin, err := s.users.SignInAdmin(ctx, strings.TrimSpace(username), password)
	if err != nil {
		return Session{}, s.loginFailed(session.KindAdmin, err)
	}
	metrics.Logins.WithLabelValues(string(session.KindAdmin), "success").Inc()
	return s.issueSession(ctx, previousToken, session.Admin(admin))
}

func (s *Service) loginFailed(kind session.Kind, err error) error {
	if errors.Is(err, authpw.ErrInvalidCredentials) {
		metrics.Logins.WithLabelValues(string(kind), "failure").Inc()
		s.logger.Info("login rejected", zap.String("kind", string(kind)))
		return invalidCredentials()
	}
	return err
}

func (s *Service) issueSession(ctx context.Context, previousToken string, active session.Active) (Session, error) {
	if previousToken != "" {
		if claims, err := auth.ParseToken([]byte(s.cfg.JWTSecret), previousToken); err == nil {
			_ = s.sessions.Revoke(ctx, claims.ID)
		}
	}

	now := s.now()
	ttl := s.cfg.SessionTTL
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	active.CreatedAt = now
	id := util.NewID("ses")
	if err := s.sessions.Save(ctx, id, active, ttl); err != nil {
		return Session{}, fmt.Errorf("save session: %w", err)
	}
	token, err := auth.IssueToken([]byte(s.cfg.JWTSecret), id, string(active.Kind), ttl)
	if err != nil {
		return Session{}, err
	}
	return Session{ID: id, Token: token, Active: active, ExpiresAt: now.Add(ttl)}, nil
}

func (s *Service) SessionFromToken(ctx context.Context, token string) (Session, error) {
	claims, err := auth.ParseToken([]byte(s.cfg.JWTSecret), token)
	if err != nil {
		return Session{}, err
	}
	active, err := s.sessions.Lookup(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return Session{}, auth.ErrInvalidToken
		}
		return Session{}, err
	}
	var expiresAt time.Time
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	return Session{ID: claims.ID, Token: token, Active: active, ExpiresAt: expiresAt}, nil
}

func (s *Service) Logout(ctx context.Context, session Session) error {
	if session.ID == "" {
		return nil
	}
	return s.sessions.Revoke(ctx, session.ID)
}
