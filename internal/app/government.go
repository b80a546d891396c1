package app

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"zelapb/api/internal/authpw"
	"zelapb/api/internal/export"
	"zelapb/api/internal/feed"
	"zelapb/api/internal/metrics"
	"zelapb/api/internal/rbac"
	"zelapb/api/internal/share"
	"zelapb/api/internal/store"
	"zelapb/api/internal/util"
)

type PostBroadcastInput struct {
	Title    string `json:"title"`
	Message  string `json:"message"`
	Target   string `json:"target"`
	Priority string `json:"priority"`
}

func (s *Service) PostBroadcast(ctx context.Context, session Session, input PostBroadcastInput) (store.BroadcastMessage, error) {
	if err := s.require(session, rbac.ActionBroadcast); err != nil {
		return store.BroadcastMessage{}, err
	}
	sender := session.Active.Government

	title := strings.TrimSpace(input.Title)
	message := strings.TrimSpace(input.Message)
	var missing []string
	if title == "" {
		missing = append(missing, "title")
	}
	if message == "" {
		missing = append(missing, "message")
	}
	if len(missing) > 0 {
		return store.BroadcastMessage{}, validationError("Título e mensagem são obrigatórios", missing...)
	}
	target := store.BroadcastTarget(strings.TrimSpace(input.Target))
	if !target.Valid() {
		return store.BroadcastMessage{}, validationError("Público-alvo inválido", "target")
	}
	priority := store.BroadcastPriority(strings.TrimSpace(input.Priority))
	if priority == "" {
		priority = store.BroadcastNormal
	}
	if !priority.Valid() {
		return store.BroadcastMessage{}, validationError("Prioridade inválida", "priority")
	}

	broadcast := store.BroadcastMessage{
		ID:         util.NewID("brd"),
		SenderName: sender.Name,
		SenderRole: sender.SenderRole(),
		Target:     target,
		Title:      title,
		Message:    message,
		Timestamp:  s.now(),
		Priority:   priority,
	}
	if err := s.store.AppendBroadcast(ctx, broadcast); err != nil {
		return store.BroadcastMessage{}, err
	}

	metrics.BroadcastsPosted.WithLabelValues(string(target)).Inc()
	s.feed.Publish(feed.EventBroadcast, target, broadcast)
	s.logger.Info("broadcast posted",
		zap.String("broadcast_id", broadcast.ID),
		zap.String("target", string(target)),
		zap.String("priority", string(priority)),
	)
	return broadcast, nil
}

// BroadcastsFor returns the announcements visible to audience, in posting
// order. Citizens read the citizen audience and teams the team audience.
func (s *Service) BroadcastsFor(ctx context.Context, session Session, audience store.BroadcastTarget) ([]store.BroadcastMessage, error) {
	action := rbac.ActionViewCitizen
	if audience == store.TargetTeams {
		action = rbac.ActionViewTeam
	}
	if err := s.require(session, action); err != nil {
		return nil, err
	}
	broadcasts, err := s.store.ListBroadcasts(ctx)
	if err != nil {
		return nil, err
	}
	return filterBroadcasts(broadcasts, audience), nil
}

func filterBroadcasts(broadcasts []store.BroadcastMessage, audience store.BroadcastTarget) []store.BroadcastMessage {
	visible := make([]store.BroadcastMessage, 0, len(broadcasts))
	for _, broadcast := range broadcasts {
		if broadcast.Target.VisibleTo(audience) {
			visible = append(visible, broadcast)
		}
	}
	return visible
}

func (s *Service) ShareBroadcast(ctx context.Context, session Session, id string) (share.Payload, error) {
	if err := s.requireAny(session, rbac.ActionViewCitizen, rbac.ActionViewTeam, rbac.ActionBroadcast); err != nil {
		return share.Payload{}, err
	}
	broadcast, err := s.store.GetBroadcast(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return share.Payload{}, notFound("Broadcast")
		}
		return share.Payload{}, err
	}
	if !s.Can(string(session.Role()), rbac.ActionBroadcast) {
		audience := store.TargetCitizens
		if session.Active.Team != nil {
			audience = store.TargetTeams
		}
		if !broadcast.Target.VisibleTo(audience) {
			return share.Payload{}, notFound("Broadcast")
		}
	}
	cfg, err := s.store.Config(ctx)
	if err != nil {
		return share.Payload{}, err
	}
	return share.Broadcast(cfg.AppName, broadcast, s.cfg.PublicBaseURL), nil
}

func (s *Service) GovernmentStats(ctx context.Context, session Session) (Stats, error) {
	if err := s.require(session, rbac.ActionViewStats); err != nil {
		return Stats{}, err
	}
	reports, err := s.store.ListReports(ctx)
	if err != nil {
		return Stats{}, err
	}
	return computeStats(reports), nil
}

func (s *Service) ShareStats(ctx context.Context, session Session) (share.Payload, error) {
	stats, err := s.GovernmentStats(ctx, session)
	if err != nil {
		return share.Payload{}, err
	}
	cfg, err := s.store.Config(ctx)
	if err != nil {
		return share.Payload{}, err
	}
	return share.Stats(cfg.AppName, stats.Total, stats.Efficiency, s.cfg.PublicBaseURL), nil
}

// ExportStats renders the KPI bulletin as PDF or HTML.
func (s *Service) ExportStats(ctx context.Context, session Session, format string) (*export.Result, error) {
	stats, err := s.GovernmentStats(ctx, session)
	if err != nil {
		return nil, err
	}
	cfg, err := s.store.Config(ctx)
	if err != nil {
		return nil, err
	}
	result, err := s.exporter.Export(ctx, bulletinFromStats(cfg, stats, s.now()), export.Format(strings.ToLower(strings.TrimSpace(format))))
	if err != nil {
		switch {
		case errors.Is(err, export.ErrPDFDependencyMissing):
			return nil, domainError(http.StatusServiceUnavailable, "EXPORT_UNAVAILABLE", "PDF export is not available on this server", nil)
		case errors.Is(err, export.ErrUnsupportedFormat):
			return nil, validationError("Formato de exportação inválido", "format")
		}
		return nil, err
	}
	return result, nil
}

func (s *Service) ListMembers(ctx context.Context, session Session) ([]store.TeamUser, error) {
	if err := s.require(session, rbac.ActionManageMembers); err != nil {
		return nil, err
	}
	return s.store.ListTeamUsers(ctx)
}

type RegisterMemberInput struct {
	Name      string `json:"name"`
	Username  string `json:"username"`
	Password  string `json:"password"`
	Role      string `json:"role"`
	Specialty string `json:"specialty"`
}

// RegisterMember adds a team user. Usernames are not checked for uniqueness;
// sign-in picks the first match.
func (s *Service) RegisterMember(ctx context.Context, session Session, input RegisterMemberInput) (store.TeamUser, error) {
	if err := s.require(session, rbac.ActionManageMembers); err != nil {
		return store.TeamUser{}, err
	}

	user := store.TeamUser{
		ID:        util.NewID("usr"),
		Name:      strings.TrimSpace(input.Name),
		Username:  strings.TrimSpace(input.Username),
		Role:      store.TeamRole(strings.TrimSpace(input.Role)),
		Specialty: strings.TrimSpace(input.Specialty),
	}
	if user.Role == "" {
		user.Role = store.TeamRoleMember
	}
	var invalid []string
	if user.Name == "" {
		invalid = append(invalid, "name")
	}
	if user.Username == "" {
		invalid = append(invalid, "username")
	}
	if user.Role != store.TeamRoleLeader && user.Role != store.TeamRoleMember {
		invalid = append(invalid, "role")
	}
	if !store.ValidSpecialty(user.Specialty) {
		invalid = append(invalid, "specialty")
	}
	if len(invalid) > 0 {
		return store.TeamUser{}, validationError("Dados do membro inválidos", invalid...)
	}

	hash, err := authpw.HashPassword(input.Password)
	if err != nil {
		return store.TeamUser{}, err
	}
	user.Password = hash
	if err := s.store.AppendTeamUser(ctx, user); err != nil {
		return store.TeamUser{}, err
	}
	s.logger.Info("team member registered",
		zap.String("user_id", user.ID),
		zap.String("specialty", user.Specialty),
		zap.String("role", string(user.Role)),
	)
	return user, nil
}

// RemoveMember deletes a team user. Their instructions and the reports they
// handled stay as they are.
func (s *Service) RemoveMember(ctx context.Context, session Session, id string) error {
	if err := s.require(session, rbac.ActionManageMembers); err != nil {
		return err
	}
	member, err := s.store.GetTeamUser(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return notFound("Team member")
		}
		return err
	}
	if err := s.store.RemoveTeamUser(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return notFound("Team member")
		}
		return err
	}
	s.logger.Info("team member removed",
		zap.String("user_id", member.ID),
		zap.String("username", member.Username),
		zap.String("specialty", member.Specialty),
		zap.String("by", session.Active.DisplayName()),
	)
	return nil
}
