package app

import (
	"context"

	"zelapb/api/internal/store"
)

type View string

const (
	ViewLanding    View = "landing"
	ViewCitizen    View = "citizen"
	ViewTeam       View = "team"
	ViewGovernment View = "government"
	ViewAdmin      View = "admin"
)

func (v View) Valid() bool {
	switch v {
	case ViewLanding, ViewCitizen, ViewTeam, ViewGovernment, ViewAdmin:
		return true
	default:
		return false
	}
}

// Blocked reports whether maintenance mode hides view. The admin view is
// always reachable so maintenance can be switched off again.
func Blocked(cfg store.SystemConfig, view View) bool {
	return cfg.MaintenanceMode && view != ViewAdmin
}

// MaintenanceNotice replaces a view's content while maintenance is on.
type MaintenanceNotice struct {
	Title   string `json:"title"`
	Message string `json:"message"`
	AppName string `json:"appName"`
	Version string `json:"version"`
}

func maintenanceNotice(cfg store.SystemConfig) MaintenanceNotice {
	return MaintenanceNotice{
		Title:   "Sistema em Manutenção",
		Message: "O aplicativo " + cfg.AppName + " está passando por melhorias. Por favor, aguarde e tente novamente em alguns instantes.",
		AppName: cfg.AppName,
		Version: cfg.Version,
	}
}

// ViewContent is what a screen renders. Exactly one of Maintenance and Data
// is set.
type ViewContent struct {
	View          View               `json:"view"`
	Config        store.SystemConfig `json:"config"`
	Authenticated bool               `json:"authenticated"`
	Maintenance   *MaintenanceNotice `json:"maintenance,omitempty"`
	Data          map[string]any     `json:"data,omitempty"`
}

// RenderView assembles the content of one screen for the caller. A caller
// without the view's role gets the sign-in variant of the screen.
func (s *Service) RenderView(ctx context.Context, session Session, view View) (ViewContent, error) {
	if !view.Valid() {
		return ViewContent{}, notFound("View")
	}
	cfg, err := s.store.Config(ctx)
	if err != nil {
		return ViewContent{}, err
	}
	content := ViewContent{View: view, Config: cfg}
	if Blocked(cfg, view) {
		notice := maintenanceNotice(cfg)
		content.Maintenance = &notice
		return content, nil
	}

	data := map[string]any{}
	switch view {
	case ViewLanding:
		data["appName"] = cfg.AppName
		data["appSlogan"] = cfg.AppSlogan
		data["allowRegistrations"] = cfg.AllowRegistrations
	case ViewCitizen:
		if session.Active.Citizen == nil {
			data["allowRegistrations"] = cfg.AllowRegistrations
			break
		}
		content.Authenticated = true
		reports, err := s.CitizenReports(ctx, session)
		if err != nil {
			return ViewContent{}, err
		}
		broadcasts, err := s.BroadcastsFor(ctx, session, store.TargetCitizens)
		if err != nil {
			return ViewContent{}, err
		}
		data["profile"] = session.Active.Citizen
		data["reports"] = reports
		data["broadcasts"] = broadcasts
	case ViewTeam:
		if session.Active.Team == nil {
			break
		}
		content.Authenticated = true
		reports, err := s.TeamReports(ctx, session)
		if err != nil {
			return ViewContent{}, err
		}
		instructions, err := s.TeamInstructions(ctx, session)
		if err != nil {
			return ViewContent{}, err
		}
		broadcasts, err := s.BroadcastsFor(ctx, session, store.TargetTeams)
		if err != nil {
			return ViewContent{}, err
		}
		data["user"] = session.Active.Team
		data["reports"] = reports
		data["instructions"] = instructions
		data["broadcasts"] = broadcasts
		if session.Active.Team.Role == store.TeamRoleLeader {
			roster, err := s.TeamRoster(ctx, session)
			if err != nil {
				return ViewContent{}, err
			}
			data["roster"] = roster
		}
	case ViewGovernment:
		if session.Active.Government == nil {
			break
		}
		content.Authenticated = true
		stats, err := s.GovernmentStats(ctx, session)
		if err != nil {
			return ViewContent{}, err
		}
		members, err := s.ListMembers(ctx, session)
		if err != nil {
			return ViewContent{}, err
		}
		data["user"] = session.Active.Government
		data["stats"] = stats
		data["members"] = members
	case ViewAdmin:
		if session.Active.Admin == nil {
			break
		}
		content.Authenticated = true
		overview, err := s.AdminOverview(ctx, session)
		if err != nil {
			return ViewContent{}, err
		}
		data["user"] = session.Active.Admin
		data["overview"] = overview
	}
	content.Data = data
	return content, nil
}
