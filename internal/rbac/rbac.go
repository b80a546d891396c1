package rbac

type Role string
type Action string

const (
	RoleNone       Role = ""
	RoleCitizen    Role = "citizen"
	RoleTeamMember Role = "team_member"
	RoleTeamLeader Role = "team_leader"
	RoleGovernment Role = "government"
	RoleAdmin      Role = "admin"
)

const (
	ActionSubmitReport    Action = "submit_report"
	ActionViewCitizen     Action = "view_citizen"
	ActionViewTeam        Action = "view_team"
	ActionUpdateStatus    Action = "update_status"
	ActionPostInstruction Action = "post_instruction"
	ActionViewRoster      Action = "view_roster"
	ActionViewStats       Action = "view_stats"
	ActionBroadcast       Action = "broadcast"
	ActionManageMembers   Action = "manage_members"
	ActionManageTenants   Action = "manage_tenants"
	ActionConfigure       Action = "configure"
)

// Can reports whether role may perform action. Each role only reaches its own
// view; the admin does not inherit the other roles.
func Can(role Role, action Action) bool {
	switch role {
	case RoleCitizen:
		return action == ActionSubmitReport || action == ActionViewCitizen
	case RoleTeamLeader:
		return action == ActionViewTeam || action == ActionUpdateStatus ||
			action == ActionPostInstruction || action == ActionViewRoster
	case RoleTeamMember:
		return action == ActionViewTeam || action == ActionUpdateStatus
	case RoleGovernment:
		return action == ActionViewStats || action == ActionBroadcast || action == ActionManageMembers
	case RoleAdmin:
		return action == ActionManageTenants || action == ActionConfigure
	default:
		return false
	}
}

func Normalize(role string) Role {
	switch Role(role) {
	case RoleCitizen, RoleTeamMember, RoleTeamLeader, RoleGovernment, RoleAdmin:
		return Role(role)
	default:
		return RoleNone
	}
}
