package store

import (
	"time"

	"github.com/shopspring/decimal"
)

type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

type ReportStatus string

const (
	StatusPending    ReportStatus = "pending"
	StatusInProgress ReportStatus = "in_progress"
	StatusResolved   ReportStatus = "resolved"
)

func (s ReportStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusResolved:
		return true
	default:
		return false
	}
}

// Label is the citizen-facing name shown next to a request.
func (s ReportStatus) Label() string {
	switch s {
	case StatusResolved:
		return "Resolvido"
	case StatusInProgress:
		return "Andamento"
	default:
		return "Pendente"
	}
}

const (
	SpecialtyCleaning       = "Limpeza Urbana"
	SpecialtyInfrastructure = "Infraestrutura"
	SpecialtyLighting       = "Iluminação"
	SpecialtyGeneral        = "Geral"
)

// Specialties lists the routing domains a team user may belong to.
var Specialties = []string{SpecialtyCleaning, SpecialtyInfrastructure, SpecialtyLighting, SpecialtyGeneral}

func ValidSpecialty(specialty string) bool {
	for _, candidate := range Specialties {
		if candidate == specialty {
			return true
		}
	}
	return false
}

type Report struct {
	ID           string       `json:"id" yaml:"id"`
	Description  string       `json:"description" yaml:"description"`
	Category     string       `json:"category" yaml:"category"`
	Priority     Priority     `json:"priority" yaml:"priority"`
	Status       ReportStatus `json:"status" yaml:"status"`
	Location     string       `json:"location" yaml:"location"`
	CitizenName  string       `json:"citizenName,omitempty" yaml:"citizenName"`
	ContactPhone string       `json:"contactPhone,omitempty" yaml:"contactPhone"`
	Timestamp    time.Time    `json:"timestamp" yaml:"timestamp"`
	ImageURL     string       `json:"imageUrl,omitempty" yaml:"imageUrl"`
	AIAnalysis   string       `json:"aiAnalysis,omitempty" yaml:"aiAnalysis"`
}

type TeamRole string

const (
	TeamRoleLeader TeamRole = "leader"
	TeamRoleMember TeamRole = "member"
)

type TeamUser struct {
	ID        string   `json:"id" yaml:"id"`
	Name      string   `json:"name" yaml:"name"`
	Username  string   `json:"username" yaml:"username"`
	Password  string   `json:"-" yaml:"password"`
	Role      TeamRole `json:"role" yaml:"role"`
	Specialty string   `json:"specialty" yaml:"specialty"`
}

type GovernmentUser struct {
	ID         string `json:"id" yaml:"id"`
	Name       string `json:"name" yaml:"name"`
	Username   string `json:"username" yaml:"username"`
	Password   string `json:"-" yaml:"password"`
	Role       string `json:"role" yaml:"role"`
	Department string `json:"department" yaml:"department"`
}

// SenderRole is the label attached to broadcasts sent by this user.
func (u GovernmentUser) SenderRole() string {
	if u.Role == "mayor" {
		return "Prefeito"
	}
	return u.Department
}

type AdminUser struct {
	ID       string `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Username string `json:"username" yaml:"username"`
	Role     string `json:"role" yaml:"role"`
}

type MunicipalityStatus string

const (
	MunicipalityActive  MunicipalityStatus = "active"
	MunicipalityBlocked MunicipalityStatus = "blocked"
	MunicipalityPending MunicipalityStatus = "pending"
)

func (s MunicipalityStatus) Valid() bool {
	switch s {
	case MunicipalityActive, MunicipalityBlocked, MunicipalityPending:
		return true
	default:
		return false
	}
}

type Municipality struct {
	ID              string             `json:"id" yaml:"id"`
	Name            string             `json:"name" yaml:"name"`
	MayorName       string             `json:"mayorName" yaml:"mayorName"`
	ContractValue   decimal.Decimal    `json:"contractValue" yaml:"contractValue"`
	Status          MunicipalityStatus `json:"status" yaml:"status"`
	JoinedDate      time.Time          `json:"joinedDate" yaml:"joinedDate"`
	NextPaymentDate time.Time          `json:"nextPaymentDate" yaml:"nextPaymentDate"`
}

type BroadcastTarget string

const (
	TargetCitizens BroadcastTarget = "citizens"
	TargetTeams    BroadcastTarget = "teams"
	TargetAll      BroadcastTarget = "all"
)

func (t BroadcastTarget) Valid() bool {
	switch t {
	case TargetCitizens, TargetTeams, TargetAll:
		return true
	default:
		return false
	}
}

// VisibleTo reports whether an announcement with this target reaches the audience.
func (t BroadcastTarget) VisibleTo(audience BroadcastTarget) bool {
	return t == TargetAll || t == audience
}

type BroadcastPriority string

const (
	BroadcastNormal BroadcastPriority = "Normal"
	BroadcastUrgent BroadcastPriority = "Urgent"
)

func (p BroadcastPriority) Valid() bool {
	return p == BroadcastNormal || p == BroadcastUrgent
}

type BroadcastMessage struct {
	ID         string            `json:"id" yaml:"id"`
	SenderName string            `json:"senderName" yaml:"senderName"`
	SenderRole string            `json:"senderRole" yaml:"senderRole"`
	Target     BroadcastTarget   `json:"target" yaml:"target"`
	Title      string            `json:"title" yaml:"title"`
	Message    string            `json:"message" yaml:"message"`
	Timestamp  time.Time         `json:"timestamp" yaml:"timestamp"`
	Priority   BroadcastPriority `json:"priority" yaml:"priority"`
}

const InstructionTargetAll = "all"

type TeamInstruction struct {
	ID         string    `json:"id" yaml:"id"`
	LeaderName string    `json:"leaderName" yaml:"leaderName"`
	Specialty  string    `json:"specialty" yaml:"specialty"`
	Message    string    `json:"message" yaml:"message"`
	Timestamp  time.Time `json:"timestamp" yaml:"timestamp"`
	TargetRole string    `json:"targetRole" yaml:"targetRole"`
}

type SystemConfig struct {
	AppName            string `json:"appName" yaml:"appName"`
	AppSlogan          string `json:"appSlogan" yaml:"appSlogan"`
	Version            string `json:"version" yaml:"version"`
	MaintenanceMode    bool   `json:"maintenanceMode" yaml:"maintenanceMode"`
	AllowRegistrations bool   `json:"allowRegistrations" yaml:"allowRegistrations"`
	PrimaryColorName   string `json:"primaryColorName" yaml:"primaryColorName"`
}

type CitizenProfile struct {
	Name         string `json:"name" yaml:"name"`
	Phone        string `json:"phone" yaml:"phone"`
	Neighborhood string `json:"neighborhood" yaml:"neighborhood"`
	Street       string `json:"street" yaml:"street"`
}
