package app

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"zelapb/api/internal/rbac"
	"zelapb/api/internal/store"
	"zelapb/api/internal/util"
)

type PostInstructionInput struct {
	Message    string `json:"message"`
	TargetRole string `json:"targetRole"`
}

// PostInstruction lets a leader send guidance to the teams of their own
// specialty.
func (s *Service) PostInstruction(ctx context.Context, session Session, input PostInstructionInput) (store.TeamInstruction, error) {
	if err := s.require(session, rbac.ActionPostInstruction); err != nil {
		return store.TeamInstruction{}, err
	}
	leader := session.Active.Team

	message := strings.TrimSpace(input.Message)
	if message == "" {
		return store.TeamInstruction{}, validationError("A orientação não pode ser vazia", "message")
	}
	target := strings.TrimSpace(input.TargetRole)
	switch target {
	case "":
		target = store.InstructionTargetAll
	case store.InstructionTargetAll, string(store.TeamRoleLeader), string(store.TeamRoleMember):
	default:
		return store.TeamInstruction{}, validationError("Destinatário inválido", "targetRole")
	}

	instruction := store.TeamInstruction{
		ID:         util.NewID("ins"),
		LeaderName: leader.Name,
		Specialty:  leader.Specialty,
		Message:    message,
		Timestamp:  s.now(),
		TargetRole: target,
	}
	if err := s.store.AppendInstruction(ctx, instruction); err != nil {
		return store.TeamInstruction{}, err
	}
	s.logger.Info("instruction posted",
		zap.String("instruction_id", instruction.ID),
		zap.String("specialty", instruction.Specialty),
		zap.String("target_role", target),
	)
	return instruction, nil
}

// TeamInstructions returns the instructions addressed to the caller's
// specialty and role.
func (s *Service) TeamInstructions(ctx context.Context, session Session) ([]store.TeamInstruction, error) {
	if err := s.require(session, rbac.ActionViewTeam); err != nil {
		return nil, err
	}
	user := session.Active.Team
	instructions, err := s.store.ListInstructions(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]store.TeamInstruction, 0, len(instructions))
	for _, instruction := range instructions {
		if instruction.Specialty != user.Specialty && user.Specialty != store.SpecialtyGeneral {
			continue
		}
		if instruction.TargetRole != store.InstructionTargetAll && instruction.TargetRole != string(user.Role) {
			continue
		}
		items = append(items, instruction)
	}
	return items, nil
}

// TeamRoster lists the members that report to the calling leader.
func (s *Service) TeamRoster(ctx context.Context, session Session) ([]store.TeamUser, error) {
	if err := s.require(session, rbac.ActionViewRoster); err != nil {
		return nil, err
	}
	leader := session.Active.Team
	users, err := s.store.ListTeamUsers(ctx)
	if err != nil {
		return nil, err
	}
	roster := make([]store.TeamUser, 0, len(users))
	for _, user := range users {
		if user.Specialty == leader.Specialty && user.Role != store.TeamRoleLeader {
			roster = append(roster, user)
		}
	}
	return roster, nil
}
