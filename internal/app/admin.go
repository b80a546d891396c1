package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"zelapb/api/internal/metrics"
	"zelapb/api/internal/rbac"
	"zelapb/api/internal/store"
)

func (s *Service) Municipalities(ctx context.Context, session Session) ([]MunicipalityView, error) {
	overview, err := s.AdminOverview(ctx, session)
	if err != nil {
		return nil, err
	}
	return overview.Municipalities, nil
}

func (s *Service) SetMunicipalityStatus(ctx context.Context, session Session, id, status string) (store.Municipality, error) {
	if err := s.require(session, rbac.ActionManageTenants); err != nil {
		return store.Municipality{}, err
	}
	next := store.MunicipalityStatus(strings.TrimSpace(status))
	if !next.Valid() {
		return store.Municipality{}, validationError("Status inválido", "status")
	}
	municipality, err := s.store.SetMunicipalityStatus(ctx, id, next)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.Municipality{}, notFound("Municipality")
		}
		return store.Municipality{}, err
	}
	s.logger.Info("municipality status changed",
		zap.String("municipality_id", id),
		zap.String("status", string(next)),
	)
	return municipality, nil
}

func (s *Service) AdminOverview(ctx context.Context, session Session) (Overview, error) {
	if err := s.require(session, rbac.ActionManageTenants); err != nil {
		return Overview{}, err
	}
	municipalities, err := s.store.ListMunicipalities(ctx)
	if err != nil {
		return Overview{}, err
	}
	return computeOverview(municipalities, decimal.NewFromInt(int64(s.cfg.MonthlyRate)), s.now()), nil
}

// ReplaceConfig swaps the whole configuration. Only the shape is checked.
func (s *Service) ReplaceConfig(ctx context.Context, session Session, cfg store.SystemConfig) (store.SystemConfig, error) {
	if err := s.require(session, rbac.ActionConfigure); err != nil {
		return store.SystemConfig{}, err
	}
	if err := s.store.ReplaceConfig(ctx, cfg); err != nil {
		return store.SystemConfig{}, err
	}
	setMaintenanceGauge(cfg)
	s.logger.Info("configuration replaced",
		zap.String("version", cfg.Version),
		zap.Bool("maintenance", cfg.MaintenanceMode),
		zap.Bool("registrations", cfg.AllowRegistrations),
	)
	return cfg, nil
}

func setMaintenanceGauge(cfg store.SystemConfig) {
	if cfg.MaintenanceMode {
		metrics.MaintenanceMode.Set(1)
	} else {
		metrics.MaintenanceMode.Set(0)
	}
}

// ConfigProposal is what the AI command console returns: a configuration to
// review and the console lines to show. Nothing is applied.
type ConfigProposal struct {
	Config store.SystemConfig `json:"config"`
	Log    []string           `json:"log"`
}

func (s *Service) GenerateConfig(ctx context.Context, session Session, command string) (ConfigProposal, error) {
	if err := s.require(session, rbac.ActionConfigure); err != nil {
		return ConfigProposal{}, err
	}
	command = strings.TrimSpace(command)
	if command == "" {
		return ConfigProposal{}, validationError("Informe um comando", "command")
	}
	current, err := s.store.Config(ctx)
	if err != nil {
		return ConfigProposal{}, err
	}

	log := []string{
		fmt.Sprintf("> USER: %q", command),
		"> AI: Analisando intenção do criador...",
	}
	proposed, fellBack := s.ai.GenerateConfig(ctx, current, command)
	if fellBack {
		log = append(log, "> ERROR: Falha na interpretação da IA.")
		return ConfigProposal{Config: current, Log: log}, nil
	}
	log = append(log,
		"> AI: Configuração gerada com sucesso.",
		"> AI: Atualizando campos do formulário...",
		"> SYSTEM: Aguardando confirmação manual (Clique em Salvar).",
	)
	return ConfigProposal{Config: proposed, Log: log}, nil
}

// deployLog is the build log printed by the simulated deploy.
var deployLog = []string{
	"Iniciando processo de build...",
	"Compilando módulos React...",
	"Otimizando assets e imagens...",
	"Atualizando banco de dados...",
	"Aplicando novas configurações...",
}

type DeployResult struct {
	Config store.SystemConfig `json:"config"`
	Log    []string           `json:"log"`
}

// Deploy is a simulation: it prints the build log and replaces the
// configuration. Nothing is built or shipped.
func (s *Service) Deploy(ctx context.Context, session Session, cfg store.SystemConfig) (DeployResult, error) {
	applied, err := s.ReplaceConfig(ctx, session, cfg)
	if err != nil {
		return DeployResult{}, err
	}
	return DeployResult{Config: applied, Log: append([]string(nil), deployLog...)}, nil
}
