package classify

import (
	"context"
	"regexp"
	"strings"

	"zelapb/api/internal/store"
)

// Stub is a deterministic, no-network classifier and config generator for
// local runs without a Gemini key.
type Stub struct{}

func NewStub() *Stub { return &Stub{} }

var categoryKeywords = []struct {
	category string
	words    []string
}{
	{store.SpecialtyCleaning, []string{"lixo", "entulho", "sujeira", "coleta", "mato", "limpeza"}},
	{store.SpecialtyInfrastructure, []string{"buraco", "calçada", "asfalto", "esgoto", "bueiro", "vazamento", "ponte"}},
	{store.SpecialtyLighting, []string{"lâmpada", "lampada", "poste", "iluminação", "iluminacao", "escuro", "luz"}},
}

var urgentKeywords = []string{"perigo", "risco", "urgente", "acidente", "criança", "fio", "desabamento", "incêndio"}

func (s *Stub) Classify(_ context.Context, description string) (Analysis, error) {
	text := strings.ToLower(description)
	analysis := Analysis{Category: store.SpecialtyGeneral, Priority: store.PriorityMedium}
	for _, entry := range categoryKeywords {
		if containsAny(text, entry.words) {
			analysis.Category = entry.category
			break
		}
	}
	if containsAny(text, urgentKeywords) {
		analysis.Priority = store.PriorityHigh
	} else if analysis.Category == store.SpecialtyLighting {
		analysis.Priority = store.PriorityLow
	}
	analysis.Summary = firstWords(description, 5)
	if analysis.Summary == "" {
		analysis.Summary = Fallback.Summary
	}
	return analysis, nil
}

var versionPattern = regexp.MustCompile(`(?i)vers[ãa]o\s+v?([0-9][0-9A-Za-z.\-]*)`)

// GenerateConfig understands a handful of pt-BR commands: maintenance on/off,
// opening or closing registrations and setting the version.
func (s *Stub) GenerateConfig(_ context.Context, current store.SystemConfig, command string) (store.SystemConfig, error) {
	text := strings.ToLower(command)
	proposed := current
	switch {
	case containsAny(text, []string{"desativar manutenção", "desligar manutenção", "sair da manutenção"}):
		proposed.MaintenanceMode = false
	case strings.Contains(text, "manutenção"):
		proposed.MaintenanceMode = true
	}
	switch {
	case containsAny(text, []string{"bloquear cadastro", "fechar cadastro", "desativar cadastro"}):
		proposed.AllowRegistrations = false
	case containsAny(text, []string{"liberar cadastro", "abrir cadastro", "ativar cadastro"}):
		proposed.AllowRegistrations = true
	}
	if m := versionPattern.FindStringSubmatch(command); m != nil {
		proposed.Version = m[1]
	}
	return proposed, nil
}

func containsAny(text string, words []string) bool {
	for _, word := range words {
		if strings.Contains(text, word) {
			return true
		}
	}
	return false
}

func firstWords(text string, n int) string {
	fields := strings.Fields(text)
	if len(fields) > n {
		fields = fields[:n]
	}
	return strings.Join(fields, " ")
}
