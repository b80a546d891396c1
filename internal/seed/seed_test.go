package seed

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zelapb/api/internal/store"
)

func TestLoadDefault(t *testing.T) {
	now := time.Date(2025, 5, 12, 9, 0, 0, 0, time.UTC)
	snap, err := Load("", now)
	require.NoError(t, err)

	assert.Equal(t, "ZelaPB", snap.Config.AppName)
	assert.True(t, snap.Config.AllowRegistrations)
	assert.False(t, snap.Config.MaintenanceMode)

	require.Len(t, snap.Reports, 3)
	assert.Equal(t, store.PriorityHigh, snap.Reports[0].Priority)
	assert.Equal(t, store.StatusInProgress, snap.Reports[1].Status)
	assert.Equal(t, "Av. Brasil, 500", snap.Reports[2].Location)

	require.Len(t, snap.TeamUsers, 6)
	assert.Equal(t, "lider.infra", snap.TeamUsers[1].Username)
	assert.Equal(t, store.TeamRoleLeader, snap.TeamUsers[1].Role)
	assert.Empty(t, snap.TeamUsers[1].Password)

	require.Len(t, snap.GovernmentUsers, 2)
	assert.Equal(t, "Prefeito", snap.GovernmentUsers[0].SenderRole())
	assert.Equal(t, "Obras Públicas", snap.GovernmentUsers[1].SenderRole())

	assert.Equal(t, "yslamarcke", snap.Admin.Username)

	require.Len(t, snap.Municipalities, 4)
	assert.True(t, decimal.NewFromInt(5000).Equal(snap.Municipalities[0].ContractValue))
	assert.Equal(t, store.MunicipalityBlocked, snap.Municipalities[2].Status)

	require.Len(t, snap.Instructions, 1)
	assert.Equal(t, now, snap.Instructions[0].Timestamp)
	assert.Equal(t, store.InstructionTargetAll, snap.Instructions[0].TargetRole)

	require.Len(t, snap.Broadcasts, 2)
	assert.Equal(t, store.TargetTeams, snap.Broadcasts[1].Target)
	assert.Equal(t, store.BroadcastUrgent, snap.Broadcasts[1].Priority)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	content := []byte("config:\n  appName: Teste\n  maintenanceMode: true\nreports: []\n")
	require.NoError(t, os.WriteFile(path, content, 0o600))

	snap, err := Load(path, time.Now())
	require.NoError(t, err)
	assert.Equal(t, "Teste", snap.Config.AppName)
	assert.True(t, snap.Config.MaintenanceMode)
	assert.Empty(t, snap.Reports)
}

func TestParseRejectsUnknownStatus(t *testing.T) {
	_, err := Parse([]byte("reports:\n  - id: x\n    priority: High\n    status: closed\n"), time.Now())
	require.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), time.Now())
	require.Error(t, err)
}
