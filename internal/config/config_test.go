package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	t.Setenv("BACKEND_DRIVER", "POSTGRES")
	t.Setenv("BACKEND_URL", "")

	cfg, err := New("")

	require.NoError(t, err)
	assert.Equal(t, DriverPostgres, cfg.Backend.Driver)
	assert.Equal(t, 420, cfg.Business.OccupancyCapacitySlots)
	assert.Equal(t, 72*time.Hour, cfg.JWT.AccessTokenTTL)
	assert.Equal(t, []string{"BACKEND_URL"}, cfg.MissingBackendKeys())
	assert.False(t, cfg.BackendConfigured())
}

func TestNew_UnsupportedDriver(t *testing.T) {
	t.Setenv("BACKEND_DRIVER", "mysql")

	_, err := New("")

	assert.ErrorContains(t, err, "unsupported BACKEND_DRIVER")
}

func TestNew_RejectsBadNetMargin(t *testing.T) {
	t.Setenv("BACKEND_DRIVER", "postgres")
	t.Setenv("FINANCE_NET_MARGIN", "abc")

	_, err := New("")

	assert.ErrorContains(t, err, "FINANCE_NET_MARGIN")
}

func TestNew_LoadsEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("CLINIC_TIMEZONE=America/Manaus\n"), 0o600))
	t.Setenv("BACKEND_DRIVER", "supabase")
	t.Setenv("BACKEND_URL", "https://abc.supabase.co")
	t.Setenv("BACKEND_KEY", "")
	t.Cleanup(func() { os.Unsetenv("CLINIC_TIMEZONE") })

	cfg, err := New(path)

	require.NoError(t, err)
	assert.Equal(t, "America/Manaus", cfg.Clinic.Timezone)
	assert.Equal(t, []string{"BACKEND_KEY"}, cfg.MissingBackendKeys())
}

func TestNew_MissingEnvFileIsIgnored(t *testing.T) {
	t.Setenv("BACKEND_DRIVER", "postgres")

	_, err := New(filepath.Join(t.TempDir(), "absent.env"))

	assert.NoError(t, err)
}

func TestMissingBackendKeys_Placeholder(t *testing.T) {
	cfg := Config{Backend: BackendConfig{Driver: DriverSupabase, URL: "https://seu-projeto.supabase.co", Key: "k"}}

	assert.Equal(t, []string{"BACKEND_URL"}, cfg.MissingBackendKeys())
}

func TestBusinessConfig_OptionalValues(t *testing.T) {
	b := BusinessConfig{NetMargin: "0.32"}

	margin, err := b.NetMarginValue()
	require.NoError(t, err)
	require.NotNil(t, margin)
	assert.InDelta(t, 0.32, *margin, 1e-9)

	ticket, err := b.AverageTicketValue()
	require.NoError(t, err)
	assert.Nil(t, ticket)
}

func TestLocation(t *testing.T) {
	cfg := Config{Clinic: ClinicConfig{Timezone: "Not/AZone"}}
	_, err := cfg.Location()
	assert.Error(t, err)

	cfg.Clinic.Timezone = "America/Sao_Paulo"
	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "America/Sao_Paulo", loc.String())
}
