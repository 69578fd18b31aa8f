package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samirrijal/heritagepass/internal/core/geo"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("heritagepass-test")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "IN", cfg.Validation.PhoneRegion)
	assert.Equal(t, geo.DefaultBufferKm, cfg.Validation.ServiceAreaBufferKm)
	assert.Equal(t, ReferenceSourceConfig, cfg.Reference.Source)
	assert.Equal(t, "heritagepass-test", cfg.Telemetry.ServiceName)
	assert.Equal(t, geo.GuwahatiArea(), cfg.Geography.ServiceArea)
	assert.Equal(t, geo.GuwahatiReference(), cfg.Geography.ReferenceData())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("HERITAGEPASS_SERVER_PORT", "9090")
	t.Setenv("HERITAGEPASS_VALIDATION_PHONE_REGION", "US")

	cfg, err := Load("heritagepass-test")
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "US", cfg.Validation.PhoneRegion)
}

func TestLoadFile_Tables(t *testing.T) {
	path := filepath.Join(t.TempDir(), "heritage.yaml")
	yaml := `
server:
  port: 9000
geography:
  landmarks:
    - id: test_point
      name: Test Point
      location:
        lat: 26.18
        lng: 91.74
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	cfg, err := LoadFile("heritagepass-test", path)
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Server.Port)

	ref := cfg.Geography.ReferenceData()
	require.Len(t, ref.Landmarks, 1)
	assert.Equal(t, "test_point", ref.Landmarks[0].ID)
	assert.Equal(t, 91.74, ref.Landmarks[0].Location.Lng)
	assert.Equal(t, geo.GuwahatiReference().MeetingPoints, ref.MeetingPoints)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile("heritagepass-test", filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg, err := Load("heritagepass-test")
	require.NoError(t, err)

	cfg.Server.Port = 0
	cfg.Logging.Level = "verbose"
	cfg.Reference.Source = "s3"
	cfg.Geography.ServiceArea.Bounds.South = 30

	err = cfg.Validate()
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "server.port must be 1-65535")
	assert.Contains(t, msg, "Logging.Level")
	assert.Contains(t, msg, "Reference.Source")
	assert.Contains(t, msg, "south must be below north")
}

func TestValidate_PostgresNeedsDatabase(t *testing.T) {
	cfg, err := Load("heritagepass-test")
	require.NoError(t, err)

	cfg.Reference.Source = ReferenceSourcePostgres
	cfg.Database.Host = ""
	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database.host is required")
}
