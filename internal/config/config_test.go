package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("", "")
	require.NoError(t, err)

	assert.Equal(t, "data", cfg.Paths.DataDir)
	assert.Equal(t, filepath.Join("data", "raw"), cfg.Paths.RawDir)
	assert.Equal(t, filepath.Join("data", "staging"), cfg.Paths.StagingDir)
	assert.Equal(t, filepath.Join("data", "dw"), cfg.Paths.WarehouseDir)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Output)

	require.Len(t, cfg.Periods, 3)
	assert.Equal(t, "2025-01", cfg.Periods[0].Name)
	assert.Equal(t, "01_Exportaciones_2025_Enero.xlsx", cfg.Periods[0].FileName)
	assert.Equal(t, "2025-03", cfg.Periods[2].Name)
}

func TestLoadDataDirOverride(t *testing.T) {
	cfg, err := Load("", "/tmp/exports")
	require.NoError(t, err)

	assert.Equal(t, "/tmp/exports", cfg.Paths.DataDir)
	assert.Equal(t, filepath.Join("/tmp/exports", "raw"), cfg.Paths.RawDir)
	assert.Equal(t, filepath.Join("/tmp/exports", "dw"), cfg.Paths.WarehouseDir)
}

func TestLoadFromYAMLFile(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	content := `
paths:
  data_dir: /srv/exportdw
logging:
  level: debug
periods:
  - name: "2024-12"
    file_name: "12_Exportaciones_2024_Diciembre.xlsx"
`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))

	cfg, err := Load(configPath, "")
	require.NoError(t, err)

	assert.Equal(t, "/srv/exportdw", cfg.Paths.DataDir)
	assert.Equal(t, filepath.Join("/srv/exportdw", "staging"), cfg.Paths.StagingDir)
	assert.Equal(t, "debug", cfg.Logging.Level)
	require.Len(t, cfg.Periods, 1)
	assert.Equal(t, "2024-12", cfg.Periods[0].Name)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"), "")
	require.NoError(t, err)
	assert.Equal(t, "data", cfg.Paths.DataDir)
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name: "invalid log level",
			content: `
logging:
  level: verbose
`,
		},
		{
			name: "period missing file name",
			content: `
periods:
  - name: "2025-01"
`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(configPath, []byte(tt.content), 0644))

			_, err := Load(configPath, "")
			assert.Error(t, err)
			assert.Contains(t, err.Error(), "validation")
		})
	}
}

func TestPathHelpers(t *testing.T) {
	cfg, err := Load("", "")
	require.NoError(t, err)

	p := Period{Name: "2025-02", FileName: "f.xlsx"}
	assert.Equal(t, filepath.Join("data", "raw", "2025-02", "f.xlsx"), cfg.RawFilePath(p))
	assert.Equal(t, filepath.Join("data", "staging", "staging_2025-02.csv"), cfg.StagingFilePath(p))
	assert.Equal(t, filepath.Join("data", "dw", "core_exportaciones.parquet"), cfg.CorePath())
	assert.Equal(t, filepath.Join("data", "dw", "dw_exportaciones.db"), cfg.WarehousePath())
}

func TestEnsureDirectories(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load("", dir)
	require.NoError(t, err)

	require.NoError(t, cfg.EnsureDirectories())
	assert.DirExists(t, cfg.Paths.StagingDir)
	assert.DirExists(t, cfg.Paths.WarehouseDir)
	assert.NoDirExists(t, cfg.Paths.RawDir, "raw dir is the operator's responsibility")
}
