package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dbtgov.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultRulesFileName, cfg.RulesFile)
	assert.Equal(t, DefaultOutputFileName, cfg.OutputPath)
	assert.Equal(t, DefaultStateFile, cfg.StatePath)
	assert.Equal(t, DefaultOutput, cfg.Output)
	assert.False(t, cfg.NoHistory)
	assert.False(t, cfg.Verbose)
}

func TestLoadConfigFromFile(t *testing.T) {
	path := writeConfigFile(t, `project_path: ./analytics
rules_file: team-rules.yml
output_path: out/results.json
verbose: true
`)

	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)

	assert.Equal(t, "./analytics", cfg.ProjectPath)
	assert.Equal(t, "team-rules.yml", cfg.RulesFile)
	assert.Equal(t, "out/results.json", cfg.OutputPath)
	assert.True(t, cfg.Verbose)
	assert.Equal(t, path, GetConfigFileUsed())
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config file not found")
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	path := writeConfigFile(t, "rules_file: from-file.yml\n")
	t.Setenv("DBTGOV_RULES_FILE", "from-env.yml")

	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "from-env.yml", cfg.RulesFile)
}

func TestLoadConfigFlagsOverrideEnv(t *testing.T) {
	t.Setenv("DBTGOV_RULES_FILE", "from-env.yml")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("rules-file", "", "")
	flags.String("project-path", "", "")
	require.NoError(t, flags.Parse([]string{"--rules-file", "from-flag.yml"}))

	cfg, err := LoadConfig("", flags)
	require.NoError(t, err)
	assert.Equal(t, "from-flag.yml", cfg.RulesFile)
	assert.Empty(t, cfg.ProjectPath, "unchanged flags must not override")
}

func TestGetProjectPaths(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		want    []string
		wantErr bool
	}{
		{
			name: "single path wins",
			cfg:  Config{ProjectPath: "./a", ProjectPaths: []string{"./b", "./c"}},
			want: []string{"./a"},
		},
		{
			name: "path list",
			cfg:  Config{ProjectPaths: []string{"./b", "./c"}},
			want: []string{"./b", "./c"},
		},
		{
			name:    "nothing configured",
			cfg:     Config{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.cfg.GetProjectPaths()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
