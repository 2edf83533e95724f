package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aidots/aidots/pkg/config"
	"github.com/aidots/aidots/pkg/errors"
	"github.com/aidots/aidots/pkg/types"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, "ai-sessions", cfg.SessionsDir)
	assert.Equal(t, []string{"claude", "cursor", "gemini", "agents", "codex"}, cfg.ToolNames())

	claude, ok := cfg.Tool("claude")
	require.True(t, ok)
	assert.Equal(t, types.KindSymlink, claude.Kind)
	assert.Equal(t, ".claude", claude.Target)

	codex, ok := cfg.Tool("codex")
	require.True(t, ok)
	assert.Equal(t, types.KindMergeFile, codex.Kind)
	assert.Equal(t, "~/.codex/config.toml", codex.Target)
	assert.Equal(t, ".codex-config", codex.RefMarker)
}

func TestLoad_MissingOverrideFileIsIgnored(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "aidots.toml"))
	require.NoError(t, err)
	assert.Len(t, cfg.Tools, 5)
}

func TestLoad_OverrideReplacesTools(t *testing.T) {
	override := filepath.Join(t.TempDir(), "aidots.toml")
	content := `
sessions_dir = "logs"

[[tools]]
name = "claude"
source = "claude"
target = ".claude"
kind = "symlink"
`
	require.NoError(t, os.WriteFile(override, []byte(content), 0644))

	cfg, err := config.Load(override)
	require.NoError(t, err)

	assert.Equal(t, "logs", cfg.SessionsDir)
	assert.Equal(t, []string{"claude"}, cfg.ToolNames())
}

func TestLoad_EnvOverridesSessionsDir(t *testing.T) {
	t.Setenv("AIDOTS_SESSIONS_DIR", "notes/sessions")

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, "notes/sessions", cfg.SessionsDir)
}

func TestLoad_InvalidOverrides(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name: "unknown kind",
			content: `
[[tools]]
name = "claude"
source = "claude"
target = ".claude"
kind = "hardlink"
`,
		},
		{
			name: "duplicate tool",
			content: `
[[tools]]
name = "claude"
source = "claude"
target = ".claude"
kind = "symlink"

[[tools]]
name = "claude"
source = "claude2"
target = ".claude2"
kind = "symlink"
`,
		},
		{
			name: "missing target",
			content: `
[[tools]]
name = "claude"
source = "claude"
kind = "symlink"
`,
		},
		{
			name: "merge tool without ref marker",
			content: `
[[tools]]
name = "codex"
source = "codex/config.toml"
target = "~/.codex/config.toml"
kind = "merge-file"
`,
		},
		{
			name:    "empty tool list",
			content: `tools = []`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			override := filepath.Join(t.TempDir(), "aidots.toml")
			require.NoError(t, os.WriteFile(override, []byte(tt.content), 0644))

			_, err := config.Load(override)
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, errors.ErrConfigValid), "got %v", err)
		})
	}
}

func TestLoad_MalformedTOML(t *testing.T) {
	override := filepath.Join(t.TempDir(), "aidots.toml")
	require.NoError(t, os.WriteFile(override, []byte("tools = ["), 0644))

	_, err := config.Load(override)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigLoad))
}
