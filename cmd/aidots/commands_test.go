package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupProject builds a project with a .git marker, an install root
// with every tool source, and an aidots.toml that points the codex
// merge target into the test's temp space.
func setupProject(t *testing.T) (projectRoot, installRoot string) {
	t.Helper()
	tmp := t.TempDir()
	projectRoot = filepath.Join(tmp, "project")
	installRoot = filepath.Join(projectRoot, "shared")

	require.NoError(t, os.MkdirAll(filepath.Join(projectRoot, ".git"), 0755))

	sources := map[string]string{
		"claude/CLAUDE.md":     "# claude\n",
		"cursor/rules.md":      "# cursor\n",
		"gemini/settings.json": "{}\n",
		"agents/AGENTS.md":     "# agents\n",
		"codex/config.toml":    "approval_policy = \"never\"\n",
	}
	for rel, content := range sources {
		path := filepath.Join(installRoot, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}

	codexGlobal := filepath.Join(tmp, "home", ".codex", "config.toml")
	override := fmt.Sprintf(`
[[tools]]
name = "claude"
source = "claude"
target = ".claude"
kind = "symlink"

[[tools]]
name = "cursor"
source = "cursor"
target = ".cursor"
kind = "symlink"

[[tools]]
name = "gemini"
source = "gemini"
target = ".gemini"
kind = "symlink"

[[tools]]
name = "agents"
source = "agents/AGENTS.md"
target = "AGENTS.md"
kind = "symlink"

[[tools]]
name = "codex"
source = "codex/config.toml"
target = %q
kind = "merge-file"
ref_marker = ".codex-config"
`, codexGlobal)
	require.NoError(t, os.WriteFile(filepath.Join(installRoot, "aidots.toml"), []byte(override), 0644))

	return projectRoot, installRoot
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestInstallCommand(t *testing.T) {
	projectRoot, installRoot := setupProject(t)

	out, err := runCommand(t, "install", "--root", installRoot)
	require.NoError(t, err)

	for _, rel := range []string{".claude", ".cursor", ".gemini", "AGENTS.md"} {
		info, err := os.Lstat(filepath.Join(projectRoot, rel))
		require.NoError(t, err, "target %s", rel)
		assert.NotZero(t, info.Mode()&os.ModeSymlink, "target %s should be a symlink", rel)
	}

	// One summary line per tool plus the gitignore toggle
	assert.Equal(t, 6, strings.Count(out, "\n"))
	for _, tool := range []string{"claude", "cursor", "gemini", "agents", "codex"} {
		assert.Contains(t, out, tool)
	}
}

func TestInstallCommand_SingleTool(t *testing.T) {
	projectRoot, installRoot := setupProject(t)

	_, err := runCommand(t, "install", "--root", installRoot, "--tool", "claude")
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(projectRoot, ".claude", "CLAUDE.md"))
	_, statErr := os.Lstat(filepath.Join(projectRoot, ".cursor"))
	assert.True(t, os.IsNotExist(statErr), "other tools must not be touched")
}

func TestInstallCommand_UnknownTool(t *testing.T) {
	_, installRoot := setupProject(t)

	_, err := runCommand(t, "install", "--root", installRoot, "--tool", "emacs")
	require.Error(t, err)
}

func TestInstallCommand_UnknownFlag(t *testing.T) {
	_, installRoot := setupProject(t)

	_, err := runCommand(t, "install", "--root", installRoot, "--frobnicate")
	require.Error(t, err)
}

func TestUninstallCommand_RoundTrip(t *testing.T) {
	projectRoot, installRoot := setupProject(t)

	_, err := runCommand(t, "install", "--root", installRoot)
	require.NoError(t, err)

	_, err = runCommand(t, "uninstall", "--root", installRoot)
	require.NoError(t, err)

	for _, rel := range []string{".claude", ".cursor", ".gemini", "AGENTS.md"} {
		_, statErr := os.Lstat(filepath.Join(projectRoot, rel))
		assert.True(t, os.IsNotExist(statErr), "%s should be gone", rel)
	}
}

func TestStatusCommand(t *testing.T) {
	_, installRoot := setupProject(t)

	out, err := runCommand(t, "status", "--root", installRoot)
	require.NoError(t, err)
	assert.Contains(t, out, "absent")

	_, err = runCommand(t, "install", "--root", installRoot)
	require.NoError(t, err)

	out, err = runCommand(t, "status", "--root", installRoot)
	require.NoError(t, err)
	assert.Contains(t, out, "link-to-us")
	assert.NotContains(t, out, "absent")
}

func TestLogSessionAndSessionsList(t *testing.T) {
	projectRoot, installRoot := setupProject(t)

	out, err := runCommand(t, "log-session",
		"--root", installRoot,
		"--tool", "claude",
		"--slug", "fix build",
		"--outcome", "green again")
	require.NoError(t, err)
	assert.Contains(t, out, "Session recorded:")

	entries, err := os.ReadDir(filepath.Join(projectRoot, "ai-sessions"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].Name(), "_fix-build.md")

	out, err = runCommand(t, "sessions", "list", "--root", installRoot)
	require.NoError(t, err)
	assert.Contains(t, out, entries[0].Name())
}

func TestLogSessionCommand_RequiresTool(t *testing.T) {
	_, installRoot := setupProject(t)

	_, err := runCommand(t, "log-session", "--root", installRoot)
	require.Error(t, err)
}
