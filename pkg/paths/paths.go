// Package paths provides centralized path handling for aidots: the
// install root holding the shared tool configurations, the project
// root they are linked into, and the XDG directories used for state.
package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/aidots/aidots/pkg/errors"
)

// Environment variable names
const (
	// EnvInstallRoot overrides the install root location
	EnvInstallRoot = "AIDOTS_ROOT"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

// Default directories and files
const (
	// AidotsDirName is the directory name for aidots-specific files
	AidotsDirName = "aidots"

	// OverrideConfigFile is the optional per-root configuration file
	OverrideConfigFile = "aidots.toml"

	// LogFileName is the name of the log file
	LogFileName = "aidots.log"

	// gitMarker identifies a version-control root while walking up
	gitMarker = ".git"
)

// Paths resolves every location aidots reads or writes. The install
// root is the directory holding the shared configurations (typically a
// git submodule inside the project); the project root is the nearest
// ancestor carrying a version-control marker, falling back to the
// install root's parent.
type Paths struct {
	installRoot  string
	projectRoot  string
	usedFallback bool
}

// New creates a Paths instance for the given install root. An empty
// root falls back to AIDOTS_ROOT and then the current working
// directory. The project root is resolved once, here.
func New(installRoot string) (*Paths, error) {
	if installRoot == "" {
		installRoot = os.Getenv(EnvInstallRoot)
	}
	if installRoot == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrRootAccess, "failed to get current directory")
		}
		installRoot = cwd
	}

	installRoot = ExpandHome(installRoot)
	absRoot, err := filepath.Abs(installRoot)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrRootAccess, "failed to resolve install root %s", installRoot)
	}

	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrRootInvalid, "install root %s is not accessible", absRoot)
	}
	if !info.IsDir() {
		return nil, errors.Newf(errors.ErrRootInvalid, "install root %s is not a directory", absRoot)
	}

	projectRoot, usedFallback := findProjectRoot(absRoot)

	return &Paths{
		installRoot:  absRoot,
		projectRoot:  projectRoot,
		usedFallback: usedFallback,
	}, nil
}

// findProjectRoot walks up from the install root looking for a
// directory containing a version-control marker. The install root
// itself is skipped: the shared configs usually live in their own
// repository (a submodule), and the project is the repo above it.
// If no marker is found the install root's parent is used.
func findProjectRoot(installRoot string) (string, bool) {
	dir := filepath.Dir(installRoot)
	for {
		if _, err := os.Lstat(filepath.Join(dir, gitMarker)); err == nil {
			return dir, false
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return filepath.Dir(installRoot), true
		}
		dir = parent
	}
}

// ExpandHome expands a leading ~ to the user's home directory
func ExpandHome(path string) string {
	if path == "" {
		return path
	}

	if path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			homeDir = os.Getenv(EnvHome)
			if homeDir == "" {
				return path
			}
		}

		if len(path) == 1 {
			return homeDir
		}

		if path[1] == '/' || path[1] == filepath.Separator {
			return filepath.Join(homeDir, path[2:])
		}

		// ~something (not the user's home)
		return path
	}

	return path
}

// InstallRoot returns the directory holding the shared configurations
func (p *Paths) InstallRoot() string {
	return p.installRoot
}

// ProjectRoot returns the directory the configurations are linked into
func (p *Paths) ProjectRoot() string {
	return p.projectRoot
}

// UsedFallback reports whether no version-control marker was found and
// the install root's parent was used as the project root
func (p *Paths) UsedFallback() bool {
	return p.usedFallback
}

// SourcePath maps an install-root-relative source to an absolute path
func (p *Paths) SourcePath(rel string) string {
	return filepath.Join(p.installRoot, rel)
}

// TargetPath maps a project-root-relative target to an absolute path
func (p *Paths) TargetPath(rel string) string {
	return filepath.Join(p.projectRoot, rel)
}

// SessionsDir returns the absolute session record directory for the
// configured directory name
func (p *Paths) SessionsDir(name string) string {
	return filepath.Join(p.projectRoot, name)
}

// OverrideConfigPath returns the path of the optional per-root
// configuration file
func (p *Paths) OverrideConfigPath() string {
	return filepath.Join(p.installRoot, OverrideConfigFile)
}

// DataDir returns the XDG data directory for aidots
func (p *Paths) DataDir() string {
	return filepath.Join(xdg.DataHome, AidotsDirName)
}

// StateDir returns the XDG state directory for aidots
func (p *Paths) StateDir() string {
	return filepath.Join(xdg.StateHome, AidotsDirName)
}

// LogFilePath returns the path of the aidots log file
func (p *Paths) LogFilePath() string {
	return filepath.Join(p.StateDir(), LogFileName)
}
