// Package reconciler computes and applies the filesystem actions that
// bring a project's managed tool configurations into the desired
// installed or uninstalled state.
//
// Every per-tool step is independently idempotent: re-running an
// install or uninstall converges to the same end state, so an
// interrupted multi-tool run is repaired by running the command again.
// There is no transaction and no rollback.
package reconciler

import (
	"io/fs"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/aidots/aidots/pkg/errors"
	"github.com/aidots/aidots/pkg/logging"
	"github.com/aidots/aidots/pkg/paths"
	"github.com/aidots/aidots/pkg/types"
)

// TimestampLayout is used for backup suffixes and merge markers.
// Second resolution; colliding names get a numeric disambiguator.
const TimestampLayout = "2006-01-02_15-04-05"

// Options tune a single Apply run.
type Options struct {
	// NoBackup deletes existing regular files/dirs at target paths
	// instead of renaming them aside.
	NoBackup bool

	// LogToGit keeps the session directory out of the project's
	// .gitignore so records are committed with the project.
	LogToGit bool

	// SessionsDir is the project-relative session directory name used
	// for the gitignore toggle. Empty skips the toggle entirely.
	SessionsDir string

	// RemoveGlobal opts an uninstall into deleting the global
	// merge-file config. The textual merge cannot be undone line by
	// line, so this is never the default.
	RemoveGlobal bool

	// RemoveSessions opts an uninstall into deleting the session
	// directory and reverting the gitignore toggle.
	RemoveSessions bool

	// Now overrides the clock, for deterministic tests.
	Now func() time.Time
}

func (o Options) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

// Reconciler applies install/uninstall actions for managed tools. All
// side effects are confined to the filesystem under the project root
// plus, for merge-file tools, their fixed global target path.
type Reconciler struct {
	fs     types.FS
	paths  *paths.Paths
	logger zerolog.Logger
}

// New creates a Reconciler operating through the given filesystem.
func New(filesystem types.FS, p *paths.Paths) *Reconciler {
	return &Reconciler{
		fs:     filesystem,
		paths:  p,
		logger: logging.GetLogger("reconciler"),
	}
}

// Apply runs the given action for every tool, in order, and returns
// one Result per step. Warnings and no-ops are reported as results;
// only unrecoverable filesystem failures return an error, alongside
// the results accumulated so far.
func (r *Reconciler) Apply(action types.Action, tools []types.ToolDefinition, opts Options) ([]types.Result, error) {
	results := make([]types.Result, 0, len(tools)+1)

	for _, tool := range tools {
		var (
			result types.Result
			err    error
		)

		switch {
		case action == types.ActionInstall && tool.Kind == types.KindSymlink:
			result, err = r.installSymlink(tool, opts)
		case action == types.ActionInstall && tool.Kind == types.KindMergeFile:
			result, err = r.installMerge(tool, opts)
		case action == types.ActionUninstall && tool.Kind == types.KindSymlink:
			result, err = r.uninstallSymlink(tool)
		case action == types.ActionUninstall && tool.Kind == types.KindMergeFile:
			result, err = r.uninstallMerge(tool, opts)
		default:
			err = errors.Newf(errors.ErrInvalidInput, "tool %q has unsupported kind %q", tool.Name, tool.Kind)
		}

		if err != nil {
			return results, err
		}

		r.logger.Info().
			Str("tool", tool.Name).
			Str("action", string(action)).
			Str("status", string(result.Status)).
			Msg("Tool reconciled")
		results = append(results, result)
	}

	if opts.SessionsDir != "" {
		sessionResult, err := r.reconcileSessions(action, opts)
		if err != nil {
			return results, err
		}
		if sessionResult != nil {
			results = append(results, *sessionResult)
		}
	}

	return results, nil
}

// Inspect reports the current state of a tool's target path without
// modifying anything.
func (r *Reconciler) Inspect(tool types.ToolDefinition) types.LinkState {
	return r.inspect(tool, r.targetPath(tool))
}

// installSymlink reconciles one symlink-kind tool:
//
//  1. An existing symlink (ours or anyone's) is removed and re-linked.
//  2. An existing regular file/dir is renamed aside as a backup, or
//     deleted when backups are disabled.
//  3. The link destination is expressed relative to the target's
//     parent so the link survives relocating the project.
func (r *Reconciler) installSymlink(tool types.ToolDefinition, opts Options) (types.Result, error) {
	sourceAbs := r.paths.SourcePath(tool.Source)
	if _, err := r.fs.Stat(sourceAbs); err != nil {
		return types.Result{}, errors.Wrapf(err, errors.ErrRootInvalid,
			"install root is missing source for tool %q at %s", tool.Name, sourceAbs)
	}

	targetAbs := r.targetPath(tool)
	backupNote := ""

	switch r.inspect(tool, targetAbs) {
	case types.StateLinkToUs, types.StateLinkToOther:
		if err := r.fs.Remove(targetAbs); err != nil {
			return types.Result{}, errors.Wrapf(err, errors.ErrFileAccess,
				"failed to remove existing symlink at %s", targetAbs)
		}
	case types.StateRegularPath:
		if opts.NoBackup {
			if err := r.fs.RemoveAll(targetAbs); err != nil {
				return types.Result{}, errors.Wrapf(err, errors.ErrFileAccess,
					"failed to remove existing path at %s", targetAbs)
			}
		} else {
			backupPath := r.backupPath(targetAbs, opts.now())
			if err := r.fs.Rename(targetAbs, backupPath); err != nil {
				return types.Result{}, errors.Wrapf(err, errors.ErrFileAccess,
					"failed to back up %s", targetAbs)
			}
			backupNote = " (backed up to " + filepath.Base(backupPath) + ")"
		}
	case types.StateAbsent:
		// Nothing to clear
	}

	if err := r.fs.MkdirAll(filepath.Dir(targetAbs), 0755); err != nil {
		return types.Result{}, errors.Wrapf(err, errors.ErrDirCreate,
			"failed to create parent directory for %s", targetAbs)
	}

	linkDest, err := filepath.Rel(filepath.Dir(targetAbs), sourceAbs)
	if err != nil {
		// Source and target on paths with no common prefix: fall back
		// to the absolute source.
		linkDest = sourceAbs
	}

	if err := r.fs.Symlink(linkDest, targetAbs); err != nil {
		return types.Result{}, errors.Wrapf(err, errors.ErrSymlinkCreate,
			"failed to link %s", targetAbs)
	}

	return types.Result{
		Tool:    tool.Name,
		Status:  types.StatusLinked,
		Message: tool.Target + " -> " + linkDest + backupNote,
	}, nil
}

// uninstallSymlink removes a tool's symlink only when the link is
// recognized as ours. Foreign links and regular paths are preserved
// and reported as warnings; an absent target is a no-op.
func (r *Reconciler) uninstallSymlink(tool types.ToolDefinition) (types.Result, error) {
	targetAbs := r.targetPath(tool)

	switch r.inspect(tool, targetAbs) {
	case types.StateAbsent:
		return types.Result{
			Tool:    tool.Name,
			Status:  types.StatusNoop,
			Message: tool.Target + " not installed",
		}, nil

	case types.StateLinkToUs:
		if err := r.fs.Remove(targetAbs); err != nil {
			return types.Result{}, errors.Wrapf(err, errors.ErrFileAccess,
				"failed to remove symlink at %s", targetAbs)
		}
		return types.Result{
			Tool:    tool.Name,
			Status:  types.StatusRemoved,
			Message: "removed " + tool.Target,
		}, nil

	case types.StateLinkToOther:
		return types.Result{
			Tool:    tool.Name,
			Status:  types.StatusWarning,
			Message: tool.Target + " is a symlink to an unrecognized location, leaving it alone",
		}, nil

	default:
		return types.Result{
			Tool:    tool.Name,
			Status:  types.StatusWarning,
			Message: tool.Target + " is not a symlink, leaving it alone",
		}, nil
	}
}

// reconcileSessions applies the session-directory side effects of a
// run: the gitignore toggle on install, and the opt-in removal on
// uninstall.
func (r *Reconciler) reconcileSessions(action types.Action, opts Options) (*types.Result, error) {
	entry := opts.SessionsDir + "/"

	switch action {
	case types.ActionInstall:
		if opts.LogToGit {
			changed, err := removeIgnoreEntry(r.fs, r.paths.ProjectRoot(), entry)
			if err != nil {
				return nil, err
			}
			if changed {
				return &types.Result{
					Tool:    "sessions",
					Status:  types.StatusRemoved,
					Message: opts.SessionsDir + " no longer git-ignored",
				}, nil
			}
			return nil, nil
		}

		changed, err := ensureIgnoreEntry(r.fs, r.paths.ProjectRoot(), entry)
		if err != nil {
			return nil, err
		}
		if changed {
			return &types.Result{
				Tool:    "sessions",
				Status:  types.StatusLinked,
				Message: opts.SessionsDir + " added to .gitignore",
			}, nil
		}
		return nil, nil

	case types.ActionUninstall:
		if !opts.RemoveSessions {
			return nil, nil
		}
		sessionsDir := r.paths.SessionsDir(opts.SessionsDir)
		if err := r.fs.RemoveAll(sessionsDir); err != nil {
			return nil, errors.Wrapf(err, errors.ErrFileAccess,
				"failed to remove session directory %s", sessionsDir)
		}
		if _, err := removeIgnoreEntry(r.fs, r.paths.ProjectRoot(), entry); err != nil {
			return nil, err
		}
		return &types.Result{
			Tool:    "sessions",
			Status:  types.StatusRemoved,
			Message: "removed " + opts.SessionsDir,
		}, nil
	}

	return nil, nil
}

// inspect classifies the target path. Link ownership is a substring
// heuristic on the link destination: good enough to tell our links
// from a hand-made one, not a provenance proof.
func (r *Reconciler) inspect(tool types.ToolDefinition, targetAbs string) types.LinkState {
	info, err := r.fs.Lstat(targetAbs)
	if err != nil {
		return types.StateAbsent
	}

	if info.Mode()&fs.ModeSymlink == 0 {
		return types.StateRegularPath
	}

	dest, err := r.fs.Readlink(targetAbs)
	if err == nil && strings.Contains(dest, tool.Source) {
		return types.StateLinkToUs
	}
	return types.StateLinkToOther
}

// targetPath resolves a tool's target to an absolute path. Symlink
// targets are project-relative; merge-file targets may be global
// (home-relative or absolute).
func (r *Reconciler) targetPath(tool types.ToolDefinition) string {
	target := paths.ExpandHome(tool.Target)
	if filepath.IsAbs(target) {
		return target
	}
	return r.paths.TargetPath(target)
}

// backupPath returns an unused sibling path of the form
// <path>.backup.<timestamp>, extending it with a counter when a backup
// from the same second already exists.
func (r *Reconciler) backupPath(path string, now time.Time) string {
	base := path + ".backup." + now.Format(TimestampLayout)
	candidate := base
	for n := 2; ; n++ {
		if _, err := r.fs.Lstat(candidate); err != nil {
			return candidate
		}
		candidate = base + "." + strconv.Itoa(n)
	}
}
