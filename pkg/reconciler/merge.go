package reconciler

import (
	"path/filepath"
	"time"

	gotoml "github.com/pelletier/go-toml/v2"

	"github.com/aidots/aidots/pkg/errors"
	"github.com/aidots/aidots/pkg/types"
)

// refMarker is the local reference file written into the project root
// for a merge-file tool. It records where the merged global config
// lives, purely for human discoverability.
type refMarker struct {
	Tool       string `toml:"tool"`
	MergedPath string `toml:"merged_path"`
	MergedAt   string `toml:"merged_at"`
}

// installMerge reconciles a merge-file tool. An absent global target
// gets a verbatim copy of the source. An existing one is backed up
// (unless disabled) and the source is appended after a timestamped
// comment marker. The merge is a textual append, not a structural
// one: trailing duplicate keys are assumed acceptable in the target
// format.
func (r *Reconciler) installMerge(tool types.ToolDefinition, opts Options) (types.Result, error) {
	sourceAbs := r.paths.SourcePath(tool.Source)
	sourceData, err := r.fs.ReadFile(sourceAbs)
	if err != nil {
		return types.Result{}, errors.Wrapf(err, errors.ErrRootInvalid,
			"install root is missing source for tool %q at %s", tool.Name, sourceAbs)
	}

	targetAbs := r.targetPath(tool)
	now := opts.now()

	info, statErr := r.fs.Lstat(targetAbs)

	var (
		status     types.ResultStatus
		message    string
		backupNote string
	)

	if statErr != nil {
		// Fresh copy
		if err := r.fs.MkdirAll(filepath.Dir(targetAbs), 0755); err != nil {
			return types.Result{}, errors.Wrapf(err, errors.ErrDirCreate,
				"failed to create parent directory for %s", targetAbs)
		}
		if err := r.fs.WriteFile(targetAbs, sourceData, 0644); err != nil {
			return types.Result{}, errors.Wrapf(err, errors.ErrFileWrite,
				"failed to write %s", targetAbs)
		}
		status = types.StatusCopied
		message = "copied " + tool.Source + " to " + targetAbs
	} else {
		existing, err := r.fs.ReadFile(targetAbs)
		if err != nil {
			return types.Result{}, errors.Wrapf(err, errors.ErrFileAccess,
				"failed to read %s", targetAbs)
		}

		if !opts.NoBackup {
			backupPath := r.backupPath(targetAbs, now)
			if err := r.fs.WriteFile(backupPath, existing, info.Mode().Perm()); err != nil {
				return types.Result{}, errors.Wrapf(err, errors.ErrFileWrite,
					"failed to back up %s", targetAbs)
			}
			backupNote = " (backed up to " + filepath.Base(backupPath) + ")"
		}

		merged := append([]byte{}, existing...)
		merged = append(merged, []byte(mergeMarker(tool, now))...)
		merged = append(merged, sourceData...)

		if err := r.fs.WriteFile(targetAbs, merged, info.Mode().Perm()); err != nil {
			return types.Result{}, errors.Wrapf(err, errors.ErrFileWrite,
				"failed to write %s", targetAbs)
		}
		status = types.StatusMerged
		message = "appended " + tool.Source + " to " + targetAbs + backupNote
	}

	if err := r.writeRefMarker(tool, targetAbs, now); err != nil {
		return types.Result{}, err
	}

	return types.Result{Tool: tool.Name, Status: status, Message: message}, nil
}

// uninstallMerge removes the local reference marker. The merged global
// file is untouched unless the caller opted in: there is no record of
// which lines the merge appended, so unpicking it textually would be
// destructive guesswork.
func (r *Reconciler) uninstallMerge(tool types.ToolDefinition, opts Options) (types.Result, error) {
	markerPath := r.paths.TargetPath(tool.RefMarker)
	removedMarker := false

	if _, err := r.fs.Lstat(markerPath); err == nil {
		if err := r.fs.Remove(markerPath); err != nil {
			return types.Result{}, errors.Wrapf(err, errors.ErrFileAccess,
				"failed to remove reference marker %s", markerPath)
		}
		removedMarker = true
	}

	if opts.RemoveGlobal {
		targetAbs := r.targetPath(tool)
		if _, err := r.fs.Lstat(targetAbs); err == nil {
			if err := r.fs.Remove(targetAbs); err != nil {
				return types.Result{}, errors.Wrapf(err, errors.ErrFileAccess,
					"failed to remove %s", targetAbs)
			}
			return types.Result{
				Tool:    tool.Name,
				Status:  types.StatusRemoved,
				Message: "removed " + targetAbs + " and reference marker",
			}, nil
		}
	}

	if removedMarker {
		return types.Result{
			Tool:    tool.Name,
			Status:  types.StatusRemoved,
			Message: "removed reference marker, global config kept",
		}, nil
	}

	return types.Result{
		Tool:    tool.Name,
		Status:  types.StatusNoop,
		Message: tool.Name + " not installed",
	}, nil
}

// mergeMarker returns the comment line separating the existing content
// from an appended block.
func mergeMarker(tool types.ToolDefinition, now time.Time) string {
	return "\n# --- aidots: merged " + tool.Source + " " + now.Format(TimestampLayout) + " ---\n"
}

func (r *Reconciler) writeRefMarker(tool types.ToolDefinition, targetAbs string, now time.Time) error {
	marker := refMarker{
		Tool:       tool.Name,
		MergedPath: targetAbs,
		MergedAt:   now.Format(TimestampLayout),
	}

	data, err := gotoml.Marshal(marker)
	if err != nil {
		return errors.Wrapf(err, errors.ErrInternal, "failed to encode reference marker for %q", tool.Name)
	}

	markerPath := r.paths.TargetPath(tool.RefMarker)
	if err := r.fs.WriteFile(markerPath, data, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to write reference marker %s", markerPath)
	}

	return nil
}
