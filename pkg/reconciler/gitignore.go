package reconciler

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/aidots/aidots/pkg/errors"
	"github.com/aidots/aidots/pkg/types"
)

const gitignoreName = ".gitignore"

// ensureIgnoreEntry appends entry to the project's .gitignore unless
// it is already listed. Returns whether the file changed.
func ensureIgnoreEntry(fs types.FS, projectRoot, entry string) (bool, error) {
	path := filepath.Join(projectRoot, gitignoreName)

	var content string
	data, err := fs.ReadFile(path)
	if err == nil {
		content = string(data)
	} else if !os.IsNotExist(err) {
		return false, errors.Wrapf(err, errors.ErrFileAccess, "failed to read %s", path)
	}

	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) == entry {
			return false, nil
		}
	}

	if content != "" && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	content += entry + "\n"

	if err := fs.WriteFile(path, []byte(content), 0644); err != nil {
		return false, errors.Wrapf(err, errors.ErrFileWrite, "failed to update %s", path)
	}
	return true, nil
}

// removeIgnoreEntry drops entry from the project's .gitignore if
// present. Returns whether the file changed.
func removeIgnoreEntry(fs types.FS, projectRoot, entry string) (bool, error) {
	path := filepath.Join(projectRoot, gitignoreName)

	data, err := fs.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, errors.Wrapf(err, errors.ErrFileAccess, "failed to read %s", path)
	}

	lines := strings.Split(string(data), "\n")
	kept := make([]string, 0, len(lines))
	changed := false
	for _, line := range lines {
		if strings.TrimSpace(line) == entry {
			changed = true
			continue
		}
		kept = append(kept, line)
	}

	if !changed {
		return false, nil
	}

	if err := fs.WriteFile(path, []byte(strings.Join(kept, "\n")), 0644); err != nil {
		return false, errors.Wrapf(err, errors.ErrFileWrite, "failed to update %s", path)
	}
	return true, nil
}
