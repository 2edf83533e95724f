// Package types defines the shared data model for aidots: the static
// description of each managed tool, the observed state of its target
// path, and the per-tool results reported back to the CLI.
package types

// ToolKind describes how a tool's configuration is installed.
type ToolKind string

const (
	// KindSymlink installs the tool config as a symlink from the
	// project into the shared install root.
	KindSymlink ToolKind = "symlink"

	// KindMergeFile installs the tool config by appending it to a
	// single global file outside the project tree.
	KindMergeFile ToolKind = "merge-file"
)

// ToolDefinition is the static description of one managed tool's
// configuration. Source is relative to the install root; Target is
// relative to the project root for symlink tools and a home-relative
// or absolute path for merge-file tools. Definitions are immutable
// during a run.
type ToolDefinition struct {
	Name      string   `koanf:"name"`
	Source    string   `koanf:"source"`
	Target    string   `koanf:"target"`
	Kind      ToolKind `koanf:"kind"`
	RefMarker string   `koanf:"ref_marker"`
}

// LinkState is the observed filesystem state of a tool's target path.
// It is inspected fresh on every run and never persisted.
type LinkState string

const (
	StateAbsent      LinkState = "absent"
	StateLinkToUs    LinkState = "link-to-us"
	StateLinkToOther LinkState = "link-to-other"
	StateRegularPath LinkState = "regular-path"
)

// Action selects the direction of a reconciliation run.
type Action string

const (
	ActionInstall   Action = "install"
	ActionUninstall Action = "uninstall"
)

// ResultStatus categorizes the outcome of one per-tool step.
type ResultStatus string

const (
	StatusLinked   ResultStatus = "linked"
	StatusMerged   ResultStatus = "merged"
	StatusCopied   ResultStatus = "copied"
	StatusRemoved  ResultStatus = "removed"
	StatusBackedUp ResultStatus = "backed-up"
	StatusWarning  ResultStatus = "warning"
	StatusNoop     ResultStatus = "no-op"
)

// Result reports what the reconciler did (or declined to do) for one
// tool. Warnings and no-ops are results, not errors: the run continues
// and the process still exits zero.
type Result struct {
	Tool    string
	Status  ResultStatus
	Message string
}

// IsWarning reports whether the result should be surfaced with a
// warning prefix rather than a checkmark.
func (r Result) IsWarning() bool {
	return r.Status == StatusWarning
}
