package main

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort = "Shared AI-assistant configuration installer"
	MsgRootLong = `aidots distributes shared configuration for AI coding-assistant tools
and keeps a project's checkout reconciled with it: tool configs are
symlinked into place, the global Codex config is merged by append, and
assistant sessions are recorded as markdown files.`

	MsgInstallShort = "Install managed tool configurations into the project"
	MsgInstallLong = `Install reconciles every managed tool (or one, with --tool) into the
installed state: existing symlinks are re-linked, regular files are
backed up aside (or deleted with --no-backup), and the global
merge-file config is copied or appended.`

	MsgUninstallShort = "Remove managed tool configurations from the project"
	MsgUninstallLong = `Uninstall removes the symlinks aidots owns. Links pointing elsewhere
and regular files are left alone with a warning. The global merge-file
config is kept unless --remove-codex is given.`

	MsgStatusShort     = "Show the current state of every managed tool"
	MsgLogSessionShort = "Record one assistant session as a markdown file"
	MsgSessionsShort   = "Inspect recorded assistant sessions"
	MsgSessionsList    = "List recorded session files"
	MsgSessionsShow    = "Render one recorded session"
	MsgCompletionShort = "Generate shell completion script"
	MsgManShort        = "Generate man page"

	// Status messages
	MsgNoSessions   = "No sessions recorded."
	MsgSessionSaved = "Session recorded: %s\n"

	// Flag descriptions
	MsgFlagVerbose        = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagRoot           = "Install root holding the shared configurations (default: $AIDOTS_ROOT or cwd)"
	MsgFlagNoBackup       = "Delete existing files at target paths instead of backing them up"
	MsgFlagTool           = "Restrict the run to one managed tool by name"
	MsgFlagLogToGit       = "Keep the session directory out of .gitignore so records are committed"
	MsgFlagRemoveCodex    = "Also delete the global merge-file config"
	MsgFlagRemoveSessions = "Also delete the session directory and revert the gitignore toggle"
	MsgFlagSessionTool    = "Name of the assistant tool the session belongs to"
	MsgFlagSessionSlug    = "Short identifier used in the record filename"
	MsgFlagSessionPrompt  = "The prompt that started the session"
	MsgFlagSessionPlan    = "The plan the assistant produced"
	MsgFlagSessionFiles   = "Files changed during the session (repeatable)"
	MsgFlagSessionOutcome = "Free-text outcome of the session"
)
