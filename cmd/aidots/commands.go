package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/aidots/aidots/pkg/config"
	"github.com/aidots/aidots/pkg/errors"
	"github.com/aidots/aidots/pkg/filesystem"
	"github.com/aidots/aidots/pkg/logging"
	"github.com/aidots/aidots/pkg/paths"
	"github.com/aidots/aidots/pkg/reconciler"
	"github.com/aidots/aidots/pkg/session"
	"github.com/aidots/aidots/pkg/types"
)

// setup resolves paths and configuration for one command invocation.
func setup(installRoot string) (*paths.Paths, *config.Config, error) {
	p, err := paths.New(installRoot)
	if err != nil {
		return nil, nil, err
	}

	cfg, err := config.Load(p.OverrideConfigPath())
	if err != nil {
		return nil, nil, err
	}

	return p, cfg, nil
}

// selectTools returns all configured tools, or only the named one.
func selectTools(cfg *config.Config, name string) ([]types.ToolDefinition, error) {
	if name == "" {
		return cfg.Tools, nil
	}
	tool, ok := cfg.Tool(name)
	if !ok {
		return nil, errors.Newf(errors.ErrInvalidInput, "unknown tool %q (available: %v)", name, cfg.ToolNames())
	}
	return []types.ToolDefinition{tool}, nil
}

func newInstallCmd(installRoot *string) *cobra.Command {
	var (
		noBackup bool
		toolName string
		logToGit bool
	)

	cmd := &cobra.Command{
		Use:   "install",
		Short: MsgInstallShort,
		Long:  MsgInstallLong,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.GetLogger("cmd.install")

			p, cfg, err := setup(*installRoot)
			if err != nil {
				return err
			}
			tools, err := selectTools(cfg, toolName)
			if err != nil {
				return err
			}

			logger.Info().
				Str("installRoot", p.InstallRoot()).
				Str("projectRoot", p.ProjectRoot()).
				Bool("noBackup", noBackup).
				Msg("Starting install")

			rec := reconciler.New(filesystem.NewOS(), p)
			results, err := rec.Apply(types.ActionInstall, tools, reconciler.Options{
				NoBackup:    noBackup,
				LogToGit:    logToGit,
				SessionsDir: cfg.SessionsDir,
			})
			printResults(cmd.OutOrStdout(), results)
			return err
		},
	}

	cmd.Flags().BoolVar(&noBackup, "no-backup", false, MsgFlagNoBackup)
	cmd.Flags().StringVar(&toolName, "tool", "", MsgFlagTool)
	cmd.Flags().BoolVar(&logToGit, "log-to-git", false, MsgFlagLogToGit)

	return cmd
}

func newUninstallCmd(installRoot *string) *cobra.Command {
	var (
		removeCodex    bool
		removeSessions bool
	)

	cmd := &cobra.Command{
		Use:   "uninstall",
		Short: MsgUninstallShort,
		Long:  MsgUninstallLong,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.GetLogger("cmd.uninstall")

			p, cfg, err := setup(*installRoot)
			if err != nil {
				return err
			}

			logger.Info().
				Str("projectRoot", p.ProjectRoot()).
				Bool("removeCodex", removeCodex).
				Bool("removeSessions", removeSessions).
				Msg("Starting uninstall")

			rec := reconciler.New(filesystem.NewOS(), p)
			opts := reconciler.Options{
				RemoveGlobal: removeCodex,
			}
			if removeSessions {
				opts.RemoveSessions = true
				opts.SessionsDir = cfg.SessionsDir
			}
			results, err := rec.Apply(types.ActionUninstall, cfg.Tools, opts)
			printResults(cmd.OutOrStdout(), results)
			return err
		},
	}

	cmd.Flags().BoolVar(&removeCodex, "remove-codex", false, MsgFlagRemoveCodex)
	cmd.Flags().BoolVar(&removeSessions, "remove-sessions", false, MsgFlagRemoveSessions)

	return cmd
}

func newStatusCmd(installRoot *string) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: MsgStatusShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, cfg, err := setup(*installRoot)
			if err != nil {
				return err
			}

			rec := reconciler.New(filesystem.NewOS(), p)
			fmt.Fprintf(cmd.OutOrStdout(), "Project root: %s\n", p.ProjectRoot())
			for _, tool := range cfg.Tools {
				printState(cmd.OutOrStdout(), tool.Name, rec.Inspect(tool))
			}
			return nil
		},
	}
}

func newLogSessionCmd(installRoot *string) *cobra.Command {
	var entry session.Entry

	cmd := &cobra.Command{
		Use:   "log-session",
		Short: MsgLogSessionShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, cfg, err := setup(*installRoot)
			if err != nil {
				return err
			}

			recorder := session.NewRecorder(filesystem.NewOS(), p.SessionsDir(cfg.SessionsDir))
			path, err := recorder.Record(entry)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), MsgSessionSaved, path)
			return nil
		},
	}

	cmd.Flags().StringVar(&entry.Tool, "tool", "", MsgFlagSessionTool)
	cmd.Flags().StringVar(&entry.Slug, "slug", "", MsgFlagSessionSlug)
	cmd.Flags().StringVar(&entry.Prompt, "prompt", "", MsgFlagSessionPrompt)
	cmd.Flags().StringVar(&entry.Plan, "plan", "", MsgFlagSessionPlan)
	cmd.Flags().StringSliceVar(&entry.FilesChanged, "files", nil, MsgFlagSessionFiles)
	cmd.Flags().StringVar(&entry.Outcome, "outcome", "", MsgFlagSessionOutcome)
	_ = cmd.MarkFlagRequired("tool")

	return cmd
}

func newSessionsCmd(installRoot *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: MsgSessionsShort,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: MsgSessionsList,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			recorder, err := newRecorder(*installRoot)
			if err != nil {
				return err
			}

			names, err := recorder.List()
			if err != nil {
				return err
			}
			if len(names) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), MsgNoSessions)
				return nil
			}
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}

	showCmd := &cobra.Command{
		Use:   "show <record>",
		Short: MsgSessionsShow,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			recorder, err := newRecorder(*installRoot)
			if err != nil {
				return err
			}

			content, err := recorder.Read(args[0])
			if err != nil {
				return err
			}

			// Raw markdown when piped
			if !isatty.IsTerminal(os.Stdout.Fd()) {
				fmt.Fprint(cmd.OutOrStdout(), string(content))
				return nil
			}

			renderer, err := glamour.NewTermRenderer(
				glamour.WithAutoStyle(),
				glamour.WithWordWrap(100),
			)
			if err != nil {
				return err
			}
			rendered, err := renderer.Render(string(content))
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), rendered)
			return nil
		},
	}

	cmd.AddCommand(listCmd)
	cmd.AddCommand(showCmd)
	return cmd
}

func newRecorder(installRoot string) (*session.Recorder, error) {
	p, cfg, err := setup(installRoot)
	if err != nil {
		return nil, err
	}
	return session.NewRecorder(filesystem.NewOS(), p.SessionsDir(cfg.SessionsDir)), nil
}
