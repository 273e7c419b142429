// Package cli provides the command-line interface for ccprofile.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/derekspelledcorrectly/claude-profile-manager/internal/audit"
	"github.com/derekspelledcorrectly/claude-profile-manager/internal/config"
	"github.com/derekspelledcorrectly/claude-profile-manager/internal/keyring"
	"github.com/derekspelledcorrectly/claude-profile-manager/internal/notify"
	"github.com/derekspelledcorrectly/claude-profile-manager/internal/profile"
)

// CLI holds the application state for the CLI.
type CLI struct {
	Config  *config.Config
	Keyring keyring.Store
	Manager *profile.Manager

	dir     string
	rootCmd *cobra.Command

	// Flags
	verboseFlag bool
	outputFlag  string
}

// New creates a new CLI instance.
func New() *CLI {
	cli := &CLI{
		Keyring: keyring.DefaultStore(),
	}

	cli.rootCmd = &cobra.Command{
		Use:   "ccprofile [command]",
		Short: "ccprofile - Claude Code authentication profile manager",
		Long: `ccprofile maintains named authentication profiles for the Claude Code
CLI and switches between them without re-authenticating.

Each profile is a saved copy of whatever credential Claude Code currently
holds - a static API key or an OAuth token bundle - kept in the OS keyring
alongside a small metadata record on disk.

Typical flow:
  # Log in with Claude Code, then capture the live credentials
  ccprofile save work

  # Log in with a different account, capture that too
  ccprofile save personal --alias home

  # Switch back and forth; no re-login needed
  ccprofile use work
  ccprofile use home`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return cli.initialize()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	// Global flags
	cli.rootCmd.PersistentFlags().BoolVarP(&cli.verboseFlag, "verbose", "v", false, "Enable verbose output")
	cli.rootCmd.PersistentFlags().StringVarP(&cli.outputFlag, "output", "o", "text", "Output format (text, json)")

	cli.addCommands()

	return cli
}

// addCommands adds all subcommands to the root command.
func (cli *CLI) addCommands() {
	cli.rootCmd.AddCommand(
		cli.newSaveCmd(),
		cli.newUseCmd(),
		cli.newListCmd(),
		cli.newCurrentCmd(),
		cli.newDeleteCmd(),
		cli.newAliasCmd(),
		cli.newDoctorCmd(),
		cli.newVersionCmd(),
		cli.newCompletionCmd(),
	)
}

// initialize loads configuration and wires up the lifecycle engine.
func (cli *CLI) initialize() error {
	cli.dir = config.ProfilesDir()

	cfg, err := config.Load(cli.dir)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	cli.Config = cfg

	opts := []profile.Option{
		profile.WithAuditLogger(audit.New(cli.dir, config.AuditEnabled())),
		profile.WithNotifier(notify.New(cfg.Notifications)),
	}

	// The engine itself never talks to a terminal; interactive policies
	// get their prompts injected here, and only when stdin is a TTY.
	if isInteractive() {
		if cfg.ConfirmOverwrite == config.ConfirmPrompt {
			opts = append(opts, profile.WithConfirmOverwrite(func(name string) (bool, error) {
				return confirm(fmt.Sprintf("Profile %q already exists. Overwrite?", name))
			}))
		}
		if cfg.OnAutoSaveFailure == config.AutoSavePrompt {
			opts = append(opts, profile.WithAutoSaveFailurePrompt(func(name string) (bool, error) {
				return confirm(fmt.Sprintf("Could not back up live credentials for %q. Continue switching?", name))
			}))
		}
	}

	cli.Manager = profile.NewManager(cli.dir, cli.Keyring, cfg, opts...)
	return nil
}

// Execute runs the CLI.
func (cli *CLI) Execute(ctx context.Context) error {
	return cli.rootCmd.ExecuteContext(ctx)
}

// debugf prints a diagnostic line when verbose output or CCPROFILE_DEBUG
// is enabled.
func (cli *CLI) debugf(format string, args ...any) {
	if cli.verboseFlag || config.Debug() {
		fmt.Fprintf(os.Stderr, "debug: "+format+"\n", args...)
	}
}

// warnf prints a warning line to stderr.
func warnf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Warning: "+format+"\n", args...)
}
