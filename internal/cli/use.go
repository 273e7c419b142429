package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newUseCmd creates the use (switch) command.
func (cli *CLI) newUseCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "use <name>",
		Aliases: []string{"switch"},
		Short:   "Switch the live Claude Code credentials to a profile",
		Long: `Make a saved profile's credentials live. The profile name may be an
alias. If the profile being switched away from holds an OAuth token, the
live token is backed up into it first, in case Claude Code refreshed it.

Examples:
  ccprofile use work
  ccprofile use home`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := ParseOutputFormat(cli.outputFlag)
			if err != nil {
				return err
			}

			result, err := cli.Manager.Switch(args[0])
			if err != nil {
				return err
			}

			for _, w := range result.Warnings {
				warnf("%s", w)
			}

			output := NewOutputWriter(format)
			return output.Write(result, func() {
				fmt.Printf("Switched to profile %q (%s)\n", result.Name, result.Kind.DisplayName())
				if result.Health != "" && cli.verboseFlag {
					fmt.Printf("Credential health: %s\n", result.Health)
				}
			})
		},
	}
}
