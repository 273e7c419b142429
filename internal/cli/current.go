package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/derekspelledcorrectly/claude-profile-manager/internal/profile"
)

// newCurrentCmd creates the current command.
func (cli *CLI) newCurrentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "current",
		Short: "Show the current profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := ParseOutputFormat(cli.outputFlag)
			if err != nil {
				return err
			}

			result, err := cli.Manager.Current()
			if err != nil {
				if errors.Is(err, profile.ErrNoCurrent) {
					return errors.New("no current profile set - use 'ccprofile use <name>' to switch to one")
				}
				return err
			}

			if cli.verboseFlag {
				if kind, err := cli.Manager.DetectLive(); err == nil {
					cli.debugf("live credential kind: %s", kind)
				}
			}

			output := NewOutputWriter(format)
			return output.Write(result, func() {
				fmt.Printf("%s (%s)\n", result.Name, result.Kind.DisplayName())
			})
		},
	}
}
