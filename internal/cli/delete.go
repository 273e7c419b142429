package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newDeleteCmd creates the delete command.
func (cli *CLI) newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <name>",
		Aliases: []string{"rm", "remove"},
		Short:   "Delete a profile and its stored credentials",
		Long: `Remove a profile's metadata record and its secret from the keyring.
If the profile is current, the current-profile pointer is cleared. The
live Claude Code credentials are not touched.

Aliases pointing at the deleted profile are kept; remove them with
'ccprofile alias remove <alias>'.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := ParseOutputFormat(cli.outputFlag)
			if err != nil {
				return err
			}

			result, err := cli.Manager.Delete(args[0])
			if err != nil {
				return err
			}

			output := NewOutputWriter(format)
			return output.Write(result, func() {
				fmt.Printf("Deleted profile %q\n", result.Name)
				if result.WasCurrent {
					fmt.Println("It was the current profile; no profile is current now.")
				}
			})
		},
	}
}
