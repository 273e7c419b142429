package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newSaveCmd creates the save command.
func (cli *CLI) newSaveCmd() *cobra.Command {
	var aliases []string

	cmd := &cobra.Command{
		Use:   "save [name]",
		Short: "Save the live Claude Code credentials as a profile",
		Long: `Capture whatever credentials Claude Code currently holds into a named
profile. Without a name, the current profile is re-saved.

Examples:
  # Save the live credentials as "work"
  ccprofile save work

  # Save with aliases
  ccprofile save personal --alias home --alias hm

  # Refresh the current profile's stored credentials
  ccprofile save`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := ParseOutputFormat(cli.outputFlag)
			if err != nil {
				return err
			}

			name := ""
			if len(args) == 1 {
				name = args[0]
			}

			result, err := cli.Manager.Save(name, aliases)
			if err != nil {
				return err
			}

			cli.debugf("saved %s profile %q", result.Kind, result.Name)

			output := NewOutputWriter(format)
			return output.Write(result, func() {
				verb := "Updated"
				if result.Created {
					verb = "Saved"
				}
				fmt.Printf("%s profile %q (%s)\n", verb, result.Name, result.Kind.DisplayName())
				for _, a := range result.Aliases {
					fmt.Printf("Alias %q -> %q\n", a, result.Name)
				}
			})
		},
	}

	cmd.Flags().StringArrayVar(&aliases, "alias", nil, "Also register an alias for the profile (repeatable)")

	return cmd
}
