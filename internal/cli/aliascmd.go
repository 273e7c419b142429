package cli

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// AliasListOutput represents alias list output for JSON.
type AliasListOutput struct {
	Aliases map[string]string `json:"aliases"`
}

// newAliasCmd creates the alias command group.
func (cli *CLI) newAliasCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "alias",
		Short: "Manage profile aliases",
		Long: `Manage short names for profiles. An alias resolves to its target
profile everywhere a profile name is accepted; a name that is both a
profile and an alias resolves to the profile.

Examples:
  ccprofile alias add w work
  ccprofile alias list
  ccprofile alias remove w`,
	}

	cmd.AddCommand(
		cli.newAliasAddCmd(),
		cli.newAliasRemoveCmd(),
		cli.newAliasListCmd(),
	)

	return cmd
}

// newAliasAddCmd creates the alias add command.
func (cli *CLI) newAliasAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <alias> <profile>",
		Short: "Add an alias for a profile",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cli.Manager.AddAlias(args[0], args[1]); err != nil {
				return err
			}
			fmt.Printf("Alias %q -> %q\n", args[0], args[1])
			return nil
		},
	}
}

// newAliasRemoveCmd creates the alias remove command.
func (cli *CLI) newAliasRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "remove <alias>",
		Aliases: []string{"rm"},
		Short:   "Remove an alias",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cli.Manager.RemoveAlias(args[0]); err != nil {
				return err
			}
			fmt.Printf("Removed alias %q\n", args[0])
			return nil
		},
	}
}

// newAliasListCmd creates the alias list command.
func (cli *CLI) newAliasListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List all aliases",
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := ParseOutputFormat(cli.outputFlag)
			if err != nil {
				return err
			}

			table, err := cli.Manager.Aliases()
			if err != nil {
				return err
			}

			output := NewOutputWriter(format)
			return output.Write(AliasListOutput{Aliases: table}, func() {
				if len(table) == 0 {
					fmt.Println("No aliases defined.")
					return
				}

				names := make([]string, 0, len(table))
				for name := range table {
					names = append(names, name)
				}
				sort.Strings(names)

				w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "ALIAS\tPROFILE")
				for _, name := range names {
					fmt.Fprintf(w, "%s\t%s\n", name, table[name])
				}
				_ = w.Flush()
			})
		},
	}
}
