package cli

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/derekspelledcorrectly/claude-profile-manager/internal/profile"
)

// ProfileListOutput represents profile list output for JSON.
type ProfileListOutput struct {
	Current  string          `json:"current,omitempty"`
	Profiles []profile.Entry `json:"profiles"`
}

// newListCmd creates the list command.
func (cli *CLI) newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List all saved profiles",
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := ParseOutputFormat(cli.outputFlag)
			if err != nil {
				return err
			}
			return cli.runList(format)
		},
	}
}

// runList displays all saved profiles.
func (cli *CLI) runList(format OutputFormat) error {
	output := NewOutputWriter(format)

	entries, err := cli.Manager.List()
	if err != nil {
		return err
	}

	current := ""
	if cur, err := cli.Manager.Current(); err == nil {
		current = cur.Name
	}

	listOutput := ProfileListOutput{
		Current:  current,
		Profiles: entries,
	}

	if len(entries) == 0 {
		return output.Write(listOutput, func() {
			fmt.Println("No profiles saved.")
			fmt.Println()
			fmt.Println("Save the live Claude Code credentials with: ccprofile save <name>")
		})
	}

	return output.Write(listOutput, func() {
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tKIND\tCREATED\tLAST USED\tSTATUS")

		for _, entry := range entries {
			marker := ""
			if entry.Current {
				marker = "* "
			}

			name := entry.Name
			if len(entry.Aliases) > 0 {
				name += " (" + strings.Join(entry.Aliases, ", ") + ")"
			}

			fmt.Fprintf(w, "%s%s\t%s\t%s\t%s\t%s\n",
				marker, name, entry.Kind.DisplayName(), entry.Created, entry.LastUsed, entry.Status)
		}

		// #nosec G104 - Flush error on stdout; if write fails, user will see incomplete output
		_ = w.Flush()

		if current != "" {
			fmt.Printf("\n* = current profile (%s)\n", current)
		}
	})
}
