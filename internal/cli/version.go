package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/derekspelledcorrectly/claude-profile-manager/internal/version"
)

// newVersionCmd creates the version command.
func (cli *CLI) newVersionCmd() *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := ParseOutputFormat(cli.outputFlag)
			if err != nil {
				return err
			}

			info := version.Get()
			output := NewOutputWriter(format)
			return output.Write(info, func() {
				if short {
					fmt.Println(info.Short())
					return
				}
				fmt.Println(info.String())
			})
		},
	}

	cmd.Flags().BoolVar(&short, "short", false, "Print only the version number")

	return cmd
}
