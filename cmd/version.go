package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"project2text/pkg/version"
)

// versionCmd displays the current version of the project2text application.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display the version of project2text",
	Long:  `Display the current version information of the project2text CLI tool.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		short, err := cmd.Flags().GetBool("short")
		if err != nil {
			return fmt.Errorf("error reading flags: %w", err)
		}

		v := version.Get()
		if short {
			fmt.Println(v.Version)
		} else {
			fmt.Println(v.String())
		}
		return nil
	},
}

func init() {
	versionCmd.Flags().BoolP("short", "s", false, "Print the version number only")
	RootCmd.AddCommand(versionCmd)
}
