package cmd

import "github.com/spf13/cobra"

var lintExitCode bool

var lintCmd = &cobra.Command{
	Use:     "lint",
	Aliases: []string{"validate"},
	Short:   "Lint reports under a report root",
	Long: `Validate the root layout and parse every report under reports/, reporting
every file's errors instead of stopping at the first bad one.

Flags:
  --exit-code   Return non-zero exit code when any report fails to lint`,
	GroupID: "building",
	Example: `  ducksearch lint
  ducksearch lint --root ./project --exit-code`,
	RunE: runLint,
}

func init() {
	rootCmd.AddCommand(lintCmd)
	lintCmd.Flags().BoolVar(&lintExitCode, "exit-code", false, "exit with non-zero status when linting fails")
}

func runLint(cmd *cobra.Command, args []string) error {
	return NewLintCommand(Root, lintExitCode).Execute(cmd.Context())
}
