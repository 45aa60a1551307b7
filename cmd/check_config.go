package cmd

import (
	"github.com/spf13/cobra"

	"github.com/chloekek/neptunos/pkg"
	"github.com/chloekek/neptunos/pkg/kconfig"
)

var checkConfigCmd = &cobra.Command{
	Use:   "check-config <file>",
	Short: "Validates a kernel configuration file",
	Long: `Checks that every line of the given file is blank, a comment or an
OPTION=[ynm] assignment. The first malformed line aborts with a diagnostic.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		err := kconfig.ValidateFile(args[0])
		if err != nil {
			return err
		}

		pkg.PrintSubtask(args[0] + " is valid")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkConfigCmd)
}
