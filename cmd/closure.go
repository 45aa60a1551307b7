package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chloekek/neptunos/pkg/nix"
	"github.com/chloekek/neptunos/pkg/run"
)

var closureCmd = &cobra.Command{
	Use:   "closure <binary>...",
	Short: "Prints the runtime closure of the given binaries",
	Long: `Scans the given binaries for embedded store-path references and prints the
transitive runtime closure as reported by nix-store, one path per line.
References to paths the store has already garbage-collected are ignored.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger()
		ctx := run.WithLogger(cmd.Context(), &logger)

		refs, err := nix.ScanReferences(nix.DefaultStoreDir, args)
		if err != nil {
			return err
		}

		closure, err := nix.Closure(ctx, refs)
		if err != nil {
			return err
		}

		for _, path := range closure {
			fmt.Println(path)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(closureCmd)
}
