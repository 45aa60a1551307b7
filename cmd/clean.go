package cmd

import (
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/chloekek/neptunos/pkg"
	"github.com/chloekek/neptunos/pkg/rootfs"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Removes the output directory",
	Long: `Deletes all build artifacts, including the rootfs staging tree whose store
copies are read-only.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		outFlag, err := cmd.Flags().GetString("output")
		if err != nil {
			return err
		}

		wd, err := os.Getwd()
		if err != nil {
			return err
		}

		root, err := pkg.FindProjectRoot(wd)
		if err != nil {
			return err
		}

		outDir := outFlag
		if !filepath.IsAbs(outDir) {
			outDir = filepath.Join(root, outDir)
		}

		// Tree.Clean knows how to deal with the read-only store copies, so
		// reuse it for the whole output directory.
		err = rootfs.Tree{Dir: outDir}.Clean()
		if err != nil {
			return eris.Wrapf(err, "Failed to clean %s", outDir)
		}

		pkg.PrintSubtask("Removed " + outDir)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cleanCmd)
	cleanCmd.Flags().StringP("output", "o", "output", "directory receiving all build artifacts")
}
