package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/chloekek/neptunos/pkg"
	"github.com/chloekek/neptunos/pkg/cargo"
	"github.com/chloekek/neptunos/pkg/kconfig"
	"github.com/chloekek/neptunos/pkg/nix"
	"github.com/chloekek/neptunos/pkg/rootfs"
	"github.com/chloekek/neptunos/pkg/run"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Runs the full image build pipeline",
	Long: `Validates the kernel config, builds the kernel and the native executables,
computes the runtime closure and assembles the root filesystem image. The
pipeline is strictly sequential and aborts on the first failure.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		outFlag, err := cmd.Flags().GetString("output")
		if err != nil {
			return err
		}

		skipRootfs, err := cmd.Flags().GetBool("skip-rootfs")
		if err != nil {
			return err
		}

		logger := newLogger()
		ctx := run.WithLogger(cmd.Context(), &logger)

		wd, err := os.Getwd()
		if err != nil {
			return err
		}

		root, err := pkg.FindProjectRoot(wd)
		if err != nil {
			return err
		}

		manifest, err := pkg.LoadManifest(filepath.Join(root, "build.yml"))
		if err != nil {
			return err
		}
		manifest.ApplyEnviron(os.LookupEnv)
		skipRootfs = skipRootfs || pkg.SkipRootfs(os.LookupEnv)

		outDir := outFlag
		if !filepath.IsAbs(outDir) {
			outDir = filepath.Join(root, outDir)
		}

		pkg.PrintTask("Checking kernel config")
		configPath := filepath.Join(root, manifest.KernelConfig)
		err = kconfig.ValidateFile(configPath)
		if err != nil {
			return err
		}

		pkg.PrintTask("Building kernel")
		err = nix.BuildKernel(ctx, nix.KernelBuild{
			ConfigPath: configPath,
			OutLink:    filepath.Join(outDir, "linux"),
		})
		if err != nil {
			return err
		}

		pkg.PrintTask("Building native executables")
		workspace := cargo.Workspace{
			Dir:       filepath.Join(root, manifest.CrateDir),
			TargetDir: filepath.Join(outDir, "rust-crates"),
		}
		err = workspace.Build(ctx)
		if err != nil {
			return err
		}

		if skipRootfs {
			pkg.PrintTask("Skipping rootfs assembly")
			return nil
		}

		localExecutables := workspace.Executables(manifest.CrateBins)

		pkg.PrintTask("Stripping debug info")
		err = cargo.Strip(ctx, localExecutables)
		if err != nil {
			return err
		}

		pkg.PrintTask("Computing runtime closure")
		refs, err := nix.ScanReferences(nix.DefaultStoreDir, localExecutables)
		if err != nil {
			return err
		}

		roots := make([]string, 0, len(manifest.Executables)+len(manifest.Fonts)+len(refs))
		roots = append(roots, manifest.Executables...)
		roots = append(roots, manifest.Fonts...)
		roots = append(roots, refs...)

		closure, err := nix.Closure(ctx, roots)
		if err != nil {
			return err
		}
		pkg.PrintSubtask(fmt.Sprintf("%d store paths", len(closure)))

		pkg.PrintTask("Assembling rootfs")
		tree := rootfs.Tree{Dir: filepath.Join(outDir, "rootfs.dir")}
		err = tree.Populate(rootfs.Contents{
			ClosurePaths:        closure,
			LocalExecutables:    localExecutables,
			ExternalExecutables: manifest.Executables,
			Fonts:               manifest.Fonts,
		})
		if err != nil {
			return err
		}

		err = tree.CreateImage(ctx, filepath.Join(outDir, "rootfs.ext4"), rootfs.DefaultImageSize)
		if err != nil {
			return err
		}

		pkg.PrintTask("Done")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(buildCmd)
	buildCmd.Flags().StringP("output", "o", "output", "directory receiving all build artifacts")
	buildCmd.Flags().Bool("skip-rootfs", false, "stop after the native build; don't compute the closure or assemble the image")
}
