package cmd

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "np-build",
	Short: "Build orchestrator for NeptunOS",
	Long: `This command builds a bootable NeptunOS image: it validates the kernel
configuration, builds the kernel through nix, builds the native executables
through cargo and assembles everything into an ext4 root filesystem image.`,
}

func newLogger() zerolog.Logger {
	return zerolog.New(NewConsoleWriter())
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}
