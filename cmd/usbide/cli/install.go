package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var installPackage string

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Install or update the assistant CLI inside the workspace",
	Long: `Installs the assistant npm package into the workspace-managed prefix
using the portable Node runtime. Nothing is written outside the
workspace root.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if installPackage != "" {
			settings.Package = installPackage
			client = newClientFromSettings()
		}
		if err := client.Install(cmd.Context(), printEvent); err != nil {
			return err
		}
		fmt.Println("Codex installed.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(installCmd)
	installCmd.Flags().StringVar(&installPackage, "package", "", "npm package to install (default from config)")
}
