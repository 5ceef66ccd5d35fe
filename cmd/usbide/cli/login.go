package cli

import (
	"github.com/spf13/cobra"
)

var deviceAuth bool

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to the assistant service",
	Long: `Starts the codex sign-in flow. By default a browser window opens;
with --device-auth a device code is shown instead, for hosts where no
browser is available.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if deviceAuth {
			settings.DeviceAuth = true
			client = newClientFromSettings()
		}
		return client.Login(cmd.Context(), printEvent)
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
	loginCmd.Flags().BoolVar(&deviceAuth, "device-auth", false, "use the device-code flow instead of a browser")
}
