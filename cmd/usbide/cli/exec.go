package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

var (
	execSandbox  string
	execApproval string
)

var execCmd = &cobra.Command{
	Use:   "exec <prompt>",
	Short: "Run one assistant turn non-interactively",
	Long: `Sends a single prompt to the assistant and streams the transcript.
The authentication state is checked first; on failure the prompt is not
sent. Sandbox and approval policies come from the workspace config and
can be overridden per invocation.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if execSandbox != "" {
			settings.Sandbox = execSandbox
		}
		if execApproval != "" {
			settings.Approval = execApproval
		}
		if execSandbox != "" || execApproval != "" {
			client = newClientFromSettings()
		}
		prompt := strings.Join(args, " ")
		return client.Exec(cmd.Context(), prompt, printEvent)
	},
}

func init() {
	rootCmd.AddCommand(execCmd)
	execCmd.Flags().StringVar(&execSandbox, "sandbox", "", "sandbox mode (read-only, workspace-write, danger-full-access)")
	execCmd.Flags().StringVar(&execApproval, "approval", "", "approval policy (never, on-request, on-failure, untrusted)")
}
