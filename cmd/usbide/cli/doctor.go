package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/usbide/usbide/internal/codex"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnostic information about the portable environment",
	Long: `Displays how the assistant CLI would be launched from this workspace:
the workspace layout, the Node runtime, the managed install, and the
effective settings. No credentials are ever printed.`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func runDoctor(cmd *cobra.Command, args []string) error {
	fmt.Println("usbide doctor")
	fmt.Println()
	fmt.Printf("workspace root:   %s\n", ws.Dir())
	fmt.Printf("assistant home:   %s\n", ws.CodexHome())
	fmt.Printf("managed prefix:   %s\n", ws.CodexPrefix())
	fmt.Printf("settings:         %s\n", settings)
	fmt.Println()

	env := client.Env()
	if node, ok := codex.NodeExecutable(ws, env); ok {
		fmt.Printf("node runtime:     %s\n", node)
		if npm, ok := codex.NpmCLI(node); ok {
			fmt.Printf("npm entry:        %s\n", npm)
		} else {
			fmt.Println("npm entry:        not found next to node")
		}
	} else {
		fmt.Println("node runtime:     not found (portable dir or PATH)")
	}

	if entry, ok := codex.EntrypointJS(ws.CodexPrefix()); ok {
		fmt.Printf("managed install:  %s\n", entry)
	} else {
		fmt.Println("managed install:  absent (run `usbide install`)")
	}

	tool, err := client.Resolve()
	if err != nil {
		fmt.Printf("resolution:       %v\n", err)
		return nil
	}
	fmt.Printf("resolution:       %s via %s (%s)\n", tool.Executable, tool.Origin, tool.Strategy)
	if tool.Entrypoint != "" {
		fmt.Printf("entrypoint:       %s\n", tool.Entrypoint)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}
