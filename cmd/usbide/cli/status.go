package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/usbide/usbide/internal/codex"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check whether the assistant is signed in",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		err := client.Status(cmd.Context())
		if err == nil {
			fmt.Println("Signed in.")
			return nil
		}
		if errors.Is(err, codex.ErrNotAuthenticated) {
			fmt.Println("Not signed in. Run `usbide login`.")
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
