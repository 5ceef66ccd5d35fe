package cli

import (
	"fmt"

	"github.com/usbide/usbide/internal/codex"
	"github.com/usbide/usbide/internal/proc"
)

// newClientFromSettings rebuilds the client after a command mutated the
// loaded settings through its flags.
func newClientFromSettings() *codex.Client {
	return codex.NewClient(ws, settings, proc.NewRunner())
}

// printEvent renders one transcript event in the compact console form:
// a label line, the content, then a blank separator.
func printEvent(ev codex.Event) {
	switch ev.Kind {
	case codex.EventAssistant:
		printLabeled("Assistant", ev.Text)
	case codex.EventUser:
		printLabeled("User", ev.Text)
	case codex.EventAction:
		printLabeled("Action", ev.Text)
	case codex.EventError:
		printLabeled("Error", ev.Text)
	default:
		fmt.Println(ev.Text)
	}
}

func printLabeled(label, text string) {
	fmt.Println(label)
	fmt.Println(text)
	fmt.Println()
}
