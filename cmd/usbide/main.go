package main

import (
	"os"

	"github.com/usbide/usbide/cmd/usbide/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
