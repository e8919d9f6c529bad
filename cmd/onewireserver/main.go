// Command onewireserver runs the OneWire server in isolation (§6.2, §6.3):
// `onewireserver <portNumber>`.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"roboone/internal/fabric"
	"roboone/internal/logging"
	"roboone/internal/onewire"
)

func main() {
	os.Exit(int(run()))
}

func run() fabric.ReturnCode {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: onewireserver <portNumber>")
		return fabric.ErrGeneralFailure
	}
	port := os.Args[1]

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logging.Debugf("onewireserver: starting on port %s", port)
	return onewire.Run(ctx, port)
}
