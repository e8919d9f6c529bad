// Command timerserver runs the Timer Service in isolation (§4.3, §6.3):
// `timerserver <portNumber>`.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"roboone/internal/fabric"
	"roboone/internal/logging"
	"roboone/internal/timerservice"
)

func main() {
	os.Exit(int(run()))
}

func run() fabric.ReturnCode {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: timerserver <portNumber>")
		return fabric.ErrGeneralFailure
	}
	port := os.Args[1]

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logging.Debugf("timerserver: starting on port %s", port)
	return timerservice.Run(ctx, port)
}
