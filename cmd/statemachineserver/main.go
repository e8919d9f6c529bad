// Command statemachineserver runs the Supervisor state machine in isolation
// (§4.4, §6.3): `statemachineserver <portNumber>`. It reaches the
// Hardware, Battery Manager and Task Handler servers at their well-known
// default ports (§6.2).
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"roboone/internal/batterymanager"
	"roboone/internal/fabric"
	"roboone/internal/hardware"
	"roboone/internal/logging"
	"roboone/internal/ports"
	"roboone/internal/supervisor"
	"roboone/internal/taskhandler"
)

func main() {
	os.Exit(int(run()))
}

func run() fabric.ReturnCode {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: statemachineserver <portNumber>")
		return fabric.ErrGeneralFailure
	}
	port := os.Args[1]

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	hw := hardware.NewClient(ports.HardwareServerPort)
	battery := batterymanager.NewClient(ports.BatteryManagerServerPort)
	tasks := taskhandler.NewClient(ports.TaskHandlerServerPort)

	logging.Debugf("statemachineserver: starting on port %s", port)
	return supervisor.Run(ctx, port, ports.StateMachineTaskIndPort, hw, battery, tasks)
}
