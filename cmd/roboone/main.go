// Command roboone runs every RoboOne server in a single process, for local
// development and for the end-to-end scenarios in §8: each protocol server
// from §6.2 on its well-known default port (§6.3's per-binary CLI surface
// still applies to the standalone cmd/ binaries; this orchestrator is the
// teacher's own multi-goroutine/WaitGroup main.go pattern adapted to
// RoboOne's servers), plus the optional debug HTTP/WS surface, terminal
// console, and MongoDB audit sink described in §2.1/§2.2.
package main

import (
	"context"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"roboone/internal/audit"
	"roboone/internal/batterymanager"
	"roboone/internal/config"
	"roboone/internal/debugsurface"
	"roboone/internal/eventbus"
	"roboone/internal/fabric"
	"roboone/internal/hardware"
	"roboone/internal/logging"
	"roboone/internal/onewire"
	"roboone/internal/ports"
	"roboone/internal/supervisor"
	"roboone/internal/taskhandler"
	"roboone/internal/terminalconsole"
	"roboone/internal/timerservice"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg := config.Load()
	logging.Configure(cfg.Debug, nil)

	bus := eventbus.NewBus()

	var sink *audit.Sink
	if cfg.MongoURI != "" {
		connectCtx, connectCancel := context.WithTimeout(ctx, 10*time.Second)
		s, err := audit.Connect(connectCtx, cfg.MongoURI, "roboone")
		connectCancel()
		if err != nil {
			logging.Errorf("roboone: audit sink unavailable, continuing without it: %v", err)
		} else {
			sink = s
			defer sink.Close(context.Background())
		}
	}

	var wg sync.WaitGroup

	runServer := func(name string, fn func(context.Context) fabric.ReturnCode) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rc := fn(ctx)
			if rc != fabric.ExitNormally {
				logging.Errorf("roboone: %s exited with %s", name, rc)
			}
		}()
	}

	hwServer := hardware.NewServer()
	runServer("hardware", func(ctx context.Context) fabric.ReturnCode {
		return fabric.RunServer(ctx, ports.HardwareServerPort, hwServer.Handle)
	})

	oneWireServer := onewire.NewServer()
	runServer("onewire", func(ctx context.Context) fabric.ReturnCode {
		return fabric.RunServer(ctx, ports.OneWireServerPort, oneWireServer.Handle)
	})

	runServer("batterymanager", func(ctx context.Context) fabric.ReturnCode {
		return batterymanager.Run(ctx, ports.BatteryManagerServerPort)
	})

	timerSvc := timerservice.NewService()
	runServer("timer", func(ctx context.Context) fabric.ReturnCode {
		go timerSvc.Run(ctx)
		timerSrv := timerservice.NewServer(timerSvc)
		return fabric.RunServer(ctx, ports.TimerServerPort, timerSrv.Handle)
	})

	hwClient := hardware.NewClient(ports.HardwareServerPort)
	batteryClient := batterymanager.NewClient(ports.BatteryManagerServerPort)
	tasksClient := taskhandler.NewClient(ports.TaskHandlerServerPort)

	taskServer := taskhandler.NewServer(hwClient, nil)
	runServer("taskhandler", func(ctx context.Context) fabric.ReturnCode {
		return fabric.RunServer(ctx, ports.TaskHandlerServerPort, taskServer.Handle)
	})

	supervisorCtx := supervisor.NewContext(hwClient, batteryClient, tasksClient,
		mustAtoi(ports.StateMachineServerPort), mustAtoi(ports.StateMachineTaskIndPort))
	supervisorCtx.OnTransition(func(name string) {
		bus.PublishData(debugsurface.StateTransitionEvent, name)
		sink.Record(context.Background(), "supervisor.transition", name, "")
	})
	supervisorServer := supervisor.NewServer(supervisorCtx)
	runServer("statemachine", func(ctx context.Context) fabric.ReturnCode {
		return fabric.RunServer(ctx, ports.StateMachineServerPort, supervisorServer.Handle)
	})
	runServer("statemachine-taskind", func(ctx context.Context) fabric.ReturnCode {
		return fabric.RunServer(ctx, ports.StateMachineTaskIndPort, supervisorServer.HandleTaskInd)
	})

	if cfg.DebugHTTPPort != "" {
		dbg := debugsurface.New(supervisorCtx, timerSvc, taskServer.Registry(), bus)
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := dbg.Run(ctx, ":"+cfg.DebugHTTPPort); err != nil {
				logging.Errorf("roboone: debug surface: %v", err)
			}
		}()
	}

	if cfg.TerminalPort != "" && cfg.TerminalPort != "0" {
		supervisorClient := supervisor.NewClient(ports.StateMachineServerPort)
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := terminalconsole.Run(ctx, cfg.TerminalPort, supervisorCtx, timerSvc, taskServer.Registry(), supervisorClient); err != nil {
				logging.Errorf("roboone: terminal console: %v", err)
			}
		}()
	}

	logging.Debugf("roboone: all servers started")
	<-ctx.Done()
	logging.Debugf("roboone: shutting down")

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logging.Debugf("roboone: all servers shut down gracefully")
	case <-time.After(10 * time.Second):
		logging.Errorf("roboone: timeout waiting for servers to shut down, forcing exit")
	}
}

func mustAtoi(s string) uint16 {
	n := 0
	for _, c := range s {
		if c < '0' || c > '9' {
			logging.Halt("mustAtoi: %q is not numeric", s)
		}
		n = n*10 + int(c-'0')
	}
	return uint16(n)
}
