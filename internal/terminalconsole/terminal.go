// Package terminalconsole is the line-oriented TCP console named in
// §2.2/§6.2: connect with any TCP client (telnet, nc) and type help/state/
// timers/tasks/inject/exit to poke at a running RoboOne instance without
// hand-crafting wire frames. It is a debugging convenience, grounded on
// the teacher's own terminal server, and never required for normal
// operation.
package terminalconsole

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"strings"

	"roboone/internal/logging"
	"roboone/internal/supervisor"
)

// StateNamer reports the Supervisor's currently active state name.
type StateNamer interface {
	StateName() string
}

// Counter reports a live count (timers armed, tasks in flight).
type Counter interface {
	Len() int
}

// CommandContext is handed to every command handler.
type CommandContext struct {
	Conn       net.Conn
	State      StateNamer
	Timers     Counter
	Tasks      Counter
	Supervisor *supervisor.Client
}

// CommandFunc is one console command's implementation. Returning
// errExit ends the session cleanly; any other error is shown to the user
// and the session continues.
type CommandFunc func(cc *CommandContext, args []string) error

type commandInfo struct {
	usage string
	fn    CommandFunc
}

// registry is filled in init rather than in its declaration because
// cmdHelp reads it, which would otherwise be an initialization cycle.
var registry map[string]commandInfo

func init() {
	registry = map[string]commandInfo{
		"help":   {"help", cmdHelp},
		"state":  {"state", cmdState},
		"timers": {"timers", cmdTimers},
		"tasks":  {"tasks", cmdTasks},
		"inject": {"inject <init|initfailure|timerexpiry|notasks|mainspower|insufficientpower|fullycharged|shutdown>", cmdInject},
		"exit":   {"exit", cmdExit},
	}
}

var errExit = fmt.Errorf("exit")

func cmdHelp(cc *CommandContext, _ []string) error {
	fmt.Fprintln(cc.Conn, "Available commands:")
	for name, info := range registry {
		fmt.Fprintf(cc.Conn, "  %-8s %s\n", name, info.usage)
	}
	return nil
}

func cmdState(cc *CommandContext, _ []string) error {
	if cc.State == nil {
		fmt.Fprintln(cc.Conn, "state: unavailable")
		return nil
	}
	fmt.Fprintf(cc.Conn, "state: %s\n", cc.State.StateName())
	return nil
}

func cmdTimers(cc *CommandContext, _ []string) error {
	if cc.Timers == nil {
		fmt.Fprintln(cc.Conn, "timers: unavailable")
		return nil
	}
	fmt.Fprintf(cc.Conn, "timers armed: %d\n", cc.Timers.Len())
	return nil
}

func cmdTasks(cc *CommandContext, _ []string) error {
	if cc.Tasks == nil {
		fmt.Fprintln(cc.Conn, "tasks: unavailable")
		return nil
	}
	fmt.Fprintf(cc.Conn, "tasks in flight: %d\n", cc.Tasks.Len())
	return nil
}

func cmdInject(cc *CommandContext, args []string) error {
	if cc.Supervisor == nil {
		return fmt.Errorf("supervisor client unavailable")
	}
	if len(args) != 1 {
		return fmt.Errorf("usage: inject <event>")
	}
	ctx := context.Background()
	var ok bool
	switch strings.ToLower(args[0]) {
	case "init":
		ok = cc.Supervisor.Init(ctx)
	case "initfailure":
		ok = cc.Supervisor.InitFailure(ctx)
	case "timerexpiry":
		ok = cc.Supervisor.TimerExpiry(ctx)
	case "notasks":
		ok = cc.Supervisor.NoTasksAvailable(ctx)
	case "mainspower":
		ok = cc.Supervisor.MainsPowerAvailable(ctx)
	case "insufficientpower":
		ok = cc.Supervisor.InsufficientPower(ctx)
	case "fullycharged":
		ok = cc.Supervisor.FullyCharged(ctx)
	case "shutdown":
		ok = cc.Supervisor.Shutdown(ctx)
	default:
		return fmt.Errorf("unknown event %q", args[0])
	}
	if !ok {
		return fmt.Errorf("injecting event failed")
	}
	fmt.Fprintln(cc.Conn, "ok")
	return nil
}

func cmdExit(*CommandContext, []string) error { return errExit }

// Run serves the console on port until ctx is cancelled, one connection at
// a time per accept, each handled in its own goroutine — unlike the
// Messaging Fabric's servers, this surface is purely diagnostic so
// concurrent sessions are fine.
func Run(ctx context.Context, port string, state StateNamer, timers, tasks Counter, supervisorClient *supervisor.Client) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", ":"+port)
	if err != nil {
		return fmt.Errorf("terminal console: listen on %s: %w", port, err)
	}
	defer ln.Close()

	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	logging.Debugf("terminal console: listening on port %s", port)
	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
				logging.Errorf("terminal console: accept: %v", err)
				continue
			}
		}
		cc := &CommandContext{Conn: conn, State: state, Timers: timers, Tasks: tasks, Supervisor: supervisorClient}
		go handleConnection(ctx, cc)
	}
}

func handleConnection(ctx context.Context, cc *CommandContext) {
	defer cc.Conn.Close()

	fmt.Fprintln(cc.Conn, "=== RoboOne console ===")
	fmt.Fprintln(cc.Conn, "Type 'help' for available commands.")
	fmt.Fprint(cc.Conn, "> ")

	scanner := bufio.NewScanner(cc.Conn)
	for scanner.Scan() {
		select {
		case <-ctx.Done():
			fmt.Fprintln(cc.Conn, "\nsession ended")
			return
		default:
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			fmt.Fprint(cc.Conn, "> ")
			continue
		}
		fields := strings.Fields(line)
		name, args := fields[0], fields[1:]

		info, ok := registry[strings.ToLower(name)]
		if !ok {
			fmt.Fprintf(cc.Conn, "unknown command %q, try 'help'\n", name)
			fmt.Fprint(cc.Conn, "> ")
			continue
		}
		if err := info.fn(cc, args); err != nil {
			if err == errExit {
				fmt.Fprintln(cc.Conn, "bye")
				return
			}
			fmt.Fprintf(cc.Conn, "error: %v\n", err)
		}
		fmt.Fprint(cc.Conn, "> ")
	}
}
