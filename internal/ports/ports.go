// Package ports centralises the default TCP ports named in §6.2, so every
// cmd/ entrypoint and every cross-server client agrees on them without
// repeating string literals.
package ports

const (
	StateMachineServerPort   = "5231"
	BatteryManagerServerPort = "5232"
	TaskHandlerServerPort    = "5233"
	OneWireServerPort        = "5234"
	TimerServerPort          = "5235"

	// HardwareServerPort: §6.2 names 5234 for the Hardware server "in its
	// own namespace", the same literal default as the OneWire server. Two
	// processes on one host cannot both default to 5234, so this
	// implementation assigns the Hardware façade a distinct default; see
	// DESIGN.md for the full note. Both remain independently overridable
	// via each binary's <portNumber> CLI argument (§6.3).
	HardwareServerPort = "5236"

	// StateMachineTaskIndPort is where the Supervisor listens for
	// TASK_HANDLER_TASK_IND when it is itself a task's originator (§4.5,
	// §8 scenario 5). It must be a distinct listener from
	// StateMachineServerPort: the Task Handler's and the Supervisor's own
	// message catalogs assign overlapping type codes, so a shared port
	// cannot tell one server's message 4 from the other's.
	StateMachineTaskIndPort = "5237"
)
