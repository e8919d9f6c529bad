package taskhandler

import (
	"context"

	"roboone/internal/catalog"
	"roboone/internal/fabric"
	"roboone/internal/wire"
)

// Client is the Supervisor's view of the Task Handler: forwarding an
// accepted task (§4.4's Mobile entry action).
type Client struct {
	Port string
}

func NewClient(port string) *Client {
	return &Client{Port: port}
}

// NewTask forwards a task; if listenPort is non-zero, the Task Handler is
// asked to route the resulting TASK_HANDLER_TASK_IND back to that port on
// this host (127.0.0.1).
func (c *Client) NewTask(ctx context.Context, protocol Protocol, command string, listenPort uint16) bool {
	return c.NewTaskTo(ctx, protocol, command, listenPort, "")
}

// NewTaskTo forwards a task; if port is non-zero, the Task Handler is asked
// to route the resulting TASK_HANDLER_TASK_IND to that destination — ip if
// given, 127.0.0.1 otherwise (§4.5's "to that destination", not to whoever
// is forwarding the task).
func (c *Client) NewTaskTo(ctx context.Context, protocol Protocol, command string, port uint16, ip string) bool {
	req := &NewTaskReq{Protocol: protocol, Command: command}
	if port != 0 {
		req.HeaderPresent = true
		req.Header = Header{SourceServerPort: port, IPPresent: ip != "", IP: ip}
	}
	body, err := req.MarshalBinary()
	if err != nil {
		return false
	}
	frame, err := (wire.Message{Type: wire.MsgType(MsgTaskHandlerNewTask), Body: body}).Encode()
	if err != nil {
		return false
	}
	resp, rc := fabric.RunClient(ctx, "127.0.0.1", c.Port, frame, true)
	if rc != fabric.ClientSuccess || len(resp) < 2 {
		return false
	}
	cnf := &catalog.SuccessCnf{}
	if err := cnf.UnmarshalBinary(resp[1:]); err != nil {
		return false
	}
	return cnf.Success
}

// Tick sends the periodic housekeeping poke (§4.5).
func (c *Client) Tick(ctx context.Context) bool {
	frame, err := (wire.Message{Type: wire.MsgType(MsgTaskHandlerTick), Body: nil}).Encode()
	if err != nil {
		return false
	}
	resp, rc := fabric.RunClient(ctx, "127.0.0.1", c.Port, frame, true)
	if rc != fabric.ClientSuccess || len(resp) < 2 {
		return false
	}
	cnf := &catalog.SuccessCnf{}
	if err := cnf.UnmarshalBinary(resp[1:]); err != nil {
		return false
	}
	return cnf.Success
}
