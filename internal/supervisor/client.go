package supervisor

import (
	"context"

	"roboone/internal/fabric"
	"roboone/internal/taskhandler"
	"roboone/internal/wire"
)

// Client lets an external caller (the debug terminal, a test fixture, or
// another server) post an event to the Supervisor (§6.2).
type Client struct {
	Port string
}

func NewClient(port string) *Client {
	return &Client{Port: port}
}

func (c *Client) send(ctx context.Context, msgType uint8, body []byte) bool {
	frame, err := (wire.Message{Type: wire.MsgType(msgType), Body: body}).Encode()
	if err != nil {
		return false
	}
	_, rc := fabric.RunClient(ctx, "127.0.0.1", c.Port, frame, true)
	return rc == fabric.ClientSuccess
}

func (c *Client) Init(ctx context.Context) bool        { return c.send(ctx, MsgEventInit, nil) }
func (c *Client) InitFailure(ctx context.Context) bool { return c.send(ctx, MsgEventInitFailure, nil) }
func (c *Client) TimerExpiry(ctx context.Context) bool { return c.send(ctx, MsgEventTimerExpiry, nil) }
func (c *Client) NoTasksAvailable(ctx context.Context) bool {
	return c.send(ctx, MsgEventNoTasksAvailable, nil)
}
func (c *Client) MainsPowerAvailable(ctx context.Context) bool {
	return c.send(ctx, MsgEventMainsPowerAvailable, nil)
}
func (c *Client) InsufficientPower(ctx context.Context) bool {
	return c.send(ctx, MsgEventInsufficientPower, nil)
}
func (c *Client) FullyCharged(ctx context.Context) bool {
	return c.send(ctx, MsgEventFullyCharged, nil)
}
func (c *Client) Shutdown(ctx context.Context) bool { return c.send(ctx, MsgEventShutdown, nil) }

// TasksAvailable posts a task for dispatch once the Supervisor reaches
// Mobile (§4.4, §8 scenario 5).
func (c *Client) TasksAvailable(ctx context.Context, protocol taskhandler.Protocol, command string) bool {
	req := &TasksAvailableReq{Protocol: protocol, Command: command}
	body, err := req.MarshalBinary()
	if err != nil {
		return false
	}
	return c.send(ctx, MsgEventTasksAvailable, body)
}
