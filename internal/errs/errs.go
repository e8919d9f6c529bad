// Package errs collects the sentinel errors used across RoboOne's servers,
// grouped by subsystem so a handler can compare with errors.Is instead of
// matching on message text.
package errs

import "errors"

// Transport errors (Messaging Fabric, §7).
var (
	ErrFailedToCreateSocket = errors.New("failed to create socket")
	ErrFailedToBindSocket   = errors.New("failed to bind socket")
	ErrFailedToListen       = errors.New("failed to listen on socket")
	ErrFailedToAccept       = errors.New("failed to accept client connection")
	ErrFailedToConnect      = errors.New("failed to connect to server")
	ErrShortSend            = errors.New("could not send whole message to peer")
	ErrIncompleteOrTooLong  = errors.New("message from peer incomplete or too long")
	ErrSendMessageNil       = errors.New("message to send is nil")
	ErrFailedToSendResponse = errors.New("failed to send response to client")
)

// Catalog errors (Message Catalog, §4.2).
var (
	ErrDuplicateTypeCode = errors.New("duplicate message type code in catalog")
	ErrUnknownTypeCode   = errors.New("type code not present in catalog")
	ErrBodyTooLarge      = errors.New("message body exceeds maximum length")
	ErrEmptyCatalog      = errors.New("catalog has no declared messages")
)

// Timer Service errors (§4.3).
var (
	ErrTimerNotFound = errors.New("no timer with that (id, sourcePort)")
)

// Supervisor errors (§4.4).
var (
	ErrUnhandledEvent = errors.New("event has no handler in the current state")
)

// Task Handler errors (§4.5).
var (
	ErrUnknownTaskProtocol = errors.New("unknown task protocol")
	ErrTaskNotFound        = errors.New("no in-flight task with that handle")
	ErrCommandTooLong      = errors.New("hindbrain command string truncated to fit")
)
