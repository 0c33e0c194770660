package main

import "github.com/rxtech-lab/argo-signal/internal/types"

// SignalMsg carries a new signal from the WebSocket stream.
type SignalMsg struct {
	Signal types.Signal
}

// StreamErrorMsg indicates an error in the signal stream.
type StreamErrorMsg struct {
	Err error
}

// StreamStartedMsg signals that streaming has begun.
type StreamStartedMsg struct{}
