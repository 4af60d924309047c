package dispatch

// State is the explicit position of one request in the dispatch machine.
// Vendor-injected completions and redirect-screen completions are
// external events fed back through the same registry, not separate code
// paths.
type State int

const (
	StateIdle State = iota
	StateValidating
	StateBuildingRequest
	StateAwaitingServer
	StateChannelInvoke
	StateQRReady
	StateServerRejected
	StateNetworkFailed
	StateDelivered
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateValidating:
		return "validating"
	case StateBuildingRequest:
		return "building_request"
	case StateAwaitingServer:
		return "awaiting_server"
	case StateChannelInvoke:
		return "channel_invoke"
	case StateQRReady:
		return "qr_ready"
	case StateServerRejected:
		return "server_rejected"
	case StateNetworkFailed:
		return "network_failed"
	case StateDelivered:
		return "delivered"
	default:
		return "unknown"
	}
}

// Terminal reports whether the state ends the worker's involvement.
// ChannelInvoke is terminal for the worker even though the outcome
// arrives later through an external event.
func (s State) Terminal() bool {
	switch s {
	case StateChannelInvoke, StateQRReady, StateServerRejected, StateNetworkFailed, StateDelivered:
		return true
	default:
		return false
	}
}
