// Package botio defines the small set of types external callers (the
// CLI, or an embedding application) use to observe a running
// connection: action-status events reported as the bot walks, mines,
// or builds, and connection lifecycle events. The collaborator seams
// themselves (prototype lookups, chunk synthesis) are defined as
// consumer-side interfaces on world.World and pathfind.Walkability,
// following the accept-interfaces-where-you-use-them idiom the teacher
// repo's networking/shared package also follows for its Message
// interface — this package only carries the event vocabulary shared
// across those collaborators, not a re-export of their interfaces.
package botio

import "github.com/ancillary-agi/factorio-headless-client/internal/follow"

// EventKind classifies a lifecycle event reported on a Connection's
// event channel (spec.md §4.5's connection state machine transitions).
type EventKind uint8

const (
	EventConnecting EventKind = iota
	EventConnected
	EventMapDownloading
	EventMapDownloaded
	EventInGame
	EventDesync
	EventDisconnected
	EventError
	EventActionStatus
)

func (k EventKind) String() string {
	switch k {
	case EventConnecting:
		return "connecting"
	case EventConnected:
		return "connected"
	case EventMapDownloading:
		return "map_downloading"
	case EventMapDownloaded:
		return "map_downloaded"
	case EventInGame:
		return "in_game"
	case EventDesync:
		return "desync"
	case EventDisconnected:
		return "disconnected"
	case EventError:
		return "error"
	case EventActionStatus:
		return "action_status"
	default:
		return "unknown"
	}
}

// Event is one item on a Connection's event stream. ActionStatus is
// only populated when Kind is EventActionStatus; Err only when Kind is
// EventError or EventDesync.
type Event struct {
	Kind         EventKind
	Tick         uint32
	ActionStatus follow.Status
	Detail       string
	Err          error
}

func (e Event) String() string {
	if e.Kind == EventActionStatus {
		return e.ActionStatus.String()
	}
	return e.Kind.String()
}
