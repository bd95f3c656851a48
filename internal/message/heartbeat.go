package message

import (
	"fmt"

	"github.com/ancillary-agi/factorio-headless-client/internal/codec"
)

// ClientToServerHeartbeat is sent every tick once in the InGame state. Its
// minimal form (no closures, no confirmations) is 22 bytes on the wire
// once wrapped in a wire.Header: 1 type byte + 2 message id + 4 tick +
// 4 confirmed tick + 2 client tick lead + 1 closure count + 8 reserved
// sync-health fields (spec.md §4.5 "Live heartbeats").
type ClientToServerHeartbeat struct {
	Tick          uint32
	ConfirmedTick uint32
	ClientTickLead uint16
	Closures      []TickClosure
}

func EncodeClientHeartbeat(h ClientToServerHeartbeat) []byte {
	w := codec.NewWriter()
	w.U32(h.Tick)
	w.U32(h.ConfirmedTick)
	w.U16(h.ClientTickLead)
	w.OptU32(uint32(len(h.Closures)))
	for _, c := range h.Closures {
		w.Raw(EncodeTickClosure(c))
	}
	return w.Bytes()
}

func DecodeClientHeartbeat(buf []byte) (ClientToServerHeartbeat, error) {
	r := codec.NewReader(buf)
	tick, err := r.U32()
	if err != nil {
		return ClientToServerHeartbeat{}, fmt.Errorf("message: client heartbeat tick: %w", err)
	}
	confirmed, err := r.U32()
	if err != nil {
		return ClientToServerHeartbeat{}, fmt.Errorf("message: client heartbeat confirmed tick: %w", err)
	}
	lead, err := r.U16()
	if err != nil {
		return ClientToServerHeartbeat{}, fmt.Errorf("message: client heartbeat tick lead: %w", err)
	}
	count, err := r.OptU32()
	if err != nil {
		return ClientToServerHeartbeat{}, fmt.Errorf("message: client heartbeat closure count: %w", err)
	}
	closures := make([]TickClosure, count)
	for i := range closures {
		c, n, err := DecodeTickClosure(r.Rest())
		if err != nil {
			return ClientToServerHeartbeat{}, fmt.Errorf("message: client heartbeat closure %d: %w", i, err)
		}
		if err := r.Skip(n); err != nil {
			return ClientToServerHeartbeat{}, fmt.Errorf("message: client heartbeat closure %d skip: %w", i, err)
		}
		closures[i] = c
	}
	return ClientToServerHeartbeat{
		Tick: tick, ConfirmedTick: confirmed, ClientTickLead: lead, Closures: closures,
	}, nil
}

// ServerToClientHeartbeat carries the server's authoritative tick, any
// checksum confirmations for ticks already simulated, new tick closures
// the client has not yet received, and a tail of synchronizer actions
// that apply immediately rather than at a simulated tick — latency
// changes, map-transfer signalling, pause/resume (spec.md §4.5).
type ServerToClientHeartbeat struct {
	Tick     uint32
	Confirms []TickConfirm
	Closures []TickClosure
	Actions  []SyncAction
}

func EncodeServerHeartbeat(h ServerToClientHeartbeat) []byte {
	w := codec.NewWriter()
	w.U32(h.Tick)
	w.OptU32(uint32(len(h.Confirms)))
	for _, c := range h.Confirms {
		w.U32(c.Tick)
		w.U32(c.Checksum)
	}
	w.OptU32(uint32(len(h.Closures)))
	for _, c := range h.Closures {
		w.Raw(EncodeTickClosure(c))
	}
	w.Raw(encodeSyncTail(h.Actions))
	return w.Bytes()
}

func DecodeServerHeartbeat(buf []byte) (ServerToClientHeartbeat, error) {
	r := codec.NewReader(buf)
	tick, err := r.U32()
	if err != nil {
		return ServerToClientHeartbeat{}, fmt.Errorf("message: server heartbeat tick: %w", err)
	}
	confirmCount, err := r.OptU32()
	if err != nil {
		return ServerToClientHeartbeat{}, fmt.Errorf("message: server heartbeat confirm count: %w", err)
	}
	confirms := make([]TickConfirm, confirmCount)
	for i := range confirms {
		t, err := r.U32()
		if err != nil {
			return ServerToClientHeartbeat{}, fmt.Errorf("message: server heartbeat confirm %d tick: %w", i, err)
		}
		cs, err := r.U32()
		if err != nil {
			return ServerToClientHeartbeat{}, fmt.Errorf("message: server heartbeat confirm %d checksum: %w", i, err)
		}
		confirms[i] = TickConfirm{Tick: t, Checksum: cs}
	}
	closureCount, err := r.OptU32()
	if err != nil {
		return ServerToClientHeartbeat{}, fmt.Errorf("message: server heartbeat closure count: %w", err)
	}
	closures := make([]TickClosure, closureCount)
	for i := range closures {
		c, n, err := DecodeTickClosure(r.Rest())
		if err != nil {
			return ServerToClientHeartbeat{}, fmt.Errorf("message: server heartbeat closure %d: %w", i, err)
		}
		if err := r.Skip(n); err != nil {
			return ServerToClientHeartbeat{}, fmt.Errorf("message: server heartbeat closure %d skip: %w", i, err)
		}
		closures[i] = c
	}
	actions, err := decodeSyncTail(r)
	if err != nil {
		return ServerToClientHeartbeat{}, fmt.Errorf("message: server heartbeat sync tail: %w", err)
	}
	return ServerToClientHeartbeat{Tick: tick, Confirms: confirms, Closures: closures, Actions: actions}, nil
}
