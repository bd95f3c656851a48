package message

import (
	"fmt"

	"github.com/ancillary-agi/factorio-headless-client/internal/action"
	"github.com/ancillary-agi/factorio-headless-client/internal/codec"
)

// SyncActionType is the closed set of synchronizer-level actions the
// server relays alongside ordinary player input: lifecycle, latency, and
// map-transfer signalling that isn't itself a player command (spec.md
// §4.4).
type SyncActionType uint8

const (
	SyncGameEnd SyncActionType = iota
	SyncPeerDisconnect
	SyncNewPeerInfo
	SyncClientChangedState
	SyncClientShouldStartSendingTickClosures
	SyncMapReadyForDownload
	SyncMapLoadingProgressUpdate
	SyncMapSavingProgressUpdate
	SyncMapDownloadingProgressUpdate
	SyncCatchingUpProgressUpdate
	SyncPlayerDesynced
	SyncBeginPause
	SyncEndPause
	SyncSkippedTickClosure
	SyncChangeLatency
	SyncIncreasedLatencyConfirm
	SyncSavingCountdown

	// SyncPlayerAction is outside the server's synchronizer-action enum:
	// it marks a tick-closure entry whose payload is an ordinary player
	// input action (package action), the wire's usual way of relaying
	// what a player did on a given tick (spec.md §3).
	SyncPlayerAction SyncActionType = 0xFF
)

// SyncPayload is a synchronizer action's typed payload (spec.md §4.4).
// Variants with no parenthetical payload in the spec carry no fields and
// decode from zero bytes.
type SyncPayload interface {
	Type() SyncActionType
	encode(w *codec.Writer)
	sealed()
}

var syncDecoders = map[SyncActionType]func(r *codec.Reader) (SyncPayload, error){}

func registerSync(t SyncActionType, fn func(r *codec.Reader) (SyncPayload, error)) {
	syncDecoders[t] = fn
}

// EncodeSyncPayload writes p's fields (its type is carried separately by
// the enclosing SyncAction, so no type id is written here).
func EncodeSyncPayload(p SyncPayload) []byte {
	w := codec.NewWriter()
	p.encode(w)
	return w.Bytes()
}

// DecodeSyncPayload decodes payload as the typed form of synchronizer
// action t.
func DecodeSyncPayload(t SyncActionType, payload []byte) (SyncPayload, error) {
	dec, ok := syncDecoders[t]
	if !ok {
		return nil, fmt.Errorf("message: unknown synchronizer action type %d", t)
	}
	return dec(codec.NewReader(payload))
}

type (
	GameEnd                    struct{}
	PeerDisconnect             struct{}
	NewPeerInfo                struct{}
	ClientChangedState         struct{}
	MapSavingProgressUpdate    struct{}
	MapDownloadingProgressUpdate struct{}
	CatchingUpProgressUpdate   struct{}
	PlayerDesynced             struct{}
	BeginPause                 struct{}
	EndPause                   struct{}
	SkippedTickClosure         struct{}
	SavingCountdown            struct{}
)

func (GameEnd) Type() SyncActionType                      { return SyncGameEnd }
func (PeerDisconnect) Type() SyncActionType                { return SyncPeerDisconnect }
func (NewPeerInfo) Type() SyncActionType                   { return SyncNewPeerInfo }
func (ClientChangedState) Type() SyncActionType            { return SyncClientChangedState }
func (MapSavingProgressUpdate) Type() SyncActionType       { return SyncMapSavingProgressUpdate }
func (MapDownloadingProgressUpdate) Type() SyncActionType  { return SyncMapDownloadingProgressUpdate }
func (CatchingUpProgressUpdate) Type() SyncActionType      { return SyncCatchingUpProgressUpdate }
func (PlayerDesynced) Type() SyncActionType                { return SyncPlayerDesynced }
func (BeginPause) Type() SyncActionType                    { return SyncBeginPause }
func (EndPause) Type() SyncActionType                      { return SyncEndPause }
func (SkippedTickClosure) Type() SyncActionType            { return SyncSkippedTickClosure }
func (SavingCountdown) Type() SyncActionType                { return SyncSavingCountdown }

func (GameEnd) encode(*codec.Writer)                      {}
func (PeerDisconnect) encode(*codec.Writer)                {}
func (NewPeerInfo) encode(*codec.Writer)                   {}
func (ClientChangedState) encode(*codec.Writer)             {}
func (MapSavingProgressUpdate) encode(*codec.Writer)       {}
func (MapDownloadingProgressUpdate) encode(*codec.Writer)  {}
func (CatchingUpProgressUpdate) encode(*codec.Writer)      {}
func (PlayerDesynced) encode(*codec.Writer)                {}
func (BeginPause) encode(*codec.Writer)                    {}
func (EndPause) encode(*codec.Writer)                      {}
func (SkippedTickClosure) encode(*codec.Writer)             {}
func (SavingCountdown) encode(*codec.Writer)                {}

func (GameEnd) sealed()                      {}
func (PeerDisconnect) sealed()               {}
func (NewPeerInfo) sealed()                  {}
func (ClientChangedState) sealed()           {}
func (MapSavingProgressUpdate) sealed()      {}
func (MapDownloadingProgressUpdate) sealed() {}
func (CatchingUpProgressUpdate) sealed()     {}
func (PlayerDesynced) sealed()               {}
func (BeginPause) sealed()                   {}
func (EndPause) sealed()                     {}
func (SkippedTickClosure) sealed()           {}
func (SavingCountdown) sealed()              {}

func init() {
	empty := func(v SyncPayload) func(r *codec.Reader) (SyncPayload, error) {
		return func(r *codec.Reader) (SyncPayload, error) { return v, nil }
	}
	registerSync(SyncGameEnd, empty(GameEnd{}))
	registerSync(SyncPeerDisconnect, empty(PeerDisconnect{}))
	registerSync(SyncNewPeerInfo, empty(NewPeerInfo{}))
	registerSync(SyncClientChangedState, empty(ClientChangedState{}))
	registerSync(SyncMapSavingProgressUpdate, empty(MapSavingProgressUpdate{}))
	registerSync(SyncMapDownloadingProgressUpdate, empty(MapDownloadingProgressUpdate{}))
	registerSync(SyncCatchingUpProgressUpdate, empty(CatchingUpProgressUpdate{}))
	registerSync(SyncPlayerDesynced, empty(PlayerDesynced{}))
	registerSync(SyncBeginPause, empty(BeginPause{}))
	registerSync(SyncEndPause, empty(EndPause{}))
	registerSync(SyncSkippedTickClosure, empty(SkippedTickClosure{}))
	registerSync(SyncSavingCountdown, empty(SavingCountdown{}))
}

// ClientShouldStartSendingTickClosures tells the client which tick to
// start stamping its own outbound tick closures with (spec.md §4.4, §4.5).
type ClientShouldStartSendingTickClosures struct {
	Tick uint64
}

func (ClientShouldStartSendingTickClosures) Type() SyncActionType {
	return SyncClientShouldStartSendingTickClosures
}
func (c ClientShouldStartSendingTickClosures) encode(w *codec.Writer) { w.U64(c.Tick) }
func (ClientShouldStartSendingTickClosures) sealed()                  {}

func init() {
	registerSync(SyncClientShouldStartSendingTickClosures, func(r *codec.Reader) (SyncPayload, error) {
		tick, err := r.U64()
		if err != nil {
			return nil, fmt.Errorf("client-should-start-sending tick: %w", err)
		}
		return ClientShouldStartSendingTickClosures{Tick: tick}, nil
	})
}

// MapReadyForDownload announces the map transfer that's about to begin.
// PrototypeChecksum stands in for the full prototype table the real
// protocol embeds here; this client decodes it but does not compare it
// against anything (spec.md §4.4, §4.5 phase 2/3).
type MapReadyForDownload struct {
	TransferSize      uint64
	CRC               uint32
	MapTick           uint64
	PrototypeChecksum uint32
}

func (MapReadyForDownload) Type() SyncActionType { return SyncMapReadyForDownload }
func (m MapReadyForDownload) encode(w *codec.Writer) {
	w.U64(m.TransferSize)
	w.U32(m.CRC)
	w.U64(m.MapTick)
	w.U32(m.PrototypeChecksum)
}
func (MapReadyForDownload) sealed() {}

func init() {
	registerSync(SyncMapReadyForDownload, func(r *codec.Reader) (SyncPayload, error) {
		size, err := r.U64()
		if err != nil {
			return nil, fmt.Errorf("map-ready transfer size: %w", err)
		}
		crc, err := r.U32()
		if err != nil {
			return nil, fmt.Errorf("map-ready crc: %w", err)
		}
		mapTick, err := r.U64()
		if err != nil {
			return nil, fmt.Errorf("map-ready map tick: %w", err)
		}
		proto, err := r.U32()
		if err != nil {
			return nil, fmt.Errorf("map-ready prototype checksum: %w", err)
		}
		return MapReadyForDownload{TransferSize: size, CRC: crc, MapTick: mapTick, PrototypeChecksum: proto}, nil
	})
}

// MapLoadingProgressUpdate reports the server's percent-complete while it
// prepares the map for transfer (spec.md §4.4).
type MapLoadingProgressUpdate struct {
	Progress uint8
}

func (MapLoadingProgressUpdate) Type() SyncActionType      { return SyncMapLoadingProgressUpdate }
func (m MapLoadingProgressUpdate) encode(w *codec.Writer)  { w.U8(m.Progress) }
func (MapLoadingProgressUpdate) sealed()                    {}

func init() {
	registerSync(SyncMapLoadingProgressUpdate, func(r *codec.Reader) (SyncPayload, error) {
		p, err := r.U8()
		if err != nil {
			return nil, fmt.Errorf("map-loading progress: %w", err)
		}
		return MapLoadingProgressUpdate{Progress: p}, nil
	})
}

// ChangeLatency tells the client its new target tick lead; this client
// reacts by setting client_tick_lead = latency-3 (spec.md §4.4, §4.5),
// clamped to at least 1.
type ChangeLatency struct {
	Latency uint8
}

func (ChangeLatency) Type() SyncActionType     { return SyncChangeLatency }
func (c ChangeLatency) encode(w *codec.Writer) { w.U8(c.Latency) }
func (ChangeLatency) sealed()                  {}

func init() {
	registerSync(SyncChangeLatency, func(r *codec.Reader) (SyncPayload, error) {
		lat, err := r.U8()
		if err != nil {
			return nil, fmt.Errorf("change-latency: %w", err)
		}
		return ChangeLatency{Latency: lat}, nil
	})
}

// IncreasedLatencyConfirm acknowledges a latency increase the client
// requested, effective as of Tick (spec.md §4.4).
type IncreasedLatencyConfirm struct {
	Tick    uint64
	Latency uint8
}

func (IncreasedLatencyConfirm) Type() SyncActionType { return SyncIncreasedLatencyConfirm }
func (c IncreasedLatencyConfirm) encode(w *codec.Writer) {
	w.U64(c.Tick)
	w.U8(c.Latency)
}
func (IncreasedLatencyConfirm) sealed() {}

func init() {
	registerSync(SyncIncreasedLatencyConfirm, func(r *codec.Reader) (SyncPayload, error) {
		tick, err := r.U64()
		if err != nil {
			return nil, fmt.Errorf("increased-latency-confirm tick: %w", err)
		}
		lat, err := r.U8()
		if err != nil {
			return nil, fmt.Errorf("increased-latency-confirm latency: %w", err)
		}
		return IncreasedLatencyConfirm{Tick: tick, Latency: lat}, nil
	})
}

// SyncAction is one entry in a tick closure's or heartbeat's action list:
// a type, the player it's attributed to (zero for actions that aren't
// player-specific), and its raw encoded payload.
type SyncAction struct {
	PlayerIndex uint16
	Type        SyncActionType
	Payload     []byte
}

// TickClosure is one tick's worth of actions, as carried by a heartbeat
// (spec.md §3, §4.5).
type TickClosure struct {
	Tick    uint32
	Actions []SyncAction
}

// hasSegmentsBit marks, in the packed action-count field, that a trailing
// segments section follows the action list (spec.md §3). This client
// never emits segments and only skips them on decode.
const hasSegmentsBit = uint32(1)

// EncodeTickClosure writes tick as a full 8-byte counter, then a packed
// action count (low bit: has-segments, upper bits: count), then each
// action as a type byte, a delta-encoded player index, and its raw
// payload with no length prefix — every registered payload shape is
// self-delimiting on decode (spec.md §3).
func EncodeTickClosure(c TickClosure) []byte {
	w := codec.NewWriter()
	w.U64(uint64(c.Tick))
	w.OptU32(uint32(len(c.Actions)) << 1)
	prev := uint16(0xFFFF)
	for _, a := range c.Actions {
		w.U8(uint8(a.Type))
		w.OptU16(a.PlayerIndex - prev)
		prev = a.PlayerIndex
		w.Raw(a.Payload)
	}
	return w.Bytes()
}

func DecodeTickClosure(buf []byte) (TickClosure, int, error) {
	r := codec.NewReader(buf)
	tick, err := r.U64()
	if err != nil {
		return TickClosure{}, 0, fmt.Errorf("message: tick closure tick: %w", err)
	}
	packed, err := r.OptU32()
	if err != nil {
		return TickClosure{}, 0, fmt.Errorf("message: tick closure action count: %w", err)
	}
	hasSegments := packed&hasSegmentsBit != 0
	count := packed >> 1

	actions := make([]SyncAction, count)
	prev := uint16(0xFFFF)
	for i := range actions {
		typ, err := r.U8()
		if err != nil {
			return TickClosure{}, 0, fmt.Errorf("message: action %d type: %w", i, err)
		}
		delta, err := r.OptU16()
		if err != nil {
			return TickClosure{}, 0, fmt.Errorf("message: action %d player index delta: %w", i, err)
		}
		idx := prev + delta
		prev = idx
		payload, err := decodeSyncActionPayload(SyncActionType(typ), r)
		if err != nil {
			return TickClosure{}, 0, fmt.Errorf("message: action %d payload: %w", i, err)
		}
		actions[i] = SyncAction{PlayerIndex: idx, Type: SyncActionType(typ), Payload: payload}
	}

	if hasSegments {
		segCount, err := r.OptU32()
		if err != nil {
			return TickClosure{}, 0, fmt.Errorf("message: tick closure segment count: %w", err)
		}
		for i := uint32(0); i < segCount; i++ {
			segLen, err := r.OptU32()
			if err != nil {
				return TickClosure{}, 0, fmt.Errorf("message: segment %d length: %w", i, err)
			}
			if _, err := r.Bytes(int(segLen)); err != nil {
				return TickClosure{}, 0, fmt.Errorf("message: segment %d data: %w", i, err)
			}
		}
	}

	return TickClosure{Tick: uint32(tick), Actions: actions}, r.Pos(), nil
}

// decodeSyncActionPayload reads one action's payload without any length
// prefix, relying on the type's own decoder to know where it ends.
// SyncPlayerAction payloads delegate to package action's own
// self-delimiting Decode; every other type delegates to its registered
// synchronizer decoder run against a throwaway reader so the number of
// bytes it actually consumed can be measured and re-sliced as raw bytes.
func decodeSyncActionPayload(t SyncActionType, r *codec.Reader) ([]byte, error) {
	before := r.Rest()
	var consumed int
	if t == SyncPlayerAction {
		_, n, err := action.Decode(before)
		if err != nil {
			return nil, fmt.Errorf("player action: %w", err)
		}
		consumed = n
	} else {
		dec, ok := syncDecoders[t]
		if !ok {
			return nil, fmt.Errorf("unknown synchronizer action type %d", t)
		}
		sub := codec.NewReader(before)
		if _, err := dec(sub); err != nil {
			return nil, err
		}
		consumed = sub.Pos()
	}
	if err := r.Skip(consumed); err != nil {
		return nil, err
	}
	payload := make([]byte, consumed)
	copy(payload, before[:consumed])
	return payload, nil
}

// encodeSyncTail and decodeSyncTail carry the synchronizer actions a
// heartbeat attaches outside of any tick closure — control signals like
// ChangeLatency or MapReadyForDownload that apply immediately rather than
// at a simulated tick (spec.md §4.5 "finally parse any synchronizer
// actions in the tail").
func encodeSyncTail(actions []SyncAction) []byte {
	w := codec.NewWriter()
	w.OptU32(uint32(len(actions)))
	for _, a := range actions {
		w.U8(uint8(a.Type))
		w.Raw(a.Payload)
	}
	return w.Bytes()
}

func decodeSyncTail(r *codec.Reader) ([]SyncAction, error) {
	count, err := r.OptU32()
	if err != nil {
		return nil, fmt.Errorf("sync action count: %w", err)
	}
	actions := make([]SyncAction, count)
	for i := range actions {
		typ, err := r.U8()
		if err != nil {
			return nil, fmt.Errorf("action %d type: %w", i, err)
		}
		payload, err := decodeSyncActionPayload(SyncActionType(typ), r)
		if err != nil {
			return nil, fmt.Errorf("action %d payload: %w", i, err)
		}
		actions[i] = SyncAction{Type: SyncActionType(typ), Payload: payload}
	}
	return actions, nil
}

// TickConfirm records one server-confirmed tick and its checksum, sent
// back to the client inside a heartbeat (spec.md §4.5).
type TickConfirm struct {
	Tick     uint32
	Checksum uint32
}
