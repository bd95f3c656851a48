// Package wire implements Factorio's UDP packet framing: the one-byte
// type header, optional message id, optional fragment id, and optional
// confirmation list described in spec.md §4.3.
package wire

import (
	"fmt"

	"github.com/ancillary-agi/factorio-headless-client/internal/codec"
)

// MessageType is the low-5-bit message kind of the packet type byte.
type MessageType uint8

// The 19 defined message types (spec.md §4.3).
//
// Numeric ordinals are pinned to the server build this client speaks to
// (spec.md §1 "cross-version compatibility" is an explicit non-goal); the
// ConnectionRequestReplyConfirm/ConnectionRequestReply pair is ordered so
// that type id 3 is ConnectionRequestReply, matching the worked example in
// spec.md §8 ("encoding a type byte with (type=3, reliable=true,
// fragmented=true) yields 0x63; decoding 0x63 yields (ConnectionRequestReply,
// true, true)").
const (
	MsgPing MessageType = iota
	MsgConnectionRequest
	MsgConnectionRequestReplyConfirm
	MsgConnectionRequestReply
	MsgConnectionAcceptOrDeny
	MsgClientToServerHeartbeat
	MsgServerToClientHeartbeat
	MsgTransferBlockRequest
	MsgTransferBlock
	MsgRequestForHeartbeatWhenDisconnecting
	MsgGameInformationRequest
	MsgGameInformationRequestReply
	MsgEmpty
	MsgServerToServerHeartbeat
	MsgInterPointsOfView
	MsgToHost
	MsgNatTraversalEstablishedHost
	MsgNatTraversalEstablishedParticipant
	MsgNatTraversalEstablishedParticipantServer
)

func (t MessageType) String() string {
	names := [...]string{
		"Ping", "ConnectionRequest", "ConnectionRequestReplyConfirm",
		"ConnectionRequestReply", "ConnectionAcceptOrDeny",
		"ClientToServerHeartbeat", "ServerToClientHeartbeat",
		"TransferBlockRequest", "TransferBlock",
		"RequestForHeartbeatWhenDisconnecting", "GameInformationRequest",
		"GameInformationRequestReply", "Empty", "ServerToServerHeartbeat",
		"InterPointsOfView", "ToHost", "NatTraversalEstablishedHost",
		"NatTraversalEstablishedParticipant",
		"NatTraversalEstablishedParticipantServer",
	}
	if int(t) < len(names) {
		return names[t]
	}
	return fmt.Sprintf("MessageType(%d)", uint8(t))
}

const (
	flagReliable   uint8 = 1 << 5
	flagFragmented uint8 = 1 << 6
	flagServerSide uint8 = 1 << 7
	typeMask       uint8 = 0x1F
)

// alwaysHasMessageID holds the message types that always carry a message
// id, independent of the fragmented flag (spec.md §4.3).
var alwaysHasMessageID = map[MessageType]bool{
	MsgConnectionRequest:              true,
	MsgConnectionRequestReplyConfirm: true,
}

// Header is a decoded packet header (everything before the payload).
type Header struct {
	Type              MessageType
	Reliable          bool
	Fragmented        bool
	ServerSide        bool
	HasMessageID      bool
	MessageID         uint16 // low 15 bits; bit 15 (HasConfirmations) stripped
	HasConfirmations  bool
	FragmentID        uint16
	Confirmations     []uint32
}

// EncodeTypeByte composes the one-byte type header.
func EncodeTypeByte(t MessageType, reliable, fragmented, serverSide bool) byte {
	b := uint8(t) & typeMask
	if reliable {
		b |= flagReliable
	}
	if fragmented {
		b |= flagFragmented
	}
	if serverSide {
		b |= flagServerSide
	}
	return b
}

// DecodeTypeByte splits the one-byte type header into its fields.
func DecodeTypeByte(b byte) (t MessageType, reliable, fragmented, serverSide bool) {
	return MessageType(b & typeMask), b&flagReliable != 0, b&flagFragmented != 0, b&flagServerSide != 0
}

// Parse decodes a packet header from buf and returns the header plus the
// offset at which the payload begins.
func Parse(buf []byte) (Header, int, error) {
	r := codec.NewReader(buf)
	typeByte, err := r.U8()
	if err != nil {
		return Header{}, 0, fmt.Errorf("wire: read type byte: %w", err)
	}

	t, reliable, fragmented, serverSide := DecodeTypeByte(typeByte)
	h := Header{Type: t, Reliable: reliable, Fragmented: fragmented, ServerSide: serverSide}

	h.HasMessageID = fragmented || alwaysHasMessageID[t]
	if h.HasMessageID {
		raw, err := r.U16()
		if err != nil {
			return Header{}, 0, fmt.Errorf("wire: read message id: %w", err)
		}
		h.HasConfirmations = raw&0x8000 != 0
		h.MessageID = raw &^ 0x8000
	}

	if fragmented {
		fragID, err := r.OptU16()
		if err != nil {
			return Header{}, 0, fmt.Errorf("wire: read fragment id: %w", err)
		}
		h.FragmentID = fragID
	}

	if h.HasConfirmations {
		count, err := r.OptU32()
		if err != nil {
			return Header{}, 0, fmt.Errorf("wire: read confirmation count: %w", err)
		}
		h.Confirmations = make([]uint32, count)
		for i := range h.Confirmations {
			v, err := r.U32()
			if err != nil {
				return Header{}, 0, fmt.Errorf("wire: read confirmation %d: %w", i, err)
			}
			h.Confirmations[i] = v
		}
	}

	return h, r.Pos(), nil
}

// Build composes a packet header plus payload into a byte slice.
func Build(h Header, payload []byte) []byte {
	w := codec.NewWriter()
	hasConfirmations := len(h.Confirmations) > 0
	w.U8(EncodeTypeByte(h.Type, h.Reliable, h.Fragmented, h.ServerSide))

	if h.HasMessageID || h.Fragmented || alwaysHasMessageID[h.Type] {
		raw := h.MessageID &^ 0x8000
		if hasConfirmations {
			raw |= 0x8000
		}
		w.U16(raw)
	}

	if h.Fragmented {
		w.OptU16(h.FragmentID)
	}

	if hasConfirmations {
		w.OptU32(uint32(len(h.Confirmations)))
		for _, id := range h.Confirmations {
			w.U32(id)
		}
	}

	w.Raw(payload)
	return w.Bytes()
}
