// Package message implements the typed payloads carried inside packets:
// handshake messages, map-transfer blocks, heartbeats, tick closures, and
// synchronizer actions (spec.md §4.4).
package message

import (
	"fmt"

	"github.com/ancillary-agi/factorio-headless-client/internal/codec"
)

// ApplicationVersion is the pinned client build this session speaks
// (spec.md §6.1).
const (
	AppVersionMajor = 2
	AppVersionMinor = 0
	AppVersionPatch = 72
	AppVersionBuild = 84292
)

// ConnectionRequest is the client's opening handshake message.
type ConnectionRequest struct {
	ClientRequestID uint32
}

func (m ConnectionRequest) Encode() []byte {
	w := codec.NewWriter()
	w.U8(AppVersionMajor)
	w.U8(AppVersionMinor)
	w.U8(AppVersionPatch)
	w.U8(0) // build is encoded as u32 below, this byte is reserved/platform in the real wire
	w.U32(AppVersionBuild)
	w.U32(m.ClientRequestID)
	return w.Bytes()
}

func DecodeConnectionRequest(buf []byte) (ConnectionRequest, error) {
	r := codec.NewReader(buf)
	if _, err := r.Bytes(4); err != nil {
		return ConnectionRequest{}, fmt.Errorf("message: connection request version: %w", err)
	}
	if _, err := r.U32(); err != nil {
		return ConnectionRequest{}, fmt.Errorf("message: connection request build: %w", err)
	}
	id, err := r.U32()
	if err != nil {
		return ConnectionRequest{}, fmt.Errorf("message: connection request id: %w", err)
	}
	return ConnectionRequest{ClientRequestID: id}, nil
}

// ConnectionRequestReply is the server's reply to ConnectionRequest.
type ConnectionRequestReply struct {
	ServerRequestID uint32
	MaxPacketSize   uint16
}

func DecodeConnectionRequestReply(buf []byte) (ConnectionRequestReply, error) {
	r := codec.NewReader(buf)
	id, err := r.U32()
	if err != nil {
		return ConnectionRequestReply{}, fmt.Errorf("message: server request id: %w", err)
	}
	size, err := r.U16()
	if err != nil {
		return ConnectionRequestReply{}, fmt.Errorf("message: max packet size: %w", err)
	}
	return ConnectionRequestReply{ServerRequestID: id, MaxPacketSize: size}, nil
}

// ConnectionRequestReplyConfirm is the client's confirmation of the
// handshake, carrying username, mod list, and checksums.
type ConnectionRequestReplyConfirm struct {
	Username         string
	ModList          []ModListEntry
	CoreChecksum     uint32
	PrototypeChecksum uint32
}

// ModListEntry names one mod and its checksum.
type ModListEntry struct {
	Name     string
	Checksum uint32
}

func (m ConnectionRequestReplyConfirm) Encode() []byte {
	w := codec.NewWriter()
	w.SimpleString(m.Username)
	w.OptU32(uint32(len(m.ModList)))
	for _, mod := range m.ModList {
		w.SimpleString(mod.Name)
		w.U32(mod.Checksum)
	}
	w.U32(m.CoreChecksum)
	w.U32(m.PrototypeChecksum)
	return w.Bytes()
}

func DecodeConnectionRequestReplyConfirm(buf []byte) (ConnectionRequestReplyConfirm, error) {
	r := codec.NewReader(buf)
	username, err := r.SimpleString()
	if err != nil {
		return ConnectionRequestReplyConfirm{}, fmt.Errorf("message: username: %w", err)
	}
	count, err := r.OptU32()
	if err != nil {
		return ConnectionRequestReplyConfirm{}, fmt.Errorf("message: mod count: %w", err)
	}
	mods := make([]ModListEntry, count)
	for i := range mods {
		name, err := r.SimpleString()
		if err != nil {
			return ConnectionRequestReplyConfirm{}, fmt.Errorf("message: mod name %d: %w", i, err)
		}
		checksum, err := r.U32()
		if err != nil {
			return ConnectionRequestReplyConfirm{}, fmt.Errorf("message: mod checksum %d: %w", i, err)
		}
		mods[i] = ModListEntry{Name: name, Checksum: checksum}
	}
	core, err := r.U32()
	if err != nil {
		return ConnectionRequestReplyConfirm{}, fmt.Errorf("message: core checksum: %w", err)
	}
	proto, err := r.U32()
	if err != nil {
		return ConnectionRequestReplyConfirm{}, fmt.Errorf("message: prototype checksum: %w", err)
	}
	return ConnectionRequestReplyConfirm{
		Username: username, ModList: mods, CoreChecksum: core, PrototypeChecksum: proto,
	}, nil
}

// DenyReason enumerates ConnectionAcceptOrDeny failure reasons.
type DenyReason uint8

const (
	DenyNone DenyReason = iota
	DenyVersionMismatch
	DenyPasswordMismatch
	DenyTooManyPlayers
	DenyNotWhitelisted
	DenyBanned
	DenyUnknown
)

// ConnectionAcceptOrDeny is the server's handshake decision.
type ConnectionAcceptOrDeny struct {
	Accepted       bool
	Reason         DenyReason
	PeerID         uint16
	PlayerIndex    uint16
	PeerConstant   uint16
	InitialMsgID   uint16
	InitialTick    uint64
	ServerName     string
}

func DecodeConnectionAcceptOrDeny(buf []byte) (ConnectionAcceptOrDeny, error) {
	r := codec.NewReader(buf)
	accepted, err := r.Bool()
	if err != nil {
		return ConnectionAcceptOrDeny{}, fmt.Errorf("message: accept flag: %w", err)
	}
	if !accepted {
		reason, err := r.U8()
		if err != nil {
			return ConnectionAcceptOrDeny{}, fmt.Errorf("message: deny reason: %w", err)
		}
		return ConnectionAcceptOrDeny{Accepted: false, Reason: DenyReason(reason)}, nil
	}

	peerID, err := r.U16()
	if err != nil {
		return ConnectionAcceptOrDeny{}, fmt.Errorf("message: peer id: %w", err)
	}
	playerIndex, err := r.U16()
	if err != nil {
		return ConnectionAcceptOrDeny{}, fmt.Errorf("message: player index: %w", err)
	}
	peerConstant, err := r.U16()
	if err != nil {
		return ConnectionAcceptOrDeny{}, fmt.Errorf("message: peer constant: %w", err)
	}
	initialMsgID, err := r.U16()
	if err != nil {
		return ConnectionAcceptOrDeny{}, fmt.Errorf("message: initial msg id: %w", err)
	}
	initialTick, err := r.U64()
	if err != nil {
		return ConnectionAcceptOrDeny{}, fmt.Errorf("message: initial tick: %w", err)
	}
	serverName, err := r.SimpleString()
	if err != nil {
		return ConnectionAcceptOrDeny{}, fmt.Errorf("message: server name: %w", err)
	}
	return ConnectionAcceptOrDeny{
		Accepted: true, PeerID: peerID, PlayerIndex: playerIndex,
		PeerConstant: peerConstant, InitialMsgID: initialMsgID,
		InitialTick: initialTick, ServerName: serverName,
	}, nil
}

// GameInformationRequestReply carries the server's mod list, returned in
// response to the bare GameInformationRequest byte during the info query
// (spec.md §4.5 step 1).
type GameInformationRequestReply struct {
	ModList []ModListEntry
}

func DecodeGameInformationRequestReply(buf []byte) (GameInformationRequestReply, error) {
	r := codec.NewReader(buf)
	count, err := r.OptU32()
	if err != nil {
		return GameInformationRequestReply{}, fmt.Errorf("message: mod count: %w", err)
	}
	mods := make([]ModListEntry, count)
	for i := range mods {
		name, err := r.SimpleString()
		if err != nil {
			return GameInformationRequestReply{}, fmt.Errorf("message: mod name %d: %w", i, err)
		}
		checksum, err := r.U32()
		if err != nil {
			return GameInformationRequestReply{}, fmt.Errorf("message: mod checksum %d: %w", i, err)
		}
		mods[i] = ModListEntry{Name: name, Checksum: checksum}
	}
	return GameInformationRequestReply{ModList: mods}, nil
}

// TransferBlockRequest asks the server to (re)send a map-transfer block.
type TransferBlockRequest struct {
	BlockNumber uint32
	Reliable    bool
}

func (m TransferBlockRequest) Encode() []byte {
	w := codec.NewWriter()
	w.U32(m.BlockNumber)
	w.Bool(m.Reliable)
	return w.Bytes()
}

// MapTransferBlockSize is the maximum payload of a single TransferBlock
// (spec.md §6.1).
const MapTransferBlockSize = 503

// TransferBlock is one chunk of the map blob.
type TransferBlock struct {
	BlockNumber uint32
	Data        []byte
}

func DecodeTransferBlock(buf []byte) (TransferBlock, error) {
	r := codec.NewReader(buf)
	num, err := r.U32()
	if err != nil {
		return TransferBlock{}, fmt.Errorf("message: block number: %w", err)
	}
	return TransferBlock{BlockNumber: num, Data: r.Rest()}, nil
}
