package protocol

import "errors"

// Fatal session errors (spec.md §7 "Fatal: version mismatch, connection
// refused, desync"). Connect/DownloadMap/Poll return one of these
// wrapped with context; callers can match with errors.Is.
var (
	ErrConnectionRefused = errors.New("protocol: connection refused")
	ErrConnectionTimeout = errors.New("protocol: connection timed out")
	ErrVersionMismatch   = errors.New("protocol: server version mismatch")
	ErrDesync            = errors.New("protocol: client desynced from server")
	ErrInvalidPacket     = errors.New("protocol: invalid packet")
	ErrUnexpectedEOF     = errors.New("protocol: unexpected end of packet")
	ErrStringTooLong     = errors.New("protocol: string exceeds wire limit")
	ErrDisconnected      = errors.New("protocol: disconnected")
	ErrNotConnected      = errors.New("protocol: not connected")
)
