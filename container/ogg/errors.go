package ogg

import "errors"

// Package-level errors for Ogg parsing and encoding.
var (
	// ErrInvalidPage indicates the page structure is malformed.
	// This includes missing "OggS" magic, invalid version, or truncated data.
	ErrInvalidPage = errors.New("ogg: invalid page structure")

	// ErrInvalidHeader indicates a malformed LPCFHead packet.
	ErrInvalidHeader = errors.New("ogg: invalid LPCFHead header")

	// ErrBadCRC indicates the page CRC checksum does not match the computed value.
	ErrBadCRC = errors.New("ogg: CRC mismatch")

	// ErrUnexpectedEOS indicates the stream ended before its EOS page or
	// a write after Close.
	ErrUnexpectedEOS = errors.New("ogg: unexpected end of stream")

	// ErrInvalidPacket indicates a data packet of the wrong size.
	ErrInvalidPacket = errors.New("ogg: invalid packet size")
)
