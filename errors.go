// errors.go defines public error types for the lpcfeat package.

package lpcfeat

import "errors"

// Public error types for analysis, encoding and decoding.
var (
	// ErrInvalidFrameSize indicates an input frame whose length is not
	// FrameSize samples.
	ErrInvalidFrameSize = errors.New("lpcfeat: invalid frame size (must be 160 samples)")

	// ErrInvalidPacketSize indicates a packet buffer that is not PacketSize
	// bytes long.
	ErrInvalidPacketSize = errors.New("lpcfeat: invalid packet size (must be 8 bytes)")

	// ErrInvalidPacketField indicates a packet field outside the range its
	// bit width can carry.
	ErrInvalidPacketField = errors.New("lpcfeat: packet field out of range")

	// ErrInvalidCodebook indicates a missing or malformed codebook set.
	ErrInvalidCodebook = errors.New("lpcfeat: invalid codebook set")

	// ErrShortFeatures indicates a feature stream that ends inside a
	// superframe matrix.
	ErrShortFeatures = errors.New("lpcfeat: truncated feature matrix")
)
