package ogg

import "encoding/binary"

const (
	headMagic = "LPCFHead"
	headSize  = 21

	// HeadVersion is the only LPCFHead version written and accepted.
	HeadVersion = 1
)

// Head flags.
const (
	FlagRelaxation = 0x01
)

// Head is the identification header of an lpcfeat Ogg stream.
type Head struct {
	Version          uint8
	PacketSize       uint8
	SamplesPerPacket uint16
	SampleRate       uint32
	CodebookChecksum uint32
	Flags            uint8
}

// Encode serializes h as an LPCFHead packet.
func (h *Head) Encode() []byte {
	data := make([]byte, headSize)
	copy(data[0:8], headMagic)
	data[8] = h.Version
	data[9] = h.PacketSize
	binary.LittleEndian.PutUint16(data[10:12], h.SamplesPerPacket)
	binary.LittleEndian.PutUint32(data[12:16], h.SampleRate)
	binary.LittleEndian.PutUint32(data[16:20], h.CodebookChecksum)
	data[20] = h.Flags
	return data
}

// ParseHead parses an LPCFHead packet.
func ParseHead(data []byte) (*Head, error) {
	if len(data) < headSize || string(data[0:8]) != headMagic {
		return nil, ErrInvalidHeader
	}
	h := &Head{
		Version:          data[8],
		PacketSize:       data[9],
		SamplesPerPacket: binary.LittleEndian.Uint16(data[10:12]),
		SampleRate:       binary.LittleEndian.Uint32(data[12:16]),
		CodebookChecksum: binary.LittleEndian.Uint32(data[16:20]),
		Flags:            data[20],
	}
	if h.Version != HeadVersion || h.PacketSize == 0 || h.SamplesPerPacket == 0 {
		return nil, ErrInvalidHeader
	}
	return h, nil
}
