// packet.go implements the fixed 64-bit superframe packet.

package lpcfeat

import (
	"fmt"

	"github.com/thesyncim/lpcfeat/bitpack"
	"github.com/thesyncim/lpcfeat/codebook"
	"github.com/thesyncim/lpcfeat/interp"
	"github.com/thesyncim/lpcfeat/vq"
)

// PacketSize is the size of one coded superframe in bytes.
const PacketSize = 8

// Field widths in bits, in packing order.
const (
	c0Bits         = 7
	mainPitchBits  = 6
	modulationBits = 3
	corrBits       = 2
	stageBits      = 10
	diffBits       = 13
	interpBits     = interp.Bits
)

// PacketBits is the total number of coded bits.
const PacketBits = c0Bits + mainPitchBits + modulationBits + corrBits + vq.Stages*stageBits + diffBits + interpBits

const (
	c0Offset     = 1 << (c0Bits - 1)
	modulationUV = 0
	modOffset    = 4
)

// Packet is the decoded content of one superframe packet.
type Packet struct {
	C0         int // 0th cepstral coefficient in quarter steps, [-64,63]
	MainPitch  int // [0,63]
	Voiced     bool
	Modulation int // [-3,3], 0 when unvoiced
	CorrBin    int // [0,3]

	// Stages are the end-anchor cepstral VQ indices.
	Stages vq.Indices
	// Mid is the differential VQ entry of the mid anchor.
	Mid vq.SignedEntry
	// Interp is the joint interpolation code of subframes 0 and 2.
	Interp int
}

// AppendBinary appends the packed form of p to b.
func (p *Packet) AppendBinary(b []byte) ([]byte, error) {
	var buf [PacketSize]byte
	if err := p.MarshalTo(buf[:]); err != nil {
		return b, err
	}
	return append(b, buf[:]...), nil
}

// valid reports whether every field fits its range.
func (p *Packet) valid() bool {
	in := func(v, lo, hi int) bool { return v >= lo && v <= hi }
	if !in(p.C0, -c0Offset, c0Offset-1) || !in(p.MainPitch, 0, 1<<mainPitchBits-1) ||
		!in(p.CorrBin, 0, 1<<corrBits-1) || !in(p.Interp, 0, 1<<interpBits-1) ||
		!in(p.Mid.Index, 0, codebook.DiffEntries-1) {
		return false
	}
	if p.Voiced && !in(p.Modulation, -modOffset+1, modOffset-1) {
		return false
	}
	for _, idx := range p.Stages {
		if !in(idx, 0, 1<<stageBits-1) {
			return false
		}
	}
	return true
}

// MarshalTo packs p into buf, which must be PacketSize bytes long. A field
// outside its range yields ErrInvalidPacketField and leaves buf untouched.
func (p *Packet) MarshalTo(buf []byte) error {
	if len(buf) != PacketSize {
		return ErrInvalidPacketSize
	}
	if !p.valid() {
		return ErrInvalidPacketField
	}
	mod := modulationUV
	if p.Voiced {
		mod = p.Modulation + modOffset
	}
	var pk bitpack.Packer
	pk.Init(buf)
	pk.Pack(uint32(p.C0+c0Offset), c0Bits)
	pk.Pack(uint32(p.MainPitch), mainPitchBits)
	pk.Pack(uint32(mod), modulationBits)
	pk.Pack(uint32(p.CorrBin), corrBits)
	for _, idx := range p.Stages {
		pk.Pack(uint32(idx), stageBits)
	}
	pk.Pack(uint32(p.Mid.Code(codebook.DiffEntries)), diffBits)
	pk.Pack(uint32(p.Interp), interpBits)
	return nil
}

// ParsePacket unpacks an 8-byte packet. Every bit pattern is a valid packet.
func ParsePacket(data []byte) (Packet, error) {
	if len(data) != PacketSize {
		return Packet{}, ErrInvalidPacketSize
	}
	var u bitpack.Unpacker
	u.Init(data)

	var p Packet
	p.C0 = int(u.Unpack(c0Bits)) - c0Offset
	p.MainPitch = int(u.Unpack(mainPitchBits))
	if mod := int(u.Unpack(modulationBits)); mod != modulationUV {
		p.Voiced = true
		p.Modulation = mod - modOffset
	}
	p.CorrBin = int(u.Unpack(corrBits))
	for i := range p.Stages {
		p.Stages[i] = int(u.Unpack(stageBits))
	}
	p.Mid = vq.EntryFromCode(int(u.Unpack(diffBits)), codebook.DiffEntries)
	p.Interp = int(u.Unpack(interpBits))
	return p, nil
}

func (p Packet) String() string {
	sign := '+'
	if p.Mid.Negative {
		sign = '-'
	}
	a, b := interp.Unpack(p.Interp)
	return fmt.Sprintf("c0=%d pitch=%d voiced=%t mod=%d corr=%d vq=%d/%d/%d mid=%c%d interp=%d(%v,%v)",
		p.C0, p.MainPitch, p.Voiced, p.Modulation, p.CorrBin,
		p.Stages[0], p.Stages[1], p.Stages[2], sign, p.Mid.Index, p.Interp, a, b)
}
