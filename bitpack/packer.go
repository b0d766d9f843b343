// Package bitpack implements the fixed-layout bit cursor used to serialize
// feature packets.
//
// Fields are written most-significant-bit first into a caller supplied byte
// buffer. The layout is a compile-time contract between encoder and decoder,
// so running off the end of the buffer is a programming error and panics
// rather than returning an error.
package bitpack

import "fmt"

const bitsPerByte = 8

// MaxWidth is the widest field Pack and Unpack accept.
const MaxWidth = 32

// Packer writes fixed-width fields into a byte buffer, MSB first.
// The zero value is not usable; call Init before packing.
type Packer struct {
	buf     []byte // Output buffer (zeroed by Init)
	bytePos int    // Current byte offset
	bitPos  int    // Next bit within buf[bytePos], 0 = MSB
}

// Init attaches the packer to buf and clears it. Bits are OR'd into the
// buffer, so a dirty buffer would corrupt the output.
func (p *Packer) Init(buf []byte) {
	p.buf = buf
	p.bytePos = 0
	p.bitPos = 0
	clear(buf)
}

// Pack writes the low width bits of value, most significant bit first.
// Writing past the end of the buffer panics.
func (p *Packer) Pack(value uint32, width int) {
	if width < 0 || width > MaxWidth {
		panic(fmt.Sprintf("bitpack: invalid field width %d", width))
	}
	for width > 0 {
		if p.bytePos == len(p.buf) {
			panic(fmt.Sprintf("bitpack: pack overrun at byte %d of %d", p.bytePos, len(p.buf)))
		}
		bit := byte(value>>(width-1)) & 1
		p.buf[p.bytePos] |= bit << (bitsPerByte - 1 - p.bitPos)
		p.bitPos++
		if p.bitPos == bitsPerByte {
			p.bitPos = 0
			p.bytePos++
		}
		width--
	}
}

// BitsUsed returns the number of bits written since Init.
func (p *Packer) BitsUsed() int {
	return p.bytePos*bitsPerByte + p.bitPos
}

// Bytes returns the underlying buffer.
func (p *Packer) Bytes() []byte {
	return p.buf
}
