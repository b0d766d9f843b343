package bitpack

import "fmt"

// Unpacker reads fixed-width fields from a byte buffer, MSB first.
// It is the structural mirror of Packer.
type Unpacker struct {
	buf     []byte
	bytePos int
	bitPos  int
}

// Init attaches the unpacker to buf. The buffer is not modified.
func (u *Unpacker) Init(buf []byte) {
	u.buf = buf
	u.bytePos = 0
	u.bitPos = 0
}

// Unpack reads width bits and returns them as an unsigned integer.
// Reading past the end of the buffer panics.
func (u *Unpacker) Unpack(width int) uint32 {
	if width < 0 || width > MaxWidth {
		panic(fmt.Sprintf("bitpack: invalid field width %d", width))
	}
	var d uint32
	for width > 0 {
		if u.bytePos == len(u.buf) {
			panic(fmt.Sprintf("bitpack: unpack overrun at byte %d of %d", u.bytePos, len(u.buf)))
		}
		d <<= 1
		d |= uint32(u.buf[u.bytePos]>>(bitsPerByte-1-u.bitPos)) & 1
		u.bitPos++
		if u.bitPos == bitsPerByte {
			u.bitPos = 0
			u.bytePos++
		}
		width--
	}
	return d
}

// BitsRead returns the number of bits consumed since Init.
func (u *Unpacker) BitsRead() int {
	return u.bytePos*bitsPerByte + u.bitPos
}

// BitsLeft returns the number of unread bits.
func (u *Unpacker) BitsLeft() int {
	return len(u.buf)*bitsPerByte - u.BitsRead()
}
