package ogg

import "encoding/binary"

// Page header flags.
const (
	PageFlagContinuation = 0x01
	PageFlagBOS          = 0x02
	PageFlagEOS          = 0x04
)

const (
	pageHeaderSize = 27
	maxSegments    = 255
	oggMagic       = "OggS"
)

// Page is one Ogg page whose packets all end on it.
type Page struct {
	HeaderType   byte
	GranulePos   uint64
	SerialNumber uint32
	PageSequence uint32

	// Segments is the lacing table, Payload the concatenated packets.
	Segments []byte
	Payload  []byte
}

// AddPacket appends packet to the page. It reports false, leaving the page
// untouched, when the lacing table has no room for it.
func (p *Page) AddPacket(packet []byte) bool {
	n := len(packet)/255 + 1
	if len(p.Segments)+n > maxSegments {
		return false
	}
	for rest := len(packet); ; rest -= 255 {
		if rest < 255 {
			p.Segments = append(p.Segments, byte(rest))
			break
		}
		p.Segments = append(p.Segments, 255)
	}
	p.Payload = append(p.Payload, packet...)
	return true
}

// Packets splits the payload along the lacing table. A trailing packet
// without a terminating segment is dropped.
func (p *Page) Packets() [][]byte {
	var out [][]byte
	start, n := 0, 0
	for _, seg := range p.Segments {
		n += int(seg)
		if seg < 255 {
			if start+n > len(p.Payload) {
				break
			}
			out = append(out, p.Payload[start:start+n])
			start += n
			n = 0
		}
	}
	return out
}

// Encode serializes the page and fills in its CRC.
func (p *Page) Encode() []byte {
	hdr := pageHeaderSize + len(p.Segments)
	data := make([]byte, hdr+len(p.Payload))
	copy(data, oggMagic)
	data[5] = p.HeaderType
	binary.LittleEndian.PutUint64(data[6:14], p.GranulePos)
	binary.LittleEndian.PutUint32(data[14:18], p.SerialNumber)
	binary.LittleEndian.PutUint32(data[18:22], p.PageSequence)
	data[26] = byte(len(p.Segments))
	copy(data[pageHeaderSize:], p.Segments)
	copy(data[hdr:], p.Payload)
	binary.LittleEndian.PutUint32(data[22:26], crcUpdate(0, data))
	return data
}

// ParsePage parses the page at the start of data and returns it with the
// number of bytes it occupies.
func ParsePage(data []byte) (*Page, int, error) {
	if len(data) < pageHeaderSize || string(data[:4]) != oggMagic || data[4] != 0 {
		return nil, 0, ErrInvalidPage
	}
	hdr := pageHeaderSize + int(data[26])
	if len(data) < hdr {
		return nil, 0, ErrInvalidPage
	}
	size := hdr
	for _, seg := range data[pageHeaderSize:hdr] {
		size += int(seg)
	}
	if len(data) < size {
		return nil, 0, ErrInvalidPage
	}

	crc := crcUpdate(0, data[:22])
	crc = crcUpdate(crc, []byte{0, 0, 0, 0})
	crc = crcUpdate(crc, data[26:size])
	if crc != binary.LittleEndian.Uint32(data[22:26]) {
		return nil, 0, ErrBadCRC
	}

	p := &Page{
		HeaderType:   data[5],
		GranulePos:   binary.LittleEndian.Uint64(data[6:14]),
		SerialNumber: binary.LittleEndian.Uint32(data[14:18]),
		PageSequence: binary.LittleEndian.Uint32(data[18:22]),
		Segments:     append([]byte(nil), data[pageHeaderSize:hdr]...),
		Payload:      append([]byte(nil), data[hdr:size]...),
	}
	return p, size, nil
}
