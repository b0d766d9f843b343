package ogg

import (
	"bufio"
	"errors"
	"io"

	"github.com/thesyncim/lpcfeat"
)

// Reader reads lpcfeat packets from an Ogg stream. Pages of other logical
// streams are skipped.
type Reader struct {
	r       *bufio.Reader
	Head    *Head
	serial  uint32
	granule uint64
	pending [][]byte
	eos     bool
}

// NewReader reads and checks the LPCFHead page.
func NewReader(r io.Reader) (*Reader, error) {
	or := &Reader{r: bufio.NewReader(r)}
	page, err := or.readPage()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrInvalidPage
		}
		return nil, err
	}
	packets := page.Packets()
	if page.HeaderType&PageFlagBOS == 0 || len(packets) != 1 {
		return nil, ErrInvalidPage
	}
	if or.Head, err = ParseHead(packets[0]); err != nil {
		return nil, err
	}
	if or.Head.PacketSize != lpcfeat.PacketSize {
		return nil, ErrInvalidHeader
	}
	or.serial = page.SerialNumber
	or.eos = page.HeaderType&PageFlagEOS != 0
	return or, nil
}

// readPage reads the next whole page from the stream.
func (or *Reader) readPage() (*Page, error) {
	hdr, err := or.r.Peek(pageHeaderSize)
	if err != nil {
		if errors.Is(err, io.EOF) && len(hdr) > 0 {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}
	size := pageHeaderSize + int(hdr[26])
	seg, err := or.r.Peek(size)
	if err != nil {
		return nil, io.ErrUnexpectedEOF
	}
	for _, s := range seg[pageHeaderSize:] {
		size += int(s)
	}
	data := make([]byte, size)
	if _, err := io.ReadFull(or.r, data); err != nil {
		return nil, io.ErrUnexpectedEOF
	}
	page, _, err := ParsePage(data)
	return page, err
}

// ReadPacket returns the next data packet. It returns io.EOF after the EOS
// page and ErrUnexpectedEOS when the stream stops before one, including
// inside a page.
func (or *Reader) ReadPacket() ([]byte, error) {
	for len(or.pending) == 0 {
		if or.eos {
			return nil, io.EOF
		}
		page, err := or.readPage()
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, ErrUnexpectedEOS
		}
		if err != nil {
			return nil, err
		}
		if page.SerialNumber != or.serial {
			continue
		}
		if page.HeaderType&PageFlagContinuation != 0 {
			return nil, ErrInvalidPage
		}
		or.eos = page.HeaderType&PageFlagEOS != 0
		or.granule = page.GranulePos
		or.pending = page.Packets()
	}
	p := or.pending[0]
	or.pending = or.pending[1:]
	if len(p) != int(or.Head.PacketSize) {
		return nil, ErrInvalidPacket
	}
	return p, nil
}

// Next reads and parses the next packet.
func (or *Reader) Next() (lpcfeat.Packet, error) {
	data, err := or.ReadPacket()
	if err != nil {
		return lpcfeat.Packet{}, err
	}
	return lpcfeat.ParsePacket(data)
}

// GranulePos returns the granule position of the last page read.
func (or *Reader) GranulePos() uint64 { return or.granule }
