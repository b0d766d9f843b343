package ogg

import (
	"io"
	"math/rand/v2"

	"github.com/thesyncim/lpcfeat"
)

// SamplesPerPacket is the granule advance of one packet.
const SamplesPerPacket = lpcfeat.Subframes * lpcfeat.FrameSize

// DefaultPacketsPerPage puts one second of packets on each page.
const DefaultPacketsPerPage = lpcfeat.SampleRate / SamplesPerPacket

// WriterConfig configures a Writer.
type WriterConfig struct {
	// Serial is the bitstream serial number. Zero picks a random one.
	Serial uint32

	// PacketsPerPage bounds the packets grouped on one page.
	// Default: DefaultPacketsPerPage
	PacketsPerPage int

	// CodebookChecksum identifies the tables the packets were coded with.
	CodebookChecksum uint32

	// Relaxation records that the encoder relaxed the mid anchor.
	Relaxation bool
}

// Writer writes lpcfeat packets to an Ogg stream.
type Writer struct {
	w       io.Writer
	cfg     WriterConfig
	pageSeq uint32
	granule uint64
	page    Page
	packets int
	closed  bool
}

// NewWriter writes the LPCFHead page to w and returns a Writer for the
// packets that follow.
func NewWriter(w io.Writer, cfg WriterConfig) (*Writer, error) {
	if cfg.Serial == 0 {
		cfg.Serial = rand.Uint32()
	}
	if cfg.PacketsPerPage <= 0 || cfg.PacketsPerPage > maxSegments {
		cfg.PacketsPerPage = DefaultPacketsPerPage
	}
	head := Head{
		Version:          HeadVersion,
		PacketSize:       lpcfeat.PacketSize,
		SamplesPerPacket: SamplesPerPacket,
		SampleRate:       lpcfeat.SampleRate,
		CodebookChecksum: cfg.CodebookChecksum,
	}
	if cfg.Relaxation {
		head.Flags |= FlagRelaxation
	}

	ow := &Writer{w: w, cfg: cfg}
	ow.page.HeaderType = PageFlagBOS
	ow.page.AddPacket(head.Encode())
	if err := ow.flush(); err != nil {
		return nil, err
	}
	return ow, nil
}

func (ow *Writer) flush() error {
	ow.page.SerialNumber = ow.cfg.Serial
	ow.page.PageSequence = ow.pageSeq
	ow.page.GranulePos = ow.granule
	if _, err := ow.w.Write(ow.page.Encode()); err != nil {
		return err
	}
	ow.pageSeq++
	ow.page = Page{Payload: ow.page.Payload[:0]}
	ow.packets = 0
	return nil
}

// WritePacket appends one packet, flushing a page once it holds
// PacketsPerPage packets.
func (ow *Writer) WritePacket(packet []byte) error {
	if ow.closed {
		return ErrUnexpectedEOS
	}
	if len(packet) != lpcfeat.PacketSize {
		return ErrInvalidPacket
	}
	ow.page.AddPacket(packet)
	ow.granule += SamplesPerPacket
	ow.packets++
	if ow.packets == ow.cfg.PacketsPerPage {
		return ow.flush()
	}
	return nil
}

// Write marshals p and writes it.
func (ow *Writer) Write(p *lpcfeat.Packet) error {
	var buf [lpcfeat.PacketSize]byte
	if err := p.MarshalTo(buf[:]); err != nil {
		return err
	}
	return ow.WritePacket(buf[:])
}

// Close flushes any buffered packets on a final EOS page.
func (ow *Writer) Close() error {
	if ow.closed {
		return nil
	}
	ow.closed = true
	ow.page.HeaderType |= PageFlagEOS
	return ow.flush()
}

// Serial returns the bitstream serial number.
func (ow *Writer) Serial() uint32 { return ow.cfg.Serial }

// GranulePos returns the number of 16 kHz samples written so far.
func (ow *Writer) GranulePos() uint64 { return ow.granule }

// PageCount returns the number of pages written so far.
func (ow *Writer) PageCount() uint32 { return ow.pageSeq }
