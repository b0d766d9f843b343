// stream.go implements packet streams and the frame-driven encode loop.

package lpcfeat

import (
	"errors"
	"fmt"
	"io"
)

// FrameSource provides input frames for streaming encode.
type FrameSource interface {
	// ReadFrame fills dst with the next FrameSize samples.
	// Returns io.EOF when no complete frame is left.
	ReadFrame(dst []float32) error
}

// SuperframeSink receives completed superframes from streaming encode.
// The Superframe is reused between calls.
type SuperframeSink func(*Superframe) error

// EncodeStream pushes every frame of src through e and hands each completed
// superframe to sink. A trailing partial superframe is dropped. It returns
// nil when src is exhausted.
func EncodeStream(e *Encoder, src FrameSource, sink SuperframeSink) error {
	frame := make([]float32, FrameSize)
	var sf Superframe
	for {
		if err := src.ReadFrame(frame); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		done, err := e.Push(frame, &sf)
		if err != nil {
			return err
		}
		if !done {
			continue
		}
		if err := sink(&sf); err != nil {
			return err
		}
	}
}

// PacketWriter writes packets back to back.
type PacketWriter struct {
	w   io.Writer
	buf [PacketSize]byte
}

// NewPacketWriter returns a PacketWriter on w.
func NewPacketWriter(w io.Writer) *PacketWriter {
	return &PacketWriter{w: w}
}

// Write packs and writes one packet.
func (pw *PacketWriter) Write(p *Packet) error {
	if err := p.MarshalTo(pw.buf[:]); err != nil {
		return err
	}
	if _, err := pw.w.Write(pw.buf[:]); err != nil {
		return fmt.Errorf("lpcfeat: write packet: %w", err)
	}
	return nil
}

// PacketReader reads back-to-back packets.
type PacketReader struct {
	r   io.Reader
	buf [PacketSize]byte
}

// NewPacketReader returns a PacketReader on r.
func NewPacketReader(r io.Reader) *PacketReader {
	return &PacketReader{r: r}
}

// Next returns the next packet. A stream that ends before a full packet,
// including one that ends mid-packet, yields io.EOF.
func (pr *PacketReader) Next() (Packet, error) {
	if _, err := io.ReadFull(pr.r, pr.buf[:]); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return Packet{}, io.EOF
		}
		return Packet{}, fmt.Errorf("lpcfeat: read packet: %w", err)
	}
	return ParsePacket(pr.buf[:])
}

// PacketSource yields packets until io.EOF.
type PacketSource interface {
	Next() (Packet, error)
}

// DecodeStream decodes every packet of r with d and writes the matrices to
// fw. A truncated trailing packet ends the stream.
func DecodeStream(d *Decoder, r io.Reader, fw *FeatureWriter) error {
	return DecodePackets(d, NewPacketReader(r), fw)
}

// DecodePackets decodes every packet of src with d and writes the matrices
// to fw.
func DecodePackets(d *Decoder, src PacketSource, fw *FeatureWriter) error {
	var m FeatureMatrix
	for {
		p, err := src.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		d.DecodePacket(&p, &m)
		if err := fw.Write(&m); err != nil {
			return err
		}
	}
}
