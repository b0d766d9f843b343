package ogg

import (
	"bytes"
	"errors"
	"io"
	"math/rand"
	"testing"

	"github.com/thesyncim/lpcfeat"
)

func testPackets(n int, seed int64) [][]byte {
	rng := rand.New(rand.NewSource(seed))
	out := make([][]byte, n)
	for i := range out {
		out[i] = make([]byte, lpcfeat.PacketSize)
		rng.Read(out[i])
	}
	return out
}

func TestHeadRoundTrip(t *testing.T) {
	h := Head{
		Version:          HeadVersion,
		PacketSize:       8,
		SamplesPerPacket: 640,
		SampleRate:       16000,
		CodebookChecksum: 0xdeadbeef,
		Flags:            FlagRelaxation,
	}
	data := h.Encode()
	if string(data[:8]) != "LPCFHead" {
		t.Fatalf("magic = %q", data[:8])
	}
	got, err := ParseHead(data)
	if err != nil {
		t.Fatalf("ParseHead failed: %v", err)
	}
	if *got != h {
		t.Errorf("ParseHead = %+v, want %+v", *got, h)
	}

	bad := append([]byte(nil), data...)
	bad[8] = 2
	if _, err := ParseHead(bad); !errors.Is(err, ErrInvalidHeader) {
		t.Errorf("version 2: err = %v, want ErrInvalidHeader", err)
	}
	if _, err := ParseHead(data[:10]); !errors.Is(err, ErrInvalidHeader) {
		t.Errorf("short head: err = %v, want ErrInvalidHeader", err)
	}
}

func TestPageEncodeParse(t *testing.T) {
	p := Page{HeaderType: PageFlagBOS, GranulePos: 1280, SerialNumber: 42, PageSequence: 3}
	big := bytes.Repeat([]byte{0xAB}, 300)
	for _, pkt := range [][]byte{{1, 2, 3}, big, {}} {
		if !p.AddPacket(pkt) {
			t.Fatal("AddPacket refused a packet")
		}
	}
	if want := []byte{3, 255, 45, 0}; !bytes.Equal(p.Segments, want) {
		t.Fatalf("segments = %v, want %v", p.Segments, want)
	}

	data := p.Encode()
	got, n, err := ParsePage(append(data, 0xFF))
	if err != nil {
		t.Fatalf("ParsePage failed: %v", err)
	}
	if n != len(data) {
		t.Errorf("consumed %d bytes, want %d", n, len(data))
	}
	if got.GranulePos != 1280 || got.SerialNumber != 42 || got.PageSequence != 3 || got.HeaderType != PageFlagBOS {
		t.Errorf("header fields = %+v", got)
	}
	pkts := got.Packets()
	if len(pkts) != 3 || len(pkts[0]) != 3 || !bytes.Equal(pkts[1], big) || len(pkts[2]) != 0 {
		t.Fatalf("packets have lengths %d", len(pkts))
	}

	data[len(data)-1] ^= 1
	if _, _, err := ParsePage(data); !errors.Is(err, ErrBadCRC) {
		t.Errorf("corrupt page: err = %v, want ErrBadCRC", err)
	}
	if _, _, err := ParsePage(data[:20]); !errors.Is(err, ErrInvalidPage) {
		t.Errorf("short page: err = %v, want ErrInvalidPage", err)
	}
}

func TestPageLacingLimit(t *testing.T) {
	var p Page
	pkt := make([]byte, 8)
	for i := 0; i < maxSegments; i++ {
		if !p.AddPacket(pkt) {
			t.Fatalf("AddPacket refused packet %d", i)
		}
	}
	if p.AddPacket(pkt) {
		t.Fatal("AddPacket accepted a packet past the lacing limit")
	}
	if len(p.Payload) != maxSegments*8 {
		t.Errorf("payload = %d bytes", len(p.Payload))
	}
}

func TestWriterReaderRoundTrip(t *testing.T) {
	packets := testPackets(60, 1)
	var buf bytes.Buffer
	w, err := NewWriter(&buf, WriterConfig{Serial: 7, PacketsPerPage: 25, CodebookChecksum: 99})
	if err != nil {
		t.Fatalf("NewWriter failed: %v", err)
	}
	for _, p := range packets {
		if err := w.WritePacket(p); err != nil {
			t.Fatalf("WritePacket failed: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if w.PageCount() != 4 {
		t.Errorf("PageCount = %d, want 4", w.PageCount())
	}
	if w.GranulePos() != 60*SamplesPerPacket {
		t.Errorf("GranulePos = %d, want %d", w.GranulePos(), 60*SamplesPerPacket)
	}
	if err := w.WritePacket(packets[0]); !errors.Is(err, ErrUnexpectedEOS) {
		t.Errorf("write after Close: err = %v, want ErrUnexpectedEOS", err)
	}

	r, err := NewReader(&buf)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	if r.Head.CodebookChecksum != 99 || r.Head.SampleRate != lpcfeat.SampleRate || r.Head.Flags != 0 {
		t.Errorf("Head = %+v", r.Head)
	}
	granules := map[int]uint64{0: 25 * SamplesPerPacket, 25: 50 * SamplesPerPacket, 50: 60 * SamplesPerPacket}
	for i, want := range packets {
		got, err := r.ReadPacket()
		if err != nil {
			t.Fatalf("packet %d: %v", i, err)
		}
		if !bytes.Equal(got, want) {
			t.Fatalf("packet %d = %x, want %x", i, got, want)
		}
		if g, ok := granules[i]; ok && r.GranulePos() != g {
			t.Errorf("packet %d: granule = %d, want %d", i, r.GranulePos(), g)
		}
	}
	if _, err := r.ReadPacket(); err != io.EOF {
		t.Errorf("after last packet: err = %v, want io.EOF", err)
	}
}

func TestReaderMissingEOS(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf, WriterConfig{PacketsPerPage: 4})
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range testPackets(8, 2) {
		if err := w.WritePacket(p); err != nil {
			t.Fatal(err)
		}
	}

	r, err := NewReader(&buf)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 8; i++ {
		if _, err := r.ReadPacket(); err != nil {
			t.Fatalf("packet %d: %v", i, err)
		}
	}
	if _, err := r.ReadPacket(); !errors.Is(err, ErrUnexpectedEOS) {
		t.Errorf("err = %v, want ErrUnexpectedEOS", err)
	}
}

func TestReaderTruncatedPage(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf, WriterConfig{PacketsPerPage: 4})
	if err != nil {
		t.Fatal(err)
	}
	headLen := buf.Len()
	for _, p := range testPackets(8, 5) {
		if err := w.WritePacket(p); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	// Head page, one full data page of 4 packets, then half of the second.
	pageLen := pageHeaderSize + 4 + 4*8
	data := buf.Bytes()[:headLen+pageLen+pageLen/2]

	r, err := NewReader(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 4; i++ {
		if _, err := r.ReadPacket(); err != nil {
			t.Fatalf("packet %d: %v", i, err)
		}
	}
	if _, err := r.ReadPacket(); !errors.Is(err, ErrUnexpectedEOS) {
		t.Errorf("err = %v, want ErrUnexpectedEOS", err)
	}

	// A cut inside the page header behaves the same.
	r, err = NewReader(bytes.NewReader(buf.Bytes()[:headLen+10]))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := r.ReadPacket(); !errors.Is(err, ErrUnexpectedEOS) {
		t.Errorf("header cut: err = %v, want ErrUnexpectedEOS", err)
	}
}

func TestReaderSkipsOtherStreams(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf, WriterConfig{Serial: 1, PacketsPerPage: 2})
	if err != nil {
		t.Fatal(err)
	}
	packets := testPackets(4, 3)
	if err := w.WritePacket(packets[0]); err != nil {
		t.Fatal(err)
	}
	if err := w.WritePacket(packets[1]); err != nil {
		t.Fatal(err)
	}
	other := Page{SerialNumber: 2}
	other.AddPacket([]byte("not ours"))
	buf.Write(other.Encode())
	for _, p := range packets[2:] {
		if err := w.WritePacket(p); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	r, err := NewReader(&buf)
	if err != nil {
		t.Fatal(err)
	}
	for i, want := range packets {
		got, err := r.ReadPacket()
		if err != nil {
			t.Fatalf("packet %d: %v", i, err)
		}
		if !bytes.Equal(got, want) {
			t.Fatalf("packet %d = %x, want %x", i, got, want)
		}
	}
	if _, err := r.ReadPacket(); err != io.EOF {
		t.Errorf("err = %v, want io.EOF", err)
	}
}

func TestWriterRejectsWrongSize(t *testing.T) {
	w, err := NewWriter(io.Discard, WriterConfig{})
	if err != nil {
		t.Fatal(err)
	}
	if err := w.WritePacket(make([]byte, 7)); !errors.Is(err, ErrInvalidPacket) {
		t.Errorf("err = %v, want ErrInvalidPacket", err)
	}
	if w.Serial() == 0 {
		t.Error("zero serial was not replaced")
	}
}

func TestNextParsesPackets(t *testing.T) {
	var want []lpcfeat.Packet
	for _, raw := range testPackets(5, 4) {
		p, err := lpcfeat.ParsePacket(raw)
		if err != nil {
			t.Fatal(err)
		}
		want = append(want, p)
	}

	var buf bytes.Buffer
	w, err := NewWriter(&buf, WriterConfig{})
	if err != nil {
		t.Fatal(err)
	}
	for i := range want {
		if err := w.Write(&want[i]); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	r, err := NewReader(&buf)
	if err != nil {
		t.Fatal(err)
	}
	for i := range want {
		got, err := r.Next()
		if err != nil {
			t.Fatal(err)
		}
		if got != want[i] {
			t.Errorf("packet %d = %v, want %v", i, got, want[i])
		}
	}
	if _, err := r.Next(); err != io.EOF {
		t.Errorf("err = %v, want io.EOF", err)
	}
}
