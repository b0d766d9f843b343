package commands

import (
	"bufio"
	"bytes"
	"io"
	"os"

	"github.com/thesyncim/lpcfeat"
	"github.com/thesyncim/lpcfeat/container/ogg"
)

// openInput opens path for reading, '-' meaning stdin.
func openInput(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(bufio.NewReader(os.Stdin)), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// output is a buffered file or stdout.
type output struct {
	*bufio.Writer
	f *os.File
}

// openOutput creates path for writing, '-' meaning stdout.
func openOutput(path string) (*output, error) {
	if path == "-" {
		return &output{Writer: bufio.NewWriter(os.Stdout)}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return &output{Writer: bufio.NewWriter(f), f: f}, nil
}

// Close flushes and closes the output.
func (o *output) Close() error {
	err := o.Flush()
	if o.f != nil {
		if cerr := o.f.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// countingWriter counts the bytes written through it.
type countingWriter struct {
	w io.Writer
	n int
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += n
	return n, err
}

// packetSource returns a packet source on r, reading an Ogg stream when r
// starts with an Ogg page and raw back-to-back packets otherwise. head is
// nil for raw input.
func packetSource(r io.Reader) (src lpcfeat.PacketSource, head *ogg.Head, err error) {
	br := bufio.NewReader(r)
	magic, _ := br.Peek(4)
	if !bytes.Equal(magic, []byte("OggS")) {
		return lpcfeat.NewPacketReader(br), nil, nil
	}
	or, err := ogg.NewReader(br)
	if err != nil {
		return nil, nil, err
	}
	return or, or.Head, nil
}
