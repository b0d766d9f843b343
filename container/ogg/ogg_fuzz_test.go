package ogg

import (
	"bytes"
	"testing"
)

func FuzzParsePage_NoPanic(f *testing.F) {
	p := Page{HeaderType: PageFlagBOS, SerialNumber: 5}
	p.AddPacket([]byte("LPCFHead"))
	f.Add(p.Encode())
	f.Add([]byte("OggS"))

	f.Fuzz(func(t *testing.T, data []byte) {
		page, n, err := ParsePage(data)
		if err != nil {
			return
		}
		if n > len(data) {
			t.Fatalf("consumed %d of %d bytes", n, len(data))
		}
		if !bytes.Equal(page.Encode(), data[:n]) {
			t.Fatal("page does not re-encode to its input")
		}
	})
}
