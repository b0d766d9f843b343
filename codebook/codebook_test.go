package codebook

import (
	"bytes"
	"errors"
	"testing"

	"github.com/thesyncim/lpcfeat/types"
	"github.com/thesyncim/lpcfeat/vq"
	"github.com/vmihailenco/msgpack/v5"
)

func TestDefaultShape(t *testing.T) {
	s := Default()
	for i := 0; i < vq.Stages; i++ {
		cb := s.Stage(i)
		if cb.Len() != StageEntries || cb.Dim() != types.CodedDims {
			t.Fatalf("stage %d is %d×%d", i, cb.Len(), cb.Dim())
		}
	}
	if s.Diff().Len() != DiffEntries || s.Diff().Codebook().Dim() != types.NumBands {
		t.Fatalf("differential table is %d×%d", s.Diff().Len(), s.Diff().Codebook().Dim())
	}
	if Default() != s {
		t.Fatal("Default is not shared")
	}
}

func TestGenerateDeterministic(t *testing.T) {
	a, err := Generate(7)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Generate(7)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < vq.Stages; i++ {
		if !equal(a.Stage(i).Data(), b.Stage(i).Data()) {
			t.Fatalf("stage %d differs between runs", i)
		}
	}
	if !equal(a.Diff().Codebook().Data(), b.Diff().Codebook().Data()) {
		t.Fatal("differential table differs between runs")
	}
	if a.Checksum() != b.Checksum() {
		t.Fatal("checksum differs between runs")
	}
	c, err := Generate(8)
	if err != nil {
		t.Fatal(err)
	}
	if c.Checksum() == a.Checksum() {
		t.Fatal("different seeds share a checksum")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s, err := Generate(11)
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := s.Save(&buf); err != nil {
		t.Fatal(err)
	}
	got, err := Load(&buf)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < vq.Stages; i++ {
		if !equal(got.Stage(i).Data(), s.Stage(i).Data()) {
			t.Fatalf("stage %d changed", i)
		}
	}
	if !equal(got.Diff().Codebook().Data(), s.Diff().Codebook().Data()) {
		t.Fatal("differential table changed")
	}
	if got.Checksum() != s.Checksum() {
		t.Fatalf("checksum %08x, want %08x", got.Checksum(), s.Checksum())
	}
}

func TestLoadRejectsBadShape(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*file)
	}{
		{"version", func(f *file) { f.Version = 99 }},
		{"stage count", func(f *file) { f.Stages = f.Stages[:2] }},
		{"stage dim", func(f *file) { f.Stages[1].Dim = types.NumBands }},
		{"truncated stage", func(f *file) { f.Stages[2].Data = f.Stages[2].Data[:10] }},
		{"diff entries", func(f *file) { f.Diff.Entries = 1024 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Default()
			f := file{Version: FormatVersion}
			for i := 0; i < vq.Stages; i++ {
				cb := s.Stage(i)
				f.Stages = append(f.Stages, table{Dim: cb.Dim(), Entries: cb.Len(), Data: cb.Data()})
			}
			dcb := s.Diff().Codebook()
			f.Diff = table{Dim: dcb.Dim(), Entries: dcb.Len(), Data: dcb.Data()}
			tt.mutate(&f)

			data, err := msgpack.Marshal(&f)
			if err != nil {
				t.Fatal(err)
			}
			if _, err := Load(bytes.NewReader(data)); !errors.Is(err, ErrInvalidSet) {
				t.Fatalf("Load error = %v, want ErrInvalidSet", err)
			}
		})
	}
}

func TestNewRejectsWrongSizes(t *testing.T) {
	var stages [vq.Stages][]float32
	for i := range stages {
		stages[i] = make([]float32, StageEntries*types.CodedDims)
	}
	if _, err := New(stages, make([]float32, 5)); !errors.Is(err, ErrInvalidSet) {
		t.Fatalf("New error = %v, want ErrInvalidSet", err)
	}
	stages[0] = stages[0][:100]
	if _, err := New(stages, make([]float32, DiffEntries*types.NumBands)); !errors.Is(err, ErrInvalidSet) {
		t.Fatalf("New error = %v, want ErrInvalidSet", err)
	}
}

func equal(a, b []float32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
