package lpcfeat

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/thesyncim/lpcfeat/types"
)

// FeatureRow is the feature vector of one 10 ms frame.
type FeatureRow = types.FeatureRow

// FeatureMatrix holds the four rows of one superframe.
type FeatureMatrix = types.FeatureMatrix

// Stream geometry.
const (
	SampleRate   = types.SampleRate
	FrameSize    = types.FrameSize
	NumFeatures  = types.NumFeatures
	NumBands     = types.NumBands
	LPCOrder     = types.LPCOrder
	CepsMem      = types.CepsMem
	Subframes    = types.SubframesPerSuperframe
	MatrixFloats = Subframes * NumFeatures

	// MatrixSize is the serialized size of a FeatureMatrix in bytes.
	MatrixSize = MatrixFloats * 4
)

// Feature row columns.
const (
	ColCepstrum = types.ColCepstrum
	ColDelta    = types.ColDelta
	ColPitch    = types.ColPitch
	ColCorr     = types.ColCorr
	ColGain     = types.ColGain
	ColLPC      = types.ColLPC
)

// AppendFeatures appends m to dst as row-major little-endian float32.
func AppendFeatures(dst []byte, m *FeatureMatrix) []byte {
	for i := range m {
		for _, v := range m[i] {
			dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(v))
		}
	}
	return dst
}

// ParseFeatures decodes one matrix written by AppendFeatures.
func ParseFeatures(data []byte, m *FeatureMatrix) error {
	if len(data) < MatrixSize {
		return ErrShortFeatures
	}
	for i := range m {
		for j := range m[i] {
			off := 4 * (i*NumFeatures + j)
			m[i][j] = math.Float32frombits(binary.LittleEndian.Uint32(data[off:]))
		}
	}
	return nil
}

// FeatureWriter writes feature matrices as raw little-endian float32, four
// rows of NumFeatures values per superframe.
type FeatureWriter struct {
	w   io.Writer
	buf []byte
}

// NewFeatureWriter returns a FeatureWriter on w.
func NewFeatureWriter(w io.Writer) *FeatureWriter {
	return &FeatureWriter{w: w, buf: make([]byte, 0, MatrixSize)}
}

// Write serializes one matrix.
func (fw *FeatureWriter) Write(m *FeatureMatrix) error {
	fw.buf = AppendFeatures(fw.buf[:0], m)
	if _, err := fw.w.Write(fw.buf); err != nil {
		return fmt.Errorf("lpcfeat: write features: %w", err)
	}
	return nil
}

// FeatureReader reads matrices written by FeatureWriter.
type FeatureReader struct {
	r   io.Reader
	buf [MatrixSize]byte
}

// NewFeatureReader returns a FeatureReader on r.
func NewFeatureReader(r io.Reader) *FeatureReader {
	return &FeatureReader{r: r}
}

// Read decodes the next matrix into m. It returns io.EOF at a clean end of
// stream and ErrShortFeatures if the stream ends inside a matrix.
func (fr *FeatureReader) Read(m *FeatureMatrix) error {
	_, err := io.ReadFull(fr.r, fr.buf[:])
	switch {
	case err == nil:
	case errors.Is(err, io.ErrUnexpectedEOF):
		return ErrShortFeatures
	case errors.Is(err, io.EOF):
		return io.EOF
	default:
		return fmt.Errorf("lpcfeat: read features: %w", err)
	}
	return ParseFeatures(fr.buf[:], m)
}
