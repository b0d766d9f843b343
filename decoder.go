// decoder.go implements the packet decoder.

package lpcfeat

import (
	"github.com/thesyncim/lpcfeat/codebook"
	"github.com/thesyncim/lpcfeat/internal/dsp"
	"github.com/thesyncim/lpcfeat/interp"
	"github.com/thesyncim/lpcfeat/pitch"
	"github.com/thesyncim/lpcfeat/types"
	"github.com/thesyncim/lpcfeat/vq"
)

// Decoder rebuilds feature matrices from packets.
//
// A Decoder is not safe for concurrent use. It carries the previous end
// anchor between packets, so packets must be decoded in order with the
// codebooks that produced them.
type Decoder struct {
	set  *codebook.Set
	diff *vq.Differential
	tr   *dsp.Transform
	lpc  [types.LPCOrder]float32

	vqMem [types.NumBands]float32
}

// NewDecoder creates a decoder. Only WithCodebooks is meaningful here.
func NewDecoder(opts ...Option) (*Decoder, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.set == nil {
		return nil, ErrInvalidCodebook
	}
	return &Decoder{
		set:  o.set,
		diff: vq.NewDifferential(o.set.Diff(), true),
		tr:   dsp.NewTransform(),
	}, nil
}

// Reset clears the anchor history.
func (d *Decoder) Reset() {
	d.vqMem = [types.NumBands]float32{}
}

// Decode unpacks an 8-byte packet into m.
func (d *Decoder) Decode(data []byte, m *FeatureMatrix) error {
	p, err := ParsePacket(data)
	if err != nil {
		return err
	}
	d.DecodePacket(&p, m)
	return nil
}

// DecodePacket rebuilds the matrix of an already parsed packet.
func (d *Decoder) DecodePacket(p *Packet, m *FeatureMatrix) {
	*m = FeatureMatrix{}

	mod := 0
	if p.Voiced {
		mod = p.Modulation
	}
	corr := pitch.DequantizeCorr(p.CorrBin, p.Voiced)
	for sub := range m {
		m[sub][types.ColPitch] = pitch.Feature(p.MainPitch, mod, sub)
		m[sub][types.ColCorr] = corr - 0.5
	}

	end := m[3].Cepstrum()
	end[0] = float32(p.C0) / 4
	d.set.MultiStage().Reconstruct(end[1:], p.Stages)

	preds := vq.NewPredictions(d.vqMem[:], end, types.NumBands)
	d.diff.Reconstruct(m[1].Cepstrum(), &preds, p.Mid)

	interp.Apply(m, d.vqMem[:], p.Interp)
	copy(d.vqMem[:], end)
	refreshLPC(d.tr, m, d.lpc[:])
}
