// Package lpcfeat extracts LPCNet-style acoustic features from 16 kHz speech
// and codes them into fixed 64-bit packets.
//
// Audio is consumed in 10 ms frames of 160 samples. Every frame yields one
// feature row of 55 values: an 18-band cepstrum, a reserved delta block,
// a pitch period, a pitch correlation, the LPC gain and 16 LPC
// coefficients. Four frames make a 40 ms superframe, which is the unit of
// pitch tracking and of quantization.
//
// # Modes
//
// An Encoder produces one of three outputs per superframe:
//   - raw features (WithQuantize(false)): unquantized cepstra and pitch
//   - quantized features (the default): the matrix a decoder would rebuild
//   - packets: the same quantized superframe packed into 8 bytes
//
// A Decoder turns packets back into feature matrices. For the same packet
// stream its output equals the quantized features of the encoder column for
// column.
//
// # Packet Structure
//
// Packets are MSB-first bit fields:
//   - c0 (7 bits): 0th cepstral coefficient in quarter steps, offset by 64
//   - main pitch (6 bits): log-scale pitch, 21 steps per octave from 32
//   - modulation (3 bits): 0 when unvoiced, else linear pitch slope + 4
//   - correlation (2 bits): voicing-dependent correlation bin
//   - stage 1..3 (10 bits each): end-anchor cepstral VQ indices
//   - mid anchor (13 bits): differential VQ index with its sign folded in
//   - interpolation (3 bits): joint prediction of subframes 0 and 2
//
// Encoders and decoders are stateful and must see superframes in order.
// Codebooks are immutable and may be shared between any number of streams.
package lpcfeat
