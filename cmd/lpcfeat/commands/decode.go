package commands

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/thesyncim/lpcfeat"
)

var decodeCmd = &cobra.Command{
	Use:   "decode <packets.bin> <features.f32>",
	Short: "Rebuild feature matrices from packets",
	Long: `Decode 8-byte packets into 4x55 float32 matrices.

The input is either back-to-back packets, where a truncated trailing packet
ends the stream, or an Ogg stream written by 'encode --ogg'. Ogg input must
have been coded with the configured codebooks.`,
	Args: cobra.ExactArgs(2),
	RunE: runDecode,
}

func runDecode(cmd *cobra.Command, args []string) error {
	set, err := getConfig().codebooks()
	if err != nil {
		return err
	}
	dec, err := lpcfeat.NewDecoder(lpcfeat.WithCodebooks(set))
	if err != nil {
		return err
	}

	in, err := openInput(args[0])
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := openOutput(args[1])
	if err != nil {
		return err
	}

	src, head, err := packetSource(in)
	if err == nil && head != nil && head.CodebookChecksum != set.Checksum() {
		err = fmt.Errorf("%w: stream coded with tables %08x, have %08x", lpcfeat.ErrInvalidCodebook, head.CodebookChecksum, set.Checksum())
	}
	if err != nil {
		out.Close()
		return fmt.Errorf("decode %s: %w", args[0], err)
	}

	cw := &countingWriter{w: out}
	err = lpcfeat.DecodePackets(dec, src, lpcfeat.NewFeatureWriter(cw))
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("decode %s: %w", args[0], err)
	}
	slog.Info("features written", "superframes", cw.n/lpcfeat.MatrixSize, "output", args[1])
	return nil
}
