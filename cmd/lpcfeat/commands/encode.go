package commands

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/thesyncim/lpcfeat"
	"github.com/thesyncim/lpcfeat/container/ogg"
	"github.com/thesyncim/lpcfeat/ingest"
)

var (
	quantizeFeatures bool
	oggOutput        bool
)

var featuresCmd = &cobra.Command{
	Use:   "features <speech.s16> <features.f32>",
	Short: "Extract feature matrices",
	Long: `Extract one 4x55 float32 matrix per 40 ms superframe.

Without --quantize the features are the raw analysis output. With --quantize
they are the quantized features, which equal what 'decode' produces from
the packets of the same input.`,
	Args: cobra.ExactArgs(2),
	RunE: runFeatures,
}

var encodeCmd = &cobra.Command{
	Use:   "encode <speech.s16> <packets.bin>",
	Short: "Encode speech into 8-byte superframe packets",
	Long: `Encode speech into 8-byte superframe packets, written back to back
or, with --ogg, as an Ogg stream whose header records the codebook checksum.`,
	Args: cobra.ExactArgs(2),
	RunE: runEncode,
}

func init() {
	featuresCmd.Flags().BoolVarP(&quantizeFeatures, "quantize", "q", false, "write quantized features")
	encodeCmd.Flags().BoolVar(&oggOutput, "ogg", false, "write an Ogg stream")
}

func runFeatures(cmd *cobra.Command, args []string) error {
	out, err := openOutput(args[1])
	if err != nil {
		return err
	}
	fw := lpcfeat.NewFeatureWriter(out)
	n, err := encodeFile(args[0], quantizeFeatures, func(sf *lpcfeat.Superframe) error {
		return fw.Write(&sf.Features)
	})
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}
	slog.Info("features written", "superframes", n, "quantized", quantizeFeatures, "output", args[1])
	return nil
}

func runEncode(cmd *cobra.Command, args []string) error {
	out, err := openOutput(args[1])
	if err != nil {
		return err
	}
	var pw interface{ Write(*lpcfeat.Packet) error }
	var ow *ogg.Writer
	if oggOutput {
		cfg := getConfig()
		set, err := cfg.codebooks()
		if err != nil {
			out.Close()
			return err
		}
		ow, err = ogg.NewWriter(out, ogg.WriterConfig{
			CodebookChecksum: set.Checksum(),
			Relaxation:       cfg.Relaxation,
		})
		if err != nil {
			out.Close()
			return err
		}
		pw = ow
	} else {
		pw = lpcfeat.NewPacketWriter(out)
	}
	n, err := encodeFile(args[0], true, func(sf *lpcfeat.Superframe) error {
		return pw.Write(&sf.Packet)
	})
	if ow != nil && err == nil {
		err = ow.Close()
	}
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}
	slog.Info("packets written", "packets", n, "ogg", oggOutput, "output", args[1])
	return nil
}

// encodeFile runs the input through a new encoder and returns the number of
// superframes handed to sink.
func encodeFile(path string, quantize bool, sink lpcfeat.SuperframeSink) (int, error) {
	cfg := getConfig()
	opts, err := cfg.encoderOptions(quantize)
	if err != nil {
		return 0, err
	}
	enc, err := lpcfeat.NewEncoder(opts...)
	if err != nil {
		return 0, err
	}

	in, err := openInput(path)
	if err != nil {
		return 0, err
	}
	defer in.Close()
	src, err := ingest.NewReader(in, cfg.ingestConfig())
	if err != nil {
		return 0, err
	}

	if err := lpcfeat.EncodeStream(enc, src, sink); err != nil {
		return enc.Superframes(), fmt.Errorf("encode %s: %w", path, err)
	}
	return enc.Superframes(), nil
}
