package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"github.com/thesyncim/lpcfeat"
	"github.com/thesyncim/lpcfeat/interp"
)

var (
	inspectFeatures bool
	inspectFormat   string
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <packets.bin>",
	Short: "Print packet fields or feature summaries",
	Long: `Print the nine fields of every packet in a raw or Ogg packet stream.

With --features the input is read as a feature stream instead and each row
is summarized by its pitch period, correlation, c0 and gain.`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().BoolVar(&inspectFeatures, "features", false, "input is a feature stream")
	inspectCmd.Flags().StringVar(&inspectFormat, "format", "text", "output format (text, yaml, json)")
}

// packetRecord is the structured form of one packet.
type packetRecord struct {
	Index      int    `yaml:"index" json:"index"`
	C0         int    `yaml:"c0" json:"c0"`
	MainPitch  int    `yaml:"main_pitch" json:"main_pitch"`
	Voiced     bool   `yaml:"voiced" json:"voiced"`
	Modulation int    `yaml:"modulation" json:"modulation"`
	CorrBin    int    `yaml:"corr_bin" json:"corr_bin"`
	Stages     [3]int `yaml:"stages" json:"stages"`
	Mid        int    `yaml:"mid" json:"mid"`
	MidSign    int    `yaml:"mid_sign" json:"mid_sign"`
	Interp     string `yaml:"interp" json:"interp"`
}

// rowRecord summarizes one feature row.
type rowRecord struct {
	Superframe int     `yaml:"superframe" json:"superframe"`
	Row        int     `yaml:"row" json:"row"`
	Period     float64 `yaml:"period" json:"period"`
	Corr       float64 `yaml:"corr" json:"corr"`
	C0         float64 `yaml:"c0" json:"c0"`
	Gain       float64 `yaml:"gain" json:"gain"`
}

func runInspect(cmd *cobra.Command, args []string) error {
	in, err := openInput(args[0])
	if err != nil {
		return err
	}
	defer in.Close()

	var records []any
	if inspectFeatures {
		records, err = featureRecords(in)
	} else {
		var src lpcfeat.PacketSource
		if src, _, err = packetSource(in); err == nil {
			records, err = packetRecords(src)
		}
	}
	if err != nil {
		return err
	}
	return writeRecords(os.Stdout, records, inspectFormat)
}

func packetRecords(src lpcfeat.PacketSource) ([]any, error) {
	var out []any
	for i := 0; ; i++ {
		p, err := src.Next()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		sign := 1
		if p.Mid.Negative {
			sign = -1
		}
		a, b := interp.Unpack(p.Interp)
		out = append(out, packetRecord{
			Index:      i,
			C0:         p.C0,
			MainPitch:  p.MainPitch,
			Voiced:     p.Voiced,
			Modulation: p.Modulation,
			CorrBin:    p.CorrBin,
			Stages:     p.Stages,
			Mid:        p.Mid.Index,
			MidSign:    sign,
			Interp:     fmt.Sprintf("%v,%v", a, b),
		})
	}
}

func featureRecords(r io.Reader) ([]any, error) {
	fr := lpcfeat.NewFeatureReader(r)
	var m lpcfeat.FeatureMatrix
	var out []any
	for i := 0; ; i++ {
		err := fr.Read(&m)
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		for row := range m {
			out = append(out, rowRecord{
				Superframe: i,
				Row:        row,
				Period:     100 + 50*float64(m[row][lpcfeat.ColPitch]),
				Corr:       0.5 + float64(m[row][lpcfeat.ColCorr]),
				C0:         float64(m[row][lpcfeat.ColCepstrum]),
				Gain:       math.Pow(10, float64(m[row][lpcfeat.ColGain])),
			})
		}
	}
}

func writeRecords(w io.Writer, records []any, format string) error {
	switch format {
	case "yaml":
		data, err := yaml.Marshal(records)
		if err != nil {
			return fmt.Errorf("failed to format output: %w", err)
		}
		_, err = w.Write(data)
		return err
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	case "text", "":
		for _, rec := range records {
			if _, err := fmt.Fprintf(w, "%+v\n", rec); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}
