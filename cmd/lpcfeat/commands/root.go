package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile      string
	verbose      bool
	sampleRate   int
	highPass     bool
	preemph      float32
	relaxation   bool
	codebookPath string

	// Global configuration
	globalConfig *Config
)

var rootCmd = &cobra.Command{
	Use:   "lpcfeat",
	Short: "LPC speech feature extraction and 64-bit superframe coding",
	Long: `lpcfeat - extract LPCNet-style features from 16 kHz speech and code
them into fixed 8-byte packets, one per 40 ms superframe.

Examples:
  # Raw features, 4x55 float32 per superframe
  lpcfeat features speech.s16 speech.f32

  # Quantized features, identical to what a decoder rebuilds
  lpcfeat features --quantize speech.s16 speech.qf32

  # Packets and back
  lpcfeat encode speech.s16 speech.bin
  lpcfeat decode speech.bin speech.qf32

  # Packets in an Ogg stream
  lpcfeat encode --ogg speech.s16 speech.ogg
  lpcfeat inspect --format yaml speech.ogg

  # Settings from a file, 48 kHz input
  lpcfeat --config lpcfeat.yaml --rate 48000 encode in.s16 out.bin
`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Command returns the root cobra command for mounting into a parent CLI.
func Command() *cobra.Command {
	return rootCmd
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "YAML config file")
	pf.BoolVarP(&verbose, "verbose", "v", false, "verbose output (per-superframe debug logs)")
	pf.IntVar(&sampleRate, "rate", 16000, "input sample rate; other rates are resampled to 16000")
	pf.BoolVar(&highPass, "highpass", true, "apply the DC-blocking high-pass filter")
	pf.Float32Var(&preemph, "preemphasis", 0.85, "pre-emphasis coefficient, 0 to disable")
	pf.BoolVar(&relaxation, "relax", false, "relax the mid anchor towards its neighbours before quantizing")
	pf.StringVar(&codebookPath, "codebooks", "", "msgpack codebook set (default: built-in)")

	rootCmd.AddCommand(featuresCmd)
	rootCmd.AddCommand(encodeCmd)
	rootCmd.AddCommand(decodeCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(codebookCmd)
}

func initConfig() {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})))

	cfg, err := loadConfig(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: config: %v\n", err)
		cfg = &Config{}
	}
	cfg.applyFlags(rootCmd)
	globalConfig = cfg
}

// getConfig returns the merged configuration.
func getConfig() *Config {
	if globalConfig == nil {
		return &Config{}
	}
	return globalConfig
}
