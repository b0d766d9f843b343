package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"github.com/thesyncim/lpcfeat"
	"github.com/thesyncim/lpcfeat/codebook"
	"github.com/thesyncim/lpcfeat/ingest"
)

// Config is the optional settings file passed with --config.
// Flags given on the command line take precedence over file values.
type Config struct {
	// Codebooks is a msgpack codebook set written by 'codebook export'.
	// Default: built-in set
	Codebooks string `yaml:"codebooks"`

	// SampleRate is the input sample rate.
	// Default: 16000
	SampleRate int `yaml:"sample_rate"`

	// HighPass enables the DC-blocking filter.
	// Default: true
	HighPass *bool `yaml:"highpass"`

	// Preemphasis is the pre-emphasis coefficient, 0 disables it.
	// Default: 0.85
	Preemphasis *float32 `yaml:"preemphasis"`

	// Relaxation pulls the mid anchor towards its neighbours before
	// quantization.
	Relaxation bool `yaml:"relaxation"`
}

// loadConfig reads path. An empty path yields an empty Config.
func loadConfig(path string) (*Config, error) {
	cfg := &Config{}
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// applyFlags fills every setting from the flags that were set explicitly,
// and from flag defaults where the file is silent.
func (c *Config) applyFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	if flags.Changed("codebooks") || c.Codebooks == "" {
		c.Codebooks = codebookPath
	}
	if flags.Changed("rate") || c.SampleRate == 0 {
		c.SampleRate = sampleRate
	}
	if flags.Changed("highpass") || c.HighPass == nil {
		v := highPass
		c.HighPass = &v
	}
	if flags.Changed("preemphasis") || c.Preemphasis == nil {
		v := preemph
		c.Preemphasis = &v
	}
	if flags.Changed("relax") {
		c.Relaxation = relaxation
	}
}

// ingestConfig returns the input conditioning settings.
func (c *Config) ingestConfig() ingest.Config {
	cfg := ingest.DefaultConfig()
	if c.SampleRate != 0 {
		cfg.SampleRate = c.SampleRate
	}
	if c.HighPass != nil {
		cfg.HighPass = *c.HighPass
	}
	if c.Preemphasis != nil {
		cfg.Preemphasis = *c.Preemphasis
	}
	return cfg
}

// codebooks loads the configured codebook set.
func (c *Config) codebooks() (*codebook.Set, error) {
	if c.Codebooks == "" {
		return codebook.Default(), nil
	}
	f, err := os.Open(c.Codebooks)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	set, err := codebook.Load(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", lpcfeat.ErrInvalidCodebook, c.Codebooks, err)
	}
	return set, nil
}

// encoderOptions returns the options shared by every encoding command.
func (c *Config) encoderOptions(quantize bool) ([]lpcfeat.Option, error) {
	set, err := c.codebooks()
	if err != nil {
		return nil, err
	}
	return []lpcfeat.Option{
		lpcfeat.WithQuantize(quantize),
		lpcfeat.WithCodebooks(set),
		lpcfeat.WithInterpRelaxation(c.Relaxation),
		lpcfeat.WithLogger(slog.Default()),
	}, nil
}
