// Package config loads runtime settings from a config file and
// environment variables. Every setting has a working default; a bare
// binary pointed at a folder needs no configuration at all.
package config

import (
	"strings"

	"github.com/spf13/viper"

	"github.com/SANJAI2406/bearing-force-viewer/internal/ingest"
	"github.com/SANJAI2406/bearing-force-viewer/internal/metadata"
	"github.com/SANJAI2406/bearing-force-viewer/internal/ocr"
)

// Config holds all configuration for the application.
type Config struct {
	Discovery DiscoveryConfig
	Workers   int
	OCR       OCRConfig
	Metadata  MetadataConfig
}

// DiscoveryConfig controls the folder scan.
type DiscoveryConfig struct {
	DataPatterns  []string
	ImagePatterns []string
	Recursive     bool
}

// OCRConfig controls title recognition.
type OCRConfig struct {
	Enabled   bool
	Language  string
	TitleBand float64
}

// MetadataConfig controls filename/OCR reconciliation.
type MetadataConfig struct {
	// Precedence is "filename" or "ocr".
	Precedence string
}

// Policy maps the configured precedence onto a reconciliation policy.
// Anything unrecognized falls back to filename-wins.
func (m MetadataConfig) Policy() metadata.Policy {
	if strings.EqualFold(m.Precedence, "ocr") {
		return metadata.PreferOCR
	}
	return metadata.PreferFilename
}

// IngestDiscovery converts to the ingest package's scan settings.
func (c *Config) IngestDiscovery() ingest.DiscoveryConfig {
	return ingest.DiscoveryConfig{
		DataPatterns:  c.Discovery.DataPatterns,
		ImagePatterns: c.Discovery.ImagePatterns,
		Recursive:     c.Discovery.Recursive,
	}
}

// Load reads bfv.yaml from the working directory when present, then lets
// BFV_* environment variables override it.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("bfv")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		// No config file is the normal case.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	v.SetEnvPrefix("BFV")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return fromViper(v), nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("discovery.data_patterns", []string{"*.csv"})
	v.SetDefault("discovery.image_patterns", []string{"*.png"})
	v.SetDefault("discovery.recursive", false)
	v.SetDefault("workers", ingest.DefaultParallelism)
	v.SetDefault("ocr.enabled", true)
	v.SetDefault("ocr.language", "eng")
	v.SetDefault("ocr.title_band", ocr.DefaultTitleBand)
	v.SetDefault("metadata.precedence", "filename")
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		Discovery: DiscoveryConfig{
			DataPatterns:  v.GetStringSlice("discovery.data_patterns"),
			ImagePatterns: v.GetStringSlice("discovery.image_patterns"),
			Recursive:     v.GetBool("discovery.recursive"),
		},
		Workers: v.GetInt("workers"),
		OCR: OCRConfig{
			Enabled:   v.GetBool("ocr.enabled"),
			Language:  v.GetString("ocr.language"),
			TitleBand: v.GetFloat64("ocr.title_band"),
		},
		Metadata: MetadataConfig{
			Precedence: v.GetString("metadata.precedence"),
		},
	}
}
