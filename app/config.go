package app

import (
	"github.com/NERSC/lustre-design-analysis/models"

	"github.com/spf13/viper"
)

func LoadConfig(path string) (*models.AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetDefault("floor_per_inode_bytes", DefaultFloorPerInode)
	v.SetDefault("histogram_cache", "histogram.csv")

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg models.AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// BinIndexFromConfig builds the bin index from configured boundaries,
// falling back to the canonical power-of-two sequence.
func BinIndexFromConfig(cfg *models.AppConfig) (*BinIndex, error) {
	if len(cfg.BinBoundaries) > 0 {
		return NewBinIndex(cfg.BinBoundaries)
	}
	return NewBinIndex(DefaultBinBoundaries())
}

// CacheFromConfig returns the configured histogram cache, or nil when
// caching is disabled.
func CacheFromConfig(cfg *models.AppConfig) HistogramCache {
	if cfg.HistogramCache == "" {
		return nil
	}
	return &CSVCache{Path: cfg.HistogramCache}
}
