package models

type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// SystemProfileConfig describes the aggregate storage of one system for the
// endurance calculation: fullness fraction (chi), RAID capacity overhead
// factor (R), drive count (N) and per-drive capacity in bytes (c).
type SystemProfileConfig struct {
	Fullness           float64 `mapstructure:"fullness"`
	RAIDOverhead       float64 `mapstructure:"raid_overhead"`
	Drives             int64   `mapstructure:"drives"`
	DriveCapacityBytes int64   `mapstructure:"drive_capacity_bytes"`
}

type EnduranceConfig struct {
	SSI            float64             `mapstructure:"ssi"`
	FSWritesPerDay float64             `mapstructure:"fs_writes_per_day"`
	WAF            float64             `mapstructure:"waf"`
	Reference      SystemProfileConfig `mapstructure:"reference"`
	New            SystemProfileConfig `mapstructure:"new"`
}

type ProjectionConfig struct {
	TargetCapacityBytes   float64 `mapstructure:"target_capacity_bytes"`
	ResidencyThresholdBin int     `mapstructure:"residency_threshold_bin"`
}

type AppConfig struct {
	// Database is the path to the SQLite dump of the reference file
	// system's inode population.
	Database string `mapstructure:"database"`

	// HistogramCache is the CSV file in which the built histogram is
	// cached between runs. Empty disables caching.
	HistogramCache string `mapstructure:"histogram_cache"`

	// BinBoundaries overrides the default power-of-two bin upper
	// boundaries when non-empty.
	BinBoundaries []int64 `mapstructure:"bin_boundaries"`

	// FloorPerInodeBytes is the minimum on-disk footprint charged per
	// inode of any type. Default 4096.
	FloorPerInodeBytes int64 `mapstructure:"floor_per_inode_bytes"`

	Server     ServerConfig     `mapstructure:"server"`
	Projection ProjectionConfig `mapstructure:"projection"`
	Endurance  EnduranceConfig  `mapstructure:"endurance"`
}
