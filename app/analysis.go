package app

import (
	"fmt"
	"log"

	"github.com/NERSC/lustre-design-analysis/models"
)

// Analysis bundles the outputs of one end-to-end run: the reference
// histogram, its mass distribution, and (when a target capacity is
// configured) the rescaled projection.
type Analysis struct {
	Config     *models.AppConfig
	Index      *BinIndex
	Histogram  *Histogram
	Dist       *MassDistribution
	Projection *Projection
}

// LoadHistogram builds (or loads from cache) the reference histogram for
// the configured database.
func LoadHistogram(cfg *models.AppConfig) (*Histogram, *BinIndex, error) {
	index, err := BinIndexFromConfig(cfg)
	if err != nil {
		return nil, nil, err
	}

	cache := CacheFromConfig(cfg)

	// When the cache already answers, skip opening the source entirely;
	// the dump may be huge or absent on the machine doing the report.
	if cache != nil {
		h, ok, err := cache.Load()
		if err != nil {
			return nil, nil, fmt.Errorf("loading histogram cache: %w", err)
		}
		if ok && index.SameBoundaries(h.Index) {
			log.Printf("Using cached histogram from %s", cfg.HistogramCache)
			return h, index, nil
		}
	}

	analyzer, err := NewAnalyzer(cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	defer analyzer.Close()

	h, err := BuildHistogramCached(analyzer, index, cache)
	if err != nil {
		return nil, nil, err
	}
	return h, index, nil
}

// RunAnalysis executes the full pipeline: histogram, mass distribution,
// and capacity rescaling when projection.target_capacity_bytes is set.
func RunAnalysis(cfg *models.AppConfig) (*Analysis, error) {
	h, index, err := LoadHistogram(cfg)
	if err != nil {
		return nil, err
	}

	dist, err := ComputeMassDistribution(h, cfg.FloorPerInodeBytes)
	if err != nil {
		return nil, err
	}

	a := &Analysis{
		Config:    cfg,
		Index:     index,
		Histogram: h,
		Dist:      dist,
	}

	if cfg.Projection.TargetCapacityBytes > 0 {
		a.Projection, err = Rescale(dist, cfg.Projection.TargetCapacityBytes)
		if err != nil {
			return nil, err
		}
	}

	return a, nil
}

// EnduranceInputFromConfig assembles the endurance formula's inputs,
// wiring the rescaling target in as the new system's capacity fallback.
func EnduranceInputFromConfig(cfg *models.AppConfig) EnduranceInput {
	return EnduranceInput{
		SSI:            cfg.Endurance.SSI,
		FSWritesPerDay: cfg.Endurance.FSWritesPerDay,
		WAF:            cfg.Endurance.WAF,
		Reference:      ProfileFromConfig(cfg.Endurance.Reference),
		New:            ProfileFromConfig(cfg.Endurance.New),
		TargetBytes:    cfg.Projection.TargetCapacityBytes,
	}
}
