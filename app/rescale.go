package app

import (
	"fmt"

	"github.com/NERSC/lustre-design-analysis/models"
)

// Projection is a reference distribution rescaled to a hypothetical system
// of TargetBytes total file data capacity. Counts are expected values under
// a continuous rescaling model and therefore real-valued.
type Projection struct {
	Index         *BinIndex
	TargetBytes   float64
	FloorPerInode int64

	// Mass is the projected file byte mass per bin: probability * target.
	Mass map[Convention][]float64

	// FileCounts inverts Mass back to file counts through the opposite
	// bound's extent, so min <= average <= max holds by construction.
	FileCounts map[Convention][]float64

	// TypeCounts carries non-file types, scaled per bin by the reference
	// population's type-to-file count ratio.
	TypeCounts map[models.InodeType]map[Convention][]float64

	// RatioFallback marks bins where a type's projected count is zero
	// only because the reference bin held no files to take a ratio
	// against, so audits can tell these apart from genuinely empty bins.
	RatioFallback map[models.InodeType][]bool

	// NonFileMass is the total projected non-file footprint per
	// convention, with the per-inode floor applied.
	NonFileMass map[Convention]float64
}

// Rescale projects the reference distribution onto a target capacity.
// Modeling assumption, not an invariant: the reference system's per-bin
// inode type mix carries over to the target system.
func Rescale(d *MassDistribution, targetBytes float64) (*Projection, error) {
	if targetBytes <= 0 {
		return nil, fmt.Errorf("%w: target capacity %g bytes", ErrUnderspecifiedCapacityTarget, targetBytes)
	}

	n := d.Index.Len()
	p := &Projection{
		Index:         d.Index,
		TargetBytes:   targetBytes,
		FloorPerInode: d.FloorPerInode,
		Mass:          make(map[Convention][]float64),
		FileCounts:    make(map[Convention][]float64),
		TypeCounts:    make(map[models.InodeType]map[Convention][]float64),
		RatioFallback: make(map[models.InodeType][]bool),
		NonFileMass:   make(map[Convention]float64),
	}

	for _, c := range Conventions() {
		mass := make([]float64, n)
		counts := make([]float64, n)
		for i := 0; i < n; i++ {
			mass[i] = d.Probability[c][i] * targetBytes
			counts[i] = mass[i] / countExtent(d.Index.Bin(i), c)
		}
		p.Mass[c] = mass
		p.FileCounts[c] = counts
	}

	refFiles := d.Histogram.Counts(models.TypeFile)
	for _, typ := range d.Histogram.Types() {
		if typ == models.TypeFile {
			continue
		}
		perConv := make(map[Convention][]float64)
		fallback := make([]bool, n)
		for _, c := range Conventions() {
			counts := make([]float64, n)
			for i := 0; i < n; i++ {
				refType := d.Histogram.Count(typ, i)
				if refFiles[i] == 0 {
					// No files to take a ratio against; projected
					// count stays zero rather than undefined.
					if refType > 0 {
						fallback[i] = true
					}
					continue
				}
				ratio := float64(refType) / float64(refFiles[i])
				counts[i] = p.FileCounts[c][i] * ratio
			}
			perConv[c] = counts
		}
		p.TypeCounts[typ] = perConv
		p.RatioFallback[typ] = fallback
	}

	for _, c := range Conventions() {
		var total float64
		for _, perConv := range p.TypeCounts {
			for i, count := range perConv[c] {
				extent := d.Index.Bin(i).Extent(c)
				mass := count * extent
				if floored := count * float64(d.FloorPerInode); floored > mass {
					mass = floored
				}
				total += mass
			}
		}
		p.NonFileMass[c] = total
	}

	return p, nil
}

// countExtent is the divisor for turning projected bin mass back into a
// file count: the opposite bound's extent for min and max, so the minimum
// count assumes every file is as large as possible and the maximum count
// assumes every file is as small as possible (floored to one byte).
func countExtent(bin Bin, c Convention) float64 {
	switch c {
	case Min:
		return float64(bin.ExtentMax)
	case Max:
		if bin.ExtentMin < 1 {
			return 1
		}
		return float64(bin.ExtentMin)
	}
	return bin.ExtentAverage
}
