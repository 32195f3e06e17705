package app

import (
	"fmt"

	"github.com/NERSC/lustre-design-analysis/models"
)

// Convention selects how a bin's size range collapses to one representative
// byte value: the smallest contributing size, the largest, or the midpoint.
type Convention int

const (
	Min Convention = iota
	Max
	Average
)

// Conventions lists all three bound conventions; every distribution is
// computed for all of them together.
func Conventions() []Convention {
	return []Convention{Min, Max, Average}
}

func (c Convention) String() string {
	switch c {
	case Min:
		return "min"
	case Max:
		return "max"
	case Average:
		return "average"
	}
	return fmt.Sprintf("convention(%d)", int(c))
}

// ParseConvention maps "min", "max" or "average" to a Convention.
func ParseConvention(s string) (Convention, error) {
	for _, c := range Conventions() {
		if c.String() == s {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown extent convention %q", s)
}

// opposite returns the convention whose total mass goes in the denominator
// when normalizing the given convention's per-bin mass. Pairing min with
// max (and vice versa) is what makes dividing a fixed target mass by the
// resulting probabilities a conservative bracket rather than a point
// estimate; the average convention is its own opposite.
func opposite(c Convention) Convention {
	switch c {
	case Min:
		return Max
	case Max:
		return Min
	}
	return Average
}

// DefaultFloorPerInode is the minimum on-disk footprint, in bytes, charged
// for any inode regardless of its nominal size.
const DefaultFloorPerInode = 4096

// MassDistribution converts a reference histogram's counts into estimated
// byte mass per bin under each extent convention, and the probability
// distribution of file mass across bins used by the rescaler.
type MassDistribution struct {
	Index         *BinIndex
	Histogram     *Histogram
	FloorPerInode int64

	// FileMass is count * extent per bin for file inodes, whose size
	// directly encodes data volume.
	FileMass map[Convention][]float64

	// NonFileMass sums, over all non-file types, the per-bin mass
	// max(count*extent, count*floor). The comparison is deliberately at
	// bin granularity, matching the reference tooling; it can only ever
	// overstate, never understate.
	NonFileMass map[Convention][]float64

	TotalFileMass    map[Convention]float64
	TotalNonFileMass map[Convention]float64

	// Probability is FileMass normalized by the opposite convention's
	// total (see opposite). Only the average column is guaranteed to sum
	// to 1; min and max bracket it from below and above.
	Probability map[Convention][]float64
}

// ComputeMassDistribution derives the per-bin mass estimates and the file
// mass probability distribution from a reference histogram. floorPerInode
// <= 0 selects DefaultFloorPerInode. Returns ErrEmptyDistribution when a
// required total mass is zero.
func ComputeMassDistribution(h *Histogram, floorPerInode int64) (*MassDistribution, error) {
	if floorPerInode <= 0 {
		floorPerInode = DefaultFloorPerInode
	}

	n := h.Index.Len()
	d := &MassDistribution{
		Index:            h.Index,
		Histogram:        h,
		FloorPerInode:    floorPerInode,
		FileMass:         make(map[Convention][]float64),
		NonFileMass:      make(map[Convention][]float64),
		TotalFileMass:    make(map[Convention]float64),
		TotalNonFileMass: make(map[Convention]float64),
		Probability:      make(map[Convention][]float64),
	}

	fileCounts := h.Counts(models.TypeFile)
	for _, c := range Conventions() {
		fileMass := make([]float64, n)
		nonFileMass := make([]float64, n)
		var fileTotal, nonFileTotal float64

		for i := 0; i < n; i++ {
			bin := h.Index.Bin(i)
			extent := bin.Extent(c)

			fileMass[i] = float64(fileCounts[i]) * extent
			fileTotal += fileMass[i]

			for _, typ := range models.AllInodeTypes {
				if typ == models.TypeFile {
					continue
				}
				count := float64(h.Count(typ, i))
				mass := count * extent
				if floored := count * float64(floorPerInode); floored > mass {
					mass = floored
				}
				nonFileMass[i] += mass
			}
			nonFileTotal += nonFileMass[i]
		}

		d.FileMass[c] = fileMass
		d.NonFileMass[c] = nonFileMass
		d.TotalFileMass[c] = fileTotal
		d.TotalNonFileMass[c] = nonFileTotal
	}

	for _, c := range Conventions() {
		denom := d.TotalFileMass[opposite(c)]
		if denom == 0 {
			return nil, fmt.Errorf("%w: %s mass total is zero", ErrEmptyDistribution, opposite(c))
		}
		probs := make([]float64, n)
		for i, mass := range d.FileMass[c] {
			probs[i] = mass / denom
		}
		d.Probability[c] = probs
	}

	return d, nil
}
