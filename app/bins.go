package app

import (
	"errors"
	"fmt"
	"sort"
)

// Engine error kinds. Callers match with errors.Is; call sites add context
// with %w wrapping.
var (
	ErrEmptyDistribution            = errors.New("empty distribution: reference population has zero total mass")
	ErrInvalidBinBoundaries         = errors.New("invalid bin boundaries")
	ErrUnderspecifiedCapacityTarget = errors.New("underspecified capacity target")
)

// Bin is one half-open size interval (lower, ExtentMax] of the histogram.
// The lowest bin additionally includes size 0.
type Bin struct {
	// ExtentMin is the smallest size that can land in this bin: 0 for
	// the lowest bin, previous boundary + 1 otherwise.
	ExtentMin int64

	// ExtentMax is the bin's upper boundary, inclusive.
	ExtentMax int64

	// ExtentAverage is the midpoint of the bin's continuous interval,
	// used as the central per-inode size estimate.
	ExtentAverage float64
}

// Extent collapses the bin to a single representative byte value under the
// given convention.
func (b Bin) Extent(c Convention) float64 {
	switch c {
	case Min:
		return float64(b.ExtentMin)
	case Max:
		return float64(b.ExtentMax)
	}
	return b.ExtentAverage
}

// BinIndex is the immutable set of logarithmic size buckets shared by every
// computation in an analysis session. Bins are contiguous, non-overlapping
// and, with oversized values clamped into the last bin, cover [0, inf).
type BinIndex struct {
	bins       []Bin
	boundaries []int64
}

// DefaultBinBoundaries returns successive powers of two from 2 through
// 2^60, giving a lowest bin of {0, 1, 2} that absorbs empty and degenerate
// sizes.
func DefaultBinBoundaries() []int64 {
	boundaries := make([]int64, 60)
	for i := range boundaries {
		boundaries[i] = int64(1) << (i + 1)
	}
	return boundaries
}

// NewBinIndex builds a BinIndex from the inclusive upper boundary of each
// bin. Boundaries must be strictly increasing and start at 1 or above.
func NewBinIndex(boundaries []int64) (*BinIndex, error) {
	if len(boundaries) == 0 {
		return nil, fmt.Errorf("%w: no boundaries given", ErrInvalidBinBoundaries)
	}
	if boundaries[0] < 1 {
		return nil, fmt.Errorf("%w: first boundary %d leaves no valid lowest bin", ErrInvalidBinBoundaries, boundaries[0])
	}
	for i := 1; i < len(boundaries); i++ {
		if boundaries[i] <= boundaries[i-1] {
			return nil, fmt.Errorf("%w: boundary %d at position %d does not increase", ErrInvalidBinBoundaries, boundaries[i], i)
		}
	}

	bins := make([]Bin, len(boundaries))
	var lower int64
	for i, upper := range boundaries {
		bin := Bin{
			ExtentMax:     upper,
			ExtentAverage: float64(lower+upper) / 2,
		}
		if i == 0 {
			bin.ExtentMin = 0
		} else {
			bin.ExtentMin = lower + 1
		}
		bins[i] = bin
		lower = upper
	}

	idx := &BinIndex{
		bins:       bins,
		boundaries: append([]int64(nil), boundaries...),
	}
	return idx, nil
}

func (ix *BinIndex) Len() int {
	return len(ix.bins)
}

func (ix *BinIndex) Bin(i int) Bin {
	return ix.bins[i]
}

func (ix *BinIndex) Bins() []Bin {
	return ix.bins
}

// BinFor maps a size to its bin position. Size 0 lands in the lowest bin;
// sizes beyond the last boundary clamp into the last bin.
func (ix *BinIndex) BinFor(size int64) int {
	i := sort.Search(len(ix.boundaries), func(i int) bool {
		return ix.boundaries[i] >= size
	})
	if i == len(ix.boundaries) {
		return len(ix.boundaries) - 1
	}
	return i
}

// SameBoundaries reports whether another index uses identical boundaries.
func (ix *BinIndex) SameBoundaries(other *BinIndex) bool {
	if other == nil || len(ix.boundaries) != len(other.boundaries) {
		return false
	}
	for i, b := range ix.boundaries {
		if other.boundaries[i] != b {
			return false
		}
	}
	return true
}
