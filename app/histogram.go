package app

import (
	"fmt"

	"github.com/NERSC/lustre-design-analysis/models"
)

// InodeSource provides grouped access to a reference inode population. The
// counting is expected to happen close to the data (a SQL aggregate, not a
// row-by-row client scan); the histogram output does not depend on that
// choice.
type InodeSource interface {
	// CountRange returns the number of inodes of the given type with
	// lo < size <= hi. A negative hi means no upper bound.
	CountRange(typ models.InodeType, lo, hi int64) (int64, error)

	// Types lists the inode types present in the source.
	Types() []models.InodeType
}

// Histogram holds per-bin inode counts for every inode type of a reference
// population. Built once per dataset and treated as immutable afterwards.
type Histogram struct {
	Index  *BinIndex
	counts map[models.InodeType][]int64
}

func NewHistogram(index *BinIndex) *Histogram {
	return &Histogram{
		Index:  index,
		counts: make(map[models.InodeType][]int64),
	}
}

// Add accumulates n inodes of the given type and size.
func (h *Histogram) Add(typ models.InodeType, size int64, n int64) {
	h.column(typ)[h.Index.BinFor(size)] += n
}

// SetBin sets the count for a (type, bin) cell directly, for sources that
// aggregate per bin rather than per size.
func (h *Histogram) SetBin(typ models.InodeType, bin int, n int64) {
	h.column(typ)[bin] = n
}

func (h *Histogram) column(typ models.InodeType) []int64 {
	col, ok := h.counts[typ]
	if !ok {
		col = make([]int64, h.Index.Len())
		h.counts[typ] = col
	}
	return col
}

// Count returns the number of inodes of the given type in one bin.
func (h *Histogram) Count(typ models.InodeType, bin int) int64 {
	col, ok := h.counts[typ]
	if !ok {
		return 0
	}
	return col[bin]
}

// Counts returns the per-bin counts for one type, zero-filled if the type
// is absent from the population.
func (h *Histogram) Counts(typ models.InodeType) []int64 {
	if col, ok := h.counts[typ]; ok {
		return col
	}
	return make([]int64, h.Index.Len())
}

// Total returns the population total for one type.
func (h *Histogram) Total(typ models.InodeType) int64 {
	var sum int64
	for _, n := range h.counts[typ] {
		sum += n
	}
	return sum
}

// Types lists the inode types with at least one recorded bin, in canonical
// order.
func (h *Histogram) Types() []models.InodeType {
	var types []models.InodeType
	for _, typ := range models.AllInodeTypes {
		if _, ok := h.counts[typ]; ok {
			types = append(types, typ)
		}
	}
	return types
}

// BuildHistogram aggregates a source population into per-type, per-bin
// counts. One range count per (type, bin); the last bin's query is
// unbounded above so the histogram covers every size.
func BuildHistogram(src InodeSource, index *BinIndex) (*Histogram, error) {
	h := NewHistogram(index)
	for _, typ := range src.Types() {
		lo := int64(-1)
		for i := 0; i < index.Len(); i++ {
			hi := index.Bin(i).ExtentMax
			if i == index.Len()-1 {
				hi = -1
			}
			n, err := src.CountRange(typ, lo, hi)
			if err != nil {
				return nil, fmt.Errorf("counting %s sizes in bin %d: %w", typ, i, err)
			}
			h.SetBin(typ, i, n)
			lo = index.Bin(i).ExtentMax
		}
	}
	return h, nil
}

// BuildHistogramCached returns the cached histogram when one with matching
// bin boundaries is present, otherwise builds from the source and stores
// the result. A nil cache always rebuilds.
func BuildHistogramCached(src InodeSource, index *BinIndex, cache HistogramCache) (*Histogram, error) {
	if cache != nil {
		h, ok, err := cache.Load()
		if err != nil {
			return nil, fmt.Errorf("loading histogram cache: %w", err)
		}
		if ok && index.SameBoundaries(h.Index) {
			return h, nil
		}
	}

	h, err := BuildHistogram(src, index)
	if err != nil {
		return nil, err
	}
	if cache != nil {
		if err := cache.Store(h); err != nil {
			return nil, fmt.Errorf("storing histogram cache: %w", err)
		}
	}
	return h, nil
}

// MemorySource is an InodeSource over in-memory size lists, one list per
// inode type. Useful for populations that fit in memory and for tests.
type MemorySource map[models.InodeType][]int64

func (m MemorySource) CountRange(typ models.InodeType, lo, hi int64) (int64, error) {
	var n int64
	for _, size := range m[typ] {
		if size > lo && (hi < 0 || size <= hi) {
			n++
		}
	}
	return n, nil
}

func (m MemorySource) Types() []models.InodeType {
	var types []models.InodeType
	for _, typ := range models.AllInodeTypes {
		if _, ok := m[typ]; ok {
			types = append(types, typ)
		}
	}
	return types
}
