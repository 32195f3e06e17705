package app

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/NERSC/lustre-design-analysis/models"
)

// HistogramCache persists a built histogram so that repeated analysis runs
// do not re-aggregate a large source table. Injected into
// BuildHistogramCached; the computation core itself never touches I/O.
type HistogramCache interface {
	// Load returns the cached histogram, or ok=false when no cache
	// exists yet.
	Load() (h *Histogram, ok bool, err error)
	Store(h *Histogram) error
}

// CSVCache stores the histogram as a CSV table with a bin_size key column
// and one num_<type>s count column per inode type, the same layout the
// reference tooling emits.
type CSVCache struct {
	Path string
}

func (c *CSVCache) Load() (*Histogram, bool, error) {
	f, err := os.Open(c.Path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, false, fmt.Errorf("reading %s: %w", c.Path, err)
	}
	if len(records) < 2 {
		return nil, false, fmt.Errorf("cache %s has no histogram rows", c.Path)
	}

	header := records[0]
	if header[0] != "bin_size" {
		return nil, false, fmt.Errorf("cache %s: first column is %q, want bin_size", c.Path, header[0])
	}
	types := make([]models.InodeType, len(header)-1)
	for i, col := range header[1:] {
		typ, err := columnToType(col)
		if err != nil {
			return nil, false, fmt.Errorf("cache %s: %w", c.Path, err)
		}
		types[i] = typ
	}

	boundaries := make([]int64, len(records)-1)
	for i, row := range records[1:] {
		boundaries[i], err = strconv.ParseInt(row[0], 10, 64)
		if err != nil {
			return nil, false, fmt.Errorf("cache %s row %d: bad bin_size %q", c.Path, i+1, row[0])
		}
	}
	index, err := NewBinIndex(boundaries)
	if err != nil {
		return nil, false, fmt.Errorf("cache %s: %w", c.Path, err)
	}

	h := NewHistogram(index)
	for i, row := range records[1:] {
		if len(row) != len(header) {
			return nil, false, fmt.Errorf("cache %s row %d: %d columns, want %d", c.Path, i+1, len(row), len(header))
		}
		for j, typ := range types {
			n, err := strconv.ParseInt(row[j+1], 10, 64)
			if err != nil {
				return nil, false, fmt.Errorf("cache %s row %d: bad count %q", c.Path, i+1, row[j+1])
			}
			h.SetBin(typ, i, n)
		}
	}
	return h, true, nil
}

func (c *CSVCache) Store(h *Histogram) error {
	f, err := os.Create(c.Path)
	if err != nil {
		return err
	}
	defer f.Close()

	return h.WriteCSV(f)
}

// WriteCSV emits the histogram in the cache/report CSV layout: a bin_size
// key column followed by one count column per inode type present.
func (h *Histogram) WriteCSV(out io.Writer) error {
	w := csv.NewWriter(out)
	types := h.Types()

	header := []string{"bin_size"}
	for _, typ := range types {
		header = append(header, typ.ColumnName())
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for i := 0; i < h.Index.Len(); i++ {
		row := []string{strconv.FormatInt(h.Index.Bin(i).ExtentMax, 10)}
		for _, typ := range types {
			row = append(row, strconv.FormatInt(h.Count(typ, i), 10))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func columnToType(col string) (models.InodeType, error) {
	for _, typ := range models.AllInodeTypes {
		if typ.ColumnName() == col {
			return typ, nil
		}
	}
	return "", fmt.Errorf("unknown histogram column %q", col)
}
