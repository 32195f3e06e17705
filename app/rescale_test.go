package app

import (
	"errors"
	"testing"

	"github.com/NERSC/lustre-design-analysis/models"
)

func TestRescale_WorkedExample(t *testing.T) {
	d, err := ComputeMassDistribution(referenceHistogram(t), 0)
	if err != nil {
		t.Fatalf("ComputeMassDistribution failed: %v", err)
	}

	p, err := Rescale(d, 24)
	if err != nil {
		t.Fatalf("Rescale failed: %v", err)
	}

	t.Run("projected average mass", func(t *testing.T) {
		want := []float64{0, 12, 12, 0}
		for i, w := range want {
			if !almostEqual(p.Mass[Average][i], w) {
				t.Errorf("bin %d: mass %v, want %v", i, p.Mass[Average][i], w)
			}
		}
	})

	t.Run("projected average file counts", func(t *testing.T) {
		want := []float64{0, 4, 2, 0} // 12/3 and 12/6
		for i, w := range want {
			if !almostEqual(p.FileCounts[Average][i], w) {
				t.Errorf("bin %d: count %v, want %v", i, p.FileCounts[Average][i], w)
			}
		}
	})
}

func TestRescale_BoundOrdering(t *testing.T) {
	index := mustBinIndex(t, []int64{4, 16, 64, 256, 1024})
	h := NewHistogram(index)
	h.SetBin(models.TypeFile, 0, 13)
	h.SetBin(models.TypeFile, 1, 200)
	h.SetBin(models.TypeFile, 2, 41)
	h.SetBin(models.TypeFile, 4, 7)

	d, err := ComputeMassDistribution(h, 0)
	if err != nil {
		t.Fatalf("ComputeMassDistribution failed: %v", err)
	}
	p, err := Rescale(d, 5e6)
	if err != nil {
		t.Fatalf("Rescale failed: %v", err)
	}

	for i := 0; i < index.Len(); i++ {
		min := p.FileCounts[Min][i]
		avg := p.FileCounts[Average][i]
		max := p.FileCounts[Max][i]
		if min > avg+tolerance || avg > max+tolerance {
			t.Errorf("bin %d: bound ordering violated: min %v, average %v, max %v", i, min, avg, max)
		}
	}
}

func TestRescale_Idempotent(t *testing.T) {
	h := referenceHistogram(t)
	d, err := ComputeMassDistribution(h, 0)
	if err != nil {
		t.Fatalf("ComputeMassDistribution failed: %v", err)
	}

	// Rescaling to the reference system's own total mass must reproduce
	// the reference counts under the average convention.
	p, err := Rescale(d, d.TotalFileMass[Average])
	if err != nil {
		t.Fatalf("Rescale failed: %v", err)
	}

	for i := 0; i < h.Index.Len(); i++ {
		ref := float64(h.Count(models.TypeFile, i))
		if !almostEqual(p.FileCounts[Average][i], ref) {
			t.Errorf("bin %d: projected %v, reference %v", i, p.FileCounts[Average][i], ref)
		}
	}
}

func TestRescale_NonFileTypes(t *testing.T) {
	index := mustBinIndex(t, []int64{2, 4, 8, 16})
	h := NewHistogram(index)
	h.SetBin(models.TypeFile, 1, 2)
	h.SetBin(models.TypeFile, 2, 1)
	h.SetBin(models.TypeDir, 1, 6)     // 3 dirs per file in bin 1
	h.SetBin(models.TypeSymlink, 3, 4) // bin with zero reference files

	d, err := ComputeMassDistribution(h, 0)
	if err != nil {
		t.Fatalf("ComputeMassDistribution failed: %v", err)
	}
	p, err := Rescale(d, 24)
	if err != nil {
		t.Fatalf("Rescale failed: %v", err)
	}

	t.Run("proportional scaling", func(t *testing.T) {
		// 4 projected files in bin 1 at the reference ratio 6/2.
		if got := p.TypeCounts[models.TypeDir][Average][1]; !almostEqual(got, 12) {
			t.Errorf("projected dirs %v, want 12", got)
		}
	})

	t.Run("zero reference files yields zero, not undefined", func(t *testing.T) {
		if got := p.TypeCounts[models.TypeSymlink][Average][3]; got != 0 {
			t.Errorf("projected symlinks %v, want 0", got)
		}
	})

	t.Run("ratio fallback is flagged for audits", func(t *testing.T) {
		if !p.RatioFallback[models.TypeSymlink][3] {
			t.Error("expected fallback flag on symlink bin 3")
		}
		if p.RatioFallback[models.TypeDir][1] {
			t.Error("dir bin 1 has reference files, no fallback expected")
		}
		// A bin that is empty for the type in the reference stays
		// unflagged: its zero is a true zero.
		if p.RatioFallback[models.TypeSymlink][0] {
			t.Error("symlink bin 0 is a true zero, not a fallback")
		}
	})
}

func TestRescale_MissingTarget(t *testing.T) {
	d, err := ComputeMassDistribution(referenceHistogram(t), 0)
	if err != nil {
		t.Fatalf("ComputeMassDistribution failed: %v", err)
	}

	for _, target := range []float64{0, -5} {
		if _, err := Rescale(d, target); !errors.Is(err, ErrUnderspecifiedCapacityTarget) {
			t.Errorf("Rescale(%v): expected ErrUnderspecifiedCapacityTarget, got %v", target, err)
		}
	}
}

func TestRescale_NonFileMassFloored(t *testing.T) {
	index := mustBinIndex(t, []int64{2, 4, 8, 16})
	h := NewHistogram(index)
	h.SetBin(models.TypeFile, 1, 2)
	h.SetBin(models.TypeDir, 1, 2) // one dir per file

	d, err := ComputeMassDistribution(h, 4096)
	if err != nil {
		t.Fatalf("ComputeMassDistribution failed: %v", err)
	}
	p, err := Rescale(d, d.TotalFileMass[Average]*2)
	if err != nil {
		t.Fatalf("Rescale failed: %v", err)
	}

	// Doubling the capacity doubles the dirs: 4 projected dirs, each
	// charged the 4096-byte floor since extent 3 is below it.
	if got := p.NonFileMass[Average]; !almostEqual(got, 4*4096) {
		t.Errorf("projected non-file mass %v, want %v", got, float64(4*4096))
	}
}
