package app

// ResidencyPoint is one row of the metadata-residency capacity curve: the
// metadata-target bytes required if the stripe threshold is set at this
// bin's upper boundary.
type ResidencyPoint struct {
	Bin Bin

	// WholeFileBytes is the projected mass of every file small enough to
	// live entirely on the metadata target (all bins up to and including
	// this one).
	WholeFileBytes float64

	// FirstStripeBytes charges one stripe unit, sized at this bin's
	// upper boundary, for every projected file in a strictly larger bin.
	FirstStripeBytes float64

	// NonFileBytes is the projected footprint of all non-file inodes,
	// constant across the curve.
	NonFileBytes float64

	TotalBytes float64
}

// MetadataResidency computes the capacity-vs-threshold curve for storing
// small files, and the first stripe of larger files, on a metadata target.
// Callers pick an operating threshold bin externally; the curve itself is
// the result.
func MetadataResidency(p *Projection, c Convention) []ResidencyPoint {
	n := p.Index.Len()
	points := make([]ResidencyPoint, n)

	// Files in bins above i, precomputed back to front.
	largerFiles := make([]float64, n)
	var running float64
	for i := n - 1; i >= 0; i-- {
		largerFiles[i] = running
		running += p.FileCounts[c][i]
	}

	var cumulative float64
	for i := 0; i < n; i++ {
		bin := p.Index.Bin(i)
		cumulative += p.Mass[c][i]

		pt := ResidencyPoint{
			Bin:              bin,
			WholeFileBytes:   cumulative,
			FirstStripeBytes: largerFiles[i] * float64(bin.ExtentMax),
			NonFileBytes:     p.NonFileMass[c],
		}
		pt.TotalBytes = pt.WholeFileBytes + pt.FirstStripeBytes + pt.NonFileBytes
		points[i] = pt
	}
	return points
}
