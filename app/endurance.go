package app

import (
	"fmt"

	"github.com/NERSC/lustre-design-analysis/models"
)

// SystemProfile describes one system's aggregate storage for the endurance
// formula: fullness fraction chi, RAID capacity overhead R, drive count N
// and per-drive capacity c.
type SystemProfile struct {
	Fullness           float64
	RAIDOverhead       float64
	Drives             int64
	DriveCapacityBytes int64
}

// ProfileFromConfig converts the configuration form of a system profile.
func ProfileFromConfig(cfg models.SystemProfileConfig) SystemProfile {
	return SystemProfile{
		Fullness:           cfg.Fullness,
		RAIDOverhead:       cfg.RAIDOverhead,
		Drives:             cfg.Drives,
		DriveCapacityBytes: cfg.DriveCapacityBytes,
	}
}

// EffectiveCapacityBytes returns chi * R * N * c. Unset multipliers
// (zero fullness or RAID overhead) count as 1; missing drive count or
// capacity makes the profile underspecified and ok is false.
func (p SystemProfile) EffectiveCapacityBytes() (float64, bool) {
	if p.Drives <= 0 || p.DriveCapacityBytes <= 0 {
		return 0, false
	}
	capacity := float64(p.Drives) * float64(p.DriveCapacityBytes)
	if p.Fullness > 0 {
		capacity *= p.Fullness
	}
	if p.RAIDOverhead > 0 {
		capacity *= p.RAIDOverhead
	}
	return capacity, true
}

// EnduranceInput collects the scalar terms of the drive endurance formula.
type EnduranceInput struct {
	// SSI is the sustained system improvement multiplier: expected
	// throughput growth of the new system over the reference system.
	SSI float64

	// FSWritesPerDay is the observed fraction of the reference file
	// system's capacity written per day.
	FSWritesPerDay float64

	// WAF is the observed write amplification factor.
	WAF float64

	Reference SystemProfile
	New       SystemProfile

	// TargetBytes substitutes for the new system's capacity when its
	// drive parameters are not yet known, typically the rescaler's
	// target mass.
	TargetBytes float64
}

// RequiredDWPD computes the drive-writes-per-day endurance the new system's
// drives must sustain:
//
//	DWPD = SSI * FSWPD * WAF * capacity_ref / capacity_new
//
// When the new system's drive count or capacity is unknown the capacity
// term falls back to TargetBytes; with neither available the target is
// underspecified and an error is returned rather than a silent zero.
func RequiredDWPD(in EnduranceInput) (float64, error) {
	refCapacity, ok := in.Reference.EffectiveCapacityBytes()
	if !ok {
		return 0, fmt.Errorf("%w: reference system drive count and capacity required", ErrUnderspecifiedCapacityTarget)
	}

	newCapacity, ok := in.New.EffectiveCapacityBytes()
	if !ok {
		if in.TargetBytes <= 0 {
			return 0, fmt.Errorf("%w: new system needs drive parameters or a rescaling target", ErrUnderspecifiedCapacityTarget)
		}
		newCapacity = in.TargetBytes
	}

	return in.SSI * in.FSWritesPerDay * in.WAF * refCapacity / newCapacity, nil
}
