package audio

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrLengthMismatch is returned when the two downmix inputs differ in length.
var ErrLengthMismatch = errors.New("channel length mismatch")

// DownmixProfile selects one of two downmix algorithms. They are alternatives,
// never combined.
type DownmixProfile int

const (
	// ProfileEqualPower normalizes both channels by their joint peak, sums
	// them with the ITU-R BS.775 1/√2 coefficient and clips to [-1,1]. The
	// result is stereo with a silent second channel.
	ProfileEqualPower DownmixProfile = iota

	// ProfileWeightedSum computes left + 0.707·right and rescales the result
	// so its peak equals the left channel's peak. The result is mono.
	ProfileWeightedSum
)

// Downmix coefficients.
const (
	EqualPowerCoefficient  = 0.7071067811865476 // 1/√2
	WeightedSumCoefficient = 0.707
)

var profileNames = map[DownmixProfile]string{
	ProfileEqualPower:  "equal_power",
	ProfileWeightedSum: "weighted_sum",
}

// ParseDownmixProfile parses "equal_power" or "weighted_sum".
func ParseDownmixProfile(s string) (DownmixProfile, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for p, n := range profileNames {
		if n == name {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown downmix profile %q", s)
}

func (p DownmixProfile) String() string {
	if n, ok := profileNames[p]; ok {
		return n
	}
	return fmt.Sprintf("DownmixProfile(%d)", int(p))
}

// Mixdown is the result of Downmix.
type Mixdown struct {
	Profile  DownmixProfile
	Channels [][]float64
}

// Reference returns the merged channel.
func (m Mixdown) Reference() []float64 {
	return m.Channels[0]
}

// Downmix merges left and right into a single reference channel. Sample order
// is preserved; only weighting and normalization differ between profiles.
func Downmix(profile DownmixProfile, left, right []float64) (Mixdown, error) {
	if len(left) != len(right) {
		return Mixdown{}, fmt.Errorf("%w: left has %d samples, right has %d", ErrLengthMismatch, len(left), len(right))
	}

	switch profile {
	case ProfileEqualPower:
		merged := equalPower(left, right)
		return Mixdown{Profile: profile, Channels: [][]float64{merged, make([]float64, len(merged))}}, nil
	case ProfileWeightedSum:
		return Mixdown{Profile: profile, Channels: [][]float64{weightedSum(left, right)}}, nil
	default:
		return Mixdown{}, fmt.Errorf("unknown downmix profile %d", int(profile))
	}
}

func equalPower(left, right []float64) []float64 {
	scale := 1.0
	if p := max(Peak(left), Peak(right)); p > 0 {
		scale = p
	}

	merged := make([]float64, len(left))
	for i := range merged {
		l, r := left[i]/scale, right[i]/scale
		merged[i] = clip(EqualPowerCoefficient * (l + r))
	}
	return merged
}

func weightedSum(left, right []float64) []float64 {
	merged := make([]float64, len(left))
	for i := range merged {
		merged[i] = left[i] + WeightedSumCoefficient*right[i]
	}

	target := Peak(left)
	if p := Peak(merged); p > 0 {
		for i := range merged {
			merged[i] = merged[i] / p * target
		}
	}
	return merged
}

// Peak returns the largest absolute sample value in buf.
func Peak(buf []float64) float64 {
	p := 0.0
	for _, v := range buf {
		p = max(p, math.Abs(v))
	}
	return p
}

func clip(v float64) float64 {
	return max(-1, min(1, v))
}
