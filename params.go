package chromaprop

import (
	"fmt"
	"math"
)

// Params holds the numeric knobs of the enhancement and colorization
// pipeline. The zero value is not useful; start from DefaultParams and
// override fields as needed.
type Params struct {
	// Gamma is the weighting exponent applied to the fused enhancement
	// plane. Higher values darken midtones. Range [0, 10].
	Gamma float64
	// Contrast is the slope of the mean-anchored sigmoid stretch.
	// Range [0, 2].
	Contrast float64
	// LogisticK is the steepness of the global logistic tone curve.
	// Range [1, 50].
	LogisticK float64
	// SmoothSigma is the standard deviation of the optional Gaussian
	// smoothing pass applied after the stretch. 0 disables smoothing.
	// Range [0, 5].
	SmoothSigma float64
	// SeedRatio is the fraction of pixels given chroma seeds.
	// Range (0, 0.5].
	SeedRatio float64
	// Sigma scales the luminance-similarity weights of the pixel graph.
	// Range [1, 20].
	Sigma float64
}

// DefaultParams returns the parameter set the pipeline was tuned with.
func DefaultParams() Params {
	return Params{
		Gamma:       3,
		Contrast:    0.5,
		LogisticK:   10,
		SmoothSigma: 0.5,
		SeedRatio:   0.05,
		Sigma:       5,
	}
}

// Validate checks every field against its documented range. NaN never
// validates.
func (p Params) Validate() error {
	if !inRange(p.Gamma, 0, 10) {
		return fmt.Errorf("gamma %v outside [0, 10]: %w", p.Gamma, ErrInvalidParameter)
	}
	if !inRange(p.Contrast, 0, 2) {
		return fmt.Errorf("contrast %v outside [0, 2]: %w", p.Contrast, ErrInvalidParameter)
	}
	if !inRange(p.LogisticK, 1, 50) {
		return fmt.Errorf("logistic k %v outside [1, 50]: %w", p.LogisticK, ErrInvalidParameter)
	}
	if !inRange(p.SmoothSigma, 0, 5) {
		return fmt.Errorf("smoothing sigma %v outside [0, 5]: %w", p.SmoothSigma, ErrInvalidParameter)
	}
	if math.IsNaN(p.SeedRatio) || p.SeedRatio <= 0 || p.SeedRatio > 0.5 {
		return fmt.Errorf("seed ratio %v outside (0, 0.5]: %w", p.SeedRatio, ErrInvalidParameter)
	}
	if !inRange(p.Sigma, 1, 20) {
		return fmt.Errorf("graph sigma %v outside [1, 20]: %w", p.Sigma, ErrInvalidParameter)
	}
	return nil
}

func inRange(v, lo, hi float64) bool { return v >= lo && v <= hi }
