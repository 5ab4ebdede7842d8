package gacha

import "errors"

// ErrInvalidProb is returned for a probability outside [0,1] or NaN.
var ErrInvalidProb = errors.New("invalid probability p; must be 0..1")

func validateProb(p float64) error {
	// NaN fails both comparisons
	if !(p >= 0 && p <= 1) {
		return ErrInvalidProb
	}
	return nil
}

// Draw under p, return if it is hit
// p <=0 => no hit. p>= 1 => must hit. otherwise, rng.Float64() < p
func Draw(p float64, rng RandomSource) (bool, error) {
	if err := validateProb(p); err != nil {
		return false, err
	}
	if p <= 0 {
		return false, nil
	}
	if p >= 1 {
		return true, nil
	}
	if rng == nil {
		rng = DefaultRNG()
	}
	return rng.Float64() < p, nil
}

// Chance is Draw for probabilities that come from trusted constants or a
// validated config. Out-of-range values are clamped instead of rejected.
func Chance(p float64, rng RandomSource) bool {
	if validateProb(p) != nil {
		if p > 1 {
			p = 1
		} else {
			p = 0
		}
	}
	hit, _ := Draw(p, rng)
	return hit
}
