package ccard

import "math"

// Cardinality returns the estimated number of distinct keys offered so far,
// switching between the Linear Counting and LogLog formulas by empty-bucket
// ratio (spec.md §4.4). The null-check happens before B is computed, per
// the redesign note in §9 correcting the source's reversed order.
func (s *Sketch) Cardinality() (uint64, error) {
	if err := s.checkValid(); err != nil {
		return 0, s.setErr(err)
	}

	b := float64(s.be) / float64(s.m)
	if b >= bSwitch {
		return lcEstimate(s.m, b), nil
	}
	return s.loglogEstimate(), nil
}

// CardinalityLogLog returns the LogLog estimate unconditionally, regardless
// of the current empty-bucket ratio (spec.md §6 cardinality_loglog).
func (s *Sketch) CardinalityLogLog() (uint64, error) {
	if err := s.checkValid(); err != nil {
		return 0, s.setErr(err)
	}
	return s.loglogEstimate(), nil
}

func (s *Sketch) loglogEstimate() uint64 {
	mean := float64(s.rsum) / float64(s.m)
	est := s.ca * math.Pow(2, mean)
	return round(est)
}

// lcEstimate computes the Linear Counting formula round(-m * ln(B)).
func lcEstimate(m uint32, b float64) uint64 {
	return round(-float64(m) * math.Log(b))
}

func round(f float64) uint64 {
	if f <= 0 {
		return 0
	}
	return uint64(math.Floor(f + 0.5))
}
