package policy

// RelativeRange computes (max - min) / mean over a series. An empty series
// or a non-positive mean returns 1.0, maximally unstable, so a stability
// check fails closed instead of silently passing.
func RelativeRange(values []float64) float64 {
	if len(values) == 0 {
		return 1.0
	}

	sum := 0.0
	minV := values[0]
	maxV := values[0]
	for _, v := range values {
		sum += v
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}

	mean := sum / float64(len(values))
	if mean <= 0 {
		return 1.0
	}
	return (maxV - minV) / mean
}

// tailWindow returns the trailing n elements of values, or all of them when
// the series is shorter than the window.
func tailWindow(values []float64, n int) []float64 {
	if n <= 0 || n >= len(values) {
		return values
	}
	return values[len(values)-n:]
}
