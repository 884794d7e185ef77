package pfdigest

import "math"

// PctChange returns the n-period relative change (v[t]-v[t-n])/v[t-n].
// It is None for the first n periods, when either operand is None, and
// when the prior value is zero.
func PctChange(values []Value, n int) []Value {
	out := make([]Value, len(values))
	if n <= 0 {
		return out
	}
	for t := n; t < len(values); t++ {
		out[t] = values[t].Sub(values[t-n]).Div(values[t-n])
	}
	return out
}

// RollingStdDev returns the sample standard deviation over each trailing
// window. It is None until the window is full and whenever a value in the
// window is None.
func RollingStdDev(values []Value, window int) []Value {
	out := make([]Value, len(values))
	if window < 2 {
		return out
	}
	buf := make([]float64, 0, window)
	for t := window - 1; t < len(values); t++ {
		buf = buf[:0]
		for _, v := range values[t-window+1 : t+1] {
			f, ok := v.Get()
			if !ok {
				break
			}
			buf = append(buf, f)
		}
		if len(buf) == window {
			out[t] = V(stddev(buf, 1))
		}
	}
	return out
}

func mean(xs []float64) float64 {
	var s float64
	for _, x := range xs {
		s += x
	}
	return s / float64(len(xs))
}

// stddev is the standard deviation with ddof delta degrees of freedom:
// 0 for the population, 1 for the sample estimate.
func stddev(xs []float64, ddof int) float64 {
	n := len(xs) - ddof
	if n <= 0 {
		return math.NaN()
	}
	m := mean(xs)
	var ss float64
	for _, x := range xs {
		ss += (x - m) * (x - m)
	}
	return math.Sqrt(ss / float64(n))
}
