package vmath

// Spline is a one-dimensional natural cubic spline. Camera paths build one
// spline per pose component so interior keyframe boundaries stay C2-smooth.
type Spline struct {
	xs []float64
	ys []float64
	y2 []float64 // second derivatives at knots
}

// NewSpline builds a natural cubic spline through the given knots. Knot x
// values must be strictly increasing. With fewer than two knots the spline
// degenerates to a constant.
func NewSpline(xs, ys []float64) *Spline {
	n := len(xs)
	s := &Spline{
		xs: append([]float64(nil), xs...),
		ys: append([]float64(nil), ys...),
		y2: make([]float64, n),
	}
	if n < 3 {
		return s // linear or constant, second derivatives stay zero
	}

	// Tridiagonal solve with natural boundary conditions (y2[0]=y2[n-1]=0)
	u := make([]float64, n)
	for i := 1; i < n-1; i++ {
		sig := (xs[i] - xs[i-1]) / (xs[i+1] - xs[i-1])
		p := sig*s.y2[i-1] + 2.0
		s.y2[i] = (sig - 1.0) / p
		u[i] = (ys[i+1]-ys[i])/(xs[i+1]-xs[i]) - (ys[i]-ys[i-1])/(xs[i]-xs[i-1])
		u[i] = (6.0*u[i]/(xs[i+1]-xs[i-1]) - sig*u[i-1]) / p
	}
	for i := n - 2; i >= 0; i-- {
		s.y2[i] = s.y2[i]*s.y2[i+1] + u[i]
	}
	return s
}

// Evaluate returns the spline value at x, clamped to the knot range.
func (s *Spline) Evaluate(x float64) float64 {
	n := len(s.xs)
	if n == 0 {
		return 0
	}
	if n == 1 || x <= s.xs[0] {
		return s.ys[0]
	}
	if x >= s.xs[n-1] {
		return s.ys[n-1]
	}

	// Binary search for the bracketing interval
	lo, hi := 0, n-1
	for hi-lo > 1 {
		mid := (lo + hi) / 2
		if s.xs[mid] > x {
			hi = mid
		} else {
			lo = mid
		}
	}

	h := s.xs[hi] - s.xs[lo]
	a := (s.xs[hi] - x) / h
	b := (x - s.xs[lo]) / h
	return a*s.ys[lo] + b*s.ys[hi] +
		((a*a*a-a)*s.y2[lo]+(b*b*b-b)*s.y2[hi])*(h*h)/6.0
}
