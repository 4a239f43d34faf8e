package mandel

// Iterations returns the number of applications of z = z*z + c, starting at
// z = 0 with c = (x, y), before |z|² exceeds 4. Points that stay bounded
// return max. The result is always in [0, max].
//
// The explicit float64 conversions forbid fused multiply-add so results are
// identical on every architecture.
func Iterations(x, y float64, max int) int {
	x0, y0 := x, y
	iter := 0
	for float64(x*x)+float64(y*y) <= 4 && iter < max {
		x, y = float64(x*x)-float64(y*y)+x0, float64(2*x*y)+y0
		iter++
	}
	return iter
}
