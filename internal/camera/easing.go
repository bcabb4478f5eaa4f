package camera

// Easing maps normalized elapsed time t in [0,1] to an interpolation
// factor. Implementations must satisfy f(0)=0 and f(1)=1.
type Easing func(t float64) float64

// Linear applies no easing.
func Linear(t float64) float64 {
	return t
}

// EaseOutCubic decelerates toward the target. This is the default for
// frame transitions: a quick departure with a soft landing.
func EaseOutCubic(t float64) float64 {
	u := 1 - t
	return 1 - u*u*u
}

// EaseInOutCubic accelerates through the midpoint and decelerates at both
// ends.
func EaseInOutCubic(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	u := -2*t + 2
	return 1 - u*u*u/2
}
