package viewport

// smoothDamp moves current towards target like a critically damped spring
// that settles in roughly smoothTime seconds. velocity carries the spring's
// state between calls.
func smoothDamp(current, target float64, velocity *float64, smoothTime, dt float64) float64 {
	if dt <= 0 {
		return current
	}
	smoothTime = max(smoothTime, 1e-4)
	omega := 2 / smoothTime
	x := omega * dt
	decay := 1 / (1 + x + 0.48*x*x + 0.235*x*x*x)

	change := current - target
	temp := (*velocity + omega*change) * dt
	*velocity = (*velocity - omega*temp) * decay
	out := target + (change+temp)*decay

	// Never overshoot.
	if (target-current > 0) == (out > target) {
		out = target
		*velocity = 0
	}
	return out
}

// opposes reports whether velocity points away from a remaining distance d.
// A zero on either side opposes nothing.
func opposes(velocity, d float64) bool {
	return velocity*d < 0
}
