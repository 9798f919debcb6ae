package poll

import "time"

const (
	// fastRetries is how many initial retries use the fixed fast delay.
	fastRetries = 5
	// fastDelay is the probe interval for the first retries.
	fastDelay = 1 * time.Second
	// backoffBase seeds the exponential phase: base * 2^(retry-fastRetries).
	backoffBase = 5 * time.Second
	// maxDelay caps the exponential phase.
	maxDelay = 30 * time.Second

	// maxShift bounds the exponent so the bit shift cannot overflow on
	// out-of-range retry counts.
	maxShift = 10
)

// Delay returns the wait before retry number retry (1-based).
//
// The first five retries probe quickly at a fixed one second, then the
// delay doubles from 10s up to the 30s cap: 1s x5, 10s, 20s, 30s, 30s, ...
func Delay(retry int) time.Duration {
	if retry <= fastRetries {
		return fastDelay
	}

	shift := uint(retry - fastRetries)
	if shift > maxShift {
		shift = maxShift
	}

	d := backoffBase << shift
	if d > maxDelay {
		d = maxDelay
	}
	return d
}
