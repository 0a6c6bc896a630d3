package scraper

import (
	"fmt"
	"strconv"
)

// SecondsBetween returns the absolute difference in seconds between two
// period clocks formatted as "MM:SS". The feed validates clocks upstream, so
// a malformed value here is an error, not a zero.
func SecondsBetween(a, b string) (int, error) {
	sa, err := clockSeconds(a)
	if err != nil {
		return 0, err
	}
	sb, err := clockSeconds(b)
	if err != nil {
		return 0, err
	}
	diff := sb - sa
	if diff < 0 {
		diff = -diff
	}
	return diff, nil
}

func clockSeconds(clock string) (int, error) {
	if len(clock) != 5 || clock[2] != ':' {
		return 0, fmt.Errorf("malformed period clock %q", clock)
	}
	m, err := strconv.Atoi(clock[:2])
	if err != nil || m < 0 {
		return 0, fmt.Errorf("malformed period clock %q", clock)
	}
	s, err := strconv.Atoi(clock[3:])
	if err != nil || s < 0 {
		return 0, fmt.Errorf("malformed period clock %q", clock)
	}
	return m*60 + s, nil
}
