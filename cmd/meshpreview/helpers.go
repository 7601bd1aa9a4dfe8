package main

import "time"

// outcomePrecision rounds durations for human-facing output.
const outcomePrecision = 100 * time.Millisecond

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
