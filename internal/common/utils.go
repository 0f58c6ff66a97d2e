package common

import "strings"

// HasAny returns true if s contains any of the substrings.
func HasAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// HasAnyFold is HasAny with ASCII and Unicode case folding.
func HasAnyFold(s string, subs ...string) bool {
	lowered := make([]string, len(subs))
	for i, sub := range subs {
		lowered[i] = strings.ToLower(sub)
	}
	return HasAny(strings.ToLower(s), lowered...)
}
