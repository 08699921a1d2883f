// Package natsort derives sort keys for line-position tokens so that
// numeric segments compare as integers rather than strings: "9" sorts
// before "10", and "42_2" before "42_10".
package natsort

import "strings"

// padWidth is the zero-pad width for numeric segments. Line numbers up
// to 16 digits compare correctly, which is far beyond any real script.
const padWidth = 16

// Key splits a token on "_" and left-pads purely numeric segments with
// zeros, so lexicographic comparison of the result matches numeric
// comparison of the original. Non-numeric segments pass through
// unchanged; a token without underscores yields a single-segment key.
func Key(token string) []string {
	pieces := strings.Split(token, "_")
	for i, p := range pieces {
		if isDigits(p) && len(p) < padWidth {
			pieces[i] = strings.Repeat("0", padWidth-len(p)) + p
		}
	}
	return pieces
}

// Less reports whether token a sorts before token b under natural order.
func Less(a, b string) bool {
	ka, kb := Key(a), Key(b)
	for i := 0; i < len(ka) && i < len(kb); i++ {
		if ka[i] != kb[i] {
			return ka[i] < kb[i]
		}
	}
	return len(ka) < len(kb)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
