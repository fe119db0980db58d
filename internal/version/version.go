// Package version compares dotted version strings for fixup gating.
//
// Versions are split on "." and compared segment by segment as integers. A
// version that is a strict prefix of another sorts first, so "4.5" < "4.5.0".
// The wildcard "@" stands for the latest revision and sorts after everything.
package version

import (
	"cmp"
	"strconv"
	"strings"

	"github.com/spachava753/compatmatrix/internal/models"
)

// Compare returns -1, 0 or +1 depending on whether a sorts before, equal to,
// or after b.
func Compare(a, b string) int {
	aw, bw := a == models.Wildcard, b == models.Wildcard
	switch {
	case aw && bw:
		return 0
	case aw:
		return 1
	case bw:
		return -1
	}

	as, bs := strings.Split(a, "."), strings.Split(b, ".")
	for i, n := 0, min(len(as), len(bs)); i < n; i++ {
		if c := compareSegment(as[i], bs[i]); c != 0 {
			return c
		}
	}
	return cmp.Compare(len(as), len(bs))
}

// AtLeast reports whether v >= floor. An empty floor admits every version.
func AtLeast(v, floor string) bool {
	return floor == "" || Compare(v, floor) >= 0
}

// Below reports whether v < ceiling. An empty ceiling admits every version.
func Below(v, ceiling string) bool {
	return ceiling == "" || Compare(v, ceiling) < 0
}

// InRange reports whether v falls in [since, before).
func InRange(v, since, before string) bool {
	return AtLeast(v, since) && Below(v, before)
}

// compareSegment compares the leading digit runs numerically, then whatever
// follows ("rc1" in "5rc1") lexically. A segment without a suffix sorts after
// one with a suffix so that "5" > "5rc1".
func compareSegment(a, b string) int {
	an, arest := splitNumeric(a)
	bn, brest := splitNumeric(b)
	if c := cmp.Compare(an, bn); c != 0 {
		return c
	}
	switch {
	case arest == brest:
		return 0
	case arest == "":
		return 1
	case brest == "":
		return -1
	}
	return strings.Compare(arest, brest)
}

func splitNumeric(s string) (uint64, string) {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	n, err := strconv.ParseUint(s[:i], 10, 64)
	if err != nil {
		return 0, s
	}
	return n, s[i:]
}
