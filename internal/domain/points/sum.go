package points

import (
	"math"
	"math/bits"
)

// wideSum is an exact 128-bit two's complement accumulator, so totalling
// records near math.MinInt or math.MaxInt never wraps.
type wideSum struct {
	hi int64
	lo uint64
}

func wideOf(v int) wideSum {
	var s wideSum
	s.add(v)
	return s
}

func (s *wideSum) add(v int) {
	var carry uint64
	s.lo, carry = bits.Add64(s.lo, uint64(int64(v)), 0)
	s.hi += int64(v)>>63 + int64(carry)
}

func (s wideSum) less(o wideSum) bool {
	if s.hi != o.hi {
		return s.hi < o.hi
	}
	return s.lo < o.lo
}

// int returns the sum clamped to the int range.
func (s wideSum) int() int {
	switch {
	case s.less(wideOf(math.MinInt)):
		return math.MinInt
	case wideOf(math.MaxInt).less(s):
		return math.MaxInt
	}
	return int(int64(s.lo))
}
