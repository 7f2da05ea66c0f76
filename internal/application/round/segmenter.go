// Package round turns round boundary markers into numbered tick intervals.
package round

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/younwookim/keyviz/internal/domain/entity"
)

// Segment pairs round_start/round_end markers into closed intervals.
//
// A start opens a pending round (a later start replaces it), an end closes
// the pending round. Ends without a pending start and a trailing start
// without an end produce nothing. Every matched pair takes the next 1-based
// number; a pair with start >= end is then dropped, leaving a gap.
func Segment(events []entity.RoundEvent) []entity.RoundInterval {
	sorted := make([]entity.RoundEvent, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Tick < sorted[j].Tick })

	var (
		out     []entity.RoundInterval
		start   entity.Tick
		pending bool
		matched int
	)

	for _, ev := range sorted {
		switch ev.Kind {
		case entity.RoundStart:
			start = ev.Tick
			pending = true
		case entity.RoundEnd:
			if !pending {
				continue
			}
			pending = false
			matched++
			if start >= ev.Tick {
				continue
			}
			out = append(out, entity.RoundInterval{
				Number:    matched,
				StartTick: start,
				EndTick:   ev.Tick,
			})
		}
	}

	return out
}

// Selector picks rounds by number
type Selector struct {
	all     bool
	numbers map[int]bool
}

// All selects every round
func All() Selector {
	return Selector{all: true}
}

// ParseSelector parses "all" or a comma separated list of round numbers
func ParseSelector(s string) (Selector, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "all") {
		return All(), nil
	}

	sel := Selector{numbers: make(map[int]bool)}
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if strings.EqualFold(part, "all") {
			return All(), nil
		}
		n, err := strconv.Atoi(part)
		if err != nil || n < 1 {
			return Selector{}, fmt.Errorf("round %q is not a positive number: %w", part, entity.ErrInvalidInput)
		}
		sel.numbers[n] = true
	}
	return sel, nil
}

// Matches reports whether round n is selected
func (s Selector) Matches(n int) bool {
	return s.all || s.numbers[n]
}

// String returns the selector in flag form
func (s Selector) String() string {
	if s.all {
		return "all"
	}
	nums := make([]int, 0, len(s.numbers))
	for n := range s.numbers {
		nums = append(nums, n)
	}
	sort.Ints(nums)
	parts := make([]string, len(nums))
	for i, n := range nums {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ",")
}

// Select keeps the intervals matched by sel, in interval order
func Select(intervals []entity.RoundInterval, sel Selector) []entity.RoundInterval {
	var out []entity.RoundInterval
	for _, r := range intervals {
		if sel.Matches(r.Number) {
			out = append(out, r)
		}
	}
	return out
}
