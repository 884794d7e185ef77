package date

import (
	"iter"
	"slices"
)

// Number is the set of value types a History can accumulate.
type Number interface{ ~float64 | ~int }

// History stores a chronological series of values, each associated with a specific date.
// Dates are unique and the series is always sorted.
type History[T Number] struct {
	days   []Date
	values []T
}

// index returns the position of day, or the insertion point and false.
func (h *History[T]) index(day Date) (int, bool) {
	return slices.BinarySearchFunc(h.days, day, Date.Compare)
}

// AppendAdd adds q to the value at day, starting from zero.
func (h *History[T]) AppendAdd(on Date, q T) *History[T] {
	i, found := h.index(on)
	if found {
		h.values[i] += q
		return h
	}
	h.days = slices.Insert(h.days, i, on)
	h.values = slices.Insert(h.values, i, q)
	return h
}

// Get returns the value at 'day' and true or zero value and false.
func (h *History[T]) Get(day Date) (T, bool) {
	if i, found := h.index(day); found {
		return h.values[i], true
	}
	var zero T
	return zero, false
}

// Iterate returns an iterator over all unique, sorted dates from multiple histories.
func Iterate[T Number](histories ...*History[T]) iter.Seq[Date] {
	return func(yield func(Date) bool) {
		indexes := make([]int, len(histories))
		for {
			var (
				m     Date
				found bool
			)
			for i, h := range histories {
				if indexes[i] < len(h.days) {
					if on := h.days[indexes[i]]; !found || on.Before(m) {
						m, found = on, true
					}
				}
			}
			if !found {
				return
			}
			for i, h := range histories {
				if indexes[i] < len(h.days) && h.days[indexes[i]] == m {
					indexes[i]++
				}
			}
			if !yield(m) {
				return
			}
		}
	}
}
