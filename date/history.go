package date

import (
	"iter"
	"slices"
	"sort"
)

// History stores a chronological series of values, each associated with a specific date.
// It ensures that dates are unique and the series is always sorted.
type History[T any] struct {
	days   []Date
	values []T
}

// Len returns the number of items in the history.
func (h *History[T]) Len() int { return len(h.days) }

// Latest returns the latest date and value in the history.
// If the history is empty, it returns zero values.
func (h *History[T]) Latest() (day Date, value T) {
	last := len(h.days) - 1
	if last < 0 {
		return Date{}, *new(T)
	}
	return h.days[last], h.values[last]
}

// chronological is a private implementation to make this history chronologically sorted.
type chronological[T any] struct{ *History[T] }

func (s chronological[T]) Less(i, j int) bool { return s.days[i].Before(s.days[j]) }

func (s chronological[T]) Swap(i, j int) {
	s.days[i], s.days[j] = s.days[j], s.days[i]
	s.values[i], s.values[j] = s.values[j], s.values[i]
}

func (h *History[T]) sort() { sort.Sort(chronological[T]{h}) }

// Append adds a point to the history.
//
// An existing value at that date is overwritten, giving priority to the last data.
func (h *History[T]) Append(on Date, v T) *History[T] {
	if i := slices.Index(h.days, on); i >= 0 {
		h.values[i] = v
		return h
	}
	h.days, h.values = append(h.days, on), append(h.values, v)
	h.sort()
	return h
}

// Delete removes the value at 'day' if present.
func (h *History[T]) Delete(day Date) {
	if i := slices.Index(h.days, day); i >= 0 {
		h.days = slices.Delete(h.days, i, i+1)
		h.values = slices.Delete(h.values, i, i+1)
	}
}

// Get returns the value at 'day' and true, or zero value and false.
func (h *History[T]) Get(day Date) (T, bool) {
	if i := slices.Index(h.days, day); i >= 0 {
		return h.values[i], true
	}
	var zero T
	return zero, false
}

// AsOf returns the value on a given day, or the most recent value before it.
// It returns the value and true if found, otherwise the zero value and false.
//
// This is the stepwise forward-fill primitive: a weekly report dated day 10
// answers for every day in [10, ...] until a newer report supersedes it.
func (h *History[T]) AsOf(day Date) (T, bool) {
	// The days slice is sorted, so we can use binary search.
	i, found := slices.BinarySearchFunc(h.days, day, func(d, t Date) int {
		if d.After(t) {
			return 1
		}
		if d.Before(t) {
			return -1
		}
		return 0
	})
	if found {
		return h.values[i], true
	}
	// Not found. `i` is the insertion index; the last entry before the
	// target date is at i-1.
	if i == 0 {
		var zero T
		return zero, false // no date on or before the given day
	}
	return h.values[i-1], true
}

// Values returns an iterator over all date/value pairs in the history, in chronological order.
func (h *History[T]) Values() iter.Seq2[Date, T] {
	return func(yield func(Date, T) bool) {
		for i, on := range h.days {
			if !yield(on, h.values[i]) {
				return
			}
		}
	}
}
