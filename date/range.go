package date

import "iter"

// Range represents an inclusive range of dates.
type Range struct{ From, To Date }

// NewRange returns the inclusive range [from, to].
func NewRange(from, to Date) Range { return Range{From: from, To: to} }

// LastDays returns the range covering the last n days ending at 'to' (inclusive).
func LastDays(to Date, n int) Range { return Range{From: to.Add(1 - n), To: to} }

// Contains returns true if date is included in the range (boundaries included).
func (r Range) Contains(date Date) bool { return !date.Before(r.From) && !date.After(r.To) }

// Len returns the number of calendar days in the range, 0 when the range is empty.
func (r Range) Len() int {
	if r.To.Before(r.From) {
		return 0
	}
	n := 0
	for d := r.From; !d.After(r.To); d = d.Add(1) {
		n++
	}
	return n
}

// Days returns an iterator over every calendar day in the range, in order.
func (r Range) Days() iter.Seq[Date] {
	return func(yield func(Date) bool) {
		for d := r.From; !d.After(r.To); d = d.Add(1) {
			if !yield(d) {
				return
			}
		}
	}
}

// String formats the range as "from..to".
func (r Range) String() string { return r.From.String() + ".." + r.To.String() }
