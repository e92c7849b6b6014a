package ledger

import "sort"

// Day maps a subject name to the number of classes attended that day.
type Day map[string]int

// Ledger maps a date key (YYYY-MM-DD) to that day's attendance.
//
// A Ledger never holds an empty Day or a count <= 0; every mutating method
// prunes both before returning. The zero value is not usable; call New.
type Ledger map[string]Day

// New returns an empty ledger.
func New() Ledger {
	return Ledger{}
}

// Clone returns a deep copy.
func (l Ledger) Clone() Ledger {
	out := make(Ledger, len(l))
	for key, day := range l {
		cp := make(Day, len(day))
		for name, n := range day {
			cp[name] = n
		}
		out[key] = cp
	}
	return out
}

// Keys returns the date keys in ascending order.
func (l Ledger) Keys() []string {
	keys := make([]string, 0, len(l))
	for key := range l {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Count returns the count for a subject on a day.
func (l Ledger) Count(key, subject string) int {
	return l[key][subject]
}

// Total returns the sum of all subject counts on a day.
func (d Day) Total() int {
	sum := 0
	for _, n := range d {
		sum += n
	}
	return sum
}
