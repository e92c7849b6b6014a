package ledger

// AllSubjects is the filter value selecting every subject.
const AllSubjects = "all"

// Filter selects either all subjects or a single subject by name.
type Filter struct {
	subject string
}

// All selects every subject.
func All() Filter {
	return Filter{}
}

// Only selects a single subject.
func Only(subject string) Filter {
	return Filter{subject: subject}
}

// ParseFilter maps "" and "all" to All and anything else to Only. A subject
// named "" or "all" cannot be selected on its own.
func ParseFilter(s string) Filter {
	if s == "" || s == AllSubjects {
		return All()
	}
	return Only(s)
}

// IsAll reports whether the filter selects every subject.
func (f Filter) IsAll() bool {
	return f.subject == ""
}

// Subject returns the selected subject name, "" for All.
func (f Filter) Subject() string {
	return f.subject
}

func (f Filter) String() string {
	if f.IsAll() {
		return AllSubjects
	}
	return f.subject
}

// count returns the filtered count for a day.
func (f Filter) count(day Day) int {
	if f.IsAll() {
		return day.Total()
	}
	return day[f.subject]
}

// Select returns the part of a day the filter covers, or nil when that part
// is empty.
func (f Filter) Select(day Day) Day {
	if len(day) == 0 {
		return nil
	}
	if f.IsAll() {
		out := make(Day, len(day))
		for name, n := range day {
			out[name] = n
		}
		return out
	}
	n, ok := day[f.subject]
	if !ok {
		return nil
	}
	return Day{f.subject: n}
}
