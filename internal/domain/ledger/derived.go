package ledger

// MaxLevel is the highest heatmap level; it stands for "3 or more".
const MaxLevel = 3

// DayLevel returns the heatmap level for a day: the filtered class count,
// capped at MaxLevel.
func (l Ledger) DayLevel(key string, f Filter) int {
	day, ok := l[key]
	if !ok {
		return 0
	}
	return min(f.count(day), MaxLevel)
}

// CurrentStreak counts consecutive days with attendance, walking back from
// today. An empty today ends the streak at zero.
func (l Ledger) CurrentStreak(f Filter, today string) (int, error) {
	streak := 0
	key := today
	for {
		if l.DayLevel(key, f) == 0 {
			return streak, nil
		}
		streak++
		prev, err := AddDays(key, -1)
		if err != nil {
			return 0, err
		}
		key = prev
	}
}

// TotalContributions sums filtered counts over days in [from, to]. An empty
// bound is open.
func (l Ledger) TotalContributions(f Filter, from, to string) int {
	total := 0
	for key, day := range l {
		if from != "" && key < from {
			continue
		}
		if to != "" && key > to {
			continue
		}
		total += f.count(day)
	}
	return total
}
