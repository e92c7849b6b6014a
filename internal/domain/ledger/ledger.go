package ledger

// Record adds one class for subject on the day and returns the new count.
// It does not check that the subject exists.
func (l Ledger) Record(key, subject string) int {
	day, ok := l[key]
	if !ok {
		day = Day{}
		l[key] = day
	}
	day[subject]++
	return day[subject]
}

// Remove takes one class away from subject on the day, deleting the entry at
// zero and the day when it empties. It returns the remaining count and
// whether anything was removed.
func (l Ledger) Remove(key, subject string) (int, bool) {
	day, ok := l[key]
	if !ok {
		return 0, false
	}
	n, ok := day[subject]
	if !ok {
		return 0, false
	}

	n--
	if n <= 0 {
		delete(day, subject)
		if len(day) == 0 {
			delete(l, key)
		}
		return 0, true
	}
	day[subject] = n
	return n, true
}

// PruneOrphans deletes every subject entry whose name is not in valid and
// returns how many entries were deleted.
func (l Ledger) PruneOrphans(valid map[string]struct{}) int {
	removed := 0
	for key, day := range l {
		for name := range day {
			if _, ok := valid[name]; !ok {
				delete(day, name)
				removed++
			}
		}
		if len(day) == 0 {
			delete(l, key)
		}
	}
	return removed
}

// DropSubject deletes all entries for one subject name.
func (l Ledger) DropSubject(name string) int {
	removed := 0
	for key, day := range l {
		if _, ok := day[name]; !ok {
			continue
		}
		delete(day, name)
		removed++
		if len(day) == 0 {
			delete(l, key)
		}
	}
	return removed
}

// RenameSubject moves every entry from one name to another, adding to any
// count already held by the new name. It returns the number of days moved.
func (l Ledger) RenameSubject(from, to string) int {
	if from == to {
		return 0
	}
	moved := 0
	for _, day := range l {
		n, ok := day[from]
		if !ok {
			continue
		}
		delete(day, from)
		day[to] += n
		moved++
	}
	return moved
}

// Normalize deletes counts <= 0 and empty days, restoring the ledger
// invariants on data read from storage. It returns the number of entries
// deleted.
func (l Ledger) Normalize() int {
	removed := 0
	for key, day := range l {
		for name, n := range day {
			if n <= 0 {
				delete(day, name)
				removed++
			}
		}
		if len(day) == 0 {
			delete(l, key)
		}
	}
	return removed
}
