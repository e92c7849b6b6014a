package subject

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Count is a user-entered number of classes. The zero value is unset, which
// is kept distinct from 0 but evaluates to 0 in every computation.
type Count struct {
	n   int
	set bool
}

// MaxCount is the largest count accepted. Larger input is treated as unset
// so that the 75% projections stay within int range.
const MaxCount = math.MaxInt32

// CountOf returns a set count. Negative values and values above MaxCount
// are treated as unset.
func CountOf(n int) Count {
	if n < 0 || n > MaxCount {
		return Count{}
	}
	return Count{n: n, set: true}
}

// ParseCount converts raw text input into a Count. Empty, non-numeric and
// negative input yields an unset count, as does input above MaxCount;
// fractional input is truncated.
func ParseCount(raw string) Count {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Count{}
	}
	if n, err := strconv.Atoi(s); err == nil {
		return CountOf(n)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f > MaxCount {
		return Count{}
	}
	return CountOf(int(math.Trunc(f)))
}

// Int returns the numeric value, 0 when unset.
func (c Count) Int() int {
	return c.n
}

// IsSet reports whether a value was entered.
func (c Count) IsSet() bool {
	return c.set
}

// String returns the raw form: "" when unset.
func (c Count) String() string {
	if !c.set {
		return ""
	}
	return strconv.Itoa(c.n)
}

// MarshalJSON encodes unset as "" and set values as numbers.
func (c Count) MarshalJSON() ([]byte, error) {
	if !c.set {
		return []byte(`""`), nil
	}
	return []byte(strconv.Itoa(c.n)), nil
}

// UnmarshalJSON accepts numbers, numeric strings, "" and null.
func (c *Count) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*c = Count{}
		return nil
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return fmt.Errorf("decode count: %w", err)
		}
		*c = ParseCount(s)
		return nil
	}
	var f float64
	if err := json.Unmarshal(trimmed, &f); err != nil {
		return fmt.Errorf("decode count: %w", err)
	}
	*c = ParseCount(strconv.FormatFloat(f, 'f', -1, 64))
	return nil
}
