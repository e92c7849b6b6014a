package subject

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Subject is a tracked course. Name doubles as the attendance history key.
type Subject struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Attended Count  `json:"attended"`
	Total    Count  `json:"total"`
}

// Field names an editable subject attribute.
type Field string

const (
	FieldName     Field = "name"
	FieldAttended Field = "attended"
	FieldTotal    Field = "total"
)

// ParseField validates a field name.
func ParseField(s string) (Field, error) {
	switch Field(s) {
	case FieldName, FieldAttended, FieldTotal:
		return Field(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidField, s)
	}
}

// UnmarshalJSON accepts legacy documents whose ids were numeric timestamps.
func (s *Subject) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID       json.RawMessage `json:"id"`
		Name     string          `json:"name"`
		Attended Count           `json:"attended"`
		Total    Count           `json:"total"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	id, err := decodeID(raw.ID)
	if err != nil {
		return err
	}

	*s = Subject{
		ID:       id,
		Name:     raw.Name,
		Attended: raw.Attended,
		Total:    raw.Total,
	}
	return nil
}

func decodeID(raw json.RawMessage) (string, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return "", nil
	}
	if trimmed[0] == '"' {
		var id string
		if err := json.Unmarshal(trimmed, &id); err != nil {
			return "", fmt.Errorf("decode subject id: %w", err)
		}
		return id, nil
	}
	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return "", fmt.Errorf("decode subject id: %w", err)
	}
	return n.String(), nil
}
