package activity

// ListOptions provides filtering options for listing activity.
type ListOptions struct {
	Type    *Type
	Subject string
	Limit   int
	Offset  int
}

// Matches reports whether an entry passes the type and subject filters.
func (o ListOptions) Matches(e Entry) bool {
	if o.Type != nil && e.Type != *o.Type {
		return false
	}
	if o.Subject != "" && e.Subject != o.Subject {
		return false
	}
	return true
}
