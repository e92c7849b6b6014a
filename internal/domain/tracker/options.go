package tracker

import (
	"fmt"
	"time"
)

// RenamePolicy decides what happens to a subject's history when it is renamed.
type RenamePolicy string

const (
	// RenameMigrate moves history to the new name.
	RenameMigrate RenamePolicy = "migrate"
	// RenameDrop discards history recorded under the old name.
	RenameDrop RenamePolicy = "drop"
)

// ParseRenamePolicy validates a policy name. Empty selects RenameMigrate.
func ParseRenamePolicy(s string) (RenamePolicy, error) {
	switch RenamePolicy(s) {
	case "", RenameMigrate:
		return RenameMigrate, nil
	case RenameDrop:
		return RenameDrop, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidPolicy, s)
	}
}

// Options configures a Service.
type Options struct {
	// Location defines calendar days. Defaults to time.Local.
	Location *time.Location
	// RenamePolicy defaults to RenameMigrate.
	RenamePolicy RenamePolicy
	// Now defaults to time.Now.
	Now func() time.Time
}

func (o Options) withDefaults() Options {
	if o.Location == nil {
		o.Location = time.Local
	}
	if o.RenamePolicy == "" {
		o.RenamePolicy = RenameMigrate
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}
